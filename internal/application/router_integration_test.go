package application

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"trello-mcp-server/internal/domain"
	"trello-mcp-server/internal/infrastructure"
)

// newTestHandlers builds the full handler set backed by the given services.
func newTestHandlers(services *infrastructure.Services, mapper domain.ResponseMapper) []domain.ToolHandler {
	return []domain.ToolHandler{
		NewBoardHandler(services, mapper),
		NewListHandler(services, mapper),
		NewCardHandler(services, mapper),
		NewChecklistHandler(services, mapper),
		NewLabelHandler(services, mapper),
		NewCommentHandler(services, mapper),
		NewAttachmentHandler(services, mapper),
		NewMemberHandler(services, mapper),
		NewWorkspaceHandler(services, mapper),
		NewWebhookHandler(services, mapper),
		NewFieldHandler(services, mapper),
		NewSearchHandler(services, mapper),
		NewBatchHandler(services, mapper),
	}
}

// Routing through the full handler set against a stub Trello API exercises the
// whole request path, not just prefix matching.
func TestRouterWithRealHandlers(t *testing.T) {
	// One mock Trello server backs every handler
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == "GET" && r.URL.Path == "/boards/"+testBoardID:
			json.NewEncoder(w).Encode(domain.Board{ID: testBoardID, Name: "Sprint Board"})
		case r.Method == "GET" && r.URL.Path == "/cards/"+testCardID:
			json.NewEncoder(w).Encode(domain.Card{ID: testCardID, Name: "Fix login bug", IDList: testListID})
		case r.Method == "GET" && r.URL.Path == "/members/me":
			json.NewEncoder(w).Encode(domain.Member{ID: testMemberID, Username: "testuser"})
		case r.Method == "GET" && r.URL.Path == "/batch":
			json.NewEncoder(w).Encode([]domain.BatchResponse{
				{OK: map[string]interface{}{"id": testBoardID}},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "Not found"})
		}
	}))
	defer server.Close()

	services := newTestServices(server.URL)
	mapper := domain.NewResponseMapper()
	router := NewRequestRouter(newTestHandlers(services, mapper)...)

	ctx := context.Background()

	// One representative tool per resource kind
	testCases := []struct {
		name     string
		toolName string
		args     map[string]interface{}
	}{
		{
			name:     "Board get",
			toolName: "board_get",
			args:     map[string]interface{}{"board_id": testBoardID},
		},
		{
			name:     "Card get",
			toolName: "card_get",
			args:     map[string]interface{}{"card_id": testCardID},
		},
		{
			name:     "Member get",
			toolName: "member_get",
			args:     map[string]interface{}{},
		},
		{
			name:     "Batch get",
			toolName: "batch_get",
			args:     map[string]interface{}{"urls": []interface{}{"/boards/" + testBoardID}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := &domain.ToolRequest{
				Name:      tc.toolName,
				Arguments: tc.args,
			}

			resp, err := router.Route(ctx, req)
			if err != nil {
				t.Fatalf("Route() error = %v", err)
			}
			if resp == nil || len(resp.Content) == 0 {
				t.Fatal("Route() returned empty response")
			}
			if resp.Content[0].Type != "text" {
				t.Errorf("content type = %q, want text", resp.Content[0].Type)
			}
			if resp.Content[0].Text == "" {
				t.Error("content text is empty")
			}
		})
	}
}

// Tool discovery aggregates the definitions of every registered handler.
func TestRouterToolDiscovery(t *testing.T) {
	// Discovery never touches the network, so any base URL works
	services := newTestServices("http://localhost")
	mapper := domain.NewResponseMapper()
	router := NewRequestRouter(newTestHandlers(services, mapper)...)

	allTools := router.ListAllTools()
	if len(allTools) != 80 {
		t.Errorf("ListAllTools() returned %d tools, want 80", len(allTools))
	}

	// Group by handler prefix
	toolCounts := make(map[string]int)
	for _, tool := range allTools {
		prefix := router.extractHandlerName(tool.Name)
		toolCounts[prefix]++
	}

	wantHandlers := []string{
		"board", "list", "card", "checklist", "label", "comment",
		"attachment", "member", "workspace", "webhook", "field",
		"search", "batch",
	}
	for _, handler := range wantHandlers {
		if toolCounts[handler] == 0 {
			t.Errorf("no tools contributed by the %s handler", handler)
		}
	}

	for _, tool := range allTools {
		if tool.Name == "" {
			t.Error("tool with empty name")
		}
		if tool.Description == "" {
			t.Errorf("tool %s has no description", tool.Name)
		}
		if tool.InputSchema.Type == "" {
			t.Errorf("tool %s has no input schema type", tool.Name)
		}
	}
}

// Unroutable names fail before any handler runs, with exact error text.
func TestRouterErrorHandling(t *testing.T) {
	services := newTestServices("http://localhost")
	mapper := domain.NewResponseMapper()
	boardHandler := NewBoardHandler(services, mapper)

	router := NewRequestRouter(boardHandler)
	ctx := context.Background()

	testCases := []struct {
		name     string
		toolName string
		wantErr  string
	}{
		{
			name:     "no registered handler",
			toolName: "unknown_tool",
			wantErr:  "unknown tool: unknown_tool (no handler registered for 'unknown')",
		},
		{
			name:     "no underscore separator",
			toolName: "invalidtool",
			wantErr:  "invalid tool name format: invalidtool (expected format: <handler>_<operation>)",
		},
		{
			name:     "empty tool name",
			toolName: "",
			wantErr:  "invalid tool name format:  (expected format: <handler>_<operation>)",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := &domain.ToolRequest{
				Name:      tc.toolName,
				Arguments: map[string]interface{}{},
			}

			resp, err := router.Route(ctx, req)
			if err == nil {
				t.Fatal("Route() error = nil, want error")
			}
			if resp != nil {
				t.Errorf("Route() response = %v, want nil", resp)
			}
			if err.Error() != tc.wantErr {
				t.Errorf("error = %q, want %q", err.Error(), tc.wantErr)
			}
		})
	}
}
