package application

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"trello-mcp-server/internal/domain"
)

// setupMockBatchServer creates a mock Trello server for the /batch route.
// It echoes the requested routes back so tests can assert the joined query.
func setupMockBatchServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if r.Method == "GET" && r.URL.Path == "/batch" {
			if r.URL.Query().Get("urls") != "/boards/"+testBoardID+",/cards/"+testCardID {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error":"unexpected urls"}`))
				return
			}
			w.Write([]byte(`[{"200":{"id":"` + testBoardID + `"}},{"200":{"id":"` + testCardID + `"}}]`))
			return
		}

		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Not found"}`))
	}))
}

func TestBatchHandler_ToolName(t *testing.T) {
	handler := NewBatchHandler(nil, nil)
	if handler.ToolName() != "batch" {
		t.Errorf("expected tool name 'batch', got '%s'", handler.ToolName())
	}
}

func TestBatchHandler_ListTools(t *testing.T) {
	handler := NewBatchHandler(nil, nil)
	tools := handler.ListTools()

	if len(tools) != 1 {
		t.Fatalf("expected 1 tool, got %d", len(tools))
	}

	if tools[0].Name != ToolBatchGet {
		t.Errorf("expected tool '%s', got '%s'", ToolBatchGet, tools[0].Name)
	}
}

func TestBatchHandler_HandleGet(t *testing.T) {
	server := setupMockBatchServer()
	defer server.Close()

	handler := NewBatchHandler(newTestServices(server.URL), &mockResponseMapper{})

	req := &domain.ToolRequest{
		Name: ToolBatchGet,
		Arguments: map[string]interface{}{
			"urls": []interface{}{
				"/boards/" + testBoardID,
				"/cards/" + testCardID,
			},
		},
	}

	resp, err := handler.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !contains(resp.Content[0].Text, testBoardID) {
		t.Errorf("expected response to contain first batch result, got: %s", resp.Content[0].Text)
	}

	if !contains(resp.Content[0].Text, testCardID) {
		t.Errorf("expected response to contain second batch result, got: %s", resp.Content[0].Text)
	}
}

func TestBatchHandler_HandleGet_AbsoluteURL(t *testing.T) {
	server := setupMockBatchServer()
	defer server.Close()

	handler := NewBatchHandler(newTestServices(server.URL), domain.NewResponseMapper())

	req := &domain.ToolRequest{
		Name: ToolBatchGet,
		Arguments: map[string]interface{}{
			"urls": []interface{}{"https://api.trello.com/1/boards/" + testBoardID},
		},
	}

	_, err := handler.Handle(context.Background(), req)
	if err == nil {
		t.Fatal("expected error for absolute URL, got nil")
	}

	domainErr, ok := err.(*domain.Error)
	if !ok {
		t.Fatalf("expected domain.Error, got %T", err)
	}

	if domainErr.Code != domain.InvalidParams {
		t.Errorf("expected error code %d, got %d", domain.InvalidParams, domainErr.Code)
	}
}

func TestBatchHandler_HandleGet_MissingURLs(t *testing.T) {
	server := setupMockBatchServer()
	defer server.Close()

	handler := NewBatchHandler(newTestServices(server.URL), &mockResponseMapper{})

	req := &domain.ToolRequest{
		Name:      ToolBatchGet,
		Arguments: map[string]interface{}{},
	}

	_, err := handler.Handle(context.Background(), req)
	if err == nil {
		t.Fatal("expected error for missing urls, got nil")
	}

	domainErr, ok := err.(*domain.Error)
	if !ok {
		t.Fatalf("expected domain.Error, got %T", err)
	}

	if domainErr.Code != domain.InvalidParams {
		t.Errorf("expected error code %d, got %d", domain.InvalidParams, domainErr.Code)
	}
}

func TestBatchHandler_HandleUnknownTool(t *testing.T) {
	handler := NewBatchHandler(nil, &mockResponseMapper{})

	req := &domain.ToolRequest{
		Name:      "batch_post",
		Arguments: map[string]interface{}{},
	}

	_, err := handler.Handle(context.Background(), req)
	if err == nil {
		t.Fatal("expected error for unknown tool, got nil")
	}

	domainErr, ok := err.(*domain.Error)
	if !ok {
		t.Fatalf("expected domain.Error, got %T", err)
	}

	if domainErr.Code != domain.MethodNotFound {
		t.Errorf("expected error code %d, got %d", domain.MethodNotFound, domainErr.Code)
	}
}
