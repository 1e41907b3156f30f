package application

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"trello-mcp-server/internal/domain"
)

// setupMockWorkspaceServer creates a mock Trello server covering the
// organization routes plus the existence and membership checks that the
// destructive operations run first.
func setupMockWorkspaceServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == "GET" && r.URL.Path == "/organizations/"+testWorkspaceID && r.URL.Query().Get("fields") == "id":
			w.Write([]byte(`{"id":"` + testWorkspaceID + `"}`))

		case r.Method == "GET" && r.URL.Path == "/organizations/"+testWorkspaceID+"/members/me":
			json.NewEncoder(w).Encode(domain.Member{
				ID:       testMemberID,
				Username: "testuser",
			})

		case r.Method == "GET" && r.URL.Path == "/organizations/"+testWorkspaceID:
			json.NewEncoder(w).Encode(domain.Organization{
				ID:          testWorkspaceID,
				Name:        "eng_team",
				DisplayName: "Engineering Team",
			})

		case r.Method == "GET" && r.URL.Path == "/members/me/organizations":
			json.NewEncoder(w).Encode([]domain.Organization{
				{ID: testWorkspaceID, Name: "eng_team", DisplayName: "Engineering Team"},
			})

		case r.Method == "POST" && r.URL.Path == "/organizations":
			json.NewEncoder(w).Encode(domain.Organization{
				ID:          testWorkspaceID,
				Name:        r.URL.Query().Get("name"),
				DisplayName: r.URL.Query().Get("displayName"),
			})

		case r.Method == "DELETE" && r.URL.Path == "/organizations/"+testWorkspaceID:
			w.Write([]byte(`{}`))

		case r.Method == "POST" && r.URL.Path == "/organizations/"+testWorkspaceID+"/exports":
			json.NewEncoder(w).Encode(domain.OrganizationExport{
				ID:             "export1",
				IDOrganization: testWorkspaceID,
				State:          "pending",
			})

		case r.Method == "GET" && r.URL.Path == "/organizations/"+testWorkspaceID+"/exports":
			json.NewEncoder(w).Encode([]domain.OrganizationExport{
				{ID: "export1", IDOrganization: testWorkspaceID, State: "complete"},
			})

		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{
				"error": "Not found",
			})
		}
	}))
}

func TestWorkspaceHandler_ToolName(t *testing.T) {
	handler := NewWorkspaceHandler(nil, nil)
	if handler.ToolName() != "workspace" {
		t.Errorf("expected tool name 'workspace', got '%s'", handler.ToolName())
	}
}

func TestWorkspaceHandler_ListTools(t *testing.T) {
	handler := NewWorkspaceHandler(nil, nil)
	tools := handler.ListTools()

	if len(tools) != 11 {
		t.Fatalf("expected 11 tools, got %d", len(tools))
	}
}

func TestWorkspaceHandler_HandleGet(t *testing.T) {
	server := setupMockWorkspaceServer()
	defer server.Close()

	handler := NewWorkspaceHandler(newTestServices(server.URL), &mockResponseMapper{})

	req := &domain.ToolRequest{
		Name: ToolWorkspaceGet,
		Arguments: map[string]interface{}{
			"workspace_id": testWorkspaceID,
		},
	}

	resp, err := handler.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !contains(resp.Content[0].Text, "Engineering Team") {
		t.Errorf("expected response to contain workspace display name, got: %s", resp.Content[0].Text)
	}
}

func TestWorkspaceHandler_HandleList(t *testing.T) {
	server := setupMockWorkspaceServer()
	defer server.Close()

	handler := NewWorkspaceHandler(newTestServices(server.URL), &mockResponseMapper{})

	req := &domain.ToolRequest{
		Name:      ToolWorkspaceList,
		Arguments: map[string]interface{}{},
	}

	resp, err := handler.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !contains(resp.Content[0].Text, testWorkspaceID) {
		t.Errorf("expected response to contain workspace ID, got: %s", resp.Content[0].Text)
	}
}

func TestWorkspaceHandler_HandleCreate(t *testing.T) {
	server := setupMockWorkspaceServer()
	defer server.Close()

	handler := NewWorkspaceHandler(newTestServices(server.URL), &mockResponseMapper{})

	req := &domain.ToolRequest{
		Name: ToolWorkspaceCreate,
		Arguments: map[string]interface{}{
			"display_name": "Engineering Team",
			"name":         "eng_team",
		},
	}

	resp, err := handler.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !contains(resp.Content[0].Text, "eng_team") {
		t.Errorf("expected response to contain workspace name, got: %s", resp.Content[0].Text)
	}
}

func TestWorkspaceHandler_HandleCreate_InvalidName(t *testing.T) {
	server := setupMockWorkspaceServer()
	defer server.Close()

	handler := NewWorkspaceHandler(newTestServices(server.URL), domain.NewResponseMapper())

	req := &domain.ToolRequest{
		Name: ToolWorkspaceCreate,
		Arguments: map[string]interface{}{
			"display_name": "Engineering Team",
			"name":         "Eng Team!",
		},
	}

	_, err := handler.Handle(context.Background(), req)
	if err == nil {
		t.Fatal("expected error for invalid workspace name, got nil")
	}

	domainErr, ok := err.(*domain.Error)
	if !ok {
		t.Fatalf("expected domain.Error, got %T", err)
	}

	if domainErr.Code != domain.InvalidParams {
		t.Errorf("expected error code %d, got %d", domain.InvalidParams, domainErr.Code)
	}
}

func TestWorkspaceHandler_HandleDelete(t *testing.T) {
	server := setupMockWorkspaceServer()
	defer server.Close()

	handler := NewWorkspaceHandler(newTestServices(server.URL), &mockResponseMapper{})

	req := &domain.ToolRequest{
		Name: ToolWorkspaceDelete,
		Arguments: map[string]interface{}{
			"workspace_id": testWorkspaceID,
		},
	}

	resp, err := handler.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !contains(resp.Content[0].Text, "deleted successfully") {
		t.Errorf("expected success message, got: %s", resp.Content[0].Text)
	}
}

func TestWorkspaceHandler_HandleCreateExport(t *testing.T) {
	server := setupMockWorkspaceServer()
	defer server.Close()

	handler := NewWorkspaceHandler(newTestServices(server.URL), &mockResponseMapper{})

	req := &domain.ToolRequest{
		Name: ToolWorkspaceCreateExport,
		Arguments: map[string]interface{}{
			"workspace_id": testWorkspaceID,
			"attachments":  false,
		},
	}

	resp, err := handler.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !contains(resp.Content[0].Text, "pending") {
		t.Errorf("expected response to contain export state, got: %s", resp.Content[0].Text)
	}
}

func TestWorkspaceHandler_HandleListExports(t *testing.T) {
	server := setupMockWorkspaceServer()
	defer server.Close()

	handler := NewWorkspaceHandler(newTestServices(server.URL), &mockResponseMapper{})

	req := &domain.ToolRequest{
		Name: ToolWorkspaceListExports,
		Arguments: map[string]interface{}{
			"workspace_id": testWorkspaceID,
		},
	}

	resp, err := handler.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !contains(resp.Content[0].Text, "complete") {
		t.Errorf("expected response to contain export state, got: %s", resp.Content[0].Text)
	}
}

func TestWorkspaceHandler_HandleUnknownTool(t *testing.T) {
	handler := NewWorkspaceHandler(nil, &mockResponseMapper{})

	req := &domain.ToolRequest{
		Name:      "workspace_archive",
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
