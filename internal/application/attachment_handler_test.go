package application

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"trello-mcp-server/internal/domain"
)

const testAttachmentID = "e07f1f77bcf86cd7994390aa"

// setupMockAttachmentServer creates a mock Trello server covering the
// attachment routes and the card existence probe the write operations run
// first.
func setupMockAttachmentServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch {
		// Card existence probe
		case r.Method == "GET" && r.URL.Path == "/cards/"+testCardID && r.URL.Query().Get("fields") == "id":
			w.Write([]byte(`{"id":"` + testCardID + `"}`))

		case r.Method == "GET" && r.URL.Path == "/cards/"+testCardID+"/attachments":
			json.NewEncoder(w).Encode([]domain.Attachment{
				{
					ID:   testAttachmentID,
					Name: "design.png",
					URL:  "https://example.com/design.png",
				},
			})

		case r.Method == "GET" && r.URL.Path == "/cards/"+testCardID+"/attachments/"+testAttachmentID:
			json.NewEncoder(w).Encode(domain.Attachment{
				ID:   testAttachmentID,
				Name: "design.png",
				URL:  "https://example.com/design.png",
			})

		case r.Method == "POST" && r.URL.Path == "/cards/"+testCardID+"/attachments":
			json.NewEncoder(w).Encode(domain.Attachment{
				ID:   testAttachmentID,
				Name: r.URL.Query().Get("name"),
				URL:  r.URL.Query().Get("url"),
			})

		case r.Method == "DELETE" && r.URL.Path == "/cards/"+testCardID+"/attachments/"+testAttachmentID:
			w.Write([]byte(`{"limits":{}}`))

		// Set or clear the cover
		case r.Method == "PUT" && r.URL.Path == "/cards/"+testCardID:
			json.NewEncoder(w).Encode(domain.Card{
				ID:   testCardID,
				Name: "Fix login bug",
			})

		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{
				"error": "Not found",
			})
		}
	}))
}

func TestAttachmentHandler_ToolName(t *testing.T) {
	handler := NewAttachmentHandler(nil, nil)
	if handler.ToolName() != "attachment" {
		t.Errorf("expected tool name 'attachment', got '%s'", handler.ToolName())
	}
}

func TestAttachmentHandler_ListTools(t *testing.T) {
	handler := NewAttachmentHandler(nil, nil)
	tools := handler.ListTools()

	if len(tools) != 5 {
		t.Fatalf("expected 5 tools, got %d", len(tools))
	}
}

func TestAttachmentHandler_HandleGetAll(t *testing.T) {
	server := setupMockAttachmentServer()
	defer server.Close()

	handler := NewAttachmentHandler(newTestServices(server.URL), &mockResponseMapper{})

	req := &domain.ToolRequest{
		Name: ToolAttachmentGetAll,
		Arguments: map[string]interface{}{
			"card_id": testCardID,
		},
	}

	resp, err := handler.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !contains(resp.Content[0].Text, "design.png") {
		t.Errorf("expected response to contain attachment name, got: %s", resp.Content[0].Text)
	}
}

func TestAttachmentHandler_HandleAddURL(t *testing.T) {
	server := setupMockAttachmentServer()
	defer server.Close()

	handler := NewAttachmentHandler(newTestServices(server.URL), &mockResponseMapper{})

	req := &domain.ToolRequest{
		Name: ToolAttachmentAddURL,
		Arguments: map[string]interface{}{
			"card_id": testCardID,
			"url":     "https://example.com/spec.pdf",
			"name":    "Spec",
		},
	}

	resp, err := handler.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !contains(resp.Content[0].Text, "https://example.com/spec.pdf") {
		t.Errorf("expected response to contain attached URL, got: %s", resp.Content[0].Text)
	}

	if !contains(resp.Content[0].Text, "Spec") {
		t.Errorf("expected response to contain attachment name, got: %s", resp.Content[0].Text)
	}
}

func TestAttachmentHandler_HandleAddURL_InvalidURL(t *testing.T) {
	server := setupMockAttachmentServer()
	defer server.Close()

	handler := NewAttachmentHandler(newTestServices(server.URL), domain.NewResponseMapper())

	req := &domain.ToolRequest{
		Name: ToolAttachmentAddURL,
		Arguments: map[string]interface{}{
			"card_id": testCardID,
			"url":     "ftp://example.com/spec.pdf",
		},
	}

	_, err := handler.Handle(context.Background(), req)
	if err == nil {
		t.Fatal("expected error for invalid URL, got nil")
	}

	domainErr, ok := err.(*domain.Error)
	if !ok {
		t.Fatalf("expected domain.Error, got %T", err)
	}

	if domainErr.Code != domain.InvalidParams {
		t.Errorf("expected error code %d, got %d", domain.InvalidParams, domainErr.Code)
	}
}

func TestAttachmentHandler_HandleGet_MissingAttachmentID(t *testing.T) {
	server := setupMockAttachmentServer()
	defer server.Close()

	handler := NewAttachmentHandler(newTestServices(server.URL), &mockResponseMapper{})

	req := &domain.ToolRequest{
		Name: ToolAttachmentGet,
		Arguments: map[string]interface{}{
			"card_id": testCardID,
		},
	}

	_, err := handler.Handle(context.Background(), req)
	if err == nil {
		t.Fatal("expected error for missing attachment_id, got nil")
	}

	domainErr, ok := err.(*domain.Error)
	if !ok {
		t.Fatalf("expected domain.Error, got %T", err)
	}

	if domainErr.Code != domain.InvalidParams {
		t.Errorf("expected error code %d, got %d", domain.InvalidParams, domainErr.Code)
	}
}

func TestAttachmentHandler_HandleDelete(t *testing.T) {
	server := setupMockAttachmentServer()
	defer server.Close()

	handler := NewAttachmentHandler(newTestServices(server.URL), &mockResponseMapper{})

	req := &domain.ToolRequest{
		Name: ToolAttachmentDelete,
		Arguments: map[string]interface{}{
			"card_id":       testCardID,
			"attachment_id": testAttachmentID,
		},
	}

	resp, err := handler.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !contains(resp.Content[0].Text, "deleted from card") {
		t.Errorf("expected success message, got: %s", resp.Content[0].Text)
	}
}

func TestAttachmentHandler_HandleSetCover(t *testing.T) {
	server := setupMockAttachmentServer()
	defer server.Close()

	handler := NewAttachmentHandler(newTestServices(server.URL), &mockResponseMapper{})

	req := &domain.ToolRequest{
		Name: ToolAttachmentSetCover,
		Arguments: map[string]interface{}{
			"card_id":       testCardID,
			"attachment_id": testAttachmentID,
		},
	}

	resp, err := handler.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !contains(resp.Content[0].Text, testCardID) {
		t.Errorf("expected response to contain the card, got: %s", resp.Content[0].Text)
	}
}

func TestAttachmentHandler_HandleUnknownTool(t *testing.T) {
	handler := NewAttachmentHandler(nil, &mockResponseMapper{})

	req := &domain.ToolRequest{
		Name:      "attachment_upload",
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
