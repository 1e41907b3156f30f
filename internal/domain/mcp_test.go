package domain

import (
	"encoding/json"
	"reflect"
	"testing"
)

// assertJSONEqual marshals v and compares it to want structurally, so map
// key ordering cannot break the comparison.
func assertJSONEqual(t *testing.T, v interface{}, want string) {
	t.Helper()

	got, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	var gotMap, wantMap interface{}
	if err := json.Unmarshal(got, &gotMap); err != nil {
		t.Fatalf("json.Unmarshal(got) error = %v", err)
	}
	if err := json.Unmarshal([]byte(want), &wantMap); err != nil {
		t.Fatalf("json.Unmarshal(want) error = %v", err)
	}
	if !reflect.DeepEqual(gotMap, wantMap) {
		t.Errorf("json.Marshal() = %s, want %s", string(got), want)
	}
}

// TestToolDefinitionWireFormat checks the tools/list entry format, schema
// included, on a realistic board_get definition.
func TestToolDefinitionWireFormat(t *testing.T) {
	def := ToolDefinition{
		Name:        "board_get",
		Description: "Get a Trello board by ID",
		InputSchema: JSONSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"board_id": map[string]interface{}{
					"type":        "string",
					"description": "The board ID (24-character hex string)",
				},
			},
			Required: []string{"board_id"},
		},
	}
	assertJSONEqual(t, def,
		`{"name":"board_get","description":"Get a Trello board by ID","inputSchema":{"type":"object","properties":{"board_id":{"description":"The board ID (24-character hex string)","type":"string"}},"required":["board_id"]}}`)

	// A schema with no properties serializes to just its type.
	bare := ToolDefinition{
		Name:        "member_get",
		Description: "Get the authenticated member",
		InputSchema: JSONSchema{Type: "object"},
	}
	assertJSONEqual(t, bare,
		`{"name":"member_get","description":"Get the authenticated member","inputSchema":{"type":"object"}}`)
}

// TestToolRequestWireFormat checks tools/call params round-trip, including
// nested auth arguments the credential extraction path relies on.
func TestToolRequestWireFormat(t *testing.T) {
	req := ToolRequest{
		Name: "card_create",
		Arguments: map[string]interface{}{
			"list_id": "507f191e810c19729de860ea",
			"name":    "Fix login bug",
			"auth": map[string]interface{}{
				"api_key": "key",
				"token":   "token",
			},
		},
	}
	assertJSONEqual(t, req,
		`{"name":"card_create","arguments":{"list_id":"507f191e810c19729de860ea","name":"Fix login bug","auth":{"api_key":"key","token":"token"}}}`)

	var decoded ToolRequest
	payload := `{"name":"board_get","arguments":{"board_id":"507f1f77bcf86cd799439011"}}`
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if decoded.Name != "board_get" {
		t.Errorf("decoded.Name = %s, want board_get", decoded.Name)
	}
	if decoded.Arguments["board_id"] != "507f1f77bcf86cd799439011" {
		t.Errorf("decoded board_id = %v", decoded.Arguments["board_id"])
	}
}

// TestToolResponseWireFormat covers the content block shapes the handlers
// emit: plain text, multiple blocks, resource references and tool errors.
func TestToolResponseWireFormat(t *testing.T) {
	tests := []struct {
		name     string
		response ToolResponse
		want     string
	}{
		{
			name: "single text block",
			response: ToolResponse{
				Content: []ContentBlock{{Type: "text", Text: "Board retrieved successfully"}},
			},
			want: `{"content":[{"type":"text","text":"Board retrieved successfully"}]}`,
		},
		{
			name: "multiple text blocks",
			response: ToolResponse{
				Content: []ContentBlock{
					{Type: "text", Text: "Found 2 cards:"},
					{Type: "text", Text: "Fix login bug"},
					{Type: "text", Text: "Write release notes"},
				},
			},
			want: `{"content":[{"type":"text","text":"Found 2 cards:"},{"type":"text","text":"Fix login bug"},{"type":"text","text":"Write release notes"}]}`,
		},
		{
			name: "resource block",
			response: ToolResponse{
				Content: []ContentBlock{{
					Type: "resource",
					Resource: &Resource{
						URI:      "trello://card/5f9a8b7c6d5e4f3a2b1c0d9e",
						MimeType: "application/json",
						Text:     `{"id":"5f9a8b7c6d5e4f3a2b1c0d9e"}`,
					},
				}},
			},
			want: `{"content":[{"type":"resource","resource":{"uri":"trello://card/5f9a8b7c6d5e4f3a2b1c0d9e","mimeType":"application/json","text":"{\"id\":\"5f9a8b7c6d5e4f3a2b1c0d9e\"}"}}]}`,
		},
		{
			name: "tool error",
			response: ToolResponse{
				Content: []ContentBlock{{Type: "text", Text: "Error: Card not found"}},
				IsError: true,
			},
			want: `{"content":[{"type":"text","text":"Error: Card not found"}],"isError":true}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertJSONEqual(t, tt.response, tt.want)
		})
	}
}

// TestToolResponseDecoding checks that responses parse back from the wire,
// which the integration tests depend on.
func TestToolResponseDecoding(t *testing.T) {
	var resp ToolResponse
	payload := `{"content":[{"type":"text","text":"Error occurred"}],"isError":true}`
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if !resp.IsError {
		t.Error("expected IsError to survive decoding")
	}
	if len(resp.Content) != 1 || resp.Content[0].Text != "Error occurred" {
		t.Errorf("unexpected content: %+v", resp.Content)
	}

	if err := json.Unmarshal([]byte(`{"content":}`), &resp); err == nil {
		t.Error("expected error for truncated JSON")
	}
}

// TestMCPOmitEmptyContract pins the omitempty behavior clients are
// sensitive to: isError absent on success, resource absent on text blocks,
// schema properties absent when empty.
func TestMCPOmitEmptyContract(t *testing.T) {
	decode := func(v interface{}) map[string]interface{} {
		t.Helper()
		data, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("json.Marshal() error = %v", err)
		}
		var m map[string]interface{}
		if err := json.Unmarshal(data, &m); err != nil {
			t.Fatalf("json.Unmarshal() error = %v", err)
		}
		return m
	}

	success := decode(ToolResponse{Content: []ContentBlock{{Type: "text", Text: "ok"}}})
	if _, ok := success["isError"]; ok {
		t.Error("ToolResponse should omit 'isError' when false")
	}

	failure := decode(ToolResponse{Content: []ContentBlock{{Type: "text", Text: "no"}}, IsError: true})
	if _, ok := failure["isError"]; !ok {
		t.Error("ToolResponse should include 'isError' when true")
	}

	textBlock := decode(ContentBlock{Type: "text", Text: "hello"})
	if _, ok := textBlock["resource"]; ok {
		t.Error("ContentBlock should omit 'resource' when nil")
	}

	schema := decode(JSONSchema{Type: "object"})
	if _, ok := schema["properties"]; ok {
		t.Error("JSONSchema should omit 'properties' when nil")
	}
	if _, ok := schema["required"]; ok {
		t.Error("JSONSchema should omit 'required' when nil")
	}
}
