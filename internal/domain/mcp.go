package domain

// ToolDefinition describes a single MCP tool as advertised by tools/list.
// Every Trello operation the server exposes (board_get, card_create, ...)
// is published as one of these.
type ToolDefinition struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	InputSchema JSONSchema `json:"inputSchema"`
}

// ToolRequest is the params payload of a tools/call request: the tool name
// plus its arguments.
type ToolRequest struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// ToolResponse is the result of a tool invocation. Trello API payloads are
// rendered as text content blocks; IsError marks tool-level failures.
type ToolResponse struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

// ContentBlock is one piece of tool output. This server emits "text" blocks
// carrying indented JSON, plus a summary block for search results.
type ContentBlock struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	Resource *Resource `json:"resource,omitempty"`
}

// Resource is an MCP resource reference.
type Resource struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
}

// JSONSchema models the object subset of JSON Schema that tool argument
// validation needs.
type JSONSchema struct {
	Type       string                 `json:"type"`
	Properties map[string]interface{} `json:"properties,omitempty"`
	Required   []string               `json:"required,omitempty"`
}
