package domain

// ResponseMapper converts API responses to MCP tool responses.
// This interface is responsible for transforming Trello API payloads into
// MCP-compliant format that can be consumed by MCP clients.
type ResponseMapper interface {
	// MapToToolResponse converts an API response to MCP format.
	// The apiResponse parameter should be the deserialized JSON response
	// from the Trello API. Returns an error if transformation fails.
	MapToToolResponse(apiResponse interface{}) (*ToolResponse, error)

	// MapError converts a Trello client or validation error to MCP error
	// format, mapping the error taxonomy to JSON-RPC error codes.
	MapError(err error) *Error
}
