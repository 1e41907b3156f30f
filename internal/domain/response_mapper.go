package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// DefaultResponseMapper is the default implementation of ResponseMapper.
// It converts Trello API payloads to MCP-compliant tool responses.
type DefaultResponseMapper struct{}

// NewResponseMapper creates a new instance of DefaultResponseMapper.
func NewResponseMapper() ResponseMapper {
	return &DefaultResponseMapper{}
}

// MapToToolResponse converts an API response to MCP format.
// The apiResponse parameter should be a deserialized Trello payload (a
// domain record, a slice of records, or a generic map).
func (m *DefaultResponseMapper) MapToToolResponse(apiResponse interface{}) (*ToolResponse, error) {
	if apiResponse == nil {
		return &ToolResponse{
			Content: []ContentBlock{
				{
					Type: "text",
					Text: "{}",
				},
			},
		}, nil
	}

	// Convert the response to JSON
	jsonBytes, err := json.MarshalIndent(apiResponse, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal API response: %w", err)
	}

	// Create a text content block with the JSON response
	contentBlock := ContentBlock{
		Type: "text",
		Text: string(jsonBytes),
	}

	// Search responses get a summary line so clients see match counts
	// without parsing the payload
	summary := extractSearchSummary(apiResponse)
	if summary != "" {
		return &ToolResponse{
			Content: []ContentBlock{
				contentBlock,
				{
					Type: "text",
					Text: summary,
				},
			},
		}, nil
	}

	return &ToolResponse{
		Content: []ContentBlock{contentBlock},
	}, nil
}

// extractSearchSummary builds a match-count line for search responses.
// Returns an empty string for everything else.
func extractSearchSummary(apiResponse interface{}) string {
	var results *SearchResults

	switch v := apiResponse.(type) {
	case *SearchResults:
		results = v
	case SearchResults:
		results = &v
	default:
		return ""
	}

	return fmt.Sprintf("\nSearch matched %d cards, %d boards, %d members, %d workspaces",
		len(results.Cards), len(results.Boards), len(results.Members), len(results.Organizations))
}

// MapError converts a Trello client or validation error to MCP error format.
// Every member of the error taxonomy maps to a fixed JSON-RPC code; the
// typed fields travel in the data payload so clients can react without
// parsing message text.
func (m *DefaultResponseMapper) MapError(err error) *Error {
	if err == nil {
		return nil
	}

	// Already a protocol error
	var protocolErr *Error
	if errors.As(err, &protocolErr) {
		return protocolErr
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return &Error{
			Code:    InvalidParams,
			Message: "Invalid parameters",
			Data:    map[string]interface{}{"message": validationErr.Message},
		}
	}

	var badRequestErr *BadRequestError
	if errors.As(err, &badRequestErr) {
		return &Error{
			Code:    InvalidParams,
			Message: "Bad request - invalid parameters",
			Data:    map[string]interface{}{"message": badRequestErr.Message},
		}
	}

	var unauthorizedErr *UnauthorizedError
	if errors.As(err, &unauthorizedErr) {
		return &Error{
			Code:    AuthenticationError,
			Message: "Authentication failed",
			Data:    map[string]interface{}{"message": unauthorizedErr.Error()},
		}
	}

	var forbiddenErr *ForbiddenError
	if errors.As(err, &forbiddenErr) {
		return &Error{
			Code:    AuthenticationError,
			Message: "Access forbidden - insufficient permissions",
			Data: map[string]interface{}{
				"resourceType": forbiddenErr.ResourceType,
				"resourceId":   forbiddenErr.ResourceID,
				"action":       forbiddenErr.Action,
				"message":      forbiddenErr.Error(),
			},
		}
	}

	var notFoundErr *NotFoundError
	if errors.As(err, &notFoundErr) {
		return &Error{
			Code:    TrelloAPIError,
			Message: "Resource not found",
			Data: map[string]interface{}{
				"resourceType": notFoundErr.ResourceType,
				"resourceId":   notFoundErr.ResourceID,
				"message":      notFoundErr.Error(),
			},
		}
	}

	var conflictErr *ConflictError
	if errors.As(err, &conflictErr) {
		return &Error{
			Code:    TrelloAPIError,
			Message: "Conflict - resource already exists or version mismatch",
			Data:    map[string]interface{}{"message": conflictErr.Message},
		}
	}

	var rateLimitErr *RateLimitError
	if errors.As(err, &rateLimitErr) {
		data := map[string]interface{}{"message": rateLimitErr.Error()}
		if rateLimitErr.RetryAfter > 0 {
			data["retryAfter"] = rateLimitErr.RetryAfter
		}
		return &Error{
			Code:    RateLimitExceeded,
			Message: "Rate limit exceeded",
			Data:    data,
		}
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		// A missing status code means the failure never produced an HTTP
		// response (exhausted network retries, unreadable body)
		code := TrelloAPIError
		message := "Trello API error"
		if apiErr.StatusCode == 0 {
			code = NetworkError
			message = "Network error"
		}
		return &Error{
			Code:    code,
			Message: message,
			Data: map[string]interface{}{
				"statusCode": apiErr.StatusCode,
				"message":    apiErr.Message,
			},
		}
	}

	// Default to internal error for unknown error types
	return &Error{
		Code:    InternalError,
		Message: err.Error(),
	}
}
