package domain

import (
	"fmt"
)

// ValidationError indicates a request was rejected by a local pre-flight
// check before any network call was made (malformed ID, unknown enum value,
// bad URL). It is the 400-equivalent raised on our side of the wire.
type ValidationError struct {
	Message string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return e.Message
}

// BadRequestError indicates the Trello API rejected a request with HTTP 400.
type BadRequestError struct {
	Message string
}

// Error implements the error interface for BadRequestError.
func (e *BadRequestError) Error() string {
	return e.Message
}

// UnauthorizedError indicates the Trello API rejected the credentials (HTTP 401).
type UnauthorizedError struct{}

// Error implements the error interface for UnauthorizedError.
// The message is fixed: a 401 from Trello always means the key/token pair
// is missing, expired, or revoked.
func (e *UnauthorizedError) Error() string {
	return "Invalid API key or token. Please check your credentials in the .env file."
}

// ForbiddenError indicates the authenticated member lacks permission for an
// operation (HTTP 403, or a failed permission/membership probe).
type ForbiddenError struct {
	ResourceType string // e.g. "Board", "Workspace", "Resource"
	ResourceID   string
	Action       string // e.g. "access", "modify (admin permission required)"
}

// Error implements the error interface for ForbiddenError.
func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("Permission denied to %s %s '%s'. Check your board/workspace permissions.",
		e.Action, e.ResourceType, e.ResourceID)
}

// NotFoundError indicates a resource does not exist or is not visible to the
// authenticated member (HTTP 404, or a failed existence probe).
type NotFoundError struct {
	ResourceType string // e.g. "Board", "Card"
	ResourceID   string
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found. Please verify the ID and try again.",
		e.ResourceType, e.ResourceID)
}

// ConflictError indicates the request conflicts with the current state of a
// resource (HTTP 409).
type ConflictError struct {
	Message string
}

// Error implements the error interface for ConflictError.
func (e *ConflictError) Error() string {
	return e.Message
}

// RateLimitError indicates the Trello API throttled the request (HTTP 429).
// RetryAfter carries the server's Retry-After hint in seconds; zero means the
// server did not provide one.
type RateLimitError struct {
	RetryAfter int
}

// Error implements the error interface for RateLimitError.
func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("Trello API rate limit exceeded. Please retry after %d seconds.", e.RetryAfter)
	}
	return "Trello API rate limit exceeded. Please wait a moment and try again."
}

// APIError is the catch-all for Trello API failures that do not fit a more
// specific type: unexpected status codes, exhausted network retries, and
// malformed response bodies. StatusCode is zero when no HTTP response was
// received.
type APIError struct {
	Message    string
	StatusCode int
}

// Error implements the error interface for APIError.
func (e *APIError) Error() string {
	return e.Message
}
