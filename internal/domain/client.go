package domain

import (
	"context"
	"encoding/json"
	"net/url"
)

// TrelloAPI defines the request operations the resource services are built
// on. The concrete client injects credentials, classifies failures into the
// error taxonomy, and retries rate limits and transport errors; callers see
// either a raw JSON payload or a taxonomy error, never a transport failure.
type TrelloAPI interface {
	// Get executes a GET request against the given API path.
	Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error)

	// Post executes a POST request. The optional body is JSON-encoded;
	// most Trello operations pass nil and use query parameters instead.
	Post(ctx context.Context, path string, query url.Values, body interface{}) (json.RawMessage, error)

	// Put executes a PUT request with the same body convention as Post.
	Put(ctx context.Context, path string, query url.Values, body interface{}) (json.RawMessage, error)

	// Delete executes a DELETE request against the given API path.
	Delete(ctx context.Context, path string, query url.Values) (json.RawMessage, error)
}
