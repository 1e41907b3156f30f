package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"trello-mcp-server/internal/domain"
)

const maxBatchURLs = 10

// BatchService bundles up to ten GET requests into one API call.
type BatchService struct {
	client *TrelloClient
}

// NewBatchService creates a batch service.
func NewBatchService(client *TrelloClient) *BatchService {
	return &BatchService{client: client}
}

// Get fetches several relative API routes in one round trip. Each entry in
// the result mirrors the position of its URL and carries either the response
// under "200" or an error description.
func (s *BatchService) Get(ctx context.Context, urls []string) (json.RawMessage, error) {
	if len(urls) == 0 {
		return nil, &domain.ValidationError{Message: "At least one URL is required"}
	}
	if len(urls) > maxBatchURLs {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("Maximum %d URLs allowed per batch request", maxBatchURLs),
		}
	}
	for _, u := range urls {
		if !strings.HasPrefix(u, "/") {
			return nil, &domain.ValidationError{
				Message: fmt.Sprintf("Batch URLs must be relative API routes starting with '/', got: %s", u),
			}
		}
	}

	query := url.Values{}
	query.Set("urls", strings.Join(urls, ","))
	return s.client.Get(ctx, "/batch", query)
}
