package infrastructure

import (
	"context"
	"net/url"
	"strconv"

	"trello-mcp-server/internal/domain"
)

const maxMemberSearchLimit = 20

// SearchOptions narrows a search to particular boards, workspaces or model
// types. ModelTypes is a comma-separated subset of cards, boards, members
// and organizations.
type SearchOptions struct {
	IDBoards        string
	IDOrganizations string
	ModelTypes      string
	Partial         bool
}

// SearchService queries the Trello search endpoints.
type SearchService struct {
	client *TrelloClient
}

// NewSearchService creates a search service.
func NewSearchService(client *TrelloClient) *SearchService {
	return &SearchService{client: client}
}

// Search runs a query across Trello resources and returns the grouped
// results.
func (s *SearchService) Search(ctx context.Context, searchQuery string, opts SearchOptions) (*domain.SearchResults, error) {
	query := url.Values{}
	query.Set("query", searchQuery)
	setParam(query, "idBoards", opts.IDBoards)
	setParam(query, "idOrganizations", opts.IDOrganizations)
	setParam(query, "modelTypes", opts.ModelTypes)
	if opts.Partial {
		query.Set("partial", "true")
	}

	raw, err := s.client.Get(ctx, "/search", query)
	if err != nil {
		return nil, err
	}
	var results domain.SearchResults
	if err := decodeJSON(raw, &results); err != nil {
		return nil, err
	}
	return &results, nil
}

// SearchMembers looks up members by name or username. The limit is capped
// at 20, matching the API's own bound.
func (s *SearchService) SearchMembers(ctx context.Context, searchQuery string, limit int) ([]domain.Member, error) {
	if limit <= 0 {
		limit = 8
	}
	if limit > maxMemberSearchLimit {
		limit = maxMemberSearchLimit
	}

	query := url.Values{}
	query.Set("query", searchQuery)
	query.Set("limit", strconv.Itoa(limit))

	raw, err := s.client.Get(ctx, "/search/members", query)
	if err != nil {
		return nil, err
	}
	var members []domain.Member
	if err := decodeJSON(raw, &members); err != nil {
		return nil, err
	}
	return members, nil
}
