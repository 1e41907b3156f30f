package application

import (
	"context"
	"fmt"

	"trello-mcp-server/internal/domain"
	"trello-mcp-server/internal/infrastructure"
)

// SearchHandler implements ToolHandler for Trello search operations.
type SearchHandler struct {
	services *infrastructure.Services
	mapper   domain.ResponseMapper
}

// NewSearchHandler creates a new SearchHandler instance.
func NewSearchHandler(services *infrastructure.Services, mapper domain.ResponseMapper) *SearchHandler {
	return &SearchHandler{
		services: services,
		mapper:   mapper,
	}
}

// Tool name constants for search operations
const (
	ToolSearchQuery   = "search_query"
	ToolSearchMembers = "search_members"
)

// ToolName returns the identifier for this handler.
func (h *SearchHandler) ToolName() string {
	return "search"
}

// ListTools returns available tools for search operations.
func (h *SearchHandler) ListTools() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:        ToolSearchQuery,
			Description: "Search across Trello cards, boards, members and workspaces. Supports operators such as @member, #label, due:week, is:open and has:attachments",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"description": "The search query string",
					},
					"board_ids": map[string]interface{}{
						"type":        "string",
						"description": "Comma-separated board IDs to limit the search to (optional)",
					},
					"workspace_ids": map[string]interface{}{
						"type":        "string",
						"description": "Comma-separated workspace IDs to limit the search to (optional)",
					},
					"model_types": map[string]interface{}{
						"type":        "string",
						"description": "Comma-separated subset of cards, boards, members, organizations (optional, defaults to all)",
					},
					"partial": map[string]interface{}{
						"type":        "boolean",
						"description": "Match partial words instead of whole words (optional, defaults to false)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"query"},
			},
		},
		{
			Name:        ToolSearchMembers,
			Description: "Search for Trello members by name or username",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"description": "The search query string",
					},
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of results (optional, defaults to 8, capped at 20)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"query"},
			},
		},
	}
}

// Handle processes an MCP tool call request for search operations.
func (h *SearchHandler) Handle(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	// Validate that we have arguments
	if req.Arguments == nil {
		req.Arguments = make(map[string]interface{})
	}

	// Route to the appropriate handler based on tool name
	switch req.Name {
	case ToolSearchQuery:
		return h.handleQuery(ctx, req.Arguments)
	case ToolSearchMembers:
		return h.handleMembers(ctx, req.Arguments)
	default:
		return nil, &domain.Error{
			Code:    domain.MethodNotFound,
			Message: fmt.Sprintf("unknown search tool: %s", req.Name),
		}
	}
}

// handleQuery handles the search_query tool call.
func (h *SearchHandler) handleQuery(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	searchQuery, err := getStringParam(args, "query", true)
	if err != nil {
		return nil, err
	}

	// Optional parameters
	boardIDs, _ := getStringParam(args, "board_ids", false)
	workspaceIDs, _ := getStringParam(args, "workspace_ids", false)
	modelTypes, _ := getStringParam(args, "model_types", false)
	partial, err := getBoolParam(args, "partial", false)
	if err != nil {
		return nil, err
	}

	results, err := services.Search.Search(ctx, searchQuery, infrastructure.SearchOptions{
		IDBoards:        boardIDs,
		IDOrganizations: workspaceIDs,
		ModelTypes:      modelTypes,
		Partial:         partial,
	})
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(results)
}

// handleMembers handles the search_members tool call.
func (h *SearchHandler) handleMembers(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	searchQuery, err := getStringParam(args, "query", true)
	if err != nil {
		return nil, err
	}

	// Optional parameters
	limit, err := getIntParam(args, "limit", false)
	if err != nil {
		return nil, err
	}
	if limit == 0 {
		limit = 8
	}

	members, err := services.Search.SearchMembers(ctx, searchQuery, limit)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(members)
}
