package application

import (
	"context"
	"fmt"

	"trello-mcp-server/internal/domain"
	"trello-mcp-server/internal/infrastructure"
)

// BatchHandler implements ToolHandler for the Trello batch endpoint, which
// bundles up to ten GET requests into a single API call.
type BatchHandler struct {
	services *infrastructure.Services
	mapper   domain.ResponseMapper
}

// NewBatchHandler creates a new BatchHandler instance.
func NewBatchHandler(services *infrastructure.Services, mapper domain.ResponseMapper) *BatchHandler {
	return &BatchHandler{
		services: services,
		mapper:   mapper,
	}
}

// Tool name constants for batch operations
const (
	ToolBatchGet = "batch_get"
)

// ToolName returns the identifier for this handler.
func (h *BatchHandler) ToolName() string {
	return "batch"
}

// ListTools returns available tools for batch operations.
func (h *BatchHandler) ListTools() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:        ToolBatchGet,
			Description: "Issue up to 10 GET requests in a single batch. Each entry is a relative API route such as /boards/{id} or /cards/{id}/list",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"urls": map[string]interface{}{
						"type":        "array",
						"description": "The relative GET routes to fetch, at most 10",
						"items": map[string]interface{}{
							"type": "string",
						},
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"urls"},
			},
		},
	}
}

// Handle processes an MCP tool call request for batch operations.
func (h *BatchHandler) Handle(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	// Validate that we have arguments
	if req.Arguments == nil {
		req.Arguments = make(map[string]interface{})
	}

	// Route to the appropriate handler based on tool name
	switch req.Name {
	case ToolBatchGet:
		return h.handleGet(ctx, req.Arguments)
	default:
		return nil, &domain.Error{
			Code:    domain.MethodNotFound,
			Message: fmt.Sprintf("unknown batch tool: %s", req.Name),
		}
	}
}

// handleGet handles the batch_get tool call.
func (h *BatchHandler) handleGet(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	urls, err := getStringSliceParam(args, "urls", true)
	if err != nil {
		return nil, err
	}

	results, err := services.Batch.Get(ctx, urls)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(results)
}
