package application

import (
	"context"
	"fmt"

	"trello-mcp-server/internal/domain"
	"trello-mcp-server/internal/infrastructure"
)

// LabelHandler implements ToolHandler for label operations. Attaching and
// detaching labels to cards lives on the card handler; this one manages the
// label definitions themselves.
type LabelHandler struct {
	services *infrastructure.Services
	mapper   domain.ResponseMapper
}

// NewLabelHandler creates a new LabelHandler instance.
func NewLabelHandler(services *infrastructure.Services, mapper domain.ResponseMapper) *LabelHandler {
	return &LabelHandler{
		services: services,
		mapper:   mapper,
	}
}

// Tool name constants for label operations
const (
	ToolLabelGet    = "label_get"
	ToolLabelUpdate = "label_update"
	ToolLabelDelete = "label_delete"
)

// ToolName returns the identifier for this handler.
func (h *LabelHandler) ToolName() string {
	return "label"
}

// ListTools returns available tools for label operations.
func (h *LabelHandler) ListTools() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:        ToolLabelGet,
			Description: "Retrieve a label by its ID",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"label_id": map[string]interface{}{
						"type":        "string",
						"description": "The label ID (24-character hex string)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"label_id"},
			},
		},
		{
			Name:        ToolLabelUpdate,
			Description: "Update a label's name or color",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"label_id": map[string]interface{}{
						"type":        "string",
						"description": "The label ID (24-character hex string)",
					},
					"name": map[string]interface{}{
						"type":        "string",
						"description": "The new label name (optional)",
					},
					"color": map[string]interface{}{
						"type":        "string",
						"description": "The new color: yellow, purple, blue, red, green, orange, black, sky, pink, lime, or empty for none (optional)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"label_id"},
			},
		},
		{
			Name:        ToolLabelDelete,
			Description: "Delete a label from its board",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"label_id": map[string]interface{}{
						"type":        "string",
						"description": "The label ID (24-character hex string)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"label_id"},
			},
		},
	}
}

// Handle processes an MCP tool call request for label operations.
func (h *LabelHandler) Handle(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	// Validate that we have arguments
	if req.Arguments == nil {
		req.Arguments = make(map[string]interface{})
	}

	// Route to the appropriate handler based on tool name
	switch req.Name {
	case ToolLabelGet:
		return h.handleGet(ctx, req.Arguments)
	case ToolLabelUpdate:
		return h.handleUpdate(ctx, req.Arguments)
	case ToolLabelDelete:
		return h.handleDelete(ctx, req.Arguments)
	default:
		return nil, &domain.Error{
			Code:    domain.MethodNotFound,
			Message: fmt.Sprintf("unknown label tool: %s", req.Name),
		}
	}
}

// handleGet handles the label_get tool call.
func (h *LabelHandler) handleGet(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	labelID, err := getStringParam(args, "label_id", true)
	if err != nil {
		return nil, err
	}

	label, err := services.Labels.GetLabel(ctx, labelID)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(label)
}

// handleUpdate handles the label_update tool call.
func (h *LabelHandler) handleUpdate(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	labelID, err := getStringParam(args, "label_id", true)
	if err != nil {
		return nil, err
	}

	// Optional parameters
	name, _ := getStringParam(args, "name", false)
	color, _ := getStringParam(args, "color", false)

	label, err := services.Labels.UpdateLabel(ctx, labelID, name, color)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(label)
}

// handleDelete handles the label_delete tool call.
func (h *LabelHandler) handleDelete(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	labelID, err := getStringParam(args, "label_id", true)
	if err != nil {
		return nil, err
	}

	if _, err := services.Labels.DeleteLabel(ctx, labelID); err != nil {
		return nil, h.mapper.MapError(err)
	}

	// Return success response
	return h.mapper.MapToToolResponse(map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Label %s deleted successfully", labelID),
	})
}
