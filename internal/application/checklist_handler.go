package application

import (
	"context"
	"fmt"

	"trello-mcp-server/internal/domain"
	"trello-mcp-server/internal/infrastructure"
)

// ChecklistHandler implements ToolHandler for checklist operations.
type ChecklistHandler struct {
	services *infrastructure.Services
	mapper   domain.ResponseMapper
}

// NewChecklistHandler creates a new ChecklistHandler instance.
func NewChecklistHandler(services *infrastructure.Services, mapper domain.ResponseMapper) *ChecklistHandler {
	return &ChecklistHandler{
		services: services,
		mapper:   mapper,
	}
}

// Tool name constants for checklist operations
const (
	ToolChecklistGet        = "checklist_get"
	ToolChecklistGetAll     = "checklist_get_all"
	ToolChecklistCreate     = "checklist_create"
	ToolChecklistUpdate     = "checklist_update"
	ToolChecklistDelete     = "checklist_delete"
	ToolChecklistAddItem    = "checklist_add_item"
	ToolChecklistUpdateItem = "checklist_update_item"
	ToolChecklistDeleteItem = "checklist_delete_item"
)

// ToolName returns the identifier for this handler.
func (h *ChecklistHandler) ToolName() string {
	return "checklist"
}

// ListTools returns available tools for checklist operations.
func (h *ChecklistHandler) ListTools() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:        ToolChecklistGet,
			Description: "Retrieve a checklist by its ID",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"checklist_id": map[string]interface{}{
						"type":        "string",
						"description": "The checklist ID (24-character hex string)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"checklist_id"},
			},
		},
		{
			Name:        ToolChecklistGetAll,
			Description: "List the checklists on a card",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"card_id": map[string]interface{}{
						"type":        "string",
						"description": "The card ID (24-character hex string)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"card_id"},
			},
		},
		{
			Name:        ToolChecklistCreate,
			Description: "Create a new checklist on a card",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"card_id": map[string]interface{}{
						"type":        "string",
						"description": "The card to add the checklist to",
					},
					"name": map[string]interface{}{
						"type":        "string",
						"description": "The checklist name",
					},
					"pos": map[string]interface{}{
						"type":        "string",
						"description": "The checklist position: top, bottom, or a positive number (optional)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"card_id", "name"},
			},
		},
		{
			Name:        ToolChecklistUpdate,
			Description: "Update a checklist's name or position",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"checklist_id": map[string]interface{}{
						"type":        "string",
						"description": "The checklist ID (24-character hex string)",
					},
					"name": map[string]interface{}{
						"type":        "string",
						"description": "The new checklist name (optional)",
					},
					"pos": map[string]interface{}{
						"type":        "string",
						"description": "The new position: top, bottom, or a positive number (optional)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"checklist_id"},
			},
		},
		{
			Name:        ToolChecklistDelete,
			Description: "Delete a checklist",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"checklist_id": map[string]interface{}{
						"type":        "string",
						"description": "The checklist ID (24-character hex string)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"checklist_id"},
			},
		},
		{
			Name:        ToolChecklistAddItem,
			Description: "Add an item to a checklist",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"checklist_id": map[string]interface{}{
						"type":        "string",
						"description": "The checklist ID (24-character hex string)",
					},
					"name": map[string]interface{}{
						"type":        "string",
						"description": "The item text",
					},
					"checked": map[string]interface{}{
						"type":        "boolean",
						"description": "Create the item already checked (optional)",
					},
					"pos": map[string]interface{}{
						"type":        "string",
						"description": "The item position: top, bottom, or a positive number (optional)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"checklist_id", "name"},
			},
		},
		{
			Name:        ToolChecklistUpdateItem,
			Description: "Update a check item's name, state or position",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"card_id": map[string]interface{}{
						"type":        "string",
						"description": "The card the checklist belongs to",
					},
					"checkitem_id": map[string]interface{}{
						"type":        "string",
						"description": "The check item ID (24-character hex string)",
					},
					"name": map[string]interface{}{
						"type":        "string",
						"description": "The new item text (optional)",
					},
					"state": map[string]interface{}{
						"type":        "string",
						"description": "The new state: complete or incomplete (optional)",
						"enum":        []string{"complete", "incomplete"},
					},
					"pos": map[string]interface{}{
						"type":        "string",
						"description": "The new position: top, bottom, or a positive number (optional)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"card_id", "checkitem_id"},
			},
		},
		{
			Name:        ToolChecklistDeleteItem,
			Description: "Delete an item from a checklist",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"checklist_id": map[string]interface{}{
						"type":        "string",
						"description": "The checklist ID (24-character hex string)",
					},
					"checkitem_id": map[string]interface{}{
						"type":        "string",
						"description": "The check item ID (24-character hex string)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"checklist_id", "checkitem_id"},
			},
		},
	}
}

// Handle processes an MCP tool call request for checklist operations.
func (h *ChecklistHandler) Handle(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	// Validate that we have arguments
	if req.Arguments == nil {
		req.Arguments = make(map[string]interface{})
	}

	// Route to the appropriate handler based on tool name
	switch req.Name {
	case ToolChecklistGet:
		return h.handleGet(ctx, req.Arguments)
	case ToolChecklistGetAll:
		return h.handleGetAll(ctx, req.Arguments)
	case ToolChecklistCreate:
		return h.handleCreate(ctx, req.Arguments)
	case ToolChecklistUpdate:
		return h.handleUpdate(ctx, req.Arguments)
	case ToolChecklistDelete:
		return h.handleDelete(ctx, req.Arguments)
	case ToolChecklistAddItem:
		return h.handleAddItem(ctx, req.Arguments)
	case ToolChecklistUpdateItem:
		return h.handleUpdateItem(ctx, req.Arguments)
	case ToolChecklistDeleteItem:
		return h.handleDeleteItem(ctx, req.Arguments)
	default:
		return nil, &domain.Error{
			Code:    domain.MethodNotFound,
			Message: fmt.Sprintf("unknown checklist tool: %s", req.Name),
		}
	}
}

// handleGet handles the checklist_get tool call.
func (h *ChecklistHandler) handleGet(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	checklistID, err := getStringParam(args, "checklist_id", true)
	if err != nil {
		return nil, err
	}

	checklist, err := services.Checklists.GetChecklist(ctx, checklistID)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(checklist)
}

// handleGetAll handles the checklist_get_all tool call.
func (h *ChecklistHandler) handleGetAll(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	cardID, err := getStringParam(args, "card_id", true)
	if err != nil {
		return nil, err
	}

	checklists, err := services.Checklists.GetCardChecklists(ctx, cardID)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(checklists)
}

// handleCreate handles the checklist_create tool call.
func (h *ChecklistHandler) handleCreate(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	cardID, err := getStringParam(args, "card_id", true)
	if err != nil {
		return nil, err
	}
	name, err := getStringParam(args, "name", true)
	if err != nil {
		return nil, err
	}

	// Optional parameters
	pos, _ := getStringParam(args, "pos", false)

	checklist, err := services.Checklists.CreateChecklist(ctx, cardID, name, pos)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(checklist)
}

// handleUpdate handles the checklist_update tool call.
func (h *ChecklistHandler) handleUpdate(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	checklistID, err := getStringParam(args, "checklist_id", true)
	if err != nil {
		return nil, err
	}

	// Optional parameters
	name, _ := getStringParam(args, "name", false)
	pos, _ := getStringParam(args, "pos", false)

	checklist, err := services.Checklists.UpdateChecklist(ctx, checklistID, name, pos)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(checklist)
}

// handleDelete handles the checklist_delete tool call.
func (h *ChecklistHandler) handleDelete(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	checklistID, err := getStringParam(args, "checklist_id", true)
	if err != nil {
		return nil, err
	}

	if _, err := services.Checklists.DeleteChecklist(ctx, checklistID); err != nil {
		return nil, h.mapper.MapError(err)
	}

	// Return success response
	return h.mapper.MapToToolResponse(map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Checklist %s deleted successfully", checklistID),
	})
}

// handleAddItem handles the checklist_add_item tool call.
func (h *ChecklistHandler) handleAddItem(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	checklistID, err := getStringParam(args, "checklist_id", true)
	if err != nil {
		return nil, err
	}
	name, err := getStringParam(args, "name", true)
	if err != nil {
		return nil, err
	}

	// Optional parameters
	pos, _ := getStringParam(args, "pos", false)
	checked, err := getBoolPtrParam(args, "checked")
	if err != nil {
		return nil, err
	}

	item, err := services.Checklists.AddCheckItem(ctx, checklistID, name, checked, pos)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(item)
}

// handleUpdateItem handles the checklist_update_item tool call.
func (h *ChecklistHandler) handleUpdateItem(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	cardID, err := getStringParam(args, "card_id", true)
	if err != nil {
		return nil, err
	}
	checkItemID, err := getStringParam(args, "checkitem_id", true)
	if err != nil {
		return nil, err
	}

	// Optional parameters
	name, _ := getStringParam(args, "name", false)
	state, _ := getStringParam(args, "state", false)
	pos, _ := getStringParam(args, "pos", false)

	item, err := services.Checklists.UpdateCheckItem(ctx, cardID, checkItemID, infrastructure.UpdateCheckItemOptions{
		Name:  name,
		State: state,
		Pos:   pos,
	})
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(item)
}

// handleDeleteItem handles the checklist_delete_item tool call.
func (h *ChecklistHandler) handleDeleteItem(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	checklistID, err := getStringParam(args, "checklist_id", true)
	if err != nil {
		return nil, err
	}
	checkItemID, err := getStringParam(args, "checkitem_id", true)
	if err != nil {
		return nil, err
	}

	if _, err := services.Checklists.DeleteCheckItem(ctx, checklistID, checkItemID); err != nil {
		return nil, h.mapper.MapError(err)
	}

	// Return success response
	return h.mapper.MapToToolResponse(map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Check item %s deleted from checklist %s", checkItemID, checklistID),
	})
}
