package application

import (
	"context"
	"fmt"

	"trello-mcp-server/internal/domain"
	"trello-mcp-server/internal/infrastructure"
)

// ListHandler implements ToolHandler for list operations.
type ListHandler struct {
	services *infrastructure.Services
	mapper   domain.ResponseMapper
}

// NewListHandler creates a new ListHandler instance.
func NewListHandler(services *infrastructure.Services, mapper domain.ResponseMapper) *ListHandler {
	return &ListHandler{
		services: services,
		mapper:   mapper,
	}
}

// Tool name constants for list operations
const (
	ToolListGetAll       = "list_get_all"
	ToolListGet          = "list_get"
	ToolListCreate       = "list_create"
	ToolListUpdate       = "list_update"
	ToolListArchive      = "list_archive"
	ToolListUnarchive    = "list_unarchive"
	ToolListMoveAllCards = "list_move_all_cards"
)

// ToolName returns the identifier for this handler.
func (h *ListHandler) ToolName() string {
	return "list"
}

// ListTools returns available tools for list operations.
func (h *ListHandler) ListTools() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:        ToolListGetAll,
			Description: "List the lists on a board",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"board_id": map[string]interface{}{
						"type":        "string",
						"description": "The board ID (24-character hex string)",
					},
					"filter": map[string]interface{}{
						"type":        "string",
						"description": "Which lists to return: open, closed, or all (optional)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"board_id"},
			},
		},
		{
			Name:        ToolListGet,
			Description: "Retrieve a single list by its ID",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"list_id": map[string]interface{}{
						"type":        "string",
						"description": "The list ID (24-character hex string)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"list_id"},
			},
		},
		{
			Name:        ToolListCreate,
			Description: "Create a new list on a board",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"board_id": map[string]interface{}{
						"type":        "string",
						"description": "The board ID (24-character hex string)",
					},
					"name": map[string]interface{}{
						"type":        "string",
						"description": "The list name",
					},
					"pos": map[string]interface{}{
						"type":        "string",
						"description": "The list position: top, bottom, or a positive number (optional)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"board_id", "name"},
			},
		},
		{
			Name:        ToolListUpdate,
			Description: "Update a list's name or position, or move it to another board",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"list_id": map[string]interface{}{
						"type":        "string",
						"description": "The list ID (24-character hex string)",
					},
					"name": map[string]interface{}{
						"type":        "string",
						"description": "The new list name (optional)",
					},
					"pos": map[string]interface{}{
						"type":        "string",
						"description": "The new position: top, bottom, or a positive number (optional)",
					},
					"board_id": map[string]interface{}{
						"type":        "string",
						"description": "Move the list to this board (optional)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"list_id"},
			},
		},
		{
			Name:        ToolListArchive,
			Description: "Archive a list",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"list_id": map[string]interface{}{
						"type":        "string",
						"description": "The list ID (24-character hex string)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"list_id"},
			},
		},
		{
			Name:        ToolListUnarchive,
			Description: "Restore an archived list",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"list_id": map[string]interface{}{
						"type":        "string",
						"description": "The list ID (24-character hex string)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"list_id"},
			},
		},
		{
			Name:        ToolListMoveAllCards,
			Description: "Move every card in a list to another list",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"list_id": map[string]interface{}{
						"type":        "string",
						"description": "The source list ID (24-character hex string)",
					},
					"target_board_id": map[string]interface{}{
						"type":        "string",
						"description": "The board the target list belongs to",
					},
					"target_list_id": map[string]interface{}{
						"type":        "string",
						"description": "The list to move the cards into",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"list_id", "target_board_id", "target_list_id"},
			},
		},
	}
}

// Handle processes an MCP tool call request for list operations.
func (h *ListHandler) Handle(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	// Validate that we have arguments
	if req.Arguments == nil {
		req.Arguments = make(map[string]interface{})
	}

	// Route to the appropriate handler based on tool name
	switch req.Name {
	case ToolListGetAll:
		return h.handleGetAll(ctx, req.Arguments)
	case ToolListGet:
		return h.handleGet(ctx, req.Arguments)
	case ToolListCreate:
		return h.handleCreate(ctx, req.Arguments)
	case ToolListUpdate:
		return h.handleUpdate(ctx, req.Arguments)
	case ToolListArchive:
		return h.handleArchive(ctx, req.Arguments)
	case ToolListUnarchive:
		return h.handleUnarchive(ctx, req.Arguments)
	case ToolListMoveAllCards:
		return h.handleMoveAllCards(ctx, req.Arguments)
	default:
		return nil, &domain.Error{
			Code:    domain.MethodNotFound,
			Message: fmt.Sprintf("unknown list tool: %s", req.Name),
		}
	}
}

// handleGetAll handles the list_get_all tool call.
func (h *ListHandler) handleGetAll(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	boardID, err := getStringParam(args, "board_id", true)
	if err != nil {
		return nil, err
	}

	// Optional parameters
	filter, _ := getStringParam(args, "filter", false)

	lists, err := services.Lists.GetLists(ctx, boardID, filter)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(lists)
}

// handleGet handles the list_get tool call.
func (h *ListHandler) handleGet(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	listID, err := getStringParam(args, "list_id", true)
	if err != nil {
		return nil, err
	}

	list, err := services.Lists.GetList(ctx, listID)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(list)
}

// handleCreate handles the list_create tool call.
func (h *ListHandler) handleCreate(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	boardID, err := getStringParam(args, "board_id", true)
	if err != nil {
		return nil, err
	}
	name, err := getStringParam(args, "name", true)
	if err != nil {
		return nil, err
	}

	// Optional parameters
	pos, _ := getStringParam(args, "pos", false)

	list, err := services.Lists.CreateList(ctx, boardID, name, pos)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(list)
}

// handleUpdate handles the list_update tool call.
func (h *ListHandler) handleUpdate(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	listID, err := getStringParam(args, "list_id", true)
	if err != nil {
		return nil, err
	}

	// Optional parameters
	name, _ := getStringParam(args, "name", false)
	pos, _ := getStringParam(args, "pos", false)
	boardID, _ := getStringParam(args, "board_id", false)

	list, err := services.Lists.UpdateList(ctx, listID, infrastructure.UpdateListOptions{
		Name:    name,
		Pos:     pos,
		IDBoard: boardID,
	})
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(list)
}

// handleArchive handles the list_archive tool call.
func (h *ListHandler) handleArchive(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	listID, err := getStringParam(args, "list_id", true)
	if err != nil {
		return nil, err
	}

	list, err := services.Lists.ArchiveList(ctx, listID)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(list)
}

// handleUnarchive handles the list_unarchive tool call.
func (h *ListHandler) handleUnarchive(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	listID, err := getStringParam(args, "list_id", true)
	if err != nil {
		return nil, err
	}

	list, err := services.Lists.UnarchiveList(ctx, listID)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(list)
}

// handleMoveAllCards handles the list_move_all_cards tool call.
func (h *ListHandler) handleMoveAllCards(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	listID, err := getStringParam(args, "list_id", true)
	if err != nil {
		return nil, err
	}
	targetBoardID, err := getStringParam(args, "target_board_id", true)
	if err != nil {
		return nil, err
	}
	targetListID, err := getStringParam(args, "target_list_id", true)
	if err != nil {
		return nil, err
	}

	result, err := services.Lists.MoveAllCards(ctx, listID, targetBoardID, targetListID)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(result)
}
