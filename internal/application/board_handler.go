package application

import (
	"context"
	"fmt"

	"trello-mcp-server/internal/domain"
	"trello-mcp-server/internal/infrastructure"
)

// BoardHandler implements ToolHandler for board operations.
// It routes MCP tool calls to the BoardService and transforms responses
// using the ResponseMapper.
type BoardHandler struct {
	services *infrastructure.Services
	mapper   domain.ResponseMapper
}

// NewBoardHandler creates a new BoardHandler instance.
func NewBoardHandler(services *infrastructure.Services, mapper domain.ResponseMapper) *BoardHandler {
	return &BoardHandler{
		services: services,
		mapper:   mapper,
	}
}

// Tool name constants for board operations
const (
	ToolBoardGet              = "board_get"
	ToolBoardList             = "board_list"
	ToolBoardCreate           = "board_create"
	ToolBoardUpdate           = "board_update"
	ToolBoardDelete           = "board_delete"
	ToolBoardGetLabels        = "board_get_labels"
	ToolBoardCreateLabel      = "board_create_label"
	ToolBoardGetActions       = "board_get_actions"
	ToolBoardExport           = "board_export"
	ToolBoardGetMembers       = "board_get_members"
	ToolBoardAddMember        = "board_add_member"
	ToolBoardUpdateMemberRole = "board_update_member_role"
	ToolBoardRemoveMember     = "board_remove_member"
)

// ToolName returns the identifier for this handler.
func (h *BoardHandler) ToolName() string {
	return "board"
}

// ListTools returns available tools for board operations.
func (h *BoardHandler) ListTools() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:        ToolBoardGet,
			Description: "Retrieve a Trello board by its ID",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"board_id": map[string]interface{}{
						"type":        "string",
						"description": "The board ID (24-character hex string)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"board_id"},
			},
		},
		{
			Name:        ToolBoardList,
			Description: "List all boards for the authenticated member",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"auth": getAuthSchema(),
				},
				Required: []string{},
			},
		},
		{
			Name:        ToolBoardCreate,
			Description: "Create a new Trello board",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"name": map[string]interface{}{
						"type":        "string",
						"description": "The board name",
					},
					"description": map[string]interface{}{
						"type":        "string",
						"description": "The board description (optional)",
					},
					"workspace_id": map[string]interface{}{
						"type":        "string",
						"description": "The workspace to create the board in (optional)",
					},
					"default_lists": map[string]interface{}{
						"type":        "boolean",
						"description": "Create the default To Do/Doing/Done lists (optional)",
					},
					"default_labels": map[string]interface{}{
						"type":        "boolean",
						"description": "Create the default label set (optional)",
					},
					"permission_level": map[string]interface{}{
						"type":        "string",
						"description": "Board visibility: private, org, or public (optional)",
						"enum":        []string{"private", "org", "public"},
					},
					"voting": map[string]interface{}{
						"type":        "string",
						"description": "Who may vote on cards: disabled, members, observers, org, or public (optional)",
					},
					"comments": map[string]interface{}{
						"type":        "string",
						"description": "Who may comment on cards: disabled, members, observers, org, or public (optional)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"name"},
			},
		},
		{
			Name:        ToolBoardUpdate,
			Description: "Update an existing Trello board",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"board_id": map[string]interface{}{
						"type":        "string",
						"description": "The board ID (24-character hex string)",
					},
					"name": map[string]interface{}{
						"type":        "string",
						"description": "The new board name (optional)",
					},
					"description": map[string]interface{}{
						"type":        "string",
						"description": "The new description; an empty string clears it (optional)",
					},
					"closed": map[string]interface{}{
						"type":        "boolean",
						"description": "Close (archive) or reopen the board (optional)",
					},
					"workspace_id": map[string]interface{}{
						"type":        "string",
						"description": "Move the board to this workspace (optional)",
					},
					"permission_level": map[string]interface{}{
						"type":        "string",
						"description": "Board visibility: private, org, or public (optional)",
						"enum":        []string{"private", "org", "public"},
					},
					"voting": map[string]interface{}{
						"type":        "string",
						"description": "Who may vote on cards (optional)",
					},
					"comments": map[string]interface{}{
						"type":        "string",
						"description": "Who may comment on cards (optional)",
					},
					"self_join": map[string]interface{}{
						"type":        "boolean",
						"description": "Allow workspace members to join by themselves (optional)",
					},
					"card_covers": map[string]interface{}{
						"type":        "boolean",
						"description": "Show card cover images (optional)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"board_id"},
			},
		},
		{
			Name:        ToolBoardDelete,
			Description: "Permanently delete a Trello board (requires admin permission)",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"board_id": map[string]interface{}{
						"type":        "string",
						"description": "The board ID (24-character hex string)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"board_id"},
			},
		},
		{
			Name:        ToolBoardGetLabels,
			Description: "List the labels defined on a board",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"board_id": map[string]interface{}{
						"type":        "string",
						"description": "The board ID (24-character hex string)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"board_id"},
			},
		},
		{
			Name:        ToolBoardCreateLabel,
			Description: "Create a new label on a board",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"board_id": map[string]interface{}{
						"type":        "string",
						"description": "The board ID (24-character hex string)",
					},
					"name": map[string]interface{}{
						"type":        "string",
						"description": "The label name",
					},
					"color": map[string]interface{}{
						"type":        "string",
						"description": "The label color: yellow, purple, blue, red, green, orange, black, sky, pink, lime, or empty for none (optional)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"board_id", "name"},
			},
		},
		{
			Name:        ToolBoardGetActions,
			Description: "List recent actions (activity) on a board",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"board_id": map[string]interface{}{
						"type":        "string",
						"description": "The board ID (24-character hex string)",
					},
					"filter": map[string]interface{}{
						"type":        "string",
						"description": "Comma-separated action types, e.g. commentCard,updateCard (optional)",
					},
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of actions to return (optional)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"board_id"},
			},
		},
		{
			Name:        ToolBoardExport,
			Description: "Export a board with all of its lists, cards, checklists, labels, members and custom fields",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"board_id": map[string]interface{}{
						"type":        "string",
						"description": "The board ID (24-character hex string)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"board_id"},
			},
		},
		{
			Name:        ToolBoardGetMembers,
			Description: "List the members of a board",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"board_id": map[string]interface{}{
						"type":        "string",
						"description": "The board ID (24-character hex string)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"board_id"},
			},
		},
		{
			Name:        ToolBoardAddMember,
			Description: "Invite a member to a board by email address",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"board_id": map[string]interface{}{
						"type":        "string",
						"description": "The board ID (24-character hex string)",
					},
					"email": map[string]interface{}{
						"type":        "string",
						"description": "The email address to invite",
					},
					"role": map[string]interface{}{
						"type":        "string",
						"description": "The member role: normal, admin, or observer (defaults to normal)",
						"enum":        []string{"normal", "admin", "observer"},
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"board_id", "email"},
			},
		},
		{
			Name:        ToolBoardUpdateMemberRole,
			Description: "Change the role of an existing board member",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"board_id": map[string]interface{}{
						"type":        "string",
						"description": "The board ID (24-character hex string)",
					},
					"member_id": map[string]interface{}{
						"type":        "string",
						"description": "The member ID (24-character hex string)",
					},
					"role": map[string]interface{}{
						"type":        "string",
						"description": "The new role: normal, admin, or observer",
						"enum":        []string{"normal", "admin", "observer"},
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"board_id", "member_id", "role"},
			},
		},
		{
			Name:        ToolBoardRemoveMember,
			Description: "Remove a member from a board",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"board_id": map[string]interface{}{
						"type":        "string",
						"description": "The board ID (24-character hex string)",
					},
					"member_id": map[string]interface{}{
						"type":        "string",
						"description": "The member ID (24-character hex string)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"board_id", "member_id"},
			},
		},
	}
}

// Handle processes an MCP tool call request for board operations.
func (h *BoardHandler) Handle(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	// Validate that we have arguments
	if req.Arguments == nil {
		req.Arguments = make(map[string]interface{})
	}

	// Route to the appropriate handler based on tool name
	switch req.Name {
	case ToolBoardGet:
		return h.handleGet(ctx, req.Arguments)
	case ToolBoardList:
		return h.handleList(ctx, req.Arguments)
	case ToolBoardCreate:
		return h.handleCreate(ctx, req.Arguments)
	case ToolBoardUpdate:
		return h.handleUpdate(ctx, req.Arguments)
	case ToolBoardDelete:
		return h.handleDelete(ctx, req.Arguments)
	case ToolBoardGetLabels:
		return h.handleGetLabels(ctx, req.Arguments)
	case ToolBoardCreateLabel:
		return h.handleCreateLabel(ctx, req.Arguments)
	case ToolBoardGetActions:
		return h.handleGetActions(ctx, req.Arguments)
	case ToolBoardExport:
		return h.handleExport(ctx, req.Arguments)
	case ToolBoardGetMembers:
		return h.handleGetMembers(ctx, req.Arguments)
	case ToolBoardAddMember:
		return h.handleAddMember(ctx, req.Arguments)
	case ToolBoardUpdateMemberRole:
		return h.handleUpdateMemberRole(ctx, req.Arguments)
	case ToolBoardRemoveMember:
		return h.handleRemoveMember(ctx, req.Arguments)
	default:
		return nil, &domain.Error{
			Code:    domain.MethodNotFound,
			Message: fmt.Sprintf("unknown board tool: %s", req.Name),
		}
	}
}

// handleGet handles the board_get tool call.
func (h *BoardHandler) handleGet(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	boardID, err := getStringParam(args, "board_id", true)
	if err != nil {
		return nil, err
	}

	board, err := services.Boards.GetBoard(ctx, boardID)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(board)
}

// handleList handles the board_list tool call.
func (h *BoardHandler) handleList(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	boards, err := services.Boards.GetBoards(ctx)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(boards)
}

// handleCreate handles the board_create tool call.
func (h *BoardHandler) handleCreate(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	name, err := getStringParam(args, "name", true)
	if err != nil {
		return nil, err
	}

	// Optional parameters
	description, _ := getStringParam(args, "description", false)
	workspaceID, _ := getStringParam(args, "workspace_id", false)
	permissionLevel, _ := getStringParam(args, "permission_level", false)
	voting, _ := getStringParam(args, "voting", false)
	comments, _ := getStringParam(args, "comments", false)

	defaultLists, err := getBoolPtrParam(args, "default_lists")
	if err != nil {
		return nil, err
	}
	defaultLabels, err := getBoolPtrParam(args, "default_labels")
	if err != nil {
		return nil, err
	}

	board, err := services.Boards.CreateBoard(ctx, infrastructure.CreateBoardOptions{
		Name:            name,
		Desc:            description,
		IDOrganization:  workspaceID,
		DefaultLists:    defaultLists,
		DefaultLabels:   defaultLabels,
		PermissionLevel: permissionLevel,
		Voting:          voting,
		Comments:        comments,
	})
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(board)
}

// handleUpdate handles the board_update tool call.
func (h *BoardHandler) handleUpdate(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	boardID, err := getStringParam(args, "board_id", true)
	if err != nil {
		return nil, err
	}

	// Optional parameters
	name, _ := getStringParam(args, "name", false)
	workspaceID, _ := getStringParam(args, "workspace_id", false)
	permissionLevel, _ := getStringParam(args, "permission_level", false)
	voting, _ := getStringParam(args, "voting", false)
	comments, _ := getStringParam(args, "comments", false)

	description, err := getStringPtrParam(args, "description")
	if err != nil {
		return nil, err
	}
	closed, err := getBoolPtrParam(args, "closed")
	if err != nil {
		return nil, err
	}
	selfJoin, err := getBoolPtrParam(args, "self_join")
	if err != nil {
		return nil, err
	}
	cardCovers, err := getBoolPtrParam(args, "card_covers")
	if err != nil {
		return nil, err
	}

	board, err := services.Boards.UpdateBoard(ctx, boardID, infrastructure.UpdateBoardOptions{
		Name:            name,
		Desc:            description,
		Closed:          closed,
		IDOrganization:  workspaceID,
		PermissionLevel: permissionLevel,
		Voting:          voting,
		Comments:        comments,
		SelfJoin:        selfJoin,
		CardCovers:      cardCovers,
	})
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(board)
}

// handleDelete handles the board_delete tool call.
func (h *BoardHandler) handleDelete(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	boardID, err := getStringParam(args, "board_id", true)
	if err != nil {
		return nil, err
	}

	if _, err := services.Boards.DeleteBoard(ctx, boardID); err != nil {
		return nil, h.mapper.MapError(err)
	}

	// Return success response
	return h.mapper.MapToToolResponse(map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Board %s deleted successfully", boardID),
	})
}

// handleGetLabels handles the board_get_labels tool call.
func (h *BoardHandler) handleGetLabels(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	boardID, err := getStringParam(args, "board_id", true)
	if err != nil {
		return nil, err
	}

	labels, err := services.Boards.GetBoardLabels(ctx, boardID)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(labels)
}

// handleCreateLabel handles the board_create_label tool call.
func (h *BoardHandler) handleCreateLabel(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
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
	color, _ := getStringParam(args, "color", false)

	label, err := services.Boards.CreateBoardLabel(ctx, boardID, name, color)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(label)
}

// handleGetActions handles the board_get_actions tool call.
func (h *BoardHandler) handleGetActions(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
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
	limit, err := getIntPtrParam(args, "limit")
	if err != nil {
		return nil, err
	}

	actions, err := services.Boards.GetBoardActions(ctx, boardID, filter, limit)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(actions)
}

// handleExport handles the board_export tool call.
func (h *BoardHandler) handleExport(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	boardID, err := getStringParam(args, "board_id", true)
	if err != nil {
		return nil, err
	}

	export, err := services.Boards.ExportBoard(ctx, boardID)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(export)
}

// handleGetMembers handles the board_get_members tool call.
func (h *BoardHandler) handleGetMembers(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	boardID, err := getStringParam(args, "board_id", true)
	if err != nil {
		return nil, err
	}

	members, err := services.Boards.GetBoardMembers(ctx, boardID)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(members)
}

// handleAddMember handles the board_add_member tool call.
func (h *BoardHandler) handleAddMember(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	boardID, err := getStringParam(args, "board_id", true)
	if err != nil {
		return nil, err
	}
	email, err := getStringParam(args, "email", true)
	if err != nil {
		return nil, err
	}

	// Optional parameters
	role, _ := getStringParam(args, "role", false)

	result, err := services.Boards.AddBoardMember(ctx, boardID, email, role)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(result)
}

// handleUpdateMemberRole handles the board_update_member_role tool call.
func (h *BoardHandler) handleUpdateMemberRole(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	boardID, err := getStringParam(args, "board_id", true)
	if err != nil {
		return nil, err
	}
	memberID, err := getStringParam(args, "member_id", true)
	if err != nil {
		return nil, err
	}
	role, err := getStringParam(args, "role", true)
	if err != nil {
		return nil, err
	}

	result, err := services.Boards.UpdateBoardMemberRole(ctx, boardID, memberID, role)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(result)
}

// handleRemoveMember handles the board_remove_member tool call.
func (h *BoardHandler) handleRemoveMember(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	boardID, err := getStringParam(args, "board_id", true)
	if err != nil {
		return nil, err
	}
	memberID, err := getStringParam(args, "member_id", true)
	if err != nil {
		return nil, err
	}

	if _, err := services.Boards.RemoveBoardMember(ctx, boardID, memberID); err != nil {
		return nil, h.mapper.MapError(err)
	}

	// Return success response
	return h.mapper.MapToToolResponse(map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Member %s removed from board %s", memberID, boardID),
	})
}
