package application

import (
	"context"
	"fmt"

	"trello-mcp-server/internal/domain"
	"trello-mcp-server/internal/infrastructure"
)

// CardHandler implements ToolHandler for card operations, including votes,
// member assignments and label attachments.
type CardHandler struct {
	services *infrastructure.Services
	mapper   domain.ResponseMapper
}

// NewCardHandler creates a new CardHandler instance.
func NewCardHandler(services *infrastructure.Services, mapper domain.ResponseMapper) *CardHandler {
	return &CardHandler{
		services: services,
		mapper:   mapper,
	}
}

// Tool name constants for card operations
const (
	ToolCardGet          = "card_get"
	ToolCardGetAll       = "card_get_all"
	ToolCardCreate       = "card_create"
	ToolCardUpdate       = "card_update"
	ToolCardDelete       = "card_delete"
	ToolCardMove         = "card_move"
	ToolCardAddVote      = "card_add_vote"
	ToolCardRemoveVote   = "card_remove_vote"
	ToolCardGetMembers   = "card_get_members"
	ToolCardAssignMember = "card_assign_member"
	ToolCardRemoveMember = "card_remove_member"
	ToolCardAddLabel     = "card_add_label"
	ToolCardRemoveLabel  = "card_remove_label"
)

// ToolName returns the identifier for this handler.
func (h *CardHandler) ToolName() string {
	return "card"
}

// ListTools returns available tools for card operations.
func (h *CardHandler) ListTools() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:        ToolCardGet,
			Description: "Retrieve a Trello card by its ID",
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
			Name:        ToolCardGetAll,
			Description: "List the cards in a list",
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
			Name:        ToolCardCreate,
			Description: "Create a new card in a list",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"list_id": map[string]interface{}{
						"type":        "string",
						"description": "The list to create the card in",
					},
					"name": map[string]interface{}{
						"type":        "string",
						"description": "The card name",
					},
					"description": map[string]interface{}{
						"type":        "string",
						"description": "The card description (optional)",
					},
					"due": map[string]interface{}{
						"type":        "string",
						"description": "Due date in ISO 8601 format, e.g. 2024-01-31T12:00:00.000Z (optional)",
					},
					"start": map[string]interface{}{
						"type":        "string",
						"description": "Start date in ISO 8601 format (optional)",
					},
					"pos": map[string]interface{}{
						"type":        "string",
						"description": "The card position: top, bottom, or a positive number (optional)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"list_id", "name"},
			},
		},
		{
			Name:        ToolCardUpdate,
			Description: "Update an existing card",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"card_id": map[string]interface{}{
						"type":        "string",
						"description": "The card ID (24-character hex string)",
					},
					"name": map[string]interface{}{
						"type":        "string",
						"description": "The new card name (optional)",
					},
					"description": map[string]interface{}{
						"type":        "string",
						"description": "The new description; an empty string clears it (optional)",
					},
					"closed": map[string]interface{}{
						"type":        "boolean",
						"description": "Archive or unarchive the card (optional)",
					},
					"due": map[string]interface{}{
						"type":        "string",
						"description": "New due date in ISO 8601 format; an empty string removes it (optional)",
					},
					"due_complete": map[string]interface{}{
						"type":        "boolean",
						"description": "Mark the due date complete or incomplete (optional)",
					},
					"start": map[string]interface{}{
						"type":        "string",
						"description": "New start date in ISO 8601 format; an empty string removes it (optional)",
					},
					"list_id": map[string]interface{}{
						"type":        "string",
						"description": "Move the card to this list (optional)",
					},
					"pos": map[string]interface{}{
						"type":        "string",
						"description": "The new position: top, bottom, or a positive number (optional)",
					},
					"subscribed": map[string]interface{}{
						"type":        "boolean",
						"description": "Subscribe or unsubscribe the authenticated member (optional)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"card_id"},
			},
		},
		{
			Name:        ToolCardDelete,
			Description: "Permanently delete a card",
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
			Name:        ToolCardMove,
			Description: "Move a card to another list",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"card_id": map[string]interface{}{
						"type":        "string",
						"description": "The card ID (24-character hex string)",
					},
					"list_id": map[string]interface{}{
						"type":        "string",
						"description": "The list to move the card to",
					},
					"pos": map[string]interface{}{
						"type":        "string",
						"description": "The position in the target list: top, bottom, or a positive number (optional)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"card_id", "list_id"},
			},
		},
		{
			Name:        ToolCardAddVote,
			Description: "Add a member's vote to a card (requires voting to be enabled on the board)",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"card_id": map[string]interface{}{
						"type":        "string",
						"description": "The card ID (24-character hex string)",
					},
					"member_id": map[string]interface{}{
						"type":        "string",
						"description": "The ID of the voting member",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"card_id", "member_id"},
			},
		},
		{
			Name:        ToolCardRemoveVote,
			Description: "Remove a member's vote from a card",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"card_id": map[string]interface{}{
						"type":        "string",
						"description": "The card ID (24-character hex string)",
					},
					"member_id": map[string]interface{}{
						"type":        "string",
						"description": "The ID of the member whose vote to remove",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"card_id", "member_id"},
			},
		},
		{
			Name:        ToolCardGetMembers,
			Description: "List the members assigned to a card",
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
			Name:        ToolCardAssignMember,
			Description: "Assign a member to a card",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"card_id": map[string]interface{}{
						"type":        "string",
						"description": "The card ID (24-character hex string)",
					},
					"member_id": map[string]interface{}{
						"type":        "string",
						"description": "The member ID (24-character hex string)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"card_id", "member_id"},
			},
		},
		{
			Name:        ToolCardRemoveMember,
			Description: "Remove an assigned member from a card",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"card_id": map[string]interface{}{
						"type":        "string",
						"description": "The card ID (24-character hex string)",
					},
					"member_id": map[string]interface{}{
						"type":        "string",
						"description": "The member ID (24-character hex string)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"card_id", "member_id"},
			},
		},
		{
			Name:        ToolCardAddLabel,
			Description: "Attach a label to a card",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"card_id": map[string]interface{}{
						"type":        "string",
						"description": "The card ID (24-character hex string)",
					},
					"label_id": map[string]interface{}{
						"type":        "string",
						"description": "The label ID (24-character hex string)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"card_id", "label_id"},
			},
		},
		{
			Name:        ToolCardRemoveLabel,
			Description: "Remove a label from a card",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"card_id": map[string]interface{}{
						"type":        "string",
						"description": "The card ID (24-character hex string)",
					},
					"label_id": map[string]interface{}{
						"type":        "string",
						"description": "The label ID (24-character hex string)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"card_id", "label_id"},
			},
		},
	}
}

// Handle processes an MCP tool call request for card operations.
func (h *CardHandler) Handle(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	// Validate that we have arguments
	if req.Arguments == nil {
		req.Arguments = make(map[string]interface{})
	}

	// Route to the appropriate handler based on tool name
	switch req.Name {
	case ToolCardGet:
		return h.handleGet(ctx, req.Arguments)
	case ToolCardGetAll:
		return h.handleGetAll(ctx, req.Arguments)
	case ToolCardCreate:
		return h.handleCreate(ctx, req.Arguments)
	case ToolCardUpdate:
		return h.handleUpdate(ctx, req.Arguments)
	case ToolCardDelete:
		return h.handleDelete(ctx, req.Arguments)
	case ToolCardMove:
		return h.handleMove(ctx, req.Arguments)
	case ToolCardAddVote:
		return h.handleAddVote(ctx, req.Arguments)
	case ToolCardRemoveVote:
		return h.handleRemoveVote(ctx, req.Arguments)
	case ToolCardGetMembers:
		return h.handleGetMembers(ctx, req.Arguments)
	case ToolCardAssignMember:
		return h.handleAssignMember(ctx, req.Arguments)
	case ToolCardRemoveMember:
		return h.handleRemoveMember(ctx, req.Arguments)
	case ToolCardAddLabel:
		return h.handleAddLabel(ctx, req.Arguments)
	case ToolCardRemoveLabel:
		return h.handleRemoveLabel(ctx, req.Arguments)
	default:
		return nil, &domain.Error{
			Code:    domain.MethodNotFound,
			Message: fmt.Sprintf("unknown card tool: %s", req.Name),
		}
	}
}

// handleGet handles the card_get tool call.
func (h *CardHandler) handleGet(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	cardID, err := getStringParam(args, "card_id", true)
	if err != nil {
		return nil, err
	}

	card, err := services.Cards.GetCard(ctx, cardID)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(card)
}

// handleGetAll handles the card_get_all tool call.
func (h *CardHandler) handleGetAll(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	listID, err := getStringParam(args, "list_id", true)
	if err != nil {
		return nil, err
	}

	cards, err := services.Cards.GetCards(ctx, listID)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(cards)
}

// handleCreate handles the card_create tool call.
func (h *CardHandler) handleCreate(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	listID, err := getStringParam(args, "list_id", true)
	if err != nil {
		return nil, err
	}
	name, err := getStringParam(args, "name", true)
	if err != nil {
		return nil, err
	}

	// Optional parameters
	description, _ := getStringParam(args, "description", false)
	due, _ := getStringParam(args, "due", false)
	start, _ := getStringParam(args, "start", false)
	pos, _ := getStringParam(args, "pos", false)

	card, err := services.Cards.CreateCard(ctx, infrastructure.CreateCardOptions{
		IDList: listID,
		Name:   name,
		Desc:   description,
		Due:    due,
		Start:  start,
		Pos:    pos,
	})
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(card)
}

// handleUpdate handles the card_update tool call.
func (h *CardHandler) handleUpdate(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	cardID, err := getStringParam(args, "card_id", true)
	if err != nil {
		return nil, err
	}

	// Optional parameters
	name, _ := getStringParam(args, "name", false)
	listID, _ := getStringParam(args, "list_id", false)
	pos, _ := getStringParam(args, "pos", false)

	description, err := getStringPtrParam(args, "description")
	if err != nil {
		return nil, err
	}
	due, err := getStringPtrParam(args, "due")
	if err != nil {
		return nil, err
	}
	start, err := getStringPtrParam(args, "start")
	if err != nil {
		return nil, err
	}
	closed, err := getBoolPtrParam(args, "closed")
	if err != nil {
		return nil, err
	}
	dueComplete, err := getBoolPtrParam(args, "due_complete")
	if err != nil {
		return nil, err
	}
	subscribed, err := getBoolPtrParam(args, "subscribed")
	if err != nil {
		return nil, err
	}

	card, err := services.Cards.UpdateCard(ctx, cardID, infrastructure.UpdateCardOptions{
		Name:        name,
		Desc:        description,
		Closed:      closed,
		Due:         due,
		DueComplete: dueComplete,
		Start:       start,
		IDList:      listID,
		Pos:         pos,
		Subscribed:  subscribed,
	})
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(card)
}

// handleDelete handles the card_delete tool call.
func (h *CardHandler) handleDelete(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	cardID, err := getStringParam(args, "card_id", true)
	if err != nil {
		return nil, err
	}

	if _, err := services.Cards.DeleteCard(ctx, cardID); err != nil {
		return nil, h.mapper.MapError(err)
	}

	// Return success response
	return h.mapper.MapToToolResponse(map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Card %s deleted successfully", cardID),
	})
}

// handleMove handles the card_move tool call.
func (h *CardHandler) handleMove(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	cardID, err := getStringParam(args, "card_id", true)
	if err != nil {
		return nil, err
	}
	listID, err := getStringParam(args, "list_id", true)
	if err != nil {
		return nil, err
	}

	// Optional parameters
	pos, _ := getStringParam(args, "pos", false)

	card, err := services.Cards.MoveCard(ctx, cardID, listID, pos)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(card)
}

// handleAddVote handles the card_add_vote tool call.
func (h *CardHandler) handleAddVote(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	cardID, err := getStringParam(args, "card_id", true)
	if err != nil {
		return nil, err
	}
	memberID, err := getStringParam(args, "member_id", true)
	if err != nil {
		return nil, err
	}

	if _, err := services.Cards.AddVote(ctx, cardID, memberID); err != nil {
		return nil, h.mapper.MapError(err)
	}

	// Return success response
	return h.mapper.MapToToolResponse(map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Added vote from member %s to card %s", memberID, cardID),
	})
}

// handleRemoveVote handles the card_remove_vote tool call.
func (h *CardHandler) handleRemoveVote(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	cardID, err := getStringParam(args, "card_id", true)
	if err != nil {
		return nil, err
	}
	memberID, err := getStringParam(args, "member_id", true)
	if err != nil {
		return nil, err
	}

	if _, err := services.Cards.RemoveVote(ctx, cardID, memberID); err != nil {
		return nil, h.mapper.MapError(err)
	}

	// Return success response
	return h.mapper.MapToToolResponse(map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Removed vote from member %s on card %s", memberID, cardID),
	})
}

// handleGetMembers handles the card_get_members tool call.
func (h *CardHandler) handleGetMembers(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	cardID, err := getStringParam(args, "card_id", true)
	if err != nil {
		return nil, err
	}

	members, err := services.Cards.GetCardMembers(ctx, cardID)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(members)
}

// handleAssignMember handles the card_assign_member tool call.
func (h *CardHandler) handleAssignMember(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	cardID, err := getStringParam(args, "card_id", true)
	if err != nil {
		return nil, err
	}
	memberID, err := getStringParam(args, "member_id", true)
	if err != nil {
		return nil, err
	}

	result, err := services.Cards.AssignMember(ctx, cardID, memberID)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(result)
}

// handleRemoveMember handles the card_remove_member tool call.
func (h *CardHandler) handleRemoveMember(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	cardID, err := getStringParam(args, "card_id", true)
	if err != nil {
		return nil, err
	}
	memberID, err := getStringParam(args, "member_id", true)
	if err != nil {
		return nil, err
	}

	if _, err := services.Cards.RemoveMember(ctx, cardID, memberID); err != nil {
		return nil, h.mapper.MapError(err)
	}

	// Return success response
	return h.mapper.MapToToolResponse(map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Member %s removed from card %s", memberID, cardID),
	})
}

// handleAddLabel handles the card_add_label tool call.
func (h *CardHandler) handleAddLabel(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	cardID, err := getStringParam(args, "card_id", true)
	if err != nil {
		return nil, err
	}
	labelID, err := getStringParam(args, "label_id", true)
	if err != nil {
		return nil, err
	}

	result, err := services.Cards.AddLabel(ctx, cardID, labelID)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(result)
}

// handleRemoveLabel handles the card_remove_label tool call.
func (h *CardHandler) handleRemoveLabel(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	cardID, err := getStringParam(args, "card_id", true)
	if err != nil {
		return nil, err
	}
	labelID, err := getStringParam(args, "label_id", true)
	if err != nil {
		return nil, err
	}

	if _, err := services.Cards.RemoveLabel(ctx, cardID, labelID); err != nil {
		return nil, h.mapper.MapError(err)
	}

	// Return success response
	return h.mapper.MapToToolResponse(map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Label %s removed from card %s", labelID, cardID),
	})
}
