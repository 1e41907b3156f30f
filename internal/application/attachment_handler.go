package application

import (
	"context"
	"fmt"

	"trello-mcp-server/internal/domain"
	"trello-mcp-server/internal/infrastructure"
)

// AttachmentHandler implements ToolHandler for card attachment operations.
// Only URL attachments are supported; file uploads are not.
type AttachmentHandler struct {
	services *infrastructure.Services
	mapper   domain.ResponseMapper
}

// NewAttachmentHandler creates a new AttachmentHandler instance.
func NewAttachmentHandler(services *infrastructure.Services, mapper domain.ResponseMapper) *AttachmentHandler {
	return &AttachmentHandler{
		services: services,
		mapper:   mapper,
	}
}

// Tool name constants for attachment operations
const (
	ToolAttachmentGetAll   = "attachment_get_all"
	ToolAttachmentGet      = "attachment_get"
	ToolAttachmentAddURL   = "attachment_add_url"
	ToolAttachmentDelete   = "attachment_delete"
	ToolAttachmentSetCover = "attachment_set_cover"
)

// ToolName returns the identifier for this handler.
func (h *AttachmentHandler) ToolName() string {
	return "attachment"
}

// ListTools returns available tools for attachment operations.
func (h *AttachmentHandler) ListTools() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:        ToolAttachmentGetAll,
			Description: "List the attachments on a card",
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
			Name:        ToolAttachmentGet,
			Description: "Retrieve a single attachment on a card",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"card_id": map[string]interface{}{
						"type":        "string",
						"description": "The card ID (24-character hex string)",
					},
					"attachment_id": map[string]interface{}{
						"type":        "string",
						"description": "The attachment ID (24-character hex string)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"card_id", "attachment_id"},
			},
		},
		{
			Name:        ToolAttachmentAddURL,
			Description: "Attach a URL to a card",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"card_id": map[string]interface{}{
						"type":        "string",
						"description": "The card ID (24-character hex string)",
					},
					"url": map[string]interface{}{
						"type":        "string",
						"description": "The HTTP or HTTPS URL to attach",
					},
					"name": map[string]interface{}{
						"type":        "string",
						"description": "A display name for the attachment (optional)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"card_id", "url"},
			},
		},
		{
			Name:        ToolAttachmentDelete,
			Description: "Delete an attachment from a card",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"card_id": map[string]interface{}{
						"type":        "string",
						"description": "The card ID (24-character hex string)",
					},
					"attachment_id": map[string]interface{}{
						"type":        "string",
						"description": "The attachment ID (24-character hex string)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"card_id", "attachment_id"},
			},
		},
		{
			Name:        ToolAttachmentSetCover,
			Description: "Set an image attachment as the card cover, or clear the cover",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"card_id": map[string]interface{}{
						"type":        "string",
						"description": "The card ID (24-character hex string)",
					},
					"attachment_id": map[string]interface{}{
						"type":        "string",
						"description": "The attachment to use as cover; omit or pass empty to clear the cover (optional)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"card_id"},
			},
		},
	}
}

// Handle processes an MCP tool call request for attachment operations.
func (h *AttachmentHandler) Handle(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	// Validate that we have arguments
	if req.Arguments == nil {
		req.Arguments = make(map[string]interface{})
	}

	// Route to the appropriate handler based on tool name
	switch req.Name {
	case ToolAttachmentGetAll:
		return h.handleGetAll(ctx, req.Arguments)
	case ToolAttachmentGet:
		return h.handleGet(ctx, req.Arguments)
	case ToolAttachmentAddURL:
		return h.handleAddURL(ctx, req.Arguments)
	case ToolAttachmentDelete:
		return h.handleDelete(ctx, req.Arguments)
	case ToolAttachmentSetCover:
		return h.handleSetCover(ctx, req.Arguments)
	default:
		return nil, &domain.Error{
			Code:    domain.MethodNotFound,
			Message: fmt.Sprintf("unknown attachment tool: %s", req.Name),
		}
	}
}

// handleGetAll handles the attachment_get_all tool call.
func (h *AttachmentHandler) handleGetAll(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	cardID, err := getStringParam(args, "card_id", true)
	if err != nil {
		return nil, err
	}

	attachments, err := services.Attachments.GetAttachments(ctx, cardID)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(attachments)
}

// handleGet handles the attachment_get tool call.
func (h *AttachmentHandler) handleGet(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	cardID, err := getStringParam(args, "card_id", true)
	if err != nil {
		return nil, err
	}
	attachmentID, err := getStringParam(args, "attachment_id", true)
	if err != nil {
		return nil, err
	}

	attachment, err := services.Attachments.GetAttachment(ctx, cardID, attachmentID)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(attachment)
}

// handleAddURL handles the attachment_add_url tool call.
func (h *AttachmentHandler) handleAddURL(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	cardID, err := getStringParam(args, "card_id", true)
	if err != nil {
		return nil, err
	}
	attachmentURL, err := getStringParam(args, "url", true)
	if err != nil {
		return nil, err
	}

	// Optional parameters
	name, _ := getStringParam(args, "name", false)

	attachment, err := services.Attachments.AttachURL(ctx, cardID, attachmentURL, name)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(attachment)
}

// handleDelete handles the attachment_delete tool call.
func (h *AttachmentHandler) handleDelete(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	cardID, err := getStringParam(args, "card_id", true)
	if err != nil {
		return nil, err
	}
	attachmentID, err := getStringParam(args, "attachment_id", true)
	if err != nil {
		return nil, err
	}

	if _, err := services.Attachments.DeleteAttachment(ctx, cardID, attachmentID); err != nil {
		return nil, h.mapper.MapError(err)
	}

	// Return success response
	return h.mapper.MapToToolResponse(map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Attachment %s deleted from card %s", attachmentID, cardID),
	})
}

// handleSetCover handles the attachment_set_cover tool call.
func (h *AttachmentHandler) handleSetCover(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	cardID, err := getStringParam(args, "card_id", true)
	if err != nil {
		return nil, err
	}

	// An absent or empty attachment_id clears the cover
	attachmentID, _ := getStringParam(args, "attachment_id", false)

	card, err := services.Attachments.SetCover(ctx, cardID, attachmentID)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(card)
}
