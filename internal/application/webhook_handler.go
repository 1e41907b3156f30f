package application

import (
	"context"
	"fmt"

	"trello-mcp-server/internal/domain"
	"trello-mcp-server/internal/infrastructure"
)

// WebhookHandler implements ToolHandler for webhook registrations.
// The server manages registrations only; it does not receive callbacks.
type WebhookHandler struct {
	services *infrastructure.Services
	mapper   domain.ResponseMapper
}

// NewWebhookHandler creates a new WebhookHandler instance.
func NewWebhookHandler(services *infrastructure.Services, mapper domain.ResponseMapper) *WebhookHandler {
	return &WebhookHandler{
		services: services,
		mapper:   mapper,
	}
}

// Tool name constants for webhook operations
const (
	ToolWebhookCreate = "webhook_create"
	ToolWebhookGet    = "webhook_get"
	ToolWebhookList   = "webhook_list"
	ToolWebhookUpdate = "webhook_update"
	ToolWebhookDelete = "webhook_delete"
)

// ToolName returns the identifier for this handler.
func (h *WebhookHandler) ToolName() string {
	return "webhook"
}

// ListTools returns available tools for webhook operations.
func (h *WebhookHandler) ListTools() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:        ToolWebhookCreate,
			Description: "Register a webhook that posts to a callback URL when a model changes",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"callback_url": map[string]interface{}{
						"type":        "string",
						"description": "The HTTP or HTTPS URL Trello will POST change notifications to",
					},
					"model_id": map[string]interface{}{
						"type":        "string",
						"description": "The ID of the board, list, card or member to watch",
					},
					"description": map[string]interface{}{
						"type":        "string",
						"description": "A description of the webhook (optional)",
					},
					"active": map[string]interface{}{
						"type":        "boolean",
						"description": "Create the webhook active or inactive (optional)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"callback_url", "model_id"},
			},
		},
		{
			Name:        ToolWebhookGet,
			Description: "Retrieve a webhook registration by its ID",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"webhook_id": map[string]interface{}{
						"type":        "string",
						"description": "The webhook ID (24-character hex string)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"webhook_id"},
			},
		},
		{
			Name:        ToolWebhookList,
			Description: "List every webhook registered for the authenticated token",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"auth": getAuthSchema(),
				},
				Required: []string{},
			},
		},
		{
			Name:        ToolWebhookUpdate,
			Description: "Update a webhook's callback URL, watched model, description or active state",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"webhook_id": map[string]interface{}{
						"type":        "string",
						"description": "The webhook ID (24-character hex string)",
					},
					"callback_url": map[string]interface{}{
						"type":        "string",
						"description": "The new callback URL (optional)",
					},
					"model_id": map[string]interface{}{
						"type":        "string",
						"description": "The new model to watch (optional)",
					},
					"description": map[string]interface{}{
						"type":        "string",
						"description": "The new description (optional)",
					},
					"active": map[string]interface{}{
						"type":        "boolean",
						"description": "Activate or deactivate the webhook (optional)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"webhook_id"},
			},
		},
		{
			Name:        ToolWebhookDelete,
			Description: "Delete a webhook registration",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"webhook_id": map[string]interface{}{
						"type":        "string",
						"description": "The webhook ID (24-character hex string)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"webhook_id"},
			},
		},
	}
}

// Handle processes an MCP tool call request for webhook operations.
func (h *WebhookHandler) Handle(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	// Validate that we have arguments
	if req.Arguments == nil {
		req.Arguments = make(map[string]interface{})
	}

	// Route to the appropriate handler based on tool name
	switch req.Name {
	case ToolWebhookCreate:
		return h.handleCreate(ctx, req.Arguments)
	case ToolWebhookGet:
		return h.handleGet(ctx, req.Arguments)
	case ToolWebhookList:
		return h.handleList(ctx, req.Arguments)
	case ToolWebhookUpdate:
		return h.handleUpdate(ctx, req.Arguments)
	case ToolWebhookDelete:
		return h.handleDelete(ctx, req.Arguments)
	default:
		return nil, &domain.Error{
			Code:    domain.MethodNotFound,
			Message: fmt.Sprintf("unknown webhook tool: %s", req.Name),
		}
	}
}

// handleCreate handles the webhook_create tool call.
func (h *WebhookHandler) handleCreate(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	callbackURL, err := getStringParam(args, "callback_url", true)
	if err != nil {
		return nil, err
	}
	modelID, err := getStringParam(args, "model_id", true)
	if err != nil {
		return nil, err
	}

	// Optional parameters
	description, _ := getStringParam(args, "description", false)
	active, err := getBoolPtrParam(args, "active")
	if err != nil {
		return nil, err
	}

	webhook, err := services.Webhooks.CreateWebhook(ctx, infrastructure.CreateWebhookOptions{
		CallbackURL: callbackURL,
		IDModel:     modelID,
		Description: description,
		Active:      active,
	})
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(webhook)
}

// handleGet handles the webhook_get tool call.
func (h *WebhookHandler) handleGet(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	webhookID, err := getStringParam(args, "webhook_id", true)
	if err != nil {
		return nil, err
	}

	webhook, err := services.Webhooks.GetWebhook(ctx, webhookID)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(webhook)
}

// handleList handles the webhook_list tool call.
func (h *WebhookHandler) handleList(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	webhooks, err := services.Webhooks.ListWebhooks(ctx)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(webhooks)
}

// handleUpdate handles the webhook_update tool call.
func (h *WebhookHandler) handleUpdate(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	webhookID, err := getStringParam(args, "webhook_id", true)
	if err != nil {
		return nil, err
	}

	// Optional parameters
	callbackURL, _ := getStringParam(args, "callback_url", false)
	modelID, _ := getStringParam(args, "model_id", false)
	description, _ := getStringParam(args, "description", false)
	active, err := getBoolPtrParam(args, "active")
	if err != nil {
		return nil, err
	}

	webhook, err := services.Webhooks.UpdateWebhook(ctx, webhookID, infrastructure.UpdateWebhookOptions{
		CallbackURL: callbackURL,
		IDModel:     modelID,
		Description: description,
		Active:      active,
	})
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(webhook)
}

// handleDelete handles the webhook_delete tool call.
func (h *WebhookHandler) handleDelete(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	webhookID, err := getStringParam(args, "webhook_id", true)
	if err != nil {
		return nil, err
	}

	if _, err := services.Webhooks.DeleteWebhook(ctx, webhookID); err != nil {
		return nil, h.mapper.MapError(err)
	}

	// Return success response
	return h.mapper.MapToToolResponse(map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Webhook %s deleted successfully", webhookID),
	})
}
