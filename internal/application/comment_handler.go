package application

import (
	"context"
	"fmt"

	"trello-mcp-server/internal/domain"
	"trello-mcp-server/internal/infrastructure"
)

// CommentHandler implements ToolHandler for card comment operations.
// Comments are commentCard actions in the Trello API, so updates and
// deletes address the action ID.
type CommentHandler struct {
	services *infrastructure.Services
	mapper   domain.ResponseMapper
}

// NewCommentHandler creates a new CommentHandler instance.
func NewCommentHandler(services *infrastructure.Services, mapper domain.ResponseMapper) *CommentHandler {
	return &CommentHandler{
		services: services,
		mapper:   mapper,
	}
}

// Tool name constants for comment operations
const (
	ToolCommentAdd    = "comment_add"
	ToolCommentGetAll = "comment_get_all"
	ToolCommentUpdate = "comment_update"
	ToolCommentDelete = "comment_delete"
)

// ToolName returns the identifier for this handler.
func (h *CommentHandler) ToolName() string {
	return "comment"
}

// ListTools returns available tools for comment operations.
func (h *CommentHandler) ListTools() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:        ToolCommentAdd,
			Description: "Add a comment to a card",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"card_id": map[string]interface{}{
						"type":        "string",
						"description": "The card ID (24-character hex string)",
					},
					"text": map[string]interface{}{
						"type":        "string",
						"description": "The comment text",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"card_id", "text"},
			},
		},
		{
			Name:        ToolCommentGetAll,
			Description: "List the comments on a card",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"card_id": map[string]interface{}{
						"type":        "string",
						"description": "The card ID (24-character hex string)",
					},
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of comments to return (optional)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"card_id"},
			},
		},
		{
			Name:        ToolCommentUpdate,
			Description: "Edit the text of an existing comment",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"comment_id": map[string]interface{}{
						"type":        "string",
						"description": "The comment action ID (24-character hex string)",
					},
					"text": map[string]interface{}{
						"type":        "string",
						"description": "The new comment text",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"comment_id", "text"},
			},
		},
		{
			Name:        ToolCommentDelete,
			Description: "Delete a comment from a card",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"comment_id": map[string]interface{}{
						"type":        "string",
						"description": "The comment action ID (24-character hex string)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"comment_id"},
			},
		},
	}
}

// Handle processes an MCP tool call request for comment operations.
func (h *CommentHandler) Handle(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	// Validate that we have arguments
	if req.Arguments == nil {
		req.Arguments = make(map[string]interface{})
	}

	// Route to the appropriate handler based on tool name
	switch req.Name {
	case ToolCommentAdd:
		return h.handleAdd(ctx, req.Arguments)
	case ToolCommentGetAll:
		return h.handleGetAll(ctx, req.Arguments)
	case ToolCommentUpdate:
		return h.handleUpdate(ctx, req.Arguments)
	case ToolCommentDelete:
		return h.handleDelete(ctx, req.Arguments)
	default:
		return nil, &domain.Error{
			Code:    domain.MethodNotFound,
			Message: fmt.Sprintf("unknown comment tool: %s", req.Name),
		}
	}
}

// handleAdd handles the comment_add tool call.
func (h *CommentHandler) handleAdd(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	cardID, err := getStringParam(args, "card_id", true)
	if err != nil {
		return nil, err
	}
	text, err := getStringParam(args, "text", true)
	if err != nil {
		return nil, err
	}

	comment, err := services.Comments.AddComment(ctx, cardID, text)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(comment)
}

// handleGetAll handles the comment_get_all tool call.
func (h *CommentHandler) handleGetAll(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	cardID, err := getStringParam(args, "card_id", true)
	if err != nil {
		return nil, err
	}

	// Optional parameters
	limit, err := getIntPtrParam(args, "limit")
	if err != nil {
		return nil, err
	}

	comments, err := services.Comments.GetComments(ctx, cardID, limit)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(comments)
}

// handleUpdate handles the comment_update tool call.
func (h *CommentHandler) handleUpdate(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	commentID, err := getStringParam(args, "comment_id", true)
	if err != nil {
		return nil, err
	}
	text, err := getStringParam(args, "text", true)
	if err != nil {
		return nil, err
	}

	comment, err := services.Comments.UpdateComment(ctx, commentID, text)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(comment)
}

// handleDelete handles the comment_delete tool call.
func (h *CommentHandler) handleDelete(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	commentID, err := getStringParam(args, "comment_id", true)
	if err != nil {
		return nil, err
	}

	if _, err := services.Comments.DeleteComment(ctx, commentID); err != nil {
		return nil, h.mapper.MapError(err)
	}

	// Return success response
	return h.mapper.MapToToolResponse(map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Comment %s deleted successfully", commentID),
	})
}
