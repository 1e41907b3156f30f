package application

import (
	"context"
	"fmt"

	"trello-mcp-server/internal/domain"
	"trello-mcp-server/internal/infrastructure"
)

// MemberHandler implements ToolHandler for member profile lookups.
// Board and card membership management lives on those handlers.
type MemberHandler struct {
	services *infrastructure.Services
	mapper   domain.ResponseMapper
}

// NewMemberHandler creates a new MemberHandler instance.
func NewMemberHandler(services *infrastructure.Services, mapper domain.ResponseMapper) *MemberHandler {
	return &MemberHandler{
		services: services,
		mapper:   mapper,
	}
}

// ToolMemberGet is the tool name for member profile lookups.
const ToolMemberGet = "member_get"

// ToolName returns the identifier for this handler.
func (h *MemberHandler) ToolName() string {
	return "member"
}

// ListTools returns available tools for member operations.
func (h *MemberHandler) ListTools() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:        ToolMemberGet,
			Description: "Retrieve a member profile by ID or username (defaults to the authenticated member)",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"member_id": map[string]interface{}{
						"type":        "string",
						"description": "A member ID, a username, or 'me' (optional, defaults to me)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{},
			},
		},
	}
}

// Handle processes an MCP tool call request for member operations.
func (h *MemberHandler) Handle(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	// Validate that we have arguments
	if req.Arguments == nil {
		req.Arguments = make(map[string]interface{})
	}

	switch req.Name {
	case ToolMemberGet:
		return h.handleGet(ctx, req.Arguments)
	default:
		return nil, &domain.Error{
			Code:    domain.MethodNotFound,
			Message: fmt.Sprintf("unknown member tool: %s", req.Name),
		}
	}
}

// handleGet handles the member_get tool call.
func (h *MemberHandler) handleGet(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	// Optional parameters
	memberID, err := getStringParam(args, "member_id", false)
	if err != nil {
		return nil, err
	}
	if memberID == "" {
		memberID = "me"
	}

	member, err := services.Members.GetMember(ctx, memberID)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(member)
}
