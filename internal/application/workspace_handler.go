package application

import (
	"context"
	"fmt"

	"trello-mcp-server/internal/domain"
	"trello-mcp-server/internal/infrastructure"
)

// WorkspaceHandler implements ToolHandler for workspace operations.
// Workspaces are organizations in the Trello API.
type WorkspaceHandler struct {
	services *infrastructure.Services
	mapper   domain.ResponseMapper
}

// NewWorkspaceHandler creates a new WorkspaceHandler instance.
func NewWorkspaceHandler(services *infrastructure.Services, mapper domain.ResponseMapper) *WorkspaceHandler {
	return &WorkspaceHandler{
		services: services,
		mapper:   mapper,
	}
}

// Tool name constants for workspace operations
const (
	ToolWorkspaceGet          = "workspace_get"
	ToolWorkspaceList         = "workspace_list"
	ToolWorkspaceCreate       = "workspace_create"
	ToolWorkspaceUpdate       = "workspace_update"
	ToolWorkspaceDelete       = "workspace_delete"
	ToolWorkspaceGetBoards    = "workspace_get_boards"
	ToolWorkspaceGetMembers   = "workspace_get_members"
	ToolWorkspaceAddMember    = "workspace_add_member"
	ToolWorkspaceRemoveMember = "workspace_remove_member"
	ToolWorkspaceCreateExport = "workspace_create_export"
	ToolWorkspaceListExports  = "workspace_list_exports"
)

// ToolName returns the identifier for this handler.
func (h *WorkspaceHandler) ToolName() string {
	return "workspace"
}

// ListTools returns available tools for workspace operations.
func (h *WorkspaceHandler) ListTools() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:        ToolWorkspaceGet,
			Description: "Retrieve a workspace by its ID",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"workspace_id": map[string]interface{}{
						"type":        "string",
						"description": "The workspace ID (24-character hex string)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"workspace_id"},
			},
		},
		{
			Name:        ToolWorkspaceList,
			Description: "List the workspaces the authenticated member belongs to",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"auth": getAuthSchema(),
				},
				Required: []string{},
			},
		},
		{
			Name:        ToolWorkspaceCreate,
			Description: "Create a new workspace",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"display_name": map[string]interface{}{
						"type":        "string",
						"description": "The workspace display name",
					},
					"description": map[string]interface{}{
						"type":        "string",
						"description": "The workspace description (optional)",
					},
					"name": map[string]interface{}{
						"type":        "string",
						"description": "The short name: at least 3 characters, lowercase letters, numbers and underscores only (optional)",
					},
					"website": map[string]interface{}{
						"type":        "string",
						"description": "The workspace website, an HTTP or HTTPS URL (optional)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"display_name"},
			},
		},
		{
			Name:        ToolWorkspaceUpdate,
			Description: "Update an existing workspace",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"workspace_id": map[string]interface{}{
						"type":        "string",
						"description": "The workspace ID (24-character hex string)",
					},
					"display_name": map[string]interface{}{
						"type":        "string",
						"description": "The new display name (optional)",
					},
					"description": map[string]interface{}{
						"type":        "string",
						"description": "The new description; an empty string clears it (optional)",
					},
					"name": map[string]interface{}{
						"type":        "string",
						"description": "The new short name: at least 3 characters, lowercase letters, numbers and underscores only (optional)",
					},
					"website": map[string]interface{}{
						"type":        "string",
						"description": "The new website; an empty string clears it (optional)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"workspace_id"},
			},
		},
		{
			Name:        ToolWorkspaceDelete,
			Description: "Permanently delete a workspace (requires membership)",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"workspace_id": map[string]interface{}{
						"type":        "string",
						"description": "The workspace ID (24-character hex string)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"workspace_id"},
			},
		},
		{
			Name:        ToolWorkspaceGetBoards,
			Description: "List the boards in a workspace",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"workspace_id": map[string]interface{}{
						"type":        "string",
						"description": "The workspace ID (24-character hex string)",
					},
					"filter": map[string]interface{}{
						"type":        "string",
						"description": "Which boards to return: all, open, closed, members, organization, or public (optional)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"workspace_id"},
			},
		},
		{
			Name:        ToolWorkspaceGetMembers,
			Description: "List the members of a workspace",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"workspace_id": map[string]interface{}{
						"type":        "string",
						"description": "The workspace ID (24-character hex string)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"workspace_id"},
			},
		},
		{
			Name:        ToolWorkspaceAddMember,
			Description: "Invite a member to a workspace by email address",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"workspace_id": map[string]interface{}{
						"type":        "string",
						"description": "The workspace ID (24-character hex string)",
					},
					"email": map[string]interface{}{
						"type":        "string",
						"description": "The email address to invite",
					},
					"full_name": map[string]interface{}{
						"type":        "string",
						"description": "The invitee's full name (optional)",
					},
					"role": map[string]interface{}{
						"type":        "string",
						"description": "The member role: normal or admin (defaults to normal)",
						"enum":        []string{"normal", "admin"},
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"workspace_id", "email"},
			},
		},
		{
			Name:        ToolWorkspaceRemoveMember,
			Description: "Remove a member from a workspace",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"workspace_id": map[string]interface{}{
						"type":        "string",
						"description": "The workspace ID (24-character hex string)",
					},
					"member_id": map[string]interface{}{
						"type":        "string",
						"description": "The member ID (24-character hex string)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"workspace_id", "member_id"},
			},
		},
		{
			Name:        ToolWorkspaceCreateExport,
			Description: "Start an export of a workspace (CSV for free workspaces, with attachments when requested)",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"workspace_id": map[string]interface{}{
						"type":        "string",
						"description": "The workspace ID (24-character hex string)",
					},
					"attachments": map[string]interface{}{
						"type":        "boolean",
						"description": "Include attachments in the export (defaults to true)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"workspace_id"},
			},
		},
		{
			Name:        ToolWorkspaceListExports,
			Description: "List the exports of a workspace and their progress",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"workspace_id": map[string]interface{}{
						"type":        "string",
						"description": "The workspace ID (24-character hex string)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"workspace_id"},
			},
		},
	}
}

// Handle processes an MCP tool call request for workspace operations.
func (h *WorkspaceHandler) Handle(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	// Validate that we have arguments
	if req.Arguments == nil {
		req.Arguments = make(map[string]interface{})
	}

	// Route to the appropriate handler based on tool name
	switch req.Name {
	case ToolWorkspaceGet:
		return h.handleGet(ctx, req.Arguments)
	case ToolWorkspaceList:
		return h.handleList(ctx, req.Arguments)
	case ToolWorkspaceCreate:
		return h.handleCreate(ctx, req.Arguments)
	case ToolWorkspaceUpdate:
		return h.handleUpdate(ctx, req.Arguments)
	case ToolWorkspaceDelete:
		return h.handleDelete(ctx, req.Arguments)
	case ToolWorkspaceGetBoards:
		return h.handleGetBoards(ctx, req.Arguments)
	case ToolWorkspaceGetMembers:
		return h.handleGetMembers(ctx, req.Arguments)
	case ToolWorkspaceAddMember:
		return h.handleAddMember(ctx, req.Arguments)
	case ToolWorkspaceRemoveMember:
		return h.handleRemoveMember(ctx, req.Arguments)
	case ToolWorkspaceCreateExport:
		return h.handleCreateExport(ctx, req.Arguments)
	case ToolWorkspaceListExports:
		return h.handleListExports(ctx, req.Arguments)
	default:
		return nil, &domain.Error{
			Code:    domain.MethodNotFound,
			Message: fmt.Sprintf("unknown workspace tool: %s", req.Name),
		}
	}
}

// handleGet handles the workspace_get tool call.
func (h *WorkspaceHandler) handleGet(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	workspaceID, err := getStringParam(args, "workspace_id", true)
	if err != nil {
		return nil, err
	}

	workspace, err := services.Workspaces.GetWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(workspace)
}

// handleList handles the workspace_list tool call.
func (h *WorkspaceHandler) handleList(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	workspaces, err := services.Workspaces.GetWorkspaces(ctx)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(workspaces)
}

// handleCreate handles the workspace_create tool call.
func (h *WorkspaceHandler) handleCreate(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	displayName, err := getStringParam(args, "display_name", true)
	if err != nil {
		return nil, err
	}

	// Optional parameters
	description, _ := getStringParam(args, "description", false)
	name, _ := getStringParam(args, "name", false)
	website, _ := getStringParam(args, "website", false)

	workspace, err := services.Workspaces.CreateWorkspace(ctx, infrastructure.CreateWorkspaceOptions{
		DisplayName: displayName,
		Desc:        description,
		Name:        name,
		Website:     website,
	})
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(workspace)
}

// handleUpdate handles the workspace_update tool call.
func (h *WorkspaceHandler) handleUpdate(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	workspaceID, err := getStringParam(args, "workspace_id", true)
	if err != nil {
		return nil, err
	}

	// Optional parameters
	displayName, _ := getStringParam(args, "display_name", false)
	name, _ := getStringParam(args, "name", false)

	description, err := getStringPtrParam(args, "description")
	if err != nil {
		return nil, err
	}
	website, err := getStringPtrParam(args, "website")
	if err != nil {
		return nil, err
	}

	workspace, err := services.Workspaces.UpdateWorkspace(ctx, workspaceID, infrastructure.UpdateWorkspaceOptions{
		DisplayName: displayName,
		Desc:        description,
		Name:        name,
		Website:     website,
	})
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(workspace)
}

// handleDelete handles the workspace_delete tool call.
func (h *WorkspaceHandler) handleDelete(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	workspaceID, err := getStringParam(args, "workspace_id", true)
	if err != nil {
		return nil, err
	}

	if _, err := services.Workspaces.DeleteWorkspace(ctx, workspaceID); err != nil {
		return nil, h.mapper.MapError(err)
	}

	// Return success response
	return h.mapper.MapToToolResponse(map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Workspace %s deleted successfully", workspaceID),
	})
}

// handleGetBoards handles the workspace_get_boards tool call.
func (h *WorkspaceHandler) handleGetBoards(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	workspaceID, err := getStringParam(args, "workspace_id", true)
	if err != nil {
		return nil, err
	}

	// Optional parameters
	filter, _ := getStringParam(args, "filter", false)

	boards, err := services.Workspaces.GetWorkspaceBoards(ctx, workspaceID, filter)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(boards)
}

// handleGetMembers handles the workspace_get_members tool call.
func (h *WorkspaceHandler) handleGetMembers(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	workspaceID, err := getStringParam(args, "workspace_id", true)
	if err != nil {
		return nil, err
	}

	members, err := services.Workspaces.GetWorkspaceMembers(ctx, workspaceID)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(members)
}

// handleAddMember handles the workspace_add_member tool call.
func (h *WorkspaceHandler) handleAddMember(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	workspaceID, err := getStringParam(args, "workspace_id", true)
	if err != nil {
		return nil, err
	}
	email, err := getStringParam(args, "email", true)
	if err != nil {
		return nil, err
	}

	// Optional parameters
	fullName, _ := getStringParam(args, "full_name", false)
	role, _ := getStringParam(args, "role", false)

	result, err := services.Workspaces.AddWorkspaceMember(ctx, workspaceID, email, fullName, role)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(result)
}

// handleRemoveMember handles the workspace_remove_member tool call.
func (h *WorkspaceHandler) handleRemoveMember(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	workspaceID, err := getStringParam(args, "workspace_id", true)
	if err != nil {
		return nil, err
	}
	memberID, err := getStringParam(args, "member_id", true)
	if err != nil {
		return nil, err
	}

	if _, err := services.Workspaces.RemoveWorkspaceMember(ctx, workspaceID, memberID); err != nil {
		return nil, h.mapper.MapError(err)
	}

	// Return success response
	return h.mapper.MapToToolResponse(map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Member %s removed from workspace %s", memberID, workspaceID),
	})
}

// handleCreateExport handles the workspace_create_export tool call.
func (h *WorkspaceHandler) handleCreateExport(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	workspaceID, err := getStringParam(args, "workspace_id", true)
	if err != nil {
		return nil, err
	}

	// Optional parameters
	attachments, err := getBoolPtrParam(args, "attachments")
	if err != nil {
		return nil, err
	}

	export, err := services.Workspaces.CreateExport(ctx, workspaceID, attachments)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(export)
}

// handleListExports handles the workspace_list_exports tool call.
func (h *WorkspaceHandler) handleListExports(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	workspaceID, err := getStringParam(args, "workspace_id", true)
	if err != nil {
		return nil, err
	}

	exports, err := services.Workspaces.ListExports(ctx, workspaceID)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(exports)
}
