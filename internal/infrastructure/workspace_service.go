package infrastructure

import (
	"context"
	"encoding/json"
	"net/url"
	"regexp"
	"strconv"

	"trello-mcp-server/internal/domain"
)

// Workspace short names appear in URLs and must be lowercase alphanumeric
// with underscores, at least three characters.
var workspaceNamePattern = regexp.MustCompile(`^[a-z0-9_]{3,}$`)

// CreateWorkspaceOptions carries the parameters for creating a workspace.
// DisplayName is required.
type CreateWorkspaceOptions struct {
	DisplayName string
	Desc        string
	Name        string
	Website     string
}

// UpdateWorkspaceOptions carries the parameters for updating a workspace.
type UpdateWorkspaceOptions struct {
	DisplayName string
	Desc        *string
	Name        string
	Website     *string
}

// WorkspaceService manages Trello workspaces (organizations in the API).
type WorkspaceService struct {
	client    *TrelloClient
	validator *ValidationService
}

// NewWorkspaceService creates a workspace service.
func NewWorkspaceService(client *TrelloClient, validator *ValidationService) *WorkspaceService {
	return &WorkspaceService{client: client, validator: validator}
}

// GetWorkspace retrieves a workspace by ID.
func (s *WorkspaceService) GetWorkspace(ctx context.Context, workspaceID string) (*domain.Organization, error) {
	raw, err := s.client.Get(ctx, "/organizations/"+workspaceID, nil)
	if err != nil {
		return nil, err
	}
	var workspace domain.Organization
	if err := decodeJSON(raw, &workspace); err != nil {
		return nil, err
	}
	return &workspace, nil
}

// GetWorkspaces retrieves all workspaces of the authenticated member.
func (s *WorkspaceService) GetWorkspaces(ctx context.Context) ([]domain.Organization, error) {
	raw, err := s.client.Get(ctx, "/members/me/organizations", nil)
	if err != nil {
		return nil, err
	}
	var workspaces []domain.Organization
	if err := decodeJSON(raw, &workspaces); err != nil {
		return nil, err
	}
	return workspaces, nil
}

// CreateWorkspace creates a new workspace.
func (s *WorkspaceService) CreateWorkspace(ctx context.Context, opts CreateWorkspaceOptions) (*domain.Organization, error) {
	if opts.Name != "" && !workspaceNamePattern.MatchString(opts.Name) {
		return nil, &domain.ValidationError{
			Message: "Workspace name must be at least 3 characters and contain only lowercase letters, numbers, and underscores",
		}
	}
	if opts.Website != "" {
		if err := s.validator.ValidateURL(opts.Website, "website"); err != nil {
			return nil, err
		}
	}

	query := url.Values{}
	query.Set("displayName", opts.DisplayName)
	setParam(query, "desc", opts.Desc)
	setParam(query, "name", opts.Name)
	setParam(query, "website", opts.Website)

	raw, err := s.client.Post(ctx, "/organizations", query, nil)
	if err != nil {
		return nil, err
	}
	var workspace domain.Organization
	if err := decodeJSON(raw, &workspace); err != nil {
		return nil, err
	}
	return &workspace, nil
}

// UpdateWorkspace updates a workspace. The caller must be a member.
func (s *WorkspaceService) UpdateWorkspace(ctx context.Context, workspaceID string, opts UpdateWorkspaceOptions) (*domain.Organization, error) {
	if err := s.validator.ValidateOrganizationExists(ctx, workspaceID); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateOrganizationMembership(ctx, workspaceID, "me"); err != nil {
		return nil, err
	}
	if opts.Name != "" && !workspaceNamePattern.MatchString(opts.Name) {
		return nil, &domain.ValidationError{
			Message: "Workspace name must be at least 3 characters and contain only lowercase letters, numbers, and underscores",
		}
	}
	if opts.Website != nil && *opts.Website != "" {
		if err := s.validator.ValidateURL(*opts.Website, "website"); err != nil {
			return nil, err
		}
	}

	query := url.Values{}
	setParam(query, "displayName", opts.DisplayName)
	setStringPtrParam(query, "desc", opts.Desc)
	setParam(query, "name", opts.Name)
	setStringPtrParam(query, "website", opts.Website)

	raw, err := s.client.Put(ctx, "/organizations/"+workspaceID, query, nil)
	if err != nil {
		return nil, err
	}
	var workspace domain.Organization
	if err := decodeJSON(raw, &workspace); err != nil {
		return nil, err
	}
	return &workspace, nil
}

// DeleteWorkspace permanently deletes a workspace.
func (s *WorkspaceService) DeleteWorkspace(ctx context.Context, workspaceID string) (json.RawMessage, error) {
	if err := s.validator.ValidateOrganizationExists(ctx, workspaceID); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateOrganizationMembership(ctx, workspaceID, "me"); err != nil {
		return nil, err
	}
	return s.client.Delete(ctx, "/organizations/"+workspaceID, nil)
}

// GetWorkspaceBoards retrieves the boards in a workspace, optionally
// filtered.
func (s *WorkspaceService) GetWorkspaceBoards(ctx context.Context, workspaceID, filter string) ([]domain.Board, error) {
	if filter != "" {
		if err := s.validator.ValidateBoardFilter(filter); err != nil {
			return nil, err
		}
	}

	query := url.Values{}
	setParam(query, "filter", filter)

	raw, err := s.client.Get(ctx, "/organizations/"+workspaceID+"/boards", query)
	if err != nil {
		return nil, err
	}
	var boards []domain.Board
	if err := decodeJSON(raw, &boards); err != nil {
		return nil, err
	}
	return boards, nil
}

// GetWorkspaceMembers retrieves all members of a workspace.
func (s *WorkspaceService) GetWorkspaceMembers(ctx context.Context, workspaceID string) ([]domain.Member, error) {
	raw, err := s.client.Get(ctx, "/organizations/"+workspaceID+"/members", nil)
	if err != nil {
		return nil, err
	}
	var members []domain.Member
	if err := decodeJSON(raw, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// AddWorkspaceMember adds or invites a member. Role is normal or admin.
func (s *WorkspaceService) AddWorkspaceMember(ctx context.Context, workspaceID, email, fullName, role string) (json.RawMessage, error) {
	if err := s.validator.ValidateOrganizationExists(ctx, workspaceID); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("email", email)
	setParam(query, "fullName", fullName)
	if role == "" {
		role = "normal"
	}
	query.Set("type", role)
	return s.client.Put(ctx, "/organizations/"+workspaceID+"/members", query, nil)
}

// RemoveWorkspaceMember removes a member from a workspace.
func (s *WorkspaceService) RemoveWorkspaceMember(ctx context.Context, workspaceID, memberID string) (json.RawMessage, error) {
	if err := s.validator.ValidateOrganizationExists(ctx, workspaceID); err != nil {
		return nil, err
	}
	return s.client.Delete(ctx, "/organizations/"+workspaceID+"/members/"+memberID, nil)
}

// CreateExport starts a workspace export. Attachments default to included.
func (s *WorkspaceService) CreateExport(ctx context.Context, workspaceID string, attachments *bool) (*domain.OrganizationExport, error) {
	if err := s.validator.ValidateOrganizationExists(ctx, workspaceID); err != nil {
		return nil, err
	}

	query := url.Values{}
	include := true
	if attachments != nil {
		include = *attachments
	}
	query.Set("attachments", strconv.FormatBool(include))

	raw, err := s.client.Post(ctx, "/organizations/"+workspaceID+"/exports", query, nil)
	if err != nil {
		return nil, err
	}
	var export domain.OrganizationExport
	if err := decodeJSON(raw, &export); err != nil {
		return nil, err
	}
	return &export, nil
}

// ListExports retrieves the exports of a workspace.
func (s *WorkspaceService) ListExports(ctx context.Context, workspaceID string) ([]domain.OrganizationExport, error) {
	raw, err := s.client.Get(ctx, "/organizations/"+workspaceID+"/exports", nil)
	if err != nil {
		return nil, err
	}
	var exports []domain.OrganizationExport
	if err := decodeJSON(raw, &exports); err != nil {
		return nil, err
	}
	return exports, nil
}
