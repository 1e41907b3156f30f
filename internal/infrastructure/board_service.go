package infrastructure

import (
	"context"
	"encoding/json"
	"net/url"

	"trello-mcp-server/internal/domain"
)

// CreateBoardOptions carries the parameters for creating a board. Name is
// required; everything else is optional.
type CreateBoardOptions struct {
	Name            string
	Desc            string
	IDOrganization  string
	DefaultLists    *bool
	DefaultLabels   *bool
	PermissionLevel string
	Voting          string
	Comments        string
}

// UpdateBoardOptions carries the parameters for updating a board. Nil or
// empty fields are left untouched.
type UpdateBoardOptions struct {
	Name            string
	Desc            *string
	Closed          *bool
	IDOrganization  string
	PermissionLevel string
	Voting          string
	Comments        string
	SelfJoin        *bool
	CardCovers      *bool
}

// BoardService manages Trello boards and their labels, actions and members.
type BoardService struct {
	client    *TrelloClient
	validator *ValidationService
}

// NewBoardService creates a board service.
func NewBoardService(client *TrelloClient, validator *ValidationService) *BoardService {
	return &BoardService{client: client, validator: validator}
}

// GetBoard retrieves a board by ID.
func (s *BoardService) GetBoard(ctx context.Context, boardID string) (*domain.Board, error) {
	raw, err := s.client.Get(ctx, "/boards/"+boardID, nil)
	if err != nil {
		return nil, err
	}
	var board domain.Board
	if err := decodeJSON(raw, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

// GetBoards retrieves all boards for the authenticated member.
func (s *BoardService) GetBoards(ctx context.Context) ([]domain.Board, error) {
	raw, err := s.client.Get(ctx, "/members/me/boards", nil)
	if err != nil {
		return nil, err
	}
	var boards []domain.Board
	if err := decodeJSON(raw, &boards); err != nil {
		return nil, err
	}
	return boards, nil
}

// CreateBoard creates a new board. When the board is placed in a workspace,
// the workspace must exist and the caller must be a member of it.
func (s *BoardService) CreateBoard(ctx context.Context, opts CreateBoardOptions) (*domain.Board, error) {
	if opts.IDOrganization != "" {
		if err := s.validator.ValidateOrganizationExists(ctx, opts.IDOrganization); err != nil {
			return nil, err
		}
		if err := s.validator.ValidateOrganizationMembership(ctx, opts.IDOrganization, "me"); err != nil {
			return nil, err
		}
	}
	if opts.PermissionLevel != "" {
		if err := s.validator.ValidatePermissionLevel(opts.PermissionLevel); err != nil {
			return nil, err
		}
	}
	if opts.Voting != "" {
		if err := s.validator.ValidateVotingPermission(opts.Voting); err != nil {
			return nil, err
		}
	}
	if opts.Comments != "" {
		if err := s.validator.ValidateCommentsPermission(opts.Comments); err != nil {
			return nil, err
		}
	}

	query := url.Values{}
	query.Set("name", opts.Name)
	setParam(query, "desc", opts.Desc)
	setParam(query, "idOrganization", opts.IDOrganization)
	setBoolParam(query, "defaultLists", opts.DefaultLists)
	setBoolParam(query, "defaultLabels", opts.DefaultLabels)
	setParam(query, "prefs_permissionLevel", opts.PermissionLevel)
	setParam(query, "prefs_voting", opts.Voting)
	setParam(query, "prefs_comments", opts.Comments)

	raw, err := s.client.Post(ctx, "/boards", query, nil)
	if err != nil {
		return nil, err
	}
	var board domain.Board
	if err := decodeJSON(raw, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

// UpdateBoard updates an existing board. Preference updates use the slash
// form of the parameter names, which is what the API expects on PUT.
func (s *BoardService) UpdateBoard(ctx context.Context, boardID string, opts UpdateBoardOptions) (*domain.Board, error) {
	if err := s.validator.ValidateBoardExists(ctx, boardID); err != nil {
		return nil, err
	}
	if opts.IDOrganization != "" {
		if err := s.validator.ValidateOrganizationExists(ctx, opts.IDOrganization); err != nil {
			return nil, err
		}
		if err := s.validator.ValidateOrganizationMembership(ctx, opts.IDOrganization, "me"); err != nil {
			return nil, err
		}
	}
	if opts.PermissionLevel != "" {
		if err := s.validator.ValidatePermissionLevel(opts.PermissionLevel); err != nil {
			return nil, err
		}
	}
	if opts.Voting != "" {
		if err := s.validator.ValidateVotingPermission(opts.Voting); err != nil {
			return nil, err
		}
	}
	if opts.Comments != "" {
		if err := s.validator.ValidateCommentsPermission(opts.Comments); err != nil {
			return nil, err
		}
	}

	query := url.Values{}
	setParam(query, "name", opts.Name)
	setStringPtrParam(query, "desc", opts.Desc)
	setBoolParam(query, "closed", opts.Closed)
	setParam(query, "idOrganization", opts.IDOrganization)
	setParam(query, "prefs/permissionLevel", opts.PermissionLevel)
	setParam(query, "prefs/voting", opts.Voting)
	setParam(query, "prefs/comments", opts.Comments)
	setBoolParam(query, "prefs/selfJoin", opts.SelfJoin)
	setBoolParam(query, "prefs/cardCovers", opts.CardCovers)

	raw, err := s.client.Put(ctx, "/boards/"+boardID, query, nil)
	if err != nil {
		return nil, err
	}
	var board domain.Board
	if err := decodeJSON(raw, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

// DeleteBoard permanently deletes a board. Requires admin permission.
func (s *BoardService) DeleteBoard(ctx context.Context, boardID string) (json.RawMessage, error) {
	if err := s.validator.ValidateBoardExists(ctx, boardID); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateBoardAdminPermission(ctx, boardID); err != nil {
		return nil, err
	}
	return s.client.Delete(ctx, "/boards/"+boardID, nil)
}

// GetBoardLabels retrieves all labels defined on a board.
func (s *BoardService) GetBoardLabels(ctx context.Context, boardID string) ([]domain.Label, error) {
	raw, err := s.client.Get(ctx, "/boards/"+boardID+"/labels", nil)
	if err != nil {
		return nil, err
	}
	var labels []domain.Label
	if err := decodeJSON(raw, &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

// CreateBoardLabel creates a label on a board.
func (s *BoardService) CreateBoardLabel(ctx context.Context, boardID, name, color string) (*domain.Label, error) {
	if err := s.validator.ValidateBoardExists(ctx, boardID); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateColor(color); err != nil {
		return nil, err
	}

	body := map[string]interface{}{"name": name}
	if color != "" {
		body["color"] = color
	}
	raw, err := s.client.Post(ctx, "/boards/"+boardID+"/labels", nil, body)
	if err != nil {
		return nil, err
	}
	var label domain.Label
	if err := decodeJSON(raw, &label); err != nil {
		return nil, err
	}
	return &label, nil
}

// GetBoardActions retrieves the activity feed of a board, optionally
// filtered by action type.
func (s *BoardService) GetBoardActions(ctx context.Context, boardID, filter string, limit *int) ([]domain.Action, error) {
	query := url.Values{}
	setParam(query, "filter", filter)
	setIntParam(query, "limit", limit)

	raw, err := s.client.Get(ctx, "/boards/"+boardID+"/actions", query)
	if err != nil {
		return nil, err
	}
	var actions []domain.Action
	if err := decodeJSON(raw, &actions); err != nil {
		return nil, err
	}
	return actions, nil
}

// ExportBoard fetches a board with every nested entity expanded, suitable
// for a full backup.
func (s *BoardService) ExportBoard(ctx context.Context, boardID string) (json.RawMessage, error) {
	if err := s.validator.ValidateBoardExists(ctx, boardID); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("fields", "all")
	query.Set("actions", "all")
	query.Set("action_fields", "all")
	query.Set("actions_limit", "1000")
	query.Set("cards", "all")
	query.Set("card_fields", "all")
	query.Set("card_attachments", "true")
	query.Set("labels", "all")
	query.Set("lists", "all")
	query.Set("list_fields", "all")
	query.Set("members", "all")
	query.Set("member_fields", "all")
	query.Set("checklists", "all")
	query.Set("checklist_fields", "all")
	query.Set("customFields", "true")

	return s.client.Get(ctx, "/boards/"+boardID, query)
}

// GetBoardMembers retrieves all members of a board.
func (s *BoardService) GetBoardMembers(ctx context.Context, boardID string) ([]domain.Member, error) {
	raw, err := s.client.Get(ctx, "/boards/"+boardID+"/members", nil)
	if err != nil {
		return nil, err
	}
	var members []domain.Member
	if err := decodeJSON(raw, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// AddBoardMember invites a member to a board by email address. Role is one
// of normal, admin or observer and defaults to normal.
func (s *BoardService) AddBoardMember(ctx context.Context, boardID, email, role string) (json.RawMessage, error) {
	if err := s.validator.ValidateBoardExists(ctx, boardID); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("email", email)
	if role == "" {
		role = "normal"
	}
	query.Set("type", role)
	return s.client.Put(ctx, "/boards/"+boardID+"/members", query, nil)
}

// UpdateBoardMemberRole changes a board member's role.
func (s *BoardService) UpdateBoardMemberRole(ctx context.Context, boardID, memberID, role string) (json.RawMessage, error) {
	if err := s.validator.ValidateBoardExists(ctx, boardID); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("type", role)
	return s.client.Put(ctx, "/boards/"+boardID+"/members/"+memberID, query, nil)
}

// RemoveBoardMember removes a member from a board.
func (s *BoardService) RemoveBoardMember(ctx context.Context, boardID, memberID string) (json.RawMessage, error) {
	if err := s.validator.ValidateBoardExists(ctx, boardID); err != nil {
		return nil, err
	}
	return s.client.Delete(ctx, "/boards/"+boardID+"/members/"+memberID, nil)
}
