package infrastructure

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"trello-mcp-server/internal/domain"
)

// UpdateListOptions carries the parameters for updating a list.
type UpdateListOptions struct {
	Name    string
	Pos     string
	IDBoard string
	Closed  *bool
}

// ListService manages the lists on a board.
type ListService struct {
	client    *TrelloClient
	validator *ValidationService
}

// NewListService creates a list service.
func NewListService(client *TrelloClient, validator *ValidationService) *ListService {
	return &ListService{client: client, validator: validator}
}

// GetLists retrieves the lists on a board. Filter narrows by state, for
// example "open" or "closed"; the API rejects unknown values.
func (s *ListService) GetLists(ctx context.Context, boardID, filter string) ([]domain.List, error) {
	query := url.Values{}
	setParam(query, "filter", filter)

	raw, err := s.client.Get(ctx, "/boards/"+boardID+"/lists", query)
	if err != nil {
		return nil, err
	}
	var lists []domain.List
	if err := decodeJSON(raw, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

// GetList retrieves a single list by ID.
func (s *ListService) GetList(ctx context.Context, listID string) (*domain.List, error) {
	raw, err := s.client.Get(ctx, "/lists/"+listID, nil)
	if err != nil {
		return nil, err
	}
	var list domain.List
	if err := decodeJSON(raw, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// CreateList creates a list on a board. Pos may be "top", "bottom" or a
// numeric position.
func (s *ListService) CreateList(ctx context.Context, boardID, name, pos string) (*domain.List, error) {
	if err := s.validator.ValidateBoardExists(ctx, boardID); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("name", name)
	query.Set("idBoard", boardID)
	setParam(query, "pos", pos)

	raw, err := s.client.Post(ctx, "/lists", query, nil)
	if err != nil {
		return nil, err
	}
	var list domain.List
	if err := decodeJSON(raw, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// UpdateList updates a list's name, position, board or archived state.
func (s *ListService) UpdateList(ctx context.Context, listID string, opts UpdateListOptions) (*domain.List, error) {
	if err := s.validator.ValidateListExists(ctx, listID); err != nil {
		return nil, err
	}
	if opts.IDBoard != "" {
		if err := s.validator.ValidateBoardExists(ctx, opts.IDBoard); err != nil {
			return nil, err
		}
	}

	query := url.Values{}
	setParam(query, "name", opts.Name)
	setParam(query, "pos", opts.Pos)
	setParam(query, "idBoard", opts.IDBoard)
	setBoolParam(query, "closed", opts.Closed)

	raw, err := s.client.Put(ctx, "/lists/"+listID, query, nil)
	if err != nil {
		return nil, err
	}
	var list domain.List
	if err := decodeJSON(raw, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// ArchiveList archives a list. Trello has no hard delete for lists.
func (s *ListService) ArchiveList(ctx context.Context, listID string) (*domain.List, error) {
	return s.setListClosed(ctx, listID, true)
}

// UnarchiveList restores an archived list.
func (s *ListService) UnarchiveList(ctx context.Context, listID string) (*domain.List, error) {
	return s.setListClosed(ctx, listID, false)
}

func (s *ListService) setListClosed(ctx context.Context, listID string, closed bool) (*domain.List, error) {
	if err := s.validator.ValidateListExists(ctx, listID); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("value", strconv.FormatBool(closed))

	raw, err := s.client.Put(ctx, "/lists/"+listID+"/closed", query, nil)
	if err != nil {
		return nil, err
	}
	var list domain.List
	if err := decodeJSON(raw, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// MoveAllCards moves every card on a list to another list, which may live on
// a different board.
func (s *ListService) MoveAllCards(ctx context.Context, listID, targetBoardID, targetListID string) (json.RawMessage, error) {
	if err := s.validator.ValidateListExists(ctx, listID); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateBoardExists(ctx, targetBoardID); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateListExists(ctx, targetListID); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("idBoard", targetBoardID)
	query.Set("idList", targetListID)
	return s.client.Post(ctx, "/lists/"+listID+"/moveAllCards", query, nil)
}
