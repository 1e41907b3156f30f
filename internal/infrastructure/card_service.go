package infrastructure

import (
	"context"
	"encoding/json"
	"net/url"

	"trello-mcp-server/internal/domain"
)

// CreateCardOptions carries the parameters for creating a card on a list.
type CreateCardOptions struct {
	IDList string
	Name   string
	Desc   string
	Due    string
	Start  string
	Pos    string
}

// UpdateCardOptions carries the parameters for updating a card. Nil or empty
// fields are left untouched; Due and Start accept an explicit empty string
// to clear the date.
type UpdateCardOptions struct {
	Name        string
	Desc        *string
	Closed      *bool
	Due         *string
	DueComplete *bool
	Start       *string
	IDList      string
	Pos         string
	Subscribed  *bool
}

// CardService manages cards, their votes, members and labels.
type CardService struct {
	client    *TrelloClient
	validator *ValidationService
}

// NewCardService creates a card service.
func NewCardService(client *TrelloClient, validator *ValidationService) *CardService {
	return &CardService{client: client, validator: validator}
}

// GetCard retrieves a card by ID.
func (s *CardService) GetCard(ctx context.Context, cardID string) (*domain.Card, error) {
	raw, err := s.client.Get(ctx, "/cards/"+cardID, nil)
	if err != nil {
		return nil, err
	}
	var card domain.Card
	if err := decodeJSON(raw, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// GetCards retrieves all cards on a list.
func (s *CardService) GetCards(ctx context.Context, listID string) ([]domain.Card, error) {
	raw, err := s.client.Get(ctx, "/lists/"+listID+"/cards", nil)
	if err != nil {
		return nil, err
	}
	var cards []domain.Card
	if err := decodeJSON(raw, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// CreateCard creates a card on a list.
func (s *CardService) CreateCard(ctx context.Context, opts CreateCardOptions) (*domain.Card, error) {
	if err := s.validator.ValidateListExists(ctx, opts.IDList); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("idList", opts.IDList)
	query.Set("name", opts.Name)
	setParam(query, "desc", opts.Desc)
	setParam(query, "due", opts.Due)
	setParam(query, "start", opts.Start)
	setParam(query, "pos", opts.Pos)

	raw, err := s.client.Post(ctx, "/cards", query, nil)
	if err != nil {
		return nil, err
	}
	var card domain.Card
	if err := decodeJSON(raw, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// UpdateCard updates an existing card.
func (s *CardService) UpdateCard(ctx context.Context, cardID string, opts UpdateCardOptions) (*domain.Card, error) {
	if err := s.validator.ValidateCardExists(ctx, cardID); err != nil {
		return nil, err
	}
	if opts.IDList != "" {
		if err := s.validator.ValidateListExists(ctx, opts.IDList); err != nil {
			return nil, err
		}
	}

	query := url.Values{}
	setParam(query, "name", opts.Name)
	setStringPtrParam(query, "desc", opts.Desc)
	setBoolParam(query, "closed", opts.Closed)
	setStringPtrParam(query, "due", opts.Due)
	setBoolParam(query, "dueComplete", opts.DueComplete)
	setStringPtrParam(query, "start", opts.Start)
	setParam(query, "idList", opts.IDList)
	setParam(query, "pos", opts.Pos)
	setBoolParam(query, "subscribed", opts.Subscribed)

	raw, err := s.client.Put(ctx, "/cards/"+cardID, query, nil)
	if err != nil {
		return nil, err
	}
	var card domain.Card
	if err := decodeJSON(raw, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// DeleteCard permanently deletes a card.
func (s *CardService) DeleteCard(ctx context.Context, cardID string) (json.RawMessage, error) {
	if err := s.validator.ValidateCardExists(ctx, cardID); err != nil {
		return nil, err
	}
	return s.client.Delete(ctx, "/cards/"+cardID, nil)
}

// MoveCard moves a card to another list, optionally at a given position.
func (s *CardService) MoveCard(ctx context.Context, cardID, listID, pos string) (*domain.Card, error) {
	if err := s.validator.ValidateCardExists(ctx, cardID); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateListExists(ctx, listID); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("idList", listID)
	setParam(query, "pos", pos)

	raw, err := s.client.Put(ctx, "/cards/"+cardID, query, nil)
	if err != nil {
		return nil, err
	}
	var card domain.Card
	if err := decodeJSON(raw, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// AddVote records a vote on a card for a member.
func (s *CardService) AddVote(ctx context.Context, cardID, memberID string) (json.RawMessage, error) {
	if err := s.validator.ValidateCardExists(ctx, cardID); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("value", memberID)
	return s.client.Post(ctx, "/cards/"+cardID+"/idMembersVoted", query, nil)
}

// RemoveVote removes a member's vote from a card.
func (s *CardService) RemoveVote(ctx context.Context, cardID, memberID string) (json.RawMessage, error) {
	if err := s.validator.ValidateCardExists(ctx, cardID); err != nil {
		return nil, err
	}
	return s.client.Delete(ctx, "/cards/"+cardID+"/idMembersVoted/"+memberID, nil)
}

// GetCardMembers retrieves the members assigned to a card.
func (s *CardService) GetCardMembers(ctx context.Context, cardID string) ([]domain.Member, error) {
	raw, err := s.client.Get(ctx, "/cards/"+cardID+"/members", nil)
	if err != nil {
		return nil, err
	}
	var members []domain.Member
	if err := decodeJSON(raw, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// AssignMember assigns a member to a card.
func (s *CardService) AssignMember(ctx context.Context, cardID, memberID string) (json.RawMessage, error) {
	if err := s.validator.ValidateCardExists(ctx, cardID); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("value", memberID)
	return s.client.Post(ctx, "/cards/"+cardID+"/idMembers", query, nil)
}

// RemoveMember unassigns a member from a card.
func (s *CardService) RemoveMember(ctx context.Context, cardID, memberID string) (json.RawMessage, error) {
	if err := s.validator.ValidateCardExists(ctx, cardID); err != nil {
		return nil, err
	}
	return s.client.Delete(ctx, "/cards/"+cardID+"/idMembers/"+memberID, nil)
}

// AddLabel attaches an existing label to a card.
func (s *CardService) AddLabel(ctx context.Context, cardID, labelID string) (json.RawMessage, error) {
	if err := s.validator.ValidateCardExists(ctx, cardID); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("value", labelID)
	return s.client.Post(ctx, "/cards/"+cardID+"/idLabels", query, nil)
}

// RemoveLabel detaches a label from a card.
func (s *CardService) RemoveLabel(ctx context.Context, cardID, labelID string) (json.RawMessage, error) {
	if err := s.validator.ValidateCardExists(ctx, cardID); err != nil {
		return nil, err
	}
	return s.client.Delete(ctx, "/cards/"+cardID+"/idLabels/"+labelID, nil)
}
