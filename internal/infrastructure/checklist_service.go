package infrastructure

import (
	"context"
	"encoding/json"
	"net/url"

	"trello-mcp-server/internal/domain"
)

// UpdateCheckItemOptions carries the parameters for updating a check item.
// State is either "complete" or "incomplete".
type UpdateCheckItemOptions struct {
	Name  string
	State string
	Pos   string
}

// ChecklistService manages checklists and their items.
type ChecklistService struct {
	client    *TrelloClient
	validator *ValidationService
}

// NewChecklistService creates a checklist service.
func NewChecklistService(client *TrelloClient, validator *ValidationService) *ChecklistService {
	return &ChecklistService{client: client, validator: validator}
}

// GetChecklist retrieves a checklist by ID.
func (s *ChecklistService) GetChecklist(ctx context.Context, checklistID string) (*domain.Checklist, error) {
	raw, err := s.client.Get(ctx, "/checklists/"+checklistID, nil)
	if err != nil {
		return nil, err
	}
	var checklist domain.Checklist
	if err := decodeJSON(raw, &checklist); err != nil {
		return nil, err
	}
	return &checklist, nil
}

// GetCardChecklists retrieves all checklists on a card.
func (s *ChecklistService) GetCardChecklists(ctx context.Context, cardID string) ([]domain.Checklist, error) {
	raw, err := s.client.Get(ctx, "/cards/"+cardID+"/checklists", nil)
	if err != nil {
		return nil, err
	}
	var checklists []domain.Checklist
	if err := decodeJSON(raw, &checklists); err != nil {
		return nil, err
	}
	return checklists, nil
}

// CreateChecklist creates a checklist on a card.
func (s *ChecklistService) CreateChecklist(ctx context.Context, cardID, name, pos string) (*domain.Checklist, error) {
	if err := s.validator.ValidateCardExists(ctx, cardID); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("idCard", cardID)
	query.Set("name", name)
	setParam(query, "pos", pos)

	raw, err := s.client.Post(ctx, "/checklists", query, nil)
	if err != nil {
		return nil, err
	}
	var checklist domain.Checklist
	if err := decodeJSON(raw, &checklist); err != nil {
		return nil, err
	}
	return &checklist, nil
}

// UpdateChecklist renames or repositions a checklist.
func (s *ChecklistService) UpdateChecklist(ctx context.Context, checklistID, name, pos string) (*domain.Checklist, error) {
	if err := s.validator.ValidateChecklistExists(ctx, checklistID); err != nil {
		return nil, err
	}

	query := url.Values{}
	setParam(query, "name", name)
	setParam(query, "pos", pos)

	raw, err := s.client.Put(ctx, "/checklists/"+checklistID, query, nil)
	if err != nil {
		return nil, err
	}
	var checklist domain.Checklist
	if err := decodeJSON(raw, &checklist); err != nil {
		return nil, err
	}
	return &checklist, nil
}

// DeleteChecklist deletes a checklist and all its items.
func (s *ChecklistService) DeleteChecklist(ctx context.Context, checklistID string) (json.RawMessage, error) {
	if err := s.validator.ValidateChecklistExists(ctx, checklistID); err != nil {
		return nil, err
	}
	return s.client.Delete(ctx, "/checklists/"+checklistID, nil)
}

// AddCheckItem adds an item to a checklist.
func (s *ChecklistService) AddCheckItem(ctx context.Context, checklistID, name string, checked *bool, pos string) (*domain.CheckItem, error) {
	if err := s.validator.ValidateChecklistExists(ctx, checklistID); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("name", name)
	setBoolParam(query, "checked", checked)
	setParam(query, "pos", pos)

	raw, err := s.client.Post(ctx, "/checklists/"+checklistID+"/checkItems", query, nil)
	if err != nil {
		return nil, err
	}
	var item domain.CheckItem
	if err := decodeJSON(raw, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateCheckItem updates an item. The endpoint is card-scoped, so the card
// owning the checklist must be given too.
func (s *ChecklistService) UpdateCheckItem(ctx context.Context, cardID, checkItemID string, opts UpdateCheckItemOptions) (*domain.CheckItem, error) {
	if err := s.validator.ValidateCardExists(ctx, cardID); err != nil {
		return nil, err
	}
	if opts.State != "" && opts.State != "complete" && opts.State != "incomplete" {
		return nil, &domain.ValidationError{
			Message: "Invalid check item state '" + opts.State + "'. Must be one of: complete, incomplete",
		}
	}

	query := url.Values{}
	setParam(query, "name", opts.Name)
	setParam(query, "state", opts.State)
	setParam(query, "pos", opts.Pos)

	raw, err := s.client.Put(ctx, "/cards/"+cardID+"/checkItem/"+checkItemID, query, nil)
	if err != nil {
		return nil, err
	}
	var item domain.CheckItem
	if err := decodeJSON(raw, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteCheckItem removes an item from a checklist.
func (s *ChecklistService) DeleteCheckItem(ctx context.Context, checklistID, checkItemID string) (json.RawMessage, error) {
	if err := s.validator.ValidateChecklistExists(ctx, checklistID); err != nil {
		return nil, err
	}
	return s.client.Delete(ctx, "/checklists/"+checklistID+"/checkItems/"+checkItemID, nil)
}
