package infrastructure

import (
	"context"
	"encoding/json"
	"net/url"

	"trello-mcp-server/internal/domain"
)

// LabelService manages board labels. Attaching labels to cards lives on the
// card service.
type LabelService struct {
	client    *TrelloClient
	validator *ValidationService
}

// NewLabelService creates a label service.
func NewLabelService(client *TrelloClient, validator *ValidationService) *LabelService {
	return &LabelService{client: client, validator: validator}
}

// GetLabel retrieves a label by ID.
func (s *LabelService) GetLabel(ctx context.Context, labelID string) (*domain.Label, error) {
	raw, err := s.client.Get(ctx, "/labels/"+labelID, nil)
	if err != nil {
		return nil, err
	}
	var label domain.Label
	if err := decodeJSON(raw, &label); err != nil {
		return nil, err
	}
	return &label, nil
}

// UpdateLabel renames or recolors a label.
func (s *LabelService) UpdateLabel(ctx context.Context, labelID, name, color string) (*domain.Label, error) {
	if err := s.validator.ValidateIDFormat(labelID, "Label"); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateColor(color); err != nil {
		return nil, err
	}

	query := url.Values{}
	setParam(query, "name", name)
	setParam(query, "color", color)

	raw, err := s.client.Put(ctx, "/labels/"+labelID, query, nil)
	if err != nil {
		return nil, err
	}
	var label domain.Label
	if err := decodeJSON(raw, &label); err != nil {
		return nil, err
	}
	return &label, nil
}

// DeleteLabel deletes a label from its board and every card that carries it.
func (s *LabelService) DeleteLabel(ctx context.Context, labelID string) (json.RawMessage, error) {
	if err := s.validator.ValidateIDFormat(labelID, "Label"); err != nil {
		return nil, err
	}
	return s.client.Delete(ctx, "/labels/"+labelID, nil)
}
