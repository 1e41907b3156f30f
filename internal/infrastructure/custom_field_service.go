package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"trello-mcp-server/internal/domain"
)

var validCustomFieldTypes = []string{"checkbox", "date", "list", "number", "text"}

// Keys accepted inside a custom field value object.
var validCustomFieldValueKeys = []string{"checked", "date", "text", "number"}

// CreateCustomFieldOptions carries the parameters for creating a custom
// field on a board.
type CreateCustomFieldOptions struct {
	IDModel string
	Name    string
	Type    string
	Pos     string
	Options []string
}

// CustomFieldService manages board custom field definitions and the values
// set on cards. Unlike most of the API, custom field writes take JSON
// bodies.
type CustomFieldService struct {
	client    *TrelloClient
	validator *ValidationService
}

// NewCustomFieldService creates a custom field service.
func NewCustomFieldService(client *TrelloClient, validator *ValidationService) *CustomFieldService {
	return &CustomFieldService{client: client, validator: validator}
}

// GetBoardCustomFields retrieves the custom field definitions on a board.
func (s *CustomFieldService) GetBoardCustomFields(ctx context.Context, boardID string) ([]domain.CustomField, error) {
	raw, err := s.client.Get(ctx, "/boards/"+boardID+"/customFields", nil)
	if err != nil {
		return nil, err
	}
	var fields []domain.CustomField
	if err := decodeJSON(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// CreateCustomField creates a custom field definition on a board. Options
// are only meaningful for list-type fields.
func (s *CustomFieldService) CreateCustomField(ctx context.Context, opts CreateCustomFieldOptions) (*domain.CustomField, error) {
	if err := s.validator.ValidateIDFormat(opts.IDModel, "Board"); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		return nil, &domain.ValidationError{Message: "Custom field name cannot be empty"}
	}
	if len(name) > 255 {
		return nil, &domain.ValidationError{Message: "Custom field name must be 255 characters or less"}
	}
	if !oneOf(opts.Type, validCustomFieldTypes) {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("Invalid custom field type '%s'. Must be one of: %s", opts.Type, strings.Join(validCustomFieldTypes, ", ")),
		}
	}
	pos := opts.Pos
	if pos == "" {
		pos = "bottom"
	}
	if pos != "top" && pos != "bottom" {
		if _, err := strconv.Atoi(pos); err != nil {
			return nil, &domain.ValidationError{Message: "Position must be 'top', 'bottom', or a positive integer"}
		}
	}

	body := map[string]interface{}{
		"idModel":   opts.IDModel,
		"modelType": "board",
		"name":      name,
		"type":      opts.Type,
		"pos":       pos,
	}
	if opts.Type == "list" && len(opts.Options) > 0 {
		options := make([]map[string]interface{}, 0, len(opts.Options))
		for _, text := range opts.Options {
			options = append(options, map[string]interface{}{"value": map[string]string{"text": text}})
		}
		body["options"] = options
	}

	raw, err := s.client.Post(ctx, "/customFields", nil, body)
	if err != nil {
		return nil, err
	}
	var field domain.CustomField
	if err := decodeJSON(raw, &field); err != nil {
		return nil, err
	}
	return &field, nil
}

// UpdateCustomField renames or repositions a custom field definition.
func (s *CustomFieldService) UpdateCustomField(ctx context.Context, fieldID, name, pos string) (*domain.CustomField, error) {
	if err := s.validator.ValidateIDFormat(fieldID, "CustomField"); err != nil {
		return nil, err
	}

	query := url.Values{}
	setParam(query, "name", name)
	setParam(query, "pos", pos)

	raw, err := s.client.Put(ctx, "/customFields/"+fieldID, query, nil)
	if err != nil {
		return nil, err
	}
	var field domain.CustomField
	if err := decodeJSON(raw, &field); err != nil {
		return nil, err
	}
	return &field, nil
}

// DeleteCustomField deletes a custom field definition and its values on
// every card.
func (s *CustomFieldService) DeleteCustomField(ctx context.Context, fieldID string) (json.RawMessage, error) {
	if err := s.validator.ValidateIDFormat(fieldID, "CustomField"); err != nil {
		return nil, err
	}
	return s.client.Delete(ctx, "/customFields/"+fieldID, nil)
}

// GetCardCustomFieldItems retrieves the custom field values set on a card.
func (s *CustomFieldService) GetCardCustomFieldItems(ctx context.Context, cardID string) ([]domain.CustomFieldItem, error) {
	raw, err := s.client.Get(ctx, "/cards/"+cardID+"/customFieldItems", nil)
	if err != nil {
		return nil, err
	}
	var items []domain.CustomFieldItem
	if err := decodeJSON(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// SetCustomFieldValue sets a field value on a card. Value is keyed by the
// field type, for example {"text": "high"} or {"checked": "true"}. List
// fields take the selected option through idValue instead.
func (s *CustomFieldService) SetCustomFieldValue(ctx context.Context, cardID, fieldID string, value map[string]string, idValue string) (*domain.CustomFieldItem, error) {
	if err := s.validator.ValidateCardExists(ctx, cardID); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateIDFormat(fieldID, "CustomField"); err != nil {
		return nil, err
	}
	if len(value) == 0 && idValue == "" {
		return nil, &domain.ValidationError{Message: "Either a value or an idValue is required"}
	}
	if len(value) > 0 {
		keyed := false
		for _, key := range validCustomFieldValueKeys {
			if _, ok := value[key]; ok {
				keyed = true
				break
			}
		}
		if !keyed {
			return nil, &domain.ValidationError{
				Message: fmt.Sprintf("Value must contain one of: %s", strings.Join(validCustomFieldValueKeys, ", ")),
			}
		}
	}

	body := map[string]interface{}{}
	if len(value) > 0 {
		body["value"] = value
	}
	if idValue != "" {
		body["idValue"] = idValue
	}

	raw, err := s.client.Put(ctx, "/cards/"+cardID+"/customField/"+fieldID+"/item", nil, body)
	if err != nil {
		return nil, err
	}
	var item domain.CustomFieldItem
	if err := decodeJSON(raw, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// AddCustomFieldOption appends an option to a list-type custom field.
func (s *CustomFieldService) AddCustomFieldOption(ctx context.Context, fieldID, text, color, pos string) (*domain.CustomFieldOption, error) {
	if err := s.validator.ValidateIDFormat(fieldID, "CustomField"); err != nil {
		return nil, err
	}
	if color == "" {
		color = "none"
	}
	if pos == "" {
		pos = "bottom"
	}

	body := map[string]interface{}{
		"value": map[string]string{"text": text},
		"color": color,
		"pos":   pos,
	}

	raw, err := s.client.Post(ctx, "/customFields/"+fieldID+"/options", nil, body)
	if err != nil {
		return nil, err
	}
	var option domain.CustomFieldOption
	if err := decodeJSON(raw, &option); err != nil {
		return nil, err
	}
	return &option, nil
}
