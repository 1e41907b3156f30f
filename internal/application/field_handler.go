package application

import (
	"context"
	"fmt"

	"trello-mcp-server/internal/domain"
	"trello-mcp-server/internal/infrastructure"
)

// FieldHandler implements ToolHandler for custom field operations: the
// definitions on a board and the values set on cards.
type FieldHandler struct {
	services *infrastructure.Services
	mapper   domain.ResponseMapper
}

// NewFieldHandler creates a new FieldHandler instance.
func NewFieldHandler(services *infrastructure.Services, mapper domain.ResponseMapper) *FieldHandler {
	return &FieldHandler{
		services: services,
		mapper:   mapper,
	}
}

// Tool name constants for custom field operations
const (
	ToolFieldList          = "field_list"
	ToolFieldCreate        = "field_create"
	ToolFieldUpdate        = "field_update"
	ToolFieldDelete        = "field_delete"
	ToolFieldGetCardValues = "field_get_card_values"
	ToolFieldSetValue      = "field_set_value"
	ToolFieldAddOption     = "field_add_option"
)

// ToolName returns the identifier for this handler.
func (h *FieldHandler) ToolName() string {
	return "field"
}

// ListTools returns available tools for custom field operations.
func (h *FieldHandler) ListTools() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:        ToolFieldList,
			Description: "List the custom field definitions on a board",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"board_id": map[string]interface{}{
						"type":        "string",
						"description": "The board ID (24-character hex string)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"board_id"},
			},
		},
		{
			Name:        ToolFieldCreate,
			Description: "Create a custom field definition on a board",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"board_id": map[string]interface{}{
						"type":        "string",
						"description": "The board ID (24-character hex string)",
					},
					"name": map[string]interface{}{
						"type":        "string",
						"description": "The field name (at most 255 characters)",
					},
					"type": map[string]interface{}{
						"type":        "string",
						"description": "The field type",
						"enum":        []string{"checkbox", "date", "list", "number", "text"},
					},
					"pos": map[string]interface{}{
						"type":        "string",
						"description": "The field position: top, bottom, or a positive integer (defaults to bottom)",
					},
					"options": map[string]interface{}{
						"type":        "array",
						"description": "Initial dropdown options, only for list-type fields (optional)",
						"items": map[string]interface{}{
							"type": "string",
						},
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"board_id", "name", "type"},
			},
		},
		{
			Name:        ToolFieldUpdate,
			Description: "Update a custom field definition's name or position",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"field_id": map[string]interface{}{
						"type":        "string",
						"description": "The custom field ID (24-character hex string)",
					},
					"name": map[string]interface{}{
						"type":        "string",
						"description": "The new field name (optional)",
					},
					"pos": map[string]interface{}{
						"type":        "string",
						"description": "The new position (optional)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"field_id"},
			},
		},
		{
			Name:        ToolFieldDelete,
			Description: "Delete a custom field definition and every value set for it",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"field_id": map[string]interface{}{
						"type":        "string",
						"description": "The custom field ID (24-character hex string)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"field_id"},
			},
		},
		{
			Name:        ToolFieldGetCardValues,
			Description: "List the custom field values set on a card",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"card_id": map[string]interface{}{
						"type":        "string",
						"description": "The card ID (24-character hex string)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"card_id"},
			},
		},
		{
			Name:        ToolFieldSetValue,
			Description: "Set a custom field value on a card. Provide exactly one of checked, text, number, date or option_id to match the field type",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"card_id": map[string]interface{}{
						"type":        "string",
						"description": "The card ID (24-character hex string)",
					},
					"field_id": map[string]interface{}{
						"type":        "string",
						"description": "The custom field ID (24-character hex string)",
					},
					"checked": map[string]interface{}{
						"type":        "string",
						"description": "For checkbox fields: 'true' or 'false' (optional)",
					},
					"text": map[string]interface{}{
						"type":        "string",
						"description": "For text fields: the text value (optional)",
					},
					"number": map[string]interface{}{
						"type":        "string",
						"description": "For number fields: the numeric value as a string (optional)",
					},
					"date": map[string]interface{}{
						"type":        "string",
						"description": "For date fields: an ISO 8601 date (optional)",
					},
					"option_id": map[string]interface{}{
						"type":        "string",
						"description": "For list fields: the ID of the option to select (optional)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"card_id", "field_id"},
			},
		},
		{
			Name:        ToolFieldAddOption,
			Description: "Add a dropdown option to a list-type custom field",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"field_id": map[string]interface{}{
						"type":        "string",
						"description": "The custom field ID (24-character hex string)",
					},
					"text": map[string]interface{}{
						"type":        "string",
						"description": "The option text",
					},
					"color": map[string]interface{}{
						"type":        "string",
						"description": "The option color (defaults to none)",
					},
					"pos": map[string]interface{}{
						"type":        "string",
						"description": "The option position: top or bottom (defaults to bottom)",
					},
					"auth": getAuthSchema(),
				},
				Required: []string{"field_id", "text"},
			},
		},
	}
}

// Handle processes an MCP tool call request for custom field operations.
func (h *FieldHandler) Handle(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	// Validate that we have arguments
	if req.Arguments == nil {
		req.Arguments = make(map[string]interface{})
	}

	// Route to the appropriate handler based on tool name
	switch req.Name {
	case ToolFieldList:
		return h.handleList(ctx, req.Arguments)
	case ToolFieldCreate:
		return h.handleCreate(ctx, req.Arguments)
	case ToolFieldUpdate:
		return h.handleUpdate(ctx, req.Arguments)
	case ToolFieldDelete:
		return h.handleDelete(ctx, req.Arguments)
	case ToolFieldGetCardValues:
		return h.handleGetCardValues(ctx, req.Arguments)
	case ToolFieldSetValue:
		return h.handleSetValue(ctx, req.Arguments)
	case ToolFieldAddOption:
		return h.handleAddOption(ctx, req.Arguments)
	default:
		return nil, &domain.Error{
			Code:    domain.MethodNotFound,
			Message: fmt.Sprintf("unknown field tool: %s", req.Name),
		}
	}
}

// handleList handles the field_list tool call.
func (h *FieldHandler) handleList(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	boardID, err := getStringParam(args, "board_id", true)
	if err != nil {
		return nil, err
	}

	fields, err := services.CustomFields.GetBoardCustomFields(ctx, boardID)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(fields)
}

// handleCreate handles the field_create tool call.
func (h *FieldHandler) handleCreate(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	boardID, err := getStringParam(args, "board_id", true)
	if err != nil {
		return nil, err
	}
	name, err := getStringParam(args, "name", true)
	if err != nil {
		return nil, err
	}
	fieldType, err := getStringParam(args, "type", true)
	if err != nil {
		return nil, err
	}

	// Optional parameters
	pos, _ := getStringParam(args, "pos", false)
	options, err := getStringSliceParam(args, "options", false)
	if err != nil {
		return nil, err
	}

	field, err := services.CustomFields.CreateCustomField(ctx, infrastructure.CreateCustomFieldOptions{
		IDModel: boardID,
		Name:    name,
		Type:    fieldType,
		Pos:     pos,
		Options: options,
	})
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(field)
}

// handleUpdate handles the field_update tool call.
func (h *FieldHandler) handleUpdate(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	fieldID, err := getStringParam(args, "field_id", true)
	if err != nil {
		return nil, err
	}

	// Optional parameters
	name, _ := getStringParam(args, "name", false)
	pos, _ := getStringParam(args, "pos", false)

	field, err := services.CustomFields.UpdateCustomField(ctx, fieldID, name, pos)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(field)
}

// handleDelete handles the field_delete tool call.
func (h *FieldHandler) handleDelete(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	fieldID, err := getStringParam(args, "field_id", true)
	if err != nil {
		return nil, err
	}

	if _, err := services.CustomFields.DeleteCustomField(ctx, fieldID); err != nil {
		return nil, h.mapper.MapError(err)
	}

	// Return success response
	return h.mapper.MapToToolResponse(map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Custom field %s deleted successfully", fieldID),
	})
}

// handleGetCardValues handles the field_get_card_values tool call.
func (h *FieldHandler) handleGetCardValues(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	cardID, err := getStringParam(args, "card_id", true)
	if err != nil {
		return nil, err
	}

	items, err := services.CustomFields.GetCardCustomFieldItems(ctx, cardID)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(items)
}

// handleSetValue handles the field_set_value tool call.
func (h *FieldHandler) handleSetValue(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	cardID, err := getStringParam(args, "card_id", true)
	if err != nil {
		return nil, err
	}
	fieldID, err := getStringParam(args, "field_id", true)
	if err != nil {
		return nil, err
	}

	// The value argument matching the field type; list fields use option_id
	value := map[string]string{}
	for _, key := range []string{"checked", "text", "number", "date"} {
		v, err := getStringParam(args, key, false)
		if err != nil {
			return nil, err
		}
		if v != "" {
			value[key] = v
		}
	}
	optionID, err := getStringParam(args, "option_id", false)
	if err != nil {
		return nil, err
	}

	item, err := services.CustomFields.SetCustomFieldValue(ctx, cardID, fieldID, value, optionID)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(item)
}

// handleAddOption handles the field_add_option tool call.
func (h *FieldHandler) handleAddOption(ctx context.Context, args map[string]interface{}) (*domain.ToolResponse, error) {
	services, err := servicesForRequest(h.services, args)
	if err != nil {
		return nil, err
	}

	fieldID, err := getStringParam(args, "field_id", true)
	if err != nil {
		return nil, err
	}
	text, err := getStringParam(args, "text", true)
	if err != nil {
		return nil, err
	}

	// Optional parameters
	color, _ := getStringParam(args, "color", false)
	pos, _ := getStringParam(args, "pos", false)

	option, err := services.CustomFields.AddCustomFieldOption(ctx, fieldID, text, color, pos)
	if err != nil {
		return nil, h.mapper.MapError(err)
	}

	return h.mapper.MapToToolResponse(option)
}
