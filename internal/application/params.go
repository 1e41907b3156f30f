package application

import (
	"fmt"

	"trello-mcp-server/internal/domain"
)

// getStringParam extracts a string parameter from the arguments map.
// Returns an error if the parameter is required but missing or not a string.
func getStringParam(args map[string]interface{}, name string, required bool) (string, error) {
	value, exists := args[name]
	if !exists {
		if required {
			return "", &domain.Error{
				Code:    domain.InvalidParams,
				Message: fmt.Sprintf("missing required parameter: %s", name),
			}
		}
		return "", nil
	}

	strValue, ok := value.(string)
	if !ok {
		return "", &domain.Error{
			Code:    domain.InvalidParams,
			Message: fmt.Sprintf("parameter %s must be a string", name),
		}
	}

	return strValue, nil
}

// getStringPtrParam extracts an optional string parameter.
// Returns nil when the parameter is absent, so update operations can
// distinguish "not provided" from an explicit empty string that clears a
// field.
func getStringPtrParam(args map[string]interface{}, name string) (*string, error) {
	value, exists := args[name]
	if !exists {
		return nil, nil
	}

	strValue, ok := value.(string)
	if !ok {
		return nil, &domain.Error{
			Code:    domain.InvalidParams,
			Message: fmt.Sprintf("parameter %s must be a string", name),
		}
	}

	return &strValue, nil
}

// getIntParam extracts an integer parameter from the arguments map.
// Returns an error if the parameter is required but missing or not a number.
// Also returns an error if the parameter exists but is not a valid number type.
func getIntParam(args map[string]interface{}, name string, required bool) (int, error) {
	value, exists := args[name]
	if !exists {
		if required {
			return 0, &domain.Error{
				Code:    domain.InvalidParams,
				Message: fmt.Sprintf("missing required parameter: %s", name),
			}
		}
		return 0, nil
	}

	// Handle both float64 (from JSON) and int
	switch v := value.(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	default:
		// If the parameter exists but is not a valid type, return an error
		// even if it's not required
		return 0, &domain.Error{
			Code:    domain.InvalidParams,
			Message: fmt.Sprintf("parameter %s must be an integer", name),
		}
	}
}

// getIntPtrParam extracts an optional integer parameter.
// Returns nil when the parameter is absent.
func getIntPtrParam(args map[string]interface{}, name string) (*int, error) {
	value, exists := args[name]
	if !exists {
		return nil, nil
	}

	switch v := value.(type) {
	case float64:
		intValue := int(v)
		return &intValue, nil
	case int:
		return &v, nil
	default:
		return nil, &domain.Error{
			Code:    domain.InvalidParams,
			Message: fmt.Sprintf("parameter %s must be an integer", name),
		}
	}
}

// getBoolParam extracts a boolean parameter from the arguments map.
// Returns false when the parameter is absent and not required.
func getBoolParam(args map[string]interface{}, name string, required bool) (bool, error) {
	value, exists := args[name]
	if !exists {
		if required {
			return false, &domain.Error{
				Code:    domain.InvalidParams,
				Message: fmt.Sprintf("missing required parameter: %s", name),
			}
		}
		return false, nil
	}

	boolValue, ok := value.(bool)
	if !ok {
		return false, &domain.Error{
			Code:    domain.InvalidParams,
			Message: fmt.Sprintf("parameter %s must be a boolean", name),
		}
	}

	return boolValue, nil
}

// getBoolPtrParam extracts an optional boolean parameter.
// Returns nil when the parameter is absent, so callers can distinguish
// "not provided" from an explicit false.
func getBoolPtrParam(args map[string]interface{}, name string) (*bool, error) {
	value, exists := args[name]
	if !exists {
		return nil, nil
	}

	boolValue, ok := value.(bool)
	if !ok {
		return nil, &domain.Error{
			Code:    domain.InvalidParams,
			Message: fmt.Sprintf("parameter %s must be a boolean", name),
		}
	}

	return &boolValue, nil
}

// getStringSliceParam extracts a string array parameter from the arguments map.
// JSON arrays arrive as []interface{}; every element must be a string.
func getStringSliceParam(args map[string]interface{}, name string, required bool) ([]string, error) {
	value, exists := args[name]
	if !exists {
		if required {
			return nil, &domain.Error{
				Code:    domain.InvalidParams,
				Message: fmt.Sprintf("missing required parameter: %s", name),
			}
		}
		return nil, nil
	}

	rawSlice, ok := value.([]interface{})
	if !ok {
		return nil, &domain.Error{
			Code:    domain.InvalidParams,
			Message: fmt.Sprintf("parameter %s must be an array of strings", name),
		}
	}

	result := make([]string, 0, len(rawSlice))
	for _, item := range rawSlice {
		strValue, ok := item.(string)
		if !ok {
			return nil, &domain.Error{
				Code:    domain.InvalidParams,
				Message: fmt.Sprintf("parameter %s must be an array of strings", name),
			}
		}
		result = append(result, strValue)
	}

	return result, nil
}
