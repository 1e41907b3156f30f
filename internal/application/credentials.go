package application

import (
	"fmt"

	"trello-mcp-server/internal/domain"
	"trello-mcp-server/internal/infrastructure"
)

// servicesForRequest returns the service set to use for a single tool call.
// If the arguments carry an auth object, a per-request set authenticating
// with those credentials is built over a cloned client. Otherwise the
// configured set is used. Returns an error when neither the call nor the
// configuration provides credentials.
func servicesForRequest(base *infrastructure.Services, args map[string]interface{}) (*infrastructure.Services, error) {
	creds, err := domain.ExtractCredentialsFromArguments(args)
	if err != nil {
		return nil, &domain.Error{
			Code:    domain.InvalidParams,
			Message: fmt.Sprintf("invalid credentials: %v", err),
		}
	}

	// Credentials provided with the call take precedence
	if creds != nil {
		return base.WithCredentials(creds), nil
	}

	if !base.Client.HasCredentials() {
		return nil, &domain.Error{
			Code:    domain.AuthenticationError,
			Message: "authentication required: no credentials provided and no default credentials configured",
		}
	}

	return base, nil
}

// getAuthSchema returns the schema for optional authentication parameters.
// This can be included in any tool's input schema to allow client-provided credentials.
func getAuthSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": "Optional authentication credentials (if not provided, uses server config)",
		"properties": map[string]interface{}{
			"api_key": map[string]interface{}{
				"type":        "string",
				"description": "Trello API key",
			},
			"token": map[string]interface{}{
				"type":        "string",
				"description": "Trello API token granted for the key",
			},
		},
	}
}
