package domain

import (
	"fmt"
)

// Credentials stores the Trello API key/token pair.
// Trello authenticates every call with these two query parameters; there are
// no headers or sessions involved.
type Credentials struct {
	APIKey string
	Token  string
}

// Validate checks that both halves of the pair are present.
func (c *Credentials) Validate() error {
	if c == nil {
		return fmt.Errorf("credentials cannot be nil")
	}
	if c.APIKey == "" {
		return fmt.Errorf("api_key is required")
	}
	if c.Token == "" {
		return fmt.Errorf("token is required")
	}
	return nil
}

// CredentialsFromConfig extracts the default credentials from a configuration.
// Returns nil when the configuration carries no credential pair; clients must
// then provide credentials per call.
func CredentialsFromConfig(config *Config) *Credentials {
	if config == nil || !config.Trello.HasCredentials() {
		return nil
	}
	return &Credentials{
		APIKey: config.Trello.APIKey,
		Token:  config.Trello.Token,
	}
}

// ExtractCredentialsFromArguments extracts optional credentials from tool call arguments.
// Returns nil if no credentials are provided in the arguments.
// The auth object carries "api_key" and "token" fields.
func ExtractCredentialsFromArguments(args map[string]interface{}) (*Credentials, error) {
	// Check if auth object is provided
	authObj, hasAuth := args["auth"]
	if !hasAuth {
		return nil, nil
	}

	// Convert auth object to map
	authMap, ok := authObj.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("auth must be an object")
	}

	apiKey, _ := authMap["api_key"].(string)
	token, _ := authMap["token"].(string)

	creds := &Credentials{
		APIKey: apiKey,
		Token:  token,
	}

	// Validate the extracted credentials
	if err := creds.Validate(); err != nil {
		return nil, fmt.Errorf("invalid credentials provided: %w", err)
	}

	return creds, nil
}
