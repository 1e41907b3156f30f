package main

import (
	"os"
	"testing"

	"trello-mcp-server/internal/domain"
)

// writeTempConfig writes YAML content to a temporary file and returns its path.
func writeTempConfig(t *testing.T, content string) string {
	t.Helper()

	tmpFile, err := os.CreateTemp(t.TempDir(), "config-*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	tmpFile.Close()

	return tmpFile.Name()
}

// TestConfigurationLoading tests that configuration can be loaded successfully
func TestConfigurationLoading(t *testing.T) {
	t.Setenv("TRELLO_API_KEY", "")
	t.Setenv("TRELLO_TOKEN", "")

	configContent := `
transport:
  type: stdio

trello:
  api_key: test-key
  token: test-token
`

	path := writeTempConfig(t, configContent)

	// Load configuration
	config, err := domain.LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	// Verify configuration
	if config.Transport.Type != "stdio" {
		t.Errorf("Expected transport type 'stdio', got '%s'", config.Transport.Type)
	}

	if config.Trello.APIKey != "test-key" {
		t.Errorf("Expected API key 'test-key', got '%s'", config.Trello.APIKey)
	}
	if config.Trello.Token != "test-token" {
		t.Errorf("Expected token 'test-token', got '%s'", config.Trello.Token)
	}

	// Defaults fill in the optional Trello settings
	if config.Trello.BaseURL != domain.DefaultBaseURL {
		t.Errorf("Expected default base URL '%s', got '%s'", domain.DefaultBaseURL, config.Trello.BaseURL)
	}
	if config.Trello.MaxRetries != domain.DefaultMaxRetries {
		t.Errorf("Expected default max retries %d, got %d", domain.DefaultMaxRetries, config.Trello.MaxRetries)
	}
}

// TestCredentialResolution tests the precedence of credential sources
func TestCredentialResolution(t *testing.T) {
	t.Run("Environment overrides file", func(t *testing.T) {
		t.Setenv("TRELLO_API_KEY", "env-key")
		t.Setenv("TRELLO_TOKEN", "env-token")

		configContent := `
transport:
  type: stdio

trello:
  api_key: file-key
  token: file-token
`

		config, err := domain.LoadConfig(writeTempConfig(t, configContent))
		if err != nil {
			t.Fatalf("Failed to load configuration: %v", err)
		}

		if config.Trello.APIKey != "env-key" {
			t.Errorf("Expected API key 'env-key', got '%s'", config.Trello.APIKey)
		}
		if config.Trello.Token != "env-token" {
			t.Errorf("Expected token 'env-token', got '%s'", config.Trello.Token)
		}
	})

	t.Run("Variable expansion in credential fields", func(t *testing.T) {
		t.Setenv("TRELLO_API_KEY", "")
		t.Setenv("TRELLO_TOKEN", "")
		t.Setenv("MY_KEY", "expanded-key")
		t.Setenv("MY_TOKEN", "expanded-token")

		configContent := `
transport:
  type: stdio

trello:
  api_key: ${MY_KEY}
  token: ${MY_TOKEN}
`

		config, err := domain.LoadConfig(writeTempConfig(t, configContent))
		if err != nil {
			t.Fatalf("Failed to load configuration: %v", err)
		}

		if config.Trello.APIKey != "expanded-key" {
			t.Errorf("Expected API key 'expanded-key', got '%s'", config.Trello.APIKey)
		}
		if config.Trello.Token != "expanded-token" {
			t.Errorf("Expected token 'expanded-token', got '%s'", config.Trello.Token)
		}
	})

	t.Run("No credentials configured", func(t *testing.T) {
		t.Setenv("TRELLO_API_KEY", "")
		t.Setenv("TRELLO_TOKEN", "")

		configContent := `
transport:
  type: stdio
`

		config, err := domain.LoadConfig(writeTempConfig(t, configContent))
		if err != nil {
			t.Fatalf("Failed to load configuration: %v", err)
		}

		if config.Trello.HasCredentials() {
			t.Error("Expected no default credentials")
		}
		if creds := domain.CredentialsFromConfig(config); creds != nil {
			t.Errorf("Expected nil credentials, got %+v", creds)
		}
	})
}

// TestHTTPTransportConfiguration tests configuration with the HTTP transport
func TestHTTPTransportConfiguration(t *testing.T) {
	t.Setenv("TRELLO_API_KEY", "")
	t.Setenv("TRELLO_TOKEN", "")

	configContent := `
transport:
  type: http
  http:
    host: localhost
    port: 8080

trello:
  base_url: https://api.trello.com/1
  api_key: test-key
  token: test-token
  max_retries: 5
`

	config, err := domain.LoadConfig(writeTempConfig(t, configContent))
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	// Verify HTTP transport
	if config.Transport.Type != "http" {
		t.Errorf("Expected transport type 'http', got '%s'", config.Transport.Type)
	}
	if config.Transport.HTTP.Host != "localhost" {
		t.Errorf("Expected HTTP host 'localhost', got '%s'", config.Transport.HTTP.Host)
	}
	if config.Transport.HTTP.Port != 8080 {
		t.Errorf("Expected HTTP port 8080, got %d", config.Transport.HTTP.Port)
	}

	if config.Trello.MaxRetries != 5 {
		t.Errorf("Expected max retries 5, got %d", config.Trello.MaxRetries)
	}

	// Verify the config produces a usable credential pair
	creds := domain.CredentialsFromConfig(config)
	if creds == nil {
		t.Fatal("Expected credentials from config")
	}
	if creds.APIKey != "test-key" || creds.Token != "test-token" {
		t.Errorf("Unexpected credentials: %+v", creds)
	}
}

// TestInvalidConfiguration tests that invalid configurations are rejected
func TestInvalidConfiguration(t *testing.T) {
	tests := []struct {
		name          string
		configContent string
		expectError   bool
	}{
		{
			name: "Missing transport type",
			configContent: `
trello:
  api_key: key
  token: token
`,
			expectError: true,
		},
		{
			name: "Invalid transport type",
			configContent: `
transport:
  type: invalid
`,
			expectError: true,
		},
		{
			name: "HTTP transport without host",
			configContent: `
transport:
  type: http
  http:
    port: 8080
`,
			expectError: true,
		},
		{
			name: "HTTP transport with invalid port",
			configContent: `
transport:
  type: http
  http:
    host: localhost
    port: 99999
`,
			expectError: true,
		},
		{
			name: "Invalid base URL scheme",
			configContent: `
transport:
  type: stdio

trello:
  base_url: ftp://api.trello.com/1
`,
			expectError: true,
		},
		{
			name: "API key without token",
			configContent: `
transport:
  type: stdio

trello:
  api_key: key-only
`,
			expectError: true,
		},
		{
			name: "Token without API key",
			configContent: `
transport:
  type: stdio

trello:
  token: token-only
`,
			expectError: true,
		},
		{
			name: "Negative max retries",
			configContent: `
transport:
  type: stdio

trello:
  max_retries: -1
`,
			expectError: true,
		},
		{
			name: "Valid minimal configuration",
			configContent: `
transport:
  type: stdio
`,
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TRELLO_API_KEY", "")
			t.Setenv("TRELLO_TOKEN", "")

			// Try to load configuration
			_, err := domain.LoadConfig(writeTempConfig(t, tt.configContent))

			if tt.expectError && err == nil {
				t.Error("Expected error but got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}

// TestMissingConfigurationFile tests that a missing config file is reported
func TestMissingConfigurationFile(t *testing.T) {
	_, err := domain.LoadConfig("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("Expected error for missing configuration file, got nil")
	}
}
