package domain

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the Trello REST API root used when the configuration
// does not override it.
const DefaultBaseURL = "https://api.trello.com/1"

// DefaultMaxRetries is the total number of attempts the client makes for
// retryable failures when the configuration does not override it.
const DefaultMaxRetries = 3

// Config is the root structure loaded from the YAML configuration file.
type Config struct {
	Transport TransportConfig `yaml:"transport"`
	Trello    TrelloConfig    `yaml:"trello"`
}

// TransportConfig selects the transport and its settings.
type TransportConfig struct {
	Type string     `yaml:"type"` // "stdio" or "http"
	HTTP HTTPConfig `yaml:"http,omitempty"`
}

// HTTPConfig holds the listen address for the HTTP transport.
type HTTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// TrelloConfig defines the Trello API connection settings.
// Credentials are optional here: the TRELLO_API_KEY and TRELLO_TOKEN
// environment variables take precedence when set, and tool calls may carry
// their own auth argument.
type TrelloConfig struct {
	BaseURL    string `yaml:"base_url,omitempty"`
	APIKey     string `yaml:"api_key,omitempty"`
	Token      string `yaml:"token,omitempty"`
	MaxRetries int    `yaml:"max_retries,omitempty"`
}

// HasCredentials reports whether a default key/token pair is configured.
func (tc *TrelloConfig) HasCredentials() bool {
	return tc.APIKey != "" && tc.Token != ""
}

// LoadConfig reads the YAML file at path, applies defaults and credential
// resolution, and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("invalid YAML syntax in configuration file: %w", err)
	}

	config.applyDefaults()
	config.resolveCredentials()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// applyDefaults fills in the optional Trello settings.
func (c *Config) applyDefaults() {
	if c.Trello.BaseURL == "" {
		c.Trello.BaseURL = DefaultBaseURL
	}
	if c.Trello.MaxRetries == 0 {
		c.Trello.MaxRetries = DefaultMaxRetries
	}
}

// resolveCredentials expands ${VAR} references in the credential fields and
// then overlays the TRELLO_API_KEY / TRELLO_TOKEN environment variables.
// The environment always wins so a .env file can rotate credentials without
// touching the config file.
func (c *Config) resolveCredentials() {
	c.Trello.APIKey = os.ExpandEnv(c.Trello.APIKey)
	c.Trello.Token = os.ExpandEnv(c.Trello.Token)

	if key := os.Getenv("TRELLO_API_KEY"); key != "" {
		c.Trello.APIKey = key
	}
	if token := os.Getenv("TRELLO_TOKEN"); token != "" {
		c.Trello.Token = token
	}
}

// Validate reports every problem with the configuration at once rather than
// stopping at the first.
func (c *Config) Validate() error {
	var errors []string

	if err := c.validateTransport(); err != nil {
		errors = append(errors, err.Error())
	}

	if err := c.Trello.Validate(); err != nil {
		errors = append(errors, err.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

func (c *Config) validateTransport() error {
	var errors []string

	if c.Transport.Type == "" {
		errors = append(errors, "transport type is required")
	} else if c.Transport.Type != "stdio" && c.Transport.Type != "http" {
		errors = append(errors, fmt.Sprintf("invalid transport type '%s': must be 'stdio' or 'http'", c.Transport.Type))
	}

	// The listen address only matters for the HTTP transport
	if c.Transport.Type == "http" {
		if c.Transport.HTTP.Host == "" {
			errors = append(errors, "HTTP host is required when transport type is 'http'")
		}
		if c.Transport.HTTP.Port <= 0 || c.Transport.HTTP.Port > 65535 {
			errors = append(errors, fmt.Sprintf("invalid HTTP port %d: must be between 1 and 65535", c.Transport.HTTP.Port))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}

	return nil
}

// Validate checks the Trello connection settings.
func (tc *TrelloConfig) Validate() error {
	var errors []string

	if tc.BaseURL == "" {
		errors = append(errors, "Trello base_url is required")
	} else {
		parsedURL, err := url.Parse(tc.BaseURL)
		if err != nil {
			errors = append(errors, fmt.Sprintf("Trello base_url is invalid: %v", err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, "Trello base_url must use http or https scheme")
		} else if parsedURL.Host == "" {
			errors = append(errors, "Trello base_url must include a host")
		}
	}

	if tc.MaxRetries < 1 {
		errors = append(errors, fmt.Sprintf("invalid max_retries %d: must be at least 1", tc.MaxRetries))
	}

	// Credentials are optional but must come as a pair when present
	if (tc.APIKey == "") != (tc.Token == "") {
		errors = append(errors, "Trello api_key and token must be configured together")
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}

	return nil
}
