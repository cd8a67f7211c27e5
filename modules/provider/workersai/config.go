package workersai

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.cloudflare.com/client/v4"
	defaultModel   = "@cf/meta/llama-3.3-70b-instruct-fp8-fast"
)

// Config holds the configuration for the Workers AI provider.
type Config struct {
	// AccountID is the Cloudflare account the model runs under.
	AccountID string `yaml:"account_id"`

	// APIToken authenticates against the Workers AI REST API.
	// APITokenEnv names an environment variable to read it from instead.
	APIToken    string `yaml:"api_token"`
	APITokenEnv string `yaml:"api_token_env"`

	// Model is the Workers AI model identifier.
	Model string `yaml:"model"`

	// BaseURL overrides the Cloudflare API endpoint. Mainly for tests.
	BaseURL string `yaml:"base_url"`

	// MaxTokens caps the completion length. 0 lets the backend decide.
	MaxTokens int `yaml:"max_tokens"`

	// Timeout bounds each HTTP request.
	Timeout time.Duration `yaml:"timeout"`
}

// defaults sets default values for unset fields.
func (c *Config) defaults() {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Model == "" {
		c.Model = defaultModel
	}
	if c.Timeout == 0 {
		c.Timeout = 60 * time.Second
	}
}

// validate returns an error if required fields are missing.
func (c *Config) validate() error {
	if c.AccountID == "" {
		return errMissingField("account_id")
	}
	if c.APIToken == "" && c.APITokenEnv == "" {
		return fmt.Errorf("provider.workersai: one of api_token or api_token_env is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("provider.workersai: base_url is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("provider.workersai: base_url scheme must be http or https, got %q", u.Scheme)
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("provider.workersai: max_tokens must not be negative")
	}
	return nil
}

// errMissingField returns a validation error for a missing required field.
func errMissingField(field string) error {
	return fmt.Errorf("provider.workersai: %s is required", field)
}
