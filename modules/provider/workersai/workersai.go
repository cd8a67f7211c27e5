// Package workersai provides a Cloudflare Workers AI provider module.
// It calls the Workers AI REST API (accounts/{id}/ai/run/{model}) with a
// fixed model configured at startup.
package workersai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/flemzord/edgechat/internal/core"
	"github.com/flemzord/edgechat/internal/provider"
	"github.com/flemzord/edgechat/internal/security"
	"gopkg.in/yaml.v3"
)

func init() {
	core.RegisterModule(&Provider{})
}

// Provider is a Workers AI LLM provider.
type Provider struct {
	config Config
	token  string
	client *http.Client
	logger *slog.Logger
}

// ModuleInfo implements core.Module.
func (p *Provider) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "provider.workersai",
		New: func() core.Module { return &Provider{} },
	}
}

// Configure implements core.Configurable.
func (p *Provider) Configure(node *yaml.Node) error {
	if err := node.Decode(&p.config); err != nil {
		return err
	}
	p.config.defaults()
	return nil
}

// Provision implements core.Provisioner.
func (p *Provider) Provision(ctx *core.AppContext) error {
	p.logger = ctx.Logger

	p.token = p.config.APIToken
	if p.token == "" && p.config.APITokenEnv != "" {
		p.token = os.Getenv(p.config.APITokenEnv)
	}

	// Per-request contexts handle cancellation; the transport timeout
	// covers a stalled backend that never sends headers.
	p.client = &http.Client{
		Transport: &http.Transport{
			ResponseHeaderTimeout: p.config.Timeout,
		},
	}

	// Hand the resolved token to the credential store so the log
	// redactor learns it.
	if svc, ok := ctx.Service("security.credentials"); ok {
		if store, ok := svc.(*security.CredentialStore); ok {
			store.Set("workersai.api_token", p.token)
		}
	}

	ctx.RegisterService("provider.llm", p)

	p.logger.Info("workers ai provider provisioned", "model", p.config.Model)
	return nil
}

// Validate implements core.Validator.
func (p *Provider) Validate() error {
	if err := p.config.validate(); err != nil {
		return err
	}
	if p.token == "" {
		return fmt.Errorf("provider.workersai: api_token_env %q is not set", p.config.APITokenEnv)
	}
	return nil
}

// Complete implements provider.Provider.
func (p *Provider) Complete(ctx context.Context, req provider.CompletionRequest) (provider.CompletionResponse, error) {
	aiReq := buildRequest(p.config.MaxTokens, req)

	resp, err := p.doRequest(ctx, aiReq)
	if err != nil {
		return provider.CompletionResponse{}, err
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode != http.StatusOK {
		return provider.CompletionResponse{}, handleErrorResponse(resp)
	}

	var env aiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return provider.CompletionResponse{}, fmt.Errorf("decode response: %w", err)
	}
	if !env.Success {
		return provider.CompletionResponse{}, envelopeError(env)
	}

	return parseResponse(env), nil
}

// ModelName implements provider.Provider.
func (p *Provider) ModelName() string {
	return p.config.Model
}

// Compile-time interface assertions.
var (
	_ core.Module       = (*Provider)(nil)
	_ core.Configurable = (*Provider)(nil)
	_ core.Provisioner  = (*Provider)(nil)
	_ core.Validator    = (*Provider)(nil)
	_ provider.Provider = (*Provider)(nil)
)
