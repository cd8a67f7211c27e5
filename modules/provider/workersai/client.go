package workersai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/flemzord/edgechat/internal/provider"
)

// Workers AI wire types for JSON serialization.

type aiRequest struct {
	Messages    []aiMessage `json:"messages"`
	MaxTokens   int         `json:"max_tokens,omitempty"`
	Temperature *float64    `json:"temperature,omitempty"`
}

type aiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// aiEnvelope is the standard Cloudflare v4 API response envelope.
type aiEnvelope struct {
	Result  aiResult  `json:"result"`
	Success bool      `json:"success"`
	Errors  []aiError `json:"errors"`
}

type aiResult struct {
	Response string  `json:"response"`
	Usage    aiUsage `json:"usage"`
}

type aiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type aiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// buildRequest converts a provider.CompletionRequest into the wire format.
// configMaxTokens is used as a fallback when req.MaxTokens is zero.
func buildRequest(configMaxTokens int, req provider.CompletionRequest) aiRequest {
	messages := make([]aiMessage, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = aiMessage{Role: string(m.Role), Content: m.Content}
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = configMaxTokens
	}

	return aiRequest{
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
	}
}

// parseResponse converts an aiEnvelope into a provider.CompletionResponse.
func parseResponse(env aiEnvelope) provider.CompletionResponse {
	return provider.CompletionResponse{
		Content: env.Result.Response,
		Usage: provider.TokenUsage{
			PromptTokens:     env.Result.Usage.PromptTokens,
			CompletionTokens: env.Result.Usage.CompletionTokens,
			TotalTokens:      env.Result.Usage.TotalTokens,
		},
	}
}

// endpoint returns the model run URL for the configured account and model.
// The model identifier contains slashes and must stay unescaped in the path.
func (p *Provider) endpoint() string {
	return p.config.BaseURL + "/accounts/" + url.PathEscape(p.config.AccountID) + "/ai/run/" + p.config.Model
}

// doRequest executes an HTTP POST to the model run endpoint.
func (p *Provider) doRequest(ctx context.Context, body aiRequest) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.token)

	resp, err := p.client.Do(req)
	if err != nil {
		// Caller cancellation/timeout is not a provider failure.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", provider.ErrProviderDown, err)
	}

	return resp, nil
}

// maxErrorBodySize caps how much of an error response body is read.
const maxErrorBodySize = 4096

// handleErrorResponse maps HTTP error status codes to sentinel errors.
func handleErrorResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", provider.ErrRateLimit, body)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: HTTP %d: %s", provider.ErrProviderDown, resp.StatusCode, body)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: HTTP %d: %s", provider.ErrAuthentication, resp.StatusCode, body)
	default:
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}
}

// envelopeError flattens the Cloudflare error list into one error. The
// envelope can report failure even on HTTP 200.
func envelopeError(env aiEnvelope) error {
	if len(env.Errors) == 0 {
		return fmt.Errorf("%w: request unsuccessful with no error detail", provider.ErrProviderDown)
	}
	parts := make([]string, len(env.Errors))
	for i, e := range env.Errors {
		parts[i] = fmt.Sprintf("%d: %s", e.Code, e.Message)
	}
	return fmt.Errorf("%w: %s", provider.ErrProviderDown, strings.Join(parts, "; "))
}
