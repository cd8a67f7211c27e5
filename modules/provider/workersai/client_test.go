package workersai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/flemzord/edgechat/internal/provider"
)

// newTestProvider returns a Provider pointed at the given test server.
func newTestProvider(baseURL string) *Provider {
	cfg := Config{
		AccountID: "acct-1",
		APIToken:  "test-token",
		BaseURL:   baseURL,
	}
	cfg.defaults()
	return &Provider{
		config: cfg,
		token:  cfg.APIToken,
		client: http.DefaultClient,
	}
}

func TestComplete_Success(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth string
	var gotBody aiRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(aiEnvelope{
			Success: true,
			Result: aiResult{
				Response: "hello there",
				Usage:    aiUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
			},
		})
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL)
	resp, err := p.Complete(context.Background(), provider.CompletionRequest{
		Messages: []provider.LLMMessage{
			{Role: provider.MessageRoleSystem, Content: "be brief"},
			{Role: provider.MessageRoleUser, Content: "hi"},
		},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if resp.Content != "hello there" {
		t.Errorf("Content = %q, want %q", resp.Content, "hello there")
	}
	if resp.Usage.TotalTokens != 15 {
		t.Errorf("TotalTokens = %d, want 15", resp.Usage.TotalTokens)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	wantPath := "/accounts/acct-1/ai/run/" + defaultModel
	if gotPath != wantPath {
		t.Errorf("path = %q, want %q", gotPath, wantPath)
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[1].Content != "hi" {
		t.Errorf("request messages = %+v, want 2 messages ending with user turn", gotBody.Messages)
	}
}

func TestComplete_MessageOrderPreserved(t *testing.T) {
	t.Parallel()

	var gotBody aiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(aiEnvelope{Success: true, Result: aiResult{Response: "ok"}})
	}))
	defer srv.Close()

	msgs := []provider.LLMMessage{
		{Role: provider.MessageRoleSystem, Content: "sys"},
		{Role: provider.MessageRoleUser, Content: "a"},
		{Role: provider.MessageRoleAssistant, Content: "b"},
		{Role: provider.MessageRoleUser, Content: "c"},
	}

	p := newTestProvider(srv.URL)
	if _, err := p.Complete(context.Background(), provider.CompletionRequest{Messages: msgs}); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if len(gotBody.Messages) != len(msgs) {
		t.Fatalf("sent %d messages, want %d", len(gotBody.Messages), len(msgs))
	}
	for i, m := range msgs {
		if gotBody.Messages[i].Role != string(m.Role) || gotBody.Messages[i].Content != m.Content {
			t.Errorf("message[%d] = %+v, want %+v", i, gotBody.Messages[i], m)
		}
	}
}

func TestComplete_ErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"rate limited", http.StatusTooManyRequests, provider.ErrRateLimit},
		{"server error", http.StatusInternalServerError, provider.ErrProviderDown},
		{"bad gateway", http.StatusBadGateway, provider.ErrProviderDown},
		{"unauthorized", http.StatusUnauthorized, provider.ErrAuthentication},
		{"forbidden", http.StatusForbidden, provider.ErrAuthentication},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			p := newTestProvider(srv.URL)
			_, err := p.Complete(context.Background(), provider.CompletionRequest{
				Messages: []provider.LLMMessage{{Role: provider.MessageRoleUser, Content: "hi"}},
			})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestComplete_EnvelopeFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(aiEnvelope{
			Success: false,
			Errors:  []aiError{{Code: 7000, Message: "no route for that URI"}},
		})
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL)
	_, err := p.Complete(context.Background(), provider.CompletionRequest{
		Messages: []provider.LLMMessage{{Role: provider.MessageRoleUser, Content: "hi"}},
	})
	if !errors.Is(err, provider.ErrProviderDown) {
		t.Fatalf("error = %v, want ErrProviderDown", err)
	}
}

func TestComplete_ContextCancellation(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newTestProvider(srv.URL)
	_, err := p.Complete(ctx, provider.CompletionRequest{
		Messages: []provider.LLMMessage{{Role: provider.MessageRoleUser, Content: "hi"}},
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled (not a provider failure)", err)
	}
}

func TestBuildRequest_MaxTokensFallback(t *testing.T) {
	t.Parallel()

	req := buildRequest(256, provider.CompletionRequest{
		Messages: []provider.LLMMessage{{Role: provider.MessageRoleUser, Content: "hi"}},
	})
	if req.MaxTokens != 256 {
		t.Errorf("MaxTokens = %d, want config fallback 256", req.MaxTokens)
	}

	req = buildRequest(256, provider.CompletionRequest{
		Messages:  []provider.LLMMessage{{Role: provider.MessageRoleUser, Content: "hi"}},
		MaxTokens: 64,
	})
	if req.MaxTokens != 64 {
		t.Errorf("MaxTokens = %d, want request value 64", req.MaxTokens)
	}
}
