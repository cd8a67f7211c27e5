package chat

import (
	"context"
	"strings"

	"github.com/flemzord/edgechat/internal/provider"
)

// Summarizer produces a condensed summary of a conversation window.
type Summarizer interface {
	Summarize(ctx context.Context, window []provider.LLMMessage) (string, error)
}

// providerSummarizer implements Summarizer with a single-shot completion:
// a system instruction plus the window rendered as a plain transcript.
type providerSummarizer struct {
	llm    provider.Provider
	prompt string
}

// NewProviderSummarizer creates a Summarizer backed by the given provider.
func NewProviderSummarizer(llm provider.Provider, prompt string) Summarizer {
	if prompt == "" {
		prompt = defaultSummaryPrompt
	}
	return &providerSummarizer{llm: llm, prompt: prompt}
}

func (s *providerSummarizer) Summarize(ctx context.Context, window []provider.LLMMessage) (string, error) {
	resp, err := s.llm.Complete(ctx, provider.CompletionRequest{
		Messages: []provider.LLMMessage{
			{Role: provider.MessageRoleSystem, Content: s.prompt},
			{Role: provider.MessageRoleUser, Content: renderTranscript(window)},
		},
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// renderTranscript renders turns as "ROLE: content" lines in
// chronological order, one per turn.
func renderTranscript(window []provider.LLMMessage) string {
	lines := make([]string, len(window))
	for i, m := range window {
		lines[i] = strings.ToUpper(string(m.Role)) + ": " + m.Content
	}
	return strings.Join(lines, "\n")
}
