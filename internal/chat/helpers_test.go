package chat

import (
	"context"
	"sync"
	"time"

	"github.com/flemzord/edgechat/internal/provider"
)

// fakeStore is an in-memory SessionStore that records call counts so tests
// can assert on what the engine touched.
type fakeStore struct {
	mu        sync.Mutex
	histories map[string][]provider.LLMMessage
	summaries map[string]string

	historyCalls int
	replaceCalls int

	historyErr error
	replaceErr error
	summaryErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		histories: make(map[string][]provider.LLMMessage),
		summaries: make(map[string]string),
	}
}

func (s *fakeStore) History(_ context.Context, sessionID string) ([]provider.LLMMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.historyCalls++
	if s.historyErr != nil {
		return nil, s.historyErr
	}
	return append([]provider.LLMMessage(nil), s.histories[sessionID]...), nil
}

func (s *fakeStore) ReplaceHistory(_ context.Context, sessionID string, msgs []provider.LLMMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceCalls++
	if s.replaceErr != nil {
		return s.replaceErr
	}
	s.histories[sessionID] = append([]provider.LLMMessage(nil), msgs...)
	return nil
}

func (s *fakeStore) Summary(_ context.Context, sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.summaryErr != nil {
		return "", s.summaryErr
	}
	return s.summaries[sessionID], nil
}

func (s *fakeStore) SetSummary(_ context.Context, sessionID, summary string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries[sessionID] = summary
	return nil
}

func (s *fakeStore) Purge(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.histories, sessionID)
	delete(s.summaries, sessionID)
	return nil
}

func (s *fakeStore) PruneIdle(context.Context, time.Duration) (int, error) { return 0, nil }

func (s *fakeStore) Sessions(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.histories), nil
}

func (s *fakeStore) history(sessionID string) []provider.LLMMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]provider.LLMMessage(nil), s.histories[sessionID]...)
}

func (s *fakeStore) summary(sessionID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summaries[sessionID]
}

// scriptedProvider answers Complete calls from a fixed script, one entry
// per call, and records every request it saw. The engine makes two calls
// per turn: reply first, then summary.
type scriptedProvider struct {
	mu       sync.Mutex
	script   []completion
	requests []provider.CompletionRequest
}

type completion struct {
	content string
	err     error
}

func (p *scriptedProvider) Complete(_ context.Context, req provider.CompletionRequest) (provider.CompletionResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, req)
	if len(p.script) == 0 {
		return provider.CompletionResponse{Content: "ok"}, nil
	}
	next := p.script[0]
	p.script = p.script[1:]
	if next.err != nil {
		return provider.CompletionResponse{}, next.err
	}
	return provider.CompletionResponse{Content: next.content}, nil
}

func (p *scriptedProvider) ModelName() string { return "scripted" }

func (p *scriptedProvider) calls() []provider.CompletionRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]provider.CompletionRequest(nil), p.requests...)
}

// turns builds an alternating user/assistant history of n messages.
func turns(n int) []provider.LLMMessage {
	msgs := make([]provider.LLMMessage, n)
	for i := range msgs {
		role := provider.MessageRoleUser
		if i%2 == 1 {
			role = provider.MessageRoleAssistant
		}
		msgs[i] = provider.LLMMessage{Role: role, Content: string(rune('a' + i))}
	}
	return msgs
}

func newTestEngine(store *fakeStore, llm provider.Provider) *Engine {
	return NewEngine(EngineParams{Store: store, Provider: llm})
}
