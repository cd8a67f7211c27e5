package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/flemzord/edgechat/internal/memory"
	"github.com/flemzord/edgechat/internal/observability"
	"github.com/flemzord/edgechat/internal/provider"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// EngineParams groups the dependencies for NewEngine.
type EngineParams struct {
	Store    memory.SessionStore
	Provider provider.Provider
	Config   Config
	Logger   *slog.Logger

	// Metrics may be nil (e.g. in tests); no instruments are recorded then.
	Metrics *observability.Metrics
}

// Engine orchestrates one chat turn end to end. It is the only component
// that reads or writes the session store, and the only one that sequences
// the two provider calls (reply, then re-summarization).
type Engine struct {
	store     memory.SessionStore
	llm       provider.Provider
	assembler *Assembler
	compactor *Compactor
	lanes     *LaneLock
	metrics   *observability.Metrics
	logger    *slog.Logger
	tracer    trace.Tracer
}

// NewEngine creates an Engine with the given dependencies.
func NewEngine(p EngineParams) *Engine {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := p.Config.withDefaults()

	return &Engine{
		store:     p.Store,
		llm:       p.Provider,
		assembler: NewAssembler(cfg),
		compactor: NewCompactor(NewProviderSummarizer(p.Provider, cfg.SummaryPrompt), cfg, logger),
		lanes:     NewLaneLock(),
		metrics:   p.Metrics,
		logger:    logger,
		tracer:    otel.Tracer("edgechat/chat"),
	}
}

// Respond runs one chat turn for the given session: load memory, build
// the reply context, generate the reply, append the new turn pair, compact,
// and persist. It returns the assistant's reply.
//
// Failure semantics are asymmetric on purpose: if the reply call fails the
// whole turn aborts with stored state untouched, while a failed
// re-summarization is absorbed (trimmed history is persisted with the
// prior summary).
func (e *Engine) Respond(ctx context.Context, sessionID, user string) (string, error) {
	if strings.TrimSpace(sessionID) == "" {
		e.countTurn(observability.OutcomeInvalid, 0)
		return "", fmt.Errorf("%w: session id is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(user) == "" {
		e.countTurn(observability.OutcomeInvalid, 0)
		return "", fmt.Errorf("%w: user message is required", ErrInvalidRequest)
	}

	start := time.Now()

	ctx, span := e.tracer.Start(ctx, "chat.turn",
		trace.WithAttributes(attribute.String("chat.session_id", sessionID)))
	defer span.End()

	// One turn at a time per session; concurrent sessions proceed in
	// parallel on their own lanes.
	e.lanes.Acquire(sessionID)
	defer e.lanes.Release(sessionID)

	reply, err := e.respond(ctx, sessionID, user)
	if err != nil {
		span.RecordError(err)
		e.countTurn(observability.OutcomeUpstream, time.Since(start))
		return "", err
	}

	e.countTurn(observability.OutcomeOK, time.Since(start))
	return reply, nil
}

// respond is the sequential turn pipeline, entered with the session lane held.
func (e *Engine) respond(ctx context.Context, sessionID, user string) (string, error) {
	history, err := e.store.History(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("load history: %w", err)
	}
	summary, err := e.store.Summary(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("load summary: %w", err)
	}

	messages := e.assembler.Assemble(summary, history, user)

	reply, err := e.generateReply(ctx, messages)
	if err != nil {
		// Nothing has been written; the session reads back exactly as
		// it did before this turn.
		return "", fmt.Errorf("generate reply: %w", err)
	}

	history = append(history,
		provider.LLMMessage{Role: provider.MessageRoleUser, Content: user},
		provider.LLMMessage{Role: provider.MessageRoleAssistant, Content: reply},
	)

	compactCtx, compactSpan := e.tracer.Start(ctx, "chat.compact")
	trimmed, newSummary, fresh := e.compactor.Compact(compactCtx, history, summary)
	compactSpan.End()
	if !fresh && e.metrics != nil {
		e.metrics.SummaryFallbacks.Inc()
	}

	if err := e.store.ReplaceHistory(ctx, sessionID, trimmed); err != nil {
		return "", fmt.Errorf("persist history: %w", err)
	}
	if err := e.store.SetSummary(ctx, sessionID, newSummary); err != nil {
		return "", fmt.Errorf("persist summary: %w", err)
	}

	e.logger.Debug("turn complete",
		"session", sessionID,
		"history_len", len(trimmed),
		"summary_refreshed", fresh,
	)

	return reply, nil
}

// generateReply calls the provider and substitutes a placeholder for an
// empty completion. An empty completion is degenerate, not an error.
func (e *Engine) generateReply(ctx context.Context, messages []provider.LLMMessage) (string, error) {
	ctx, span := e.tracer.Start(ctx, "chat.complete",
		trace.WithAttributes(attribute.Int("chat.context_messages", len(messages))))
	defer span.End()

	resp, err := e.llm.Complete(ctx, provider.CompletionRequest{Messages: messages})
	if err != nil {
		span.RecordError(err)
		return "", err
	}

	if e.metrics != nil {
		e.metrics.CompletionTokens.Add(float64(resp.Usage.TotalTokens))
	}

	if strings.TrimSpace(resp.Content) == "" {
		if e.metrics != nil {
			e.metrics.DegenerateReplies.Inc()
		}
		return placeholderReply, nil
	}
	return resp.Content, nil
}

func (e *Engine) countTurn(outcome string, d time.Duration) {
	if e.metrics != nil {
		e.metrics.ObserveTurn(outcome, d)
	}
}
