package chat

import (
	"context"
	"log/slog"
	"strings"

	"github.com/flemzord/edgechat/internal/provider"
)

// Compactor keeps history bounded and the summary representative. Both
// steps run on every turn: trim to the retention window, then re-derive
// the summary from the trimmed window. There is no skip-if-short-enough
// path; the extra inference call buys a simpler state machine.
type Compactor struct {
	summarizer Summarizer
	cfg        Config
	logger     *slog.Logger
}

// NewCompactor creates a Compactor. The summarizer is required; the
// logger may be nil.
func NewCompactor(summarizer Summarizer, cfg Config, logger *slog.Logger) *Compactor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Compactor{
		summarizer: summarizer,
		cfg:        cfg.withDefaults(),
		logger:     logger,
	}
}

// Compact trims history to the RetainRecent most recent turns and
// re-summarizes the trimmed window. A failed or empty summarization keeps
// priorSummary — summary freshness is worth less than the user's turn, so
// the error is absorbed here and never reaches the caller. The returned
// fresh flag reports whether a new summary was produced.
func (c *Compactor) Compact(ctx context.Context, history []provider.LLMMessage, priorSummary string) (trimmed []provider.LLMMessage, summary string, fresh bool) {
	trimmed = history
	if len(trimmed) > c.cfg.RetainRecent {
		trimmed = trimmed[len(trimmed)-c.cfg.RetainRecent:]
	}

	result, err := c.summarizer.Summarize(ctx, trimmed)
	if err != nil {
		c.logger.Warn("re-summarization failed, keeping prior summary", "error", err)
		return trimmed, priorSummary, false
	}
	if strings.TrimSpace(result) == "" {
		c.logger.Warn("re-summarization returned no text, keeping prior summary")
		return trimmed, priorSummary, false
	}

	return trimmed, result, true
}
