// Package memory defines per-session conversation storage: an ordered
// turn history and a rolling summary, addressed by an opaque session key.
package memory

import (
	"context"
	"time"

	"github.com/flemzord/edgechat/internal/provider"
)

// SessionStore persists conversation memory per session. A session that
// has never been written reads back as empty history and an empty
// summary; there is no explicit creation step.
//
// Implementations must be safe for concurrent use across sessions.
// Within one session, callers are expected to serialize writes (the chat
// engine holds a per-session lane while a turn is in flight).
type SessionStore interface {
	// History returns the stored turns for a session in conversational
	// order. An unknown session yields a nil slice and no error.
	History(ctx context.Context, sessionID string) ([]provider.LLMMessage, error)

	// ReplaceHistory overwrites the session's history with the given
	// turns as a single atomic write.
	ReplaceHistory(ctx context.Context, sessionID string, msgs []provider.LLMMessage) error

	// Summary returns the stored summary for a session, or "" if none.
	Summary(ctx context.Context, sessionID string) (string, error)

	// SetSummary replaces the session's summary.
	SetSummary(ctx context.Context, sessionID string, summary string) error

	// Purge removes all state for a session.
	Purge(ctx context.Context, sessionID string) error

	// PruneIdle removes sessions whose last write is older than maxIdle
	// and returns how many were removed.
	PruneIdle(ctx context.Context, maxIdle time.Duration) (int, error)

	// Sessions returns the number of sessions with stored state.
	Sessions(ctx context.Context) (int, error)
}
