package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/flemzord/edgechat/internal/provider"
)

// touchSession records the session's last write time inside tx.
func touchSession(ctx context.Context, tx *sql.Tx, sessionID string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO sessions (session_id, last_write)
		VALUES (?, strftime('%Y-%m-%dT%H:%M:%fZ','now'))`,
		sessionID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: touch session: %w", err)
	}
	return nil
}

// History returns the stored turns for a session in conversational order.
func (s *sessionStore) History(ctx context.Context, sessionID string) ([]provider.LLMMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT role, content
		FROM turns
		WHERE session_id = ?
		ORDER BY seq ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: load history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var msgs []provider.LLMMessage
	for rows.Next() {
		var role, content string
		if err := rows.Scan(&role, &content); err != nil {
			return nil, fmt.Errorf("sqlite: scan turn: %w", err)
		}
		msgs = append(msgs, provider.LLMMessage{
			Role:    provider.MessageRole(role),
			Content: content,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: history rows: %w", err)
	}

	return msgs, nil
}

// ReplaceHistory overwrites the session's history in one transaction, so a
// reader sees either the old window or the new one, never a partial write.
func (s *sessionStore) ReplaceHistory(ctx context.Context, sessionID string, msgs []provider.LLMMessage) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin replace tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM turns WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("sqlite: clear history: %w", err)
	}

	for i, msg := range msgs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO turns (session_id, seq, role, content)
			VALUES (?, ?, ?, ?)`,
			sessionID, i+1, string(msg.Role), msg.Content,
		); err != nil {
			return fmt.Errorf("sqlite: insert turn %d: %w", i, err)
		}
	}

	if err := touchSession(ctx, tx, sessionID); err != nil {
		return err
	}

	return tx.Commit()
}

// Summary returns the stored summary for a session, or "" if none.
func (s *sessionStore) Summary(ctx context.Context, sessionID string) (string, error) {
	var summary string
	err := s.db.QueryRowContext(ctx,
		"SELECT summary FROM summaries WHERE session_id = ?", sessionID,
	).Scan(&summary)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("sqlite: load summary: %w", err)
	}
	return summary, nil
}

// SetSummary replaces the session's summary.
func (s *sessionStore) SetSummary(ctx context.Context, sessionID string, summary string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin summary tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO summaries (session_id, summary)
		VALUES (?, ?)`,
		sessionID, summary,
	); err != nil {
		return fmt.Errorf("sqlite: set summary: %w", err)
	}

	if err := touchSession(ctx, tx, sessionID); err != nil {
		return err
	}

	return tx.Commit()
}

// Purge removes all state for a session.
func (s *sessionStore) Purge(ctx context.Context, sessionID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin purge tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{
		"DELETE FROM turns WHERE session_id = ?",
		"DELETE FROM summaries WHERE session_id = ?",
		"DELETE FROM sessions WHERE session_id = ?",
	} {
		if _, err := tx.ExecContext(ctx, stmt, sessionID); err != nil {
			return fmt.Errorf("sqlite: purge session: %w", err)
		}
	}

	return tx.Commit()
}

// PruneIdle removes sessions whose last write is older than maxIdle.
func (s *sessionStore) PruneIdle(ctx context.Context, maxIdle time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-maxIdle).Format("2006-01-02T15:04:05.000Z")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin prune tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{
		"DELETE FROM turns WHERE session_id IN (SELECT session_id FROM sessions WHERE last_write < ?)",
		"DELETE FROM summaries WHERE session_id IN (SELECT session_id FROM sessions WHERE last_write < ?)",
	} {
		if _, err := tx.ExecContext(ctx, stmt, cutoff); err != nil {
			return 0, fmt.Errorf("sqlite: prune session data: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM sessions WHERE last_write < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("sqlite: prune sessions: %w", err)
	}
	pruned, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: prune rows affected: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return int(pruned), nil
}

// Sessions returns the number of sessions with stored state.
func (s *sessionStore) Sessions(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sessions").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: count sessions: %w", err)
	}
	return count, nil
}
