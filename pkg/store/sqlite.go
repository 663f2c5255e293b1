// Package store persists workflow sessions and draft history in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/xrsl/reachout/pkg/drafting"
	"github.com/xrsl/reachout/pkg/log"
	"github.com/xrsl/reachout/pkg/workflow"
)

// SQLiteStore implements workflow.Store and workflow.History.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

var (
	_ workflow.Store   = (*SQLiteStore)(nil)
	_ workflow.History = (*SQLiteStore)(nil)
)

// Open opens (creating if needed) the database at dbPath
func Open(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create database directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	// Single connection for SQLite
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &SQLiteStore{db: db, logger: log.Component("store")}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database migration failed: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id           TEXT PRIMARY KEY,
		content_type TEXT,
		step         TEXT NOT NULL,
		state        TEXT NOT NULL,
		created_at   INTEGER NOT NULL,
		updated_at   INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at);

	CREATE TABLE IF NOT EXISTS drafts (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id     TEXT NOT NULL,
		revision       INTEGER NOT NULL,
		content_type   TEXT NOT NULL,
		recipient      TEXT,
		subject        TEXT,
		body           TEXT NOT NULL,
		feedback       TEXT,
		model_used     TEXT,
		prompt_version TEXT,
		created_at     INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_drafts_session ON drafts(session_id, revision);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, sessionID string) (*workflow.State, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT state FROM sessions WHERE id = ?`, sessionID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var st workflow.State
	if err := json.Unmarshal([]byte(data), &st); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	return &st, nil
}

func (s *SQLiteStore) Put(ctx context.Context, st *workflow.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	created, updated := st.CreatedAt, st.UpdatedAt
	if created.IsZero() {
		created = time.Now()
	}
	if updated.IsZero() {
		updated = created
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, content_type, step, state, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			content_type = excluded.content_type,
			step = excluded.step,
			state = excluded.state,
			updated_at = excluded.updated_at`,
		st.SessionID, string(st.ContentType), string(st.Step), string(data), created.UnixNano(), updated.UnixNano(),
	)
	return err
}

// Delete removes a session and its draft history
func (s *SQLiteStore) Delete(ctx context.Context, sessionID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM drafts WHERE session_id = ?`, sessionID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sessionID); err != nil {
		return err
	}
	return tx.Commit()
}

// List returns every session, most recently updated first
func (s *SQLiteStore) List(ctx context.Context) ([]*workflow.State, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, state FROM sessions ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*workflow.State
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, err
		}
		var st workflow.State
		if err := json.Unmarshal([]byte(data), &st); err != nil {
			s.logger.Warn("skipping unreadable session", "session", id, "error", err)
			continue
		}
		out = append(out, &st)
	}
	return out, rows.Err()
}

// RecordDraft appends a draft revision to the history
func (s *SQLiteStore) RecordDraft(ctx context.Context, rec workflow.DraftRecord) error {
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO drafts (session_id, revision, content_type, recipient, subject, body, feedback, model_used, prompt_version, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.Revision, string(rec.Draft.Type), rec.Draft.Recipient, rec.Draft.Subject, rec.Draft.Body,
		rec.Feedback, rec.ModelUsed, rec.PromptVersion, created.UnixNano(),
	)
	return err
}

// Drafts returns the history of a session, oldest first
func (s *SQLiteStore) Drafts(ctx context.Context, sessionID string) ([]workflow.DraftRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT revision, content_type, recipient, subject, body, feedback, model_used, prompt_version, created_at
		 FROM drafts WHERE session_id = ? ORDER BY revision, id`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []workflow.DraftRecord
	for rows.Next() {
		var (
			rec                                     workflow.DraftRecord
			ct                                      string
			recipient, subject, feedback, model, pv sql.NullString
			created                                 int64
		)
		if err := rows.Scan(&rec.Revision, &ct, &recipient, &subject, &rec.Draft.Body, &feedback, &model, &pv, &created); err != nil {
			return nil, err
		}
		rec.SessionID = sessionID
		rec.Draft.Type = drafting.ContentType(ct)
		rec.Draft.Recipient = recipient.String
		rec.Draft.Subject = subject.String
		rec.Feedback = feedback.String
		rec.ModelUsed = model.String
		rec.PromptVersion = pv.String
		rec.CreatedAt = time.Unix(0, created)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Prune deletes sessions not updated within olderThan and returns how many were removed
func (s *SQLiteStore) Prune(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan).UnixNano()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM drafts WHERE session_id IN (SELECT id FROM sessions WHERE updated_at < ?)`, cutoff); err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE updated_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("pruned sessions", "count", n, "older_than", olderThan)
	}
	return int(n), nil
}
