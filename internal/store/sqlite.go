package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/callsight/backend/internal/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS calls (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	created_at_utc TEXT NOT NULL,
	payload TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS scripts (
	pos INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	content TEXT NOT NULL,
	active INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_calls_id ON calls(id);
`

// SQLite is the embedded-database backing for deployments that want
// transactional persistence without a server. Call records keep the
// whole document as a JSON payload; ordering comes from the insert
// sequence, newest first.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.seedDefaultScript(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) seedDefaultScript(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scripts`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	def := DefaultScript()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scripts (id, name, content, active) VALUES (?, ?, ?, 1)`,
		def.ID, def.Name, def.Content)
	return err
}

func (s *SQLite) AppendCall(ctx context.Context, rec models.CallRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO calls (id, created_at_utc, payload) VALUES (?, ?, ?)`,
		rec.ID, rec.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"), string(payload))
	return err
}

func (s *SQLite) ListCalls(ctx context.Context) ([]models.CallRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM calls ORDER BY seq DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.CallRecord
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var rec models.CallRecord
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLite) GetCall(ctx context.Context, id string) (models.CallRecord, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM calls WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CallRecord{}, ErrNotFound
	}
	if err != nil {
		return models.CallRecord{}, err
	}
	var rec models.CallRecord
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return models.CallRecord{}, err
	}
	return rec, nil
}

func (s *SQLite) ListScripts(ctx context.Context) ([]models.Script, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, content, active FROM scripts ORDER BY pos ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Script
	for rows.Next() {
		var sc models.Script
		var active int
		if err := rows.Scan(&sc.ID, &sc.Name, &sc.Content, &active); err != nil {
			return nil, err
		}
		sc.Active = active != 0
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (s *SQLite) GetActiveScript(ctx context.Context) (models.Script, error) {
	scripts, err := s.ListScripts(ctx)
	if err != nil {
		return models.Script{}, err
	}
	sc, ok := activeScript(scripts)
	if !ok {
		return models.Script{}, ErrNotFound
	}
	return sc, nil
}

func (s *SQLite) UpdateScript(ctx context.Context, id string, patch models.ScriptPatch) (models.Script, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Script{}, err
	}
	defer tx.Rollback()

	var sc models.Script
	var active int
	err = tx.QueryRowContext(ctx, `SELECT id, name, content, active FROM scripts WHERE id = ?`, id).
		Scan(&sc.ID, &sc.Name, &sc.Content, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Script{}, ErrNotFound
	}
	if err != nil {
		return models.Script{}, err
	}
	sc.Active = active != 0

	if patch.Name != nil {
		sc.Name = *patch.Name
	}
	if patch.Content != nil {
		sc.Content = *patch.Content
	}
	if patch.Active != nil {
		sc.Active = *patch.Active
		if *patch.Active {
			if _, err := tx.ExecContext(ctx, `UPDATE scripts SET active = 0 WHERE id <> ?`, id); err != nil {
				return models.Script{}, err
			}
		}
	}

	activeVal := 0
	if sc.Active {
		activeVal = 1
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE scripts SET name = ?, content = ?, active = ? WHERE id = ?`,
		sc.Name, sc.Content, activeVal, id); err != nil {
		return models.Script{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Script{}, err
	}
	return sc, nil
}

func (s *SQLite) State(ctx context.Context) (Snapshot, error) {
	scripts, err := s.ListScripts(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	calls, err := s.ListCalls(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Scripts: scripts, Calls: calls}, nil
}

func (s *SQLite) Close() error { return s.db.Close() }
