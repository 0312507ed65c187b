package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"practiceplan-cli/internal/model"

	_ "modernc.org/sqlite"
)

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// WAL lets the TUI and a CLI invocation share the file; busy_timeout avoids "database is locked".
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS plan_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sections (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sections_position ON sections(position);`,
		`CREATE TABLE IF NOT EXISTS history (
			id TEXT PRIMARY KEY,
			stack TEXT NOT NULL,
			position INTEGER NOT NULL,
			type TEXT NOT NULL,
			description TEXT NOT NULL,
			ts_unixms INTEGER NOT NULL,
			json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_history_stack ON history(stack, position);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// SavePlan writes the whole plan, replacing whatever was stored.
func (s Store) SavePlan(ctx context.Context, p *model.Plan) error {
	if p == nil {
		return errors.New("nil plan")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	meta := map[string]string{
		"plan_id":           p.ID,
		"name":              p.Name,
		"created_at_unixms": strconv.FormatInt(p.CreatedAt.UTC().UnixMilli(), 10),
		"updated_at_unixms": strconv.FormatInt(p.UpdatedAt.UTC().UnixMilli(), 10),
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO plan_meta(k, v) VALUES(?, ?)`, k, v); err != nil {
			return err
		}
	}

	// Replace-all: a plan is a few dozen rows.
	if _, err := tx.ExecContext(ctx, `DELETE FROM sections`); err != nil {
		return err
	}
	nowMs := time.Now().UTC().UnixMilli()
	for i, sec := range p.Sections {
		raw, err := json.Marshal(sec)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO sections(id, position, name, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?)`,
			sec.ID, i, sec.Name, string(raw), nowMs); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadPlan returns ErrNoPlan when the workspace was never initialized.
func (s Store) LoadPlan(ctx context.Context) (*model.Plan, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	readMeta := func(k string) string {
		var v string
		_ = db.QueryRowContext(ctx, `SELECT v FROM plan_meta WHERE k = ?`, k).Scan(&v)
		return strings.TrimSpace(v)
	}
	p := &model.Plan{ID: readMeta("plan_id"), Name: readMeta("name")}
	if p.ID == "" {
		return nil, ErrNoPlan
	}
	p.CreatedAt = unixMsMeta(readMeta("created_at_unixms"))
	p.UpdatedAt = unixMsMeta(readMeta("updated_at_unixms"))

	secs, err := readJSONRows[model.Section](ctx, db, `SELECT json FROM sections ORDER BY position`)
	if err != nil {
		return nil, err
	}
	if secs == nil {
		secs = []model.Section{}
	}
	model.ReconcileRosters(secs)
	p.Sections = secs
	return p, nil
}

func unixMsMeta(v string) time.Time {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n == 0 {
		return time.Time{}
	}
	return time.UnixMilli(n).UTC()
}

func readJSONRows[T any](ctx context.Context, db *sql.DB, query string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var js string
		if err := rows.Scan(&js); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal([]byte(js), &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
