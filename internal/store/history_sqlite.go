package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"practiceplan-cli/internal/model"
)

const (
	stackUndo = "undo"
	stackRedo = "redo"
)

// HistoryState is the persisted undo/redo ledger. Both stacks are oldest first.
type HistoryState struct {
	Undo []model.HistoryEntry `json:"undo"`
	Redo []model.HistoryEntry `json:"redo"`
}

func (s Store) SaveHistory(ctx context.Context, st HistoryState) error {
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

	if _, err := tx.ExecContext(ctx, `DELETE FROM history`); err != nil {
		return err
	}
	write := func(stack string, entries []model.HistoryEntry) error {
		for i, e := range entries {
			raw, err := json.Marshal(e)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO history(id, stack, position, type, description, ts_unixms, json) VALUES(?, ?, ?, ?, ?, ?, ?)`,
				e.ID, stack, i, e.Type, e.Description, e.TS.UTC().UnixMilli(), string(raw)); err != nil {
				return err
			}
		}
		return nil
	}
	if err := write(stackUndo, st.Undo); err != nil {
		return err
	}
	if err := write(stackRedo, st.Redo); err != nil {
		return err
	}
	return tx.Commit()
}

func (s Store) LoadHistory(ctx context.Context) (HistoryState, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return HistoryState{}, err
	}
	defer db.Close()

	undo, err := readJSONRows[model.HistoryEntry](ctx, db, `SELECT json FROM history WHERE stack = ? ORDER BY position`, stackUndo)
	if err != nil {
		return HistoryState{}, err
	}
	redo, err := readJSONRows[model.HistoryEntry](ctx, db, `SELECT json FROM history WHERE stack = ? ORDER BY position`, stackRedo)
	if err != nil {
		return HistoryState{}, err
	}
	return HistoryState{Undo: undo, Redo: redo}, nil
}
