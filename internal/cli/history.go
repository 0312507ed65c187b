package cli

import (
	"github.com/spf13/cobra"

	"practiceplan-cli/internal/format"
)

func newUndoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Undo the most recent recorded change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUndoRedo(cmd, app, true)
		},
	}
}

func newRedoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "redo",
		Short: "Redo the most recently undone change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUndoRedo(cmd, app, false)
		},
	}
}

func runUndoRedo(cmd *cobra.Command, app *App, undo bool) error {
	ctx := cmd.Context()
	s, err := openSession(ctx, app)
	if err != nil {
		return writeErr(cmd, err)
	}
	step := s.ledger.Redo
	if undo {
		step = s.ledger.Undo
	}
	e, ok, err := step(ctx)
	if err != nil {
		return writeErr(cmd, err)
	}
	if ok {
		if err := s.save(ctx); err != nil {
			return writeErr(cmd, err)
		}
	}
	var entry any
	if ok {
		entry = map[string]any{"id": e.ID, "type": e.Type, "description": e.Description}
	}
	return writeOut(cmd, app, map[string]any{
		"data": map[string]any{"changed": ok, "entry": entry},
		"meta": map[string]any{"canUndo": s.ledger.CanUndo(), "canRedo": s.ledger.CanRedo()},
	})
}

func newHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List undo and redo entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			st := s.ledger.Entries()
			return writeOut(cmd, app, map[string]any{"data": format.HistoryView{Undo: st.Undo, Redo: st.Redo}})
		},
	}
}
