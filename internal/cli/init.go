package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"practiceplan-cli/internal/config"
	"practiceplan-cli/internal/format"
	"practiceplan-cli/internal/mutate"
	"practiceplan-cli/internal/store"
)

func newInitCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a plan with the default sections (no-op if one exists)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s := store.Store{Dir: app.Dir}
			p, err := s.LoadPlan(ctx)
			created := false
			switch {
			case errors.Is(err, store.ErrNoPlan):
				p = mutate.NewPlan(name, time.Now())
				if err := s.SavePlan(ctx, p); err != nil {
					return writeErr(cmd, err)
				}
				created = true
			case err != nil:
				return writeErr(cmd, err)
			}

			// A default config.yaml is a convenience; failing to write it is not fatal.
			cfgPath := ""
			if dir, err := store.ConfigDir(); err == nil {
				if path, err := config.WriteDefault(dir); err == nil {
					cfgPath = path
				}
			}

			return writeOut(cmd, app, map[string]any{
				"data": format.PlanView{Plan: p},
				"meta": map[string]any{
					"dir":        app.Dir,
					"created":    created,
					"configPath": cfgPath,
				},
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Plan name (default: Practice Plan)")
	return cmd
}
