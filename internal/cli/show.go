package cli

import (
	"github.com/spf13/cobra"

	"practiceplan-cli/internal/format"
	"practiceplan-cli/internal/model"
)

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			secs := s.plan.Sections
			mismatches := map[string][]model.TimelineMismatch{}
			for _, sec := range secs {
				for _, gid := range model.GroupIDs(sec.Items) {
					if mm := model.TimelineMismatches(sec.Items, gid); len(mm) > 0 {
						mismatches[gid] = mm
					}
				}
			}
			return writeOut(cmd, app, map[string]any{
				"data": format.PlanView{Plan: s.plan},
				"meta": map[string]any{
					"durationMinutes": model.PlanDuration(secs),
					"itemCount":       model.CountItems(secs),
					"mismatches":      mismatches,
				},
			})
		},
	}
}
