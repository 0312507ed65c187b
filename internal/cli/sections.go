package cli

import (
	"github.com/spf13/cobra"

	"practiceplan-cli/internal/model"
	"practiceplan-cli/internal/mutate"
)

func newSectionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sections",
		Aliases: []string{"section"},
		Short:   "Section commands",
	}
	cmd.AddCommand(newSectionsAddCmd(app))
	cmd.AddCommand(newSectionsRmCmd(app))
	cmd.AddCommand(newSectionsRenameCmd(app))
	cmd.AddCommand(newSectionsNotesCmd(app))
	cmd.AddCommand(newSectionsGoalsCmd(app))
	return cmd
}

// sectionID resolves a section reference (id, name or index) against p.
func sectionID(p *model.Plan, ref string) (string, error) {
	idx, err := mutate.ResolveSection(p, ref)
	if err != nil {
		return "", err
	}
	return p.Sections[idx].ID, nil
}

// runEdit is the shared body of every editing command.
func runEdit(cmd *cobra.Command, app *App, action, description string, fn func(p *model.Plan) (mutate.Result, error)) error {
	s, err := openSession(cmd.Context(), app)
	if err != nil {
		return writeErr(cmd, err)
	}
	res, err := s.edit(cmd.Context(), action, description, fn)
	if err != nil {
		return writeErr(cmd, err)
	}
	return writeOut(cmd, app, resultOut(res))
}

func newSectionsAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add [name]",
		Short: "Append a section",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return runEdit(cmd, app, "ADD_SECTION", "Added section", func(p *model.Plan) (mutate.Result, error) {
				return mutate.AddSection(p, name)
			})
		},
	}
}

func newSectionsRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <section>",
		Short: "Remove a section and its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, app, "REMOVE_SECTION", "Removed section", func(p *model.Plan) (mutate.Result, error) {
				id, err := sectionID(p, args[0])
				if err != nil {
					return mutate.Result{}, err
				}
				return mutate.RemoveSection(p, id)
			})
		},
	}
}

func newSectionsRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <section> <name>",
		Short: "Rename a section",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, app, "RENAME_SECTION", "Renamed section", func(p *model.Plan) (mutate.Result, error) {
				id, err := sectionID(p, args[0])
				if err != nil {
					return mutate.Result{}, err
				}
				return mutate.RenameSection(p, id, args[1])
			})
		},
	}
}

func newSectionsNotesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "notes <section> <markdown>",
		Short: "Replace a section's notes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, app, "SET_SECTION_NOTES", "Edited notes", func(p *model.Plan) (mutate.Result, error) {
				id, err := sectionID(p, args[0])
				if err != nil {
					return mutate.Result{}, err
				}
				return mutate.SetSectionNotes(p, id, args[1])
			})
		},
	}
}

func newSectionsGoalsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "goals <section> [goal...]",
		Short: "Replace a section's goals (no goals clears them)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, app, "SET_SECTION_GOALS", "Edited goals", func(p *model.Plan) (mutate.Result, error) {
				id, err := sectionID(p, args[0])
				if err != nil {
					return mutate.Result{}, err
				}
				return mutate.SetSectionGoals(p, id, args[1:])
			})
		},
	}
}
