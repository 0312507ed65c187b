package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"practiceplan-cli/internal/model"
	"practiceplan-cli/internal/mutate"
)

func newItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "items",
		Aliases: []string{"item"},
		Short:   "Item commands",
	}
	cmd.AddCommand(newItemsAddCmd(app, "add-drill", model.ItemKindDrill, "drill-id"))
	cmd.AddCommand(newItemsAddCmd(app, "add-break", model.ItemKindBreak, ""))
	cmd.AddCommand(newItemsAddCmd(app, "add-oneoff", model.ItemKindOneOff, ""))
	cmd.AddCommand(newItemsAddCmd(app, "add-formation", model.ItemKindFormation, "formation-id"))
	cmd.AddCommand(newItemsRmCmd(app))
	cmd.AddCommand(newItemsDurationCmd(app))
	cmd.AddCommand(newItemsTimelineCmd(app))
	return cmd
}

func newItemsAddCmd(app *App, use string, kind model.ItemKind, refFlag string) *cobra.Command {
	var name, ref string
	var duration int

	cmd := &cobra.Command{
		Use:   use + " <section>",
		Short: fmt.Sprintf("Append a %s item to a section", kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, app, "ADD_ITEM", fmt.Sprintf("Added %s", kind), func(p *model.Plan) (mutate.Result, error) {
				id, err := sectionID(p, args[0])
				if err != nil {
					return mutate.Result{}, err
				}
				return mutate.AddItem(p, id, mutate.NewItem{Kind: kind, Name: name, Duration: duration, RefID: ref})
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Item name (default depends on kind)")
	cmd.Flags().IntVar(&duration, "duration", 0, "Minutes (default depends on kind)")
	if refFlag != "" {
		cmd.Flags().StringVar(&ref, refFlag, "", "Library id this item refers to")
	}
	return cmd
}

func newItemsRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <item-id>",
		Short: "Remove an item (a block left with one timeline dissolves)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, app, "REMOVE_ITEM", "Removed item", func(p *model.Plan) (mutate.Result, error) {
				return mutate.RemoveItemByID(p, args[0])
			})
		},
	}
}

func newItemsDurationCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "duration <item-id> <minutes>",
		Short: "Set an item's duration",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			minutes, err := strconv.Atoi(args[1])
			if err != nil {
				return writeErr(cmd, fmt.Errorf("invalid minutes %q: %w", args[1], mutate.ErrInvalidDuration))
			}
			return runEdit(cmd, app, "SET_DURATION", "Changed duration", func(p *model.Plan) (mutate.Result, error) {
				return mutate.SetDuration(p, args[0], minutes)
			})
		},
	}
}

func newItemsTimelineCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "timeline <item-id> <timeline>",
		Short: "Move a parallel-block item to another timeline of its block",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, app, "SET_TIMELINE", "Changed timeline", func(p *model.Plan) (mutate.Result, error) {
				return mutate.SetTimeline(p, args[0], args[1])
			})
		},
	}
}
