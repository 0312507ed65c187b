package cli

import (
	"github.com/spf13/cobra"

	"practiceplan-cli/internal/model"
	"practiceplan-cli/internal/mutate"
)

func newGroupsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "groups",
		Aliases: []string{"group"},
		Short:   "Parallel block commands",
	}
	cmd.AddCommand(newGroupsCreateCmd(app))
	cmd.AddCommand(newGroupsRetimeCmd(app))
	cmd.AddCommand(newGroupsRmTimelineCmd(app))
	cmd.AddCommand(newGroupsUngroupCmd(app))
	return cmd
}

// groupSectionID returns the id of the section holding groupID.
func groupSectionID(p *model.Plan, groupID string) (string, error) {
	si, ok := mutate.FindGroup(p, groupID)
	if !ok {
		return "", mutate.NotFoundError{Kind: "group", ID: groupID}
	}
	return p.Sections[si].ID, nil
}

func newGroupsCreateCmd(app *App) *cobra.Command {
	var timelines []string

	cmd := &cobra.Command{
		Use:   "create <section>",
		Short: "Append a parallel block with one placeholder per timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, app, "CREATE_PARALLEL_BLOCK", "Created parallel block", func(p *model.Plan) (mutate.Result, error) {
				id, err := sectionID(p, args[0])
				if err != nil {
					return mutate.Result{}, err
				}
				return mutate.CreateParallelBlock(p, id, timelines)
			})
		},
	}

	cmd.Flags().StringSliceVar(&timelines, "timeline", model.BuiltinTimelines(), "Timeline (repeatable)")
	return cmd
}

func newGroupsRetimeCmd(app *App) *cobra.Command {
	var timelines []string

	cmd := &cobra.Command{
		Use:   "retime <group-id>",
		Short: "Replace a block's timelines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, app, "UPDATE_BLOCK_TIMELINES", "Changed block timelines", func(p *model.Plan) (mutate.Result, error) {
				sid, err := groupSectionID(p, args[0])
				if err != nil {
					return mutate.Result{}, err
				}
				return mutate.UpdateBlockTimelines(p, sid, args[0], timelines)
			})
		},
	}

	cmd.Flags().StringSliceVar(&timelines, "timeline", nil, "Timeline (repeatable)")
	_ = cmd.MarkFlagRequired("timeline")
	return cmd
}

func newGroupsRmTimelineCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm-timeline <group-id> <timeline>",
		Short: "Remove one timeline and its items from a block",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, app, "REMOVE_TIMELINE", "Removed timeline", func(p *model.Plan) (mutate.Result, error) {
				sid, err := groupSectionID(p, args[0])
				if err != nil {
					return mutate.Result{}, err
				}
				return mutate.RemoveTimeline(p, sid, args[0], args[1])
			})
		},
	}
}

func newGroupsUngroupCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ungroup <group-id>",
		Short: "Dissolve a block, keeping its items in place",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, app, "UNGROUP", "Ungrouped block", func(p *model.Plan) (mutate.Result, error) {
				return mutate.Ungroup(p, args[0])
			})
		},
	}
}
