package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"practiceplan-cli/internal/dnd"
	"practiceplan-cli/internal/model"
	"practiceplan-cli/internal/mutate"
)

// scriptElement stands in for a rendered target: two units tall, so a pointer at 0
// lands in the top half and one at 1.5 in the bottom half.
type scriptElement struct{ key string }

func (e scriptElement) Key() string                 { return e.key }
func (e scriptElement) Rect() (dnd.Rect, error)     { return dnd.Rect{Top: 0, Height: 2}, nil }
func (e scriptElement) Contains(o dnd.Element) bool { return o != nil && o.Key() == e.key }

func pointerFor(pos dnd.DropPosition) float64 {
	if pos == dnd.PositionBefore {
		return 0
	}
	return 1.5
}

// immediateScheduler runs deferred indicator sweeps inline; a CLI process has no
// frames to wait for.
type immediateScheduler struct{}

func (immediateScheduler) After(_ time.Duration, fn func()) { fn() }

type dragFlags struct {
	to       string
	before   string
	after    string
	group    string
	timeline string
}

func (f dragFlags) ref() (string, dnd.DropPosition, error) {
	switch {
	case f.before != "" && f.after != "":
		return "", "", errors.New("use only one of --before and --after")
	case f.before != "":
		return f.before, dnd.PositionBefore, nil
	case f.after != "":
		return f.after, dnd.PositionAfter, nil
	}
	return "", dnd.PositionAfter, nil
}

func newDragCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drag",
		Short: "Replay a drag gesture through the reordering engine",
		Long: `Replays start, drag-over and drop against the same engine the editor uses, so the
result matches what a mouse drag onto the named target would do.`,
	}
	cmd.AddCommand(newDragItemCmd(app))
	cmd.AddCommand(newDragGroupCmd(app))
	cmd.AddCommand(newDragSectionCmd(app))
	return cmd
}

// dragResult is what one scripted gesture did.
type dragResult struct {
	Changed      bool             `json:"changed"`
	DragType     dnd.DragType     `json:"dragType"`
	Source       dnd.Source       `json:"source"`
	Target       dnd.Target       `json:"target"`
	DropPosition dnd.DropPosition `json:"dropPosition"`
}

// runDrag opens an engine over the session, runs gesture, and saves when it committed.
func runDrag(cmd *cobra.Command, app *App, gesture func(e *dnd.Engine, p *model.Plan) error) error {
	ctx := cmd.Context()
	s, err := openSession(ctx, app)
	if err != nil {
		return writeErr(cmd, err)
	}
	res, err := s.drag(ctx, app.Config.EngineOptions(), gesture)
	if err != nil {
		return writeErr(cmd, err)
	}
	return writeOut(cmd, app, map[string]any{"data": res})
}

// drag replays one gesture. The undo entry is written only after the plan is saved.
func (s *session) drag(ctx context.Context, opts dnd.Options, gesture func(e *dnd.Engine, p *model.Plan) error) (dragResult, error) {
	// Each invocation is one drop, so every drop is recorded.
	opts.HistorySampleEvery = 1
	rec := &heldRecord{}
	before := s.list.Read()
	e := dnd.New(dnd.Deps{Store: s.list, History: rec, Scheduler: immediateScheduler{}, Logger: s.log}, opts)

	if err := gesture(e, s.plan); err != nil {
		e.Reset()
		return dragResult{}, err
	}
	sess := e.Session()
	e.Drop(&dnd.Event{PointerY: pointerFor(sess.DropPosition)})

	res := dragResult{
		Changed:      e.Commits() > 0,
		DragType:     sess.DragType,
		Source:       sess.Source,
		Target:       sess.Target,
		DropPosition: sess.DropPosition,
	}
	if res.Changed {
		if err := s.save(ctx); err != nil {
			s.list.Replace(before)
			return dragResult{}, err
		}
		rec.flush(s.ledger)
	}
	return res, nil
}

func findItem(p *model.Plan, id string) (int, int, model.Item, error) {
	si, ii, ok := mutate.FindItem(p, id)
	if !ok {
		return -1, -1, model.Item{}, mutate.NotFoundError{Kind: "item", ID: id}
	}
	return si, ii, p.Sections[si].Items[ii], nil
}

// overRef hovers an item reference or, without one, the end of the --to section.
func overRef(e *dnd.Engine, p *model.Plan, f dragFlags) error {
	ref, pos, err := f.ref()
	if err != nil {
		return err
	}
	if f.group != "" && f.timeline == "" {
		si, ok := mutate.FindGroup(p, f.group)
		if !ok {
			return mutate.NotFoundError{Kind: "group", ID: f.group}
		}
		el := scriptElement{key: "group:" + f.group}
		e.DragOverGroup(&dnd.Event{PointerY: pointerFor(pos), Current: el}, si, f.group)
		return nil
	}
	if ref != "" {
		si, ii, it, err := findItem(p, ref)
		if err != nil {
			return err
		}
		el := scriptElement{key: "item:" + ref}
		e.DragOverItem(&dnd.Event{PointerY: pointerFor(pos), Current: el}, si, ii, it)
		return nil
	}
	if f.to == "" {
		return errors.New("missing target: use --to, --before, --after or --group")
	}
	si, err := mutate.ResolveSection(p, f.to)
	if err != nil {
		return err
	}
	e.DragOverEmptySection(&dnd.Event{Current: scriptElement{key: "section:" + p.Sections[si].ID}}, si)
	return nil
}

func newDragItemCmd(app *App) *cobra.Command {
	var f dragFlags

	cmd := &cobra.Command{
		Use:   "item <item-id>",
		Short: "Drag an item before/after another item, into a timeline, or to the end of a section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDrag(cmd, app, func(e *dnd.Engine, p *model.Plan) error {
				si, ii, it, err := findItem(p, args[0])
				if err != nil {
					return err
				}
				tlIdx := -1
				if gid := it.GroupID(); gid != "" {
					for i, tl := range model.GroupRoster(p.Sections[si].Items, gid) {
						if tl == it.Timeline() {
							tlIdx = i
						}
					}
				}
				ev := &dnd.Event{Current: scriptElement{key: "item:" + it.ID}}
				e.StartItemDrag(ev, si, ii, it, it.ID, tlIdx)
				if ev.Canceled() {
					return errors.New("drag start rejected")
				}

				if f.timeline != "" {
					if f.group == "" {
						return errors.New("--timeline needs --group")
					}
					gsi, ok := mutate.FindGroup(p, f.group)
					if !ok {
						return mutate.NotFoundError{Kind: "group", ID: f.group}
					}
					el := scriptElement{key: fmt.Sprintf("timeline:%s:%s", f.group, f.timeline)}
					e.DragOverTimeline(&dnd.Event{Current: el}, gsi, f.group, model.NormalizeTimeline(f.timeline))
					return nil
				}
				return overRef(e, p, f)
			})
		},
	}

	addDragTargetFlags(cmd, &f)
	cmd.Flags().StringVar(&f.timeline, "timeline", "", "Join this timeline of --group")
	return cmd
}

func newDragGroupCmd(app *App) *cobra.Command {
	var f dragFlags

	cmd := &cobra.Command{
		Use:   "group <group-id>",
		Short: "Drag a whole parallel block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDrag(cmd, app, func(e *dnd.Engine, p *model.Plan) error {
				si, ok := mutate.FindGroup(p, args[0])
				if !ok {
					return mutate.NotFoundError{Kind: "group", ID: args[0]}
				}
				ev := &dnd.Event{Current: scriptElement{key: "group:" + args[0]}}
				e.StartGroupDrag(ev, si, args[0])
				if ev.Canceled() {
					return errors.New("drag start rejected")
				}
				return overRef(e, p, f)
			})
		},
	}

	addDragTargetFlags(cmd, &f)
	return cmd
}

func newDragSectionCmd(app *App) *cobra.Command {
	var f dragFlags

	cmd := &cobra.Command{
		Use:   "section <section>",
		Short: "Drag a section before or after another section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDrag(cmd, app, func(e *dnd.Engine, p *model.Plan) error {
				src, err := mutate.ResolveSection(p, args[0])
				if err != nil {
					return err
				}
				ref, pos, err := f.ref()
				if err != nil {
					return err
				}
				if ref == "" {
					return errors.New("missing target: use --before or --after")
				}
				dst, err := mutate.ResolveSection(p, ref)
				if err != nil {
					return err
				}
				ev := &dnd.Event{Current: scriptElement{key: "section:" + p.Sections[src].ID}}
				e.StartSectionDrag(ev, src)
				if ev.Canceled() {
					return errors.New("drag start rejected")
				}
				el := scriptElement{key: "section:" + p.Sections[dst].ID}
				e.DragOverSection(&dnd.Event{PointerY: pointerFor(pos), Current: el}, dst)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&f.before, "before", "", "Section to drop before")
	cmd.Flags().StringVar(&f.after, "after", "", "Section to drop after")
	return cmd
}

func addDragTargetFlags(cmd *cobra.Command, f *dragFlags) {
	cmd.Flags().StringVar(&f.to, "to", "", "Section to append to (when no item target is given)")
	cmd.Flags().StringVar(&f.before, "before", "", "Item id to drop before")
	cmd.Flags().StringVar(&f.after, "after", "", "Item id to drop after")
	cmd.Flags().StringVar(&f.group, "group", "", "Parallel block to target")
}
