package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"practiceplan-cli/internal/model"
	"practiceplan-cli/internal/mutate"
	"practiceplan-cli/internal/store"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// workspace isolates config and returns --dir args for a fresh initialized plan.
func workspace(t *testing.T) []string {
	t.Helper()
	t.Setenv("PRACTICEPLAN_CONFIG_DIR", t.TempDir())
	dir := []string{"--dir", t.TempDir()}
	if _, stderr, err := runCLI(t, append(dir, "init", "--name", "Tuesday")); err != nil {
		t.Fatalf("init: %v\n%s", err, stderr)
	}
	return dir
}

func mustRun(t *testing.T, dir []string, args ...string) []byte {
	t.Helper()
	out, stderr, err := runCLI(t, append(append([]string{}, dir...), args...))
	if err != nil {
		t.Fatalf("%s: %v\nstderr: %s", strings.Join(args, " "), err, stderr)
	}
	return out
}

func decodeData[T any](t *testing.T, out []byte) T {
	t.Helper()
	var env struct {
		Data T `json:"data"`
	}
	if err := json.Unmarshal(out, &env); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	return env.Data
}

type editOut struct {
	Changed bool           `json:"changed"`
	ID      string         `json:"id"`
	Event   map[string]any `json:"event"`
}

func showPlan(t *testing.T, dir []string) model.Plan {
	t.Helper()
	return decodeData[model.Plan](t, mustRun(t, dir, "show"))
}

func itemIDs(s model.Section) []string {
	out := make([]string, 0, len(s.Items))
	for _, it := range s.Items {
		out = append(out, it.ID)
	}
	return out
}

func sectionNames(p model.Plan) []string {
	out := make([]string, 0, len(p.Sections))
	for _, s := range p.Sections {
		out = append(out, s.Name)
	}
	return out
}

func TestInit_CreatesDefaultSectionsOnce(t *testing.T) {
	dir := workspace(t)

	p := showPlan(t, dir)
	if p.Name != "Tuesday" {
		t.Fatalf("expected plan name Tuesday, got %q", p.Name)
	}
	if got := strings.Join(sectionNames(p), ","); got != "Warmup,Skill Building,Half Court" {
		t.Fatalf("unexpected sections: %s", got)
	}

	out := mustRun(t, dir, "init", "--name", "Other")
	var env struct {
		Meta struct {
			Created bool `json:"created"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(out, &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Meta.Created {
		t.Fatalf("expected second init to be a no-op")
	}
	if showPlan(t, dir).Name != "Tuesday" {
		t.Fatalf("second init must not replace the plan")
	}
}

func TestShow_WithoutPlan(t *testing.T) {
	t.Setenv("PRACTICEPLAN_CONFIG_DIR", t.TempDir())
	_, stderr, err := runCLI(t, []string{"--dir", t.TempDir(), "show"})
	if !errors.Is(err, store.ErrNoPlan) {
		t.Fatalf("expected ErrNoPlan, got %v", err)
	}
	if !strings.Contains(string(stderr), "practiceplan init") {
		t.Fatalf("expected hint on stderr, got %q", stderr)
	}
}

func TestSections_Edits(t *testing.T) {
	dir := workspace(t)

	added := decodeData[editOut](t, mustRun(t, dir, "sections", "add", "Scrimmage"))
	if !added.Changed || added.ID == "" {
		t.Fatalf("unexpected add result: %+v", added)
	}
	mustRun(t, dir, "sections", "rename", "scrimmage", "Full Court")
	mustRun(t, dir, "sections", "notes", "Full Court", "Bring **pinnies**")
	mustRun(t, dir, "sections", "goals", "Full Court", "win", " ", "have fun")
	mustRun(t, dir, "sections", "rm", "1")

	p := showPlan(t, dir)
	if got := strings.Join(sectionNames(p), ","); got != "Warmup,Half Court,Full Court" {
		t.Fatalf("unexpected sections: %s", got)
	}
	last := p.Sections[2]
	if last.Notes != "Bring **pinnies**" || strings.Join(last.Goals, "|") != "win|have fun" {
		t.Fatalf("unexpected section: %+v", last)
	}
	for i, s := range p.Sections {
		if s.Order != i {
			t.Fatalf("order not dense: %+v", p.Sections)
		}
	}
}

func TestItems_AddDurationRemove(t *testing.T) {
	dir := workspace(t)

	drill := decodeData[editOut](t, mustRun(t, dir, "items", "add-drill", "Warmup", "--name", "Laps", "--drill-id", "drill-7"))
	brk := decodeData[editOut](t, mustRun(t, dir, "items", "add-break", "Warmup"))

	p := showPlan(t, dir)
	items := p.Sections[0].Items
	if len(items) != 2 || items[0].Name != "Laps" || items[0].Duration != 15 || items[1].Duration != 10 {
		t.Fatalf("unexpected items: %+v", items)
	}

	mustRun(t, dir, "items", "duration", drill.ID, "25")
	_, _, err := runCLI(t, append(append([]string{}, dir...), "items", "duration", drill.ID, "500"))
	if !errors.Is(err, mutate.ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
	mustRun(t, dir, "items", "rm", brk.ID)

	p = showPlan(t, dir)
	if got := itemIDs(p.Sections[0]); len(got) != 1 || got[0] != drill.ID {
		t.Fatalf("unexpected items after rm: %v", got)
	}
	if p.Sections[0].Items[0].Duration != 25 {
		t.Fatalf("duration not saved: %+v", p.Sections[0].Items[0])
	}
}

func TestDrag_ItemUndoRedo(t *testing.T) {
	dir := workspace(t)

	laps := decodeData[editOut](t, mustRun(t, dir, "items", "add-drill", "Warmup", "--name", "Laps"))
	brk := decodeData[editOut](t, mustRun(t, dir, "items", "add-break", "Half Court"))

	moved := decodeData[map[string]any](t, mustRun(t, dir, "drag", "item", laps.ID, "--to", "Half Court"))
	if moved["changed"] != true {
		t.Fatalf("expected drag to commit: %v", moved)
	}
	p := showPlan(t, dir)
	if len(p.Sections[0].Items) != 0 || strings.Join(itemIDs(p.Sections[2]), ",") != brk.ID+","+laps.ID {
		t.Fatalf("unexpected lists after drag: %v / %v", itemIDs(p.Sections[0]), itemIDs(p.Sections[2]))
	}

	// Before the break, within the same section.
	mustRun(t, dir, "drag", "item", laps.ID, "--before", brk.ID)
	p = showPlan(t, dir)
	if strings.Join(itemIDs(p.Sections[2]), ",") != laps.ID+","+brk.ID {
		t.Fatalf("unexpected order after reorder: %v", itemIDs(p.Sections[2]))
	}

	mustRun(t, dir, "undo")
	mustRun(t, dir, "undo")
	p = showPlan(t, dir)
	if strings.Join(itemIDs(p.Sections[0]), ",") != laps.ID {
		t.Fatalf("undo did not restore Warmup: %v", itemIDs(p.Sections[0]))
	}

	mustRun(t, dir, "redo")
	p = showPlan(t, dir)
	if len(p.Sections[0].Items) != 0 {
		t.Fatalf("redo did not reapply the drag: %v", itemIDs(p.Sections[0]))
	}

	hist := decodeData[map[string][]map[string]any](t, mustRun(t, dir, "history"))
	if len(hist["undo"]) != 3 || len(hist["redo"]) != 1 {
		t.Fatalf("unexpected history sizes: undo=%d redo=%d", len(hist["undo"]), len(hist["redo"]))
	}
	if hist["undo"][2]["type"] != "DRAG_DROP" {
		t.Fatalf("expected newest undo entry to be the drag, got %v", hist["undo"][2])
	}
}

func TestDrag_NoopDropLeavesPlanAlone(t *testing.T) {
	dir := workspace(t)

	a := decodeData[editOut](t, mustRun(t, dir, "items", "add-break", "Warmup", "--name", "A"))
	b := decodeData[editOut](t, mustRun(t, dir, "items", "add-break", "Warmup", "--name", "B"))

	out := decodeData[map[string]any](t, mustRun(t, dir, "drag", "item", a.ID, "--before", b.ID))
	if out["changed"] != false {
		t.Fatalf("expected no-op drop, got %v", out)
	}
	hist := decodeData[map[string][]map[string]any](t, mustRun(t, dir, "history"))
	if len(hist["undo"]) != 2 {
		t.Fatalf("no-op drop must not be recorded: %d entries", len(hist["undo"]))
	}
}

func TestGroups_CreateJoinAndRemoveTimeline(t *testing.T) {
	dir := workspace(t)

	laps := decodeData[editOut](t, mustRun(t, dir, "items", "add-drill", "Warmup", "--name", "Laps", "--duration", "5"))
	grp := decodeData[editOut](t, mustRun(t, dir, "groups", "create", "Skill Building"))

	p := showPlan(t, dir)
	if got := len(p.Sections[1].Items); got != 3 {
		t.Fatalf("expected one placeholder per builtin timeline, got %d", got)
	}

	mustRun(t, dir, "groups", "rm-timeline", grp.ID, "chasers")
	mustRun(t, dir, "drag", "item", laps.ID, "--group", grp.ID, "--timeline", "beaters")

	p = showPlan(t, dir)
	items := p.Sections[1].Items
	if len(items) != 3 {
		t.Fatalf("expected two placeholders plus Laps, got %+v", items)
	}
	var joined *model.Item
	for i := range items {
		if items[i].ID == laps.ID {
			joined = &items[i]
		}
	}
	if joined == nil || joined.GroupID() != grp.ID || joined.Timeline() != model.TimelineBeaters {
		t.Fatalf("Laps did not join the Beaters timeline: %+v", joined)
	}
	if err := model.ValidateGroups(p.Sections); err != nil {
		t.Fatalf("invalid groups: %v", err)
	}

	mustRun(t, dir, "groups", "ungroup", grp.ID)
	p = showPlan(t, dir)
	for _, it := range p.Sections[1].Items {
		if it.Group != nil {
			t.Fatalf("expected block dissolved, got %+v", it)
		}
	}
}

func TestDrag_SectionBefore(t *testing.T) {
	dir := workspace(t)

	mustRun(t, dir, "drag", "section", "Half Court", "--before", "Warmup")
	p := showPlan(t, dir)
	if got := strings.Join(sectionNames(p), ","); got != "Half Court,Warmup,Skill Building" {
		t.Fatalf("unexpected order: %s", got)
	}
	for i, s := range p.Sections {
		if s.Order != i {
			t.Fatalf("order not dense after section drag: %+v", p.Sections)
		}
	}
}

func TestDrag_UnknownItem(t *testing.T) {
	dir := workspace(t)

	_, _, err := runCLI(t, append(append([]string{}, dir...), "drag", "item", "item-nope", "--to", "Warmup"))
	var nf mutate.NotFoundError
	if !errors.As(err, &nf) || nf.Kind != "item" {
		t.Fatalf("expected item NotFoundError, got %v", err)
	}
}

func TestShow_TextFormat(t *testing.T) {
	dir := workspace(t)
	mustRun(t, dir, "items", "add-drill", "Warmup", "--name", "Laps")

	out := string(mustRun(t, dir, "--format", "text", "show"))
	for _, want := range []string{"Tuesday (15m)", "1. Warmup (15m)", "- Laps (drill, 15m)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
}
