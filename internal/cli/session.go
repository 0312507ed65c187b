package cli

import (
	"context"
	"time"

	"go.uber.org/zap"

	"practiceplan-cli/internal/history"
	"practiceplan-cli/internal/model"
	"practiceplan-cli/internal/mutate"
	"practiceplan-cli/internal/store"
)

// session is one loaded workspace: the plan, its in-memory list and the persisted
// undo ledger.
type session struct {
	st     store.Store
	plans  planSaver
	plan   *model.Plan
	list   *store.Sections
	ledger *history.Ledger
	log    *zap.Logger
}

type planSaver interface {
	SavePlan(ctx context.Context, p *model.Plan) error
}

func openSession(ctx context.Context, app *App) (*session, error) {
	st := store.Store{Dir: app.Dir}
	p, err := st.LoadPlan(ctx)
	if err != nil {
		return nil, err
	}
	hs, err := st.LoadHistory(ctx)
	if err != nil {
		return nil, err
	}
	log := app.Log
	if log == nil {
		log = zap.NewNop()
	}
	list := store.NewSections(p.Sections)
	maxEntries := history.DefaultMaxEntries
	if app.Config != nil {
		maxEntries = app.Config.HistoryMaxEntries
	}
	ledger := history.New(list, history.Options{MaxEntries: maxEntries, Saver: st, Logger: log})
	ledger.Restore(hs)
	return &session{st: st, plans: st, plan: p, list: list, ledger: ledger, log: log}, nil
}

// save writes the list back into the plan.
func (s *session) save(ctx context.Context) error {
	s.plan.Sections = s.list.Read()
	s.plan.UpdatedAt = time.Now().UTC()
	return s.plans.SavePlan(ctx, s.plan)
}

// edit applies fn to a copy of the current sections and, when it changed something,
// saves and then records an undo entry. A failed save records nothing.
func (s *session) edit(ctx context.Context, action, description string, fn func(p *model.Plan) (mutate.Result, error)) (mutate.Result, error) {
	before := s.list.Read()
	work := *s.plan
	work.Sections = model.CloneSections(before)
	res, err := fn(&work)
	if err != nil {
		return res, err
	}
	if !res.Changed {
		return res, nil
	}

	s.list.Replace(work.Sections)
	s.plan.Name = work.Name
	if err := s.save(ctx); err != nil {
		s.list.Replace(before)
		return res, err
	}
	payload := map[string]any{history.SnapshotKey: before}
	for k, v := range res.EventPayload {
		payload[k] = v
	}
	s.ledger.Record(action, payload, description)
	s.log.Debug("edit applied", zap.String("action", action), zap.String("id", res.ID))
	return res, nil
}

// heldRecord keeps a history record back until the plan it describes is on disk.
type heldRecord struct {
	action      string
	payload     map[string]any
	description string
	held        bool
}

func (h *heldRecord) Record(action string, payload map[string]any, description string) {
	h.action, h.payload, h.description, h.held = action, payload, description, true
}

// flush hands the held record to the ledger.
func (h *heldRecord) flush(l *history.Ledger) {
	if h.held {
		l.Record(h.action, h.payload, h.description)
		h.held = false
	}
}

func resultOut(res mutate.Result) map[string]any {
	return map[string]any{"data": map[string]any{
		"changed": res.Changed,
		"id":      res.ID,
		"event":   res.EventPayload,
	}}
}
