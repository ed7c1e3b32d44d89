package engine

import (
	"log/slog"
	"sync"

	"github.com/roach88/launchdash/internal/chart"
	"github.com/roach88/launchdash/internal/filter"
)

// Update is the result of one interaction: the recomputed outputs, in
// declaration order, plus the selection they were computed from.
type Update struct {
	Session   string              `json:"session"`
	Revision  int64               `json:"revision"`
	Changed   []Input             `json:"changed,omitempty"`
	Selection Selection           `json:"selection"`
	Charts    []chart.Description `json:"charts"`
}

// Session is one user's dashboard state.
//
// Thread-safety: all methods are safe for concurrent use. Changes to the same
// session are serialized; each one reads the selection, applies the change and
// recomputes the affected outputs before the next starts.
type Session struct {
	id     string
	engine *Engine

	mu       sync.Mutex
	sel      Selection
	revision int64 // Incremented once per applied change
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Selection returns the current selection.
func (s *Session) Selection() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel
}

// Revision returns the number of changes applied so far.
func (s *Session) Revision() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// SetSite applies a site selector change and recomputes every output that
// depends on the site: with the default bindings, both charts.
//
// Any string is accepted. A value naming no site yields empty charts.
func (s *Session) SetSite(site string) Update {
	return s.apply(InputSite, func(sel *Selection) {
		sel.Site = site
	})
}

// SetPayload applies a payload range change and recomputes every output that
// depends on the range: with the default bindings, the scatter chart only.
//
// Returns an *InputError if r.Lo > r.Hi; the selection is left unchanged.
// Callers coerce raw input through control.RangeSlider first.
func (s *Session) SetPayload(r filter.PayloadRange) (Update, error) {
	if !r.Valid() {
		return Update{}, NewRangeError(r)
	}
	return s.apply(InputPayload, func(sel *Selection) {
		sel.Payload = r
	}), nil
}

// Snapshot recomputes every output for the current selection without
// changing state. Two snapshots with no change in between are identical.
func (s *Session) Snapshot() Update {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Update{
		Session:   s.id,
		Revision:  s.revision,
		Selection: s.sel,
		Charts:    s.engine.Compute(s.sel),
	}
}

// Chart recomputes one output for the current selection.
func (s *Session) Chart(slot chart.Slot) (chart.Description, bool) {
	sel := s.Selection()
	return s.engine.ComputeSlot(sel, slot)
}

func (s *Session) apply(in Input, mutate func(*Selection)) Update {
	s.mu.Lock()
	defer s.mu.Unlock()

	mutate(&s.sel)
	s.revision++

	charts := s.engine.Compute(s.sel, in)

	slog.Debug("session recomputed",
		"session", s.id,
		"revision", s.revision,
		"input", string(in),
		"site", s.sel.Site,
		"payload", s.sel.Payload.String(),
		"outputs", s.engine.Affected(in),
	)

	return Update{
		Session:   s.id,
		Revision:  s.revision,
		Changed:   []Input{in},
		Selection: s.sel,
		Charts:    charts,
	}
}
