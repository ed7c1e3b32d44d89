package engine

import (
	"fmt"
	"log/slog"

	"github.com/roach88/launchdash/internal/chart"
	"github.com/roach88/launchdash/internal/dataset"
)

// Engine holds what every session shares: the read-only table, the
// dependency table and the initial selection.
//
// Thread-safety: an Engine is immutable after New and safe for concurrent
// use. Per-session state lives in Session.
type Engine struct {
	table    *dataset.Table
	bindings []Binding // Declaration order, never reordered
	initial  Selection
	idGen    SessionIDGenerator
}

// Option configures an Engine.
type Option func(*Engine)

// WithBindings replaces the default dependency table.
func WithBindings(bindings []Binding) Option {
	return func(e *Engine) {
		e.bindings = bindings
	}
}

// New creates an Engine over t. Sessions start from initial and draw their
// IDs from idGen.
//
// The bindings slice is copied so external mutation cannot reorder it.
func New(t *dataset.Table, initial Selection, idGen SessionIDGenerator, opts ...Option) (*Engine, error) {
	if t == nil {
		return nil, fmt.Errorf("engine: table is required")
	}
	if idGen == nil {
		idGen = UUIDv7Generator{}
	}
	if !initial.Payload.Valid() {
		return nil, NewRangeError(initial.Payload)
	}

	e := &Engine{
		table:    t,
		bindings: DefaultBindings(),
		initial:  initial,
		idGen:    idGen,
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := validateBindings(e.bindings); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	owned := make([]Binding, len(e.bindings))
	copy(owned, e.bindings)
	e.bindings = owned

	return e, nil
}

// Table returns the shared dataset table.
func (e *Engine) Table() *dataset.Table {
	return e.table
}

// InitialSelection returns the selection new sessions start from.
func (e *Engine) InitialSelection() Selection {
	return e.initial
}

// Affected returns the outputs that depend on in, in declaration order.
func (e *Engine) Affected(in Input) []chart.Slot {
	var slots []chart.Slot
	for _, b := range e.bindings {
		if b.dependsOn(in) {
			slots = append(slots, b.Output)
		}
	}
	return slots
}

// Outputs returns every output slot in declaration order.
func (e *Engine) Outputs() []chart.Slot {
	slots := make([]chart.Slot, len(e.bindings))
	for i, b := range e.bindings {
		slots[i] = b.Output
	}
	return slots
}

// Compute recomputes outputs for sel without any session state.
//
// With no inputs every output is computed. Otherwise only outputs depending
// on at least one of the given inputs are computed, in declaration order.
func (e *Engine) Compute(sel Selection, changed ...Input) []chart.Description {
	out := make([]chart.Description, 0, len(e.bindings))
	for _, b := range e.bindings {
		if len(changed) > 0 && !dependsOnAny(b, changed) {
			continue
		}
		out = append(out, b.Compute(e.table, sel))
	}
	return out
}

// ComputeSlot recomputes a single output.
func (e *Engine) ComputeSlot(sel Selection, slot chart.Slot) (chart.Description, bool) {
	for _, b := range e.bindings {
		if b.Output == slot {
			return b.Compute(e.table, sel), true
		}
	}
	return chart.Description{}, false
}

// NewSession creates a session at the initial selection. The session is not
// registered anywhere; see Registry.
func (e *Engine) NewSession() *Session {
	s := &Session{
		id:     e.idGen.Generate(),
		engine: e,
		sel:    e.initial,
	}
	slog.Debug("session created", "session", s.id, "site", s.sel.Site, "payload", s.sel.Payload.String())
	return s
}

func dependsOnAny(b Binding, inputs []Input) bool {
	for _, in := range inputs {
		if b.dependsOn(in) {
			return true
		}
	}
	return false
}
