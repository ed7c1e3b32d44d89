// Package engine implements the dashboard's reactive binding layer.
//
// The engine maps selection state to chart descriptions. It is the only
// stateful part of the dashboard, and its state is strictly per session.
//
// ARCHITECTURE:
//
// Dependency Table:
// Each output (chart slot) is declared as a Binding listing the inputs it
// depends on. The proportion chart depends on the site selector only; the
// scatter chart depends on the site selector and the payload range. When an
// input changes, exactly the bindings that depend on it are recomputed, in
// declaration order.
//
// Recompute From Scratch:
// Every recomputation reads the session's current Selection and filters the
// shared Table again. No intermediate result is cached between outputs or
// between changes, so no output can observe stale state.
//
// Sessions:
// The Table is shared read-only by every session. A Selection belongs to
// exactly one Session and is never shared. Each Session serializes its own
// changes behind a mutex; distinct sessions never contend.
//
// INVARIANTS:
//   - bindings slice order NEVER changes after construction
//   - binding outputs are unique
//   - recomputing with an unchanged Selection yields identical descriptions
package engine
