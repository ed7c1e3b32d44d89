// Package harness runs dashboard scenarios against the binding layer.
//
// A scenario builds a table, opens one session and replays a sequence of
// control changes, checking each update and the final state. Every update is
// recorded in a trace that can be compared against a golden file.
//
// # Scenario Format
//
//	name: single_site_split
//	description: "Selecting one site splits its launches into success and failure"
//	dataset: ../data/launches.csv   # or inline rows:
//	rows:
//	  - {site: X, payload: 500, class: 1, booster: v1.0}
//	step: 1000
//	steps:
//	  - site: X
//	    expect:
//	      outputs: [success-pie-chart, success-payload-scatter-chart]
//	      slices: {Success: 2, Failure: 1}
//	  - payload: {lo: 2000, hi: 7000}
//	    expect:
//	      outputs: [success-payload-scatter-chart]
//	      points: 1
//	assertions:
//	  - type: final_selection
//	    site: X
//	    payload: {lo: 2000, hi: 7000}
//	  - type: recompute_count
//	    slot: success-pie-chart
//	    count: 1
//
// A step sets exactly one of site, payload or snapshot. Payload steps go to
// the session as given unless coerce is set, in which case they pass through
// the range slider first, as they would from the page.
//
// # Assertion Types
//
//   - final_selection: the session's selection after the last step
//   - recompute_count: how many steps recomputed a slot
//   - final_revision: the session's revision after the last step
//
// # Deterministic Testing
//
// The session ID is fixed (scenario.session, default "scenario-session") and
// traces contain no timestamps or hashes, so identical scenarios produce
// byte-identical golden files.
package harness
