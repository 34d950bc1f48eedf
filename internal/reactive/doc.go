// Package reactive provides the change-notification layer between state and
// its display.
//
// State lives in [Value] cells owned by a [Runtime]. Writes go through
// [Runtime.Action], the mutation boundary: every reaction invalidated by the
// writes of one action runs exactly once, after the outermost action returns.
//
//   - [Reaction]: records which values a function read and is invalidated
//     when any of them changes
//   - [Runtime.Autorun]: a reaction that re-runs its function on every change
//   - [Runtime.When]: a one-shot rule that runs an effect the first time a
//     predicate holds, then disposes itself
//
// # Enforcement
//
// Under [EnforceAlways] any write outside an action is rejected with
// [ErrOutsideAction]. [EnforceObserved] only rejects writes to values that
// currently have observers.
//
// # Thread Safety
//
// A Runtime and its values are NOT safe for concurrent use. They are meant to
// be driven from a single event loop.
package reactive
