// Package engine keeps derived frontmatter values in sync with document bodies.
//
// The Engine reacts to change notifications from a core.Repository, recomputes the values of
// every key governed by an enabled rule, and writes back only the keys whose value changed, as
// one patch. A time-window Guard drops the notifications caused by the engine's own writes.
//
// Manual entry points (Apply, ApplyAll) bypass the guard and are idempotent: re-running them
// without intervening edits produces empty patches.
package engine
