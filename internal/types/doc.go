// doc.go — Package documentation for foundational cross-cutting types.

// Package types provides the foundational, zero-dependency types shared
// across this module's packages: the public shapes callers see
// (Variable, StopState, BreakpointInfo) and the wire-adjacent shapes the
// proxy parses DAP bodies into (Capabilities).
//
// Nothing in this package imports anything outside the standard library —
// that is what lets internal/breakpoints and internal/proxy both depend on
// it without creating import cycles.
package types
