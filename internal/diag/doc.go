// Package diag defines the diagnostic model shared by the accessibility checks,
// the rule catalogue and every consumer (CLI, LSP, batch driver).
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – four-level enum (Hint, Info, Warning, Error). Level maps it
//     onto the 1..4 scale used by rule catalogues and the LSP wire format.
//   - Code – compact numeric identifier (see codes.go) with stable string form
//     such as MIS2001.
//   - Category – coarse family (Semantic, Missing, ...) surfaced to editors as
//     the diagnostic code; catalogue rules may introduce their own.
//   - Rule – id of the catalogue rule that produced the diagnostic, if any.
//   - Message – human oriented text; may span several lines.
//   - Primary span – byte range in the document the finding points at.
//   - Notes – optional secondary spans, used for contrast suggestions.
//
// # Emitting diagnostics
//
// Producers emit through a Reporter so that the cap, category filtering and
// deduplication stay outside the checks. BagReporter stores into a Bag and
// reports false for a diagnostic the full Bag refuses; FilterReporter drops excluded
// categories; DedupReporter collapses identical findings. ReportBuilder chains
// WithCategory / WithRule / WithNote before Emit.
//
// Package diag does not format or perform IO. Rendering lives in
// internal/diagfmt.
package diag
