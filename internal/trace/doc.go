// Package trace records where wals spends its time: driver runs, documents
// and the individual evaluators that scan them.
//
// # Usage
//
//	wals diag --trace=- --trace-level=detail site/
//
// # Tracers
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: writes every event immediately (file or stderr)
//   - RingTracer: keeps the last N events in memory for post-mortem dumps
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// LevelPhase emits driver and document boundaries, LevelDetail adds one
// span per evaluator, LevelDebug adds point events for individual matches
// and dropped findings.
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeDocument, "evaluate", 0)
//	defer span.End("")
package trace
