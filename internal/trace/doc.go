// Package trace provides the run log of bindoc.
//
// The pipeline emits span begin/end and point events for the driver, each
// pass (extract, assemble, compact, export) and, at higher verbosity, each
// source file. Events go to a Tracer carried in the context.
//
// # Usage
//
//	bindoc check --trace=- --trace-level=phase
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: failures only
//   - LevelPhase: driver and pass boundaries
//   - LevelDetail: per-file events
//   - LevelDebug: everything
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "assemble", 0)
//	defer span.End("")
package trace
