// Package testdoubles provides spies for the observability interfaces of the store packages.
//
//   - LogHandlerSpy: a slog.Handler capturing records and their attributes
//   - ContextualLoggerSpy: captures store.ContextualLogger calls
//   - MetricsCollectorSpy: captures store.MetricsCollector calls
//   - TracingCollectorSpy: captures spans started and finished through store.TracingCollector
//
// All spies are safe for concurrent use, since effects and persisters call them from background goroutines.
package testdoubles
