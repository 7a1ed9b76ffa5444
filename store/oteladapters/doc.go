// Package oteladapters connects the store observability interfaces to OpenTelemetry.
//
// SlogBridgeLogger and OTelLogger implement store.ContextualLogger, MetricsCollector implements
// store.ContextualMetricsCollector and TracingCollector implements store.TracingCollector.
// All of them can be passed to the With* options of the store, reducer, effects and persist packages.
package oteladapters
