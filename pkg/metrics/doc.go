// Package metrics exposes Prometheus instrumentation for the validation
// engine (run and check counters, durations, infrastructure availability)
// plus a small JSON component-health endpoint. All collectors are registered
// at init; serve Handler() and HealthHandler() from whatever surface embeds
// the engine.
package metrics
