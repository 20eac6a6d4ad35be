// Package log provides structured logging for kubelab built on zerolog.
// Call Init once at startup; packages derive child loggers via WithComponent,
// and validation runs tag entries with WithStep / WithRun so one learner
// action can be traced end to end.
package log
