// Package retry provides a generic exponential-backoff retry wrapper with a
// pluggable retryability predicate. The validation engine uses it to absorb
// transient infrastructure failures (network blips, API server 5xx, container
// daemon hiccups) without retrying genuine check failures.
package retry
