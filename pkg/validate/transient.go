package validate

import "strings"

// transientPatterns are error-text fragments that indicate a failure likely
// to succeed on retry: network blips, API server 5xx, and container daemon
// connection trouble. Matching is case-insensitive substring matching;
// gateways surface structured errors where they can, but command and HTTP
// failures cross the boundary as free text.
var transientPatterns = []string{
	// Network level
	"connection refused",
	"connection reset",
	"no such host",
	"i/o timeout",
	"network is unreachable",
	"timeout",
	"temporary failure",

	// Kubernetes API server under load or restarting
	"bad gateway",
	"service unavailable",
	"gateway timeout",
	"502",
	"503",
	"504",
	"the server is currently unable to handle the request",
	"etcdserver: request timed out",

	// Docker daemon
	"cannot connect to the docker daemon",
	"error during connect",
	"docker daemon is not running",
}

// IsTransient classifies an error as retryable. Errors with no recognizable
// pattern are non-retryable: a custom validator returning an error is a
// business-check failure, not a network hiccup.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	text := strings.ToLower(err.Error())
	for _, pattern := range transientPatterns {
		if strings.Contains(text, pattern) {
			return true
		}
	}
	return false
}
