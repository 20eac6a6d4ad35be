package validate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"reflect"
	"strings"
	"time"

	"github.com/kubelab/kubelab/pkg/types"
)

const maxOutputInMessage = 500

// Executor runs one atomic check and reports pass/fail with a message.
// Check-level failures (output mismatch, wrong status, failing predicate)
// come back as an unsuccessful CheckResult; the error return is reserved for
// the executor being unable to run at all (context cancellation), which the
// engine's retry layer handles separately.
type Executor struct {
	httpClient *http.Client
	workDir    string
}

// NewExecutor creates an Executor with a 30 second HTTP timeout
func NewExecutor() *Executor {
	return &Executor{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// WithHTTPClient sets the HTTP client used for http checks
func (e *Executor) WithHTTPClient(client *http.Client) *Executor {
	e.httpClient = client
	return e
}

// WithWorkDir sets the working directory for command checks
func (e *Executor) WithWorkDir(dir string) *Executor {
	e.workDir = dir
	return e
}

// Execute runs the check's single execution mode. Modes are dispatched in a
// fixed priority order: command, HTTP, custom. A check with no mode set is a
// content bug reported as a failed check, not an error.
func (e *Executor) Execute(ctx context.Context, check types.ValidationCheck) (types.CheckResult, error) {
	if err := ctx.Err(); err != nil {
		return types.CheckResult{}, err
	}

	switch check.Mode() {
	case types.CheckModeCommand:
		return e.executeCommand(ctx, check), nil
	case types.CheckModeHTTP:
		return e.executeHTTP(ctx, *check.HTTPRequest), nil
	case types.CheckModeCustom:
		return e.executeCustom(ctx, check.Custom), nil
	default:
		return types.CheckResult{
			Success: false,
			Message: "no validation method specified",
		}, nil
	}
}

// executeCommand runs a shell command and compares its combined output
func (e *Executor) executeCommand(ctx context.Context, check types.ValidationCheck) types.CheckResult {
	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", check.Command)
	cmd.Dir = e.workDir

	outputBytes, err := cmd.CombinedOutput()
	output := string(outputBytes)

	if err != nil {
		message := fmt.Sprintf("Command failed: %s - %v", check.Command, err)
		if trimmed := strings.TrimSpace(output); trimmed != "" {
			message = fmt.Sprintf("%s: %s", message, truncate(trimmed, maxOutputInMessage))
		}
		if containsNotFound(err.Error()) || containsNotFound(output) {
			message += " (hint: the referenced resource or command does not exist yet)"
		}
		return types.CheckResult{Success: false, Message: message}
	}

	if check.ExpectedOutput != "" {
		if !strings.Contains(output, check.ExpectedOutput) {
			return types.CheckResult{
				Success: false,
				Message: fmt.Sprintf("Expected output to contain %q, got: %s",
					check.ExpectedOutput, truncate(strings.TrimSpace(output), maxOutputInMessage)),
			}
		}
		return types.CheckResult{
			Success: true,
			Message: fmt.Sprintf("Command output contains %q", check.ExpectedOutput),
		}
	}

	return types.CheckResult{
		Success: true,
		Message: fmt.Sprintf("Command succeeded: %s", check.Command),
	}
}

// executeHTTP issues the request and compares status and optionally body.
// All response statuses are valid responses; only network-level failures
// (DNS, refused connections, timeouts) fail without a status comparison,
// and even those come back as a failed result rather than an error.
func (e *Executor) executeHTTP(ctx context.Context, request types.HTTPRequest) types.CheckResult {
	method := request.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, request.URL, nil)
	if err != nil {
		return types.CheckResult{
			Success: false,
			Message: fmt.Sprintf("Invalid HTTP request for %s: %v", request.URL, err),
		}
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return types.CheckResult{
			Success: false,
			Message: fmt.Sprintf("HTTP request to %s failed: %v", request.URL, err),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != request.ExpectedStatus {
		return types.CheckResult{
			Success: false,
			Message: fmt.Sprintf("Expected status %d from %s, got %d",
				request.ExpectedStatus, request.URL, resp.StatusCode),
		}
	}

	if request.ExpectedBody != "" {
		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return types.CheckResult{
				Success: false,
				Message: fmt.Sprintf("Failed to read response body from %s: %v", request.URL, err),
			}
		}
		if !bodiesEqual(request.ExpectedBody, string(body)) {
			return types.CheckResult{
				Success: false,
				Message: fmt.Sprintf("Response body from %s does not match expected body: got %s",
					request.URL, truncate(strings.TrimSpace(string(body)), maxOutputInMessage)),
			}
		}
	}

	return types.CheckResult{
		Success: true,
		Message: fmt.Sprintf("HTTP %s %s returned %d", method, request.URL, resp.StatusCode),
	}
}

// executeCustom invokes the predicate; a returned error is a failure, never
// a propagated exception
func (e *Executor) executeCustom(ctx context.Context, validator types.CustomValidator) (result types.CheckResult) {
	defer func() {
		if r := recover(); r != nil {
			result = types.CheckResult{
				Success: false,
				Message: fmt.Sprintf("Custom validation panicked: %v", r),
			}
		}
	}()

	ok, err := validator(ctx)
	if err != nil {
		return types.CheckResult{
			Success: false,
			Message: fmt.Sprintf("Custom validation failed: %v", err),
		}
	}
	if !ok {
		return types.CheckResult{Success: false, Message: "Custom validation returned false"}
	}
	return types.CheckResult{Success: true, Message: "Custom validation passed"}
}

// bodiesEqual compares bodies structurally when both parse as JSON, and as
// trimmed text otherwise
func bodiesEqual(expected, actual string) bool {
	var expectedJSON, actualJSON any
	if json.Unmarshal([]byte(expected), &expectedJSON) == nil &&
		json.Unmarshal([]byte(actual), &actualJSON) == nil {
		return reflect.DeepEqual(expectedJSON, actualJSON)
	}
	return strings.TrimSpace(expected) == strings.TrimSpace(actual)
}

func containsNotFound(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "not found") || strings.Contains(lower, "notfound")
}

func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}
