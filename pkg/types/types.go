package types

import (
	"context"
	"fmt"
	"time"
)

// CriteriaType identifies which infrastructure a set of checks targets
type CriteriaType string

const (
	CriteriaTypeCluster   CriteriaType = "cluster"
	CriteriaTypeContainer CriteriaType = "container"
	CriteriaTypeHTTP      CriteriaType = "http"
	CriteriaTypeCustom    CriteriaType = "custom"
)

// ValidationCriteria is the full set of checks associated with one exercise
// step. Criteria are loaded from exercise content and are immutable after
// construction.
type ValidationCriteria struct {
	Type   CriteriaType      `json:"type" yaml:"type"`
	Checks []ValidationCheck `json:"checks" yaml:"checks"`
}

// CustomValidator is a caller-supplied predicate evaluated as a check.
// A returned error is treated as a check failure, never propagated.
type CustomValidator func(ctx context.Context) (bool, error)

// ValidationCheck is one atomic pass/fail assertion. Exactly one execution
// mode must be set: Command, HTTPRequest, or Custom.
type ValidationCheck struct {
	// Command is a shell command to run. If ExpectedOutput is set, the check
	// passes when the combined stdout+stderr contains it; otherwise the check
	// passes when the command exits successfully.
	Command        string `json:"command,omitempty" yaml:"command,omitempty"`
	ExpectedOutput string `json:"expectedOutput,omitempty" yaml:"expectedOutput,omitempty"`

	// HTTPRequest describes an HTTP probe.
	HTTPRequest *HTTPRequest `json:"httpRequest,omitempty" yaml:"httpRequest,omitempty"`

	// Custom is a programmatic predicate. Not expressible in content files;
	// only checks built in code can set it.
	Custom CustomValidator `json:"-" yaml:"-"`
}

// CheckMode identifies which execution mode a check uses
type CheckMode string

const (
	CheckModeCommand CheckMode = "command"
	CheckModeHTTP    CheckMode = "http"
	CheckModeCustom  CheckMode = "custom"
	CheckModeNone    CheckMode = "none"
)

// Mode returns the execution mode of the check. Modes are inspected in a
// fixed priority order: command, then HTTP, then custom.
func (c *ValidationCheck) Mode() CheckMode {
	switch {
	case c.Command != "":
		return CheckModeCommand
	case c.HTTPRequest != nil:
		return CheckModeHTTP
	case c.Custom != nil:
		return CheckModeCustom
	default:
		return CheckModeNone
	}
}

// Validate rejects checks that specify zero or more than one execution mode.
// Criteria loaded from content are validated at construction so a malformed
// check is a load error, not a runtime surprise.
func (c *ValidationCheck) Validate() error {
	modes := 0
	if c.Command != "" {
		modes++
	}
	if c.HTTPRequest != nil {
		modes++
	}
	if c.Custom != nil {
		modes++
	}
	switch modes {
	case 0:
		return fmt.Errorf("check specifies no validation method")
	case 1:
		return nil
	default:
		return fmt.Errorf("check specifies %d validation methods, want exactly one", modes)
	}
}

// HTTPRequest describes an HTTP check. All response statuses are treated as
// valid responses; the check compares the observed status (and optionally the
// body) against expectations.
type HTTPRequest struct {
	Method         string `json:"method" yaml:"method"`
	URL            string `json:"url" yaml:"url"`
	ExpectedStatus int    `json:"expectedStatus" yaml:"expectedStatus"`

	// ExpectedBody, when set, must match the response body. Bodies that parse
	// as JSON are compared structurally; anything else is compared as text.
	ExpectedBody string `json:"expectedBody,omitempty" yaml:"expectedBody,omitempty"`
}

// CheckResult is the outcome of executing one check once
type CheckResult struct {
	Success bool
	Message string
}

// ValidationResult is the aggregate outcome of validating one exercise step
type ValidationResult struct {
	Success     bool     `json:"success"`
	Message     string   `json:"message"`
	Details     []string `json:"details"`
	Suggestions []string `json:"suggestions"`
}

// Image describes a container image known to the runtime
type Image struct {
	ID      string
	Tags    []string
	Size    int64
	Created time.Time
}

// BuildResult is the outcome of an image build
type BuildResult struct {
	Success bool
	ImageID string
	Output  []string
}
