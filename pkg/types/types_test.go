package types

import (
	"context"
	"testing"
)

func TestCheckMode_Priority(t *testing.T) {
	// Command wins over HTTP when both are set (malformed, but Mode is total)
	check := ValidationCheck{
		Command:     "kubectl get pods",
		HTTPRequest: &HTTPRequest{Method: "GET", URL: "http://localhost", ExpectedStatus: 200},
	}
	if check.Mode() != CheckModeCommand {
		t.Errorf("Expected command mode, got %s", check.Mode())
	}

	check = ValidationCheck{
		HTTPRequest: &HTTPRequest{Method: "GET", URL: "http://localhost", ExpectedStatus: 200},
	}
	if check.Mode() != CheckModeHTTP {
		t.Errorf("Expected http mode, got %s", check.Mode())
	}

	check = ValidationCheck{
		Custom: func(ctx context.Context) (bool, error) { return true, nil },
	}
	if check.Mode() != CheckModeCustom {
		t.Errorf("Expected custom mode, got %s", check.Mode())
	}

	check = ValidationCheck{}
	if check.Mode() != CheckModeNone {
		t.Errorf("Expected none mode, got %s", check.Mode())
	}
}

func TestCheckValidate_ExactlyOneMode(t *testing.T) {
	valid := []ValidationCheck{
		{Command: "echo ready", ExpectedOutput: "ready"},
		{HTTPRequest: &HTTPRequest{Method: "GET", URL: "http://localhost:8080", ExpectedStatus: 200}},
		{Custom: func(ctx context.Context) (bool, error) { return true, nil }},
	}
	for i, check := range valid {
		if err := check.Validate(); err != nil {
			t.Errorf("Check %d: expected valid, got error: %v", i, err)
		}
	}

	invalid := []ValidationCheck{
		{},
		{Command: "echo hi", HTTPRequest: &HTTPRequest{Method: "GET", URL: "http://x", ExpectedStatus: 200}},
		{
			Command: "echo hi",
			Custom:  func(ctx context.Context) (bool, error) { return true, nil },
		},
	}
	for i, check := range invalid {
		if err := check.Validate(); err == nil {
			t.Errorf("Check %d: expected validation error, got nil", i)
		}
	}
}

func TestCheckValidate_ExpectedOutputAloneIsNotAMode(t *testing.T) {
	check := ValidationCheck{ExpectedOutput: "ready"}
	if err := check.Validate(); err == nil {
		t.Error("Expected validation error for expectedOutput without command")
	}
}
