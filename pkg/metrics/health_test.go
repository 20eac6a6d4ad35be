package metrics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func resetHealthChecker() {
	healthChecker = &HealthChecker{
		components: make(map[string]ComponentHealth),
		startTime:  time.Now(),
	}
}

func TestRegisterComponent(t *testing.T) {
	resetHealthChecker()

	RegisterComponent("cluster", true, "reachable")

	if len(healthChecker.components) != 1 {
		t.Errorf("expected 1 component, got %d", len(healthChecker.components))
	}

	comp := healthChecker.components["cluster"]
	if !comp.Healthy {
		t.Error("component should be healthy")
	}
	if comp.Message != "reachable" {
		t.Errorf("expected message 'reachable', got '%s'", comp.Message)
	}
}

func TestGetHealth_AllHealthy(t *testing.T) {
	resetHealthChecker()

	RegisterComponent("cluster", true, "reachable")
	RegisterComponent("container", true, "reachable")

	health := GetHealth()
	if health.Status != "healthy" {
		t.Errorf("expected healthy, got %s", health.Status)
	}
	if len(health.Components) != 2 {
		t.Errorf("expected 2 components, got %d", len(health.Components))
	}
}

func TestGetHealth_OneUnhealthy(t *testing.T) {
	resetHealthChecker()

	RegisterComponent("cluster", true, "reachable")
	RegisterComponent("container", false, "probe failed")

	health := GetHealth()
	if health.Status != "unhealthy" {
		t.Errorf("expected unhealthy, got %s", health.Status)
	}
	if health.Components["container"] != "unhealthy: probe failed" {
		t.Errorf("unexpected component status: %s", health.Components["container"])
	}
}

func TestHealthHandler_StatusCodes(t *testing.T) {
	resetHealthChecker()
	RegisterComponent("cluster", true, "reachable")

	rec := httptest.NewRecorder()
	HealthHandler()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var health HealthStatus
	if err := json.NewDecoder(rec.Body).Decode(&health); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}
	if health.Status != "healthy" {
		t.Errorf("expected healthy, got %s", health.Status)
	}

	UpdateComponent("cluster", false, "connection refused")
	rec = httptest.NewRecorder()
	HealthHandler()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
}

func TestSetInfraAvailable_UpdatesComponent(t *testing.T) {
	resetHealthChecker()

	SetInfraAvailable("cluster", false)
	health := GetHealth()
	if health.Status != "unhealthy" {
		t.Errorf("expected unhealthy after failed probe, got %s", health.Status)
	}

	SetInfraAvailable("cluster", true)
	health = GetHealth()
	if health.Status != "healthy" {
		t.Errorf("expected healthy after successful probe, got %s", health.Status)
	}
}
