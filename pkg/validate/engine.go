package validate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	k8sruntime "k8s.io/apimachinery/pkg/runtime"

	"github.com/kubelab/kubelab/pkg/cluster"
	"github.com/kubelab/kubelab/pkg/log"
	"github.com/kubelab/kubelab/pkg/metrics"
	"github.com/kubelab/kubelab/pkg/retry"
	containerruntime "github.com/kubelab/kubelab/pkg/runtime"
	"github.com/kubelab/kubelab/pkg/types"
)

// ClusterGateway is the engine's view of the Kubernetes cluster
type ClusterGateway interface {
	IsAvailable(ctx context.Context) bool
	GetResource(ctx context.Context, resourceType, name, namespace string) (k8sruntime.Object, error)
	ListResources(ctx context.Context, resourceType, namespace string) ([]k8sruntime.Object, error)
	ExecCommand(ctx context.Context, podName, namespace string, command []string) (string, error)
	CurrentContext() string
}

// ContainerGateway is the engine's view of the container runtime
type ContainerGateway interface {
	IsAvailable(ctx context.Context) bool
	BuildImage(ctx context.Context, contextDir, dockerfilePath, tag string) (*types.BuildResult, error)
	GetImage(ctx context.Context, nameOrID string) (*types.Image, error)
	ListImages(ctx context.Context, reference string) ([]types.Image, error)
}

// checkExecutor runs one check; the engine wraps each execution in the retry
// policy
type checkExecutor interface {
	Execute(ctx context.Context, check types.ValidationCheck) (types.CheckResult, error)
}

// availability is the cached reachability state of one subsystem
type availability int

const (
	availUnknown availability = iota
	availUp
	availDown
)

// Engine validates exercise steps against live infrastructure. It gates on
// availability, executes each check sequentially through the retry policy,
// aggregates per-check results, and synthesizes remediation suggestions for
// failures. ValidateStep never returns an error: every failure mode resolves
// to a ValidationResult.
type Engine struct {
	cluster   ClusterGateway
	container ContainerGateway
	executor  checkExecutor
	retryOpts retry.Options

	mu             sync.Mutex
	clusterAvail   availability
	containerAvail availability
}

// NewEngine creates an Engine over the given gateways with default retry
// options and a default executor
func NewEngine(clusterGW ClusterGateway, containerGW ContainerGateway) *Engine {
	return &Engine{
		cluster:   clusterGW,
		container: containerGW,
		executor:  NewExecutor(),
		retryOpts: retry.DefaultOptions(),
	}
}

// WithRetryOptions overrides the retry policy for check execution
func (e *Engine) WithRetryOptions(opts retry.Options) *Engine {
	e.retryOpts = opts
	return e
}

// WithExecutor overrides the check executor
func (e *Engine) WithExecutor(executor checkExecutor) *Engine {
	e.executor = executor
	return e
}

// Cluster returns the engine's cluster gateway
func (e *Engine) Cluster() ClusterGateway { return e.cluster }

// Container returns the engine's container gateway
func (e *Engine) Container() ContainerGateway { return e.container }

// ValidateStep validates one exercise step against its criteria. The result
// always carries a human-readable message, one detail entry per check, and a
// non-empty suggestion list on failure.
func (e *Engine) ValidateStep(ctx context.Context, stepID string, criteria types.ValidationCriteria) (result types.ValidationResult) {
	runID := uuid.NewString()
	logger := log.WithComponent("validate").With().
		Str("step_id", stepID).
		Str("run_id", runID).
		Logger()

	start := time.Now()
	defer func() {
		// The engine contract guarantees it never panics through to the
		// caller; anything unexpected becomes a failed result.
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("validation panicked")
			result = types.ValidationResult{
				Success:     false,
				Message:     fmt.Sprintf("Validation error: %v", r),
				Suggestions: Synthesize(criteria.Type, nil),
			}
		}
		outcome := "failed"
		if result.Success {
			outcome = "passed"
		}
		metrics.ValidationRunsTotal.WithLabelValues(string(criteria.Type), outcome).Inc()
		metrics.ValidationDuration.Observe(time.Since(start).Seconds())
		logger.Info().
			Bool("success", result.Success).
			Int("checks", len(criteria.Checks)).
			Dur("elapsed", time.Since(start)).
			Msg("validation finished")
	}()

	// Gating: do not run a single check against infrastructure we already
	// know is unreachable.
	if err := e.gate(ctx, criteria.Type); err != nil {
		var clusterErr *cluster.UnavailableError
		var runtimeErr *containerruntime.UnavailableError
		switch {
		case errors.As(err, &clusterErr):
			logger.Warn().Msg("cluster unavailable, skipping checks")
			return unavailableResult(
				"Kubernetes cluster is unavailable",
				"Start your cluster: minikube start, kind create cluster, or enable Kubernetes in Docker Desktop",
				"Verify connectivity: kubectl cluster-info",
				"Check the active context: kubectl config current-context",
			)
		case errors.As(err, &runtimeErr):
			logger.Warn().Msg("container runtime unavailable, skipping checks")
			return unavailableResult(
				"Docker daemon is unavailable",
				"Start Docker Desktop, or on Linux: sudo systemctl start docker",
				"Verify the daemon responds: docker info",
				"Check DOCKER_HOST if you use a remote daemon",
			)
		default:
			logger.Error().Err(err).Msg("gating failed unexpectedly")
			return types.ValidationResult{
				Success:     false,
				Message:     fmt.Sprintf("Validation error: %v", err),
				Suggestions: Synthesize(criteria.Type, []string{err.Error()}),
			}
		}
	}

	// Executing: checks run sequentially in declared order; later checks may
	// depend on effects of earlier ones.
	details := make([]string, 0, len(criteria.Checks))
	var failedMessages []string

	retryOpts := e.retryOpts
	retryOpts.Retryable = IsTransient

	for i, check := range criteria.Checks {
		res, err := retry.Do(ctx, func(ctx context.Context) (types.CheckResult, error) {
			return e.executor.Execute(ctx, check)
		}, retryOpts)

		switch {
		case err != nil:
			// The executor itself failed even after retries; distinct from a
			// check that completed and reported failure.
			detail := fmt.Sprintf("Check failed after retries: %v", err)
			details = append(details, detail)
			failedMessages = append(failedMessages, err.Error())
			metrics.ChecksTotal.WithLabelValues(string(check.Mode()), "error").Inc()
			logger.Debug().Int("check", i).Err(err).Msg("check errored")
		case res.Success:
			details = append(details, res.Message)
			metrics.ChecksTotal.WithLabelValues(string(check.Mode()), "passed").Inc()
		default:
			details = append(details, "FAILED: "+res.Message)
			failedMessages = append(failedMessages, res.Message)
			metrics.ChecksTotal.WithLabelValues(string(check.Mode()), "failed").Inc()
			logger.Debug().Int("check", i).Str("message", res.Message).Msg("check failed")
		}
	}

	// Aggregating
	if len(failedMessages) == 0 {
		return types.ValidationResult{
			Success: true,
			Message: fmt.Sprintf("Step %s validation passed", stepID),
			Details: details,
		}
	}

	return types.ValidationResult{
		Success:     false,
		Message:     fmt.Sprintf("Step %s validation failed: %d check(s) failed", stepID, len(failedMessages)),
		Details:     details,
		Suggestions: Synthesize(criteria.Type, failedMessages),
	}
}

// gate probes the subsystem the criteria targets, reusing the cached result
// from earlier runs. HTTP and custom criteria need no infrastructure.
func (e *Engine) gate(ctx context.Context, criteriaType types.CriteriaType) error {
	switch criteriaType {
	case types.CriteriaTypeCluster:
		return e.ensureClusterAvailable(ctx)
	case types.CriteriaTypeContainer:
		return e.ensureContainerAvailable(ctx)
	default:
		return nil
	}
}

func (e *Engine) ensureClusterAvailable(ctx context.Context) error {
	e.mu.Lock()
	state := e.clusterAvail
	e.mu.Unlock()

	if state == availUnknown {
		up := e.cluster != nil && e.cluster.IsAvailable(ctx)
		state = availDown
		if up {
			state = availUp
		}
		e.mu.Lock()
		e.clusterAvail = state
		e.mu.Unlock()
		metrics.SetInfraAvailable("cluster", up)
	}

	if state == availDown {
		return &cluster.UnavailableError{}
	}
	return nil
}

func (e *Engine) ensureContainerAvailable(ctx context.Context) error {
	e.mu.Lock()
	state := e.containerAvail
	e.mu.Unlock()

	if state == availUnknown {
		up := e.container != nil && e.container.IsAvailable(ctx)
		state = availDown
		if up {
			state = availUp
		}
		e.mu.Lock()
		e.containerAvail = state
		e.mu.Unlock()
		metrics.SetInfraAvailable("container", up)
	}

	if state == availDown {
		return &containerruntime.UnavailableError{}
	}
	return nil
}

// ResetAvailabilityCache forgets cached probe results so the next validation
// re-probes. Call it after the learner fixes their environment; a cached
// "unavailable" otherwise persists for the engine's lifetime.
func (e *Engine) ResetAvailabilityCache() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clusterAvail = availUnknown
	e.containerAvail = availUnknown
}

func unavailableResult(message string, suggestions ...string) types.ValidationResult {
	return types.ValidationResult{
		Success:     false,
		Message:     message,
		Suggestions: suggestions,
	}
}
