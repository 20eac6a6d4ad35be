package cluster

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/kubelab/kubelab/pkg/log"
)

// UnavailableError indicates the Kubernetes API server could not be reached.
// The validation engine treats it as a gating failure, never as a check
// failure.
type UnavailableError struct {
	Reason string
}

func (e *UnavailableError) Error() string {
	if e.Reason == "" {
		return "kubernetes cluster is unavailable"
	}
	return fmt.Sprintf("kubernetes cluster is unavailable: %s", e.Reason)
}

// Gateway is a thin client over the Kubernetes API used by the validation
// engine. It exposes resource lookup, pod exec, and availability probing.
type Gateway struct {
	clientset   kubernetes.Interface
	restConfig  *rest.Config
	contextName string
}

// New creates a Gateway from an existing clientset. Pod exec is not
// supported without a rest.Config; use NewFromKubeconfig for full
// functionality. Intended for tests and dependency injection.
func New(clientset kubernetes.Interface) *Gateway {
	return &Gateway{clientset: clientset}
}

// NewFromKubeconfig creates a Gateway from a kubeconfig file. An empty path
// falls back to $KUBECONFIG and then ~/.kube/config; an empty contextName
// uses the file's current context.
func NewFromKubeconfig(kubeconfigPath, contextName string) (*Gateway, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if kubeconfigPath != "" {
		rules.ExplicitPath = kubeconfigPath
	}
	overrides := &clientcmd.ConfigOverrides{CurrentContext: contextName}
	loader := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides)

	rawConfig, err := loader.RawConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
	}
	resolved := contextName
	if resolved == "" {
		resolved = rawConfig.CurrentContext
	}

	restConfig, err := loader.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to build client config: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	return &Gateway{
		clientset:   clientset,
		restConfig:  restConfig,
		contextName: resolved,
	}, nil
}

// DefaultKubeconfigPath returns the conventional kubeconfig location
func DefaultKubeconfigPath() string {
	if env := os.Getenv("KUBECONFIG"); env != "" {
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".kube", "config")
}

// IsAvailable probes the API server with a cheap namespace list. It reports
// reachability only; callers cache the result across a validation run.
func (g *Gateway) IsAvailable(ctx context.Context) bool {
	_, err := g.clientset.CoreV1().Namespaces().List(ctx, metav1.ListOptions{Limit: 1})
	if err != nil {
		logger := log.WithComponent("cluster")
		logger.Debug().Err(err).Msg("availability probe failed")
		return false
	}
	return true
}

// CurrentContext returns the kubeconfig context this gateway was built from,
// or an empty string when constructed directly from a clientset.
func (g *Gateway) CurrentContext() string {
	return g.contextName
}
