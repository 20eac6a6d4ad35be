package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kubelab/kubelab/pkg/types"
)

// suggestionInput is what a rule sees: the criteria type plus the failure
// messages joined into one searchable text (lowercased for matching, raw for
// extraction).
type suggestionInput struct {
	criteriaType types.CriteriaType
	lower        string
	raw          string
}

// suggestionRule pairs a failure-signature predicate with a builder for the
// remediation block. Rules are evaluated in priority order and the first
// match wins; the table ends with a catch-all so synthesis is total.
type suggestionRule struct {
	name    string
	matches func(in suggestionInput) bool
	build   func(in suggestionInput) []string
}

func matchAny(substrings ...string) func(in suggestionInput) bool {
	return func(in suggestionInput) bool {
		for _, s := range substrings {
			if strings.Contains(in.lower, s) {
				return true
			}
		}
		return false
	}
}

var suggestionRules = []suggestionRule{
	{
		name:    "not-found",
		matches: matchAny("not found", "notfound", "no such"),
		build:   buildNotFound,
	},
	{
		name:    "pending",
		matches: matchAny("pending"),
		build: func(in suggestionInput) []string {
			return []string{
				"A pod is stuck in Pending: the scheduler has accepted it but cannot place it on a node.",
				"Likely causes:",
				"  - Not enough CPU or memory free on any node",
				"  - A PersistentVolumeClaim the pod needs is not bound yet",
				"  - A nodeSelector, taint, or affinity rule no node satisfies",
				"Inspect the scheduling events: kubectl describe pod <pod-name> -n <namespace>",
				"Check recent events: kubectl get events -n <namespace> --sort-by=.lastTimestamp",
				"Verify node capacity: kubectl top nodes",
			}
		},
	},
	{
		name:    "image-pull",
		matches: matchAny("imagepullbackoff", "errimagepull", "image pull", "pull access denied", "manifest unknown", "manifest for"),
		build: func(in suggestionInput) []string {
			return []string{
				"Kubernetes cannot pull a container image.",
				"Likely causes:",
				"  - The image name or tag has a typo",
				"  - The image only exists locally and was never pushed to a registry the cluster can reach",
				"  - The registry requires credentials the cluster does not have",
				"Check the exact image reference: kubectl describe pod <pod-name> -n <namespace> | grep Image",
				"If the image is local, load it into your cluster (minikube image load <image> or kind load docker-image <image>).",
				"Verify the image exists: docker images | grep <image-name>",
			}
		},
	},
	{
		name:    "crash-loop",
		matches: matchAny("crashloopbackoff", "crash loop", "back-off restarting"),
		build: func(in suggestionInput) []string {
			return []string{
				"A container starts and immediately exits, so Kubernetes keeps restarting it.",
				"Likely causes:",
				"  - The application crashes on startup (missing config, bad env var, unreachable dependency)",
				"  - The container command or args are wrong",
				"  - A liveness probe kills the container before it becomes ready",
				"Read the crash output: kubectl logs <pod-name> -n <namespace> --previous",
				"Check the container spec: kubectl describe pod <pod-name> -n <namespace>",
				"Verify after fixing: kubectl get pods -n <namespace> -w",
			}
		},
	},
	{
		name:    "permission-denied",
		matches: matchAny("permission denied", "forbidden", "unauthorized", "access denied"),
		build: func(in suggestionInput) []string {
			return []string{
				"The request was rejected for lack of permissions.",
				"Likely causes:",
				"  - Your kubeconfig context points at a user without access to this namespace",
				"  - A ServiceAccount is missing a Role/RoleBinding",
				"Check who you are: kubectl auth whoami",
				"Check what you can do: kubectl auth can-i --list -n <namespace>",
				"Switch context if needed: kubectl config use-context <context>",
			}
		},
	},
	{
		name:    "connection",
		matches: matchAny("connection refused", "connection reset", "timed out", "timeout", "unreachable", "no such host"),
		build: func(in suggestionInput) []string {
			block := []string{
				"A network connection failed or timed out.",
				"Likely causes:",
				"  - The target service or pod is not running yet",
				"  - A Service selector does not match the pod labels, so it has no endpoints",
				"  - The port number differs between the Service and the container",
			}
			if in.criteriaType == types.CriteriaTypeContainer {
				block = append(block,
					"Make sure the Docker daemon is running: docker info",
				)
			}
			block = append(block,
				"Check the service endpoints: kubectl get endpoints -n <namespace>",
				"Check the pod is Running: kubectl get pods -n <namespace>",
				"Retry once the target is up; transient network errors are retried automatically.",
			)
			return block
		},
	},
	{
		name:    "generic",
		matches: func(in suggestionInput) bool { return true },
		build: func(in suggestionInput) []string {
			return []string{
				"The check failed without a recognized error signature.",
				"Review the error details above for the exact mismatch.",
				"Confirm the previous exercise steps completed successfully.",
				"Re-run the validation after making changes.",
			}
		},
	},
}

// resourceRefPattern extracts "<kind> <name> [-n <namespace>]" from a
// kubectl-style command embedded in a failure message
var resourceRefPattern = regexp.MustCompile(
	`kubectl\s+(?:get|describe|rollout\s+status)\s+([a-zA-Z]+)\s+([a-zA-Z0-9][a-zA-Z0-9.-]*)(?:\s+(?:-n|--namespace)[=\s]+([a-zA-Z0-9-]+))?`)

// buildNotFound tailors the remediation to the exact missing resource when
// the failing command names one, and falls back to generic guidance when it
// does not.
func buildNotFound(in suggestionInput) []string {
	block := []string{
		"A resource the exercise expects does not exist yet.",
	}

	if in.criteriaType == types.CriteriaTypeCluster {
		if kind, name, namespace, ok := extractResourceRef(in.raw); ok {
			block = append(block,
				fmt.Sprintf("The check looked for %s %q in namespace %q.", kind, name, namespace),
				"Create it:",
				"  "+creationCommand(kind, name, namespace),
				fmt.Sprintf("Then verify: kubectl get %s %s -n %s", kind, name, namespace),
			)
			return block
		}
		block = append(block,
			"Create the resource described in the exercise instructions (kubectl apply -f <manifest>.yaml).",
			"List what exists so far: kubectl get all -n <namespace>",
			"Double-check names and namespaces for typos.",
		)
		return block
	}

	if in.criteriaType == types.CriteriaTypeContainer {
		block = append(block,
			"Build or pull the expected image first: docker build -t <tag> . or docker pull <image>",
			"List local images: docker images",
		)
		return block
	}

	block = append(block,
		"Complete the earlier steps that create this resource, then re-run the validation.",
	)
	return block
}

// extractResourceRef pulls (kind, name, namespace) out of a kubectl command
// found in the failure text. Namespace defaults to "default" when absent.
func extractResourceRef(text string) (kind, name, namespace string, ok bool) {
	m := resourceRefPattern.FindStringSubmatch(text)
	if m == nil {
		return "", "", "", false
	}
	kind = strings.ToLower(m[1])
	name = m[2]
	namespace = m[3]
	if namespace == "" {
		namespace = "default"
	}
	return kind, name, namespace, true
}

// creationCommand returns the kubectl invocation that creates the named
// resource, specialized per kind
func creationCommand(kind, name, namespace string) string {
	switch kind {
	case "namespace", "namespaces", "ns":
		return fmt.Sprintf("kubectl create namespace %s", name)
	case "deployment", "deployments", "deploy":
		return fmt.Sprintf("kubectl create deployment %s --image=<image> -n %s", name, namespace)
	case "configmap", "configmaps", "cm":
		return fmt.Sprintf("kubectl create configmap %s --from-literal=<key>=<value> -n %s", name, namespace)
	case "secret", "secrets":
		return fmt.Sprintf("kubectl create secret generic %s --from-literal=<key>=<value> -n %s", name, namespace)
	case "service", "services", "svc":
		return fmt.Sprintf("kubectl expose deployment <deployment> --name=%s --port=<port> -n %s", name, namespace)
	default:
		return fmt.Sprintf("kubectl apply -f <manifest>.yaml -n %s", namespace)
	}
}

// Synthesize pattern-matches the failure messages against known error
// signatures and produces ordered remediation text. It is pure and total:
// deterministic for a given input and never empty, falling back to generic
// guidance when nothing matches.
func Synthesize(criteriaType types.CriteriaType, failedMessages []string) []string {
	raw := strings.Join(failedMessages, "\n")
	in := suggestionInput{
		criteriaType: criteriaType,
		lower:        strings.ToLower(raw),
		raw:          raw,
	}

	for _, rule := range suggestionRules {
		if rule.matches(in) {
			return rule.build(in)
		}
	}
	// Unreachable: the last rule matches everything
	return []string{"Review the error details and retry."}
}
