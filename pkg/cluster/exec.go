package cluster

import (
	"bytes"
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/tools/remotecommand"
)

// ExecCommand runs a command inside a pod's first container and returns the
// combined stdout and stderr. It requires a gateway built from a kubeconfig;
// gateways constructed from a bare clientset cannot exec.
func (g *Gateway) ExecCommand(ctx context.Context, podName, namespace string, command []string) (string, error) {
	if g.restConfig == nil {
		return "", fmt.Errorf("pod exec requires a kubeconfig-backed gateway")
	}
	if len(command) == 0 {
		return "", fmt.Errorf("no command specified")
	}

	req := g.clientset.CoreV1().RESTClient().
		Post().
		Resource("pods").
		Name(podName).
		Namespace(namespace).
		SubResource("exec").
		VersionedParams(&corev1.PodExecOptions{
			Command: command,
			Stdout:  true,
			Stderr:  true,
		}, scheme.ParameterCodec)

	executor, err := remotecommand.NewSPDYExecutor(g.restConfig, "POST", req.URL())
	if err != nil {
		return "", fmt.Errorf("failed to create exec session: %w", err)
	}

	var stdout, stderr bytes.Buffer
	err = executor.StreamWithContext(ctx, remotecommand.StreamOptions{
		Stdout: &stdout,
		Stderr: &stderr,
	})
	output := stdout.String() + stderr.String()
	if err != nil {
		return output, fmt.Errorf("failed to exec in pod %s/%s: %w", namespace, podName, err)
	}
	return output, nil
}
