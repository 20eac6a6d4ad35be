package validate

import (
	"context"
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"

	"github.com/kubelab/kubelab/pkg/types"
)

// Assertion helpers: thin boolean compositions over the gateways used by the
// exercise UI for targeted resource checks. They deliberately return plain
// booleans; any lookup error counts as "assertion not satisfied" because the
// learner-facing answer to "is my deployment running?" is no either way.

// DeploymentPodsRunning reports whether the named deployment exists, has at
// least one desired replica, and every pod matching its selector is Running.
func (e *Engine) DeploymentPodsRunning(ctx context.Context, name, namespace string) bool {
	obj, err := e.cluster.GetResource(ctx, "deployment", name, namespace)
	if err != nil || obj == nil {
		return false
	}
	deploy, ok := obj.(*appsv1.Deployment)
	if !ok {
		return false
	}

	desired := int32(1)
	if deploy.Spec.Replicas != nil {
		desired = *deploy.Spec.Replicas
	}
	if desired == 0 {
		return false
	}

	selector := map[string]string{}
	if deploy.Spec.Selector != nil {
		selector = deploy.Spec.Selector.MatchLabels
	}

	objs, err := e.cluster.ListResources(ctx, "pod", namespace)
	if err != nil {
		return false
	}

	running := int32(0)
	for _, po := range objs {
		pod, ok := po.(*corev1.Pod)
		if !ok || !labelsMatch(pod.Labels, selector) {
			continue
		}
		if pod.Status.Phase != corev1.PodRunning {
			return false
		}
		running++
	}
	return running >= desired
}

// ConfigMapHasKeys reports whether the named configmap exists and contains
// every expected key
func (e *Engine) ConfigMapHasKeys(ctx context.Context, name, namespace string, keys ...string) bool {
	obj, err := e.cluster.GetResource(ctx, "configmap", name, namespace)
	if err != nil || obj == nil {
		return false
	}
	cm, ok := obj.(*corev1.ConfigMap)
	if !ok {
		return false
	}
	for _, key := range keys {
		if _, present := cm.Data[key]; !present {
			return false
		}
	}
	return true
}

// SecretValuesValid reports whether the named secret exists, carries data,
// and every value is non-empty. The API transports secret values as base64;
// the client has already decoded them by the time we see them, so an empty
// value is the footprint of a malformed entry.
func (e *Engine) SecretValuesValid(ctx context.Context, name, namespace string) bool {
	obj, err := e.cluster.GetResource(ctx, "secret", name, namespace)
	if err != nil || obj == nil {
		return false
	}
	secret, ok := obj.(*corev1.Secret)
	if !ok || len(secret.Data) == 0 {
		return false
	}
	for _, value := range secret.Data {
		if len(value) == 0 {
			return false
		}
	}
	return true
}

// PVCBound reports whether the named PersistentVolumeClaim exists and is
// Bound
func (e *Engine) PVCBound(ctx context.Context, name, namespace string) bool {
	obj, err := e.cluster.GetResource(ctx, "pvc", name, namespace)
	if err != nil || obj == nil {
		return false
	}
	pvc, ok := obj.(*corev1.PersistentVolumeClaim)
	return ok && pvc.Status.Phase == corev1.ClaimBound
}

// NamespaceExists reports whether the named namespace exists
func (e *Engine) NamespaceExists(ctx context.Context, name string) bool {
	obj, err := e.cluster.GetResource(ctx, "namespace", name, "")
	return err == nil && obj != nil
}

// HPAExists reports whether the named HorizontalPodAutoscaler exists
func (e *Engine) HPAExists(ctx context.Context, name, namespace string) bool {
	obj, err := e.cluster.GetResource(ctx, "hpa", name, namespace)
	return err == nil && obj != nil
}

// ImageHasTags reports whether the image exists in the local daemon and
// carries every expected tag
func (e *Engine) ImageHasTags(ctx context.Context, nameOrID string, tags ...string) bool {
	img, err := e.container.GetImage(ctx, nameOrID)
	if err != nil || img == nil {
		return false
	}
	have := make(map[string]bool, len(img.Tags))
	for _, tag := range img.Tags {
		have[tag] = true
	}
	for _, tag := range tags {
		if !have[tag] {
			return false
		}
	}
	return true
}

// EndpointMatches reports whether an HTTP endpoint returns the expected
// status and, when expectedBody is non-empty, a matching body
func (e *Engine) EndpointMatches(ctx context.Context, method, url string, expectedStatus int, expectedBody string) bool {
	res, err := e.executor.Execute(ctx, types.ValidationCheck{
		HTTPRequest: &types.HTTPRequest{
			Method:         method,
			URL:            url,
			ExpectedStatus: expectedStatus,
			ExpectedBody:   expectedBody,
		},
	})
	return err == nil && res.Success
}

// ServiceReachable reports whether a URL (typically a service DNS name) is
// reachable over HTTP from inside the named pod
func (e *Engine) ServiceReachable(ctx context.Context, podName, namespace, url string) bool {
	command := []string{"sh", "-c",
		fmt.Sprintf("wget -qO- -T 5 %q 2>/dev/null || curl -sf -m 5 %q", url, url)}
	_, err := e.cluster.ExecCommand(ctx, podName, namespace, command)
	return err == nil
}

// PodMountsSource reports whether the named pod consumes the named configmap
// or secret (as a volume or via envFrom) and, when envVars is non-empty,
// exposes every listed environment variable on some container
func (e *Engine) PodMountsSource(ctx context.Context, podName, namespace, sourceName string, envVars ...string) bool {
	obj, err := e.cluster.GetResource(ctx, "pod", podName, namespace)
	if err != nil || obj == nil {
		return false
	}
	pod, ok := obj.(*corev1.Pod)
	if !ok {
		return false
	}

	if !podReferencesSource(pod, sourceName) {
		return false
	}

	for _, want := range envVars {
		if !podHasEnvVar(pod, want) {
			return false
		}
	}
	return true
}

// ResourceRequirementsMatch reports whether the first container of the named
// deployment declares the expected requests and limits. Empty expectations
// are skipped.
func (e *Engine) ResourceRequirementsMatch(ctx context.Context, name, namespace, cpuRequest, memoryRequest, cpuLimit, memoryLimit string) bool {
	obj, err := e.cluster.GetResource(ctx, "deployment", name, namespace)
	if err != nil || obj == nil {
		return false
	}
	deploy, ok := obj.(*appsv1.Deployment)
	if !ok || len(deploy.Spec.Template.Spec.Containers) == 0 {
		return false
	}
	resources := deploy.Spec.Template.Spec.Containers[0].Resources

	return quantityMatches(resources.Requests, corev1.ResourceCPU, cpuRequest) &&
		quantityMatches(resources.Requests, corev1.ResourceMemory, memoryRequest) &&
		quantityMatches(resources.Limits, corev1.ResourceCPU, cpuLimit) &&
		quantityMatches(resources.Limits, corev1.ResourceMemory, memoryLimit)
}

func labelsMatch(labels, selector map[string]string) bool {
	if len(selector) == 0 {
		return false
	}
	for key, want := range selector {
		if labels[key] != want {
			return false
		}
	}
	return true
}

func podReferencesSource(pod *corev1.Pod, sourceName string) bool {
	for _, volume := range pod.Spec.Volumes {
		if volume.ConfigMap != nil && volume.ConfigMap.Name == sourceName {
			return true
		}
		if volume.Secret != nil && volume.Secret.SecretName == sourceName {
			return true
		}
	}
	for _, container := range pod.Spec.Containers {
		for _, envFrom := range container.EnvFrom {
			if envFrom.ConfigMapRef != nil && envFrom.ConfigMapRef.Name == sourceName {
				return true
			}
			if envFrom.SecretRef != nil && envFrom.SecretRef.Name == sourceName {
				return true
			}
		}
		for _, env := range container.Env {
			if env.ValueFrom == nil {
				continue
			}
			if env.ValueFrom.ConfigMapKeyRef != nil && env.ValueFrom.ConfigMapKeyRef.Name == sourceName {
				return true
			}
			if env.ValueFrom.SecretKeyRef != nil && env.ValueFrom.SecretKeyRef.Name == sourceName {
				return true
			}
		}
	}
	return false
}

func podHasEnvVar(pod *corev1.Pod, name string) bool {
	for _, container := range pod.Spec.Containers {
		for _, env := range container.Env {
			if env.Name == name {
				return true
			}
		}
		// envFrom imports the source's keys wholesale; we cannot enumerate
		// them from the pod spec alone, so a wholesale import satisfies any
		// expected name.
		if len(container.EnvFrom) > 0 {
			return true
		}
	}
	return false
}

func quantityMatches(list corev1.ResourceList, resourceName corev1.ResourceName, expected string) bool {
	if expected == "" {
		return true
	}
	want, err := resource.ParseQuantity(expected)
	if err != nil {
		return false
	}
	have, present := list[resourceName]
	return present && have.Cmp(want) == 0
}
