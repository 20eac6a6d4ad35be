package cluster

import (
	"context"
	"fmt"
	"strings"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

// Kind is a normalized resource kind recognized by the gateway
type Kind string

const (
	KindPod                     Kind = "pod"
	KindDeployment              Kind = "deployment"
	KindService                 Kind = "service"
	KindConfigMap               Kind = "configmap"
	KindSecret                  Kind = "secret"
	KindPersistentVolumeClaim   Kind = "persistentvolumeclaim"
	KindNamespace               Kind = "namespace"
	KindHorizontalPodAutoscaler Kind = "horizontalpodautoscaler"
	KindStatefulSet             Kind = "statefulset"
	KindDaemonSet               Kind = "daemonset"
	KindJob                     Kind = "job"
	KindIngress                 Kind = "ingress"
)

// kindAliases maps the kubectl-style names and short forms users write in
// exercise content to normalized kinds
var kindAliases = map[string]Kind{
	"pod": KindPod, "pods": KindPod, "po": KindPod,
	"deployment": KindDeployment, "deployments": KindDeployment, "deploy": KindDeployment,
	"service": KindService, "services": KindService, "svc": KindService,
	"configmap": KindConfigMap, "configmaps": KindConfigMap, "cm": KindConfigMap,
	"secret": KindSecret, "secrets": KindSecret,
	"persistentvolumeclaim": KindPersistentVolumeClaim, "persistentvolumeclaims": KindPersistentVolumeClaim, "pvc": KindPersistentVolumeClaim,
	"namespace": KindNamespace, "namespaces": KindNamespace, "ns": KindNamespace,
	"horizontalpodautoscaler": KindHorizontalPodAutoscaler, "horizontalpodautoscalers": KindHorizontalPodAutoscaler, "hpa": KindHorizontalPodAutoscaler,
	"statefulset": KindStatefulSet, "statefulsets": KindStatefulSet, "sts": KindStatefulSet,
	"daemonset": KindDaemonSet, "daemonsets": KindDaemonSet, "ds": KindDaemonSet,
	"job": KindJob, "jobs": KindJob,
	"ingress": KindIngress, "ingresses": KindIngress, "ing": KindIngress,
}

// NormalizeKind resolves a resource type string (including kubectl short
// forms) to a recognized kind
func NormalizeKind(resourceType string) (Kind, bool) {
	kind, ok := kindAliases[strings.ToLower(strings.TrimSpace(resourceType))]
	return kind, ok
}

// GetResource fetches one resource by kind, name, and namespace. A missing
// resource returns (nil, nil); only transport and API errors are returned as
// errors. Namespace is ignored for cluster-scoped kinds.
func (g *Gateway) GetResource(ctx context.Context, resourceType, name, namespace string) (runtime.Object, error) {
	kind, ok := NormalizeKind(resourceType)
	if !ok {
		return nil, fmt.Errorf("unrecognized resource type %q", resourceType)
	}
	if namespace == "" {
		namespace = metav1.NamespaceDefault
	}

	var obj runtime.Object
	var err error
	opts := metav1.GetOptions{}

	switch kind {
	case KindPod:
		obj, err = g.clientset.CoreV1().Pods(namespace).Get(ctx, name, opts)
	case KindDeployment:
		obj, err = g.clientset.AppsV1().Deployments(namespace).Get(ctx, name, opts)
	case KindService:
		obj, err = g.clientset.CoreV1().Services(namespace).Get(ctx, name, opts)
	case KindConfigMap:
		obj, err = g.clientset.CoreV1().ConfigMaps(namespace).Get(ctx, name, opts)
	case KindSecret:
		obj, err = g.clientset.CoreV1().Secrets(namespace).Get(ctx, name, opts)
	case KindPersistentVolumeClaim:
		obj, err = g.clientset.CoreV1().PersistentVolumeClaims(namespace).Get(ctx, name, opts)
	case KindNamespace:
		obj, err = g.clientset.CoreV1().Namespaces().Get(ctx, name, opts)
	case KindHorizontalPodAutoscaler:
		obj, err = g.clientset.AutoscalingV2().HorizontalPodAutoscalers(namespace).Get(ctx, name, opts)
	case KindStatefulSet:
		obj, err = g.clientset.AppsV1().StatefulSets(namespace).Get(ctx, name, opts)
	case KindDaemonSet:
		obj, err = g.clientset.AppsV1().DaemonSets(namespace).Get(ctx, name, opts)
	case KindJob:
		obj, err = g.clientset.BatchV1().Jobs(namespace).Get(ctx, name, opts)
	case KindIngress:
		obj, err = g.clientset.NetworkingV1().Ingresses(namespace).Get(ctx, name, opts)
	}

	if apierrors.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %s/%s: %w", kind, namespace, name, err)
	}
	return obj, nil
}

// ListResources lists resources of a kind. An empty namespace lists the
// default namespace for namespaced kinds; cluster-scoped kinds ignore it.
func (g *Gateway) ListResources(ctx context.Context, resourceType, namespace string) ([]runtime.Object, error) {
	kind, ok := NormalizeKind(resourceType)
	if !ok {
		return nil, fmt.Errorf("unrecognized resource type %q", resourceType)
	}
	if namespace == "" {
		namespace = metav1.NamespaceDefault
	}

	opts := metav1.ListOptions{}
	var out []runtime.Object

	switch kind {
	case KindPod:
		list, err := g.clientset.CoreV1().Pods(namespace).List(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list pods: %w", err)
		}
		for i := range list.Items {
			out = append(out, &list.Items[i])
		}
	case KindDeployment:
		list, err := g.clientset.AppsV1().Deployments(namespace).List(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list deployments: %w", err)
		}
		for i := range list.Items {
			out = append(out, &list.Items[i])
		}
	case KindService:
		list, err := g.clientset.CoreV1().Services(namespace).List(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list services: %w", err)
		}
		for i := range list.Items {
			out = append(out, &list.Items[i])
		}
	case KindConfigMap:
		list, err := g.clientset.CoreV1().ConfigMaps(namespace).List(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list configmaps: %w", err)
		}
		for i := range list.Items {
			out = append(out, &list.Items[i])
		}
	case KindSecret:
		list, err := g.clientset.CoreV1().Secrets(namespace).List(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list secrets: %w", err)
		}
		for i := range list.Items {
			out = append(out, &list.Items[i])
		}
	case KindPersistentVolumeClaim:
		list, err := g.clientset.CoreV1().PersistentVolumeClaims(namespace).List(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list persistentvolumeclaims: %w", err)
		}
		for i := range list.Items {
			out = append(out, &list.Items[i])
		}
	case KindNamespace:
		list, err := g.clientset.CoreV1().Namespaces().List(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list namespaces: %w", err)
		}
		for i := range list.Items {
			out = append(out, &list.Items[i])
		}
	case KindHorizontalPodAutoscaler:
		list, err := g.clientset.AutoscalingV2().HorizontalPodAutoscalers(namespace).List(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list horizontalpodautoscalers: %w", err)
		}
		for i := range list.Items {
			out = append(out, &list.Items[i])
		}
	case KindStatefulSet:
		list, err := g.clientset.AppsV1().StatefulSets(namespace).List(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list statefulsets: %w", err)
		}
		for i := range list.Items {
			out = append(out, &list.Items[i])
		}
	case KindDaemonSet:
		list, err := g.clientset.AppsV1().DaemonSets(namespace).List(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list daemonsets: %w", err)
		}
		for i := range list.Items {
			out = append(out, &list.Items[i])
		}
	case KindJob:
		list, err := g.clientset.BatchV1().Jobs(namespace).List(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list jobs: %w", err)
		}
		for i := range list.Items {
			out = append(out, &list.Items[i])
		}
	case KindIngress:
		list, err := g.clientset.NetworkingV1().Ingresses(namespace).List(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list ingresses: %w", err)
		}
		for i := range list.Items {
			out = append(out, &list.Items[i])
		}
	}

	return out, nil
}
