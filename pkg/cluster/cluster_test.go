package cluster

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"
)

func TestNormalizeKind(t *testing.T) {
	cases := map[string]Kind{
		"pod":        KindPod,
		"Pods":       KindPod,
		"po":         KindPod,
		"pvc":        KindPersistentVolumeClaim,
		"hpa":        KindHorizontalPodAutoscaler,
		"deploy":     KindDeployment,
		"svc":        KindService,
		"cm":         KindConfigMap,
		" namespace": KindNamespace,
		"ing":        KindIngress,
		"sts":        KindStatefulSet,
		"ds":         KindDaemonSet,
		"job":        KindJob,
		"secret":     KindSecret,
	}
	for input, want := range cases {
		kind, ok := NormalizeKind(input)
		assert.True(t, ok, "expected %q to be recognized", input)
		assert.Equal(t, want, kind)
	}

	_, ok := NormalizeKind("replicaset")
	assert.False(t, ok, "replicaset is not a recognized kind")
}

func TestGetResource_Found(t *testing.T) {
	clientset := fake.NewSimpleClientset(
		&corev1.Pod{ObjectMeta: metav1.ObjectMeta{Name: "web", Namespace: "training"}},
		&appsv1.Deployment{ObjectMeta: metav1.ObjectMeta{Name: "api", Namespace: "training"}},
	)
	gw := New(clientset)

	obj, err := gw.GetResource(context.Background(), "pod", "web", "training")
	require.NoError(t, err)
	require.NotNil(t, obj)
	pod, ok := obj.(*corev1.Pod)
	require.True(t, ok)
	assert.Equal(t, "web", pod.Name)

	obj, err = gw.GetResource(context.Background(), "deploy", "api", "training")
	require.NoError(t, err)
	require.NotNil(t, obj)
}

func TestGetResource_NotFoundReturnsNilNil(t *testing.T) {
	gw := New(fake.NewSimpleClientset())

	obj, err := gw.GetResource(context.Background(), "pod", "missing", "training")
	require.NoError(t, err)
	assert.Nil(t, obj)
}

func TestGetResource_UnrecognizedKind(t *testing.T) {
	gw := New(fake.NewSimpleClientset())

	_, err := gw.GetResource(context.Background(), "widget", "x", "training")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized resource type")
}

func TestGetResource_DefaultsNamespace(t *testing.T) {
	clientset := fake.NewSimpleClientset(
		&corev1.ConfigMap{ObjectMeta: metav1.ObjectMeta{Name: "app-config", Namespace: "default"}},
	)
	gw := New(clientset)

	obj, err := gw.GetResource(context.Background(), "configmap", "app-config", "")
	require.NoError(t, err)
	require.NotNil(t, obj)
}

func TestListResources(t *testing.T) {
	clientset := fake.NewSimpleClientset(
		&corev1.Pod{ObjectMeta: metav1.ObjectMeta{Name: "a", Namespace: "training"}},
		&corev1.Pod{ObjectMeta: metav1.ObjectMeta{Name: "b", Namespace: "training"}},
		&corev1.Pod{ObjectMeta: metav1.ObjectMeta{Name: "other", Namespace: "elsewhere"}},
	)
	gw := New(clientset)

	objs, err := gw.ListResources(context.Background(), "pods", "training")
	require.NoError(t, err)
	assert.Len(t, objs, 2)
}

func TestListResources_ClusterScoped(t *testing.T) {
	clientset := fake.NewSimpleClientset(
		&corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: "training"}},
		&corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: "default"}},
	)
	gw := New(clientset)

	objs, err := gw.ListResources(context.Background(), "ns", "")
	require.NoError(t, err)
	assert.Len(t, objs, 2)
}

func TestIsAvailable(t *testing.T) {
	gw := New(fake.NewSimpleClientset())
	assert.True(t, gw.IsAvailable(context.Background()))
}

func TestIsAvailable_ProbeFailure(t *testing.T) {
	clientset := fake.NewSimpleClientset()
	clientset.PrependReactor("list", "namespaces", func(action k8stesting.Action) (bool, runtime.Object, error) {
		return true, nil, assert.AnError
	})
	gw := New(clientset)

	assert.False(t, gw.IsAvailable(context.Background()))
}

func TestExecCommand_RequiresKubeconfig(t *testing.T) {
	gw := New(fake.NewSimpleClientset())

	_, err := gw.ExecCommand(context.Background(), "web", "training", []string{"cat", "/etc/hostname"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kubeconfig")
}

func TestUnavailableError_Message(t *testing.T) {
	err := &UnavailableError{Reason: "connection refused"}
	assert.Contains(t, err.Error(), "kubernetes cluster is unavailable")
	assert.Contains(t, err.Error(), "connection refused")

	bare := &UnavailableError{}
	assert.Equal(t, "kubernetes cluster is unavailable", bare.Error())
}
