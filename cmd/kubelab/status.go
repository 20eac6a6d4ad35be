package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kubelab/kubelab/pkg/cluster"
	"github.com/kubelab/kubelab/pkg/runtime"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show availability of the cluster and the Docker daemon",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	kubeconfig, _ := cmd.Flags().GetString("kubeconfig")
	contextName, _ := cmd.Flags().GetString("context")

	clusterGW, err := cluster.NewFromKubeconfig(kubeconfig, contextName)
	if err != nil {
		fmt.Printf("✗ Kubernetes cluster: %v\n", err)
	} else if clusterGW.IsAvailable(ctx) {
		fmt.Printf("✓ Kubernetes cluster: reachable (context: %s)\n", clusterGW.CurrentContext())
	} else {
		fmt.Printf("✗ Kubernetes cluster: unreachable (context: %s)\n", clusterGW.CurrentContext())
	}

	containerGW, err := runtime.NewFromEnv()
	if err != nil {
		fmt.Printf("✗ Docker daemon: %v\n", err)
	} else if containerGW.IsAvailable(ctx) {
		fmt.Println("✓ Docker daemon: reachable")
	} else {
		fmt.Println("✗ Docker daemon: unreachable")
	}

	return nil
}
