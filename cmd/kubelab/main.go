package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kubelab/kubelab/pkg/cluster"
	"github.com/kubelab/kubelab/pkg/log"
	"github.com/kubelab/kubelab/pkg/metrics"
	"github.com/kubelab/kubelab/pkg/runtime"
	"github.com/kubelab/kubelab/pkg/validate"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "kubelab",
	Short: "Kubelab - validation engine for Kubernetes exercises",
	Long: `Kubelab validates learner progress through hands-on Kubernetes
exercises. It inspects the local cluster and the Docker daemon, runs the
validation checks defined for an exercise step, and reports pass/fail
results with actionable suggestions.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		levelFlag, _ := cmd.Flags().GetString("log-level")
		jsonFlag, _ := cmd.Flags().GetBool("log-json")
		log.Init(log.Config{
			Level:      log.Level(levelFlag),
			JSONOutput: jsonFlag,
		})
		metrics.SetVersion(Version)
	},
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"Kubelab version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().String("kubeconfig", "", "Path to kubeconfig (default: $KUBECONFIG or ~/.kube/config)")
	rootCmd.PersistentFlags().String("context", "", "Kubeconfig context to use (default: current-context)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Emit logs as JSON instead of console format")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(serveCmd)
}

// newEngine wires the gateways from the command's global flags. The Docker
// gateway honors DOCKER_HOST and friends via the SDK's environment loading.
func newEngine(cmd *cobra.Command) (*validate.Engine, error) {
	kubeconfig, _ := cmd.Flags().GetString("kubeconfig")
	contextName, _ := cmd.Flags().GetString("context")

	clusterGW, err := cluster.NewFromKubeconfig(kubeconfig, contextName)
	if err != nil {
		return nil, fmt.Errorf("failed to create cluster gateway: %w", err)
	}

	containerGW, err := runtime.NewFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create container gateway: %w", err)
	}

	return validate.NewEngine(clusterGW, containerGW), nil
}
