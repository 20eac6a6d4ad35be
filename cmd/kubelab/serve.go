package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/kubelab/kubelab/pkg/log"
	"github.com/kubelab/kubelab/pkg/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve Prometheus metrics and component health over HTTP",
	Long: `Serve exposes /metrics and /health for the validation engine.
Intended for the desktop app's supervisor, which scrapes validation
counters and probes component health while exercises run.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("listen", "127.0.0.1:9090", "Listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("listen")

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/health", metrics.HealthHandler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger := log.WithComponent("serve")
	logger.Info().Str("addr", addr).Msg("serving metrics")
	fmt.Printf("Serving metrics on http://%s/metrics\n", addr)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("metrics server error: %w", err)
	}
	return nil
}
