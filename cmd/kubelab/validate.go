package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kubelab/kubelab/pkg/criteria"
	"github.com/kubelab/kubelab/pkg/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run validation checks for an exercise step",
	Long: `Validate runs the checks defined in a criteria file against the
local cluster and Docker daemon.

Examples:
  # Validate a single step
  kubelab validate -f exercise.yaml --step step-1

  # Validate every step in the file
  kubelab validate -f exercise.yaml --all`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringP("file", "f", "", "Criteria file (required)")
	validateCmd.Flags().String("step", "", "Step ID to validate")
	validateCmd.Flags().Bool("all", false, "Validate every step in the file")
	_ = validateCmd.MarkFlagRequired("file")
}

func runValidate(cmd *cobra.Command, args []string) error {
	filename, _ := cmd.Flags().GetString("file")
	stepID, _ := cmd.Flags().GetString("step")
	all, _ := cmd.Flags().GetBool("all")

	if stepID == "" && !all {
		return fmt.Errorf("either --step or --all is required")
	}

	doc, err := criteria.Load(filename)
	if err != nil {
		return err
	}

	var steps []criteria.Step
	if all {
		steps = doc.Steps
	} else {
		step := doc.Find(stepID)
		if step == nil {
			return fmt.Errorf("step %q not found in %s", stepID, filename)
		}
		steps = []criteria.Step{*step}
	}

	engine, err := newEngine(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	failed := 0
	for _, step := range steps {
		result := engine.ValidateStep(ctx, step.ID, step.Criteria)
		printResult(step, result)
		if !result.Success {
			failed++
		}
	}

	if failed > 0 {
		// Validation outcomes are reported above; a non-zero exit signals
		// failure to scripted callers without an extra error line
		os.Exit(1)
	}
	return nil
}

func printResult(step criteria.Step, result types.ValidationResult) {
	mark := "✓"
	if !result.Success {
		mark = "✗"
	}
	if step.Name != "" {
		fmt.Printf("%s %s (%s): %s\n", mark, step.ID, step.Name, result.Message)
	} else {
		fmt.Printf("%s %s: %s\n", mark, step.ID, result.Message)
	}

	for _, detail := range result.Details {
		fmt.Printf("    %s\n", detail)
	}
	if len(result.Suggestions) > 0 {
		fmt.Println("  Suggestions:")
		for _, s := range result.Suggestions {
			fmt.Printf("    - %s\n", s)
		}
	}
}
