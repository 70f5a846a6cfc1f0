// Package main provides the vitalsign CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "vitalsign",
		Short: "Customer health scoring and recovery playbooks",
		Long: `VitalSign scores customer health from engagement, value, relationship,
and risk signals, triggers recovery playbooks when scores degrade, and
tracks ROI, milestones, and advocacy on the way back up.`,
		Version: version,
	}

	rootCmd.AddCommand(
		newScoreCmd(),
		newReportCmd(),
		newDemoCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
