package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vitalsign/vitalsign/pkg/health"
	"github.com/vitalsign/vitalsign/pkg/render"
)

func newScoreCmd() *cobra.Command {
	var (
		signalsPath  string
		customerID   string
		name         string
		segment      string
		postIncident bool
		trustRebuild bool
		outputFmt    string
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a signal bag locally",
		Long: `Reads a JSON signal bag and computes the four component scores and
the composite health score, without a running service.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(scoreOpts{
				signalsPath:  signalsPath,
				customerID:   customerID,
				name:         name,
				segment:      segment,
				postIncident: postIncident,
				trustRebuild: trustRebuild,
				outputFmt:    outputFmt,
			})
		},
	}

	cmd.Flags().StringVar(&signalsPath, "signals", "-", "Path to signal bag JSON file (- for stdin)")
	cmd.Flags().StringVar(&customerID, "customer", "adhoc", "Customer ID for the report header")
	cmd.Flags().StringVar(&name, "name", "", "Customer name for the report header")
	cmd.Flags().StringVar(&segment, "segment", "business", "Customer segment: enterprise, business, startup")
	cmd.Flags().BoolVar(&postIncident, "post-incident", false, "Apply post-incident scoring adjustments")
	cmd.Flags().BoolVar(&trustRebuild, "trust-rebuilding", false, "Mark trust rebuilding as required")
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text or json")

	return cmd
}

type scoreOpts struct {
	signalsPath  string
	customerID   string
	name         string
	segment      string
	postIncident bool
	trustRebuild bool
	outputFmt    string
}

func runScore(opts scoreOpts) error {
	var in io.Reader = os.Stdin
	if opts.signalsPath != "-" {
		f, err := os.Open(opts.signalsPath)
		if err != nil {
			return fmt.Errorf("opening signals file: %w", err)
		}
		defer f.Close()
		in = f
	}

	var bag health.SignalBag
	if err := json.NewDecoder(in).Decode(&bag); err != nil {
		return fmt.Errorf("decoding signals: %w", err)
	}

	customer := &health.CustomerProfile{
		CustomerID:              opts.customerID,
		Name:                    opts.name,
		Segment:                 opts.segment,
		IsPostIncident:          opts.postIncident,
		TrustRebuildingRequired: opts.trustRebuild,
	}

	calc := health.DefaultCalculator()
	metrics := calc.Calculate(customer, bag)

	summary := &render.Summary{Customer: customer, Metrics: metrics}
	var renderer render.Renderer = &render.TerminalRenderer{}
	if opts.outputFmt == "json" {
		renderer = &render.JSONRenderer{}
	}
	return renderer.Render(os.Stdout, summary)
}
