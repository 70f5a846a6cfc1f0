package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func newReportCmd() *cobra.Command {
	var (
		serverURL  string
		customerID string
		apiKey     string
		value      bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Fetch a report from a running vitalsignd",
		Long: `Fetches the portfolio recovery report, or a single customer's value
report with --value, from the service and prints the JSON.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(reportOpts{
				serverURL:  serverURL,
				customerID: customerID,
				apiKey:     apiKey,
				value:      value,
			})
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "Base URL of the vitalsignd service")
	cmd.Flags().StringVar(&customerID, "customer", "", "Scope the report to one customer")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key (or set VITALSIGN_API_KEY)")
	cmd.Flags().BoolVar(&value, "value", false, "Fetch the value report instead of the recovery report (requires --customer)")

	return cmd
}

type reportOpts struct {
	serverURL  string
	customerID string
	apiKey     string
	value      bool
}

func runReport(opts reportOpts) error {
	endpoint := opts.serverURL + "/api/v1/reports/recovery"
	if opts.value {
		if opts.customerID == "" {
			return fmt.Errorf("--value requires --customer")
		}
		endpoint = opts.serverURL + "/api/v1/customers/" + url.PathEscape(opts.customerID) + "/value-report"
	} else if opts.customerID != "" {
		endpoint += "?customer_id=" + url.QueryEscape(opts.customerID)
	}

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	key := firstNonEmpty(opts.apiKey, os.Getenv("VITALSIGN_API_KEY"))
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching report: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("service returned %s: %s", resp.Status, body)
	}

	_, err = io.Copy(os.Stdout, resp.Body)
	return err
}
