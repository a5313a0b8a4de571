package commands

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/ghostctl/internal/constants"
	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
)

type statusReport struct {
	Profile   string      `json:"profile"          yaml:"profile"`
	URL       string      `json:"url"              yaml:"url"`
	Reachable bool        `json:"reachable"        yaml:"reachable"`
	Error     string      `json:"error,omitempty"  yaml:"error,omitempty"`
	Site      *ghost.Site `json:"site,omitempty"   yaml:"site,omitempty"`
	Stats     ghost.Stats `json:"stats"            yaml:"stats"`
}

// NewStatusCommand creates the status command.
func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check connectivity and show client statistics",
		Long:  "Probe the site with the active profile and print token, retry, rate limit and cache counters.",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}

			settings, err := resolveSettings()
			if err != nil {
				return err
			}

			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				report := &statusReport{
					Profile: selectedProfileName(config),
					URL:     settings.APIURL,
				}

				probeErr := client.Ping(ctx)
				if probeErr == nil {
					report.Reachable = true
					report.Site, _ = client.Site().Get(ctx)
				} else {
					report.Error = probeErr.Error()
				}

				report.Stats = client.Stats()

				err := renderStatus(cmd.OutOrStdout(), report)
				if err != nil {
					return err
				}

				return probeErr
			})
		},
	}
}

func renderStatus(w io.Writer, report *statusReport) error {
	stats := report.Stats

	version := NotAvailable
	if report.Site != nil {
		version = report.Site.Version
	}

	rows := [][]string{
		{"Profile", report.Profile},
		{"URL", report.URL},
		{"Reachable", formatBool(report.Reachable)},
		{"Ghost Version", version},
		{"Tokens Signed", strconv.FormatInt(stats.Token.Generations, 10)},
		{"Token Expires", formatTime(stats.Token.ExpiresAt)},
		{"Calls", strconv.FormatInt(stats.Retry.Calls, 10)},
		{"Attempts", strconv.FormatInt(stats.Retry.Attempts, 10)},
		{"Retries", strconv.FormatInt(stats.Retry.Retries, 10)},
		{"Failures", strconv.FormatInt(stats.Retry.Failures, 10)},
		{"Circuit Trips", strconv.FormatInt(stats.Retry.CircuitTrips, 10)},
		{"Rate Limit", formatRateLimit(stats.RateLimit)},
	}

	if report.Error != "" {
		rows = append(rows, []string{"Error", report.Error})
	}

	if stats.Cache != nil {
		rows = append(rows, []string{
			"Cache",
			fmt.Sprintf("%d hits, %d misses (%.0f%%)", stats.Cache.Hits, stats.Cache.Misses, stats.Cache.GetHitRate()*100),
		})
	}

	err := renderProperties(w, report, rows)
	if err != nil {
		return err
	}

	format, _ := outputFormat()
	if format != constants.FormatTable || len(stats.Endpoints) == 0 {
		return nil
	}

	_, _ = fmt.Fprintln(w)

	table := tablewriter.NewWriter(w)
	table.Header("Endpoint", "Requests", "Errors", "Avg Latency")

	for _, endpoint := range slices.Sorted(maps.Keys(stats.Endpoints)) {
		metrics := stats.Endpoints[endpoint]

		err := table.Append([]string{
			endpoint,
			strconv.FormatInt(metrics.TotalRequests, 10),
			strconv.FormatInt(metrics.TotalErrors, 10),
			metrics.AverageLatency.String(),
		})
		if err != nil {
			return fmt.Errorf("failed to append endpoint to table: %w", err)
		}
	}

	err = table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func formatRateLimit(state ghost.RateLimitState) string {
	if !state.Observed {
		return NotAvailable
	}

	return fmt.Sprintf("%d/%d remaining, resets %s", state.Remaining, state.Limit, formatTime(state.Reset))
}
