package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
)

// NewSiteCommand creates the site command group.
func NewSiteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "site",
		Short: "Show site information",
	}

	cmd.AddCommand(newSiteInfoCommand())
	cmd.AddCommand(newSiteConfigCommand())

	return cmd
}

func newSiteInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the site summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				site, err := client.Site().Get(ctx)
				if err != nil {
					return fmt.Errorf("failed to get site: %w", err)
				}

				return renderProperties(cmd.OutOrStdout(), site, [][]string{
					{"Title", site.Title},
					{"Description", formatOptional(site.Description)},
					{"URL", site.URL},
					{"Version", site.Version},
					{"Locale", formatOptional(site.Locale)},
					{"Accent Color", formatOptional(site.AccentColor)},
					{"Logo", formatOptional(site.Logo)},
					{"Icon", formatOptional(site.Icon)},
				})
			})
		},
	}
}

func newSiteConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the server configuration exposed to admin clients",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				config, err := client.Site().Config(ctx)
				if err != nil {
					return fmt.Errorf("failed to get site config: %w", err)
				}

				return render(cmd.OutOrStdout(), config, func(table *tablewriter.Table) error {
					table.Header("Key", "Value")

					for _, key := range slices.Sorted(maps.Keys(config)) {
						err := table.Append([]string{key, formatSettingValue(config[key])})
						if err != nil {
							return fmt.Errorf("failed to append config to table: %w", err)
						}
					}

					return nil
				})
			})
		},
	}
}

// formatSettingValue renders scalars as-is and nested values as compact JSON.
func formatSettingValue(value interface{}) string {
	switch typed := value.(type) {
	case nil:
		return NotSet
	case string:
		return formatConfigValue(typed)
	case bool, float64, int, int64:
		return fmt.Sprintf("%v", typed)
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}

	return truncate(string(encoded), 80)
}
