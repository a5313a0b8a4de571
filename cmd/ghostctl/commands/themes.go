package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
)

// NewThemesCommand creates the themes command group.
func NewThemesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "themes",
		Aliases: []string{"theme"},
		Short:   "Manage themes",
	}

	cmd.AddCommand(newThemesListCommand())
	cmd.AddCommand(newThemesActiveCommand())
	cmd.AddCommand(newThemesUploadCommand())
	cmd.AddCommand(newThemesActivateCommand())

	return cmd
}

func newThemesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List installed themes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				themes, err := client.Themes().List(ctx)
				if err != nil {
					return fmt.Errorf("failed to list themes: %w", err)
				}

				return render(cmd.OutOrStdout(), themes, func(table *tablewriter.Table) error {
					table.Header("Name", "Version", "Active")

					for i := range themes {
						err := table.Append([]string{
							themes[i].Name,
							formatOptional(themes[i].Version()),
							formatCurrentIndicator(themes[i].Active),
						})
						if err != nil {
							return fmt.Errorf("failed to append theme to table: %w", err)
						}
					}

					return nil
				})
			})
		},
	}
}

func newThemesActiveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "active",
		Short: "Show the active theme",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				theme, err := client.Themes().Active(ctx)
				if err != nil {
					return fmt.Errorf("failed to get active theme: %w", err)
				}

				return renderTheme(cmd.OutOrStdout(), theme)
			})
		},
	}
}

func newThemesUploadCommand() *cobra.Command {
	var activate bool

	cmd := &cobra.Command{
		Use:     "upload ZIP",
		Short:   "Upload a theme archive",
		Example: `  ghostctl themes upload ./casper.zip --activate`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if isDryRun() {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Would upload theme %s\n", filepath.Base(args[0]))

				return nil
			}

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open theme archive: %w", err)
			}
			defer func() { _ = file.Close() }()

			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				theme, err := client.Themes().Upload(ctx, filepath.Base(args[0]), file)
				if err != nil {
					return fmt.Errorf("failed to upload theme: %w", err)
				}

				if activate {
					theme, err = client.Themes().Activate(ctx, theme.Name)
					if err != nil {
						return fmt.Errorf("failed to activate theme: %w", err)
					}
				}

				return renderTheme(cmd.OutOrStdout(), theme)
			})
		},
	}

	cmd.Flags().BoolVar(&activate, "activate", false, "activate the theme after uploading")

	return cmd
}

func newThemesActivateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "activate NAME",
		Short: "Activate an installed theme",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if isDryRun() {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Would activate theme %s\n", args[0])

				return nil
			}

			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				theme, err := client.Themes().Activate(ctx, args[0])
				if err != nil {
					return fmt.Errorf("failed to activate theme: %w", err)
				}

				return renderTheme(cmd.OutOrStdout(), theme)
			})
		},
	}
}

func renderTheme(w io.Writer, theme *ghost.Theme) error {
	return renderProperties(w, theme, [][]string{
		{"Name", theme.Name},
		{"Version", formatOptional(theme.Version())},
		{"Active", formatBool(theme.Active)},
		{"Templates", fmt.Sprintf("%d", len(theme.Templates))},
	})
}
