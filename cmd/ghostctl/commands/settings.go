package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
)

// ErrSettingNotFound is returned when a requested setting key does not exist.
var ErrSettingNotFound = errors.New("setting not found")

// NewSettingsCommand creates the settings command group.
func NewSettingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "settings",
		Aliases: []string{"setting"},
		Short:   "Read and change site settings",
	}

	cmd.AddCommand(newSettingsGetCommand())
	cmd.AddCommand(newSettingsSetCommand())

	return cmd
}

func newSettingsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "get [KEY...]",
		Aliases: []string{"list", "ls"},
		Short:   "Show all settings or the given keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				settings, err := client.Settings().Get(ctx)
				if err != nil {
					return fmt.Errorf("failed to get settings: %w", err)
				}

				selected, err := selectSettings(settings, args)
				if err != nil {
					return err
				}

				return renderSettings(cmd.OutOrStdout(), selected)
			})
		},
	}
}

func newSettingsSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY=VALUE...",
		Short: "Change settings",
		Long: `Change one or more settings.

Values that parse as JSON (true, 42, null, "quoted", [..]) are sent as such;
anything else is sent as a plain string.`,
		Example: `  ghostctl settings set title="My blog" accent_color=#ff1a75 members_signup_access=invite`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := parseSettings(args)
			if err != nil {
				return err
			}

			if isDryRun() {
				return renderDryRun(cmd.OutOrStdout(), "update settings", settings)
			}

			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				updated, err := client.Settings().Update(ctx, settings)
				if err != nil {
					return fmt.Errorf("failed to update settings: %w", err)
				}

				keys := make([]string, 0, len(settings))
				for _, setting := range settings {
					keys = append(keys, setting.Key)
				}

				selected, err := selectSettings(updated, keys)
				if err != nil {
					selected = updated
				}

				return renderSettings(cmd.OutOrStdout(), selected)
			})
		},
	}
}

// parseSettings turns key=value arguments into settings, keeping argument order.
func parseSettings(args []string) ([]ghost.Setting, error) {
	settings := make([]ghost.Setting, 0, len(args))

	for _, arg := range args {
		pairs, err := parseKeyValues([]string{arg}, "=")
		if err != nil {
			return nil, err
		}

		for key, raw := range pairs {
			settings = append(settings, ghost.Setting{Key: key, Value: settingValue(raw)})
		}
	}

	return settings, nil
}

func settingValue(raw string) interface{} {
	var value interface{}

	err := json.Unmarshal([]byte(raw), &value)
	if err != nil {
		return raw
	}

	return value
}

func selectSettings(settings []ghost.Setting, keys []string) ([]ghost.Setting, error) {
	if len(keys) == 0 {
		return settings, nil
	}

	selected := make([]ghost.Setting, 0, len(keys))

	for _, key := range keys {
		index := slices.IndexFunc(settings, func(setting ghost.Setting) bool {
			return strings.EqualFold(setting.Key, key)
		})
		if index < 0 {
			return nil, fmt.Errorf("%w: %s", ErrSettingNotFound, key)
		}

		selected = append(selected, settings[index])
	}

	return selected, nil
}

func renderSettings(w io.Writer, settings []ghost.Setting) error {
	return render(w, settings, func(table *tablewriter.Table) error {
		table.Header("Key", "Value")

		for _, setting := range settings {
			err := table.Append([]string{setting.Key, formatSettingValue(setting.Value)})
			if err != nil {
				return fmt.Errorf("failed to append setting to table: %w", err)
			}
		}

		return nil
	})
}
