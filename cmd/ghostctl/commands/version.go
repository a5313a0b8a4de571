package commands

import (
	"runtime"

	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Long:  "Display detailed version information about ghostctl",
		RunE: func(cmd *cobra.Command, args []string) error {
			type VersionInfo struct {
				Version string `json:"version" yaml:"version"`
				Commit  string `json:"commit"  yaml:"commit"`
				Built   string `json:"built"   yaml:"built"`
				Go      string `json:"go"      yaml:"go"`
			}

			info := VersionInfo{
				Version: version,
				Commit:  commit,
				Built:   date,
				Go:      runtime.Version(),
			}

			return renderProperties(cmd.OutOrStdout(), info, [][]string{
				{"Version", info.Version},
				{"Commit", info.Commit},
				{"Built", info.Built},
				{"Go", info.Go},
			})
		},
	}
}
