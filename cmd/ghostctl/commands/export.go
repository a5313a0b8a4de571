package commands

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	adminclient "github.com/fivetwenty-io/ghostctl/internal/client"
	"github.com/fivetwenty-io/ghostctl/internal/constants"
	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
)

// NewExportCommand creates the export command. version is recorded in the export metadata.
func NewExportCommand(version string) *cobra.Command {
	var (
		file     string
		compress bool
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "export [all|posts|members|content]",
		Short: "Export site data as JSON",
		Long: `Export whole collections as one JSON document.

  posts    posts
  members  members
  content  posts, pages and tags
  all      content plus members, users, tiers, newsletters,
           offers and settings (default)

The document is written to stdout unless --file is given. Files ending in
.json.gz, or any output with --compress, are gzip compressed.`,
		Example: `  ghostctl export members --file members.json.gz`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{adminclient.ExportAll, adminclient.ExportPosts, adminclient.ExportMembers, adminclient.ExportContent},
		RunE: func(cmd *cobra.Command, args []string) error {
			scope := adminclient.ExportAll
			if len(args) > 0 {
				scope = args[0]
			}

			gzipped, err := exportCompression(file, compress)
			if err != nil {
				return err
			}

			return withClient(cmd, func(ctx context.Context, client ghost.Client) error {
				exporter := adminclient.NewExporter(client, version)
				exporter.SetPageSize(pageSize)

				doc, err := exporter.Export(ctx, scope)
				if err != nil {
					return fmt.Errorf("failed to export %s: %w", scope, err)
				}

				for _, warning := range doc.Meta.Warnings {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", warning)
				}

				if file == "" {
					err = adminclient.WriteExport(cmd.OutOrStdout(), doc, gzipped)
					if err != nil {
						return fmt.Errorf("failed to write export: %w", err)
					}

					return renderExportSummary(cmd.ErrOrStderr(), doc)
				}

				err = writeExportFile(file, doc, gzipped)
				if err != nil {
					return err
				}

				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", scope, file)

				return renderExportSummary(cmd.OutOrStdout(), doc)
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "write to this .json or .json.gz file")
	cmd.Flags().BoolVar(&compress, "compress", false, "gzip the output")
	cmd.Flags().IntVar(&pageSize, "page-size", constants.ExportPageSize, "records fetched per request")

	return cmd
}

// exportCompression decides whether the export is gzipped, validating the file extension.
func exportCompression(file string, compress bool) (bool, error) {
	lower := strings.ToLower(file)

	switch {
	case file == "":
		return compress, nil
	case strings.HasSuffix(lower, ".json.gz"):
		return true, nil
	case strings.HasSuffix(lower, ".json") && !compress:
		return false, nil
	default:
		return false, fmt.Errorf("%w: %s", constants.ErrExportExtension, file)
	}
}

// writeExportFile writes doc to path, readable by the owner only since exports hold member data.
func writeExportFile(path string, doc *adminclient.ExportDocument, compress bool) error {
	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}

	err = adminclient.WriteExport(out, doc, compress)
	if err != nil {
		_ = out.Close()

		return fmt.Errorf("failed to write export: %w", err)
	}

	err = out.Close()
	if err != nil {
		return fmt.Errorf("failed to close export file: %w", err)
	}

	return nil
}

func renderExportSummary(w io.Writer, doc *adminclient.ExportDocument) error {
	format, err := outputFormat()
	if err != nil || format != constants.FormatTable {
		return err
	}

	counts := doc.Counts()
	table := tablewriter.NewWriter(w)
	table.Header("Collection", "Records")

	for _, name := range slices.Sorted(maps.Keys(counts)) {
		err := table.Append([]string{name, strconv.Itoa(counts[name])})
		if err != nil {
			return fmt.Errorf("failed to append collection to table: %w", err)
		}
	}

	err = table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}
