package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/ghostctl/internal/constants"
	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
)

// outputFormat returns the --output value, defaulting to table.
func outputFormat() (string, error) {
	format := strings.ToLower(viper.GetString("output"))

	switch format {
	case "", constants.FormatTable:
		return constants.FormatTable, nil
	case constants.FormatJSON, constants.FormatYAML:
		return format, nil
	default:
		return "", fmt.Errorf("%w: %s (use table, json or yaml)", constants.ErrInvalidOutputFormat, format)
	}
}

// render writes data as JSON or YAML, or as the table built by fillTable.
func render(w io.Writer, data interface{}, fillTable func(table *tablewriter.Table) error) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	switch format {
	case constants.FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", defaultJSONIndent)

		err = encoder.Encode(data)
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}

		return nil
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(w)
		defer func() { _ = encoder.Close() }()

		err = encoder.Encode(data)
		if err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}

		return nil
	}

	table := tablewriter.NewWriter(w)

	err = fillTable(table)
	if err != nil {
		return err
	}

	err = table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// renderProperties renders a two column Property/Value table.
func renderProperties(w io.Writer, data interface{}, rows [][]string) error {
	return render(w, data, func(table *tablewriter.Table) error {
		table.Header("Property", "Value")

		return appendRows(table, rows)
	})
}

func appendRows(table *tablewriter.Table, rows [][]string) error {
	for _, row := range rows {
		err := table.Append(row)
		if err != nil {
			return fmt.Errorf("failed to append table row: %w", err)
		}
	}

	return nil
}

// paginationFooter prints "Page x of y (n total)" below a table listing.
func paginationFooter(w io.Writer, pagination *ghost.Pagination) {
	format, _ := outputFormat()
	if pagination == nil || format != constants.FormatTable || pagination.Pages <= 1 {
		return
	}

	_, _ = fmt.Fprintf(w, "Page %d of %d (%d total)\n", pagination.Page, pagination.Pages, pagination.Total)
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return NotAvailable
	}

	return value.UTC().Format(time.RFC3339)
}

func formatTimePtr(value *time.Time) string {
	if value == nil {
		return NotAvailable
	}

	return formatTime(*value)
}

func formatBool(value bool) string {
	if value {
		return Yes
	}

	return No
}

func formatOptional(value string) string {
	if value == "" {
		return NotAvailable
	}

	return value
}

func formatPricePtr(amount *int64, currency string) string {
	if amount == nil {
		return NotAvailable
	}

	return ghost.FormatPrice(*amount, currency)
}

func formatIntPtr(value *int) string {
	if value == nil {
		return NotAvailable
	}

	return strconv.Itoa(*value)
}

func truncate(value string, length int) string {
	runes := []rune(value)
	if len(runes) <= length {
		return value
	}

	return string(runes[:length-1]) + "…"
}
