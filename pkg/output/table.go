package output

import (
	"fmt"
	"io"
	"slices"

	"github.com/pterm/pterm"
)

// TableFormatter formats output as a table using pterm.
type TableFormatter struct{}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{}
}

// Name returns the formatter name.
func (f *TableFormatter) Name() string {
	return "table"
}

// Supports reports whether data is a Tabular, a [][]string or a
// map[string]string.
func (f *TableFormatter) Supports(data any) bool {
	switch data.(type) {
	case Tabular, [][]string, map[string]string:
		return true
	}
	return false
}

// Format renders the data as a table.
func (f *TableFormatter) Format(w io.Writer, data any, config *FormatConfig) error {
	if config == nil {
		config = NewFormatConfig()
	}

	var header []string
	var rows [][]string

	switch d := data.(type) {
	case Tabular:
		header, rows = d.Header(), d.Rows()
	case [][]string:
		rows = d
	case map[string]string:
		header = []string{"KEY", "VALUE"}
		keys := make([]string, 0, len(d))
		for k := range d {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			rows = append(rows, []string{k, d[k]})
		}
	default:
		return fmt.Errorf("unsupported data type for table formatting: %T", data)
	}

	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No results")
		return err
	}

	tableData := pterm.TableData{}
	hasHeader := config.ShowHeaders && len(header) > 0
	if hasHeader {
		tableData = append(tableData, header)
	}
	tableData = append(tableData, rows...)

	table := pterm.DefaultTable.WithHasHeader(hasHeader).WithData(tableData)
	if config.Colors {
		table = table.WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan, pterm.Bold))
	} else {
		table = table.WithHeaderStyle(pterm.NewStyle())
	}

	rendered, err := table.Srender()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	_, err = fmt.Fprintln(w, rendered)
	return err
}
