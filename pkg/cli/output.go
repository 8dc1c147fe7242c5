package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

// OutputFormat represents the output format for command results.
type OutputFormat string

const (
	// FormatText is a rendered table (default).
	FormatText OutputFormat = "text"
	// FormatJSON is JSON output.
	FormatJSON OutputFormat = "json"
	// FormatCSV is CSV output.
	FormatCSV OutputFormat = "csv"
)

// Alignment is the horizontal alignment of a table column.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// Table is tabular command output.
type Table struct {
	Headers []string
	Rows    [][]string

	// Align holds per-column alignment; missing entries are left aligned.
	Align []Alignment
}

// Records returns the rows as header-keyed maps, for JSON output.
func (t *Table) Records() []map[string]string {
	out := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]string, len(t.Headers))
		for i, h := range t.Headers {
			if i < len(row) {
				rec[h] = row[i]
			} else {
				rec[h] = ""
			}
		}
		out = append(out, rec)
	}
	return out
}

// Formatter formats command output.
type Formatter interface {
	FormatTo(w io.Writer, data any) error
}

// TextFormatter renders tables with go-pretty. Other values are printed
// with %v.
type TextFormatter struct {
	// Style overrides the table style. When nil, a rounded style is used on
	// terminals and a plain ASCII style otherwise.
	Style *table.Style
}

// FormatTo writes data to w.
func (f *TextFormatter) FormatTo(w io.Writer, data any) error {
	t, ok := data.(*Table)
	if !ok {
		_, err := fmt.Fprintf(w, "%v\n", data)
		return err
	}

	style := f.Style
	if style == nil {
		if IsTerminal(w) {
			style = &table.StyleRounded
		} else {
			style = &table.StyleDefault
		}
	}

	_, err := fmt.Fprintln(w, RenderTable(t, *style))
	return err
}

// RenderTable renders t in the given style.
func RenderTable(t *Table, style table.Style) string {
	columns := len(t.Headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(style)

	header := make(table.Row, columns)
	for i, h := range t.Headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range t.Rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(t.Align) && t.Align[i] == AlignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// JSONFormatter formats output as JSON. Tables are written as an array of
// header-keyed objects.
type JSONFormatter struct {
	Indent bool
}

// FormatTo writes data to w in JSON format.
func (f *JSONFormatter) FormatTo(w io.Writer, data any) error {
	if t, ok := data.(*Table); ok {
		data = t.Records()
	}

	encoder := json.NewEncoder(w)
	if f.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// CSVFormatter formats tables as CSV with a header row.
type CSVFormatter struct{}

// FormatTo writes data to w in CSV format. Only *Table is supported.
func (f *CSVFormatter) FormatTo(w io.Writer, data any) error {
	t, ok := data.(*Table)
	if !ok {
		return fmt.Errorf("csv output requires tabular data, got %T", data)
	}

	csvWriter := csv.NewWriter(w)
	if err := csvWriter.Write(t.Headers); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := csvWriter.Write(row); err != nil {
			return err
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// NewFormatter creates a new formatter for the specified format.
func NewFormatter(format OutputFormat) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	case FormatCSV:
		return &CSVFormatter{}
	default:
		return &TextFormatter{}
	}
}

// ParseOutputFormat validates a --output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(s); f {
	case FormatText, FormatJSON, FormatCSV:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", NewConfigError("output", fmt.Sprintf("unsupported format %q (use text, json or csv)", s))
	}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
