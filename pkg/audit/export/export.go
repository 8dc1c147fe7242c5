package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"frontmentor/askgate/pkg/audit"
)

// Exporter writes audit records in a given format.
type Exporter interface {
	Export(records []*audit.Record, w io.Writer) error
}

// New returns the exporter for format ("json" or "csv").
func New(format string) (Exporter, error) {
	switch format {
	case "json":
		return &JSONExporter{Pretty: true}, nil
	case "csv":
		return &CSVExporter{IncludeHeader: true}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// JSONExporter writes records as a JSON array.
type JSONExporter struct {
	Pretty bool
}

// Export writes records as a JSON array. An empty slice is written as [].
func (e *JSONExporter) Export(records []*audit.Record, w io.Writer) error {
	if records == nil {
		records = []*audit.Record{}
	}

	enc := json.NewEncoder(w)
	if e.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(records); err != nil {
		return audit.NewExportError("json", len(records), err)
	}
	return nil
}

// CSVExporter writes one row per record. Attempted models are joined with "|".
type CSVExporter struct {
	IncludeHeader bool
}

// Header returns the CSV column names.
func Header() []string {
	return []string{
		"id", "request_id", "time", "model_used", "category",
		"status", "attempts", "attempted_models", "latency_ms",
	}
}

// Export writes records as CSV.
func (e *CSVExporter) Export(records []*audit.Record, w io.Writer) error {
	writer := csv.NewWriter(w)

	if e.IncludeHeader {
		if err := writer.Write(Header()); err != nil {
			return audit.NewExportError("csv", 0, err)
		}
	}

	for i, r := range records {
		if err := writer.Write(Row(r)); err != nil {
			return audit.NewExportError("csv", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return audit.NewExportError("csv", len(records), err)
	}
	return nil
}

// Row flattens a record into CSV columns in Header order.
func Row(r *audit.Record) []string {
	return []string{
		r.ID,
		r.RequestID,
		r.Time.UTC().Format(time.RFC3339),
		r.ModelUsed,
		r.Category,
		strconv.Itoa(r.Status),
		strconv.Itoa(r.Attempts),
		strings.Join(r.AttemptedModels, "|"),
		strconv.FormatInt(r.LatencyMs, 10),
	}
}
