package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/jedib0t/go-pretty/v6/table"
)

func sampleTable() *Table {
	return &Table{
		Headers: []string{"model", "status", "latency"},
		Rows: [][]string{
			{"gemini-2.5-flash", "200", "812ms"},
			{"gemini-old", "404"},
		},
		Align: []Alignment{AlignLeft, AlignRight, AlignRight},
	}
}

func TestTextFormatter_Table(t *testing.T) {
	var buf bytes.Buffer
	f := &TextFormatter{Style: &table.StyleDefault}

	if err := f.FormatTo(&buf, sampleTable()); err != nil {
		t.Fatalf("FormatTo: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"MODEL", "gemini-2.5-flash", "812ms", "gemini-old"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTextFormatter_NonTerminalUsesASCII(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TextFormatter{}).FormatTo(&buf, sampleTable()); err != nil {
		t.Fatalf("FormatTo: %v", err)
	}
	if strings.Contains(buf.String(), "╭") {
		t.Error("piped output should not use rounded box characters")
	}
}

func TestTextFormatter_Value(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TextFormatter{}).FormatTo(&buf, "hello"); err != nil {
		t.Fatalf("FormatTo: %v", err)
	}
	if buf.String() != "hello\n" {
		t.Errorf("FormatTo = %q", buf.String())
	}
}

func TestRenderTable_Empty(t *testing.T) {
	if got := RenderTable(&Table{}, table.StyleDefault); got != "" {
		t.Errorf("RenderTable(empty) = %q", got)
	}
}

func TestJSONFormatter_Table(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONFormatter{Indent: true}).FormatTo(&buf, sampleTable()); err != nil {
		t.Fatalf("FormatTo: %v", err)
	}

	var got []map[string]string
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(got) != 2 || got[0]["model"] != "gemini-2.5-flash" || got[1]["latency"] != "" {
		t.Errorf("unexpected records %v", got)
	}
}

func TestJSONFormatter_Value(t *testing.T) {
	var buf bytes.Buffer
	data := map[string]string{"test": "value"}
	if err := (&JSONFormatter{}).FormatTo(&buf, data); err != nil {
		t.Fatalf("FormatTo: %v", err)
	}

	var result map[string]string
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if result["test"] != "value" {
		t.Errorf("FormatTo() = %v, want %v", result, data)
	}
}

func TestCSVFormatter(t *testing.T) {
	tbl := sampleTable()
	tbl.Rows[1] = []string{"gemini-old", "404", "90ms"}

	var buf bytes.Buffer
	if err := (&CSVFormatter{}).FormatTo(&buf, tbl); err != nil {
		t.Fatalf("FormatTo: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(rows) != 3 || rows[0][0] != "model" || rows[2][1] != "404" {
		t.Errorf("unexpected rows %v", rows)
	}
}

func TestCSVFormatter_RejectsNonTable(t *testing.T) {
	if err := (&CSVFormatter{}).FormatTo(&bytes.Buffer{}, "x"); err == nil {
		t.Error("expected error for non-tabular data")
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format OutputFormat
		want   string
	}{
		{FormatText, "*cli.TextFormatter"},
		{FormatJSON, "*cli.JSONFormatter"},
		{FormatCSV, "*cli.CSVFormatter"},
		{"unknown", "*cli.TextFormatter"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			if got := fmt.Sprintf("%T", NewFormatter(tt.format)); got != tt.want {
				t.Errorf("NewFormatter(%q) type = %v, want %v", tt.format, got, tt.want)
			}
		})
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"json", FormatJSON, false},
		{"csv", FormatCSV, false},
		{"yaml", "", true},
	}

	for _, tt := range tests {
		got, err := ParseOutputFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseOutputFormat(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseOutputFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsTerminal_Buffer(t *testing.T) {
	if IsTerminal(&bytes.Buffer{}) {
		t.Error("a buffer is not a terminal")
	}
}

func TestStatusWriter(t *testing.T) {
	var buf bytes.Buffer
	sw := NewStatusWriter(&buf)

	sw.Section("Credential")
	sw.Line("api key", StatusOK, "AIzaSy...")
	sw.Line("gemini-old", StatusError, "404 NotFound")

	out := buf.String()
	if strings.Contains(out, "\x1b[") {
		t.Error("non-terminal output must not contain ANSI codes")
	}
	for _, want := range []string{"== Credential ==", "api key:", "[OK] AIzaSy...", "[ERROR] 404 NotFound"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if sw.Errors() != 1 {
		t.Errorf("Errors() = %d, want 1", sw.Errors())
	}
}

func TestRenderStatusLine_Colorized(t *testing.T) {
	got := RenderStatusLine("x", StatusWarn, "", true)
	if !strings.HasPrefix(got, ansiYellow) || !strings.HasSuffix(got, ansiReset) {
		t.Errorf("RenderStatusLine = %q", got)
	}
}
