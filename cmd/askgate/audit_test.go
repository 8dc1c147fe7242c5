package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"frontmentor/askgate/pkg/audit"
	"frontmentor/askgate/pkg/cli"
)

func sampleRecords() []*audit.Record {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []*audit.Record{
		{
			ID: "r2", RequestID: "0f5c2a9e-1111-2222-3333-444455556666", Time: now,
			Category: "RateLimited", Status: 429, Attempts: 1,
			AttemptedModels: []string{"gemini-2.5-flash"}, LatencyMs: 80,
		},
		{
			ID: "r1", RequestID: "req-1", Time: now.Add(-time.Minute),
			ModelUsed: "gemini-flash-latest", Status: 200, Attempts: 2,
			AttemptedModels: []string{"gemini-2.5-flash", "gemini-flash-latest"}, LatencyMs: 1200,
		},
	}
}

func TestRecordTable(t *testing.T) {
	table := recordTable(sampleRecords())

	if len(table.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(table.Rows))
	}
	first := table.Rows[0]
	if first[1] != "0f5c2a9e" || first[2] != "429" || first[3] != "RateLimited" {
		t.Errorf("failure row = %v", first)
	}
	second := table.Rows[1]
	if second[3] != "gemini-flash-latest" || second[4] != "2 (gemini-2.5-flash, gemini-flash-latest)" || second[5] != "1200ms" {
		t.Errorf("success row = %v", second)
	}
}

func TestWriteRecords(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer
		if err := writeRecords(&out, cli.FormatJSON, sampleRecords()); err != nil {
			t.Fatal(err)
		}
		var got []audit.Record
		if err := json.Unmarshal(out.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(got) != 2 || got[1].ModelUsed != "gemini-flash-latest" {
			t.Errorf("records = %+v", got)
		}
	})

	t.Run("csv", func(t *testing.T) {
		var out bytes.Buffer
		if err := writeRecords(&out, cli.FormatCSV, sampleRecords()); err != nil {
			t.Fatal(err)
		}
		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		if len(lines) != 3 {
			t.Errorf("lines = %d, want header plus 2", len(lines))
		}
	})

	t.Run("text empty", func(t *testing.T) {
		var out bytes.Buffer
		if err := writeRecords(&out, cli.FormatText, nil); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out.String(), "No audit records") {
			t.Errorf("output = %q", out.String())
		}
	})

	t.Run("text", func(t *testing.T) {
		var out bytes.Buffer
		if err := writeRecords(&out, cli.FormatText, sampleRecords()); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out.String(), "RateLimited") {
			t.Errorf("table missing category:\n%s", out.String())
		}
	})
}
