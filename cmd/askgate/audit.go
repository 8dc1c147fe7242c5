package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"frontmentor/askgate/pkg/audit"
	"frontmentor/askgate/pkg/audit/export"
	"frontmentor/askgate/pkg/audit/retention"
	auditstorage "frontmentor/askgate/pkg/audit/storage"
	"frontmentor/askgate/pkg/cli"
	"frontmentor/askgate/pkg/config"
)

var auditFlags struct {
	limit  int
	since  time.Duration
	format string
	output string
	days   int
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "List recorded ask outcomes",
	Long: `List the outcome records written by the server when audit.enabled is set.

Records hold the model that answered or the error category, the models
attempted and the latency. Questions and answers are never stored.

Examples:
  # Last 20 outcomes
  askgate audit --limit 20

  # Outcomes of the last hour as CSV
  askgate audit --since 1h --format csv --output audit.csv

  # Delete records older than the retention window
  askgate audit prune`,
	RunE: listAudit,
}

var auditPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete records older than the retention window",
	RunE:  pruneAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditPruneCmd)

	auditCmd.Flags().IntVar(&auditFlags.limit, "limit", 50, "max records (0 for all)")
	auditCmd.Flags().DurationVar(&auditFlags.since, "since", 0, "only records newer than this (e.g. 24h)")
	auditCmd.Flags().StringVar(&auditFlags.format, "format", "text", "output format: text, json, csv")
	auditCmd.Flags().StringVarP(&auditFlags.output, "output", "o", "", "output file (default: stdout)")

	auditPruneCmd.Flags().IntVar(&auditFlags.days, "days", 0, "override audit.retention.days")
}

// openAudit opens the configured audit store for reading.
func openAudit() (*config.Config, audit.Storage, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if cfg.Audit.Backend == "memory" {
		return nil, nil, cli.NewConfigError("audit.backend", "the memory backend lives inside the server process and cannot be read")
	}
	store, err := auditstorage.Open(&cfg.Audit)
	if err != nil {
		return nil, nil, cli.NewCommandError("audit", err)
	}
	return cfg, store, nil
}

func listAudit(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(auditFlags.format)
	if err != nil {
		return err
	}

	_, store, err := openAudit()
	if err != nil {
		return err
	}
	defer store.Close()

	query := audit.Query{Limit: auditFlags.limit}
	if auditFlags.since > 0 {
		query.Since = time.Now().Add(-auditFlags.since)
	}

	records, err := store.List(contextOf(cmd), query)
	if err != nil {
		return cli.NewCommandError("audit", err)
	}

	var w io.Writer = cmd.OutOrStdout()
	if auditFlags.output != "" {
		f, err := os.Create(auditFlags.output)
		if err != nil {
			return cli.NewCommandError("audit", fmt.Errorf("failed to create output file: %w", err))
		}
		defer f.Close()
		w = f
	}

	if err := writeRecords(w, format, records); err != nil {
		return cli.NewCommandError("audit", err)
	}
	return nil
}

// writeRecords writes records in format. Text is a table; json and csv use
// the export encoders.
func writeRecords(w io.Writer, format cli.OutputFormat, records []*audit.Record) error {
	if format != cli.FormatText {
		exporter, err := export.New(string(format))
		if err != nil {
			return err
		}
		return exporter.Export(records, w)
	}

	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No audit records found")
		return err
	}
	return cli.NewFormatter(cli.FormatText).FormatTo(w, recordTable(records))
}

func recordTable(records []*audit.Record) *cli.Table {
	t := &cli.Table{
		Headers: []string{"TIME", "REQUEST", "STATUS", "RESULT", "ATTEMPTS", "LATENCY"},
		Align:   []cli.Alignment{cli.AlignLeft, cli.AlignLeft, cli.AlignRight, cli.AlignLeft, cli.AlignRight, cli.AlignRight},
	}
	for _, r := range records {
		result := r.ModelUsed
		if !r.Succeeded() {
			result = r.Category
		}
		t.Rows = append(t.Rows, []string{
			r.Time.Local().Format(time.DateTime),
			shortID(r.RequestID),
			strconv.Itoa(r.Status),
			result,
			fmt.Sprintf("%d (%s)", r.Attempts, strings.Join(r.AttemptedModels, ", ")),
			fmt.Sprintf("%dms", r.LatencyMs),
		})
	}
	return t
}

func pruneAudit(cmd *cobra.Command, args []string) error {
	cfg, store, err := openAudit()
	if err != nil {
		return err
	}
	defer store.Close()

	days := cfg.Audit.Retention.Days
	if auditFlags.days > 0 {
		days = auditFlags.days
	}

	pruner := retention.NewPruner(store, retention.Config{RetentionDays: days})
	deleted, err := pruner.Prune(contextOf(cmd))
	if err != nil {
		return cli.NewCommandError("audit prune", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %d record(s) older than %s\n", deleted, pruner.Cutoff().Format(time.RFC3339))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
