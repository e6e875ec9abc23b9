package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ravisuresh229/bidbook/internal/export"
	"github.com/ravisuresh229/bidbook/internal/ingest"
	"github.com/ravisuresh229/bidbook/internal/pipeline"
	"github.com/ravisuresh229/bidbook/internal/review"
)

type batchOptions struct {
	Dir    string
	Out    string
	Format string
}

func newBatchCommand(root *rootOptions) *cobra.Command {
	opts := &batchOptions{}
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Process every proposal PDF in a directory and write the results",
		Long: `Scan a directory tree for proposal PDFs, extract contact records from each,
and write them as JSON or as an XLSX workbook grouped by trade.

Example:
  bidbook batch --dir ./proposals --format xlsx --out bids.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBatch(cmd, root, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Dir, "dir", "", "directory to process proposals from (required)")
	cmd.Flags().StringVar(&opts.Out, "out", "", "output file (defaults to bids.<format> next to --dir)")
	cmd.Flags().StringVar(&opts.Format, "format", "json", "output format (json|xlsx)")
	_ = cmd.MarkFlagRequired("dir")
	return cmd
}

func runBatch(cmd *cobra.Command, root *rootOptions, opts *batchOptions) error {
	if opts.Format != "json" && opts.Format != "xlsx" {
		return fmt.Errorf("invalid format %q: must be json or xlsx", opts.Format)
	}
	if opts.Out == "" {
		opts.Out = filepath.Join(filepath.Dir(filepath.Clean(opts.Dir)), "bids."+opts.Format)
	}

	logger := newLogger(os.Stderr, true, root.Verbose)
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	paths, stats, err := ingest.ScanDirectory(ctx, opts.Dir)
	if err != nil {
		return err
	}
	logger.Info("scan complete", "dir", opts.Dir, "scanned", stats.Scanned, "matched", stats.Matched, "skipped", stats.Skipped)

	docs := make([]pipeline.Document, len(paths))
	for i, p := range paths {
		docs[i] = pipeline.Document{Name: filepath.Base(p), Path: p}
	}
	records := newProcessor(cfg, logger).ProcessBatch(ctx, docs)

	sess := review.NewSession(records)
	sess.NotificationTTL = cfg.Review.NotificationTTL
	exporter := export.NewService(logger)

	var buf bytes.Buffer
	switch opts.Format {
	case "xlsx":
		data, err := exporter.ExportXLSX(ctx, sess)
		if err != nil {
			return err
		}
		buf.Write(data)
	default:
		if err := exporter.WriteJSON(&buf, sess, time.Now()); err != nil {
			return err
		}
	}
	if err := os.WriteFile(opts.Out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.Out, err)
	}

	failures, missing := 0, 0
	for _, r := range records {
		if r.Error != "" {
			failures++
		}
		if review.NeedsReview(r) {
			missing++
		}
	}
	logger.Info("batch processing complete", "files", len(docs), "failures", failures, "output_file", opts.Out)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Batch processing complete!\n")
	fmt.Fprintf(out, "- Files processed: %d\n", len(docs))
	fmt.Fprintf(out, "- Failures: %d\n", failures)
	fmt.Fprintf(out, "- Missing data: %d\n", missing)
	fmt.Fprintf(out, "- Output: %s\n", opts.Out)
	return nil
}
