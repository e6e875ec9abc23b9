package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ravisuresh229/bidbook/internal/llm"
)

// newTextCommand runs the stages for one file and prints what each produced.
func newTextCommand(root *rootOptions) *cobra.Command {
	var fields bool
	cmd := &cobra.Command{
		Use:   "text <file.pdf>",
		Short: "Print the extracted text of one proposal (and optionally its fields)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(os.Stderr, true, root.Verbose)
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			path := args[0]
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			start := time.Now()
			res, err := newTextExtractor(cfg, logger).Extract(ctx, path)
			if err != nil {
				logger.Error("text extraction failed", "path", path, "error", err, "duration_ms", time.Since(start).Milliseconds())
				return err
			}
			logger.Info("text extraction OK",
				"method", res.Method,
				"pages", res.Pages,
				"bytes", len(res.Text),
				"warnings", len(res.Warnings),
				"duration_ms", time.Since(start).Milliseconds(),
			)
			if !fields {
				fmt.Fprintln(out, res.Text)
				return nil
			}

			name := filepath.Base(path)
			x, raw, err := newFieldExtractor(cfg, logger).ExtractFields(ctx, llm.ExtractRequest{
				Text:     res.Text,
				Method:   res.Method,
				Filename: name,
			})
			if err != nil {
				return err
			}
			logger.Debug("llm raw answer", "body", string(raw))

			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(llm.Refine(x).ToRecord(name, res.Method))
		},
	}
	cmd.Flags().BoolVar(&fields, "fields", false, "also run field extraction and print the record")
	return cmd
}
