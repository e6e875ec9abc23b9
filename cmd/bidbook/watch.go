package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ravisuresh229/bidbook/internal/async"
	"github.com/ravisuresh229/bidbook/internal/ingest"
	"github.com/ravisuresh229/bidbook/internal/pipeline"
)

const drainTimeout = 30 * time.Second

func newWatchCommand(root *rootOptions) *cobra.Command {
	var (
		dirs     []string
		out      string
		existing bool
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Process proposal PDFs as they land in a directory, appending JSON lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger(os.Stderr, true, root.Verbose)
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				f, err := os.OpenFile(out, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
				if err != nil {
					return fmt.Errorf("open %s: %w", out, err)
				}
				defer func() { _ = f.Close() }()
				w = f
			}
			var mu sync.Mutex
			enc := json.NewEncoder(w)
			sink := func(r async.Result) {
				mu.Lock()
				defer mu.Unlock()
				if err := enc.Encode(r.Record); err != nil {
					logger.Error("write record", "file", r.Job.Doc.Name, "error", err)
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			paths, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
				Roots:       dirs,
				InitialScan: existing,
				Debounce:    debounce,
				Logger:      logger,
			})
			if err != nil {
				return err
			}
			queue := async.NewProcessorQueue(newProcessor(cfg, logger), sink, logger,
				async.WithWorkers(cfg.Process.Concurrency),
				async.WithProcessTimeout(cfg.Process.DocumentTimeout),
			)
			defer func() {
				drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
				defer cancel()
				queue.Shutdown(drainCtx)
			}()
			logger.Info("watching", "dirs", dirs, "out", out)

			for {
				select {
				case <-ctx.Done():
					logger.Info("watch stopped")
					return nil
				case err, ok := <-errs:
					if !ok {
						errs = nil
						continue
					}
					logger.Warn("watcher error", "error", err)
				case p, ok := <-paths:
					if !ok {
						return nil
					}
					doc := pipeline.Document{Name: filepath.Base(p), Path: p}
					if err := queue.Enqueue(ctx, doc); err != nil {
						logger.Warn("enqueue failed", "file", doc.Name, "error", err)
					}
				}
			}
		},
	}
	cmd.Flags().StringSliceVar(&dirs, "dir", nil, "directory to watch, repeatable (required)")
	cmd.Flags().StringVar(&out, "out", "", "append JSON lines here instead of stdout")
	cmd.Flags().BoolVar(&existing, "existing", true, "process PDFs already present at startup")
	cmd.Flags().DurationVar(&debounce, "debounce", 750*time.Millisecond, "quiet period before a changed file is processed")
	_ = cmd.MarkFlagRequired("dir")
	return cmd
}
