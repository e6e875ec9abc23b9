package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ravisuresh229/bidbook/internal/export"
	"github.com/ravisuresh229/bidbook/internal/server"
)

const shutdownTimeout = 15 * time.Second

func newServeCommand(root *rootOptions) *cobra.Command {
	var httpAddr, grpcAddr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (and the gRPC health endpoint)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger(os.Stderr, false, root.Verbose)
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.HTTPAddr = httpAddr
			}
			if cmd.Flags().Changed("grpc-addr") {
				cfg.Server.GRPCAddr = grpcAddr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			api := server.New(server.Deps{
				Config:          cfg.Server,
				NotificationTTL: cfg.Review.NotificationTTL,
				Processor:       newProcessor(cfg, logger),
				Exporter:        export.NewService(logger),
				Logger:          logger,
			})
			httpSrv := &http.Server{
				Addr:              cfg.Server.HTTPAddr,
				Handler:           api.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 2)
			go func() {
				logger.Info("HTTP serving", "addr", cfg.Server.HTTPAddr, "origins", server.AllowedOrigins(cfg.Server))
				if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			grpcSrv, health := server.NewHealthServer()
			if cfg.Server.GRPCAddr != "" {
				lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
				if err != nil {
					return err
				}
				go func() {
					logger.Info("gRPC health serving", "addr", cfg.Server.GRPCAddr)
					if err := grpcSrv.Serve(lis); err != nil {
						errCh <- err
					}
				}()
			}

			var serveErr error
			select {
			case <-ctx.Done():
			case serveErr = <-errCh:
				logger.Error("server failed", "error", serveErr)
			}

			logger.Info("shutting down...")
			health.Shutdown()
			grpcSrv.GracefulStop()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := httpSrv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			logger.Info("stopped")
			return serveErr
		},
	}
	cmd.Flags().StringVar(&httpAddr, "addr", "", "HTTP listen address (overrides HTTP_ADDR)")
	cmd.Flags().StringVar(&grpcAddr, "grpc-addr", "", "gRPC health listen address, empty disables (overrides GRPC_ADDR)")
	return cmd
}
