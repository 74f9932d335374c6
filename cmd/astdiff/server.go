package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/astdiff/pkg/observability"
	"github.com/Sumatoshi-tech/astdiff/pkg/version"
)

const serverReadHeaderTimeout = 5 * time.Second

func serverCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Serve Prometheus metrics for a long-running astdiff deployment",
		Long: `server starts an HTTP listener exposing a /metrics scrape endpoint
backed by this process's OTel instruments, for environments that poll
telemetry rather than receive it via OTLP push.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			return runServer(cobraCmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":9090", "address to serve /metrics on")

	return cmd
}

func runServer(ctx context.Context, addr string) error {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = observability.ModeServer

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), serverReadHeaderTimeout)
		defer cancel()

		_ = providers.Shutdown(shutdownCtx)
	}()

	mp, handler, err := observability.PrometheusMeterProvider()
	if err != nil {
		return fmt.Errorf("build prometheus meter provider: %w", err)
	}

	meter := mp.Meter("astdiff")

	if _, err := observability.NewDiffMetrics(meter); err != nil {
		return fmt.Errorf("init diff metrics: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, "astdiff %s ok\n", version.Version)
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           observability.HTTPMiddleware(providers.Tracer, providers.Logger, mux),
		ReadHeaderTimeout: serverReadHeaderTimeout,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)

	go func() {
		if serveErr := srv.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errCh <- serveErr

			return
		}

		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), serverReadHeaderTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}

		return nil
	}
}
