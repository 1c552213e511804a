package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/itay955/Weka.Simulated-Annealing-Based-Attribute-Selection/internal/service"
	"github.com/itay955/Weka.Simulated-Annealing-Based-Attribute-Selection/metrics"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var (
		addr       string
		configFile string
		verbose    bool
	)
	limits := service.DefaultLimits()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve searches over HTTP",
		Long: `Serve POST /v1/search, GET /healthz and GET /metrics.

The request body carries the dataset inline, in the same JSON layout that
"attrsel search" reads from files, next to "class", "evaluator" and either
"params" or "options".

Every request is bounded by --timeout, --max-workers and --max-iterations. A
search cut off by the timeout answers 504.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := applyConfig(cmd.Flags(), configFile); err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr(), verbose, false)

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			obs, err := metrics.New(reg)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           service.Router(logger, obs, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), limits),
				ReadHeaderTimeout: 10 * time.Second,
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "listening on %s\n", addr)
			return listen(cmd.Context(), srv, logger)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&addr, "addr", ":8080", "listen address")
	fs.StringVar(&configFile, "config", "", "read options from a config file")
	fs.BoolVarP(&verbose, "verbose", "v", false, "log every search to stderr")
	fs.DurationVar(&limits.Timeout, "timeout", limits.Timeout, "longest a single search may run (0 = no limit)")
	fs.IntVar(&limits.MaxWorkers, "max-workers", limits.MaxWorkers, "workers a request may use; larger values are lowered (0 = no limit)")
	fs.IntVar(&limits.MaxIterations, "max-iterations", limits.MaxIterations, "iterations a request may ask for (0 = no limit)")
	return cmd
}

// listen runs srv until ctx is done, then drains in-flight searches.
func listen(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
