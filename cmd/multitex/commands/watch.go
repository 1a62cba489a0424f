package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/multitex/internal/logfields"
	"git.home.luguber.info/inful/multitex/internal/metrics"
	"git.home.luguber.info/inful/multitex/internal/watch"
)

// WatchCmd regenerates variants on every change to the source.
type WatchCmd struct {
	RunFlags `embed:""`

	Debounce    time.Duration `default:"500ms" help:"Quiet period after a change before regenerating"`
	MetricsAddr string        `name:"metrics-addr" help:"Serve Prometheus metrics on this address (e.g. :9090)"`
}

func (c *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	s, err := c.newSession(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			slog.Warn("Failed to close history store", logfields.Error(cerr))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if c.MetricsAddr != "" {
		reg := prom.NewRegistry()
		s.runner.WithRecorder(metrics.NewPrometheusRecorder(reg))
		srv := &http.Server{
			Addr:              c.MetricsAddr,
			Handler:           metricsMux(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			slog.Info("Serving metrics", "addr", c.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("Metrics server failed", logfields.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	w, err := watch.New(c.Tex, func(ctx context.Context) error {
		report, err := s.run(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(g.Out, "Generated %d file(s) in %s\n", len(report.Files), c.Dir)
		return nil
	}, c.Debounce)
	if err != nil {
		return err
	}
	return w.Run(ctx)
}

func metricsMux(reg *prom.Registry) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(reg))
	return mux
}
