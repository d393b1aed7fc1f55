package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"LSLViewPoint/pkg/async"
	"LSLViewPoint/pkg/bridge"
	"LSLViewPoint/pkg/config"
	"LSLViewPoint/pkg/device"
	"LSLViewPoint/pkg/stream"
)

func runStream(cmd *cobra.Command, g globalFlags, s streamFlags) error {
	logger, err := g.logger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	store, err := g.store(logger)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	streamMetrics := stream.NewMetrics(reg)

	var network stream.Network
	if s.dryRun {
		network = &stream.Recorder{Logger: logger.Named("dry_run"), Metrics: streamMetrics}
	} else {
		server, err := stream.NewServer(stream.ServerOptions{
			Interface: s.iface,
			Discovery: !s.noDiscovery,
			Logger:    logger,
			Metrics:   streamMetrics,
		})
		if err != nil {
			return err
		}
		defer server.Close()
		network = server
	}

	open := device.OpenVPX
	if s.simulate {
		open = simulatedOpener(store)
	}

	b, err := bridge.Start(bridge.Options{
		Config:    store,
		Open:      open,
		Network:   network,
		SplitEyes: s.splitEyes,
		Logger:    logger,
		Metrics:   bridge.NewMetrics(reg),
	})
	if err != nil {
		return err
	}
	defer b.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if s.stopOnEnter {
		logger.Info("press Enter to stop")
		enter := async.Line(cmd.InOrStdin())
		async.Job(func() {
			select {
			case <-enter:
				stop()
			case <-ctx.Done():
			}
		})
	}

	var done []<-chan struct{}
	if s.metricsAddr != "" {
		done = append(done, serveMetrics(ctx, s.metricsAddr, reg, logger))
	}
	if s.statusInterval > 0 {
		done = append(done, logStatus(ctx, s.statusInterval, b, logger))
	}

	<-ctx.Done()
	logger.Info("shutting_down")
	<-async.Gather0(done...)
	return nil
}

// the simulated driver ticks at the configured rate
func simulatedOpener(store *config.Store) device.Opener {
	return func(path string) (device.Driver, error) {
		cfg, err := store.Load()
		if err != nil {
			return nil, err
		}
		return device.OpenSimulated(cfg.SamplingRate)(path)
	}
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, logger *zap.Logger) <-chan struct{} {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	serving := async.Job(func() {
		logger.Info("metrics_listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics_server_failed", zap.Error(err))
		}
	})
	return async.Job(func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		<-serving
	})
}

func logStatus(ctx context.Context, interval time.Duration, b *bridge.Bridge, logger *zap.Logger) <-chan struct{} {
	var last bridge.Stats
	return async.Every(interval, ctx.Done(), func() {
		s := b.Stats()
		rate := float64(s.Pushed-last.Pushed) / interval.Seconds()
		logger.Info("status",
			zap.String("pushed", humanize.Comma(int64(s.Pushed))),
			zap.String("rate", humanize.FormatFloat("#,###.#", rate)+" Hz"),
			zap.String("ignored", humanize.Comma(int64(s.Ignored))),
			zap.String("failed", humanize.Comma(int64(s.Failed))),
		)
		last = s
	})
}
