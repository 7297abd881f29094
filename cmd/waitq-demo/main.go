// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command waitq-demo runs the device → worker → collector pipeline and prints
// the resulting data report.
//
//	waitq-demo --devices 10 --workers 2 --samples 20 --metrics-addr :9090
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"code.hybscloud.com/waitq/internal/demo"
	"code.hybscloud.com/waitq/metrics"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := demo.DefaultConfig()
	var (
		logLevel    string
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:          "waitq-demo",
		Short:        "Run a multi-producer pipeline over waitq queues",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := newLogger(logLevel)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck
			cfg.Log = log

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cmd, cfg, metricsAddr)
		},
	}

	f := cmd.Flags()
	f.IntVar(&cfg.Devices, "devices", cfg.Devices, "number of producing devices, one centile each")
	f.IntVar(&cfg.Workers, "workers", cfg.Workers, "number of consuming workers")
	f.IntVar(&cfg.Samples, "samples", cfg.Samples, "values produced per device")
	f.IntVar(&cfg.Batch, "batch", cfg.Batch, "values per report line")
	f.DurationVar(&cfg.Interval, "interval", cfg.Interval, "pause between two values of one device")
	f.BoolVar(&cfg.Poll, "poll", cfg.Poll, "workers poll with TryPop instead of blocking in WaitAndPop")
	f.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "random seed for device values")
	f.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	f.StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")
	return cmd
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("--log-level: %w", err)
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}

func run(ctx context.Context, cmd *cobra.Command, cfg demo.Config, metricsAddr string) error {
	p, err := demo.New(cfg)
	if err != nil {
		return err
	}

	if metricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			metrics.NewCollector("demo", "samples", p.Samples()),
			metrics.NewCollector("demo", "lines", p.Lines()),
		)
		shutdown, err := serveMetrics(cfg.Log, metricsAddr, reg)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	report, err := p.Run(ctx)
	if _, werr := report.WriteTo(cmd.OutOrStdout()); werr != nil {
		return werr
	}
	if errors.Is(err, context.Canceled) {
		cfg.Log.Warn("Interrupted; report is partial")
		return nil
	}
	return err
}

func serveMetrics(log *zap.Logger, addr string, reg *prometheus.Registry) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("--metrics-addr: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Metrics server", zap.Error(err))
		}
	}()
	log.Info("Serving metrics", zap.Stringer("addr", ln.Addr()))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Warn("Metrics server shutdown", zap.Error(err))
		}
	}, nil
}
