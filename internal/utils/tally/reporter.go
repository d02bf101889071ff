package tally

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/uber-go/tally/v4"
	promreporter "github.com/uber-go/tally/v4/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/deeper-chain/deeper-archive/internal/config"
	"github.com/deeper-chain/deeper-archive/internal/utils/log"
)

type (
	ReporterParams struct {
		fx.In
		Logger *zap.Logger
	}

	ReporterResult struct {
		fx.Out
		Reporter tally.CachedStatsReporter
		Handler  http.Handler `name:"metrics"`
	}

	MetricsServerParams struct {
		fx.In
		Lifecycle fx.Lifecycle
		Config    *config.Config
		Logger    *zap.Logger
		Handler   http.Handler `name:"metrics"`
	}
)

const (
	metricsPath       = "/metrics"
	readHeaderTimeout = 5 * time.Second
)

// NewPrometheusReporter exposes the tally metrics, plus the Go runtime collectors, on a dedicated registry.
func NewPrometheusReporter(params ReporterParams) ReporterResult {
	logger := log.WithPackage(params.Logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	reporter := promreporter.NewReporter(promreporter.Options{
		Registerer:       registry,
		Gatherer:         registry,
		DefaultTimerType: promreporter.HistogramTimerType,
		OnRegisterError: func(err error) {
			logger.Warn("failed to register metric", zap.Error(err))
		},
	})

	return ReporterResult{
		Reporter: reporter,
		Handler:  reporter.HTTPHandler(),
	}
}

// RegisterMetricsServer serves the metrics handler on the configured bind address.
func RegisterMetricsServer(params MetricsServerParams) {
	logger := log.WithPackage(params.Logger)

	mux := http.NewServeMux()
	mux.Handle(metricsPath, params.Handler)
	server := &http.Server{
		Addr:              params.Config.Server.BindAddress,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info("serving metrics", zap.String("address", server.Addr))
				if err := server.ListenAndServe(); err != nil && !xerrors.Is(err, http.ErrServerClosed) {
					logger.Error("metrics server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return server.Shutdown(ctx)
		},
	})
}
