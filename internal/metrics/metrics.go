package metrics

import (
	"atm-simulator/internal/repository"
	"atm-simulator/internal/services"
	"atm-simulator/internal/utils"
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeFatal    = "fatal"
)

type MetricsCollector struct {
	registry        *prometheus.Registry
	operations      *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	lockouts        prometheus.Counter
	persistFailures prometheus.Counter
}

func NewMetricsCollector() *MetricsCollector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &MetricsCollector{
		registry: registry,
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "atm_operations_total",
			Help: "Handled ATM actions by action and outcome",
		}, []string{"action", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "atm_operation_duration_seconds",
			Help:    "Time taken to handle an ATM action",
			Buckets: prometheus.DefBuckets,
		}, []string{"action"}),
		lockouts: factory.NewCounter(prometheus.CounterOpts{
			Name: "atm_account_lockouts_total",
			Help: "Accounts locked after too many wrong passwords",
		}),
		persistFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "atm_persist_failures_total",
			Help: "Store saves or loads that failed",
		}),
	}
}

// ObserveAction implements session.Observer.
func (m *MetricsCollector) ObserveAction(action string, err error, elapsed time.Duration) {
	m.operations.WithLabelValues(action, Outcome(err)).Inc()
	m.duration.WithLabelValues(action).Observe(elapsed.Seconds())

	if errors.Is(err, services.ErrWrongPassword) && errors.Is(err, services.ErrAccountLocked) {
		m.lockouts.Inc()
	}
	if errors.Is(err, repository.ErrPersist) {
		m.persistFailures.Inc()
	}
}

func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, repository.ErrPersist):
		return OutcomeFatal
	default:
		return OutcomeRejected
	}
}

func (m *MetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}

// RequestHandler serves /metrics and /health.
func (m *MetricsCollector) RequestHandler() fasthttp.RequestHandler {
	metricsHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	return func(ctx *fasthttp.RequestCtx) {
		switch string(ctx.Path()) {
		case "/metrics":
			metricsHandler(ctx)
		case "/health":
			ctx.SetContentType("text/plain; charset=utf-8")
			ctx.SetBodyString("ok")
		default:
			ctx.Error("not found", fasthttp.StatusNotFound)
		}
	}
}

// Serve listens on addr until ctx is done.
func (m *MetricsCollector) Serve(ctx context.Context, addr string) error {
	server := &fasthttp.Server{
		Handler:      m.RequestHandler(),
		Name:         "atm-metrics",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		utils.LogInfo("Metrics", "metrics server listening on %s", addr)
		errCh <- server.ListenAndServe(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		utils.LogInfo("Metrics", "shutting down metrics server")
		return server.Shutdown()
	}
}
