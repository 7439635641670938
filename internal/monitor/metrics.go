// internal/monitor/metrics.go
package monitor

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/MTTPoll/Lambda-Heatpump-Test/internal/poller"
	"github.com/MTTPoll/Lambda-Heatpump-Test/internal/status"
)

// Cycle outcomes used as the "result" label.
const (
	ResultOK      = "ok"
	ResultPartial = "partial"
	ResultFailed  = "failed"
)

// Monitor owns the poller metrics and the HTTP endpoint that serves them.
type Monitor struct {
	pollCycles        *prometheus.CounterVec
	pollDuration      *prometheus.HistogramVec
	registerErrors    *prometheus.CounterVec
	deviceHealth      *prometheus.GaugeVec
	readingsAvailable *prometheus.GaugeVec

	log logrus.FieldLogger
}

// New creates the metrics and registers them on reg.
func New(reg prometheus.Registerer, log logrus.FieldLogger) (*Monitor, error) {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	m := &Monitor{
		pollCycles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "heatpump_poll_cycles_total",
				Help: "Poll cycles by outcome",
			},
			[]string{"device", "result"},
		),
		pollDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "heatpump_poll_duration_seconds",
				Help:    "Duration of completed poll cycles",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"device"},
		),
		registerErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "heatpump_register_read_errors_total",
				Help: "Readings that were unavailable in a completed cycle",
			},
			[]string{"device", "sensor"},
		),
		deviceHealth: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "heatpump_device_health",
				Help: "Device health code (0 unknown, 1 ok, 2 error, 3 stale, 4 disabled)",
			},
			[]string{"device"},
		),
		readingsAvailable: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "heatpump_readings_available",
				Help: "Readings available in the last completed cycle",
			},
			[]string{"device"},
		),
		log: log,
	}

	for _, c := range []prometheus.Collector{
		m.pollCycles,
		m.pollDuration,
		m.registerErrors,
		m.deviceHealth,
		m.readingsAvailable,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// ObserveCycle records one poll cycle of device.
func (m *Monitor) ObserveCycle(device string, c poller.Cycle) {
	if c.Err != nil {
		m.pollCycles.WithLabelValues(device, ResultFailed).Inc()
		return
	}

	failed := c.Result.Failed()
	result := ResultOK
	if len(failed) > 0 {
		result = ResultPartial
	}

	m.pollCycles.WithLabelValues(device, result).Inc()
	m.pollDuration.WithLabelValues(device).Observe(c.Result.Duration.Seconds())
	m.readingsAvailable.WithLabelValues(device).Set(float64(len(c.Result.Order) - len(failed)))

	for _, name := range failed {
		m.registerErrors.WithLabelValues(device, name).Inc()
	}
}

// ObserveHealth records the health code of a snapshot.
func (m *Monitor) ObserveHealth(s status.Snapshot) {
	m.deviceHealth.WithLabelValues(s.Device).Set(float64(s.Health))
}

// Handler serves /metrics from g and /health from health.
// health returns false when no device is usable.
func (m *Monitor) Handler(g prometheus.Gatherer, health func() bool) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))

	// health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if health != nil && !health() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("UNAVAILABLE"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return mux
}

// StartServer serves h on listen until ctx ends.
func (m *Monitor) StartServer(ctx context.Context, listen string, h http.Handler) {
	srv := &http.Server{
		Addr:              listen,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	m.log.Infof("metrics server listening on %s", listen)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.log.Errorf("metrics server error: %v", err)
		}
	}()

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()
}
