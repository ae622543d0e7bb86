package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotel", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hotel", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	ExternalRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotel", Name: "external_requests_total", Help: "Calls to stripe, s3 and the identity provider."},
		[]string{"service", "endpoint", "status"},
	)
	ExternalLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hotel", Name: "external_request_duration_seconds",
			Help:    "Outbound request duration seconds.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 15},
		},
		[]string{"service", "endpoint"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotel", Name: "cache_events_total", Help: "Cache events by key prefix."},
		[]string{"namespace", "event"}, // event: hit|miss|corrupt|set|del
	)
	ReconcileOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotel", Name: "booking_reconcile_total", Help: "Booking reconciliation outcomes."},
		[]string{"outcome"}, // created|updated|unauthorized|conflict|error
	)
	OrphanIntents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotel", Name: "orphaned_payment_intents_total", Help: "Payment intents issued without a booking row."},
		[]string{"action"}, // cancelled|queued|requeued|skipped
	)
	OrphanBacklog = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: "hotel", Name: "orphaned_payment_intents_pending", Help: "Intents waiting for the sweeper."},
	)
	SweepDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hotel", Name: "sweep_duration_seconds",
			Help:    "Orphan sweep run duration.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"result"}, // ok|error
	)
)

// Serve exposes the registry on addr for processes without an HTTP router of
// their own (the sweeper). Empty addr disables it.
func Serve(addr string) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(InitRegistry()))

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		HTTPRequests, HTTPLatency,
		ExternalRequests, ExternalLatency,
		CacheEvents,
		ReconcileOutcomes,
		OrphanIntents, OrphanBacklog, SweepDuration,
	)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

// ObserveExternal records one outbound call; status 0 means no response.
func ObserveExternal(service, endpoint string, status int, dur time.Duration) {
	ExternalRequests.WithLabelValues(service, endpoint, strconv.Itoa(status)).Inc()
	ExternalLatency.WithLabelValues(service, endpoint).Observe(dur.Seconds())
}

func ObserveCache(namespace, event string) {
	CacheEvents.WithLabelValues(namespace, event).Inc()
}

func ObserveReconcile(outcome string) {
	ReconcileOutcomes.WithLabelValues(outcome).Inc()
}

func ObserveOrphan(action string) {
	OrphanIntents.WithLabelValues(action).Inc()
}

// ObserveSweep records one sweeper run and the backlog left after it.
func ObserveSweep(err error, dur time.Duration, pending int64) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	SweepDuration.WithLabelValues(result).Observe(dur.Seconds())
	if pending >= 0 {
		OrphanBacklog.Set(float64(pending))
	}
}
