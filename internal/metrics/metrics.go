package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "kontrib_http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kontrib_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kontrib_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// ContributionsSubmitted counts contributions entering the pending state.
	ContributionsSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "kontrib_contributions_submitted_total",
		Help: "Contributions submitted for review.",
	})

	// ContributionsResolved counts terminal transitions by resulting status.
	ContributionsResolved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kontrib_contributions_resolved_total",
			Help: "Contributions confirmed or rejected.",
		},
		[]string{"status"},
	)

	// OTPSent counts OTP dispatch attempts by result.
	OTPSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kontrib_otp_sent_total",
			Help: "OTP dispatch attempts.",
		},
		[]string{"result"},
	)

	// OTPVerifications counts OTP verification outcomes.
	OTPVerifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kontrib_otp_verifications_total",
			Help: "OTP verification attempts.",
		},
		[]string{"result"},
	)

	// NotificationFailures counts notifications that could not be persisted.
	NotificationFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "kontrib_notification_failures_total",
		Help: "Notifications dropped because they could not be stored.",
	})
)

// Init registers all collectors with the default registry.
func Init() {
	prometheus.MustRegister(
		httpInFlight, httpRequestsTotal, httpRequestDuration,
		ContributionsSubmitted, ContributionsResolved,
		OTPSent, OTPVerifications, NotificationFailures,
	)
}

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Instrument records request count, latency and in-flight gauge.
// Routes are labelled with the chi pattern to keep cardinality bounded.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpInFlight.Inc()
		defer httpInFlight.Dec()
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)

		status := strconv.Itoa(sw.code)
		route := RoutePattern(r)
		httpRequestDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(r.Method, route, status).Inc()
	})
}

// RoutePattern returns the matched chi route pattern, or "unmatched".
func RoutePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
