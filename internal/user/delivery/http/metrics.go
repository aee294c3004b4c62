package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/user-favorites/internal/user/domain"
)

// Metrics holds the Prometheus collectors of the HTTP layer
type Metrics struct {
	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	favoriteOps    *prometheus.CounterVec
	users          prometheus.Gauge
	favorites      prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "user_service_requests_total",
				Help: "Total number of requests to user service",
			},
			[]string{"method", "endpoint", "status"},
		),
		requestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "user_service_request_duration_seconds",
				Help:    "Duration of user service requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		favoriteOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "user_service_favorite_operations_total",
				Help: "Favorite add/remove operations by result kind",
			},
			[]string{"operation", "result"},
		),
		users: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "user_service_users",
			Help: "Number of users, refreshed by the stats endpoint",
		}),
		favorites: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "user_service_favorites",
			Help: "Number of favorite edges, refreshed by the stats endpoint",
		}),
	}

	reg.MustRegister(m.requestCounter, m.requestLatency, m.favoriteOps, m.users, m.favorites)
	return m
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records count and latency for one route template
func (m *Metrics) Middleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		m.requestLatency.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
		m.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

func (m *Metrics) observeFavorite(operation string, err error) {
	result := "ok"
	if err != nil {
		result = string(domain.KindOf(err))
		if result == "" {
			result = "error"
		}
	}
	m.favoriteOps.WithLabelValues(operation, result).Inc()
}
