package service

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eregistrar/eregistrar-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation for the API and
// the request lifecycle.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	createdTotal    prometheus.Counter
	transitionTotal *prometheus.CounterVec
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	createdTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "document_requests_created_total",
		Help: "Total number of document requests created",
	})

	transitionTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "document_request_transitions_total",
		Help: "Lifecycle transitions applied to document requests",
	}, []string{"to"})

	registry.MustRegister(requestDuration, requestTotal, createdTotal, transitionTotal)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		createdTotal:    createdTotal,
		transitionTotal: transitionTotal,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records one served HTTP request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if s == nil {
		return
	}
	labels := []string{method, path, fmt.Sprintf("%d", status)}
	s.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(labels...).Inc()
}

// ObserveRequestCreated counts a newly submitted document request.
func (s *MetricsService) ObserveRequestCreated() {
	if s == nil {
		return
	}
	s.createdTotal.Inc()
}

// ObserveTransition counts a lifecycle transition by target state.
func (s *MetricsService) ObserveTransition(to models.RequestStatus) {
	if s == nil {
		return
	}
	s.transitionTotal.WithLabelValues(string(to)).Inc()
}
