package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics набор prometheus-метрик сервиса
// Каждый экземпляр регистрирует метрики в собственном реестре
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
	DBConnections   *prometheus.GaugeVec

	PushSessions  *prometheus.GaugeVec
	PushDelivered *prometheus.CounterVec
	PushDropped   *prometheus.CounterVec

	BookingTransitions *prometheus.CounterVec
}

// New создает и регистрирует метрики
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		registry: prometheus.NewRegistry(),

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),

		DBQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Database query errors",
			ConstLabels: constLabels,
		}, []string{"operation"}),

		DBConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_connections",
			Help:        "Database connection pool state",
			ConstLabels: constLabels,
		}, []string{"state"}),

		PushSessions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "push_sessions",
			Help:        "Connected push channel sessions",
			ConstLabels: constLabels,
		}, []string{"role"}),

		PushDelivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "push_events_delivered_total",
			Help:        "booking:update events queued to sessions",
			ConstLabels: constLabels,
		}, []string{"role"}),

		PushDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "push_events_dropped_total",
			Help:        "booking:update events dropped",
			ConstLabels: constLabels,
		}, []string{"reason"}),

		BookingTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_transitions_total",
			Help:        "Applied booking lifecycle operations",
			ConstLabels: constLabels,
		}, []string{"operation", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBConnections,
		m.PushSessions,
		m.PushDelivered,
		m.PushDropped,
		m.BookingTransitions,
	)

	return m
}

// Registry возвращает реестр метрик
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler HTTP-обработчик для экспорта метрик
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordTransition учитывает применённую операцию жизненного цикла бронирования
// Безопасен для nil, когда метрики выключены
func (m *Metrics) RecordTransition(operation, status string) {
	if m == nil {
		return
	}
	m.BookingTransitions.WithLabelValues(operation, status).Inc()
}
