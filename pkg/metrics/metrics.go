package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics - счётчики экрана "Протоколы Base". Собственный реестр, чтобы тесты
// могли создавать сколько угодно экземпляров.
type Metrics struct {
	registry *prometheus.Registry

	suggestionRequests *prometheus.CounterVec
	suggestionErrors   *prometheus.CounterVec
	suggestionDuration *prometheus.HistogramVec
	protocolSaves      *prometheus.CounterVec
	equipmentLinks     *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		suggestionRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "base_protocols_suggestion_requests_total",
			Help: "Количество запросов к сервису подсказок.",
		}, []string{"provider", "operation"}),
		suggestionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "base_protocols_suggestion_errors_total",
			Help: "Количество неудачных запросов к сервису подсказок.",
		}, []string{"provider", "operation"}),
		suggestionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "base_protocols_suggestion_duration_seconds",
			Help:    "Длительность запросов к сервису подсказок.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"provider", "operation"}),
		protocolSaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "base_protocols_saves_total",
			Help: "Сохранения базовых протоколов.",
		}, []string{"mode", "result"}),
		equipmentLinks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "base_protocols_equipment_link_changes_total",
			Help: "Ручные отвязки и повторные привязки оборудования.",
		}, []string{"action"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.suggestionRequests,
		m.suggestionErrors,
		m.suggestionDuration,
		m.protocolSaves,
		m.equipmentLinks,
	)
	return m
}

// ObserveSuggestion фиксирует один вызов сервиса подсказок.
func (m *Metrics) ObserveSuggestion(provider, operation string, took time.Duration, err error) {
	m.suggestionRequests.WithLabelValues(provider, operation).Inc()
	m.suggestionDuration.WithLabelValues(provider, operation).Observe(took.Seconds())
	if err != nil {
		m.suggestionErrors.WithLabelValues(provider, operation).Inc()
	}
}

// ProtocolSaved - mode: "grouping" | "editor", result: "created" | "updated".
func (m *Metrics) ProtocolSaved(mode string, created bool) {
	result := "updated"
	if created {
		result = "created"
	}
	m.protocolSaves.WithLabelValues(mode, result).Inc()
}

// EquipmentLinkChanged - action: "unlink" | "relink".
func (m *Metrics) EquipmentLinkChanged(action string) {
	m.equipmentLinks.WithLabelValues(action).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler отдаёт метрики в формате Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
