package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

type Metrics struct {
	registry   *prometheus.Registry
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
	gauges     map[string]*prometheus.GaugeVec
}

func New() *Metrics {
	m := &Metrics{
		registry:   prometheus.NewRegistry(),
		counters:   make(map[string]*prometheus.CounterVec),
		histograms: make(map[string]*prometheus.HistogramVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
	}

	m.counters["weather_requests_total"] = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_requests_total",
			Help: "Total number of weather API requests",
		},
		[]string{"api", "status"},
	)

	m.counters["preference_operations_total"] = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "preference_operations_total",
			Help: "Total number of preference store operations",
		},
		[]string{"op", "status"},
	)

	m.counters["ui_actions_total"] = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ui_actions_total",
			Help: "Total number of user actions handled by the search controller",
		},
		[]string{"action"},
	)

	m.counters["http_requests_total"] = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of local API requests",
		},
		[]string{"route", "status"},
	)

	m.histograms["weather_api_duration_seconds"] = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weather_api_duration_seconds",
			Help:    "Duration of weather API requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"api"},
	)

	m.gauges["weather_requests_in_flight"] = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "weather_requests_in_flight",
			Help: "Number of weather API requests currently in flight",
		},
		[]string{"api"},
	)

	m.registry.MustRegister(collectors.NewGoCollector())
	for _, counter := range m.counters {
		m.registry.MustRegister(counter)
	}
	for _, histogram := range m.histograms {
		m.registry.MustRegister(histogram)
	}
	for _, gauge := range m.gauges {
		m.registry.MustRegister(gauge)
	}

	return m
}

func (m *Metrics) IncrementCounter(name string, labelValues ...string) {
	if counter, exists := m.counters[name]; exists {
		counter.WithLabelValues(labelValues...).Inc()
	}
}

func (m *Metrics) ObserveHistogram(name string, value float64, labelValues ...string) {
	if histogram, exists := m.histograms[name]; exists {
		histogram.WithLabelValues(labelValues...).Observe(value)
	}
}

func (m *Metrics) AddGauge(name string, delta float64, labelValues ...string) {
	if gauge, exists := m.gauges[name]; exists {
		gauge.WithLabelValues(labelValues...).Add(delta)
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// CounterValue returns the current value of a counter series, 0 if absent.
func (m *Metrics) CounterValue(name string, labelValues ...string) float64 {
	counter, exists := m.counters[name]
	if !exists {
		return 0
	}

	c, err := counter.GetMetricWithLabelValues(labelValues...)
	if err != nil {
		return 0
	}

	dtoMetric := &dto.Metric{}
	if err := c.Write(dtoMetric); err != nil || dtoMetric.Counter == nil {
		return 0
	}

	return dtoMetric.Counter.GetValue()
}

// AverageAPIDuration returns the mean weather API latency in milliseconds for an api label.
func (m *Metrics) AverageAPIDuration(api string) float64 {
	histogram, exists := m.histograms["weather_api_duration_seconds"]
	if !exists {
		return 0
	}

	metricChan := make(chan prometheus.Metric, 10)
	go func() {
		histogram.Collect(metricChan)
		close(metricChan)
	}()

	var totalSum float64
	var totalCount uint64

	for metric := range metricChan {
		dtoMetric := &dto.Metric{}
		if err := metric.Write(dtoMetric); err != nil {
			continue
		}

		matches := false
		for _, label := range dtoMetric.Label {
			if label.GetName() == "api" && label.GetValue() == api {
				matches = true
			}
		}

		if matches && dtoMetric.Histogram != nil {
			totalSum += dtoMetric.Histogram.GetSampleSum()
			totalCount += dtoMetric.Histogram.GetSampleCount()
		}
	}

	if totalCount == 0 {
		return 0
	}

	return totalSum / float64(totalCount) * 1000.0
}
