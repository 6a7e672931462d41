package web

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the dashboard server.
type Metrics struct {
	Requests       *prometheus.CounterVec
	RenderDuration prometheus.Histogram
	ViewRows       prometheus.Gauge
	Downloads      *prometheus.CounterVec
	ChartRenders   *prometheus.CounterVec
	LoadFailures   prometheus.Counter
}

// NewMetrics registers every dashboard metric with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_http_requests_total",
			Help: "HTTP requests by route pattern and status code",
		}, []string{"route", "code"}),
		RenderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "dashboard_render_duration_seconds",
			Help:    "Duration of one filter, metrics, charts and insights pass",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		ViewRows: factory.NewGauge(prometheus.GaugeOpts{
			Name: "dashboard_view_rows",
			Help: "Rows in the most recently rendered filtered view",
		}),
		Downloads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_downloads_total",
			Help: "Filtered data downloads by format",
		}, []string{"format"}),
		ChartRenders: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_chart_renders_total",
			Help: "Server-side chart renders by chart name",
		}, []string{"chart"}),
		LoadFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_data_unavailable_total",
			Help: "Requests refused because the dataset could not be loaded",
		}),
	}
}

// ObserveRender records the duration and size of one render pass.
// Call with time.Now() at the start of the pass.
func (m *Metrics) ObserveRender(start time.Time, rows int) {
	m.RenderDuration.Observe(time.Since(start).Seconds())
	m.ViewRows.Set(float64(rows))
}
