package batch

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Task outcomes, used as the "result" label.
const (
	ResultGenerated = "generated"
	ResultSkipped   = "skipped"
	ResultFailed    = "failed"
)

// Metrics holds the Prometheus metrics of the batch driver.
type Metrics struct {
	Tasks    *prometheus.CounterVec
	Duration prometheus.Histogram
}

// NewMetrics creates the driver metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Tasks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trellisbatch_tasks_total",
			Help: "Total number of generation tasks by result",
		}, []string{"result"}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "trellisbatch_task_duration_seconds",
			Help:    "Time spent running and exporting one generation task",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
	reg.MustRegister(m.Tasks, m.Duration)
	return m
}

func (m *Metrics) observe(result string) {
	if m == nil {
		return
	}
	m.Tasks.WithLabelValues(result).Inc()
}
