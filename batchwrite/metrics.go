package batchwrite

import "github.com/prometheus/client_golang/prometheus"

// Retry reasons used as the "reason" label of writeall_retries_total.
const (
	ReasonUnprocessed = "unprocessed"
	ReasonError       = "error"
)

// Metrics holds the Prometheus collectors a Writer updates.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Calls        *prometheus.CounterVec
	Retries      *prometheus.CounterVec
	ItemsWritten *prometheus.CounterVec
	Failures     *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// Pass nil to create unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "writeall_calls_total",
			Help: "BatchWriteItem calls issued, by table.",
		}, []string{"table"}),
		Retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "writeall_retries_total",
			Help: "Calls re-issued, by table and reason (unprocessed or error).",
		}, []string{"table", "reason"}),
		ItemsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "writeall_items_written_total",
			Help: "Write requests confirmed committed, by table.",
		}, []string{"table"}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "writeall_failures_total",
			Help: "Chunks that ended in a terminal error, by table.",
		}, []string{"table"}),
	}
	if reg != nil {
		reg.MustRegister(m.Calls, m.Retries, m.ItemsWritten, m.Failures)
	}
	return m
}

func (m *Metrics) call(table string) {
	if m == nil {
		return
	}
	m.Calls.WithLabelValues(table).Inc()
}

func (m *Metrics) retry(table, reason string) {
	if m == nil {
		return
	}
	m.Retries.WithLabelValues(table, reason).Inc()
}

func (m *Metrics) written(table string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ItemsWritten.WithLabelValues(table).Add(float64(n))
}

func (m *Metrics) failure(table string) {
	if m == nil {
		return
	}
	m.Failures.WithLabelValues(table).Inc()
}
