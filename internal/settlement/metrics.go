package settlement

import "github.com/prometheus/client_golang/prometheus"

// Metrics is the settlement counters surface: a per-cause invalid
// counter and a success counter. Apply increments the invalid counter
// for each order it fails and the success counter once per completed
// call; CheckValid takes no Metrics, so its rejections (structural
// codes and SourceAccountInvalid) are not counted.
type Metrics struct {
	invalid *prometheus.CounterVec
	success prometheus.Counter
}

// NewMetrics registers the settlement counters against reg. Passing a
// fresh *prometheus.Registry per test (rather than relying on the
// global default registry) keeps repeated construction in unit tests
// from panicking on duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		invalid: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "op_settlement_invalid_total",
			Help: "Settlement matched orders rejected, by cause.",
		}, []string{"cause"}),
		success: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "op_settlement_success_apply",
			Help: "Settlement operations that completed apply().",
		}),
	}
	reg.MustRegister(m.invalid, m.success)
	return m
}

// IncInvalid increments the counter for the given non-Success cause.
// Called with Success is a no-op — Success is not a rejection cause.
func (m *Metrics) IncInvalid(code ResultCode) {
	if m == nil || code == Success {
		return
	}
	m.invalid.WithLabelValues(code.metricCause()).Inc()
}

// IncSuccess increments the operation-level success counter.
func (m *Metrics) IncSuccess() {
	if m == nil {
		return
	}
	m.success.Inc()
}
