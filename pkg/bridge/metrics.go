package bridge

import "github.com/prometheus/client_golang/prometheus"

const (
	resultPushed  = "pushed"
	resultIgnored = "ignored"
	resultFailed  = "failed"
)

// Metrics counts driver callbacks by outcome. A nil *Metrics records nothing.
type Metrics struct {
	Callbacks *prometheus.CounterVec
	Latency   prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Callbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lslviewpoint_callbacks_total",
			Help: "Driver callbacks by result.",
		}, []string{"result"}),
		Latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "lslviewpoint_acquisition_delay_seconds",
			Help:    "Delay between acquisition by the tracker and the push of a sample.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Callbacks, m.Latency)
	}
	return m
}

func (m *Metrics) callback(result string) {
	if m != nil {
		m.Callbacks.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) delay(seconds float64) {
	if m != nil {
		m.Latency.Observe(seconds)
	}
}
