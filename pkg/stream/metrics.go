package stream

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts outlet traffic per stream name. A nil *Metrics records nothing.
type Metrics struct {
	SamplesPushed *prometheus.CounterVec
	BytesSent     *prometheus.CounterVec
	Consumers     *prometheus.GaugeVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SamplesPushed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lslviewpoint_samples_pushed_total",
			Help: "Samples pushed to an outlet.",
		}, []string{"stream"}),
		BytesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lslviewpoint_bytes_sent_total",
			Help: "Bytes written to stream consumers.",
		}, []string{"stream"}),
		Consumers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "lslviewpoint_consumers",
			Help: "Consumers connected to an outlet.",
		}, []string{"stream"}),
	}
	if reg != nil {
		reg.MustRegister(m.SamplesPushed, m.BytesSent, m.Consumers)
	}
	return m
}

func (m *Metrics) pushed(stream string) {
	if m != nil {
		m.SamplesPushed.WithLabelValues(stream).Inc()
	}
}

func (m *Metrics) sent(stream string, n int) {
	if m != nil && n > 0 {
		m.BytesSent.WithLabelValues(stream).Add(float64(n))
	}
}

func (m *Metrics) consumers(stream string, n int) {
	if m != nil {
		m.Consumers.WithLabelValues(stream).Set(float64(n))
	}
}
