package stream

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := &Recorder{Metrics: NewMetrics(reg)}

	out, err := r.NewOutlet(NewInfo("s", "Gaze", []string{"a", "b"}, 60, "src"))
	require.NoError(t, err)

	values := []float64{1, 2}
	require.NoError(t, out.PushSample(values, 0.5))
	values[0] = 9
	require.NoError(t, out.PushSample(values, 0.75))
	assert.ErrorIs(t, out.PushSample([]float64{1}, 1), ErrChannelCount)

	track := r.Track()
	require.Len(t, track, 2)
	assert.Equal(t, Sample{Stream: "s", Timestamp: 0.5, Values: []float64{1, 2}}, track[0])
	assert.Equal(t, []float64{9, 2}, track[1].Values)
	assert.Equal(t, 2.0, testutil.ToFloat64(r.Metrics.SamplesPushed.WithLabelValues("s")))

	require.NoError(t, out.Close())
	assert.ErrorIs(t, out.PushSample(values, 1), ErrClosed)
	assert.ErrorIs(t, out.Close(), ErrClosed)
	assert.Equal(t, 1, r.Closed())
	assert.Len(t, r.Infos(), 1)
}

func TestRecorderRejectsInvalidInfo(t *testing.T) {
	r := &Recorder{}
	_, err := r.NewOutlet(Info{Name: "s", Format: FormatDouble64})
	assert.ErrorIs(t, err, ErrInvalidInfo)
	assert.Empty(t, r.Infos())
}
