package stream

import (
	"sync"

	"go.uber.org/zap"
)

// Sample is one pushed sample as seen by a Recorder.
type Sample struct {
	Stream    string
	Timestamp float64
	Values    []float64
}

// Recorder is a Network that keeps everything pushed to it in memory.
type Recorder struct {
	Logger  *zap.Logger
	Metrics *Metrics

	mu     sync.Mutex
	infos  []Info
	track  []Sample
	closed int
}

func (r *Recorder) NewOutlet(info Info) (Outlet, error) {
	if err := info.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.infos = append(r.infos, info)
	r.mu.Unlock()
	return &recordedOutlet{info: info, r: r}, nil
}

// Infos returns the declared streams in declaration order.
func (r *Recorder) Infos() []Info {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Info(nil), r.infos...)
}

func (r *Recorder) Track() []Sample {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Sample(nil), r.track...)
}

// Closed reports how many outlets were closed.
func (r *Recorder) Closed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

type recordedOutlet struct {
	info   Info
	r      *Recorder
	closed bool
}

func (o *recordedOutlet) Info() Info { return o.info }

func (o *recordedOutlet) PushSample(values []float64, timestamp float64) error {
	if err := checkSample(o.info, values); err != nil {
		return err
	}
	r := o.r
	r.mu.Lock()
	defer r.mu.Unlock()
	if o.closed {
		return ErrClosed
	}
	r.track = append(r.track, Sample{
		Stream:    o.info.Name,
		Timestamp: timestamp,
		Values:    append([]float64(nil), values...),
	})
	r.Metrics.pushed(o.info.Name)
	if r.Logger != nil {
		r.Logger.Debug("sample_recorded", zap.String("stream", o.info.Name), zap.Float64("timestamp", timestamp))
	}
	return nil
}

func (o *recordedOutlet) Close() error {
	o.r.mu.Lock()
	defer o.r.mu.Unlock()
	if o.closed {
		return ErrClosed
	}
	o.closed = true
	o.r.closed++
	return nil
}
