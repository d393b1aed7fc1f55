package device

import (
	"math"
	"sync"
	"time"

	"golang.org/x/exp/rand"

	"LSLViewPoint/pkg/async"
)

// SimulatedVersion is what a Simulated driver reports as its DLL version.
const SimulatedVersion = 2.9

// Simulated stands in for the ViewPoint driver. It produces random-walk gaze data.
type Simulated struct {
	Rate float64 // callbacks per second for each eye, <= 0 means Emit must be called by hand

	mu    sync.Mutex
	rng   *rand.Rand
	start time.Time
	eyes  [2]EyeData
	bino  Binocular
	cb    Callback
	stop  chan struct{}
	done  <-chan struct{}
}

func NewSimulated(rate float64, seed uint64) *Simulated {
	s := &Simulated{
		Rate:  rate,
		rng:   rand.New(rand.NewSource(seed)),
		start: time.Now(),
	}
	for i := range s.eyes {
		s.eyes[i].GazePoint = RealPoint{0.5, 0.5}
		s.eyes[i].PupilAspectRatio = 1
	}
	return s
}

// OpenSimulated ignores the path it is given.
func OpenSimulated(rate float64) Opener {
	return func(string) (Driver, error) {
		return NewSimulated(rate, uint64(time.Now().UnixNano())), nil
	}
}

func (s *Simulated) Version() float64 { return SimulatedVersion }

func (s *Simulated) PrecisionTimeAvailable() bool { return true }

func (s *Simulated) PrecisionTime() float64 {
	return time.Since(s.start).Seconds()
}

func (s *Simulated) InsertCallback(cb Callback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cb != nil {
		return ErrCallbackRegistered
	}
	s.cb = cb

	if s.Rate > 0 {
		s.stop = make(chan struct{})
		s.done = async.Every(time.Duration(float64(time.Second)/s.Rate), s.stop, func() {
			_ = s.Emit(EyeA)
			_ = s.Emit(EyeB)
		})
	}
	return nil
}

func (s *Simulated) RemoveCallback() error {
	s.mu.Lock()
	if s.cb == nil {
		s.mu.Unlock()
		return ErrNoCallback
	}
	s.cb = nil
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}
	return nil
}

// Emit advances the data of eye and delivers one fresh-data callback for it.
func (s *Simulated) Emit(eye Eye) error {
	if eye != EyeA && eye != EyeB {
		return ErrInvalidEye
	}

	s.mu.Lock()
	cb := s.cb
	if cb == nil {
		s.mu.Unlock()
		return ErrNoCallback
	}
	s.step(eye)
	s.mu.Unlock()

	// the callback reads back through Eye, so the lock must be released
	cb(MessageDataFresh, int32(eye), 0, 0)
	return nil
}

func (s *Simulated) walk(p *RealPoint, sigma float64) RealPoint {
	old := *p
	p.X = clamp01(p.X + float32(s.rng.NormFloat64()*sigma))
	p.Y = clamp01(p.Y + float32(s.rng.NormFloat64()*sigma))
	return RealPoint{p.X - old.X, p.Y - old.Y}
}

func clamp01(v float32) float32 {
	return float32(math.Min(1, math.Max(0, float64(v))))
}

func (s *Simulated) step(eye Eye) {
	d := &s.eyes[eye]
	now := s.PrecisionTime()

	delta := s.walk(&d.GazePoint, 0.01)
	d.GazePointSmoothed = RealPoint{
		X: 0.8*d.GazePointSmoothed.X + 0.2*d.GazePoint.X,
		Y: 0.8*d.GazePointSmoothed.Y + 0.2*d.GazePoint.Y,
	}
	d.GazePointCorrected = d.GazePointSmoothed
	d.GazeAngle = RealPoint{(d.GazePoint.X - 0.5) * 40, (d.GazePoint.Y - 0.5) * 30}
	d.GazeAngleSmoothed = RealPoint{(d.GazePointSmoothed.X - 0.5) * 40, (d.GazePointSmoothed.Y - 0.5) * 30}
	d.GazeAngleCorrected = d.GazeAngleSmoothed

	d.ComponentVelocity = delta
	d.TotalVelocity = math.Hypot(float64(delta.X), float64(delta.Y))

	size := 0.1 + 0.005*s.rng.NormFloat64()
	d.PupilSize = RealPoint{float32(size), float32(size)}
	d.PupilDiameter = size
	d.PupilAngle = 0
	d.PupilPoint = d.GazePoint
	d.PupilCentroid = d.GazePoint
	d.GlintPoint = RealPoint{d.GazePoint.X + 0.02, d.GazePoint.Y + 0.02}
	d.GlintCentroid = d.GlintPoint
	d.DiffVector = RealPoint{d.GlintPoint.X - d.PupilPoint.X, d.GlintPoint.Y - d.PupilPoint.Y}
	d.DataQuality = QualityGlintIsGood

	d.DataDeltaTime = now - d.DataTime
	d.DataTime = now
	d.StoreDeltaTime = d.DataDeltaTime
	d.StoreTime = now

	if eye == EyeA {
		s.bino.GazePoint = RealPoint{
			X: (s.eyes[EyeA].GazePoint.X + s.eyes[EyeB].GazePoint.X) / 2,
			Y: (s.eyes[EyeA].GazePoint.Y + s.eyes[EyeB].GazePoint.Y) / 2,
		}
		s.bino.Velocity = d.TotalVelocity
	}
}

func (s *Simulated) Eye(eye Eye) (EyeData, error) {
	if eye != EyeA && eye != EyeB {
		return EyeData{}, ErrInvalidEye
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eyes[eye], nil
}

func (s *Simulated) Binocular() (Binocular, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bino, nil
}

func (s *Simulated) Close() error {
	if err := s.RemoveCallback(); err != nil && err != ErrNoCallback {
		return err
	}
	return nil
}
