package bridge

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"LSLViewPoint/pkg/config"
	"LSLViewPoint/pkg/device"
	"LSLViewPoint/pkg/stream"
)

var (
	ErrPrecisionTime = errors.New("bridge: the driver does not provide precision timestamps, update ViewPoint")
	ErrClosed        = errors.New("bridge: already closed")
)

// Loader provides the stored configuration.
type Loader interface {
	Load() (config.Config, error)
}

type Options struct {
	Config    Loader
	Open      device.Opener
	Network   stream.Network
	SplitEyes bool // one outlet per eye instead of a single one
	Logger    *zap.Logger
	Metrics   *Metrics
	Clock     func() float64 // defaults to stream.LocalClock
}

type Stats struct {
	Callbacks uint64
	Pushed    uint64
	Ignored   uint64
	Failed    uint64
}

// Bridge forwards every fresh sample of the driver to the network.
type Bridge struct {
	cfg     config.Config
	driver  device.Driver
	outlets []stream.Outlet
	split   bool
	clock   func() float64
	logger  *zap.Logger
	metrics *Metrics
	limiter *rate.Limiter

	mu     sync.Mutex
	values []float64
	bino   device.Binocular
	closed bool

	callbacks, pushed, ignored, failed atomic.Uint64
}

// Start loads the configuration, opens the driver and the outlets, then registers the callback.
// Nothing is opened when the configuration cannot be loaded.
func Start(opts Options) (*Bridge, error) {
	if opts.Config == nil || opts.Open == nil || opts.Network == nil {
		return nil, errors.New("bridge: a configuration, a driver opener and a network are required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = stream.LocalClock
	}
	logger := opts.Logger.Named("bridge")

	cfg, err := opts.Config.Load()
	if err != nil {
		return nil, err
	}
	logger.Info("config_loaded", zap.String("driver", cfg.DriverPath), zap.Float64("rate", cfg.SamplingRate))

	driver, err := opts.Open(cfg.DriverPath)
	if err != nil {
		return nil, errors.Wrap(err, "bridge: opening the driver failed")
	}
	logger.Info("driver_opened", zap.Float64("version", driver.Version()))

	b := &Bridge{
		cfg:     cfg,
		driver:  driver,
		split:   opts.SplitEyes,
		clock:   opts.Clock,
		logger:  logger,
		metrics: opts.Metrics,
		limiter: rate.NewLimiter(rate.Every(time.Second), 10),
	}

	if !driver.PrecisionTimeAvailable() {
		b.teardown()
		return nil, ErrPrecisionTime
	}

	if err := b.openOutlets(opts.Network); err != nil {
		b.teardown()
		return nil, err
	}

	if err := driver.InsertCallback(b.handle); err != nil {
		b.teardown()
		return nil, errors.Wrap(err, "bridge: registering the callback failed")
	}
	logger.Info("streaming", zap.Int("outlets", len(b.outlets)), zap.Bool("split_eyes", b.split))
	return b, nil
}

func (b *Bridge) openOutlets(network stream.Network) error {
	var infos []stream.Info
	if b.split {
		infos = []stream.Info{
			stream.NewInfo(StreamName+"-A", StreamType, EyeAChannels(), b.cfg.SamplingRate, SourceID),
			stream.NewInfo(StreamName+"-B", StreamType, EyeBChannels(), b.cfg.SamplingRate, SourceID),
		}
	} else {
		infos = []stream.Info{
			stream.NewInfo(StreamName, StreamType, CombinedChannels(), b.cfg.SamplingRate, SourceID),
		}
	}

	size := 0
	for _, info := range infos {
		out, err := network.NewOutlet(info)
		if err != nil {
			return errors.Wrapf(err, "bridge: opening outlet %s failed", info.Name)
		}
		b.outlets = append(b.outlets, out)
		if info.ChannelCount > size {
			size = info.ChannelCount
		}
	}
	b.values = make([]float64, 0, size)
	return nil
}

func (b *Bridge) teardown() {
	for _, out := range b.outlets {
		if err := out.Close(); err != nil {
			b.logger.Warn("outlet_close_failed", zap.String("stream", out.Info().Name), zap.Error(err))
		}
	}
	b.outlets = nil
	if err := b.driver.Close(); err != nil {
		b.logger.Warn("driver_close_failed", zap.Error(err))
	}
}

// handle runs on the driver's thread, once per event.
func (b *Bridge) handle(msg device.Message, subMsg, _, _ int32) int32 {
	b.callbacks.Add(1)
	if msg != device.MessageDataFresh {
		b.ignore()
		return 0
	}

	eye := device.Eye(subMsg)
	if eye != device.EyeA && eye != device.EyeB {
		b.ignore()
		if b.limiter.Allow() {
			b.logger.Debug("unknown_eye", zap.Int32("sub_msg", subMsg))
		}
		return 0
	}

	err := b.push(eye)
	if errors.Is(err, ErrClosed) || errors.Is(err, stream.ErrClosed) {
		b.ignore()
		return 0
	}
	if err != nil {
		b.failed.Add(1)
		b.metrics.callback(resultFailed)
		if b.limiter.Allow() {
			b.logger.Error("push_failed", zap.Stringer("eye", eye), zap.Error(err))
		}
		return 0
	}
	b.pushed.Add(1)
	b.metrics.callback(resultPushed)
	return 0
}

func (b *Bridge) ignore() {
	b.ignored.Add(1)
	b.metrics.callback(resultIgnored)
}

func (b *Bridge) push(eye device.Eye) error {
	// the driver is freed by Close, only touch it while holding the lock
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}

	data, err := b.driver.Eye(eye)
	if err != nil {
		return err
	}

	if eye == device.EyeA {
		if b.bino, err = b.driver.Binocular(); err != nil {
			return err
		}
	}

	// the sample is stamped with the time it was acquired, not the time it is pushed
	now := b.clock()
	delay := b.driver.PrecisionTime() - data.DataTime
	timestamp := now - delay
	b.metrics.delay(delay)

	values, out := b.values[:0], b.outlets[0]
	switch {
	case !b.split:
		values = append(values, float64(eye))
		values = appendEye(values, data)
		values = appendBinocular(values, b.bino)
	case eye == device.EyeA:
		values = appendEye(values, data)
		values = appendBinocular(values, b.bino)
	default:
		values = appendEye(values, data)
		out = b.outlets[1]
	}
	b.values = values

	return out.PushSample(values, timestamp)
}

func (b *Bridge) Config() config.Config { return b.cfg }

// Outlets returns the declared streams.
func (b *Bridge) Outlets() []stream.Info {
	infos := make([]stream.Info, len(b.outlets))
	for i, out := range b.outlets {
		infos[i] = out.Info()
	}
	return infos
}

func (b *Bridge) Stats() Stats {
	return Stats{
		Callbacks: b.callbacks.Load(),
		Pushed:    b.pushed.Load(),
		Ignored:   b.ignored.Load(),
		Failed:    b.failed.Load(),
	}
}

// Close unregisters the callback, then closes the outlets and the driver.
func (b *Bridge) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	b.closed = true
	b.mu.Unlock()

	if err := b.driver.RemoveCallback(); err != nil && !errors.Is(err, device.ErrNoCallback) {
		b.logger.Warn("remove_callback_failed", zap.Error(err))
	}

	b.teardown()
	s := b.Stats()
	b.logger.Info("stopped",
		zap.Uint64("callbacks", s.Callbacks),
		zap.Uint64("pushed", s.Pushed),
		zap.Uint64("ignored", s.Ignored),
		zap.Uint64("failed", s.Failed),
	)
	return nil
}
