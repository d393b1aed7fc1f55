package stream

import "github.com/pkg/errors"

var (
	ErrChannelCount      = errors.New("stream: sample does not match the channel count")
	ErrClosed            = errors.New("stream: outlet is closed")
	ErrUnsupportedFormat = errors.New("stream: only double64 channels are supported")
	ErrInvalidInfo       = errors.New("stream: invalid stream info")
	ErrQuery             = errors.New("stream: malformed query")
)

// Outlet publishes the samples of one stream.
type Outlet interface {
	Info() Info
	// PushSample sends values, one per channel, stamped with timestamp in LocalClock seconds.
	PushSample(values []float64, timestamp float64) error
	Close() error
}

// Network declares outlets.
type Network interface {
	NewOutlet(info Info) (Outlet, error)
}

func checkSample(info Info, values []float64) error {
	if len(values) != info.ChannelCount {
		return errors.Wrapf(ErrChannelCount, "%s: got %d values, want %d", info.Name, len(values), info.ChannelCount)
	}
	return nil
}
