package device

import (
	"strconv"

	"github.com/pkg/errors"
)

// Message is the first argument of a driver callback.
type Message int32

const (
	MessageStatusRunning Message = 1 // VPX_STATUS_ViewPointIsRunning
	MessageDataFresh     Message = 2 // VPX_DAT_FRESH
)

// Eye selects the data routing of an accessor.
type Eye int32

const (
	EyeA Eye = iota
	EyeB
	SceneA
	SceneB
	Observer
	VideoScreen
	EyeMovieChannel
	DualEyeMovieChannel
	MaxRouting
)

func (e Eye) String() string {
	switch e {
	case EyeA:
		return "A"
	case EyeB:
		return "B"
	}
	return "routing-" + strconv.Itoa(int(e))
}

type DataQuality int32

const (
	QualityGlintIsGood DataQuality = iota
	QualityPupilOnlyIsGood
	QualityPupilFallBack
	QualityPupilCriteriaFailed
	QualityPupilFitFailed
	QualityPupilScanFailed
)

// RealPoint mirrors VPX_RealPoint.
type RealPoint struct {
	X, Y float32
}

// EyeData is one read of every per-eye accessor.
type EyeData struct {
	GazePoint          RealPoint
	GazePointSmoothed  RealPoint
	GazePointCorrected RealPoint
	GazeAngle          RealPoint
	GazeAngleSmoothed  RealPoint
	GazeAngleCorrected RealPoint

	TotalVelocity     float64
	ComponentVelocity RealPoint

	PupilSize        RealPoint
	PupilAspectRatio float64
	PupilAngle       float64
	PupilDiameter    float64
	PupilPoint       RealPoint
	PupilCentroid    RealPoint

	DiffVector    RealPoint
	GlintPoint    RealPoint
	GlintCentroid RealPoint

	DataQuality DataQuality

	DataTime       float64
	DataDeltaTime  float64
	StoreTime      float64
	StoreDeltaTime float64
}

// Binocular holds the accessors that do not take an eye.
type Binocular struct {
	GazePoint RealPoint
	Velocity  float64
}

// Callback is invoked by the driver, on a thread it owns, for every event.
type Callback func(msg Message, subMsg, p1, p2 int32) int32

// Driver is the eye tracker interop library.
type Driver interface {
	Version() float64
	PrecisionTimeAvailable() bool
	// PrecisionTime is the driver's current time, in the same base as EyeData.DataTime.
	PrecisionTime() float64
	InsertCallback(cb Callback) error
	RemoveCallback() error
	Eye(eye Eye) (EyeData, error)
	Binocular() (Binocular, error)
	Close() error
}

// Opener opens the driver found at path.
type Opener func(path string) (Driver, error)

var (
	ErrDriverNotFound      = errors.New("device: driver library not found")
	ErrIncompatibleDriver  = errors.New("device: the driver could not be loaded, check its version and dependencies")
	ErrUnsupportedPlatform = errors.New("device: the ViewPoint driver is only available on 64-bit Windows")
	ErrCallbackRegistered  = errors.New("device: a callback is already registered")
	ErrNoCallback          = errors.New("device: no callback registered")
	ErrInvalidEye          = errors.New("device: eye must be A or B")
)
