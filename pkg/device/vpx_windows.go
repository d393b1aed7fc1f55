//go:build windows

package device

import (
	"math"
	"os"
	"sync"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

// VPX drives a ViewPoint EyeTracker through VPX_InterApp_64.dll.
type VPX struct {
	path  string
	dll   *windows.LazyDLL
	procs map[string]*windows.LazyProc

	mu sync.Mutex
	cb uintptr
}

// OpenVPX loads the interop library and resolves every export the bridge needs.
func OpenVPX(path string) (Driver, error) {
	if unsafe.Sizeof(uintptr(0)) != 8 {
		return nil, ErrUnsupportedPlatform
	}
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(ErrDriverNotFound, "%s: %v", path, err)
	}

	dll := windows.NewLazyDLL(path)
	if err := dll.Load(); err != nil {
		return nil, errors.Wrapf(ErrIncompatibleDriver, "loading %s: %v", path, err)
	}

	v := &VPX{
		path:  path,
		dll:   dll,
		procs: make(map[string]*windows.LazyProc, len(vpxExports)),
	}
	for _, name := range vpxExports {
		p := dll.NewProc(name)
		if err := p.Find(); err != nil {
			_ = windows.FreeLibrary(windows.Handle(dll.Handle()))
			return nil, errors.Wrapf(ErrIncompatibleDriver, "export %s: %v", name, err)
		}
		v.procs[name] = p
	}
	return v, nil
}

// float64 results come back in XMM0, which the syscall layer exposes as r2.
func (v *VPX) callDouble(name string, args ...uintptr) float64 {
	_, r2, _ := v.procs[name].Call(args...)
	return math.Float64frombits(uint64(r2))
}

func (v *VPX) Version() float64 {
	return v.callDouble(vpxGetDLLVersion)
}

func (v *VPX) PrecisionTimeAvailable() bool {
	r1, _, _ := v.procs[vpxIsPrecisionDeltaTimeAvailableQ].Call()
	return byte(r1) != 0
}

func (v *VPX) PrecisionTime() float64 {
	return v.callDouble(vpxGetPrecisionDeltaTime, 0, 0)
}

func (v *VPX) InsertCallback(cb Callback) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cb != 0 {
		return ErrCallbackRegistered
	}

	v.cb = windows.NewCallback(func(msg, subMsg, p1, p2 uintptr) uintptr {
		return uintptr(cb(Message(int32(msg)), int32(subMsg), int32(p1), int32(p2)))
	})
	v.procs[vpxInsertCallback].Call(v.cb)
	return nil
}

func (v *VPX) RemoveCallback() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cb == 0 {
		return ErrNoCallback
	}
	v.procs[vpxRemoveCallback].Call(v.cb)
	v.cb = 0
	return nil
}

func (v *VPX) point(name string, eye Eye) (p RealPoint) {
	v.procs[name].Call(uintptr(eye), uintptr(unsafe.Pointer(&p)))
	return
}

func (v *VPX) double(name string, eye Eye) (d float64) {
	v.procs[name].Call(uintptr(eye), uintptr(unsafe.Pointer(&d)))
	return
}

func (v *VPX) Eye(eye Eye) (d EyeData, err error) {
	if eye != EyeA && eye != EyeB {
		err = errors.Wrapf(ErrInvalidEye, "got %s", eye)
		return
	}

	// gaze point/angle
	d.GazePoint = v.point(vpxGetGazePoint2, eye)
	d.GazePointSmoothed = v.point(vpxGetGazePointSmoothed2, eye)
	d.GazePointCorrected = v.point(vpxGetGazePointCorrected2, eye)
	d.GazeAngle = v.point(vpxGetGazeAngle2, eye)
	d.GazeAngleSmoothed = v.point(vpxGetGazeAngleSmoothed2, eye)
	d.GazeAngleCorrected = v.point(vpxGetGazeAngleCorrected2, eye)

	// velocity
	d.TotalVelocity = v.double(vpxGetTotalVelocity2, eye)
	d.ComponentVelocity = v.point(vpxGetComponentVelocity2, eye)

	// pupil and glint
	d.PupilSize = v.point(vpxGetPupilSize2, eye)
	d.PupilAspectRatio = v.double(vpxGetPupilAspectRatio2, eye)
	d.PupilAngle = v.double(vpxGetPupilAngle2, eye)
	d.PupilDiameter = v.double(vpxGetPupilDiameter2, eye)
	d.PupilPoint = v.point(vpxGetPupilPoint2, eye)
	d.PupilCentroid = v.point(vpxGetPupilCentroid2, eye)
	d.DiffVector = v.point(vpxGetDiffVector2, eye)
	d.GlintPoint = v.point(vpxGetGlintPoint2, eye)
	d.GlintCentroid = v.point(vpxGetGlintCentroid2, eye)

	var q int32
	v.procs[vpxGetDataQuality2].Call(uintptr(eye), uintptr(unsafe.Pointer(&q)))
	d.DataQuality = DataQuality(q)

	// timestamps
	d.DataTime = v.double(vpxGetDataTime2, eye)
	d.DataDeltaTime = v.double(vpxGetDataDeltaTime2, eye)
	d.StoreTime = v.double(vpxGetStoreTime2, eye)
	d.StoreDeltaTime = v.double(vpxGetStoreDeltaTime2, eye)
	return
}

func (v *VPX) Binocular() (b Binocular, err error) {
	v.procs[vpxGetGazeBinocular].Call(uintptr(unsafe.Pointer(&b.GazePoint)))
	v.procs[vpxGetVelocityBinocular].Call(uintptr(unsafe.Pointer(&b.Velocity)))
	return
}

func (v *VPX) Close() error {
	if v.cb != 0 {
		_ = v.RemoveCallback()
	}
	if err := windows.FreeLibrary(windows.Handle(v.dll.Handle())); err != nil {
		return errors.Wrapf(err, "device: freeing %s failed", v.path)
	}
	return nil
}
