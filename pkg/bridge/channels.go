package bridge

import "LSLViewPoint/pkg/device"

const (
	StreamName = "ViewPoint"
	StreamType = "Gaze"
	SourceID   = "ViewPoint"

	eyeLabel = "eye"
)

// channels read for one eye, in push order
var eyeChannels = []string{
	// gaze point/angle
	"gaze_point_raw_x",
	"gaze_point_raw_y",
	"gaze_point_smoothed_x",
	"gaze_point_smoothed_y",
	"gaze_point_corrected_x",
	"gaze_point_corrected_y",
	"gaze_angle_raw_x",
	"gaze_angle_raw_y",
	"gaze_angle_smoothed_x",
	"gaze_angle_smoothed_y",
	"gaze_angle_corrected_x",
	"gaze_angle_corrected_y",
	// velocity
	"total_velocity",
	"component_velocity_x",
	"component_velocity_y",
	// pupil
	"pupil_size_x",
	"pupil_size_y",
	"pupil_aspect_ratio",
	"pupil_angle",
	"pupil_diameter",
	"pupil_point_x",
	"pupil_point_y",
	"pupil_centroid_x",
	"pupil_centroid_y",
	// glint
	"glint_diff_vector_x",
	"glint_diff_vector_y",
	"glint_point_x",
	"glint_point_y",
	"glint_centroid_x",
	"glint_centroid_y",
	"data_quality",
	// timestamps
	"data_time",
	"data_delta_time",
	"store_time",
	"store_delta_time",
}

// updated on eye A events only
var binocularChannels = []string{
	"gaze_point_binocular_x",
	"gaze_point_binocular_y",
	"velocity_binocular",
}

func concat(parts ...[]string) []string {
	var out []string
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// CombinedChannels labels the single outlet carrying both eyes.
func CombinedChannels() []string {
	return concat([]string{eyeLabel}, eyeChannels, binocularChannels)
}

// EyeAChannels labels the eye A outlet when eyes are split.
func EyeAChannels() []string {
	return concat(eyeChannels, binocularChannels)
}

// EyeBChannels labels the eye B outlet when eyes are split.
func EyeBChannels() []string {
	return concat(eyeChannels)
}

func appendPoint(dst []float64, p device.RealPoint) []float64 {
	return append(dst, float64(p.X), float64(p.Y))
}

func appendEye(dst []float64, d device.EyeData) []float64 {
	dst = appendPoint(dst, d.GazePoint)
	dst = appendPoint(dst, d.GazePointSmoothed)
	dst = appendPoint(dst, d.GazePointCorrected)
	dst = appendPoint(dst, d.GazeAngle)
	dst = appendPoint(dst, d.GazeAngleSmoothed)
	dst = appendPoint(dst, d.GazeAngleCorrected)

	dst = append(dst, d.TotalVelocity)
	dst = appendPoint(dst, d.ComponentVelocity)

	dst = appendPoint(dst, d.PupilSize)
	dst = append(dst, d.PupilAspectRatio, d.PupilAngle, d.PupilDiameter)
	dst = appendPoint(dst, d.PupilPoint)
	dst = appendPoint(dst, d.PupilCentroid)

	dst = appendPoint(dst, d.DiffVector)
	dst = appendPoint(dst, d.GlintPoint)
	dst = appendPoint(dst, d.GlintCentroid)
	dst = append(dst, float64(d.DataQuality))

	return append(dst, d.DataTime, d.DataDeltaTime, d.StoreTime, d.StoreDeltaTime)
}

func appendBinocular(dst []float64, b device.Binocular) []float64 {
	dst = appendPoint(dst, b.GazePoint)
	return append(dst, b.Velocity)
}
