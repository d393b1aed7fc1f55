package device

// Exports of VPX_InterApp_64.dll bound by OpenVPX.
const (
	vpxGetDLLVersion                  = "VPX_GetDLLVersion"
	vpxIsPrecisionDeltaTimeAvailableQ = "VPX_IsPrecisionDeltaTimeAvailableQ"
	vpxGetPrecisionDeltaTime          = "VPX_GetPrecisionDeltaTime"
	vpxInsertCallback                 = "VPX_InsertCallback"
	vpxRemoveCallback                 = "VPX_RemoveCallback"

	vpxGetGazePoint2          = "VPX_GetGazePoint2"
	vpxGetGazePointSmoothed2  = "VPX_GetGazePointSmoothed2"
	vpxGetGazePointCorrected2 = "VPX_GetGazePointCorrected2"
	vpxGetGazeBinocular       = "VPX_GetGazeBinocular"
	vpxGetGazeAngle2          = "VPX_GetGazeAngle2"
	vpxGetGazeAngleSmoothed2  = "VPX_GetGazeAngleSmoothed2"
	vpxGetGazeAngleCorrected2 = "VPX_GetGazeAngleCorrected2"

	vpxGetTotalVelocity2      = "VPX_GetTotalVelocity2"
	vpxGetComponentVelocity2  = "VPX_GetComponentVelocity2"
	vpxGetVelocityBinocular   = "VPX_GetVelocityBinocular"
	vpxGetPupilSize2          = "VPX_GetPupilSize2"
	vpxGetPupilAspectRatio2   = "VPX_GetPupilAspectRatio2"
	vpxGetPupilAngle2         = "VPX_GetPupilAngle2"
	vpxGetPupilDiameter2      = "VPX_GetPupilDiameter2"
	vpxGetPupilPoint2         = "VPX_GetPupilPoint2"
	vpxGetPupilCentroid2      = "VPX_GetPupilCentroid2"
	vpxGetDiffVector2         = "VPX_GetDiffVector2"
	vpxGetGlintPoint2         = "VPX_GetGlintPoint2"
	vpxGetGlintCentroid2      = "VPX_GetGlintCentroid2"
	vpxGetDataQuality2        = "VPX_GetDataQuality2"
	vpxGetDataTime2           = "VPX_GetDataTime2"
	vpxGetDataDeltaTime2      = "VPX_GetDataDeltaTime2"
	vpxGetStoreTime2          = "VPX_GetStoreTime2"
	vpxGetStoreDeltaTime2     = "VPX_GetStoreDeltaTime2"
)

var vpxExports = []string{
	vpxGetDLLVersion,
	vpxIsPrecisionDeltaTimeAvailableQ,
	vpxGetPrecisionDeltaTime,
	vpxInsertCallback,
	vpxRemoveCallback,
	vpxGetGazePoint2,
	vpxGetGazePointSmoothed2,
	vpxGetGazePointCorrected2,
	vpxGetGazeBinocular,
	vpxGetGazeAngle2,
	vpxGetGazeAngleSmoothed2,
	vpxGetGazeAngleCorrected2,
	vpxGetTotalVelocity2,
	vpxGetComponentVelocity2,
	vpxGetVelocityBinocular,
	vpxGetPupilSize2,
	vpxGetPupilAspectRatio2,
	vpxGetPupilAngle2,
	vpxGetPupilDiameter2,
	vpxGetPupilPoint2,
	vpxGetPupilCentroid2,
	vpxGetDiffVector2,
	vpxGetGlintPoint2,
	vpxGetGlintCentroid2,
	vpxGetDataQuality2,
	vpxGetDataTime2,
	vpxGetDataDeltaTime2,
	vpxGetStoreTime2,
	vpxGetStoreDeltaTime2,
}
