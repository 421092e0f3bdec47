package pose

// Landmark ids follow the 33-point full-body pose topology emitted by the
// estimator sidecar. An id that is absent from a frame means the joint was
// not detected in that frame.
const (
	Nose            = 0
	LeftEyeInner    = 1
	LeftEye         = 2
	LeftEyeOuter    = 3
	RightEyeInner   = 4
	RightEye        = 5
	RightEyeOuter   = 6
	LeftEar         = 7
	RightEar        = 8
	MouthLeft       = 9
	MouthRight      = 10
	LeftShoulder    = 11
	RightShoulder   = 12
	LeftElbow       = 13
	RightElbow      = 14
	LeftWrist       = 15
	RightWrist      = 16
	LeftPinky       = 17
	RightPinky      = 18
	LeftIndex       = 19
	RightIndex      = 20
	LeftThumb       = 21
	RightThumb      = 22
	LeftHip         = 23
	RightHip        = 24
	LeftKnee        = 25
	RightKnee       = 26
	LeftAnkle       = 27
	RightAnkle      = 28
	LeftHeel        = 29
	RightHeel       = 30
	LeftFootIndex   = 31
	RightFootIndex  = 32
)

const NumLandmarks = 33

// LandmarkNames[id] is the human readable name of a landmark id
var LandmarkNames = []string{
	"nose",
	"left eye inner",
	"left eye",
	"left eye outer",
	"right eye inner",
	"right eye",
	"right eye outer",
	"left ear",
	"right ear",
	"mouth left",
	"mouth right",
	"left shoulder",
	"right shoulder",
	"left elbow",
	"right elbow",
	"left wrist",
	"right wrist",
	"left pinky",
	"right pinky",
	"left index",
	"right index",
	"left thumb",
	"right thumb",
	"left hip",
	"right hip",
	"left knee",
	"right knee",
	"left ankle",
	"right ankle",
	"left heel",
	"right heel",
	"left foot index",
	"right foot index",
}

// Skeleton is the set of joint pairs that make up the body wireframe.
// Used when drawing a pose on top of a video frame.
var Skeleton = [][2]int{
	{LeftShoulder, RightShoulder},
	{LeftShoulder, LeftElbow},
	{LeftElbow, LeftWrist},
	{RightShoulder, RightElbow},
	{RightElbow, RightWrist},
	{LeftShoulder, LeftHip},
	{RightShoulder, RightHip},
	{LeftHip, RightHip},
	{LeftHip, LeftKnee},
	{LeftKnee, LeftAnkle},
	{RightHip, RightKnee},
	{RightKnee, RightAnkle},
	{LeftAnkle, LeftHeel},
	{LeftHeel, LeftFootIndex},
	{RightAnkle, RightHeel},
	{RightHeel, RightFootIndex},
}
