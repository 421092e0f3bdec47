package form

import (
	"github.com/chewxy/math32"
	"github.com/fitvision/formcheck/pkg/pose"
)

// A formCheck scans the sequence for one class of fault. Each check stops at
// the first frame that exhibits the fault, so a check contributes its issue
// at most once (except checks that distinguish directions, eg hips high/low).
type checkFunc func(seq *pose.Sequence) []string

type formCheck struct {
	run    checkFunc
	weight int // Points deducted per issue found
}

// placeholderCheck is a stub for checks that don't have real geometry yet.
// It flags the issue on any sequence long enough to be a real attempt at the
// movement, which keeps scoring stable until the real check gets written.
func placeholderCheck(issue string) checkFunc {
	return func(seq *pose.Sequence) []string {
		if len(seq.Frames) > minAnalysisFrames {
			return []string{issue}
		}
		return nil
	}
}

// checkBodyStraight verifies that shoulders, hips and knees stay in a line.
// Used by pushup and plank.
func checkBodyStraight(seq *pose.Sequence) []string {
	for i := range seq.Frames {
		f := &seq.Frames[i]
		if !f.Has(pose.LeftShoulder, pose.RightShoulder, pose.LeftHip, pose.RightHip, pose.LeftKnee, pose.RightKnee) {
			continue
		}
		torso := pose.Vec(f.Landmarks[pose.LeftShoulder], f.Landmarks[pose.LeftHip])
		thigh := pose.Vec(f.Landmarks[pose.LeftHip], f.Landmarks[pose.LeftKnee])
		if angle, ok := pose.AngleBetween(torso, thigh); ok && angle > 15 {
			return []string{"Body not straight"}
		}
	}
	return nil
}

// checkArmsTooWide compares wrist spacing against shoulder width.
func checkArmsTooWide(seq *pose.Sequence) []string {
	for i := range seq.Frames {
		f := &seq.Frames[i]
		if !f.Has(pose.LeftShoulder, pose.RightShoulder, pose.LeftWrist, pose.RightWrist) {
			continue
		}
		shoulderWidth := math32.Abs(f.Landmarks[pose.RightShoulder].X - f.Landmarks[pose.LeftShoulder].X)
		wristWidth := math32.Abs(f.Landmarks[pose.RightWrist].X - f.Landmarks[pose.LeftWrist].X)
		if wristWidth > 1.5*shoulderWidth {
			return []string{"Arms too wide"}
		}
	}
	return nil
}

// checkPushupDepth looks at how low the shoulders get over the movement.
// Remember that y grows downward, so a deep pushup has a large shoulder y.
func checkPushupDepth(seq *pose.Sequence) []string {
	if len(seq.Frames) < minDepthFrames {
		return nil
	}
	minShoulderY := math32.Inf(1)
	for i := range seq.Frames {
		f := &seq.Frames[i]
		if !f.Has(pose.LeftShoulder, pose.RightShoulder) {
			continue
		}
		y := (f.Landmarks[pose.LeftShoulder].Y + f.Landmarks[pose.RightShoulder].Y) / 2
		minShoulderY = math32.Min(minShoulderY, y)
	}
	if minShoulderY < 0.3 {
		return []string{"Insufficient depth"}
	}
	return nil
}

// checkKneesForward flags knees travelling past the toes in a squat.
func checkKneesForward(seq *pose.Sequence) []string {
	for i := range seq.Frames {
		f := &seq.Frames[i]
		if !f.Has(pose.LeftShoulder, pose.RightShoulder, pose.LeftKnee, pose.RightKnee, pose.LeftAnkle, pose.RightAnkle) {
			continue
		}
		if f.Landmarks[pose.LeftKnee].X > f.Landmarks[pose.LeftAnkle].X+0.1 {
			return []string{"Knees too far forward"}
		}
	}
	return nil
}

// checkSquatDepth looks at how low the hips get over the movement.
// A squat to parallel has the hips well down the image (y > 0.6).
func checkSquatDepth(seq *pose.Sequence) []string {
	if len(seq.Frames) < minDepthFrames {
		return nil
	}
	minHipY := math32.Inf(1)
	for i := range seq.Frames {
		f := &seq.Frames[i]
		if !f.Has(pose.LeftHip, pose.RightHip) {
			continue
		}
		y := (f.Landmarks[pose.LeftHip].Y + f.Landmarks[pose.RightHip].Y) / 2
		minHipY = math32.Min(minHipY, y)
	}
	if minHipY > 0.6 {
		return []string{"Insufficient depth"}
	}
	return nil
}

// checkBackStraight measures the lean of the torso against vertical.
func checkBackStraight(seq *pose.Sequence) []string {
	up := pose.Vec2{X: 0, Y: -1}
	for i := range seq.Frames {
		f := &seq.Frames[i]
		if !f.Has(pose.LeftShoulder, pose.RightShoulder, pose.LeftHip, pose.RightHip) {
			continue
		}
		torso := pose.Vec(f.Landmarks[pose.LeftShoulder], f.Landmarks[pose.LeftHip])
		if angle, ok := pose.AngleBetween(torso, up); ok && angle > 20 {
			return []string{"Back not straight"}
		}
	}
	return nil
}

// checkPlankHips flags hips sagging below, or piking above, the shoulder line.
func checkPlankHips(seq *pose.Sequence) []string {
	for i := range seq.Frames {
		f := &seq.Frames[i]
		if !f.Has(pose.LeftShoulder, pose.RightShoulder, pose.LeftHip, pose.RightHip) {
			continue
		}
		shoulderY := (f.Landmarks[pose.LeftShoulder].Y + f.Landmarks[pose.RightShoulder].Y) / 2
		hipY := (f.Landmarks[pose.LeftHip].Y + f.Landmarks[pose.RightHip].Y) / 2
		if hipY < shoulderY-0.1 {
			return []string{"Hips too high"}
		} else if hipY > shoulderY+0.1 {
			return []string{"Hips too low"}
		}
	}
	return nil
}
