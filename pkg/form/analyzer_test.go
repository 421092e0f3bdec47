package form

import (
	"encoding/json"
	"maps"
	"testing"
	"time"

	"github.com/chewxy/math32"
	"github.com/fitvision/formcheck/pkg/pose"
	"github.com/stretchr/testify/require"
)

// fixedClock pins the analysis timestamp so results compare byte-for-byte
func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
}

func newTestAnalyzer() *Analyzer {
	a := NewAnalyzer()
	a.Now = fixedClock
	return a
}

func makeSequence(nframes int, landmarks map[int]pose.Landmark) *pose.Sequence {
	seq := &pose.Sequence{
		Frames:        []pose.Frame{},
		FramesScanned: nframes,
	}
	for i := 0; i < nframes; i++ {
		seq.Frames = append(seq.Frames, pose.MakeFrame(i, maps.Clone(landmarks)))
	}
	return seq
}

// pushupLandmarks builds a side-on pushup pose where the hip bends by
// bodyAngleDeg (0 = perfectly straight body), hands are shoulder-width, and
// the shoulders sit at y=0.5 (comfortably above the depth threshold).
func pushupLandmarks(bodyAngleDeg float32) map[int]pose.Landmark {
	kneeDY := 0.2 * math32.Tan(bodyAngleDeg*math32.Pi/180)
	lm := func(x, y float32) pose.Landmark {
		return pose.Landmark{X: x, Y: y, Visibility: 0.9}
	}
	return map[int]pose.Landmark{
		pose.LeftShoulder:  lm(0.3, 0.5),
		pose.RightShoulder: lm(0.5, 0.5),
		pose.LeftWrist:     lm(0.3, 0.6),
		pose.RightWrist:    lm(0.5, 0.6),
		pose.LeftHip:       lm(0.5, 0.5),
		pose.RightHip:      lm(0.7, 0.5),
		pose.LeftKnee:      lm(0.7, 0.5+kneeDY),
		pose.RightKnee:     lm(0.9, 0.5+kneeDY),
	}
}

func TestPushupPerfectForm(t *testing.T) {
	a := newTestAnalyzer()
	res := a.Analyze(makeSequence(15, pushupLandmarks(5)), "pushup")
	require.Equal(t, "pushup", res.ExerciseType)
	require.Equal(t, 100, res.FormScore)
	require.Equal(t, RatingExcellent, res.FormRating)
	require.Empty(t, res.IssuesDetected)
	require.Equal(t, []string{"Great form! Keep up the good work"}, res.Recommendations)
	require.Equal(t, []string{"No major issues detected"}, res.AreasForImprovement)
	require.Equal(t, 15, res.TotalFramesAnalyzed)
	require.InDelta(t, 0.9, res.ConfidenceScore, 0.001)
}

func TestPushupBentBody(t *testing.T) {
	a := newTestAnalyzer()
	res := a.Analyze(makeSequence(15, pushupLandmarks(30)), "pushup")
	require.Equal(t, []string{"Body not straight"}, res.IssuesDetected)
	require.Equal(t, 90, res.FormScore)
	// 90 is the bottom edge of Excellent
	require.Equal(t, RatingExcellent, res.FormRating)
	require.Equal(t, []string{"Keep your body in a straight line from head to heels"}, res.Recommendations)
	require.Equal(t, []string{"Body not straight"}, res.AreasForImprovement)
}

func TestPushupTooShort(t *testing.T) {
	a := newTestAnalyzer()
	res := a.Analyze(makeSequence(8, pushupLandmarks(5)), "pushup")
	require.Equal(t, RatingError, res.FormRating)
	require.Equal(t, 0, res.FormScore)
	require.Equal(t, "unknown", res.ExerciseType)
	require.Contains(t, res.IssuesDetected[0], "too short")
	require.Equal(t, []string{"Video too short for pushup analysis"}, res.IssuesDetected)
}

func TestErrorResult(t *testing.T) {
	a := newTestAnalyzer()
	res := a.ErrorResult("No pose detected in video")
	require.Equal(t, "unknown", res.ExerciseType)
	require.Equal(t, RatingError, res.FormRating)
	require.Equal(t, 0.0, res.ConfidenceScore)
	require.Equal(t, 0, res.TotalFramesAnalyzed)
	require.Equal(t, []string{"No pose detected in video"}, res.IssuesDetected)
	require.Equal(t, []string{"Please ensure the video shows a clear view of the exercise"}, res.Recommendations)
	require.Equal(t, []string{"Video quality or pose detection issues"}, res.AreasForImprovement)
}

func TestMixedCaseDispatch(t *testing.T) {
	a := newTestAnalyzer()
	seq := squatSequence(12, 0.7)
	require.Equal(t, a.Analyze(seq, "squat"), a.Analyze(seq, "Squat"))
	require.Equal(t, a.Analyze(seq, "squat"), a.Analyze(seq, "SQUAT"))
}

func TestUnrecognizedExercise(t *testing.T) {
	a := newTestAnalyzer()
	res := a.Analyze(makeSequence(12, pushupLandmarks(5)), "kettlebell swing")
	require.Equal(t, "kettlebell swing", res.ExerciseType)
	require.Equal(t, 90, res.FormScore)
	require.Equal(t, RatingGood, res.FormRating)
	require.Equal(t, []string{"Analysis not yet implemented for this exercise"}, res.IssuesDetected)
	require.Equal(t, []string{"This exercise type will be fully analyzed in a future update"}, res.Recommendations)
	require.Equal(t, []string{"Exercise-specific analysis coming soon"}, res.AreasForImprovement)
}

// squatSequence builds an upright squat pose. hipY controls how deep the
// hips sit in the image.
func squatSequence(nframes int, hipY float32) *pose.Sequence {
	lm := func(x, y float32) pose.Landmark {
		return pose.Landmark{X: x, Y: y, Visibility: 0.85}
	}
	return makeSequence(nframes, map[int]pose.Landmark{
		pose.LeftShoulder:  lm(0.4, 0.2),
		pose.RightShoulder: lm(0.6, 0.2),
		pose.LeftHip:       lm(0.45, hipY),
		pose.RightHip:      lm(0.65, hipY),
		pose.LeftKnee:      lm(0.5, 0.85),
		pose.RightKnee:     lm(0.7, 0.85),
		pose.LeftAnkle:     lm(0.35, 0.95),
		pose.RightAnkle:    lm(0.55, 0.95),
	})
}

func TestSquatAllIssues(t *testing.T) {
	a := newTestAnalyzer()
	// Knees ahead of ankles, hips never above y=0.6, torso far from vertical
	res := a.Analyze(squatSequence(12, 0.7), "squat")
	require.Equal(t, []string{"Knees too far forward", "Insufficient depth", "Back not straight"}, res.IssuesDetected)
	require.Equal(t, 50, res.FormScore)
	require.Equal(t, RatingPoor, res.FormRating)
	require.Equal(t, []string{
		"Keep your knees behind your toes",
		"Lower your body until thighs are parallel to ground",
		"Keep your back straight and chest up",
	}, res.Recommendations)
	require.Equal(t, res.IssuesDetected, res.AreasForImprovement)
}

func TestSquatDepthReached(t *testing.T) {
	a := newTestAnalyzer()
	seq := squatSequence(12, 0.7)
	// One frame with the hips high resets the depth minimum
	high := squatSequence(1, 0.5)
	seq.Frames[5] = high.Frames[0]
	res := a.Analyze(seq, "squat")
	require.NotContains(t, res.IssuesDetected, "Insufficient depth")
	require.Equal(t, 70, res.FormScore)
	require.Equal(t, RatingFair, res.FormRating)
}

// plankSequence is a straight, level plank.
func plankSequence(nframes int, hipY float32) *pose.Sequence {
	lm := func(x, y float32) pose.Landmark {
		return pose.Landmark{X: x, Y: y, Visibility: 0.8}
	}
	return makeSequence(nframes, map[int]pose.Landmark{
		pose.LeftShoulder:  lm(0.2, 0.5),
		pose.RightShoulder: lm(0.25, 0.5),
		pose.LeftHip:       lm(0.5, hipY),
		pose.RightHip:      lm(0.55, hipY),
		pose.LeftKnee:      lm(0.7, hipY),
		pose.RightKnee:     lm(0.75, hipY),
	})
}

func TestPlankCorePlaceholder(t *testing.T) {
	a := newTestAnalyzer()
	res := a.Analyze(plankSequence(12, 0.5), "plank")
	require.Equal(t, []string{"Core not engaged"}, res.IssuesDetected)
	require.Equal(t, 90, res.FormScore)
	require.Equal(t, []string{"Engage your core muscles throughout the hold"}, res.Recommendations)
}

func TestPlankAtMinimumLength(t *testing.T) {
	a := newTestAnalyzer()
	// At exactly 10 frames the sequence clears the length gate, but the
	// length-based placeholder checks stay silent.
	res := a.Analyze(plankSequence(10, 0.5), "plank")
	require.Empty(t, res.IssuesDetected)
	require.Equal(t, 100, res.FormScore)
	require.Equal(t, []string{"Perfect plank form! Great core stability"}, res.Recommendations)
}

func TestPlankHipsHigh(t *testing.T) {
	a := newTestAnalyzer()
	res := a.Analyze(plankSequence(10, 0.35), "plank")
	require.Contains(t, res.IssuesDetected, "Hips too high")
	require.Contains(t, res.Recommendations, "Lower your hips to maintain proper plank position")
}

func TestPlankHipsLow(t *testing.T) {
	a := newTestAnalyzer()
	res := a.Analyze(plankSequence(10, 0.65), "plank")
	require.Contains(t, res.IssuesDetected, "Hips too low")
	require.Contains(t, res.Recommendations, "Raise your hips to maintain proper plank position")
}

func TestPlaceholderExercises(t *testing.T) {
	// These evaluators are length-gated stubs. Pin their exact behavior so
	// an accidental change to the stubs shows up here.
	cases := []struct {
		exercise string
		score    int
		rating   string
		nissues  int
	}{
		{"bench_press", 65, RatingFair, 3},
		{"deadlift", 50, RatingPoor, 3},
		{"pullup", 55, RatingPoor, 3},
		{"burpee", 60, RatingFair, 3},
		{"lunge", 55, RatingPoor, 3},
		{"mountain_climber", 55, RatingPoor, 3},
		{"jumping_jack", 60, RatingFair, 3},
	}
	a := newTestAnalyzer()
	seq := makeSequence(12, pushupLandmarks(5))
	for _, c := range cases {
		res := a.Analyze(seq, c.exercise)
		require.Equal(t, c.score, res.FormScore, c.exercise)
		require.Equal(t, c.rating, res.FormRating, c.exercise)
		require.Len(t, res.IssuesDetected, c.nissues, c.exercise)
		require.Len(t, res.Recommendations, c.nissues, c.exercise)
		require.Equal(t, c.exercise, res.ExerciseType)
	}
}

func TestRatingThresholds(t *testing.T) {
	require.Equal(t, RatingExcellent, ratingForScore(100))
	require.Equal(t, RatingExcellent, ratingForScore(90))
	require.Equal(t, RatingGood, ratingForScore(89))
	require.Equal(t, RatingGood, ratingForScore(75))
	require.Equal(t, RatingFair, ratingForScore(74))
	require.Equal(t, RatingFair, ratingForScore(60))
	require.Equal(t, RatingPoor, ratingForScore(59))
	require.Equal(t, RatingPoor, ratingForScore(0))
}

func TestScoreNeverNegative(t *testing.T) {
	a := newTestAnalyzer()
	for _, label := range exerciseNames {
		res := a.Analyze(makeSequence(20, pushupLandmarks(30)), label)
		require.GreaterOrEqual(t, res.FormScore, 0, label)
	}
}

func TestAnalysisIdempotent(t *testing.T) {
	a := newTestAnalyzer()
	seq := squatSequence(12, 0.7)
	r1 := a.Analyze(seq, "squat")
	r2 := a.Analyze(seq, "squat")
	require.Equal(t, r1, r2)
	require.Equal(t, FormatFeedback(r1), FormatFeedback(r2))

	j1, err := json.Marshal(r1)
	require.NoError(t, err)
	j2, err := json.Marshal(r2)
	require.NoError(t, err)
	require.Equal(t, j1, j2)
}

func TestResultJSONRoundTrip(t *testing.T) {
	a := newTestAnalyzer()
	res := a.Analyze(squatSequence(12, 0.7), "squat")
	raw, err := json.Marshal(res)
	require.NoError(t, err)
	restored := AnalysisResult{}
	require.NoError(t, json.Unmarshal(raw, &restored))
	require.Equal(t, *res, restored)
}
