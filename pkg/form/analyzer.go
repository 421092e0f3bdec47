// Package form turns a pose sequence into a qualitative assessment of how
// well an exercise was performed.
package form

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/fitvision/formcheck/pkg/pose"
)

// minAnalysisFrames is the minimum number of pose frames we need before an
// exercise analysis is meaningful.
const minAnalysisFrames = 10

// minDepthFrames is the minimum number of pose frames a depth check needs to
// see a full rep.
const minDepthFrames = 5

// advice pairs a detected issue with the recommendation we give for it.
// Entries are matched in table order, so recommendations always come out in
// a fixed order regardless of which frame tripped which check first.
type advice struct {
	issue  string
	advice string
}

type evaluator struct {
	checks  []formCheck
	advice  []advice
	perfect string // Recommendation when no issues are found
}

var evaluators = map[Exercise]*evaluator{
	Pushup: {
		checks: []formCheck{
			{checkBodyStraight, 10},
			{checkArmsTooWide, 15},
			{checkPushupDepth, 20},
		},
		advice: []advice{
			{"Body not straight", "Keep your body in a straight line from head to heels"},
			{"Arms too wide", "Keep your hands shoulder-width apart"},
			{"Insufficient depth", "Lower your body until your chest nearly touches the ground"},
			{"Elbows flaring out", "Keep your elbows close to your body"},
		},
		perfect: "Great form! Keep up the good work",
	},
	Squat: {
		checks: []formCheck{
			{checkKneesForward, 15},
			{checkSquatDepth, 20},
			{checkBackStraight, 15},
		},
		advice: []advice{
			{"Knees too far forward", "Keep your knees behind your toes"},
			{"Insufficient depth", "Lower your body until thighs are parallel to ground"},
			{"Back not straight", "Keep your back straight and chest up"},
			{"Knees caving in", "Keep your knees aligned with your toes"},
		},
		perfect: "Great squat form! Keep it up",
	},
	BenchPress: {
		checks: []formCheck{
			{placeholderCheck("Bar path not straight"), 15},
			{placeholderCheck("Shoulders not retracted"), 10},
			{placeholderCheck("Grip too wide"), 10},
		},
		advice: []advice{
			{"Bar path not straight", "Keep the bar path straight and controlled"},
			{"Shoulders not retracted", "Retract your shoulder blades throughout the movement"},
			{"Grip too wide", "Keep your grip shoulder-width apart"},
			{"Bar bouncing off chest", "Control the bar descent and touch chest lightly"},
		},
		perfect: "Excellent bench press form!",
	},
	Plank: {
		checks: []formCheck{
			{checkBodyStraight, 20},
			{checkPlankHips, 15},
			{placeholderCheck("Core not engaged"), 10},
		},
		advice: []advice{
			{"Body not straight", "Keep your body in a straight line from head to heels"},
			{"Hips too high", "Lower your hips to maintain proper plank position"},
			{"Hips too low", "Raise your hips to maintain proper plank position"},
			{"Core not engaged", "Engage your core muscles throughout the hold"},
		},
		perfect: "Perfect plank form! Great core stability",
	},
	Deadlift: {
		checks: []formCheck{
			{placeholderCheck("Back not straight"), 20},
			{placeholderCheck("Poor hip hinge"), 15},
			{placeholderCheck("Bar too far from body"), 15},
		},
		advice: []advice{
			{"Back not straight", "Keep your back straight and neutral throughout"},
			{"Poor hip hinge", "Hinge at your hips, not your lower back"},
			{"Bar too far from body", "Keep the bar close to your body"},
			{"Rounding back", "Maintain a neutral spine position"},
		},
		perfect: "Excellent deadlift form!",
	},
	Pullup: {
		checks: []formCheck{
			{placeholderCheck("Incomplete range of motion"), 20},
			{placeholderCheck("Shoulders not engaged"), 15},
			{placeholderCheck("Excessive body swing"), 10},
		},
		advice: []advice{
			{"Incomplete range of motion", "Pull up until your chin clears the bar"},
			{"Shoulders not engaged", "Engage your shoulder blades at the start"},
			{"Excessive body swing", "Control your body movement, avoid swinging"},
			{"Not going full down", "Lower yourself completely between reps"},
		},
		perfect: "Great pullup form! Strong upper body",
	},
	Burpee: {
		checks: []formCheck{
			{placeholderCheck("Poor squat form"), 15},
			{placeholderCheck("Incomplete pushup"), 15},
			{placeholderCheck("No jump"), 10},
		},
		advice: []advice{
			{"Poor squat form", "Maintain proper squat form during the movement"},
			{"Incomplete pushup", "Perform a full pushup with chest to ground"},
			{"No jump", "Include a full jump at the end"},
			{"Rushed movement", "Control each phase of the movement"},
		},
		perfect: "Excellent burpee form! Great conditioning",
	},
	Lunge: {
		checks: []formCheck{
			{placeholderCheck("Front knee too far forward"), 20},
			{placeholderCheck("Insufficient depth"), 15},
			{placeholderCheck("Poor balance"), 10},
		},
		advice: []advice{
			{"Front knee too far forward", "Keep your front knee behind your toes"},
			{"Insufficient depth", "Lower until your back knee nearly touches the ground"},
			{"Poor balance", "Maintain balance throughout the movement"},
			{"Knees touching", "Keep your knees aligned with your feet"},
		},
		perfect: "Great lunge form! Excellent balance",
	},
	MountainClimber: {
		checks: []formCheck{
			{placeholderCheck("Poor plank position"), 20},
			{placeholderCheck("Insufficient knee drive"), 15},
			{placeholderCheck("Core not engaged"), 10},
		},
		advice: []advice{
			{"Poor plank position", "Maintain a strong plank position throughout"},
			{"Insufficient knee drive", "Drive your knees toward your chest"},
			{"Core not engaged", "Keep your core engaged throughout"},
			{"Hips moving", "Keep your hips stable and level"},
		},
		perfect: "Excellent mountain climber form!",
	},
	JumpingJack: {
		checks: []formCheck{
			{placeholderCheck("Arms not fully extended"), 15},
			{placeholderCheck("Legs not wide enough"), 15},
			{placeholderCheck("Poor coordination"), 10},
		},
		advice: []advice{
			{"Arms not fully extended", "Fully extend your arms overhead"},
			{"Legs not wide enough", "Jump your legs wide apart"},
			{"Poor coordination", "Coordinate arm and leg movements"},
			{"Landing too hard", "Land softly on the balls of your feet"},
		},
		perfect: "Perfect jumping jack form!",
	},
}

// Analyzer evaluates pose sequences. The zero cost of construction means you
// can make one per request, but a single Analyzer is also safe to share,
// since Analyze has no mutable state.
type Analyzer struct {
	// Now is the clock used for analysis timestamps. Overridable for tests.
	Now func() time.Time
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{
		Now: time.Now,
	}
}

// Analyze runs the form checks for the given exercise over the sequence.
// Labels outside the catalogue get a generic result rather than an error.
// Analyze never fails: unusable input comes back as an Error-rated result.
func (a *Analyzer) Analyze(seq *pose.Sequence, exerciseLabel string) *AnalysisResult {
	exercise, known := ParseExercise(exerciseLabel)
	if !known {
		return a.genericAnalysis(seq, exerciseLabel)
	}
	if seq == nil || len(seq.Frames) < minAnalysisFrames {
		return a.ErrorResult(fmt.Sprintf("Video too short for %v analysis", exercise.DisplayName()))
	}
	ev := evaluators[exercise]
	issues := []string{}
	score := 100
	for _, check := range ev.checks {
		found := check.run(seq)
		issues = append(issues, found...)
		score -= len(found) * check.weight
	}
	score = max(0, score)

	recommendations := []string{}
	if len(issues) == 0 {
		recommendations = append(recommendations, ev.perfect)
	} else {
		for _, ad := range ev.advice {
			if slices.Contains(issues, ad.issue) {
				recommendations = append(recommendations, ad.advice)
			}
		}
	}

	return &AnalysisResult{
		ExerciseType:        exercise.String(),
		AnalysisTimestamp:   a.Now().UTC(),
		ConfidenceScore:     float64(seq.MeanVisibility()),
		FormRating:          ratingForScore(score),
		FormScore:           score,
		TotalFramesAnalyzed: len(seq.Frames),
		IssuesDetected:      issues,
		Recommendations:     recommendations,
		AreasForImprovement: areasForImprovement(issues),
	}
}

// genericAnalysis handles exercises we don't have checks for yet. The caller
// still gets a well-formed result, scored purely on detection confidence.
func (a *Analyzer) genericAnalysis(seq *pose.Sequence, exerciseLabel string) *AnalysisResult {
	confidence := float64(0)
	frames := 0
	if seq != nil {
		confidence = float64(seq.MeanVisibility())
		frames = len(seq.Frames)
	}
	rating := RatingFair
	if confidence > 0.7 {
		rating = RatingGood
	}
	return &AnalysisResult{
		ExerciseType:        exerciseLabel,
		AnalysisTimestamp:   a.Now().UTC(),
		ConfidenceScore:     confidence,
		FormRating:          rating,
		FormScore:           int(math.Round(confidence * 100)),
		TotalFramesAnalyzed: frames,
		IssuesDetected:      []string{"Analysis not yet implemented for this exercise"},
		Recommendations:     []string{"This exercise type will be fully analyzed in a future update"},
		AreasForImprovement: []string{"Exercise-specific analysis coming soon"},
	}
}

// ErrorResult builds the result we return when a video can't be analyzed at
// all (too short, unreadable poses, nobody in frame).
func (a *Analyzer) ErrorResult(message string) *AnalysisResult {
	return &AnalysisResult{
		ExerciseType:        "unknown",
		AnalysisTimestamp:   a.Now().UTC(),
		ConfidenceScore:     0,
		FormRating:          RatingError,
		FormScore:           0,
		TotalFramesAnalyzed: 0,
		IssuesDetected:      []string{message},
		Recommendations:     []string{"Please ensure the video shows a clear view of the exercise"},
		AreasForImprovement: []string{"Video quality or pose detection issues"},
	}
}

// areasForImprovement is the top three issues, or a positive note when there
// are none.
func areasForImprovement(issues []string) []string {
	if len(issues) == 0 {
		return []string{"No major issues detected"}
	}
	n := min(3, len(issues))
	return slices.Clone(issues[:n])
}
