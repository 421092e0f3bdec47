package form

import (
	"strings"
)

// Exercise is one of the movements we know how to analyze.
type Exercise int

const (
	Pushup Exercise = iota
	Squat
	Deadlift
	BenchPress
	Pullup
	Plank
	Burpee
	Lunge
	MountainClimber
	JumpingJack
	numExercises
)

var exerciseNames = []string{
	"pushup",
	"squat",
	"deadlift",
	"bench_press",
	"pullup",
	"plank",
	"burpee",
	"lunge",
	"mountain_climber",
	"jumping_jack",
}

// String returns the canonical label, eg "bench_press"
func (e Exercise) String() string {
	return exerciseNames[e]
}

// DisplayName returns the label used in human readable messages, eg "bench press"
func (e Exercise) DisplayName() string {
	return strings.ReplaceAll(exerciseNames[e], "_", " ")
}

// ParseExercise matches a caller-supplied label against the catalogue.
// Matching is case insensitive, and spaces and hyphens are treated as
// underscores, so "Bench Press" and "bench-press" both parse.
// ok is false for labels outside the catalogue.
func ParseExercise(label string) (Exercise, bool) {
	canon := strings.ToLower(label)
	canon = strings.ReplaceAll(canon, " ", "_")
	canon = strings.ReplaceAll(canon, "-", "_")
	for i, name := range exerciseNames {
		if name == canon {
			return Exercise(i), true
		}
	}
	return 0, false
}
