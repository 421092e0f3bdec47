package form

import (
	"time"
)

// Form ratings, from best to worst. RatingError is reserved for videos we
// could not analyze at all (too short, or no pose detected).
const (
	RatingExcellent = "Excellent"
	RatingGood      = "Good"
	RatingFair      = "Fair"
	RatingPoor      = "Poor"
	RatingError     = "Error"
)

// AnalysisResult is the outcome of analyzing one video.
// The JSON field names are our API wire format, so don't change them.
type AnalysisResult struct {
	ExerciseType        string    `json:"exercise_type"`
	AnalysisTimestamp   time.Time `json:"analysis_timestamp"`
	ConfidenceScore     float64   `json:"confidence_score"`
	FormRating          string    `json:"form_rating"`
	FormScore           int       `json:"form_score"`
	TotalFramesAnalyzed int       `json:"total_frames_analyzed"`
	IssuesDetected      []string  `json:"issues_detected"`
	Recommendations     []string  `json:"recommendations"`
	AreasForImprovement []string  `json:"areas_for_improvement"`
}

// ratingForScore maps a 0..100 form score onto a rating
func ratingForScore(score int) string {
	switch {
	case score >= 90:
		return RatingExcellent
	case score >= 75:
		return RatingGood
	case score >= 60:
		return RatingFair
	default:
		return RatingPoor
	}
}
