package form

import (
	"fmt"
	"strings"
)

// FormatFeedback renders an analysis result as the multi-line report we show
// to users. Output is fully determined by the result.
func FormatFeedback(r *AnalysisResult) string {
	b := strings.Builder{}
	fmt.Fprintf(&b, "Analysis for %v:\n\n", r.ExerciseType)
	fmt.Fprintf(&b, "Overall Form Rating: %v\n", r.FormRating)
	fmt.Fprintf(&b, "Form Score: %v/100\n", r.FormScore)
	fmt.Fprintf(&b, "Confidence Score: %.2f\n", r.ConfidenceScore)
	fmt.Fprintf(&b, "Frames Analyzed: %v\n", r.TotalFramesAnalyzed)

	b.WriteString("\nRecommendations:\n")
	for _, rec := range r.Recommendations {
		fmt.Fprintf(&b, "- %v\n", rec)
	}

	b.WriteString("\nAreas for Improvement:\n")
	for _, area := range r.AreasForImprovement {
		fmt.Fprintf(&b, "- %v\n", area)
	}

	b.WriteString("\nIssues Detected:\n")
	if len(r.IssuesDetected) == 0 {
		b.WriteString("- No major issues detected\n")
	} else {
		for _, issue := range r.IssuesDetected {
			fmt.Fprintf(&b, "- %v\n", issue)
		}
	}
	return b.String()
}
