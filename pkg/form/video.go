package form

import (
	"errors"
	"fmt"
	"time"

	"github.com/cyclopcam/logs"
	"github.com/fitvision/formcheck/pkg/pose"
	"github.com/fitvision/formcheck/pkg/videox"
)

// ErrVideoTooLong means the video exceeds the analysis duration cap.
var ErrVideoTooLong = errors.New("video too long")

const (
	DefaultMaxVideoDuration = 10 * time.Second
)

// VideoAnalysisOptions controls AnalyzeVideoFile.
type VideoAnalysisOptions struct {
	MaxFrames   int                                 // Frame cap. 0 = pose.DefaultMaxFrames.
	MaxDuration time.Duration                       // Duration cap. 0 = DefaultMaxVideoDuration.
	OnProgress  func(framesScanned, posesFound int) // Optional progress callback
}

// AnalyzeVideoFile runs the full pipeline on a video file: probe, extract
// frames, estimate poses, analyze form.
// An unreadable or over-long video is an error. A readable video where we
// can't find a person, or can't find enough pose frames, is not an error,
// and instead produces an Error-rated result.
func (a *Analyzer) AnalyzeVideoFile(log logs.Log, videoFilename, exerciseLabel string, est pose.Estimator, opts VideoAnalysisOptions) (*AnalysisResult, error) {
	maxDuration := opts.MaxDuration
	if maxDuration == 0 {
		maxDuration = DefaultMaxVideoDuration
	}
	maxFrames := opts.MaxFrames
	if maxFrames == 0 {
		maxFrames = pose.DefaultMaxFrames
	}

	duration, err := videox.ExtractVideoDuration(videoFilename)
	if err != nil {
		return nil, err
	}
	if duration > maxDuration {
		return nil, fmt.Errorf("%w: %.1f seconds (max %.1f)", ErrVideoTooLong, duration.Seconds(), maxDuration.Seconds())
	}
	log.Infof("Analyzing %v second video for %v form", duration.Seconds(), exerciseLabel)

	src, err := videox.NewFileFrameSource(videoFilename, maxFrames)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	seq, err := pose.BuildSequence(log, src, est, pose.BuildOptions{
		MaxFrames:  maxFrames,
		OnProgress: opts.OnProgress,
	})
	if errors.Is(err, pose.ErrNoPoseDetected) {
		return a.ErrorResult("No pose detected in video"), nil
	} else if err != nil {
		return nil, err
	}
	return a.Analyze(seq, exerciseLabel), nil
}
