package pose

import (
	"errors"
	"io"

	"github.com/bmharper/cimg/v2"
	"github.com/cyclopcam/logs"
)

// ErrNoPoseDetected means we scanned the entire video without finding a
// person in any frame.
var ErrNoPoseDetected = errors.New("No pose detected in video")

// FrameSource produces the frames of a video, in order.
type FrameSource interface {
	// NextFrame returns the next frame, or io.EOF when the video is finished.
	NextFrame() (*cimg.Image, error)

	Close()
}

// BuildOptions controls a BuildSequence run.
type BuildOptions struct {
	MaxFrames        int                            // Stop after scanning this many frames. 0 = DefaultMaxFrames.
	ProgressInterval int                            // Report progress every N frames. 0 = DefaultProgressInterval.
	OnProgress       func(framesScanned, posesFound int) // Optional progress callback
}

const (
	DefaultMaxFrames        = 100
	DefaultProgressInterval = 50
)

// BuildSequence walks the frames of src in order, runs the estimator on each
// one, and collects the frames where a pose was detected. Frames without a
// pose are skipped but still counted. If no frame contains a pose, the error
// is ErrNoPoseDetected.
func BuildSequence(log logs.Log, src FrameSource, est Estimator, opts BuildOptions) (*Sequence, error) {
	maxFrames := opts.MaxFrames
	if maxFrames == 0 {
		maxFrames = DefaultMaxFrames
	}
	interval := opts.ProgressInterval
	if interval == 0 {
		interval = DefaultProgressInterval
	}

	seq := &Sequence{
		Frames: []Frame{},
	}
	for seq.FramesScanned < maxFrames {
		img, err := src.NextFrame()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		idx := seq.FramesScanned
		seq.FramesScanned++
		landmarks, err := est.EstimatePose(img)
		if err != nil {
			// A failure on one frame doesn't sink the run. Treat it like a frame
			// with nobody in it.
			log.Warnf("Pose estimation failed on frame %v: %v", idx, err)
			landmarks = nil
		}
		if len(landmarks) != 0 {
			seq.Frames = append(seq.Frames, MakeFrame(idx, landmarks))
		}
		if seq.FramesScanned%interval == 0 {
			log.Infof("Processed %v frames, %v poses detected", seq.FramesScanned, len(seq.Frames))
			if opts.OnProgress != nil {
				opts.OnProgress(seq.FramesScanned, len(seq.Frames))
			}
		}
	}
	if opts.OnProgress != nil {
		opts.OnProgress(seq.FramesScanned, len(seq.Frames))
	}
	if len(seq.Frames) == 0 {
		return nil, ErrNoPoseDetected
	}
	log.Infof("Pose sequence complete: %v poses in %v frames", len(seq.Frames), seq.FramesScanned)
	return seq, nil
}
