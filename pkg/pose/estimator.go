package pose

import (
	"github.com/bmharper/cimg/v2"
)

// ModelConfig describes the pose model behind an Estimator.
type ModelConfig struct {
	Name                string  `json:"name"`
	MinDetectConfidence float32 `json:"minDetectConfidence"`
	MinTrackConfidence  float32 `json:"minTrackConfidence"`
}

// Estimator runs single-person pose estimation on one image at a time.
// Implementations are used sequentially by the sequence builder and do not
// need to be safe for concurrent use.
type Estimator interface {
	// EstimatePose returns the detected landmarks, keyed by landmark id.
	// A nil map with a nil error means no person was detected in the image.
	EstimatePose(img *cimg.Image) (map[int]Landmark, error)

	Config() *ModelConfig

	Close()
}
