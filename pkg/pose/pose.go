// Package pose holds the landmark data model and the machinery that turns a
// video file into an ordered sequence of detected poses.
package pose

// Landmark is a single body joint detected in one frame.
// X and Y are normalized image coordinates (0..1, origin top-left).
// Z is depth relative to the hip midpoint, same scale as X.
type Landmark struct {
	X          float32 `json:"x"`
	Y          float32 `json:"y"`
	Z          float32 `json:"z"`
	Visibility float32 `json:"visibility"`
}

// Frame is the pose detected in one video frame.
// Landmarks maps landmark id to the detected joint. An id that is missing
// from the map was not detected in this frame.
// A Frame is never modified after the sequence builder emits it.
type Frame struct {
	Index          int              `json:"index"` // Frame number within the source video, starting at 0
	Landmarks      map[int]Landmark `json:"landmarks"`
	MeanVisibility float32          `json:"meanVisibility"`
}

// Landmark returns the landmark with the given id, and whether it was detected.
func (f *Frame) Landmark(id int) (Landmark, bool) {
	lm, ok := f.Landmarks[id]
	return lm, ok
}

// Has returns true if every one of the given landmark ids was detected in this frame.
func (f *Frame) Has(ids ...int) bool {
	for _, id := range ids {
		if _, ok := f.Landmarks[id]; !ok {
			return false
		}
	}
	return true
}

// Sequence is the ordered list of pose frames extracted from one video.
// Frames appear in temporal order. Frames where no pose was detected are
// omitted, so Index values may have gaps.
type Sequence struct {
	Frames []Frame `json:"frames"`

	// FramesScanned is the total number of video frames we looked at,
	// including frames where no pose was detected.
	FramesScanned int `json:"framesScanned"`
}

// MeanVisibility returns the average of the per-frame mean visibility over
// the whole sequence, or 0 for an empty sequence.
func (s *Sequence) MeanVisibility() float32 {
	if len(s.Frames) == 0 {
		return 0
	}
	sum := float32(0)
	for i := range s.Frames {
		sum += s.Frames[i].MeanVisibility
	}
	return sum / float32(len(s.Frames))
}

// MakeFrame builds a Frame from a set of detected landmarks, computing the
// mean visibility over the detected joints.
func MakeFrame(index int, landmarks map[int]Landmark) Frame {
	mean := float32(0)
	if len(landmarks) != 0 {
		for _, lm := range landmarks {
			mean += lm.Visibility
		}
		mean /= float32(len(landmarks))
	}
	return Frame{
		Index:          index,
		Landmarks:      landmarks,
		MeanVisibility: mean,
	}
}
