package videox

import (
	"io"
	"os"

	"github.com/bmharper/cimg/v2"
)

// FileFrameSource yields the frames of a video file in order.
// The frames are dumped to a temp directory by ffmpeg when the source is
// created, and decoded one at a time as NextFrame is called.
type FileFrameSource struct {
	dir   string
	files []string
	next  int
}

// NewFileFrameSource extracts up to maxFrames frames from the video and
// prepares to iterate over them.
func NewFileFrameSource(srcFilename string, maxFrames int) (*FileFrameSource, error) {
	dir, err := os.MkdirTemp("", "frames-*")
	if err != nil {
		return nil, err
	}
	files, err := ExtractFrames(srcFilename, dir, maxFrames)
	if err != nil {
		os.RemoveAll(dir)
		return nil, err
	}
	return &FileFrameSource{
		dir:   dir,
		files: files,
	}, nil
}

// NumFrames returns the number of frames that were extracted.
func (s *FileFrameSource) NumFrames() int {
	return len(s.files)
}

// NextFrame returns the next frame, or io.EOF after the last one.
func (s *FileFrameSource) NextFrame() (*cimg.Image, error) {
	if s.next >= len(s.files) {
		return nil, io.EOF
	}
	img, err := cimg.ReadFile(s.files[s.next])
	if err != nil {
		return nil, err
	}
	s.next++
	return img, nil
}

func (s *FileFrameSource) Close() {
	os.RemoveAll(s.dir)
}
