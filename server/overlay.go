package server

import (
	"bytes"
	"image/jpeg"

	"github.com/fitvision/formcheck/pkg/pose"
	"github.com/fogleman/gg"
)

// RenderSkeleton draws the pose wireframe from one detected frame on top of
// a JPEG video frame, and returns the composited JPEG.
// Landmark coordinates are normalized, so the overlay scales with the image.
func RenderSkeleton(frameJPEG []byte, f *pose.Frame) ([]byte, error) {
	img, err := jpeg.Decode(bytes.NewReader(frameJPEG))
	if err != nil {
		return nil, err
	}
	dc := gg.NewContextForImage(img)
	width := float64(dc.Width())
	height := float64(dc.Height())

	dc.SetRGB(0.1, 0.9, 0.4)
	dc.SetLineWidth(3)
	for _, pair := range pose.Skeleton {
		a, okA := f.Landmark(pair[0])
		b, okB := f.Landmark(pair[1])
		if !okA || !okB {
			continue
		}
		dc.DrawLine(float64(a.X)*width, float64(a.Y)*height, float64(b.X)*width, float64(b.Y)*height)
		dc.Stroke()
	}

	dc.SetRGB(1, 0.4, 0.2)
	for _, lm := range f.Landmarks {
		dc.DrawCircle(float64(lm.X)*width, float64(lm.Y)*height, 4)
		dc.Fill()
	}

	out := bytes.Buffer{}
	if err := jpeg.Encode(&out, dc.Image(), &jpeg.Options{Quality: 85}); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
