package rivet

import (
	"image/color"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

var (
	outlineColor = color.RGBA{0, 255, 0, 0}
	markColor    = color.RGBA{255, 0, 0, 0}
)

// RenderHoles draws circles onto an inverted copy of src, which is how the
// hole detector sees the image. The caller closes the result.
func RenderHoles(src gocv.Mat, circles []Circle) gocv.Mat {
	out := gocv.NewMat()
	gocv.BitwiseNot(src, &out)
	for _, c := range circles {
		gocv.Circle(&out, c.Center(), c.Radius, outlineColor, 2)
		gocv.Circle(&out, c.Center(), 2, markColor, 3)
	}
	return out
}

// RenderEdges draws 1px segments onto a copy of src. The caller closes the result.
func RenderEdges(src gocv.Mat, lines []Line) gocv.Mat {
	out := src.Clone()
	for _, l := range lines {
		gocv.Line(&out, l.Start(), l.End(), markColor, 1)
	}
	return out
}

// Show displays img and blocks until a key is pressed.
func Show(title string, img gocv.Mat) {
	window := gocv.NewWindow(title)
	defer window.Close()

	window.IMShow(img)
	window.WaitKey(0)
}

// SaveImage writes img to path; the extension picks the format.
func SaveImage(path string, img gocv.Mat) error {
	if ok := gocv.IMWrite(path, img); !ok {
		return errors.Errorf("failed to save image to %q", path)
	}
	return nil
}
