package rivet

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"go.viam.com/test"
	"gocv.io/x/gocv"
)

var white = color.RGBA{255, 255, 255, 0}

func blankMat(w, h int) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), h, w, gocv.MatTypeCV8UC3)
}

// diskMat draws filled white disks on a black background.
func diskMat(w, h, radius int, centers ...image.Point) gocv.Mat {
	mat := blankMat(w, h)
	for _, c := range centers {
		gocv.Circle(&mat, c, radius, white, -1)
	}
	return mat
}

func writeMat(t *testing.T, name string, mat gocv.Mat) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), name)
	test.That(t, SaveImage(fn, mat), test.ShouldBeNil)
	return fn
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
