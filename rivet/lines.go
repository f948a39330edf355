package rivet

import (
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// Line is a detected straight segment between two endpoints.
type Line struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Start returns the first endpoint.
func (l Line) Start() image.Point { return image.Pt(l.X1, l.Y1) }

// End returns the second endpoint.
func (l Line) End() image.Point { return image.Pt(l.X2, l.Y2) }

// DetectEdges loads the image at path and finds straight panel edges in it.
func DetectEdges(path string, lc LineConfig) ([]Line, error) {
	mat, err := LoadImage(path)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	return FindEdges(mat, lc)
}

// FindEdges runs Canny and a probabilistic Hough transform over a BGR image.
// lc is used as given; start from DefaultLineConfig.
// It returns ErrNoLines when nothing is found.
func FindEdges(src gocv.Mat, lc LineConfig) ([]Line, error) {
	if err := lc.Validate(); err != nil {
		return nil, err
	}
	if src.Empty() {
		return nil, errors.Wrap(ErrImageLoad, "empty image")
	}

	// gocv uses the default sobel aperture of 3
	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(src, &edges, lc.CannyLow, lc.CannyHigh)

	lines := gocv.NewMat()
	defer lines.Close()
	gocv.HoughLinesPWithParams(edges, &lines, lc.Rho, lc.Theta, lc.Threshold, lc.MinLineLength, lc.MaxLineGap)

	if lines.Empty() || lines.Rows() == 0 {
		return nil, ErrNoLines
	}

	found := make([]Line, 0, lines.Rows())
	for i := 0; i < lines.Rows(); i++ {
		v := lines.GetVeciAt(i, 0)
		found = append(found, Line{
			X1: int(v[0]),
			Y1: int(v[1]),
			X2: int(v[2]),
			Y2: int(v[3]),
		})
	}
	return found, nil
}
