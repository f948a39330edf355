package rivet

import (
	"image"
	"math"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// Circle is a detected rivet hole in pixel coordinates of the input image.
type Circle struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Radius int `json:"radius"`
}

// Center returns the circle centre as a point.
func (c Circle) Center() image.Point {
	return image.Pt(c.X, c.Y)
}

// DetectHoles loads the image at path and finds rivet holes in it.
func DetectHoles(path string, hc HoleConfig) ([]Circle, error) {
	mat, err := LoadImage(path)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	return FindHoles(mat, hc)
}

// FindHoles finds rivet holes in a BGR image. Holes are dark on the skin, so
// the image is inverted first and the holes become bright blobs.
// hc is used as given, zero fields included; start from HolePreset.
// It returns ErrNoCircles when nothing is found.
func FindHoles(src gocv.Mat, hc HoleConfig) ([]Circle, error) {
	if err := hc.Validate(); err != nil {
		return nil, err
	}
	if src.Empty() {
		return nil, errors.Wrap(ErrImageLoad, "empty image")
	}

	inverted := gocv.NewMat()
	defer inverted.Close()
	gocv.BitwiseNot(src, &inverted)

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(inverted, &gray, gocv.ColorBGRToGray)

	if hc.MaskOutput != "" {
		if err := writeHoleMask(inverted, gray, hc); err != nil {
			return nil, err
		}
	}

	circles := gocv.NewMat()
	defer circles.Close()

	// detection runs on the unblurred gray image; the blurred mask is only a diagnostic
	gocv.HoughCirclesWithParams(
		gray,
		&circles,
		gocv.HoughGradient,
		hc.Dp,
		hc.MinDist,
		hc.Param1, // upper canny threshold
		hc.Param2, // accumulator threshold
		hc.MinRadius,
		hc.MaxRadius,
	)

	if circles.Empty() || circles.Cols() == 0 {
		return nil, ErrNoCircles
	}

	found := make([]Circle, 0, circles.Cols())
	for i := 0; i < circles.Cols(); i++ {
		v := circles.GetVecfAt(0, i)
		found = append(found, Circle{
			X:      roundCoord(v[0]),
			Y:      roundCoord(v[1]),
			Radius: roundCoord(v[2]),
		})
	}
	return found, nil
}

// writeHoleMask thresholds the blurred gray image and writes the inverted
// image masked by it to hc.MaskOutput.
func writeHoleMask(inverted, gray gocv.Mat, hc HoleConfig) error {
	blurred := gocv.NewMat()
	defer blurred.Close()
	k := hc.BlurKernelSize
	gocv.GaussianBlur(gray, &blurred, image.Pt(k, k), 0, 0, gocv.BorderDefault)

	// binary: > ThresholdLow becomes ThresholdHigh, the rest 0
	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(blurred, &thresh, hc.ThresholdLow, hc.ThresholdHigh, gocv.ThresholdBinary)

	masked := gocv.NewMat()
	defer masked.Close()
	gocv.BitwiseAndWithMask(inverted, inverted, &masked, thresh)

	return SaveImage(hc.MaskOutput, masked)
}

// roundCoord rounds half to even and clamps at zero.
func roundCoord(v float32) int {
	r := math.RoundToEven(float64(v))
	if r < 0 {
		return 0
	}
	return int(r)
}
