package rivet

import (
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// LoadImage reads path as a BGR color Mat. The caller closes it.
func LoadImage(path string) (gocv.Mat, error) {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	if mat.Empty() {
		mat.Close()
		return gocv.Mat{}, errors.Wrapf(ErrImageLoad, "%q", path)
	}
	return mat, nil
}

// frameToMat converts a camera frame to a BGR Mat limited to crop. The
// returned offset maps Mat coordinates back to frame coordinates. The caller
// closes the Mat.
func frameToMat(img image.Image, crop *image.Rectangle) (gocv.Mat, image.Point, error) {
	// ImageToMatRGB lays the channels out in OpenCV's BGR order
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return gocv.Mat{}, image.Point{}, errors.Wrap(err, "could not convert frame")
	}
	bounds := img.Bounds()
	if crop == nil {
		return mat, bounds.Min, nil
	}
	defer mat.Close()

	r := crop.Intersect(bounds)
	if r.Empty() {
		return gocv.Mat{}, image.Point{}, errors.Wrapf(ErrInvalidParameter, "crop %v is outside the %v frame", *crop, bounds)
	}
	region := mat.Region(r.Sub(bounds.Min))
	defer region.Close()

	return region.Clone(), r.Min, nil
}
