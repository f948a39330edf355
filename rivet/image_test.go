package rivet

import (
	"image"
	"image/color"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
	"gocv.io/x/gocv"
)

func TestFrameToMatChannelOrder(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 2, color.RGBA{255, 0, 0, 255})

	mat, off, err := frameToMat(img, nil)
	test.That(t, err, test.ShouldBeNil)
	defer mat.Close()

	test.That(t, off, test.ShouldResemble, image.Point{})
	test.That(t, mat.Cols(), test.ShouldEqual, 4)
	test.That(t, mat.Rows(), test.ShouldEqual, 3)
	test.That(t, mat.GetVecbAt(2, 1), test.ShouldResemble, gocv.Vecb{0, 0, 255})
}

func TestFrameToMatCrop(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	img.Set(25, 12, color.RGBA{0, 255, 0, 255})

	crop := image.Rect(20, 10, 60, 20)
	mat, off, err := frameToMat(img, &crop)
	test.That(t, err, test.ShouldBeNil)
	defer mat.Close()

	// clipped to the frame
	test.That(t, off, test.ShouldResemble, image.Pt(20, 10))
	test.That(t, mat.Cols(), test.ShouldEqual, 20)
	test.That(t, mat.Rows(), test.ShouldEqual, 10)
	test.That(t, mat.GetVecbAt(2, 5), test.ShouldResemble, gocv.Vecb{0, 255, 0})

	outside := image.Rect(100, 100, 120, 120)
	_, _, err = frameToMat(img, &outside)
	test.That(t, errors.Is(err, ErrInvalidParameter), test.ShouldBeTrue)
}
