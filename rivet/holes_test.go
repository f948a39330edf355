package rivet

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
	"gocv.io/x/gocv"
)

func TestFindHolesSingleDisk(t *testing.T) {
	mat := diskMat(120, 120, 10, image.Pt(50, 60))
	defer mat.Close()

	circles, err := FindHoles(mat, DefaultHoleConfig())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(circles), test.ShouldEqual, 1)
	test.That(t, abs(circles[0].X-50), test.ShouldBeLessThanOrEqualTo, 2)
	test.That(t, abs(circles[0].Y-60), test.ShouldBeLessThanOrEqualTo, 2)
	test.That(t, abs(circles[0].Radius-10), test.ShouldBeLessThanOrEqualTo, 3)
}

func TestFindHolesTwoDisks(t *testing.T) {
	centers := []image.Point{image.Pt(40, 60), image.Pt(120, 60)}
	mat := diskMat(160, 120, 8, centers...)
	defer mat.Close()

	circles, err := FindHoles(mat, DefaultHoleConfig())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(circles), test.ShouldEqual, 2)

	for _, want := range centers {
		near := 0
		for _, c := range circles {
			if abs(c.X-want.X) <= 2 && abs(c.Y-want.Y) <= 2 {
				near++
			}
		}
		test.That(t, near, test.ShouldEqual, 1)
	}
}

func TestFindHolesSmallHolesPreset(t *testing.T) {
	mat := diskMat(100, 100, 6, image.Pt(50, 50))
	defer mat.Close()

	hc, err := HolePreset(PresetSmallHoles)
	test.That(t, err, test.ShouldBeNil)
	circles, err := FindHoles(mat, hc)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(circles), test.ShouldBeGreaterThanOrEqualTo, 1)
	for _, c := range circles {
		test.That(t, c.Radius, test.ShouldBeLessThanOrEqualTo, 10)
	}
}

func TestFindHolesBlank(t *testing.T) {
	mat := blankMat(120, 120)
	defer mat.Close()

	_, err := FindHoles(mat, DefaultHoleConfig())
	test.That(t, err, test.ShouldEqual, ErrNoCircles)
	test.That(t, errors.Is(err, ErrNoDetections), test.ShouldBeTrue)
}

func TestFindHolesInvalidConfig(t *testing.T) {
	mat := diskMat(120, 120, 10, image.Pt(60, 60))
	defer mat.Close()

	hc := DefaultHoleConfig()
	hc.BlurKernelSize = 4
	_, err := FindHoles(mat, hc)
	test.That(t, errors.Is(err, ErrInvalidParameter), test.ShouldBeTrue)

	hc = DefaultHoleConfig()
	hc.MinRadius = -2
	_, err = FindHoles(mat, hc)
	test.That(t, errors.Is(err, ErrInvalidParameter), test.ShouldBeTrue)

	// an empty config is not completed with defaults
	_, err = FindHoles(mat, HoleConfig{})
	test.That(t, errors.Is(err, ErrInvalidParameter), test.ShouldBeTrue)
}

func TestDetectHoles(t *testing.T) {
	mat := diskMat(120, 120, 10, image.Pt(60, 60))
	defer mat.Close()
	fn := writeMat(t, "disk.png", mat)

	first, err := DetectHoles(fn, DefaultHoleConfig())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(first), test.ShouldEqual, 1)

	second, err := DetectHoles(fn, DefaultHoleConfig())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, second, test.ShouldResemble, first)
}

func TestDetectHolesMissingFile(t *testing.T) {
	_, err := DetectHoles(filepath.Join(t.TempDir(), "nope.jpg"), DefaultHoleConfig())
	test.That(t, errors.Is(err, ErrImageLoad), test.ShouldBeTrue)

	junk := filepath.Join(t.TempDir(), "junk.jpg")
	test.That(t, os.WriteFile(junk, []byte("not an image"), 0o600), test.ShouldBeNil)
	_, err = DetectHoles(junk, DefaultHoleConfig())
	test.That(t, errors.Is(err, ErrImageLoad), test.ShouldBeTrue)
}

func TestHoleMaskOutput(t *testing.T) {
	mat := diskMat(120, 100, 10, image.Pt(60, 50))
	defer mat.Close()

	hc := DefaultHoleConfig()
	hc.MaskOutput = filepath.Join(t.TempDir(), "mask.png")
	_, err := FindHoles(mat, hc)
	test.That(t, err, test.ShouldBeNil)

	mask := gocv.IMRead(hc.MaskOutput, gocv.IMReadColor)
	defer mask.Close()
	test.That(t, mask.Empty(), test.ShouldBeFalse)
	test.That(t, mask.Cols(), test.ShouldEqual, 120)
	test.That(t, mask.Rows(), test.ShouldEqual, 100)

	// the inverted background is bright and survives the mask; the disk does not
	test.That(t, mask.GetVecbAt(5, 5)[0], test.ShouldEqual, uint8(255))
	test.That(t, mask.GetVecbAt(50, 60)[0], test.ShouldEqual, uint8(0))
}

func TestRoundCoord(t *testing.T) {
	test.That(t, roundCoord(2.5), test.ShouldEqual, 2)
	test.That(t, roundCoord(3.5), test.ShouldEqual, 4)
	test.That(t, roundCoord(7.2), test.ShouldEqual, 7)
	test.That(t, roundCoord(-0.7), test.ShouldEqual, 0)
}

func TestFindHolesUnboundedMaxRadius(t *testing.T) {
	mat := diskMat(160, 160, 30, image.Pt(80, 80))
	defer mat.Close()

	bounded, err := FindHoles(mat, DefaultHoleConfig())
	if err != nil {
		test.That(t, err, test.ShouldEqual, ErrNoCircles)
	}
	for _, c := range bounded {
		test.That(t, c.Radius, test.ShouldBeLessThanOrEqualTo, 20)
	}

	// 0 reaches OpenCV as "no upper bound" rather than the preset's 20
	hc := DefaultHoleConfig()
	hc.MaxRadius = 0
	circles, err := FindHoles(mat, hc)
	test.That(t, err, test.ShouldBeNil)

	found := false
	for _, c := range circles {
		if abs(c.X-80) <= 2 && abs(c.Y-80) <= 2 && abs(c.Radius-30) <= 3 {
			found = true
		}
	}
	test.That(t, found, test.ShouldBeTrue)
}
