package rivet

import "github.com/pkg/errors"

var (
	// ErrImageLoad is returned when a path does not resolve to a decodable image.
	ErrImageLoad = errors.New("could not load image")

	// ErrNoDetections is returned when a transform yields an empty result.
	ErrNoDetections = errors.New("no detections")
	// ErrNoCircles is the ErrNoDetections returned by the hole detector.
	ErrNoCircles = errors.Wrap(ErrNoDetections, "no circles detected")
	// ErrNoLines is the ErrNoDetections returned by the edge detector.
	ErrNoLines = errors.Wrap(ErrNoDetections, "no lines detected")

	// ErrInvalidParameter is returned by config validation.
	ErrInvalidParameter = errors.New("invalid parameter")
)

func invalidParam(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidParameter, format, args...)
}
