// Package rivet finds rivet holes and panel edges in photographs of aircraft
// skin, and serves the hole detector as a Viam vision service.
package rivet

import (
	"context"
	"fmt"
	"image"
	"strconv"

	"github.com/pkg/errors"
	"go.viam.com/rdk/components/camera"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/resource"
	"go.viam.com/rdk/services/vision"
	vis "go.viam.com/rdk/vision"
	"go.viam.com/rdk/vision/classification"
	objdet "go.viam.com/rdk/vision/objectdetection"
	"go.viam.com/rdk/vision/viscapture"
)

const (
	ModelName = "rivet-holes"

	detectEdgesCommand = "detect_edges"
)

var (
	// Model is viam:rivet-inspection:rivet-holes
	Model            = resource.NewModel("viam", "rivet-inspection", ModelName)
	errUnimplemented = errors.New("unimplemented")
)

func init() {
	resource.RegisterService(vision.API, Model, resource.Registration[vision.Service, *ServiceConfig]{
		Constructor: newRivetDetector,
	})
}

// ServiceConfig is the attribute block of the vision service.
type ServiceConfig struct {
	CameraName string           `json:"camera_name"`
	Holes      HoleConfig       `json:"holes"`
	Edges      LineConfig       `json:"edges"`
	Crop       *image.Rectangle `json:"crop,omitempty"`
}

// Validate validates the config and returns implicit dependencies.
func (cfg *ServiceConfig) Validate(path string) ([]string, error) {
	if cfg.CameraName == "" {
		return nil, fmt.Errorf(`expected "camera_name" attribute for rivet detector %q`, path)
	}

	if _, err := cfg.resolve(path); err != nil {
		return nil, err
	}
	return []string{cfg.CameraName}, nil
}

// resolve returns a copy with the detector defaults filled in and validated.
// Attribute blocks cannot tell an omitted field from zero, so zero means
// "use the preset" here.
func (cfg *ServiceConfig) resolve(path string) (*ServiceConfig, error) {
	out := *cfg
	holes, err := cfg.Holes.Defaults()
	if err != nil {
		return nil, errors.Wrapf(err, "%s.holes", path)
	}
	if err := holes.Validate(); err != nil {
		return nil, errors.Wrapf(err, "%s.holes", path)
	}
	out.Holes = holes

	out.Edges = cfg.Edges.Defaults()
	if err := out.Edges.Validate(); err != nil {
		return nil, errors.Wrapf(err, "%s.edges", path)
	}
	if cfg.Crop != nil && cfg.Crop.Empty() {
		return nil, errors.Wrapf(ErrInvalidParameter, "%s.crop is empty", path)
	}
	return &out, nil
}

type rivetDetector struct {
	resource.Named
	resource.AlwaysRebuild

	logger logging.Logger
	cam    camera.Camera
	conf   *ServiceConfig
}

func newRivetDetector(ctx context.Context, deps resource.Dependencies, conf resource.Config, logger logging.Logger) (vision.Service, error) {
	newConf, err := resource.NativeConfig[*ServiceConfig](conf)
	if err != nil {
		return nil, errors.Errorf("Could not assert proper config for %s", ModelName)
	}
	newConf, err = newConf.resolve(conf.Name)
	if err != nil {
		return nil, err
	}

	d := &rivetDetector{
		Named:  conf.ResourceName().AsNamed(),
		logger: logger,
		conf:   newConf,
	}

	d.cam, err = camera.FromDependencies(deps, newConf.CameraName)
	if err != nil {
		return nil, err
	}

	return d, nil
}

func (d *rivetDetector) DetectionsFromCamera(
	ctx context.Context,
	cameraName string,
	extra map[string]interface{},
) ([]objdet.Detection, error) {
	colorImg, err := d.getImage(ctx)
	if err != nil {
		return nil, err
	}
	return d.Detections(ctx, colorImg, extra)
}

func (d *rivetDetector) Detections(ctx context.Context, img image.Image, extra map[string]interface{}) ([]objdet.Detection, error) {
	circles, err := d.holes(img)
	if err != nil {
		return nil, err
	}
	return formatDetections(circles), nil
}

// holes runs the hole detector on the configured region of img. An empty
// frame is a valid answer here, so ErrNoCircles becomes an empty slice.
func (d *rivetDetector) holes(img image.Image) ([]Circle, error) {
	mat, off, err := frameToMat(img, d.conf.Crop)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	circles, err := FindHoles(mat, d.conf.Holes)
	if errors.Is(err, ErrNoCircles) {
		d.logger.Debug("no rivet holes in frame")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	d.logger.Debugf("found %d rivet holes", len(circles))

	for i := range circles {
		circles[i].X += off.X
		circles[i].Y += off.Y
	}
	return circles, nil
}

func (d *rivetDetector) edges(img image.Image) ([]Line, error) {
	mat, off, err := frameToMat(img, d.conf.Crop)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	lines, err := FindEdges(mat, d.conf.Edges)
	if errors.Is(err, ErrNoLines) {
		d.logger.Debug("no panel edges in frame")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	for i := range lines {
		lines[i].X1 += off.X
		lines[i].Y1 += off.Y
		lines[i].X2 += off.X
		lines[i].Y2 += off.Y
	}
	return lines, nil
}

func (d *rivetDetector) ClassificationsFromCamera(
	ctx context.Context,
	cameraName string,
	n int,
	extra map[string]interface{},
) (classification.Classifications, error) {
	return nil, errUnimplemented
}

func (d *rivetDetector) Classifications(ctx context.Context, img image.Image,
	n int, extra map[string]interface{},
) (classification.Classifications, error) {
	return nil, errUnimplemented
}

func (d *rivetDetector) GetProperties(ctx context.Context, extra map[string]interface{}) (*vision.Properties, error) {
	return &vision.Properties{
		DetectionSupported:      true,
		ClassificationSupported: false,
		ObjectPCDsSupported:     false,
	}, nil
}

func (d *rivetDetector) GetObjectPointClouds(
	ctx context.Context,
	cameraName string,
	extra map[string]interface{},
) ([]*vis.Object, error) {
	return nil, errUnimplemented
}

func (d *rivetDetector) CaptureAllFromCamera(
	ctx context.Context,
	cameraName string,
	opt viscapture.CaptureOptions,
	extra map[string]interface{},
) (viscapture.VisCapture, error) {
	colorImg, err := d.getImage(ctx)
	if err != nil {
		return viscapture.VisCapture{}, err
	}

	circles, err := d.holes(colorImg)
	if err != nil {
		return viscapture.VisCapture{}, err
	}

	capt := viscapture.VisCapture{}
	if opt.ReturnDetections {
		capt.Detections = formatDetections(circles)
	}
	if opt.ReturnImage {
		capt.Image, err = annotate(colorImg, circles)
		if err != nil {
			return viscapture.VisCapture{}, err
		}
	}
	return capt, nil
}

func (d *rivetDetector) Close(ctx context.Context) error {
	return nil
}

func (d *rivetDetector) DoCommand(ctx context.Context, cmd map[string]interface{}) (map[string]interface{}, error) {
	name, _ := cmd["command"].(string)
	if name != detectEdgesCommand {
		return nil, errors.Errorf("unknown command %q, expected %q", name, detectEdgesCommand)
	}

	colorImg, err := d.getImage(ctx)
	if err != nil {
		return nil, err
	}
	lines, err := d.edges(colorImg)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"lines": formatLines(lines)}, nil
}

func (d *rivetDetector) getImage(ctx context.Context) (image.Image, error) {
	images, _, err := d.cam.Images(ctx)
	if err != nil {
		return nil, err
	}

	for _, img := range images {
		if img.SourceName == "color" {
			return img.Image, nil
		}
	}
	if len(images) == 1 {
		return images[0].Image, nil
	}
	return nil, errors.Errorf("camera %q returned no color image", d.conf.CameraName)
}

// annotate draws circles over the inverted frame, in original frame coordinates.
func annotate(img image.Image, circles []Circle) (image.Image, error) {
	mat, off, err := frameToMat(img, nil)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	local := make([]Circle, len(circles))
	for i, c := range circles {
		local[i] = Circle{X: c.X - off.X, Y: c.Y - off.Y, Radius: c.Radius}
	}
	out := RenderHoles(mat, local)
	defer out.Close()

	return out.ToImage()
}

func formatDetections(circles []Circle) []objdet.Detection {
	detections := make([]objdet.Detection, 0, len(circles))
	for i, c := range circles {
		rect := image.Rect(c.X-c.Radius, c.Y-c.Radius, c.X+c.Radius, c.Y+c.Radius)
		name := "rivet-hole-" + strconv.Itoa(i)
		detections = append(detections, objdet.NewDetection(rect, 1, name))
	}
	return detections
}

func formatLines(lines []Line) []interface{} {
	out := make([]interface{}, 0, len(lines))
	for _, l := range lines {
		out = append(out, map[string]interface{}{
			"x1": l.X1,
			"y1": l.Y1,
			"x2": l.X2,
			"y2": l.Y2,
		})
	}
	return out
}
