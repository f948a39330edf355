package rivet

import "math"

// Hole detector presets. They differ only in their Hough constants;
// small-holes suits holes up to 10px in radius.
const (
	PresetStandard   = "standard"
	PresetSmallHoles = "small-holes"
)

// HoleConfig holds the tuning for the rivet hole detector. The detector uses
// it as is; Defaults fills zero fields from Preset for attribute blocks that
// cannot tell "unset" from zero.
type HoleConfig struct {
	Preset string `json:"preset,omitempty"`

	BlurKernelSize int     `json:"blur_kernel_size,omitempty"`
	ThresholdLow   float32 `json:"threshold_low,omitempty"`
	ThresholdHigh  float32 `json:"threshold_high,omitempty"`

	Dp        float64 `json:"hough_dp,omitempty"`
	MinDist   float64 `json:"hough_min_dist,omitempty"`
	Param1    float64 `json:"hough_param1,omitempty"`
	Param2    float64 `json:"hough_param2,omitempty"`
	MinRadius int     `json:"hough_min_radius,omitempty"`
	MaxRadius int     `json:"hough_max_radius,omitempty"`

	// MaskOutput, when set, is where the threshold-masked inverted image is
	// written. It is diagnostic only; detection never reads it.
	MaskOutput string `json:"mask_output,omitempty"`
}

// HolePreset returns the full tuning for a named preset.
func HolePreset(name string) (HoleConfig, error) {
	hc := HoleConfig{
		Preset:         name,
		BlurKernelSize: 11,
		ThresholdLow:   190,
		ThresholdHigh:  235,
		Param1:         50,
		MinRadius:      1,
	}
	switch name {
	case "", PresetStandard:
		hc.Preset = PresetStandard
		hc.Dp = 0.8
		hc.MinDist = 5
		hc.Param2 = 20
		hc.MaxRadius = 20
	case PresetSmallHoles:
		hc.Dp = 0.5
		hc.MinDist = 8
		hc.Param2 = 15
		hc.MaxRadius = 10
	default:
		return HoleConfig{}, invalidParam("unknown preset %q", name)
	}
	return hc, nil
}

// DefaultHoleConfig returns the standard preset.
func DefaultHoleConfig() HoleConfig {
	hc, _ := HolePreset(PresetStandard)
	return hc
}

// Defaults returns a copy of hc with every unset field taken from its preset.
func (hc HoleConfig) Defaults() (HoleConfig, error) {
	p, err := HolePreset(hc.Preset)
	if err != nil {
		return HoleConfig{}, err
	}
	if hc.BlurKernelSize == 0 {
		hc.BlurKernelSize = p.BlurKernelSize
	}
	if hc.ThresholdLow == 0 {
		hc.ThresholdLow = p.ThresholdLow
	}
	if hc.ThresholdHigh == 0 {
		hc.ThresholdHigh = p.ThresholdHigh
	}
	if hc.Dp == 0 {
		hc.Dp = p.Dp
	}
	if hc.MinDist == 0 {
		hc.MinDist = p.MinDist
	}
	if hc.Param1 == 0 {
		hc.Param1 = p.Param1
	}
	if hc.Param2 == 0 {
		hc.Param2 = p.Param2
	}
	if hc.MinRadius == 0 {
		hc.MinRadius = p.MinRadius
	}
	if hc.MaxRadius == 0 {
		hc.MaxRadius = p.MaxRadius
	}
	hc.Preset = p.Preset
	return hc, nil
}

// Validate checks a fully populated config.
func (hc HoleConfig) Validate() error {
	if hc.BlurKernelSize <= 0 || hc.BlurKernelSize%2 == 0 {
		return invalidParam("blur_kernel_size must be a positive odd number, got %d", hc.BlurKernelSize)
	}
	if hc.ThresholdLow < 0 || hc.ThresholdLow > 255 {
		return invalidParam("threshold_low must be in [0, 255], got %v", hc.ThresholdLow)
	}
	if hc.ThresholdHigh <= 0 || hc.ThresholdHigh > 255 {
		return invalidParam("threshold_high must be in (0, 255], got %v", hc.ThresholdHigh)
	}
	if hc.Dp <= 0 {
		return invalidParam("hough_dp must be positive, got %v", hc.Dp)
	}
	if hc.MinDist <= 0 {
		return invalidParam("hough_min_dist must be positive, got %v", hc.MinDist)
	}
	if hc.Param1 <= 0 {
		return invalidParam("hough_param1 must be positive, got %v", hc.Param1)
	}
	if hc.Param2 <= 0 {
		return invalidParam("hough_param2 must be positive, got %v", hc.Param2)
	}
	if hc.MinRadius < 0 {
		return invalidParam("hough_min_radius must not be negative, got %d", hc.MinRadius)
	}
	if hc.MaxRadius < 0 {
		return invalidParam("hough_max_radius must not be negative, got %d", hc.MaxRadius)
	}
	// OpenCV reads max_radius 0 as "image size"
	if hc.MaxRadius > 0 && hc.MaxRadius < hc.MinRadius {
		return invalidParam("hough_max_radius %d is below hough_min_radius %d", hc.MaxRadius, hc.MinRadius)
	}
	return nil
}

// LineConfig holds the tuning for the panel edge detector.
type LineConfig struct {
	CannyLow  float32 `json:"canny_low,omitempty"`
	CannyHigh float32 `json:"canny_high,omitempty"`

	Rho           float32 `json:"rho,omitempty"`
	Theta         float32 `json:"theta,omitempty"`
	Threshold     int     `json:"threshold,omitempty"`
	MinLineLength float32 `json:"min_line_length,omitempty"`
	MaxLineGap    float32 `json:"max_line_gap,omitempty"`
}

// DefaultLineConfig returns the panel edge tuning.
func DefaultLineConfig() LineConfig {
	return LineConfig{
		CannyLow:      150,
		CannyHigh:     400,
		Rho:           1,
		Theta:         math.Pi / 180,
		Threshold:     200,
		MinLineLength: 1000,
		MaxLineGap:    1000,
	}
}

// Defaults returns a copy of lc with zero fields taken from DefaultLineConfig.
func (lc LineConfig) Defaults() LineConfig {
	d := DefaultLineConfig()
	if lc.CannyLow == 0 {
		lc.CannyLow = d.CannyLow
	}
	if lc.CannyHigh == 0 {
		lc.CannyHigh = d.CannyHigh
	}
	if lc.Rho == 0 {
		lc.Rho = d.Rho
	}
	if lc.Theta == 0 {
		lc.Theta = d.Theta
	}
	if lc.Threshold == 0 {
		lc.Threshold = d.Threshold
	}
	if lc.MinLineLength == 0 {
		lc.MinLineLength = d.MinLineLength
	}
	if lc.MaxLineGap == 0 {
		lc.MaxLineGap = d.MaxLineGap
	}
	return lc
}

// Validate checks a fully populated config.
func (lc LineConfig) Validate() error {
	if lc.CannyLow <= 0 || lc.CannyHigh <= 0 {
		return invalidParam("canny thresholds must be positive, got %v and %v", lc.CannyLow, lc.CannyHigh)
	}
	if lc.CannyLow > lc.CannyHigh {
		return invalidParam("canny_low %v is above canny_high %v", lc.CannyLow, lc.CannyHigh)
	}
	if lc.Rho <= 0 {
		return invalidParam("rho must be positive, got %v", lc.Rho)
	}
	if lc.Theta <= 0 {
		return invalidParam("theta must be positive, got %v", lc.Theta)
	}
	if lc.Threshold <= 0 {
		return invalidParam("threshold must be positive, got %d", lc.Threshold)
	}
	if lc.MinLineLength < 0 {
		return invalidParam("min_line_length must not be negative, got %v", lc.MinLineLength)
	}
	if lc.MaxLineGap < 0 {
		return invalidParam("max_line_gap must not be negative, got %v", lc.MaxLineGap)
	}
	return nil
}
