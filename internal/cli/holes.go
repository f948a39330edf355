package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/viam-modules/rivet-inspection/rivet"
)

// HoleOptions are the detect-holes flags.
type HoleOptions struct {
	Headless   bool
	OutputPath string
	Config     rivet.HoleConfig
}

var holeOpts HoleOptions

var holesCmd = &cobra.Command{
	Use:   "detect-holes <image_path>",
	Short: "Detect circular rivet holes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		hc, err := holeConfigFromFlags(cmd.Flags(), holeOpts.Config)
		if err != nil {
			return err
		}
		opts := holeOpts
		opts.Config = hc
		return runHoles(args[0], opts, cmd.OutOrStdout())
	},
}

func init() {
	d := rivet.DefaultHoleConfig()
	f := holesCmd.Flags()
	f.BoolVar(&holeOpts.Headless, "headless", false, "Do not open a window with the annotated image")
	f.StringVarP(&holeOpts.OutputPath, "output", "o", "", "Write the annotated image to this file")
	f.StringVar(&holeOpts.Config.Preset, "preset", rivet.PresetStandard,
		fmt.Sprintf("Tuning preset (%s, %s); other flags override it", rivet.PresetStandard, rivet.PresetSmallHoles))
	f.IntVar(&holeOpts.Config.BlurKernelSize, "blur-kernel-size", d.BlurKernelSize, "Gaussian kernel size, odd")
	f.Float32Var(&holeOpts.Config.ThresholdLow, "threshold-low", d.ThresholdLow, "Binary threshold cut")
	f.Float32Var(&holeOpts.Config.ThresholdHigh, "threshold-high", d.ThresholdHigh, "Value assigned above the cut")
	f.Float64Var(&holeOpts.Config.Dp, "hough-dp", d.Dp, "Inverse accumulator resolution ratio")
	f.Float64Var(&holeOpts.Config.MinDist, "hough-min-dist", d.MinDist, "Minimum distance between circle centres")
	f.Float64Var(&holeOpts.Config.Param1, "hough-param1", d.Param1, "Upper Canny threshold")
	f.Float64Var(&holeOpts.Config.Param2, "hough-param2", d.Param2, "Accumulator threshold")
	f.IntVar(&holeOpts.Config.MinRadius, "hough-min-radius", d.MinRadius, "Minimum circle radius")
	f.IntVar(&holeOpts.Config.MaxRadius, "hough-max-radius", d.MaxRadius, "Maximum circle radius")
	f.StringVar(&holeOpts.Config.MaskOutput, "mask-out", "", "Write the threshold-masked image to this file")
	rootCmd.AddCommand(holesCmd)
}

// holeConfigFromFlags starts from the chosen preset and applies only the
// flags the user set.
func holeConfigFromFlags(f *pflag.FlagSet, set rivet.HoleConfig) (rivet.HoleConfig, error) {
	hc, err := rivet.HolePreset(set.Preset)
	if err != nil {
		return rivet.HoleConfig{}, err
	}
	if f.Changed("blur-kernel-size") {
		hc.BlurKernelSize = set.BlurKernelSize
	}
	if f.Changed("threshold-low") {
		hc.ThresholdLow = set.ThresholdLow
	}
	if f.Changed("threshold-high") {
		hc.ThresholdHigh = set.ThresholdHigh
	}
	if f.Changed("hough-dp") {
		hc.Dp = set.Dp
	}
	if f.Changed("hough-min-dist") {
		hc.MinDist = set.MinDist
	}
	if f.Changed("hough-param1") {
		hc.Param1 = set.Param1
	}
	if f.Changed("hough-param2") {
		hc.Param2 = set.Param2
	}
	if f.Changed("hough-min-radius") {
		hc.MinRadius = set.MinRadius
	}
	if f.Changed("hough-max-radius") {
		hc.MaxRadius = set.MaxRadius
	}
	hc.MaskOutput = set.MaskOutput
	return hc, hc.Validate()
}

func runHoles(path string, opts HoleOptions, out io.Writer) error {
	logger.Debugw("detecting rivet holes", "path", path, "preset", opts.Config.Preset)

	img, err := rivet.LoadImage(path)
	if err != nil {
		return err
	}
	defer img.Close()

	circles, err := rivet.FindHoles(img, opts.Config)
	if err != nil {
		return errors.Wrapf(err, "detect-holes %s", path)
	}
	logger.Infof("found %d rivet holes", len(circles))

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "X\tY\tRADIUS")
	for _, c := range circles {
		fmt.Fprintf(w, "%d\t%d\t%d\n", c.X, c.Y, c.Radius)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if opts.Headless && opts.OutputPath == "" {
		return nil
	}
	annotated := rivet.RenderHoles(img, circles)
	defer annotated.Close()

	if opts.OutputPath != "" {
		if err := rivet.SaveImage(opts.OutputPath, annotated); err != nil {
			return err
		}
	}
	if !opts.Headless {
		rivet.Show("detected circles", annotated)
	}
	return nil
}
