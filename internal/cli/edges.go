package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/viam-modules/rivet-inspection/rivet"
)

// EdgeOptions are the detect-edges flags.
type EdgeOptions struct {
	Headless   bool
	OutputPath string
	Config     rivet.LineConfig
}

var edgeOpts EdgeOptions

var edgesCmd = &cobra.Command{
	Use:   "detect-edges <image_path>",
	Short: "Detect straight panel edges",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		if err := edgeOpts.Config.Validate(); err != nil {
			return err
		}
		return runEdges(args[0], edgeOpts, cmd.OutOrStdout())
	},
}

func init() {
	d := rivet.DefaultLineConfig()
	edgeOpts.Config = d
	f := edgesCmd.Flags()
	f.BoolVar(&edgeOpts.Headless, "headless", false, "Do not open a window with the annotated image")
	f.StringVarP(&edgeOpts.OutputPath, "output", "o", "", "Write the annotated image to this file")
	f.Float32Var(&edgeOpts.Config.CannyLow, "canny-low", d.CannyLow, "Lower Canny threshold")
	f.Float32Var(&edgeOpts.Config.CannyHigh, "canny-high", d.CannyHigh, "Upper Canny threshold")
	f.IntVar(&edgeOpts.Config.Threshold, "hough-threshold", d.Threshold, "Accumulator threshold")
	f.Float32Var(&edgeOpts.Config.MinLineLength, "min-line-length", d.MinLineLength, "Shortest segment to report, in pixels")
	f.Float32Var(&edgeOpts.Config.MaxLineGap, "max-line-gap", d.MaxLineGap, "Largest gap joined into one segment, in pixels")
	rootCmd.AddCommand(edgesCmd)
}

func runEdges(path string, opts EdgeOptions, out io.Writer) error {
	logger.Debugw("detecting panel edges", "path", path)

	img, err := rivet.LoadImage(path)
	if err != nil {
		return err
	}
	defer img.Close()

	lines, err := rivet.FindEdges(img, opts.Config)
	if err != nil {
		return errors.Wrapf(err, "detect-edges %s", path)
	}
	logger.Infof("found %d panel edges", len(lines))

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "X1\tY1\tX2\tY2")
	for _, l := range lines {
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\n", l.X1, l.Y1, l.X2, l.Y2)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if opts.Headless && opts.OutputPath == "" {
		return nil
	}
	annotated := rivet.RenderEdges(img, lines)
	defer annotated.Close()

	if opts.OutputPath != "" {
		if err := rivet.SaveImage(opts.OutputPath, annotated); err != nil {
			return err
		}
	}
	if !opts.Headless {
		rivet.Show("detected lines", annotated)
	}
	return nil
}
