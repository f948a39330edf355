// Package cli implements the rivet-inspect command line tool.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.viam.com/rdk/logging"
)

// Version is the application version.
const Version = "0.1.0"

var (
	logger = logging.NewLogger("rivet-inspect")
	debug  bool
)

var rootCmd = &cobra.Command{
	Use:     "rivet-inspect",
	Short:   "Find rivet holes and panel edges in aircraft skin photographs",
	Version: Version,
	// Execute prints the error once itself
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debug {
			logger.SetLevel(logging.DEBUG)
		}
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := execute(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func execute(args []string) error {
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
}
