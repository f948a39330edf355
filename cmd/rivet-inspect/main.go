// Package main is the rivet-inspect command line tool
package main

import "github.com/viam-modules/rivet-inspection/internal/cli"

func main() {
	cli.Execute()
}
