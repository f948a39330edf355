// Package main is a module which serves the rivet hole detector
package main

import (
	"go.viam.com/rdk/module"
	"go.viam.com/rdk/resource"
	"go.viam.com/rdk/services/vision"

	"github.com/viam-modules/rivet-inspection/rivet"
)

func main() {
	module.ModularMain(
		resource.APIModel{API: vision.API, Model: rivet.Model},
	)
}
