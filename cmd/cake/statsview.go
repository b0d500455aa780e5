// Copyright 2026 The cake Authors
// Licensed under the MIT license. See license text in the LICENSE file.

//go:build statsview
// +build statsview

package main

import (
	"fmt"
	"io"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

const statsAddr = "localhost:12600"

// launchStats starts the runtime stats server in the background.
//
func launchStats(w io.Writer) bool {
	go func() {
		viewer.SetConfiguration(viewer.WithAddr(statsAddr))
		statsview.New().Start()
	}()
	fmt.Fprintf(w, "stats server available at %s/debug/statsview\n", statsAddr)
	return true
}
