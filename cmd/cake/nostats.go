// Copyright 2026 The cake Authors
// Licensed under the MIT license. See license text in the LICENSE file.

//go:build !statsview
// +build !statsview

package main

import "io"

func launchStats(io.Writer) bool { return false }
