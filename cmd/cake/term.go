// Copyright 2026 The cake Authors
// Licensed under the MIT license. See license text in the LICENSE file.

//go:build !windows
// +build !windows

package main

import (
	"github.com/pkg/errors"
	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

// cbreak turns off line buffering and echo on the terminal fd.
//
func cbreak(fd uintptr) (restore func(), err error) {
	var orig unix.Termios
	if err = termios.Tcgetattr(fd, &orig); err != nil {
		return nil, errors.Wrap(err, "get terminal attributes")
	}
	t := orig
	t.Lflag &^= unix.ICANON | unix.ECHO
	if err = termios.Tcsetattr(fd, termios.TCSANOW, &t); err != nil {
		return nil, errors.Wrap(err, "set terminal attributes")
	}
	return func() { termios.Tcsetattr(fd, termios.TCSANOW, &orig) }, nil
}
