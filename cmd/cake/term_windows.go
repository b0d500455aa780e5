// Copyright 2026 The cake Authors
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import "github.com/pkg/errors"

func cbreak(fd uintptr) (restore func(), err error) {
	return nil, errors.New("interactive mode is not supported on windows")
}
