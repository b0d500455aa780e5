// Copyright 2026 The cake Authors
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import "github.com/codergreen/cake"

// demos are run when no script is given. The RAM demo drives every port that
// exists in any bus mode and ignores the errors for missing ones.
//
var demos = map[cake.Kind]string{
	cake.KindRAM: `
local function try(p, v) pcall(set, p, v) end

try("cs", 1) try("clr", 0) try("rdsel", 0)
try("oe", 0) try("rd", 0) try("we", 1)
for a = 0, 15 do
	set("addr", a) try("raddr", a)
	try("din", a * 7) try("data", a * 7)
	ticktock()
end

try("we", 0) try("data", nil) try("oe", 1) try("rd", 1)
for a = 0, 15 do
	set("addr", a) try("raddr", a)
	step(12)
	local _, s = get("data")
	print(a, s)
end
`,
	cake.KindDotMatrix: `
step()
local rows, cols = display()
set("full", 0) set("partial", 0)
for r = 0, rows - 1 do
	set("row", r)
	for c = 0, cols - 1 do
		if c == r % cols then set("c" .. c, 0x07) else set("c" .. c, 0x18) end
	end
	step(2)
end
set("full", 1) step(2)
set("full", 0) step()
`,
}
