package logger_test

import (
	"strings"
	"testing"

	"github.com/codergreen/cake/logger"
)

type deny struct{}

func (deny) AllowLogging() bool { return false }

func TestLog(t *testing.T) {
	logger.Clear()
	defer logger.Clear()

	logger.Log(logger.Allow, "ram", "clear")
	logger.Log(logger.Allow, "ram", "clear")
	logger.Logf(logger.Allow, "matrix", "resize %dx%d", 4, 4)
	logger.Log(deny{}, "ram", "hidden")

	var b strings.Builder
	logger.Write(&b)
	want := "ram: clear (repeat x2)\nmatrix: resize 4x4\n"
	if b.String() != want {
		t.Fatalf("log = %q, want %q", b.String(), want)
	}

	b.Reset()
	logger.Tail(&b, 1)
	if b.String() != "matrix: resize 4x4\n" {
		t.Fatalf("tail = %q", b.String())
	}
}

func TestLog_echo(t *testing.T) {
	logger.Clear()
	defer logger.Clear()

	var b strings.Builder
	logger.SetEcho(&b)
	defer logger.SetEcho(nil)
	logger.Log(logger.Allow, "tag", "multi\nline")
	if b.String() != "tag: multiline\n" {
		t.Fatalf("echo = %q", b.String())
	}
	if len(logger.Entries()) != 1 {
		t.Fatal("entry not recorded")
	}
}

func TestLog_cap(t *testing.T) {
	logger.Clear()
	defer logger.Clear()
	for i := 0; i < 300; i++ {
		logger.Logf(logger.Allow, "t", "%d", i)
	}
	e := logger.Entries()
	if len(e) != 256 {
		t.Fatalf("kept %d entries", len(e))
	}
	if e[0].Detail != "44" {
		t.Fatalf("oldest entry = %s", e[0].Detail)
	}
}
