// Copyright 2026 The cake Authors
// Licensed under the MIT license. See license text in the LICENSE file.

// Package logger is the central log for simulation events. Entries are a tag
// (usually the part name) and a detail string. Consecutive identical entries
// are collapsed into a single entry with a repeat count.
//
package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Entry is a single log line.
//
type Entry struct {
	Timestamp time.Time
	Tag       string
	Detail    string
	Repeated  int
}

func (e Entry) String() string {
	var s strings.Builder
	s.WriteString(e.Tag)
	s.WriteString(": ")
	s.WriteString(e.Detail)
	if e.Repeated > 0 {
		fmt.Fprintf(&s, " (repeat x%d)", e.Repeated+1)
	}
	s.WriteByte('\n')
	return s.String()
}

// Permission implementations decide whether a log request is honoured.
//
type Permission interface {
	AllowLogging() bool
}

type allow struct{}

func (allow) AllowLogging() bool { return true }

// Allow always permits logging.
//
var Allow Permission = allow{}

type logger struct {
	mu         sync.Mutex
	maxEntries int
	entries    []Entry
	echo       io.Writer
}

// maximum number of entries kept by the central logger.
const maxCentral = 256

var central = &logger{maxEntries: maxCentral}

func (l *logger) log(tag, detail string) {
	tag = strings.ReplaceAll(tag, "\n", "")
	detail = strings.ReplaceAll(detail, "\n", "")

	l.mu.Lock()
	defer l.mu.Unlock()

	var e *Entry
	if n := len(l.entries); n > 0 && l.entries[n-1].Tag == tag && l.entries[n-1].Detail == detail {
		e = &l.entries[n-1]
		e.Repeated++
		e.Timestamp = time.Now()
	} else {
		l.entries = append(l.entries, Entry{Timestamp: time.Now(), Tag: tag, Detail: detail})
		e = &l.entries[len(l.entries)-1]
	}
	if l.echo != nil {
		io.WriteString(l.echo, e.String())
	}
	if len(l.entries) > l.maxEntries {
		l.entries = append(l.entries[:0], l.entries[len(l.entries)-l.maxEntries:]...)
	}
}

// Log adds an entry to the central log.
//
func Log(perm Permission, tag, detail string) {
	if perm == Allow || perm != nil && perm.AllowLogging() {
		central.log(tag, detail)
	}
}

// Logf adds a formatted entry to the central log.
//
func Logf(perm Permission, tag, format string, args ...interface{}) {
	if perm == Allow || perm != nil && perm.AllowLogging() {
		central.log(tag, fmt.Sprintf(format, args...))
	}
}

// Clear removes all entries.
//
func Clear() {
	central.mu.Lock()
	central.entries = central.entries[:0]
	central.mu.Unlock()
}

// SetEcho writes every new or repeated entry to w. A nil w disables echo.
//
func SetEcho(w io.Writer) {
	central.mu.Lock()
	central.echo = w
	central.mu.Unlock()
}

// Write writes all entries to w.
//
func Write(w io.Writer) {
	Tail(w, maxCentral)
}

// Tail writes the last n entries to w.
//
func Tail(w io.Writer, n int) {
	central.mu.Lock()
	defer central.mu.Unlock()
	if n > len(central.entries) {
		n = len(central.entries)
	}
	for _, e := range central.entries[len(central.entries)-n:] {
		io.WriteString(w, e.String())
	}
}

// Entries returns a copy of the current entries.
//
func Entries() []Entry {
	central.mu.Lock()
	defer central.mu.Unlock()
	return append([]Entry(nil), central.entries...)
}
