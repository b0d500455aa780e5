// Copyright 2026 The cake Authors
// Licensed under the MIT license. See license text in the LICENSE file.

// Package lex is a small state function lexer.
//
// A lexer runs state functions that read runes with Next, Backup and
// AcceptWhile and report tokens with Emit. Emitted items are queued and
// returned one at a time by Lex. When a state function returns nil, the
// lexer restarts from its initial state.
//
package lex

import (
	"fmt"
	"io"
)

// EOF is both the rune returned by Next at end of input and the item type
// reporting it.
//
const EOF = -1

// Type is the type of a lexical item.
//
type Type int

// Pos is the offset of a rune in the input, counted in runes.
//
type Pos int

// Item is a lexical item.
//
type Item struct {
	Type  Type
	Pos   Pos
	Value interface{}
}

func (i *Item) String() string {
	switch v := i.Value.(type) {
	case string:
		if i.Type == EOF {
			return v
		}
		return fmt.Sprintf("%q", v)
	case rune:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprint(v)
	}
}

// StateFn is a lexer state function.
//
type StateFn func(l *Lexer) StateFn

// Interface is implemented by lexers.
//
type Interface interface {
	Lex() Item
}

// Lexer holds the state of a lexer.
//
type Lexer struct {
	r     io.RuneReader
	init  StateFn
	state StateFn
	items []Item

	cur    rune // last rune read
	prev   rune // rune before cur, restored by Backup
	backed bool // cur has been pushed back
	next   Pos  // position of the next rune to read
	start  Pos  // start of the current token
}

// New returns a new lexer reading from r and starting in state init.
//
func New(r io.RuneReader, init StateFn) *Lexer {
	return &Lexer{r: r, init: init, cur: EOF, prev: EOF}
}

// Lex returns the next item.
//
func (l *Lexer) Lex() Item {
	for len(l.items) == 0 {
		if l.state == nil {
			l.start = l.next
			l.state = l.init
		}
		l.state = l.state(l)
	}
	it := l.items[0]
	l.items = l.items[1:]
	return it
}

// Next reads the next rune. It returns EOF at end of input or on read error.
//
func (l *Lexer) Next() rune {
	if l.backed {
		l.backed = false
		l.prev, l.cur = l.cur, l.prev
	} else {
		r, _, err := l.r.ReadRune()
		if err != nil {
			r = EOF
		}
		l.prev, l.cur = l.cur, r
	}
	if l.cur != EOF {
		l.next++
	}
	return l.cur
}

// Backup pushes back the last rune read. Only one rune can be pushed back.
//
func (l *Lexer) Backup() {
	if l.backed {
		panic("lex: Backup called twice")
	}
	if l.cur != EOF {
		l.next--
	}
	l.backed = true
	l.prev, l.cur = l.cur, l.prev
}

// Current returns the last rune read.
//
func (l *Lexer) Current() rune { return l.cur }

// AcceptWhile reads runes while f returns true. The first rejected rune is
// pushed back.
//
func (l *Lexer) AcceptWhile(f func(r rune) bool) {
	r := l.Next()
	for r != EOF && f(r) {
		r = l.Next()
	}
	l.Backup()
}

// Emit queues an item of type t starting at the current token start and
// starts a new token after the last rune read.
//
func (l *Lexer) Emit(t Type, value interface{}) {
	l.items = append(l.items, Item{t, l.start, value})
	l.start = l.next
}
