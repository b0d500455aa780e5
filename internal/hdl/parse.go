// Copyright 2026 The cake Authors
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hdl parses pin declarations and connection strings.
//
// A declaration list names the pins of a part, buses being declared with their
// width:
//
//	a, b, bus[4]
//
// A connection string assigns part pins to circuit wires. Both sides can be a
// single pin, a bus bit, a bus range or a whole bus:
//
//	addr[0..3]=a[4..7], cs=true, data=d
//
package hdl

import (
	"strings"
	"unicode"

	"github.com/codergreen/cake/internal/lex"
	"github.com/pkg/errors"
)

// Tokens
const (
	EOF lex.Type = lex.EOF
	Raw lex.Type = iota
	Ident
	BracketOpen
	BracketClose
	Comma
	Int
	Range
	Equal
)

// Lexer returns a new lexer for declarations and connection strings.
//
func Lexer(input string) lex.Interface {
	return lex.New(strings.NewReader(input), lexInit)
}

func lexInit(l *lex.Lexer) lex.StateFn {
	r := l.Next()
	switch {
	case r == lex.EOF:
		return lexEOF
	case unicode.IsSpace(r):
		l.AcceptWhile(unicode.IsSpace)
	case unicode.IsLetter(r) || r == '_':
		return lexIdent
	case r == '[':
		l.Emit(BracketOpen, "[")
	case r == ']':
		l.Emit(BracketClose, "]")
	case r == ',':
		l.Emit(Comma, ",")
	case '0' <= r && r <= '9':
		return lexNumber
	case r == '=':
		l.Emit(Equal, "=")
	case r == '.':
		if l.Next() == '.' {
			l.Emit(Range, "..")
			break
		}
		l.Backup()
		fallthrough
	default:
		l.Emit(Raw, r)
		return lexEOF
	}
	return nil
}

func lexNumber(l *lex.Lexer) lex.StateFn {
	i := int(l.Current() - '0')
	r := l.Next()
	for '0' <= r && r <= '9' {
		i = i*10 + int(r-'0')
		r = l.Next()
	}
	l.Backup()
	l.Emit(Int, i)
	return nil
}

func lexIdent(l *lex.Lexer) lex.StateFn {
	var buf strings.Builder
	buf.WriteRune(l.Current())
	r := l.Next()
	for unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
		buf.WriteRune(r)
		r = l.Next()
	}
	l.Backup()
	l.Emit(Ident, buf.String())
	return nil
}

// lexEOF places the lexer in End-Of-File state.
// Once in this state, the lexer will only emit EOF.
//
func lexEOF(l *lex.Lexer) lex.StateFn {
	l.Emit(lex.EOF, "end of input")
	return lexEOF
}

// RefKind is the kind of a pin reference.
//
type RefKind int

// Reference kinds.
//
const (
	Whole RefKind = iota // name
	Index                // name[i]
	Span                 // name[lo..hi]
)

// Ref is a reference to a pin, a bus bit or a range of bus bits.
//
type Ref struct {
	Name string
	Pos  lex.Pos
	Kind RefKind
	Lo   int
	Hi   int
}

// Indices returns the bus indices covered by r in order. Ranges can be
// descending. It returns nil for a Whole reference.
//
func (r Ref) Indices() []int {
	switch r.Kind {
	case Index:
		return []int{r.Lo}
	case Span:
		step, n := 1, r.Hi-r.Lo
		if n < 0 {
			step, n = -1, -n
		}
		out := make([]int, n+1)
		for i := range out {
			out[i] = r.Lo + i*step
		}
		return out
	}
	return nil
}

// Assignment connects a part pin to a circuit wire: Pin=Wire.
//
type Assignment struct {
	Pin  Ref
	Wire Ref
}

type parser struct {
	in string
	l  lex.Interface
	i  lex.Item
}

func newParser(input string) *parser {
	p := &parser{in: input, l: Lexer(input)}
	p.next()
	return p
}

func (p *parser) next() { p.i = p.l.Lex() }

func (p *parser) errorf(msg string) error {
	if p.i.Type == EOF {
		return parseError(p.in, p.i.Pos, msg+", got end of input")
	}
	return parseError(p.in, p.i.Pos, msg+", got "+p.i.String())
}

func (p *parser) expect(t lex.Type, msg string) (lex.Item, error) {
	i := p.i
	if i.Type != t {
		return i, p.errorf(msg)
	}
	p.next()
	return i, nil
}

// ref parses name, name[i] or name[lo..hi].
//
func (p *parser) ref() (Ref, error) {
	id, err := p.expect(Ident, "expected pin name")
	if err != nil {
		return Ref{}, err
	}
	r := Ref{Name: id.Value.(string), Pos: id.Pos}
	if p.i.Type != BracketOpen {
		return r, nil
	}
	p.next()
	lo, err := p.expect(Int, "integer value expected after '['")
	if err != nil {
		return r, err
	}
	r.Kind, r.Lo, r.Hi = Index, lo.Value.(int), lo.Value.(int)
	if p.i.Type == Range {
		p.next()
		hi, err := p.expect(Int, "integer value expected after '..'")
		if err != nil {
			return r, err
		}
		r.Kind, r.Hi = Span, hi.Value.(int)
	}
	if _, err = p.expect(BracketClose, "closing ']' expected after index or range"); err != nil {
		return r, err
	}
	return r, nil
}

// separator consumes a comma. It reports false at end of input.
//
func (p *parser) separator() (bool, error) {
	switch p.i.Type {
	case EOF:
		return false, nil
	case Comma:
		p.next()
		return true, nil
	}
	return false, p.errorf("expected comma or end of input")
}

// ParseConnections parses a comma separated list of assignments.
//
func ParseConnections(input string) ([]Assignment, error) {
	p := newParser(input)
	var out []Assignment
	for p.i.Type != EOF {
		pin, err := p.ref()
		if err != nil {
			return nil, err
		}
		if _, err = p.expect(Equal, "expected '='"); err != nil {
			return nil, err
		}
		wire, err := p.ref()
		if err != nil {
			return nil, err
		}
		out = append(out, Assignment{pin, wire})
		if more, err := p.separator(); err != nil {
			return nil, err
		} else if !more {
			break
		}
	}
	return out, nil
}

// ParseDecls parses a comma separated list of pin declarations. For
// declarations, name[n] declares a bus of width n. Ranges are not allowed.
//
func ParseDecls(input string) ([]Ref, error) {
	p := newParser(input)
	var out []Ref
	for p.i.Type != EOF {
		r, err := p.ref()
		if err != nil {
			return nil, err
		}
		switch {
		case r.Kind == Span:
			return nil, parseError(input, r.Pos, "bus range in declaration")
		case r.Kind == Index && r.Lo == 0:
			return nil, parseError(input, r.Pos, "zero width bus")
		}
		out = append(out, r)
		if more, err := p.separator(); err != nil {
			return nil, err
		} else if !more {
			break
		}
	}
	return out, nil
}

func parseError(in string, pos lex.Pos, msg string) error {
	return errors.Errorf("in %q at pos %d: %s", in, pos+1, msg)
}
