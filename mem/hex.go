// Copyright 2026 The cake Authors
// Licensed under the MIT license. See license text in the LICENSE file.

package mem

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// RawHeader is the first line of a raw hex image.
//
const RawHeader = "v2.0 raw"

const (
	wordsPerLine = 8
	minRun       = 4
)

// Save writes c as a raw hex image. Runs of at least 4 equal words are
// written as count*value and trailing zero words are omitted.
//
func Save(w io.Writer, c *Contents) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(RawHeader)
	bw.WriteByte('\n')

	last := c.Last()
	var words []int64
	c.Words(0, last+1, func(_ int, v int64) { words = append(words, v) })

	tokens := 0
	emit := func(s string) {
		if tokens > 0 {
			if tokens%wordsPerLine == 0 {
				bw.WriteByte('\n')
			} else {
				bw.WriteByte(' ')
			}
		}
		bw.WriteString(s)
		tokens++
	}
	for i := 0; i < len(words); {
		j := i + 1
		for j < len(words) && words[j] == words[i] {
			j++
		}
		hex := strconv.FormatInt(words[i], 16)
		if n := j - i; n >= minRun {
			emit(strconv.Itoa(n) + "*" + hex)
		} else {
			for k := 0; k < n; k++ {
				emit(hex)
			}
		}
		i = j
	}
	if tokens > 0 {
		bw.WriteByte('\n')
	}
	return errors.Wrap(bw.Flush(), "save hex image")
}

// Load reads a raw hex image into c, starting at address 0. Words past the
// end of c are an error. Everything after a '#' on a line is ignored. The
// header line is optional.
//
func Load(r io.Reader, c *Contents) error {
	sc := bufio.NewScanner(r)
	addr, size := 0, c.Len()
	first := true
	for line := 1; sc.Scan(); line++ {
		l := sc.Text()
		if i := strings.IndexByte(l, '#'); i >= 0 {
			l = l[:i]
		}
		l = strings.TrimSpace(l)
		if first && l == RawHeader {
			first = false
			continue
		}
		first = false
		for _, tok := range strings.Fields(l) {
			count := 1
			if i := strings.IndexByte(tok, '*'); i >= 0 {
				n, err := strconv.Atoi(tok[:i])
				if err != nil || n < 1 {
					return errors.Errorf("line %d: bad repeat count in %q", line, tok)
				}
				count, tok = n, tok[i+1:]
			}
			v, err := strconv.ParseInt(tok, 16, 64)
			if err != nil {
				return errors.Errorf("line %d: bad hex value %q", line, tok)
			}
			if addr+count > size {
				return errors.Errorf("line %d: image larger than memory (%d words)", line, size)
			}
			for ; count > 0; count-- {
				c.Set(addr, v)
				addr++
			}
		}
	}
	return errors.Wrap(sc.Err(), "load hex image")
}

// contents header
const headerTag = "addr/data:"

// MarshalContents returns the serialized form of c: a header line
// "addr/data: A D" followed by the raw hex image.
//
func MarshalContents(c *Contents) (string, error) {
	var b strings.Builder
	b.WriteString(headerTag + " " + strconv.Itoa(c.AddrBits()) + " " + strconv.Itoa(c.DataBits()) + "\n")
	if err := Save(&b, c); err != nil {
		return "", err
	}
	return b.String(), nil
}

// ParseContents parses the output of MarshalContents. Callers should fall
// back to default contents when it fails.
//
func ParseContents(s string) (*Contents, error) {
	first, rest := s, ""
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		first, rest = s[:i], s[i+1:]
	}
	f := strings.Fields(first)
	if len(f) < 3 || f[0] != headerTag {
		return nil, errors.Errorf("malformed contents header %q", first)
	}
	addrBits, err := strconv.Atoi(f[1])
	if err != nil {
		return nil, errors.Wrap(err, "address width")
	}
	dataBits, err := strconv.Atoi(f[2])
	if err != nil {
		return nil, errors.Wrap(err, "data width")
	}
	if addrBits < 1 || addrBits > 24 || dataBits < 1 || dataBits > 32 {
		return nil, errors.Errorf("unsupported dimensions %d/%d", addrBits, dataBits)
	}
	c := New(addrBits, dataBits)
	if err = Load(strings.NewReader(rest), c); err != nil {
		return nil, errors.Wrap(err, "contents")
	}
	return c, nil
}
