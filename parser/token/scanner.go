// Copyright © 2018 The ELPS authors

package token

import (
	"io"
	"unicode/utf8"
)

// Scanner facilitates construction of tokens from a byte stream (io.Reader).
// The stream is buffered in full when the Scanner is created so that token
// text can always be sliced out of the buffer.
type Scanner struct {
	file string
	path string

	buf     []byte
	readErr error

	start int // start of the current token
	next  int // index of the rune following the current rune
	c     rune

	line      int // line number of the next rune
	col       int // column of the next rune
	startLine int // line number at start
	startCol  int // column at start
	lastPos   int // buffer offset of c
	lastLine  int // line number of c
	lastCol   int // column of c
}

// NewScanner initializes and returns a new Scanner.
func NewScanner(file string, r io.Reader) *Scanner {
	buf, err := io.ReadAll(r)
	s := &Scanner{
		file:      file,
		buf:       buf,
		readErr:   err,
		line:      1,
		col:       1,
		startLine: 1,
		startCol:  1,
	}
	return s
}

// SetPath associates a physical location (e.g. filesystem path) with s to aid
// in debugging projects which scan many ungrouped files.
func (s *Scanner) SetPath(path string) {
	s.path = path
}

// EmitToken returns a token containing the text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) EmitToken(typ Type) *Token {
	tok := &Token{
		Type:   typ,
		Text:   s.Text(),
		Source: s.LocStart(),
	}
	s.Ignore()
	return tok
}

// Ignore causes the scanner to skip all text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) Ignore() {
	s.start = s.next
	s.startLine = s.line
	s.startCol = s.col
}

// Text returns a string containing text scanned since the last call to either
// EmitToken or Ignore.
func (s *Scanner) Text() string {
	return string(s.buf[s.start:s.next])
}

// Rune returns the current unicode rune that is being scanned.  The rune
// returned by Rune is the last rune in a token returned by EmitToken.
func (s *Scanner) Rune() rune {
	return s.c
}

// Peek returns the next rune to be scanned, if there are any.  Peek returns a
// false second value at the end of the input.  Bytes which are not valid utf-8
// are returned as utf8.RuneError so that callers can report them.
func (s *Scanner) Peek() (rune, bool) {
	if s.next >= len(s.buf) {
		return 0, false
	}
	c, _ := utf8.DecodeRune(s.buf[s.next:])
	return c, true
}

// ScanRune attempts to scan a rune from the input for inclusion in the
// current token.  At the end of input ScanRune returns io.EOF, or the error
// which interrupted reading the input stream.
func (s *Scanner) ScanRune() error {
	if s.next >= len(s.buf) {
		if s.readErr != nil {
			return s.readErr
		}
		return io.EOF
	}
	c, n := utf8.DecodeRune(s.buf[s.next:])
	s.c = c
	s.lastPos, s.lastLine, s.lastCol = s.next, s.line, s.col
	s.next += n
	if c == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return nil
}

// Err returns an error encountered while reading the input stream.  Err
// returns nil while there are still buffered runes that need to be accepted.
func (s *Scanner) Err() error {
	if s.next < len(s.buf) {
		return nil
	}
	return s.readErr
}

// EOF returns true when all input has been scanned and the input was read
// without error.
func (s *Scanner) EOF() bool {
	return s.next >= len(s.buf) && s.readErr == nil
}

func (s *Scanner) Accept(fn func(rune) bool) bool {
	peek, ok := s.Peek()
	if !ok {
		return false
	}
	if fn(peek) {
		return s.ScanRune() == nil
	}
	return false
}

func (s *Scanner) AcceptRune(c rune) bool {
	return s.Accept(func(peek rune) bool { return peek == c })
}

func (s *Scanner) AcceptSeq(fn func(rune) bool) int {
	var n int
	for s.Accept(fn) {
		n++
	}
	return n
}

// LocStart returns a Location referencing the beginning of the current token,
// just beyond the end of the previous token.
func (s *Scanner) LocStart() *Location {
	return &Location{
		File: s.file,
		Path: s.path,
		Pos:  s.start,
		Line: s.startLine,
		Col:  s.startCol,
	}
}

// Loc returns a Location referencing the current scanner position, the last
// position of the current token.
func (s *Scanner) Loc() *Location {
	if s.next == 0 {
		return s.LocStart()
	}
	return &Location{
		File: s.file,
		Path: s.path,
		Pos:  s.lastPos,
		Line: s.lastLine,
		Col:  s.lastCol,
	}
}
