// Copyright © 2018 The ELPS authors

package rdparser

import (
	"github.com/luthersystems/tinylisp/lisp"
	"github.com/luthersystems/tinylisp/parser/token"
)

// LineReader returns the tokens of the next non-blank line of input.  It
// must return at least one token.  Once input is exhausted it returns a
// token.EOF token.
type LineReader func() []*token.Token

// Interactive parses one expression at a time from input that arrives line
// by line, as it does at a terminal.  It calls Read only when the current
// line has no tokens left.
//
// Interactive is not safe for concurrent use.  Read may call Prompt and
// IsParsing to choose the prompt for the line it is about to read.
type Interactive struct {
	Read LineReader

	prompt  string
	cont    string
	pending []*token.Token
	p       *Parser
}

// NewInteractive initializes and returns a new Interactive parser.  Read may
// be nil if it is assigned before the first call to Parse.
func NewInteractive(read LineReader) *Interactive {
	p := &Interactive{Read: read}
	p.p = NewFromSource(NewTokenStreamSource(TokenGenerator(p.nextToken)))
	return p
}

// SetPrompts configures the strings returned by Prompt.  The cont string is
// used while an expression spans several lines.
func (p *Interactive) SetPrompts(prompt, cont string) {
	p.prompt, p.cont = prompt, cont
}

// Prompt returns the prompt for the next line of input.
func (p *Interactive) Prompt() string {
	if p.IsParsing() {
		return p.cont
	}
	return p.prompt
}

// IsParsing returns true if an expression has been started but not yet
// completed.  A nil Interactive is never parsing.
func (p *Interactive) IsParsing() bool {
	return p != nil && p.p.parsing
}

func (p *Interactive) nextToken() *token.Token {
	for len(p.pending) == 0 {
		if p.Read == nil {
			panic("interactive parser has no line reader")
		}
		p.pending = p.Read()
		if len(p.pending) == 0 {
			panic("line reader returned no tokens")
		}
	}
	tok := p.pending[0]
	p.pending = p.pending[1:]
	return tok
}

// Parse returns the next expression, reading more lines as necessary.  At the
// end of input Parse returns io.EOF.  After a parse error the rest of the
// current line is discarded so the user can retype it.
func (p *Interactive) Parse() (*lisp.LVal, error) {
	v, err := p.p.Parse()
	if err != nil {
		p.pending = nil
		return nil, err
	}
	return v, nil
}
