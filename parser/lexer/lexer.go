// Copyright © 2018 The ELPS authors

package lexer

import (
	"fmt"
	"io"

	"github.com/luthersystems/tinylisp/parser/token"
)

// Lexer splits the text of a token.Scanner into tokens.  Tokens of type
// INVALID and ERROR carry a message in their Text instead of source text.
type Lexer struct {
	scanner *token.Scanner
}

func New(s *token.Scanner) *Lexer {
	return &Lexer{scanner: s}
}

// ReadToken returns the next token in the input.  At the end of input
// ReadToken returns an EOF token and will continue to do so on subsequent
// calls.
func (lex *Lexer) ReadToken() *token.Token {
	lex.skipWhitespace()
	if !lex.scanner.Accept(func(c rune) bool { return true }) {
		if lex.scanner.EOF() {
			return lex.emit(token.EOF, "")
		}
		return lex.emitError(lex.scanner.Err())
	}
	c := lex.scanner.Rune()
	switch {
	case c == '(':
		return lex.scanner.EmitToken(token.PAREN_L)
	case c == ')':
		return lex.scanner.EmitToken(token.PAREN_R)
	case IsDigit(c):
		return lex.readNumber()
	case IsSymbol(c):
		return lex.readSymbol()
	default:
		return lex.emit(token.INVALID, fmt.Sprintf("unexpected character: %c", c))
	}
}

func (lex *Lexer) readNumber() *token.Token {
	lex.scanner.AcceptSeq(IsDigit) // the first digit already scanned
	if lex.scanner.AcceptSeq(IsSymbol) > 0 {
		text := lex.scanner.Text()
		return lex.emit(token.ERROR, fmt.Sprintf("invalid integer literal: %s", text))
	}
	// the digits may not fit in an int64 but that is reported by the parser
	return lex.scanner.EmitToken(token.INT)
}

func (lex *Lexer) readSymbol() *token.Token {
	lex.scanner.AcceptSeq(IsSymbol)
	return lex.scanner.EmitToken(token.SYMBOL)
}

func (lex *Lexer) skipWhitespace() {
	if lex.scanner.AcceptSeq(IsSpace) > 0 {
		lex.scanner.Ignore()
	}
}

func (lex *Lexer) emit(typ token.Type, text string) *token.Token {
	tok := &token.Token{
		Type:   typ,
		Text:   text,
		Source: lex.scanner.LocStart(),
	}
	lex.scanner.Ignore()
	return tok
}

func (lex *Lexer) emitError(err error) *token.Token {
	if err == nil || err == io.EOF {
		return lex.emit(token.EOF, "")
	}
	return lex.emit(token.ERROR, err.Error())
}

// IsSpace reports whether c separates tokens.
func IsSpace(c rune) bool {
	return c == ' ' || c == '\n' || c == '\t' || c == '\r'
}

// IsDigit reports whether c is an ASCII decimal digit.
func IsDigit(c rune) bool {
	return '0' <= c && c <= '9'
}

// IsSymbol reports whether c may appear in a symbol: any printable ASCII
// character other than a parenthesis.
func IsSymbol(c rune) bool {
	return '!' <= c && c <= '~' && c != '(' && c != ')'
}
