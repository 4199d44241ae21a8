// Copyright © 2018 The ELPS authors

package rdparser

import (
	"io"
	"strconv"

	"github.com/luthersystems/tinylisp/lisp"
	"github.com/luthersystems/tinylisp/parser/token"
)

type reader struct {
}

// NewReader returns a lisp.Reader to use in a lisp.Runtime.
func NewReader() lisp.Reader {
	return &reader{}
}

// Read implements lisp.Reader.
func (*reader) Read(name string, r io.Reader) ([]*lisp.LVal, error) {
	s := token.NewScanner(name, r)
	p := New(s)
	return p.ParseProgram()
}

// ReadLocation implements lisp.LocationReader.
func (*reader) ReadLocation(name string, loc string, r io.Reader) ([]*lisp.LVal, error) {
	s := token.NewScanner(name, r)
	s.SetPath(loc)
	p := New(s)
	return p.ParseProgram()
}

// Parser is a lisp parser.
type Parser struct {
	parsing bool
	src     *TokenSource
}

// NewFromSource initializes and returns a Parser that reads tokens from src.
func NewFromSource(src *TokenSource) *Parser {
	return &Parser{
		src: src,
	}
}

// New initializes and returns a new Parser that reads tokens from scanner.
func New(scanner *token.Scanner) *Parser {
	return NewFromSource(NewTokenSource(scanner))
}

// Parse is a generic entry point that is similar to ParseExpression but is
// capable of handling EOF before reading an expression.  Parse returns io.EOF
// when the token stream has been exhausted.
func (p *Parser) Parse() (*lisp.LVal, error) {
	if p.src.IsEOF() {
		return nil, io.EOF
	}
	return p.ParseExpression()
}

// ParseProgram parses every expression in the token stream.  Parsing stops at
// the first error, in which case no expressions are returned.
func (p *Parser) ParseProgram() ([]*lisp.LVal, error) {
	exprs := []*lisp.LVal{}
	for {
		expr, err := p.Parse()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

// ParseExpression parses a single expression.  Unlike Parse, ParseExpression
// requires an expression to be present in the input stream and will report
// unexpected EOF tokens encountered.
func (p *Parser) ParseExpression() (*lisp.LVal, error) {
	fn := p.parseExpression()

	// We have a token marking the beginning of an expression.  Flag that we
	// are currently in the middle of an expression while we finish parsing the
	// expression so that an Interactive parser can determine what state we are
	// in (and thus imply what the REPL prompt should be).
	if !p.parsing {
		p.parsing = true
		defer func() { p.parsing = false }()
	}

	return fn(p)
}

func (p *Parser) parseExpression() func(p *Parser) (*lisp.LVal, error) {
	switch p.PeekType() {
	case token.INT:
		return (*Parser).ParseLiteralInt
	case token.SYMBOL:
		return (*Parser).ParseSymbol
	case token.PAREN_L:
		return (*Parser).ParseConsExpression
	case token.ERROR, token.INVALID:
		return func(p *Parser) (*lisp.LVal, error) {
			p.ReadToken()
			return nil, p.errorf("%s", p.TokenText())
		}
	case token.PAREN_R:
		return func(p *Parser) (*lisp.LVal, error) {
			p.ReadToken()
			return nil, p.errorf("unexpected character: )")
		}
	default:
		return func(p *Parser) (*lisp.LVal, error) {
			p.ReadToken()
			return nil, p.errorf("unexpected end of input")
		}
	}
}

func (p *Parser) ParseLiteralInt() (*lisp.LVal, error) {
	if !p.Accept(token.INT) {
		return nil, p.errorf("invalid integer literal: %v", p.PeekType())
	}
	text := p.TokenText()
	x, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, p.errorf("integer literal overflows int64: %s", text)
	}
	return p.tokenLVal(lisp.Int(x)), nil
}

func (p *Parser) ParseSymbol() (*lisp.LVal, error) {
	if !p.Accept(token.SYMBOL) {
		return nil, p.errorf("invalid symbol: %v", p.PeekType())
	}
	return p.tokenLVal(lisp.Symbol(p.TokenText())), nil
}

// ParseConsExpression parses a parenthesized list.  The list's source is the
// location of its opening parenthesis, which is also where an unterminated
// list is reported.
func (p *Parser) ParseConsExpression() (*lisp.LVal, error) {
	if !p.Accept(token.PAREN_L) {
		return nil, p.errorf("invalid list: %v", p.PeekType())
	}
	open := p.src.Token
	var cells []*lisp.LVal
	for {
		if p.src.IsEOF() {
			p.ReadToken()
			err := lisp.ErrorConditionf(lisp.CondParseError, "unterminated list")
			err.Source = open.Source
			return nil, err
		}
		if p.Accept(token.PAREN_R) {
			break
		}
		x, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		cells = append(cells, x)
	}
	expr := lisp.SExpr(cells)
	expr.Source = open.Source
	return expr, nil
}

func (p *Parser) ReadToken() *token.Token {
	p.src.Scan()
	return p.src.Token
}

func (p *Parser) TokenText() string {
	return p.src.Token.Text
}

func (p *Parser) TokenType() token.Type {
	return p.src.Token.Type
}

func (p *Parser) Location() *token.Location {
	return p.src.Token.Source
}

func (p *Parser) PeekType() token.Type {
	return p.src.Peek().Type
}

func (p *Parser) PeekLocation() *token.Location {
	return p.src.Peek().Source
}

func (p *Parser) tokenLVal(v *lisp.LVal) *lisp.LVal {
	v.Source = p.Location()
	return v
}

func (p *Parser) Accept(typ ...token.Type) bool {
	return p.src.AcceptType(typ...)
}

func (p *Parser) errorf(format string, v ...interface{}) *lisp.ErrorVal {
	err := lisp.ErrorConditionf(lisp.CondParseError, format, v...)
	err.Source = p.Location()
	return err
}
