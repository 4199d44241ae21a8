// Copyright © 2018 The ELPS authors

/*
Package regexparser provides a lisp parser built from parser combinators.

	expr   := '(' <expr>* ')' | <int> | <symbol>
	int    := /[0-9]+/
	symbol := /[!-'*-~]+/

Any printable ASCII character other than a parenthesis may appear in a
symbol.  Both readers in the parser tree produce identical values and report
identical errors for the same input.
*/
package regexparser

import (
	"bytes"
	"io"
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/luthersystems/tinylisp/lisp"
	"github.com/luthersystems/tinylisp/parser/lexer"
	"github.com/luthersystems/tinylisp/parser/token"
	parsec "github.com/prataprc/goparsec"
)

// NewReader returns a lisp.Reader.
func NewReader() lisp.Reader {
	return &parsecReader{}
}

type parsecReader struct{}

func (p *parsecReader) Read(name string, r io.Reader) ([]*lisp.LVal, error) {
	return p.ReadLocation(name, "", r)
}

func (p *parsecReader) ReadLocation(name string, loc string, r io.Reader) ([]*lisp.LVal, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, lisp.ErrorCondition(lisp.CondParseError, err)
	}
	return ParseLVal(name, loc, b)
}

// ParseLVal parses LVal values from text and returns them.  The name and path
// are recorded in the source locations of returned values and errors.  Any
// error returned is a *lisp.ErrorVal.
func ParseLVal(name string, path string, text []byte) ([]*lisp.LVal, error) {
	src := newSource(name, path, text)
	v := []*lisp.LVal{}
	// Trailing whitespace is insignificant and trimming it allows the End
	// parser to detect lists left open at the end of input.
	s := parsec.NewScanner(bytes.TrimRight(text, " \t\r\n"))
	parser := newParsecParser(src)
	root, s := parser(s)
	for root != nil {
		lval, err := src.lval(root)
		if err != nil {
			return nil, err
		}
		v = append(v, lval)
		root, s = parser(s)
	}
	_, s = s.SkipWS()
	if !s.Endof() {
		return nil, src.diagnose(s.GetCursor())
	}
	return v, nil
}

func newParsecParser(src *source) parsec.Parser {
	openP := parsec.Atom("(", "OPENP")
	closeP := parsec.Atom(")", "CLOSEP")
	// The integer pattern swallows trailing symbol characters so that
	// malformed literals like 12abc are reported instead of split.
	integer := parsec.Token(`[0-9][!-'*-~]*`, "INT")
	symbol := parsec.Token(`[!-'*-~]+`, "SYMBOL")
	term := parsec.OrdChoice(src.termNode, integer, symbol)
	var expr parsec.Parser // forward declaration allows for recursive parsing
	exprList := parsec.Kleene(nil, &expr)
	sexpr := parsec.And(src.listNode, openP, exprList, closeP)
	unterminated := parsec.And(src.unterminatedNode, openP, exprList, parsec.End())
	expr = parsec.OrdChoice(nil,
		term,
		sexpr,
		// Error matching cases come last because they have the lowest
		// precedence.
		unterminated,
	)
	return expr
}

type source struct {
	name  string
	path  string
	text  []byte
	lines []int // offsets of line starts
}

func newSource(name, path string, text []byte) *source {
	lines := []int{0}
	for i, c := range text {
		if c == '\n' {
			lines = append(lines, i+1)
		}
	}
	return &source{
		name:  name,
		path:  path,
		text:  text,
		lines: lines,
	}
}

// location returns the location of byte offset pos.  Columns count runes.
func (src *source) location(pos int) *token.Location {
	line := sort.Search(len(src.lines), func(i int) bool { return src.lines[i] > pos })
	start := src.lines[line-1]
	return &token.Location{
		File: src.name,
		Path: src.path,
		Pos:  pos,
		Line: line,
		Col:  utf8.RuneCount(src.text[start:pos]) + 1,
	}
}

func (src *source) errorf(pos int, format string, v ...interface{}) *lisp.ErrorVal {
	err := lisp.ErrorConditionf(lisp.CondParseError, format, v...)
	err.Source = src.location(pos)
	return err
}

func (src *source) termNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	var term *parsec.Terminal
	for _, n := range flattenNodes(nodes) {
		if t, ok := n.(*parsec.Terminal); ok {
			term = t
			break
		}
	}
	if term == nil {
		return src.errorf(0, "invalid term")
	}
	var lval *lisp.LVal
	switch term.Name {
	case "INT":
		for _, c := range term.Value {
			if !lexer.IsDigit(c) {
				return src.errorf(term.Position, "invalid integer literal: %s", term.Value)
			}
		}
		x, err := strconv.ParseInt(term.Value, 10, 64)
		if err != nil {
			return src.errorf(term.Position, "integer literal overflows int64: %s", term.Value)
		}
		lval = lisp.Int(x)
	default:
		lval = lisp.Symbol(term.Value)
	}
	lval.Source = src.location(term.Position)
	return lval
}

func (src *source) listNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	nodes = flattenNodes(nodes)
	open := nodes[0].(*parsec.Terminal)
	var cells []*lisp.LVal
	for _, n := range nodes[1:] {
		switch n := n.(type) {
		case *lisp.LVal:
			cells = append(cells, n)
		case error:
			return n
		}
	}
	lval := lisp.SExpr(cells)
	lval.Source = src.location(open.Position)
	return lval
}

func (src *source) unterminatedNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	nodes = flattenNodes(nodes)
	open := nodes[0].(*parsec.Terminal)
	// An error within the list, including a nested list which is also
	// unterminated, is reported before this one.
	for _, n := range nodes[1:] {
		if err, ok := n.(error); ok {
			return err
		}
	}
	return src.errorf(open.Position, "unterminated list")
}

// lval converts a root node produced by the parser into an LVal.
func (src *source) lval(root parsec.ParsecNode) (*lisp.LVal, error) {
	nodes := flattenNodes([]parsec.ParsecNode{root})
	if len(nodes) == 0 {
		return nil, src.errorf(0, "empty expression")
	}
	switch n := nodes[0].(type) {
	case *lisp.LVal:
		return n, nil
	case error:
		return nil, n
	default:
		return nil, src.errorf(0, "unexpected parse node")
	}
}

// diagnose locates the first error in the source text following byte offset
// pos, where the grammar failed to match an expression.
func (src *source) diagnose(pos int) error {
	lex := lexer.New(token.NewScanner(src.name, bytes.NewReader(src.text)))
	depth := 0
	for {
		tok := lex.ReadToken()
		if tok.Type == token.EOF {
			break
		}
		if tok.Source.Pos < pos {
			continue
		}
		switch tok.Type {
		case token.ERROR, token.INVALID:
			return src.errorf(tok.Source.Pos, "%s", tok.Text)
		case token.INT:
			if _, err := strconv.ParseInt(tok.Text, 10, 64); err != nil {
				return src.errorf(tok.Source.Pos, "integer literal overflows int64: %s", tok.Text)
			}
		case token.PAREN_L:
			depth++
		case token.PAREN_R:
			if depth == 0 {
				return src.errorf(tok.Source.Pos, "unexpected character: )")
			}
			depth--
		}
	}
	return src.errorf(pos, "unterminated list")
}

// flattenNodes expands nested node lists and drops nil nodes.
func flattenNodes(lis []parsec.ParsecNode) []parsec.ParsecNode {
	var nodes []parsec.ParsecNode
	for _, n := range lis {
		switch node := n.(type) {
		case nil:
		case []parsec.ParsecNode:
			nodes = append(nodes, flattenNodes(node)...)
		default:
			nodes = append(nodes, node)
		}
	}
	return nodes
}
