// Copyright © 2018 The ELPS authors

package parser

import (
	"fmt"
	"strings"

	"github.com/luthersystems/tinylisp/lisp"
	"github.com/luthersystems/tinylisp/parser/rdparser"
	"github.com/luthersystems/tinylisp/parser/regexparser"
)

// Names of the available reader implementations.
const (
	ReaderRD     = "rdparser"
	ReaderParsec = "parsec"
)

type readerConfig struct {
	name string
}

// ReaderOption configures the lisp.Reader returned by NewReader.
type ReaderOption func(*readerConfig)

// WithParsec selects the parser combinator implementation.
func WithParsec() ReaderOption {
	return func(c *readerConfig) {
		c.name = ReaderParsec
	}
}

// NewReader returns a new lisp.Reader.  By default the reader is the
// recursive-descent parser.
func NewReader(opts ...ReaderOption) lisp.Reader {
	c := &readerConfig{name: ReaderRD}
	for _, opt := range opts {
		opt(c)
	}
	if c.name == ReaderParsec {
		return regexparser.NewReader()
	}
	return rdparser.NewReader()
}

// NamedReader returns the reader implementation with the given name.  An
// empty name selects the default reader.
func NamedReader(name string) (lisp.Reader, error) {
	switch name {
	case "", ReaderRD:
		return NewReader(), nil
	case ReaderParsec:
		return NewReader(WithParsec()), nil
	default:
		return nil, fmt.Errorf("unknown reader: %q", name)
	}
}

// ReadString parses all expressions in text using the default reader.  Empty
// input produces an empty slice.
func ReadString(text string) ([]*lisp.LVal, error) {
	return NewReader().Read("string", strings.NewReader(text))
}
