// Copyright © 2024 The ELPS authors

package cmd

import (
	"io"

	"github.com/luthersystems/tinylisp/diagnostic"
	"github.com/luthersystems/tinylisp/lisp"
)

func newRenderer(color diagnostic.ColorMode, src func(string) ([]byte, error)) *diagnostic.Renderer {
	return &diagnostic.Renderer{Color: color, SourceReader: src}
}

// renderError renders a lisp error with diagnostic formatting to w.
func renderError(w io.Writer, color diagnostic.ColorMode, src func(string) ([]byte, error), lerr *lisp.ErrorVal) {
	_ = newRenderer(color, src).Render(w, diagnostic.FromError(lerr))
}
