// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// tabWidth is the number of columns a tab occupies in a source excerpt.
const tabWidth = 4

// Renderer formats diagnostics as Rust-style annotated source snippets.
type Renderer struct {
	// Color controls ANSI color output. Default is ColorAuto.
	Color ColorMode

	// SourceReader reads source file contents. If nil, os.ReadFile is used.
	SourceReader func(string) ([]byte, error)
}

// Render writes a single diagnostic to w.
func (r *Renderer) Render(w io.Writer, d Diagnostic) error {
	bw := bufio.NewWriter(w)
	out := &output{
		w: bw,
		p: choosePalette(r.Color, fileFromWriter(w)),
	}
	out.header(d.Severity, d.Message)
	for _, span := range d.Spans {
		out.location(span)
		if ex, ok := r.excerpt(span); ok {
			out.excerpt(ex, span.Label)
		} else {
			out.gutter("")
		}
	}
	for _, note := range d.Notes {
		out.printf("   %s=%s note: %s\n", out.p.boldCyan, out.p.reset, note)
	}
	if out.err != nil {
		return out.err
	}
	return bw.Flush()
}

// RenderAll writes all diagnostics to w separated by blank lines.
func (r *Renderer) RenderAll(w io.Writer, diags []Diagnostic) error {
	for i, d := range diags {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := r.Render(w, d); err != nil {
			return err
		}
	}
	return nil
}

// excerpt is a source line prepared for display beneath a location.
type excerpt struct {
	line  string // line number
	text  string // source text with tabs expanded
	start int    // display column of the first underlined rune, 0-based
	width int    // number of underlined columns
}

// excerpt reads the source line of span.  It reports false when the line
// cannot be read.
func (r *Renderer) excerpt(span Span) (excerpt, bool) {
	source, ok := r.sourceLine(span.File, span.Line)
	if !ok {
		return excerpt{}, false
	}
	runes := []rune(source)
	col := max(span.Col, 1)
	end := span.EndCol
	if end <= 0 {
		end = detectEndCol(runes, col)
	}
	end = max(end, col)
	prefix := runes
	if col-1 < len(runes) {
		prefix = runes[:col-1]
	}
	return excerpt{
		line:  strconv.Itoa(span.Line),
		text:  strings.ReplaceAll(source, "\t", strings.Repeat(" ", tabWidth)),
		start: displayWidth(prefix),
		width: end - col + 1,
	}, true
}

func (r *Renderer) sourceLine(file string, line int) (string, bool) {
	if line <= 0 || file == "" {
		return "", false
	}
	read := r.SourceReader
	if read == nil {
		read = os.ReadFile
	}
	data, err := read(file)
	if err != nil {
		return "", false
	}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for i := 1; scanner.Scan(); i++ {
		if i == line {
			return scanner.Text(), scanner.Text() != ""
		}
	}
	return "", false
}

// output writes the parts of a diagnostic, remembering the first error.
type output struct {
	w   io.Writer
	p   palette
	err error
}

func (out *output) printf(format string, a ...interface{}) {
	if out.err != nil {
		return
	}
	_, out.err = fmt.Fprintf(out.w, format, a...)
}

// header writes "error: message".
func (out *output) header(sev Severity, msg string) {
	color := out.p.boldRed
	switch sev {
	case SeverityWarning:
		color = out.p.yellow
	case SeverityNote:
		color = out.p.boldCyan
	}
	out.printf("%s%s%s%s:%s %s%s%s\n",
		color, out.p.bold, sev, out.p.reset,
		out.p.reset,
		out.p.bold, msg, out.p.reset)
}

// location writes "  --> file:line:col".
func (out *output) location(span Span) {
	loc := span.File
	switch {
	case span.Line > 0 && span.Col > 0:
		loc = fmt.Sprintf("%s:%d:%d", span.File, span.Line, span.Col)
	case span.Line > 0:
		loc = fmt.Sprintf("%s:%d", span.File, span.Line)
	}
	out.printf("  %s-->%s %s\n", out.p.boldBlue, out.p.reset, loc)
}

// gutter writes an empty gutter line as wide as the line number.
func (out *output) gutter(line string) {
	out.printf(" %s%s |%s\n", out.p.boldBlue, strings.Repeat(" ", len(line)), out.p.reset)
}

func (out *output) excerpt(ex excerpt, label string) {
	pad := strings.Repeat(" ", len(ex.line))
	out.gutter(ex.line)
	out.printf(" %s%s |%s  %s\n", out.p.boldBlue, ex.line, out.p.reset, ex.text)
	out.printf(" %s%s |%s  %s%s%s%s", out.p.boldBlue, pad, out.p.reset,
		strings.Repeat(" ", ex.start), out.p.boldRed, strings.Repeat("^", ex.width), out.p.reset)
	if label != "" {
		out.printf(" %s%s%s", out.p.boldRed, label, out.p.reset)
	}
	out.printf("\n")
	out.gutter(ex.line)
}

// detectEndCol returns the column of the last rune of the token starting at
// col.
func detectEndCol(source []rune, col int) int {
	if col <= 0 || col > len(source) {
		return col
	}
	end := col - 1
	for end < len(source) && !isDelimiter(source[end]) {
		end++
	}
	return max(end, col)
}

func isDelimiter(c rune) bool {
	return c == '(' || c == ')' || unicode.IsSpace(c)
}

// displayWidth returns the display width of runes with tabs expanded.
func displayWidth(runes []rune) int {
	w := 0
	for _, ch := range runes {
		if ch == '\t' {
			w += tabWidth
		} else {
			w++
		}
	}
	return w
}

// fileFromWriter returns the *os.File behind w, or nil, for terminal
// detection.
func fileFromWriter(w io.Writer) *os.File {
	f, _ := w.(*os.File)
	return f
}
