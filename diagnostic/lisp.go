// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"errors"
	"fmt"

	"github.com/luthersystems/tinylisp/lisp"
	"github.com/luthersystems/tinylisp/parser/token"
)

// MaxFrameNotes is the maximum number of call stack notes in a diagnostic
// made by FromError.  Deeper stacks keep their innermost and outermost frames.
const MaxFrameNotes = 16

// FromError converts err to a Diagnostic.  When err is a *lisp.ErrorVal the
// diagnostic points at the location of the failure and has notes describing
// the captured call stack, innermost first.  Consecutive identical frames,
// as produced by unbounded recursion, are collapsed into one note.
func FromError(err error) Diagnostic {
	var lerr *lisp.ErrorVal
	if !errors.As(err, &lerr) {
		return Diagnostic{
			Severity: SeverityError,
			Message:  err.Error(),
		}
	}
	d := Diagnostic{
		Severity: SeverityError,
		Message:  lerr.Error(),
	}
	if fname := lerr.FunName(); fname != "" {
		d.Message = fname + ": " + d.Message
	}
	if cond := lerr.Condition(); cond != lisp.CondError {
		d.Message = cond + ": " + d.Message
	}
	if span, ok := spanAt(lerr.Source); ok {
		d.Spans = append(d.Spans, span)
	}
	if stack := lerr.CallStack(); stack != nil {
		d.Notes = frameNotes(stack.Frames)
	}
	return d
}

// hasPosition is false for values created natively rather than read from
// source.
func hasPosition(loc *token.Location) bool {
	return loc != nil && loc.Pos >= 0
}

func spanAt(loc *token.Location) (Span, bool) {
	if !hasPosition(loc) {
		return Span{}, false
	}
	span := Span{File: loc.File, Line: loc.Line, Col: loc.Col}
	// prefer the physical path for reading source
	if loc.Path != "" {
		span.File = loc.Path
	}
	return span, true
}

func frameNotes(frames []lisp.CallFrame) []string {
	var notes []string
	repeats := 0
	flush := func() {
		if repeats > 0 {
			notes = append(notes, fmt.Sprintf("previous frame repeated %d more times", repeats))
			repeats = 0
		}
	}
	prev := ""
	for i := len(frames) - 1; i >= 0; i-- {
		note := frameNote(&frames[i])
		if note == prev {
			repeats++
			continue
		}
		flush()
		notes = append(notes, note)
		prev = note
	}
	flush()
	if len(notes) <= MaxFrameNotes {
		return notes
	}
	head, tail := MaxFrameNotes/2, MaxFrameNotes/2-1
	elided := len(notes) - head - tail
	capped := make([]string, 0, MaxFrameNotes)
	capped = append(capped, notes[:head]...)
	capped = append(capped, fmt.Sprintf("... %d notes omitted", elided))
	return append(capped, notes[len(notes)-tail:]...)
}

func frameNote(frame *lisp.CallFrame) string {
	loc := "unknown"
	if hasPosition(frame.Source) {
		loc = frame.Source.String()
	}
	return "in " + frame.FunName() + " called at " + loc
}
