// Copyright © 2018 The ELPS authors

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/luthersystems/tinylisp/lisp"
	"github.com/luthersystems/tinylisp/parser"
)

// newEnv returns a root environment configured by s.  The returned function
// ends the profiling session, if any, and must be called when evaluation is
// finished.
func newEnv(ctx context.Context, s settings, stderr io.Writer) (*lisp.LEnv, func() error, error) {
	reader, err := parser.NamedReader(s.Reader)
	if err != nil {
		return nil, nil, err
	}
	env := lisp.NewEnv(nil)
	config := []lisp.Config{
		lisp.WithReader(reader),
		lisp.WithStderr(stderr),
		lisp.WithMaximumStackHeight(s.MaxStackHeight),
	}
	prof, done, err := newProfiler(ctx, env.Runtime, s)
	if err != nil {
		return nil, nil, err
	}
	if prof != nil {
		config = append(config, lisp.WithProfiler(prof))
	}
	err = lisp.InitializeUserEnv(env, config...)
	if err != nil {
		return nil, nil, errors.Join(fmt.Errorf("language initialization failure: %w", err), done())
	}
	return env, done, nil
}
