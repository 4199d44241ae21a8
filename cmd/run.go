// Copyright © 2018 The ELPS authors

package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/luthersystems/tinylisp/lisp"
	"github.com/luthersystems/tinylisp/lisputil"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	runExpression bool
	runPrint      bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [flags] FILE...",
	Short: "Run lisp code",
	Long: `Run lisp code provided via the command line or a file.

All arguments are evaluated in a single root environment, in order.  An
argument ending in "/..." expands to every .lisp file beneath the directory.
Evaluation stops at the first failure, which is reported with its source
location and call stack.

Examples:
  tinylisp run prog.lisp
  tinylisp run lib/... main.lisp
  tinylisp run -p -e '(define sq (lambda (x) (* x x)))' '(sq 7)'`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r := &runner{
			settings:   loadSettings(),
			expression: runExpression,
			print:      runPrint,
			stdout:     cmd.OutOrStdout(),
			stderr:     cmd.ErrOrStderr(),
		}
		return r.run(cmd.Context(), args)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Here flags for the run command are defined
	runCmd.Flags().BoolVarP(&runExpression, "expression", "e", false,
		"Interpret arguments as lisp expressions")
	runCmd.Flags().BoolVarP(&runPrint, "print", "p", false,
		"Print expression values to stdout")
}

// runner evaluates a sequence of sources in one root environment.
type runner struct {
	settings   settings
	expression bool
	print      bool
	stdout     io.Writer
	stderr     io.Writer
	// sources holds the text of each loaded source so failures can be
	// rendered with context.
	sources map[string][]byte
}

type source struct {
	name string
	text []byte
}

func (r *runner) run(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	srcs, err := r.readSources(args)
	if err != nil {
		return err
	}
	env, done, err := newEnv(ctx, r.settings, r.stderr)
	if err != nil {
		return err
	}
	err = r.eval(env, srcs)
	err = errors.Join(err, done())
	var lerr *lisp.ErrorVal
	if errors.As(err, &lerr) {
		renderError(r.stderr, r.settings.Color, r.readSource, lerr)
		return errFailed
	}
	return err
}

func (r *runner) readSources(args []string) ([]source, error) {
	r.sources = make(map[string][]byte)
	if r.expression {
		srcs := make([]source, len(args))
		for i, arg := range args {
			srcs[i] = source{name: fmt.Sprintf("expr%d", i+1), text: []byte(arg)}
			r.sources[srcs[i].name] = srcs[i].text
		}
		return srcs, nil
	}
	paths, err := expandArgs(args)
	if err != nil {
		return nil, err
	}
	srcs := make([]source, 0, len(paths))
	for _, path := range paths {
		b, err := os.ReadFile(path) //#nosec G304
		if err != nil {
			return nil, err
		}
		r.sources[path] = b
		srcs = append(srcs, source{name: path, text: b})
	}
	return srcs, nil
}

func (r *runner) readSource(name string) ([]byte, error) {
	b, ok := r.sources[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return b, nil
}

func (r *runner) eval(env *lisp.LEnv, srcs []source) error {
	if r.print {
		return r.evalPrint(env, srcs)
	}
	// Every source is parsed before any is evaluated.
	loaders := make([]lisp.Loader, len(srcs))
	for i, src := range srcs {
		load, err := lisp.TextLoader(env.Runtime.Reader, src.name, bytes.NewReader(src.text))
		if err != nil {
			return err
		}
		loaders[i] = load
	}
	_, err := lisputil.Load(env, lisputil.LoadAll(loaders...))
	return err
}

func (r *runner) evalPrint(env *lisp.LEnv, srcs []source) error {
	for _, src := range srcs {
		logrus.WithField("source", src.name).Debug("Loading source")
		exprs, err := env.Runtime.Reader.Read(src.name, bytes.NewReader(src.text))
		if err != nil {
			return err
		}
		for _, expr := range exprs {
			v, err := env.Eval(expr)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(r.stdout, v)
			if err != nil {
				return err
			}
		}
	}
	return nil
}
