// Copyright © 2021 The ELPS authors

package cmd

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/luthersystems/tinylisp/lisp"
	"github.com/luthersystems/tinylisp/lisp/lisplib/libhelp"
	"github.com/spf13/cobra"
)

// DocCommand returns a doc command.  Embedders that bind additional builtins
// may supply their environment with WithEnv.
func DocCommand(opts ...Option) *cobra.Command {
	cfg := &cmdConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	var (
		sourceFile   string
		checkMissing bool
	)
	cmd := &cobra.Command{
		Use:   "doc [flags] [NAME]",
		Short: "Show documentation for special operators and functions",
		Long: `Show built-in documentation for tinylisp special operators and
functions.

Without arguments every special operator and every function bound in the
root environment is listed.  With a NAME only that symbol is documented.
Use -f to load a source file first (useful for documenting your own code).

Examples:
  tinylisp doc                     List all documentation
  tinylisp doc car                 Show docs for the car builtin
  tinylisp doc lambda              Show docs for the lambda special operator
  tinylisp doc -f mylib.lisp sq    Load a file, then show docs for sq`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if checkMissing {
				return docCheckMissing(cmd.OutOrStdout())
			}
			env := cfg.env
			if env == nil {
				var err error
				env, err = docEnv(cmd.Context(), cmd.ErrOrStderr(), sourceFile)
				if err != nil {
					return err
				}
			}
			out := bufio.NewWriter(cmd.OutOrStdout())
			defer out.Flush() //nolint:errcheck // best-effort flush on exit
			if len(args) == 0 {
				return libhelp.RenderIndex(out, env)
			}
			return libhelp.RenderVar(out, env, args[0])
		},
	}
	cmd.Flags().StringVarP(&sourceFile, "source-file", "f", "",
		"Evaluate a lisp source file before querying documentation.")
	cmd.Flags().BoolVar(&checkMissing, "missing", false,
		"List builtins and special operators without documentation and fail if there are any.")
	return cmd
}

// docEnv returns the environment queried by the doc command.  Environment
// output is discarded unless initialization fails.
func docEnv(ctx context.Context, stderr io.Writer, sourceFile string) (*lisp.LEnv, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	s := loadSettings()
	s.Trace = traceNone
	errbuf := &bytes.Buffer{}
	env, _, err := newEnv(ctx, s, errbuf)
	if err != nil {
		_, _ = stderr.Write(errbuf.Bytes())
		return nil, err
	}
	if sourceFile == "" {
		return env, nil
	}
	_, err = env.LoadFile(sourceFile)
	var lerr *lisp.ErrorVal
	if errors.As(err, &lerr) {
		_, _ = stderr.Write(errbuf.Bytes())
		renderError(stderr, s.Color, os.ReadFile, lerr)
		return nil, errFailed
	}
	return env, err
}

func docCheckMissing(w io.Writer) error {
	missing := libhelp.CheckMissing()
	for _, m := range missing {
		_, err := fmt.Fprintf(w, "%s %s\n", m.Kind, m.Name)
		if err != nil {
			return err
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%d symbols are missing documentation", len(missing))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(DocCommand())
}
