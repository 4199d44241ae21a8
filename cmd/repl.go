// Copyright © 2018 The ELPS authors

package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/luthersystems/tinylisp/parser"
	"github.com/luthersystems/tinylisp/repl"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive tinylisp REPL",
	Long: `Start an interactive read-eval-print loop.

Forms may span several lines; a continuation prompt is shown until the form
is complete.  Line editing, tab completion of bound symbols and persistent
command history are supported via readline.  Use Ctrl-D to exit.

Example REPL session:
  tinylisp> (define square (lambda (x) (* x x)))
  <nil>
  tinylisp> (square 5)
  25
  tinylisp> (car (list))
  error: car: empty list`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := loadSettings()
		log := logrus.WithField("cmd", "repl")
		warnReplReader(log, s)
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		env, done, err := newEnv(ctx, s, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		prompt := filepath.Base(os.Args[0]) + "> "
		err = repl.RunEnv(env, prompt, strings.Repeat(" ", len(prompt)), replOptions(s, log)...)
		return errors.Join(err, done())
	},
}

func replOptions(s settings, log logrus.FieldLogger) []repl.Option {
	return []repl.Option{
		repl.WithHistoryFile(s.HistoryFile),
		repl.WithColor(s.Color),
		repl.WithLogger(log),
	}
}

// warnReplReader reports a reader setting that the REPL cannot honor.  Input
// typed at the REPL is always parsed incrementally by the rdparser reader;
// the configured reader only serves code loaded by the environment.
func warnReplReader(log logrus.FieldLogger, s settings) bool {
	if s.Reader == "" || s.Reader == parser.ReaderRD {
		return false
	}
	log.WithField(keyReader, s.Reader).Warnf("The REPL reads input with the %s reader", parser.ReaderRD)
	return true
}

func init() {
	rootCmd.AddCommand(replCmd)
}
