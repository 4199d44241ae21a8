// Copyright © 2018 The ELPS authors

package repl

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/luthersystems/tinylisp/diagnostic"
	"github.com/luthersystems/tinylisp/lisp"
	"github.com/luthersystems/tinylisp/parser"
	"github.com/luthersystems/tinylisp/parser/lexer"
	"github.com/luthersystems/tinylisp/parser/rdparser"
	"github.com/luthersystems/tinylisp/parser/token"
	"github.com/sirupsen/logrus"
)

// SourceName is the file name given to locations of REPL input.
const SourceName = "stdin"

type config struct {
	stdin       io.ReadCloser
	stderr      io.Writer
	historyFile string
	color       diagnostic.ColorMode
	log         logrus.FieldLogger
	envConfig   []lisp.Config
}

func newConfig(opts ...Option) *config {
	config := &config{
		historyFile: DefaultHistoryFile(),
		log:         logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStderr allows overriding the output of the REPL.  Results, errors and
// prompts are all written to stderr.
func WithStderr(stderr io.Writer) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithHistoryFile sets the file used to persist input history.  An empty
// path disables history.
func WithHistoryFile(path string) Option {
	return func(c *config) {
		c.historyFile = path
	}
}

// WithColor controls the use of color when rendering errors.
func WithColor(mode diagnostic.ColorMode) Option {
	return func(c *config) {
		c.color = mode
	}
}

// WithLogger sets the logger used for operational messages.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *config) {
		c.log = log
	}
}

// WithEnvConfig applies additional configuration to the environment created
// by RunRepl.
func WithEnvConfig(cfgs ...lisp.Config) Option {
	return func(c *config) {
		c.envConfig = append(c.envConfig, cfgs...)
	}
}

// RunRepl runs a simple repl in a new root environment.
func RunRepl(prompt string, opts ...Option) error {
	cfg := newConfig(opts...)
	env := lisp.NewEnv(nil)
	envOpts := []lisp.Config{
		lisp.WithReader(parser.NewReader()),
	}
	if cfg.stderr != nil {
		envOpts = append(envOpts, lisp.WithStderr(cfg.stderr))
	}
	envOpts = append(envOpts, cfg.envConfig...)
	err := lisp.InitializeUserEnv(env, envOpts...)
	if err != nil {
		return fmt.Errorf("language initialization failure: %w", err)
	}
	return RunEnv(env, prompt, strings.Repeat(" ", len(prompt)), opts...)
}

// RunEnv runs a simple repl with env as a root environment.  RunEnv returns
// when its input is exhausted.
func RunEnv(env *lisp.LEnv, prompt, cont string, opts ...Option) error {
	if env.Parent != nil {
		return errors.New("REPL environment is not a root environment")
	}

	cfg := newConfig(opts...)
	if cfg.stderr != nil {
		env.Runtime.Stderr = cfg.stderr
	}
	out := env.Runtime.Stderr
	if out == nil {
		out = os.Stderr
	}

	p := rdparser.NewInteractive(nil)
	p.SetPrompts(prompt, cont)

	ensureHistoryFilePermissions(cfg.historyFile, cfg.log)
	rlCfg := &readline.Config{
		Stdout:            out,
		Stderr:            out,
		Prompt:            p.Prompt(),
		HistoryFile:       cfg.historyFile,
		HistorySearchFold: true,
		AutoComplete:      &symbolCompleter{env: env},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return fmt.Errorf("unable to initialize line editor: %w", err)
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	src := &transcript{}
	eof := false
	p.Read = func() []*token.Token {
		rl.SetPrompt(p.Prompt())
		for !eof {
			line, err := rl.ReadSlice()
			if err == readline.ErrInterrupt {
				continue
			}
			if err != nil {
				if err != io.EOF {
					cfg.log.WithError(err).Warn("unable to read input")
				}
				eof = true
				break
			}
			toks := src.lex(string(line))
			if len(toks) == 0 {
				continue
			}
			return toks
		}
		return []*token.Token{{
			Type:   token.EOF,
			Source: src.loc(),
		}}
	}

	renderer := &diagnostic.Renderer{
		Color:        cfg.color,
		SourceReader: src.read,
	}
	cfg.log.WithFields(logrus.Fields{
		"history": cfg.historyFile,
		"env":     env.ID,
	}).Debug("repl started")
	for {
		expr, err := p.Parse()
		if err == io.EOF {
			break
		}
		if err != nil {
			_ = renderer.Render(out, diagnostic.FromError(err))
			continue
		}
		val, err := env.Eval(expr)
		if err != nil {
			_ = renderer.Render(out, diagnostic.FromError(err))
			continue
		}
		fmt.Fprintln(out, val) //nolint:errcheck // best-effort REPL output
	}
	cfg.log.Debug("repl input closed")
	return nil
}

// DefaultHistoryFile returns the default location of the REPL history.
func DefaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tinylisp_history")
}

// ensureHistoryFilePermissions creates the history file if necessary and
// restricts it to the current user because input may contain secrets.
func ensureHistoryFilePermissions(path string, log logrus.FieldLogger) {
	if path == "" {
		return
	}
	log = log.WithField("history", path)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0600) //#nosec G304
	if err != nil {
		log.WithError(err).Warn("unable to create history file")
		return
	}
	_ = f.Close()
	err = os.Chmod(path, 0600)
	if err != nil {
		log.WithError(err).Warn("unable to restrict history file permissions")
	}
}

// transcript accumulates the lines read by the REPL so that tokens carry
// their position in the session and diagnostics can show the input.
type transcript struct {
	buf   bytes.Buffer
	lines int
}

// lex appends line to the transcript and returns its tokens, excluding EOF.
func (t *transcript) lex(line string) []*token.Token {
	offset := t.buf.Len()
	lineno := t.lines
	t.buf.WriteString(line)
	t.buf.WriteByte('\n')
	t.lines++

	lex := lexer.New(token.NewScanner(SourceName, strings.NewReader(line)))
	var toks []*token.Token
	for {
		tok := lex.ReadToken()
		if tok.Type == token.EOF {
			return toks
		}
		if tok.Source != nil {
			tok.Source.Pos += offset
			tok.Source.Line += lineno
		}
		toks = append(toks, tok)
	}
}

// loc returns the location following the last line read.
func (t *transcript) loc() *token.Location {
	return &token.Location{
		File: SourceName,
		Pos:  t.buf.Len(),
		Line: t.lines + 1,
		Col:  1,
	}
}

func (t *transcript) read(name string) ([]byte, error) {
	if name != SourceName {
		return os.ReadFile(name) //#nosec G304
	}
	return t.buf.Bytes(), nil
}
