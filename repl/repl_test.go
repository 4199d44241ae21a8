package repl

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/luthersystems/tinylisp/diagnostic"
	"github.com/luthersystems/tinylisp/lisp"
	"github.com/luthersystems/tinylisp/parser/token"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runReplWithString(t *testing.T, input string, opts ...Option) string {
	t.Helper()
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()

	go func() {
		defer inW.Close() //nolint:errcheck // test cleanup
		_, _ = io.WriteString(inW, input)
	}()

	errc := make(chan error, 1)
	go func() {
		opts = append([]Option{
			WithStdin(inR),
			WithStderr(outW),
			WithHistoryFile(""),
			WithColor(diagnostic.ColorNever),
		}, opts...)
		errc <- RunRepl("tinylisp> ", opts...)
		inR.Close()  //nolint:errcheck,gosec // test cleanup
		outW.Close() //nolint:errcheck,gosec // test cleanup
	}()

	var output bytes.Buffer
	_, _ = io.Copy(&output, outR)
	outR.Close() //nolint:errcheck,gosec // test cleanup
	require.NoError(t, <-errc)
	return output.String()
}

func TestEnsureHistoryFilePermissions_CreatesWithRestrictedMode(t *testing.T) {
	dir := t.TempDir()
	histFile := filepath.Join(dir, ".tinylisp_history")

	ensureHistoryFilePermissions(histFile, logrus.StandardLogger())

	info, err := os.Stat(histFile)
	require.NoError(t, err, "history file should be created")
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "new history file should have mode 0600")
}

func TestEnsureHistoryFilePermissions_RestrictsExistingFile(t *testing.T) {
	dir := t.TempDir()
	histFile := filepath.Join(dir, ".tinylisp_history")

	err := os.WriteFile(histFile, []byte("some history"), 0644)
	require.NoError(t, err)

	ensureHistoryFilePermissions(histFile, logrus.StandardLogger())

	info, err := os.Stat(histFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "existing history file should be restricted to 0600")

	data, err := os.ReadFile(histFile)
	require.NoError(t, err)
	assert.Equal(t, "some history", string(data))
}

func TestEnsureHistoryFilePermissions_EmptyPathNoOp(t *testing.T) {
	ensureHistoryFilePermissions("", logrus.StandardLogger())
}

func TestEnsureHistoryFilePermissions_LogsFailure(t *testing.T) {
	log, hook := test.NewNullLogger()
	ensureHistoryFilePermissions(filepath.Join(t.TempDir(), "missing", "history"), log)
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "unable to create history file", entry.Message)
}

func TestRunRepl(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "simple addition",
			input:    `(+ 1 1)`,
			expected: []string{"2\n"},
		},
		{
			name:     "define and call",
			input:    "(define sq (lambda (x) (* x x)))\n(sq 5)\n",
			expected: []string{"<nil>\n", "25\n"},
		},
		{
			name:     "multiple lines",
			input:    "(+ 1\n   2)\n",
			expected: []string{"3\n"},
		},
		{
			name:     "multiple expressions",
			input:    "1 2 (list 3)\n",
			expected: []string{"1\n", "2\n", "(3)\n"},
		},
		{
			name:  "error",
			input: "(car (list))",
			expected: []string{
				"error: car: empty list\n",
				"--> stdin:1:1\n",
				" 1 |  (car (list))\n",
				"= note: in car called at stdin:1:1\n",
			},
		},
		{
			name:  "error location",
			input: "(define x 1)\n\n  (car x)\n",
			expected: []string{
				"error: type-error: car: argument has wrong type\n",
				"--> stdin:3:3\n",
				" 3 |    (car x)\n",
			},
		},
		{
			name:  "parse error recovery",
			input: "1 ) 2\n(+ 1 2)\n",
			expected: []string{
				"1\n",
				"error: parse-error: unexpected character: )\n",
				"--> stdin:1:3\n",
				"3\n",
			},
		},
		{
			name:     "unterminated",
			input:    "(+ 1",
			expected: []string{"error: parse-error: unterminated list\n"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := runReplWithString(t, tc.input)
			for _, expected := range tc.expected {
				assert.Contains(t, got, expected)
			}
		})
	}
}

func TestRunReplParseErrorDiscardsLine(t *testing.T) {
	got := runReplWithString(t, "1 ) 7\n")
	// 7 only appears in the rendered source line
	assert.Equal(t, 1, strings.Count(got, "7"), got)
}

func TestRunReplEnvConfig(t *testing.T) {
	got := runReplWithString(t, "(define f (lambda (x) (f x)))\n(f 1)\n",
		WithEnvConfig(lisp.WithMaximumStackHeight(10)))
	assert.Contains(t, got, "error: stack-overflow: f: stack overflow\n")
	assert.Contains(t, got, "= note: previous frame repeated 8 more times\n")
}

func TestRunEnvNotRoot(t *testing.T) {
	env := lisp.NewEnv(lisp.NewEnv(nil))
	assert.Error(t, RunEnv(env, "> ", "  "))
}

func TestTranscript(t *testing.T) {
	var src transcript
	toks := src.lex("(a")
	require.Len(t, toks, 2)
	assert.Equal(t, token.PAREN_L, toks[0].Type)
	assert.Equal(t, 1, toks[0].Source.Line)

	assert.Empty(t, src.lex("   "))

	toks = src.lex("  b)")
	require.Len(t, toks, 2)
	assert.Equal(t, "b", toks[0].Text)
	assert.Equal(t, 3, toks[0].Source.Line)
	assert.Equal(t, 3, toks[0].Source.Col)
	assert.Equal(t, 9, toks[0].Source.Pos)

	b, err := src.read(SourceName)
	require.NoError(t, err)
	assert.Equal(t, "(a\n   \n  b)\n", string(b))

	loc := src.loc()
	assert.Equal(t, 4, loc.Line)
	assert.Equal(t, len(b), loc.Pos)
}
