package profiler_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/luthersystems/tinylisp/lisp"
	"github.com/luthersystems/tinylisp/lisp/x/profiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCallgrind(t *testing.T) {
	var buf bytes.Buffer
	runTestLisp(t, func(rt *lisp.Runtime) lisp.Profiler {
		p := profiler.NewCallgrindProfiler(rt)
		require.NoError(t, p.SetOutput(&buf))
		return p
	})
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "version: 1\ncreator: tinylisp "+lisp.Version), out)
	assert.Contains(t, out, "events: Time_(ns) Memory_(bytes)\n")
	assert.Contains(t, out, "fl=(1) -\nfn=(2) +\n")
	assert.Contains(t, out, "fl=(3) test.lisp\nfn=(4) add-it\n")
	assert.Contains(t, out, "fl=(1)\nfn=(7) ENTRYPOINT\n")
	assert.Contains(t, out, "cfl=(3)\ncfn=(6)\ncalls=1 0 0\n")
	assert.Contains(t, out, "\nsummary: ")
	for _, name := range []string{"+", "add-it", "f"} {
		assert.Equal(t, 1, strings.Count(out, ") "+name+"\n"), "name %q compressed after first use", name)
	}
}

func TestCallgrindFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "callgrind.out")
	runTestLisp(t, func(rt *lisp.Runtime) lisp.Profiler {
		p := profiler.NewCallgrindProfiler(rt, profiler.WithBuiltinsSkipped())
		require.NoError(t, p.SetFile(path))
		return p
	})
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(b), " +\n")
	assert.Contains(t, string(b), " add-it\n")
}

func TestCallgrindNoOutput(t *testing.T) {
	env := lisp.NewEnv(nil)
	p := profiler.NewCallgrindProfiler(env.Runtime)
	assert.Error(t, p.Enable())
	assert.False(t, p.IsEnabled())
}

func TestCallgrindError(t *testing.T) {
	var buf bytes.Buffer
	env, p := newProfiledEnv(t, func(rt *lisp.Runtime) lisp.Profiler {
		p := profiler.NewCallgrindProfiler(rt)
		require.NoError(t, p.SetOutput(&buf))
		return p
	})
	_, err := env.LoadString("test.lisp", "(define f (lambda (x) (car x))) (f (list))")
	require.Error(t, err)
	require.NoError(t, p.Complete())
	assert.Contains(t, buf.String(), "\nsummary: ")
	assert.Error(t, p.Complete())
}
