package profiler

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/luthersystems/tinylisp/lisp"
)

// errWriter wraps an io.Writer and captures the first write error,
// short-circuiting subsequent writes after a failure.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) print(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = io.WriteString(ew.w, s)
}

// callgrindProfiler writes function costs in the callgrind format.  The
// resulting files can be opened in KCacheGrind or QCacheGrind.
type callgrindProfiler struct {
	profiler
	sync.Mutex
	writer     io.Writer
	closer     io.Closer
	writeErr   error
	startTime  time.Time
	refs       map[string]int
	refCounter int
	current    *callRef
}

var _ lisp.Profiler = &callgrindProfiler{}

// NewCallgrindProfiler returns a profiler that must be given an output with
// SetFile or SetOutput before it is enabled.
func NewCallgrindProfiler(runtime *lisp.Runtime, opts ...Option) *callgrindProfiler {
	p := new(callgrindProfiler)
	p.runtime = runtime
	p.applyConfigs(opts...)
	return p
}

// callRef is an in-progress function application
type callRef struct {
	start       time.Time
	prev        *callRef
	name        string
	children    []*callRef
	duration    time.Duration
	startMemory uint64
	file        string
	line        int
}

func (p *callgrindProfiler) Enable() error {
	p.Lock()
	if p.writer == nil {
		p.Unlock()
		return errors.New("no output set in profiler")
	}
	w := &errWriter{w: p.writer}
	w.printf("version: 1\ncreator: tinylisp %s (Go %s)\n", lisp.Version, runtime.Version())
	w.print("cmd: Eval\npart: 1\npositions: line\n\n")
	w.print("events: Time_(ns) Memory_(bytes)\n\n")
	if w.err != nil {
		p.Unlock()
		return w.err
	}
	p.startTime = time.Now()
	p.refs = make(map[string]int)
	p.refCounter = 0
	p.current = nil
	p.pushCallRef("ENTRYPOINT", "-", 0)
	p.Unlock()
	p.runtime.Profiler = p
	return p.profiler.Enable()
}

// SetFile creates filename and writes the profile to it.  The file is
// closed by Complete.
func (p *callgrindProfiler) SetFile(filename string) error {
	p.Lock()
	defer p.Unlock()
	if p.enabled {
		return errors.New("profiler already enabled")
	}
	f, err := os.Create(filename) //#nosec G304
	if err != nil {
		return err
	}
	p.writer = f
	p.closer = f
	return nil
}

// SetOutput writes the profile to w.
func (p *callgrindProfiler) SetOutput(w io.Writer) error {
	p.Lock()
	defer p.Unlock()
	if p.enabled {
		return errors.New("profiler already enabled")
	}
	p.writer = w
	p.closer = nil
	return nil
}

func (p *callgrindProfiler) Complete() error {
	p.Lock()
	defer p.Unlock()
	if !p.enabled {
		return errors.New("profiler not enabled")
	}
	p.enabled = false
	// unwind applications interrupted by an error
	for p.current != nil && p.current.prev != nil {
		p.writeCallRef(p.popCallRef(), 0)
	}
	ref := p.popCallRef()
	if p.writeErr != nil {
		return p.closeWith(p.writeErr)
	}
	ref.duration = time.Since(ref.start)
	w := &errWriter{w: p.writer}
	w.printf("fl=%s\n", p.getRef(ref.file))
	w.printf("fn=%s\n", p.getRef(ref.name))
	w.printf("%d %d %d\n", 0, ref.duration, 0)
	p.writeCalls(w, ref)
	w.print("\n")
	ms := &runtime.MemStats{}
	runtime.ReadMemStats(ms)
	w.printf("summary: %d %d\n\n", time.Since(p.startTime).Nanoseconds(), ms.TotalAlloc)
	return p.closeWith(w.err)
}

func (p *callgrindProfiler) closeWith(err error) error {
	if p.closer == nil {
		return err
	}
	cerr := p.closer.Close()
	if err != nil {
		return err
	}
	return cerr
}

// getRef compresses repeated names using callgrind's (id) syntax.
func (p *callgrindProfiler) getRef(name string) string {
	if ref, ok := p.refs[name]; ok {
		return fmt.Sprintf("(%d)", ref)
	}
	p.refCounter++
	p.refs[name] = p.refCounter
	return fmt.Sprintf("(%d) %s", p.refCounter, name)
}

func (p *callgrindProfiler) Start(fun *lisp.LVal) func() {
	if p.skipTrace(fun) {
		return func() {}
	}
	prettyLabel, _ := p.prettyFunName(fun)
	file, line := "-", 0
	if loc := getSourceLoc(fun); loc != nil {
		file, line = loc.File, loc.Line
	}
	p.Lock()
	p.pushCallRef(prettyLabel, file, line)
	p.Unlock()
	return p.end
}

func (p *callgrindProfiler) pushCallRef(name string, file string, line int) {
	ref := &callRef{
		name: name,
		file: file,
		line: line,
		prev: p.current,
	}
	if p.current != nil {
		p.current.children = append(p.current.children, ref)
	}
	ms := &runtime.MemStats{}
	runtime.ReadMemStats(ms)
	ref.startMemory = ms.TotalAlloc
	ref.start = time.Now()
	p.current = ref
}

func (p *callgrindProfiler) popCallRef() *callRef {
	ref := p.current
	if ref == nil {
		panic("callgrind profiler call stack underflow")
	}
	p.current = ref.prev
	return ref
}

func (p *callgrindProfiler) end() {
	p.Lock()
	defer p.Unlock()
	if !p.enabled {
		return
	}
	ref := p.popCallRef()
	ref.duration = time.Since(ref.start)
	if ref.duration == 0 {
		ref.duration = 1
	}
	ms := &runtime.MemStats{}
	runtime.ReadMemStats(ms)
	p.writeCallRef(ref, ms.TotalAlloc-ref.startMemory)
}

func (p *callgrindProfiler) writeCallRef(ref *callRef, memory uint64) {
	if p.writeErr != nil {
		return
	}
	w := &errWriter{w: p.writer}
	w.printf("fl=%s\n", p.getRef(ref.file))
	w.printf("fn=%s\n", p.getRef(ref.name))
	w.printf("%d %d %d\n", ref.line, ref.duration, memory)
	p.writeCalls(w, ref)
	w.print("\n")
	p.writeErr = w.err
}

func (p *callgrindProfiler) writeCalls(w *errWriter, ref *callRef) {
	for _, entry := range ref.children {
		w.printf("cfl=%s\n", p.getRef(entry.file))
		w.printf("cfn=%s\n", p.getRef(entry.name))
		w.print("calls=1 0 0\n")
		w.printf("%d %d %d\n", entry.line, entry.duration, 0)
	}
}
