package lisp

// Version is the version of the tinylisp interpreter.
const Version = "0.3"

// Profiler observes function applications.  A Profiler installed in a
// Runtime is called once for every function application.
type Profiler interface {
	// Is the profiler enabled?
	IsEnabled() bool
	// Enable the profiler
	Enable() error
	// End the profiling session and flush any outstanding data
	Complete() error
	// Marks the start of a function application.  The returned function
	// marks its end.
	Start(fun *LVal) func()
}
