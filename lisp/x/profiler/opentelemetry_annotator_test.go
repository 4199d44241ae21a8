package profiler_test

import (
	"context"
	"testing"

	"github.com/luthersystems/tinylisp/lisp"
	"github.com/luthersystems/tinylisp/lisp/x/profiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newInMemoryTracer(t *testing.T) *tracetest.InMemoryExporter {
	exporter := tracetest.NewInMemoryExporter()
	tp := trace.NewTracerProvider(
		trace.WithSyncer(exporter),
		trace.WithSampler(trace.AlwaysSample()),
	)
	t.Cleanup(func() {
		err := tp.Shutdown(context.Background())
		assert.NoError(t, err, "TracerProvider shutdown")
	})
	otel.SetTracerProvider(tp)
	return exporter
}

func spanNames(spans tracetest.SpanStubs) []string {
	names := make([]string, len(spans))
	for i := range spans {
		names[i] = spans[i].Name
	}
	return names
}

func spanAttr(span tracetest.SpanStub, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range span.Attributes {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestNewOpenTelemetryAnnotator(t *testing.T) {
	exporter := newInMemoryTracer(t)
	runTestLisp(t, func(rt *lisp.Runtime) lisp.Profiler {
		return profiler.NewOpenTelemetryAnnotator(rt, context.Background())
	})

	spans := exporter.GetSpans()
	assert.Equal(t, testLispSpans, spanNames(spans))

	plus := spans[0]
	kind, ok := spanAttr(plus, profiler.FunKindKey)
	assert.True(t, ok)
	assert.Equal(t, "builtin", kind.AsString())
	_, ok = spanAttr(plus, "code.filepath")
	assert.False(t, ok, "builtins have no source location")

	addIt := spans[1]
	file, ok := spanAttr(addIt, "code.filepath")
	if assert.True(t, ok) {
		assert.Equal(t, "test.lisp", file.AsString())
	}
	line, ok := spanAttr(addIt, "code.lineno")
	if assert.True(t, ok) {
		assert.Equal(t, int64(2), line.AsInt64())
	}

	// every span but the outermost has a parent within the trace
	root := spans[len(spans)-1]
	for _, span := range spans[:len(spans)-1] {
		assert.Equal(t, root.SpanContext.TraceID(), span.SpanContext.TraceID())
		assert.True(t, span.Parent.IsValid(), span.Name)
	}
	assert.False(t, root.Parent.IsValid())
}

func TestNewOpenTelemetryAnnotatorSkip(t *testing.T) {
	exporter := newInMemoryTracer(t)
	runTestLisp(t, func(rt *lisp.Runtime) lisp.Profiler {
		return profiler.NewOpenTelemetryAnnotator(rt, context.Background(),
			profiler.WithBuiltinsSkipped())
	})
	assert.Equal(t, testLispLambdaSpans, spanNames(exporter.GetSpans()))
}

func TestNewOpenTelemetryAnnotatorLabeler(t *testing.T) {
	exporter := newInMemoryTracer(t)
	labeler := func(rt *lisp.Runtime, fun *lisp.LVal) string {
		if fun.Str == "twice" {
			return "apply  twice"
		}
		return ""
	}
	runTestLisp(t, func(rt *lisp.Runtime) lisp.Profiler {
		return profiler.NewOpenTelemetryAnnotator(rt, context.Background(),
			profiler.WithBuiltinsSkipped(),
			profiler.WithFunLabeler(labeler))
	})

	spans := exporter.GetSpans()
	require.Len(t, spans, len(testLispLambdaSpans))
	assert.Equal(t, "apply_twice", spans[len(spans)-1].Name)
	fn, ok := spanAttr(spans[len(spans)-1], "code.function")
	if assert.True(t, ok) {
		assert.Equal(t, "twice", fn.AsString())
	}
}

func TestOpenTelemetryAnnotatorAnonymous(t *testing.T) {
	exporter := newInMemoryTracer(t)
	env, ppa := newProfiledEnv(t, func(rt *lisp.Runtime) lisp.Profiler {
		return profiler.NewOpenTelemetryAnnotator(rt, context.Background(),
			profiler.WithBuiltinsSkipped())
	})
	_, err := env.LoadString("test.lisp", "((lambda (x) x) 1)")
	require.NoError(t, err)
	require.NoError(t, ppa.Complete())
	assert.Equal(t, []string{"lambda"}, spanNames(exporter.GetSpans()))
}

func TestOpenTelemetryAnnotatorError(t *testing.T) {
	exporter := newInMemoryTracer(t)
	env, ppa := newProfiledEnv(t, func(rt *lisp.Runtime) lisp.Profiler {
		return profiler.NewOpenTelemetryAnnotator(rt, context.Background())
	})
	_, err := env.LoadString("test.lisp", "(define f (lambda (x) (car x))) (f (list))")
	require.Error(t, err)
	require.NoError(t, ppa.Complete())
	assert.Equal(t, []string{"list", "car", "f"}, spanNames(exporter.GetSpans()))
}

func TestOpenTelemetryAnnotatorNoContext(t *testing.T) {
	env := lisp.NewEnv(nil)
	//nolint:staticcheck
	ppa := profiler.NewOpenTelemetryAnnotator(env.Runtime, nil)
	assert.Error(t, ppa.Enable())
}
