// Copyright © 2018 The ELPS authors

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/luthersystems/tinylisp/lisp"
	"github.com/luthersystems/tinylisp/lisp/x/profiler"
	"github.com/sirupsen/logrus"
	octrace "go.opencensus.io/trace"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Trace modes
const (
	traceNone       = "none"
	traceOTel       = "otel"
	traceOpenCensus = "opencensus"
	traceCallgrind  = "callgrind"
	tracePprof      = "pprof"
)

func noop() error { return nil }

// newProfiler returns the profiler selected by s.Trace, or nil when tracing
// is disabled.  The returned function completes the profile and flushes any
// exporters.
func newProfiler(ctx context.Context, rt *lisp.Runtime, s settings) (lisp.Profiler, func() error, error) {
	log := logrus.WithField("trace", s.Trace)
	switch s.Trace {
	case "", traceNone:
		return nil, noop, nil
	case traceOTel:
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithSyncer(&otelLogExporter{log: log}),
			sdktrace.WithSampler(sdktrace.AlwaysSample()),
		)
		otel.SetTracerProvider(tp)
		ctx, root := tp.Tracer(profiler.DefaultTracerName).Start(ctx, "tinylisp")
		p := profiler.NewOpenTelemetryAnnotator(rt, ctx)
		return p, func() error {
			err := p.Complete()
			root.End()
			return errors.Join(err, tp.Shutdown(context.Background()))
		}, nil
	case traceOpenCensus:
		exporter := &ocLogExporter{log: log}
		octrace.RegisterExporter(exporter)
		octrace.ApplyConfig(octrace.Config{DefaultSampler: octrace.AlwaysSample()})
		ctx, root := octrace.StartSpan(ctx, "tinylisp")
		p := profiler.NewOpenCensusAnnotator(rt, ctx)
		return p, func() error {
			defer octrace.UnregisterExporter(exporter)
			err := p.Complete()
			root.End()
			return err
		}, nil
	case traceCallgrind:
		if s.ProfileOutput == "" {
			return nil, nil, fmt.Errorf("trace mode %s requires --%s", s.Trace, keyProfileOutput)
		}
		p := profiler.NewCallgrindProfiler(rt)
		err := p.SetFile(s.ProfileOutput)
		if err != nil {
			return nil, nil, err
		}
		log.WithField("output", s.ProfileOutput).Debug("Writing callgrind profile")
		return p, p.Complete, nil
	case tracePprof:
		if s.ProfileOutput == "" {
			return nil, nil, fmt.Errorf("trace mode %s requires --%s", s.Trace, keyProfileOutput)
		}
		f, err := os.Create(s.ProfileOutput)
		if err != nil {
			return nil, nil, err
		}
		err = pprof.StartCPUProfile(f)
		if err != nil {
			return nil, nil, errors.Join(err, f.Close())
		}
		log.WithField("output", s.ProfileOutput).Debug("Writing CPU profile")
		p := profiler.NewPprofAnnotator(rt, ctx)
		return p, func() error {
			pprof.StopCPUProfile()
			return errors.Join(p.Complete(), f.Close())
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown trace mode: %q", s.Trace)
	}
}
