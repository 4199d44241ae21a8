// Copyright © 2018 The ELPS authors

package cmd

import (
	"context"

	"github.com/sirupsen/logrus"
	octrace "go.opencensus.io/trace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// otelLogExporter logs finished OpenTelemetry spans.
type otelLogExporter struct {
	log logrus.FieldLogger
}

var _ sdktrace.SpanExporter = (*otelLogExporter)(nil)

func (e *otelLogExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		fields := logrus.Fields{
			"name":     span.Name(),
			"trace_id": span.SpanContext().TraceID().String(),
			"span_id":  span.SpanContext().SpanID().String(),
			"duration": span.EndTime().Sub(span.StartTime()),
		}
		if span.Parent().IsValid() {
			fields["parent_id"] = span.Parent().SpanID().String()
		}
		for _, kv := range span.Attributes() {
			fields[string(kv.Key)] = kv.Value.Emit()
		}
		e.log.WithFields(fields).Info("span")
	}
	return nil
}

func (e *otelLogExporter) Shutdown(ctx context.Context) error {
	return nil
}

// ocLogExporter logs finished OpenCensus spans.
type ocLogExporter struct {
	log logrus.FieldLogger
}

var _ octrace.Exporter = (*ocLogExporter)(nil)

func (e *ocLogExporter) ExportSpan(sd *octrace.SpanData) {
	fields := logrus.Fields{
		"name":     sd.Name,
		"trace_id": sd.TraceID.String(),
		"span_id":  sd.SpanID.String(),
		"duration": sd.EndTime.Sub(sd.StartTime),
	}
	if sd.ParentSpanID != (octrace.SpanID{}) {
		fields["parent_id"] = sd.ParentSpanID.String()
	}
	for k, v := range sd.Attributes {
		fields[k] = v
	}
	e.log.WithFields(fields).Info("span")
}
