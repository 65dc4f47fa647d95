package instrumentation

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	ctx, toolSpan := StartToolSpan(context.Background(), "delete_calendar_event")
	if GetTraceID(ctx) == "" {
		t.Fatal("expected a trace id inside the tool span")
	}
	_, apiSpan := StartGoogleAPISpan(ctx, ServiceCalendar, "delete_event")
	EndSpan(apiSpan, errors.New("googleapi: Error 404"))
	EndSpan(toolSpan, nil)

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("ended spans = %d, want 2", len(spans))
	}
	if spans[0].Name() != "google.calendar.delete_event" || spans[0].Status().Code != codes.Error {
		t.Errorf("api span = %s %v", spans[0].Name(), spans[0].Status())
	}
	if spans[1].Name() != "tool.delete_calendar_event" || spans[1].Status().Code != codes.Ok {
		t.Errorf("tool span = %s %v", spans[1].Name(), spans[1].Status())
	}
	if spans[0].Parent().SpanID() != spans[1].SpanContext().SpanID() {
		t.Error("api span is not a child of the tool span")
	}
}

func TestGetTraceID_NoSpan(t *testing.T) {
	if id := GetTraceID(context.Background()); id != "" {
		t.Errorf("GetTraceID = %q, want empty", id)
	}
}
