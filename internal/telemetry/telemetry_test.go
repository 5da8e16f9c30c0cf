package telemetry

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestFailRecordsError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	want := errors.New("boom")
	if got := Fail(span, want); got != want {
		t.Errorf("Fail() = %v, want %v", got, want)
	}
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("recorded %d spans, want 1", len(ended))
	}
	if ended[0].Status().Code != codes.Error {
		t.Errorf("span status = %v, want Error", ended[0].Status().Code)
	}
	if len(ended[0].Events()) == 0 {
		t.Error("span should carry the recorded error event")
	}
}

func TestFailNil(t *testing.T) {
	_, span := Tracer("test").Start(context.Background(), "op")
	defer span.End()
	if err := Fail(span, nil); err != nil {
		t.Errorf("Fail(nil) = %v, want nil", err)
	}
}
