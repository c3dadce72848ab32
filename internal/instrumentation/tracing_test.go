package instrumentation

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

func TestStartSpans(t *testing.T) {
	recorder := withRecorder(t)
	ctx := context.Background()

	_, span := StartSpan(ctx, "plain", attribute.String("k", "v"))
	span.End()
	_, span = StartOperationSpan(ctx, "get_last_email_summary")
	span.End()
	_, span = StartProviderSpan(ctx, "gmail", OperationList)
	span.End()
	_, span = StartModelSpan(ctx, "llama-3.1-8b-instant", ModelOperationSelect)
	span.End()

	ended := recorder.Ended()
	if len(ended) != 4 {
		t.Fatalf("expected 4 spans, got %d", len(ended))
	}

	wantNames := []string{"plain", "operation.get_last_email_summary", "mail.gmail.list", "llm.select_function"}
	for i, want := range wantNames {
		if ended[i].Name() != want {
			t.Errorf("span %d name = %q, want %q", i, ended[i].Name(), want)
		}
	}
}

func TestSetSpanStatus(t *testing.T) {
	recorder := withRecorder(t)

	_, span := StartSpan(context.Background(), "failing")
	SetSpanError(span, errors.New("boom"))
	span.End()

	_, span = StartSpan(context.Background(), "ok")
	SetSpanSuccess(span)
	span.End()

	ended := recorder.Ended()
	if ended[0].Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", ended[0].Status().Code)
	}
	if ended[1].Status().Code != codes.Ok {
		t.Errorf("expected ok status, got %v", ended[1].Status().Code)
	}
}

func TestGetTraceID(t *testing.T) {
	if GetTraceID(context.Background()) != "" {
		t.Error("expected empty trace ID without span")
	}
	if GetSpanID(context.Background()) != "" {
		t.Error("expected empty span ID without span")
	}

	withRecorder(t)
	ctx, span := StartSpan(context.Background(), "traced")
	defer span.End()

	if GetTraceID(ctx) == "" {
		t.Error("expected trace ID inside span")
	}
}
