package instrumentation

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func attrMap(attrs []slog.Attr) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[a.Key] = a.Value.String()
	}
	return m
}

func TestOperationInvocation_Complete(t *testing.T) {
	oi := NewOperationInvocation("get_last_email_summary").
		WithStage(StageModel).
		WithSurface("http").
		WithSpanContext(context.Background())

	time.Sleep(time.Millisecond)
	oi.CompleteSuccess()

	if !oi.Success {
		t.Error("expected success")
	}
	if oi.Duration <= 0 {
		t.Error("expected positive duration")
	}
	if oi.Status() != StatusSuccess {
		t.Errorf("Status() = %q, want %q", oi.Status(), StatusSuccess)
	}
	if oi.TraceID != "" {
		t.Error("expected no trace id without a span")
	}
}

func TestOperationInvocation_CompleteWithError(t *testing.T) {
	oi := NewOperationInvocation("get_unread_email_categories").CompleteWithError(errors.New("quota"))

	if oi.Success {
		t.Error("expected failure")
	}
	if oi.Error != "quota" {
		t.Errorf("Error = %q, want %q", oi.Error, "quota")
	}
	if oi.Status() != StatusError {
		t.Errorf("Status() = %q, want %q", oi.Status(), StatusError)
	}
}

func TestOperationInvocation_LogAttrs(t *testing.T) {
	oi := NewOperationInvocation("check_emails_from_sender").
		WithStage(StageRule).
		WithArgument("amazon").
		CompleteSuccess()

	redacted := attrMap(oi.LogAttrs(false))
	if _, ok := redacted["argument"]; ok {
		t.Error("argument should be redacted without PII")
	}
	if redacted["argument_len"] != "6" {
		t.Errorf("argument_len = %q, want 6", redacted["argument_len"])
	}

	full := attrMap(oi.LogAttrs(true))
	if full["argument"] != "amazon" {
		t.Errorf("argument = %q, want amazon", full["argument"])
	}
	if full["stage"] != StageRule {
		t.Errorf("stage = %q, want %q", full["stage"], StageRule)
	}
}

func TestAuditLogger_LogOperation(t *testing.T) {
	tests := []struct {
		name    string
		success bool
		want    string
	}{
		{"success", true, "operation_executed"},
		{"failure", false, "operation_failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			al := NewAuditLogger(slog.New(slog.NewTextHandler(&buf, nil)))

			oi := NewOperationInvocation("get_last_email_summary").Complete(tt.success, nil)
			al.LogOperation(oi)

			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("log output %q does not contain %q", buf.String(), tt.want)
			}
		})
	}
}

func TestAuditLogger_Disabled(t *testing.T) {
	var buf bytes.Buffer
	al := NewAuditLoggerWithConfig(slog.New(slog.NewTextHandler(&buf, nil)), AuditLoggingConfig{Enabled: false})

	al.LogOperation(NewOperationInvocation("x").CompleteSuccess())
	if buf.Len() != 0 {
		t.Errorf("expected no output when disabled, got %q", buf.String())
	}

	var nilLogger *AuditLogger
	nilLogger.LogOperation(NewOperationInvocation("x").CompleteSuccess())
}
