package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("expected a no-op logger for an empty context")
	}

	core, logs := observer.New(zapcore.InfoLevel)
	l := NewFromZap(zap.New(core))

	ctx := WithContext(context.Background(), l)
	ctx, id := WithRequestID(ctx)

	FromContext(ctx).Debug(ctx, "dropped")
	FromContext(ctx).Info(ctx, "search issued", zap.String("query", "abba"))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	fields := entries[0].ContextMap()
	if fields["query"] != "abba" {
		t.Fatalf("missing query field: %v", fields)
	}
	if fields[string(RequestID)] != id {
		t.Fatalf("missing request id: %v", fields)
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(Config{Level: "LOUD", File: "stderr"}); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
}
