package ctxutil

import (
	"context"
	"testing"
	"time"
)

func TestConversationID(t *testing.T) {
	ctx := context.Background()

	if got := GetConversationID(ctx); got != "" {
		t.Errorf("expected empty conversation ID, got %q", got)
	}

	ctx = WithConversationID(ctx, "5493880000001")
	if got := GetConversationID(ctx); got != "5493880000001" {
		t.Errorf("expected '5493880000001', got %q", got)
	}
}

func TestRequestID(t *testing.T) {
	ctx := context.Background()

	if _, ok := GetRequestID(ctx); ok {
		t.Error("expected no request ID in empty context")
	}

	ctx = WithRequestID(ctx, "req-123")
	requestID, ok := GetRequestID(ctx)
	if !ok || requestID != "req-123" {
		t.Errorf("expected 'req-123', got %q (ok=%v)", requestID, ok)
	}
}

func TestPreserveTracing(t *testing.T) {
	parent, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()

	parent = WithConversationID(parent, "conv-a")
	parent = WithRequestID(parent, "req-1")

	detached := PreserveTracing(parent)

	if got := GetConversationID(detached); got != "conv-a" {
		t.Errorf("expected 'conv-a', got %q", got)
	}
	if requestID, ok := GetRequestID(detached); !ok || requestID != "req-1" {
		t.Errorf("expected 'req-1', got %q (ok=%v)", requestID, ok)
	}

	// Detached context must not inherit the parent's deadline.
	if _, ok := detached.Deadline(); ok {
		t.Error("detached context should not have a deadline")
	}
}

func TestPreserveTracingEmpty(t *testing.T) {
	detached := PreserveTracing(context.Background())

	if got := GetConversationID(detached); got != "" {
		t.Errorf("expected empty conversation ID, got %q", got)
	}
}
