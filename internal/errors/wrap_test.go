package errors

import (
	"errors"
	"testing"
)

func TestErrorWrapper(t *testing.T) {
	wrapper := NewWrapper("catalog", "load_catalog")

	t.Run("Wrap returns nil for nil error", func(t *testing.T) {
		result := wrapper.Wrap(nil, "No se pudo cargar el catálogo")
		if result != nil {
			t.Errorf("expected nil, got %v", result)
		}
	})

	t.Run("Wrap creates WrappedError", func(t *testing.T) {
		baseErr := errors.New("open cursos_personalizados.json: no such file")
		wrapped := wrapper.Wrap(baseErr, "No se pudo cargar el catálogo")

		if wrapped == nil {
			t.Fatal("expected non-nil wrapped error")
		}

		wrappedErr, ok := wrapped.(*WrappedError)
		if !ok {
			t.Fatal("expected WrappedError type")
		}

		if wrappedErr.Module != "catalog" {
			t.Errorf("expected module 'catalog', got '%s'", wrappedErr.Module)
		}

		if wrappedErr.Operation != "load_catalog" {
			t.Errorf("expected operation 'load_catalog', got '%s'", wrappedErr.Operation)
		}

		if !errors.Is(wrapped, baseErr) {
			t.Error("wrapped error should unwrap to base error")
		}
	})

	t.Run("Wrapf formats message", func(t *testing.T) {
		baseErr := errors.New("not found")
		wrapped := wrapper.Wrapf(baseErr, "no se encontró el curso: %s", "Albañilería Básica")

		wrappedErr := wrapped.(*WrappedError)
		expected := "no se encontró el curso: Albañilería Básica"
		if wrappedErr.UserMessage != expected {
			t.Errorf("expected '%s', got '%s'", expected, wrappedErr.UserMessage)
		}
	})
}

func TestGetUserMessage(t *testing.T) {
	t.Run("returns empty string for nil", func(t *testing.T) {
		if result := GetUserMessage(nil); result != "" {
			t.Errorf("expected empty string, got '%s'", result)
		}
	})

	t.Run("returns user message from WrappedError", func(t *testing.T) {
		wrapped := &WrappedError{
			Operation:   "test",
			Module:      "test",
			Cause:       errors.New("base error"),
			UserMessage: "user friendly message",
		}

		if result := GetUserMessage(wrapped); result != "user friendly message" {
			t.Errorf("expected 'user friendly message', got '%s'", result)
		}
	})

	t.Run("returns error string for non-WrappedError", func(t *testing.T) {
		err := errors.New("plain error")
		if result := GetUserMessage(err); result != "plain error" {
			t.Errorf("expected 'plain error', got '%s'", result)
		}
	})
}

func TestWrappedError_Error(t *testing.T) {
	wrapped := &WrappedError{
		Operation:   "send_reply",
		Module:      "webhook",
		Cause:       errors.New("network error"),
		UserMessage: "no se pudo enviar la respuesta",
	}

	expected := "[webhook:send_reply] no se pudo enviar la respuesta: network error"
	if wrapped.Error() != expected {
		t.Errorf("expected '%s', got '%s'", expected, wrapped.Error())
	}
}
