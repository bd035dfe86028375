package types

import (
	"errors"
	"testing"
)

func TestError_ChainingAndHelpers(t *testing.T) {
	t.Parallel()

	root := errors.New("root")
	err := NewError(ErrUpstreamError, "upstream failed").
		WithCause(root).
		WithHTTPStatus(502).
		WithRetryable(true)

	if GetErrorCode(err) != ErrUpstreamError {
		t.Fatalf("expected code %s, got %s", ErrUpstreamError, GetErrorCode(err))
	}
	if !IsRetryable(err) {
		t.Fatalf("expected retryable")
	}
	if !errors.Is(err, root) {
		t.Fatalf("expected errors.Is unwrap to root")
	}
	if got := err.Error(); got == "" {
		t.Fatalf("expected non-empty error string")
	}
}

func TestError_WrappedDetection(t *testing.T) {
	t.Parallel()

	inner := NewError(ErrPreconditionFailed, "case id not bound")
	wrapped := WrapError(ErrInternalError, "turn failed", inner)

	if !IsErrorCode(wrapped, ErrInternalError) {
		t.Fatalf("expected outer code to win")
	}
	// errors.As walks the chain, so the inner code is still reachable.
	var e *Error
	if !errors.As(errors.Unwrap(wrapped), &e) || e.Code != ErrPreconditionFailed {
		t.Fatalf("expected inner precondition error, got %v", e)
	}
}
