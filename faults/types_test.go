package faults

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsCategory(t *testing.T) {
	t.Parallel()

	err := NewTypedError(ValidationError, "invalid input", nil)
	if !IsCategory(err, ValidationError) {
		t.Fatalf("expected validation category match")
	}
	if IsCategory(err, HTTPError) {
		t.Fatalf("expected http category mismatch")
	}

	wrapped := errors.New("wrap: " + err.Error())
	if IsCategory(wrapped, ValidationError) {
		t.Fatalf("plain wrapped string error must not match typed category")
	}

	joined := errors.Join(err, errors.New("other"))
	if !IsCategory(joined, ValidationError) {
		t.Fatalf("expected category match through errors.Join")
	}
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	retryable := []ErrorCategory{TimeoutError, ConnectionError, TLSError}
	for _, category := range retryable {
		if !IsRetryable(NewTypedError(category, "transport failed", nil)) {
			t.Fatalf("expected %s to be retryable", category)
		}
	}

	terminal := []ErrorCategory{ValidationError, SpecLoadError, UnknownOperationError, HTTPError, APIError, InternalError}
	for _, category := range terminal {
		if IsRetryable(NewTypedError(category, "failed", nil)) {
			t.Fatalf("expected %s to be terminal", category)
		}
	}

	if IsRetryable(nil) {
		t.Fatalf("nil error must not be retryable")
	}
	if IsRetryable(errors.New("plain")) {
		t.Fatalf("untyped error must not be retryable")
	}

	wrapped := fmt.Errorf("dispatch: %w", NewTypedError(ConnectionError, "refused", nil))
	if !IsRetryable(wrapped) {
		t.Fatalf("expected retryable category through fmt wrapping")
	}
}

func TestTypedErrorMessage(t *testing.T) {
	t.Parallel()

	cause := errors.New("underlying")
	err := NewTypedError(SpecLoadError, "parse spec", cause)
	if got, want := err.Error(), "parse spec: underlying"; got != want {
		t.Fatalf("unexpected message: got %q want %q", got, want)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to unwrap")
	}

	bare := NewTypedError(InternalError, "", nil)
	if got := bare.Error(); got != string(InternalError) {
		t.Fatalf("unexpected bare message: %q", got)
	}
}
