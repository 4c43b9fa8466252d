package reconcile

import (
	"context"
	"testing"

	"github.com/host-uk/coolifyctl/faults"
)

func TestServerPresentCreatesOnce(t *testing.T) {
	t.Parallel()

	r, platform := newTestReconciler(t, false)
	spec := ServerSpec{
		State:          StatePresent,
		Name:           "build-1",
		IP:             "10.0.0.5",
		PrivateKeyUUID: "key-1",
	}

	first, err := r.Server(context.Background(), spec)
	if err != nil {
		t.Fatalf("first reconcile: %v", err)
	}
	if !first.Changed {
		t.Fatalf("expected first reconcile to report a change")
	}
	if first.Msg != "Server 'build-1' created" {
		t.Fatalf("unexpected message %q", first.Msg)
	}
	if first.UUID == "" {
		t.Fatalf("expected created server uuid")
	}

	second, err := r.Server(context.Background(), spec)
	if err != nil {
		t.Fatalf("second reconcile: %v", err)
	}
	if second.Changed {
		t.Fatalf("second reconcile must be idempotent, got %q", second.Msg)
	}
	if second.Msg != "Server 'build-1' already exists" {
		t.Fatalf("unexpected message %q", second.Msg)
	}
	if got := platform.Mutations(); got != 1 {
		t.Fatalf("expected exactly one mutating call, got %d", got)
	}
}

func TestServerPresentCheckModeDoesNotMutate(t *testing.T) {
	t.Parallel()

	r, platform := newTestReconciler(t, true)
	result, err := r.Server(context.Background(), ServerSpec{
		State:          StatePresent,
		Name:           "build-1",
		IP:             "10.0.0.5",
		PrivateKeyUUID: "key-1",
	})
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if !result.Changed {
		t.Fatalf("check mode must still report the pending change")
	}
	if result.Msg != "Would create server 'build-1'" {
		t.Fatalf("unexpected message %q", result.Msg)
	}
	if got := platform.Mutations(); got != 0 {
		t.Fatalf("check mode issued %d mutating calls", got)
	}
}

func TestServerAbsentMissingIsNoop(t *testing.T) {
	t.Parallel()

	r, platform := newTestReconciler(t, false)
	result, err := r.Server(context.Background(), ServerSpec{State: StateAbsent, Name: "ghost"})
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if result.Changed {
		t.Fatalf("deleting a missing server must not report a change")
	}
	if result.Msg != "Server 'ghost' does not exist" {
		t.Fatalf("unexpected message %q", result.Msg)
	}
	if got := platform.Mutations(); got != 0 {
		t.Fatalf("expected no mutating calls, got %d", got)
	}
}

func TestServerAbsentDeletesExisting(t *testing.T) {
	t.Parallel()

	r, platform := newTestReconciler(t, false)
	spec := ServerSpec{
		State:          StatePresent,
		Name:           "build-1",
		IP:             "10.0.0.5",
		PrivateKeyUUID: "key-1",
	}
	if _, err := r.Server(context.Background(), spec); err != nil {
		t.Fatalf("create: %v", err)
	}

	result, err := r.Server(context.Background(), ServerSpec{State: StateAbsent, Name: "build-1"})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !result.Changed || result.Msg != "Server 'build-1' deleted" {
		t.Fatalf("unexpected result %+v", result)
	}
	if got := platform.Mutations(); got != 2 {
		t.Fatalf("expected create plus delete, got %d mutating calls", got)
	}
}

func TestServerValidated(t *testing.T) {
	t.Parallel()

	r, _ := newTestReconciler(t, false)
	spec := ServerSpec{
		State:          StatePresent,
		Name:           "build-1",
		IP:             "10.0.0.5",
		PrivateKeyUUID: "key-1",
	}
	if _, err := r.Server(context.Background(), spec); err != nil {
		t.Fatalf("create: %v", err)
	}

	spec.State = StateValidated
	result, err := r.Server(context.Background(), spec)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !result.Changed || result.Msg != "Validation started for server 'build-1'" {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.ValidationResult == nil {
		t.Fatalf("expected validation response to be captured")
	}
}

func TestServerValidatedMissingFails(t *testing.T) {
	t.Parallel()

	r, _ := newTestReconciler(t, false)
	_, err := r.Server(context.Background(), ServerSpec{State: StateValidated, Name: "ghost"})
	if !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServerSpecValidation(t *testing.T) {
	t.Parallel()

	r, platform := newTestReconciler(t, false)
	cases := []ServerSpec{
		{State: "paused", Name: "x"},
		{State: StatePresent},
		{State: StatePresent, Name: "x"},
		{State: StatePresent, Name: "x", IP: "10.0.0.1"},
	}
	for _, spec := range cases {
		if _, err := r.Server(context.Background(), spec); !faults.IsCategory(err, faults.ValidationError) {
			t.Fatalf("spec %+v: expected validation error, got %v", spec, err)
		}
	}
	if got := platform.Mutations(); got != 0 {
		t.Fatalf("invalid specs issued %d mutating calls", got)
	}
}
