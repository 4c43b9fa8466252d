package reconcile

import (
	"context"
	"testing"

	"github.com/host-uk/coolifyctl/faults"
)

func TestOperationPassthrough(t *testing.T) {
	t.Parallel()

	r, platform := newTestReconciler(t, false)
	result, err := r.Operation(context.Background(), "healthcheck", nil)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if result.Changed {
		t.Fatalf("a read-only operation must not report a change")
	}
	if result.Msg != "Operation 'healthcheck' called" {
		t.Fatalf("unexpected message %q", result.Msg)
	}
	response, ok := result.Response.(map[string]any)
	if !ok || response["status"] != "ok" {
		t.Fatalf("unexpected response %+v", result.Response)
	}

	mutating, err := r.Operation(context.Background(), "create-project", map[string]any{"name": "web"})
	if err != nil {
		t.Fatalf("create-project: %v", err)
	}
	if !mutating.Changed {
		t.Fatalf("a create operation must report a change")
	}
	if got := platform.Mutations(); got != 1 {
		t.Fatalf("expected one mutating call, got %d", got)
	}
}

func TestOperationCheckModeSkipsNetwork(t *testing.T) {
	t.Parallel()

	r, platform := newTestReconciler(t, true)

	mutating, err := r.Operation(context.Background(), "delete-server-by-uuid", map[string]any{"uuid": "srv-1"})
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if !mutating.Changed {
		t.Fatalf("check mode must classify delete operations as changing")
	}
	if mutating.Msg != "Would call operation 'delete-server-by-uuid'" {
		t.Fatalf("unexpected message %q", mutating.Msg)
	}
	response, ok := mutating.Response.(map[string]any)
	if !ok || response["check_mode"] != true || response["operation"] != "delete-server-by-uuid" {
		t.Fatalf("unexpected response %+v", mutating.Response)
	}

	readonly, err := r.Operation(context.Background(), "list-servers", nil)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if readonly.Changed {
		t.Fatalf("check mode must classify list operations as read-only")
	}

	if got := platform.Mutations(); got != 0 {
		t.Fatalf("check mode issued %d mutating calls", got)
	}
}

func TestOperationUnknownIdentifier(t *testing.T) {
	t.Parallel()

	r, _ := newTestReconciler(t, false)
	_, err := r.Operation(context.Background(), "definitely-not-real", nil)
	if !faults.IsCategory(err, faults.UnknownOperationError) {
		t.Fatalf("expected unknown operation error, got %v", err)
	}

	_, err = r.Operation(context.Background(), "   ", nil)
	if !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected validation error for blank identifier, got %v", err)
	}
}
