package common

import (
	"context"
	"reflect"
	"testing"
)

func TestApplyQuery(t *testing.T) {
	t.Parallel()

	payload := []any{
		map[string]any{"name": "web", "uuid": "prj-1"},
		map[string]any{"name": "api", "uuid": "prj-2"},
	}

	passthrough, err := ApplyQuery(context.Background(), payload, "  ")
	if err != nil {
		t.Fatalf("empty expression: %v", err)
	}
	if !reflect.DeepEqual(passthrough, payload) {
		t.Fatalf("empty expression must return the payload untouched")
	}

	single, err := ApplyQuery(context.Background(), payload, ".[0].name")
	if err != nil {
		t.Fatalf("single result: %v", err)
	}
	if single != "web" {
		t.Fatalf("expected unwrapped single result, got %#v", single)
	}

	multi, err := ApplyQuery(context.Background(), payload, ".[].uuid")
	if err != nil {
		t.Fatalf("multiple results: %v", err)
	}
	if !reflect.DeepEqual(multi, []any{"prj-1", "prj-2"}) {
		t.Fatalf("unexpected results %#v", multi)
	}

	empty, err := ApplyQuery(context.Background(), payload, ".[] | select(.name == \"ghost\")")
	if err != nil {
		t.Fatalf("no results: %v", err)
	}
	if !reflect.DeepEqual(empty, []any{}) {
		t.Fatalf("expected empty slice, got %#v", empty)
	}

	if _, err := ApplyQuery(context.Background(), payload, ".[ broken"); err == nil {
		t.Fatalf("expected error for an invalid expression")
	}
}
