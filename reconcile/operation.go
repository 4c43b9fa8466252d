package reconcile

import (
	"context"
	"strings"

	"github.com/host-uk/coolifyctl/faults"
	"github.com/host-uk/coolifyctl/openapi"
)

// Operation is the generic passthrough surface: it calls an arbitrary
// operation identifier with a raw parameter map. Changed reflects the
// operation's mutating classification. In check mode nothing is called.
func (r *Reconciler) Operation(ctx context.Context, id string, params map[string]any) (*Result, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, faults.NewTypedError(faults.ValidationError, "operation identifier is required", nil)
	}

	op, err := r.lookupOperation(id)
	if err != nil {
		return nil, err
	}

	result := &Result{Operation: id}
	if r.check {
		result.Changed = op.Mutating
		result.Response = map[string]any{"check_mode": true, "operation": id}
		result.Msg = "Would call operation '" + id + "'"
		return result, nil
	}

	response, err := r.api.CallOperation(ctx, id, params)
	if err != nil {
		return nil, err
	}
	result.Response = response
	result.Changed = op.Mutating
	result.Msg = "Operation '" + id + "' called"
	return result, nil
}

func (r *Reconciler) lookupOperation(id string) (*openapi.Operation, error) {
	index := r.api.Client().Index()
	if index == nil {
		return nil, faults.NewTypedError(faults.InternalError, "operation index is not available", nil)
	}
	return index.Lookup(id)
}
