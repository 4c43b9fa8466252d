package reconcile

import (
	"strings"

	"github.com/host-uk/coolifyctl/client"
	"github.com/host-uk/coolifyctl/faults"
)

// Reconciler drives the remote platform toward a desired state, issuing at
// most one mutating call per invocation. With check enabled no mutating
// call is made and results report what would happen.
type Reconciler struct {
	api   *client.Coolify
	check bool
}

func New(api *client.Coolify, check bool) *Reconciler {
	return &Reconciler{api: api, check: check}
}

// API exposes the underlying platform façade.
func (r *Reconciler) API() *client.Coolify {
	if r == nil {
		return nil
	}
	return r.api
}

// CheckMode reports whether the reconciler runs in dry-run mode.
func (r *Reconciler) CheckMode() bool {
	if r == nil {
		return false
	}
	return r.check
}

func (r *Reconciler) ready() error {
	if r == nil || r.api == nil {
		return faults.NewTypedError(faults.InternalError, "reconciler is not initialized", nil)
	}
	return nil
}

func invalidState(resource, state string, allowed ...string) error {
	return faults.NewTypedError(faults.ValidationError,
		resource+" state "+state+" is not supported (expected one of "+strings.Join(allowed, ", ")+")", nil)
}

// findByFields scans a listing for the first entry whose uuid, name, or ip
// matches the supplied criteria. Empty criteria are skipped.
func findByFields(entries []map[string]any, uuid, name, ip string) map[string]any {
	for _, entry := range entries {
		if uuid != "" && stringValue(entry, "uuid") == uuid {
			return entry
		}
		if name != "" && stringValue(entry, "name") == name {
			return entry
		}
		if ip != "" && stringValue(entry, "ip") == ip {
			return entry
		}
	}
	return nil
}

func stringValue(entry map[string]any, key string) string {
	if entry == nil {
		return ""
	}
	value, _ := entry[key].(string)
	return value
}

func setIfNotEmpty(params map[string]any, key, value string) {
	if strings.TrimSpace(value) != "" {
		params[key] = value
	}
}

// displayName prefers the human-readable name over the uuid for messages.
func displayName(name, uuid string) string {
	if strings.TrimSpace(name) != "" {
		return name
	}
	return uuid
}
