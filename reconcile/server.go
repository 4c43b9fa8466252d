package reconcile

import (
	"context"
	"strings"

	"github.com/host-uk/coolifyctl/faults"
)

// ServerSpec is the desired state of one platform server.
type ServerSpec struct {
	State          string
	UUID           string
	Name           string
	IP             string
	PrivateKeyUUID string
	Port           int
	User           string
	Description    string
	IsBuildServer  bool
}

func (s *ServerSpec) validate() error {
	switch s.State {
	case StatePresent, StateAbsent, StateValidated:
	default:
		return invalidState("server", s.State, StatePresent, StateAbsent, StateValidated)
	}
	if strings.TrimSpace(s.Name) == "" {
		return faults.NewTypedError(faults.ValidationError, "server name is required", nil)
	}
	if s.State == StatePresent {
		if strings.TrimSpace(s.IP) == "" {
			return faults.NewTypedError(faults.ValidationError, "server ip is required for state present", nil)
		}
		if strings.TrimSpace(s.PrivateKeyUUID) == "" {
			return faults.NewTypedError(faults.ValidationError, "server private key uuid is required for state present", nil)
		}
	}
	return nil
}

// Server reconciles one server toward spec.
func (r *Reconciler) Server(ctx context.Context, spec ServerSpec) (*Result, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	if err := spec.validate(); err != nil {
		return nil, err
	}

	servers, err := r.api.ListServers(ctx)
	if err != nil {
		return nil, err
	}
	existing := findByFields(servers, spec.UUID, spec.Name, spec.IP)

	result := &Result{}
	switch spec.State {
	case StatePresent:
		if existing != nil {
			result.Resource = existing
			result.UUID = stringValue(existing, "uuid")
			result.Msg = "Server '" + spec.Name + "' already exists"
			return result, nil
		}
		if r.check {
			result.Changed = true
			result.Msg = "Would create server '" + spec.Name + "'"
			return result, nil
		}
		params := map[string]any{
			"name":             spec.Name,
			"ip":               spec.IP,
			"private_key_uuid": spec.PrivateKeyUUID,
			"port":             serverPort(spec.Port),
			"user":             serverUser(spec.User),
		}
		setIfNotEmpty(params, "description", spec.Description)
		if spec.IsBuildServer {
			params["is_build_server"] = true
		}
		created, err := r.api.CreateServer(ctx, params)
		if err != nil {
			return nil, err
		}
		result.Resource = created
		result.UUID = stringValue(created, "uuid")
		result.Changed = true
		result.Msg = "Server '" + spec.Name + "' created"
		return result, nil

	case StateAbsent:
		if existing == nil {
			result.Msg = "Server '" + spec.Name + "' does not exist"
			return result, nil
		}
		if r.check {
			result.Changed = true
			result.Msg = "Would delete server '" + spec.Name + "'"
			return result, nil
		}
		if _, err := r.api.DeleteServer(ctx, stringValue(existing, "uuid")); err != nil {
			return nil, err
		}
		result.Changed = true
		result.Msg = "Server '" + spec.Name + "' deleted"
		return result, nil

	default: // StateValidated
		if existing == nil {
			return nil, faults.NewTypedError(faults.ValidationError,
				"server '"+spec.Name+"' not found, create it first with state present", nil)
		}
		result.Resource = existing
		result.UUID = stringValue(existing, "uuid")
		if r.check {
			result.Changed = true
			result.Msg = "Would validate server '" + spec.Name + "'"
			return result, nil
		}
		validation, err := r.api.ValidateServer(ctx, result.UUID)
		if err != nil {
			return nil, err
		}
		result.ValidationResult = validation
		result.Changed = true
		result.Msg = "Validation started for server '" + spec.Name + "'"
		return result, nil
	}
}

func serverPort(port int) int {
	if port <= 0 {
		return 22
	}
	return port
}

func serverUser(user string) string {
	if strings.TrimSpace(user) == "" {
		return "root"
	}
	return user
}
