package reconcile

import (
	"context"
	"strings"

	"github.com/host-uk/coolifyctl/faults"
)

// ServiceSpec is the desired state of one one-click or compose service.
// Either Type (a platform service template) or DockerComposeRaw must be
// supplied when creating.
type ServiceSpec struct {
	State           string
	UUID            string
	Name            string
	Type            string
	ProjectUUID     string
	ServerUUID      string
	EnvironmentName string
	EnvironmentUUID string
	Description     string

	DockerComposeRaw       string
	InstantDeploy          bool
	ConnectToDockerNetwork bool

	DeleteConfigurations bool
	DeleteVolumes        bool
}

func (s *ServiceSpec) validate() error {
	switch s.State {
	case StatePresent, StateAbsent, StateStarted, StateStopped, StateRestarted:
	default:
		return invalidState("service", s.State,
			StatePresent, StateAbsent, StateStarted, StateStopped, StateRestarted)
	}
	if strings.TrimSpace(s.UUID) == "" && strings.TrimSpace(s.Name) == "" {
		return faults.NewTypedError(faults.ValidationError, "service uuid or name is required", nil)
	}
	return nil
}

// Service reconciles one service toward spec.
func (r *Reconciler) Service(ctx context.Context, spec ServiceSpec) (*Result, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	if err := spec.validate(); err != nil {
		return nil, err
	}

	services, err := r.api.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	existing := findByFields(services, spec.UUID, spec.Name, "")
	label := displayName(spec.Name, spec.UUID)

	result := &Result{}
	switch spec.State {
	case StatePresent:
		if existing != nil {
			result.Resource = existing
			result.UUID = stringValue(existing, "uuid")
			result.Msg = "Service '" + label + "' already exists"
			return result, nil
		}
		if strings.TrimSpace(spec.Name) == "" {
			return nil, faults.NewTypedError(faults.ValidationError,
				"service name is required when creating a new service", nil)
		}
		if strings.TrimSpace(spec.ProjectUUID) == "" {
			return nil, faults.NewTypedError(faults.ValidationError,
				"project uuid is required when creating a new service", nil)
		}
		if strings.TrimSpace(spec.ServerUUID) == "" {
			return nil, faults.NewTypedError(faults.ValidationError,
				"server uuid is required when creating a new service", nil)
		}
		if strings.TrimSpace(spec.Type) == "" && strings.TrimSpace(spec.DockerComposeRaw) == "" {
			return nil, faults.NewTypedError(faults.ValidationError,
				"service type or docker compose definition is required when creating a new service", nil)
		}
		if r.check {
			result.Changed = true
			result.Msg = "Would create service '" + spec.Name + "'"
			return result, nil
		}
		created, err := r.api.CreateService(ctx, spec.createParams())
		if err != nil {
			return nil, err
		}
		result.Resource = created
		result.UUID = stringValue(created, "uuid")
		result.Changed = true
		result.Msg = "Service '" + spec.Name + "' created"
		return result, nil

	case StateAbsent:
		if existing == nil {
			result.Msg = "Service '" + label + "' does not exist"
			return result, nil
		}
		if r.check {
			result.Changed = true
			result.Msg = "Would delete service '" + label + "'"
			return result, nil
		}
		if _, err := r.api.DeleteService(ctx, stringValue(existing, "uuid"), spec.DeleteConfigurations, spec.DeleteVolumes); err != nil {
			return nil, err
		}
		result.Changed = true
		result.Msg = "Service '" + label + "' deleted"
		return result, nil

	default:
		if existing == nil {
			return nil, faults.NewTypedError(faults.ValidationError, "service '"+label+"' not found", nil)
		}
		result.Resource = existing
		result.UUID = stringValue(existing, "uuid")
		if r.check {
			result.Changed = true
			switch spec.State {
			case StateStarted:
				result.Msg = "Would start service '" + label + "'"
			case StateStopped:
				result.Msg = "Would stop service '" + label + "'"
			case StateRestarted:
				result.Msg = "Would restart service '" + label + "'"
			}
			return result, nil
		}
		switch spec.State {
		case StateStarted:
			if _, err := r.api.StartService(ctx, result.UUID); err != nil {
				return nil, err
			}
			result.Msg = "Service '" + label + "' started"
		case StateStopped:
			if _, err := r.api.StopService(ctx, result.UUID); err != nil {
				return nil, err
			}
			result.Msg = "Service '" + label + "' stopped"
		case StateRestarted:
			if _, err := r.api.RestartService(ctx, result.UUID); err != nil {
				return nil, err
			}
			result.Msg = "Service '" + label + "' restarted"
		}
		result.Changed = true
		return result, nil
	}
}

func (s *ServiceSpec) createParams() map[string]any {
	params := map[string]any{
		"name":         s.Name,
		"project_uuid": s.ProjectUUID,
		"server_uuid":  s.ServerUUID,
	}
	setIfNotEmpty(params, "description", s.Description)
	setIfNotEmpty(params, "environment_name", s.EnvironmentName)
	setIfNotEmpty(params, "environment_uuid", s.EnvironmentUUID)
	setIfNotEmpty(params, "type", s.Type)
	setIfNotEmpty(params, "docker_compose_raw", s.DockerComposeRaw)
	if s.InstantDeploy {
		params["instant_deploy"] = true
	}
	if s.ConnectToDockerNetwork {
		params["connect_to_docker_network"] = true
	}
	return params
}
