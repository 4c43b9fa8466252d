package reconcile

import (
	"context"
	"strings"

	"github.com/host-uk/coolifyctl/faults"
)

// ApplicationSpec is the desired state of one application. Type selects the
// creation flavor (public, private-github-app, private-deploy-key,
// dockerfile, dockerimage, dockercompose) and is only required on create.
type ApplicationSpec struct {
	State           string
	UUID            string
	Name            string
	Type            string
	ProjectUUID     string
	ServerUUID      string
	EnvironmentName string
	EnvironmentUUID string
	Description     string

	GitRepository           string
	GitBranch               string
	BuildPack               string
	PortsExposes            string
	Domains                 string
	Dockerfile              string
	DockerRegistryImageName string
	DockerRegistryImageTag  string
	DockerComposeRaw        string
	InstantDeploy           bool

	DeleteConfigurations bool
	DeleteVolumes        bool
}

func (s *ApplicationSpec) validate() error {
	switch s.State {
	case StatePresent, StateAbsent, StateStarted, StateStopped, StateRestarted, StateDeployed:
	default:
		return invalidState("application", s.State,
			StatePresent, StateAbsent, StateStarted, StateStopped, StateRestarted, StateDeployed)
	}
	if strings.TrimSpace(s.UUID) == "" && strings.TrimSpace(s.Name) == "" {
		return faults.NewTypedError(faults.ValidationError, "application uuid or name is required", nil)
	}
	if s.State == StatePresent && strings.TrimSpace(s.Name) == "" {
		return faults.NewTypedError(faults.ValidationError, "application name is required for state present", nil)
	}
	return nil
}

// findApplication narrows a name match by project and environment when
// those criteria are supplied.
func findApplication(applications []map[string]any, spec ApplicationSpec) map[string]any {
	for _, app := range applications {
		if spec.UUID != "" && stringValue(app, "uuid") == spec.UUID {
			return app
		}
		if spec.Name == "" || stringValue(app, "name") != spec.Name {
			continue
		}
		if spec.ProjectUUID != "" && stringValue(app, "project_uuid") != spec.ProjectUUID {
			continue
		}
		if spec.EnvironmentName != "" {
			environment, _ := app["environment"].(map[string]any)
			if stringValue(environment, "name") != spec.EnvironmentName {
				continue
			}
		}
		return app
	}
	return nil
}

// Application reconciles one application toward spec.
func (r *Reconciler) Application(ctx context.Context, spec ApplicationSpec) (*Result, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	if err := spec.validate(); err != nil {
		return nil, err
	}

	applications, err := r.api.ListApplications(ctx)
	if err != nil {
		return nil, err
	}
	existing := findApplication(applications, spec)
	label := displayName(spec.Name, spec.UUID)

	result := &Result{}
	switch spec.State {
	case StatePresent:
		if existing != nil {
			result.Resource = existing
			result.UUID = stringValue(existing, "uuid")
			result.Msg = "Application '" + label + "' already exists"
			return result, nil
		}
		if strings.TrimSpace(spec.Type) == "" {
			return nil, faults.NewTypedError(faults.ValidationError,
				"application type is required when creating a new application", nil)
		}
		if strings.TrimSpace(spec.ProjectUUID) == "" {
			return nil, faults.NewTypedError(faults.ValidationError,
				"project uuid is required when creating a new application", nil)
		}
		if strings.TrimSpace(spec.ServerUUID) == "" {
			return nil, faults.NewTypedError(faults.ValidationError,
				"server uuid is required when creating a new application", nil)
		}
		if r.check {
			result.Changed = true
			result.Msg = "Would create application '" + spec.Name + "'"
			return result, nil
		}
		created, err := r.api.CreateApplication(ctx, spec.Type, spec.createParams())
		if err != nil {
			return nil, err
		}
		result.Resource = created
		result.UUID = stringValue(created, "uuid")
		result.Changed = true
		result.Msg = "Application '" + spec.Name + "' created"
		return result, nil

	case StateAbsent:
		if existing == nil {
			result.Msg = "Application '" + label + "' does not exist"
			return result, nil
		}
		if r.check {
			result.Changed = true
			result.Msg = "Would delete application '" + label + "'"
			return result, nil
		}
		if _, err := r.api.DeleteApplication(ctx, stringValue(existing, "uuid"), spec.DeleteConfigurations, spec.DeleteVolumes); err != nil {
			return nil, err
		}
		result.Changed = true
		result.Msg = "Application '" + label + "' deleted"
		return result, nil

	default:
		if existing == nil {
			return nil, faults.NewTypedError(faults.ValidationError, "application '"+label+"' not found", nil)
		}
		result.Resource = existing
		result.UUID = stringValue(existing, "uuid")
		return r.applicationVerb(ctx, spec.State, label, result)
	}
}

func (r *Reconciler) applicationVerb(ctx context.Context, state, label string, result *Result) (*Result, error) {
	if r.check {
		result.Changed = true
		switch state {
		case StateStarted:
			result.Msg = "Would start application '" + label + "'"
		case StateStopped:
			result.Msg = "Would stop application '" + label + "'"
		case StateRestarted:
			result.Msg = "Would restart application '" + label + "'"
		case StateDeployed:
			result.Msg = "Would deploy application '" + label + "'"
		}
		return result, nil
	}

	switch state {
	case StateStarted:
		if _, err := r.api.StartApplication(ctx, result.UUID); err != nil {
			return nil, err
		}
		result.Msg = "Application '" + label + "' started"
	case StateStopped:
		if _, err := r.api.StopApplication(ctx, result.UUID); err != nil {
			return nil, err
		}
		result.Msg = "Application '" + label + "' stopped"
	case StateRestarted:
		if _, err := r.api.RestartApplication(ctx, result.UUID); err != nil {
			return nil, err
		}
		result.Msg = "Application '" + label + "' restarted"
	case StateDeployed:
		deployment, err := r.api.Deploy(ctx, result.UUID, "", false)
		if err != nil {
			return nil, err
		}
		result.DeploymentUUID = stringValue(deployment, "deployment_uuid")
		result.Msg = "Application '" + label + "' deployment triggered"
	}
	result.Changed = true
	return result, nil
}

func (s *ApplicationSpec) createParams() map[string]any {
	params := map[string]any{
		"name":         s.Name,
		"project_uuid": s.ProjectUUID,
		"server_uuid":  s.ServerUUID,
	}
	setIfNotEmpty(params, "description", s.Description)
	setIfNotEmpty(params, "environment_name", s.EnvironmentName)
	setIfNotEmpty(params, "environment_uuid", s.EnvironmentUUID)
	setIfNotEmpty(params, "git_repository", s.GitRepository)
	setIfNotEmpty(params, "git_branch", s.GitBranch)
	setIfNotEmpty(params, "build_pack", s.BuildPack)
	setIfNotEmpty(params, "ports_exposes", s.PortsExposes)
	setIfNotEmpty(params, "domains", s.Domains)
	setIfNotEmpty(params, "dockerfile", s.Dockerfile)
	setIfNotEmpty(params, "docker_registry_image_name", s.DockerRegistryImageName)
	setIfNotEmpty(params, "docker_registry_image_tag", s.DockerRegistryImageTag)
	setIfNotEmpty(params, "docker_compose_raw", s.DockerComposeRaw)
	if s.InstantDeploy {
		params["instant_deploy"] = true
	}
	return params
}
