package reconcile

import (
	"context"
	"strings"

	"github.com/host-uk/coolifyctl/faults"
)

// ProjectSpec is the desired state of one project and, optionally, the
// environments inside it. A nil Description leaves the remote value alone;
// an empty non-nil Description clears it.
type ProjectSpec struct {
	State        string
	UUID         string
	Name         string
	Description  *string
	Environments []EnvironmentSpec
}

// EnvironmentSpec is one desired environment inside a project.
type EnvironmentSpec struct {
	Name        string
	State       string
	Description string
}

func (s *ProjectSpec) validate() error {
	switch s.State {
	case StatePresent, StateAbsent:
	default:
		return invalidState("project", s.State, StatePresent, StateAbsent)
	}
	if strings.TrimSpace(s.Name) == "" {
		return faults.NewTypedError(faults.ValidationError, "project name is required", nil)
	}
	for _, env := range s.Environments {
		if strings.TrimSpace(env.Name) == "" {
			return faults.NewTypedError(faults.ValidationError, "environment name is required", nil)
		}
		switch env.State {
		case "", StatePresent, StateAbsent:
		default:
			return invalidState("environment", env.State, StatePresent, StateAbsent)
		}
	}
	return nil
}

func (s *ProjectSpec) needsUpdate(existing map[string]any) bool {
	if s.Description == nil {
		return false
	}
	return stringValue(existing, "description") != *s.Description
}

// Project reconciles one project toward spec, then reconciles its declared
// environments. Environment management is skipped in check mode.
func (r *Reconciler) Project(ctx context.Context, spec ProjectSpec) (*Result, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	if err := spec.validate(); err != nil {
		return nil, err
	}

	projects, err := r.api.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	existing := findByFields(projects, spec.UUID, spec.Name, "")

	result := &Result{}
	if spec.State == StateAbsent {
		if existing == nil {
			result.Msg = "Project '" + spec.Name + "' does not exist"
			return result, nil
		}
		if r.check {
			result.Changed = true
			result.Msg = "Would delete project '" + spec.Name + "'"
			return result, nil
		}
		if _, err := r.api.DeleteProject(ctx, stringValue(existing, "uuid")); err != nil {
			return nil, err
		}
		result.Changed = true
		result.Msg = "Project '" + spec.Name + "' deleted"
		return result, nil
	}

	if existing != nil {
		result.Resource = existing
		result.UUID = stringValue(existing, "uuid")
		if spec.needsUpdate(existing) {
			if r.check {
				result.Changed = true
				result.Msg = "Would update project '" + spec.Name + "'"
			} else {
				updated, err := r.api.UpdateProject(ctx, result.UUID, map[string]any{
					"description": *spec.Description,
				})
				if err != nil {
					return nil, err
				}
				if updated != nil {
					result.Resource = updated
				}
				result.Changed = true
				result.Msg = "Project '" + spec.Name + "' updated"
			}
		} else {
			result.Msg = "Project '" + spec.Name + "' already exists"
		}
	} else {
		if r.check {
			result.Changed = true
			result.Msg = "Would create project '" + spec.Name + "'"
			return result, nil
		}
		description := ""
		if spec.Description != nil {
			description = *spec.Description
		}
		created, err := r.api.CreateProject(ctx, spec.Name, description)
		if err != nil {
			return nil, err
		}
		result.Resource = created
		result.UUID = stringValue(created, "uuid")
		result.Changed = true
		result.Msg = "Project '" + spec.Name + "' created"
		existing = created
	}

	if len(spec.Environments) > 0 && !r.check && result.UUID != "" {
		if err := r.reconcileEnvironments(ctx, result.UUID, spec.Environments, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *Reconciler) reconcileEnvironments(ctx context.Context, projectUUID string, specs []EnvironmentSpec, result *Result) error {
	current, err := r.api.Environments(ctx, projectUUID)
	if err != nil {
		return err
	}
	result.Environments = current

	for _, spec := range specs {
		existing := findByFields(current, "", spec.Name, "")
		state := spec.State
		if state == "" {
			state = StatePresent
		}
		switch state {
		case StatePresent:
			if existing != nil {
				continue
			}
			if _, err := r.api.CreateEnvironment(ctx, projectUUID, spec.Name, spec.Description); err != nil {
				return err
			}
			result.EnvironmentsChanged = append(result.EnvironmentsChanged, EnvironmentChange{Name: spec.Name, Action: "created"})
			result.Changed = true
		case StateAbsent:
			if existing == nil {
				continue
			}
			if _, err := r.api.DeleteEnvironment(ctx, projectUUID, spec.Name); err != nil {
				return err
			}
			result.EnvironmentsChanged = append(result.EnvironmentsChanged, EnvironmentChange{Name: spec.Name, Action: "deleted"})
			result.Changed = true
		}
	}

	refreshed, err := r.api.Environments(ctx, projectUUID)
	if err != nil {
		return err
	}
	result.Environments = refreshed
	return nil
}
