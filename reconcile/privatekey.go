package reconcile

import (
	"context"
	"os"
	"strings"

	"github.com/host-uk/coolifyctl/faults"
)

// PrivateKeySpec is the desired state of one SSH private key registered on
// the platform. PrivateKey and PrivateKeyFile are mutually exclusive; the
// key material is only sent on create, never diffed.
type PrivateKeySpec struct {
	State          string
	UUID           string
	Name           string
	Description    *string
	PrivateKey     string
	PrivateKeyFile string
}

func (s *PrivateKeySpec) validate() error {
	switch s.State {
	case StatePresent, StateAbsent:
	default:
		return invalidState("private key", s.State, StatePresent, StateAbsent)
	}
	if strings.TrimSpace(s.Name) == "" {
		return faults.NewTypedError(faults.ValidationError, "private key name is required", nil)
	}
	if s.PrivateKey != "" && s.PrivateKeyFile != "" {
		return faults.NewTypedError(faults.ValidationError, "private_key and private_key_file are mutually exclusive", nil)
	}
	return nil
}

func (s *PrivateKeySpec) material() (string, error) {
	if s.PrivateKeyFile == "" {
		return s.PrivateKey, nil
	}
	data, err := os.ReadFile(s.PrivateKeyFile)
	if err != nil {
		return "", faults.NewTypedError(faults.ValidationError, "read private key file "+s.PrivateKeyFile, err)
	}
	return string(data), nil
}

func (s *PrivateKeySpec) needsUpdate(existing map[string]any) bool {
	if s.Description == nil {
		return false
	}
	return stringValue(existing, "description") != *s.Description
}

// PrivateKey reconciles one private key toward spec.
func (r *Reconciler) PrivateKey(ctx context.Context, spec PrivateKeySpec) (*Result, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	if err := spec.validate(); err != nil {
		return nil, err
	}

	keys, err := r.api.ListPrivateKeys(ctx)
	if err != nil {
		return nil, err
	}
	existing := findByFields(keys, spec.UUID, spec.Name, "")

	result := &Result{}
	if spec.State == StateAbsent {
		if existing == nil {
			result.Msg = "Private key '" + spec.Name + "' does not exist"
			return result, nil
		}
		if r.check {
			result.Changed = true
			result.Msg = "Would delete private key '" + spec.Name + "'"
			return result, nil
		}
		if _, err := r.api.DeletePrivateKey(ctx, stringValue(existing, "uuid")); err != nil {
			return nil, err
		}
		result.Changed = true
		result.Msg = "Private key '" + spec.Name + "' deleted"
		return result, nil
	}

	if existing != nil {
		result.Resource = existing
		result.UUID = stringValue(existing, "uuid")
		if !spec.needsUpdate(existing) {
			result.Msg = "Private key '" + spec.Name + "' already exists (no changes)"
			return result, nil
		}
		if r.check {
			result.Changed = true
			result.Msg = "Would update private key '" + spec.Name + "'"
			return result, nil
		}
		updated, err := r.api.UpdatePrivateKey(ctx, result.UUID, map[string]any{
			"description": *spec.Description,
		})
		if err != nil {
			return nil, err
		}
		if updated != nil {
			result.Resource = updated
		}
		result.Changed = true
		result.Msg = "Private key '" + spec.Name + "' updated"
		return result, nil
	}

	material, err := spec.material()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(material) == "" {
		return nil, faults.NewTypedError(faults.ValidationError,
			"private_key or private_key_file is required when creating a new key", nil)
	}
	if r.check {
		result.Changed = true
		result.Msg = "Would create private key '" + spec.Name + "'"
		return result, nil
	}

	params := map[string]any{
		"name":        spec.Name,
		"private_key": material,
	}
	if spec.Description != nil {
		setIfNotEmpty(params, "description", *spec.Description)
	}
	created, err := r.api.CreatePrivateKey(ctx, params)
	if err != nil {
		return nil, err
	}
	result.Resource = created
	result.UUID = stringValue(created, "uuid")
	result.Changed = true
	result.Msg = "Private key '" + spec.Name + "' created"
	return result, nil
}
