package reconcile

import (
	"context"
	"strings"

	"github.com/host-uk/coolifyctl/faults"
)

// DatabaseSpec is the desired state of one managed database. Type selects
// the engine (postgresql, mysql, mariadb, mongodb, redis, keydb,
// dragonfly, clickhouse) and is only required on create.
type DatabaseSpec struct {
	State           string
	UUID            string
	Name            string
	Type            string
	ProjectUUID     string
	ServerUUID      string
	EnvironmentName string
	EnvironmentUUID string
	Description     string
	Image           string

	IsPublic   bool
	PublicPort int

	PostgresUser     string
	PostgresPassword string
	PostgresDB       string

	MySQLRootPassword string
	MySQLUser         string
	MySQLPassword     string
	MySQLDatabase     string

	RedisPassword string

	MongoInitdbRootUsername string
	MongoInitdbRootPassword string

	LimitsMemory string
	LimitsCPUs   string

	DeleteConfigurations bool
	DeleteVolumes        bool
}

func (s *DatabaseSpec) validate() error {
	switch s.State {
	case StatePresent, StateAbsent, StateStarted, StateStopped, StateRestarted:
	default:
		return invalidState("database", s.State,
			StatePresent, StateAbsent, StateStarted, StateStopped, StateRestarted)
	}
	if strings.TrimSpace(s.UUID) == "" && strings.TrimSpace(s.Name) == "" {
		return faults.NewTypedError(faults.ValidationError, "database uuid or name is required", nil)
	}
	if s.State == StatePresent && strings.TrimSpace(s.Name) == "" {
		return faults.NewTypedError(faults.ValidationError, "database name is required for state present", nil)
	}
	return nil
}

// Database reconciles one database toward spec.
func (r *Reconciler) Database(ctx context.Context, spec DatabaseSpec) (*Result, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	if err := spec.validate(); err != nil {
		return nil, err
	}

	databases, err := r.api.ListDatabases(ctx)
	if err != nil {
		return nil, err
	}
	existing := findByFields(databases, spec.UUID, spec.Name, "")
	label := displayName(spec.Name, spec.UUID)

	result := &Result{}
	switch spec.State {
	case StatePresent:
		if existing != nil {
			result.Resource = existing
			result.UUID = stringValue(existing, "uuid")
			result.Msg = "Database '" + label + "' already exists"
			return result, nil
		}
		if strings.TrimSpace(spec.Type) == "" {
			return nil, faults.NewTypedError(faults.ValidationError,
				"database type is required when creating a new database", nil)
		}
		if strings.TrimSpace(spec.ProjectUUID) == "" {
			return nil, faults.NewTypedError(faults.ValidationError,
				"project uuid is required when creating a new database", nil)
		}
		if strings.TrimSpace(spec.ServerUUID) == "" {
			return nil, faults.NewTypedError(faults.ValidationError,
				"server uuid is required when creating a new database", nil)
		}
		if r.check {
			result.Changed = true
			result.Msg = "Would create database '" + spec.Name + "'"
			return result, nil
		}
		created, err := r.api.CreateDatabase(ctx, spec.Type, spec.createParams())
		if err != nil {
			return nil, err
		}
		result.Resource = created
		result.UUID = stringValue(created, "uuid")
		result.Changed = true
		result.Msg = "Database '" + spec.Name + "' created"
		return result, nil

	case StateAbsent:
		if existing == nil {
			result.Msg = "Database '" + label + "' does not exist"
			return result, nil
		}
		if r.check {
			result.Changed = true
			result.Msg = "Would delete database '" + label + "'"
			return result, nil
		}
		if _, err := r.api.DeleteDatabase(ctx, stringValue(existing, "uuid"), spec.DeleteConfigurations, spec.DeleteVolumes); err != nil {
			return nil, err
		}
		result.Changed = true
		result.Msg = "Database '" + label + "' deleted"
		return result, nil

	default:
		if existing == nil {
			return nil, faults.NewTypedError(faults.ValidationError, "database '"+label+"' not found", nil)
		}
		result.Resource = existing
		result.UUID = stringValue(existing, "uuid")
		if r.check {
			result.Changed = true
			switch spec.State {
			case StateStarted:
				result.Msg = "Would start database '" + label + "'"
			case StateStopped:
				result.Msg = "Would stop database '" + label + "'"
			case StateRestarted:
				result.Msg = "Would restart database '" + label + "'"
			}
			return result, nil
		}
		switch spec.State {
		case StateStarted:
			if _, err := r.api.StartDatabase(ctx, result.UUID); err != nil {
				return nil, err
			}
			result.Msg = "Database '" + label + "' started"
		case StateStopped:
			if _, err := r.api.StopDatabase(ctx, result.UUID); err != nil {
				return nil, err
			}
			result.Msg = "Database '" + label + "' stopped"
		case StateRestarted:
			if _, err := r.api.RestartDatabase(ctx, result.UUID); err != nil {
				return nil, err
			}
			result.Msg = "Database '" + label + "' restarted"
		}
		result.Changed = true
		return result, nil
	}
}

func (s *DatabaseSpec) createParams() map[string]any {
	params := map[string]any{
		"name":         s.Name,
		"project_uuid": s.ProjectUUID,
		"server_uuid":  s.ServerUUID,
	}
	setIfNotEmpty(params, "description", s.Description)
	setIfNotEmpty(params, "environment_name", s.EnvironmentName)
	setIfNotEmpty(params, "environment_uuid", s.EnvironmentUUID)
	setIfNotEmpty(params, "image", s.Image)
	if s.IsPublic {
		params["is_public"] = true
		if s.PublicPort > 0 {
			params["public_port"] = s.PublicPort
		}
	}
	setIfNotEmpty(params, "postgres_user", s.PostgresUser)
	setIfNotEmpty(params, "postgres_password", s.PostgresPassword)
	setIfNotEmpty(params, "postgres_db", s.PostgresDB)
	setIfNotEmpty(params, "mysql_root_password", s.MySQLRootPassword)
	setIfNotEmpty(params, "mysql_user", s.MySQLUser)
	setIfNotEmpty(params, "mysql_password", s.MySQLPassword)
	setIfNotEmpty(params, "mysql_database", s.MySQLDatabase)
	setIfNotEmpty(params, "redis_password", s.RedisPassword)
	setIfNotEmpty(params, "mongo_initdb_root_username", s.MongoInitdbRootUsername)
	setIfNotEmpty(params, "mongo_initdb_root_password", s.MongoInitdbRootPassword)
	setIfNotEmpty(params, "limits_memory", s.LimitsMemory)
	setIfNotEmpty(params, "limits_cpus", s.LimitsCPUs)
	return params
}
