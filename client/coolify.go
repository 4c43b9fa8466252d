package client

import (
	"context"
	"sort"
	"strings"

	"github.com/host-uk/coolifyctl/faults"
)

// Coolify wraps the resolver with one convenience method per remote
// operation. Mutating calls run the decoded payload through an error check:
// a structured response whose message field reads like an error is raised
// as an API error rather than returned.
type Coolify struct {
	client *Client
}

func NewCoolify(client *Client) *Coolify {
	return &Coolify{client: client}
}

// Client returns the underlying resolver client.
func (c *Coolify) Client() *Client {
	if c == nil {
		return nil
	}
	return c.client
}

var applicationCreateOperations = map[string]string{
	"public":             "create-public-application",
	"private-github-app": "create-private-github-app-application",
	"private-deploy-key": "create-private-deploy-key-application",
	"dockerfile":         "create-dockerfile-application",
	"dockerimage":        "create-dockerimage-application",
	"dockercompose":      "create-dockercompose-application",
}

var databaseCreateOperations = map[string]string{
	"postgresql": "create-database-postgresql",
	"mysql":      "create-database-mysql",
	"mariadb":    "create-database-mariadb",
	"mongodb":    "create-database-mongodb",
	"redis":      "create-database-redis",
	"keydb":      "create-database-keydb",
	"dragonfly":  "create-database-dragonfly",
	"clickhouse": "create-database-clickhouse",
}

// ApplicationTypes lists the supported application kinds in sorted order.
func ApplicationTypes() []string {
	return sortedKeys(applicationCreateOperations)
}

// DatabaseTypes lists the supported database engines in sorted order.
func DatabaseTypes() []string {
	return sortedKeys(databaseCreateOperations)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (c *Coolify) call(ctx context.Context, id string, params map[string]any, checkResponse bool) (any, error) {
	if c == nil || c.client == nil {
		return nil, faults.NewTypedError(faults.InternalError, "coolify facade is not initialized", nil)
	}
	value, err := c.client.CallOperation(ctx, id, params)
	if err != nil {
		return nil, err
	}
	if checkResponse {
		if err := checkDecodedResponse(value, id); err != nil {
			return nil, err
		}
	}
	return value, nil
}

// checkDecodedResponse raises when a decoded payload signals a logical
// failure through an error-flavored message field.
func checkDecodedResponse(value any, operation string) error {
	payload, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	message, ok := payload["message"].(string)
	if !ok {
		return nil
	}
	if strings.Contains(strings.ToLower(message), "error") {
		return faults.NewTypedError(faults.APIError, operation+" failed: "+message, nil)
	}
	return nil
}

func (c *Coolify) list(ctx context.Context, id string) ([]map[string]any, error) {
	value, err := c.call(ctx, id, nil, false)
	if err != nil {
		return nil, err
	}
	entries, ok := value.([]any)
	if !ok {
		return nil, faults.NewTypedError(faults.APIError, id+" returned a non-collection payload", nil)
	}
	result := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		if object, ok := entry.(map[string]any); ok {
			result = append(result, object)
		}
	}
	return result, nil
}

func (c *Coolify) object(ctx context.Context, id string, params map[string]any) (map[string]any, error) {
	value, err := c.call(ctx, id, params, true)
	if err != nil {
		return nil, err
	}
	object, _ := value.(map[string]any)
	return object, nil
}

func (c *Coolify) Healthcheck(ctx context.Context) (any, error) {
	return c.call(ctx, "healthcheck", nil, false)
}

func (c *Coolify) Version(ctx context.Context) (any, error) {
	return c.call(ctx, "version", nil, false)
}

func (c *Coolify) ListServers(ctx context.Context) ([]map[string]any, error) {
	return c.list(ctx, "list-servers")
}

func (c *Coolify) GetServer(ctx context.Context, uuid string) (map[string]any, error) {
	return c.object(ctx, "get-server-by-uuid", map[string]any{"uuid": uuid})
}

func (c *Coolify) CreateServer(ctx context.Context, params map[string]any) (map[string]any, error) {
	return c.object(ctx, "create-server", params)
}

func (c *Coolify) UpdateServer(ctx context.Context, uuid string, fields map[string]any) (map[string]any, error) {
	return c.object(ctx, "update-server-by-uuid", withUUID(uuid, fields))
}

func (c *Coolify) DeleteServer(ctx context.Context, uuid string) (map[string]any, error) {
	return c.object(ctx, "delete-server-by-uuid", map[string]any{"uuid": uuid})
}

func (c *Coolify) ValidateServer(ctx context.Context, uuid string) (map[string]any, error) {
	return c.object(ctx, "validate-server-by-uuid", map[string]any{"uuid": uuid})
}

func (c *Coolify) ServerResources(ctx context.Context, uuid string) (any, error) {
	return c.call(ctx, "get-resources-by-server-uuid", map[string]any{"uuid": uuid}, false)
}

func (c *Coolify) ServerDomains(ctx context.Context, uuid string) (any, error) {
	return c.call(ctx, "get-domains-by-server-uuid", map[string]any{"uuid": uuid}, false)
}

func (c *Coolify) ListPrivateKeys(ctx context.Context) ([]map[string]any, error) {
	return c.list(ctx, "list-private-keys")
}

func (c *Coolify) GetPrivateKey(ctx context.Context, uuid string) (map[string]any, error) {
	return c.object(ctx, "get-private-key-by-uuid", map[string]any{"uuid": uuid})
}

func (c *Coolify) CreatePrivateKey(ctx context.Context, params map[string]any) (map[string]any, error) {
	return c.object(ctx, "create-private-key", params)
}

func (c *Coolify) UpdatePrivateKey(ctx context.Context, uuid string, fields map[string]any) (map[string]any, error) {
	return c.object(ctx, "update-private-key", withUUID(uuid, fields))
}

func (c *Coolify) DeletePrivateKey(ctx context.Context, uuid string) (map[string]any, error) {
	return c.object(ctx, "delete-private-key-by-uuid", map[string]any{"uuid": uuid})
}

func (c *Coolify) ListProjects(ctx context.Context) ([]map[string]any, error) {
	return c.list(ctx, "list-projects")
}

func (c *Coolify) GetProject(ctx context.Context, uuid string) (map[string]any, error) {
	return c.object(ctx, "get-project-by-uuid", map[string]any{"uuid": uuid})
}

func (c *Coolify) CreateProject(ctx context.Context, name, description string) (map[string]any, error) {
	params := map[string]any{"name": name}
	if description != "" {
		params["description"] = description
	}
	return c.object(ctx, "create-project", params)
}

func (c *Coolify) UpdateProject(ctx context.Context, uuid string, fields map[string]any) (map[string]any, error) {
	return c.object(ctx, "update-project-by-uuid", withUUID(uuid, fields))
}

func (c *Coolify) DeleteProject(ctx context.Context, uuid string) (map[string]any, error) {
	return c.object(ctx, "delete-project-by-uuid", map[string]any{"uuid": uuid})
}

func (c *Coolify) Environments(ctx context.Context, projectUUID string) ([]map[string]any, error) {
	value, err := c.call(ctx, "get-environments", map[string]any{"uuid": projectUUID}, false)
	if err != nil {
		return nil, err
	}
	entries, ok := value.([]any)
	if !ok {
		return nil, nil
	}
	result := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		if object, ok := entry.(map[string]any); ok {
			result = append(result, object)
		}
	}
	return result, nil
}

func (c *Coolify) GetEnvironment(ctx context.Context, projectUUID, nameOrUUID string) (map[string]any, error) {
	return c.object(ctx, "get-environment-by-name-or-uuid", map[string]any{
		"uuid":                     projectUUID,
		"environment_name_or_uuid": nameOrUUID,
	})
}

func (c *Coolify) CreateEnvironment(ctx context.Context, projectUUID, name, description string) (map[string]any, error) {
	params := map[string]any{"uuid": projectUUID, "name": name}
	if description != "" {
		params["description"] = description
	}
	return c.object(ctx, "create-environment", params)
}

func (c *Coolify) DeleteEnvironment(ctx context.Context, projectUUID, nameOrUUID string) (map[string]any, error) {
	return c.object(ctx, "delete-environment", map[string]any{
		"uuid":                     projectUUID,
		"environment_name_or_uuid": nameOrUUID,
	})
}

func (c *Coolify) CurrentTeam(ctx context.Context) (any, error) {
	return c.call(ctx, "get-current-team", nil, false)
}

func (c *Coolify) CurrentTeamMembers(ctx context.Context) (any, error) {
	return c.call(ctx, "get-current-team-members", nil, false)
}

func (c *Coolify) ListTeams(ctx context.Context) ([]map[string]any, error) {
	return c.list(ctx, "list-teams")
}

func (c *Coolify) GetTeam(ctx context.Context, id any) (map[string]any, error) {
	return c.object(ctx, "get-team-by-id", map[string]any{"id": id})
}

func (c *Coolify) TeamMembers(ctx context.Context, id any) (any, error) {
	return c.call(ctx, "get-members-by-team-id", map[string]any{"id": id}, false)
}

func (c *Coolify) ListApplications(ctx context.Context) ([]map[string]any, error) {
	return c.list(ctx, "list-applications")
}

func (c *Coolify) GetApplication(ctx context.Context, uuid string) (map[string]any, error) {
	return c.object(ctx, "get-application-by-uuid", map[string]any{"uuid": uuid})
}

func (c *Coolify) CreateApplication(ctx context.Context, appType string, params map[string]any) (map[string]any, error) {
	id, ok := applicationCreateOperations[strings.TrimSpace(appType)]
	if !ok {
		return nil, faults.NewTypedError(faults.ValidationError,
			"unknown application type "+appType+" (expected one of "+strings.Join(ApplicationTypes(), ", ")+")", nil)
	}
	return c.object(ctx, id, params)
}

func (c *Coolify) UpdateApplication(ctx context.Context, uuid string, fields map[string]any) (map[string]any, error) {
	return c.object(ctx, "update-application-by-uuid", withUUID(uuid, fields))
}

func (c *Coolify) DeleteApplication(ctx context.Context, uuid string, deleteConfigurations, deleteVolumes bool) (map[string]any, error) {
	return c.object(ctx, "delete-application-by-uuid", map[string]any{
		"uuid":                  uuid,
		"delete_configurations": deleteConfigurations,
		"delete_volumes":        deleteVolumes,
	})
}

func (c *Coolify) StartApplication(ctx context.Context, uuid string) (map[string]any, error) {
	return c.object(ctx, "start-application-by-uuid", map[string]any{"uuid": uuid})
}

func (c *Coolify) StopApplication(ctx context.Context, uuid string) (map[string]any, error) {
	return c.object(ctx, "stop-application-by-uuid", map[string]any{"uuid": uuid})
}

func (c *Coolify) RestartApplication(ctx context.Context, uuid string) (map[string]any, error) {
	return c.object(ctx, "restart-application-by-uuid", map[string]any{"uuid": uuid})
}

func (c *Coolify) ApplicationLogs(ctx context.Context, uuid string) (any, error) {
	return c.call(ctx, "get-application-logs-by-uuid", map[string]any{"uuid": uuid}, false)
}

func (c *Coolify) ListApplicationEnvs(ctx context.Context, uuid string) ([]map[string]any, error) {
	value, err := c.call(ctx, "list-envs-by-application-uuid", map[string]any{"uuid": uuid}, false)
	if err != nil {
		return nil, err
	}
	entries, _ := value.([]any)
	result := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		if object, ok := entry.(map[string]any); ok {
			result = append(result, object)
		}
	}
	return result, nil
}

func (c *Coolify) CreateApplicationEnv(ctx context.Context, uuid, key, value string, isPreview, isBuildTime bool) (map[string]any, error) {
	return c.object(ctx, "create-env-by-application-uuid", map[string]any{
		"uuid":          uuid,
		"key":           key,
		"value":         value,
		"is_preview":    isPreview,
		"is_build_time": isBuildTime,
	})
}

func (c *Coolify) UpdateApplicationEnvs(ctx context.Context, uuid string, envs []map[string]any) (map[string]any, error) {
	return c.object(ctx, "update-envs-by-application-uuid", map[string]any{
		"uuid": uuid,
		"data": envs,
	})
}

func (c *Coolify) DeleteApplicationEnv(ctx context.Context, uuid, envUUID string) (map[string]any, error) {
	return c.object(ctx, "delete-env-by-application-uuid", map[string]any{
		"uuid":     uuid,
		"env_uuid": envUUID,
	})
}

func (c *Coolify) ListServices(ctx context.Context) ([]map[string]any, error) {
	return c.list(ctx, "list-services")
}

func (c *Coolify) GetService(ctx context.Context, uuid string) (map[string]any, error) {
	return c.object(ctx, "get-service-by-uuid", map[string]any{"uuid": uuid})
}

func (c *Coolify) CreateService(ctx context.Context, params map[string]any) (map[string]any, error) {
	return c.object(ctx, "create-service", params)
}

func (c *Coolify) UpdateService(ctx context.Context, uuid string, fields map[string]any) (map[string]any, error) {
	return c.object(ctx, "update-service-by-uuid", withUUID(uuid, fields))
}

func (c *Coolify) DeleteService(ctx context.Context, uuid string, deleteConfigurations, deleteVolumes bool) (map[string]any, error) {
	return c.object(ctx, "delete-service-by-uuid", map[string]any{
		"uuid":                  uuid,
		"delete_configurations": deleteConfigurations,
		"delete_volumes":        deleteVolumes,
	})
}

func (c *Coolify) StartService(ctx context.Context, uuid string) (map[string]any, error) {
	return c.object(ctx, "start-service-by-uuid", map[string]any{"uuid": uuid})
}

func (c *Coolify) StopService(ctx context.Context, uuid string) (map[string]any, error) {
	return c.object(ctx, "stop-service-by-uuid", map[string]any{"uuid": uuid})
}

func (c *Coolify) RestartService(ctx context.Context, uuid string) (map[string]any, error) {
	return c.object(ctx, "restart-service-by-uuid", map[string]any{"uuid": uuid})
}

func (c *Coolify) ListDatabases(ctx context.Context) ([]map[string]any, error) {
	return c.list(ctx, "list-databases")
}

func (c *Coolify) GetDatabase(ctx context.Context, uuid string) (map[string]any, error) {
	return c.object(ctx, "get-database-by-uuid", map[string]any{"uuid": uuid})
}

func (c *Coolify) CreateDatabase(ctx context.Context, dbType string, params map[string]any) (map[string]any, error) {
	id, ok := databaseCreateOperations[strings.TrimSpace(dbType)]
	if !ok {
		return nil, faults.NewTypedError(faults.ValidationError,
			"unknown database type "+dbType+" (expected one of "+strings.Join(DatabaseTypes(), ", ")+")", nil)
	}
	return c.object(ctx, id, params)
}

func (c *Coolify) UpdateDatabase(ctx context.Context, uuid string, fields map[string]any) (map[string]any, error) {
	return c.object(ctx, "update-database-by-uuid", withUUID(uuid, fields))
}

func (c *Coolify) DeleteDatabase(ctx context.Context, uuid string, deleteConfigurations, deleteVolumes bool) (map[string]any, error) {
	return c.object(ctx, "delete-database-by-uuid", map[string]any{
		"uuid":                  uuid,
		"delete_configurations": deleteConfigurations,
		"delete_volumes":        deleteVolumes,
	})
}

func (c *Coolify) StartDatabase(ctx context.Context, uuid string) (map[string]any, error) {
	return c.object(ctx, "start-database-by-uuid", map[string]any{"uuid": uuid})
}

func (c *Coolify) StopDatabase(ctx context.Context, uuid string) (map[string]any, error) {
	return c.object(ctx, "stop-database-by-uuid", map[string]any{"uuid": uuid})
}

func (c *Coolify) RestartDatabase(ctx context.Context, uuid string) (map[string]any, error) {
	return c.object(ctx, "restart-database-by-uuid", map[string]any{"uuid": uuid})
}

func (c *Coolify) ListDeployments(ctx context.Context) ([]map[string]any, error) {
	return c.list(ctx, "list-deployments")
}

func (c *Coolify) ApplicationDeployments(ctx context.Context, uuid string) (any, error) {
	return c.call(ctx, "list-deployments-by-app-uuid", map[string]any{"uuid": uuid}, false)
}

func (c *Coolify) GetDeployment(ctx context.Context, uuid string) (map[string]any, error) {
	return c.object(ctx, "get-deployment-by-uuid", map[string]any{"uuid": uuid})
}

// Deploy triggers a deployment by resource uuid or tag.
func (c *Coolify) Deploy(ctx context.Context, uuid, tag string, force bool) (map[string]any, error) {
	params := map[string]any{}
	if uuid != "" {
		params["uuid"] = uuid
	}
	if tag != "" {
		params["tag"] = tag
	}
	if force {
		params["force"] = true
	}
	return c.object(ctx, "deploy-by-tag-or-uuid", params)
}

func (c *Coolify) CancelDeployment(ctx context.Context, uuid string) (map[string]any, error) {
	return c.object(ctx, "cancel-deployment-by-uuid", map[string]any{"uuid": uuid})
}

func (c *Coolify) ListResources(ctx context.Context) (any, error) {
	return c.call(ctx, "list-resources", nil, false)
}

// CallOperation exposes the generic passthrough surface.
func (c *Coolify) CallOperation(ctx context.Context, id string, params map[string]any) (any, error) {
	return c.call(ctx, id, params, false)
}

func withUUID(uuid string, fields map[string]any) map[string]any {
	params := make(map[string]any, len(fields)+1)
	for key, value := range fields {
		params[key] = value
	}
	params["uuid"] = uuid
	return params
}
