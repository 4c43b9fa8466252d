package reconcile

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/host-uk/coolifyctl/client"
	"github.com/host-uk/coolifyctl/openapi"
)

const reconcileSpecYAML = `
openapi: 3.0.0
paths:
  /servers:
    get:
      operationId: list-servers
    post:
      operationId: create-server
      requestBody:
        content:
          application/json:
            schema:
              type: object
  /servers/{uuid}:
    parameters:
      - name: uuid
        in: path
        required: true
        schema:
          type: string
    delete:
      operationId: delete-server-by-uuid
  /servers/{uuid}/validate:
    get:
      operationId: validate-server-by-uuid
      parameters:
        - name: uuid
          in: path
          required: true
          schema:
            type: string
  /projects:
    get:
      operationId: list-projects
    post:
      operationId: create-project
      requestBody:
        content:
          application/json:
            schema:
              type: object
  /projects/{uuid}:
    parameters:
      - name: uuid
        in: path
        required: true
        schema:
          type: string
    patch:
      operationId: update-project-by-uuid
      requestBody:
        content:
          application/json:
            schema:
              type: object
    delete:
      operationId: delete-project-by-uuid
  /projects/{uuid}/environments:
    parameters:
      - name: uuid
        in: path
        required: true
        schema:
          type: string
    get:
      operationId: get-environments
    post:
      operationId: create-environment
      requestBody:
        content:
          application/json:
            schema:
              type: object
  /projects/{uuid}/environments/{environment_name_or_uuid}:
    parameters:
      - name: uuid
        in: path
        required: true
        schema:
          type: string
      - name: environment_name_or_uuid
        in: path
        required: true
        schema:
          type: string
    delete:
      operationId: delete-environment
  /security/keys:
    get:
      operationId: list-private-keys
    post:
      operationId: create-private-key
      requestBody:
        content:
          application/json:
            schema:
              type: object
  /security/keys/{uuid}:
    parameters:
      - name: uuid
        in: path
        required: true
        schema:
          type: string
    patch:
      operationId: update-private-key
      requestBody:
        content:
          application/json:
            schema:
              type: object
    delete:
      operationId: delete-private-key-by-uuid
  /applications:
    get:
      operationId: list-applications
  /applications/public:
    post:
      operationId: create-public-application
      requestBody:
        content:
          application/json:
            schema:
              type: object
  /applications/{uuid}:
    parameters:
      - name: uuid
        in: path
        required: true
        schema:
          type: string
    delete:
      operationId: delete-application-by-uuid
      parameters:
        - name: delete_configurations
          in: query
          schema:
            type: boolean
        - name: delete_volumes
          in: query
          schema:
            type: boolean
  /applications/{uuid}/start:
    post:
      operationId: start-application-by-uuid
      parameters:
        - name: uuid
          in: path
          required: true
          schema:
            type: string
  /applications/{uuid}/stop:
    post:
      operationId: stop-application-by-uuid
      parameters:
        - name: uuid
          in: path
          required: true
          schema:
            type: string
  /applications/{uuid}/restart:
    post:
      operationId: restart-application-by-uuid
      parameters:
        - name: uuid
          in: path
          required: true
          schema:
            type: string
  /deploy:
    post:
      operationId: deploy-by-tag-or-uuid
      parameters:
        - name: uuid
          in: query
          schema:
            type: string
        - name: tag
          in: query
          schema:
            type: string
        - name: force
          in: query
          schema:
            type: boolean
  /databases:
    get:
      operationId: list-databases
  /databases/postgresql:
    post:
      operationId: create-database-postgresql
      requestBody:
        content:
          application/json:
            schema:
              type: object
  /databases/{uuid}:
    parameters:
      - name: uuid
        in: path
        required: true
        schema:
          type: string
    delete:
      operationId: delete-database-by-uuid
      parameters:
        - name: delete_configurations
          in: query
          schema:
            type: boolean
        - name: delete_volumes
          in: query
          schema:
            type: boolean
  /databases/{uuid}/stop:
    post:
      operationId: stop-database-by-uuid
      parameters:
        - name: uuid
          in: path
          required: true
          schema:
            type: string
  /databases/{uuid}/start:
    post:
      operationId: start-database-by-uuid
      parameters:
        - name: uuid
          in: path
          required: true
          schema:
            type: string
  /databases/{uuid}/restart:
    post:
      operationId: restart-database-by-uuid
      parameters:
        - name: uuid
          in: path
          required: true
          schema:
            type: string
  /services:
    get:
      operationId: list-services
    post:
      operationId: create-service
      requestBody:
        content:
          application/json:
            schema:
              type: object
  /services/{uuid}:
    parameters:
      - name: uuid
        in: path
        required: true
        schema:
          type: string
    delete:
      operationId: delete-service-by-uuid
      parameters:
        - name: delete_configurations
          in: query
          schema:
            type: boolean
        - name: delete_volumes
          in: query
          schema:
            type: boolean
  /services/{uuid}/start:
    post:
      operationId: start-service-by-uuid
      parameters:
        - name: uuid
          in: path
          required: true
          schema:
            type: string
  /services/{uuid}/stop:
    post:
      operationId: stop-service-by-uuid
      parameters:
        - name: uuid
          in: path
          required: true
          schema:
            type: string
  /services/{uuid}/restart:
    post:
      operationId: restart-service-by-uuid
      parameters:
        - name: uuid
          in: path
          required: true
          schema:
            type: string
  /health:
    get:
      operationId: healthcheck
`

// fakePlatform is an in-memory stand-in for the remote API. Every non-GET
// request bumps the mutation counter so tests can assert zero-mutation
// guarantees.
type fakePlatform struct {
	mu           sync.Mutex
	servers      []map[string]any
	projects     []map[string]any
	environments map[string][]map[string]any
	keys         []map[string]any
	applications []map[string]any
	databases    []map[string]any
	services     []map[string]any
	mutations    int
	nextID       int
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{environments: make(map[string][]map[string]any)}
}

func (f *fakePlatform) Mutations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mutations
}

func (f *fakePlatform) newUUID(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakePlatform) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		if r.Method != http.MethodGet {
			f.mutations++
		}

		var body map[string]any
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&body)
		}

		segments := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		switch {
		case matches(segments, "servers") && r.Method == http.MethodGet:
			writeJSON(w, f.servers)
		case matches(segments, "servers") && r.Method == http.MethodPost:
			entry := withDefaults(body, map[string]any{"uuid": f.newUUID("srv")})
			f.servers = append(f.servers, entry)
			writeJSON(w, entry)
		case matches(segments, "servers", "*") && r.Method == http.MethodDelete:
			f.servers = removeByUUID(f.servers, segments[1])
			writeJSON(w, map[string]any{"message": "deleted"})
		case matches(segments, "servers", "*", "validate") && r.Method == http.MethodGet:
			writeJSON(w, map[string]any{"message": "validation started", "uuid": segments[1]})

		case matches(segments, "projects") && r.Method == http.MethodGet:
			writeJSON(w, f.projects)
		case matches(segments, "projects") && r.Method == http.MethodPost:
			entry := withDefaults(body, map[string]any{"uuid": f.newUUID("prj")})
			f.projects = append(f.projects, entry)
			writeJSON(w, entry)
		case matches(segments, "projects", "*") && r.Method == http.MethodPatch:
			for _, project := range f.projects {
				if project["uuid"] == segments[1] {
					for key, value := range body {
						project[key] = value
					}
					writeJSON(w, project)
					return
				}
			}
			http.NotFound(w, r)
		case matches(segments, "projects", "*") && r.Method == http.MethodDelete:
			f.projects = removeByUUID(f.projects, segments[1])
			writeJSON(w, map[string]any{"message": "deleted"})
		case matches(segments, "projects", "*", "environments") && r.Method == http.MethodGet:
			envs := f.environments[segments[1]]
			if envs == nil {
				envs = []map[string]any{}
			}
			writeJSON(w, envs)
		case matches(segments, "projects", "*", "environments") && r.Method == http.MethodPost:
			entry := withDefaults(body, map[string]any{"uuid": f.newUUID("env")})
			f.environments[segments[1]] = append(f.environments[segments[1]], entry)
			writeJSON(w, entry)
		case matches(segments, "projects", "*", "environments", "*") && r.Method == http.MethodDelete:
			f.environments[segments[1]] = removeByName(f.environments[segments[1]], segments[3])
			writeJSON(w, map[string]any{"message": "deleted"})

		case matches(segments, "security", "keys") && r.Method == http.MethodGet:
			writeJSON(w, f.keys)
		case matches(segments, "security", "keys") && r.Method == http.MethodPost:
			entry := withDefaults(body, map[string]any{"uuid": f.newUUID("key")})
			f.keys = append(f.keys, entry)
			writeJSON(w, entry)
		case matches(segments, "security", "keys", "*") && r.Method == http.MethodPatch:
			for _, key := range f.keys {
				if key["uuid"] == segments[2] {
					for field, value := range body {
						key[field] = value
					}
					writeJSON(w, key)
					return
				}
			}
			http.NotFound(w, r)
		case matches(segments, "security", "keys", "*") && r.Method == http.MethodDelete:
			f.keys = removeByUUID(f.keys, segments[2])
			writeJSON(w, map[string]any{"message": "deleted"})

		case matches(segments, "applications") && r.Method == http.MethodGet:
			writeJSON(w, f.applications)
		case matches(segments, "applications", "public") && r.Method == http.MethodPost:
			entry := withDefaults(body, map[string]any{"uuid": f.newUUID("app")})
			f.applications = append(f.applications, entry)
			writeJSON(w, entry)
		case matches(segments, "applications", "*") && r.Method == http.MethodDelete:
			f.applications = removeByUUID(f.applications, segments[1])
			writeJSON(w, map[string]any{"message": "deleted"})
		case matches(segments, "applications", "*", "start") && r.Method == http.MethodPost:
			writeJSON(w, map[string]any{"message": "started"})
		case matches(segments, "applications", "*", "stop") && r.Method == http.MethodPost:
			writeJSON(w, map[string]any{"message": "stopped"})
		case matches(segments, "applications", "*", "restart") && r.Method == http.MethodPost:
			writeJSON(w, map[string]any{"message": "restarted"})
		case matches(segments, "deploy") && r.Method == http.MethodPost:
			writeJSON(w, map[string]any{"deployment_uuid": f.newUUID("dep")})

		case matches(segments, "databases") && r.Method == http.MethodGet:
			writeJSON(w, f.databases)
		case matches(segments, "databases", "postgresql") && r.Method == http.MethodPost:
			entry := withDefaults(body, map[string]any{"uuid": f.newUUID("db")})
			f.databases = append(f.databases, entry)
			writeJSON(w, entry)
		case matches(segments, "databases", "*") && r.Method == http.MethodDelete:
			f.databases = removeByUUID(f.databases, segments[1])
			writeJSON(w, map[string]any{"message": "deleted"})
		case matches(segments, "databases", "*", "start"),
			matches(segments, "databases", "*", "stop"),
			matches(segments, "databases", "*", "restart"):
			writeJSON(w, map[string]any{"message": segments[2]})

		case matches(segments, "services") && r.Method == http.MethodGet:
			writeJSON(w, f.services)
		case matches(segments, "services") && r.Method == http.MethodPost:
			entry := withDefaults(body, map[string]any{"uuid": f.newUUID("svc")})
			f.services = append(f.services, entry)
			writeJSON(w, entry)
		case matches(segments, "services", "*") && r.Method == http.MethodDelete:
			f.services = removeByUUID(f.services, segments[1])
			writeJSON(w, map[string]any{"message": "deleted"})
		case matches(segments, "services", "*", "start"),
			matches(segments, "services", "*", "stop"),
			matches(segments, "services", "*", "restart"):
			writeJSON(w, map[string]any{"message": segments[2]})

		case matches(segments, "health"):
			writeJSON(w, map[string]any{"status": "ok"})

		default:
			http.NotFound(w, r)
		}
	})
}

func matches(segments []string, pattern ...string) bool {
	if len(segments) != len(pattern) {
		return false
	}
	for idx, expected := range pattern {
		if expected == "*" {
			continue
		}
		if segments[idx] != expected {
			return false
		}
	}
	return true
}

func writeJSON(w http.ResponseWriter, value any) {
	if entries, ok := value.([]map[string]any); ok && entries == nil {
		value = []map[string]any{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(value)
}

func withDefaults(body, defaults map[string]any) map[string]any {
	entry := make(map[string]any, len(body)+len(defaults))
	for key, value := range body {
		entry[key] = value
	}
	for key, value := range defaults {
		entry[key] = value
	}
	return entry
}

func removeByUUID(entries []map[string]any, uuid string) []map[string]any {
	var kept []map[string]any
	for _, entry := range entries {
		if entry["uuid"] != uuid {
			kept = append(kept, entry)
		}
	}
	return kept
}

func removeByName(entries []map[string]any, name string) []map[string]any {
	var kept []map[string]any
	for _, entry := range entries {
		if entry["name"] != name {
			kept = append(kept, entry)
		}
	}
	return kept
}

func newTestReconciler(t *testing.T, check bool) (*Reconciler, *fakePlatform) {
	t.Helper()

	platform := newFakePlatform()
	server := httptest.NewServer(platform.handler())
	t.Cleanup(server.Close)

	doc, err := openapi.LoadDocument([]byte(reconcileSpecYAML))
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	index, err := openapi.BuildIndex(doc)
	if err != nil {
		t.Fatalf("build index: %v", err)
	}
	c, err := client.New(index, client.Options{
		BaseURL: server.URL,
		Token:   "test-token",
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return New(client.NewCoolify(c), check), platform
}
