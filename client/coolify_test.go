package client

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/host-uk/coolifyctl/faults"
)

func TestCoolifyRaisesErrorFlavoredMessages(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"message":"Validation Error: name already taken"}`)
	}))
	coolify := NewCoolify(c)

	_, err := coolify.CreateProject(context.Background(), "demo", "")
	if !faults.IsCategory(err, faults.APIError) {
		t.Fatalf("expected api error for error-flavored message, got %v", err)
	}
	if !strings.Contains(err.Error(), "create-project failed") {
		t.Fatalf("expected operation name in error: %v", err)
	}
}

func TestCoolifyPassesBenignMessages(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"uuid":"p-1","message":"Project created"}`)
	}))
	coolify := NewCoolify(c)

	object, err := coolify.CreateProject(context.Background(), "demo", "a demo project")
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if object["uuid"] != "p-1" {
		t.Fatalf("unexpected payload: %v", object)
	}
}

func TestCoolifyListSkipsResponseCheck(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"uuid":"p-1","name":"alpha"},{"uuid":"p-2","name":"beta"}]`)
	}))
	coolify := NewCoolify(c)

	projects, err := coolify.ListProjects(context.Background())
	if err != nil {
		t.Fatalf("list projects: %v", err)
	}
	if len(projects) != 2 || projects[1]["name"] != "beta" {
		t.Fatalf("unexpected projects: %v", projects)
	}
}

func TestCoolifyRejectsUnknownResourceTypes(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	coolify := NewCoolify(c)

	_, err := coolify.CreateApplication(context.Background(), "ftp", nil)
	if !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected validation error for unknown application type, got %v", err)
	}
	_, err = coolify.CreateDatabase(context.Background(), "oracle", nil)
	if !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected validation error for unknown database type, got %v", err)
	}
	if got := calls.Load(); got != 0 {
		t.Fatalf("type validation must not reach the network, got %d calls", got)
	}
}

func TestResourceTypeCatalogs(t *testing.T) {
	t.Parallel()

	apps := ApplicationTypes()
	if len(apps) != 6 || apps[0] != "dockercompose" {
		t.Fatalf("unexpected application types: %v", apps)
	}
	dbs := DatabaseTypes()
	if len(dbs) != 8 {
		t.Fatalf("unexpected database types: %v", dbs)
	}
	for _, db := range dbs {
		if _, ok := databaseCreateOperations[db]; !ok {
			t.Fatalf("catalog entry %s missing operation mapping", db)
		}
	}
}
