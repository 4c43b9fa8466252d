package reconcile

import (
	"context"
	"testing"

	"github.com/host-uk/coolifyctl/faults"
)

func TestApplicationPresentCreates(t *testing.T) {
	t.Parallel()

	r, platform := newTestReconciler(t, false)
	spec := ApplicationSpec{
		State:         StatePresent,
		Name:          "web",
		Type:          "public",
		ProjectUUID:   "prj-1",
		ServerUUID:    "srv-1",
		GitRepository: "https://github.com/example/web",
		GitBranch:     "main",
		InstantDeploy: true,
	}

	created, err := r.Application(context.Background(), spec)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !created.Changed || created.Msg != "Application 'web' created" {
		t.Fatalf("unexpected result %+v", created)
	}

	again, err := r.Application(context.Background(), spec)
	if err != nil {
		t.Fatalf("second reconcile: %v", err)
	}
	if again.Changed {
		t.Fatalf("second reconcile must be idempotent, got %q", again.Msg)
	}
	if got := platform.Mutations(); got != 1 {
		t.Fatalf("expected exactly one mutating call, got %d", got)
	}
}

func TestApplicationPresentRequiresCreateFields(t *testing.T) {
	t.Parallel()

	r, _ := newTestReconciler(t, false)
	cases := []ApplicationSpec{
		{State: StatePresent, Name: "web"},
		{State: StatePresent, Name: "web", Type: "public"},
		{State: StatePresent, Name: "web", Type: "public", ProjectUUID: "prj-1"},
	}
	for _, spec := range cases {
		if _, err := r.Application(context.Background(), spec); !faults.IsCategory(err, faults.ValidationError) {
			t.Fatalf("spec %+v: expected validation error, got %v", spec, err)
		}
	}
}

func TestApplicationNameMatchNarrowedByEnvironment(t *testing.T) {
	t.Parallel()

	apps := []map[string]any{
		{"uuid": "app-1", "name": "web", "project_uuid": "prj-1", "environment": map[string]any{"name": "production"}},
		{"uuid": "app-2", "name": "web", "project_uuid": "prj-1", "environment": map[string]any{"name": "staging"}},
	}
	match := findApplication(apps, ApplicationSpec{Name: "web", ProjectUUID: "prj-1", EnvironmentName: "staging"})
	if match == nil || match["uuid"] != "app-2" {
		t.Fatalf("expected the staging application, got %+v", match)
	}
	if findApplication(apps, ApplicationSpec{Name: "web", ProjectUUID: "prj-2"}) != nil {
		t.Fatalf("project mismatch must not match")
	}
	if got := findApplication(apps, ApplicationSpec{UUID: "app-1"}); got == nil || got["uuid"] != "app-1" {
		t.Fatalf("uuid match must win, got %+v", got)
	}
}

func TestApplicationDeployed(t *testing.T) {
	t.Parallel()

	r, _ := newTestReconciler(t, false)
	if _, err := r.Application(context.Background(), ApplicationSpec{
		State:       StatePresent,
		Name:        "web",
		Type:        "public",
		ProjectUUID: "prj-1",
		ServerUUID:  "srv-1",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	result, err := r.Application(context.Background(), ApplicationSpec{State: StateDeployed, Name: "web"})
	if err != nil {
		t.Fatalf("deploy: %v", err)
	}
	if !result.Changed || result.Msg != "Application 'web' deployment triggered" {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.DeploymentUUID == "" {
		t.Fatalf("expected deployment uuid from the deploy response")
	}
}

func TestApplicationVerbCheckModeDoesNotMutate(t *testing.T) {
	t.Parallel()

	r, platform := newTestReconciler(t, false)
	if _, err := r.Application(context.Background(), ApplicationSpec{
		State:       StatePresent,
		Name:        "web",
		Type:        "public",
		ProjectUUID: "prj-1",
		ServerUUID:  "srv-1",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	mutations := platform.Mutations()

	dry := New(r.api, true)
	result, err := dry.Application(context.Background(), ApplicationSpec{State: StateRestarted, Name: "web"})
	if err != nil {
		t.Fatalf("dry restart: %v", err)
	}
	if !result.Changed || result.Msg != "Would restart application 'web'" {
		t.Fatalf("unexpected result %+v", result)
	}
	if got := platform.Mutations(); got != mutations {
		t.Fatalf("check mode issued mutating calls: %d -> %d", mutations, got)
	}
}

func TestApplicationVerbOnMissingFails(t *testing.T) {
	t.Parallel()

	r, _ := newTestReconciler(t, false)
	_, err := r.Application(context.Background(), ApplicationSpec{State: StateStarted, Name: "ghost"})
	if !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestApplicationAbsentByUUID(t *testing.T) {
	t.Parallel()

	r, _ := newTestReconciler(t, false)
	created, err := r.Application(context.Background(), ApplicationSpec{
		State:       StatePresent,
		Name:        "web",
		Type:        "public",
		ProjectUUID: "prj-1",
		ServerUUID:  "srv-1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	result, err := r.Application(context.Background(), ApplicationSpec{
		State:                StateAbsent,
		UUID:                 created.UUID,
		DeleteConfigurations: true,
		DeleteVolumes:        true,
	})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !result.Changed || result.Msg != "Application '"+created.UUID+"' deleted" {
		t.Fatalf("unexpected result %+v", result)
	}
}
