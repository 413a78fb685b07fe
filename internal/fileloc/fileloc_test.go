package fileloc

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rigforge/rigctl/internal/config"
	rigerrors "github.com/rigforge/rigctl/internal/errors"
	"github.com/rigforge/rigctl/internal/reconcile"
	"github.com/rigforge/rigctl/internal/system"
)

func newReconciler(cfg *config.FileLocations, env map[string]string) (*Reconciler, *system.MockFS, *system.MockExecutor, *system.MockEnv) {
	fs := system.NewMockFS()
	exec := system.NewMockExecutor()
	mockEnv := system.NewMockEnv(env)

	r := &Reconciler{
		Config: cfg,
		FS:     fs,
		Exec:   exec,
		Env:    mockEnv,
		Expand: config.Expander{Env: mockEnv},
	}
	return r, fs, exec, mockEnv
}

func TestPlan_EmptyFilesystem(t *testing.T) {
	// End-to-end scenario: bare config, nothing on disk.
	r, _, _, _ := newReconciler(&config.FileLocations{
		DevelopmentRoot: "/work/dev",
		DefaultFolders:  []string{"Projects"},
	}, nil)

	plan, err := r.Plan(r.Probe(context.Background()))
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	want := []string{
		"Create developmentRoot directory: /work/dev",
		"Create directory: /work/dev/Projects",
		"Set DEV_HOME=/work/dev",
	}
	if diff := cmp.Diff(want, plan.Descriptions()); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}
}

func TestApply_ThenSecondPlanIsEmpty(t *testing.T) {
	r, fs, exec, env := newReconciler(&config.FileLocations{
		DevelopmentRoot: "/work/dev",
		DefaultFolders:  []string{"Projects"},
	}, nil)

	ctx := context.Background()
	plan, err := r.Plan(r.Probe(ctx))
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	result := reconcile.Apply(ctx, plan)
	if !result.Ok() {
		t.Fatalf("apply failed: %+v", result.Failures)
	}

	if !fs.IsDir("/work/dev") || !fs.IsDir("/work/dev/Projects") {
		t.Error("directories should exist after apply")
	}
	if env.Get(EnvDevHome) != "/work/dev" {
		t.Errorf("process env not updated: %q", env.Get(EnvDevHome))
	}

	// The variable is persisted through setx, not just the process env.
	lines := exec.CommandLines()
	if len(lines) != 1 || lines[0] != "setx DEV_HOME /work/dev" {
		t.Errorf("expected one setx invocation, got %v", lines)
	}

	// Idempotence: re-probing the corrected state yields an empty plan.
	plan2, err := r.Plan(r.Probe(ctx))
	if err != nil {
		t.Fatalf("second Plan failed: %v", err)
	}
	if len(plan2) != 0 {
		t.Errorf("second plan should be empty, got %v", plan2.Descriptions())
	}
}

func TestPlan_PathNormalization(t *testing.T) {
	// DEV_HOME holds an unexpanded spelling of the configured root; the
	// comparison runs on expanded values, so no change is planned.
	r, fs, _, _ := newReconciler(&config.FileLocations{
		DevelopmentRoot: "$ROOT/dev",
	}, map[string]string{
		"ROOT":     "/work",
		"DEV_HOME": "$ROOT/dev/",
	})
	fs.AddDir("/work/dev")

	plan, err := r.Plan(r.Probe(context.Background()))
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if len(plan) != 0 {
		t.Errorf("equivalent paths should need no change, got %v", plan.Descriptions())
	}
}

func TestPlan_AllRootsAndProjectsHome(t *testing.T) {
	r, fs, _, _ := newReconciler(&config.FileLocations{
		DevelopmentRoot: "/work/dev",
		ProjectsRoot:    "/work/dev/projects",
		GitHubRoot:      "/work/dev/github",
	}, map[string]string{"DEV_HOME": "/work/dev"})
	fs.AddDir("/work/dev")

	plan, err := r.Plan(r.Probe(context.Background()))
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	want := []string{
		"Create projectsRoot directory: /work/dev/projects",
		"Create githubRoot directory: /work/dev/github",
		"Set PROJECTS_HOME=/work/dev/projects",
	}
	if diff := cmp.Diff(want, plan.Descriptions()); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}
}

func TestPlan_MissingDevelopmentRoot(t *testing.T) {
	r, _, _, _ := newReconciler(&config.FileLocations{
		DevelopmentRoot: "%UNSET_ROOT%",
	}, nil)

	plan, err := r.Plan(r.Probe(context.Background()))
	if err == nil {
		t.Fatal("expected plan error for empty expanded root")
	}
	if rigerrors.KindOf(err) != rigerrors.KindPlan {
		t.Errorf("kind = %q", rigerrors.KindOf(err))
	}
	if len(plan) != 0 {
		t.Errorf("plan should be empty, got %v", plan.Descriptions())
	}
}

func TestPlan_NilConfigSkipsDomain(t *testing.T) {
	r, _, _, _ := newReconciler(nil, nil)

	plan, err := r.Plan(r.Probe(context.Background()))
	if err != nil || plan != nil {
		t.Errorf("nil config should produce nothing: plan=%v err=%v", plan, err)
	}
}

func TestProbe_IsReadOnly(t *testing.T) {
	r, _, exec, _ := newReconciler(&config.FileLocations{
		DevelopmentRoot: "/work/dev",
		DefaultFolders:  []string{"Projects"},
	}, nil)

	before := r.Probe(context.Background())
	after := r.Probe(context.Background())

	if !before.Equal(after) {
		t.Error("consecutive probes of unchanged state should be identical")
	}
	if len(exec.Commands) != 0 {
		t.Errorf("probe must not invoke external commands, got %v", exec.CommandLines())
	}
}

func TestDesired_MatchesProbeKeys(t *testing.T) {
	r, fs, _, _ := newReconciler(&config.FileLocations{
		DevelopmentRoot: "/work/dev",
		DefaultFolders:  []string{"Projects"},
	}, map[string]string{"DEV_HOME": "/work/dev"})
	fs.AddDir("/work/dev")
	fs.AddDir("/work/dev/Projects")

	probed := r.Probe(context.Background())
	desired := r.Desired()

	for _, key := range desired.Keys() {
		if key == "Env:PROJECTS_HOME" {
			continue // not configured in this test
		}
		if !probed.Has(key) {
			t.Errorf("desired key %q missing from probe", key)
		}
	}
}
