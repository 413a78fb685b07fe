package explorer

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rigforge/rigctl/internal/config"
	"github.com/rigforge/rigctl/internal/logging"
	"github.com/rigforge/rigctl/internal/reconcile"
	"github.com/rigforge/rigctl/internal/system"
)

func boolPtr(v bool) *bool { return &v }

func regQueryOutput(name, hex string) []byte {
	return []byte("\nHKEY_CURRENT_USER\\...\\Advanced\n    " + name + "    REG_DWORD    " + hex + "\n")
}

func TestPlan_FlagsAndSingleRestart(t *testing.T) {
	exec := system.NewMockExecutor()
	// Extensions currently hidden, hidden files currently not shown.
	exec.AddResponse("reg query "+advancedKey+" /v HideFileExt", regQueryOutput("HideFileExt", "0x1"), nil)
	exec.AddResponse("reg query "+advancedKey+" /v Hidden", regQueryOutput("Hidden", "0x2"), nil)

	r := NewReconciler(&config.Explorer{
		HideFileExt: boolPtr(false),
		ShowHidden:  boolPtr(true),
	}, exec)

	ctx := context.Background()
	plan, err := r.Plan(r.Probe(ctx))
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	want := []string{
		"Hide file extensions: off",
		"Show hidden files: on",
		"Restart shell to apply view changes",
	}
	if diff := cmp.Diff(want, plan.Descriptions()); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}

	result := reconcile.Apply(ctx, plan)
	if !result.Ok() {
		t.Fatalf("apply failed: %+v", result.Failures)
	}

	lines := exec.CommandLines()
	wantTail := []string{
		"reg add " + advancedKey + " /v HideFileExt /t REG_DWORD /d 0 /f",
		"reg add " + advancedKey + " /v Hidden /t REG_DWORD /d 1 /f",
		"taskkill /f /im explorer.exe",
		"explorer.exe",
	}
	got := lines[len(lines)-4:]
	if diff := cmp.Diff(wantTail, got); diff != "" {
		t.Errorf("apply commands mismatch (-want +got):\n%s", diff)
	}
}

func TestPlan_InStateIsEmpty(t *testing.T) {
	exec := system.NewMockExecutor()
	exec.AddResponse("reg query "+advancedKey+" /v HideFileExt", regQueryOutput("HideFileExt", "0x0"), nil)
	exec.AddResponse("reg query "+advancedKey+" /v LaunchTo", regQueryOutput("LaunchTo", "0x1"), nil)

	r := NewReconciler(&config.Explorer{
		HideFileExt:    boolPtr(false),
		LaunchToThisPC: boolPtr(true),
	}, exec)

	plan, err := r.Plan(r.Probe(context.Background()))
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if len(plan) != 0 {
		t.Errorf("no restart should be planned when nothing differs, got %v", plan.Descriptions())
	}
}

func TestProbe_AbsentValueReadsAsOff(t *testing.T) {
	exec := system.NewMockExecutor()
	exec.DefaultResponse = system.MockResponse{Err: context.DeadlineExceeded}

	r := NewReconciler(&config.Explorer{CompactView: boolPtr(true)}, exec)

	snap := r.Probe(context.Background())
	if snap.Bool("UseCompactMode") {
		t.Error("unreadable preference should probe as off")
	}

	plan, err := r.Plan(snap)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	want := []string{
		"Compact view: on",
		"Restart shell to apply view changes",
	}
	if diff := cmp.Diff(want, plan.Descriptions()); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}
}

func TestPlan_EmptyConfigSkips(t *testing.T) {
	r := NewReconciler(&config.Explorer{}, system.NewMockExecutor())
	plan, err := r.Plan(r.Probe(context.Background()))
	if err != nil || plan != nil {
		t.Errorf("empty config should produce nothing: plan=%v err=%v", plan, err)
	}
}

func TestRegPrefs_ParseDWord(t *testing.T) {
	exec := system.NewMockExecutor()
	exec.AddResponse("reg query "+advancedKey+" /v Hidden", regQueryOutput("Hidden", "0x2"), nil)
	prefs := &RegPrefs{Exec: exec}

	value, ok := prefs.GetDWord(context.Background(), advancedKey, "Hidden")
	if !ok || value != 2 {
		t.Errorf("GetDWord = %d, %v; want 2, true", value, ok)
	}

	if _, ok := prefs.GetDWord(context.Background(), advancedKey, "Missing"); ok {
		t.Error("missing value should report absent")
	}
}

func TestRegPrefs_ReadFailureDefaultsAndLogs(t *testing.T) {
	var buf bytes.Buffer
	logging.Setup(true, false, &buf)
	defer logging.Setup(false, false, nil)

	exec := system.NewMockExecutor()
	exec.DefaultResponse = system.MockResponse{Err: fmt.Errorf("access denied")}
	prefs := &RegPrefs{Exec: exec}

	if _, ok := prefs.GetDWord(context.Background(), advancedKey, "Hidden"); ok {
		t.Error("read failure should report absent")
	}

	logged := buf.String()
	if !strings.Contains(logged, "probe reg query failed") || !strings.Contains(logged, "access denied") {
		t.Errorf("defaulted read should log the wrapped probe failure, got: %s", logged)
	}
}
