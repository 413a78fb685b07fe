// Package fileloc reconciles the filesystem layout domain: root
// directories, default subfolders, and the two process-wide environment
// variables derived from them.
package fileloc

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/rigforge/rigctl/internal/config"
	"github.com/rigforge/rigctl/internal/errors"
	"github.com/rigforge/rigctl/internal/logging"
	"github.com/rigforge/rigctl/internal/reconcile"
	"github.com/rigforge/rigctl/internal/state"
	"github.com/rigforge/rigctl/internal/system"
)

// Environment variables maintained by this domain.
const (
	EnvDevHome      = "DEV_HOME"
	EnvProjectsHome = "PROJECTS_HOME"
)

// Reconciler compares the desired directory layout with the live
// filesystem and environment.
type Reconciler struct {
	Config *config.FileLocations
	FS     system.FileSystem
	Exec   system.CommandExecutor
	Env    system.EnvStore
	Expand config.Expander
}

func (r *Reconciler) Domain() reconcile.Domain {
	return reconcile.DomainFileLocations
}

// normalize expands and cleans a path so equivalent spellings compare equal.
func (r *Reconciler) normalize(p string) string {
	expanded := r.Expand.Expand(p)
	if expanded == "" {
		return ""
	}
	return filepath.Clean(expanded)
}

// samePath compares two normalized paths, case-insensitively to match the
// OS filesystems this tool targets.
func samePath(a, b string) bool {
	return strings.EqualFold(a, b)
}

// roots returns the configured roots in plan order with their display names.
func (r *Reconciler) roots() []struct{ label, path string } {
	return []struct{ label, path string }{
		{"developmentRoot", r.Config.DevelopmentRoot},
		{"projectsRoot", r.Config.ProjectsRoot},
		{"githubRoot", r.Config.GitHubRoot},
	}
}

// subfolders resolves the default folder names under the development root.
// Config-supplied names must not escape the root.
func (r *Reconciler) subfolders(devRoot string) ([]string, error) {
	var out []string
	for _, name := range r.Config.DefaultFolders {
		joined, err := securejoin.SecureJoin(devRoot, name)
		if err != nil {
			return nil, fmt.Errorf("default folder %q: %w", name, err)
		}
		out = append(out, joined)
	}
	return out, nil
}

// Probe snapshots directory existence and the current environment values.
// Read-only and best-effort: a stat failure reads as "absent".
func (r *Reconciler) Probe(ctx context.Context) *state.Snapshot {
	snap := state.New()
	if r.Config == nil {
		return snap
	}

	devRoot := r.normalize(r.Config.DevelopmentRoot)

	for _, root := range r.roots() {
		if p := r.normalize(root.path); p != "" {
			snap.SetBool("Dir:"+p, r.FS.IsDir(p))
		}
	}

	if devRoot != "" {
		if folders, err := r.subfolders(devRoot); err == nil {
			for _, p := range folders {
				snap.SetBool("Dir:"+p, r.FS.IsDir(p))
			}
		} else {
			logging.Debug("subfolder probe defaulted", "error", errors.ProbeFailed("read subfolders", err))
		}
	}

	snap.SetString("Env:"+EnvDevHome, r.normalize(r.Env.Get(EnvDevHome)))
	snap.SetString("Env:"+EnvProjectsHome, r.normalize(r.Env.Get(EnvProjectsHome)))

	return snap
}

// Desired returns the target state using the same probe keys as Probe.
func (r *Reconciler) Desired() *state.Snapshot {
	snap := state.New()
	if r.Config == nil {
		return snap
	}

	devRoot := r.normalize(r.Config.DevelopmentRoot)

	for _, root := range r.roots() {
		if p := r.normalize(root.path); p != "" {
			snap.SetBool("Dir:"+p, true)
		}
	}
	if devRoot != "" {
		if folders, err := r.subfolders(devRoot); err == nil {
			for _, p := range folders {
				snap.SetBool("Dir:"+p, true)
			}
		}
	}

	snap.SetString("Env:"+EnvDevHome, devRoot)
	if p := r.normalize(r.Config.ProjectsRoot); p != "" {
		snap.SetString("Env:"+EnvProjectsHome, p)
	}

	return snap
}

// Plan lists the corrections needed to reach the configured layout.
func (r *Reconciler) Plan(snap *state.Snapshot) (reconcile.Plan, error) {
	if r.Config == nil {
		return nil, nil
	}

	devRoot := r.normalize(r.Config.DevelopmentRoot)
	if devRoot == "" {
		return nil, errors.PlanFailed(string(r.Domain()), "developmentRoot is empty after environment expansion")
	}

	var plan reconcile.Plan

	if !snap.Bool("Dir:" + devRoot) {
		plan = append(plan, r.mkdirChange(fmt.Sprintf("Create developmentRoot directory: %s", devRoot), devRoot))
	}

	folders, err := r.subfolders(devRoot)
	if err != nil {
		return plan, errors.PlanFailed(string(r.Domain()), err.Error())
	}
	for _, folder := range folders {
		if !snap.Bool("Dir:" + folder) {
			plan = append(plan, r.mkdirChange(fmt.Sprintf("Create directory: %s", folder), folder))
		}
	}

	for _, root := range r.roots()[1:] {
		if root.path == "" {
			continue
		}
		p := r.normalize(root.path)
		if p == "" {
			return plan, errors.PlanFailed(string(r.Domain()),
				fmt.Sprintf("%s is empty after environment expansion", root.label))
		}
		if !snap.Bool("Dir:" + p) {
			plan = append(plan, r.mkdirChange(fmt.Sprintf("Create %s directory: %s", root.label, p), p))
		}
	}

	// Environment variables are compared by expanded value, not raw string,
	// so an unexpanded %VAR% spelling of the same path is not a change.
	if !samePath(snap.String("Env:"+EnvDevHome), devRoot) {
		plan = append(plan, r.setEnvChange(EnvDevHome, devRoot))
	}
	if projRoot := r.normalize(r.Config.ProjectsRoot); projRoot != "" {
		if !samePath(snap.String("Env:"+EnvProjectsHome), projRoot) {
			plan = append(plan, r.setEnvChange(EnvProjectsHome, projRoot))
		}
	}

	return plan, nil
}

func (r *Reconciler) mkdirChange(desc, path string) reconcile.Change {
	return reconcile.Change{
		Desc: desc,
		Run: func(ctx context.Context) error {
			return r.FS.MkdirAll(path, 0755)
		},
	}
}

// setEnvChange persists the variable with setx and also sets it for the
// current process so later domains in the same run observe it.
func (r *Reconciler) setEnvChange(name, value string) reconcile.Change {
	return reconcile.Change{
		Desc: fmt.Sprintf("Set %s=%s", name, value),
		Run: func(ctx context.Context) error {
			if out, err := r.Exec.Execute(ctx, "setx", name, value); err != nil {
				return fmt.Errorf("setx %s: %s: %w", name, strings.TrimSpace(string(out)), err)
			}
			return r.Env.Set(name, value)
		},
	}
}
