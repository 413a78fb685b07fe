package software

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/rigforge/rigctl/internal/config"
	"github.com/rigforge/rigctl/internal/logging"
	"github.com/rigforge/rigctl/internal/reconcile"
	"github.com/rigforge/rigctl/internal/state"
	"github.com/rigforge/rigctl/internal/system"
)

// Reconciler drives the three software levels: package managers,
// applications, and IDE extensions.
type Reconciler struct {
	Config     *config.Software
	Managers   map[Kind]Manager
	Extensions *CodeExtensions
}

// NewReconciler wires the default backends over the given executor.
func NewReconciler(cfg *config.Software, exec system.CommandExecutor) *Reconciler {
	return &Reconciler{
		Config:     cfg,
		Managers:   Managers(exec),
		Extensions: &CodeExtensions{Exec: exec},
	}
}

func (r *Reconciler) Domain() reconcile.Domain {
	return reconcile.DomainSoftware
}

// referencedKinds returns the manager kinds the configured applications
// actually use, in first-reference order.
func (r *Reconciler) referencedKinds() []Kind {
	var kinds []Kind
	for _, app := range r.Config.Applications {
		kind := Kind(app.Source)
		if !slices.Contains(kinds, kind) {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

func appKey(app config.Application) string {
	return fmt.Sprintf("App:%s/%s", app.Source, app.ID)
}

func extKey(id string) string {
	return "Ext:" + strings.ToLower(id)
}

// Probe queries manager availability, per-application presence, and the
// installed extension list.
func (r *Reconciler) Probe(ctx context.Context) *state.Snapshot {
	snap := state.New()
	if r.Config == nil {
		return snap
	}

	available := map[Kind]bool{}
	for _, kind := range r.referencedKinds() {
		mgr, ok := r.Managers[kind]
		if !ok {
			continue
		}
		available[kind] = mgr.IsInstalled(ctx)
		snap.SetBool("Manager:"+string(kind), available[kind])
	}

	for _, app := range r.Config.Applications {
		kind := Kind(app.Source)
		present := false
		if available[kind] {
			present = r.Managers[kind].IsPackagePresent(ctx, app.ID)
		}
		snap.SetBool(appKey(app), present)
	}

	if len(r.Config.Extensions) > 0 {
		hostUp := r.Extensions.Available(ctx)
		snap.SetBool("ExtensionHost", hostUp)

		var installed []string
		if hostUp {
			var err error
			installed, err = r.Extensions.List(ctx)
			if err != nil {
				logging.Warn("extension list failed", "error", err)
			}
		}
		for _, ext := range r.Config.Extensions {
			snap.SetBool(extKey(ext), slices.Contains(installed, strings.ToLower(ext)))
		}
	}

	return snap
}

// Desired marks every manager, application, and extension as present.
func (r *Reconciler) Desired() *state.Snapshot {
	snap := state.New()
	if r.Config == nil {
		return snap
	}
	for _, kind := range r.referencedKinds() {
		snap.SetBool("Manager:"+string(kind), true)
	}
	for _, app := range r.Config.Applications {
		snap.SetBool(appKey(app), true)
	}
	if len(r.Config.Extensions) > 0 {
		snap.SetBool("ExtensionHost", true)
		for _, ext := range r.Config.Extensions {
			snap.SetBool(extKey(ext), true)
		}
	}
	return snap
}

// Plan lists installs for whatever the probe found missing. Absent managers
// produce guidance-only entries; applications behind an absent manager get
// the exact command line to run once the manager exists.
func (r *Reconciler) Plan(snap *state.Snapshot) (reconcile.Plan, error) {
	if r.Config == nil {
		return nil, nil
	}

	var plan reconcile.Plan

	managerUp := map[Kind]bool{}
	for _, kind := range r.referencedKinds() {
		mgr, ok := r.Managers[kind]
		if !ok {
			continue
		}
		managerUp[kind] = snap.Bool("Manager:" + string(kind))
		if !managerUp[kind] {
			plan = append(plan, reconcile.Change{
				Desc: fmt.Sprintf("Install %s manually: %s", kind, mgr.Guidance()),
			})
		}
	}

	for _, app := range r.Config.Applications {
		if snap.Bool(appKey(app)) {
			continue
		}
		kind := Kind(app.Source)
		mgr, ok := r.Managers[kind]
		if !ok {
			continue
		}
		if !managerUp[kind] {
			plan = append(plan, reconcile.Change{
				Desc: fmt.Sprintf("Install %s manually once %s is available: %s",
					app.Name, kind, shellquote.Join(mgr.InstallCommand(app.ID)...)),
			})
			continue
		}
		desc := fmt.Sprintf("Install %s (%s) via %s", app.Name, app.ID, kind)
		if app.Pin != "" {
			desc += fmt.Sprintf(" [pin %s]", app.Pin)
		}
		id := app.ID
		plan = append(plan, reconcile.Change{
			Desc: desc,
			Run: func(ctx context.Context) error {
				return mgr.Install(ctx, id)
			},
		})
	}

	if len(r.Config.Extensions) > 0 {
		if !snap.Bool("ExtensionHost") {
			plan = append(plan, reconcile.Change{
				Desc: "Install IDE extensions manually: editor CLI (code) not found on PATH",
			})
			return plan, nil
		}
		for _, ext := range r.Config.Extensions {
			if snap.Bool(extKey(ext)) {
				continue
			}
			id := ext
			plan = append(plan, reconcile.Change{
				Desc: fmt.Sprintf("Install IDE extension: %s", ext),
				Run: func(ctx context.Context) error {
					return r.Extensions.Install(ctx, id)
				},
			})
		}
	}

	return plan, nil
}
