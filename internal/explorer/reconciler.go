package explorer

import (
	"context"
	"fmt"

	"github.com/rigforge/rigctl/internal/config"
	"github.com/rigforge/rigctl/internal/reconcile"
	"github.com/rigforge/rigctl/internal/state"
	"github.com/rigforge/rigctl/internal/system"
)

// flagSpec maps one config flag to its preference value. Values are not
// uniformly 1/0: some preferences encode false as 2.
type flagSpec struct {
	Label    string
	Name     string
	OnValue  uint32
	OffValue uint32
	Want     func(*config.Explorer) *bool
}

// flagSpecs fixes probe and plan order.
var flagSpecs = []flagSpec{
	{
		Label: "Hide file extensions", Name: "HideFileExt",
		OnValue: 1, OffValue: 0,
		Want: func(e *config.Explorer) *bool { return e.HideFileExt },
	},
	{
		Label: "Show hidden files", Name: "Hidden",
		OnValue: 1, OffValue: 2,
		Want: func(e *config.Explorer) *bool { return e.ShowHidden },
	},
	{
		Label: "Show protected OS files", Name: "ShowSuperHidden",
		OnValue: 1, OffValue: 0,
		Want: func(e *config.Explorer) *bool { return e.ShowProtectedOSFiles },
	},
	{
		Label: "Launch to This PC", Name: "LaunchTo",
		OnValue: 1, OffValue: 2,
		Want: func(e *config.Explorer) *bool { return e.LaunchToThisPC },
	},
	{
		Label: "Compact view", Name: "UseCompactMode",
		OnValue: 1, OffValue: 0,
		Want: func(e *config.Explorer) *bool { return e.CompactView },
	},
}

func (f flagSpec) target(want bool) uint32 {
	if want {
		return f.OnValue
	}
	return f.OffValue
}

// Reconciler compares configured explorer flags with the preference store.
type Reconciler struct {
	Config *config.Explorer
	Prefs  PrefStore
}

// NewReconciler wires the registry-backed store over the given executor.
func NewReconciler(cfg *config.Explorer, exec system.CommandExecutor) *Reconciler {
	return &Reconciler{Config: cfg, Prefs: &RegPrefs{Exec: exec}}
}

func (r *Reconciler) Domain() reconcile.Domain {
	return reconcile.DomainExplorer
}

// Probe reads each configured flag's current value. Absent values read as
// "off".
func (r *Reconciler) Probe(ctx context.Context) *state.Snapshot {
	snap := state.New()
	if r.Config == nil || r.Config.IsEmpty() {
		return snap
	}
	for _, spec := range flagSpecs {
		if spec.Want(r.Config) == nil {
			continue
		}
		value, ok := r.Prefs.GetDWord(ctx, advancedKey, spec.Name)
		snap.SetBool(spec.Name, ok && value == spec.OnValue)
	}
	return snap
}

// Desired returns the configured flag states under the same keys as Probe.
func (r *Reconciler) Desired() *state.Snapshot {
	snap := state.New()
	if r.Config == nil || r.Config.IsEmpty() {
		return snap
	}
	for _, spec := range flagSpecs {
		if want := spec.Want(r.Config); want != nil {
			snap.SetBool(spec.Name, *want)
		}
	}
	return snap
}

// Plan lists one change per differing flag, plus a single trailing shell
// restart when anything changed. The restart runs at most once per run no
// matter how many flags it covers.
func (r *Reconciler) Plan(snap *state.Snapshot) (reconcile.Plan, error) {
	if r.Config == nil || r.Config.IsEmpty() {
		return nil, nil
	}

	var plan reconcile.Plan
	for _, spec := range flagSpecs {
		want := spec.Want(r.Config)
		if want == nil || snap.Bool(spec.Name) == *want {
			continue
		}
		target := spec.target(*want)
		name := spec.Name
		plan = append(plan, reconcile.Change{
			Desc: fmt.Sprintf("%s: %s", spec.Label, onOff(*want)),
			Run: func(ctx context.Context) error {
				return r.Prefs.SetDWord(ctx, advancedKey, name, target)
			},
		})
	}

	if len(plan) > 0 {
		plan = append(plan, reconcile.Change{
			Desc: "Restart shell to apply view changes",
			Run:  r.Prefs.RestartShell,
		})
	}

	return plan, nil
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
