// Package reconcile defines the desired-state reconciliation contract shared
// by every domain: plan from config and a probed snapshot, then apply the
// plan as a best-effort batch unless the run is a dry run.
package reconcile

import (
	"context"

	"github.com/rigforge/rigctl/internal/errors"
	"github.com/rigforge/rigctl/internal/logging"
	"github.com/rigforge/rigctl/internal/state"
)

// Domain identifies one of the five configuration areas.
type Domain string

const (
	DomainFileLocations Domain = "file locations"
	DomainTerminal      Domain = "terminal"
	DomainSoftware      Domain = "software"
	DomainExplorer      Domain = "explorer"
	DomainIdentity      Domain = "identity"
)

// Order returns the advisory run order. Later domains (identity) may depend
// on earlier ones (software providing git/gh/gpg), but the ordering is not
// enforced as a hard dependency.
func Order() []Domain {
	return []Domain{
		DomainFileLocations,
		DomainTerminal,
		DomainSoftware,
		DomainExplorer,
		DomainIdentity,
	}
}

// Change is one planned correction: a human-readable description plus the
// side effect that realises it. A nil Run marks a guidance-only entry
// (e.g. manual-install instructions) with nothing to execute.
type Change struct {
	Desc string
	Run  func(ctx context.Context) error
}

// Plan is an ordered list of changes. Ordering is insertion order.
type Plan []Change

// Descriptions returns the change descriptions in plan order.
func (p Plan) Descriptions() []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = c.Desc
	}
	return out
}

// Failure records a change that could not be applied.
type Failure struct {
	Desc string
	Err  error
}

// Result reports the outcome of applying a plan. Failures are listed
// separately from successes; the batch is never transactional.
type Result struct {
	Applied  []string
	Failures []Failure
}

// Ok reports whether every change applied.
func (r *Result) Ok() bool {
	return r != nil && len(r.Failures) == 0
}

// Planner is implemented by each domain reconciler. Plan must be a pure,
// deterministic function of config and snapshot. A returned error is a
// plan-level report; the accompanying plan may still be partial and is
// still applied.
type Planner interface {
	Domain() Domain
	Plan(snap *state.Snapshot) (Plan, error)
}

// Apply executes each change in plan order. A single failure is recorded
// and does not abort the remaining changes.
func Apply(ctx context.Context, plan Plan) *Result {
	result := &Result{}
	for _, change := range plan {
		if change.Run == nil {
			result.Applied = append(result.Applied, change.Desc)
			continue
		}
		if err := change.Run(ctx); err != nil {
			applyErr := errors.ApplyFailed(change.Desc, err)
			logging.UserError("%v", applyErr)
			result.Failures = append(result.Failures, Failure{Desc: change.Desc, Err: applyErr})
			continue
		}
		logging.UserSuccess("%s", change.Desc)
		result.Applied = append(result.Applied, change.Desc)
	}
	return result
}

// Run executes the reconciliation contract: Plan always runs; Apply runs
// only when dryRun is false. A plan error is returned alongside whatever
// partial plan was produced, and that partial plan is still applied, so a
// failed step never blocks unrelated steps in the same domain.
func Run(ctx context.Context, p Planner, snap *state.Snapshot, dryRun bool) (Plan, *Result, error) {
	plan, planErr := p.Plan(snap)
	if planErr != nil {
		logging.Warn("plan incomplete", "domain", p.Domain(), "error", planErr)
	}

	if dryRun || len(plan) == 0 {
		return plan, nil, planErr
	}

	result := Apply(ctx, plan)
	return plan, result, planErr
}
