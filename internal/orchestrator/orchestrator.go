// Package orchestrator sequences the domain reconcilers under shared
// dry-run/force semantics and aggregates their change lists.
package orchestrator

import (
	"context"

	"github.com/rigforge/rigctl/internal/logging"
	"github.com/rigforge/rigctl/internal/reconcile"
	"github.com/rigforge/rigctl/internal/state"
)

// Reconciler is what the orchestrator needs from each domain: the planning
// contract plus the probe and the desired-state view for dry-run tables.
type Reconciler interface {
	reconcile.Planner
	Probe(ctx context.Context) *state.Snapshot
	Desired() *state.Snapshot
}

// DomainReport is the aggregated outcome for one domain in one run.
type DomainReport struct {
	Domain  reconcile.Domain
	Before  *state.Snapshot
	Desired *state.Snapshot
	Plan    reconcile.Plan
	Result  *reconcile.Result
	Err     error
}

// Ok reports whether the domain planned and applied without failures.
func (r *DomainReport) Ok() bool {
	if r.Err != nil {
		return false
	}
	return r.Result == nil || r.Result.Ok()
}

// Orchestrator holds the reconcilers in their fixed run order.
type Orchestrator struct {
	reconcilers []Reconciler
}

// New returns an orchestrator over the given reconcilers. The slice order
// is the run order; callers pass domains ordered per reconcile.Order.
func New(reconcilers ...Reconciler) *Orchestrator {
	return &Orchestrator{reconcilers: reconcilers}
}

// Domains lists the managed domains in run order.
func (o *Orchestrator) Domains() []reconcile.Domain {
	out := make([]reconcile.Domain, len(o.reconcilers))
	for i, r := range o.reconcilers {
		out[i] = r.Domain()
	}
	return out
}

// RunDomain reconciles a single domain.
func (o *Orchestrator) RunDomain(ctx context.Context, domain reconcile.Domain, dryRun bool) *DomainReport {
	for _, r := range o.reconcilers {
		if r.Domain() == domain {
			return o.run(ctx, r, dryRun)
		}
	}
	return nil
}

// RunAll reconciles every domain not in skip, sequentially and in fixed
// order. A domain's failure never aborts the remaining domains.
func (o *Orchestrator) RunAll(ctx context.Context, skip map[reconcile.Domain]bool, dryRun bool) []*DomainReport {
	var reports []*DomainReport
	for _, r := range o.reconcilers {
		if skip[r.Domain()] {
			logging.Debug("domain skipped", "domain", r.Domain())
			continue
		}
		reports = append(reports, o.run(ctx, r, dryRun))
	}
	return reports
}

func (o *Orchestrator) run(ctx context.Context, r Reconciler, dryRun bool) *DomainReport {
	logging.UserInfo("Reconciling %s", r.Domain())

	before := r.Probe(ctx)
	plan, result, err := reconcile.Run(ctx, r, before, dryRun)

	report := &DomainReport{
		Domain:  r.Domain(),
		Before:  before,
		Desired: r.Desired(),
		Plan:    plan,
		Result:  result,
		Err:     err,
	}

	switch {
	case err != nil:
		logging.UserWarning("%s: %v", r.Domain(), err)
	case len(plan) == 0:
		logging.UserSuccess("%s: nothing to do", r.Domain())
	case dryRun:
		logging.UserInfo("%s: %d change(s) planned", r.Domain(), len(plan))
	case report.Ok():
		logging.UserSuccess("%s: %d change(s) applied", r.Domain(), len(result.Applied))
	default:
		logging.UserWarning("%s: %d of %d change(s) failed",
			r.Domain(), len(result.Failures), len(plan))
	}

	return report
}
