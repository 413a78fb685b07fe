package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/rigforge/rigctl/internal/app"
	"github.com/rigforge/rigctl/internal/logging"
	"github.com/rigforge/rigctl/internal/orchestrator"
	"github.com/rigforge/rigctl/internal/reconcile"
	"github.com/rigforge/rigctl/internal/tui"
)

// options selects the run mode. Force and DryRun are mutually exclusive in
// effect: DryRun wins when both are set.
type options struct {
	Force  bool
	DryRun bool
	Plain  bool
	Skip   map[reconcile.Domain]bool
}

// run drives one invocation: dry-run summary, one forced pass, or the
// interactive menu loop.
func run(ctx context.Context, a *app.App, opts options, in io.Reader, out io.Writer) error {
	orch := a.Orchestrator()

	switch {
	case opts.DryRun:
		reports := orch.RunAll(ctx, opts.Skip, true)
		fmt.Fprint(out, tui.Summary(reports))
		return nil

	case opts.Force:
		reports := orch.RunAll(ctx, opts.Skip, false)
		reportFailures(reports)
		return nil

	default:
		return menuLoop(ctx, orch, opts, in, out)
	}
}

func menuLoop(ctx context.Context, orch *orchestrator.Orchestrator, opts options, in io.Reader, out io.Writer) error {
	choices := tui.Choices(orch.Domains())

	for {
		choice, err := pickChoice(opts.Plain, choices, in, out)
		if err != nil {
			return err
		}

		switch choice.Action {
		case tui.ActionQuit:
			return nil
		case tui.ActionRunDomain:
			report := orch.RunDomain(ctx, choice.Domain, false)
			reportFailures([]*orchestrator.DomainReport{report})
		case tui.ActionRunAll:
			reportFailures(orch.RunAll(ctx, opts.Skip, false))
		case tui.ActionDryRunSummary:
			fmt.Fprint(out, tui.Summary(orch.RunAll(ctx, opts.Skip, true)))
		}
	}
}

func pickChoice(plain bool, choices []tui.Choice, in io.Reader, out io.Writer) (tui.Choice, error) {
	if plain {
		return tui.SimpleMenu(in, out, choices)
	}
	choice, err := tui.Menu(choices)
	if err != nil {
		// No usable terminal; fall back to the line-based menu.
		logging.Debug("interactive menu unavailable", "error", err)
		return tui.SimpleMenu(in, out, choices)
	}
	return choice, nil
}

// reportFailures surfaces per-domain problems without turning them into a
// process failure: domain-level errors are operator output, not exit codes.
func reportFailures(reports []*orchestrator.DomainReport) {
	for _, report := range reports {
		if report == nil || report.Ok() {
			continue
		}
		if report.Err != nil {
			logging.UserWarning("%s finished with a planning problem: %v", report.Domain, report.Err)
		}
		if report.Result != nil {
			for _, failure := range report.Result.Failures {
				logging.UserWarning("%s: %s: %v", report.Domain, failure.Desc, failure.Err)
			}
		}
	}
}
