package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rigforge/rigctl/internal/orchestrator"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	driftStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Summary renders the dry-run report: a before/after table per domain
// followed by the planned changes.
func Summary(reports []*orchestrator.DomainReport) string {
	var b strings.Builder
	for i, report := range reports {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(renderDomain(report))
	}
	return b.String()
}

func renderDomain(report *orchestrator.DomainReport) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("── %s ──", report.Domain)) + "\n")

	if report.Err != nil {
		b.WriteString(errStyle.Render(fmt.Sprintf("plan incomplete: %v", report.Err)) + "\n")
	}

	if table := renderStateTable(report); table != "" {
		b.WriteString(table)
	}

	if len(report.Plan) == 0 {
		b.WriteString(okStyle.Render("nothing to do") + "\n")
		return b.String()
	}

	b.WriteString("planned changes:\n")
	for _, desc := range report.Plan.Descriptions() {
		b.WriteString(driftStyle.Render("  → "+desc) + "\n")
	}
	return b.String()
}

// renderStateTable lists every desired probe with its current and target
// values, flagging rows that drift.
func renderStateTable(report *orchestrator.DomainReport) string {
	keys := report.Desired.Keys()
	if len(keys) == 0 {
		return ""
	}

	width := len("probe")
	for _, key := range keys {
		if len(key) > width {
			width = len(key)
		}
	}
	current := make([]string, len(keys))
	currentWidth := len("current")
	for i, key := range keys {
		current[i] = report.Before.Render(key)
		if current[i] == "" {
			current[i] = "-"
		}
		if len(current[i]) > currentWidth {
			currentWidth = len(current[i])
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-*s  %-*s  %s\n", width, "probe", currentWidth, "current", "desired")
	for i, key := range keys {
		desired := report.Desired.Render(key)
		line := fmt.Sprintf("%-*s  %-*s  %s", width, key, currentWidth, current[i], desired)
		if current[i] != desired {
			line = driftStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
