package software

import (
	"context"
	"fmt"
	"strings"

	"github.com/rigforge/rigctl/internal/errors"
	"github.com/rigforge/rigctl/internal/logging"
	"github.com/rigforge/rigctl/internal/system"
)

// Chocolatey implements Manager for the Chocolatey package manager.
type Chocolatey struct {
	Exec system.CommandExecutor
}

func (c *Chocolatey) Kind() Kind {
	return KindChocolatey
}

func (c *Chocolatey) IsInstalled(ctx context.Context) bool {
	return c.Exec.LookPath("choco")
}

func (c *Chocolatey) IsPackagePresent(ctx context.Context, id string) bool {
	// --limit-output prints one "id|version" line per installed package.
	out, err := c.Exec.Execute(ctx, "choco", "list", "--exact", id, "--limit-output")
	if err != nil {
		logging.Debug("package probe defaulted to absent", "id", id,
			"error", errors.ProbeFailed("choco list", err))
		return false
	}
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		name, _, found := strings.Cut(line, "|")
		if found && strings.EqualFold(name, id) {
			return true
		}
	}
	return false
}

func (c *Chocolatey) Install(ctx context.Context, id string) error {
	out, err := c.Exec.Execute(ctx, "choco", c.installArgs(id)...)
	if err != nil {
		return fmt.Errorf("choco install %s: %s: %w", id, strings.TrimSpace(string(out)), err)
	}
	return nil
}

func (c *Chocolatey) installArgs(id string) []string {
	return []string{"install", id, "-y", "--no-progress"}
}

func (c *Chocolatey) InstallCommand(id string) []string {
	return append([]string{"choco"}, c.installArgs(id)...)
}

func (c *Chocolatey) Guidance() string {
	return "install Chocolatey from an elevated shell: https://chocolatey.org/install"
}
