package software

import (
	"context"
	"fmt"
	"strings"

	"github.com/rigforge/rigctl/internal/errors"
	"github.com/rigforge/rigctl/internal/logging"
	"github.com/rigforge/rigctl/internal/system"
)

// Winget implements Manager for the Windows Package Manager.
type Winget struct {
	Exec system.CommandExecutor
}

func (w *Winget) Kind() Kind {
	return KindWinget
}

func (w *Winget) IsInstalled(ctx context.Context) bool {
	return w.Exec.LookPath("winget")
}

func (w *Winget) IsPackagePresent(ctx context.Context, id string) bool {
	out, err := w.Exec.Execute(ctx, "winget", "list", "--id", id, "--exact", "--disable-interactivity")
	if err != nil {
		logging.Debug("package probe defaulted to absent", "id", id,
			"error", errors.ProbeFailed("winget list", err))
		return false
	}
	return strings.Contains(string(out), id)
}

func (w *Winget) Install(ctx context.Context, id string) error {
	out, err := w.Exec.Execute(ctx, "winget", w.installArgs(id)...)
	if err != nil {
		return fmt.Errorf("winget install %s: %s: %w", id, strings.TrimSpace(string(out)), err)
	}
	return nil
}

func (w *Winget) installArgs(id string) []string {
	return []string{
		"install", "--id", id, "--exact", "--silent",
		"--accept-package-agreements", "--accept-source-agreements",
	}
}

func (w *Winget) InstallCommand(id string) []string {
	return append([]string{"winget"}, w.installArgs(id)...)
}

func (w *Winget) Guidance() string {
	return "winget ships with the App Installer package; update it from the Microsoft Store"
}
