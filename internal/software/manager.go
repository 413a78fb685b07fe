// Package software reconciles installed software: package managers,
// individual applications, and IDE extensions. Each level is independently
// idempotent.
package software

import (
	"context"
	"fmt"

	"github.com/rigforge/rigctl/internal/config"
	"github.com/rigforge/rigctl/internal/system"
)

// Kind identifies a package-manager backend.
type Kind string

const (
	KindWinget     Kind = config.SourceWinget
	KindChocolatey Kind = config.SourceChocolatey
)

// Manager is the capability interface every package-manager backend
// implements. Backends shell out through the injected executor; rigctl
// never reimplements a package manager.
type Manager interface {
	// Kind returns the backend identifier.
	Kind() Kind

	// IsInstalled reports whether the manager binary is available.
	IsInstalled(ctx context.Context) bool

	// IsPackagePresent reports whether the package is already installed.
	// Best-effort: query failures read as "absent".
	IsPackagePresent(ctx context.Context, id string) bool

	// Install installs the package.
	Install(ctx context.Context, id string) error

	// InstallCommand returns the command line a user would run by hand to
	// install the package, for guidance output.
	InstallCommand(id string) []string

	// Guidance returns manual-install instructions for the manager itself.
	Guidance() string
}

// New returns the Manager for the given kind.
func New(kind Kind, exec system.CommandExecutor) (Manager, error) {
	switch kind {
	case KindWinget:
		return &Winget{Exec: exec}, nil
	case KindChocolatey:
		return &Chocolatey{Exec: exec}, nil
	default:
		return nil, fmt.Errorf("unknown package manager: %s", kind)
	}
}

// Managers returns all backends keyed by kind.
func Managers(exec system.CommandExecutor) map[Kind]Manager {
	return map[Kind]Manager{
		KindWinget:     &Winget{Exec: exec},
		KindChocolatey: &Chocolatey{Exec: exec},
	}
}
