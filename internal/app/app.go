// Package app wires the application dependencies. Everything a reconciler
// touches (filesystem, executor, environment, prompts, vault) is injected
// here so commands and tests share one composition root.
package app

import (
	"github.com/rigforge/rigctl/internal/config"
	"github.com/rigforge/rigctl/internal/explorer"
	"github.com/rigforge/rigctl/internal/fileloc"
	"github.com/rigforge/rigctl/internal/identity"
	"github.com/rigforge/rigctl/internal/orchestrator"
	"github.com/rigforge/rigctl/internal/prompt"
	"github.com/rigforge/rigctl/internal/secrets"
	"github.com/rigforge/rigctl/internal/software"
	"github.com/rigforge/rigctl/internal/system"
	"github.com/rigforge/rigctl/internal/terminal"
)

// App holds the shared dependencies for one run.
type App struct {
	Config  *config.Configuration
	FS      system.FileSystem
	Exec    system.CommandExecutor
	Env     system.EnvStore
	Prompts prompt.Provider
	Vault   secrets.Provider
}

// Option configures an App.
type Option func(*App)

// WithConfig sets the loaded configuration.
func WithConfig(cfg *config.Configuration) Option {
	return func(a *App) { a.Config = cfg }
}

// WithFS overrides the filesystem.
func WithFS(fs system.FileSystem) Option {
	return func(a *App) { a.FS = fs }
}

// WithExecutor overrides the command executor.
func WithExecutor(exec system.CommandExecutor) Option {
	return func(a *App) { a.Exec = exec }
}

// WithEnv overrides the environment store.
func WithEnv(env system.EnvStore) Option {
	return func(a *App) { a.Env = env }
}

// WithPrompts overrides the operator-interaction provider.
func WithPrompts(p prompt.Provider) Option {
	return func(a *App) { a.Prompts = p }
}

// WithVault overrides the secrets provider.
func WithVault(v secrets.Provider) Option {
	return func(a *App) { a.Vault = v }
}

// New creates an App with OS-backed defaults, then applies the options.
// The vault defaults to 1Password when the config names one.
func New(opts ...Option) *App {
	a := &App{
		FS:      system.DefaultFS(),
		Exec:    system.DefaultExecutor(),
		Env:     system.DefaultEnv(),
		Prompts: prompt.NewTerminal(),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.Vault == nil && a.Config != nil && a.Config.OnePassword != nil {
		a.Vault = &secrets.OnePassword{
			Exec:    a.Exec,
			Account: a.Config.OnePassword.Account,
			Vault:   a.Config.OnePassword.Vault,
		}
	}

	return a
}

// Expander returns the config expander bound to this App's environment.
func (a *App) Expander() config.Expander {
	return config.Expander{Env: a.Env}
}

// Orchestrator builds the five domain reconcilers in their fixed run order.
func (a *App) Orchestrator() *orchestrator.Orchestrator {
	expand := a.Expander()

	return orchestrator.New(
		&fileloc.Reconciler{
			Config: a.Config.FileLocations,
			FS:     a.FS,
			Exec:   a.Exec,
			Env:    a.Env,
			Expand: expand,
		},
		&terminal.Reconciler{
			Config: a.Config.Terminal,
			FS:     a.FS,
			Exec:   a.Exec,
			Expand: expand,
		},
		software.NewReconciler(a.Config.Software, a.Exec),
		explorer.NewReconciler(a.Config.Explorer, a.Exec),
		&identity.Reconciler{
			Config:  a.Config.GitHub,
			FS:      a.FS,
			Exec:    a.Exec,
			Expand:  expand,
			Vault:   a.Vault,
			Prompts: a.Prompts,
		},
	)
}
