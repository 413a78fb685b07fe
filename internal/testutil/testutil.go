// Package testutil bundles the mock dependencies most tests need: an
// in-memory filesystem, a scriptable executor and environment, and canned
// prompts, plus a realistic sample configuration.
package testutil

import (
	"github.com/rigforge/rigctl/internal/app"
	"github.com/rigforge/rigctl/internal/config"
	"github.com/rigforge/rigctl/internal/prompt"
	"github.com/rigforge/rigctl/internal/system"
)

// Env is one test's isolated machine.
type Env struct {
	FS      *system.MockFS
	Exec    *system.MockExecutor
	Vars    *system.MockEnv
	Prompts *prompt.Scripted
}

// NewEnv returns an empty machine: no files, every binary on PATH, every
// command succeeding with empty output.
func NewEnv() *Env {
	return &Env{
		FS:      system.NewMockFS(),
		Exec:    system.NewMockExecutor(),
		Vars:    system.NewMockEnv(nil),
		Prompts: &prompt.Scripted{},
	}
}

// App composes an application over this environment.
func (e *Env) App(cfg *config.Configuration) *app.App {
	return app.New(
		app.WithConfig(cfg),
		app.WithFS(e.FS),
		app.WithExecutor(e.Exec),
		app.WithEnv(e.Vars),
		app.WithPrompts(e.Prompts),
	)
}

// SampleConfig covers every domain with a small but realistic desired state.
func SampleConfig() *config.Configuration {
	showHidden := true
	return &config.Configuration{
		FileLocations: &config.FileLocations{
			DevelopmentRoot: "/work/dev",
			DefaultFolders:  []string{"Projects"},
		},
		Terminal: &config.Terminal{
			SettingsPath: "/term/settings.json",
			FontFace:     "Cascadia Code",
		},
		Software: &config.Software{
			Applications: []config.Application{
				{Name: "Git", ID: "Git.Git", Source: config.SourceWinget},
			},
		},
		Explorer: &config.Explorer{
			ShowHidden: &showHidden,
		},
		GitHub: &config.GitHub{
			UserName:  "Jane Dev",
			UserEmail: "jane@example.com",
		},
	}
}
