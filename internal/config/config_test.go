package config

import (
	"fmt"
	"strings"
	"testing"

	rigerrors "github.com/rigforge/rigctl/internal/errors"
	"github.com/rigforge/rigctl/internal/system"
)

const sampleConfig = `{
  "fileLocations": {
    "developmentRoot": "%USERPROFILE%\\Dev",
    "projectsRoot": "%USERPROFILE%\\Dev\\Projects",
    "githubRoot": "%USERPROFILE%\\Dev\\GitHub",
    "defaultFolders": ["Projects", "Scratch"]
  },
  "terminal": {
    "settingsPath": "%LOCALAPPDATA%\\terminal\\settings.json",
    "fontFace": "Cascadia Code",
    "fontSize": 11,
    "colorScheme": "One Half Dark"
  },
  "software": {
    "applications": [
      {"name": "Git", "id": "Git.Git", "source": "winget"},
      {"name": "7-Zip", "id": "7zip", "source": "chocolatey"}
    ],
    "extensions": ["golang.go"]
  },
  "explorer": {"hideFileExt": false, "showHidden": true},
  "github": {"userName": "Ada", "userEmail": "ada@example.com"},
  "1password": {"account": "my.1password.com"},
  "futureSection": {"ignored": true}
}`

func TestLoad(t *testing.T) {
	fs := system.NewMockFS()
	fs.AddFile("/cfg/config.json", []byte(sampleConfig), 0644)

	cfg, err := Load("/cfg/config.json", fs)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.FileLocations == nil || len(cfg.FileLocations.DefaultFolders) != 2 {
		t.Errorf("fileLocations not decoded: %+v", cfg.FileLocations)
	}
	if cfg.Terminal.FontSize != 11 {
		t.Errorf("fontSize = %d", cfg.Terminal.FontSize)
	}
	if len(cfg.Software.Applications) != 2 || cfg.Software.Applications[1].Source != SourceChocolatey {
		t.Errorf("applications not decoded: %+v", cfg.Software.Applications)
	}
	if cfg.Explorer.HideFileExt == nil || *cfg.Explorer.HideFileExt {
		t.Error("hideFileExt should decode to false (set)")
	}
	if cfg.Explorer.CompactView != nil {
		t.Error("unset optional flag should stay nil")
	}
	if cfg.OnePassword == nil || cfg.OnePassword.Account != "my.1password.com" {
		t.Errorf("1password section not decoded: %+v", cfg.OnePassword)
	}
}

func TestLoad_NotFound(t *testing.T) {
	fs := system.NewMockFS()

	_, err := Load("/cfg/missing.json", fs)
	if err == nil {
		t.Fatal("expected error")
	}
	if rigerrors.KindOf(err) != rigerrors.KindConfig {
		t.Errorf("expected config error kind, got %q", rigerrors.KindOf(err))
	}
	if rigerrors.GetExitCode(err) != rigerrors.ExitConfigError {
		t.Errorf("exit code = %d", rigerrors.GetExitCode(err))
	}
}

func TestLoad_ReadFailure(t *testing.T) {
	fs := system.NewMockFS()
	fs.AddFile("/cfg/config.json", []byte(sampleConfig), 0644)
	fs.ReadFileErr = fmt.Errorf("permission denied")

	_, err := Load("/cfg/config.json", fs)
	if err == nil {
		t.Fatal("expected read error")
	}
	if strings.Contains(err.Error(), "not found") {
		t.Errorf("unreadable file misreported as missing: %v", err)
	}
	if !strings.Contains(err.Error(), "permission denied") {
		t.Errorf("error should carry the cause: %v", err)
	}
	if rigerrors.GetExitCode(err) != rigerrors.ExitConfigError {
		t.Errorf("exit code = %d", rigerrors.GetExitCode(err))
	}
}

func TestLoad_ParseError(t *testing.T) {
	fs := system.NewMockFS()
	fs.AddFile("/cfg/config.json", []byte("{not json"), 0644)

	_, err := Load("/cfg/config.json", fs)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "parse") {
		t.Errorf("error should mention parsing: %v", err)
	}
}

func TestLoad_InvalidSource(t *testing.T) {
	fs := system.NewMockFS()
	fs.AddFile("/cfg/config.json", []byte(`{
	  "software": {"applications": [{"name": "X", "id": "x", "source": "apt"}]}
	}`), 0644)

	_, err := Load("/cfg/config.json", fs)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "apt") {
		t.Errorf("error should name the bad source: %v", err)
	}
}

func TestValidate_PromptEngine(t *testing.T) {
	cfg := &Configuration{Terminal: &Terminal{Prompt: &Prompt{Engine: "starship"}}}
	err := cfg.Validate()
	if err == nil {
		t.Error("unknown prompt engine should fail validation")
	}
	if rigerrors.KindOf(err) != rigerrors.KindConfig {
		t.Errorf("validation failures carry the config kind, got %q", rigerrors.KindOf(err))
	}

	cfg.Terminal.Prompt.Engine = PromptEngineBuiltin
	if err := cfg.Validate(); err != nil {
		t.Errorf("builtin engine should validate: %v", err)
	}
}

func TestExpander(t *testing.T) {
	env := system.NewMockEnv(map[string]string{
		"USERPROFILE": `C:\Users\dev`,
		"HOME":        "/home/dev",
	})
	ex := Expander{Env: env}

	tests := []struct {
		in   string
		want string
	}{
		{`%USERPROFILE%\Dev`, `C:\Users\dev\Dev`},
		{"$HOME/dev", "/home/dev/dev"},
		{"${HOME}/dev", "/home/dev/dev"},
		{"%UNSET%/x", "/x"},
		{"plain", "plain"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ex.Expand(tt.in); got != tt.want {
			t.Errorf("Expand(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExpander_LazyReEvaluation(t *testing.T) {
	env := system.NewMockEnv(map[string]string{"DEV_HOME": "/old"})
	ex := Expander{Env: env}

	if got := ex.Expand("%DEV_HOME%/sub"); got != "/old/sub" {
		t.Fatalf("first expansion = %q", got)
	}

	// Expansion context changed mid-run; a later consumption sees the
	// new value because expansion happens per-field, not at load.
	_ = env.Set("DEV_HOME", "/new")
	if got := ex.Expand("%DEV_HOME%/sub"); got != "/new/sub" {
		t.Errorf("re-expansion = %q, want /new/sub", got)
	}
}

func TestGitHub_SigningWanted(t *testing.T) {
	tr, fa := true, false

	if (&GitHub{}).SigningWanted() {
		t.Error("no flags: signing not wanted")
	}
	if (&GitHub{CommitSigning: &fa, TagSigning: &fa}).SigningWanted() {
		t.Error("explicit false flags: signing not wanted")
	}
	if !(&GitHub{CommitSigning: &tr}).SigningWanted() {
		t.Error("commit signing on: signing wanted")
	}
	if !(&GitHub{TagSigning: &tr}).SigningWanted() {
		t.Error("tag signing on: signing wanted")
	}
}
