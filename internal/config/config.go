// Package config loads and validates the rigctl configuration file.
//
// The configuration is a JSON document loaded once per run. Environment
// variables inside path fields are expanded lazily at consumption time, not
// at load, so one loaded Configuration serves every domain even when the
// expansion context changes mid-run.
package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/rigforge/rigctl/internal/errors"
	"github.com/rigforge/rigctl/internal/system"
)

// Configuration is the immutable desired-state tree. Missing sections mean
// "skip that domain's sub-features"; unknown JSON keys are ignored.
type Configuration struct {
	FileLocations *FileLocations `json:"fileLocations"`
	Terminal      *Terminal      `json:"terminal"`
	Software      *Software      `json:"software"`
	Explorer      *Explorer      `json:"explorer"`
	GitHub        *GitHub        `json:"github"`
	OnePassword   *OnePassword   `json:"1password"`
}

// FileLocations describes the desired directory layout and the two
// process-wide environment variables derived from it.
type FileLocations struct {
	DevelopmentRoot string   `json:"developmentRoot"`
	ProjectsRoot    string   `json:"projectsRoot"`
	GitHubRoot      string   `json:"githubRoot"`
	DefaultFolders  []string `json:"defaultFolders"`
}

// Terminal describes the desired terminal appearance and prompt.
type Terminal struct {
	SettingsPath string            `json:"settingsPath"`
	FontFace     string            `json:"fontFace"`
	FontSize     int               `json:"fontSize"`
	ColorScheme  string            `json:"colorScheme"`
	SchemeColors map[string]string `json:"schemeColors"`
	CursorShape  string            `json:"cursorShape"`
	Prompt       *Prompt           `json:"prompt"`
}

// Prompt engine selection. Engine "oh-my-posh" delegates to the themed
// prompt engine; "builtin" renders the composable prompt from the TOML
// theme at ThemePath.
type Prompt struct {
	Engine      string `json:"engine"`
	ThemePath   string `json:"themePath"`
	ProfilePath string `json:"profilePath"`
}

// Prompt engines.
const (
	PromptEngineOhMyPosh = "oh-my-posh"
	PromptEngineBuiltin  = "builtin"
)

// Software lists the applications and IDE extensions to install.
type Software struct {
	Applications []Application `json:"applications"`
	Extensions   []string      `json:"extensions"`
}

// Application describes one installable package. Identity is (ID, Source);
// an Application is read from config and never mutated.
type Application struct {
	Name   string `json:"name"`
	ID     string `json:"id"`
	Source string `json:"source"`
	Pin    string `json:"pin,omitempty"`
}

// Package sources accepted in Application.Source.
const (
	SourceWinget     = "winget"
	SourceChocolatey = "chocolatey"
)

// Explorer maps boolean config flags 1:1 to OS display preferences.
// Nil means "leave that preference alone".
type Explorer struct {
	HideFileExt          *bool `json:"hideFileExt"`
	ShowHidden           *bool `json:"showHidden"`
	ShowProtectedOSFiles *bool `json:"showProtectedOsFiles"`
	LaunchToThisPC       *bool `json:"launchToThisPc"`
	CompactView          *bool `json:"compactView"`
}

// IsEmpty reports whether no explorer preference is configured.
func (e *Explorer) IsEmpty() bool {
	return e.HideFileExt == nil && e.ShowHidden == nil && e.ShowProtectedOSFiles == nil &&
		e.LaunchToThisPC == nil && e.CompactView == nil
}

// GitHub describes the desired Git/GitHub identity.
type GitHub struct {
	UserName      string `json:"userName"`
	UserEmail     string `json:"userEmail"`
	DefaultBranch string `json:"defaultBranch"`
	PullRebase    *bool  `json:"pullRebase"`

	SSHKeyPath      string `json:"sshKeyPath"`
	SSHKeyVaultItem string `json:"sshKeyVaultItem"`

	CommitSigning       *bool  `json:"commitSigning"`
	TagSigning          *bool  `json:"tagSigning"`
	SigningKey          string `json:"signingKey"`
	SigningKeyVaultItem string `json:"signingKeyVaultItem"`
	SigningProgram      string `json:"signingProgram"`

	Authenticate *bool `json:"authenticate"`
}

// SigningWanted reports whether any signing flag is enabled.
func (g *GitHub) SigningWanted() bool {
	return (g.CommitSigning != nil && *g.CommitSigning) ||
		(g.TagSigning != nil && *g.TagSigning)
}

// OnePassword identifies the secrets vault backing the identity domain.
type OnePassword struct {
	Account string `json:"account"`
	Vault   string `json:"vault"`
}

// Validate checks cross-field constraints that JSON decoding cannot express.
func (c *Configuration) Validate() error {
	if c.Software != nil {
		for i, app := range c.Software.Applications {
			if app.ID == "" {
				return errors.ValidationError(fmt.Sprintf("software.applications[%d]: id is required", i))
			}
			switch app.Source {
			case SourceWinget, SourceChocolatey:
			default:
				return errors.ValidationError(fmt.Sprintf("software.applications[%d] (%s): invalid source %q (must be %s or %s)",
					i, app.ID, app.Source, SourceWinget, SourceChocolatey))
			}
		}
	}

	if c.Terminal != nil && c.Terminal.Prompt != nil {
		switch c.Terminal.Prompt.Engine {
		case "", PromptEngineOhMyPosh, PromptEngineBuiltin:
		default:
			return errors.ValidationError(fmt.Sprintf("terminal.prompt.engine: invalid engine %q (must be %s or %s)",
				c.Terminal.Prompt.Engine, PromptEngineOhMyPosh, PromptEngineBuiltin))
		}
	}

	if c.Terminal != nil && c.Terminal.FontSize < 0 {
		return errors.ValidationError("terminal.fontSize: must not be negative")
	}

	return nil
}

// Load reads and validates the configuration file at path.
func Load(path string, filesystem system.FileSystem) (*Configuration, error) {
	data, err := filesystem.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) || errors.Is(err, fs.ErrNotExist) {
			return nil, errors.ConfigNotFound(path, err)
		}
		return nil, errors.ConfigInvalid(fmt.Sprintf("failed to read configuration: %s", path), err)
	}

	var cfg Configuration
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.ConfigParse(path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.ConfigInvalid("invalid configuration", err)
	}

	return &cfg, nil
}

// percentVarRe matches Windows-style %NAME% references.
var percentVarRe = regexp.MustCompile(`%([A-Za-z_][A-Za-z0-9_]*)%`)

// Expander expands environment-variable references in config values against
// an explicit environment context. Supports $NAME, ${NAME} and %NAME%.
type Expander struct {
	Env system.EnvStore
}

// Expand substitutes variable references in s. Unset variables expand to "".
func (e Expander) Expand(s string) string {
	if s == "" {
		return ""
	}
	expanded := percentVarRe.ReplaceAllStringFunc(s, func(m string) string {
		name := strings.Trim(m, "%")
		return e.Env.Get(name)
	})
	return os.Expand(expanded, e.Env.Get)
}
