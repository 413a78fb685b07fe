package terminal

import (
	"context"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/rigforge/rigctl/internal/system"
)

// Markers delimiting the prompt block rigctl owns inside the shell profile.
// Everything outside the markers is user territory and never touched.
const (
	promptMarkerBegin = "# >>> rigctl prompt >>>"
	promptMarkerEnd   = "# <<< rigctl prompt <<<"
)

// PoshEngine adapts the oh-my-posh themed prompt engine.
type PoshEngine struct {
	Exec system.CommandExecutor
}

// Installed reports whether the engine binary is on PATH.
func (p *PoshEngine) Installed(ctx context.Context) bool {
	return p.Exec.LookPath("oh-my-posh")
}

// InitLine returns the profile line that activates the engine.
func (p *PoshEngine) InitLine(themePath string) string {
	if themePath == "" {
		return "oh-my-posh init pwsh | Invoke-Expression"
	}
	return fmt.Sprintf("oh-my-posh init pwsh --config \"%s\" | Invoke-Expression", themePath)
}

// BuiltinTheme configures the composable built-in prompt. Segments toggle
// independently; colors key by segment name.
type BuiltinTheme struct {
	Segments struct {
		Directory bool `toml:"directory"`
		VCS       bool `toml:"vcs"`
		Timestamp bool `toml:"timestamp"`
	} `toml:"segments"`
	Timestamp struct {
		Format string `toml:"format"`
	} `toml:"timestamp"`
	Colors map[string]string `toml:"colors"`
}

// DefaultBuiltinTheme is used when no theme file is configured or the
// configured one cannot be read.
func DefaultBuiltinTheme() BuiltinTheme {
	var t BuiltinTheme
	t.Segments.Directory = true
	t.Segments.VCS = true
	t.Segments.Timestamp = false
	t.Timestamp.Format = "HH:mm:ss"
	t.Colors = map[string]string{
		"directory": "#61afef",
		"vcs":       "#98c379",
		"timestamp": "#5c6370",
	}
	return t
}

// LoadBuiltinTheme reads a TOML theme file.
func LoadBuiltinTheme(filesystem system.FileSystem, path string) (BuiltinTheme, error) {
	theme := DefaultBuiltinTheme()
	data, err := filesystem.ReadFile(path)
	if err != nil {
		return theme, fmt.Errorf("read prompt theme: %w", err)
	}
	if err := toml.Unmarshal(data, &theme); err != nil {
		return theme, fmt.Errorf("parse prompt theme: %w", err)
	}
	return theme, nil
}

// ComposeBuiltinPrompt renders the shell prompt function for the theme:
// current directory, VCS branch with a dirty flag, and a timestamp, each
// independently toggleable.
func ComposeBuiltinPrompt(theme BuiltinTheme) string {
	var b strings.Builder
	b.WriteString("function prompt {\n")
	if theme.Segments.Directory {
		fmt.Fprintf(&b, "    Write-Host (Get-Location) -NoNewline -ForegroundColor '%s'\n",
			theme.Colors["directory"])
	}
	if theme.Segments.VCS {
		b.WriteString("    $branch = git rev-parse --abbrev-ref HEAD 2>$null\n")
		b.WriteString("    if ($branch) {\n")
		b.WriteString("        $dirty = if (git status --porcelain 2>$null) { '*' } else { '' }\n")
		fmt.Fprintf(&b, "        Write-Host \" ($branch$dirty)\" -NoNewline -ForegroundColor '%s'\n",
			theme.Colors["vcs"])
		b.WriteString("    }\n")
	}
	if theme.Segments.Timestamp {
		fmt.Fprintf(&b, "    Write-Host \" $(Get-Date -Format '%s')\" -NoNewline -ForegroundColor '%s'\n",
			theme.Timestamp.Format, theme.Colors["timestamp"])
	}
	b.WriteString("    return \"> \"\n")
	b.WriteString("}\n")
	return b.String()
}

// renderPromptBlock wraps content in the rigctl markers.
func renderPromptBlock(content string) string {
	return promptMarkerBegin + "\n" + strings.TrimRight(content, "\n") + "\n" + promptMarkerEnd + "\n"
}

// upsertPromptBlock replaces the marker-delimited block in profile, or
// appends it when absent. Reports whether the profile changed.
func upsertPromptBlock(profile, content string) (string, bool) {
	block := renderPromptBlock(content)

	begin := strings.Index(profile, promptMarkerBegin)
	end := strings.Index(profile, promptMarkerEnd)
	if begin >= 0 && end > begin {
		end += len(promptMarkerEnd)
		if end < len(profile) && profile[end] == '\n' {
			end++
		}
		updated := profile[:begin] + block + profile[end:]
		return updated, updated != profile
	}

	if profile != "" && !strings.HasSuffix(profile, "\n") {
		profile += "\n"
	}
	return profile + block, true
}

// ProfileWriter maintains the prompt block in the shell profile file.
type ProfileWriter struct {
	Path string
	FS   system.FileSystem
}

func (w *ProfileWriter) current() string {
	data, err := w.FS.ReadFile(w.Path)
	if err != nil {
		return ""
	}
	return string(data)
}

// UpToDate reports whether the profile already carries exactly this block.
func (w *ProfileWriter) UpToDate(content string) bool {
	_, changed := upsertPromptBlock(w.current(), content)
	return !changed
}

// Write upserts the block and persists the profile.
func (w *ProfileWriter) Write(content string) error {
	updated, changed := upsertPromptBlock(w.current(), content)
	if !changed {
		return nil
	}
	return w.FS.WriteFile(w.Path, []byte(updated), 0644)
}
