package terminal

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rigforge/rigctl/internal/config"
	"github.com/rigforge/rigctl/internal/logging"
	"github.com/rigforge/rigctl/internal/reconcile"
	"github.com/rigforge/rigctl/internal/state"
	"github.com/rigforge/rigctl/internal/system"
)

// Reconciler compares the desired terminal appearance and prompt with the
// live settings document and shell profile.
type Reconciler struct {
	Config *config.Terminal
	FS     system.FileSystem
	Exec   system.CommandExecutor
	Expand config.Expander
}

func (r *Reconciler) Domain() reconcile.Domain {
	return reconcile.DomainTerminal
}

func (r *Reconciler) store() *SettingsStore {
	return &SettingsStore{Path: r.Expand.Expand(r.Config.SettingsPath), FS: r.FS}
}

func (r *Reconciler) profile() *ProfileWriter {
	return &ProfileWriter{Path: r.Expand.Expand(r.Config.Prompt.ProfilePath), FS: r.FS}
}

// promptContent renders the desired profile block for the configured engine.
func (r *Reconciler) promptContent(ctx context.Context) (string, bool) {
	p := r.Config.Prompt
	switch p.Engine {
	case config.PromptEngineOhMyPosh:
		engine := &PoshEngine{Exec: r.Exec}
		if !engine.Installed(ctx) {
			return "", false
		}
		return engine.InitLine(r.Expand.Expand(p.ThemePath)), true
	case config.PromptEngineBuiltin:
		theme := DefaultBuiltinTheme()
		if p.ThemePath != "" {
			loaded, err := LoadBuiltinTheme(r.FS, r.Expand.Expand(p.ThemePath))
			if err != nil {
				logging.Warn("prompt theme unreadable, using defaults", "error", err)
			} else {
				theme = loaded
			}
		}
		return ComposeBuiltinPrompt(theme), true
	default:
		return "", false
	}
}

// Probe snapshots the settings document and the profile prompt block.
func (r *Reconciler) Probe(ctx context.Context) *state.Snapshot {
	snap := state.New()
	if r.Config == nil {
		return snap
	}

	store := r.store()
	snap.SetBool("SettingsStore", store.Exists())
	if store.Exists() {
		snap.SetString("Font.Face", store.Get(keyFontFace).String())
		snap.SetString("Font.Size", store.Get(keyFontSize).String())
		snap.SetString("ColorScheme", store.Get(keyColorScheme).String())
		snap.SetString("CursorShape", store.Get(keyCursorShape).String())
		if r.Config.ColorScheme != "" && len(r.Config.SchemeColors) > 0 {
			snap.SetBool("Scheme:"+r.Config.ColorScheme,
				store.SchemeMatches(r.Config.ColorScheme, r.Config.SchemeColors))
		}
	}

	if p := r.Config.Prompt; p != nil && p.Engine != "" && p.ProfilePath != "" {
		if p.Engine == config.PromptEngineOhMyPosh {
			snap.SetBool("Prompt.Engine", (&PoshEngine{Exec: r.Exec}).Installed(ctx))
		}
		if content, ok := r.promptContent(ctx); ok {
			snap.SetBool("Prompt.Profile", r.profile().UpToDate(content))
		} else {
			snap.SetBool("Prompt.Profile", false)
		}
	}

	return snap
}

// Desired returns the target state using the same keys as Probe.
func (r *Reconciler) Desired() *state.Snapshot {
	snap := state.New()
	if r.Config == nil {
		return snap
	}

	snap.SetBool("SettingsStore", true)
	if r.Config.FontFace != "" {
		snap.SetString("Font.Face", r.Config.FontFace)
	}
	if r.Config.FontSize > 0 {
		snap.SetString("Font.Size", strconv.Itoa(r.Config.FontSize))
	}
	if r.Config.ColorScheme != "" {
		snap.SetString("ColorScheme", r.Config.ColorScheme)
		if len(r.Config.SchemeColors) > 0 {
			snap.SetBool("Scheme:"+r.Config.ColorScheme, true)
		}
	}
	if r.Config.CursorShape != "" {
		snap.SetString("CursorShape", r.Config.CursorShape)
	}
	if p := r.Config.Prompt; p != nil && p.Engine != "" && p.ProfilePath != "" {
		if p.Engine == config.PromptEngineOhMyPosh {
			snap.SetBool("Prompt.Engine", true)
		}
		snap.SetBool("Prompt.Profile", true)
	}

	return snap
}

// Plan lists the settings and prompt corrections. Appearance settings are
// only planned against an existing settings store; rigctl does not create
// one, it tells the user to.
func (r *Reconciler) Plan(snap *state.Snapshot) (reconcile.Plan, error) {
	if r.Config == nil {
		return nil, nil
	}

	var plan reconcile.Plan
	store := r.store()

	wantsAppearance := r.Config.FontFace != "" || r.Config.FontSize > 0 ||
		r.Config.ColorScheme != "" || r.Config.CursorShape != ""

	if !snap.Bool("SettingsStore") {
		if wantsAppearance {
			plan = append(plan, reconcile.Change{
				Desc: fmt.Sprintf("Create terminal settings store manually: %s (appearance settings skipped until it exists)", store.Path),
			})
		}
	} else {
		if r.Config.FontFace != "" && snap.String("Font.Face") != r.Config.FontFace {
			plan = append(plan, r.setChange(
				fmt.Sprintf("Set terminal font face: %s", r.Config.FontFace),
				keyFontFace, r.Config.FontFace))
		}
		if r.Config.FontSize > 0 && snap.String("Font.Size") != strconv.Itoa(r.Config.FontSize) {
			plan = append(plan, r.setChange(
				fmt.Sprintf("Set terminal font size: %d", r.Config.FontSize),
				keyFontSize, r.Config.FontSize))
		}
		if scheme := r.Config.ColorScheme; scheme != "" {
			if len(r.Config.SchemeColors) > 0 && !snap.Bool("Scheme:"+scheme) {
				colors := r.Config.SchemeColors
				plan = append(plan, reconcile.Change{
					Desc: fmt.Sprintf("Install color scheme: %s", scheme),
					Run: func(ctx context.Context) error {
						return store.WriteScheme(scheme, colors)
					},
				})
			}
			if snap.String("ColorScheme") != scheme {
				plan = append(plan, r.setChange(
					fmt.Sprintf("Set default color scheme: %s", scheme),
					keyColorScheme, scheme))
			}
		}
		if r.Config.CursorShape != "" && snap.String("CursorShape") != r.Config.CursorShape {
			plan = append(plan, r.setChange(
				fmt.Sprintf("Set cursor shape: %s", r.Config.CursorShape),
				keyCursorShape, r.Config.CursorShape))
		}
	}

	if p := r.Config.Prompt; p != nil && p.Engine != "" && p.ProfilePath != "" {
		if p.Engine == config.PromptEngineOhMyPosh && !snap.Bool("Prompt.Engine") {
			plan = append(plan, reconcile.Change{
				Desc: "Install oh-my-posh manually: winget install --id JanDeDobbeleer.OhMyPosh --exact",
			})
		} else if !snap.Bool("Prompt.Profile") {
			engineLabel := "built-in"
			if p.Engine == config.PromptEngineOhMyPosh {
				engineLabel = "oh-my-posh"
			}
			plan = append(plan, reconcile.Change{
				Desc: fmt.Sprintf("Configure %s prompt in profile: %s", engineLabel, r.profile().Path),
				Run: func(ctx context.Context) error {
					content, ok := r.promptContent(ctx)
					if !ok {
						return fmt.Errorf("prompt engine unavailable")
					}
					return r.profile().Write(content)
				},
			})
		}
	}

	return plan, nil
}

func (r *Reconciler) setChange(desc, key string, value any) reconcile.Change {
	store := r.store()
	return reconcile.Change{
		Desc: desc,
		Run: func(ctx context.Context) error {
			return store.Set(key, value)
		},
	}
}
