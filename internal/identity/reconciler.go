package identity

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rigforge/rigctl/internal/config"
	"github.com/rigforge/rigctl/internal/errors"
	"github.com/rigforge/rigctl/internal/logging"
	"github.com/rigforge/rigctl/internal/prompt"
	"github.com/rigforge/rigctl/internal/reconcile"
	"github.com/rigforge/rigctl/internal/secrets"
	"github.com/rigforge/rigctl/internal/state"
	"github.com/rigforge/rigctl/internal/system"
)

// Stage marks how far the identity reconciliation progressed in this run.
// A failed change parks the machine at the last completed stage; there is
// no rollback.
type Stage int

const (
	StageUnconfigured Stage = iota
	StageKeyMaterialResolved
	StageGitSettingsApplied
	StageSigningVerified
	StageAuthenticated
)

func (s Stage) String() string {
	switch s {
	case StageKeyMaterialResolved:
		return "key material resolved"
	case StageGitSettingsApplied:
		return "git settings applied"
	case StageSigningVerified:
		return "signing verified"
	case StageAuthenticated:
		return "authenticated"
	default:
		return "unconfigured"
	}
}

// Reconciler compares the configured identity with global git state, the
// keyring, and the forge session. The vault is consulted lazily, only from
// a change that needs it.
type Reconciler struct {
	Config  *config.GitHub
	FS      system.FileSystem
	Exec    system.CommandExecutor
	Expand  config.Expander
	Vault   secrets.Provider
	Prompts prompt.Provider

	progress Stage
}

func (r *Reconciler) Domain() reconcile.Domain {
	return reconcile.DomainIdentity
}

// Stage reports the furthest transition completed during Apply this run.
func (r *Reconciler) Stage() Stage {
	return r.progress
}

func (r *Reconciler) advance(s Stage) {
	if s > r.progress {
		r.progress = s
	}
}

// staged wraps a change so a successful apply records its stage.
func (r *Reconciler) staged(s Stage, c reconcile.Change) reconcile.Change {
	run := c.Run
	if run == nil {
		return c
	}
	c.Run = func(ctx context.Context) error {
		if err := run(ctx); err != nil {
			return err
		}
		r.advance(s)
		return nil
	}
	return c
}

type setting struct {
	Key   string
	Value string
}

// baseSettings returns the non-signing git settings the config asks for.
func (r *Reconciler) baseSettings() []setting {
	var out []setting
	if r.Config.UserName != "" {
		out = append(out, setting{"user.name", r.Config.UserName})
	}
	if r.Config.UserEmail != "" {
		out = append(out, setting{"user.email", r.Config.UserEmail})
	}
	if r.Config.DefaultBranch != "" {
		out = append(out, setting{"init.defaultBranch", r.Config.DefaultBranch})
	}
	if r.Config.PullRebase != nil {
		out = append(out, setting{"pull.rebase", strconv.FormatBool(*r.Config.PullRebase)})
	}
	return out
}

// signingSettings returns the signing batch. Each entry is compared and
// applied individually.
func (r *Reconciler) signingSettings() []setting {
	if !r.Config.SigningWanted() {
		return nil
	}
	var out []setting
	if r.Config.CommitSigning != nil {
		out = append(out, setting{"commit.gpgsign", strconv.FormatBool(*r.Config.CommitSigning)})
	}
	if r.Config.TagSigning != nil {
		out = append(out, setting{"tag.gpgsign", strconv.FormatBool(*r.Config.TagSigning)})
	}
	if r.Config.SigningKey != "" {
		out = append(out, setting{"user.signingkey", r.Config.SigningKey})
	}
	if r.Config.SigningProgram != "" {
		out = append(out, setting{"gpg.program", r.Config.SigningProgram})
	}
	return out
}

func (r *Reconciler) sshKeyPath() string {
	return r.Expand.Expand(r.Config.SSHKeyPath)
}

func (r *Reconciler) wantsAuth() bool {
	return r.Config.Authenticate != nil && *r.Config.Authenticate
}

// Probe snapshots key presence, global git settings, the keyring, and the
// forge session. Read-only throughout.
func (r *Reconciler) Probe(ctx context.Context) *state.Snapshot {
	snap := state.New()
	if r.Config == nil {
		return snap
	}

	if path := r.sshKeyPath(); path != "" {
		snap.SetBool("SSHKey", r.FS.Exists(path))
	}

	git := &GitConfig{Exec: r.Exec}
	snap.SetBool("GitCLI", git.Available(ctx))
	if git.Available(ctx) {
		for _, s := range append(r.baseSettings(), r.signingSettings()...) {
			snap.SetString("Git:"+s.Key, git.Get(ctx, s.Key))
		}
	}

	if r.Config.SigningWanted() {
		gpg := &GPG{Exec: r.Exec}
		available := gpg.Available(ctx)
		snap.SetBool("GPGAvailable", available)
		if r.Config.SigningKey != "" {
			snap.SetBool("SigningKeyPresent", available && gpg.HasSecretKey(ctx, r.Config.SigningKey))
		}
	}

	if r.wantsAuth() {
		gh := &GitHubCLI{Exec: r.Exec}
		snap.SetBool("Authenticated", gh.Available(ctx) && gh.Authenticated(ctx))
	}

	return snap
}

// Desired returns the target state under the same keys as Probe.
func (r *Reconciler) Desired() *state.Snapshot {
	snap := state.New()
	if r.Config == nil {
		return snap
	}

	if r.sshKeyPath() != "" {
		snap.SetBool("SSHKey", true)
	}
	snap.SetBool("GitCLI", true)
	for _, s := range append(r.baseSettings(), r.signingSettings()...) {
		snap.SetString("Git:"+s.Key, s.Value)
	}
	if r.Config.SigningWanted() {
		snap.SetBool("GPGAvailable", true)
		if r.Config.SigningKey != "" {
			snap.SetBool("SigningKeyPresent", true)
		}
	}
	if r.wantsAuth() {
		snap.SetBool("Authenticated", true)
	}

	return snap
}

// Plan stages the identity corrections: key material, git settings, signing,
// then authentication. A signing validation failure is returned as an error
// alongside the partial plan so the other stages still apply.
func (r *Reconciler) Plan(snap *state.Snapshot) (reconcile.Plan, error) {
	if r.Config == nil {
		return nil, nil
	}

	var plan reconcile.Plan

	if path := r.sshKeyPath(); path != "" && !snap.Bool("SSHKey") {
		plan = append(plan, r.staged(StageKeyMaterialResolved, r.keyMaterialChange(path)))
	}

	gitUp := snap.Bool("GitCLI")
	if !gitUp {
		plan = append(plan, reconcile.Change{
			Desc: "Install git manually to configure identity settings",
		})
	} else {
		git := &GitConfig{Exec: r.Exec}
		for _, s := range r.baseSettings() {
			if snap.String("Git:"+s.Key) != s.Value {
				plan = append(plan, r.staged(StageGitSettingsApplied, setChange(git, s)))
			}
		}
	}

	if r.Config.SigningWanted() {
		signingPlan, err := r.planSigning(snap, gitUp)
		plan = append(plan, signingPlan...)
		if err != nil {
			return plan, err
		}
	}

	if r.wantsAuth() && !snap.Bool("Authenticated") {
		gh := &GitHubCLI{Exec: r.Exec}
		plan = append(plan, r.staged(StageAuthenticated, reconcile.Change{
			Desc: "Authenticate with GitHub (gh auth login)",
			Run: func(ctx context.Context) error {
				if !gh.Available(ctx) {
					return fmt.Errorf("gh not found on PATH")
				}
				if !r.Prompts.Confirm("Open an interactive GitHub login now?", true) {
					return fmt.Errorf("github authentication declined")
				}
				return gh.Login(ctx)
			},
		}))
	}

	return plan, nil
}

// planSigning runs the secondary validation that enabling signing demands:
// the backend must exist and a key must be selected and present. It reads
// the snapshot only; the live system is consulted by Probe and Apply, never
// here.
func (r *Reconciler) planSigning(snap *state.Snapshot, gitUp bool) (reconcile.Plan, error) {
	if !snap.Bool("GPGAvailable") {
		return nil, errors.PlanFailed(string(r.Domain()), "signing enabled but signing backend (gpg) is not installed")
	}
	if r.Config.SigningKey == "" {
		return nil, errors.PlanFailed(string(r.Domain()), "signing enabled but no signing key is selected")
	}

	var plan reconcile.Plan

	if !snap.Bool("SigningKeyPresent") {
		if r.Config.SigningKeyVaultItem == "" {
			return nil, errors.PlanFailed(string(r.Domain()),
				fmt.Sprintf("signing key %s not found in keyring and no vault item is configured", r.Config.SigningKey))
		}
		plan = append(plan, r.staged(StageSigningVerified, r.importSigningKeyChange(&GPG{Exec: r.Exec})))
	}

	if gitUp {
		git := &GitConfig{Exec: r.Exec}
		for _, s := range r.signingSettings() {
			if snap.String("Git:"+s.Key) != s.Value {
				plan = append(plan, r.staged(StageSigningVerified, setChange(git, s)))
			}
		}
	}

	return plan, nil
}

func setChange(git *GitConfig, s setting) reconcile.Change {
	return reconcile.Change{
		Desc: fmt.Sprintf("Set git %s=%s", s.Key, s.Value),
		Run: func(ctx context.Context) error {
			return git.Set(ctx, s.Key, s.Value)
		},
	}
}

// keyMaterialChange resolves the SSH key: vault import when an item is
// configured, generation otherwise. A failed vault import, or a configured
// item with no vault wired, falls back to generation after operator consent
// instead of aborting.
func (r *Reconciler) keyMaterialChange(path string) reconcile.Change {
	item := r.Config.SSHKeyVaultItem
	desc := fmt.Sprintf("Generate SSH key: %s", path)
	if item != "" {
		desc = fmt.Sprintf("Import SSH key from vault: %s -> %s", item, path)
	}

	return reconcile.Change{
		Desc: desc,
		Run: func(ctx context.Context) error {
			if dir := filepath.Dir(path); dir != "." {
				if err := r.FS.MkdirAll(dir, 0700); err != nil {
					return err
				}
			}

			if item != "" {
				var err error = errors.SecretUnavailable(nil)
				if r.Vault != nil {
					err = r.Vault.ImportKeyMaterial(ctx, secrets.Ref{Item: item}, path)
				}
				if err == nil {
					return nil
				}
				logging.UserWarning("Vault import of %s failed: %v", item, err)
				if !r.Prompts.Confirm(fmt.Sprintf("Generate a new SSH key at %s instead?", path), true) {
					return fmt.Errorf("ssh key unresolved: vault import failed and generation declined")
				}
			}

			keygen := &KeyGen{Exec: r.Exec}
			return keygen.Generate(ctx, path, r.Config.UserEmail)
		},
	}
}

// importSigningKeyChange pulls the signing key from the vault into a
// temporary file, imports it, and removes the file.
func (r *Reconciler) importSigningKeyChange(gpg *GPG) reconcile.Change {
	item := r.Config.SigningKeyVaultItem
	return reconcile.Change{
		Desc: fmt.Sprintf("Import signing key from vault: %s", item),
		Run: func(ctx context.Context) error {
			if r.Vault == nil {
				return errors.SecretUnavailable(nil)
			}
			dest := filepath.Join(os.TempDir(), "rigctl-signing-key.asc")
			if err := r.Vault.ImportKeyMaterial(ctx, secrets.Ref{Item: item}, dest); err != nil {
				return err
			}
			defer func() {
				if err := r.FS.Remove(dest); err != nil {
					logging.Debug("temp key cleanup failed", "path", dest, "error", err)
				}
			}()
			return gpg.Import(ctx, dest)
		},
	}
}
