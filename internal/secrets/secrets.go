// Package secrets resolves credentials and key material from a secrets
// vault. The identity domain consults it lazily, only when a change needs a
// secret, and falls back to its manual path when the vault is unavailable.
package secrets

import (
	"context"
	"strings"
	"sync"

	"github.com/rigforge/rigctl/internal/errors"
	"github.com/rigforge/rigctl/internal/logging"
	"github.com/rigforge/rigctl/internal/system"
)

// Ref is an opaque handle to one secret. The resolved value is never logged
// and never cached beyond the operation that needs it.
type Ref struct {
	Item  string
	Field string
	Vault string
}

// Provider is the vault contract.
type Provider interface {
	// Authenticate establishes a session. Attempted at most once per run;
	// the result is memoized and every fetch after a failure short-circuits.
	Authenticate(ctx context.Context) bool

	// GetSecret resolves a field of a vault item.
	GetSecret(ctx context.Context, ref Ref) (string, error)

	// ImportKeyMaterial downloads a vault document to a local path.
	ImportKeyMaterial(ctx context.Context, ref Ref, destination string) error
}

// OnePassword implements Provider over the op CLI.
type OnePassword struct {
	Exec    system.CommandExecutor
	Account string
	Vault   string

	authOnce sync.Once
	authOK   bool
}

func (p *OnePassword) accountArgs() []string {
	if p.Account == "" {
		return nil
	}
	return []string{"--account", p.Account}
}

func (p *OnePassword) vaultFor(ref Ref) []string {
	vault := ref.Vault
	if vault == "" {
		vault = p.Vault
	}
	if vault == "" {
		return nil
	}
	return []string{"--vault", vault}
}

// Authenticate checks for a live session and signs in interactively if
// needed. Memoized: later calls return the first outcome without prompting
// again.
func (p *OnePassword) Authenticate(ctx context.Context) bool {
	p.authOnce.Do(func() {
		if !p.Exec.LookPath("op") {
			logging.UserWarning("1Password CLI (op) not found; vault-backed steps fall back to manual setup")
			return
		}

		check := append([]string{"account", "get"}, p.accountArgs()...)
		if _, err := p.Exec.Execute(ctx, "op", check...); err == nil {
			p.authOK = true
			return
		}

		logging.UserInfo("Signing in to 1Password")
		signin := append([]string{"signin"}, p.accountArgs()...)
		if err := p.Exec.ExecuteInteractive(ctx, "op", signin...); err != nil {
			logging.UserWarning("1Password sign-in failed; vault-backed steps fall back to manual setup")
			return
		}
		_, err := p.Exec.Execute(ctx, "op", check...)
		p.authOK = err == nil
	})
	return p.authOK
}

func (p *OnePassword) GetSecret(ctx context.Context, ref Ref) (string, error) {
	if !p.Authenticate(ctx) {
		return "", errors.SecretUnavailable(nil)
	}

	args := []string{"item", "get", ref.Item, "--field", ref.Field, "--reveal"}
	args = append(args, p.vaultFor(ref)...)
	args = append(args, p.accountArgs()...)

	out, err := p.Exec.Execute(ctx, "op", args...)
	if err != nil {
		logging.Debug("op item get failed", "item", ref.Item, "field", ref.Field, "error", err)
		return "", errors.SecretNotFound(ref.Item, ref.Field)
	}
	value := strings.TrimSpace(string(out))
	if value == "" {
		return "", errors.SecretNotFound(ref.Item, ref.Field)
	}
	return value, nil
}

func (p *OnePassword) ImportKeyMaterial(ctx context.Context, ref Ref, destination string) error {
	if !p.Authenticate(ctx) {
		return errors.SecretUnavailable(nil)
	}

	args := []string{"document", "get", ref.Item, "--output", destination}
	args = append(args, p.vaultFor(ref)...)
	args = append(args, p.accountArgs()...)

	if _, err := p.Exec.Execute(ctx, "op", args...); err != nil {
		logging.Debug("op document get failed", "item", ref.Item, "error", err)
		return errors.SecretNotFound(ref.Item, "document")
	}
	logging.Debug("key material imported", "item", ref.Item, "destination", destination)
	return nil
}
