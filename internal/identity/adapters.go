// Package identity reconciles the Git/GitHub identity: SSH key material,
// global git settings, commit/tag signing, and forge authentication.
package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/rigforge/rigctl/internal/logging"
	"github.com/rigforge/rigctl/internal/system"
)

// GitConfig adapts global git configuration.
type GitConfig struct {
	Exec system.CommandExecutor
}

func (g *GitConfig) Available(ctx context.Context) bool {
	return g.Exec.LookPath("git")
}

// Get returns the global value for key, or "" when unset.
func (g *GitConfig) Get(ctx context.Context, key string) string {
	out, err := g.Exec.Execute(ctx, "git", "config", "--global", "--get", key)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

func (g *GitConfig) Set(ctx context.Context, key, value string) error {
	out, err := g.Exec.Execute(ctx, "git", "config", "--global", key, value)
	if err != nil {
		return fmt.Errorf("git config %s: %s: %w", key, strings.TrimSpace(string(out)), err)
	}
	return nil
}

// GitHubCLI adapts the forge CLI for authentication.
type GitHubCLI struct {
	Exec system.CommandExecutor
}

func (g *GitHubCLI) Available(ctx context.Context) bool {
	return g.Exec.LookPath("gh")
}

// Authenticated reports whether a login session exists.
func (g *GitHubCLI) Authenticated(ctx context.Context) bool {
	_, err := g.Exec.Execute(ctx, "gh", "auth", "status")
	return err == nil
}

// Login runs the interactive login flow.
func (g *GitHubCLI) Login(ctx context.Context) error {
	return g.Exec.ExecuteInteractive(ctx, "gh", "auth", "login")
}

// KeyGen adapts the SSH key generation tool.
type KeyGen struct {
	Exec system.CommandExecutor
}

// Generate creates an ed25519 keypair at path with an empty passphrase.
func (k *KeyGen) Generate(ctx context.Context, path, comment string) error {
	args := []string{"-t", "ed25519", "-f", path, "-N", ""}
	if comment != "" {
		args = append(args, "-C", comment)
	}
	out, err := k.Exec.Execute(ctx, "ssh-keygen", args...)
	if err != nil {
		return fmt.Errorf("ssh-keygen: %s: %w", strings.TrimSpace(string(out)), err)
	}
	logging.Debug("ssh key generated", "path", path)
	return nil
}

// GPG adapts the signing backend.
type GPG struct {
	Exec system.CommandExecutor
}

func (g *GPG) Available(ctx context.Context) bool {
	return g.Exec.LookPath("gpg")
}

// HasSecretKey reports whether a secret key matching keyID is present.
// Matching is by suffix so both short and long key ids work.
func (g *GPG) HasSecretKey(ctx context.Context, keyID string) bool {
	out, err := g.Exec.Execute(ctx, "gpg", "--list-secret-keys", "--with-colons")
	if err != nil {
		logging.Debug("gpg key listing failed", "error", err)
		return false
	}
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Split(line, ":")
		if len(fields) > 4 && fields[0] == "sec" &&
			strings.HasSuffix(strings.ToUpper(fields[4]), strings.ToUpper(keyID)) {
			return true
		}
	}
	return false
}

// Import loads key material from a file into the keyring.
func (g *GPG) Import(ctx context.Context, path string) error {
	out, err := g.Exec.Execute(ctx, "gpg", "--import", path)
	if err != nil {
		return fmt.Errorf("gpg --import: %s: %w", strings.TrimSpace(string(out)), err)
	}
	return nil
}
