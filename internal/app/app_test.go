package app

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rigforge/rigctl/internal/config"
	"github.com/rigforge/rigctl/internal/reconcile"
	"github.com/rigforge/rigctl/internal/secrets"
	"github.com/rigforge/rigctl/internal/system"
)

func TestNew_Defaults(t *testing.T) {
	a := New(WithConfig(&config.Configuration{}))

	if a.FS == nil || a.Exec == nil || a.Env == nil || a.Prompts == nil {
		t.Error("defaults should be populated")
	}
	if a.Vault != nil {
		t.Error("no vault should be wired without a 1password section")
	}
}

func TestNew_VaultFromConfig(t *testing.T) {
	exec := system.NewMockExecutor()
	a := New(
		WithConfig(&config.Configuration{
			OnePassword: &config.OnePassword{Account: "work", Vault: "Private"},
		}),
		WithExecutor(exec),
	)

	op, ok := a.Vault.(*secrets.OnePassword)
	if !ok {
		t.Fatalf("vault = %T, want *secrets.OnePassword", a.Vault)
	}
	if op.Account != "work" || op.Vault != "Private" {
		t.Errorf("vault wired with %q/%q", op.Account, op.Vault)
	}
}

func TestOrchestrator_DomainOrder(t *testing.T) {
	a := New(
		WithConfig(&config.Configuration{}),
		WithFS(system.NewMockFS()),
		WithExecutor(system.NewMockExecutor()),
		WithEnv(system.NewMockEnv(nil)),
	)

	got := a.Orchestrator().Domains()
	if diff := cmp.Diff(reconcile.Order(), got); diff != "" {
		t.Errorf("domain order mismatch (-want +got):\n%s", diff)
	}
}
