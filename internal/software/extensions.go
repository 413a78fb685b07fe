package software

import (
	"context"
	"fmt"
	"strings"

	"github.com/rigforge/rigctl/internal/logging"
	"github.com/rigforge/rigctl/internal/system"
)

// CodeExtensions manages IDE extensions through the editor's CLI.
type CodeExtensions struct {
	Exec system.CommandExecutor
}

// Available reports whether the editor CLI is on PATH.
func (c *CodeExtensions) Available(ctx context.Context) bool {
	return c.Exec.LookPath("code")
}

// List returns the identifiers of installed extensions, lowercased.
// Extension identifiers are case-insensitive on the marketplace side.
func (c *CodeExtensions) List(ctx context.Context) ([]string, error) {
	out, err := c.Exec.Execute(ctx, "code", "--list-extensions")
	if err != nil {
		return nil, fmt.Errorf("code --list-extensions: %w", err)
	}
	var ids []string
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			ids = append(ids, strings.ToLower(line))
		}
	}
	return ids, nil
}

func (c *CodeExtensions) Install(ctx context.Context, id string) error {
	out, err := c.Exec.Execute(ctx, "code", "--install-extension", id)
	if err != nil {
		return fmt.Errorf("install extension %s: %s: %w", id, strings.TrimSpace(string(out)), err)
	}
	logging.Debug("extension installed", "id", id)
	return nil
}
