// Package explorer reconciles OS file-explorer display preferences. Each
// config flag maps 1:1 to a typed value in the preference store; any applied
// change schedules one shared shell restart at the end of the plan.
package explorer

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rigforge/rigctl/internal/errors"
	"github.com/rigforge/rigctl/internal/logging"
	"github.com/rigforge/rigctl/internal/system"
)

// advancedKey is the preference-store path holding the explorer view flags.
const advancedKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Explorer\Advanced`

// PrefStore reads and writes typed values in the OS preference store.
type PrefStore interface {
	// GetDWord returns the value and whether it was present. Read failures
	// report "absent".
	GetDWord(ctx context.Context, key, name string) (uint32, bool)

	// SetDWord writes the value, creating it when absent.
	SetDWord(ctx context.Context, key, name string, value uint32) error

	// RestartShell restarts the shell surface so view changes take effect.
	RestartShell(ctx context.Context) error
}

// RegPrefs implements PrefStore over the reg command-line tool.
type RegPrefs struct {
	Exec system.CommandExecutor
}

func (r *RegPrefs) GetDWord(ctx context.Context, key, name string) (uint32, bool) {
	out, err := r.Exec.Execute(ctx, "reg", "query", key, "/v", name)
	if err != nil {
		logging.Debug("registry probe defaulted to absent", "key", key, "name", name,
			"error", errors.ProbeFailed("reg query", err))
		return 0, false
	}
	// Output line: "    Name    REG_DWORD    0x2"
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 3 && fields[0] == name && fields[1] == "REG_DWORD" {
			v, err := strconv.ParseUint(strings.TrimPrefix(fields[2], "0x"), 16, 32)
			if err != nil {
				return 0, false
			}
			return uint32(v), true
		}
	}
	return 0, false
}

func (r *RegPrefs) SetDWord(ctx context.Context, key, name string, value uint32) error {
	out, err := r.Exec.Execute(ctx, "reg", "add", key, "/v", name,
		"/t", "REG_DWORD", "/d", strconv.FormatUint(uint64(value), 10), "/f")
	if err != nil {
		return fmt.Errorf("reg add %s\\%s: %s: %w", key, name, strings.TrimSpace(string(out)), err)
	}
	return nil
}

func (r *RegPrefs) RestartShell(ctx context.Context) error {
	if out, err := r.Exec.Execute(ctx, "taskkill", "/f", "/im", "explorer.exe"); err != nil {
		return fmt.Errorf("stop shell: %s: %w", strings.TrimSpace(string(out)), err)
	}
	if _, err := r.Exec.Execute(ctx, "explorer.exe"); err != nil {
		return fmt.Errorf("start shell: %w", err)
	}
	return nil
}
