// Package logging provides logging utilities for rigctl.
//
// This package provides two categories of output:
//   - Debug logging: Structured logs for debugging (via slog)
//   - User output: Formatted messages for end users
//
// # Debug Logging
//
// Debug logs are written using slog and controlled by verbosity settings:
//
//	logging.Debug("probing registry value", "path", path, "name", name)
//	logging.Warn("probe failed, using default", "probe", probe, "error", err)
//
// # User Output
//
// User-facing messages are formatted with status indicators:
//
//	logging.UserInfo("Planning %s...", domain)
//	logging.UserSuccess("Applied: %s", change)
//	logging.UserWarning("Skipping %s: %v", domain, err)
//	logging.UserError("Failed to apply: %v", err)
//
// Output destinations:
//   - UserInfo, UserSuccess: stdout
//   - UserWarning, UserError: stderr
//
// # Status Indicators
//
// User functions prepend status indicators:
//   - ℹ (info)
//   - ✓ (success)
//   - ⚠ (warning)
//   - ✗ (error)
package logging
