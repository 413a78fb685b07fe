// Package terminal reconciles terminal appearance and prompt configuration:
// font, color scheme, and cursor settings in the terminal's settings
// document, plus a prompt block in the shell profile.
package terminal

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/rigforge/rigctl/internal/system"
)

// Keys inside the terminal settings document.
const (
	keyFontFace    = "profiles.defaults.font.face"
	keyFontSize    = "profiles.defaults.font.size"
	keyColorScheme = "profiles.defaults.colorScheme"
	keyCursorShape = "profiles.defaults.cursorShape"
)

// SettingsStore reads and writes the terminal's JSON settings document.
// Writes are surgical: only the targeted path changes, the rest of the
// document (including keys rigctl knows nothing about) is preserved.
type SettingsStore struct {
	Path string
	FS   system.FileSystem
}

// Exists reports whether the settings document is present. Appearance
// settings are only reconciled against an existing store; rigctl never
// creates one from scratch.
func (s *SettingsStore) Exists() bool {
	return s.FS.Exists(s.Path)
}

func (s *SettingsStore) load() (string, error) {
	data, err := s.FS.ReadFile(s.Path)
	if err != nil {
		return "", fmt.Errorf("read terminal settings: %w", err)
	}
	return string(data), nil
}

// Get returns the value at a gjson path, or the empty result.
func (s *SettingsStore) Get(path string) gjson.Result {
	doc, err := s.load()
	if err != nil {
		return gjson.Result{}
	}
	return gjson.Get(doc, path)
}

// Set writes a value at a sjson path and persists the document.
func (s *SettingsStore) Set(path string, value any) error {
	doc, err := s.load()
	if err != nil {
		return err
	}
	doc, err = sjson.Set(doc, path, value)
	if err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return s.FS.WriteFile(s.Path, []byte(doc), 0644)
}

// schemeIndex returns the position of the named entry in the schemes array,
// or -1 when absent.
func (s *SettingsStore) schemeIndex(name string) int {
	for i, entry := range s.Get("schemes").Array() {
		if entry.Get("name").String() == name {
			return i
		}
	}
	return -1
}

// SchemeMatches reports whether the named scheme exists and every given
// color matches, compared as colors rather than strings.
func (s *SettingsStore) SchemeMatches(name string, colors map[string]string) bool {
	i := s.schemeIndex(name)
	if i < 0 {
		return false
	}
	entry := s.Get(fmt.Sprintf("schemes.%d", i))
	for key, want := range colors {
		if !sameColor(entry.Get(key).String(), want) {
			return false
		}
	}
	return true
}

// WriteScheme installs or updates the named scheme in place, leaving other
// schemes untouched.
func (s *SettingsStore) WriteScheme(name string, colors map[string]string) error {
	doc, err := s.load()
	if err != nil {
		return err
	}

	i := s.schemeIndex(name)
	if i < 0 {
		entry := map[string]any{"name": name}
		for key, value := range colors {
			entry[key] = value
		}
		doc, err = sjson.Set(doc, "schemes.-1", entry)
		if err != nil {
			return fmt.Errorf("append scheme %s: %w", name, err)
		}
	} else {
		for key, value := range colors {
			doc, err = sjson.Set(doc, fmt.Sprintf("schemes.%d.%s", i, key), value)
			if err != nil {
				return fmt.Errorf("update scheme %s.%s: %w", name, key, err)
			}
		}
	}

	return s.FS.WriteFile(s.Path, []byte(doc), 0644)
}
