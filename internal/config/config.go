// Package config loads tablo's TOML configuration.
//
// A missing config file is not an error; defaults apply. Unknown keys
// are ignored so configs survive version skew in both directions.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the full tool configuration.
type Config struct {
	History HistoryConfig `toml:"history"`
	Render  RenderConfig  `toml:"render"`
	Session SessionConfig `toml:"session"`
}

// HistoryConfig bounds the undo stack.
type HistoryConfig struct {
	// MaxEntries is the undo history capacity.
	MaxEntries int `toml:"max_entries"`
}

// RenderConfig shapes Markdown and diff output.
type RenderConfig struct {
	// MinColumnWidth is the minimum rendered column width.
	MinColumnWidth int `toml:"min_column_width"`

	// Placeholder is the glyph shown in hatched cells.
	Placeholder string `toml:"placeholder"`
}

// SessionConfig controls the document session.
type SessionConfig struct {
	// MaxRevisions bounds the revision store.
	MaxRevisions int `toml:"max_revisions"`

	// DebounceMillis delays reload after a file change so editors that
	// write in bursts trigger a single reload.
	DebounceMillis int `toml:"debounce_ms"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		History: HistoryConfig{MaxEntries: 1000},
		Render:  RenderConfig{MinColumnWidth: 3, Placeholder: "░"},
		Session: SessionConfig{MaxRevisions: 100, DebounceMillis: 100},
	}
}

// Load reads configuration from path, falling back to defaults for the
// file itself when absent and for any field left unset.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config file %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults replaces zero or nonsense values with the built-ins.
func (c *Config) applyDefaults() {
	d := Default()
	if c.History.MaxEntries <= 0 {
		c.History.MaxEntries = d.History.MaxEntries
	}
	if c.Render.MinColumnWidth <= 0 {
		c.Render.MinColumnWidth = d.Render.MinColumnWidth
	}
	if c.Render.Placeholder == "" {
		c.Render.Placeholder = d.Render.Placeholder
	}
	if c.Session.MaxRevisions <= 0 {
		c.Session.MaxRevisions = d.Session.MaxRevisions
	}
	if c.Session.DebounceMillis <= 0 {
		c.Session.DebounceMillis = d.Session.DebounceMillis
	}
}
