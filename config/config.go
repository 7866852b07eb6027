// Package config handles zax.toml interpreter configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents a zax.toml interpreter configuration file.
type Config struct {
	Story  Story  `toml:"story"`
	Run    Run    `toml:"run"`
	Screen Screen `toml:"screen"`
	Colors Colors `toml:"colors"`

	// Dir is the directory containing the zax.toml file (set at load time).
	Dir string `toml:"-"`
}

// Story locates the game file to run.
type Story struct {
	Path string `toml:"path"`
}

// Run controls interpreter behavior not specified by the story file itself.
type Run struct {
	Trace     bool `toml:"trace"`
	UndoDepth int  `toml:"undo-depth"`
}

// Screen gives the default geometry offered to a story before it asks for
// anything narrower or shorter.
type Screen struct {
	Columns int `toml:"columns"`
	Rows    int `toml:"rows"`
}

// Colors gives the default foreground/background color numbers, in the
// Z-machine's own color numbering (2-9, see SET_COLOUR).
type Colors struct {
	Foreground int `toml:"foreground"`
	Background int `toml:"background"`
}

// defaults matches what most terminal Z-machine interpreters offer before a
// story negotiates its own preferences via the header's screen fields.
func defaults() Config {
	return Config{
		Run:    Run{UndoDepth: 1},
		Screen: Screen{Columns: 80, Rows: 24},
		Colors: Colors{Foreground: 9, Background: 2}, // white, black
	}
}

// Default returns the built-in defaults for a directory with no zax.toml,
// letting a caller fall back to pure-default/command-line behavior without
// duplicating defaults()'s field values.
func Default(dir string) *Config {
	c := defaults()
	c.Dir = dir
	return &c
}

// Load parses a zax.toml file from the given directory, filling in defaults
// for any field the file omits.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, "zax.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c := defaults()
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}
	return &c, nil
}

// FindAndLoad walks up from startDir to find a zax.toml file, then loads and
// returns it. Returns nil, nil if no configuration file is found, letting
// the caller fall back to pure-default/command-line behavior.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, "zax.toml")
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// StoryPath returns the configured story file path, resolved against Dir if
// it is relative.
func (c *Config) StoryPath() string {
	if c.Story.Path == "" || filepath.IsAbs(c.Story.Path) {
		return c.Story.Path
	}
	return filepath.Join(c.Dir, c.Story.Path)
}
