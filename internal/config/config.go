// Package config loads the reader configuration from a JSON file under the
// user config directory. A missing file yields defaults; a malformed file is
// an error so a typo never silently resets every setting.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"github.com/yuanying/tread/internal/layout"
)

const (
	configDirName  = "tread"
	configFileName = "config.json"
)

// Keybinds maps reader actions to key names understood by the UI layer.
// Multiple keys per action are allowed.
type Keybinds struct {
	NextPage    []string `json:"next_page"`
	PrevPage    []string `json:"prev_page"`
	NextChapter []string `json:"next_chapter"`
	PrevChapter []string `json:"prev_chapter"`
	GotoStart   []string `json:"goto_start"`
	GotoEnd     []string `json:"goto_end"`
	Contents    []string `json:"contents"`
	Back        []string `json:"back"`
	Help        []string `json:"help"`
	Quit        []string `json:"quit"`
}

// Config holds all user-tunable settings.
type Config struct {
	Style             layout.Style `json:"style"`
	FillToNextChapter bool         `json:"fill_to_next_chapter"`
	Keybinds          Keybinds     `json:"keybinds"`

	// Path to the loaded config file, not persisted.
	path string `json:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Style:             layout.DefaultStyle(),
		FillToNextChapter: false,
		Keybinds: Keybinds{
			NextPage:    []string{"j", "down", " ", "pgdown"},
			PrevPage:    []string{"k", "up", "pgup"},
			NextChapter: []string{"n"},
			PrevChapter: []string{"p"},
			GotoStart:   []string{"g", "home"},
			GotoEnd:     []string{"G", "end"},
			Contents:    []string{"c"},
			Back:        []string{"B"},
			Help:        []string{"h", "?"},
			Quit:        []string{"q"},
		},
	}
}

// Load reads the config file, returning defaults when it does not exist.
// Fields absent from the file keep their default values.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	cfg := Default()
	cfg.path = path

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration back to its file, creating the directory if
// needed.
func (c *Config) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0o600)
}

func configPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, configDirName, configFileName), nil
}
