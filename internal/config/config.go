package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
)

// Action names accepted in a binding.
const (
	ActionNotify = "notify"
	ActionCopy   = "copy"
	ActionRun    = "run"
)

type Config struct {
	LogLevel string    `json:"log_level"`
	Bindings []Binding `json:"bindings"`
}

// Binding ties one chord descriptor to an action. Message feeds "notify",
// Text feeds "copy" and Command feeds "run"; the unused fields stay empty.
type Binding struct {
	Chord   string   `json:"chord"`
	Action  string   `json:"action"`
	Message string   `json:"message,omitempty"`
	Text    string   `json:"text,omitempty"`
	Command []string `json:"command,omitempty"`
}

// Load reads the config from disk or returns defaults
func Load() (*Config, error) {
	path := configPath()

	// Default config
	cfg := &Config{
		LogLevel: "info",
		Bindings: []Binding{
			{
				Chord:   "control+alt+n",
				Action:  ActionNotify,
				Message: "keychordd is listening",
			},
		},
	}

	// Load existing config if it exists
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path := configPath()

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// configPath returns the platform-specific config file path
func configPath() string {
	var base string

	switch runtime.GOOS {
	case "darwin":
		base = os.Getenv("HOME") + "/Library/Application Support"
	case "windows":
		base = os.Getenv("APPDATA")
	default: // linux
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = xdg
		} else {
			base = os.Getenv("HOME") + "/.config"
		}
	}

	return filepath.Join(base, "keychordd", "config.json")
}
