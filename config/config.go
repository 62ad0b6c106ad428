package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// StepMode selects how the scheduler advances between events
type StepMode string

const (
	// StepJump advances straight to the next pending timestamp
	StepJump StepMode = "jump"
	// StepTick advances one tick per pass
	StepTick StepMode = "tick"
)

// TextEncoding names the charset used to render text meta events
type TextEncoding string

const (
	EncodingUTF8     TextEncoding = "utf-8"
	EncodingShiftJIS TextEncoding = "shift-jis"
	EncodingLatin1   TextEncoding = "latin1"
)

// OutputConfig selects the MIDI output port
type OutputConfig struct {
	PortName string `json:"portName,omitempty"` // empty = first port
}

// PlaybackConfig controls the scheduler and playlist runner
type PlaybackConfig struct {
	AbortOnError bool     `json:"abortOnError"`
	StepMode     StepMode `json:"stepMode"`
	ResetBetween bool     `json:"resetBetween"`
	Loop         bool     `json:"loop"`
}

// DumpConfig controls the .txt rendering written next to each file
type DumpConfig struct {
	Enabled      bool         `json:"enabled"`
	TextEncoding TextEncoding `json:"textEncoding"`
}

// UIConfig stores UI preferences
type UIConfig struct {
	PalettePath string `json:"palettePath,omitempty"` // GIMP .gpl file, empty = built-in
}

// Config is the main configuration structure
type Config struct {
	Output   OutputConfig   `json:"output"`
	Playback PlaybackConfig `json:"playback"`
	Dump     DumpConfig     `json:"dump"`
	UI       UIConfig       `json:"ui,omitempty"`
	Debug    bool           `json:"debug,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Playback: PlaybackConfig{
			StepMode:     StepJump,
			ResetBetween: true,
		},
		Dump: DumpConfig{
			TextEncoding: EncodingUTF8,
		},
	}
}

// Validate rejects values the player cannot act on
func (c *Config) Validate() error {
	switch c.Playback.StepMode {
	case StepJump, StepTick:
	default:
		return fmt.Errorf("config: unknown stepMode %q", c.Playback.StepMode)
	}
	switch c.Dump.TextEncoding {
	case EncodingUTF8, EncodingShiftJIS, EncodingLatin1:
	default:
		return fmt.Errorf("config: unknown textEncoding %q", c.Dump.TextEncoding)
	}
	return nil
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-smfplay"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads the config at path. Fields missing from the file keep
// their default values.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
