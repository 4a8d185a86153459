package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the complete replay configuration
type Config struct {
	Playback PlaybackConfig `json:"playback" yaml:"playback"`
	View     ViewConfig     `json:"view" yaml:"view"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Log      LogConfig      `json:"log" yaml:"log"`
}

// PlaybackConfig controls the virtual clock and frame rate
type PlaybackConfig struct {
	TargetSeconds float64 `json:"target_seconds" yaml:"target_seconds"` // whole dataset at 1x
	Speed         float64 `json:"speed" yaml:"speed"`
	FPS           int     `json:"fps" yaml:"fps"`
}

// ViewConfig controls aggregation and layout parameters
type ViewConfig struct {
	Mode        string  `json:"mode" yaml:"mode"` // "asset" or "account"
	TopAccounts int     `json:"top_accounts" yaml:"top_accounts"`
	SankeyTopN  int     `json:"sankey_top_n" yaml:"sankey_top_n"`
	MinNotional float64 `json:"min_notional" yaml:"min_notional"`
	Buckets     int     `json:"buckets" yaml:"buckets"`
	Width       float64 `json:"width" yaml:"width"`
	Height      float64 `json:"height" yaml:"height"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	FramesFile string `json:"frames_file,omitempty" yaml:"frames_file,omitempty"`
	RunsFile   string `json:"runs_file,omitempty" yaml:"runs_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LogConfig contains logging parameters
type LogConfig struct {
	Level      string `json:"level" yaml:"level"`
	File       string `json:"file,omitempty" yaml:"file,omitempty"`
	MaxSizeMB  int    `json:"max_size_mb,omitempty" yaml:"max_size_mb,omitempty"`
	MaxBackups int    `json:"max_backups,omitempty" yaml:"max_backups,omitempty"`
}

// LoadFromFile loads configuration from a file (JSON or YAML based on extension)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

var speeds = []float64{0.5, 1, 2, 4, 8}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Playback.TargetSeconds <= 0 {
		return fmt.Errorf("playback.target_seconds must be positive")
	}
	ok := false
	for _, s := range speeds {
		if c.Playback.Speed == s {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("playback.speed must be one of 0.5, 1, 2, 4, 8")
	}
	if c.Playback.FPS <= 0 || c.Playback.FPS > 240 {
		return fmt.Errorf("playback.fps must be between 1 and 240")
	}
	if c.View.Mode != "asset" && c.View.Mode != "account" {
		return fmt.Errorf("view.mode must be 'asset' or 'account'")
	}
	if c.View.TopAccounts <= 0 {
		return fmt.Errorf("view.top_accounts must be positive")
	}
	if c.View.SankeyTopN <= 0 {
		return fmt.Errorf("view.sankey_top_n must be positive")
	}
	if c.View.MinNotional < 0 {
		return fmt.Errorf("view.min_notional must be non-negative")
	}
	if c.View.Buckets <= 0 {
		return fmt.Errorf("view.buckets must be positive")
	}
	switch c.Journal.Type {
	case "none":
	case "csv":
		if c.Journal.FramesFile == "" || c.Journal.RunsFile == "" {
			return fmt.Errorf("journal frames_file and runs_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Playback: PlaybackConfig{
			TargetSeconds: 40,
			Speed:         1,
			FPS:           30,
		},
		View: ViewConfig{
			Mode:        "asset",
			TopAccounts: 100,
			SankeyTopN:  20,
			MinNotional: 0,
			Buckets:     120,
			Width:       960,
			Height:      600,
		},
		Journal: JournalConfig{
			Type:       "csv",
			FramesFile: "./frames.csv",
			RunsFile:   "./runs.csv",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
