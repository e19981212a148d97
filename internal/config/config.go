// Package config loads the relgas command configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// PathEnv names the environment variable holding the config path when no
// -config flag is given.
const PathEnv = "RELGAS_CONFIG"

// DefaultPath is used when neither the flag nor PathEnv is set.
const DefaultPath = "relgas.yaml"

// DataConfig describes the dissimilarity matrix input.
type DataConfig struct {
	Path            string  `yaml:"path"`
	Delimiter       string  `yaml:"delimiter"`
	Comment         string  `yaml:"comment"`
	SymmetryEpsilon float64 `yaml:"symmetry_epsilon"`
}

// TrainingConfig holds the neural gas parameters.
type TrainingConfig struct {
	Prototypes int     `yaml:"prototypes"`
	Iterations int     `yaml:"iterations"`
	Lambda     float64 `yaml:"lambda"` // 0 selects 0.5·prototypes
	Seed       int64   `yaml:"seed"`
	Ranker     string  `yaml:"ranker"`
	Shards     int     `yaml:"shards"`
	History    bool    `yaml:"history"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text | json
}

// AppConfig is the root configuration structure.
type AppConfig struct {
	Data     DataConfig     `yaml:"data"`
	Training TrainingConfig `yaml:"training"`
	Log      LogConfig      `yaml:"log"`
}

// Load reads a config from path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}

		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyConfigDefaults(&cfg)

	return &cfg, cfg.Validate()
}

// ResolvePath returns flagPath, else $RELGAS_CONFIG, else DefaultPath.
func ResolvePath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if p := os.Getenv(PathEnv); p != "" {
		return p
	}

	return DefaultPath
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// Validate rejects values no default can repair.
func (c *AppConfig) Validate() error {
	switch {
	case c.Training.Prototypes < 0:
		return fmt.Errorf("config: training.prototypes must not be negative")
	case c.Training.Iterations < 0:
		return fmt.Errorf("config: training.iterations must not be negative")
	case c.Training.Lambda < 0:
		return fmt.Errorf("config: training.lambda must not be negative")
	case c.Training.Shards < 0:
		return fmt.Errorf("config: training.shards must not be negative")
	case len([]rune(c.Data.Delimiter)) != 1:
		return fmt.Errorf("config: data.delimiter must be a single character")
	case len([]rune(c.Data.Comment)) > 1:
		return fmt.Errorf("config: data.comment must be at most one character")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown log.format %q", c.Log.Format)
	}

	return nil
}

// SlogLevel parses Log.Level ("debug", "info", "warn", "error").
func (c *AppConfig) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(c.Log.Level))); err != nil {
		return 0, fmt.Errorf("config: log.level: %w", err)
	}

	return l, nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Data:     DataConfig{Delimiter: ",", Comment: "#", SymmetryEpsilon: 1e-9},
		Training: TrainingConfig{Prototypes: 2, Iterations: 100, Ranker: "exact", Shards: 1},
		Log:      LogConfig{Level: "info", Format: "text"},
	}

	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	def := defaultConfig()
	if cfg.Data.Delimiter == "" {
		cfg.Data.Delimiter = def.Data.Delimiter
	}
	if cfg.Data.Comment == "" {
		cfg.Data.Comment = def.Data.Comment
	}
	if cfg.Data.SymmetryEpsilon == 0 {
		cfg.Data.SymmetryEpsilon = def.Data.SymmetryEpsilon
	}
	if cfg.Training.Prototypes == 0 {
		cfg.Training.Prototypes = def.Training.Prototypes
	}
	if cfg.Training.Iterations == 0 {
		cfg.Training.Iterations = def.Training.Iterations
	}
	if cfg.Training.Ranker == "" {
		cfg.Training.Ranker = def.Training.Ranker
	}
	if cfg.Training.Shards == 0 {
		cfg.Training.Shards = def.Training.Shards
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = def.Log.Format
	}
}
