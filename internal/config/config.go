// Package config loads the defaults an analysis starts from: the sample documents,
// the initial and suggested questions, the confidence threshold, and the display precision.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable that may point at a config file.
const EnvPath = "NEAREST_CONFIG"

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "nearest.yaml"

const (
	defaultThreshold = 0.01
	defaultPrecision = 3
	maxPrecision     = 10
)

// Config is the root configuration structure.
type Config struct {
	Documents   string   `yaml:"documents"`   // newline separated default corpus
	Question    string   `yaml:"question"`    // question used when none is given
	Suggestions []string `yaml:"suggestions"` // suggested questions for interactive mode
	Threshold   *float64 `yaml:"threshold,omitempty"`
	Precision   *int     `yaml:"precision,omitempty"`
}

// ThresholdValue returns the configured threshold or the default.
func (c *Config) ThresholdValue() float64 {
	if c.Threshold == nil {
		return defaultThreshold
	}
	return *c.Threshold
}

// PrecisionValue returns the configured precision or the default.
func (c *Config) PrecisionValue() int {
	if c.Precision == nil {
		return defaultPrecision
	}
	return *c.Precision
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Documents: `El perro ladra fuerte en el parque.
El gato maúlla suavemente durante la noche.
El perro y el gato juegan juntos en el jardín.
Los niños corren y se divierten en el parque.
La música suena muy alta en la fiesta.
Los pájaros cantan hermosas melodías al amanecer.`,
		Question: "¿Dónde juegan el perro y el gato?",
		Suggestions: []string{
			"¿Dónde juegan el perro y el gato?",
			"¿Qué hacen los niños en el parque?",
			"¿Cuándo cantan los pájaros?",
			"¿Dónde suena la música alta?",
			"¿Qué animal maúlla durante la noche?",
		},
	}
}

// Load reads a config from path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %q: %w", path, err)
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return &cfg, nil
}

// Resolve picks the config path: explicit flag value, then $NEAREST_CONFIG,
// then nearest.yaml in the working directory.
func Resolve(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if env := os.Getenv(EnvPath); env != "" {
		return env
	}
	return DefaultFile
}

// Save writes cfg to path, creating directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if t := c.ThresholdValue(); t < 0 || t >= 1 {
		return fmt.Errorf("threshold must be in [0,1), got %v", t)
	}
	if p := c.PrecisionValue(); p < 0 || p > maxPrecision {
		return fmt.Errorf("precision must be between 0 and %d, got %d", maxPrecision, p)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Documents == "" {
		cfg.Documents = def.Documents
	}
	if cfg.Question == "" {
		cfg.Question = def.Question
	}
	if len(cfg.Suggestions) == 0 {
		cfg.Suggestions = def.Suggestions
	}
}
