// Package config loads the TOML configuration for the kangen CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/kangen/kangen/pkg/anki"
	"github.com/kangen/kangen/pkg/enhance"
	"github.com/kangen/kangen/pkg/enhance/gemini"
	"github.com/kangen/kangen/pkg/grouper"
	"github.com/kangen/kangen/pkg/imageprep"
	"github.com/kangen/kangen/pkg/readings"
)

// OCR configures text detection.
type OCR struct {
	MinConfidence float64  `toml:"min_confidence"`
	Languages     []string `toml:"languages"`
	MaxDimension  int      `toml:"max_dimension"`
	TessdataDir   string   `toml:"tessdata_dir"`
}

// Grouping selects and tunes the span grouping strategy.
type Grouping struct {
	Strategy        string  `toml:"strategy"`
	ProximityRadius float64 `toml:"proximity_radius"`
}

// Enhance configures the AI enhancement service.
type Enhance struct {
	BatchSize int    `toml:"batch_size"`
	Model     string `toml:"model"`
	APIKey    string `toml:"api_key"`
}

// Deck configures the output package identity and reading validation.
type Deck struct {
	Name                string  `toml:"name"`
	DeckID              int64   `toml:"deck_id"`
	ModelID             int64   `toml:"model_id"`
	ValidationThreshold float64 `toml:"validation_threshold"`
}

// Config is the full configuration surface.
type Config struct {
	OCR      OCR      `toml:"ocr"`
	Grouping Grouping `toml:"grouping"`
	Enhance  Enhance  `toml:"enhance"`
	Deck     Deck     `toml:"deck"`
}

// Default returns the configuration used when no file overrides anything.
func Default() Config {
	return Config{
		OCR: OCR{
			MinConfidence: 0.5,
			Languages:     []string{"jpn", "eng"},
			MaxDimension:  imageprep.DefaultMaxDimension,
		},
		Grouping: Grouping{
			Strategy:        "proximity",
			ProximityRadius: grouper.DefaultRadius,
		},
		Enhance: Enhance{
			BatchSize: enhance.DefaultBatchSize,
			Model:     gemini.DefaultModel,
		},
		Deck: Deck{
			Name:                anki.DefaultDeckName,
			DeckID:              anki.DefaultDeckID,
			ModelID:             anki.DefaultModelID,
			ValidationThreshold: readings.DefaultValidationThreshold,
		},
	}
}

// DefaultPath is where Load looks when no config flag is given.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "kangen", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "kangen", "config.toml")
}

// Load decodes the file at path over the defaults. An empty path means the
// default location, which is allowed to be absent; an explicitly named
// file must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return cfg, fmt.Errorf("config file not found: %s", path)
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("error decoding config file: %w", err)
	}
	return cfg, nil
}

// ResolveAPIKey returns the enhancement credential, letting the
// environment win over the config file.
func (c Config) ResolveAPIKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return c.Enhance.APIKey
}
