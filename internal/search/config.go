package search

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/letspunt/adpage/internal/apperr"
	"github.com/letspunt/adpage/pkg/pagination"
	"gopkg.in/yaml.v3"
)

// Weights scale the per-field trigram similarity in the fuzzy tier.
type Weights struct {
	Title    float64 `yaml:"title"`
	Content  float64 `yaml:"content"`
	Location float64 `yaml:"location"`
}

type Config struct {
	Weights     Weights       `yaml:"weights"`
	MaxPageSize int           `yaml:"max_page_size"`
	Timeout     time.Duration `yaml:"timeout"`
	// ScoreDecimals is the precision scores are rounded to in responses.
	ScoreDecimals int `yaml:"score_decimals"`
}

func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			Title:    2.0,
			Content:  1.0,
			Location: 0.5,
		},
		MaxPageSize:   pagination.PageMaxSize,
		Timeout:       5 * time.Second,
		ScoreDecimals: 4,
	}
}

func (c Config) Validate() error {
	w := c.Weights
	for _, v := range []float64{w.Title, w.Content, w.Location} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return apperr.NewValidation("search weights must be finite numbers")
		}
	}
	if w.Title < 0 || w.Content < 0 || w.Location < 0 {
		return apperr.NewValidation("search weights must not be negative")
	}
	if w.Title+w.Content+w.Location == 0 {
		return apperr.NewValidation("at least one search weight must be positive")
	}
	if c.MaxPageSize < 0 {
		return apperr.NewValidation("max_page_size must not be negative")
	}
	if c.Timeout < 0 {
		return apperr.NewValidation("timeout must not be negative")
	}
	if c.ScoreDecimals < 0 || c.ScoreDecimals > 8 {
		return apperr.NewValidation("score_decimals must be between 0 and 8")
	}
	return nil
}

// DecodeConfig reads YAML overrides on top of DefaultConfig.
func DecodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, apperr.NewValidationWrap("invalid search config", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads the tuning file at path. A missing file yields the
// defaults.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Info("Search config not found, using defaults", "path", path)
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to open search config: %w", err)
	}
	defer f.Close()

	return DecodeConfig(f)
}
