package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/Bellwether/internal/scoring"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Dataset  DatasetConfig  `yaml:"dataset"`
	Database DatabaseConfig `yaml:"database"`
	Hermes   HermesConfig   `yaml:"hermes"`
	Engine   EngineConfig   `yaml:"engine"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port         int    `yaml:"port"`
	MetricsPort  int    `yaml:"metrics_port"`
	AdminToken   string `yaml:"admin_token"`
	RateLimitRPM int    `yaml:"rate_limit_rpm"`
}

// Region sources.
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

type DatasetConfig struct {
	RegionSource     string `yaml:"region_source"`
	RegionsPath      string `yaml:"regions_path"`
	RegionNameColumn string `yaml:"region_name_column"`
	PresetsPath      string `yaml:"presets_path"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type HermesConfig struct {
	URL string `yaml:"url"`
}

type EngineConfig struct {
	DefaultPeriod   string            `yaml:"default_period"`
	SliderStep      float64           `yaml:"slider_step"`
	SanityTolerance float64           `yaml:"sanity_tolerance"`
	Dimensions      []DimensionConfig `yaml:"dimensions"`
}

type DimensionConfig struct {
	Name       string           `yaml:"name"`
	Categories []CategoryConfig `yaml:"categories"`
}

type CategoryConfig struct {
	Label       string `yaml:"label"`
	Column      string `yaml:"column"`
	CountColumn string `yaml:"count_column"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ScoringDimensions converts the configured dimensions for the engine.
func (c *Config) ScoringDimensions() scoring.Dimensions {
	dims := make(scoring.Dimensions, 0, len(c.Engine.Dimensions))
	for _, d := range c.Engine.Dimensions {
		dim := scoring.Dimension{Name: d.Name}
		for _, cat := range d.Categories {
			dim.Categories = append(dim.Categories, scoring.Category{
				Label:       cat.Label,
				Column:      cat.Column,
				CountColumn: cat.CountColumn,
			})
		}
		dims = append(dims, dim)
	}
	return dims
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	switch c.Dataset.RegionSource {
	case SourceCSV:
		if c.Dataset.RegionsPath == "" {
			return fmt.Errorf("dataset.regions_path required for csv region source")
		}
	case SourcePostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("database.url required for postgres region source")
		}
	default:
		return fmt.Errorf("unknown dataset.region_source %q", c.Dataset.RegionSource)
	}
	if c.Dataset.PresetsPath == "" {
		return fmt.Errorf("dataset.presets_path required")
	}
	if c.Engine.SliderStep <= 0 || c.Engine.SliderStep > 1 {
		return fmt.Errorf("engine.slider_step must be in (0, 1], got %v", c.Engine.SliderStep)
	}
	if err := c.ScoringDimensions().Validate(); err != nil {
		return fmt.Errorf("engine.dimensions: %w", err)
	}
	return nil
}

func defaultDimensions() []DimensionConfig {
	var out []DimensionConfig
	for _, d := range scoring.DefaultDimensions() {
		dc := DimensionConfig{Name: d.Name}
		for _, c := range d.Categories {
			dc.Categories = append(dc.Categories, CategoryConfig{Label: c.Label, Column: c.Column, CountColumn: c.CountColumn})
		}
		out = append(out, dc)
	}
	return out
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         8700,
			MetricsPort:  8701,
			RateLimitRPM: 600,
		},
		Dataset: DatasetConfig{
			RegionSource:     SourceCSV,
			RegionsPath:      "data/final_state_dataset.csv",
			RegionNameColumn: "state_name",
			PresetsPath:      "data/election_presets.json",
		},
		Engine: EngineConfig{
			DefaultPeriod:   "2024",
			SliderStep:      0.01,
			SanityTolerance: scoring.DefaultTolerance,
			Dimensions:      defaultDimensions(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("BELLWETHER_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("BELLWETHER_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("BELLWETHER_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("BELLWETHER_REGION_SOURCE"); v != "" {
		cfg.Dataset.RegionSource = v
	}
	if v := os.Getenv("BELLWETHER_REGIONS_PATH"); v != "" {
		cfg.Dataset.RegionsPath = v
	}
	if v := os.Getenv("BELLWETHER_PRESETS_PATH"); v != "" {
		cfg.Dataset.PresetsPath = v
	}
	if v := os.Getenv("BELLWETHER_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("BELLWETHER_HERMES_URL"); v != "" {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("BELLWETHER_DEFAULT_PERIOD"); v != "" {
		cfg.Engine.DefaultPeriod = v
	}
	if v := os.Getenv("BELLWETHER_SLIDER_STEP"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Engine.SliderStep = f
		}
	}
	if v := os.Getenv("BELLWETHER_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("BELLWETHER_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
