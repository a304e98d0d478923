// Package config loads quizsupply settings from a YAML file, a .env file and
// QUIZSUPPLY_* environment variables, in that order of increasing priority.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/quizsupply/internal/corpus"
	"github.com/abhisek/quizsupply/internal/supply"
)

// Config holds all quizsupply configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store"`
	Supply SupplyConfig `yaml:"supply"`
	Server ServerConfig `yaml:"server"`
	Corpus CorpusConfig `yaml:"corpus"`
}

// StoreConfig selects the database.
type StoreConfig struct {
	// DSN is a SQLite file path or a postgres:// URL. Empty means the
	// default SQLite path under the XDG data directory.
	DSN string `yaml:"dsn"`
}

// SupplyConfig tunes the supply pipeline.
type SupplyConfig struct {
	MinAcceptableFraction float64 `yaml:"min_acceptable_fraction"`
	TemplateBudgetFactor  int     `yaml:"template_budget_factor"`
	EmergencyBudgetFactor int     `yaml:"emergency_budget_factor"`
	RelaxGrades           bool    `yaml:"relax_grades"`
	Overshoot             int     `yaml:"overshoot"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// CorpusConfig configures corpus reporting.
type CorpusConfig struct {
	// ThinThreshold flags combinations with fewer records than this.
	ThinThreshold int `yaml:"thin_threshold"`
}

// Default returns a Config with the recommended settings.
func Default() Config {
	sc := supply.DefaultConfig()
	return Config{
		Supply: SupplyConfig{
			MinAcceptableFraction: sc.MinAcceptableFraction,
			TemplateBudgetFactor:  sc.TemplateBudgetFactor,
			EmergencyBudgetFactor: sc.EmergencyBudgetFactor,
			RelaxGrades:           sc.RelaxGrades,
			Overshoot:             sc.Overshoot,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
			RequestTimeout: 30 * time.Second,
		},
		Corpus: CorpusConfig{
			ThinThreshold: corpus.DefaultThinThreshold,
		},
	}
}

// Load reads a YAML config file over the defaults. Unknown keys and
// multi-document files are rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config data over the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := decoder.Decode(&yaml.Node{}); err != io.EOF {
		if err == nil {
			return Config{}, fmt.Errorf("parse config: multiple YAML documents are not supported")
		}
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg with QUIZSUPPLY_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("QUIZSUPPLY_DB"); v != "" {
		c.Store.DSN = v
	}
	if v := os.Getenv("QUIZSUPPLY_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("QUIZSUPPLY_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Server.AllowedOrigins = origins
	}
	if v := os.Getenv("QUIZSUPPLY_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("QUIZSUPPLY_REQUEST_TIMEOUT: %w", err)
		}
		c.Server.RequestTimeout = d
	}
	if v := os.Getenv("QUIZSUPPLY_MIN_ACCEPTABLE_FRACTION"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("QUIZSUPPLY_MIN_ACCEPTABLE_FRACTION: %w", err)
		}
		c.Supply.MinAcceptableFraction = f
	}
	ints := []struct {
		key string
		dst *int
	}{
		{"QUIZSUPPLY_TEMPLATE_BUDGET_FACTOR", &c.Supply.TemplateBudgetFactor},
		{"QUIZSUPPLY_EMERGENCY_BUDGET_FACTOR", &c.Supply.EmergencyBudgetFactor},
		{"QUIZSUPPLY_OVERSHOOT", &c.Supply.Overshoot},
		{"QUIZSUPPLY_THIN_THRESHOLD", &c.Corpus.ThinThreshold},
	}
	for _, e := range ints {
		if v := os.Getenv(e.key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", e.key, err)
			}
			*e.dst = n
		}
	}
	if v := os.Getenv("QUIZSUPPLY_RELAX_GRADES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("QUIZSUPPLY_RELAX_GRADES: %w", err)
		}
		c.Supply.RelaxGrades = b
	}
	return nil
}

// Validate checks the settings that have no safe fallback.
func (c Config) Validate() error {
	if err := c.Pipeline().Validate(); err != nil {
		return fmt.Errorf("supply: %w", err)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server: addr is required")
	}
	if c.Server.RequestTimeout < 0 {
		return fmt.Errorf("server: request timeout must not be negative")
	}
	if c.Corpus.ThinThreshold < 0 {
		return fmt.Errorf("corpus: thin threshold must not be negative")
	}
	return nil
}

// Pipeline returns the supply pipeline configuration with the default
// validator and generator registry.
func (c Config) Pipeline() supply.Config {
	pc := supply.DefaultConfig()
	pc.MinAcceptableFraction = c.Supply.MinAcceptableFraction
	pc.TemplateBudgetFactor = c.Supply.TemplateBudgetFactor
	pc.EmergencyBudgetFactor = c.Supply.EmergencyBudgetFactor
	pc.RelaxGrades = c.Supply.RelaxGrades
	pc.Overshoot = c.Supply.Overshoot
	return pc
}
