package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/taxon/pkg/taxon/internalerr"
)

// Oracle providers.
const (
	ProviderKeyword = "keyword"
	ProviderChat    = "chat"
	ProviderOpenAI  = "openai"
)

// Config is the taxon configuration file.
type Config struct {
	Oracle   Oracle   `yaml:"oracle"`
	Store    Store    `yaml:"store"`
	Taxonomy Taxonomy `yaml:"taxonomy"`
	Metrics  Metrics  `yaml:"metrics"`
}

// Oracle selects and tunes the labeling backend.
type Oracle struct {
	Provider  string        `yaml:"provider" validate:"oneof=keyword chat openai"`
	BaseURL   string        `yaml:"base_url" validate:"omitempty,url"`
	Model     string        `yaml:"model" validate:"required_if=Provider chat"`
	APIKeyEnv string        `yaml:"api_key_env"`
	Timeout   time.Duration `yaml:"timeout" validate:"gte=0"`
	Cache     Cache         `yaml:"cache"`
}

// Cache configures the oracle answer cache.
type Cache struct {
	Dir      string `yaml:"dir"`
	InMemory bool   `yaml:"in_memory"`
}

// Enabled reports whether answers should be cached.
func (c Cache) Enabled() bool {
	return c.InMemory || c.Dir != ""
}

// Store configures snapshot persistence.
type Store struct {
	// Path is a SQLite file. Empty keeps snapshots in memory.
	Path string `yaml:"path"`
}

// Taxonomy lists classifications loaded at startup.
type Taxonomy struct {
	Files           []string `yaml:"files" validate:"dive,required"`
	Classifications []string `yaml:"classifications"`
	SkipInvalid     bool     `yaml:"skip_invalid"`
}

// Metrics configures the Prometheus endpoint.
type Metrics struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Oracle: Oracle{
			Provider:  ProviderKeyword,
			APIKeyEnv: "OPENAI_API_KEY",
			Timeout:   15 * time.Second,
		},
	}
}

var validate = validator.New()

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s failed %q", internalerr.ErrInvalidConfig, verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	if c.Oracle.Provider == ProviderChat && c.Oracle.BaseURL == "" {
		return fmt.Errorf("%w: oracle.base_url is required for the chat provider", internalerr.ErrInvalidConfig)
	}
	return nil
}

// Load reads a YAML configuration file on top of Default and validates it.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
