// Package config loads the keyset-server configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable holding the config file path.
const EnvConfigPath = "KEYSET_CONFIG"

type Config struct {
	HTTP       HTTPConf       `yaml:"http"`
	Database   DatabaseConf   `yaml:"database"`
	Pagination PaginationConf `yaml:"pagination"`
	Logging    LoggingConf    `yaml:"logging"`
	Cache      CacheConf      `yaml:"cache"`
}

type HTTPConf struct {
	Addr string `yaml:"addr" validate:"required"`
}

type DatabaseConf struct {
	Dialect string `yaml:"dialect" validate:"required,oneof=sqlite mysql postgres"`
	DSN     string `yaml:"dsn" validate:"required"`
}

type PaginationConf struct {
	MaxLimit int `yaml:"max_limit" validate:"min=1,max=1000"`
}

type LoggingConf struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
	Format  string `yaml:"format" validate:"omitempty,oneof=json console"`
}

type CacheConf struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr" validate:"required_if=Enabled true"`
	Password string        `yaml:"password"`
	TTL      time.Duration `yaml:"ttl" validate:"min=0"`
	Prefix   string        `yaml:"prefix"`
}

// Default returns the configuration used for absent keys.
func Default() Config {
	return Config{
		HTTP: HTTPConf{Addr: ":8080"},
		Database: DatabaseConf{
			Dialect: "sqlite",
			DSN:     "file::memory:?cache=shared",
		},
		Pagination: PaginationConf{MaxLimit: 100},
		Logging: LoggingConf{
			Enabled: true,
			Level:   "info",
			Format:  "json",
		},
		Cache: CacheConf{
			TTL:    time.Minute,
			Prefix: "keyset:index:",
		},
	}
}

// Load reads the file named by KEYSET_CONFIG. Without it the defaults are
// used.
func Load() (Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		cfg := Default()
		return cfg, Validate(cfg)
	}

	return LoadFile(path)
}

func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("cannot read config: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("cannot parse config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func Validate(cfg Config) error {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("invalid config: %w", err)
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		msgs = append(msgs, fmt.Sprintf("field '%s' failed on '%s'", e.Namespace(), e.Tag()))
	}

	return fmt.Errorf("invalid config:\n- %s", strings.Join(msgs, "\n- "))
}
