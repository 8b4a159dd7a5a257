// Package config handles configuration loading for a qualification run
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultNonProd is the default set of non-production database names.
var DefaultNonProd = []string{"STGDV", "STGQA", "CIDDV", "CIDQA", "DEV", "TEST", "UAT"}

var (
	errDatabaseRequired = errors.New("target database name is required")
	errSchemaRequired   = errors.New("target schema name is required")
)

// Config holds the settings of one qualification run
type Config struct {
	Database string   `yaml:"database"`
	Schema   string   `yaml:"schema"`
	NonProd  []string `yaml:"non_prod_databases"`
	Preview  bool     `yaml:"preview"`
}

// Load reads the optional YAML config file at path and fills unset values
// from the environment (DBNAME, SCHEMANAME, NONPROD_DATABASES). A .env file
// is honoured when present.
func Load(path string) (*Config, error) {
	// It's okay if the .env file doesn't exist
	_ = godotenv.Load()

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if cfg.Database == "" {
		cfg.Database = os.Getenv("DBNAME")
	}
	if cfg.Schema == "" {
		cfg.Schema = os.Getenv("SCHEMANAME")
	}
	if len(cfg.NonProd) == 0 {
		cfg.NonProd = splitList(os.Getenv("NONPROD_DATABASES"))
	}
	if len(cfg.NonProd) == 0 {
		cfg.NonProd = append([]string(nil), DefaultNonProd...)
	}

	return cfg, nil
}

// Validate checks that the required target names are present.
func (c *Config) Validate() error {
	if c.Database == "" {
		return errDatabaseRequired
	}
	if c.Schema == "" {
		return errSchemaRequired
	}
	return nil
}

func (c *Config) String() string {
	return fmt.Sprintf(`Target database:        %s
Target schema:          %s
Non-prod databases:     %s
Preview mode:           %v`,
		c.Database, c.Schema, strings.Join(c.NonProd, ", "), c.Preview)
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
