package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Store drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
	CORSOrigins string `yaml:"cors_origins"`
	// Storage
	StoreDriver string `yaml:"store_driver"` // "postgres" or "sqlite"
	DatabaseURL string `yaml:"database_url"`
	SQLitePath  string `yaml:"sqlite_path"`
	TablePrefix string `yaml:"table_prefix"`
	AutoMigrate bool   `yaml:"auto_migrate"`
	// Auth: JWKSURL wins when both are set
	JWKSURL   string `yaml:"jwks_url"`
	JWTSecret string `yaml:"jwt_secret"`
	// Logging
	LogDir      string `yaml:"log_dir"` // empty = stdout only
	LogMaxFiles int    `yaml:"log_max_files"`
}

// Load builds the configuration from the environment. When CONFIG_FILE
// names a YAML file, values from that file fill in anything the
// environment left unset.
func Load() (*Config, error) {
	env := getEnv("ENVIRONMENT", "dev")

	cfg := &Config{
		Port:        os.Getenv("PORT"),
		Environment: env,
		CORSOrigins: os.Getenv("CORS_ORIGINS"),
		StoreDriver: os.Getenv("STORE_DRIVER"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  os.Getenv("SQLITE_PATH"),
		TablePrefix: os.Getenv("TABLE_PREFIX"),
		AutoMigrate: getBool("AUTO_MIGRATE", env != "prod"),
		JWKSURL:     os.Getenv("JWKS_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		LogDir:      os.Getenv("LOG_DIR"),
		LogMaxFiles: getInt("LOG_MAX_FILES", 0),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		fileCfg, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg.merge(fileCfg)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads a YAML configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks that the selected store and auth settings are usable.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s store", DriverPostgres)
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the %s store", DriverSQLite)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}

	if c.JWKSURL == "" && c.JWTSecret == "" {
		return fmt.Errorf("one of JWKS_URL or JWT_SECRET must be set")
	}
	return nil
}

// merge copies values from other into c where c has none.
func (c *Config) merge(other *Config) {
	setIfEmpty(&c.Port, other.Port)
	setIfEmpty(&c.CORSOrigins, other.CORSOrigins)
	setIfEmpty(&c.StoreDriver, other.StoreDriver)
	setIfEmpty(&c.DatabaseURL, other.DatabaseURL)
	setIfEmpty(&c.SQLitePath, other.SQLitePath)
	setIfEmpty(&c.TablePrefix, other.TablePrefix)
	setIfEmpty(&c.JWKSURL, other.JWKSURL)
	setIfEmpty(&c.JWTSecret, other.JWTSecret)
	setIfEmpty(&c.LogDir, other.LogDir)
	if os.Getenv("AUTO_MIGRATE") == "" && other.AutoMigrate {
		c.AutoMigrate = true
	}
	if c.LogMaxFiles == 0 {
		c.LogMaxFiles = other.LogMaxFiles
	}
}

func (c *Config) applyDefaults() {
	setIfEmpty(&c.Port, "8080")
	setIfEmpty(&c.CORSOrigins, "http://localhost:3000")
	setIfEmpty(&c.StoreDriver, DriverPostgres)
	setIfEmpty(&c.TablePrefix, getTablePrefix(c.Environment))
	if c.LogMaxFiles <= 0 {
		c.LogMaxFiles = 10
	}
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func setIfEmpty(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}
