// Package config loads server configuration from an optional YAML file,
// the environment and, in development, a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// Canonical environment variable keys.
	KeyAppEnv          = "APP_ENV"
	KeyConfigPath      = "CONFIG_PATH"
	KeyPort            = "PORT"
	KeyStorageDriver   = "STORAGE_DRIVER"
	KeyDBPath          = "DB_PATH"
	KeySeedData        = "SEED_DATA"
	KeyStaticPath      = "STATIC_PATH"
	KeyJWTSecret       = "JWT_SECRET"
	KeyJWTExpiry       = "JWT_EXPIRY"
	KeySubmitRateLimit = "SUBMIT_RATE_LIMIT"
	KeyLogLevel        = "LOG_LEVEL"
	KeyTrustedProxies  = "TRUSTED_PROXIES"

	// Allowed environment values.
	EnvDevelopment = "development"
	EnvProduction  = "production"

	// Storage drivers.
	DriverMemory = "memory"
	DriverSQLite = "sqlite"

	// Defaults for optional settings.
	DefaultAppEnv          = EnvProduction
	DefaultConfigPath      = "./config.yaml"
	DefaultPort            = 8080
	DefaultStorageDriver   = DriverMemory
	DefaultDBPath          = "./data/groups.db"
	DefaultStaticPath      = "./client/dist"
	DefaultJWTExpiry       = 24 * time.Hour
	DefaultSubmitRateLimit = 10
	DefaultLogLevel        = "info"

	// devJWTSecret is only accepted in development.
	devJWTSecret = "groupdir-development-secret"
)

// Config mirrors resolved configuration values after loading.
type Config struct {
	AppEnv        string        `yaml:"app_env"`
	Port          int           `yaml:"port"`
	StorageDriver string        `yaml:"storage_driver"`
	DBPath        string        `yaml:"db_path"`
	SeedData      bool          `yaml:"seed_data"`
	StaticPath    string        `yaml:"static_path"`
	JWTSecret     string        `yaml:"jwt_secret"`
	JWTExpiry     time.Duration `yaml:"jwt_expiry"`
	LogLevel      string        `yaml:"log_level"`

	// SubmitRateLimit is the number of group submissions allowed per client
	// per minute. Zero disables the limit.
	SubmitRateLimit int `yaml:"submit_rate_limit"`

	// TrustedProxies are the proxy IPs or CIDRs allowed to set
	// X-Forwarded-For. Empty trusts no proxy.
	TrustedProxies []string `yaml:"trusted_proxies"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		AppEnv:          DefaultAppEnv,
		Port:            DefaultPort,
		StorageDriver:   DefaultStorageDriver,
		DBPath:          DefaultDBPath,
		SeedData:        true,
		StaticPath:      DefaultStaticPath,
		JWTExpiry:       DefaultJWTExpiry,
		SubmitRateLimit: DefaultSubmitRateLimit,
		LogLevel:        DefaultLogLevel,
	}
}

// Load resolves configuration: defaults, then the YAML file at CONFIG_PATH
// (missing is fine), then environment variables. A .env file is loaded
// first when APP_ENV resolves to development.
func Load() (Config, error) {
	appEnv, err := resolveAppEnv()
	if err != nil {
		return Config{}, err
	}
	if err := loadDotEnv(appEnv); err != nil {
		return Config{}, err
	}

	cfg := Default()
	cfg.AppEnv = appEnv

	path := firstNonEmpty(os.Getenv(KeyConfigPath), DefaultConfigPath)
	if err := loadFile(path, &cfg); err != nil {
		return Config{}, err
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	cfg.AppEnv = normalize(cfg.AppEnv)
	cfg.StorageDriver = normalize(cfg.StorageDriver)

	if cfg.JWTSecret == "" && cfg.IsDevelopment() {
		cfg.JWTSecret = devJWTSecret
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the resolved configuration.
func (c Config) Validate() error {
	if c.AppEnv != EnvDevelopment && c.AppEnv != EnvProduction {
		return fmt.Errorf("invalid %s: must be %q or %q", KeyAppEnv, EnvDevelopment, EnvProduction)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%s must be between 1 and 65535", KeyPort)
	}
	if c.StorageDriver != DriverMemory && c.StorageDriver != DriverSQLite {
		return fmt.Errorf("invalid %s: must be %q or %q", KeyStorageDriver, DriverMemory, DriverSQLite)
	}
	if c.StorageDriver == DriverSQLite && strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("%s is required for the %s driver", KeyDBPath, DriverSQLite)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("missing required environment variable: %s", KeyJWTSecret)
	}
	if c.JWTExpiry <= 0 {
		return fmt.Errorf("%s must be positive", KeyJWTExpiry)
	}
	if c.SubmitRateLimit < 0 {
		return fmt.Errorf("%s must not be negative", KeySubmitRateLimit)
	}
	return nil
}

// IsDevelopment reports if APP_ENV is development.
func (c Config) IsDevelopment() bool {
	return c.AppEnv == EnvDevelopment
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv(KeyPort)); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", KeyPort, err)
		}
		cfg.Port = port
	}
	if v := strings.TrimSpace(os.Getenv(KeyStorageDriver)); v != "" {
		cfg.StorageDriver = v
	}
	if v := strings.TrimSpace(os.Getenv(KeyDBPath)); v != "" {
		cfg.DBPath = v
	}
	if v := strings.TrimSpace(os.Getenv(KeySeedData)); v != "" {
		seed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", KeySeedData, err)
		}
		cfg.SeedData = seed
	}
	if v := strings.TrimSpace(os.Getenv(KeyStaticPath)); v != "" {
		cfg.StaticPath = v
	}
	if v := strings.TrimSpace(os.Getenv(KeyJWTSecret)); v != "" {
		cfg.JWTSecret = v
	}
	if v := strings.TrimSpace(os.Getenv(KeyJWTExpiry)); v != "" {
		expiry, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", KeyJWTExpiry, err)
		}
		cfg.JWTExpiry = expiry
	}
	if v := strings.TrimSpace(os.Getenv(KeySubmitRateLimit)); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", KeySubmitRateLimit, err)
		}
		cfg.SubmitRateLimit = limit
	}
	if v := strings.TrimSpace(os.Getenv(KeyLogLevel)); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv(KeyTrustedProxies)); v != "" {
		cfg.TrustedProxies = splitList(v)
	}
	return nil
}

func resolveAppEnv() (string, error) {
	if explicit := normalize(os.Getenv(KeyAppEnv)); explicit != "" {
		return explicit, nil
	}

	dotEnvValues, err := godotenv.Read()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultAppEnv, nil
		}
		return "", fmt.Errorf("read .env: %w", err)
	}

	if envFromFile := normalize(dotEnvValues[KeyAppEnv]); envFromFile != "" {
		return envFromFile, nil
	}
	return DefaultAppEnv, nil
}

func loadDotEnv(appEnv string) error {
	if appEnv != EnvDevelopment {
		return nil
	}

	if err := godotenv.Load(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// splitList splits a comma-separated value, dropping empty entries.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, val := range values {
		if strings.TrimSpace(val) != "" {
			return strings.TrimSpace(val)
		}
	}
	return ""
}
