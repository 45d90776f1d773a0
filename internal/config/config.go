package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Catalog  CatalogConfig  `yaml:"catalog"`
}

type ServerConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	PathPrefix      string `yaml:"path_prefix"`
	SecureCookie    bool   `yaml:"secure_cookie"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type CatalogConfig struct {
	// SeedDefaults is a pointer so an explicit false survives setDefaults.
	SeedDefaults   *bool `yaml:"seed_defaults"`
	MaxImportBytes int64 `yaml:"max_import_bytes"`
}

// ShouldSeed reports whether the embedded default catalog should be applied.
func (c *CatalogConfig) ShouldSeed() bool {
	return c.SeedDefaults == nil || *c.SeedDefaults
}

func (c *ServerConfig) GetShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.ShutdownTimeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// Address returns the host:port pair the HTTP server listens on.
func (c *ServerConfig) Address() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyEnv(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// Default returns the configuration used when no config file can be loaded.
func Default() *Config {
	var cfg Config
	applyEnv(&cfg)
	setDefaults(&cfg)
	return &cfg
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("CATALOG_DB_PATH")); v != "" {
		cfg.Database.Path = v
	}
	if v := strings.TrimSpace(os.Getenv("CATALOG_PORT")); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			cfg.Server.Port = port
		}
	}
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 9999
	}
	cfg.Server.PathPrefix = strings.TrimRight(strings.TrimSpace(cfg.Server.PathPrefix), "/")
	if cfg.Server.PathPrefix != "" && !strings.HasPrefix(cfg.Server.PathPrefix, "/") {
		cfg.Server.PathPrefix = "/" + cfg.Server.PathPrefix
	}
	if cfg.Server.ShutdownTimeout == "" {
		cfg.Server.ShutdownTimeout = "10s"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "./data/catalog.db"
	}
	if cfg.Catalog.MaxImportBytes <= 0 {
		cfg.Catalog.MaxImportBytes = 2 << 20
	}
}
