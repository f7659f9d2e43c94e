package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Server struct {
		Port           string   `yaml:"port"`
		RequestTimeout string   `yaml:"requestTimeout"`
		AllowedOrigins []string `yaml:"allowedOrigins"`
	} `yaml:"server"`
	Store struct {
		Driver string `yaml:"driver"`
	} `yaml:"store"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	SQLite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
	Keys struct {
		Attempts int `yaml:"attempts"`
	} `yaml:"keys"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// StoreDriver picks the configured driver, inferring one from the connection
// settings when none is named.
func (c Config) StoreDriver() string {
	switch {
	case c.Store.Driver != "":
		return c.Store.Driver
	case c.Postgres.URL != "":
		return DriverPostgres
	case c.Redis.Addr != "":
		return DriverRedis
	case c.SQLite.Path != "":
		return DriverSQLite
	default:
		return DriverMemory
	}
}

func (c Config) Validate() error {
	switch c.StoreDriver() {
	case DriverMemory:
	case DriverPostgres:
		if c.Postgres.URL == "" {
			return fmt.Errorf("store driver %q needs postgres.url", DriverPostgres)
		}
	case DriverRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("store driver %q needs redis.addr", DriverRedis)
		}
	case DriverSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("store driver %q needs sqlite.path", DriverSQLite)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	return nil
}

// Duration parses a duration string or returns the fallback if empty.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
