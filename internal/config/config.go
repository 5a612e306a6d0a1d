package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Cheertaboi/promo-code-service/pkg/db"
)

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // trace|debug|info|warn|error
	Format string `yaml:"format"` // json|console
}

type RedisConfig struct {
	Addr     string `yaml:"addr"` // empty selects the in-memory limiter
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type LimiterConfig struct {
	MaxAttempts int           `yaml:"max_attempts"` // <= 0 disables limiting
	Window      time.Duration `yaml:"window"`
}

type SweeperConfig struct {
	Interval  time.Duration `yaml:"interval"` // 0 disables the sweep
	BatchSize int           `yaml:"batch_size"`
	Workers   int           `yaml:"workers"`
}

type Config struct {
	Server   ServerConfig      `yaml:"server"`
	Log      LogConfig         `yaml:"log"`
	Database db.PostgresConfig `yaml:"database"`
	Redis    RedisConfig       `yaml:"redis"`
	Limiter  LimiterConfig     `yaml:"limiter"`
	Sweeper  SweeperConfig     `yaml:"sweeper"`
}

// Load reads path (a missing file is allowed), applies env overrides and defaults, and validates.
func Load(path string) (*Config, error) {
	cfg := Config{
		Limiter: LimiterConfig{MaxAttempts: 10},
	}

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg.applyEnv()
	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	c.Database.ApplyEnv()
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
}

func (c *Config) setDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	c.Server.ReadTimeout = orDefault(c.Server.ReadTimeout, 10*time.Second)
	c.Server.WriteTimeout = orDefault(c.Server.WriteTimeout, 15*time.Second)
	c.Server.IdleTimeout = orDefault(c.Server.IdleTimeout, 60*time.Second)
	c.Server.ShutdownTimeout = orDefault(c.Server.ShutdownTimeout, 15*time.Second)
	c.Server.RequestTimeout = orDefault(c.Server.RequestTimeout, 8*time.Second)

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}

	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	c.Limiter.Window = orDefault(c.Limiter.Window, time.Minute)

	if c.Sweeper.BatchSize <= 0 {
		c.Sweeper.BatchSize = 100
	}
	if c.Sweeper.Workers <= 0 {
		c.Sweeper.Workers = 4
	}
}

func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return errors.New("database.host is required")
	}
	if c.Database.DBName == "" {
		return errors.New("database.name is required")
	}
	if c.Sweeper.Interval < 0 {
		return errors.New("sweeper.interval must not be negative")
	}
	return nil
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
