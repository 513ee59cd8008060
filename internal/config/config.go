package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"oasis-proxy/internal/oasis"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Upstream UpstreamConfig `yaml:"upstream"`
	CORS     CORSConfig     `yaml:"cors"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	// "production" switches gin to release mode and logs as JSON.
	Env string `yaml:"env"`
}

type UpstreamConfig struct {
	BaseURL         string        `yaml:"base_url"`
	Timeout         time.Duration `yaml:"timeout"`
	MaxArchiveBytes int64         `yaml:"max_archive_bytes"`
	UserAgent       string        `yaml:"user_agent"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
			Env:  "development",
		},
		Upstream: UpstreamConfig{
			BaseURL:         oasis.DefaultBaseURL,
			Timeout:         oasis.DefaultTimeout,
			MaxArchiveBytes: oasis.DefaultMaxArchiveBytes,
			UserAgent:       "oasis-proxy/1.0",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
	}
}

// Load reads the YAML file at path (if any) over the defaults, applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads the file over the defaults, without env overrides or
// validation. An empty path yields the defaults.
func LoadUnchecked(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}

// ApplyEnv overlays environment variables onto c.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("API_PORT"); v != "" {
		c.Server.Port = v
	}
	if v := getenv("API_ENV"); v != "" {
		c.Server.Env = v
	}
	if v := getenv("OASIS_BASE_URL"); v != "" {
		c.Upstream.BaseURL = v
	}
	if v := getenv("OASIS_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("OASIS_TIMEOUT: %w", err)
		}
		c.Upstream.Timeout = d
	}
	if v := getenv("OASIS_MAX_ARCHIVE_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("OASIS_MAX_ARCHIVE_BYTES: %w", err)
		}
		c.Upstream.MaxArchiveBytes = n
	}
	if v := getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.CORS.AllowedOrigins = origins
	}
	return nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("server.port must be numeric: %q", c.Server.Port)
	}
	if c.Upstream.BaseURL == "" {
		return errors.New("upstream.base_url is required")
	}
	if c.Upstream.Timeout <= 0 {
		return errors.New("upstream.timeout must be positive")
	}
	if c.Upstream.MaxArchiveBytes <= 0 {
		return errors.New("upstream.max_archive_bytes must be positive")
	}
	return nil
}

func (c *Config) Production() bool {
	return c.Server.Env == "production"
}

// NewClient builds an OASIS client from the upstream settings.
func (u UpstreamConfig) NewClient() *oasis.Client {
	client := oasis.NewClient(u.Timeout)
	client.MaxArchiveBytes = u.MaxArchiveBytes
	if u.UserAgent != "" {
		client.UserAgent = u.UserAgent
	}
	return client
}
