// Package config loads and validates topicnotes YAML configuration.
// It applies defaults so the server can rely on fully populated values.
package config

import (
	"errors"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// TLSConfig holds optional TLS certificate paths. When both are set the
// server serves HTTPS and marks session cookies Secure.
type TLSConfig struct {
	CertPath string `yaml:"cert_path"`
	KeyPath  string `yaml:"key_path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// DBConfig holds database settings.
type DBConfig struct {
	Path string `yaml:"path"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Bind string    `yaml:"bind"`
	Port int       `yaml:"port"`
	TLS  TLSConfig `yaml:"tls"`
}

// SessionConfig holds session lifetime settings.
type SessionConfig struct {
	TTLHours int `yaml:"ttl_hours"`
}

// StoreConfig bounds individual store operations.
type StoreConfig struct {
	TimeoutMS int `yaml:"timeout_ms"`
}

// Config mirrors the topicnotes.yaml schema.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	DB      DBConfig      `yaml:"db"`
	HTTP    HTTPConfig    `yaml:"http"`
	Session SessionConfig `yaml:"session"`
	Store   StoreConfig   `yaml:"store"`
}

// Load reads a YAML config file, applies defaults, and validates it.
func Load(path string) (Config, error) {
	var c Config
	if path == "" {
		return c, errors.New("config path is required")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, err
	}
	// Trim before defaulting so a whitespace-only path counts as unset
	// rather than slipping past validation as a bogus non-empty value.
	c.DB.Path = strings.TrimSpace(c.DB.Path)
	c.HTTP.TLS.CertPath = strings.TrimSpace(c.HTTP.TLS.CertPath)
	c.HTTP.TLS.KeyPath = strings.TrimSpace(c.HTTP.TLS.KeyPath)
	applyDefaults(&c)
	if err := validate(&c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// applyDefaults populates zero-values with sane defaults.
func applyDefaults(c *Config) {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.DB.Path == "" {
		c.DB.Path = "./data/topicnotes.db"
	}
	if c.HTTP.Bind == "" {
		c.HTTP.Bind = "127.0.0.1"
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 5180
	}
	if c.Session.TTLHours == 0 {
		c.Session.TTLHours = 12
	}
	if c.Store.TimeoutMS == 0 {
		c.Store.TimeoutMS = 5000
	}
}

// validate performs basic sanity checks for required fields and ranges.
func validate(c *Config) error {
	if strings.TrimSpace(c.Log.Level) == "" {
		return errors.New("log.level is required")
	}
	if c.DB.Path == "" {
		return errors.New("db.path is required")
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return errors.New("http.port is invalid")
	}
	if c.Session.TTLHours < 1 || c.Session.TTLHours > 24*30 {
		return errors.New("session.ttl_hours is invalid")
	}
	if c.Store.TimeoutMS < 100 || c.Store.TimeoutMS > 60000 {
		return errors.New("store.timeout_ms is invalid")
	}
	cp := strings.TrimSpace(c.HTTP.TLS.CertPath)
	kp := strings.TrimSpace(c.HTTP.TLS.KeyPath)
	if (cp == "") != (kp == "") {
		return errors.New("http.tls.cert_path and http.tls.key_path must be set together")
	}
	return nil
}
