package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Server         ServerConfig `yaml:"server,omitempty"`
	DashboardLimit int          `yaml:"dashboard_limit,omitempty"` // Entries shown on the dashboard (fallback: 50)
	HomeAssistant  HAConfig     `yaml:"home_assistant,omitempty"`
	MQTT           MQTTConfig   `yaml:"mqtt,omitempty"`
}

// ServerConfig holds the web server settings
type ServerConfig struct {
	Addr  string `yaml:"addr,omitempty"`  // e.g., ":5000"
	Debug bool   `yaml:"debug,omitempty"` // gin debug mode and debug logging
}

// HAConfig holds Home Assistant HTTP API configuration
type HAConfig struct {
	Enabled  bool   `yaml:"enabled"`
	URL      string `yaml:"url"`       // e.g., "http://homeassistant.local:8123"
	Token    string `yaml:"token"`     // Long-lived access token
	EntityID string `yaml:"entity_id"` // e.g., "sensor.household_green_score"
}

// MQTTConfig holds MQTT broker configuration
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"` // host:port
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
	TopicPrefix string `yaml:"topic_prefix,omitempty"` // default "ecohome"
}

// Load reads the config file, then applies .env and ECOHOME_* environment overrides
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		// Run with defaults if the file doesn't exist
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// Missing .env is fine; variables may already be set in the environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to file
func Save(configPath string, cfg *Config) error {
	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

// GetAddr returns the listen address with a default of :5000
func (c *Config) GetAddr() string {
	if c.Server.Addr == "" {
		return ":5000"
	}
	return c.Server.Addr
}

// GetDashboardLimit returns how many recent entries the dashboard shows, default 50
func (c *Config) GetDashboardLimit() int {
	if c.DashboardLimit <= 0 {
		return 50
	}
	return c.DashboardLimit
}

// GetTopicPrefix returns the MQTT topic prefix, default "ecohome"
func (c *Config) GetTopicPrefix() string {
	if c.MQTT.TopicPrefix == "" {
		return "ecohome"
	}
	return c.MQTT.TopicPrefix
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("ECOHOME_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("ECOHOME_DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parsing ECOHOME_DEBUG: %w", err)
		}
		c.Server.Debug = debug
	}
	if v := os.Getenv("ECOHOME_HA_TOKEN"); v != "" {
		c.HomeAssistant.Token = v
	}
	if v := os.Getenv("ECOHOME_MQTT_PASSWORD"); v != "" {
		c.MQTT.Password = v
	}
	return nil
}
