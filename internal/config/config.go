// Package config provides YAML-based configuration loading for Muster.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/tbryce/muster/internal/roster"
	"gopkg.in/yaml.v3"
)

// Config is the top-level Muster configuration, loaded from muster.yaml.
type Config struct {
	DB      DBConfig      `yaml:"db"`
	Server  ServerConfig  `yaml:"server"`
	Stages  []string      `yaml:"stages"`
	Herald  HeraldConfig  `yaml:"herald"`
	Publish PublishConfig `yaml:"publish"`
}

// DBConfig selects and configures the storage backend.
type DBConfig struct {
	Driver   string `yaml:"driver"` // sqlite or mysql
	Path     string `yaml:"path"`   // sqlite database file
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// HeraldConfig holds notification settings.
type HeraldConfig struct {
	DigestCron string        `yaml:"digest_cron"` // 5-field cron expression
	Discord    DiscordConfig `yaml:"discord"`
	Slack      SlackConfig   `yaml:"slack"`
}

// DiscordConfig holds Discord delivery settings.
type DiscordConfig struct {
	Token     string `yaml:"token"`
	ChannelID string `yaml:"channel_id"`
}

// SlackConfig holds Slack delivery settings.
type SlackConfig struct {
	Token     string `yaml:"token"`
	ChannelID string `yaml:"channel_id"`
}

// PublishConfig holds settings for publishing progress snapshots to GitHub.
type PublishConfig struct {
	Owner  string `yaml:"owner"`
	Repo   string `yaml:"repo"`
	Branch string `yaml:"branch"`
	Path   string `yaml:"path"`
	Token  string `yaml:"token"`
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a Config with all defaults applied and no file read.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// PaintStages returns the configured painting pipeline.
func (c *Config) PaintStages() roster.Stages {
	return roster.Stages(c.Stages)
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.DB.Driver == "" {
		c.DB.Driver = "sqlite"
	}
	if c.DB.Path == "" {
		c.DB.Path = "muster.db"
	}
	if c.DB.Host == "" {
		c.DB.Host = "127.0.0.1"
	}
	if c.DB.Port == 0 {
		c.DB.Port = 3306
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if len(c.Stages) == 0 {
		c.Stages = roster.DefaultStages()
	}
	if c.Herald.DigestCron == "" {
		c.Herald.DigestCron = "0 18 * * *"
	}
	if c.Publish.Branch == "" {
		c.Publish.Branch = "main"
	}
	if c.Publish.Path == "" {
		c.Publish.Path = "PROGRESS.md"
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	switch c.DB.Driver {
	case "sqlite":
	case "mysql":
		if c.DB.Database == "" {
			errs = append(errs, "db.database is required for the mysql driver")
		}
	default:
		errs = append(errs, fmt.Sprintf("db.driver must be sqlite or mysql, got %q", c.DB.Driver))
	}
	if len(c.Stages) < 2 {
		errs = append(errs, "at least two painting stages are required")
	}
	seen := make(map[string]bool)
	for i, s := range c.Stages {
		if strings.TrimSpace(s) == "" {
			errs = append(errs, fmt.Sprintf("stages[%d] is empty", i))
			continue
		}
		if seen[s] {
			errs = append(errs, fmt.Sprintf("stage %q appears more than once", s))
		}
		seen[s] = true
	}
	if c.Herald.Discord.Token != "" && c.Herald.Discord.ChannelID == "" {
		errs = append(errs, "herald.discord.channel_id is required when a token is set")
	}
	if c.Herald.Slack.Token != "" && c.Herald.Slack.ChannelID == "" {
		errs = append(errs, "herald.slack.channel_id is required when a token is set")
	}
	if (c.Publish.Owner == "") != (c.Publish.Repo == "") {
		errs = append(errs, "publish.owner and publish.repo must be set together")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
