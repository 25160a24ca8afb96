package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	ScanDir string        `mapstructure:"scan_dir" yaml:"scan_dir"`
	DBPath  string        `mapstructure:"db_path" yaml:"db_path"`
	Crawler CrawlerConfig `mapstructure:"crawler" yaml:"crawler"`
	Scanner ScannerConfig `mapstructure:"scanner" yaml:"scanner"`
	Geo     GeoConfig     `mapstructure:"geo" yaml:"geo"`
}

// CrawlerConfig controls the BFS crawl engine
type CrawlerConfig struct {
	UserAgent       string `mapstructure:"user_agent" yaml:"user_agent"`
	DefaultDepth    int    `mapstructure:"default_depth" yaml:"default_depth"`
	DefaultMaxPages int    `mapstructure:"default_max_pages" yaml:"default_max_pages"`
	FetchTimeout    string `mapstructure:"fetch_timeout" yaml:"fetch_timeout"`
	RobotsTimeout   string `mapstructure:"robots_timeout" yaml:"robots_timeout"`
	MaxBodyKB       int    `mapstructure:"max_body_kb" yaml:"max_body_kb"`
}

// ScannerConfig controls the port scan engine
type ScannerConfig struct {
	DefaultPorts []int  `mapstructure:"default_ports" yaml:"default_ports"`
	DialTimeout  string `mapstructure:"dial_timeout" yaml:"dial_timeout"`
	ReadTimeout  string `mapstructure:"read_timeout" yaml:"read_timeout"`
	Simulate     bool   `mapstructure:"simulate" yaml:"simulate"`
}

// GeoConfig controls the geolocation lookup service
type GeoConfig struct {
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
}

// Load reads and parses configuration from a YAML file.
// If path is empty, searches for insightscout.yaml in the current directory,
// ./configs, and ~/.config/insightscout/
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("insightscout")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")

		homeDir, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(homeDir, ".config", "insightscout"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.ScanDir == "" {
		errs = append(errs, errors.New("scan_dir cannot be empty"))
	}

	if c.DBPath == "" {
		errs = append(errs, errors.New("db_path cannot be empty"))
	}

	if c.Crawler.UserAgent == "" {
		errs = append(errs, errors.New("crawler.user_agent cannot be empty"))
	}

	if c.Crawler.DefaultDepth < 0 || c.Crawler.DefaultDepth > 5 {
		errs = append(errs, errors.New("crawler.default_depth must be in 0-5"))
	}

	if c.Crawler.DefaultMaxPages < 1 || c.Crawler.DefaultMaxPages > 100 {
		errs = append(errs, errors.New("crawler.default_max_pages must be in 1-100"))
	}

	if len(c.Scanner.DefaultPorts) == 0 {
		errs = append(errs, errors.New("scanner.default_ports cannot be empty"))
	}

	for _, p := range c.Scanner.DefaultPorts {
		if p < 1 || p > 65535 {
			errs = append(errs, fmt.Errorf("scanner.default_ports: invalid port %d", p))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}
