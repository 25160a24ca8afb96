package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		ScanDir: "scans",
		DBPath:  "insightscout.db",
		Crawler: CrawlerConfig{
			UserAgent:       "insight-scout-crawler/1.0",
			DefaultDepth:    2,
			DefaultMaxPages: 25,
			FetchTimeout:    "10s",
			RobotsTimeout:   "5s",
			MaxBodyKB:       2048,
		},
		Scanner: ScannerConfig{
			DefaultPorts: []int{21, 22, 23, 25, 53, 80, 110, 143, 443, 445, 1433, 3306, 3389, 5432, 6379, 8080, 8443, 27017},
			DialTimeout:  "3s",
			ReadTimeout:  "3s",
			Simulate:     false,
		},
		Geo: GeoConfig{
			Endpoint: "http://ip-api.com/json",
		},
	}
}

// WriteDefault writes a default configuration to the specified path
func WriteDefault(path string) error {
	cfg := DefaultConfig()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
