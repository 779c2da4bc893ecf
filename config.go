package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the single process configuration. Deployment variants are
// expressed through this one file plus flag/env overrides instead of
// separate entry points.
type Config struct {
	Port            int    `yaml:"port"`
	DBPath          string `yaml:"db"`
	AppName         string `yaml:"app_name"`
	UploadDir       string `yaml:"upload_dir"`
	SessionTTLHours int    `yaml:"session_ttl_hours"`
}

// cfg is the active configuration, set once at startup.
var cfg = defaultConfig()

func defaultConfig() Config {
	return Config{
		Port:            9000,
		DBPath:          "dollcase.db",
		AppName:         "Dollcase",
		UploadDir:       "uploads",
		SessionTTLHours: 24,
	}
}

// loadConfig reads a YAML config file over the defaults. A missing file is
// not an error; a malformed one is.
func loadConfig(path string) (Config, error) {
	c := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return c, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parse config %s: %w", path, err)
	}
	if c.Port <= 0 {
		c.Port = 9000
	}
	if c.SessionTTLHours <= 0 {
		c.SessionTTLHours = 24
	}
	return c, nil
}
