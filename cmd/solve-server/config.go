package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the optional YAML configuration of the server.
type Config struct {
	Port         int       `yaml:"port"`
	MaxBodyBytes int64     `yaml:"max_body_bytes"`
	Gzip         bool      `yaml:"gzip"`
	Timeouts     Timeouts  `yaml:"timeouts"`
	Log          LogConfig `yaml:"log"`
}

type Timeouts struct {
	ReadHeader time.Duration `yaml:"read_header"`
	Read       time.Duration `yaml:"read"`
	Write      time.Duration `yaml:"write"`
	Idle       time.Duration `yaml:"idle"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"` // auto, text, json
	IncludeSrc bool   `yaml:"include_src"`
	ToFile     bool   `yaml:"to_file"`
	Filename   string `yaml:"filename"`
	MaxSize    int    `yaml:"max_size"`
	MaxAge     int    `yaml:"max_age"`
	MaxBackups int    `yaml:"max_backups"`
	Compress   bool   `yaml:"compress"`
}

func defaultConfig() Config {
	return Config{
		Port:         8080,
		MaxBodyBytes: 1 << 20, // 1 MiB
		Gzip:         true,
		Timeouts: Timeouts{
			ReadHeader: 5 * time.Second,
			Read:       15 * time.Second,
			Write:      15 * time.Second,
			Idle:       60 * time.Second,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "auto",
			Filename:   "solve-server.log",
			MaxSize:    100,
			MaxAge:     28,
			MaxBackups: 3,
		},
	}
}

// loadConfig returns the defaults overlaid with the file at path, if any.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive")
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "auto", "text", "json":
	default:
		return fmt.Errorf("log.format must be auto, text or json, got %q", c.Log.Format)
	}
	if c.Log.ToFile && c.Log.Filename == "" {
		return fmt.Errorf("log.filename is required when log.to_file is set")
	}
	return nil
}
