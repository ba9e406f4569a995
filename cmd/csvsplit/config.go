package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config mirrors the command line; any field may come from a config file.
type Config struct {
	Input       string `json:"input" toml:"input" yaml:"input"`
	Prefix      string `json:"prefix" toml:"prefix" yaml:"prefix"`
	Column      string `json:"column" toml:"column" yaml:"column"`
	Dialect     string `json:"dialect" toml:"dialect" yaml:"dialect"`
	DateSplit   *bool  `json:"date_split" toml:"date_split" yaml:"date_split"`
	Header      string `json:"header" toml:"header" yaml:"header"`
	Encoding    string `json:"encoding" toml:"encoding" yaml:"encoding"`
	Gzip        bool   `json:"gzip" toml:"gzip" yaml:"gzip"`
	SampleLines int    `json:"sample_lines" toml:"sample_lines" yaml:"sample_lines"`
	Summary     bool   `json:"summary" toml:"summary" yaml:"summary"`
	LogLevel    string `json:"log_level" toml:"log_level" yaml:"log_level"`
}

// decoders by file extension; config_toml.go and config_yaml.go add theirs.
var decoders = map[string]func([]byte, any) error{
	".json": json.Unmarshal,
}

func loadConfig(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	ext := strings.ToLower(filepath.Ext(path))
	dec, ok := decoders[ext]
	if !ok {
		return cfg, fmt.Errorf("unsupported config format %q", ext)
	}
	if err := dec(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}
