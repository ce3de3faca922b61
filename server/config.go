// Copyright 2026 Phelgetar Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package server

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "10s" decode.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("%w: bad duration %q", ErrInvalidConfig, value.Value)
	}
	*d = Duration(parsed)
	return nil
}

// Config holds the service settings loaded from a YAML file.
type Config struct {
	// Listen is the host:port the HTTP server binds to.
	Listen string `yaml:"listen"`

	// CorpusPath points at the JSON corpus artifact.
	CorpusPath string `yaml:"corpus_path"`

	// StorePath, when set, points at a compiled BadgerDB corpus store
	// that is used instead of parsing the JSON artifact on startup.
	StorePath string `yaml:"store_path"`

	// SnippetWindow is the excerpt width in characters; 0 uses the
	// default.
	SnippetWindow int `yaml:"snippet_window"`

	// PoolSize caps the evaluation worker pool; 0 uses one worker per
	// CPU.
	PoolSize int `yaml:"pool_size"`

	// MaxPerPage bounds the per_page query parameter.
	MaxPerPage int `yaml:"max_per_page"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`

	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the settings used when no config file is given.
func DefaultConfig() Config {
	return Config{
		Listen:          ":8420",
		MaxPerPage:      100,
		ShutdownTimeout: Duration(10 * time.Second),
		LogLevel:        "info",
	}
}

// LoadConfig reads and validates a YAML config file. Unset fields keep
// their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the config for values the server cannot start with.
func (c Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("%w: listen address is empty", ErrInvalidConfig)
	}
	if c.CorpusPath == "" && c.StorePath == "" {
		return fmt.Errorf("%w: corpus_path or store_path is required", ErrInvalidConfig)
	}
	if c.MaxPerPage <= 0 {
		return fmt.Errorf("%w: max_per_page must be positive", ErrInvalidConfig)
	}
	return nil
}
