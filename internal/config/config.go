// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config loads optional per-tree defaults from a .repobatch.yaml
// file at the search root. Command line flags take precedence over file
// values; a missing file yields the zero value configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"
)

// FileName is the per-tree configuration file looked up at the search root.
const FileName = ".repobatch.yaml"

// ErrInvalidConfig is returned when the configuration file cannot be parsed.
var ErrInvalidConfig = errors.New("invalid configuration file")

// Config holds per-tree defaults. Zero values mean "not set" and leave the
// corresponding flag default in effect.
type Config struct {
	// MaxDepth is the default discovery depth.
	MaxDepth int `yaml:"max_depth"`
	// Exclude replaces the default directory block-list when non-empty.
	Exclude []string `yaml:"exclude"`
	// TimeoutSeconds is the default per-command timeout.
	TimeoutSeconds int `yaml:"timeout_seconds"`
	// MaxWorkers is the default parallel worker bound.
	MaxWorkers int `yaml:"max_workers"`
}

// Load reads the configuration file under root. A missing file is not an
// error and returns the zero value configuration.
func Load(fs afero.Fs, root string) (*Config, error) {
	data, err := afero.ReadFile(fs, filepath.Join(root, FileName))
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}

		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	if cfg.MaxDepth < 0 {
		return nil, fmt.Errorf("%w: max_depth must not be negative", ErrInvalidConfig)
	}

	return &cfg, nil
}
