// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads and validates labtree.yaml.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the config file name looked up in the user's
// ~/.labtree directory.
const DefaultFileName = "labtree.yaml"

var validate = validator.New(validator.WithRequiredStructEnabled())

// DefaultPath returns ~/.labtree/labtree.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find the user's home directory: %w", err)
	}
	return filepath.Join(home, ".labtree", DefaultFileName), nil
}

// Load reads and validates the config at path.
//
// An empty path means DefaultPath; if that file does not exist the defaults
// are returned. An explicit path that does not exist is an error. Fields
// missing from the file keep their default values.
func Load(path string) (LabtreeConfig, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return LabtreeConfig{}, fmt.Errorf("failed to read the config file %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return LabtreeConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
//
// Unknown keys are rejected so typos do not silently fall back to defaults.
func Parse(data []byte) (LabtreeConfig, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return LabtreeConfig{}, fmt.Errorf("parse config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return LabtreeConfig{}, err
	}
	return cfg, nil
}

// Validate checks cfg against its validate tags.
func Validate(cfg LabtreeConfig) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// WriteDefault writes the default configuration to path, creating parent
// directories. An existing file is left alone.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create the config directory %w", err)
	}
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
