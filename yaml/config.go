// Package yaml loads docsite configuration files.
package yaml

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/fwojciec/docsite"
	"gopkg.in/yaml.v3"
)

// Load reads and parses a YAML configuration file.
func Load(path string) (*docsite.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, docsite.Errorf(docsite.ENOTFOUND, "config file %s not found", path)
		}
		return nil, err
	}
	return Parse(data)
}

// Parse parses YAML configuration data on top of docsite.DefaultConfig.
//
// Unknown keys are rejected. ${VAR} references in the search engine key
// and base URL are expanded from the environment. Durations use Go
// syntax, e.g. "10s".
func Parse(data []byte) (*docsite.Config, error) {
	cfg := docsite.DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, docsite.Errorf(docsite.EINVALID, "failed to parse YAML: %v", err)
	}

	cfg.Search.EngineKey = os.ExpandEnv(cfg.Search.EngineKey)
	cfg.Search.BaseURL = os.ExpandEnv(cfg.Search.BaseURL)

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
