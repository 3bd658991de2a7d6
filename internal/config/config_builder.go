package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"dario.cat/mergo"
)

type configBuilder struct {
	configs []*StructuredConfig
	err     error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{
		configs: make([]*StructuredConfig, 0, 4),
	}
}

func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building config: %w", b.err)
	}

	config := new(StructuredConfig)
	for _, cfg := range b.configs {
		if err := mergo.Merge(config, cfg); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	return config, config.validate()
}

func (b *configBuilder) withEnv() *configBuilder {
	envCfg := &StructuredConfig{}
	if err := parseEnv(envCfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, envCfg)
	return b
}

func (b *configBuilder) withFlags() *configBuilder {
	b.configs = append(b.configs, ParseFlags())
	return b
}

func (b *configBuilder) withJSON() *configBuilder {
	var jsonPath string

	for _, cfg := range b.configs {
		if cfg.JSONFilePath != "" {
			jsonPath = cfg.JSONFilePath
		}
	}

	if jsonPath != "" {
		jsonCfg, err := parseJSON(jsonPath)
		if err != nil {
			b.err = errors.Join(b.err, err)
			return b
		}
		b.configs = append(b.configs, jsonCfg)
	}

	return b
}

// withDefaults appends the built-in fallback locations. Because earlier
// sources win the merge, these apply only to fields no other source set.
func (b *configBuilder) withDefaults() *configBuilder {
	dataDir := "data"

	b.configs = append(b.configs, &StructuredConfig{
		Storage: Storage{
			DB:    DB{DSN: filepath.Join(dataDir, "databases", "minimalog.db")},
			Files: Files{ImagesDir: filepath.Join(dataDir, "files", "images")},
			Cache: Cache{Dir: filepath.Join(dataDir, "cache")},
			Prefs: Prefs{File: filepath.Join(dataDir, "prefs.json")},
		},
		Drive: Drive{ListPageSize: 5},
	})

	return b
}
