// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/viper"

	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/internal/secrets"
	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/internal/store"
	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/pkg/types"
)

// labConfig resolves flags, config file, environment, and secrets into the
// single configuration value handed to every component.
func labConfig() (types.LabConfig, error) {
	cfg := types.LabConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("http_timeout"),
			UserAgent: viper.GetString("user_agent"),
		},
		BaseDir:   viper.GetString("base_dir"),
		VoicePort: viper.GetString("voice_port"),
		NCBI: types.NCBIConfig{
			APIKey: viper.GetString("ncbi.api_key"),
			Email:  viper.GetString("ncbi.email"),
		},
	}
	if cfg.BaseDir == "" {
		return cfg, fmt.Errorf("no storage root: set --base-dir, LABKIT_BASE_DIR, or PAI_DIR")
	}
	cfg.NCBI = secrets.NCBI(loadedSecrets, cfg.NCBI)
	return cfg, nil
}

func newStore(cfg types.LabConfig) *store.Store {
	return store.New(cfg.BaseDir)
}

// printJSON writes v to w as indented JSON, the summary format every tool
// prints after writing its artifact.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
