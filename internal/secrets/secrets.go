// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file is one secret: the filename is the key and the trimmed contents
// are the value.
//
// Recognized keys: ncbi-api-key, ncbi-email.
package secrets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/pkg/types"
)

// DefaultDir is where the CLI looks for secrets, relative to the working directory.
const DefaultDir = ".secrets"

// Key file names.
const (
	NCBIAPIKey = "ncbi-api-key"
	NCBIEmail  = "ncbi-email"
)

// Load reads every file in dir. A missing directory is not an error and
// yields an empty map. Unreadable files are reported to w and skipped.
func Load(dir string, w io.Writer) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(w, "warning: could not read secret %s: %v\n", name, err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}
	return secrets, nil
}

// NCBI picks the E-utilities credentials out of loaded secrets. Values
// already set in cfg win.
func NCBI(secrets map[string]string, cfg types.NCBIConfig) types.NCBIConfig {
	if cfg.APIKey == "" {
		cfg.APIKey = secrets[NCBIAPIKey]
	}
	if cfg.Email == "" {
		cfg.Email = secrets[NCBIEmail]
	}
	return cfg
}
