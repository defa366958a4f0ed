// Copyright 2025 walteh LLC
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

package config

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// DefaultNames are the config files looked for when no path is given, in order.
var DefaultNames = []string{".patchrc.yaml", ".patchrc.yml", ".patchrc.hcl", ".patchrc.json"}

// 🎯 Load loads the configuration from a file on the OS filesystem
func Load(ctx context.Context, path string) (*Config, error) {
	return LoadFs(ctx, afero.NewOsFs(), path)
}

// 🎯 LoadFs loads, validates and resolves the configuration at path.
//
// The format is picked by extension. A relative root is resolved against
// the directory holding the config file.
func LoadFs(ctx context.Context, fs afero.Fs, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("unsupported file extension %q", filepath.Ext(path))
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	dir := filepath.Dir(path)
	if !filepath.IsAbs(dir) {
		if dir, err = filepath.Abs(dir); err != nil {
			return nil, errors.Errorf("resolving config directory: %w", err)
		}
	}
	cfg.location = path
	cfg.Root = resolve(dir, cfg.Root)

	logger.Debug().
		Str("root", cfg.Root).
		Strs("batches", cfg.BatchNames()).
		Msg("loaded configuration")

	return cfg, nil
}

// 🔍 Find returns the first of DefaultNames that exists in dir
func Find(fs afero.Fs, dir string) (string, error) {
	for _, name := range DefaultNames {
		path := filepath.Join(dir, name)
		if ok, err := afero.Exists(fs, path); err != nil {
			return "", errors.Errorf("checking %s: %w", path, err)
		} else if ok {
			return path, nil
		}
	}
	return "", errors.Errorf("no config file found in %s (looked for %v)", dir, DefaultNames)
}

// OverrideRoot replaces the configured root, resolving a relative one
// against the working directory.
func (cfg *Config) OverrideRoot(root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return errors.Errorf("resolving root: %w", err)
	}
	cfg.Root = abs
	return nil
}

func resolve(dir, root string) string {
	if root == "" {
		return dir
	}
	if filepath.IsAbs(root) {
		return filepath.Clean(root)
	}
	return filepath.Join(dir, root)
}
