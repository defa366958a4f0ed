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

package opts

import (
	"context"
	"os"

	"github.com/spf13/afero"
	"github.com/walteh/patchrc/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	// Fs is where the config and the patched files live
	Fs afero.Fs
	// ConfigFile is the --config flag; empty means search the working directory
	ConfigFile string
	// Root is the --root flag; empty keeps the configured root
	Root string
}

// LoadConfig loads the config named by the flags and applies --root
func (o *RootOpts) LoadConfig(ctx context.Context) (*config.Config, error) {
	path := o.ConfigFile
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Errorf("getting working directory: %w", err)
		}
		if path, err = config.Find(o.Fs, wd); err != nil {
			return nil, err
		}
	}

	cfg, err := config.LoadFs(ctx, o.Fs, path)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}

	if o.Root != "" {
		if err := cfg.OverrideRoot(o.Root); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}
