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

package patcher

import (
	"context"
	"path"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// 🔍 Discover lists the files a batch targets.
//
// Explicit files are kept even when they do not exist, so they can be
// reported as missing. Include patterns are doublestar globs matched under
// the root and never return temporary files left by an interrupted write.
// Exclude patterns drop matching names from both. The result is sorted and
// free of duplicates.
func (p *Patcher) Discover(ctx context.Context, files, include, exclude []string) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	for _, pattern := range append(slices.Clone(include), exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid pattern %q", pattern)
		}
	}

	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, path.Clean(f))
	}

	if len(include) > 0 {
		fsys := afero.NewIOFS(afero.NewBasePathFs(p.fs, p.root))
		for _, pattern := range include {
			matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
			if err != nil {
				return nil, errors.Errorf("globbing %q: %w", pattern, err)
			}
			logger.Debug().Str("pattern", pattern).Int("matches", len(matches)).Msg("globbed files")
			for _, m := range matches {
				if isTempFile(m) {
					logger.Warn().Str("file", m).Msg("ignoring leftover temporary file")
					continue
				}
				names = append(names, m)
			}
		}
	}

	kept := names[:0]
	for _, name := range names {
		if excluded(name, exclude) {
			logger.Debug().Str("file", name).Msg("excluded file")
			continue
		}
		kept = append(kept, name)
	}

	slices.Sort(kept)
	return slices.Compact(kept), nil
}

func excluded(name string, exclude []string) bool {
	for _, pattern := range exclude {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
