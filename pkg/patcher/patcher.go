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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/patchrc/pkg/status"
	"github.com/walteh/patchrc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrFileNotFound is wrapped by the error of a file that does not exist.
	ErrFileNotFound = errors.Base("file not found")
	// ErrOutsideRoot is returned for paths that resolve outside the root.
	ErrOutsideRoot = errors.Base("path outside root")
)

// defaultSkipReason is reported when skip_if matches and no reason is configured
const defaultSkipReason = "already applied"

// 🔧 Options configures a Patcher
type Options struct {
	// Fs is the filesystem to read and write, defaults to the OS filesystem
	Fs afero.Fs

	// Root is the directory every file name is resolved against
	Root string

	// Rules run in order against each file
	Rules []text.Rule

	// OnlyIf lists substrings that must all be present for a file to be patched
	OnlyIf []string

	// SkipIf lists substrings of which any one marks a file as already patched
	SkipIf []string

	// SkipReason is reported when SkipIf matches
	SkipReason string
}

// 🩹 Patcher plans and applies one rule set to files under a root
type Patcher struct {
	fs         afero.Fs
	root       string
	engine     *text.Engine
	onlyIf     []string
	skipIf     []string
	skipReason string
}

// 🏭 New validates the options and compiles the rules
func New(opts Options) (*Patcher, error) {
	if opts.Root == "" {
		return nil, errors.Errorf("root is required")
	}
	engine, err := text.NewEngine(opts.Rules)
	if err != nil {
		return nil, errors.Errorf("compiling rules: %w", err)
	}

	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	reason := opts.SkipReason
	if reason == "" {
		reason = defaultSkipReason
	}

	return &Patcher{
		fs:         fs,
		root:       filepath.Clean(opts.Root),
		engine:     engine,
		onlyIf:     opts.OnlyIf,
		skipIf:     opts.SkipIf,
		skipReason: reason,
	}, nil
}

// Root returns the cleaned root directory.
func (p *Patcher) Root() string {
	return p.root
}

// resolve joins name to the root and rejects anything that escapes it
func (p *Patcher) resolve(name string) (string, error) {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.root, filepath.FromSlash(name))
	}
	path = filepath.Clean(path)

	rel, err := filepath.Rel(p.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Errorf("%s: %w", name, ErrOutsideRoot)
	}
	return path, nil
}

// 📋 Plan reads each file and runs the rules in memory. Nothing is written.
//
// Failures are recorded on the returned files and never stop the batch.
func (p *Patcher) Plan(ctx context.Context, names []string) []*TargetFile {
	logger := zerolog.Ctx(ctx)

	files := make([]*TargetFile, 0, len(names))
	for _, name := range names {
		f := p.planFile(ctx, name)
		logger.Debug().
			Str("file", f.Name).
			Stringer("state", f.State).
			Stringer("status", f.Status).
			Bool("dirty", f.Dirty()).
			Msg("planned file")
		files = append(files, f)
	}
	return files
}

func (p *Patcher) planFile(ctx context.Context, name string) *TargetFile {
	f := &TargetFile{Name: filepath.ToSlash(name), State: StateUnread}

	path, err := p.resolve(name)
	if err != nil {
		f.Path = name
		f.fail(StateReadError, status.StatusReadError, err)
		return f
	}
	f.Path = path

	info, err := p.fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			f.fail(StateReadError, status.StatusFileNotFound, errors.Errorf("%s: %w", path, ErrFileNotFound))
		} else {
			f.fail(StateReadError, status.StatusReadError, errors.Errorf("stat: %w", err))
		}
		return f
	}
	if info.IsDir() {
		f.fail(StateReadError, status.StatusReadError, errors.Errorf("%s is a directory", path))
		return f
	}

	data, err := afero.ReadFile(p.fs, path)
	if err != nil {
		f.fail(StateReadError, status.StatusReadError, errors.Errorf("reading file: %w", err))
		return f
	}
	f.Original = string(data)
	f.Content = f.Original
	f.mode = info.Mode().Perm()
	f.State = StateRead

	if reason, skip := p.skipFile(f.Content); skip {
		f.State = StateSkipped
		f.Status = status.StatusSkipped
		f.Reason = reason
		return f
	}

	res := p.engine.Patch(ctx, f.Content)
	f.Result = res
	f.Content = res.ModifiedContent

	switch {
	case res.WasModified:
		f.State = StatePatched
		f.Status = status.StatusPatched
	case res.AllSkipped():
		f.State = StateSkipped
		f.Status = status.StatusSkipped
		f.Reason = sharedReason(res)
	case len(res.Missing()) > 0:
		f.State = StateUnchanged
		f.Status = status.StatusNotFound
	default:
		f.State = StateUnchanged
		f.Status = status.StatusUnchanged
	}
	return f
}

// skipFile evaluates the file-level predicates
func (p *Patcher) skipFile(content string) (string, bool) {
	for _, marker := range p.skipIf {
		if strings.Contains(content, marker) {
			return p.skipReason, true
		}
	}
	for _, cond := range p.onlyIf {
		if !strings.Contains(content, cond) {
			return fmt.Sprintf("does not contain %s", status.ShortPattern(cond)), true
		}
	}
	return "", false
}

// sharedReason is the reason every rule gave, or the default when they differ
func sharedReason(res *text.Result) string {
	reason := ""
	for i, rr := range res.Rules {
		if i == 0 {
			reason = rr.Reason
			continue
		}
		if rr.Reason != reason {
			return defaultSkipReason
		}
	}
	if reason == "" {
		return defaultSkipReason
	}
	return reason
}

// 💾 Outcome reports whether Apply wrote a file
type Outcome struct {
	Name    string
	Written bool
	Err     error
}

// 💾 Apply writes back every planned file whose content changed.
//
// A write failure marks only that file as failed.
func (p *Patcher) Apply(ctx context.Context, files []*TargetFile) []Outcome {
	logger := zerolog.Ctx(ctx)

	outcomes := make([]Outcome, 0, len(files))
	for _, f := range files {
		o := Outcome{Name: f.Name}
		if f.State != StatePatched || !f.Dirty() {
			outcomes = append(outcomes, o)
			continue
		}

		if err := writeFileAtomic(p.fs, f.Path, []byte(f.Content), f.mode); err != nil {
			f.fail(StateWriteError, status.StatusWriteError, err)
			o.Err = err
			logger.Error().Err(err).Str("file", f.Name).Msg("writing file")
		} else {
			f.State = StateWrittenBack
			o.Written = true
			logger.Debug().Str("file", f.Name).Int("replacements", f.Result.ReplacementCount).Msg("wrote file")
		}
		outcomes = append(outcomes, o)
	}
	return outcomes
}
