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

package operation

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/patchrc/pkg/config"
	"github.com/walteh/patchrc/pkg/log"
	"github.com/walteh/patchrc/pkg/patcher"
	"github.com/walteh/patchrc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// ErrChangesPending is returned by check when files would change and the
// caller asked for that to fail.
var ErrChangesPending = errors.Base("changes pending")

// 🎯 Operation is one unit of work over a batch
type Operation interface {
	// Name identifies the operation in logs
	Name() string
	// Execute runs the operation
	Execute(ctx context.Context) error
	// Counts returns the file tallies of the last run
	Counts() status.Counts
}

// 🔧 Options contains configuration for an operation
type Options struct {
	// Fs is the filesystem files are read from and written to
	Fs afero.Fs
	// Config is the loaded configuration
	Config *config.Config
	// Batch is the batch to run
	Batch config.Batch
	// Logger prints the status lines
	Logger *log.Logger
}

// 🏗️ BaseOperation holds what every batch operation shares
type BaseOperation struct {
	Options
	Patcher *patcher.Patcher
	Tracker *status.Tracker
}

// 🏭 NewBaseOperation builds the patcher for the batch
func NewBaseOperation(opts Options) (BaseOperation, error) {
	if opts.Config == nil {
		return BaseOperation{}, errors.Errorf("config is required")
	}
	if opts.Logger == nil {
		return BaseOperation{}, errors.Errorf("logger is required")
	}

	p, err := patcher.New(patcher.Options{
		Fs:         opts.Fs,
		Root:       opts.Config.BatchRoot(opts.Batch),
		Rules:      opts.Batch.TextRules(),
		OnlyIf:     opts.Batch.OnlyIf,
		SkipIf:     opts.Batch.SkipIf,
		SkipReason: opts.Batch.SkipReason,
	})
	if err != nil {
		return BaseOperation{}, errors.Errorf("batch %s: %w", opts.Batch.Name, err)
	}

	return BaseOperation{
		Options: opts,
		Patcher: p,
		Tracker: status.NewTracker(nil),
	}, nil
}

// Name returns the batch name.
func (op *BaseOperation) Name() string {
	return op.Batch.Name
}

// Counts returns the tallies of the files tracked so far.
func (op *BaseOperation) Counts() status.Counts {
	return op.Tracker.Counts()
}

// plan discovers the batch files and runs the rules in memory
func (op *BaseOperation) plan(ctx context.Context, dryRun bool) ([]*patcher.TargetFile, error) {
	logger := zerolog.Ctx(ctx).With().Str("batch", op.Batch.Name).Logger()
	ctx = logger.WithContext(ctx)

	names, err := op.Patcher.Discover(ctx, op.Batch.Files, op.Batch.Include, op.Batch.Exclude)
	if err != nil {
		return nil, errors.Errorf("discovering files: %w", err)
	}

	op.Tracker = status.NewTracker(nil)
	op.Tracker.StartOperation(ctx, len(names))
	op.Logger.StartBatch(ctx, log.BatchOperation{
		Name:   op.Batch.Name,
		Root:   op.Patcher.Root(),
		Files:  len(names),
		DryRun: dryRun,
	})

	return op.Patcher.Plan(ctx, names), nil
}

// report tracks and prints one entry per file
func (op *BaseOperation) report(ctx context.Context, files []*patcher.TargetFile, dryRun bool, each func(f *patcher.TargetFile)) {
	for i, f := range files {
		e := f.Entry()
		e.DryRun = dryRun
		op.Tracker.Track(ctx, e)
		op.Logger.LogEntry(ctx, e)
		if each != nil {
			each(f)
		}
		op.Tracker.UpdateProgress(ctx, i+1)
	}
	op.Tracker.FinishOperation(ctx)
	op.Logger.EndBatch(ctx)
}
