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

package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/log"
	"github.com/walteh/patchrc/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// builder creates the operation for one batch
type builder func(operation.Options) (operation.Operation, error)

// runBatches loads the config, runs one operation per selected batch and
// prints the summary table
func runBatches(ctx context.Context, o *opts.RootOpts, names []string, build builder) error {
	console := log.FromContext(ctx)

	cfg, err := o.LoadConfig(ctx)
	if err != nil {
		return err
	}

	batches, err := cfg.Select(names)
	if err != nil {
		return errors.Errorf("selecting batches: %w", err)
	}

	ops := make([]operation.Operation, 0, len(batches))
	for _, b := range batches {
		op, err := build(operation.Options{
			Fs:     o.Fs,
			Config: cfg,
			Batch:  b,
			Logger: console,
		})
		if err != nil {
			return errors.Errorf("creating operation: %w", err)
		}
		ops = append(ops, op)
	}

	console.Header(fmt.Sprintf("%s • %d batches", cfg.Location(), len(ops)))

	counts, runErr := operation.NewRunner(zerolog.Ctx(ctx)).RunAll(ctx, ops)

	if err := console.Summary(counts); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("rendering summary")
	}

	if runErr != nil {
		return runErr
	}

	if failed := counts.Failures(); failed > 0 {
		console.Warningf("%d of %d files could not be processed", failed, counts.Total())
	} else {
		console.Successf("%d files processed", counts.Total())
	}
	return nil
}
