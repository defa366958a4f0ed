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
	"github.com/walteh/patchrc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🏃 OperationRunner executes operations one after another
type OperationRunner struct {
	logger *zerolog.Logger
}

// 🏗️ NewRunner creates a new runner
func NewRunner(logger *zerolog.Logger) *OperationRunner {
	return &OperationRunner{
		logger: logger,
	}
}

// 🏃 Run executes an operation unless the context is already done
func (r *OperationRunner) Run(ctx context.Context, op Operation) error {
	if err := ctx.Err(); err != nil {
		return errors.Errorf("operation cancelled: %w", err)
	}

	r.logger.Debug().Str("operation", op.Name()).Msg("running operation")
	if err := op.Execute(ctx); err != nil {
		return errors.Errorf("executing %s: %w", op.Name(), err)
	}
	return nil
}

// 🔁 RunAll runs every operation in order and sums their counts.
//
// Cancellation stops before the next operation. Other failures are
// collected and the remaining operations still run.
func (r *OperationRunner) RunAll(ctx context.Context, ops []Operation) (status.Counts, error) {
	total := status.Counts{}
	var errs []error

	for _, op := range ops {
		err := r.Run(ctx, op)
		total.Add(op.Counts())
		if err == nil {
			continue
		}
		if ctx.Err() != nil {
			return total, err
		}
		r.logger.Debug().Err(err).Str("operation", op.Name()).Msg("operation failed")
		errs = append(errs, err)
	}

	return total, errors.Join(errs...)
}
