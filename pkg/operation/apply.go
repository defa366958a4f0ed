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
)

// 🩹 NewApplyOperation creates an operation that patches and writes a batch
func NewApplyOperation(opts Options) (Operation, error) {
	base, err := NewBaseOperation(opts)
	if err != nil {
		return nil, err
	}
	return &applyOperation{BaseOperation: base}, nil
}

// 🩹 applyOperation implements the apply operation
type applyOperation struct {
	BaseOperation
}

// 🏃 Execute plans every file and writes back the ones that changed.
// Missing files and unmatched patterns are reported, never returned.
func (op *applyOperation) Execute(ctx context.Context) error {
	files, err := op.plan(ctx, false)
	if err != nil {
		return err
	}

	outcomes := op.Patcher.Apply(ctx, files)

	written := 0
	for _, o := range outcomes {
		if o.Written {
			written++
		}
	}
	zerolog.Ctx(ctx).Debug().
		Str("batch", op.Batch.Name).
		Int("files", len(files)).
		Int("written", written).
		Msg("applied batch")

	op.report(ctx, files, false, nil)
	return nil
}
