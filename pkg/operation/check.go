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

	"github.com/pmezard/go-difflib/difflib"
	"github.com/walteh/patchrc/pkg/patcher"
	"github.com/walteh/patchrc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🔍 CheckOptions controls what check reports
type CheckOptions struct {
	ShowDiff     bool // print a unified diff for every file that would change
	FailOnChange bool // return ErrChangesPending when any file would change
}

// 🔍 NewCheckOperation creates an operation that plans a batch without writing
func NewCheckOperation(opts Options, check CheckOptions) (Operation, error) {
	base, err := NewBaseOperation(opts)
	if err != nil {
		return nil, err
	}
	return &checkOperation{BaseOperation: base, check: check}, nil
}

// 🔍 checkOperation implements the check operation
type checkOperation struct {
	BaseOperation
	check CheckOptions
}

// 🏃 Execute plans every file and reports what apply would do
func (op *checkOperation) Execute(ctx context.Context) error {
	files, err := op.plan(ctx, true)
	if err != nil {
		return err
	}

	var diffErr error
	op.report(ctx, files, true, func(f *patcher.TargetFile) {
		if !op.check.ShowDiff || !f.Dirty() {
			return
		}
		diff, err := Diff(f)
		if err != nil {
			diffErr = errors.Errorf("diffing %s: %w", f.Name, err)
			return
		}
		op.Logger.Raw(diff)
	})
	if diffErr != nil {
		return diffErr
	}

	if pending := op.Counts()[status.StatusPatched]; op.check.FailOnChange && pending > 0 {
		return errors.Errorf("batch %s: %d files would change: %w", op.Batch.Name, pending, ErrChangesPending)
	}
	return nil
}

// 📄 Diff renders the planned change of a file as a unified diff
func Diff(f *patcher.TargetFile) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(f.Original),
		B:        difflib.SplitLines(f.Content),
		FromFile: "a/" + f.Name,
		ToFile:   "b/" + f.Name,
		Context:  3,
	})
}
