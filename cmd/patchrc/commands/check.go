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
	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/operation"
)

// NewCheckCmd creates a new check command
func NewCheckCmd(o *opts.RootOpts) *cobra.Command {
	var (
		batches []string
		check   operation.CheckOptions
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report what apply would change without writing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatches(cmd.Context(), o, batches, func(opts operation.Options) (operation.Operation, error) {
				return operation.NewCheckOperation(opts, check)
			})
		},
	}

	cmd.Flags().StringArrayVarP(&batches, "batch", "b", nil, "only check the named batch (repeatable)")
	cmd.Flags().BoolVar(&check.ShowDiff, "diff", false, "print a unified diff for every file that would change")
	cmd.Flags().BoolVar(&check.FailOnChange, "fail-on-change", false, "exit non-zero when any file would change")

	return cmd
}
