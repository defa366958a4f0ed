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

// NewApplyCmd creates a new apply command
func NewApplyCmd(o *opts.RootOpts) *cobra.Command {
	var batches []string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Patch the files of every selected batch",
		Long: `Apply runs each batch in config order. For every file it will:
1. Check the skip_if and only_if predicates
2. Run the rules in memory
3. Write the file back only when its content changed

Missing files and patterns are reported and do not fail the run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatches(cmd.Context(), o, batches, operation.NewApplyOperation)
		},
	}

	cmd.Flags().StringArrayVarP(&batches, "batch", "b", nil, "only run the named batch (repeatable)")

	return cmd
}
