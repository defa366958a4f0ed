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
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/patchrc/pkg/text"
)

func TestPatcher_Discover(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, name := range []string{
		"DynamicButtonComponent.kt",
		"DynamicTextComponent.kt",
		"DynamicImageComponent.kt",
		"Helpers.kt",
		"nested/DynamicRowComponent.kt",
		"nested/README.md",
		// left behind by interrupted writes
		".DynamicButtonComponent.kt.patchrc-1234",
		"nested/.DynamicRowComponent.kt.patchrc-99",
	} {
		writeFile(t, fs, name, "class X\n")
	}

	tests := []struct {
		name    string
		files   []string
		include []string
		exclude []string
		want    []string
		wantErr string
	}{
		{
			name:  "explicit_files_kept_even_if_missing",
			files: []string{"Helpers.kt", "Missing.kt"},
			want:  []string{"Helpers.kt", "Missing.kt"},
		},
		{
			name:    "top_level_glob",
			include: []string{"Dynamic*.kt"},
			want:    []string{"DynamicButtonComponent.kt", "DynamicImageComponent.kt", "DynamicTextComponent.kt"},
		},
		{
			name:    "recursive_glob",
			include: []string{"**/Dynamic*.kt"},
			want: []string{
				"DynamicButtonComponent.kt",
				"DynamicImageComponent.kt",
				"DynamicTextComponent.kt",
				"nested/DynamicRowComponent.kt",
			},
		},
		{
			name:    "exclude_skip_list",
			include: []string{"Dynamic*.kt"},
			exclude: []string{"DynamicTextComponent.kt", "DynamicImage*"},
			want:    []string{"DynamicButtonComponent.kt"},
		},
		{
			name:    "deduplicates_and_sorts",
			files:   []string{"Helpers.kt", "./DynamicTextComponent.kt"},
			include: []string{"Dynamic*.kt", "*Text*.kt"},
			want:    []string{"DynamicButtonComponent.kt", "DynamicImageComponent.kt", "DynamicTextComponent.kt", "Helpers.kt"},
		},
		{
			name:    "directories_are_not_matched",
			include: []string{"*"},
			want:    []string{"DynamicButtonComponent.kt", "DynamicImageComponent.kt", "DynamicTextComponent.kt", "Helpers.kt"},
		},
		{
			name:    "recursive_wildcard_ignores_temp_files",
			include: []string{"**/*"},
			want: []string{
				"DynamicButtonComponent.kt",
				"DynamicImageComponent.kt",
				"DynamicTextComponent.kt",
				"Helpers.kt",
				"nested/DynamicRowComponent.kt",
				"nested/README.md",
			},
		},
		{
			name:    "invalid_pattern",
			include: []string{"[abc"},
			wantErr: "invalid pattern",
		},
	}

	p, err := New(Options{Fs: fs, Root: root, Rules: []text.Rule{{Search: "x"}}})
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Discover(testContext(t), tt.files, tt.include, tt.exclude)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsTempFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{name: ".Button.kt.patchrc-123456", want: true},
		{name: "nested/.Row.kt.patchrc-1", want: true},
		{name: "Button.kt", want: false},
		{name: ".editorconfig", want: false},
		{name: "patchrc-notes.md", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isTempFile(tt.name))
		})
	}
}
