package status

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// 🧪 TestDefaultFileFormatter_FormatEntry tests the report lines for each status
func TestDefaultFileFormatter_FormatEntry(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  []string
	}{
		{
			name:  "patched",
			entry: Entry{Name: "A.kt", Status: StatusPatched, Written: true},
			want:  []string{"Fixed A.kt"},
		},
		{
			name:  "patched_dry_run",
			entry: Entry{Name: "A.kt", Status: StatusPatched, DryRun: true},
			want:  []string{"Would fix A.kt"},
		},
		{
			name:  "patched_with_partial_miss",
			entry: Entry{Name: "A.kt", Status: StatusPatched, Missing: []string{"applyPadding"}},
			want:  []string{"Fixed A.kt", "Could not find applyPadding in A.kt"},
		},
		{
			name:  "skipped",
			entry: Entry{Name: "A.kt", Status: StatusSkipped, Reason: "already uses ModifierBuilder"},
			want:  []string{"Skipping A.kt - already uses ModifierBuilder"},
		},
		{
			name:  "not_found",
			entry: Entry{Name: "A.kt", Status: StatusNotFound, Missing: []string{"buildModifier", "applyMargins"}},
			want:  []string{"Could not find buildModifier in A.kt", "Could not find applyMargins in A.kt"},
		},
		{
			name:  "file_not_found",
			entry: Entry{Name: "A.kt", Path: "/src/A.kt", Status: StatusFileNotFound},
			want:  []string{"File not found: /src/A.kt"},
		},
		{
			name:  "read_error",
			entry: Entry{Name: "A.kt", Path: "/src/A.kt", Status: StatusReadError, Err: assert.AnError},
			want:  []string{"Failed to read /src/A.kt: " + assert.AnError.Error()},
		},
		{
			name:  "write_error",
			entry: Entry{Name: "A.kt", Status: StatusWriteError, Err: assert.AnError},
			want:  []string{"Failed to write A.kt: " + assert.AnError.Error()},
		},
		{
			name:  "unchanged",
			entry: Entry{Name: "A.kt", Status: StatusUnchanged},
			want:  []string{"No changes to A.kt"},
		},
		{
			name:  "unknown",
			entry: Entry{Name: "A.kt"},
			want:  []string{"Unknown status for A.kt"},
		},
	}

	formatter := NewDefaultFileFormatter()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatter.FormatEntry(tt.entry))
		})
	}
}

// 🧪 TestProgressFormatting tests progress message formatting
func TestProgressFormatting(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		want    string
	}{
		{name: "zero_progress", current: 0, total: 10, want: "progress 0/10 (0%)"},
		{name: "half_progress", current: 5, total: 10, want: "progress 5/10 (50%)"},
		{name: "complete", current: 10, total: 10, want: "progress 10/10 (100%)"},
		{name: "zero_total", current: 0, total: 0, want: "progress 0/0 (0%)"},
		{name: "current_exceeds_total", current: 15, total: 10, want: "progress 15/10 (100%)"},
		{name: "negative_values", current: -1, total: -1, want: "progress 0/0 (0%)"},
	}

	formatter := NewDefaultFileFormatter()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatter.FormatProgress(tt.current, tt.total))
		})
	}
}

func TestErrorFormatting(t *testing.T) {
	formatter := NewDefaultFileFormatter()
	assert.Equal(t, "Error: "+assert.AnError.Error(), formatter.FormatError(assert.AnError))
	assert.Equal(t, "", formatter.FormatError(nil))
}

func TestShortPattern(t *testing.T) {
	assert.Equal(t, "buildModifier", ShortPattern("buildModifier"))
	assert.Equal(t, "fun a() {…", ShortPattern("fun a() {\n  body\n}"))

	long := strings.Repeat("x", 80)
	assert.Equal(t, strings.Repeat("x", 60)+"…", ShortPattern(long))
}
