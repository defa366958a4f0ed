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

package log

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/patchrc/pkg/status"
)

func newTestLogger(t *testing.T, buf io.Writer) *Logger {
	return New(buf, zerolog.New(zerolog.NewTestWriter(t)))
}

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_entries",
			op: func(t *testing.T, logger *Logger) {
				ctx := context.Background()
				logger.LogEntry(ctx, status.Entry{Name: "DynamicButtonComponent.kt", Status: status.StatusPatched, Written: true})
				logger.LogEntry(ctx, status.Entry{Name: "DynamicTextComponent.kt", Status: status.StatusSkipped, Reason: "already uses ModifierBuilder"})
				logger.LogEntry(ctx, status.Entry{Name: "DynamicRowComponent.kt", Status: status.StatusNotFound, Missing: []string{"buildModifier"}})
				logger.LogEntry(ctx, status.Entry{Path: "/src/DynamicGone.kt", Name: "DynamicGone.kt", Status: status.StatusFileNotFound})
			},
			wantLogs: []string{
				"Fixed DynamicButtonComponent.kt",
				"Skipping DynamicTextComponent.kt - already uses ModifierBuilder",
				"Could not find buildModifier in DynamicRowComponent.kt",
				"File not found: /src/DynamicGone.kt",
			},
		},
		{
			name: "log_partial_patch",
			op: func(t *testing.T, logger *Logger) {
				logger.LogEntry(context.Background(), status.Entry{
					Name:    "A.kt",
					Status:  status.StatusPatched,
					DryRun:  true,
					Missing: []string{"applyPadding"},
				})
			},
			wantLogs: []string{
				"Would fix A.kt",
				"Could not find applyPadding in A.kt",
			},
		},
		{
			name: "log_batch_operation",
			op: func(t *testing.T, logger *Logger) {
				logger.StartBatch(context.Background(), BatchOperation{
					Name:  "add-data-param",
					Root:  "/src/components",
					Files: 3,
				})
			},
			wantLogs: []string{
				"[patching /src/components]",
				"◆ add-data-param • 3 files",
			},
		},
		{
			name: "log_dry_run_batch",
			op: func(t *testing.T, logger *Logger) {
				logger.StartBatch(context.Background(), BatchOperation{Name: "b", Root: "/r", Files: 1, DryRun: true})
			},
			wantLogs: []string{
				"[checking /r]",
				"◆ b • 1 files",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error("error message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"❌ error message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("info %s", "test")
				logger.Warningf("warning %s", "test")
				logger.Errorf("error %s", "test")
				logger.Successf("success %s", "test")
			},
			wantLogs: []string{
				"ℹ️  info test",
				"⚠️  warning test",
				"❌ error test",
				"✅ success test",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("applying patches")
			},
			wantLogs: []string{
				"patchrc • applying patches",
			},
		},
		{
			name: "log_newline",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("first")
				logger.LogNewline()
				logger.Info("second")
			},
			wantLogs: []string{
				"ℹ️  first",
				"",
				"ℹ️  second",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := newTestLogger(t, buf)

			tt.op(t, logger)

			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestLoggerBatchCounts(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	ctx := context.Background()
	logger := newTestLogger(t, io.Discard)

	logger.StartBatch(ctx, BatchOperation{Name: "a", Root: "/r", Files: 3})
	logger.LogEntry(ctx, status.Entry{Name: "1", Status: status.StatusPatched})
	logger.LogEntry(ctx, status.Entry{Name: "2", Status: status.StatusPatched})
	logger.LogEntry(ctx, status.Entry{Name: "3", Status: status.StatusWriteError, Err: assert.AnError})
	counts := logger.EndBatch(ctx)

	assert.Equal(t, 2, counts[status.StatusPatched])
	assert.Equal(t, 1, counts.Failures())

	// a new batch starts from zero
	logger.StartBatch(ctx, BatchOperation{Name: "b", Root: "/r"})
	assert.Equal(t, 0, logger.EndBatch(ctx).Total())
}

func TestLoggerSummary(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	buf := &bytes.Buffer{}
	logger := newTestLogger(t, buf)

	err := logger.Summary(status.Counts{status.StatusPatched: 2, status.StatusSkipped: 1})
	require.NoError(t, err)

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4, "header, two statuses and the total")
	assert.Contains(t, lines[0], "status")
	assert.Contains(t, lines[1], "patched")
	assert.Contains(t, lines[1], "2")
	assert.Contains(t, lines[2], "skipped")
	assert.Contains(t, lines[3], "total")
	assert.Contains(t, lines[3], "3")
}

func TestLoggerContext(t *testing.T) {
	logger := newTestLogger(t, io.Discard)

	ctx := context.Background()
	ctx = NewContext(ctx, logger)

	got := FromContext(ctx)
	assert.Same(t, logger, got, "logger from context should be the same instance")

	assert.Panics(t, func() {
		FromContext(context.Background())
	}, "FromContext should panic when logger is missing")
}

type upperFormatter struct {
	*status.DefaultFileFormatter
}

func (upperFormatter) FormatEntry(e status.Entry) []string {
	return []string{strings.ToUpper(e.Name)}
}

func TestLoggerWithFormatter(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	buf := &bytes.Buffer{}
	logger := newTestLogger(t, buf).WithFormatter(upperFormatter{status.NewDefaultFileFormatter()})
	logger.LogEntry(context.Background(), status.Entry{Name: "a.kt", Status: status.StatusPatched})

	assert.Equal(t, "A.KT\n", buf.String())
}
