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
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/pkg/status"
)

// 📦 BatchOperation describes the batch being reported
type BatchOperation struct {
	Name   string // batch name
	Root   string // directory the files resolve against
	Files  int    // number of target files
	DryRun bool   // planning only
}

// 🎯 Logger prints status lines to the console and mirrors them to zerolog
type Logger struct {
	zlog      zerolog.Logger
	console   io.Writer
	formatter status.FileFormatter
	mu        sync.Mutex
	currentOp *BatchOperation
	entries   []status.Entry
}

// 🏭 New creates a new logger
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:      zlog,
		console:   console,
		formatter: status.NewDefaultFileFormatter(),
	}
}

// WithFormatter replaces the status line formatter.
func (l *Logger) WithFormatter(f status.FileFormatter) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.formatter = f
	return l
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// statusColor picks the color of a status line
func statusColor(s status.FileStatus) *color.Color {
	switch s {
	case status.StatusPatched:
		return color.New(color.FgGreen)
	case status.StatusSkipped:
		return color.New(color.Faint)
	case status.StatusUnchanged:
		return color.New(color.FgCyan)
	case status.StatusNotFound:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

// 📝 LogEntry prints the status lines for one file
func (l *Logger) LogEntry(ctx context.Context, e status.Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, e)

	c := statusColor(e.Status)
	for i, line := range l.formatter.FormatEntry(e) {
		// pattern misses after a file line read better in yellow
		if i > 0 && len(e.Missing) > 0 && e.Status != status.StatusNotFound {
			fmt.Fprintln(l.console, statusColor(status.StatusNotFound).Sprint(line))
			continue
		}
		fmt.Fprintln(l.console, c.Sprint(line))
	}

	var ev *zerolog.Event
	if e.Status.IsFailure() {
		ev = l.zlog.Warn().AnErr("error", e.Err)
	} else {
		ev = l.zlog.Info()
	}
	ev.
		Str("file", e.Name).
		Stringer("status", e.Status).
		Str("reason", e.Reason).
		Strs("missing", e.Missing).
		Int("replacements", e.Replacements).
		Bool("written", e.Written).
		Bool("dry_run", e.DryRun).
		Msg("file processed")
}

// 📝 StartBatch starts a new batch operation
func (l *Logger) StartBatch(ctx context.Context, op BatchOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op
	l.entries = nil

	verb := "patching"
	if op.DryRun {
		verb = "checking"
	}
	fmt.Fprintf(l.console, "[%s %s]\n", verb, color.New(color.FgCyan).Sprint(op.Root))
	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.Name),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprintf("%d files", op.Files))

	l.zlog.Info().
		Str("batch", op.Name).
		Str("root", op.Root).
		Int("files", op.Files).
		Bool("dry_run", op.DryRun).
		Msg("starting batch")
}

// 📝 EndBatch ends the current batch and returns its tallies
func (l *Logger) EndBatch(ctx context.Context) status.Counts {
	l.mu.Lock()
	defer l.mu.Unlock()

	counts := status.Tally(l.entries)
	if l.currentOp == nil {
		return counts
	}

	l.zlog.Info().
		Str("batch", l.currentOp.Name).
		Int("files", counts.Total()).
		Int("failures", counts.Failures()).
		Msg("batch complete")

	l.currentOp = nil
	l.entries = nil
	return counts
}

// 📊 Summary prints a table of file counts per status
func (l *Logger) Summary(counts status.Counts) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	data := pterm.TableData{{"status", "files"}}
	for _, s := range counts.Present() {
		data = append(data, []string{s.String(), strconv.Itoa(counts[s])})
	}
	data = append(data, []string{"total", strconv.Itoa(counts.Total())})

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintf(l.console, "\n%s\n", table)
	return nil
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("patchrc")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Raw writes text to the console as is
func (l *Logger) Raw(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprint(l.console, text)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
