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

package status

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📊 FileStatus is the outcome of patching one file
type FileStatus int

const (
	StatusUnknown      FileStatus = iota
	StatusPatched                 // content changed
	StatusUnchanged               // rules ran, content is identical
	StatusSkipped                 // file or every rule was skipped
	StatusNotFound                // a rule pattern did not match and nothing changed
	StatusFileNotFound            // the file does not exist
	StatusReadError               // the file could not be read
	StatusWriteError              // the file could not be written back
)

// Statuses lists every known status in report order.
var Statuses = []FileStatus{
	StatusPatched,
	StatusUnchanged,
	StatusSkipped,
	StatusNotFound,
	StatusFileNotFound,
	StatusReadError,
	StatusWriteError,
}

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusPatched:
		return "patched"
	case StatusUnchanged:
		return "unchanged"
	case StatusSkipped:
		return "skipped"
	case StatusNotFound:
		return "not_found"
	case StatusFileNotFound:
		return "file_not_found"
	case StatusReadError:
		return "read_error"
	case StatusWriteError:
		return "write_error"
	default:
		return "unknown"
	}
}

// IsFailure reports whether the file could not be processed at all.
func (s FileStatus) IsFailure() bool {
	return s == StatusFileNotFound || s == StatusReadError || s == StatusWriteError
}

// 📄 Entry describes what happened to one file
type Entry struct {
	Name         string     // file name relative to the root
	Path         string     // absolute path
	Status       FileStatus // final status
	Reason       string     // why the file was skipped
	Missing      []string   // patterns that were not found
	Replacements int        // replacements made
	Written      bool       // whether the file was written back
	DryRun       bool       // planned only, never written
	Err          error      // read or write failure
}

// 📈 Tracker records entries and reports progress for one batch
type Tracker struct {
	formatter FileFormatter

	mu        sync.Mutex
	entries   map[string]Entry
	order     []string
	total     int
	processed int
}

// 🏭 NewTracker creates a tracker using formatter for progress messages
func NewTracker(formatter FileFormatter) *Tracker {
	if formatter == nil {
		formatter = NewDefaultFileFormatter()
	}
	return &Tracker{
		formatter: formatter,
		entries:   make(map[string]Entry),
	}
}

// Track stores the entry for a file, replacing any earlier one.
func (t *Tracker) Track(ctx context.Context, e Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.entries[e.Name]; !ok {
		t.order = append(t.order, e.Name)
	}
	t.entries[e.Name] = e

	zerolog.Ctx(ctx).Debug().
		Str("file", e.Name).
		Stringer("status", e.Status).
		Bool("written", e.Written).
		Msg("tracked file")
}

// Get returns the entry for a file.
func (t *Tracker) Get(name string) (Entry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[name]
	if !ok {
		return Entry{}, errors.Errorf("file not tracked: %s", name)
	}
	return e, nil
}

// Entries returns the tracked entries in the order they were first tracked.
func (t *Tracker) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Entry, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.entries[name])
	}
	return out
}

// Counts tallies the tracked entries by status.
func (t *Tracker) Counts() Counts {
	return Tally(t.Entries())
}

func (t *Tracker) StartOperation(ctx context.Context, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.total = total
	t.processed = 0
	zerolog.Ctx(ctx).Debug().Int("total", total).Msg(t.formatter.FormatProgress(0, total))
}

func (t *Tracker) UpdateProgress(ctx context.Context, processed int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.processed = processed
	zerolog.Ctx(ctx).Debug().
		Int("processed", processed).
		Int("total", t.total).
		Msg(t.formatter.FormatProgress(processed, t.total))
}

func (t *Tracker) FinishOperation(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	zerolog.Ctx(ctx).Debug().
		Int("processed", t.processed).
		Int("total", t.total).
		Msg(t.formatter.FormatProgress(t.total, t.total))
}

// Counts maps each status to the number of files that ended in it.
type Counts map[FileStatus]int

// Tally counts entries by status.
func Tally(entries []Entry) Counts {
	c := make(Counts, len(Statuses))
	for _, e := range entries {
		c[e.Status]++
	}
	return c
}

// Total returns the number of files counted.
func (c Counts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// Failures returns the number of files that could not be processed.
func (c Counts) Failures() int {
	return c[StatusFileNotFound] + c[StatusReadError] + c[StatusWriteError]
}

// Add merges other into c.
func (c Counts) Add(other Counts) {
	for k, v := range other {
		c[k] += v
	}
}

// Present returns the statuses with a non-zero count, in report order.
func (c Counts) Present() []FileStatus {
	var out []FileStatus
	for _, s := range Statuses {
		if c[s] > 0 {
			out = append(out, s)
		}
	}
	if c[StatusUnknown] > 0 {
		out = append(out, StatusUnknown)
	}
	return out
}
