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
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/walteh/patchrc/pkg/status"
	"github.com/walteh/patchrc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔄 State is where a file is in its read → patch → write lifecycle
type State int

const (
	StateUnread      State = iota
	StateRead              // content loaded, no rule run yet
	StateSkipped           // file predicate or every rule skipped it
	StatePatched           // rules changed the in-memory content
	StateUnchanged         // terminal: nothing to write
	StateWrittenBack       // terminal: content written
	StateReadError         // terminal
	StateWriteError        // terminal
)

func (s State) String() string {
	switch s {
	case StateUnread:
		return "unread"
	case StateRead:
		return "read"
	case StateSkipped:
		return "skipped"
	case StatePatched:
		return "patched"
	case StateUnchanged:
		return "unchanged"
	case StateWrittenBack:
		return "written_back"
	case StateReadError:
		return "read_error"
	case StateWriteError:
		return "write_error"
	default:
		return "unknown"
	}
}

// 📄 TargetFile is one file being patched
type TargetFile struct {
	Name     string // path relative to the root, slash separated
	Path     string // path on the filesystem
	Original string // content as read
	Content  string // content after the rules ran

	State  State
	Status status.FileStatus
	Reason string       // skip reason
	Err    error        // read or write failure
	Result *text.Result // nil when no rule ran

	mode os.FileMode
}

// Dirty reports whether the in-memory content differs from what was read.
func (f *TargetFile) Dirty() bool {
	if f.State == StateUnread || f.State == StateReadError {
		return false
	}
	return f.Content != f.Original
}

// Missing returns the search patterns of rules that did not match.
func (f *TargetFile) Missing() []string {
	if f.Result == nil {
		return nil
	}
	var out []string
	for _, rr := range f.Result.Missing() {
		out = append(out, rr.Pattern)
	}
	return out
}

// Entry converts the file to a report entry.
func (f *TargetFile) Entry() status.Entry {
	e := status.Entry{
		Name:    f.Name,
		Path:    f.Path,
		Status:  f.Status,
		Reason:  f.Reason,
		Missing: f.Missing(),
		Written: f.State == StateWrittenBack,
		Err:     f.Err,
	}
	if f.Result != nil {
		e.Replacements = f.Result.ReplacementCount
	}
	return e
}

func (f *TargetFile) fail(state State, st status.FileStatus, err error) {
	f.State = state
	f.Status = st
	f.Err = err
}

// tempMarker names the temporary files written next to their target
const tempMarker = ".patchrc-"

// isTempFile reports whether name is a temporary file left by writeFileAtomic.
func isTempFile(name string) bool {
	base := filepath.Base(name)
	return strings.HasPrefix(base, ".") && strings.Contains(base, tempMarker)
}

// writeFileAtomic writes data next to path and renames it into place,
// keeping the given permissions.
func writeFileAtomic(fs afero.Fs, path string, data []byte, mode os.FileMode) error {
	tmp, err := afero.TempFile(fs, filepath.Dir(path), "."+filepath.Base(path)+tempMarker+"*")
	if err != nil {
		return errors.Errorf("creating temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		fs.Remove(tmpPath)
		return errors.Errorf("writing temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		fs.Remove(tmpPath)
		return errors.Errorf("closing temporary file: %w", err)
	}
	if err := fs.Chmod(tmpPath, mode); err != nil {
		fs.Remove(tmpPath)
		return errors.Errorf("setting permissions: %w", err)
	}
	if err := fs.Rename(tmpPath, path); err != nil {
		fs.Remove(tmpPath)
		return errors.Errorf("renaming temporary file: %w", err)
	}
	return nil
}
