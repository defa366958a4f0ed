package status

import (
	"fmt"
	"strings"
)

// maxPatternWidth bounds how much of a search pattern is echoed in a report line
const maxPatternWidth = 60

// FileFormatter defines how file outcomes and progress should be formatted
type FileFormatter interface {
	// FormatEntry formats the report lines for one file, in order
	FormatEntry(e Entry) []string

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string

	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFileFormatter produces the plain status report lines
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatEntry formats one line per outcome: the file line first, then one
// line for each pattern that was not found.
func (f *DefaultFileFormatter) FormatEntry(e Entry) []string {
	var lines []string
	switch e.Status {
	case StatusPatched:
		if e.DryRun {
			lines = append(lines, fmt.Sprintf("Would fix %s", e.Name))
		} else {
			lines = append(lines, fmt.Sprintf("Fixed %s", e.Name))
		}
	case StatusUnchanged:
		lines = append(lines, fmt.Sprintf("No changes to %s", e.Name))
	case StatusSkipped:
		lines = append(lines, fmt.Sprintf("Skipping %s - %s", e.Name, e.Reason))
	case StatusNotFound:
		// only the missing patterns below
	case StatusFileNotFound:
		return []string{fmt.Sprintf("File not found: %s", e.Path)}
	case StatusReadError:
		return []string{fmt.Sprintf("Failed to read %s: %v", e.Path, e.Err)}
	case StatusWriteError:
		lines = append(lines, fmt.Sprintf("Failed to write %s: %v", e.Name, e.Err))
	default:
		return []string{fmt.Sprintf("Unknown status for %s", e.Name)}
	}

	for _, pattern := range e.Missing {
		lines = append(lines, fmt.Sprintf("Could not find %s in %s", ShortPattern(pattern), e.Name))
	}
	return lines
}

// FormatProgress formats a progress message with percentage
func (f *DefaultFileFormatter) FormatProgress(current, total int) string {
	if current < 0 {
		current = 0
	}
	if total < 0 {
		total = 0
	}

	var percentage float64
	switch {
	case total == 0:
		percentage = 0
	case current >= total:
		percentage = 100
	default:
		percentage = float64(current) / float64(total) * 100
	}

	return fmt.Sprintf("progress %d/%d (%.0f%%)", current, total, percentage)
}

// FormatError formats an error message
func (f *DefaultFileFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// ShortPattern reduces a pattern to its first line, cut to a readable width.
func ShortPattern(pattern string) string {
	p := pattern
	if nl := strings.IndexByte(p, '\n'); nl >= 0 {
		p = p[:nl] + "…"
	}
	if r := []rune(p); len(r) > maxPatternWidth {
		p = string(r[:maxPatternWidth]) + "…"
	}
	return p
}
