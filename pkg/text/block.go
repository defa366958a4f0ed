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

package text

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

// maxCharLiteral bounds how far a quote is searched for before a lone ' is
// treated as an ordinary character ('é' is the longest common form).
const maxCharLiteral = 10

// 🔍 FindBlock finds the first '{' at or after from and returns its offset
// and the offset just past the matching '}'.
//
// Braces inside string literals, character literals and comments are ignored,
// including Kotlin "${...}" templates and """raw""" strings.
func FindBlock(content string, from int) (open, end int, err error) {
	if from < 0 || from > len(content) {
		return -1, -1, errors.Errorf("offset %d out of range", from)
	}

	depth := 0
	open = -1
	for i := from; i < len(content); {
		next, err := skipLiteral(content, i)
		if err != nil {
			return -1, -1, err
		}
		if next != i {
			i = next
			continue
		}

		switch content[i] {
		case '{':
			if open < 0 {
				open = i
			}
			depth++
		case '}':
			if open < 0 {
				return -1, -1, errors.Errorf("%w: '}' at offset %d before any '{'", ErrUnbalanced, i)
			}
			depth--
			if depth == 0 {
				return open, i + 1, nil
			}
		}
		i++
	}

	if open < 0 {
		return -1, -1, errors.Errorf("%w: no '{' after offset %d", ErrUnbalanced, from)
	}
	return -1, -1, errors.Errorf("%w: block opened at offset %d never closes", ErrUnbalanced, open)
}

// skipLiteral returns the offset just past the comment or literal starting at
// i, or i itself when none starts there.
func skipLiteral(s string, i int) (int, error) {
	rest := s[i:]
	switch {
	case strings.HasPrefix(rest, "//"):
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			return i + nl, nil
		}
		return len(s), nil
	case strings.HasPrefix(rest, "/*"):
		closeAt := strings.Index(rest[2:], "*/")
		if closeAt < 0 {
			return -1, errors.Errorf("%w: comment opened at offset %d never closes", ErrUnbalanced, i)
		}
		return i + 2 + closeAt + 2, nil
	case strings.HasPrefix(rest, `"""`):
		return skipString(s, i+3, true)
	case rest[0] == '"':
		return skipString(s, i+1, false)
	case rest[0] == '`':
		closeAt := strings.IndexByte(rest[1:], '`')
		if closeAt < 0 {
			return -1, errors.Errorf("%w: raw string opened at offset %d never closes", ErrUnbalanced, i)
		}
		return i + 1 + closeAt + 1, nil
	case rest[0] == '\'':
		return skipChar(s, i), nil
	}
	return i, nil
}

// skipString scans a string body starting at i and returns the offset just
// past its closing quote. A line string that hits a newline ends there.
func skipString(s string, i int, raw bool) (int, error) {
	for j := i; j < len(s); {
		switch {
		case raw && strings.HasPrefix(s[j:], `"""`):
			return j + 3, nil
		case !raw && s[j] == '\\':
			j += 2
			continue
		case !raw && s[j] == '"':
			return j + 1, nil
		case !raw && s[j] == '\n':
			return j, nil
		case strings.HasPrefix(s[j:], "${"):
			next, err := skipTemplate(s, j+2)
			if err != nil {
				return -1, err
			}
			j = next
			continue
		}
		j++
	}
	if raw {
		return -1, errors.Errorf("%w: raw string opened before offset %d never closes", ErrUnbalanced, i)
	}
	return len(s), nil
}

// skipTemplate scans a "${...}" expression whose body starts at i.
func skipTemplate(s string, i int) (int, error) {
	depth := 1
	for j := i; j < len(s); {
		next, err := skipLiteral(s, j)
		if err != nil {
			return -1, err
		}
		if next != j {
			j = next
			continue
		}
		switch s[j] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return j + 1, nil
			}
		}
		j++
	}
	return -1, errors.Errorf("%w: template opened at offset %d never closes", ErrUnbalanced, i-2)
}

// skipChar treats 'x', '\n' and 'é' as character literals. A quote with
// no partner close by (or on the same line) is an ordinary character.
func skipChar(s string, i int) int {
	for j := i + 1; j < len(s) && j <= i+maxCharLiteral; j++ {
		switch s[j] {
		case '\\':
			j++
		case '\'':
			return j + 1
		case '\n':
			return i
		}
	}
	return i
}
