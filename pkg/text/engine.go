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
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// compiledRule is a validated rule with its patterns compiled
type compiledRule struct {
	Rule
	search   *regexp.Regexp
	fallback *regexp.Regexp
}

// 🎯 Engine applies an ordered rule set to text
type Engine struct {
	rules []compiledRule
}

// 🏭 NewEngine validates and compiles rules
func NewEngine(rules []Rule) (*Engine, error) {
	if err := Validate(rules); err != nil {
		return nil, err
	}

	compiled := make([]compiledRule, 0, len(rules))
	for i, rule := range rules {
		if rule.Kind == "" {
			rule.Kind = KindLiteral
		}
		if rule.Kind == KindInsertAfter && rule.AppliedIf == "" {
			// an insertion has no other way to tell it already happened
			rule.AppliedIf = strings.TrimSpace(rule.Replace)
			if rule.AppliedIf == "" {
				return nil, errors.Errorf("rule %d: %s rules need replace text", i, KindInsertAfter)
			}
		}

		cr := compiledRule{Rule: rule}
		if rule.Kind.IsRegex() {
			re, err := regexp.Compile(rule.Search)
			if err != nil {
				return nil, errors.Errorf("rule %d: compiling search: %w", i, err)
			}
			cr.search = re
		}
		if rule.Fallback != "" {
			re, err := regexp.Compile(rule.Fallback)
			if err != nil {
				return nil, errors.Errorf("rule %d: compiling fallback: %w", i, err)
			}
			cr.fallback = re
		}
		compiled = append(compiled, cr)
	}

	return &Engine{rules: compiled}, nil
}

// Rules returns the rules with defaults filled in.
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	for i, cr := range e.rules {
		out[i] = cr.Rule
	}
	return out
}

// 🔄 Patch runs every rule in order against content.
//
// A rule whose pattern does not match is recorded as OutcomeNotFound and the
// remaining rules still run; edits made by earlier rules are kept.
func (e *Engine) Patch(ctx context.Context, content string) *Result {
	logger := zerolog.Ctx(ctx)

	result := &Result{OriginalContent: content}
	changed := make(map[string]bool, len(e.rules))
	current := content

	for _, rule := range e.rules {
		rr := RuleResult{Rule: rule.Label()}

		if reason, skip := rule.skipReason(current, changed); skip {
			rr.Outcome = OutcomeSkipped
			rr.Reason = reason
		} else {
			next, count, err := rule.apply(current)
			switch {
			case err != nil:
				rr.Outcome = OutcomeNotFound
				rr.Pattern = rule.Search
				if !errors.Is(err, ErrPatternNotFound) {
					rr.Reason = err.Error()
				}
			case next == current:
				rr.Outcome = OutcomeUnchanged
				rr.Count = count
			default:
				rr.Outcome = OutcomeApplied
				rr.Count = count
				current = next
				changed[rule.Name] = true
				result.ReplacementCount += count
			}
		}

		logger.Trace().
			Str("rule", rr.Rule).
			Stringer("outcome", rr.Outcome).
			Int("count", rr.Count).
			Str("reason", rr.Reason).
			Msg("rule evaluated")

		result.Rules = append(result.Rules, rr)
	}

	result.ModifiedContent = current
	result.WasModified = current != content
	return result
}

// skipReason decides whether a rule should run against the current text
func (r compiledRule) skipReason(current string, changed map[string]bool) (string, bool) {
	if r.AppliedIf != "" && strings.Contains(current, r.AppliedIf) {
		return "already applied", true
	}
	for _, want := range r.When {
		if !strings.Contains(current, want) {
			return "condition not met: " + want, true
		}
	}
	if r.DependsOn != "" && !changed[r.DependsOn] {
		return "depends on " + r.DependsOn, true
	}
	return "", false
}

// apply runs the rule once and returns the new text and replacement count
func (r compiledRule) apply(current string) (string, int, error) {
	switch r.Kind {
	case KindLiteral:
		return r.applyLiteral(current)
	case KindRegex:
		return r.applyRegex(current)
	case KindInsertAfter:
		return r.applyInsertAfter(current)
	case KindReplaceFunction, KindRemoveFunction:
		return r.applyFunction(current)
	default:
		return "", 0, errors.Errorf("unknown kind %q", r.Kind)
	}
}

// limit converts Limit to the n argument used by strings and regexp
func (r compiledRule) limit() int {
	if r.Limit == 0 {
		return -1
	}
	return r.Limit
}

func (r compiledRule) applyLiteral(current string) (string, int, error) {
	count := strings.Count(current, r.Search)
	if count == 0 {
		return "", 0, ErrPatternNotFound
	}
	if r.Limit > 0 && count > r.Limit {
		count = r.Limit
	}
	return strings.Replace(current, r.Search, r.Replace, r.limit()), count, nil
}

func (r compiledRule) applyRegex(current string) (string, int, error) {
	matches := r.search.FindAllStringSubmatchIndex(current, r.limit())
	if len(matches) == 0 {
		return "", 0, ErrPatternNotFound
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(current[last:m[0]])
		b.Write(r.search.ExpandString(nil, r.Replace, current, m))
		last = m[1]
	}
	b.WriteString(current[last:])
	return b.String(), len(matches), nil
}

func (r compiledRule) applyInsertAfter(current string) (string, int, error) {
	pos := -1
	if matches := r.search.FindAllStringIndex(current, -1); len(matches) > 0 {
		pos = matches[len(matches)-1][1]
	} else if r.fallback != nil {
		if m := r.fallback.FindStringIndex(current); m != nil {
			pos = m[1]
		}
	}
	if pos < 0 {
		return "", 0, ErrPatternNotFound
	}
	return current[:pos] + r.Replace + current[pos:], 1, nil
}

// applyFunction rewrites every signature match through the end of its body.
// The body end comes from FindBlock, never from a wildcard. Matches without
// a block body are left alone.
func (r compiledRule) applyFunction(current string) (string, int, error) {
	if r.Kind == KindRemoveFunction {
		return r.removeFunctions(current)
	}

	matches := r.search.FindAllStringSubmatchIndex(current, -1)
	if len(matches) == 0 {
		return "", 0, ErrPatternNotFound
	}

	var b strings.Builder
	var noBody error
	last, count := 0, 0
	for _, m := range matches {
		if m[0] < last {
			continue // inside a span that was already rewritten
		}
		if r.Limit > 0 && count == r.Limit {
			break
		}

		start, end, err := FunctionSpan(current, m[0], m[1])
		if errors.Is(err, ErrNoBody) {
			noBody = err
			continue
		}
		if err != nil {
			return "", 0, errors.Errorf("finding end of %q: %w", current[m[0]:m[1]], err)
		}

		b.WriteString(current[last:start])
		b.Write(r.search.ExpandString(nil, r.Replace, current, m))
		last = end
		count++
	}
	if count == 0 {
		return "", 0, noBody
	}
	b.WriteString(current[last:])
	return b.String(), count, nil
}

// removeFunctions deletes one function at a time so each removal sees the
// text left by the previous one.
func (r compiledRule) removeFunctions(current string) (string, int, error) {
	var noBody error
	count, from := 0, 0
	for r.Limit == 0 || count < r.Limit {
		m := r.nextMatch(current, from)
		if m == nil {
			break
		}
		start, end, err := FunctionSpan(current, m[0], m[1])
		if errors.Is(err, ErrNoBody) {
			noBody = err
			from = m[1]
			continue
		}
		if err != nil {
			return "", 0, errors.Errorf("finding end of %q: %w", current[m[0]:m[1]], err)
		}
		current = removeSpan(current, start, end)
		count++
	}
	switch {
	case count > 0:
		return current, count, nil
	case noBody != nil:
		return "", 0, noBody
	default:
		return "", 0, ErrPatternNotFound
	}
}

// nextMatch returns the first search match starting at or after from.
// Matching always runs on the whole text so anchors keep their meaning.
func (r compiledRule) nextMatch(current string, from int) []int {
	for _, m := range r.search.FindAllStringIndex(current, -1) {
		if m[0] >= from {
			return m
		}
	}
	return nil
}

// FunctionSpan returns the span from a signature match through the brace
// that closes the function body.
//
// The signature is walked from the match start: the parameter list is
// skipped as a balanced unit, so lambdas and strings in default arguments
// never count, and so is whatever follows it up to the body (a return type,
// a throws clause). The first '{' outside parentheses opens the body. An
// '=', ';' or '}' before it, or a new line that does not continue with '{',
// means there is no block body and ErrNoBody is returned.
func FunctionSpan(content string, matchStart, matchEnd int) (start, end int, err error) {
	depth := 0
	for i := matchStart; i < len(content); {
		next, err := skipLiteral(content, i)
		if err != nil {
			return -1, -1, err
		}
		if next != i {
			i = next
			continue
		}

		c := content[i]
		switch {
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			if depth > 0 {
				depth--
			} else if i >= matchEnd {
				// the signature sits inside an enclosing call
				return -1, -1, errors.Errorf("%w: %q closes an enclosing expression", ErrNoBody, string(c))
			}
		case depth > 0:
		case c == '{':
			_, end, err := FindBlock(content, i)
			if err != nil {
				return -1, -1, err
			}
			return matchStart, end, nil
		case c == '=' || c == ';' || c == '}':
			return -1, -1, errors.Errorf("%w: signature ends at %q", ErrNoBody, string(c))
		case c == '\n' && i >= matchEnd:
			if k := skipSpace(content, i); k >= len(content) || content[k] != '{' {
				return -1, -1, errors.Errorf("%w: signature ends at end of line", ErrNoBody)
			}
		}
		i++
	}
	return -1, -1, errors.Errorf("%w: signature runs to end of text", ErrNoBody)
}

// skipSpace returns the offset of the first character at or after i that is
// neither whitespace nor part of a comment.
func skipSpace(s string, i int) int {
	for i < len(s) {
		switch {
		case s[i] == ' ' || s[i] == '\t' || s[i] == '\r' || s[i] == '\n':
			i++
		case strings.HasPrefix(s[i:], "//"), strings.HasPrefix(s[i:], "/*"):
			next, err := skipLiteral(s, i)
			if err != nil {
				return len(s)
			}
			i = next
		default:
			return i
		}
	}
	return i
}

// removeSpan deletes content[start:end]. When the span owns its lines the
// indentation and trailing newline go too, and a doubled blank line left
// behind is collapsed into one.
func removeSpan(content string, start, end int) string {
	lineStart := start
	for lineStart > 0 && (content[lineStart-1] == ' ' || content[lineStart-1] == '\t') {
		lineStart--
	}
	lineEnd := end
	for lineEnd < len(content) && (content[lineEnd] == ' ' || content[lineEnd] == '\t' || content[lineEnd] == '\r') {
		lineEnd++
	}

	ownsLines := (lineStart == 0 || content[lineStart-1] == '\n') &&
		(lineEnd == len(content) || content[lineEnd] == '\n')
	if !ownsLines {
		return content[:start] + content[end:]
	}
	if lineEnd < len(content) {
		lineEnd++
	}

	before, after := content[:lineStart], content[lineEnd:]
	if strings.HasSuffix(before, "\n\n") {
		after = strings.TrimPrefix(after, "\n")
	}
	return before + after
}
