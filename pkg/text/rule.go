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
	"fmt"

	"gitlab.com/tozd/go/errors"
)

var (
	// ErrPatternNotFound is returned when a rule's search pattern does not match.
	ErrPatternNotFound = errors.Base("pattern not found")
	// ErrUnbalanced is returned when a brace-delimited block never closes.
	ErrUnbalanced = errors.Base("unbalanced braces")
	// ErrNoBody is returned for a signature without a block body, such as an
	// expression body or an abstract declaration.
	ErrNoBody = errors.Base("function has no block body")
)

// 🔧 Kind selects how a rule matches and rewrites text
type Kind string

const (
	KindLiteral         Kind = "literal"          // replace a literal string
	KindRegex           Kind = "regex"            // replace regex matches, Replace may use $1 / ${name}
	KindInsertAfter     Kind = "insert_after"     // insert Replace after the last Search match (or Fallback)
	KindReplaceFunction Kind = "replace_function" // replace signature match through its closing brace
	KindRemoveFunction  Kind = "remove_function"  // remove signature match through its closing brace
)

// Kinds lists every supported rule kind.
var Kinds = []Kind{KindLiteral, KindRegex, KindInsertAfter, KindReplaceFunction, KindRemoveFunction}

// IsRegex reports whether Search is interpreted as a regular expression.
func (k Kind) IsRegex() bool {
	return k != KindLiteral
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// 📝 Rule is one detect-then-replace operation applied to a file's text
type Rule struct {
	// Name identifies the rule in reports and in DependsOn references
	Name string

	// Kind selects the matching strategy, defaults to KindLiteral
	Kind Kind

	// Search is the literal text or regular expression to find
	Search string

	// Replace is the replacement text or template
	Replace string

	// Fallback is the anchor regex for KindInsertAfter when Search has no match
	Fallback string

	// Limit caps the number of replacements, 0 means all
	Limit int

	// When lists substrings that must all be present for the rule to run
	When []string

	// AppliedIf is a marker substring; when present the rule is already applied
	AppliedIf string

	// DependsOn names an earlier rule that must have changed the text in this pass
	DependsOn string
}

// Label is the name used for the rule in reports.
func (r Rule) Label() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Search
}

// Validate checks a list of rules for structural errors.
func Validate(rules []Rule) error {
	seen := make(map[string]bool, len(rules))
	for i, rule := range rules {
		kind := rule.Kind
		if kind == "" {
			kind = KindLiteral
		}
		if !kind.Valid() {
			return errors.Errorf("rule %d: unknown kind %q", i, rule.Kind)
		}
		if rule.Search == "" {
			return errors.Errorf("rule %d: search is required", i)
		}
		if rule.Limit < 0 {
			return errors.Errorf("rule %d: limit must not be negative", i)
		}
		if rule.Fallback != "" && kind != KindInsertAfter {
			return errors.Errorf("rule %d: fallback is only valid for %s rules", i, KindInsertAfter)
		}
		if rule.DependsOn != "" && !seen[rule.DependsOn] {
			return errors.Errorf("rule %d: depends_on %q must name an earlier rule", i, rule.DependsOn)
		}
		if rule.Name != "" {
			if seen[rule.Name] {
				return errors.Errorf("rule %d: duplicate name %q", i, rule.Name)
			}
			seen[rule.Name] = true
		}
	}
	return nil
}

// 📊 Outcome is the result of running one rule against one text
type Outcome int

const (
	OutcomeApplied   Outcome = iota // the text changed
	OutcomeUnchanged                // the pattern matched but the text is identical
	OutcomeSkipped                  // the rule did not run
	OutcomeNotFound                 // the pattern did not match
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeNotFound:
		return "not_found"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// RuleResult records what a single rule did.
type RuleResult struct {
	Rule    string
	Outcome Outcome
	Reason  string // why the rule was skipped
	Pattern string // the pattern that was not found
	Count   int    // replacements made
}

// Result contains the results of applying a rule set to one text.
type Result struct {
	// OriginalContent is the content before any rule ran
	OriginalContent string

	// ModifiedContent is the content after every rule ran
	ModifiedContent string

	// WasModified indicates if the content changed
	WasModified bool

	// ReplacementCount is the total number of replacements made
	ReplacementCount int

	// Rules holds one entry per rule, in rule order
	Rules []RuleResult
}

// Missing returns the results of rules whose pattern was not found.
func (r *Result) Missing() []RuleResult {
	var out []RuleResult
	for _, rr := range r.Rules {
		if rr.Outcome == OutcomeNotFound {
			out = append(out, rr)
		}
	}
	return out
}

// AllSkipped reports whether no rule ran.
func (r *Result) AllSkipped() bool {
	if len(r.Rules) == 0 {
		return false
	}
	for _, rr := range r.Rules {
		if rr.Outcome != OutcomeSkipped {
			return false
		}
	}
	return true
}
