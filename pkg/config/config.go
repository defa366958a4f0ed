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

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/walteh/patchrc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.Base("invalid config")

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📝 Rule is one patch rule as written in a config file
type Rule struct {
	Name      string   `json:"name" yaml:"name"`
	Kind      string   `json:"kind,omitempty" yaml:"kind,omitempty"`
	Search    string   `json:"search" yaml:"search"`
	Replace   string   `json:"replace,omitempty" yaml:"replace,omitempty"`
	Fallback  string   `json:"fallback,omitempty" yaml:"fallback,omitempty"`
	Limit     int      `json:"limit,omitempty" yaml:"limit,omitempty"`
	When      []string `json:"when,omitempty" yaml:"when,omitempty"`
	AppliedIf string   `json:"applied_if,omitempty" yaml:"applied_if,omitempty"`
	DependsOn string   `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
}

// TextRule converts the rule for the text engine.
func (r Rule) TextRule() text.Rule {
	return text.Rule{
		Name:      r.Name,
		Kind:      text.Kind(r.Kind),
		Search:    r.Search,
		Replace:   r.Replace,
		Fallback:  r.Fallback,
		Limit:     r.Limit,
		When:      r.When,
		AppliedIf: r.AppliedIf,
		DependsOn: r.DependsOn,
	}
}

// 📦 Batch is a set of files patched with one ordered rule list
type Batch struct {
	Name       string   `json:"name" yaml:"name"`
	Root       string   `json:"root,omitempty" yaml:"root,omitempty"`               // relative to the config root
	Files      []string `json:"files,omitempty" yaml:"files,omitempty"`             // explicit names
	Include    []string `json:"include,omitempty" yaml:"include,omitempty"`         // doublestar globs
	Exclude    []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`         // doublestar globs
	OnlyIf     []string `json:"only_if,omitempty" yaml:"only_if,omitempty"`         // all must be present
	SkipIf     []string `json:"skip_if,omitempty" yaml:"skip_if,omitempty"`         // any marks the file done
	SkipReason string   `json:"skip_reason,omitempty" yaml:"skip_reason,omitempty"` // reported when skip_if matches
	Rules      []Rule   `json:"rules" yaml:"rules"`
}

// TextRules converts the batch rules for the text engine.
func (b Batch) TextRules() []text.Rule {
	out := make([]text.Rule, len(b.Rules))
	for i, r := range b.Rules {
		out[i] = r.TextRule()
	}
	return out
}

// 📚 Config represents the complete configuration
type Config struct {
	Root    string  `json:"root,omitempty" yaml:"root,omitempty"`
	Batches []Batch `json:"batches" yaml:"batches"`

	location string
}

// Location returns the file the config was loaded from.
func (cfg *Config) Location() string {
	return cfg.location
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	if len(cfg.Batches) == 0 {
		return errors.Errorf("%w: batches: at least one batch is required", ErrInvalid)
	}

	names := make(map[string]bool, len(cfg.Batches))
	for i, b := range cfg.Batches {
		field := fmt.Sprintf("batches[%d]", i)
		if b.Name == "" {
			return errors.Errorf("%w: %s.name: required", ErrInvalid, field)
		}
		if names[b.Name] {
			return errors.Errorf("%w: %s.name: duplicate batch %q", ErrInvalid, field, b.Name)
		}
		names[b.Name] = true

		field = fmt.Sprintf("batches[%d] (%s)", i, b.Name)
		if err := b.validate(field); err != nil {
			return err
		}
	}

	return nil
}

func (b Batch) validate(field string) error {
	if len(b.Files) == 0 && len(b.Include) == 0 {
		return errors.Errorf("%w: %s: files or include is required", ErrInvalid, field)
	}
	if len(b.Rules) == 0 {
		return errors.Errorf("%w: %s.rules: at least one rule is required", ErrInvalid, field)
	}

	names := make(map[string]bool, len(b.Rules))
	for j, r := range b.Rules {
		rf := fmt.Sprintf("%s.rules[%d]", field, j)
		if r.Name == "" {
			return errors.Errorf("%w: %s.name: required", ErrInvalid, rf)
		}
		if names[r.Name] {
			return errors.Errorf("%w: %s.name: duplicate rule %q", ErrInvalid, rf, r.Name)
		}
		names[r.Name] = true

		if r.Kind != "" && !text.Kind(r.Kind).Valid() {
			return errors.Errorf("%w: %s.kind: unknown kind %q", ErrInvalid, rf, r.Kind)
		}
		if r.Search == "" {
			return errors.Errorf("%w: %s.search: required", ErrInvalid, rf)
		}
	}

	// compiles the regexes and checks the remaining rule constraints
	if _, err := text.NewEngine(b.TextRules()); err != nil {
		return errors.Errorf("%w: %s.rules: %s", ErrInvalid, field, err.Error())
	}
	return nil
}

// 🎯 BatchRoot returns the directory a batch resolves its files against
func (cfg *Config) BatchRoot(b Batch) string {
	if b.Root == "" {
		return cfg.Root
	}
	if filepath.IsAbs(b.Root) {
		return filepath.Clean(b.Root)
	}
	return filepath.Join(cfg.Root, b.Root)
}

// 🔎 Select returns the named batches in config order, or all when names is empty
func (cfg *Config) Select(names []string) ([]Batch, error) {
	if len(names) == 0 {
		return cfg.Batches, nil
	}

	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}

	var out []Batch
	for _, b := range cfg.Batches {
		if want[b.Name] {
			out = append(out, b)
			delete(want, b.Name)
		}
	}
	for _, n := range names {
		if want[n] {
			return nil, errors.Errorf("unknown batch %q (have: %s)", n, strings.Join(cfg.BatchNames(), ", "))
		}
	}
	return out, nil
}

// BatchNames lists the batch names in config order.
func (cfg *Config) BatchNames() []string {
	out := make([]string, len(cfg.Batches))
	for i, b := range cfg.Batches {
		out[i] = b.Name
	}
	return out
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s: %d batches under %s", cfg.location, len(cfg.Batches), cfg.Root)
}
