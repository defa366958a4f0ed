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
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".hcl")
}

type hclRule struct {
	Name      string   `hcl:"name,label"`
	Kind      string   `hcl:"kind,optional"`
	Search    string   `hcl:"search,optional"`
	Replace   string   `hcl:"replace,optional"`
	Fallback  string   `hcl:"fallback,optional"`
	Limit     int      `hcl:"limit,optional"`
	When      []string `hcl:"when,optional"`
	AppliedIf string   `hcl:"applied_if,optional"`
	DependsOn string   `hcl:"depends_on,optional"`
}

type hclBatch struct {
	Name       string    `hcl:"name,label"`
	Root       string    `hcl:"root,optional"`
	Files      []string  `hcl:"files,optional"`
	Include    []string  `hcl:"include,optional"`
	Exclude    []string  `hcl:"exclude,optional"`
	OnlyIf     []string  `hcl:"only_if,optional"`
	SkipIf     []string  `hcl:"skip_if,optional"`
	SkipReason string    `hcl:"skip_reason,optional"`
	Rules      []hclRule `hcl:"rule,block"`
}

type hclConfig struct {
	Root    string     `hcl:"root,optional"`
	Batches []hclBatch `hcl:"batch,block"`
}

// 📝 Parse parses the config from HCL
//
// Expressions can read the process environment through the env object,
// e.g. root = env.COMPONENTS_DIR.
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": envObject(),
		},
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{Root: hclCfg.Root}
	for _, b := range hclCfg.Batches {
		batch := Batch{
			Name:       b.Name,
			Root:       b.Root,
			Files:      b.Files,
			Include:    b.Include,
			Exclude:    b.Exclude,
			OnlyIf:     b.OnlyIf,
			SkipIf:     b.SkipIf,
			SkipReason: b.SkipReason,
		}
		for _, r := range b.Rules {
			batch.Rules = append(batch.Rules, Rule(r))
		}
		cfg.Batches = append(cfg.Batches, batch)
	}

	return cfg, nil
}

func envObject() cty.Value {
	vars := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = cty.StringVal(v)
	}
	return cty.ObjectVal(vars)
}
