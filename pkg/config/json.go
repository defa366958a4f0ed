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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&JSONParser{})
}

// 🔧 JSONParser reads a config written as one JSON object
type JSONParser struct{}

// CanParse matches *.json
func (p *JSONParser) CanParse(filename string) bool {
	return strings.EqualFold(filepath.Ext(strings.TrimSpace(filename)), ".json")
}

// 📝 Parse decodes the root and batches of a JSON config.
//
// Unknown keys are rejected. A wrongly typed value is reported by its path,
// e.g. batches.rules.limit, and by line.
func (p *JSONParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	var cfg Config
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		if where := jsonErrorLocation(data, err); where != "" {
			return nil, errors.Errorf("parsing JSON: %s: %w", where, err)
		}
		return nil, errors.Errorf("parsing JSON: %w", err)
	}
	if decoder.More() {
		return nil, errors.Errorf("parsing JSON: unexpected content after the config object at line %d", lineAt(data, decoder.InputOffset()))
	}
	return &cfg, nil
}

// jsonErrorLocation names the field and line a decode error points at
func jsonErrorLocation(data []byte, err error) string {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return fmt.Sprintf("line %d", lineAt(data, syntaxErr.Offset))
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "config"
		}
		return fmt.Sprintf("%s at line %d", field, lineAt(data, typeErr.Offset))
	}
	return ""
}

// lineAt converts a byte offset into a 1-based line number
func lineAt(data []byte, offset int64) int {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	return bytes.Count(data[:offset], []byte("\n")) + 1
}
