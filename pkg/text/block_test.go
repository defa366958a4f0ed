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
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestFindBlock(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantBlock string
		wantErr   error
	}{
		{
			name:      "flat_block",
			content:   "fun a() { return 1 }\nfun b() {}",
			wantBlock: "{ return 1 }",
		},
		{
			name:      "two_nesting_levels",
			content:   "fun a() {\n  if (x) {\n    run { y() }\n  }\n  z()\n}\nfun b() {}",
			wantBlock: "{\n  if (x) {\n    run { y() }\n  }\n  z()\n}",
		},
		{
			name:      "brace_in_string",
			content:   `fun a() { val s = "}"; val t = "{" }` + "\nrest }",
			wantBlock: `{ val s = "}"; val t = "{" }`,
		},
		{
			name:      "brace_in_char_literal",
			content:   "fun a() { if (c == '}') return }",
			wantBlock: "{ if (c == '}') return }",
		},
		{
			name:      "brace_in_line_comment",
			content:   "fun a() {\n  // closing } here\n  b()\n}",
			wantBlock: "{\n  // closing } here\n  b()\n}",
		},
		{
			name:      "brace_in_block_comment",
			content:   "fun a() { /* { */ b() }",
			wantBlock: "{ /* { */ b() }",
		},
		{
			name:      "kotlin_template_with_nested_string",
			content:   `fun a() { log("${map["}"]} done") }`,
			wantBlock: `{ log("${map["}"]} done") }`,
		},
		{
			name:      "raw_string",
			content:   "fun a() { val s = \"\"\"\n}\n\"\"\" }",
			wantBlock: "{ val s = \"\"\"\n}\n\"\"\" }",
		},
		{
			name:      "go_raw_string",
			content:   "func a() { s := `}` }",
			wantBlock: "{ s := `}` }",
		},
		{
			name:      "apostrophe_in_text_is_not_a_literal",
			content:   "fun a() { don't() }",
			wantBlock: "{ don't() }",
		},
		{
			name:    "never_closes",
			content: "fun a() { if (x) { }",
			wantErr: ErrUnbalanced,
		},
		{
			name:    "no_open_brace",
			content: "fun a() = 1",
			wantErr: ErrUnbalanced,
		},
		{
			name:    "close_before_open",
			content: "} fun a() {}",
			wantErr: ErrUnbalanced,
		},
		{
			name:    "unterminated_comment",
			content: "fun a() { /* }",
			wantErr: ErrUnbalanced,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			open, end, err := FindBlock(tt.content, 0)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "error should wrap %v, got %v", tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBlock, tt.content[open:end])
		})
	}
}

func TestFindBlockOffsetOutOfRange(t *testing.T) {
	_, _, err := FindBlock("{}", 5)
	require.Error(t, err)
}

// a non-greedy wildcard stops at the first inner brace, the scanner does not
func TestFunctionSpanBeatsNonGreedyWildcard(t *testing.T) {
	content := strings.Join([]string{
		"class C {",
		"    private fun buildModifier(json: JsonObject): Modifier {",
		"        var modifier = Modifier",
		"        json.get(\"width\")?.let { w ->",
		"            if (w.isJsonPrimitive) {",
		"                modifier = modifier.width(w.asFloat.dp)",
		"            }",
		"        }",
		"        return modifier",
		"    }",
		"",
		"    private fun other() {}",
		"}",
	}, "\n")

	naive := regexp.MustCompile(`(?s)private fun buildModifier\(json: JsonObject\): Modifier \{.*?\}`)
	naiveMatch := naive.FindString(content)
	assert.False(t, strings.HasSuffix(naiveMatch, "return modifier\n    }"), "wildcard should truncate early")

	sig := regexp.MustCompile(`private fun buildModifier\(json: JsonObject\): Modifier \{`)
	m := sig.FindStringIndex(content)
	require.NotNil(t, m)

	start, end, err := FunctionSpan(content, m[0], m[1])
	require.NoError(t, err)
	span := content[start:end]
	assert.True(t, strings.HasSuffix(span, "return modifier\n    }"), "span should reach the real end of the function")
	assert.NotContains(t, span, "other()")
}

func TestFunctionSpan(t *testing.T) {
	tests := []struct {
		name    string
		content string
		search  string
		want    string // expected span, empty when wantErr is set
		wantErr error
	}{
		{
			name:    "return_type_before_body",
			content: "fun a(x: Int): Int {\n    return x\n}\n",
			search:  `fun a\(x: Int\)`,
			want:    "fun a(x: Int): Int {\n    return x\n}",
		},
		{
			name:    "match_includes_opening_brace",
			content: "fun a() {\n    if (x) { y() }\n}\nfun b() {}\n",
			search:  `fun a\(\) \{`,
			want:    "fun a() {\n    if (x) { y() }\n}",
		},
		{
			name:    "lambda_default_argument",
			content: "fun create(json: JsonObject, onClick: () -> Unit = {}) {\n    if (x) {\n        onClick()\n    }\n}\n",
			search:  `fun create\(`,
			want:    "fun create(json: JsonObject, onClick: () -> Unit = {}) {\n    if (x) {\n        onClick()\n    }\n}",
		},
		{
			name:    "brace_in_string_default",
			content: "fun label(text: String = \"{\", x: Int) {\n    draw(text)\n}\n",
			search:  `fun label\(`,
			want:    "fun label(text: String = \"{\", x: Int) {\n    draw(text)\n}",
		},
		{
			name:    "multiline_parameters",
			content: "fun a(\n    x: Int,\n    y: Int,\n): Modifier {\n    return m\n}\n",
			search:  `fun a\(`,
			want:    "fun a(\n    x: Int,\n    y: Int,\n): Modifier {\n    return m\n}",
		},
		{
			name:    "function_type_return",
			content: "fun handler(): () -> Unit {\n    return {}\n}\n",
			search:  `fun handler\(`,
			want:    "fun handler(): () -> Unit {\n    return {}\n}",
		},
		{
			name:    "brace_on_next_line",
			content: "void a()\n{\n    b();\n}\n",
			search:  `void a\(\)`,
			want:    "void a()\n{\n    b();\n}",
		},
		{
			name:    "comment_before_body",
			content: "fun a() // entry\n{\n}\n",
			search:  `fun a\(\)`,
			want:    "fun a() // entry\n{\n}",
		},
		{
			name:    "expression_body",
			content: "class A {\n    private fun applyMargins(m: Modifier) = m.padding(1)\n\n    private fun keep(): Int {\n        return 1\n    }\n}\n",
			search:  `private fun applyMargins\(`,
			wantErr: ErrNoBody,
		},
		{
			name:    "abstract_declaration",
			content: "abstract class A {\n    abstract fun render(json: JsonObject): Modifier\n\n    fun keep() {\n    }\n}\n",
			search:  `abstract fun render\(`,
			wantErr: ErrNoBody,
		},
		{
			name:    "interface_member_on_one_line",
			content: "interface Renderer { fun render() }\nfun keep() {}\n",
			search:  `fun render\(`,
			wantErr: ErrNoBody,
		},
		{
			name:    "interface_member_without_return_type",
			content: "interface Renderer {\n    fun render()\n    fun keep() {}\n}\n",
			search:  `fun render\(`,
			wantErr: ErrNoBody,
		},
		{
			name:    "signature_as_call_argument",
			content: "register(fun handle(x: Int) = x)\nfun keep() {}\n",
			search:  `fun handle\(`,
			wantErr: ErrNoBody,
		},
		{
			name:    "signature_at_end_of_text",
			content: "fun a(x: Int): Int",
			search:  `fun a\(`,
			wantErr: ErrNoBody,
		},
		{
			name:    "unbalanced_body",
			content: "fun a() {\n    if (x) {\n",
			search:  `fun a\(\)`,
			wantErr: ErrUnbalanced,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := regexp.MustCompile(tt.search).FindStringIndex(tt.content)
			require.NotNil(t, m, "search should match")

			start, end, err := FunctionSpan(tt.content, m[0], m[1])
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, m[0], start)
			assert.Equal(t, tt.want, tt.content[start:end])
		})
	}
}

func TestRemoveSpan(t *testing.T) {
	tests := []struct {
		name    string
		content string
		target  string
		want    string
	}{
		{
			name:    "owns_its_lines",
			content: "a\n    fun x() {}\nb\n",
			target:  "fun x() {}",
			want:    "a\nb\n",
		},
		{
			name:    "collapses_double_blank",
			content: "a\n\n    fun x() {}\n\nb\n",
			target:  "fun x() {}",
			want:    "a\n\nb\n",
		},
		{
			name:    "shares_line",
			content: "a; fun x() {} ; b",
			target:  "fun x() {}",
			want:    "a;  ; b",
		},
		{
			name:    "whole_content",
			content: "  fun x() {}",
			target:  "fun x() {}",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := strings.Index(tt.content, tt.target)
			require.GreaterOrEqual(t, start, 0)
			got := removeSpan(tt.content, start, start+len(tt.target))
			assert.Equal(t, tt.want, got)
		})
	}
}
