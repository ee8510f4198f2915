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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestChain_Apply(t *testing.T) {
	tests := []struct {
		name         string
		target       string
		content      string
		rules        []Rule
		want         string
		wantCount    int
		wantModified bool
		wantMatches  []RuleMatch
	}{
		{
			name:    "card_background",
			content: `<div className="bg-white rounded shadow">`,
			rules: []Rule{
				{Pattern: "bg-white rounded", Replace: "bg-white dark:bg-gray-800 rounded"},
			},
			want:         `<div className="bg-white dark:bg-gray-800 rounded shadow">`,
			wantCount:    1,
			wantModified: true,
			wantMatches:  []RuleMatch{{Index: 0, Name: "rule-0", Count: 1}},
		},
		{
			name:    "multiple_matches_counted",
			content: "hover:bg-gray-200 x hover:bg-gray-200",
			rules: []Rule{
				{Name: "hover", Pattern: `hover:bg-gray-200(?!\s+dark:hover)`, Replace: "hover:bg-gray-200 dark:hover:bg-gray-600"},
			},
			want:         "hover:bg-gray-200 dark:hover:bg-gray-600 x hover:bg-gray-200 dark:hover:bg-gray-600",
			wantCount:    2,
			wantModified: true,
			wantMatches:  []RuleMatch{{Index: 0, Name: "hover", Count: 2}},
		},
		{
			name:    "lookahead_guard_skips_migrated_text",
			content: "hover:bg-gray-200 dark:hover:bg-gray-600",
			rules: []Rule{
				{Pattern: `hover:bg-gray-200(?!\s+dark:hover)`, Replace: "hover:bg-gray-200 dark:hover:bg-gray-600"},
			},
			want:         "hover:bg-gray-200 dark:hover:bg-gray-600",
			wantCount:    0,
			wantModified: false,
		},
		{
			name:    "backslash_group_reference",
			content: `className="bg-gray-100 text-gray-700 px-2"`,
			rules: []Rule{
				{Pattern: `bg-gray-100\s+text-gray-(\d+)(?!\d|\s+dark:)`, Replace: `bg-gray-100 dark:bg-gray-700 text-gray-\1 dark:text-gray-300`},
			},
			want:         `className="bg-gray-100 dark:bg-gray-700 text-gray-700 dark:text-gray-300 px-2"`,
			wantCount:    1,
			wantModified: true,
			wantMatches:  []RuleMatch{{Index: 0, Name: "rule-0", Count: 1}},
		},
		{
			name:    "dollar_group_reference",
			content: "border-gray-200 p-2",
			rules: []Rule{
				{Pattern: `border-gray-200([^-])`, Replace: "border-gray-200 dark:border-gray-700$1"},
			},
			want:         "border-gray-200 dark:border-gray-700 p-2",
			wantCount:    1,
			wantModified: true,
			wantMatches:  []RuleMatch{{Index: 0, Name: "rule-0", Count: 1}},
		},
		{
			name:    "literal_rule_ignores_regex_syntax",
			content: "a.b axb",
			rules: []Rule{
				{Pattern: "a.b", Replace: "$1", Literal: true},
			},
			want:         "$1 axb",
			wantCount:    1,
			wantModified: true,
			wantMatches:  []RuleMatch{{Index: 0, Name: "rule-0", Count: 1}},
		},
		{
			name:    "no_match",
			content: "text-blue-500",
			rules: []Rule{
				{Pattern: "dark:text-gray-400", Replace: "dark:text-gray-300"},
			},
			want: "text-blue-500",
		},
		{
			name:    "empty_content",
			content: "",
			rules: []Rule{
				{Pattern: "x", Replace: "y"},
			},
			want: "",
		},
		{
			name:    "empty_rules",
			content: "Hello World",
			rules:   []Rule{},
			want:    "Hello World",
		},
		{
			name:    "file_filter_excludes_target",
			target:  "Products.jsx",
			content: "<Users />",
			rules: []Rule{
				{Pattern: "Users", Replace: "Members", Files: []string{"Students.jsx"}},
			},
			want: "<Users />",
		},
		{
			name:    "file_filter_matches_base_name",
			target:  "pages/Students.jsx",
			content: "<Users />",
			rules: []Rule{
				{Pattern: "Users", Replace: "Members", Files: []string{"Students.jsx"}},
			},
			want:         "<Members />",
			wantCount:    1,
			wantModified: true,
			wantMatches:  []RuleMatch{{Index: 0, Name: "rule-0", Count: 1}},
		},
		{
			name:    "file_filter_doublestar",
			target:  "components/features/students/StudentForm.jsx",
			content: "text-gray-900 ",
			rules: []Rule{
				{Pattern: "text-gray-900 ", Replace: "text-gray-900 dark:text-white ", Files: []string{"components/**/*.jsx"}},
			},
			want:         "text-gray-900 dark:text-white ",
			wantCount:    1,
			wantModified: true,
			wantMatches:  []RuleMatch{{Index: 0, Name: "rule-0", Count: 1}},
		},
		{
			name:    "unicode_content_preserved",
			content: "🎉 Tidak ada santri • bg-white rounded",
			rules: []Rule{
				{Pattern: "bg-white rounded", Replace: "bg-white dark:bg-gray-800 rounded"},
			},
			want:         "🎉 Tidak ada santri • bg-white dark:bg-gray-800 rounded",
			wantCount:    1,
			wantModified: true,
			wantMatches:  []RuleMatch{{Index: 0, Name: "rule-0", Count: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain, err := Compile(tt.rules)
			require.NoError(t, err)

			target := tt.target
			if target == "" {
				target = "Page.jsx"
			}

			result, err := chain.Apply(context.Background(), target, []byte(tt.content))
			require.NoError(t, err)
			require.NotNil(t, result)

			assert.Equal(t, tt.content, string(result.OriginalContent))
			assert.Equal(t, tt.want, string(result.ModifiedContent))
			assert.Equal(t, tt.wantCount, result.ReplacementCount)
			assert.Equal(t, tt.wantModified, result.WasModified)
			assert.Equal(t, tt.wantMatches, result.Matches)
		})
	}
}

func TestChain_OrderSensitivity(t *testing.T) {
	ruleA := Rule{Name: "a", Pattern: "text-gray-500", Replace: "text-gray-500 dark:text-gray-400"}
	ruleB := Rule{Name: "b", Pattern: "dark:text-gray-400", Replace: "dark:text-gray-300"}
	content := []byte(`<p className="text-gray-500">`)

	forward, err := Compile([]Rule{ruleA, ruleB})
	require.NoError(t, err)
	reverse, err := Compile([]Rule{ruleB, ruleA})
	require.NoError(t, err)

	fwd, err := forward.Apply(context.Background(), "Page.jsx", content)
	require.NoError(t, err)
	rev, err := reverse.Apply(context.Background(), "Page.jsx", content)
	require.NoError(t, err)

	assert.Equal(t, `<p className="text-gray-500 dark:text-gray-300">`, string(fwd.ModifiedContent))
	assert.Equal(t, 2, fwd.ReplacementCount)
	assert.Equal(t, `<p className="text-gray-500 dark:text-gray-400">`, string(rev.ModifiedContent))
	assert.Equal(t, 1, rev.ReplacementCount)
	assert.NotEqual(t, string(fwd.ModifiedContent), string(rev.ModifiedContent))
}

func TestCompile_PatternError(t *testing.T) {
	_, err := Compile([]Rule{
		{Name: "ok", Pattern: "bg-white"},
		{Name: "broken", Pattern: "bg-(white"},
	})
	require.Error(t, err)

	var perr *PatternError
	require.True(t, errors.As(err, &perr), "error should be a PatternError")
	assert.Equal(t, 1, perr.Index)
	assert.Equal(t, "broken", perr.Name)
	assert.Equal(t, "bg-(white", perr.Pattern)
	assert.Contains(t, err.Error(), "rule 1 (broken)")
}

func TestCompile_Validation(t *testing.T) {
	tests := []struct {
		name      string
		rule      Rule
		wantError string
	}{
		{
			name:      "missing_pattern",
			rule:      Rule{Replace: "x"},
			wantError: "pattern is required",
		},
		{
			name:      "bad_file_glob",
			rule:      Rule{Pattern: "x", Files: []string{"[abc"}},
			wantError: "invalid file glob",
		},
		{
			name:      "bad_group_reference",
			rule:      Rule{Pattern: "(?<n>x)", Replace: `\g<n`},
			wantError: "unterminated group reference",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile([]Rule{tt.rule})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantError)

			var perr *PatternError
			assert.True(t, errors.As(err, &perr))
		})
	}
}

func TestChain_ApplyUntilStable(t *testing.T) {
	t.Run("converges", func(t *testing.T) {
		// the first rule only matches after the second one ran
		chain, err := Compile([]Rule{
			{Name: "finish", Pattern: "b", Replace: "c"},
			{Name: "start", Pattern: "a", Replace: "b"},
		})
		require.NoError(t, err)

		result, err := chain.ApplyUntilStable(context.Background(), "Page.jsx", []byte("a"), 5)
		require.NoError(t, err)
		assert.Equal(t, "c", string(result.ModifiedContent))
		assert.Equal(t, 2, result.ReplacementCount)
		assert.Equal(t, 3, result.Passes)
		assert.True(t, result.WasModified)
	})

	t.Run("single_pass_when_capped_at_one", func(t *testing.T) {
		chain, err := Compile([]Rule{{Pattern: "x", Replace: "xx"}})
		require.NoError(t, err)

		result, err := chain.ApplyUntilStable(context.Background(), "Page.jsx", []byte("x"), 1)
		require.NoError(t, err)
		assert.Equal(t, "xx", string(result.ModifiedContent))
		assert.Equal(t, 1, result.Passes)
	})

	t.Run("diverges", func(t *testing.T) {
		chain, err := Compile([]Rule{{Name: "grow", Pattern: "x", Replace: "xx"}})
		require.NoError(t, err)

		_, err = chain.ApplyUntilStable(context.Background(), "Page.jsx", []byte("x"), 3)
		require.Error(t, err)

		var cerr *ConvergenceError
		require.True(t, errors.As(err, &cerr))
		assert.Equal(t, 3, cerr.Passes)
		assert.Equal(t, "Page.jsx", cerr.Path)
		require.Len(t, cerr.Last, 1)
		assert.Equal(t, "grow", cerr.Last[0].Name)
	})
}

func TestChain_Unstable(t *testing.T) {
	tests := []struct {
		name      string
		rule      Rule
		content   string
		wantNames []string
	}{
		{
			name:      "unguarded_rule_rematches",
			rule:      Rule{Name: "heading", Pattern: `text-gray-900([^-])`, Replace: "text-gray-900 dark:text-white$1"},
			content:   `<h1 className="text-gray-900 font-bold">`,
			wantNames: []string{"heading"},
		},
		{
			name:    "guarded_rule_is_idempotent",
			rule:    Rule{Name: "heading", Pattern: `text-gray-900(?![\w-]|\s+dark:)`, Replace: "text-gray-900 dark:text-white"},
			content: `<h1 className="text-gray-900 font-bold">`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain, err := Compile([]Rule{tt.rule})
			require.NoError(t, err)

			unstable, err := chain.Unstable(context.Background(), "Page.jsx", []byte(tt.content))
			require.NoError(t, err)

			var names []string
			for _, m := range unstable {
				names = append(names, m.Name)
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestChain_ContextCancelled(t *testing.T) {
	chain, err := Compile([]Rule{{Pattern: "x", Replace: "y"}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = chain.Apply(ctx, "Page.jsx", []byte("x"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
