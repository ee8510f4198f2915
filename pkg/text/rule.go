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
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Rule defines a single pattern replacement applied to file content
type Rule struct {
	// Name identifies the rule in reports. Defaults to "rule-<index>".
	Name string

	// Pattern is the regular expression to match. Lookahead and lookbehind are supported.
	Pattern string

	// Replace is the replacement template. Groups are referenced as $1, ${1} or ${name};
	// \1 and \g<name> are accepted as aliases.
	Replace string

	// Literal treats Pattern and Replace as plain text
	Literal bool

	// Files restricts the rule to targets matching one of these globs.
	// An empty list applies the rule to every target.
	Files []string
}

// RuleMatch records how many times a rule matched during one pass
type RuleMatch struct {
	Index int
	Name  string
	Count int
}

// ReplacementResult contains the results of applying a chain to one file
type ReplacementResult struct {
	// WasModified indicates if the final content differs from the original
	WasModified bool

	// ReplacementCount is the total number of matches replaced across all rules
	ReplacementCount int

	// Matches lists the rules that matched, in application order
	Matches []RuleMatch

	// Passes is the number of times the whole chain ran
	Passes int

	OriginalContent []byte
	ModifiedContent []byte
}

// appliesTo reports whether the rule should run against the given target path.
// Globs without a slash also match against the base name.
func (r Rule) appliesTo(target string) bool {
	if len(r.Files) == 0 {
		return true
	}

	target = strings.TrimPrefix(path.Clean(strings.ReplaceAll(target, "\\", "/")), "./")
	for _, glob := range r.Files {
		if ok, _ := doublestar.Match(glob, target); ok {
			return true
		}
		if !strings.Contains(glob, "/") {
			if ok, _ := doublestar.Match(glob, path.Base(target)); ok {
				return true
			}
		}
	}
	return false
}
