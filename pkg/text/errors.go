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

import "fmt"

// PatternError reports a rule that could not be compiled
type PatternError struct {
	Index   int
	Name    string
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("rule %d (%s): invalid pattern %q: %v", e.Index, e.Name, e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// ConvergenceError reports a chain that kept changing content until the pass limit
type ConvergenceError struct {
	Path   string
	Passes int
	// Last holds the rules that still matched on the final pass
	Last []RuleMatch
}

func (e *ConvergenceError) Error() string {
	names := make([]string, 0, len(e.Last))
	for _, m := range e.Last {
		names = append(names, m.Name)
	}
	return fmt.Sprintf("%s: rules did not converge after %d passes (still matching: %v)", e.Path, e.Passes, names)
}
