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

	"github.com/dlclark/regexp2"
	"gitlab.com/tozd/go/errors"
)

// replacer rewrites every non-overlapping match in the input and reports how many it replaced
type replacer interface {
	replaceAll(input string) (string, int, error)
}

// 🔍 regexReplacer uses regexp2 so patterns can carry lookaround guards
type regexReplacer struct {
	re       *regexp2.Regexp
	template string
}

func (r *regexReplacer) replaceAll(input string) (string, int, error) {
	count := 0
	m, err := r.re.FindStringMatch(input)
	for err == nil && m != nil {
		count++
		m, err = r.re.FindNextMatch(m)
	}
	if err != nil {
		return input, 0, errors.Errorf("matching: %w", err)
	}
	if count == 0 {
		return input, 0, nil
	}

	out, err := r.re.Replace(input, r.template, -1, -1)
	if err != nil {
		return input, 0, errors.Errorf("replacing: %w", err)
	}
	return out, count, nil
}

// 📝 literalReplacer uses basic string replacement
type literalReplacer struct {
	from string
	to   string
}

func (r *literalReplacer) replaceAll(input string) (string, int, error) {
	count := strings.Count(input, r.from)
	if count == 0 {
		return input, 0, nil
	}
	return strings.ReplaceAll(input, r.from, r.to), count, nil
}
