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

	"gitlab.com/tozd/go/errors"
)

// NormalizeTemplate rewrites backslash group references into the dollar form used by
// the regex engine: \1 becomes ${1}, \g<name> becomes ${name} and \\ becomes a single
// backslash. Dollar references pass through untouched.
func NormalizeTemplate(tmpl string) (string, error) {
	if !strings.Contains(tmpl, `\`) {
		return tmpl, nil
	}

	var b strings.Builder
	b.Grow(len(tmpl) + 8)

	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		if c != '\\' || i+1 == len(tmpl) {
			b.WriteByte(c)
			continue
		}

		next := tmpl[i+1]
		switch {
		case next >= '0' && next <= '9':
			j := i + 1
			for j < len(tmpl) && tmpl[j] >= '0' && tmpl[j] <= '9' {
				j++
			}
			b.WriteString("${" + tmpl[i+1:j] + "}")
			i = j - 1
		case next == 'g' && i+2 < len(tmpl) && tmpl[i+2] == '<':
			end := strings.IndexByte(tmpl[i+3:], '>')
			if end < 0 {
				return "", errors.Errorf("unterminated group reference at offset %d", i)
			}
			name := tmpl[i+3 : i+3+end]
			if name == "" {
				return "", errors.Errorf("empty group reference at offset %d", i)
			}
			b.WriteString("${" + name + "}")
			i = i + 3 + end
		case next == '\\':
			b.WriteByte('\\')
			i++
		default:
			b.WriteByte(c)
		}
	}

	return b.String(), nil
}
