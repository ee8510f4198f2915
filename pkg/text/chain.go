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
	"fmt"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dlclark/regexp2"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultMatchTimeout bounds a single regex evaluation
const DefaultMatchTimeout = 5 * time.Second

type compileOptions struct {
	matchTimeout time.Duration
}

// Option configures Compile
type Option func(*compileOptions)

// WithMatchTimeout sets the per-evaluation regex timeout. Zero keeps the default.
func WithMatchTimeout(d time.Duration) Option {
	return func(o *compileOptions) {
		if d > 0 {
			o.matchTimeout = d
		}
	}
}

type compiledRule struct {
	rule Rule
	rep  replacer
}

// 🔗 Chain is an ordered, compiled rule list. Rule i's output is rule i+1's input.
type Chain struct {
	rules []compiledRule
}

// 🏭 Compile compiles every rule up front. Any invalid rule fails the whole chain
// with a *PatternError so nothing is rewritten with a partial rule set.
func Compile(rules []Rule, opts ...Option) (*Chain, error) {
	o := compileOptions{matchTimeout: DefaultMatchTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	chain := &Chain{rules: make([]compiledRule, 0, len(rules))}
	for i, rule := range rules {
		if rule.Name == "" {
			rule.Name = fmt.Sprintf("rule-%d", i)
		}

		fail := func(err error) error {
			return &PatternError{Index: i, Name: rule.Name, Pattern: rule.Pattern, Err: err}
		}

		if rule.Pattern == "" {
			return nil, fail(errors.New("pattern is required"))
		}
		for _, glob := range rule.Files {
			if !doublestar.ValidatePattern(glob) {
				return nil, fail(errors.Errorf("invalid file glob %q", glob))
			}
		}

		if rule.Literal {
			chain.rules = append(chain.rules, compiledRule{
				rule: rule,
				rep:  &literalReplacer{from: rule.Pattern, to: rule.Replace},
			})
			continue
		}

		re, err := regexp2.Compile(rule.Pattern, regexp2.None)
		if err != nil {
			return nil, fail(err)
		}
		re.MatchTimeout = o.matchTimeout

		tmpl, err := NormalizeTemplate(rule.Replace)
		if err != nil {
			return nil, fail(errors.Errorf("replacement: %w", err))
		}

		chain.rules = append(chain.rules, compiledRule{
			rule: rule,
			rep:  &regexReplacer{re: re, template: tmpl},
		})
	}

	return chain, nil
}

// Len returns the number of rules in the chain
func (c *Chain) Len() int {
	return len(c.rules)
}

// Rules returns the rules in application order, with default names filled in
func (c *Chain) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	for i, r := range c.rules {
		out[i] = r.rule
	}
	return out
}

// 🔄 Apply runs every rule that applies to target once, in order
func (c *Chain) Apply(ctx context.Context, target string, content []byte) (*ReplacementResult, error) {
	result := &ReplacementResult{
		OriginalContent: content,
		ModifiedContent: content,
		Passes:          1,
	}

	current := string(content)
	for i, r := range c.rules {
		if err := ctx.Err(); err != nil {
			return nil, errors.Errorf("applying rules: %w", err)
		}
		if !r.rule.appliesTo(target) {
			continue
		}

		next, count, err := r.rep.replaceAll(current)
		if err != nil {
			return nil, errors.Errorf("rule %d (%s): %w", i, r.rule.Name, err)
		}
		if count == 0 {
			continue
		}

		zerolog.Ctx(ctx).Trace().Str("target", target).Str("rule", r.rule.Name).Int("count", count).Msg("rule matched")

		result.Matches = append(result.Matches, RuleMatch{Index: i, Name: r.rule.Name, Count: count})
		result.ReplacementCount += count
		current = next
	}

	if current != string(content) {
		result.WasModified = true
		result.ModifiedContent = []byte(current)
	}

	return result, nil
}

// ApplyUntilStable re-runs the chain on its own output until a pass changes nothing.
// Hitting maxPasses while content is still changing returns a *ConvergenceError.
// maxPasses <= 1 behaves like Apply.
func (c *Chain) ApplyUntilStable(ctx context.Context, target string, content []byte, maxPasses int) (*ReplacementResult, error) {
	first, err := c.Apply(ctx, target, content)
	if err != nil {
		return nil, err
	}
	if maxPasses <= 1 || !first.WasModified {
		return first, nil
	}

	total := first
	for pass := 2; ; pass++ {
		next, err := c.Apply(ctx, target, total.ModifiedContent)
		if err != nil {
			return nil, err
		}
		if !next.WasModified {
			total.Passes = pass
			return total, nil
		}
		if pass == maxPasses {
			return nil, &ConvergenceError{Path: target, Passes: pass, Last: next.Matches}
		}

		total.ReplacementCount += next.ReplacementCount
		total.Matches = append(total.Matches, next.Matches...)
		total.ModifiedContent = next.ModifiedContent
		total.WasModified = string(total.ModifiedContent) != string(content)
	}
}

// Unstable applies the chain twice and returns the rules that still matched on
// the second pass. An idempotent chain returns nothing.
func (c *Chain) Unstable(ctx context.Context, target string, content []byte) ([]RuleMatch, error) {
	first, err := c.Apply(ctx, target, content)
	if err != nil {
		return nil, err
	}
	second, err := c.Apply(ctx, target, first.ModifiedContent)
	if err != nil {
		return nil, err
	}
	return second.Matches, nil
}
