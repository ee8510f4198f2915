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

// Package rewrite applies a compiled rule chain to a batch of files, one file at a time.
package rewrite

import (
	"context"
	"io/fs"
	"syscall"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/rewriterc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrInvalidEncoding is returned for target files that are not valid UTF-8
	ErrInvalidEncoding = errors.Base("content is not valid UTF-8")

	// ErrPendingChanges is returned by check runs when at least one file would change
	ErrPendingChanges = errors.Base("files need rewriting")
)

// 🔧 Options controls a run
type Options struct {
	// DryRun computes results without writing anything
	DryRun bool
	// Diff renders a unified diff for every changed file
	Diff bool
	// AtomicWrite writes through a temp file and rename instead of truncating in place
	AtomicWrite bool
	// KeepGoing reports read/write faults and continues with the next file instead
	// of stopping the batch
	KeepGoing bool
	// MaxPasses re-runs the chain until content stops changing, up to this many passes
	MaxPasses int
	// CheckStable applies the chain once more to each result and records rules that still match
	CheckStable bool
}

// 📄 Result is the outcome for one target
type Result struct {
	Target

	Skipped      bool
	Changed      bool
	Written      bool
	Replacements int
	Passes       int
	Matches      []text.RuleMatch
	// Unstable lists rules that matched again on already rewritten content
	Unstable []text.RuleMatch
	Diff     string
	Err      error
}

// 📊 Summary aggregates a run
type Summary struct {
	Processed    int
	Changed      int
	Skipped      int
	Failed       int
	Replacements int
	DryRun       bool
	Results      []Result
}

// Unstable returns the results that carry non-idempotent rule matches
func (s *Summary) Unstable() []Result {
	var out []Result
	for _, r := range s.Results {
		if len(r.Unstable) > 0 {
			out = append(out, r)
		}
	}
	return out
}

// 📢 Reporter receives progress as the run goes
type Reporter interface {
	FileStarted(ctx context.Context, t Target)
	FileSkipped(ctx context.Context, t Target, reason string)
	FileProcessed(ctx context.Context, r Result, dryRun bool)
	FileFailed(ctx context.Context, t Target, err error)
	RunFinished(ctx context.Context, s Summary)
}

type nopReporter struct{}

func (nopReporter) FileStarted(context.Context, Target)         {}
func (nopReporter) FileSkipped(context.Context, Target, string) {}
func (nopReporter) FileProcessed(context.Context, Result, bool) {}
func (nopReporter) FileFailed(context.Context, Target, error)   {}
func (nopReporter) RunFinished(context.Context, Summary)        {}

// 🏃 Rewriter runs a chain over targets strictly in order
type Rewriter struct {
	fs       afero.Fs
	chain    *text.Chain
	opts     Options
	reporter Reporter
}

// 🏭 New creates a rewriter. A nil reporter discards progress.
func New(fs afero.Fs, chain *text.Chain, opts Options, reporter Reporter) *Rewriter {
	if reporter == nil {
		reporter = nopReporter{}
	}
	return &Rewriter{
		fs:       fs,
		chain:    chain,
		opts:     opts,
		reporter: reporter,
	}
}

// Run processes every target in order. Missing files are skipped and reported.
// A read or write fault stops the batch unless KeepGoing is set, in which case
// all faults are returned joined once every target has been visited.
// Files written before a fault stay written.
func (rw *Rewriter) Run(ctx context.Context, targets []Target) (*Summary, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Int("targets", len(targets)).Int("rules", rw.chain.Len()).Bool("dry_run", rw.opts.DryRun).Msg("starting rewrite")

	summary := &Summary{DryRun: rw.opts.DryRun}
	var faults []error

	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return summary, errors.Errorf("run cancelled: %w", err)
		}

		result, err := rw.processFile(ctx, t)
		if err != nil {
			err = errors.Errorf("processing %s: %w", t.Rel, err)
			summary.Failed++
			summary.Results = append(summary.Results, Result{Target: t, Err: err})
			rw.reporter.FileFailed(ctx, t, err)
			if !rw.opts.KeepGoing {
				return summary, err
			}
			faults = append(faults, err)
			continue
		}

		summary.Results = append(summary.Results, *result)
		if result.Skipped {
			summary.Skipped++
			continue
		}

		summary.Processed++
		if result.Changed {
			summary.Changed++
			summary.Replacements += result.Replacements
		}
	}

	rw.reporter.RunFinished(ctx, *summary)

	logger.Debug().
		Int("processed", summary.Processed).
		Int("changed", summary.Changed).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Int("replacements", summary.Replacements).
		Msg("rewrite complete")

	if len(faults) > 0 {
		return summary, errors.Join(faults...)
	}
	return summary, nil
}

// isMissing reports whether a stat error means the path does not exist,
// including a path whose parent is a regular file
func isMissing(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}

// processFile reads, transforms and conditionally writes one target
func (rw *Rewriter) processFile(ctx context.Context, t Target) (*Result, error) {
	logger := zerolog.Ctx(ctx).With().Str("file", t.Rel).Logger()

	info, err := rw.fs.Stat(t.Path)
	if err != nil {
		if isMissing(err) {
			logger.Debug().Msg("target missing, skipping")
			rw.reporter.FileSkipped(ctx, t, "file not found")
			return &Result{Target: t, Skipped: true}, nil
		}
		return nil, errors.Errorf("checking file existence: %w", err)
	}
	if info.IsDir() {
		return nil, errors.Errorf("%s is a directory", t.Path)
	}

	rw.reporter.FileStarted(ctx, t)

	content, err := afero.ReadFile(rw.fs, t.Path)
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	if !utf8.Valid(content) {
		return nil, errors.Errorf("reading file: %w", ErrInvalidEncoding)
	}

	applied, err := rw.chain.ApplyUntilStable(ctx, t.Rel, content, rw.opts.MaxPasses)
	if err != nil {
		return nil, errors.Errorf("applying rules: %w", err)
	}

	result := &Result{
		Target:       t,
		Changed:      applied.WasModified,
		Replacements: applied.ReplacementCount,
		Passes:       applied.Passes,
		Matches:      applied.Matches,
	}

	if rw.opts.CheckStable {
		again, err := rw.chain.Apply(ctx, t.Rel, applied.ModifiedContent)
		if err != nil {
			return nil, errors.Errorf("checking stability: %w", err)
		}
		result.Unstable = again.Matches
	}

	if !applied.WasModified {
		logger.Debug().Int("matches", applied.ReplacementCount).Msg("no changes needed")
		rw.reporter.FileProcessed(ctx, *result, rw.opts.DryRun)
		return result, nil
	}

	if rw.opts.Diff {
		result.Diff = UnifiedDiff(t.Rel, string(content), string(applied.ModifiedContent))
	}

	if !rw.opts.DryRun {
		write := writeFile
		if rw.opts.AtomicWrite {
			write = writeFileAtomic
		}
		if err := write(rw.fs, t.Path, applied.ModifiedContent, info.Mode().Perm()); err != nil {
			return nil, err
		}
		result.Written = true
	}

	logger.Debug().Int("replacements", result.Replacements).Bool("written", result.Written).Msg("file rewritten")
	rw.reporter.FileProcessed(ctx, *result, rw.opts.DryRun)
	return result, nil
}
