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

package rewrite

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Target is a file designated for rewriting
type Target struct {
	// Path is the path handed to the filesystem
	Path string
	// Rel is the slash-separated path relative to the base dir, used for rule
	// file filters and display
	Rel string
}

// NewTarget builds a target for file, resolving relative paths against baseDir
func NewTarget(baseDir, file string) Target {
	if filepath.IsAbs(file) {
		rel := file
		if baseDir != "" {
			if r, err := filepath.Rel(baseDir, file); err == nil && !strings.HasPrefix(r, "..") {
				rel = r
			}
		}
		return Target{Path: filepath.Clean(file), Rel: filepath.ToSlash(rel)}
	}
	return Target{Path: filepath.Join(baseDir, file), Rel: filepath.ToSlash(filepath.Clean(file))}
}

// ResolveTargets builds the ordered target list: explicit files first, in the
// given order with duplicates kept, then each glob's matches in lexical order.
// Explicit files are not checked for existence here; the rewriter reports
// missing ones as skipped.
func ResolveTargets(ctx context.Context, fs afero.Fs, baseDir string, files, globs []string) ([]Target, error) {
	logger := zerolog.Ctx(ctx)

	if baseDir == "" {
		baseDir = "."
	}

	targets := make([]Target, 0, len(files))
	for _, f := range files {
		targets = append(targets, NewTarget(baseDir, f))
	}

	if len(globs) == 0 {
		return targets, nil
	}

	// BasePathFs needs an absolute root to keep io/fs paths relative
	root := baseDir
	if !filepath.IsAbs(root) {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, errors.Errorf("resolving base dir: %w", err)
		}
		root = abs
	}
	fsys := afero.NewIOFS(afero.NewBasePathFs(fs, root))

	for _, glob := range globs {
		glob = filepath.ToSlash(glob)
		if !doublestar.ValidatePattern(glob) {
			return nil, errors.Errorf("invalid glob %q", glob)
		}

		matches, err := doublestar.Glob(fsys, glob, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("expanding glob %q: %w", glob, err)
		}
		if len(matches) == 0 {
			logger.Warn().Str("glob", glob).Str("base_dir", baseDir).Msg("glob matched no files")
			continue
		}

		sort.Strings(matches)
		for _, m := range matches {
			targets = append(targets, Target{Path: filepath.Join(baseDir, filepath.FromSlash(m)), Rel: m})
		}
	}

	logger.Debug().Int("targets", len(targets)).Msg("resolved targets")
	return targets, nil
}
