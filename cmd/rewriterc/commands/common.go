package commands

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
	"github.com/walteh/rewriterc/pkg/log"
	"github.com/walteh/rewriterc/pkg/rewrite"
	"gitlab.com/tozd/go/errors"
)

// runFlags are the knobs shared by apply and check
type runFlags struct {
	diff      bool
	keepGoing bool
	maxPasses int
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.diff, "diff", false, "print a unified diff for every changed file")
	cmd.Flags().BoolVar(&f.keepGoing, "keep-going", false, "report read/write faults and continue with the next file")
	cmd.Flags().IntVar(&f.maxPasses, "max-passes", 0, "re-run the rules on each file until it stops changing, up to this many passes")
}

// options merges command flags over the config's options
func (f *runFlags) options(cmd *cobra.Command, o *opts.RootOpts) rewrite.Options {
	cfgOpts := o.Config.Options

	out := rewrite.Options{
		Diff:        f.diff,
		KeepGoing:   f.keepGoing || cfgOpts.KeepGoing,
		AtomicWrite: cfgOpts.AtomicWrite,
		MaxPasses:   cfgOpts.MaxPasses,
	}
	if cmd.Flags().Changed("max-passes") {
		out.MaxPasses = f.maxPasses
	}
	return out
}

// resolveTargets builds the ordered target list. Positional files replace the
// configured files and globs and are taken relative to the working directory.
func resolveTargets(ctx context.Context, o *opts.RootOpts, args []string) ([]rewrite.Target, error) {
	files := o.Config.Files
	globs := o.Config.Globs

	if len(args) > 0 {
		files = make([]string, 0, len(args))
		for _, arg := range args {
			abs, err := filepath.Abs(arg)
			if err != nil {
				return nil, errors.Errorf("resolving %s: %w", arg, err)
			}
			files = append(files, abs)
		}
		globs = nil
	}

	if len(files) == 0 && len(globs) == 0 {
		return nil, errors.Errorf("no target files: list files or globs in the config, pick a preset, or pass files as arguments")
	}

	targets, err := rewrite.ResolveTargets(ctx, o.Fs, o.Config.BaseDir, files, nil)
	if err != nil {
		return nil, errors.Errorf("resolving targets: %w", err)
	}

	// one glob at a time so an empty match can be reported by name
	for _, glob := range globs {
		matched, err := rewrite.ResolveTargets(ctx, o.Fs, o.Config.BaseDir, nil, []string{glob})
		if err != nil {
			return nil, errors.Errorf("resolving targets: %w", err)
		}
		if len(matched) == 0 {
			log.FromContext(ctx).Warningf("glob %q matched no files", glob)
			continue
		}
		targets = append(targets, matched...)
	}

	return targets, nil
}
