package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
	"github.com/walteh/rewriterc/pkg/log"
	"github.com/walteh/rewriterc/pkg/rewrite"
	"gitlab.com/tozd/go/errors"
)

// NewApplyCmd creates the apply command
func NewApplyCmd(o *opts.RootOpts) *cobra.Command {
	var (
		flags  runFlags
		dryRun bool
		atomic bool
	)

	cmd := &cobra.Command{
		Use:   "apply [files...]",
		Short: "Rewrite the target files",
		Long: `Apply runs every rule, in order, over every target file, in order.
It will:
1. Skip files that do not exist
2. Write a file only when its content changed
3. Stop at the first read or write fault unless --keep-going is set`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := log.FromContext(ctx)

			targets, err := resolveTargets(ctx, o, args)
			if err != nil {
				return err
			}

			rwOpts := flags.options(cmd, o)
			rwOpts.DryRun = dryRun
			rwOpts.AtomicWrite = rwOpts.AtomicWrite || atomic

			logger.Header(fmt.Sprintf("applying %d rules to %d files", o.Chain.Len(), len(targets)))

			summary, err := rewrite.New(o.Fs, o.Chain, rwOpts, logger).Run(ctx, targets)
			if err != nil {
				return errors.Errorf("rewriting files: %w", err)
			}

			logger.LogNewline()
			switch {
			case summary.DryRun:
				logger.Infof("dry run: %d of %d files would change", summary.Changed, summary.Processed)
			case summary.Changed == 0:
				logger.Info("all files already up to date")
			default:
				logger.Successf("%d of %d files updated", summary.Changed, summary.Processed)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "report what would change without writing")
	cmd.Flags().BoolVar(&atomic, "atomic", false, "write through a temp file and rename")

	return cmd
}
