package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
	"github.com/walteh/rewriterc/pkg/log"
	"github.com/walteh/rewriterc/pkg/rewrite"
	"gitlab.com/tozd/go/errors"
)

// ErrUnstableRules is returned by check when a rule still matches its own output
var ErrUnstableRules = errors.Base("rules are not idempotent")

// NewCheckCmd creates the check command
func NewCheckCmd(o *opts.RootOpts) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Fail if any target would change or any rule is not idempotent",
		Long: `Check runs the rules without writing anything. It fails when a file
would change, and it names every rule that still matches content it has
already rewritten.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := log.FromContext(ctx)

			targets, err := resolveTargets(ctx, o, args)
			if err != nil {
				return err
			}

			rwOpts := flags.options(cmd, o)
			rwOpts.DryRun = true
			rwOpts.CheckStable = true

			logger.Header(fmt.Sprintf("checking %d files against %d rules", len(targets), o.Chain.Len()))

			summary, err := rewrite.New(o.Fs, o.Chain, rwOpts, logger).Run(ctx, targets)
			if err != nil {
				return errors.Errorf("checking files: %w", err)
			}

			logger.LogNewline()
			var errs []error
			if unstable := summary.Unstable(); len(unstable) > 0 {
				for _, r := range unstable {
					logger.Warningf("%s: rules still match their own output", r.Target.Rel)
				}
				errs = append(errs, errors.Errorf("%d files: %w", len(unstable), ErrUnstableRules))
			}
			if summary.Changed > 0 {
				logger.Errorf("%d of %d files are out of date", summary.Changed, summary.Processed)
				errs = append(errs, errors.Errorf("%d files: %w", summary.Changed, rewrite.ErrPendingChanges))
			}
			if len(errs) > 0 {
				return errors.Join(errs...)
			}

			logger.Success("all files up to date")
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}
