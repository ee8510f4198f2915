package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/cmd/rewriterc/commands"
	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
	"github.com/walteh/rewriterc/pkg/config"
	"github.com/walteh/rewriterc/pkg/log"
	"github.com/walteh/rewriterc/pkg/preset"
	"github.com/walteh/rewriterc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// rootFlags holds the persistent flags shared by every command
type rootFlags struct {
	configFile string
	debug      bool
	dir        string
	presets    []string
}

// newRootCmd wires the command tree; opts are filled in before any command runs
func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	rootOpts := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "rewriterc",
		Short: "Apply ordered regex rewrite rules to a batch of files",
		Long: `rewriterc runs an ordered list of pattern replacements over an ordered
list of files. Files are only written when their content changes, missing
files are skipped, and every rule is compiled before any file is touched.

Rules come from a config file (.rewriterc.yaml, .json, .toml or .hcl),
from embedded presets, or both.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			zlog := setupLogging(cmd.ErrOrStderr(), flags.debug)
			ctx := zlog.WithContext(cmd.Context())
			ctx = log.NewContext(ctx, log.New(cmd.OutOrStdout(), zlog))
			cmd.SetContext(ctx)

			rootOpts.Fs = afero.NewOsFs()

			if cmd.Annotations[opts.SkipConfigAnnotation] == "true" {
				return nil
			}

			return loadRootOpts(ctx, cmd, flags, rootOpts)
		},
	}

	rootCmd.Version = GetVersionInfo().Version
	rootCmd.SetVersionTemplate(FormatVersion())

	addRootFlags(rootCmd, flags)

	rootCmd.AddCommand(
		commands.NewApplyCmd(rootOpts),
		commands.NewCheckCmd(rootOpts),
		commands.NewRulesCmd(rootOpts),
		commands.NewPresetsCmd(rootOpts),
		newVersionCmd(),
	)

	return rootCmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, flags *rootFlags) {
	cmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", ".rewriterc.yaml", "config file path")
	cmd.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&flags.dir, "dir", "", "override the base directory targets are resolved against")
	cmd.PersistentFlags().StringArrayVarP(&flags.presets, "preset", "p", nil, "apply an embedded preset (repeatable, runs in the order given)")
}

// setupLogging builds the structured logger: human readable on a terminal, JSON otherwise
func setupLogging(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}

	out := w
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		out = zerolog.ConsoleWriter{Out: w}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// loadRootOpts loads the config, expands presets and compiles the rule chain.
// A missing default config file is fine as long as presets were selected.
func loadRootOpts(ctx context.Context, cmd *cobra.Command, flags *rootFlags, rootOpts *opts.RootOpts) error {
	logger := zerolog.Ctx(ctx)

	var cfg *config.Config
	if _, err := os.Stat(flags.configFile); err == nil {
		cfg, err = config.Load(ctx, flags.configFile)
		if err != nil {
			return errors.Errorf("loading config: %w", err)
		}
	} else if cmd.Flags().Changed("config") || len(flags.presets) == 0 {
		return errors.Errorf("loading config: %w", err)
	} else {
		logger.Debug().Str("config", flags.configFile).Msg("no config file, using presets only")
	}

	cfg, err := preset.Resolve(ctx, cfg, flags.presets...)
	if err != nil {
		return errors.Errorf("resolving presets: %w", err)
	}

	switch {
	case flags.dir != "":
		cfg.BaseDir = flags.dir
	case cfg.BaseDir == "":
		cfg.BaseDir = "."
	}
	abs, err := filepath.Abs(cfg.BaseDir)
	if err != nil {
		return errors.Errorf("resolving base dir: %w", err)
	}
	cfg.BaseDir = abs

	var chainOpts []text.Option
	if d := cfg.MatchTimeout(); d > 0 {
		chainOpts = append(chainOpts, text.WithMatchTimeout(d))
	}

	// every pattern compiles here, before any file is read
	chain, err := text.Compile(cfg.TextRules(), chainOpts...)
	if err != nil {
		return errors.Errorf("compiling rules: %w", err)
	}

	logger.Debug().Str("config", cfg.String()).Msg("configuration ready")

	rootOpts.Config = cfg
	rootOpts.Chain = chain
	return nil
}
