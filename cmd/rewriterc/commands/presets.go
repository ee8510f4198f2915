package commands

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
	"github.com/walteh/rewriterc/pkg/preset"
	"gitlab.com/tozd/go/errors"
)

// NewPresetsCmd creates the presets command
func NewPresetsCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "presets",
		Short:       "List the embedded presets",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{opts.SkipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			data := pterm.TableData{{"name", "rules", "files", "description"}}
			for _, info := range preset.List(cmd.Context()) {
				data = append(data, []string{info.Name, strconv.Itoa(info.Rules), strconv.Itoa(info.Files), info.Description})
			}

			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return errors.Errorf("rendering presets: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), table)
			return err
		},
	}

	return cmd
}
