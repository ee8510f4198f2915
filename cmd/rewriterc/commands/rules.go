package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
	"gitlab.com/tozd/go/errors"
)

// NewRulesCmd creates the rules command
func NewRulesCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the compiled rules in the order they run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data := pterm.TableData{{"#", "name", "kind", "pattern", "replace", "files"}}
			for i, r := range o.Chain.Rules() {
				kind := "regex"
				if r.Literal {
					kind = "literal"
				}
				files := "*"
				if len(r.Files) > 0 {
					files = strings.Join(r.Files, ", ")
				}
				data = append(data, []string{strconv.Itoa(i), r.Name, kind, r.Pattern, r.Replace, files})
			}

			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return errors.Errorf("rendering rules: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), table)
			return err
		},
	}

	return cmd
}
