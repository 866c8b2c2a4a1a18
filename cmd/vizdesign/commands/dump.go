package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iafilius/DataVizDesign/src/figure"
)

func dumpCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dump [chart...]",
		Short: "Print drawing instructions as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			charts, err := a.runner.Select(args)
			if err != nil {
				return err
			}
			for _, ch := range charts {
				fig, _, err := a.runner.Build(cmd.Context(), ch)
				if err != nil {
					return err
				}
				if len(charts) > 1 {
					fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", ch.Name)
				}
				if err := figure.Dump(cmd.OutOrStdout(), fig); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
