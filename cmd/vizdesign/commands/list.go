package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/iafilius/DataVizDesign/src/config"
)

func listCmd(a *app) *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List configured charts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if asYAML {
				b, err := config.Marshal(a.cfg)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(b)
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tKIND\tSIZE\tSOURCE\tOUTPUT")
			for _, ch := range a.cfg.Charts {
				fmt.Fprintf(tw, "%s\t%s\t%dx%d\t%s\t%s\n", ch.Name, ch.Kind, ch.Width, ch.Height, ch.Data.Source, ch.Output)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print the effective config as YAML")
	return cmd
}
