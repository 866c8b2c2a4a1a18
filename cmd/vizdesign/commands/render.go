package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func renderCmd(a *app) *cobra.Command {
	var (
		outDir string
		dump   bool
	)
	cmd := &cobra.Command{
		Use:   "render [chart...]",
		Short: "Render charts to PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := a.runner.RenderAll(cmd.Context(), args, outDir, dump)
			for _, r := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", r.Chart, r.Path)
				if r.DumpPath != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", r.Chart, r.DumpPath)
				}
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default: runtime.output_dir)")
	cmd.Flags().BoolVar(&dump, "dump", false, "also write the instruction list as YAML next to each PNG")
	return cmd
}
