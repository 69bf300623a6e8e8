package main

import (
	"multilat/internal/problem"

	"github.com/spf13/cobra"
)

var locateFlags solveFlags

var locateCmd = &cobra.Command{
	Use:   "locate <problem-file>",
	Short: "Locate the sources of a problem file",
	Long: `Solve a YAML or JSON problem file holding the measured circles and an
optional solver configuration. Flags override the file's configuration.
Plots go to the problem's plot_dir unless --out is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		p, err := problem.Load(path)
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("out") {
			locateFlags.outDir = p.GetPlotDir(path)
		}
		locateFlags.apply(cmd, &p.Config)

		name := p.Name
		if name == "" {
			name = path
		}
		_, err = solve(cmd.OutOrStdout(), name, p.Circles, p.Config, &locateFlags)
		return err
	},
}

func init() {
	locateFlags.bind(locateCmd)
	rootCmd.AddCommand(locateCmd)
}
