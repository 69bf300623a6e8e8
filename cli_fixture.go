package main

import (
	"fmt"

	"multilat/internal/multilat"
	"multilat/internal/problem"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	fixtureFlags  solveFlags
	fixtureExport string
)

var fixtureCmd = &cobra.Command{
	Use:   "fixture [name]",
	Short: "List or solve the built-in example inputs",
	Long: `Without arguments, list the built-in fixtures. With a name, solve that
fixture, or write it as a problem file with --export.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		if len(args) == 0 {
			yellow := color.New(color.FgYellow).SprintFunc()
			for _, name := range multilat.FixtureNames() {
				f, _ := multilat.LookupFixture(name)
				fmt.Fprintf(w, "%-16s %s\n", yellow(name), f.Description)
			}
			return nil
		}

		f, ok := multilat.LookupFixture(args[0])
		if !ok {
			return fmt.Errorf("unknown fixture %q", args[0])
		}

		if fixtureExport != "" {
			p := problem.New(f.Name, f.Circles)
			p.Description = f.Description
			fixtureFlags.apply(cmd, &p.Config)
			if err := p.Save(fixtureExport); err != nil {
				return fmt.Errorf("failed to export fixture: %w", err)
			}
			fmt.Fprintf(w, "Wrote %s\n", fixtureExport)
			return nil
		}

		var cfg multilat.Config
		fixtureFlags.apply(cmd, &cfg)
		_, err := solve(w, f.Name, f.Circles, cfg, &fixtureFlags)
		return err
	},
}

func init() {
	fixtureFlags.bind(fixtureCmd)
	fixtureCmd.Flags().StringVar(&fixtureExport, "export", "", "Write the fixture as a problem file instead of solving it")
	rootCmd.AddCommand(fixtureCmd)
}
