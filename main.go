// Package main provides the entry point for the multilat command.
package main

import (
	"fmt"
	"os"

	"multilat/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose bool
	logger  = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "multilat",
	Short: "Locate signal sources from range circles",
	Long: `multilat finds the positions of one or more unknown sources from
circle measurements: each circle is a detector position plus an estimated
distance to some source. Circles are clustered by source and each cluster is
solved for the point that best fits its circles.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(verbose)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log solver diagnostics at debug level")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
