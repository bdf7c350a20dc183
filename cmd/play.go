package cmd

import (
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start the quiz",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func init() {
	playCmd.Flags().Uint64("seed", 0, "Shuffle seed for a reproducible question order (0 = random)")
}
