package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errResetAborted = errors.New("reset aborted")

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget every saved correct answer",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			fmt.Fprint(cmd.OutOrStdout(), "Reset all saved progress? [y/N] ")
			answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			answer = strings.ToLower(strings.TrimSpace(answer))
			if answer != "y" && answer != "yes" {
				return errResetAborted
			}
		}

		backend, err := openProgress(cfg)
		if err != nil {
			return err
		}
		defer backend.close()

		if err := backend.store.Reset(cmd.Context()); err != nil {
			return fmt.Errorf("reset progress: %w", err)
		}
		log.Info("progress reset", zap.String("backend", cfg.Progress.Backend))
		fmt.Fprintln(cmd.OutOrStdout(), "Progress reset.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
