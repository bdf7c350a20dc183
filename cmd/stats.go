package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashquiz/internal/progress"
	"github.com/abhisek/flashquiz/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show saved progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := openProgress(cfg)
		if err != nil {
			return err
		}
		defer backend.close()

		s, notice, err := startSession(cmd.Context(), cfg, backend)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if notice != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning:", notice)
		}

		sum := s.Summary()
		fmt.Fprintf(out, "Questions:      %d\n", sum.Total)
		fmt.Fprintf(out, "Correct saved:  %d (%.0f%%)\n", sum.Correct, sum.Percent()*100)
		fmt.Fprintf(out, "Remaining:      %d\n", sum.Remaining)

		if backend.attempts == nil {
			return nil
		}
		st, err := backend.attempts.Stats(cmd.Context())
		if err != nil {
			return err
		}
		printAttemptStats(out, st)

		recent, err := backend.attempts.Recent(cmd.Context(), 5)
		if err != nil {
			return err
		}
		if len(recent) > 0 {
			fmt.Fprintln(out, "\nRecent answers:")
			for _, a := range recent {
				fmt.Fprintf(out, "  %s  Q%-5s %s  %s\n",
					a.AnsweredAt.Local().Format("2006-01-02 15:04"), a.QuestionID, a.Chosen, verdict(a.Attempt))
			}
		}
		return nil
	},
}

func printAttemptStats(w io.Writer, st store.Stats) {
	fmt.Fprintf(w, "Attempts:       %d over %d sessions\n", st.Attempts, st.Sessions)
	fmt.Fprintf(w, "Accuracy:       %.0f%%\n", st.Accuracy()*100)
}

func verdict(a progress.Attempt) string {
	if a.Correct {
		return "correct"
	}
	return "wrong"
}
