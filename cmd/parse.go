package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/flashquiz/internal/parser"
	"github.com/abhisek/flashquiz/internal/question"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Extract questions from a PDF into a question set",
	Long: "parse reads a PDF whose text contains blocks like\n\n" +
		"  Question 1: What is 2+2?\n  A) 3\n  B) 4\n  C) 5\n  D) 6\n  Correct answer: B\n\n" +
		"and writes them as a JSON question set.",
	RunE: func(cmd *cobra.Command, args []string) error {
		input, _ := cmd.Flags().GetString("input")
		output, _ := cmd.Flags().GetString("output")
		strict, _ := cmd.Flags().GetBool("strict")
		if output == "" {
			output = cfg.QuestionsPath
		}

		ex, err := parser.NewExtractor(cfg.Extractor)
		if err != nil {
			return err
		}

		records, err := parser.ParseFile(cmd.Context(), ex, input)
		if err != nil {
			var perr *parser.ParseError
			if !errors.As(err, &perr) {
				return err
			}
			if strict {
				return fmt.Errorf("rejected blocks in %s: %w", input, err)
			}
			log.Warn("some question blocks were skipped", zap.String("input", input), zap.Error(err))
			fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
		}

		if len(records) == 0 {
			log.Warn("no questions found", zap.String("input", input))
			fmt.Fprintln(cmd.ErrOrStderr(), "warning: no questions found in", input)
		}

		if err := question.WriteFile(output, records); err != nil {
			return err
		}
		log.Info("question set written", zap.String("output", output), zap.Int("count", len(records)))
		fmt.Fprintf(cmd.OutOrStdout(), "Parsed %d questions into %s\n", len(records), output)
		return nil
	},
}

func init() {
	parseCmd.Flags().StringP("input", "i", "questions.pdf", "PDF to read")
	parseCmd.Flags().StringP("output", "o", "", "Question set to write (default: configured questions path)")
	parseCmd.Flags().String("extractor", "", "PDF text extractor: native or pdftotext")
	parseCmd.Flags().Bool("strict", false, "Fail instead of skipping malformed question blocks")
}
