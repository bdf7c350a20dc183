package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/flashquiz/internal/progress"
	"github.com/abhisek/flashquiz/internal/question"
	"github.com/abhisek/flashquiz/internal/store"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	resetFlags(rootCmd)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	})
	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores every flag on c and its subcommands to its default,
// since cobra keeps parsed values between Execute calls.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// workspace creates an isolated directory holding a three-question set.
func workspace(t *testing.T) (dir, questions string) {
	t.Helper()
	dir = t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))

	var records []question.Record
	for _, id := range []string{"1", "2", "3"} {
		records = append(records, question.Record{
			ID:     id,
			Prompt: "Question " + id,
			Options: question.Options{
				{Label: "A", Text: "a"},
				{Label: "B", Text: "b"},
				{Label: "C", Text: "c"},
				{Label: "D", Text: "d"},
			},
			CorrectLabel: "A",
		})
	}
	questions = filepath.Join(dir, "questions.json")
	require.NoError(t, question.WriteFile(questions, records))
	return dir, questions
}

func TestVersion(t *testing.T) {
	workspace(t)
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "flashquiz (devel)\n", out)
}

func TestStatsFileBackend(t *testing.T) {
	dir, questions := workspace(t)
	progressPath := filepath.Join(dir, "correct_answers.json")
	require.NoError(t, progress.NewFileStore(progressPath).Save(context.Background(), progress.NewIDSet("2", "99")))

	out, err := execute(t, "", "stats", "--backend", "file", "--questions", questions, "--progress", progressPath)
	require.NoError(t, err)

	assert.Contains(t, out, "Questions:      3")
	assert.Contains(t, out, "Correct saved:  1 (33%)")
	assert.Contains(t, out, "Remaining:      2")
	assert.NotContains(t, out, "Attempts:")
}

func TestStatsSQLiteBackend(t *testing.T) {
	dir, questions := workspace(t)
	dbPath := filepath.Join(dir, "flashquiz.db")

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, st.ProgressRepo().Save(ctx, progress.NewIDSet("1", "3")))
	require.NoError(t, st.AttemptRepo().RecordAttempt(ctx, progress.Attempt{SessionID: "s", QuestionID: "1", Chosen: "A", Correct: true}))
	require.NoError(t, st.AttemptRepo().RecordAttempt(ctx, progress.Attempt{SessionID: "s", QuestionID: "2", Chosen: "B", Correct: false}))
	require.NoError(t, st.Close())

	out, err := execute(t, "", "stats", "--backend", "sqlite", "--questions", questions, "--progress", dbPath)
	require.NoError(t, err)

	assert.Contains(t, out, "Correct saved:  2 (67%)")
	assert.Contains(t, out, "Attempts:       2 over 1 sessions")
	assert.Contains(t, out, "Accuracy:       50%")
	assert.Contains(t, out, "Recent answers:")
}

func TestStatsMissingQuestionSet(t *testing.T) {
	dir, _ := workspace(t)

	_, err := execute(t, "", "stats", "--backend", "file",
		"--questions", filepath.Join(dir, "missing.json"),
		"--progress", filepath.Join(dir, "p.json"))
	require.ErrorIs(t, err, question.ErrNoQuestionSet)
	assert.Contains(t, err.Error(), "flashquiz parse")
}

func TestResetWithYes(t *testing.T) {
	dir, questions := workspace(t)
	progressPath := filepath.Join(dir, "correct_answers.json")
	require.NoError(t, progress.NewFileStore(progressPath).Save(context.Background(), progress.NewIDSet("1")))

	out, err := execute(t, "", "reset", "--yes", "--backend", "file", "--questions", questions, "--progress", progressPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Progress reset.")
	assert.NoFileExists(t, progressPath)
}

func TestResetDeclined(t *testing.T) {
	dir, questions := workspace(t)
	progressPath := filepath.Join(dir, "correct_answers.json")
	require.NoError(t, progress.NewFileStore(progressPath).Save(context.Background(), progress.NewIDSet("1")))

	_, err := execute(t, "n\n", "reset", "--yes=false", "--backend", "file", "--questions", questions, "--progress", progressPath)
	require.ErrorIs(t, err, errResetAborted)

	_, statErr := os.Stat(progressPath)
	assert.NoError(t, statErr, "progress must survive a declined reset")
}

func TestParseMissingPDF(t *testing.T) {
	dir, _ := workspace(t)

	_, err := execute(t, "", "parse",
		"--input", filepath.Join(dir, "nope.pdf"),
		"--output", filepath.Join(dir, "out.json"),
		"--extractor", "native")
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "out.json"))
}

func TestScreenLoggerWritesToStateFile(t *testing.T) {
	dir, _ := workspace(t)
	_, err := execute(t, "", "version")
	require.NoError(t, err)

	l, path, err := screenLogger(cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "state", "flashquiz", "flashquiz.log"), path)

	l.Warn("failed to record attempt")
	require.NoError(t, l.Sync())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "failed to record attempt")
}

func TestScreenLoggerHonoursLogFile(t *testing.T) {
	dir, _ := workspace(t)
	want := filepath.Join(dir, "custom", "quiz.log")
	_, err := execute(t, "", "version", "--log-file", want)
	require.NoError(t, err)

	_, path, err := screenLogger(cfg)
	require.NoError(t, err)
	assert.Equal(t, want, path)
}

func TestStartSessionAssignsID(t *testing.T) {
	_, questions := workspace(t)
	_, err := execute(t, "", "version", "--questions", questions)
	require.NoError(t, err)

	backend, err := openProgress(cfg)
	require.NoError(t, err)
	defer backend.close()

	first, notice, err := startSession(context.Background(), cfg, backend)
	require.NoError(t, err)
	assert.Empty(t, notice)
	second, _, err := startSession(context.Background(), cfg, backend)
	require.NoError(t, err)

	assert.NotEmpty(t, first.ID())
	assert.NotEqual(t, first.ID(), second.ID())
}
