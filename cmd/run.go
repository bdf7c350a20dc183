package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/flashquiz/internal/app"
	"github.com/abhisek/flashquiz/internal/config"
	"github.com/abhisek/flashquiz/internal/logger"
	"github.com/abhisek/flashquiz/internal/progress"
	"github.com/abhisek/flashquiz/internal/question"
	"github.com/abhisek/flashquiz/internal/session"
	"github.com/abhisek/flashquiz/internal/store"
)

// progressBackend bundles the configured progress store with the optional
// attempt log (sqlite only).
type progressBackend struct {
	store    progress.Store
	attempts *store.AttemptRepo
	close    func() error
}

// openProgress opens the backend selected by the configuration.
func openProgress(c *config.Config) (*progressBackend, error) {
	path, err := c.ProgressPath()
	if err != nil {
		return nil, fmt.Errorf("resolve progress path: %w", err)
	}

	switch c.Progress.Backend {
	case config.BackendSQLite:
		st, err := store.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		log.Debug("using sqlite progress", zap.String("path", path))
		return &progressBackend{
			store:    st.ProgressRepo(),
			attempts: st.AttemptRepo(),
			close:    st.Close,
		}, nil
	default:
		log.Debug("using file progress", zap.String("path", path))
		return &progressBackend{
			store: progress.NewFileStore(path),
			close: func() error { return nil },
		}, nil
	}
}

// startSession loads the question set and starts a session over it. A
// non-empty notice means stored progress was unreadable and has been ignored.
func startSession(ctx context.Context, c *config.Config, backend *progressBackend) (s *session.Session, notice string, err error) {
	questions, err := question.LoadFile(c.QuestionsPath)
	if err != nil {
		if errors.Is(err, question.ErrNoQuestionSet) {
			return nil, "", fmt.Errorf("%w (run 'flashquiz parse' first)", err)
		}
		return nil, "", err
	}

	opts := []session.Option{session.WithLogger(log)}
	if c.ShuffleSeed != 0 {
		opts = append(opts, session.WithSeed(c.ShuffleSeed))
	}
	if backend.attempts != nil {
		opts = append(opts, session.WithRecorder(backend.attempts))
	}

	s = session.New(questions, backend.store, opts...)
	if err := s.Start(ctx); err != nil {
		if !errors.Is(err, progress.ErrStorageCorruption) {
			return nil, "", err
		}
		notice = "Saved progress could not be read and was ignored; it will be rewritten on the next correct answer."
	}
	return s, notice, nil
}

// screenLogger builds a logger that writes to a file, never the terminal,
// so warnings raised mid-quiz cannot draw over the alt screen.
func screenLogger(c *config.Config) (*zap.Logger, string, error) {
	path, err := c.ScreenLogFile()
	if err != nil {
		return nil, "", fmt.Errorf("resolve log file: %w", err)
	}
	l, err := logger.New(c.Log.Level, c.Log.Format, path)
	if err != nil {
		return nil, "", err
	}
	return l, path, nil
}

// runApp opens progress, builds the session, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	l, logPath, err := screenLogger(cfg)
	if err != nil {
		return err
	}
	_ = log.Sync()
	log = l

	backend, err := openProgress(cfg)
	if err != nil {
		return err
	}
	defer backend.close()

	s, notice, err := startSession(cmd.Context(), cfg, backend)
	if err != nil {
		return err
	}
	log.Debug("launching quiz",
		zap.String("session_id", s.ID()),
		zap.Int("remaining", s.Summary().Remaining),
		zap.String("log_file", logPath),
	)

	return app.Run(app.Options{
		Session: s,
		Logger:  log,
		Notice:  notice,
	})
}
