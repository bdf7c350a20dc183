package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/flashquiz/internal/progress"
	"github.com/abhisek/flashquiz/internal/question"
)

// ErrInvalidSelection is returned by Submit when no option was chosen.
var ErrInvalidSelection = errors.New("no answer selected")

// Session is one quiz run over a fixed question set. It owns the pending
// queue and the correct-set and persists the latter through a progress.Store.
//
// A Session is not safe for concurrent use; the UI layer drives it one
// interaction at a time.
type Session struct {
	id        string
	questions []question.Record
	known     map[string]struct{}
	store     progress.Store
	recorder  progress.AttemptRecorder
	logger    *zap.Logger
	rng       *rand.Rand
	now       func() time.Time

	correct progress.IDSet
	pending []*question.Record
	current *question.Record
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRecorder registers a recorder that receives every graded answer.
func WithRecorder(r progress.AttemptRecorder) Option {
	return func(s *Session) { s.recorder = r }
}

// WithSeed makes shuffling deterministic.
func WithSeed(seed uint64) Option {
	return func(s *Session) { s.rng = rand.New(rand.NewPCG(seed, seed)) }
}

// WithID overrides the generated session id.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// New creates a session over questions. Call Start before presenting
// anything.
func New(questions []question.Record, store progress.Store, opts ...Option) *Session {
	known := make(map[string]struct{}, len(questions))
	for _, q := range questions {
		known[q.ID] = struct{}{}
	}

	s := &Session{
		id:        uuid.New().String(),
		questions: questions,
		known:     known,
		store:     store,
		logger:    zap.NewNop(),
		rng:       rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
		now:       time.Now,
		correct:   progress.IDSet{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session id used when recording attempts.
func (s *Session) ID() string {
	return s.id
}

// Start loads stored progress and builds the pending queue from every
// question not yet answered correctly.
//
// If the stored progress is corrupt the session still starts, with empty
// progress, and the returned error wraps progress.ErrStorageCorruption so the
// caller can warn the user. Any other load error leaves the session
// unstarted.
func (s *Session) Start(ctx context.Context) error {
	ids, err := s.store.Load(ctx)
	if err != nil && !errors.Is(err, progress.ErrStorageCorruption) {
		return fmt.Errorf("load progress: %w", err)
	}
	if err != nil {
		s.logger.Warn("stored progress is corrupt, starting from scratch", zap.Error(err))
	}
	if ids == nil {
		ids = progress.IDSet{}
	}

	s.correct = ids
	s.initialize()

	s.logger.Info("session started",
		zap.String("session_id", s.id),
		zap.Int("total", len(s.questions)),
		zap.Int("pending", s.Summary().Remaining),
	)
	return err
}

// initialize shuffles every unanswered question into pending and presents
// the first one.
func (s *Session) initialize() {
	pending := make([]*question.Record, 0, len(s.questions))
	for i := range s.questions {
		q := &s.questions[i]
		if !s.correct.Has(q.ID) {
			pending = append(pending, q)
		}
	}
	s.rng.Shuffle(len(pending), func(i, j int) {
		pending[i], pending[j] = pending[j], pending[i]
	})

	s.pending = pending
	s.current = nil
	s.advance()
}

// advance pops the front of pending into current.
func (s *Session) advance() {
	if len(s.pending) == 0 {
		s.current = nil
		return
	}
	s.current = s.pending[0]
	s.pending[0] = nil
	s.pending = s.pending[1:]
}

// Current returns the question being presented, or nil when exhausted.
func (s *Session) Current() *question.Record {
	return s.current
}

// State reports whether a question is being presented.
func (s *Session) State() State {
	if s.current == nil {
		return StateExhausted
	}
	return StateActive
}

// Submit grades label against the current question.
//
// A correct answer adds the question to the correct-set and saves it before
// advancing. If saving fails the error is returned and the session is left
// exactly as it was. A wrong answer moves the question to the back of the
// queue. Submitting while exhausted returns a NoActiveQuestion result.
func (s *Session) Submit(ctx context.Context, label string) (Result, error) {
	q := s.current
	if q == nil {
		return Result{Kind: NoActiveQuestion}, nil
	}

	label = strings.ToUpper(strings.TrimSpace(label))
	if label == "" {
		return Result{}, ErrInvalidSelection
	}

	res := Result{Question: q, CorrectLabel: q.CorrectLabel}
	correct := q.IsCorrect(label)

	if correct {
		alreadyCorrect := s.correct.Has(q.ID)
		s.correct.Add(q.ID)
		if err := s.store.Save(ctx, s.correct); err != nil {
			if !alreadyCorrect {
				s.correct.Remove(q.ID)
			}
			return Result{}, fmt.Errorf("save progress: %w", err)
		}
		res.Kind = Correct
	} else {
		s.pending = append(s.pending, q)
		res.Kind = Incorrect
	}

	s.record(ctx, q.ID, label, correct)
	s.advance()

	s.logger.Debug("answer graded",
		zap.String("question_id", q.ID),
		zap.String("chosen", label),
		zap.Stringer("result", res.Kind),
		zap.Int("remaining", s.Summary().Remaining),
	)
	return res, nil
}

// Skip moves the current question to the back of the queue without grading
// it. It returns false when there is nothing to skip.
func (s *Session) Skip() bool {
	if s.current == nil {
		return false
	}
	s.pending = append(s.pending, s.current)
	s.advance()
	return true
}

// ResetAll wipes stored progress and restarts the queue with every question.
func (s *Session) ResetAll(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	s.correct = progress.IDSet{}
	s.initialize()

	s.logger.Info("progress reset", zap.String("session_id", s.id), zap.Int("total", len(s.questions)))
	return nil
}

// record forwards a graded answer to the recorder. Recorder failures are
// logged; they never affect the quiz.
func (s *Session) record(ctx context.Context, questionID, chosen string, correct bool) {
	if s.recorder == nil {
		return
	}
	err := s.recorder.RecordAttempt(ctx, progress.Attempt{
		SessionID:  s.id,
		QuestionID: questionID,
		Chosen:     chosen,
		Correct:    correct,
		AnsweredAt: s.now(),
	})
	if err != nil {
		s.logger.Warn("failed to record attempt", zap.String("question_id", questionID), zap.Error(err))
	}
}
