package progress

import (
	"context"
	"errors"
	"sort"
	"time"
)

// ErrStorageCorruption is returned by Load when stored progress exists but
// cannot be read back. The accompanying set is empty.
var ErrStorageCorruption = errors.New("progress storage corrupt")

// IDSet is a set of question ids answered correctly.
type IDSet map[string]struct{}

// NewIDSet builds a set from ids.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id. Adding an id already present is a no-op.
func (s IDSet) Add(id string) { s[id] = struct{}{} }

// Remove deletes id.
func (s IDSet) Remove(id string) { delete(s, id) }

// Has reports whether id is in the set.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of ids.
func (s IDSet) Len() int { return len(s) }

// Sorted returns the ids in ascending order.
func (s IDSet) Sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone returns an independent copy.
func (s IDSet) Clone() IDSet {
	c := make(IDSet, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}

// Store persists the correct-set across process restarts.
type Store interface {
	// Load returns the stored set. A missing store yields an empty set and
	// no error. Unreadable data yields an empty set and an error wrapping
	// ErrStorageCorruption.
	Load(ctx context.Context) (IDSet, error)

	// Save replaces the stored set with ids.
	Save(ctx context.Context, ids IDSet) error

	// Reset deletes all stored progress.
	Reset(ctx context.Context) error
}

// Attempt is one graded answer.
type Attempt struct {
	SessionID  string
	QuestionID string
	Chosen     string
	Correct    bool
	AnsweredAt time.Time
}

// AttemptRecorder receives every graded answer.
type AttemptRecorder interface {
	RecordAttempt(ctx context.Context, a Attempt) error
}
