package session

import "github.com/abhisek/flashquiz/internal/question"

// State is the selector's coarse state.
type State int

const (
	StateActive    State = iota // A question is being presented
	StateExhausted              // Nothing left to present
)

func (s State) String() string {
	if s == StateExhausted {
		return "exhausted"
	}
	return "active"
}

// ResultKind classifies the outcome of a submit.
type ResultKind int

const (
	NoActiveQuestion ResultKind = iota
	Correct
	Incorrect
)

func (k ResultKind) String() string {
	switch k {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	default:
		return "no active question"
	}
}

// Result is the outcome of Submit.
type Result struct {
	Kind ResultKind

	// Question is the record that was graded (nil for NoActiveQuestion).
	Question *question.Record

	// CorrectLabel is the expected answer, captured before advancing.
	CorrectLabel string
}
