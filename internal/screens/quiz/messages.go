package quiz

// ResetRequestedMsg is delivered by the confirm dialog when the user agrees
// to wipe saved progress.
type ResetRequestedMsg struct{}

// feedbackKind classifies the line shown above the next question.
type feedbackKind int

const (
	feedbackNone feedbackKind = iota
	feedbackCorrect
	feedbackIncorrect
	feedbackSkipped
	feedbackReset
	feedbackError
)

// feedback is the outcome of the last interaction.
type feedback struct {
	kind         feedbackKind
	correctLabel string
	correctText  string
	err          error
}
