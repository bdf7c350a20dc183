package session

// Summary is the progress overview shown by the UI.
type Summary struct {
	Correct   int // questions in the set answered correctly, across sessions
	Total     int // questions in the set
	Remaining int // questions still to answer in this session, current included
}

// Percent returns Correct/Total in [0, 1].
func (s Summary) Percent() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total)
}

// Summary builds the current progress overview.
func (s *Session) Summary() Summary {
	correct := 0
	for id := range s.correct {
		if _, ok := s.known[id]; ok {
			correct++
		}
	}

	remaining := len(s.pending)
	if s.current != nil {
		remaining++
	}

	return Summary{
		Correct:   correct,
		Total:     len(s.questions),
		Remaining: remaining,
	}
}
