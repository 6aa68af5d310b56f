package session

import (
	"reviewdojo/internal/content"
	"reviewdojo/internal/stepper"
)

// ExplanationSession is a walkthrough over one explanation's steps.
type ExplanationSession struct {
	explanation content.Explanation
	seq         *stepper.Sequencer
}

func NewExplanationSession(e content.Explanation) *ExplanationSession {
	return &ExplanationSession{
		explanation: e,
		seq:         stepper.New(e.Steps, e.SourceFiles()),
	}
}

func (s *ExplanationSession) Explanation() content.Explanation { return s.explanation }

func (s *ExplanationSession) Sequencer() *stepper.Sequencer { return s.seq }

func (s *ExplanationSession) StepPrevious() { s.seq.Previous() }

func (s *ExplanationSession) StepNext() { s.seq.Next() }

func (s *ExplanationSession) StepGoTo(i int) { s.seq.GoTo(i) }

func (s *ExplanationSession) SwitchFile(i int) { s.seq.SwitchFile(i) }

// Key maps a keyboard shortcut onto step navigation and reports whether
// it was handled.
func (s *ExplanationSession) Key(name string) bool {
	switch name {
	case "right", "down":
		s.StepNext()
	case "left", "up":
		s.StepPrevious()
	default:
		return false
	}
	return true
}
