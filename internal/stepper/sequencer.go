// Package stepper walks the ordered steps of an explanation and derives
// which source file is focused.
package stepper

import "reviewdojo/internal/content"

// Sequencer is a clamped index over steps. The focused file follows the
// current step whenever the step names a known file; a manual SwitchFile
// holds until the next step change that names a different file.
type Sequencer struct {
	steps []content.Step
	files []content.SourceFile
	index int
	focus int
}

func New(steps []content.Step, files []content.SourceFile) *Sequencer {
	s := &Sequencer{steps: steps, files: files}
	s.Reset()
	return s
}

func (s *Sequencer) Len() int { return len(s.steps) }

func (s *Sequencer) Index() int { return s.index }

// Current returns the active step. It reports false only for an empty
// sequence.
func (s *Sequencer) Current() (content.Step, bool) {
	if len(s.steps) == 0 {
		return content.Step{}, false
	}
	return s.steps[s.index], true
}

func (s *Sequencer) Previous() { s.GoTo(s.index - 1) }

func (s *Sequencer) Next() { s.GoTo(s.index + 1) }

// GoTo moves to i clamped to [0, n-1]. A move that lands on the current
// index is a no-op and leaves a manual file choice alone.
func (s *Sequencer) GoTo(i int) {
	next := clamp(i, len(s.steps))
	if next == s.index {
		return
	}
	s.index = next
	s.follow()
}

// Reset returns to the first step with the first file focused.
func (s *Sequencer) Reset() {
	s.index = 0
	s.focus = 0
	s.follow()
}

func (s *Sequencer) IsFirst() bool { return s.index == 0 }

func (s *Sequencer) IsLast() bool { return len(s.steps) == 0 || s.index == len(s.steps)-1 }

// Progress is the completed fraction in [0, 1] for a progress bar.
func (s *Sequencer) Progress() float64 {
	if len(s.steps) == 0 {
		return 0
	}
	return float64(s.index+1) / float64(len(s.steps))
}

func (s *Sequencer) Files() []content.SourceFile { return s.files }

func (s *Sequencer) FocusedFile() int { return s.focus }

func (s *Sequencer) FocusedFileName() string {
	if len(s.files) == 0 {
		return ""
	}
	return s.files[s.focus].Name
}

// SwitchFile focuses file i (clamped) without touching the step index.
func (s *Sequencer) SwitchFile(i int) {
	s.focus = clamp(i, len(s.files))
}

// StepTargetsFile reports whether the current step names file i.
func (s *Sequencer) StepTargetsFile(i int) bool {
	step, ok := s.Current()
	if !ok || step.File == "" || i < 0 || i >= len(s.files) {
		return false
	}
	return s.files[i].Name == step.File
}

func (s *Sequencer) follow() {
	step, ok := s.Current()
	if !ok || step.File == "" {
		return
	}
	for i, f := range s.files {
		if f.Name == step.File {
			s.focus = i
			return
		}
	}
}

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}
