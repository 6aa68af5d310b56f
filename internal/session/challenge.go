// Package session holds the per-view state of an opened challenge or
// explanation. A session lives until the user navigates away.
package session

import (
	"github.com/google/uuid"

	"reviewdojo/internal/content"
	"reviewdojo/internal/grading"
	"reviewdojo/internal/linekey"
	"reviewdojo/internal/selection"
)

// ChallengeSession owns the selection and the last result for one challenge.
// The selection is frozen while a result is shown; Retry unfreezes it.
type ChallengeSession struct {
	id        string
	challenge content.Challenge
	grader    grading.Grader
	sel       *selection.Store
	result    *grading.Result
	file      int
}

func NewChallengeSession(ch content.Challenge, g grading.Grader) *ChallengeSession {
	if g == nil {
		g = grading.NewGrader()
	}
	return &ChallengeSession{
		id:        uuid.NewString(),
		challenge: ch,
		grader:    g,
		sel:       selection.New(),
	}
}

func (s *ChallengeSession) ID() string { return s.id }

func (s *ChallengeSession) Challenge() content.Challenge { return s.challenge }

// KeyFor builds the key for a line of the active file.
func (s *ChallengeSession) KeyFor(line int) linekey.Key {
	return s.KeyIn(s.file, line)
}

// KeyIn builds the key for a line of the file at index file.
func (s *ChallengeSession) KeyIn(file, line int) linekey.Key {
	files := s.Files()
	name := ""
	if file >= 0 && file < len(files) {
		name = files[file].Name
	}
	return s.challenge.Addressing().Key(line, name)
}

// SelectLine toggles key and reports whether the selection changed.
func (s *ChallengeSession) SelectLine(key linekey.Key) bool {
	if s.Locked() {
		return false
	}
	s.sel.Toggle(key)
	return true
}

func (s *ChallengeSession) IsSelected(key linekey.Key) bool { return s.sel.Contains(key) }

func (s *ChallengeSession) Selection() []linekey.Key { return s.sel.Keys() }

func (s *ChallengeSession) SelectedInFile(name string) int {
	if s.challenge.Addressing() == linekey.SingleFile {
		return s.sel.Len()
	}
	return s.sel.CountForFile(name)
}

// CanSubmit is false with an empty selection or while a result is shown.
func (s *ChallengeSession) CanSubmit() bool {
	return !s.Locked() && s.sel.Len() > 0
}

// Submit grades the current selection. Repeated calls recompute the same
// result from scratch.
func (s *ChallengeSession) Submit() grading.Result {
	res := s.grader.Grade(s.sel.Keys(), s.challenge)
	s.result = &res
	return res
}

// Retry clears the selection and the result.
func (s *ChallengeSession) Retry() {
	s.sel.Clear()
	s.result = nil
}

func (s *ChallengeSession) Result() (grading.Result, bool) {
	if s.result == nil {
		return grading.Result{}, false
	}
	return *s.result, true
}

func (s *ChallengeSession) Breakdown() []grading.CategoryCount {
	res, ok := s.Result()
	if !ok {
		return nil
	}
	return grading.Breakdown(res, s.challenge.Solution, s.challenge.Addressing())
}

func (s *ChallengeSession) Locked() bool { return s.result != nil }

func (s *ChallengeSession) Files() []content.SourceFile { return s.challenge.SourceFiles() }

func (s *ChallengeSession) SwitchFile(i int) {
	n := len(s.Files())
	switch {
	case n == 0 || i < 0:
		s.file = 0
	case i >= n:
		s.file = n - 1
	default:
		s.file = i
	}
}

func (s *ChallengeSession) ActiveFile() int { return s.file }

func (s *ChallengeSession) ActiveFileName() string {
	files := s.Files()
	if len(files) == 0 {
		return ""
	}
	return files[s.file].Name
}
