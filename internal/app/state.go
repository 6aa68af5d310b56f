package app

import (
	"reviewdojo/internal/grading"
	"reviewdojo/internal/ui"
)

// The builders below run with a.mu held.

func (a *App) catalogState() ui.CatalogState {
	st := ui.CatalogState{ErrorCount: a.lib.ErrorCount()}
	for _, c := range a.lib.Challenges.All() {
		cats := make([]string, 0, len(c.Solution))
		for _, cat := range c.CategorySet() {
			cats = append(cats, string(cat))
		}
		st.Challenges = append(st.Challenges, ui.ChallengeSummary{
			ID:          c.ID,
			Title:       c.Title,
			Description: c.Description,
			Level:       string(c.Level),
			Categories:  cats,
			ErrorCount:  len(c.Solution),
			FileCount:   len(c.SourceFiles()),
		})
	}
	for _, e := range a.lib.Explanations.All() {
		st.Explanations = append(st.Explanations, ui.ExplanationSummary{
			ID:          e.ID,
			Title:       e.Title,
			Description: e.Description,
			Level:       string(e.Level),
			Category:    e.Category,
			StepCount:   len(e.Steps),
			FileCount:   len(e.SourceFiles()),
		})
	}
	return st
}

func (a *App) challengeState() ui.ChallengeState {
	s := a.challenge
	ch := s.Challenge()
	res, done := s.Result()
	files := s.Files()

	st := ui.ChallengeState{
		ID:            ch.ID,
		Title:         ch.Title,
		Description:   ch.Description,
		Level:         string(ch.Level),
		ActiveFile:    s.ActiveFile(),
		SelectedCount: len(s.Selection()),
		ErrorCount:    len(ch.Solution),
		CanSubmit:     s.CanSubmit(),
		HasNext:       a.lib.Challenges.HasNext(ch.ID),
		HasPrevious:   a.lib.Challenges.HasPrevious(ch.ID),
	}
	for _, f := range files {
		st.Files = append(st.Files, ui.FileTab{Name: f.Name, Badge: s.SelectedInFile(f.Name)})
	}
	if len(files) > 0 {
		for i, text := range files[s.ActiveFile()].Lines() {
			key := s.KeyFor(i + 1)
			line := ui.CodeLine{Number: i + 1, Text: text, Selected: s.IsSelected(key)}
			if done {
				line.Outcome = lineOutcome(res.Outcome(key))
				for _, sol := range ch.SolutionAt(key) {
					line.Notes = append(line.Notes, ui.LineNote{Category: string(sol.Category), Text: sol.Explanation})
				}
			}
			st.Lines = append(st.Lines, line)
		}
	}
	if done {
		rs := &ui.ResultState{
			Verdict:        string(res.Verdict()),
			Score:          res.Score,
			Total:          res.Total,
			Percentage:     res.Percentage(),
			FalsePositives: len(res.FalsePositives),
			Perfect:        res.IsPerfect(),
		}
		for _, row := range s.Breakdown() {
			rs.Breakdown = append(rs.Breakdown, ui.BreakdownRow{Category: string(row.Category), Found: row.Found, Missed: row.Missed})
		}
		st.Result = rs
	}
	return st
}

func lineOutcome(o grading.Outcome) ui.LineOutcome {
	switch o {
	case grading.OutcomeFound:
		return ui.OutcomeFound
	case grading.OutcomeMissed:
		return ui.OutcomeMissed
	case grading.OutcomeFalsePositive:
		return ui.OutcomeFalsePositive
	default:
		return ui.OutcomeNone
	}
}

func (a *App) explanationState() ui.ExplanationState {
	s := a.explanation
	e := s.Explanation()
	seq := s.Sequencer()
	step, ok := seq.Current()
	files := seq.Files()
	active := seq.FocusedFileName()
	// Fileless steps apply to whatever file is focused.
	applies := ok && (step.File == "" || step.File == active)

	st := ui.ExplanationState{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Level:       string(e.Level),
		Category:    e.Category,
		ActiveFile:  seq.FocusedFile(),
		StepIndex:   seq.Index(),
		StepCount:   seq.Len(),
		Progress:    seq.Progress(),
		ShowInline:  applies,
		HasNext:     !seq.IsLast(),
		HasPrevious: !seq.IsFirst(),

		HasNextExplanation: a.lib.Explanations.HasNext(e.ID),
	}
	for i, f := range files {
		st.Files = append(st.Files, ui.FileTab{Name: f.Name, Targeted: seq.StepTargetsFile(i)})
	}
	if len(files) > 0 {
		for i, text := range files[seq.FocusedFile()].Lines() {
			st.Lines = append(st.Lines, ui.CodeLine{Number: i + 1, Text: text, Highlighted: applies && step.Highlights(i+1)})
		}
	}
	if ok {
		st.Step = ui.StepState{
			Title:       step.Title,
			Explanation: step.Explanation,
			Kind:        string(step.Kind),
			File:        step.File,
			LastLine:    step.LastLine(),
		}
	}
	return st
}
