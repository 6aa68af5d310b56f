package grading

import (
	"reviewdojo/internal/content"
	"reviewdojo/internal/linekey"
)

type DefaultGrader struct{}

func NewGrader() *DefaultGrader { return &DefaultGrader{} }

// Grade scores selected keys against a challenge using the addressing mode
// stored on the challenge.
func (g *DefaultGrader) Grade(selected []linekey.Key, ch content.Challenge) Result {
	return Validate(selected, ch.Solution, ch.Addressing())
}

// Validate is pure: found and falsePositives follow selection order,
// missed follows solution order.
func Validate(selected []linekey.Key, solution []content.Solution, mode linekey.Mode) Result {
	solutionKeys := SolutionKeys(solution, mode)
	inSolution := make(map[linekey.Key]struct{}, len(solutionKeys))
	for _, k := range solutionKeys {
		inSolution[k] = struct{}{}
	}
	inSelection := make(map[linekey.Key]struct{}, len(selected))
	for _, k := range selected {
		inSelection[k] = struct{}{}
	}

	res := Result{
		Found:          []linekey.Key{},
		Missed:         []linekey.Key{},
		FalsePositives: []linekey.Key{},
		Total:          len(solutionKeys),
	}
	for _, k := range selected {
		if _, ok := inSolution[k]; ok {
			res.Found = append(res.Found, k)
		} else {
			res.FalsePositives = append(res.FalsePositives, k)
		}
	}
	for _, k := range solutionKeys {
		if _, ok := inSelection[k]; !ok {
			res.Missed = append(res.Missed, k)
		}
	}
	res.Score = len(res.Found)
	return res
}

// SolutionKeys maps every entry to its key, one key per entry.
func SolutionKeys(solution []content.Solution, mode linekey.Mode) []linekey.Key {
	keys := make([]linekey.Key, 0, len(solution))
	for _, s := range solution {
		keys = append(keys, mode.Key(s.Line, s.File))
	}
	return keys
}

// Breakdown counts found and missed solution entries per category, in
// content.Categories order, skipping categories the solution never uses.
func Breakdown(res Result, solution []content.Solution, mode linekey.Mode) []CategoryCount {
	counts := map[content.Category]*CategoryCount{}
	for _, s := range solution {
		cc, ok := counts[s.Category]
		if !ok {
			cc = &CategoryCount{Category: s.Category}
			counts[s.Category] = cc
		}
		if containsKey(res.Found, mode.Key(s.Line, s.File)) {
			cc.Found++
		} else {
			cc.Missed++
		}
	}
	out := []CategoryCount{}
	for _, cat := range content.Categories {
		if cc, ok := counts[cat]; ok {
			out = append(out, *cc)
		}
	}
	return out
}
