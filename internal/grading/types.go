package grading

import (
	"math"

	"reviewdojo/internal/content"
	"reviewdojo/internal/linekey"
)

// Result partitions the selection against the solution keys. Total counts
// solution entries, so duplicate entries for one line each count.
type Result struct {
	Found          []linekey.Key `json:"found"`
	Missed         []linekey.Key `json:"missed"`
	FalsePositives []linekey.Key `json:"false_positives"`
	Score          int           `json:"score"`
	Total          int           `json:"total"`
}

// Percentage is round(100 * found / total), or 0 when total is 0.
func (r Result) Percentage() int {
	if r.Total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(len(r.Found)) / float64(r.Total)))
}

func (r Result) IsPerfect() bool {
	return len(r.Found) == r.Total && len(r.FalsePositives) == 0
}

type Verdict string

const (
	VerdictPerfect        Verdict = "perfect"
	VerdictWellDone       Verdict = "well_done"
	VerdictKeepPracticing Verdict = "keep_practicing"
)

func (r Result) Verdict() Verdict {
	switch {
	case r.IsPerfect():
		return VerdictPerfect
	case r.Percentage() >= 50:
		return VerdictWellDone
	default:
		return VerdictKeepPracticing
	}
}

// Outcome classifies one key against a result.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeFound
	OutcomeMissed
	OutcomeFalsePositive
)

func (r Result) Outcome(key linekey.Key) Outcome {
	switch {
	case containsKey(r.Found, key):
		return OutcomeFound
	case containsKey(r.Missed, key):
		return OutcomeMissed
	case containsKey(r.FalsePositives, key):
		return OutcomeFalsePositive
	}
	return OutcomeNone
}

// CategoryCount tallies solution entries of one category.
type CategoryCount struct {
	Category content.Category `json:"category"`
	Found    int              `json:"found"`
	Missed   int              `json:"missed"`
}

func containsKey(keys []linekey.Key, key linekey.Key) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
