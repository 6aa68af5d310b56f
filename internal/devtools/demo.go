package devtools

import "sort"

// Scenario scripts a deterministic screen for screenshots and smoke tests.
// Solution selection is resolved by the app because only it knows the
// loaded content.
type Scenario struct {
	Name   string
	Screen string

	// Challenge 0 opens the first challenge, -1 the first multi-file one.
	Challenge   int
	Explanation int

	// SelectSolution marks solution lines; SolutionLimit caps how many
	// (0 means all). WrongLines are marked in the first file.
	SelectSolution bool
	SolutionLimit  int
	WrongLines     []int
	Submit         bool
	Step           int
}

type Manager struct {
	scenarios map[string]Scenario
}

func NewManager() *Manager {
	return &Manager{scenarios: map[string]Scenario{
		"catalog":             {Name: "catalog", Screen: "catalog"},
		"challenge":           {Name: "challenge", Screen: "challenge"},
		"challenge_selecting": {Name: "challenge_selecting", Screen: "challenge", WrongLines: []int{1}, SelectSolution: true},
		"results_perfect":     {Name: "results_perfect", Screen: "challenge", SelectSolution: true, Submit: true},
		"results_partial":     {Name: "results_partial", Screen: "challenge", SelectSolution: true, SolutionLimit: 1, WrongLines: []int{1}, Submit: true},
		"multi_file":          {Name: "multi_file", Screen: "challenge", Challenge: -1},
		"explanation":         {Name: "explanation", Screen: "explanation"},
		"explanation_midway":  {Name: "explanation_midway", Screen: "explanation", Step: 2},
		"not_found":           {Name: "not_found", Screen: "not_found", Challenge: 999999},
	}}
}

// Resolve maps a name (or alias) to a scenario. Unknown names fall back to
// the catalog.
func (m *Manager) Resolve(name string) Scenario {
	switch name {
	case "home", "list":
		name = "catalog"
	case "results", "results_pass":
		name = "results_perfect"
	case "results_fail":
		name = "results_partial"
	case "walkthrough", "debugger":
		name = "explanation"
	}
	if s, ok := m.scenarios[name]; ok {
		s.WrongLines = append([]int(nil), s.WrongLines...)
		return s
	}
	return m.scenarios["catalog"]
}

func (m *Manager) Names() []string {
	out := make([]string, 0, len(m.scenarios))
	for name := range m.scenarios {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
