package devtools

import "reviewdojo/internal/grading"

// State is the JSON shape served by /__dev/state.
type State struct {
	Screen        string          `json:"screen"`
	Demo          string          `json:"demo,omitempty"`
	RenderSeq     int             `json:"render_seq"`
	Pending       bool            `json:"pending"`
	Error         string          `json:"error,omitempty"`
	Fingerprint   string          `json:"content_fingerprint"`
	ChallengeID   int             `json:"challenge_id,omitempty"`
	SessionID     string          `json:"session_id,omitempty"`
	ActiveFile    string          `json:"active_file,omitempty"`
	Selection     []string        `json:"selection"`
	Locked        bool            `json:"locked"`
	Result        *grading.Result `json:"result,omitempty"`
	Percentage    int             `json:"percentage,omitempty"`
	Perfect       bool            `json:"perfect,omitempty"`
	HasNext       bool            `json:"has_next"`
	HasPrevious   bool            `json:"has_previous"`
	ExplanationID int             `json:"explanation_id,omitempty"`
	StepIndex     int             `json:"step_index"`
	StepCount     int             `json:"step_count,omitempty"`
	FocusedFile   int             `json:"focused_file"`
	NotFoundID    int             `json:"not_found_id,omitempty"`
}

// Event is one user input replayed through /__dev/event. File is the file
// index a select_line event targets.
type Event struct {
	Type  string `json:"type"`
	ID    int    `json:"id,omitempty"`
	File  int    `json:"file,omitempty"`
	Line  int    `json:"line,omitempty"`
	Index int    `json:"index,omitempty"`
	Key   string `json:"key,omitempty"`
}

const (
	EventOpenCatalog     = "open_catalog"
	EventOpenChallenge   = "open_challenge"
	EventOpenExplanation = "open_explanation"
	EventSelectLine      = "select_line"
	EventSwitchFile      = "switch_file"
	EventSubmit          = "submit"
	EventRetry           = "retry"
	EventNextChallenge   = "next_challenge"
	EventNextExplanation = "next_explanation"
	EventStepPrevious    = "step_previous"
	EventStepNext        = "step_next"
	EventStepGoTo        = "step_goto"
	EventStepKey         = "step_key"
)
