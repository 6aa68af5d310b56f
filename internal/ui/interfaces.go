package ui

// Controller receives user input events. The view never mutates core state
// itself; it reports events and waits for the next Set* call.
type Controller interface {
	OnOpenCatalog()
	OnOpenChallenge(id int)
	OnOpenExplanation(id int)
	// OnSelectLine toggles line in the file at index file, the file that
	// was on screen when the input arrived.
	OnSelectLine(file, line int)
	OnSwitchFile(index int)
	OnSubmit()
	OnRetry()
	OnNextChallenge()
	OnNextExplanation()
	OnStepPrevious()
	OnStepNext()
	OnStepGoTo(index int)
	OnStepKey(name string)
	OnQuit()
}

type View interface {
	Run() error
	Stop()
	SetController(Controller)
	SetScreen(screen Screen)
	SetCatalog(state CatalogState)
	SetChallenge(state ChallengeState)
	SetExplanation(state ExplanationState)
	SetNotFound(state NotFoundState)
	FlashStatus(msg string)
	RequestDraw()
}

type Screen int

const (
	ScreenCatalog Screen = iota
	ScreenChallenge
	ScreenExplanation
	ScreenNotFound
)

func (s Screen) String() string {
	switch s {
	case ScreenChallenge:
		return "challenge"
	case ScreenExplanation:
		return "explanation"
	case ScreenNotFound:
		return "not_found"
	default:
		return "catalog"
	}
}

type LayoutMode int

const (
	LayoutWide LayoutMode = iota
	LayoutCompact
	LayoutTooSmall
)

type CatalogState struct {
	Challenges   []ChallengeSummary
	Explanations []ExplanationSummary
	ErrorCount   int
}

type ChallengeSummary struct {
	ID          int
	Title       string
	Description string
	Level       string
	Categories  []string
	ErrorCount  int
	FileCount   int
}

type ExplanationSummary struct {
	ID          int
	Title       string
	Description string
	Level       string
	Category    string
	StepCount   int
	FileCount   int
}

// FileTab is one entry of the file switcher. Badge is the number of
// selected lines (challenges); Targeted marks the current step's file
// (explanations).
type FileTab struct {
	Name     string
	Badge    int
	Targeted bool
}

type LineOutcome int

const (
	OutcomeNone LineOutcome = iota
	OutcomeFound
	OutcomeMissed
	OutcomeFalsePositive
)

type CodeLine struct {
	Number      int
	Text        string
	Selected    bool
	Highlighted bool
	Outcome     LineOutcome
	Notes       []LineNote
}

// LineNote is a solution explanation shown under a line after submission.
type LineNote struct {
	Category string
	Text     string
}

type ChallengeState struct {
	ID            int
	Title         string
	Description   string
	Level         string
	Files         []FileTab
	ActiveFile    int
	Lines         []CodeLine
	SelectedCount int
	ErrorCount    int
	CanSubmit     bool
	Result        *ResultState
	HasNext       bool
	HasPrevious   bool
}

type ResultState struct {
	Verdict        string
	Score          int
	Total          int
	Percentage     int
	FalsePositives int
	Perfect        bool
	Breakdown      []BreakdownRow
}

type BreakdownRow struct {
	Category string
	Found    int
	Missed   int
}

type StepState struct {
	Title       string
	Explanation string
	Kind        string
	File        string
	LastLine    int
}

type ExplanationState struct {
	ID          int
	Title       string
	Description string
	Level       string
	Category    string
	Files       []FileTab
	ActiveFile  int
	Lines       []CodeLine
	StepIndex   int
	StepCount   int
	Step        StepState
	Progress    float64
	ShowInline  bool
	HasNext     bool
	HasPrevious bool
	// HasNextExplanation reports a successor in the explanation catalog.
	HasNextExplanation bool
}

type NotFoundState struct {
	Kind string
	ID   int
}
