package ui

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	clog "github.com/charmbracelet/log"
)

type applyMsg struct {
	fn func(*Root)
}

type drawMsg struct{}

type keyMap struct {
	Quit      key.Binding
	Back      key.Binding
	Up        key.Binding
	Down      key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Top       key.Binding
	Bottom    key.Binding
	Open      key.Binding
	Section   key.Binding
	Toggle    key.Binding
	NextFile  key.Binding
	PrevFile  key.Binding
	Submit    key.Binding
	Retry     key.Binding
	Next      key.Binding
	StepNext  key.Binding
	StepPrev  key.Binding
	StepArrow key.Binding

	NextExplanation key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("ctrl+c", "ctrl+q"), key.WithHelp("ctrl+q", "quit")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "catalog")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:    key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown:  key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		Top:       key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first")),
		Bottom:    key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last")),
		Open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Section:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "section")),
		Toggle:    key.NewBinding(key.WithKeys("space", "enter", "x"), key.WithHelp("space", "mark line")),
		NextFile:  key.NewBinding(key.WithKeys("tab", "]"), key.WithHelp("tab", "next file")),
		PrevFile:  key.NewBinding(key.WithKeys("shift+tab", "["), key.WithHelp("[", "prev file")),
		Submit:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "submit")),
		Retry:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		Next:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next challenge")),
		StepNext:  key.NewBinding(key.WithKeys("l", "space"), key.WithHelp("l", "next step")),
		StepPrev:  key.NewBinding(key.WithKeys("h", "backspace"), key.WithHelp("h", "prev step")),
		StepArrow: key.NewBinding(key.WithKeys("left", "right", "up", "down"), key.WithHelp("←/→", "step")),

		NextExplanation: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next explanation")),
	}
}

// hitZone is a clickable screen rectangle recorded during the last render.
type hitZone struct {
	x0, y0, x1, y1 int
	action         func(x, y int)
}

func (z hitZone) contains(x, y int) bool {
	return x >= z.x0 && x < z.x1 && y >= z.y0 && y < z.y1
}

type Root struct {
	theme Theme
	ascii bool
	debug bool
	ctrl  Controller

	mu      sync.Mutex
	program *tea.Program
	running bool

	screen Screen
	layout LayoutMode
	cols   int
	rows   int

	catalog      CatalogState
	catalogIndex int
	catalogTop   int

	challenge ChallengeState
	cursor    int
	codeTop   int

	explanation   ExplanationState
	anchorPending bool
	notFound      NotFoundState

	statusFlash string
	hits        []hitZone

	help        help.Model
	keys        keyMap
	progressBar progress.Model
	markdown    *glamour.TermRenderer
	highlight   *highlighter
	logger      *clog.Logger

	drawPending atomic.Bool
	calls       controllerQueue

	lastInputEvent string
}

type Options struct {
	ASCIIOnly    bool
	Debug        bool
	StyleVariant string
	// SyntaxStyle names a chroma style; empty disables highlighting.
	SyntaxStyle string
	Markdown    bool
}

func New(opts Options) *Root {
	logger := clog.NewWithOptions(os.Stderr, clog.Options{Prefix: "reviewdojo-ui", Level: clog.WarnLevel})
	if opts.Debug {
		logger.SetLevel(clog.DebugLevel)
	}

	var renderer *glamour.TermRenderer
	if opts.Markdown {
		md, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(48),
		)
		if err == nil {
			renderer = md
		}
	}

	var hl *highlighter
	if opts.SyntaxStyle != "" && !opts.ASCIIOnly {
		hl = newHighlighter(opts.SyntaxStyle)
	}

	h := help.New()
	h.Styles = help.DefaultDarkStyles()
	theme := ThemeForVariant(normalizeStyleVariant(opts.StyleVariant))

	barOpts := []progress.Option{
		progress.WithWidth(24),
		progress.WithColors(lipgloss.Color("#5EC2FF"), lipgloss.Color("#79E6A6")),
		progress.WithoutPercentage(),
	}
	if opts.ASCIIOnly {
		barOpts = append(barOpts, progress.WithFillCharacters('#', '-'))
	}

	return &Root{
		theme:       theme,
		ascii:       opts.ASCIIOnly,
		debug:       opts.Debug,
		screen:      ScreenCatalog,
		layout:      LayoutWide,
		cols:        120,
		rows:        30,
		help:        h,
		keys:        defaultKeyMap(),
		progressBar: progress.New(barOpts...),
		markdown:    renderer,
		highlight:   hl,
		logger:      logger,
	}
}

func (r *Root) Init() tea.Cmd {
	return nil
}

func (r *Root) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	defer func() {
		if rec := recover(); rec != nil {
			r.onModelPanic("update", rec, msg)
			model = r
			cmd = nil
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.cols = msg.Width
		r.rows = msg.Height
		r.layout = DetermineLayoutMode(r.cols, r.rows)
		r.help.SetWidth(msg.Width)
		return r, nil
	case applyMsg:
		if msg.fn != nil {
			msg.fn(r)
		}
		return r, nil
	case drawMsg:
		r.drawPending.Store(false)
		return r, nil
	case tea.MouseClickMsg:
		return r.handleMouseClick(msg)
	case tea.MouseWheelMsg:
		return r.handleMouseWheel(msg)
	case tea.KeyPressMsg:
		return r.handleKey(msg)
	}
	return r, nil
}

func (r *Root) View() (view tea.View) {
	defer func() {
		if rec := recover(); rec != nil {
			r.onModelPanic("view", rec, nil)
			width := max(1, r.cols)
			if r.statusFlash == "" {
				r.statusFlash = "Recovered UI panic"
			}
			view = tea.NewView(r.theme.Fail.Width(width).Render(trimForWidth("UI recovered from a rendering panic. Check logs.", width-1)))
		}
	}()

	v := tea.NewView(r.render())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	return v
}

func (r *Root) Run() error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	p := tea.NewProgram(r)
	r.program = p
	r.running = true
	r.mu.Unlock()

	_, err := p.Run()

	r.mu.Lock()
	r.program = nil
	r.running = false
	r.mu.Unlock()
	return err
}

func (r *Root) Stop() {
	r.mu.Lock()
	p := r.program
	r.mu.Unlock()
	if p != nil {
		p.Quit()
	}
}

func (r *Root) SetController(c Controller) {
	r.ctrl = c
}

func (r *Root) SetScreen(screen Screen) {
	r.apply(func(m *Root) {
		m.screen = screen
		m.statusFlash = ""
	})
}

func (r *Root) SetCatalog(state CatalogState) {
	r.apply(func(m *Root) {
		m.catalog = state
		m.catalogIndex = clampIndex(m.catalogIndex, m.catalogLen())
	})
}

func (r *Root) SetChallenge(state ChallengeState) {
	r.apply(func(m *Root) {
		if state.ID != m.challenge.ID || state.ActiveFile != m.challenge.ActiveFile {
			m.cursor = 0
			m.codeTop = 0
		}
		m.challenge = state
		m.cursor = clampIndex(m.cursor, len(state.Lines))
	})
}

func (r *Root) SetExplanation(state ExplanationState) {
	r.apply(func(m *Root) {
		if state.ID != m.explanation.ID || state.ActiveFile != m.explanation.ActiveFile {
			m.codeTop = 0
		}
		if state.ID != m.explanation.ID || state.StepIndex != m.explanation.StepIndex || state.ActiveFile != m.explanation.ActiveFile {
			m.anchorPending = true
		}
		m.explanation = state
	})
}

func (r *Root) SetNotFound(state NotFoundState) {
	r.apply(func(m *Root) {
		m.notFound = state
	})
}

func (r *Root) FlashStatus(msg string) {
	r.apply(func(m *Root) {
		m.statusFlash = msg
	})
}

func (r *Root) RequestDraw() {
	r.mu.Lock()
	p := r.program
	running := r.running
	r.mu.Unlock()
	if !running || p == nil {
		return
	}
	if !r.drawPending.CompareAndSwap(false, true) {
		return
	}
	time.AfterFunc(16*time.Millisecond, func() {
		r.mu.Lock()
		p := r.program
		running := r.running
		r.mu.Unlock()
		if !running || p == nil {
			r.drawPending.Store(false)
			return
		}
		p.Send(drawMsg{})
	})
}

// apply runs fn on the model goroutine when the program is running and
// inline otherwise.
func (r *Root) apply(fn func(*Root)) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	p := r.program
	running := r.running
	r.mu.Unlock()
	if !running || p == nil {
		fn(r)
		return
	}
	p.Send(applyMsg{fn: fn})
}

// dispatchController calls the controller off the model goroutine while the
// program runs, so handlers may call back into Set* without deadlocking.
// Calls are serialized in input order.
func (r *Root) dispatchController(fn func(Controller)) {
	if fn == nil || r.ctrl == nil {
		return
	}
	ctrl := r.ctrl
	r.mu.Lock()
	running := r.running
	r.mu.Unlock()
	if !running {
		fn(ctrl)
		return
	}
	r.calls.push(func() {
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Error("ui.controller_panic", "panic", fmt.Sprintf("%v", rec), "stack", string(debug.Stack()))
			}
		}()
		fn(ctrl)
	})
}

func (r *Root) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	r.recordInputEvent(fmt.Sprintf("key:%v mod:%v text:%q", msg.Code, msg.Mod, msg.Text))

	if key.Matches(msg, r.keys.Quit) {
		r.dispatchController(func(c Controller) { c.OnQuit() })
		return r, nil
	}
	if r.layout == LayoutTooSmall {
		return r, nil
	}

	switch r.screen {
	case ScreenChallenge:
		return r.handleChallengeKey(msg)
	case ScreenExplanation:
		return r.handleExplanationKey(msg)
	case ScreenNotFound:
		return r.handleNotFoundKey(msg)
	default:
		return r.handleCatalogKey(msg)
	}
}

func (r *Root) handleCatalogKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	n := r.catalogLen()
	switch {
	case msg.String() == "q":
		r.dispatchController(func(c Controller) { c.OnQuit() })
	case key.Matches(msg, r.keys.Up):
		r.catalogIndex = clampIndex(r.catalogIndex-1, n)
	case key.Matches(msg, r.keys.Down):
		r.catalogIndex = clampIndex(r.catalogIndex+1, n)
	case key.Matches(msg, r.keys.Top):
		r.catalogIndex = 0
	case key.Matches(msg, r.keys.Bottom):
		r.catalogIndex = clampIndex(n-1, n)
	case key.Matches(msg, r.keys.Section):
		if r.catalogIndex < len(r.catalog.Challenges) && len(r.catalog.Explanations) > 0 {
			r.catalogIndex = len(r.catalog.Challenges)
		} else {
			r.catalogIndex = 0
		}
	case key.Matches(msg, r.keys.Open):
		r.openCatalogEntry(r.catalogIndex)
	}
	return r, nil
}

func (r *Root) handleChallengeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	st := r.challenge
	n := len(st.Lines)
	switch {
	case key.Matches(msg, r.keys.Back):
		r.dispatchController(func(c Controller) { c.OnOpenCatalog() })
	case key.Matches(msg, r.keys.Up):
		r.cursor = clampIndex(r.cursor-1, n)
	case key.Matches(msg, r.keys.Down):
		r.cursor = clampIndex(r.cursor+1, n)
	case key.Matches(msg, r.keys.PageUp):
		r.cursor = clampIndex(r.cursor-r.codePageSize(), n)
	case key.Matches(msg, r.keys.PageDown):
		r.cursor = clampIndex(r.cursor+r.codePageSize(), n)
	case key.Matches(msg, r.keys.Top):
		r.cursor = 0
	case key.Matches(msg, r.keys.Bottom):
		r.cursor = clampIndex(n-1, n)
	case key.Matches(msg, r.keys.Toggle):
		if st.Result != nil || n == 0 {
			return r, nil
		}
		file, line := st.ActiveFile, st.Lines[r.cursor].Number
		r.dispatchController(func(c Controller) { c.OnSelectLine(file, line) })
	case key.Matches(msg, r.keys.NextFile):
		r.switchFile(st.ActiveFile+1, len(st.Files))
	case key.Matches(msg, r.keys.PrevFile):
		r.switchFile(st.ActiveFile-1, len(st.Files))
	case key.Matches(msg, r.keys.Submit):
		if st.Result != nil {
			return r, nil
		}
		if !st.CanSubmit {
			r.statusFlash = "Select at least one line before submitting"
			return r, nil
		}
		r.dispatchController(func(c Controller) { c.OnSubmit() })
	case key.Matches(msg, r.keys.Retry):
		if st.Result != nil {
			r.dispatchController(func(c Controller) { c.OnRetry() })
		}
	case key.Matches(msg, r.keys.Next):
		if st.Result != nil && st.HasNext {
			r.dispatchController(func(c Controller) { c.OnNextChallenge() })
		}
	}
	return r, nil
}

func (r *Root) handleExplanationKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	st := r.explanation
	switch msg.Code {
	case tea.KeyLeft, tea.KeyRight, tea.KeyUp, tea.KeyDown:
		if msg.Mod == 0 {
			name := arrowName(msg.Code)
			r.dispatchController(func(c Controller) { c.OnStepKey(name) })
			return r, nil
		}
	}
	if len(msg.Text) == 1 && msg.Text[0] >= '1' && msg.Text[0] <= '9' {
		idx := int(msg.Text[0] - '1')
		r.dispatchController(func(c Controller) { c.OnStepGoTo(idx) })
		return r, nil
	}
	switch {
	case key.Matches(msg, r.keys.Back):
		r.dispatchController(func(c Controller) { c.OnOpenCatalog() })
	case key.Matches(msg, r.keys.NextExplanation):
		if !st.HasNext && st.HasNextExplanation {
			r.dispatchController(func(c Controller) { c.OnNextExplanation() })
		}
	case msg.String() == "j":
		r.dispatchController(func(c Controller) { c.OnStepKey("down") })
	case msg.String() == "k":
		r.dispatchController(func(c Controller) { c.OnStepKey("up") })
	case key.Matches(msg, r.keys.StepNext):
		r.dispatchController(func(c Controller) { c.OnStepNext() })
	case key.Matches(msg, r.keys.StepPrev):
		r.dispatchController(func(c Controller) { c.OnStepPrevious() })
	case key.Matches(msg, r.keys.Top):
		r.dispatchController(func(c Controller) { c.OnStepGoTo(0) })
	case key.Matches(msg, r.keys.Bottom):
		last := max(0, st.StepCount-1)
		r.dispatchController(func(c Controller) { c.OnStepGoTo(last) })
	case key.Matches(msg, r.keys.NextFile):
		r.switchFile(st.ActiveFile+1, len(st.Files))
	case key.Matches(msg, r.keys.PrevFile):
		r.switchFile(st.ActiveFile-1, len(st.Files))
	}
	return r, nil
}

func (r *Root) handleNotFoundKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "q":
		r.dispatchController(func(c Controller) { c.OnQuit() })
	case key.Matches(msg, r.keys.Back), key.Matches(msg, r.keys.Open):
		r.dispatchController(func(c Controller) { c.OnOpenCatalog() })
	}
	return r, nil
}

func (r *Root) handleMouseClick(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	m := msg.Mouse()
	r.recordInputEvent(fmt.Sprintf("mouse_click:%d,%d button:%v", m.X, m.Y, m.Button))
	if m.Button != tea.MouseLeft {
		return r, nil
	}
	if r.screen == ScreenNotFound {
		r.dispatchController(func(c Controller) { c.OnOpenCatalog() })
		return r, nil
	}
	for i := len(r.hits) - 1; i >= 0; i-- {
		if r.hits[i].contains(m.X, m.Y) {
			r.hits[i].action(m.X, m.Y)
			break
		}
	}
	return r, nil
}

func (r *Root) handleMouseWheel(msg tea.MouseWheelMsg) (tea.Model, tea.Cmd) {
	m := msg.Mouse()
	r.recordInputEvent(fmt.Sprintf("mouse_wheel:%d,%d button:%v", m.X, m.Y, m.Button))
	delta := 0
	switch m.Button {
	case tea.MouseWheelUp:
		delta = -3
	case tea.MouseWheelDown:
		delta = 3
	}
	if delta == 0 {
		return r, nil
	}
	switch r.screen {
	case ScreenCatalog:
		r.catalogIndex = clampIndex(r.catalogIndex+delta/3, r.catalogLen())
	case ScreenChallenge:
		r.cursor = clampIndex(r.cursor+delta, len(r.challenge.Lines))
	case ScreenExplanation:
		r.codeTop = max(0, r.codeTop+delta)
	}
	return r, nil
}

func (r *Root) switchFile(index, n int) {
	if n < 2 {
		return
	}
	index = (index%n + n) % n
	r.dispatchController(func(c Controller) { c.OnSwitchFile(index) })
}

func (r *Root) catalogLen() int {
	return len(r.catalog.Challenges) + len(r.catalog.Explanations)
}

func (r *Root) openCatalogEntry(index int) {
	if index < 0 || index >= r.catalogLen() {
		return
	}
	if index < len(r.catalog.Challenges) {
		id := r.catalog.Challenges[index].ID
		r.dispatchController(func(c Controller) { c.OnOpenChallenge(id) })
		return
	}
	id := r.catalog.Explanations[index-len(r.catalog.Challenges)].ID
	r.dispatchController(func(c Controller) { c.OnOpenExplanation(id) })
}

func (r *Root) codePageSize() int {
	return max(1, r.rows-8)
}

func arrowName(code rune) string {
	switch code {
	case tea.KeyLeft:
		return "left"
	case tea.KeyRight:
		return "right"
	case tea.KeyUp:
		return "up"
	default:
		return "down"
	}
}

func clampIndex(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func (r *Root) recordInputEvent(event string) {
	r.lastInputEvent = trimForWidth(strings.TrimSpace(event), 160)
}

func (r *Root) onModelPanic(where string, recovered any, msg tea.Msg) {
	if r.statusFlash == "" {
		r.statusFlash = "Recovered UI panic"
	}
	msgType := ""
	if msg != nil {
		msgType = fmt.Sprintf("%T", msg)
	}
	r.logger.Error("ui.panic_recovered",
		"where", where,
		"panic", fmt.Sprintf("%v", recovered),
		"message_type", msgType,
		"screen", r.screen.String(),
		"layout", r.layout,
		"cols", r.cols,
		"rows", r.rows,
		"last_input", r.lastInputEvent,
		"stack", string(debug.Stack()),
	)
}

var _ tea.Model = (*Root)(nil)
var _ View = (*Root)(nil)
