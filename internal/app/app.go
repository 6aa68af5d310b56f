package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"reviewdojo/internal/content"
	"reviewdojo/internal/devtools"
	"reviewdojo/internal/grading"
	"reviewdojo/internal/session"
	"reviewdojo/internal/telemetry"
	"reviewdojo/internal/ui"
)

// App wires the content library and sessions to the view. It is the
// view's Controller and the dev server's Backend.
type App struct {
	cfg Config

	logger Logger
	lib    *content.Library
	grader grading.Grader
	demo   *devtools.Manager
	dev    *devtools.Server
	view   ui.View

	mu          sync.Mutex
	screen      ui.Screen
	challenge   *session.ChallengeSession
	explanation *session.ExplanationSession
	notFound    ui.NotFoundState

	demoMu   sync.Mutex
	devMu    sync.Mutex
	devState struct {
		Demo      string
		RenderSeq int
		Pending   bool
		Error     string
	}
}

func New(cfg Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger, err := telemetry.NewJSONLogger(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	lib, err := LoadLibrary(context.Background(), cfg)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}
	view := ui.New(ui.Options{
		ASCIIOnly:    cfg.ASCIIOnly,
		Debug:        cfg.LogLevel == "debug",
		StyleVariant: cfg.UI.StyleVariant,
		SyntaxStyle:  cfg.UI.SyntaxStyle,
		Markdown:     cfg.UI.Markdown,
	})
	return newApp(cfg, logger, lib, view), nil
}

func newApp(cfg Config, logger Logger, lib *content.Library, view ui.View) *App {
	a := &App{
		cfg:    cfg,
		logger: logger,
		lib:    lib,
		grader: grading.NewGrader(),
		demo:   devtools.NewManager(),
		view:   view,
		screen: ui.ScreenCatalog,
	}
	a.logger.Info("content.loaded", map[string]any{
		"challenges":   lib.Challenges.Len(),
		"explanations": lib.Explanations.Len(),
		"errors":       lib.ErrorCount(),
		"fingerprint":  fmt.Sprintf("%016x", lib.Fingerprint),
	})
	view.SetController(a)
	view.SetCatalog(a.catalogState())
	view.SetScreen(ui.ScreenCatalog)
	return a
}

// LoadLibrary reads content from the bundle when one is configured and
// from the content directory otherwise.
func LoadLibrary(ctx context.Context, cfg Config) (*content.Library, error) {
	if cfg.BundlePath != "" {
		b, err := content.OpenBundle(cfg.BundlePath)
		if err != nil {
			return nil, fmt.Errorf("open bundle: %w", err)
		}
		defer b.Close()
		return load(ctx, b)
	}
	return load(ctx, content.NewLoader(cfg.ContentDir))
}

func load(ctx context.Context, l content.Loader) (*content.Library, error) {
	lib, err := l.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}
	return lib, nil
}

func (a *App) Library() *content.Library { return a.lib }

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("app.start", map[string]any{"dev": a.cfg.Dev, "screen": a.currentScreen().String()})

	if a.cfg.Dev {
		a.startDevHTTP()
		if a.cfg.DemoScenario != "" {
			if _, err := a.RunDemo(ctx, a.cfg.DemoScenario); err != nil {
				a.logger.Error("dev.demo.initial_failed", map[string]any{"demo": a.cfg.DemoScenario, "error": err.Error()})
			}
		}
	}

	stop := context.AfterFunc(ctx, a.view.Stop)
	defer stop()
	err := a.view.Run()
	a.logger.Info("app.stop", map[string]any{"error": errString(err)})
	return err
}

func (a *App) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if a.dev != nil {
		_ = a.dev.Shutdown(ctx)
	}
	_ = a.logger.Close()
}

func (a *App) OnOpenCatalog() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.challenge = nil
	a.explanation = nil
	a.screen = ui.ScreenCatalog
	a.view.SetCatalog(a.catalogState())
	a.view.SetScreen(ui.ScreenCatalog)
	a.logger.Info("ui.catalog", nil)
	a.rendered()
}

func (a *App) OnOpenChallenge(id int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.openChallengeLocked(id)
}

func (a *App) openChallengeLocked(id int) {
	ch, err := a.lib.Challenges.FindByID(id)
	if err != nil {
		a.showNotFoundLocked("challenge", id, err)
		return
	}
	a.challenge = session.NewChallengeSession(ch, a.grader)
	a.explanation = nil
	a.screen = ui.ScreenChallenge
	a.view.SetChallenge(a.challengeState())
	a.view.SetScreen(ui.ScreenChallenge)
	a.logger.Info("challenge.open", map[string]any{
		"challenge_id": ch.ID,
		"session_id":   a.challenge.ID(),
		"addressing":   ch.Addressing().String(),
	})
	a.rendered()
}

func (a *App) OnOpenExplanation(id int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.openExplanationLocked(id)
}

func (a *App) openExplanationLocked(id int) {
	e, err := a.lib.Explanations.FindByID(id)
	if err != nil {
		a.showNotFoundLocked("explanation", id, err)
		return
	}
	a.explanation = session.NewExplanationSession(e)
	a.challenge = nil
	a.screen = ui.ScreenExplanation
	a.view.SetExplanation(a.explanationState())
	a.view.SetScreen(ui.ScreenExplanation)
	a.logger.Info("explanation.open", map[string]any{"explanation_id": e.ID, "steps": len(e.Steps)})
	a.rendered()
}

func (a *App) showNotFoundLocked(kind string, id int, err error) {
	if !errors.Is(err, content.ErrNotFound) {
		a.logger.Error("content.lookup_failed", map[string]any{"kind": kind, "id": id, "error": err.Error()})
	}
	a.challenge = nil
	a.explanation = nil
	a.notFound = ui.NotFoundState{Kind: kind, ID: id}
	a.screen = ui.ScreenNotFound
	a.view.SetNotFound(a.notFound)
	a.view.SetScreen(ui.ScreenNotFound)
	a.logger.Warn("ui.not_found", map[string]any{"kind": kind, "id": id})
	a.rendered()
}

func (a *App) OnSelectLine(file, line int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := a.challenge
	if s == nil || a.screen != ui.ScreenChallenge {
		return
	}
	files := s.Files()
	if file < 0 || file >= len(files) || line < 1 || line > files[file].LineCount() {
		return
	}
	key := s.KeyIn(file, line)
	if !s.SelectLine(key) {
		a.view.FlashStatus("Press r to retry before changing your selection")
		return
	}
	a.logger.Debug("challenge.select", map[string]any{"key": string(key), "selected": s.IsSelected(key)})
	a.view.SetChallenge(a.challengeState())
	a.rendered()
}

func (a *App) OnSwitchFile(index int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch {
	case a.screen == ui.ScreenChallenge && a.challenge != nil:
		a.challenge.SwitchFile(index)
		a.view.SetChallenge(a.challengeState())
	case a.screen == ui.ScreenExplanation && a.explanation != nil:
		a.explanation.SwitchFile(index)
		a.view.SetExplanation(a.explanationState())
	default:
		return
	}
	a.rendered()
}

func (a *App) OnSubmit() {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := a.challenge
	if s == nil || !s.CanSubmit() {
		return
	}
	res := s.Submit()
	a.logger.Info("challenge.submit", map[string]any{
		"challenge_id":    s.Challenge().ID,
		"session_id":      s.ID(),
		"score":           res.Score,
		"total":           res.Total,
		"percentage":      res.Percentage(),
		"false_positives": len(res.FalsePositives),
		"verdict":         string(res.Verdict()),
	})
	a.view.SetChallenge(a.challengeState())
	a.rendered()
}

func (a *App) OnRetry() {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := a.challenge
	if s == nil || !s.Locked() {
		return
	}
	s.Retry()
	a.logger.Info("challenge.retry", map[string]any{"challenge_id": s.Challenge().ID, "session_id": s.ID()})
	a.view.SetChallenge(a.challengeState())
	a.rendered()
}

func (a *App) OnNextChallenge() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.challenge == nil {
		return
	}
	next, ok := a.lib.Challenges.Next(a.challenge.Challenge().ID)
	if !ok {
		return
	}
	a.openChallengeLocked(next.ID)
}

func (a *App) OnNextExplanation() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.explanation == nil || a.screen != ui.ScreenExplanation {
		return
	}
	next, ok := a.lib.Explanations.Next(a.explanation.Explanation().ID)
	if !ok {
		return
	}
	a.openExplanationLocked(next.ID)
}

func (a *App) OnStepPrevious() {
	a.stepWith(func(s *session.ExplanationSession) { s.StepPrevious() })
}

func (a *App) OnStepNext() {
	a.stepWith(func(s *session.ExplanationSession) { s.StepNext() })
}

func (a *App) OnStepGoTo(index int) {
	a.stepWith(func(s *session.ExplanationSession) { s.StepGoTo(index) })
}

func (a *App) OnStepKey(name string) {
	a.stepWith(func(s *session.ExplanationSession) { s.Key(name) })
}

func (a *App) stepWith(fn func(*session.ExplanationSession)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := a.explanation
	if s == nil || a.screen != ui.ScreenExplanation {
		return
	}
	before := s.Sequencer().Index()
	fn(s)
	if after := s.Sequencer().Index(); after != before {
		a.logger.Debug("explanation.step", map[string]any{"explanation_id": s.Explanation().ID, "from": before, "to": after})
	}
	a.view.SetExplanation(a.explanationState())
	a.rendered()
}

func (a *App) OnQuit() {
	a.logger.Info("app.quit", nil)
	a.view.Stop()
}

func (a *App) currentScreen() ui.Screen {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.screen
}

// rendered bumps the dev render sequence after a state push.
func (a *App) rendered() {
	a.devMu.Lock()
	a.devState.RenderSeq++
	a.devMu.Unlock()
	a.view.RequestDraw()
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

var _ ui.Controller = (*App)(nil)
var _ devtools.Backend = (*App)(nil)
