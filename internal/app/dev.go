package app

import (
	"context"
	"errors"
	"fmt"

	"reviewdojo/internal/content"
	"reviewdojo/internal/devtools"
	"reviewdojo/internal/linekey"
	"reviewdojo/internal/ui"
)

func (a *App) startDevHTTP() {
	a.dev = devtools.NewServer(a.cfg.DevHTTP, a, a.demo)
	a.dev.Start(func(err error) {
		a.logger.Error("dev_http.listen_failed", map[string]any{"error": err.Error(), "addr": a.cfg.DevHTTP})
	})
	a.logger.Info("dev_http.start", map[string]any{"addr": a.cfg.DevHTTP})
}

// State snapshots what is on screen for scripted checks.
func (a *App) State() devtools.State {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.devMu.Lock()
	st := devtools.State{
		Screen:    a.screen.String(),
		Demo:      a.devState.Demo,
		RenderSeq: a.devState.RenderSeq,
		Pending:   a.devState.Pending,
		Error:     a.devState.Error,
	}
	a.devMu.Unlock()

	st.Fingerprint = fmt.Sprintf("%016x", a.lib.Fingerprint)
	st.Selection = []string{}
	switch {
	case a.screen == ui.ScreenChallenge && a.challenge != nil:
		s := a.challenge
		id := s.Challenge().ID
		st.ChallengeID = id
		st.SessionID = s.ID()
		st.ActiveFile = s.ActiveFileName()
		st.FocusedFile = s.ActiveFile()
		for _, k := range s.Selection() {
			st.Selection = append(st.Selection, string(k))
		}
		st.Locked = s.Locked()
		if res, ok := s.Result(); ok {
			st.Result = &res
			st.Percentage = res.Percentage()
			st.Perfect = res.IsPerfect()
		}
		st.HasNext = a.lib.Challenges.HasNext(id)
		st.HasPrevious = a.lib.Challenges.HasPrevious(id)
	case a.screen == ui.ScreenExplanation && a.explanation != nil:
		seq := a.explanation.Sequencer()
		st.ExplanationID = a.explanation.Explanation().ID
		st.StepIndex = seq.Index()
		st.StepCount = seq.Len()
		st.FocusedFile = seq.FocusedFile()
		st.ActiveFile = seq.FocusedFileName()
		st.HasNext = !seq.IsLast()
		st.HasPrevious = !seq.IsFirst()
	case a.screen == ui.ScreenNotFound:
		st.NotFoundID = a.notFound.ID
	}
	return st
}

// Dispatch replays one input event as if it came from the view.
func (a *App) Dispatch(ev devtools.Event) error {
	switch ev.Type {
	case devtools.EventOpenCatalog:
		a.OnOpenCatalog()
	case devtools.EventOpenChallenge:
		a.OnOpenChallenge(ev.ID)
	case devtools.EventOpenExplanation:
		a.OnOpenExplanation(ev.ID)
	case devtools.EventSelectLine:
		a.OnSelectLine(ev.File, ev.Line)
	case devtools.EventSwitchFile:
		a.OnSwitchFile(ev.Index)
	case devtools.EventSubmit:
		a.OnSubmit()
	case devtools.EventRetry:
		a.OnRetry()
	case devtools.EventNextChallenge:
		a.OnNextChallenge()
	case devtools.EventNextExplanation:
		a.OnNextExplanation()
	case devtools.EventStepPrevious:
		a.OnStepPrevious()
	case devtools.EventStepNext:
		a.OnStepNext()
	case devtools.EventStepGoTo:
		a.OnStepGoTo(ev.Index)
	case devtools.EventStepKey:
		a.OnStepKey(ev.Key)
	default:
		return fmt.Errorf("%w: %q", devtools.ErrUnknownEvent, ev.Type)
	}
	a.logger.Debug("dev.event", map[string]any{"type": ev.Type})
	return nil
}

// RunDemo resolves a scenario name and drives the app into it.
func (a *App) RunDemo(ctx context.Context, name string) (string, error) {
	s := a.demo.Resolve(name)
	a.logger.Info("dev.demo.begin", map[string]any{"requested": name, "resolved": s.Name})
	a.setDevPending(name)

	a.demoMu.Lock()
	defer a.demoMu.Unlock()

	if err := a.applyScenario(ctx, s); err != nil {
		a.logger.Error("dev.demo.failed", map[string]any{"requested": name, "resolved": s.Name, "error": err.Error()})
		a.setDevError(name, err)
		return s.Name, err
	}
	a.setDevReady(s.Name)
	a.view.RequestDraw()
	a.logger.Info("dev.demo.done", map[string]any{"requested": name, "resolved": s.Name})
	return s.Name, nil
}

func (a *App) applyScenario(ctx context.Context, s devtools.Scenario) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch s.Screen {
	case "catalog":
		a.OnOpenCatalog()
		return nil
	case "not_found":
		a.OnOpenChallenge(s.Challenge)
		return nil
	case "explanation":
		id := s.Explanation
		if id == 0 {
			first, ok := a.lib.Explanations.First()
			if !ok {
				return errors.New("no explanations loaded")
			}
			id = first.ID
		}
		a.OnOpenExplanation(id)
		if s.Step > 0 {
			a.OnStepGoTo(s.Step)
		}
		return nil
	}

	ch, err := a.demoChallenge(s.Challenge)
	if err != nil {
		return err
	}
	a.OnOpenChallenge(ch.ID)
	if s.SelectSolution {
		entries := ch.Solution
		if s.SolutionLimit > 0 && s.SolutionLimit < len(entries) {
			entries = entries[:s.SolutionLimit]
		}
		for _, sol := range entries {
			a.demoSelect(ch, sol.File, sol.Line)
		}
	}
	for _, line := range s.WrongLines {
		a.demoSelect(ch, "", line)
	}
	a.OnSwitchFile(0)
	if s.Submit {
		a.OnSubmit()
	}
	return nil
}

// demoChallenge maps the scenario selector: 0 is the first challenge, -1
// the first multi-file one, anything else an id.
func (a *App) demoChallenge(sel int) (content.Challenge, error) {
	switch sel {
	case 0:
		if c, ok := a.lib.Challenges.First(); ok {
			return c, nil
		}
		return content.Challenge{}, errors.New("no challenges loaded")
	case -1:
		for _, c := range a.lib.Challenges.All() {
			if c.Addressing() == linekey.MultiFile {
				return c, nil
			}
		}
		return content.Challenge{}, errors.New("no multi-file challenge loaded")
	default:
		return a.lib.Challenges.FindByID(sel)
	}
}

// demoSelect marks line in file (the first file when empty) unless it is
// already selected.
func (a *App) demoSelect(ch content.Challenge, file string, line int) {
	idx := 0
	for i, f := range ch.SourceFiles() {
		if f.Name == file {
			idx = i
			break
		}
	}
	a.mu.Lock()
	selected := a.challenge != nil && a.challenge.IsSelected(a.challenge.KeyIn(idx, line))
	a.mu.Unlock()
	if !selected {
		a.OnSelectLine(idx, line)
	}
}

func (a *App) setDevPending(demo string) {
	a.devMu.Lock()
	defer a.devMu.Unlock()
	a.devState.Demo = demo
	a.devState.Pending = true
	a.devState.Error = ""
	a.devState.RenderSeq++
}

func (a *App) setDevReady(demo string) {
	a.devMu.Lock()
	defer a.devMu.Unlock()
	a.devState.Demo = demo
	a.devState.Pending = false
	a.devState.Error = ""
	a.devState.RenderSeq++
}

func (a *App) setDevError(demo string, err error) {
	a.devMu.Lock()
	defer a.devMu.Unlock()
	a.devState.Demo = demo
	a.devState.Pending = false
	a.devState.Error = err.Error()
	a.devState.RenderSeq++
}
