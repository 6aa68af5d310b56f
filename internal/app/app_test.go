package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/go-cmp/cmp"

	"reviewdojo/internal/content"
	"reviewdojo/internal/devtools"
	"reviewdojo/internal/ui"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.ContentDir = filepath.Join("..", "..", "content")
	cfg.UI.Markdown = false
	cfg.UI.SyntaxStyle = ""
	cfg.ASCIIOnly = true
	return cfg
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	a, err := New(testConfig())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

func TestStartsOnCatalog(t *testing.T) {
	a := newTestApp(t)
	st := a.State()
	if st.Screen != "catalog" {
		t.Fatalf("expected catalog screen, got %q", st.Screen)
	}
	if st.Fingerprint == "" {
		t.Fatalf("expected a content fingerprint")
	}
}

func TestSelectAndSubmitPerfectReview(t *testing.T) {
	a := newTestApp(t)
	a.OnOpenChallenge(101)
	for _, line := range []int{13, 16, 19} {
		a.OnSelectLine(0, line)
	}
	a.OnSubmit()

	st := a.State()
	if diff := cmp.Diff([]string{"13", "16", "19"}, st.Selection); diff != "" {
		t.Fatalf("selection mismatch (-want +got):\n%s", diff)
	}
	if st.Result == nil || st.Result.Score != 3 || st.Result.Total != 3 {
		t.Fatalf("unexpected result: %+v", st.Result)
	}
	if !st.Perfect || st.Percentage != 100 || !st.Locked {
		t.Fatalf("expected a locked perfect result, got %+v", st)
	}
}

func TestSelectionFrozenUntilRetry(t *testing.T) {
	a := newTestApp(t)
	a.OnOpenChallenge(101)
	a.OnSelectLine(0, 13)
	a.OnSubmit()
	a.OnSelectLine(0, 1)
	if got := a.State().Selection; len(got) != 1 {
		t.Fatalf("expected selection frozen after submit, got %v", got)
	}

	a.OnRetry()
	st := a.State()
	if st.Locked || st.Result != nil || len(st.Selection) != 0 {
		t.Fatalf("expected retry to clear everything, got %+v", st)
	}
}

func TestSubmitNeedsSelection(t *testing.T) {
	a := newTestApp(t)
	a.OnOpenChallenge(101)
	a.OnSubmit()
	if st := a.State(); st.Result != nil || st.Locked {
		t.Fatalf("expected empty submit to be ignored, got %+v", st)
	}
}

func TestOutOfRangeLinesIgnored(t *testing.T) {
	a := newTestApp(t)
	a.OnOpenChallenge(101)
	a.OnSelectLine(0, 0)
	a.OnSelectLine(0, 9999)
	a.OnSelectLine(5, 3)
	if got := a.State().Selection; len(got) != 0 {
		t.Fatalf("expected no selection, got %v", got)
	}
}

func TestMultiFileSelectionUsesFileKeys(t *testing.T) {
	a := newTestApp(t)
	a.OnOpenChallenge(102)
	a.OnSwitchFile(1)
	a.OnSelectLine(1, 9)
	a.OnSubmit()

	st := a.State()
	if diff := cmp.Diff([]string{"Order.php:9"}, st.Selection); diff != "" {
		t.Fatalf("selection mismatch (-want +got):\n%s", diff)
	}
	if st.ActiveFile != "Order.php" {
		t.Fatalf("expected Order.php active, got %q", st.ActiveFile)
	}
	if st.Result == nil || st.Result.Score != 1 || st.Percentage != 33 || st.Perfect {
		t.Fatalf("unexpected partial result: %+v", st.Result)
	}
}

func TestSelectionKeyFollowsFileAtInputTime(t *testing.T) {
	a := newTestApp(t)
	a.OnOpenChallenge(102)
	a.OnSelectLine(1, 9)
	a.OnSwitchFile(1)
	a.OnSelectLine(0, 11)

	st := a.State()
	if diff := cmp.Diff([]string{"Order.php:9", "OrderController.php:11"}, st.Selection); diff != "" {
		t.Fatalf("selection mismatch (-want +got):\n%s", diff)
	}
}

func TestNextExplanationFollowsCatalogOrder(t *testing.T) {
	a := newTestApp(t)
	a.OnOpenExplanation(201)
	a.OnNextExplanation()
	if got := a.State().ExplanationID; got != 202 {
		t.Fatalf("expected 202 after 201, got %d", got)
	}

	a.OnNextExplanation()
	if got := a.State().ExplanationID; got != 202 {
		t.Fatalf("expected to stay on the last explanation, got %d", got)
	}
	if err := a.Dispatch(devtools.Event{Type: devtools.EventOpenExplanation, ID: 201}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if err := a.Dispatch(devtools.Event{Type: devtools.EventNextExplanation}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if got := a.State().ExplanationID; got != 202 {
		t.Fatalf("expected dispatched next explanation, got %d", got)
	}
}

func TestUnknownIDShowsNotFound(t *testing.T) {
	a := newTestApp(t)
	a.OnOpenChallenge(999999)
	st := a.State()
	if st.Screen != "not_found" || st.NotFoundID != 999999 {
		t.Fatalf("expected not-found screen, got %+v", st)
	}
	a.OnOpenCatalog()
	if got := a.State().Screen; got != "catalog" {
		t.Fatalf("expected catalog after not-found, got %q", got)
	}

	a.OnOpenExplanation(4242)
	if st := a.State(); st.Screen != "not_found" || st.NotFoundID != 4242 {
		t.Fatalf("expected not-found for explanation, got %+v", st)
	}
}

func TestNextChallengeFollowsCatalogOrder(t *testing.T) {
	a := newTestApp(t)
	a.OnOpenChallenge(101)
	a.OnNextChallenge()
	if got := a.State().ChallengeID; got != 102 {
		t.Fatalf("expected 102 after 101, got %d", got)
	}

	a.OnOpenChallenge(103)
	if a.State().HasNext {
		t.Fatalf("expected last challenge to have no successor")
	}
	a.OnNextChallenge()
	if got := a.State().ChallengeID; got != 103 {
		t.Fatalf("expected to stay on 103, got %d", got)
	}
}

func TestExplanationFocusFollowsSteps(t *testing.T) {
	a := newTestApp(t)
	a.OnOpenExplanation(202)

	type pos struct {
		Step, Focus int
	}
	got := []pos{}
	record := func() {
		st := a.State()
		got = append(got, pos{st.StepIndex, st.FocusedFile})
	}

	record()
	a.OnStepNext()
	record()
	a.OnSwitchFile(2)
	record()
	a.OnStepNext()
	record()
	a.OnStepNext()
	record()
	a.OnStepNext()
	record()
	a.OnStepNext()
	record()

	want := []pos{{0, 0}, {1, 1}, {1, 2}, {2, 2}, {3, 1}, {4, 1}, {4, 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("walkthrough mismatch (-want +got):\n%s", diff)
	}

	a.OnStepKey("left")
	if got := a.State().StepIndex; got != 3 {
		t.Fatalf("expected left arrow to step back, got %d", got)
	}
	a.OnStepGoTo(99)
	if got := a.State().StepIndex; got != 4 {
		t.Fatalf("expected goto to clamp, got %d", got)
	}
}

func TestDispatchReplaysEvents(t *testing.T) {
	a := newTestApp(t)
	events := []devtools.Event{
		{Type: devtools.EventOpenChallenge, ID: 101},
		{Type: devtools.EventSelectLine, Line: 16},
		{Type: devtools.EventSubmit},
	}
	for _, ev := range events {
		if err := a.Dispatch(ev); err != nil {
			t.Fatalf("dispatch %s: %v", ev.Type, err)
		}
	}
	if st := a.State(); st.Result == nil || st.Result.Score != 1 {
		t.Fatalf("expected one finding, got %+v", st.Result)
	}

	err := a.Dispatch(devtools.Event{Type: "explode"})
	if !errors.Is(err, devtools.ErrUnknownEvent) {
		t.Fatalf("expected ErrUnknownEvent, got %v", err)
	}
}

func TestRunDemoScenarios(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		check func(devtools.State) bool
	}{
		{"results_perfect", func(st devtools.State) bool { return st.Perfect && st.ChallengeID == 101 }},
		{"results_partial", func(st devtools.State) bool {
			return st.Result != nil && st.Result.Score == 1 && len(st.Result.FalsePositives) == 1
		}},
		{"multi_file", func(st devtools.State) bool { return st.ChallengeID == 102 && st.Result == nil }},
		{"explanation_midway", func(st devtools.State) bool { return st.Screen == "explanation" && st.StepIndex == 2 }},
		{"not_found", func(st devtools.State) bool { return st.Screen == "not_found" }},
		{"bogus", func(st devtools.State) bool { return st.Screen == "catalog" }},
	}
	for _, tc := range cases {
		if _, err := a.RunDemo(ctx, tc.name); err != nil {
			t.Fatalf("demo %s: %v", tc.name, err)
		}
		st := a.State()
		if !tc.check(st) {
			t.Fatalf("demo %s produced unexpected state: %+v", tc.name, st)
		}
		if st.Pending || st.Error != "" {
			t.Fatalf("demo %s left pending/error state: %+v", tc.name, st)
		}
	}
}

func TestRunDemoHonoursCancelledContext(t *testing.T) {
	a := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := a.RunDemo(ctx, "results_perfect"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if st := a.State(); st.Error == "" {
		t.Fatalf("expected error recorded in dev state")
	}
}

func TestViewKeysDriveSelection(t *testing.T) {
	a := newTestApp(t)
	root, ok := a.view.(*ui.Root)
	if !ok {
		t.Fatalf("expected the bubbletea root view")
	}
	a.OnOpenChallenge(101)
	for i := 0; i < 12; i++ {
		_, _ = root.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	_, _ = root.Update(tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})
	_, _ = root.Update(tea.KeyPressMsg{Code: 's', Text: "s"})

	st := a.State()
	if diff := cmp.Diff([]string{"13"}, st.Selection); diff != "" {
		t.Fatalf("selection mismatch (-want +got):\n%s", diff)
	}
	if st.Result == nil || st.Result.Score != 1 {
		t.Fatalf("expected submit through the view, got %+v", st.Result)
	}
}

func TestLoadLibraryFromBundle(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	lib, err := LoadLibrary(ctx, cfg)
	if err != nil {
		t.Fatalf("load dir: %v", err)
	}
	path := filepath.Join(t.TempDir(), "content.db")
	if err := content.WriteBundle(ctx, path, lib, time.Unix(1700000000, 0)); err != nil {
		t.Fatalf("write bundle: %v", err)
	}

	cfg.BundlePath = path
	cfg.ContentDir = ""
	fromBundle, err := LoadLibrary(ctx, cfg)
	if err != nil {
		t.Fatalf("load bundle: %v", err)
	}
	if fromBundle.Fingerprint != lib.Fingerprint {
		t.Fatalf("fingerprint mismatch: %x vs %x", fromBundle.Fingerprint, lib.Fingerprint)
	}
}
