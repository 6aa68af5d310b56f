package grading

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"reviewdojo/internal/content"
	"reviewdojo/internal/linekey"
)

func keys(ss ...string) []linekey.Key {
	out := make([]linekey.Key, 0, len(ss))
	for _, s := range ss {
		out = append(out, linekey.Key(s))
	}
	return out
}

func singleFileSolution() []content.Solution {
	return []content.Solution{
		{Line: 4, Category: content.CategorySecurity, Explanation: "sql injection"},
		{Line: 9, Category: content.CategoryLogic, Explanation: "off by one"},
	}
}

func TestValidatePerfect(t *testing.T) {
	res := Validate(keys("9", "4"), singleFileSolution(), linekey.SingleFile)
	if diff := cmp.Diff(keys("9", "4"), res.Found); diff != "" {
		t.Fatalf("found mismatch (-want +got):\n%s", diff)
	}
	if len(res.Missed) != 0 || len(res.FalsePositives) != 0 {
		t.Fatalf("unexpected missed/false positives: %#v", res)
	}
	if res.Score != 2 || res.Total != 2 {
		t.Fatalf("expected 2/2, got %d/%d", res.Score, res.Total)
	}
	if !res.IsPerfect() || res.Percentage() != 100 || res.Verdict() != VerdictPerfect {
		t.Fatalf("expected perfect result, got %#v", res)
	}
}

func TestValidatePartialWithFalsePositive(t *testing.T) {
	res := Validate(keys("2", "4"), singleFileSolution(), linekey.SingleFile)
	want := Result{
		Found:          keys("4"),
		Missed:         keys("9"),
		FalsePositives: keys("2"),
		Score:          1,
		Total:          2,
	}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
	if res.Percentage() != 50 {
		t.Fatalf("expected 50%%, got %d", res.Percentage())
	}
	if res.IsPerfect() {
		t.Fatalf("false positive must not be perfect")
	}
	if res.Verdict() != VerdictWellDone {
		t.Fatalf("expected well_done, got %s", res.Verdict())
	}
}

func TestValidateAllFoundPlusFalsePositiveIsNotPerfect(t *testing.T) {
	res := Validate(keys("4", "9", "1"), singleFileSolution(), linekey.SingleFile)
	if res.Percentage() != 100 {
		t.Fatalf("expected 100%%, got %d", res.Percentage())
	}
	if res.IsPerfect() {
		t.Fatalf("expected not perfect with a false positive")
	}
}

func TestValidateMultiFileKeys(t *testing.T) {
	solution := []content.Solution{
		{File: "UserController.php", Line: 12, Category: content.CategorySecurity},
		{File: "User.php", Line: 3, Category: content.CategoryBestPractice},
	}
	res := Validate(keys("UserController.php:12", "User.php:12"), solution, linekey.MultiFile)
	if diff := cmp.Diff(keys("UserController.php:12"), res.Found); diff != "" {
		t.Fatalf("found mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(keys("User.php:3"), res.Missed); diff != "" {
		t.Fatalf("missed mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(keys("User.php:12"), res.FalsePositives); diff != "" {
		t.Fatalf("false positives mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateSingleFileModeIgnoresSolutionFile(t *testing.T) {
	solution := []content.Solution{{File: "review.php", Line: 7, Category: content.CategorySyntax}}
	res := Validate(keys("7"), solution, linekey.SingleFile)
	if !res.IsPerfect() {
		t.Fatalf("expected bare line key to match in single-file mode, got %#v", res)
	}
	res = Validate(keys("review.php:7"), solution, linekey.SingleFile)
	if res.Score != 0 || len(res.FalsePositives) != 1 {
		t.Fatalf("expected qualified key to miss in single-file mode, got %#v", res)
	}
}

func TestValidatePartitionsSelectionAndSolution(t *testing.T) {
	solution := singleFileSolution()
	selected := keys("1", "4", "5", "6")
	res := Validate(selected, solution, linekey.SingleFile)

	if len(res.Found)+len(res.FalsePositives) != len(selected) {
		t.Fatalf("found+false positives must cover the selection: %#v", res)
	}
	if len(res.Found)+len(res.Missed) != res.Total {
		t.Fatalf("found+missed must cover the solution: %#v", res)
	}
	for _, k := range res.Found {
		if res.Outcome(k) != OutcomeFound {
			t.Fatalf("expected %s classified as found", k)
		}
	}
	if res.Outcome("77") != OutcomeNone {
		t.Fatalf("expected unrelated key to be unclassified")
	}
}

func TestValidateIsIdempotent(t *testing.T) {
	selected := keys("9", "3")
	a := Validate(selected, singleFileSolution(), linekey.SingleFile)
	b := Validate(selected, singleFileSolution(), linekey.SingleFile)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("repeated validation differs:\n%s", diff)
	}
}

func TestValidateDuplicateSolutionEntriesCountInTotal(t *testing.T) {
	solution := []content.Solution{
		{Line: 5, Category: content.CategorySecurity},
		{Line: 5, Category: content.CategoryPerformance},
	}
	res := Validate(keys("5"), solution, linekey.SingleFile)
	if res.Total != 2 || res.Score != 1 {
		t.Fatalf("expected 1/2 with duplicate entries, got %d/%d", res.Score, res.Total)
	}
	if len(res.Missed) != 0 {
		t.Fatalf("selected line must not be reported missed: %#v", res.Missed)
	}
	if res.IsPerfect() {
		t.Fatalf("duplicate entries cannot be perfect with a single selection")
	}
}

func TestValidateEmptySolutionGuardsPercentage(t *testing.T) {
	res := Validate(keys("1"), nil, linekey.SingleFile)
	if res.Total != 0 || res.Percentage() != 0 {
		t.Fatalf("expected zero total and percentage, got %#v", res)
	}
	if res.Verdict() != VerdictKeepPracticing {
		t.Fatalf("expected keep_practicing, got %s", res.Verdict())
	}
}

func TestValidateEmptySelection(t *testing.T) {
	res := Validate(nil, singleFileSolution(), linekey.SingleFile)
	if diff := cmp.Diff(keys("4", "9"), res.Missed); diff != "" {
		t.Fatalf("missed mismatch (-want +got):\n%s", diff)
	}
	if res.Verdict() != VerdictKeepPracticing {
		t.Fatalf("expected keep_practicing, got %s", res.Verdict())
	}
}

func TestGraderUsesChallengeMode(t *testing.T) {
	ch := content.Challenge{
		ID:    1,
		Title: "Two files",
		Level: content.LevelEasy,
		Files: []content.SourceFile{
			{Name: "a.php", Code: "<?php\necho 1;\n"},
			{Name: "b.php", Code: "<?php\necho 2;\n"},
		},
		Solution: []content.Solution{{File: "b.php", Line: 2, Category: content.CategoryLogic}},
	}
	g := NewGrader()
	if res := g.Grade(keys("b.php:2"), ch); !res.IsPerfect() {
		t.Fatalf("expected perfect multi-file grade, got %#v", res)
	}
	if res := g.Grade(keys("2"), ch); res.Score != 0 {
		t.Fatalf("expected bare key to miss in multi-file mode, got %#v", res)
	}
}

func TestBreakdownByCategory(t *testing.T) {
	solution := []content.Solution{
		{Line: 1, Category: content.CategoryLogic},
		{Line: 2, Category: content.CategorySecurity},
		{Line: 3, Category: content.CategorySecurity},
	}
	res := Validate(keys("2", "1"), solution, linekey.SingleFile)
	got := Breakdown(res, solution, linekey.SingleFile)
	want := []CategoryCount{
		{Category: content.CategorySecurity, Found: 1, Missed: 1},
		{Category: content.CategoryLogic, Found: 1, Missed: 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("breakdown mismatch (-want +got):\n%s", diff)
	}
}
