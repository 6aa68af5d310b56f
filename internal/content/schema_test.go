package content

import (
	"strings"
	"testing"

	"reviewdojo/internal/linekey"
)

func validChallenge() Challenge {
	return Challenge{
		ID:    1,
		Title: "Tiny",
		Level: LevelEasy,
		Code:  "<?php\necho $x;\n",
		Solution: []Solution{
			{Line: 2, Category: CategoryLogic, Explanation: "undefined variable"},
		},
	}
}

func TestChallengeFallsBackToSyntheticFile(t *testing.T) {
	c := validChallenge()
	c.hydrate()
	if err := c.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	files := c.SourceFiles()
	if len(files) != 1 || files[0].Name != DefaultChallengeFile {
		t.Fatalf("expected synthetic %s, got %#v", DefaultChallengeFile, files)
	}
	if c.Mode != linekey.SingleFile || c.Addressing() != linekey.SingleFile {
		t.Fatalf("expected single-file addressing, got %s", c.Mode)
	}
	if got := c.SolutionKey(c.Solution[0]); got != "2" {
		t.Fatalf("expected key 2, got %q", got)
	}
}

func TestChallengeMultiFileAddressing(t *testing.T) {
	c := Challenge{
		ID:    2,
		Title: "Two",
		Level: LevelMedium,
		Files: []SourceFile{{Name: "a.php", Code: "1\n2\n3"}, {Name: "b.php", Code: "1\n2"}},
		Solution: []Solution{
			{File: "a.php", Line: 3, Category: CategorySecurity},
			{File: "a.php", Line: 3, Category: CategoryLogic},
			{File: "b.php", Line: 1, Category: CategorySecurity},
		},
	}
	c.hydrate()
	if err := c.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if c.Mode != linekey.MultiFile {
		t.Fatalf("expected multi-file mode")
	}
	if got := c.SolutionAt("a.php:3"); len(got) != 2 {
		t.Fatalf("expected two entries on a.php:3, got %d", len(got))
	}
	cats := c.CategorySet()
	if len(cats) != 2 || cats[0] != CategorySecurity || cats[1] != CategoryLogic {
		t.Fatalf("unexpected category set %v", cats)
	}
}

func TestAddressingUsesStoredMode(t *testing.T) {
	c := Challenge{Files: []SourceFile{{Name: "a.php", Code: "1"}, {Name: "b.php", Code: "1"}}}
	if c.Addressing() != linekey.MultiFile {
		t.Fatalf("expected computed multi-file mode before hydrate")
	}
	c.hydrate()
	c.Mode = linekey.SingleFile
	if c.Addressing() != linekey.SingleFile {
		t.Fatalf("expected the stored mode once hydrated")
	}

	e := Explanation{Code: "x"}
	e.hydrate()
	e.Mode = linekey.MultiFile
	if e.Addressing() != linekey.MultiFile {
		t.Fatalf("expected the stored explanation mode once hydrated")
	}
}

func TestChallengeValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Challenge)
		want   string
	}{
		{"missing id", func(c *Challenge) { c.ID = 0 }, "id must be > 0"},
		{"missing title", func(c *Challenge) { c.Title = " " }, "title is required"},
		{"bad level", func(c *Challenge) { c.Level = "Brutal" }, "invalid level"},
		{"no code", func(c *Challenge) { c.Code = "" }, "code or files is required"},
		{"empty solution", func(c *Challenge) { c.Solution = nil }, "at least one entry"},
		{"bad category", func(c *Challenge) { c.Solution[0].Category = "Style" }, "invalid type"},
		{"line out of range", func(c *Challenge) { c.Solution[0].Line = 40 }, "outside review.php"},
		{"unknown file", func(c *Challenge) { c.Solution[0].File = "nope.php" }, "unknown file"},
		{"separator in name", func(c *Challenge) {
			c.Code = ""
			c.Files = []SourceFile{{Name: "a:b.php", Code: "x"}}
		}, "invalid name"},
		{"duplicate names", func(c *Challenge) {
			c.Code = ""
			c.Files = []SourceFile{{Name: "a.php", Code: "x"}, {Name: "a.php", Code: "y"}}
		}, "duplicate file name"},
		{"multi-file needs file", func(c *Challenge) {
			c.Code = ""
			c.Files = []SourceFile{{Name: "a.php", Code: "x\ny"}, {Name: "b.php", Code: "x\ny"}}
		}, "file is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validChallenge()
			tt.mutate(&c)
			c.hydrate()
			err := c.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestUnknownFileSuggestsClosestName(t *testing.T) {
	c := Challenge{
		ID:       3,
		Title:    "Typo",
		Level:    LevelHard,
		Files:    []SourceFile{{Name: "User.php", Code: "x"}, {Name: "Order.php", Code: "y"}},
		Solution: []Solution{{File: "Oder.php", Line: 1, Category: CategoryLogic}},
	}
	c.hydrate()
	err := c.Validate()
	if err == nil || !strings.Contains(err.Error(), `did you mean "Order.php"`) {
		t.Fatalf("expected suggestion, got %v", err)
	}
}

func TestExplanationDefaultsAndValidation(t *testing.T) {
	e := Explanation{
		ID:    1,
		Title: "Walkthrough",
		Level: LevelBeginner,
		Files: []SourceFile{{Name: "a.php", Code: "1\n2\n3"}, {Name: "b.php", Code: "1"}},
		Steps: []Step{
			{ID: 1, File: "a.php", Lines: []int{1, 3}},
			{ID: 2, Lines: []int{7}, Kind: StepTip},
		},
	}
	e.hydrate()
	if err := e.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if e.Steps[0].Kind != StepInfo {
		t.Fatalf("expected default kind info, got %q", e.Steps[0].Kind)
	}
	if e.Steps[0].LastLine() != 3 || !e.Steps[0].Highlights(1) || e.Steps[0].Highlights(2) {
		t.Fatalf("unexpected step line helpers")
	}

	e.Steps[1].Lines = nil
	if err := e.Validate(); err == nil || !strings.Contains(err.Error(), "lines must not be empty") {
		t.Fatalf("expected empty lines error, got %v", err)
	}
	e.Steps[1].Lines = []int{1}
	e.Steps[1].File = "c.php"
	if err := e.Validate(); err == nil || !strings.Contains(err.Error(), "unknown file") {
		t.Fatalf("expected unknown file error, got %v", err)
	}
}

func TestExplanationSingleFileChecksStepRange(t *testing.T) {
	e := Explanation{
		ID:    2,
		Title: "Flat",
		Level: LevelAdvanced,
		Code:  "a\nb",
		Steps: []Step{{ID: 1, Lines: []int{3}}},
	}
	e.hydrate()
	if err := e.Validate(); err == nil || !strings.Contains(err.Error(), "outside code.php") {
		t.Fatalf("expected range error, got %v", err)
	}
}
