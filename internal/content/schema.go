package content

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"reviewdojo/internal/linekey"
)

const (
	// Fallback file names for records that only carry a flat code blob.
	DefaultChallengeFile   = "review.php"
	DefaultExplanationFile = "code.php"
)

type Level string

const (
	LevelEasy   Level = "Easy"
	LevelMedium Level = "Medium"
	LevelHard   Level = "Hard"
)

func (l Level) Valid() bool {
	switch l {
	case LevelEasy, LevelMedium, LevelHard:
		return true
	}
	return false
}

type ExplanationLevel string

const (
	LevelBeginner     ExplanationLevel = "Beginner"
	LevelIntermediate ExplanationLevel = "Intermediate"
	LevelAdvanced     ExplanationLevel = "Advanced"
)

func (l ExplanationLevel) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

type Category string

const (
	CategorySecurity     Category = "Security"
	CategoryLogic        Category = "Logic"
	CategorySyntax       Category = "Syntax"
	CategoryPerformance  Category = "Performance"
	CategoryBestPractice Category = "Best Practice"
)

// Categories lists every category in display order.
var Categories = []Category{CategorySecurity, CategoryLogic, CategorySyntax, CategoryPerformance, CategoryBestPractice}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type StepKind string

const (
	StepInfo    StepKind = "info"
	StepWarning StepKind = "warning"
	StepDanger  StepKind = "danger"
	StepTip     StepKind = "tip"
)

func (k StepKind) Valid() bool {
	switch k {
	case StepInfo, StepWarning, StepDanger, StepTip:
		return true
	}
	return false
}

type SourceFile struct {
	Name string `yaml:"name"`
	Code string `yaml:"code"`
}

// LineCount counts lines the way the viewer splits them.
func (f SourceFile) LineCount() int {
	return strings.Count(f.Code, "\n") + 1
}

// Lines splits the file into display lines.
func (f SourceFile) Lines() []string {
	return strings.Split(f.Code, "\n")
}

type Solution struct {
	File        string   `yaml:"file,omitempty"`
	Line        int      `yaml:"line"`
	Category    Category `yaml:"type"`
	Explanation string   `yaml:"explanation"`
}

type Challenge struct {
	ID          int          `yaml:"id"`
	Title       string       `yaml:"title"`
	Description string       `yaml:"description"`
	Level       Level        `yaml:"level"`
	Code        string       `yaml:"code,omitempty"`
	Files       []SourceFile `yaml:"files,omitempty"`
	Solution    []Solution   `yaml:"solution"`

	Sources []SourceFile `yaml:"-" hash:"ignore"`
	Mode    linekey.Mode `yaml:"-" hash:"ignore"`
}

func (c Challenge) EntryID() int { return c.ID }

// SourceFiles returns the normalized, non-empty file list.
func (c Challenge) SourceFiles() []SourceFile {
	if len(c.Sources) > 0 {
		return c.Sources
	}
	return normalizeFiles(c.Files, c.Code, DefaultChallengeFile)
}

// Addressing returns the line-key mode used for selections and solutions.
// Hydrated records use the mode stored at load time.
func (c Challenge) Addressing() linekey.Mode {
	if len(c.Sources) > 0 {
		return c.Mode
	}
	return linekey.ModeFor(len(c.SourceFiles()))
}

// SolutionKey maps a solution entry to its key under the challenge's mode.
func (c Challenge) SolutionKey(s Solution) linekey.Key {
	return c.Addressing().Key(s.Line, s.File)
}

// SolutionAt returns the solution entries whose key equals key.
func (c Challenge) SolutionAt(key linekey.Key) []Solution {
	var out []Solution
	for _, s := range c.Solution {
		if c.SolutionKey(s) == key {
			out = append(out, s)
		}
	}
	return out
}

// CategorySet returns the distinct solution categories in first-seen order.
func (c Challenge) CategorySet() []Category {
	seen := map[Category]struct{}{}
	out := []Category{}
	for _, s := range c.Solution {
		if _, ok := seen[s.Category]; ok {
			continue
		}
		seen[s.Category] = struct{}{}
		out = append(out, s.Category)
	}
	return out
}

type Step struct {
	ID          int      `yaml:"id"`
	File        string   `yaml:"file,omitempty"`
	Lines       []int    `yaml:"lines"`
	Title       string   `yaml:"title"`
	Explanation string   `yaml:"explanation"`
	Kind        StepKind `yaml:"type"`
}

// LastLine is the line after which the inline explanation is shown.
func (s Step) LastLine() int {
	last := 0
	for _, l := range s.Lines {
		if l > last {
			last = l
		}
	}
	return last
}

func (s Step) Highlights(line int) bool {
	for _, l := range s.Lines {
		if l == line {
			return true
		}
	}
	return false
}

type Explanation struct {
	ID          int              `yaml:"id"`
	Title       string           `yaml:"title"`
	Description string           `yaml:"description"`
	Level       ExplanationLevel `yaml:"level"`
	Category    string           `yaml:"category"`
	Code        string           `yaml:"code,omitempty"`
	Files       []SourceFile     `yaml:"files,omitempty"`
	Steps       []Step           `yaml:"steps"`

	Sources []SourceFile `yaml:"-" hash:"ignore"`
	Mode    linekey.Mode `yaml:"-" hash:"ignore"`
}

func (e Explanation) EntryID() int { return e.ID }

func (e Explanation) SourceFiles() []SourceFile {
	if len(e.Sources) > 0 {
		return e.Sources
	}
	return normalizeFiles(e.Files, e.Code, DefaultExplanationFile)
}

func (e Explanation) Addressing() linekey.Mode {
	if len(e.Sources) > 0 {
		return e.Mode
	}
	return linekey.ModeFor(len(e.SourceFiles()))
}

func normalizeFiles(files []SourceFile, code, fallback string) []SourceFile {
	if len(files) > 0 {
		return files
	}
	if code != "" {
		return []SourceFile{{Name: fallback, Code: code}}
	}
	return nil
}

func (c *Challenge) hydrate() {
	c.Sources = normalizeFiles(c.Files, c.Code, DefaultChallengeFile)
	c.Mode = linekey.ModeFor(len(c.Sources))
}

func (e *Explanation) hydrate() {
	for i := range e.Steps {
		if e.Steps[i].Kind == "" {
			e.Steps[i].Kind = StepInfo
		}
	}
	e.Sources = normalizeFiles(e.Files, e.Code, DefaultExplanationFile)
	e.Mode = linekey.ModeFor(len(e.Sources))
}

func (c Challenge) Validate() error {
	if c.ID <= 0 {
		return fmt.Errorf("id must be > 0")
	}
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if !c.Level.Valid() {
		return fmt.Errorf("invalid level %q", c.Level)
	}
	files := c.SourceFiles()
	if err := validateFiles(files); err != nil {
		return err
	}
	if len(c.Solution) == 0 {
		return fmt.Errorf("solution must contain at least one entry")
	}
	multi := len(files) > 1
	for i, s := range c.Solution {
		if !s.Category.Valid() {
			return fmt.Errorf("solution[%d]: invalid type %q", i, s.Category)
		}
		if multi && s.File == "" {
			return fmt.Errorf("solution[%d]: file is required for multi-file challenges", i)
		}
		target := files[0]
		if s.File != "" {
			f, err := lookupFile(files, s.File)
			if err != nil {
				return fmt.Errorf("solution[%d]: %w", i, err)
			}
			target = f
		}
		if s.Line < 1 || s.Line > target.LineCount() {
			return fmt.Errorf("solution[%d]: line %d outside %s (1..%d)", i, s.Line, target.Name, target.LineCount())
		}
	}
	return nil
}

func (e Explanation) Validate() error {
	if e.ID <= 0 {
		return fmt.Errorf("id must be > 0")
	}
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if !e.Level.Valid() {
		return fmt.Errorf("invalid level %q", e.Level)
	}
	files := e.SourceFiles()
	if err := validateFiles(files); err != nil {
		return err
	}
	if len(e.Steps) == 0 {
		return fmt.Errorf("steps must contain at least one entry")
	}
	for i, s := range e.Steps {
		if len(s.Lines) == 0 {
			return fmt.Errorf("steps[%d]: lines must not be empty", i)
		}
		if s.Kind != "" && !s.Kind.Valid() {
			return fmt.Errorf("steps[%d]: invalid type %q", i, s.Kind)
		}
		target := files[0]
		if s.File != "" {
			f, err := lookupFile(files, s.File)
			if err != nil {
				return fmt.Errorf("steps[%d]: %w", i, err)
			}
			target = f
		} else if len(files) > 1 {
			// Fileless steps highlight whichever file is focused.
			continue
		}
		for _, line := range s.Lines {
			if line < 1 || line > target.LineCount() {
				return fmt.Errorf("steps[%d]: line %d outside %s (1..%d)", i, line, target.Name, target.LineCount())
			}
		}
	}
	return nil
}

func validateFiles(files []SourceFile) error {
	if len(files) == 0 {
		return fmt.Errorf("code or files is required")
	}
	seen := map[string]struct{}{}
	for i, f := range files {
		if !linekey.ValidFileName(f.Name) {
			return fmt.Errorf("files[%d]: invalid name %q (must be non-empty and not contain %q)", i, f.Name, linekey.Separator)
		}
		if _, ok := seen[f.Name]; ok {
			return fmt.Errorf("duplicate file name %q", f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}

func lookupFile(files []SourceFile, name string) (SourceFile, error) {
	names := make([]string, 0, len(files))
	for _, f := range files {
		if f.Name == name {
			return f, nil
		}
		names = append(names, f.Name)
	}
	if hint := closestName(name, names); hint != "" {
		return SourceFile{}, fmt.Errorf("unknown file %q (did you mean %q?)", name, hint)
	}
	return SourceFile{}, fmt.Errorf("unknown file %q", name)
}

func closestName(name string, candidates []string) string {
	best, bestDist := "", 4
	for _, c := range candidates {
		if d := levenshtein.ComputeDistance(name, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
