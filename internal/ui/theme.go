package ui

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

type Theme struct {
	Header        lipgloss.Style
	Status        lipgloss.Style
	PanelTitle    lipgloss.Style
	PanelBorder   lipgloss.Style
	PanelBody     lipgloss.Style
	Accent        lipgloss.Style
	Pass          lipgloss.Style
	Fail          lipgloss.Style
	Pending       lipgloss.Style
	Muted         lipgloss.Style
	Info          lipgloss.Style
	LineNumber    lipgloss.Style
	Cursor        lipgloss.Style
	Selected      lipgloss.Style
	Highlight     lipgloss.Style
	TabActive     lipgloss.Style
	TabInactive   lipgloss.Style
	Found         lipgloss.Style
	Missed        lipgloss.Style
	FalsePositive lipgloss.Style
}

func DefaultTheme() Theme {
	return ThemeForVariant("midnight")
}

func ThemeForVariant(variant string) Theme {
	switch variant {
	case "daylight":
		return daylightTheme()
	case "phosphor":
		return phosphorTheme()
	default:
		return midnightTheme()
	}
}

type palette struct {
	bg, bar, fg, muted, border color.Color
	accent, pass, fail, warn   color.Color
	selectBg, highlightBg      color.Color
}

func themeFromPalette(p palette) Theme {
	return Theme{
		Header:        lipgloss.NewStyle().Background(p.bg).Foreground(p.fg).Padding(0, 1),
		Status:        lipgloss.NewStyle().Background(p.bar).Foreground(p.fg).Padding(0, 1),
		PanelTitle:    lipgloss.NewStyle().Foreground(p.accent).Bold(true),
		PanelBorder:   lipgloss.NewStyle().Foreground(p.border),
		PanelBody:     lipgloss.NewStyle().Foreground(p.fg),
		Accent:        lipgloss.NewStyle().Foreground(p.accent).Bold(true),
		Pass:          lipgloss.NewStyle().Foreground(p.pass).Bold(true),
		Fail:          lipgloss.NewStyle().Foreground(p.fail).Bold(true),
		Pending:       lipgloss.NewStyle().Foreground(p.warn),
		Muted:         lipgloss.NewStyle().Foreground(p.muted),
		Info:          lipgloss.NewStyle().Foreground(p.accent),
		LineNumber:    lipgloss.NewStyle().Foreground(p.muted),
		Cursor:        lipgloss.NewStyle().Foreground(p.accent).Bold(true),
		Selected:      lipgloss.NewStyle().Background(p.selectBg),
		Highlight:     lipgloss.NewStyle().Background(p.highlightBg),
		TabActive:     lipgloss.NewStyle().Foreground(p.bg).Background(p.accent).Bold(true).Padding(0, 1),
		TabInactive:   lipgloss.NewStyle().Foreground(p.muted).Padding(0, 1),
		Found:         lipgloss.NewStyle().Foreground(p.pass).Bold(true),
		Missed:        lipgloss.NewStyle().Foreground(p.warn).Bold(true),
		FalsePositive: lipgloss.NewStyle().Foreground(p.fail).Bold(true),
	}
}

func midnightTheme() Theme {
	return themeFromPalette(palette{
		bg:          lipgloss.Color("#0E1420"),
		bar:         lipgloss.Color("#1B2740"),
		fg:          lipgloss.Color("#EAF2FF"),
		muted:       lipgloss.Color("#9CAAC6"),
		border:      lipgloss.Color("#4B5F8A"),
		accent:      lipgloss.Color("#5EEBFF"),
		pass:        lipgloss.Color("#67F0A8"),
		fail:        lipgloss.Color("#FF6F91"),
		warn:        lipgloss.Color("#FFC857"),
		selectBg:    lipgloss.Color("#3A2A12"),
		highlightBg: lipgloss.Color("#1F3B5C"),
	})
}

func daylightTheme() Theme {
	return themeFromPalette(palette{
		bg:          lipgloss.Color("#1E2430"),
		bar:         lipgloss.Color("#30394A"),
		fg:          lipgloss.Color("#F4F6FA"),
		muted:       lipgloss.Color("#A3ACC2"),
		border:      lipgloss.Color("#4A5972"),
		accent:      lipgloss.Color("#86B6F6"),
		pass:        lipgloss.Color("#80C4A3"),
		fail:        lipgloss.Color("#D17A86"),
		warn:        lipgloss.Color("#F2B872"),
		selectBg:    lipgloss.Color("#4A3B22"),
		highlightBg: lipgloss.Color("#2C3E5A"),
	})
}

func phosphorTheme() Theme {
	return themeFromPalette(palette{
		bg:          lipgloss.Color("#07150A"),
		bar:         lipgloss.Color("#12301A"),
		fg:          lipgloss.Color("#C5F7C4"),
		muted:       lipgloss.Color("#73A17A"),
		border:      lipgloss.Color("#1F5C2F"),
		accent:      lipgloss.Color("#9CF5A2"),
		pass:        lipgloss.Color("#9CF5A2"),
		fail:        lipgloss.Color("#FF6B6B"),
		warn:        lipgloss.Color("#E5D47A"),
		selectBg:    lipgloss.Color("#2B3A10"),
		highlightBg: lipgloss.Color("#174022"),
	})
}

// Descriptor is the presentation of one enum value.
type Descriptor struct {
	Label string
	Glyph string
	ASCII string
	Color color.Color
}

func (d Descriptor) Badge(ascii bool) string {
	g := d.Glyph
	if ascii {
		g = d.ASCII
	}
	return lipgloss.NewStyle().Foreground(d.Color).Render(g + " " + d.Label)
}

func (d Descriptor) Mark(ascii bool) string {
	if ascii {
		return d.ASCII
	}
	return d.Glyph
}

var categoryDescriptors = map[string]Descriptor{
	"Security":      {Label: "Security", Glyph: "⚑", ASCII: "S", Color: lipgloss.Color("#FF6F91")},
	"Logic":         {Label: "Logic", Glyph: "⚙", ASCII: "L", Color: lipgloss.Color("#5EEBFF")},
	"Syntax":        {Label: "Syntax", Glyph: "⌨", ASCII: "X", Color: lipgloss.Color("#B48EFF")},
	"Performance":   {Label: "Performance", Glyph: "↯", ASCII: "P", Color: lipgloss.Color("#FFC857")},
	"Best Practice": {Label: "Best Practice", Glyph: "✔", ASCII: "B", Color: lipgloss.Color("#67F0A8")},
}

var unknownCategory = Descriptor{Label: "Other", Glyph: "•", ASCII: "?", Color: lipgloss.Color("#9CAAC6")}

func DescribeCategory(name string) Descriptor {
	if d, ok := categoryDescriptors[name]; ok {
		return d
	}
	d := unknownCategory
	if name != "" {
		d.Label = name
	}
	return d
}

var stepKindDescriptors = map[string]Descriptor{
	"info":    {Label: "Info", Glyph: "ℹ", ASCII: "i", Color: lipgloss.Color("#5EEBFF")},
	"warning": {Label: "Warning", Glyph: "⚠", ASCII: "!", Color: lipgloss.Color("#FFC857")},
	"danger":  {Label: "Danger", Glyph: "✖", ASCII: "x", Color: lipgloss.Color("#FF6F91")},
	"tip":     {Label: "Tip", Glyph: "✦", ASCII: "*", Color: lipgloss.Color("#67F0A8")},
}

func DescribeStepKind(kind string) Descriptor {
	if d, ok := stepKindDescriptors[kind]; ok {
		return d
	}
	return stepKindDescriptors["info"]
}

var categoryPriority = []string{"Security", "Performance", "Logic"}

// PrimaryCategory picks the catalog icon for a challenge: Security, then
// Performance, then Logic, else the first category listed.
func PrimaryCategory(categories []string) string {
	for _, want := range categoryPriority {
		for _, c := range categories {
			if c == want {
				return c
			}
		}
	}
	if len(categories) > 0 {
		return categories[0]
	}
	return ""
}

var levelColors = map[string]color.Color{
	"Easy":         lipgloss.Color("#67F0A8"),
	"Beginner":     lipgloss.Color("#67F0A8"),
	"Medium":       lipgloss.Color("#FFC857"),
	"Intermediate": lipgloss.Color("#FFC857"),
	"Hard":         lipgloss.Color("#FF6F91"),
	"Advanced":     lipgloss.Color("#FF6F91"),
}

func levelBadge(level string) string {
	c, ok := levelColors[level]
	if !ok {
		return level
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true).Render(level)
}

func normalizeStyleVariant(v string) string {
	switch v {
	case "midnight", "daylight", "phosphor":
		return v
	default:
		return "midnight"
	}
}
