package ui

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// highlighter colours source lines with chroma. Results are cached by file
// name and source.
type highlighter struct {
	style *chroma.Style
	cache map[string][]string
}

func newHighlighter(styleName string) *highlighter {
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}
	return &highlighter{style: style, cache: map[string][]string{}}
}

// Lines returns one rendered string per source line, or nil when the code
// cannot be tokenised. Callers fall back to the plain text.
func (h *highlighter) Lines(file string, lines []string) []string {
	if h == nil || len(lines) == 0 {
		return nil
	}
	source := strings.Join(lines, "\n")
	cacheKey := file + "\x00" + source
	if out, ok := h.cache[cacheKey]; ok {
		return out
	}
	lexer := lexers.Match(file)
	if lexer == nil {
		lexer = lexers.Analyse(source)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)
	it, err := lexer.Tokenise(nil, source)
	if err != nil {
		return nil
	}
	rows := chroma.SplitTokensIntoLines(it.Tokens())
	out := make([]string, len(lines))
	for i := range lines {
		if i >= len(rows) {
			out[i] = lines[i]
			continue
		}
		var b strings.Builder
		for _, tok := range rows[i] {
			text := strings.TrimRight(tok.Value, "\n")
			if text == "" {
				continue
			}
			b.WriteString(h.tokenStyle(tok.Type).Render(text))
		}
		out[i] = b.String()
	}
	h.cache[cacheKey] = out
	return out
}

func (h *highlighter) tokenStyle(tt chroma.TokenType) lipgloss.Style {
	entry := h.style.Get(tt)
	st := lipgloss.NewStyle()
	if entry.Colour.IsSet() {
		st = st.Foreground(lipgloss.Color(entry.Colour.String()))
	}
	if entry.Bold == chroma.Yes {
		st = st.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		st = st.Italic(true)
	}
	return st
}
