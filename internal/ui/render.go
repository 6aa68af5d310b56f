package ui

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/key"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize/english"
)

// codeRow is one rendered row of a code panel. line is the source line
// number, or 0 for annotation rows.
type codeRow struct {
	text string
	line int
}

func (r *Root) render() string {
	if r.cols < 1 {
		r.cols = 120
	}
	if r.rows < 1 {
		r.rows = 30
	}
	r.hits = r.hits[:0]
	if r.layout == LayoutTooSmall {
		return r.renderTooSmall()
	}
	switch r.screen {
	case ScreenChallenge:
		return r.renderChallenge()
	case ScreenExplanation:
		return r.renderExplanation()
	case ScreenNotFound:
		return r.renderNotFound()
	default:
		return r.renderCatalog()
	}
}

func (r *Root) renderTooSmall() string {
	lines := []string{
		r.theme.Fail.Render("Terminal too small"),
		fmt.Sprintf("Need at least 60x16, have %dx%d", r.cols, r.rows),
	}
	return lipgloss.Place(r.cols, r.rows, lipgloss.Center, lipgloss.Center, strings.Join(lines, "\n"))
}

func (r *Root) renderCatalog() string {
	bodyRows := r.rows - 2
	listW, listH, sideW, sideH := codePanelSize(r.layout, r.cols, bodyRows)

	var rows []codeRow
	focusRow := 0
	item := func(index int, text string) {
		if index == r.catalogIndex {
			focusRow = len(rows)
			text = r.theme.Cursor.Render(r.cursorMark()) + " " + text
		} else {
			text = "  " + text
		}
		rows = append(rows, codeRow{text: text, line: index + 1})
	}

	rows = append(rows, codeRow{text: r.theme.Accent.Render("Challenges")})
	if len(r.catalog.Challenges) == 0 {
		rows = append(rows, codeRow{text: r.theme.Muted.Render("  none loaded")})
	}
	for i, c := range r.catalog.Challenges {
		mark := DescribeCategory(PrimaryCategory(c.Categories))
		text := fmt.Sprintf("%s #%d %s  %s %s",
			lipgloss.NewStyle().Foreground(mark.Color).Render(mark.Mark(r.ascii)),
			c.ID, c.Title, levelBadge(c.Level),
			r.theme.Muted.Render("· "+english.Plural(c.ErrorCount, "issue", "")))
		item(i, text)
	}
	rows = append(rows, codeRow{}, codeRow{text: r.theme.Accent.Render("Explanations")})
	if len(r.catalog.Explanations) == 0 {
		rows = append(rows, codeRow{text: r.theme.Muted.Render("  none loaded")})
	}
	offset := len(r.catalog.Challenges)
	for i, e := range r.catalog.Explanations {
		text := fmt.Sprintf("%s #%d %s  %s %s",
			r.theme.Info.Render(r.bookMark()),
			e.ID, e.Title, levelBadge(e.Level),
			r.theme.Muted.Render("· "+english.Plural(e.StepCount, "step", "")))
		item(offset+i, text)
	}

	innerH := max(1, listH-2)
	r.catalogTop = scrollTo(r.catalogTop, focusRow, innerH, len(rows))
	visible := rows[r.catalogTop:min(len(rows), r.catalogTop+innerH)]
	lines := make([]string, 0, len(visible))
	for i, row := range visible {
		lines = append(lines, row.text)
		if row.line == 0 {
			continue
		}
		index := row.line - 1
		r.hits = append(r.hits, hitZone{
			x0: 1, y0: 2 + i, x1: listW - 1, y1: 3 + i,
			action: func(int, int) {
				r.catalogIndex = index
				r.openCatalogEntry(index)
			},
		})
	}
	title := "Catalog · " + english.Plural(len(r.catalog.Challenges), "challenge", "") + " · " + english.Plural(r.catalog.ErrorCount, "issue", "") + " to find"
	list := r.drawPanel(title, lines, listW, listH)
	side := r.drawPanel("Details", r.catalogDetailLines(sideW-2), sideW, sideH)

	return strings.Join([]string{r.headerLine("Catalog"), r.joinBody(list, side), r.footerLine()}, "\n")
}

func (r *Root) catalogDetailLines(width int) []string {
	idx := r.catalogIndex
	if idx < len(r.catalog.Challenges) {
		c := r.catalog.Challenges[idx]
		lines := []string{r.theme.Accent.Render(c.Title), levelBadge(c.Level), ""}
		lines = append(lines, r.richText(c.Description, width)...)
		lines = append(lines, "")
		for _, cat := range c.Categories {
			lines = append(lines, DescribeCategory(cat).Badge(r.ascii))
		}
		lines = append(lines, "", english.Plural(c.ErrorCount, "issue", "")+" hidden in "+english.Plural(max(1, c.FileCount), "file", ""))
		return append(lines, r.theme.Muted.Render("enter to start reviewing"))
	}
	idx -= len(r.catalog.Challenges)
	if idx < 0 || idx >= len(r.catalog.Explanations) {
		return []string{r.theme.Muted.Render("Nothing to show.")}
	}
	e := r.catalog.Explanations[idx]
	lines := []string{r.theme.Accent.Render(e.Title), levelBadge(e.Level) + r.theme.Muted.Render(" · "+e.Category), ""}
	lines = append(lines, r.richText(e.Description, width)...)
	lines = append(lines, "", english.Plural(e.StepCount, "step", "")+" across "+english.Plural(max(1, e.FileCount), "file", ""))
	return append(lines, r.theme.Muted.Render("enter to start the walkthrough"))
}

func (r *Root) renderChallenge() string {
	st := r.challenge
	bodyRows := r.rows - 3
	codeW, codeH, sideW, sideH := codePanelSize(r.layout, r.cols, bodyRows)
	tabs := r.renderTabs(st.Files, st.ActiveFile, 1)

	rows, cursorRow := r.challengeRows(codeW - 2)
	innerH := max(1, codeH-2)
	r.codeTop = scrollTo(r.codeTop, cursorRow, innerH, len(rows))
	file := st.ActiveFile
	lines := r.visibleCodeRows(rows, innerH, codeW, 0, 2, func(line int) {
		r.cursor = r.lineIndex(line)
		if r.challenge.Result == nil {
			r.dispatchController(func(c Controller) { c.OnSelectLine(file, line) })
		}
	})
	code := r.drawPanel(activeFileName(st.Files, st.ActiveFile), lines, codeW, codeH)
	side := r.drawPanel("Review", r.challengeSideLines(sideW-2), sideW, sideH)

	header := r.headerLine(fmt.Sprintf("Challenge #%d · %s", st.ID, st.Title))
	return strings.Join([]string{header, tabs, r.joinBody(code, side), r.footerLine()}, "\n")
}

func (r *Root) challengeRows(width int) ([]codeRow, int) {
	st := r.challenge
	texts := r.codeTexts(st.Files, st.ActiveFile, st.Lines)
	numW := len(strconv.Itoa(len(st.Lines)))
	rows := make([]codeRow, 0, len(st.Lines))
	cursorRow := 0
	for i, ln := range st.Lines {
		cursor := " "
		if i == r.cursor {
			cursor = r.theme.Cursor.Render(r.cursorMark())
			cursorRow = len(rows)
		}
		num := fmt.Sprintf("%*d", numW, ln.Number)
		if ln.Selected {
			num = r.theme.Selected.Render(num)
		} else {
			num = r.theme.LineNumber.Render(num)
		}
		rows = append(rows, codeRow{
			text: cursor + r.outcomeMark(ln) + num + " " + texts[i],
			line: ln.Number,
		})
		indent := strings.Repeat(" ", numW+3)
		for _, note := range ln.Notes {
			badge := DescribeCategory(note.Category).Badge(r.ascii)
			wrapped := wrapText(note.Text, max(10, width-numW-6))
			for j, w := range wrapped {
				if j == 0 {
					rows = append(rows, codeRow{text: indent + r.theme.Muted.Render(r.elbow()) + badge + " " + w})
					continue
				}
				rows = append(rows, codeRow{text: indent + "  " + w})
			}
		}
	}
	return rows, cursorRow
}

func (r *Root) outcomeMark(ln CodeLine) string {
	switch ln.Outcome {
	case OutcomeFound:
		return r.theme.Found.Render(r.pick("✓", "+"))
	case OutcomeMissed:
		return r.theme.Missed.Render("!")
	case OutcomeFalsePositive:
		return r.theme.FalsePositive.Render(r.pick("✗", "x"))
	}
	if ln.Selected {
		return r.theme.Accent.Render(r.pick("●", "*"))
	}
	return " "
}

func (r *Root) challengeSideLines(width int) []string {
	st := r.challenge
	lines := []string{r.theme.Accent.Render(st.Title) + "  " + levelBadge(st.Level), ""}
	lines = append(lines, r.richText(st.Description, width)...)
	lines = append(lines, "", fmt.Sprintf("%s selected · %s to find",
		english.Plural(st.SelectedCount, "line", ""),
		english.Plural(st.ErrorCount, "issue", "")))

	res := st.Result
	if res == nil {
		if st.CanSubmit {
			lines = append(lines, r.theme.Muted.Render("Press s to submit your review."))
		} else {
			lines = append(lines, r.theme.Muted.Render("Mark suspicious lines with space."))
		}
		return lines
	}

	lines = append(lines, "", r.verdictLine(res.Verdict),
		fmt.Sprintf("Found %d / %d (%d%%)", res.Score, res.Total, res.Percentage))
	if res.FalsePositives > 0 {
		lines = append(lines, r.theme.FalsePositive.Render(english.Plural(res.FalsePositives, "false positive", "")))
	}
	if len(res.Breakdown) > 0 {
		lines = append(lines, "", r.theme.Muted.Render("By category"))
		for _, row := range res.Breakdown {
			lines = append(lines, fmt.Sprintf("%s  %d found, %d missed", DescribeCategory(row.Category).Badge(r.ascii), row.Found, row.Missed))
		}
	}
	lines = append(lines, "",
		r.theme.Found.Render(r.pick("✓", "+"))+" found  "+
			r.theme.Missed.Render("!")+" missed  "+
			r.theme.FalsePositive.Render(r.pick("✗", "x"))+" false positive")
	nav := "r retry"
	if st.HasNext {
		nav += " · n next challenge"
	}
	return append(lines, r.theme.Muted.Render(nav))
}

func (r *Root) verdictLine(verdict string) string {
	switch verdict {
	case "perfect":
		return r.theme.Pass.Render("Perfect review!")
	case "well_done":
		return r.theme.Accent.Render("Well done!")
	default:
		return r.theme.Fail.Render("Keep practicing")
	}
}

func (r *Root) renderExplanation() string {
	st := r.explanation
	bodyRows := r.rows - 3
	codeW, codeH, sideW, sideH := codePanelSize(r.layout, r.cols, bodyRows)
	tabs := r.renderTabs(st.Files, st.ActiveFile, 1)

	rows, first, last := r.explanationRows(codeW - 2)
	innerH := max(1, codeH-2)
	if r.anchorPending {
		r.codeTop = scrollTo(r.codeTop, last, innerH, len(rows))
		r.codeTop = scrollTo(r.codeTop, first, innerH, len(rows))
		r.anchorPending = false
	} else {
		r.codeTop = scrollTo(r.codeTop, r.codeTop, innerH, len(rows))
	}
	lines := r.visibleCodeRows(rows, innerH, codeW, 0, 2, nil)
	code := r.drawPanel(activeFileName(st.Files, st.ActiveFile), lines, codeW, codeH)

	sideX, sideY := codeW, 2
	if r.layout != LayoutWide {
		sideX, sideY = 0, 2+codeH
	}
	side := r.drawPanel("Walkthrough", r.explanationSideLines(sideW-2, sideX, sideY), sideW, sideH)

	header := r.headerLine(fmt.Sprintf("Explanation #%d · %s", st.ID, st.Title))
	return strings.Join([]string{header, tabs, r.joinBody(code, side), r.footerLine()}, "\n")
}

// explanationRows returns the code rows plus the first highlighted row and
// the last row of the inline step block, for scrolling.
func (r *Root) explanationRows(width int) ([]codeRow, int, int) {
	st := r.explanation
	texts := r.codeTexts(st.Files, st.ActiveFile, st.Lines)
	numW := len(strconv.Itoa(len(st.Lines)))
	rows := make([]codeRow, 0, len(st.Lines))
	first, last := -1, -1
	for i, ln := range st.Lines {
		bar := " "
		num := r.theme.LineNumber.Render(fmt.Sprintf("%*d", numW, ln.Number))
		if ln.Highlighted {
			bar = r.theme.Accent.Render(r.pick("▌", "|"))
			num = r.theme.Highlight.Render(fmt.Sprintf("%*d", numW, ln.Number))
			if first < 0 {
				first = len(rows)
			}
			last = len(rows)
		}
		rows = append(rows, codeRow{text: bar + num + " " + texts[i], line: ln.Number})
		if st.ShowInline && ln.Number == st.Step.LastLine {
			rows = append(rows, r.inlineStepRows(width, numW+2)...)
			last = len(rows) - 1
		}
	}
	if first < 0 {
		first = 0
	}
	if last < 0 {
		last = first
	}
	return rows, first, last
}

func (r *Root) inlineStepRows(width, indentW int) []codeRow {
	step := r.explanation.Step
	kind := DescribeStepKind(step.Kind)
	indent := strings.Repeat(" ", indentW)
	edge := lipgloss.NewStyle().Foreground(kind.Color).Render(r.pick("│", "|"))
	out := []codeRow{{text: indent + kind.Badge(r.ascii) + " " + lipgloss.NewStyle().Bold(true).Render(step.Title)}}
	for _, w := range wrapText(step.Explanation, max(10, width-indentW-2)) {
		out = append(out, codeRow{text: indent + edge + " " + w})
	}
	return out
}

func (r *Root) explanationSideLines(width, originX, originY int) []string {
	st := r.explanation
	lines := []string{r.theme.Accent.Render(st.Title), levelBadge(st.Level) + r.theme.Muted.Render(" · "+st.Category), ""}
	if st.StepCount == 0 {
		lines = append(lines, r.richText(st.Description, width)...)
		return append(lines, "", r.theme.Muted.Render("This walkthrough has no steps."))
	}

	kind := DescribeStepKind(st.Step.Kind)
	lines = append(lines, fmt.Sprintf("Step %d of %d  %s", st.StepIndex+1, st.StepCount, kind.Badge(r.ascii)))

	barW := max(4, min(30, width))
	r.progressBar.SetWidth(barW)
	barRow := len(lines)
	lines = append(lines, r.progressBar.ViewAs(st.Progress))
	count := st.StepCount
	x0 := originX + 1
	r.hits = append(r.hits, hitZone{
		x0: x0, y0: originY + 1 + barRow, x1: x0 + barW, y1: originY + 2 + barRow,
		action: func(x, _ int) {
			idx := clampIndex((x-x0)*count/barW, count)
			r.dispatchController(func(c Controller) { c.OnStepGoTo(idx) })
		},
	})

	lines = append(lines, "", r.theme.PanelTitle.Render(st.Step.Title))
	lines = append(lines, r.richText(st.Step.Explanation, width)...)
	if st.Step.File != "" && len(st.Files) > 1 {
		lines = append(lines, r.theme.Muted.Render("in "+st.Step.File))
	}
	if !st.HasNext && st.HasNextExplanation {
		lines = append(lines, "", r.theme.Muted.Render("n next explanation"))
	}
	return lines
}

func (r *Root) renderNotFound() string {
	kind := r.notFound.Kind
	if kind == "" {
		kind = "challenge"
	}
	lines := []string{
		r.theme.Fail.Render(fmt.Sprintf("%s #%d not found", strings.ToUpper(kind[:1])+kind[1:], r.notFound.ID)),
		"",
		"Nothing in the catalog has that id.",
		"",
		r.theme.Muted.Render("enter / esc  back to catalog"),
	}
	w := min(56, r.cols)
	panel := r.drawPanel("Not found", lines, w, len(lines)+2)
	body := lipgloss.Place(r.cols, r.rows-2, lipgloss.Center, lipgloss.Center, panel)
	return strings.Join([]string{r.headerLine("Not found"), body, r.footerLine()}, "\n")
}

func (r *Root) renderTabs(files []FileTab, active, y int) string {
	var b strings.Builder
	x := 0
	for i, tab := range files {
		label := tab.Name
		if tab.Badge > 0 {
			label += fmt.Sprintf(" [%d]", tab.Badge)
		}
		if tab.Targeted {
			label = r.pick("»", ">") + " " + label
		}
		style := r.theme.TabInactive
		if i == active {
			style = r.theme.TabActive
		}
		cell := style.Render(label)
		w := lipgloss.Width(cell)
		if len(files) > 1 {
			index := i
			r.hits = append(r.hits, hitZone{
				x0: x, y0: y, x1: x + w, y1: y + 1,
				action: func(int, int) {
					r.dispatchController(func(c Controller) { c.OnSwitchFile(index) })
				},
			})
		}
		b.WriteString(cell)
		b.WriteString(" ")
		x += w + 1
	}
	return fitLine(b.String(), r.cols)
}

// visibleCodeRows slices rows to the panel window starting at codeTop and
// registers click zones for source rows when onClick is set.
func (r *Root) visibleCodeRows(rows []codeRow, innerH, panelW, originX, originY int, onClick func(line int)) []string {
	end := min(len(rows), r.codeTop+innerH)
	out := make([]string, 0, innerH)
	for i := r.codeTop; i < end; i++ {
		row := rows[i]
		out = append(out, row.text)
		if onClick == nil || row.line == 0 {
			continue
		}
		line := row.line
		y := originY + 1 + (i - r.codeTop)
		r.hits = append(r.hits, hitZone{
			x0: originX + 1, y0: y, x1: originX + panelW - 1, y1: y + 1,
			action: func(int, int) { onClick(line) },
		})
	}
	return out
}

func (r *Root) codeTexts(files []FileTab, active int, lines []CodeLine) []string {
	plain := make([]string, len(lines))
	for i, ln := range lines {
		plain[i] = strings.ReplaceAll(ln.Text, "\t", "    ")
	}
	if colored := r.highlight.Lines(activeFileName(files, active), plain); len(colored) == len(plain) {
		return colored
	}
	return plain
}

func (r *Root) lineIndex(number int) int {
	for i, ln := range r.challenge.Lines {
		if ln.Number == number {
			return i
		}
	}
	return r.cursor
}

func (r *Root) headerLine(title string) string {
	text := "ReviewDojo · " + title
	return r.theme.Header.Width(r.cols).Render(trimForWidth(text, max(1, r.cols-2)))
}

func (r *Root) footerLine() string {
	help := r.help.ShortHelpView(r.helpBindings())
	if r.statusFlash != "" {
		help = r.theme.Pending.Render(r.statusFlash) + "  " + help
	}
	return fitLine(help, r.cols)
}

func (r *Root) helpBindings() []key.Binding {
	k := r.keys
	switch r.screen {
	case ScreenChallenge:
		out := []key.Binding{k.Up, k.Down}
		if r.challenge.Result == nil {
			out = append(out, k.Toggle, k.Submit)
		} else {
			out = append(out, k.Retry)
			if r.challenge.HasNext {
				out = append(out, k.Next)
			}
		}
		if len(r.challenge.Files) > 1 {
			out = append(out, k.NextFile)
		}
		return append(out, k.Back, k.Quit)
	case ScreenExplanation:
		out := []key.Binding{k.StepArrow, k.StepNext, k.StepPrev}
		if !r.explanation.HasNext && r.explanation.HasNextExplanation {
			out = append(out, k.NextExplanation)
		}
		if len(r.explanation.Files) > 1 {
			out = append(out, k.NextFile)
		}
		return append(out, k.Back, k.Quit)
	case ScreenNotFound:
		return []key.Binding{k.Open, k.Quit}
	default:
		return []key.Binding{k.Up, k.Down, k.Section, k.Open, k.Quit}
	}
}

func (r *Root) joinBody(main, side string) string {
	if r.layout == LayoutWide {
		return lipgloss.JoinHorizontal(lipgloss.Top, main, side)
	}
	return main + "\n" + side
}

// richText renders markdown when a renderer is configured and wraps plain
// text otherwise.
func (r *Root) richText(text string, width int) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if r.markdown != nil {
		if out, err := r.markdown.Render(text); err == nil {
			return strings.Split(strings.Trim(out, "\n"), "\n")
		}
	}
	return wrapText(text, width)
}

func (r *Root) drawPanel(title string, lines []string, width, height int) string {
	width = max(4, width)
	height = max(3, height)
	innerW := width - 2
	innerH := height - 2

	h := "─"
	v := "│"
	tl := "┌"
	tr := "┐"
	bl := "└"
	br := "┘"
	if r.ascii {
		h = "-"
		v = "|"
		tl, tr, bl, br = "+", "+", "+", "+"
	}

	top := tl + strings.Repeat(h, innerW) + tr
	if title != "" && innerW > 2 {
		t := []rune(" " + trimForWidth(title, innerW-2) + " ")
		runes := []rune(top)
		for i, ch := range t {
			pos := 1 + i
			if pos >= len(runes)-1 {
				break
			}
			runes[pos] = ch
		}
		top = string(runes)
	}

	out := make([]string, 0, height)
	out = append(out, r.theme.PanelBorder.Render(top))
	for row := 0; row < innerH; row++ {
		line := ""
		if row < len(lines) {
			line = lines[row]
		}
		out = append(out, r.theme.PanelBorder.Render(v)+r.theme.PanelBody.Render(fitLine(line, innerW))+r.theme.PanelBorder.Render(v))
	}
	out = append(out, r.theme.PanelBorder.Render(bl+strings.Repeat(h, innerW)+br))
	return strings.Join(out, "\n")
}

func (r *Root) pick(unicode, ascii string) string {
	if r.ascii {
		return ascii
	}
	return unicode
}

func (r *Root) cursorMark() string { return r.pick("▶", ">") }
func (r *Root) bookMark() string   { return r.pick("❖", "#") }
func (r *Root) elbow() string      { return r.pick("└ ", "` ") }

func activeFileName(files []FileTab, active int) string {
	if active >= 0 && active < len(files) {
		return files[active].Name
	}
	return ""
}

// scrollTo returns the window offset that keeps row visible, clamped so the
// window never runs past the last row.
func scrollTo(top, row, height, total int) int {
	if row < top {
		top = row
	}
	if row >= top+height {
		top = row - height + 1
	}
	top = min(top, total-height)
	return max(0, top)
}

// fitLine truncates or pads s to exactly width cells, ANSI-aware.
func fitLine(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = ansi.Truncate(s, width, "")
	if pad := width - ansi.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

func wrapText(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return strings.Split(ansi.Wrap(s, width, ""), "\n")
}

func trimForWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(strings.ReplaceAll(ansi.Strip(s), "\n", " "))
	if len(r) <= width {
		return string(r)
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
