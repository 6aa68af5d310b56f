package ui

func DetermineLayoutMode(cols, rows int) LayoutMode {
	if cols < 60 || rows < 16 {
		return LayoutTooSmall
	}
	if cols >= 110 {
		return LayoutWide
	}
	return LayoutCompact
}

// codePanelSize splits the body below header and tabs between the code
// panel and the side panel.
func codePanelSize(mode LayoutMode, cols, bodyRows int) (codeW, codeH, sideW, sideH int) {
	switch mode {
	case LayoutWide:
		sideW = min(52, max(34, cols/3))
		return cols - sideW, bodyRows, sideW, bodyRows
	default:
		sideH = min(14, max(8, bodyRows/3))
		return cols, bodyRows - sideH, cols, sideH
	}
}
