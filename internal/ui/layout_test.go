package ui

import "testing"

func TestDetermineLayoutMode(t *testing.T) {
	if got := DetermineLayoutMode(140, 30); got != LayoutWide {
		t.Fatalf("expected wide, got %v", got)
	}
	if got := DetermineLayoutMode(100, 30); got != LayoutCompact {
		t.Fatalf("expected compact, got %v", got)
	}
	if got := DetermineLayoutMode(50, 30); got != LayoutTooSmall {
		t.Fatalf("expected too-small, got %v", got)
	}
	if got := DetermineLayoutMode(100, 12); got != LayoutTooSmall {
		t.Fatalf("expected too-small by height, got %v", got)
	}
}

func TestCodePanelSizeFillsBody(t *testing.T) {
	codeW, codeH, sideW, sideH := codePanelSize(LayoutWide, 140, 28)
	if codeW+sideW != 140 || codeH != 28 || sideH != 28 {
		t.Fatalf("wide split mismatch: %d %d %d %d", codeW, codeH, sideW, sideH)
	}
	codeW, codeH, sideW, sideH = codePanelSize(LayoutCompact, 90, 28)
	if codeW != 90 || sideW != 90 || codeH+sideH != 28 {
		t.Fatalf("compact split mismatch: %d %d %d %d", codeW, codeH, sideW, sideH)
	}
}
