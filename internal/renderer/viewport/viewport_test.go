package viewport

import "testing"

func TestScrollToRevealDown(t *testing.T) {
	v := New(40, 10)
	v.SetLineCount(100)

	if v.ScrollToReveal(5, 0) {
		t.Fatal("line 5 is already visible")
	}
	if !v.ScrollToReveal(20, 0) {
		t.Fatal("expected scroll")
	}
	// Bottom margin of 2 keeps line 20 at row 7.
	if got := v.TopLine(); got != 13 {
		t.Errorf("TopLine = %d, want 13", got)
	}
	if row, _, ok := v.BufferToScreen(20, 0); !ok || row != 7 {
		t.Errorf("BufferToScreen row = %d ok = %v", row, ok)
	}
}

func TestScrollToRevealUp(t *testing.T) {
	v := New(40, 10)
	v.SetLineCount(100)
	v.ScrollBy(50)

	v.ScrollToReveal(49, 0)
	if got := v.TopLine(); got != 47 {
		t.Errorf("TopLine = %d, want 47", got)
	}
	v.ScrollToReveal(0, 0)
	if got := v.TopLine(); got != 0 {
		t.Errorf("TopLine = %d, want 0", got)
	}
}

func TestScrollToRevealHorizontal(t *testing.T) {
	v := New(20, 10)
	v.ScrollToReveal(0, 30)
	// Right margin is 4 columns.
	if got := v.LeftColumn(); got != 15 {
		t.Errorf("LeftColumn = %d, want 15", got)
	}
	v.ScrollToReveal(0, 2)
	if got := v.LeftColumn(); got != 0 {
		t.Errorf("LeftColumn = %d, want 0", got)
	}
}

func TestMarginsClampedToSmallViewport(t *testing.T) {
	v := New(3, 3)
	v.SetMargins(Margins{Top: 10, Bottom: 10, Left: 10, Right: 10})
	v.SetLineCount(10)

	v.ScrollToReveal(5, 0)
	if !v.IsLineVisible(5) {
		t.Errorf("line 5 not visible, top = %d", v.TopLine())
	}
}

func TestScrollByClamps(t *testing.T) {
	v := New(10, 5)
	v.SetLineCount(8)
	v.ScrollBy(100)
	if got := v.TopLine(); got != 7 {
		t.Errorf("TopLine = %d, want 7", got)
	}
	v.ScrollBy(-100)
	if got := v.TopLine(); got != 0 {
		t.Errorf("TopLine = %d, want 0", got)
	}

	v.ScrollBy(7)
	v.SetLineCount(3)
	if got := v.TopLine(); got != 2 {
		t.Errorf("TopLine after shrink = %d, want 2", got)
	}
}

func TestScreenToBuffer(t *testing.T) {
	v := New(10, 5)
	v.SetLineCount(50)
	v.ScrollBy(10)
	line, col := v.ScreenToBuffer(2, 3)
	if line != 12 || col != 3 {
		t.Errorf("ScreenToBuffer = (%d, %d)", line, col)
	}
	if _, _, ok := v.BufferToScreen(9, 0); ok {
		t.Error("line 9 should be off screen")
	}
}
