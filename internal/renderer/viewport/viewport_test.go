package viewport

import "testing"

func TestNewClampsSize(t *testing.T) {
	v := New(0, -3)
	if v.Width() != 1 || v.Height() != 1 {
		t.Errorf("size = %dx%d, want 1x1", v.Width(), v.Height())
	}
}

func TestScrollToReveal_Vertical(t *testing.T) {
	v := New(80, 10)
	v.SetMargins(2, 2, 0, 0)

	if v.ScrollToReveal(5, 0) {
		t.Error("line 5 is already visible inside the margins")
	}

	if !v.ScrollToReveal(8, 0) {
		t.Fatal("line 8 is inside the bottom margin and should scroll")
	}
	if v.TopLine() != 1 {
		t.Errorf("TopLine = %d, want 1", v.TopLine())
	}

	v.ScrollToReveal(50, 0)
	if v.TopLine() != 43 {
		t.Errorf("TopLine = %d, want 43", v.TopLine())
	}
	if row := v.LineToScreenRow(50); row != 7 {
		t.Errorf("LineToScreenRow(50) = %d, want 7", row)
	}

	v.ScrollToReveal(0, 0)
	if v.TopLine() != 0 {
		t.Errorf("TopLine = %d, want 0", v.TopLine())
	}
	if row := v.LineToScreenRow(50); row != -1 {
		t.Errorf("hidden line row = %d, want -1", row)
	}
}

func TestScrollToReveal_Horizontal(t *testing.T) {
	v := New(20, 5)
	v.SetMargins(0, 0, 4, 4)

	v.ScrollToReveal(0, 30)
	if v.LeftColumn() != 15 {
		t.Errorf("LeftColumn = %d, want 15", v.LeftColumn())
	}
	v.ScrollToReveal(0, 16)
	if v.LeftColumn() != 12 {
		t.Errorf("LeftColumn = %d, want 12", v.LeftColumn())
	}
	v.ScrollToReveal(0, 2)
	if v.LeftColumn() != 0 {
		t.Errorf("LeftColumn = %d, want 0", v.LeftColumn())
	}
}

func TestSmallViewportMargins(t *testing.T) {
	v := New(3, 1)
	v.ScrollToReveal(7, 9)
	if v.TopLine() != 7 {
		t.Errorf("TopLine = %d, want 7", v.TopLine())
	}
	if v.LeftColumn() != 8 {
		t.Errorf("LeftColumn = %d, want 8", v.LeftColumn())
	}
}

func TestClampAndReset(t *testing.T) {
	v := New(10, 4)
	v.ScrollToReveal(40, 0)
	v.ClampToLines(3)
	if v.TopLine() != 2 {
		t.Errorf("TopLine = %d, want 2", v.TopLine())
	}
	v.Reset()
	if v.TopLine() != 0 || v.LeftColumn() != 0 {
		t.Error("Reset should return to the origin")
	}
}
