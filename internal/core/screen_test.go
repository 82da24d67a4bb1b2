package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 {
		t.Errorf("Width() = %d, expected 80", s.Width())
	}
	if s.Height() != 24 {
		t.Errorf("Height() = %d, expected 24", s.Height())
	}

	// Check that it's initialized with spaces
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if s.Get(x, y) != ' ' {
				t.Errorf("New screen should be filled with spaces, got %q at (%d, %d)", s.Get(x, y), x, y)
			}
		}
	}
}

func TestScreenSetGet(t *testing.T) {
	s := NewScreen(10, 10)

	s.SetColored(5, 5, 'X', ColorRed)
	if s.Get(5, 5) != 'X' {
		t.Errorf("Get(5, 5) = %q, expected 'X'", s.Get(5, 5))
	}
	if c := s.GetCell(5, 5).Color; c != ColorRed {
		t.Errorf("GetCell(5, 5).Color = %d, expected %d", c, ColorRed)
	}

	// Out of bounds should be silent
	s.Set(-1, 0, 'A')
	s.Set(100, 0, 'A')
	s.Set(0, -1, 'A')
	s.Set(0, 100, 'A')

	if s.Get(-1, 0) != ' ' {
		t.Error("Out of bounds Get should return space")
	}
	if s.Get(100, 0) != ' ' {
		t.Error("Out of bounds Get should return space")
	}
}

func TestScreenFillBox(t *testing.T) {
	s := NewScreen(10, 5)

	// Covers columns 1..3 and rows 1..2 (partial cells count as covered)
	s.FillBox(Box{Pos: V(1.5, 1), Size: V(2, 1.5)}, '#', ColorWhite)

	expected := []string{
		"          ",
		" ###      ",
		" ###      ",
		"          ",
		"          ",
	}
	for y, want := range expected {
		if got := s.Row(y); got != want {
			t.Errorf("Row(%d) = %q, expected %q", y, got, want)
		}
	}
}

func TestScreenFillBoxClipped(t *testing.T) {
	s := NewScreen(4, 2)

	// Must not panic when the box extends past every edge
	s.FillBox(Box{Pos: V(-10, -10), Size: V(100, 100)}, '#', ColorDefault)

	if got := s.String(); got != "####\n####" {
		t.Errorf("String() = %q, expected fully filled screen", got)
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(10, 1)
	s.DrawText(2, 0, "tick", ColorGray)

	if got := strings.TrimSpace(s.Row(0)); got != "tick" {
		t.Errorf("Row(0) = %q, expected %q", got, "tick")
	}
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(10, 10)
	s.Set(1, 1, 'X')
	s.Resize(20, 5)

	if s.Width() != 20 || s.Height() != 5 {
		t.Errorf("Resize() gave %dx%d, expected 20x5", s.Width(), s.Height())
	}
	if s.Get(1, 1) != ' ' {
		t.Error("Resize should clear the buffer")
	}
}
