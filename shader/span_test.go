package shader

import "testing"

func TestOffsetOf(t *testing.T) {
	text := "ab\ncdé f\n"
	tests := []struct {
		line, col int
		want      int
	}{
		{1, 1, 0},
		{1, 3, 2},
		{2, 1, 3},
		{2, 3, 5},  // two-byte rune
		{2, 4, 7},  // after it
		{2, 5, 8},  // 'f'
		{2, 99, 9}, // clamped to line end
		{3, 1, 10},
		{9, 1, len(text)},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := offsetOf(text, tt.line, tt.col); got != tt.want {
			t.Errorf("offsetOf(%d, %d) = %d, want %d", tt.line, tt.col, got, tt.want)
		}
	}
}

func TestTokenSpan(t *testing.T) {
	text := "let x_1 = (y);"
	tests := []struct {
		off  int
		want string
	}{
		{0, "let"},
		{4, "x_1"},
		{10, "("},
		{11, "y"},
	}
	for _, tt := range tests {
		s := tokenSpan(text, tt.off)
		if got, _ := s.Slice(text); got != tt.want {
			t.Errorf("tokenSpan(%d) = %q, want %q", tt.off, got, tt.want)
		}
	}
	if s := tokenSpan(text, len(text)); !s.Empty() || int(s.Start) != len(text) {
		t.Errorf("span at EOF = %v, want empty at %d", s, len(text))
	}
}

func TestSpanSlice(t *testing.T) {
	if _, ok := (Span{Start: 2, End: 10}).Slice("abc"); ok {
		t.Error("out of range span sliced")
	}
	if _, ok := (Span{Start: 3, End: 1}).Slice("abcdef"); ok {
		t.Error("inverted span sliced")
	}
	if got, ok := (Span{Start: 1, End: 3}).Slice("abcdef"); !ok || got != "bc" {
		t.Errorf("Slice = %q, %v", got, ok)
	}
}
