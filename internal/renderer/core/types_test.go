package core

import "testing"

func TestColorFromHex(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#ff8000", ColorFromRGB(255, 128, 0), false},
		{"", ColorDefault, false},
		{"default", ColorDefault, false},
		{"#zzzzzz", ColorDefault, true},
		{"ff8000", ColorDefault, true},
	}
	for _, tt := range tests {
		got, err := ColorFromHex(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ColorFromHex(%q) err = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ColorFromHex(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestColorString(t *testing.T) {
	if s := ColorFromRGB(1, 2, 255).String(); s != "#0102ff" {
		t.Errorf("String = %q", s)
	}
	if s := ColorDefault.String(); s != "default" {
		t.Errorf("String = %q", s)
	}
}

func TestColorBlend(t *testing.T) {
	black := ColorFromRGB(0, 0, 0)
	white := ColorFromRGB(255, 255, 255)
	if got := black.Blend(white, 0); got != black {
		t.Errorf("Blend 0 = %v", got)
	}
	if got := black.Blend(white, 1); got != white {
		t.Errorf("Blend 1 = %v", got)
	}
	mid := black.Blend(white, 0.5)
	if mid.R < 10 || mid.R > 245 || absDiff(mid.R, mid.G) > 2 || absDiff(mid.G, mid.B) > 2 {
		t.Errorf("Blend 0.5 = %v, want a mid gray", mid)
	}
	if got := black.Blend(ColorDefault, 0.5); got != black {
		t.Errorf("Blend with default = %v", got)
	}
}

func TestStyle(t *testing.T) {
	s := DefaultStyle().WithForeground(ColorFromRGB(1, 1, 1)).WithAttributes(AttrBold).WithAttributes(AttrReverse)
	if !s.Attributes.Has(AttrBold) || !s.Attributes.Has(AttrReverse) || s.Attributes.Has(AttrDim) {
		t.Errorf("attributes = %b", s.Attributes)
	}
	if !s.Background.IsDefault() || s.Foreground.IsDefault() {
		t.Errorf("style = %+v", s)
	}
	if !(Cell{}).IsContinuation() || EmptyCell().IsContinuation() {
		t.Error("continuation detection")
	}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
