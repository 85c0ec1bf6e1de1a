package renderer

import (
	"testing"

	"github.com/dshills/mathfield/internal/engine"
	"github.com/dshills/mathfield/internal/renderer/backend"
	"github.com/dshills/mathfield/internal/renderer/core"
)

func field(t *testing.T, keys string, opts ...engine.Option) *engine.Engine {
	t.Helper()
	e := engine.New(append([]engine.Option{engine.WithWindowSize(10, 3)}, opts...)...)
	for _, r := range keys {
		if !e.Insert(r) {
			t.Fatalf("Insert(%q) rejected", r)
		}
	}
	return e
}

func TestRender(t *testing.T) {
	tests := []struct {
		name   string
		keys   string
		want   string
		cx, cy int
	}{
		{"fraction", "1/2", " 1\n───\n 2", 2, 2},
		{"empty denominator", "1/", " 1\n───\n □", 1, 2},
		{"radical", "√2", " ─\n√2\n", 2, 1},
		{"power", "x^2", " 2\nx\n", 2, 0},
		{"group", "(a", "(a)\n\n", 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := backend.NewNullBackend(10, 3)
			NewPainter(b).Render(field(t, tt.keys))
			if got := b.String(); got != tt.want {
				t.Errorf("screen =\n%s\nwant\n%s", got, tt.want)
			}
			x, y, visible := b.CursorPosition()
			if !visible || x != tt.cx || y != tt.cy {
				t.Errorf("cursor = (%d, %d, %v), want (%d, %d)", x, y, visible, tt.cx, tt.cy)
			}
		})
	}
}

func TestRenderOrigin(t *testing.T) {
	b := backend.NewNullBackend(12, 4)
	NewPainter(b, WithOrigin(2, 1)).Render(field(t, "ab"))
	if got := b.String(); got != "\n  ab\n\n" {
		t.Errorf("screen = %q", got)
	}
	if x, y, _ := b.CursorPosition(); x != 4 || y != 1 {
		t.Errorf("cursor = (%d, %d)", x, y)
	}
}

func TestRenderSelection(t *testing.T) {
	e := field(t, "ab")
	e.ExtendSelection(engine.Left)
	b := backend.NewNullBackend(10, 3)
	NewPainter(b).Render(e)
	if b.GetCell(0, 0).Style.Attributes.Has(core.AttrReverse) {
		t.Error("unselected leaf drawn reversed")
	}
	if !b.GetCell(1, 0).Style.Attributes.Has(core.AttrReverse) {
		t.Error("selected leaf not reversed")
	}
}

func TestRenderScrolled(t *testing.T) {
	e := field(t, "123456", engine.WithWindowSize(4, 1))
	b := backend.NewNullBackend(4, 1)
	NewPainter(b).Render(e)
	if got := b.String(); got != "456" {
		t.Errorf("screen = %q", got)
	}
	if x, _, _ := b.CursorPosition(); x != 3 {
		t.Errorf("cursor x = %d", x)
	}
}

func TestRenderLinearAndIdle(t *testing.T) {
	e := field(t, "1/2")
	if err := e.SetLinearMode(true); err != nil {
		t.Fatal(err)
	}
	e.SetEditing(false)
	b := backend.NewNullBackend(10, 3)
	NewPainter(b).Render(e)
	if got := b.String(); got != "{1}/{2}\n\n" {
		t.Errorf("screen = %q", got)
	}
	if _, _, visible := b.CursorPosition(); visible {
		t.Error("cursor shown while not editing")
	}
}

func TestNewTheme(t *testing.T) {
	th, err := NewTheme(ThemeColors{Foreground: "#ffffff", Background: "#000000", Selection: "#0000ff"})
	if err != nil {
		t.Fatal(err)
	}
	if th.Structure.Foreground != core.ColorFromRGB(255, 255, 255) {
		t.Errorf("structure = %v", th.Structure.Foreground)
	}
	if th.Selection.Background != core.ColorFromRGB(0, 0, 255) {
		t.Errorf("selection = %v", th.Selection.Background)
	}
	p := th.Placeholder.Foreground
	if p.R == 255 || p.R == 0 {
		t.Errorf("placeholder = %v, want a blend", p)
	}
	if _, err := NewTheme(ThemeColors{Selection: "blue"}); err == nil {
		t.Error("invalid color accepted")
	}
	if d, _ := NewTheme(ThemeColors{}); d != DefaultTheme() {
		t.Errorf("empty colors = %+v", d)
	}
}
