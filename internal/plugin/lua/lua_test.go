package lua

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	glua "github.com/yuin/gopher-lua"

	"github.com/dshills/mathfield/internal/clipboard"
	"github.com/dshills/mathfield/internal/engine"
)

func newRunner(t *testing.T, opts ...Option) (*Runner, *engine.Engine) {
	t.Helper()
	e := engine.New(engine.WithClipboard(&clipboard.Memory{}))
	r, err := NewRunner(e, opts...)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r, e
}

func dump(e *engine.Engine) string {
	return e.Tree().Dump(e.Tree().Root())
}

func TestSandboxGlobals(t *testing.T) {
	s, err := NewState()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	for _, name := range []string{"io", "os", "debug", "package", "require", "dofile", "loadfile", "load", "loadstring"} {
		if v := s.GetGlobal(name); v != glua.LNil {
			t.Errorf("%s should not be reachable, got %s", name, v.Type())
		}
	}
	for _, name := range []string{"string", "table", "math", "pairs", "print"} {
		if v := s.GetGlobal(name); v == glua.LNil {
			t.Errorf("%s should be available", name)
		}
	}
}

func TestPrintOutput(t *testing.T) {
	var out bytes.Buffer
	s, err := NewState(WithOutput(&out))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := s.DoString(context.Background(), `print("a", 1, nil)`); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "a\t1\tnil\n" {
		t.Errorf("print wrote %q", got)
	}
}

func TestStateClosed(t *testing.T) {
	s, err := NewState()
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if !s.IsClosed() {
		t.Error("IsClosed = false after Close")
	}
	if err := s.DoString(context.Background(), "x = 1"); !errors.Is(err, ErrStateClosed) {
		t.Errorf("expected ErrStateClosed, got %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestRunEdits(t *testing.T) {
	r, e := newRunner(t)

	tests := []struct {
		name string
		code string
		want string
	}{
		{"fraction", `field.insert("2/3")`, "[frac([2],[3])]"},
		{"single rune", `field.insert("x")`, "[x]"},
		{"move up", `field.insert("1/") field.move("up") field.insert("2")`, "[frac([21],[])]"},
		{"set text", `assert(field.set_text("{a}^{b}"))`, "[pow([a],[b])]"},
		{"matrix", `field.matrix(1, 2)`, "[matrix1x2([],[])]"},
		{"delete", `field.insert("ab") field.delete()`, "[a]"},
		{"clear", `field.insert("ab") field.clear()`, "[]"},
		{"wrap", `field.insert("ab") field.select("left") field.select("left") assert(field.action("wrap-paren"))`, "[paren([ab])]"},
		{"edge", `field.insert("b") field.edge("left") field.insert("a")`, "[ab]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e.Clear()
			if err := r.Run(context.Background(), tt.name, tt.code); err != nil {
				t.Fatalf("Run: %v", err)
			}
			if got := dump(e); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRunQueries(t *testing.T) {
	r, e := newRunner(t)
	code := `
		field.insert("1/2")
		text = field.text()
		empty = field.is_empty()
		w, h = field.size()
		pos = field.cursor()
		field.select("left")
		sel = field.selected_text()
		has = field.has_selection()
		field.clear_selection()
	`
	if err := r.Run(context.Background(), "queries", code); err != nil {
		t.Fatal(err)
	}
	s := r.State()
	if got := s.GetGlobal("text").String(); got != "{1}/{2}" {
		t.Errorf("text = %q", got)
	}
	if s.GetGlobal("empty") != glua.LFalse {
		t.Error("is_empty should be false")
	}
	if s.GetGlobal("w").String() != "4" || s.GetGlobal("h").String() != "3" {
		t.Errorf("size = %s x %s", s.GetGlobal("w"), s.GetGlobal("h"))
	}
	if s.GetGlobal("pos").String() != "6" {
		t.Errorf("cursor = %s", s.GetGlobal("pos"))
	}
	if s.GetGlobal("sel").String() != "2" || s.GetGlobal("has") != glua.LTrue {
		t.Errorf("selection = %s, %s", s.GetGlobal("sel"), s.GetGlobal("has"))
	}
	if e.HasSelection() {
		t.Error("selection should be cleared")
	}
}

func TestRunIsOneUndoStep(t *testing.T) {
	r, e := newRunner(t)
	if err := r.Run(context.Background(), "type", `field.insert("a") field.insert("b") field.insert("c")`); err != nil {
		t.Fatal(err)
	}
	if err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if got := dump(e); got != "[]" {
		t.Errorf("after undo: %s", got)
	}
	if e.CanUndo() {
		t.Error("script should be a single undo step")
	}
}

func TestRunErrorRollsBack(t *testing.T) {
	r, e := newRunner(t)
	if !e.InsertText("xy") {
		t.Fatal("setup insert rejected")
	}

	err := r.Run(context.Background(), "boom", `field.insert("1/2") error("boom")`)
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected boom error, got %v", err)
	}
	if got := dump(e); got != "[xy]" {
		t.Errorf("field not rolled back: %s", got)
	}
}

func TestRunBadArguments(t *testing.T) {
	r, e := newRunner(t)
	tests := []string{
		`field.move("sideways")`,
		`field.insert("")`,
		`field.matrix(0, 2)`,
		`field.action("explode")`,
		`field.edge("up")`,
	}
	for _, code := range tests {
		if err := r.Run(context.Background(), "bad", code); err == nil {
			t.Errorf("%s: expected an error", code)
		}
		if !e.IsEmpty() {
			t.Errorf("%s: field changed", code)
		}
	}
}

func TestSetTextFailureReturnsMessage(t *testing.T) {
	r, _ := newRunner(t)
	code := `ok, msg = field.set_text("a^b")`
	if err := r.Run(context.Background(), "parse", code); err != nil {
		t.Fatal(err)
	}
	if r.State().GetGlobal("ok") != glua.LNil {
		t.Error("set_text should fail")
	}
	if msg := r.State().GetGlobal("msg").String(); msg == "" {
		t.Error("expected an error message")
	}
}

func TestRunTimeout(t *testing.T) {
	r, e := newRunner(t, WithTimeout(50*time.Millisecond))
	err := r.Run(context.Background(), "spin", `field.insert("a") while true do end`)
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Fatalf("expected ErrExecutionTimeout, got %v", err)
	}
	if !e.IsEmpty() {
		t.Errorf("field changed: %s", dump(e))
	}
}

func TestRunCancelled(t *testing.T) {
	r, _ := newRunner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := r.Run(ctx, "cancelled", `while true do end`)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunInLinearMode(t *testing.T) {
	r, e := newRunner(t)
	if err := e.SetLinearMode(true); err != nil {
		t.Fatal(err)
	}
	if err := r.Run(context.Background(), "linear", `field.insert("a")`); !errors.Is(err, engine.ErrLinearMode) {
		t.Errorf("expected ErrLinearMode, got %v", err)
	}
}

func TestCall(t *testing.T) {
	r, e := newRunner(t)
	if err := r.Run(context.Background(), "define", `function macro() field.insert("x") end`); err != nil {
		t.Fatal(err)
	}
	if !r.State().HasFunction("macro") {
		t.Fatal("macro should be defined")
	}
	if err := r.Call(context.Background(), "macro"); err != nil {
		t.Fatal(err)
	}
	if got := dump(e); got != "[x]" {
		t.Errorf("after macro: %s", got)
	}
	if err := r.Call(context.Background(), "missing"); !errors.Is(err, ErrNoFunction) {
		t.Errorf("expected ErrNoFunction, got %v", err)
	}
}

func TestRunFile(t *testing.T) {
	r, e := newRunner(t)
	path := filepath.Join(t.TempDir(), "sqrt.lua")
	if err := os.WriteFile(path, []byte(`field.insert("√") field.insert("2")`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := r.RunFile(context.Background(), path); err != nil {
		t.Fatal(err)
	}
	if got := e.Text(); got != "√{2}{}" {
		t.Errorf("text = %q", got)
	}
	if err := r.RunFile(context.Background(), filepath.Join(t.TempDir(), "none.lua")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}
