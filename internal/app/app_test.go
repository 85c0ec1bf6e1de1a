package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/mathfield/internal/clipboard"
	"github.com/dshills/mathfield/internal/config"
	"github.com/dshills/mathfield/internal/logging"
	"github.com/dshills/mathfield/internal/renderer/backend"
)

func newTestApp(t *testing.T, opts Options) *Application {
	t.Helper()
	opts.Logger = logging.NullLogger
	if opts.Clipboard == nil {
		opts.Clipboard = &clipboard.Memory{}
	}
	app, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func dump(app *Application) string {
	tree := app.Field().Tree()
	return tree.Dump(tree.Root())
}

func key(k backend.Key) backend.Event {
	return backend.Event{Type: backend.EventKey, Key: k}
}

func shiftKey(k backend.Key) backend.Event {
	return backend.Event{Type: backend.EventKey, Key: k, Mod: backend.ModShift}
}

func runeKey(r rune) backend.Event {
	return backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: r}
}

func typeText(t *testing.T, app *Application, s string) {
	t.Helper()
	for _, r := range s {
		if err := app.handleBackendEvent(runeKey(r)); err != nil {
			t.Fatalf("typing %q: %v", r, err)
		}
	}
}

func TestNew(t *testing.T) {
	app := newTestApp(t, Options{})
	if !app.Field().IsEmpty() {
		t.Error("field should start empty")
	}
	if app.Config() == nil || app.Scripts() == nil || app.Metrics() == nil {
		t.Error("components not initialized")
	}
	if app.IsRunning() {
		t.Error("should not be running before Run")
	}
}

func TestNewWithText(t *testing.T) {
	app := newTestApp(t, Options{Text: "{1}/{2}"})
	if got := dump(app); got != "[frac([1],[2])]" {
		t.Errorf("initial content = %s", got)
	}
}

func TestNewConfigError(t *testing.T) {
	_, err := New(Options{
		ConfigPath: filepath.Join(t.TempDir(), "missing.toml"),
		Logger:     logging.NullLogger,
	})
	var initErr *InitError
	if !errors.As(err, &initErr) || initErr.Component != "config" {
		t.Fatalf("expected config InitError, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist in chain, got %v", err)
	}
}

func TestKeymapLookup(t *testing.T) {
	km := DefaultKeymap()
	tests := []struct {
		name string
		ev   backend.Event
		want string
		ok   bool
	}{
		{"left", key(backend.KeyLeft), "cursor.left", true},
		{"shift left", shiftKey(backend.KeyLeft), "select.left", true},
		{"shift falls back", shiftKey(backend.KeyHome), "cursor.home", true},
		{"ctrl z", backend.Event{Type: backend.EventKey, Key: backend.KeyCtrlZ, Mod: backend.ModCtrl}, "edit.undo", true},
		{"unbound", key(backend.KeyF1), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := km.Lookup(tt.ev)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Lookup = %q, %v; want %q, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestKeymapActionsExist(t *testing.T) {
	for chord, name := range DefaultKeymap() {
		if _, ok := actions[name]; !ok {
			t.Errorf("%v bound to unknown action %s", chord, name)
		}
	}
}

func TestDispatch(t *testing.T) {
	app := newTestApp(t, Options{})

	if err := app.Dispatch("edit.variable"); err != nil {
		t.Fatal(err)
	}
	if got := dump(app); got != "[x]" {
		t.Errorf("after variable: %s", got)
	}
	if err := app.Dispatch("app.quit"); !errors.Is(err, ErrQuit) {
		t.Errorf("expected ErrQuit, got %v", err)
	}
	if err := app.Dispatch("no.such"); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("expected ErrUnknownAction, got %v", err)
	}
}

func TestDispatchRejected(t *testing.T) {
	app := newTestApp(t, Options{})
	b := backend.NewNullBackend(20, 5)
	if err := app.SetBackend(b); err != nil {
		t.Fatal(err)
	}

	if err := app.Dispatch("edit.redo"); err != nil {
		t.Fatal(err)
	}
	if app.Message() == "" {
		t.Error("a rejected action should leave a message")
	}
	if b.Beeps() != 1 {
		t.Errorf("beeps = %d, want 1", b.Beeps())
	}
	if got := app.Metrics().Snapshot().Rejected; got != 1 {
		t.Errorf("rejected = %d, want 1", got)
	}
}

func TestKeyEditing(t *testing.T) {
	app := newTestApp(t, Options{})

	typeText(t, app, "1/2")
	if got := app.Field().Text(); got != "{1}/{2}" {
		t.Fatalf("text = %q", got)
	}

	steps := []struct {
		ev   backend.Event
		want string
	}{
		{key(backend.KeyCtrlZ), "[frac([1],[])]"},
		{key(backend.KeyCtrlY), "[frac([1],[2])]"},
		{key(backend.KeyBackspace), "[frac([1],[])]"},
		{key(backend.KeyCtrlK), "[]"},
	}
	for _, s := range steps {
		if err := app.handleBackendEvent(s.ev); err != nil {
			t.Fatal(err)
		}
		if got := dump(app); got != s.want {
			t.Errorf("after key %v: %s, want %s", s.ev.Key, got, s.want)
		}
	}
}

func TestSelectionKeys(t *testing.T) {
	clip := &clipboard.Memory{}
	app := newTestApp(t, Options{Clipboard: clip})

	typeText(t, app, "ab")
	for i := 0; i < 2; i++ {
		if err := app.handleBackendEvent(shiftKey(backend.KeyLeft)); err != nil {
			t.Fatal(err)
		}
	}
	if !app.Field().HasSelection() {
		t.Fatal("shift+left should select")
	}
	if err := app.handleBackendEvent(key(backend.KeyCtrlX)); err != nil {
		t.Fatal(err)
	}
	if text, _ := clip.ReadText(); text != "ab" {
		t.Errorf("clipboard = %q", text)
	}
	if !app.Field().IsEmpty() {
		t.Errorf("cut left %s", dump(app))
	}
	if err := app.handleBackendEvent(key(backend.KeyCtrlV)); err != nil {
		t.Fatal(err)
	}
	if got := dump(app); got != "[ab]" {
		t.Errorf("after paste: %s", got)
	}
}

func TestLinearModeKeys(t *testing.T) {
	app := newTestApp(t, Options{})
	typeText(t, app, "1/2")

	if err := app.handleBackendEvent(key(backend.KeyCtrlL)); err != nil {
		t.Fatal(err)
	}
	if !app.Field().IsLinearMode() {
		t.Fatal("ctrl+l should enter linear mode")
	}
	typeText(t, app, "+3")
	if err := app.handleBackendEvent(key(backend.KeyEnter)); err != nil {
		t.Fatal(err)
	}
	if app.Field().IsLinearMode() {
		t.Fatalf("enter should commit linear text: %s", app.Message())
	}
	if got := app.Field().Text(); got != "{1}/{2+3}" {
		t.Errorf("text = %q", got)
	}
}

func TestBracketedPaste(t *testing.T) {
	app := newTestApp(t, Options{})
	events := []backend.Event{{Type: backend.EventPaste, PasteStart: true}}
	for _, r := range "a/b" {
		events = append(events, runeKey(r))
	}
	events = append(events, backend.Event{Type: backend.EventPaste})

	for _, ev := range events {
		if err := app.handleBackendEvent(ev); err != nil {
			t.Fatal(err)
		}
	}
	if got := dump(app); got != "[frac([a],[b])]" {
		t.Errorf("paste = %s", got)
	}
	if err := app.Field().Undo(); err != nil || !app.Field().IsEmpty() {
		t.Errorf("paste should undo in one step: %v, %s", err, dump(app))
	}
}

func TestRenderStatusLine(t *testing.T) {
	app := newTestApp(t, Options{Text: "{2}/{3}"})
	b := backend.NewNullBackend(20, 5)
	if err := app.SetBackend(b); err != nil {
		t.Fatal(err)
	}
	app.resize(b.Size())
	app.render()

	lines := strings.Split(b.String(), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d rows", len(lines))
	}
	if lines[0] != " 2" || lines[1] != "───" || lines[2] != " 3" {
		t.Errorf("field rows = %q", lines[:3])
	}
	status := lines[4]
	if !strings.HasPrefix(status, " 2D  6/") || !strings.HasSuffix(status, "^Q quit") {
		t.Errorf("status = %q", status)
	}
	if app.Metrics().Snapshot().RenderCount != 1 {
		t.Error("render not recorded")
	}
}

func TestStatusLineUndoHint(t *testing.T) {
	app := newTestApp(t, Options{})
	b := backend.NewNullBackend(40, 3)
	if err := app.SetBackend(b); err != nil {
		t.Fatal(err)
	}
	app.resize(b.Size())

	status := func() string {
		app.render()
		lines := strings.Split(b.String(), "\n")
		return lines[len(lines)-1]
	}
	if s := status(); strings.Contains(s, "^Z") {
		t.Errorf("hint without history: %q", s)
	}
	typeText(t, app, "x")
	if s := status(); !strings.Contains(s, "^Z Type 'x'") || !strings.HasSuffix(s, "^Q quit") {
		t.Errorf("status = %q", s)
	}

	b.Resize(22, 3)
	app.resize(b.Size())
	if s := status(); strings.Contains(s, "^Z") || !strings.HasSuffix(s, "^Q quit") {
		t.Errorf("narrow status = %q", s)
	}
}

func TestRunWithoutBackend(t *testing.T) {
	app := newTestApp(t, Options{})
	if err := app.Run(context.Background()); !errors.Is(err, ErrNoBackend) {
		t.Errorf("expected ErrNoBackend, got %v", err)
	}
}

func TestRunProcessesEventsUntilQuit(t *testing.T) {
	app := newTestApp(t, Options{})
	b := backend.NewNullBackend(20, 5)
	if err := app.SetBackend(b); err != nil {
		t.Fatal(err)
	}
	for _, r := range "2/3" {
		b.PostEvent(runeKey(r))
	}
	b.PostEvent(key(backend.KeyCtrlQ))

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after quit")
	}

	if got := app.Field().Text(); got != "{2}/{3}" {
		t.Errorf("text = %q", got)
	}
	if !strings.Contains(b.String(), "───") {
		t.Errorf("fraction not drawn:\n%s", b.String())
	}
	if m := app.Metrics().Snapshot(); m.InputCount != 4 || m.RenderCount == 0 {
		t.Errorf("metrics = %+v", m)
	}
}

func TestRunStopsOnContext(t *testing.T) {
	app := newTestApp(t, Options{})
	if err := app.SetBackend(backend.NewNullBackend(10, 3)); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestMacro(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "init.lua")
	if err := os.WriteFile(script, []byte(`function macro() field.insert("y") end`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(dir, "mathfield.toml")
	if err := os.WriteFile(cfgPath, []byte("[script]\ninit = \""+filepath.ToSlash(script)+"\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	app := newTestApp(t, Options{ConfigPath: cfgPath})
	if err := app.handleBackendEvent(key(backend.KeyF2)); err != nil {
		t.Fatal(err)
	}
	if got := dump(app); got != "[y]" {
		t.Errorf("after macro: %s", got)
	}

	plain := newTestApp(t, Options{})
	if err := plain.handleBackendEvent(key(backend.KeyF2)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(plain.Message(), "not defined") {
		t.Errorf("message = %q", plain.Message())
	}
}

func TestApplyReload(t *testing.T) {
	app := newTestApp(t, Options{})
	b := backend.NewNullBackend(20, 5)
	if err := app.SetBackend(b); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.View.MarginLeft = 0
	cfg.View.MarginRight = 0
	cfg.Theme.Foreground = "#ff0000"
	cfg.Field.MaxUndoEntries = 2
	typeText(t, app, "abcd")
	app.applyReload(reload{cfg: cfg})

	if app.Config() != cfg {
		t.Error("config not replaced")
	}
	if m := app.Field().Viewport().Margins(); m.Left != 0 || m.Right != 0 {
		t.Errorf("margins = %+v", m)
	}
	if app.Message() != "config reloaded" {
		t.Errorf("message = %q", app.Message())
	}
	undos := 0
	for app.Field().Undo() == nil {
		undos++
	}
	if undos != 2 || dump(app) != "[ab]" {
		t.Errorf("undid %d edits to %s, want 2 to [ab]", undos, dump(app))
	}

	app.applyReload(reload{err: errors.New("bad file")})
	if !strings.Contains(app.Message(), "bad file") {
		t.Errorf("message = %q", app.Message())
	}
	if app.Config() != cfg {
		t.Error("a failed reload should keep the config")
	}
}
