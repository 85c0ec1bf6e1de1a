package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/dshills/mathfield/internal/renderer/backend"
	"github.com/dshills/mathfield/internal/renderer/core"
)

// statusRows is the number of rows below the field.
const statusRows = 1

// eventLoop is the main application loop. It renders after every batch of
// work that left the screen dirty.
func (app *Application) eventLoop(ctx context.Context) error {
	events := app.startInputPolling()
	app.render()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-app.done:
			return nil
		case r := <-app.reloads:
			app.applyReload(r)
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			start := time.Now()
			err := app.handleBackendEvent(ev)
			app.metrics.RecordInput(time.Since(start))
			if errors.Is(err, ErrQuit) {
				return nil
			}
			if err != nil {
				return err
			}
		}
		if app.dirty {
			app.render()
		}
	}
}

// handleBackendEvent processes a backend event and routes it appropriately.
// Returns ErrQuit if the application should exit.
func (app *Application) handleBackendEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventResize:
		app.resize(ev.Width, ev.Height)
		return nil
	case backend.EventKey:
		return app.handleKeyEvent(ev)
	case backend.EventPaste:
		return app.handlePasteEvent(ev)
	default:
		return nil
	}
}

// handleKeyEvent types runes and dispatches bound keys.
func (app *Application) handleKeyEvent(ev backend.Event) error {
	if app.inPaste && ev.Key == backend.KeyRune {
		app.pasting = append(app.pasting, ev.Rune)
		return nil
	}

	app.message = ""
	if ev.Key == backend.KeyRune && !ev.Mod.Has(backend.ModCtrl) && !ev.Mod.Has(backend.ModAlt) {
		if err := app.field.InsertRune(ev.Rune); err != nil {
			app.reject(fmt.Sprintf("type %q", ev.Rune), err)
		}
		return nil
	}

	name, ok := app.keymap.Lookup(ev)
	if !ok {
		return nil
	}
	return app.Dispatch(name)
}

// handlePasteEvent collects a bracketed paste and inserts it as one step.
func (app *Application) handlePasteEvent(ev backend.Event) error {
	if ev.PasteStart {
		app.inPaste = true
		app.pasting = app.pasting[:0]
		return nil
	}
	app.inPaste = false
	text := string(app.pasting)
	app.pasting = app.pasting[:0]
	if text == "" {
		return nil
	}
	if !app.field.InsertText(text) {
		app.reject("paste", nil)
	}
	return nil
}

// resize gives the field everything but the status rows.
func (app *Application) resize(width, height int) {
	app.field.SetWindowSize(max(width, 1), max(height-statusRows, 1))
	app.dirty = true
}

// render draws the field and the status line.
func (app *Application) render() {
	if app.painter == nil {
		return
	}
	start := time.Now()
	app.painter.Render(app.field)
	app.drawStatus()
	app.backend.Show()
	app.dirty = false
	app.metrics.RecordRender(time.Since(start))
}

// drawStatus writes the mode, node usage, message and undo hint on the last
// row.
func (app *Application) drawStatus() {
	width, height := app.backend.Size()
	if height <= statusRows {
		return
	}
	y := height - statusRows
	style := app.theme.Text.WithAttributes(app.theme.Text.Attributes.With(core.AttrReverse))

	mode := "2D"
	if app.field.IsLinearMode() {
		mode = "TEXT"
	}
	tree := app.field.Tree()
	left := fmt.Sprintf(" %s  %d/%d ", mode, tree.Count(), tree.MaxNodes())
	right := " ^Q quit "
	if desc, ok := app.field.UndoDescription(); ok && !app.field.IsLinearMode() {
		hint := " ^Z " + desc + " "
		if runewidth.StringWidth(left+hint+right) <= width {
			right = hint + right
		}
	}
	if app.message != "" {
		left += " " + app.message
	}

	rw := runewidth.StringWidth(right)
	line := runewidth.FillRight(runewidth.Truncate(left, max(width-rw, 0), "…"), max(width-rw, 0))
	if width > rw {
		line += right
	}

	x := 0
	for _, r := range line {
		if x >= width {
			break
		}
		app.backend.SetCell(x, y, core.Cell{Rune: r, Style: style})
		for i := 1; i < runewidth.RuneWidth(r); i++ {
			app.backend.SetCell(x+i, y, core.Cell{Rune: 0, Style: style})
		}
		x += max(runewidth.RuneWidth(r), 1)
	}
}

// startInputPolling starts a goroutine that polls for input events.
// Events are sent to the returned channel.
//
// PollEvent is blocking. Run closes done before shutting the backend
// down, and the shutdown wakes PollEvent so the goroutine can exit.
func (app *Application) startInputPolling() <-chan backend.Event {
	events := make(chan backend.Event, 100)

	go func() {
		defer close(events)
		for {
			ev := app.backend.PollEvent()
			select {
			case <-app.done:
				return
			default:
			}
			select {
			case events <- ev:
			case <-app.done:
				return
			default:
				app.metrics.RecordInputDropped()
			}
		}
	}()

	return events
}
