package app

import (
	"errors"
	"fmt"

	"github.com/dshills/mathfield/internal/engine"
	"github.com/dshills/mathfield/internal/renderer/backend"
)

// Chord is a key with the shift state that selects its binding. Other
// modifiers are ignored; control keys arrive as KeyCtrlA..KeyCtrlZ.
type Chord struct {
	Key   backend.Key
	Shift bool
}

// Keymap maps chords to action names.
type Keymap map[Chord]string

// DefaultKeymap returns the built-in bindings.
func DefaultKeymap() Keymap {
	return Keymap{
		{Key: backend.KeyLeft}:  "cursor.left",
		{Key: backend.KeyRight}: "cursor.right",
		{Key: backend.KeyUp}:    "cursor.up",
		{Key: backend.KeyDown}:  "cursor.down",
		{Key: backend.KeyTab}:   "cursor.right",
		{Key: backend.KeyHome}:  "cursor.home",
		{Key: backend.KeyEnd}:   "cursor.end",

		{Key: backend.KeyLeft, Shift: true}:  "select.left",
		{Key: backend.KeyRight, Shift: true}: "select.right",
		{Key: backend.KeyUp, Shift: true}:    "select.up",
		{Key: backend.KeyDown, Shift: true}:  "select.down",
		{Key: backend.KeyEscape}:             "select.clear",

		{Key: backend.KeyBackspace}: "edit.backspace",
		{Key: backend.KeyDelete}:    "edit.delete",
		{Key: backend.KeyCtrlZ}:     "edit.undo",
		{Key: backend.KeyCtrlY}:     "edit.redo",
		{Key: backend.KeyCtrlC}:     "edit.copy",
		{Key: backend.KeyCtrlX}:     "edit.cut",
		{Key: backend.KeyCtrlV}:     "edit.paste",
		{Key: backend.KeyCtrlK}:     "edit.clear",
		{Key: backend.KeyCtrlN}:     "edit.variable",
		{Key: backend.KeyCtrlT}:     "edit.matrix",
		{Key: backend.KeyCtrlR}:     "edit.wrap-root",
		{Key: backend.KeyCtrlF}:     "edit.wrap-fraction",

		{Key: backend.KeyCtrlL}: "mode.linear",
		{Key: backend.KeyEnter}: "mode.commit",
		{Key: backend.KeyF2}:    "script.macro",
		{Key: backend.KeyCtrlQ}: "app.quit",
	}
}

// Lookup returns the action bound to ev, if any.
func (k Keymap) Lookup(ev backend.Event) (string, bool) {
	shift := ev.Mod.Has(backend.ModShift)
	if name, ok := k[Chord{Key: ev.Key, Shift: shift}]; ok {
		return name, true
	}
	if shift {
		name, ok := k[Chord{Key: ev.Key}]
		return name, ok
	}
	return "", false
}

// actionFunc performs a bound action. A false result marks an edit the
// field rejected.
type actionFunc func(app *Application) (bool, error)

var actions = map[string]actionFunc{
	"cursor.left":  move(engine.Left),
	"cursor.right": move(engine.Right),
	"cursor.up":    move(engine.Up),
	"cursor.down":  move(engine.Down),
	"cursor.home":  edge(engine.Left),
	"cursor.end":   edge(engine.Right),

	"select.left":  extend(engine.Left),
	"select.right": extend(engine.Right),
	"select.up":    extend(engine.Up),
	"select.down":  extend(engine.Down),
	"select.clear": func(app *Application) (bool, error) {
		app.field.ClearSelection()
		return true, nil
	},

	"edit.backspace":     del(engine.Left),
	"edit.delete":        del(engine.Right),
	"edit.undo":          undoRedo((*engine.Engine).Undo),
	"edit.redo":          undoRedo((*engine.Engine).Redo),
	"edit.copy":          selection(engine.ActionCopy),
	"edit.cut":           selection(engine.ActionCut),
	"edit.wrap-root":     selection(engine.ActionWrapRoot),
	"edit.wrap-fraction": selection(engine.ActionWrapFraction),
	"edit.paste": func(app *Application) (bool, error) {
		return check(app.field.Paste())
	},
	"edit.clear": func(app *Application) (bool, error) {
		app.field.Clear()
		return true, nil
	},
	"edit.variable": func(app *Application) (bool, error) {
		return app.field.InsertXNT(), nil
	},
	"edit.matrix": func(app *Application) (bool, error) {
		return app.field.InsertMatrix(2, 2), nil
	},

	"mode.linear": func(app *Application) (bool, error) {
		return check(app.field.SetLinearMode(!app.field.IsLinearMode()))
	},
	"mode.commit": func(app *Application) (bool, error) {
		if !app.field.IsLinearMode() {
			return true, nil
		}
		return check(app.field.SetLinearMode(false))
	},
	"script.macro": func(app *Application) (bool, error) {
		return check(app.RunMacro())
	},
	"app.quit": func(*Application) (bool, error) {
		return true, ErrQuit
	},
}

// check turns a field error into a rejection, keeping it for the status
// line.
func check(err error) (bool, error) {
	if err != nil {
		return false, err
	}
	return true, nil
}

func move(dir engine.Direction) actionFunc {
	return func(app *Application) (bool, error) {
		app.field.MoveCursor(dir)
		return true, nil
	}
}

func edge(dir engine.Direction) actionFunc {
	return func(app *Application) (bool, error) {
		app.field.PutCursorOnOneSide(dir)
		return true, nil
	}
}

func extend(dir engine.Direction) actionFunc {
	return func(app *Application) (bool, error) {
		return app.field.ExtendSelection(dir), nil
	}
}

func del(dir engine.Direction) actionFunc {
	return func(app *Application) (bool, error) {
		return app.field.Delete(dir), nil
	}
}

func undoRedo(fn func(*engine.Engine) error) actionFunc {
	return func(app *Application) (bool, error) {
		err := fn(app.field)
		if errors.Is(err, engine.ErrNothingToUndo) || errors.Is(err, engine.ErrNothingToRedo) {
			return false, nil
		}
		return check(err)
	}
}

func selection(action engine.SelectionAction) actionFunc {
	return func(app *Application) (bool, error) {
		err := app.field.CommitSelectionAction(action)
		if errors.Is(err, engine.ErrEmptySelection) {
			return false, nil
		}
		return check(err)
	}
}

// Dispatch performs the named action.
func (app *Application) Dispatch(name string) error {
	fn, ok := actions[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}
	applied, err := fn(app)
	if errors.Is(err, ErrQuit) {
		return err
	}
	if err != nil || !applied {
		app.reject(name, err)
	}
	return nil
}
