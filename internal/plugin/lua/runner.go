package lua

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshills/mathfield/internal/engine"
)

// Runner runs scripts against one field, each as a single transaction.
type Runner struct {
	state *State
	field *engine.Engine
}

// NewRunner creates a sandboxed state with the field table bound to e.
func NewRunner(e *engine.Engine, opts ...Option) (*Runner, error) {
	s, err := NewState(opts...)
	if err != nil {
		return nil, err
	}
	BindField(s, e)
	return &Runner{state: s, field: e}, nil
}

// State returns the underlying state.
func (r *Runner) State() *State {
	return r.state
}

// Run executes code as one undoable step named after name. If the script
// raises an error or times out, every change it made is rolled back.
func (r *Runner) Run(ctx context.Context, name, code string) error {
	err := r.field.Transaction("Run "+name, func() error {
		return r.state.DoString(ctx, code)
	})
	if err != nil {
		return fmt.Errorf("script %s: %w", name, err)
	}
	return nil
}

// RunFile reads and runs the script at path.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	code, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	return r.Run(ctx, filepath.Base(path), string(code))
}

// Call runs the global function fn as one undoable step.
func (r *Runner) Call(ctx context.Context, fn string) error {
	err := r.field.Transaction("Run "+fn, func() error {
		return r.state.Call(ctx, fn)
	})
	if err != nil {
		return fmt.Errorf("script %s: %w", fn, err)
	}
	return nil
}

// Close releases the Lua state.
func (r *Runner) Close() error {
	return r.state.Close()
}
