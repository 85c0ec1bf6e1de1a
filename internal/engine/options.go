package engine

import (
	"github.com/dshills/mathfield/internal/clipboard"
	"github.com/dshills/mathfield/internal/engine/layout"
	"github.com/dshills/mathfield/internal/engine/linear"
	"github.com/dshills/mathfield/internal/logging"
	"github.com/dshills/mathfield/internal/renderer/viewport"
)

// Default configuration values.
const (
	DefaultMaxNodes       = layout.DefaultMaxNodes
	DefaultMaxBufferSize  = linear.MaxBufferSize
	DefaultMaxUndoEntries = 100
	DefaultVariable       = 'x'
	DefaultWindowWidth    = 80
	DefaultWindowHeight   = 8
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithContent sets the initial content as linear text. Text that does not
// parse is logged and the field starts empty.
func WithContent(text string) Option {
	return func(e *Engine) {
		e.initContent = text
	}
}

// WithMaxNodes sets the layout tree node ceiling.
func WithMaxNodes(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxNodes = n
		}
	}
}

// WithMaxBufferSize sets the linear text capacity in bytes.
func WithMaxBufferSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxBufferSize = n
		}
	}
}

// WithMaxUndoEntries sets the maximum number of undo history entries.
func WithMaxUndoEntries(max int) Option {
	return func(e *Engine) {
		if max > 0 {
			e.maxUndoEntries = max
		}
	}
}

// WithDefaultVariable sets the symbol InsertXNT types.
func WithDefaultVariable(r rune) Option {
	return func(e *Engine) {
		e.variable = r
	}
}

// WithClipboard sets the clipboard used by copy, cut and paste.
func WithClipboard(c clipboard.Clipboard) Option {
	return func(e *Engine) {
		e.clip = c
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithWindowSize sets the size of the visible window the caret is kept in.
func WithWindowSize(width, height int) Option {
	return func(e *Engine) {
		e.windowW, e.windowH = width, height
	}
}

// WithScrollMargins sets the context kept around the caret when scrolling.
func WithScrollMargins(m viewport.MarginConfig) Option {
	return func(e *Engine) {
		e.margins = &m
	}
}
