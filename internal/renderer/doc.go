// Package renderer draws a math field onto a display backend.
//
// The renderer is responsible for:
//   - Painting the layout tree from its computed geometry
//   - Fraction bars, radicals, delimiters and empty-cell placeholders
//   - Caret and selection rendering
//   - Clipping to the field's viewport
//
// Architecture:
//
//	┌─────────────────────────────────────────┐
//	│           Painter (Facade)              │
//	├─────────────────────────────────────────┤
//	│  Geometry │ Viewport │ Theme            │
//	├─────────────────────────────────────────┤
//	│           Backend Abstraction           │
//	├─────────────────────────────────────────┤
//	│  Terminal (tcell) │ NullBackend         │
//	└─────────────────────────────────────────┘
//
// Usage:
//
//	b, _ := backend.NewTerminal()
//	p := renderer.NewPainter(b, renderer.WithTheme(renderer.DefaultTheme()))
//	p.Render(field)
//	b.Show()
package renderer
