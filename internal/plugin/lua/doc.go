// Package lua runs Lua scripts against a math field.
//
// Scripts execute in a sandboxed gopher-lua state: only the base, table,
// string and math libraries are opened, and the functions that load code
// from disk or strings are removed. A global table named field exposes
// the editing operations of one engine.Engine:
//
//	field.insert("2/")        -- type runes, structural ones included
//	field.move("down")
//	field.insert("3")
//	print(field.text())       -- {2}/{3}
//
// A Runner executes each script inside an engine transaction, so a script
// that raises an error leaves the field as it found it and a successful
// script undoes as a single step. Every run is bounded by a timeout.
//
// Fallible operations follow the Lua convention of returning true on
// success or nil and a message on failure, so a script can write
// assert(field.set_text("x")) to abort on bad input.
package lua
