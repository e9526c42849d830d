// Package textarea implements the editing widget each tab owns.
//
// An Area holds lines of runes, one cursor with an optional selection,
// a widget-local undo history and a clean mark used for the modified
// flag. Positions are zero-based line and rune column.
//
// Area is not safe for concurrent use; the renderer drives it from its UI
// goroutine.
package textarea
