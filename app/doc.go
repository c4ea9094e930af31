// Package app implements the interactive scraper screen.
//
// The screen state is a plain State value changed only by the pure
// transition functions in state.go. Model wires those transitions to the
// bubbletea event loop: key presses start backend calls as commands, and
// their results come back as messages that produce the next State.
// RenderItems draws the item cards and has no state of its own.
package app
