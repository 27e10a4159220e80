// Package tui renders the puzzle in the terminal with bubbletea.
//
// Two models make up the program. MenuModel picks a difficulty tier and
// hands off to GameModel, which owns a private engine instance: no HTTP
// server or session manager is involved, and bubbletea's single event loop
// provides the serialization the engine asks for.
//
// The clock runs off a one-second tea.Tick chain that is armed while the
// board is in the running phase and re-armed by reshuffles and level
// advances. Solving a board starts a short flash chain that toggles the
// board highlight and then lowers the celebrating flag, mirroring what the
// session tracker does for remote players.
//
// Key bindings live in Keys (arrows or hjkl to move, enter or space to
// slide, r to reshuffle, n for the next level after a solve). Sound and
// flash feedback can be toggled at runtime with s and v.
//
// The same models are served over SSH by the ssh command, which wraps them
// in the wish bubbletea middleware.
package tui
