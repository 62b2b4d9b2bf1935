// Package terminal provides terminal devices for the sprite renderer.
//
// Features:
//   - Run-batched cell writer with SGR coalescing and front-buffer skip
//   - True color (24-bit) and 256-color palette output
//   - Raw stdin input parsing: keys, SGR mouse, focus, bracketed paste
//   - SIGWINCH resize detection
//   - Guaranteed restoration on clean exit (Fini) and crash paths (Abort)
//
// Two devices implement Terminal: the native ANSI device (New), which emits
// sequences directly and bypasses terminfo, and a tcell-backed device
// (NewTcell) that also serves headless tests via tcell.SimulationScreen.
package terminal
