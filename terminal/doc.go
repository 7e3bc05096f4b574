// @focus: #sys { term }
// Package terminal provides the output sinks the animation driver renders into.
//
// Features:
//   - True color (24-bit) and 256-color palette output
//   - Direct ANSI sink over a raw-mode tty backend, or a tcell screen
//   - SIGWINCH resize tracking
//   - Keyboard interrupt detection while stdin is in raw mode
//   - Clean terminal restoration on exit/panic
//
// The ANSI sink bypasses terminfo/termcap entirely, emitting direct ANSI sequences.
// Target environments: Linux, macOS, BSDs with xterm-compatible terminals.
package terminal
