// @focus: #terminal { ansi }
package terminal

import (
	"bufio"
)

// Pre-allocated ANSI sequence fragments
var (
	csi      = []byte("\x1b[")
	csiClear = []byte("\x1b[2J\x1b[H")
	csiRIS   = []byte("\x1bc") // Reset to Initial State (emergency)
	csiSGR0  = []byte("\x1b[0m")

	// Cursor control
	csiCursorHide = []byte("\x1b[?25l")
	csiCursorShow = []byte("\x1b[?25h")

	// Screen modes
	csiAltScreenEnter = []byte("\x1b[?1049h")
	csiAltScreenExit  = []byte("\x1b[?1049l")
	// DECAWM: ?7l disables wrapping so a write to the bottom-right corner does not scroll
	csiAutoWrapOn  = []byte("\x1b[?7h")
	csiAutoWrapOff = []byte("\x1b[?7l")
)

// writeInt writes an integer without allocation
// Optimized for terminal values (0-255 common, 0-999 typical max)
func writeInt(w *bufio.Writer, n int) {
	if n < 0 {
		n = 0
	}
	if n < 10 {
		w.WriteByte(byte(n) + '0')
		return
	}
	if n < 100 {
		w.WriteByte(byte(n/10) + '0')
		w.WriteByte(byte(n%10) + '0')
		return
	}
	if n < 1000 {
		w.WriteByte(byte(n/100) + '0')
		w.WriteByte(byte(n/10%10) + '0')
		w.WriteByte(byte(n%10) + '0')
		return
	}
	var buf [8]byte
	i := len(buf) - 1
	for n > 0 {
		buf[i] = byte(n%10) + '0'
		n /= 10
		i--
	}
	w.Write(buf[i+1:])
}

// writeCursorPos writes cursor positioning sequence (0-indexed input)
func writeCursorPos(w *bufio.Writer, row, col int) {
	w.Write(csi)
	writeInt(w, row+1)
	w.WriteByte(';')
	writeInt(w, col+1)
	w.WriteByte('H')
}

// writeSGR emits one combined SGR sequence: reset, attributes, foreground
func writeSGR(w *bufio.Writer, s Style, mode ColorMode) {
	w.Write(csi)
	w.WriteByte('0')

	if s.Attrs&AttrBold != 0 {
		w.WriteString(";1")
	}
	if s.Attrs&AttrDim != 0 {
		w.WriteString(";2")
	}
	if s.Attrs&AttrItalic != 0 {
		w.WriteString(";3")
	}
	if s.Attrs&AttrUnderline != 0 {
		w.WriteString(";4")
	}
	if s.Attrs&AttrBlink != 0 {
		w.WriteString(";5")
	}
	if s.Attrs&AttrReverse != 0 {
		w.WriteString(";7")
	}

	if !s.Default {
		if mode == ColorModeTrueColor {
			// 38;2;R;G;B
			w.WriteString(";38;2;")
			writeInt(w, int(s.Fg.R))
			w.WriteByte(';')
			writeInt(w, int(s.Fg.G))
			w.WriteByte(';')
			writeInt(w, int(s.Fg.B))
		} else {
			// 38;5;N
			w.WriteString(";38;5;")
			writeInt(w, int(RGBTo256(s.Fg)))
		}
	}

	w.WriteByte('m')
}
