// @focus: #sys { io } #input { keys }
package terminal

const (
	keyCtrlC  = 0x03
	keyCtrlD  = 0x04
	keyEscape = 0x1b
)

// isInterruptKey reports whether a raw read contains a quit request.
// A lone ESC is the Escape key; ESC followed by more bytes starts a sequence
// (arrows, function keys) and everything after it is ignored.
func isInterruptKey(data []byte) bool {
	if len(data) == 1 && data[0] == keyEscape {
		return true
	}
	for _, b := range data {
		switch b {
		case keyCtrlC, keyCtrlD, 'q', 'Q':
			return true
		case keyEscape:
			return false
		}
	}
	return false
}
