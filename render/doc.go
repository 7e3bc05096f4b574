// Package render holds the frame model shared by effects and the driver.
// All widths are terminal display cells as measured by go-runewidth, not bytes or runes.
package render
