package core

// Color is a foreground color for a screen cell. The platform layer maps it
// to an ANSI 256-color code.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)
