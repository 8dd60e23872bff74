package core

// Color is the foreground color of a screen cell. The display layer decides
// how each value is styled; ColorDefault cells render unstyled.
type Color uint8

// The playfield palette: the eight base terminal colors plus the two
// extended picks used for walls and hazard accents.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorOrange
	ColorGray
)
