package core

// Color is the foreground color of a screen cell. The terminal host maps
// each value to an ANSI color.
type Color uint8

// Palette.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightCyan
	ColorBrightWhite
	ColorGray
)

// Roles used by the renderer.
const (
	ColorSolid      = ColorGray
	ColorPlayer     = ColorBrightCyan
	ColorPlayerHurt = ColorYellow // during the post-hit grace period
	ColorEnemy      = ColorBrightRed
	ColorUnknown    = ColorMagenta // actor kind without a glyph
	ColorHUD        = ColorBrightWhite
	ColorDebug      = ColorGreen
)
