// Package colorutil provides the shared colors of the board drawings and
// overlays.
package colorutil

import "image/color"

// Common overlay colors.
var (
	Black   = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Cyan    = color.RGBA{R: 0, G: 255, B: 255, A: 255}
	Magenta = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	Blue    = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	Green   = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Yellow  = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	Red     = color.RGBA{R: 255, G: 0, B: 0, A: 255}
)

// Board colors.
var (
	BoardBlack = color.RGBA{R: 20, G: 20, B: 20, A: 255}
	BoardCream = color.RGBA{R: 236, G: 222, B: 186, A: 255}
	BoardRed   = color.RGBA{R: 200, G: 30, B: 35, A: 255}
	BoardGreen = color.RGBA{R: 20, G: 130, B: 60, A: 255}
	Surround   = color.RGBA{R: 35, G: 35, B: 35, A: 255}
	Wire       = color.RGBA{R: 190, G: 190, B: 190, A: 255}
)

// SegmentColor returns the fill of sector index i (0 is the 20 at the top).
// Scoring rings alternate red and green, singles alternate black and cream.
func SegmentColor(i int, scoringRing bool) color.RGBA {
	even := i%2 == 0
	switch {
	case scoringRing && even:
		return BoardRed
	case scoringRing:
		return BoardGreen
	case even:
		return BoardBlack
	default:
		return BoardCream
	}
}
