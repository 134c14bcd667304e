package main

import "image/color"

const disabledAlpha = uint8(100)

var (
	plotBackground  = color.NRGBA{R: 0xfa, G: 0xfa, B: 0xfa, A: 0xff}
	axisColor       = color.NRGBA{A: 0xff}
	cursorColor     = color.NRGBA{A: 0xb0}
	hoverBackground = color.NRGBA{R: 255, G: 255, B: 255, A: 200}
	zoomBoxFill     = color.NRGBA{R: 0x2b, G: 0x7f, B: 0xa8, A: 40}
	zoomBoxEdge     = color.NRGBA{R: 0x2b, G: 0x7f, B: 0xa8, A: 0xff}
	errorColor      = color.NRGBA{R: 150, A: 255}
)

// fade returns c with its alpha replaced.
func fade(c color.NRGBA, alpha uint8) color.NRGBA {
	c.A = alpha
	return c
}

// gridColor draws the lines through the origin darker than the rest.
func gridColor(zero bool) color.NRGBA {
	if zero {
		return color.NRGBA{A: 100}
	}
	return color.NRGBA{A: 35}
}
