// Package imaging renders the captcha challenge and the welcome card as PNG.
package imaging

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var face = basicfont.Face7x13

// textSize is the unscaled size of s in pixels.
func textSize(s string) (int, int) {
	d := font.Drawer{Face: face}
	return d.MeasureString(s).Ceil(), face.Height
}

// drawText draws s with its top-left corner at (x, y), every glyph pixel
// blown up to scale×scale.
func drawText(dst draw.Image, s string, x, y, scale int, c color.Color) {
	w, h := textSize(s)
	if w == 0 {
		return
	}
	glyphs := image.NewRGBA(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  glyphs,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(s)

	target := image.Rect(x, y, x+w*scale, y+h*scale)
	draw.NearestNeighbor.Scale(dst, target, glyphs, glyphs.Bounds(), draw.Over, nil)
}

// drawCentered draws s horizontally centred on cx.
func drawCentered(dst draw.Image, s string, cx, y, scale int, c color.Color) {
	w, _ := textSize(s)
	drawText(dst, s, cx-w*scale/2, y, scale, c)
}

// line draws a 1px line with Bresenham's algorithm.
func line(dst draw.Image, x0, y0, x1, y1 int, c color.Color) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		dst.Set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func thickLine(dst draw.Image, x0, y0, x1, y1, width int, c color.Color) {
	for o := 0; o < width; o++ {
		line(dst, x0, y0+o, x1, y1+o, c)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// RGB splits a 0xRRGGBB colour.
func RGB(v int) color.RGBA {
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}
