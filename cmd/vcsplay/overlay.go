package main

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// debugOverlay renders a few lines of text (frame counter, cc/sl, chip
// state) into an RGBA image each frame, using basicfont so the demo binary
// doesn't need a bundled TTF. The image is re-blitted onto an SDL texture
// by the caller.
type debugOverlay struct {
	img *image.RGBA
}

func newDebugOverlay(w, h int) *debugOverlay {
	return &debugOverlay{img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

// Render draws lines of text starting at the top-left corner and returns
// the backing RGBA buffer. Each call clears the previous frame's text.
func (o *debugOverlay) Render(lines []string) *image.RGBA {
	draw.Draw(o.img, o.img.Bounds(), image.Transparent, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  o.img,
		Src:  image.NewUniform(color.RGBA{R: 0x30, G: 0xFF, B: 0x30, A: 0xFF}),
		Face: basicfont.Face7x13,
	}
	const lineHeight = 14
	y := 12
	for _, line := range lines {
		d.Dot = fixed.P(4, y)
		d.DrawString(line)
		y += lineHeight
	}
	return o.img
}
