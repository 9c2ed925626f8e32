// Package termview draws a colorsink.Framebuffer into a terminal, halving
// its row count by packing two framebuffer rows into one terminal cell via
// the upper-half-block character with independent foreground/background
// colors.
package termview

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/cascade3d/cascade/pkg/colorsink"
)

// Draw renders fb into area of scr. fb's height should be 2x area's row
// count; rows beyond that are not drawn.
func Draw(fb *colorsink.Framebuffer, scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := row * 2
		botY := topY + 1
		if botY >= fb.Height {
			break
		}

		for col := area.Min.X; col < area.Max.X && col < fb.Width; col++ {
			top, _ := fb.At(col, topY)
			bot, _ := fb.At(col, botY)

			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: packedToColor(top),
					Bg: packedToColor(bot),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// packedToColor unpacks a colorsink-packed BGRA pixel into a color.Color,
// reporting nil (no color) for a fully transparent pixel.
func packedToColor(packed uint32) color.Color {
	a := uint8(packed >> 24)
	if a == 0 {
		return nil
	}
	r := uint8(packed >> 16)
	g := uint8(packed >> 8)
	b := uint8(packed)
	return color.RGBA{R: r, G: g, B: b, A: a}
}
