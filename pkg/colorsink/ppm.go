package colorsink

import (
	"bufio"
	"fmt"
	"io"
)

// WritePPM writes fb as a binary (P6) PPM image, dropping the alpha
// channel, matching the original source's triangles_ppm example writer.
func WritePPM(w io.Writer, fb *Framebuffer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", fb.Width, fb.Height); err != nil {
		return fmt.Errorf("colorsink: writing PPM header: %w", err)
	}
	channels := make([]byte, 3*fb.Width)
	for y := 0; y < fb.Height; y++ {
		row := fb.Pixels[y*fb.Width : (y+1)*fb.Width]
		for x, pixel := range row {
			channels[3*x+0] = byte(pixel >> 16)
			channels[3*x+1] = byte(pixel >> 8)
			channels[3*x+2] = byte(pixel)
		}
		if _, err := bw.Write(channels); err != nil {
			return fmt.Errorf("colorsink: writing PPM row %d: %w", y, err)
		}
	}
	return bw.Flush()
}
