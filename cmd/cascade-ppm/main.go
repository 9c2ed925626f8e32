// Command cascade-ppm rasterizes a fixed two-triangle scene and writes it
// to a binary PPM file. It reproduces the original source's
// triangles_ppm example using the Go rasterizer core.
package main

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/cascade3d/cascade/internal/logging"
	"github.com/cascade3d/cascade/pkg/colorsink"
	"github.com/cascade3d/cascade/pkg/raster"
)

const (
	width  = 640
	height = 480
)

func main() {
	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <output.ppm>\n", os.Args[0])
		os.Exit(1)
	}

	if err := run(os.Args[1]); err != nil {
		fmt.Fprintln(os.Stderr, "cascade-ppm:", err)
		os.Exit(1)
	}
}

func run(outPath string) error {
	log := logging.Logger()

	var vdata []byte
	put := func(x, y, z, w float32, color [4]float32) {
		for _, f := range []float32{x, y, z, w, color[0], color[1], color[2], color[3]} {
			var word [4]byte
			binary.LittleEndian.PutUint32(word[:], math.Float32bits(f))
			vdata = append(vdata, word[:]...)
		}
	}

	red := [4]float32{1, 0, 0, 1}
	green := [4]float32{0, 1, 0, 1}
	blue := [4]float32{0, 0, 1, 1}

	put(50, 200, 1, 1, red)
	put(100, 200, 1, 1, blue)
	put(75, 100, 1, 1, green)
	put(300, 300, 1, 1, red)
	put(300, 100, 1, 1, red)
	put(500, 200, 1, 1, blue)

	indices := raster.IndexBuffer{0, 2, 1, 3, 4, 5}
	vb := raster.VertexBuffer{Data: vdata, StrideBytes: 32}

	quant := colorsink.NewQuantizer(width, height)
	quant.SetStride(vb.AttributeCount())

	fragBuf := make([]byte, 1024)
	fb := raster.FragmentBuffer{Buffer: fragBuf, Sink: quant}

	input := raster.Input{
		VertexData: vb,
		Indices:    indices,
		Viewport:   raster.Viewport{Min: raster.Point{X: 0, Y: 0}, Max: raster.Point{X: width - 1, Y: height - 1}},
		CullMode:   raster.CullBack,
	}
	log.Info("cascade-ppm: rasterizing fixed scene", "triangles", len(indices)/3, "width", width, "height", height)
	if err := raster.Rasterize(input, fb); err != nil {
		log.Error("cascade-ppm: rasterize failed", "error", err)
		return fmt.Errorf("rasterize: %w", err)
	}

	f, err := os.Create(outPath)
	if err != nil {
		log.Error("cascade-ppm: failed to create output file", "path", outPath, "error", err)
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer f.Close()

	if err := colorsink.WritePPM(f, quant.FB); err != nil {
		log.Error("cascade-ppm: failed to write PPM", "path", outPath, "error", err)
		return fmt.Errorf("writing PPM: %w", err)
	}
	log.Info("cascade-ppm: wrote PPM", "path", outPath)
	return nil
}
