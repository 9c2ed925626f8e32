// Command cascade-view is a terminal glTF viewer: it loads a model, orbits
// a camera around it with spring-eased motion, and rasterizes it straight
// to the terminal using half-block cells.
//
// Controls:
//
//	Esc, Ctrl-C - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/cascade3d/cascade/internal/logging"
	"github.com/cascade3d/cascade/pkg/colorsink"
	"github.com/cascade3d/cascade/pkg/mesh"
	"github.com/cascade3d/cascade/pkg/raster"
	"github.com/cascade3d/cascade/pkg/scene"
	"github.com/cascade3d/cascade/pkg/termview"
)

var (
	targetFPS = flag.Int("fps", 30, "Target frames per second")
	bgColor   = flag.String("bg", "30,30,40", "Background color as R,G,B")
	orbitFreq = flag.Float64("orbit-speed", 0.6, "Orbit angular speed in radians/second")
	logFile   = flag.String("log-file", "", "Write structured logs to this file (the terminal screen itself can't show them); unset disables logging")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "cascade-view - terminal glTF viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: cascade-view [options] <model.glb>\n\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n  Esc, Ctrl-C  - Quit\n")
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintln(os.Stderr, "cascade-view: opening log file:", err)
			os.Exit(1)
		}
		defer f.Close()
		logging.SetLogger(slog.New(slog.NewTextHandler(f, nil)))
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, "cascade-view:", err)
		os.Exit(1)
	}
}

func parseBG() (r, g, b uint8) {
	parts := strings.Split(*bgColor, ",")
	if len(parts) != 3 {
		return 30, 30, 40
	}
	vals := [3]uint8{30, 30, 40}
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err == nil && n >= 0 && n <= 255 {
			vals[i] = uint8(n)
		}
	}
	return vals[0], vals[1], vals[2]
}

func run(modelPath string) error {
	log := logging.Logger()

	m, err := mesh.Load(modelPath)
	if err != nil {
		return fmt.Errorf("loading model: %w", err)
	}
	fmt.Fprintf(os.Stderr, "loaded %s: %d vertices, %d triangles\n", m.Name, m.VertexCount(), len(m.Indices)/3)

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		log.Error("cascade-view: failed to get terminal size", "error", err)
		return fmt.Errorf("getting terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		log.Error("cascade-view: failed to start terminal", "error", err)
		return fmt.Errorf("starting terminal: %w", err)
	}
	log.Info("cascade-view: terminal started", "width", width, "height", height)
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
		log.Info("cascade-view: shut down")
	}
	defer cleanup()

	fbWidth, fbHeight := width, height*2

	cam := scene.NewCamera()
	cam.SetAspectRatio(float64(fbWidth) / float64(fbHeight))
	cam.SetClipPlanes(0.01, 1000)

	center := m.Center()
	radius := m.BoundsMax.Sub(m.BoundsMin).Len()
	if radius <= 0 {
		radius = 1
	}
	orbit := scene.NewOrbitAnimator(float64(*targetFPS), 2.0, 1.0)
	orbit.Radius = radius * 1.5

	bgR, bgG, bgB := parseBG()
	bgPacked := colorsink.PackBGRA(bgR, bgG, bgB, 255)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				fbWidth, fbHeight = width, height*2
				cam.SetAspectRatio(float64(fbWidth) / float64(fbHeight))
				term.Resize(width, height)
			case uv.KeyPressEvent:
				if ev.MatchString("escape") || ev.MatchString("ctrl+c") {
					cancel()
				}
			}
		}
	}()

	targetDuration := time.Second / time.Duration(*targetFPS)
	lastFrame := time.Now()
	var elapsedSeconds float64

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		now := time.Now()
		dt := now.Sub(lastFrame).Seconds()
		lastFrame = now

		elapsedSeconds += dt
		orbit.TargetYaw = elapsedSeconds * *orbitFreq

		orbit.Step(cam, center)

		frustum := scene.NewFrustumFromMatrix(cam.ViewProjectionMatrix())
		box := scene.AABB{Min: m.BoundsMin, Max: m.BoundsMax}

		fb := colorsink.New(fbWidth, fbHeight)
		fb.Clear(bgPacked)

		if frustum.IntersectsAABB(box) {
			vb := scene.TransformToClipSpace(m, cam.ViewProjectionMatrix(), fbWidth, fbHeight)

			quant := &colorsink.Quantizer{FB: fb}
			quant.SetStride(vb.AttributeCount())
			// mesh.Vertex.Attributes lays out normal.xyz, uv.xy, then
			// color.rgba — color starts at attribute index 5, not 0.
			quant.SetColorAttributeOffset(5)

			fragBuf := make([]byte, 4096)
			input := raster.Input{
				VertexData: vb,
				Indices:    raster.IndexBuffer(m.Indices),
				Viewport:   raster.Viewport{Min: raster.Point{X: 0, Y: 0}, Max: raster.Point{X: int32(fbWidth - 1), Y: int32(fbHeight - 1)}},
				CullMode:   raster.CullBack,
			}
			if err := raster.Rasterize(input, raster.FragmentBuffer{Buffer: fragBuf, Sink: quant}); err != nil {
				log.Error("cascade-view: rasterize failed", "error", err)
				return fmt.Errorf("rasterizing frame: %w", err)
			}
		}

		termview.Draw(fb, term, uv.Rectangle{Min: uv.Position{X: 0, Y: 0}, Max: uv.Position{X: width, Y: height}})
		term.Display()

		if elapsed := time.Since(now); elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
