// Command ccd2d-demo shows a scene in a window. Without a scene file it
// runs a built-in one.
package main

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/spf13/cobra"

	"github.com/koteyur/ccd2d/geom"
	"github.com/koteyur/ccd2d/internal/logx"
	"github.com/koteyur/ccd2d/physics"
	"github.com/koteyur/ccd2d/scene"
)

const (
	screenWidth  = 1200
	screenHeight = 720

	frameTime     = 1.0 / 60
	circleSides   = 24
	lineHalfReach = 4000
)

var (
	colorBody     = color.RGBA{0, 255, 0, 255}
	colorDisabled = color.RGBA{80, 120, 80, 255}
	colorAnimated = color.RGBA{255, 0, 255, 255}
	colorStatic   = color.RGBA{200, 200, 200, 255}
)

// Game implements ebiten.Game.
type Game struct {
	filename string
	world    *scene.World
	updates  <-chan scene.Update
	paused   bool
	message  string
	rng      *rand.Rand
}

func (g *Game) Update() error {
	select {
	case u, ok := <-g.updates:
		if !ok {
			g.updates = nil
		} else if u.Err != nil {
			g.message = u.Err.Error()
		} else {
			g.load(u.Scene)
		}
	default:
	}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.reload()
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.drop(ebiten.CursorPosition())
	}
	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		g.drop(ebiten.TouchPosition(id))
	}

	if !g.paused {
		if err := g.world.Step(frameTime); err != nil {
			g.message = err.Error()
		}
	}
	return nil
}

// drop adds a circle at screen position x, y.
func (g *Game) drop(x, y int) {
	frame := physics.NewFrame(toWorld(x, y), 0)
	c, err := physics.NewSimulatedCircle(frame, 10+g.rng.Float64()*20, 1, physics.SolidDisk)
	if err != nil {
		g.message = err.Error()
		return
	}
	c.Material = physics.MaterialRubber
	if err := g.world.AddBody("", c); err != nil {
		g.message = err.Error()
	}
}

func (g *Game) reload() {
	if g.filename == "" {
		g.load(builtinScene())
		return
	}
	sc, err := scene.Open(g.filename)
	if err != nil {
		g.message = err.Error()
		return
	}
	g.load(sc)
}

func (g *Game) load(sc *scene.Scene) {
	w, err := scene.Build(sc, slog.Default())
	if err != nil {
		g.message = err.Error()
		return
	}
	g.world = w
	g.message = ""
}

func (g *Game) Draw(screen *ebiten.Image) {
	w := g.world
	for _, l := range w.Lines {
		t := l.Normal().Perp().MulScalar(lineHalfReach)
		drawLine(screen, l.Point().Sub(t), l.Point().Add(t), colorStatic)
	}
	for _, s := range w.Segments {
		drawLine(screen, s.A(), s.B(), colorStatic)
	}
	for _, p := range w.Points {
		drawLine(screen, p.Point().Add(geom.Vec2(-3, 0)), p.Point().Add(geom.Vec2(3, 0)), colorStatic)
		drawLine(screen, p.Point().Add(geom.Vec2(0, -3)), p.Point().Add(geom.Vec2(0, 3)), colorStatic)
	}
	for _, c := range w.Circles {
		drawCircle(screen, c.Center(), c.Radius(), math.NaN(), colorStatic)
	}
	for _, a := range w.Animated {
		drawCircle(screen, a.Position(), max(a.BoundingRadius(), 2), a.Rotation(), colorAnimated)
	}
	for _, b := range w.Bodies {
		clr := colorBody
		if !b.Enabled {
			clr = colorDisabled
		}
		drawCircle(screen, b.Position(), b.Radius(), b.Rotation(), clr)
	}

	state := "running"
	if g.paused {
		state = "paused"
	}
	stats := w.System.Stats()
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"%s: %s, %d bodies, %d collisions\n<space> pause, click to drop a circle, <r> reload\n%s",
		w.Name, state, w.System.NumSimulated(), stats.Collisions, g.message))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

// The world has y pointing up with the origin at the bottom left corner of
// the window.
func toScreen(p geom.Vector2) (float64, float64) {
	return p.X, screenHeight - p.Y
}

func toWorld(x, y int) geom.Vector2 {
	return geom.Vec2(float64(x), float64(screenHeight-y))
}

func drawLine(screen *ebiten.Image, a, b geom.Vector2, clr color.Color) {
	ax, ay := toScreen(a)
	bx, by := toScreen(b)
	ebitenutil.DrawLine(screen, ax, ay, bx, by, clr)
}

// drawCircle draws a wireframe circle with a spoke at angle rotation, or
// without one when rotation is NaN.
func drawCircle(screen *ebiten.Image, center geom.Vector2, radius, rotation float64, clr color.Color) {
	prev := center.Add(geom.Vec2(radius, 0))
	for i := 1; i <= circleSides; i++ {
		angle := 2 * math.Pi * float64(i) / circleSides
		next := center.Add(geom.Vec2(math.Cos(angle), math.Sin(angle)).MulScalar(radius))
		drawLine(screen, prev, next, clr)
		prev = next
	}
	if !math.IsNaN(rotation) {
		spoke := geom.Vec2(math.Cos(rotation), math.Sin(rotation)).MulScalar(radius)
		drawLine(screen, center, center.Add(spoke), clr)
	}
}

func newRootCmd() *cobra.Command {
	var debug, verbose, quiet bool
	cmd := &cobra.Command{
		Use:           "ccd2d-demo [scene]",
		Short:         "Show a scene in a window",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logx.SetDefault(cmd.ErrOrStderr(), logx.LevelFromFlags(debug, verbose, quiet), true)

			g := &Game{rng: rand.New(rand.NewPCG(1, 2))}
			sc := builtinScene()
			if len(args) == 1 {
				g.filename = args[0]
				var err error
				if sc, err = scene.Open(g.filename); err != nil {
					return err
				}
				ctx, cancel := context.WithCancel(cmd.Context())
				defer cancel()
				if g.updates, err = scene.Watch(ctx, g.filename, slog.Default()); err != nil {
					return err
				}
			}
			w, err := scene.Build(sc, slog.Default())
			if err != nil {
				return err
			}
			g.world = w

			ebiten.SetWindowSize(screenWidth, screenHeight)
			ebiten.SetWindowTitle("ccd2d demo: " + w.Name)
			return ebiten.RunGame(g)
		},
	}
	f := cmd.Flags()
	f.BoolVar(&debug, "debug", false, "log debug messages")
	f.BoolVarP(&verbose, "verbose", "v", false, "log info messages")
	f.BoolVarP(&quiet, "quiet", "q", false, "log errors only")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
