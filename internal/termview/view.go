// Package termview draws a scene world on a terminal screen.
package termview

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/koteyur/ccd2d/geom"
	"github.com/koteyur/ccd2d/physics"
	"github.com/koteyur/ccd2d/scene"
)

// Terminal cells are about twice as tall as they are wide.
const cellAspect = 2

var (
	styleStatus   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)
	styleLine     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleSegment  = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	stylePoint    = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleCircle   = tcell.StyleDefault.Foreground(tcell.ColorOlive)
	styleBody     = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleDisabled = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleAnimated = tcell.StyleDefault.Foreground(tcell.ColorFuchsia)
)

// Glyphs used for each kind of body.
const (
	RuneLine     = '.'
	RuneSegment  = '#'
	RunePoint    = '+'
	RuneCircle   = 'o'
	RuneBody     = 'O'
	RuneRim      = '*'
	RuneAnimated = '@'
)

// View maps world coordinates onto screen cells. Row 0 holds the status
// line; the world is drawn below it with y pointing up.
type View struct {
	// Center is the world point shown in the middle of the drawing area.
	Center geom.Vector2

	// Scale is the number of cells per world unit horizontally.
	Scale float64

	width, height int
}

// New returns a view of size width x height cells fitted to box.
func New(box geom.Box2, width, height int) *View {
	v := &View{}
	v.Resize(width, height)
	v.Fit(box)
	return v
}

// Resize changes the screen size without changing the scale.
func (v *View) Resize(width, height int) {
	v.width, v.height = width, height
}

// Size returns the screen size in cells.
func (v *View) Size() (width, height int) {
	return v.width, v.height
}

// Fit centres box and picks the largest scale that shows all of it with a
// one cell margin.
func (v *View) Fit(box geom.Box2) {
	if box.IsEmpty() {
		v.Center = geom.Vector2{}
		v.Scale = 1
		return
	}
	v.Center = box.Min.Add(box.Max).MulScalar(0.5)
	size := box.Max.Sub(box.Min)
	w := float64(max(v.width-2, 1))
	h := float64(max(v.height-3, 1)) * cellAspect
	v.Scale = min(w/max(size.X, geom.Epsilon), h/max(size.Y, geom.Epsilon))
}

// Zoom multiplies the scale by f.
func (v *View) Zoom(f float64) {
	if f > 0 {
		v.Scale *= f
	}
}

// Pan moves the view by dx, dy cells.
func (v *View) Pan(dx, dy int) {
	v.Center = v.Center.Add(geom.Vec2(float64(dx)/v.Scale, -float64(dy)*cellAspect/v.Scale))
}

// ToCell returns the cell containing world point p.
func (v *View) ToCell(p geom.Vector2) (x, y int) {
	d := p.Sub(v.Center).MulScalar(v.Scale)
	x = int(math.Floor(float64(v.width)/2 + d.X))
	y = int(math.Floor(float64(v.height+1)/2 - d.Y/cellAspect))
	return x, y
}

// ToWorld returns the world point at the centre of cell x, y.
func (v *View) ToWorld(x, y int) geom.Vector2 {
	dx := float64(x) + 0.5 - float64(v.width)/2
	dy := float64(v.height+1)/2 - float64(y) - 0.5
	return v.Center.Add(geom.Vec2(dx, dy*cellAspect).MulScalar(1 / v.Scale))
}

// Draw renders w and the status text on s, then shows the screen.
func (v *View) Draw(s tcell.Screen, w *scene.World, status string) {
	v.Resize(s.Size())
	s.Clear()

	for _, l := range w.Lines {
		v.drawLine(s, l)
	}
	for _, seg := range w.Segments {
		v.drawSegment(s, seg.A(), seg.B(), RuneSegment, styleSegment)
	}
	for _, c := range w.Circles {
		v.drawRing(s, c.Center(), c.Radius(), RuneCircle, styleCircle)
	}
	for _, p := range w.Points {
		v.set(s, p.Point(), RunePoint, stylePoint)
	}
	for _, a := range w.Animated {
		v.drawRing(s, a.Position(), a.BoundingRadius(), RuneRim, styleAnimated)
		v.set(s, a.Position(), RuneAnimated, styleAnimated)
	}
	for _, b := range w.Bodies {
		style := styleBody
		if !b.Enabled {
			style = styleDisabled
		}
		v.drawRing(s, b.Position(), b.Radius(), RuneRim, style)
		v.set(s, b.Position(), RuneBody, style)
	}

	v.text(s, 0, 0, status, styleStatus)
	s.Show()
}

func (v *View) set(s tcell.Screen, p geom.Vector2, r rune, style tcell.Style) {
	x, y := v.ToCell(p)
	if x < 0 || x >= v.width || y < 1 || y >= v.height {
		return
	}
	s.SetContent(x, y, r, nil, style)
}

func (v *View) text(s tcell.Screen, x, y int, str string, style tcell.Style) {
	for x < v.width {
		s.SetContent(x, y, ' ', nil, style)
		x++
	}
	x = 0
	for _, r := range str {
		if x >= v.width {
			break
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

// drawLine marks every cell whose centre is within half a cell of l.
func (v *View) drawLine(s tcell.Screen, l *physics.StaticLine) {
	reach := cellAspect / v.Scale / 2
	for y := 1; y < v.height; y++ {
		for x := 0; x < v.width; x++ {
			p := v.ToWorld(x, y)
			if d := l.Distance(p); d <= 0 && d > -reach {
				s.SetContent(x, y, RuneLine, nil, styleLine)
			}
		}
	}
}

func (v *View) drawSegment(s tcell.Screen, a, b geom.Vector2, r rune, style tcell.Style) {
	n := int(math.Ceil(a.DistanceTo(b)*v.Scale*2)) + 1
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		v.set(s, a.Add(b.Sub(a).MulScalar(t)), r, style)
	}
}

// drawRing outlines a circle when it is large enough to cover more than
// one cell.
func (v *View) drawRing(s tcell.Screen, center geom.Vector2, radius float64, r rune, style tcell.Style) {
	if radius*v.Scale < 1.5 {
		v.set(s, center, r, style)
		return
	}
	n := int(math.Ceil(2*math.Pi*radius*v.Scale*2)) + 4
	for i := 0; i < n; i++ {
		angle := 2 * math.Pi * float64(i) / float64(n)
		p := center.Add(geom.Vec2(math.Cos(angle), math.Sin(angle)).MulScalar(radius))
		v.set(s, p, r, style)
	}
}
