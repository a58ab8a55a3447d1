package scene

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/koteyur/ccd2d/geom"
	"github.com/koteyur/ccd2d/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTestScene(t *testing.T) *Scene {
	t.Helper()
	sc, err := Open(filepath.Join("testdata", "bounce.toml"))
	require.NoError(t, err)
	return sc
}

func ptr[T any](v T) *T { return &v }

func TestFormat(t *testing.T) {
	for _, tc := range []struct {
		path string
		want Format
	}{
		{"a.toml", TOML},
		{"dir/b.yaml", YAML},
		{"c.YML", YAML},
		{"d.json", JSON},
	} {
		f, err := FormatFromPath(tc.path)
		require.NoError(t, err, tc.path)
		assert.Equal(t, tc.want, f, tc.path)
	}
	_, err := FormatFromPath("scene.txt")
	assert.Error(t, err)
	assert.Equal(t, "yaml", YAML.String())
}

func TestOpenTOML(t *testing.T) {
	sc := openTestScene(t)
	assert.Equal(t, "bounce", sc.Name)
	require.NotNil(t, sc.Physics.Gravity)
	assert.Equal(t, Vec{0, -490}, *sc.Physics.Gravity)
	assert.Equal(t, 2, sc.Physics.SimulationSteps)

	require.Len(t, sc.Lines, 1)
	assert.Equal(t, "ground", sc.Lines[0].Name)
	assert.Equal(t, Vec{0, 1}, sc.Lines[0].Normal)
	require.NotNil(t, sc.Lines[0].Bounciness)
	assert.Equal(t, 0.5, *sc.Lines[0].Bounciness)

	require.Len(t, sc.Segments, 1)
	assert.Equal(t, "wood", sc.Segments[0].Material)
	require.Len(t, sc.Circles, 1)
	assert.Equal(t, 1.0, sc.Circles[0].ZDepth)
	require.Len(t, sc.Bodies, 2)
	assert.Equal(t, "hollow-sphere", sc.Bodies[1].Inertia)
	assert.Equal(t, Vec{20, 0}, sc.Bodies[1].Velocity)
	require.Len(t, sc.Animated, 1)
	assert.Equal(t, 20.0, sc.Animated[0].Radius)
}

func TestRoundTrip(t *testing.T) {
	sc := openTestScene(t)
	for _, f := range []Format{TOML, YAML, JSON} {
		t.Run(f.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, sc, f))
			got, err := Decode(&buf, f)
			require.NoError(t, err)
			assert.Equal(t, sc, got)
		})
	}
}

func TestDecodeStrict(t *testing.T) {
	for _, tc := range []struct {
		format Format
		text   string
	}{
		{TOML, "[[bodies]]\nradius = 1.0\nraduis = 2.0\n"},
		{YAML, "bodies:\n  - radius: 1\n    raduis: 2\n"},
		{JSON, `{"bodies": [{"radius": 1, "raduis": 2}]}`},
	} {
		t.Run(tc.format.String(), func(t *testing.T) {
			_, err := Decode(strings.NewReader(tc.text), tc.format)
			assert.Error(t, err)
		})
	}
}

func TestDecodeEmpty(t *testing.T) {
	for _, f := range []Format{TOML, YAML, JSON} {
		sc, err := Decode(strings.NewReader(""), f)
		require.NoError(t, err, f)
		assert.Empty(t, sc.Bodies, f)
	}
}

func TestSaveOpen(t *testing.T) {
	sc := openTestScene(t)
	dir := t.TempDir()
	for _, name := range []string{"s.toml", "s.yaml", "s.json"} {
		filename := filepath.Join(dir, name)
		require.NoError(t, Save(sc, filename))
		got, err := Open(filename)
		require.NoError(t, err, name)
		assert.Equal(t, sc, got, name)
	}
	assert.Error(t, Save(sc, filepath.Join(dir, "s.ini")))
	_, err := Open(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPhysicsConfig(t *testing.T) {
	cfg := Physics{}.Config()
	assert.Equal(t, physics.DefaultConfig(), cfg)

	cfg = Physics{
		Gravity:               &Vec{1, 2},
		PenetrationAllowance:  ptr(0.0),
		PenetrationCorrection: ptr(1.0),
		IndexDimensions:       3,
	}.Config()
	assert.Equal(t, geom.Vec2(1, 2), cfg.Gravity)
	assert.Equal(t, 0.0, cfg.PenetrationAllowance)
	assert.Equal(t, 1.0, cfg.PenetrationCorrection)
	assert.Equal(t, 3, cfg.IndexDimensions)
	assert.Equal(t, 1, cfg.SimulationSteps)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(openTestScene(t)))

	sc := &Scene{
		Physics:  Physics{IndexDimensions: 4},
		Lines:    []Line{{Point: Vec{0, 0}}},
		Segments: []Segment{{A: Vec{1, 1}, B: Vec{1, 1}}},
		Circles:  []Circle{{Common: Common{Material: "cheese"}, Center: Vec{0, 0}, Radius: 1}},
		Bodies: []Body{
			{Common: Common{Name: "ball"}, Radius: 0},
			{Radius: 1, Inertia: "cube"},
			{Common: Common{Friction: ptr(-1.0)}, Radius: 1, Mass: -2},
		},
		Animated: []Animated{{Radius: -1}},
	}
	err := Validate(sc)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)

	msg := err.Error()
	for _, want := range []string{
		"physics: ",
		"lines[0]: normal must not be zero",
		"segments[0]: a and b must differ",
		`circles[0]: unknown material "cheese"`,
		`bodies[0] "ball": radius must be > 0`,
		`bodies[1]: unknown inertia "cube"`,
		"bodies[2]: friction must be >= 0",
		"bodies[2]: mass must be > 0",
		"animated[0]: radius must be >= 0",
	} {
		assert.Contains(t, msg, want)
	}
}

func TestBodyInertia(t *testing.T) {
	for _, tc := range []struct {
		body Body
		want float64
	}{
		{Body{}, physics.SolidDisk},
		{Body{Inertia: "ring"}, physics.Ring},
		{Body{Inertia: "solid-sphere"}, physics.SolidSphere},
		{Body{Inertia: "ring", InertiaFactor: 0.75}, 0.75},
	} {
		k, err := tc.body.inertia()
		require.NoError(t, err)
		assert.Equal(t, tc.want, k)
	}
	_, err := Body{InertiaFactor: -1}.inertia()
	assert.Error(t, err)
}

func TestBodyCircle(t *testing.T) {
	c, err := Body{Position: Vec{1, 2}, Radius: 2, Mass: 3, Inertia: "ring", Velocity: Vec{4, 0}}.circle()
	require.NoError(t, err)
	assert.Equal(t, geom.Vec2(1, 2), c.Position())
	assert.Equal(t, 3.0, c.Mass())
	assert.Equal(t, physics.Ring, c.RelativeMomentOfInertia())
	assert.Equal(t, geom.Vec2(4, 0), c.Velocity)

	c, err = Body{Radius: 1}.circle()
	require.NoError(t, err)
	assert.Equal(t, 1.0, c.Mass())

	_, err = Body{Radius: 1, Inertia: "cube"}.circle()
	assert.ErrorContains(t, err, `unknown inertia "cube"`)
	_, err = Body{Radius: 1, InertiaFactor: -1}.circle()
	assert.ErrorContains(t, err, "inertia_factor must be > 0")
	_, err = Body{Radius: 0}.circle()
	assert.ErrorIs(t, err, physics.ErrOutOfRange)
}

func TestBuild(t *testing.T) {
	w, err := Build(openTestScene(t), quietLogger())
	require.NoError(t, err)

	assert.Equal(t, "bounce", w.Name)
	assert.Equal(t, 4, w.System.NumStatic())
	assert.Equal(t, 2, w.System.NumSimulated())
	assert.Equal(t, 1, w.System.NumAnimated())
	assert.Equal(t, 2, w.System.SimulationSteps())
	assert.Equal(t, 3, w.System.Config().IndexDimensions)

	assert.Equal(t, "ground", w.NameOf(w.Lines[0]))
	assert.Equal(t, "points[0]", w.NameOf(w.Points[0]))
	assert.Equal(t, "bodies[1]", w.NameOf(w.Bodies[1]))
	assert.Equal(t, "paddle", w.NameOf(w.Animated[0]))

	ball := w.Bodies[0]
	assert.Equal(t, physics.Material{Friction: 0, Bounciness: 0.5}, ball.Material)
	assert.Equal(t, 1.0, ball.Mass())
	assert.InDelta(t, physics.SolidDisk*100, ball.MomentOfInertia(), 1e-9)

	steel := w.Bodies[1]
	assert.Equal(t, physics.MaterialSteel, steel.Material)
	assert.Equal(t, physics.HollowSphere, steel.RelativeMomentOfInertia())
	assert.Equal(t, geom.Vec2(20, 0), steel.Velocity)

	assert.Equal(t, physics.MaterialWood, w.Segments[0].Material)
	assert.Equal(t, 1.0, w.Circles[0].ZDepth)
	assert.Equal(t, geom.Vec2(10, 0), w.Animated[0].Velocity)

	b := w.Bounds()
	assert.True(t, b.ContainsPoint(geom.Vec2(-200, 150)))
	assert.True(t, b.ContainsPoint(geom.Vec2(215, 80)))
	assert.True(t, b.ContainsPoint(geom.Vec2(0, 320)))
}

func TestWorldAddBody(t *testing.T) {
	w, err := Build(&Scene{}, quietLogger())
	require.NoError(t, err)

	c, err := physics.NewSimulatedCircle(physics.NewFrame(geom.Vec2(0, 5), 0), 1, 1, physics.SolidDisk)
	require.NoError(t, err)
	require.NoError(t, w.AddBody("", c))
	assert.Equal(t, "bodies[0]", w.NameOf(c))
	assert.Equal(t, 1, w.System.NumSimulated())

	other, err := physics.NewSystem(geom.Vec2(0, -10), physics.WithLogger(quietLogger()))
	require.NoError(t, err)
	taken, err := physics.NewSimulatedCircle(physics.NewFrame(geom.Vec2(0, 5), 0), 1, 1, physics.SolidDisk)
	require.NoError(t, err)
	require.NoError(t, other.AddSimulatedBody(taken))
	assert.ErrorIs(t, w.AddBody("taken", taken), physics.ErrRegistered)
	assert.Len(t, w.Bodies, 1)
}

func TestBuildInvalid(t *testing.T) {
	_, err := Build(&Scene{Bodies: []Body{{Radius: -1}}}, quietLogger())
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestBuildDisabled(t *testing.T) {
	sc := &Scene{
		Bodies: []Body{{Common: Common{Disabled: true}, Position: Vec{0, 5}, Radius: 1}},
	}
	w, err := Build(sc, quietLogger())
	require.NoError(t, err)
	assert.False(t, w.Bodies[0].Enabled)
}

func TestWorldStep(t *testing.T) {
	w, err := Build(openTestScene(t), quietLogger())
	require.NoError(t, err)

	for range 120 {
		require.NoError(t, w.Step(1.0/60))
		for _, b := range w.Bodies {
			assert.GreaterOrEqual(t, b.Position().Y, b.Radius()-0.06, w.NameOf(b))
		}
	}
	assert.Less(t, w.Bodies[0].Position().Y, 100.0)
	assert.InDelta(t, 20.0, w.Animated[0].Position().X, 1e-6)
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(filename, []byte("name: first\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	updates, err := Watch(ctx, filename, quietLogger())
	require.NoError(t, err)

	// Unrelated files in the directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("name: other\n"), 0o644))
	require.NoError(t, os.WriteFile(filename, []byte("name: second\n"), 0o644))

	timeout := time.After(5 * time.Second)
	for {
		select {
		case u, ok := <-updates:
			require.True(t, ok, "updates closed")
			if u.Err != nil || u.Scene.Name != "second" {
				continue
			}
			cancel()
			for range updates {
			}
			return
		case <-timeout:
			t.Fatal("no update received")
		}
	}
}
