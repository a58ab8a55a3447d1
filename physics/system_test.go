package physics

import (
	"io"
	"log/slog"
	"testing"

	"github.com/koteyur/ccd2d/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSystem(t *testing.T, gravity geom.Vector2, opts ...Option) *System {
	t.Helper()
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	s, err := NewSystem(gravity, opts...)
	require.NoError(t, err)
	return s
}

func TestNewSystemValidation(t *testing.T) {
	for _, tc := range []struct {
		name string
		opt  Option
	}{
		{"zero steps", WithSimulationSteps(0)},
		{"zero iterations", WithMaxCollisionIterations(0)},
		{"negative allowance", WithPenetration(-1, 0.4)},
		{"correction above one", WithPenetration(0.05, 2)},
		{"four dimensions", WithIndexDimensions(4)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSystem(geom.Vec2(0, -10), tc.opt)
			assert.ErrorIs(t, err, ErrOutOfRange)
		})
	}

	cfg := DefaultConfig()
	cfg.SimulationSteps = 0
	cfg.IndexDimensions = 1
	err := cfg.Validate()
	assert.ErrorContains(t, err, "simulation steps")
	assert.ErrorContains(t, err, "index dimensions")

	s := newTestSystem(t, geom.Vec2(1, 2), WithSimulationSteps(3), WithIndexDimensions(3))
	assert.Equal(t, geom.Vec2(1, 2), s.Gravity())
	assert.Equal(t, 3, s.SimulationSteps())
	assert.Equal(t, 3, s.Config().IndexDimensions)
}

func TestRemoveUnregisteredIsNoop(t *testing.T) {
	s := newTestSystem(t, geom.Vec2(0, -10))
	seg := mustSegment(t, geom.Vec2(0, 0), geom.Vec2(1, 0))
	line, err := NewStaticLine(geom.Vec2(0, 0), geom.Vec2(0, 1))
	require.NoError(t, err)
	kept := mustSegment(t, geom.Vec2(5, 5), geom.Vec2(6, 5))
	s.AddStaticBody(kept)
	s.Rebuild()
	require.Equal(t, 1, s.Size())

	assert.False(t, s.RemoveStaticBody(seg))
	assert.False(t, s.RemoveStaticLine(line))
	assert.False(t, s.RemoveSimulatedBody(newCircle(t, geom.Vector2{}, geom.Vector2{}, 1)))
	a, err := NewAnimatedBody(nil, 1)
	require.NoError(t, err)
	assert.False(t, s.RemoveAnimatedBody(a))
	assert.Equal(t, 1, s.Size())

	assert.True(t, s.RemoveStaticBody(kept))
	assert.False(t, s.RemoveStaticBody(kept))
	assert.Equal(t, 0, s.Size())
}

func TestAddRemoveBodies(t *testing.T) {
	s := newTestSystem(t, geom.Vec2(0, -10))
	line, err := NewStaticLine(geom.Vec2(0, 0), geom.Vec2(0, 1))
	require.NoError(t, err)
	point, err := NewStaticPoint(geom.Vec2(3, 3))
	require.NoError(t, err)
	disk, err := NewStaticCircle(geom.Vec2(-3, 3), 1)
	require.NoError(t, err)
	c := newCircle(t, geom.Vec2(0, 5), geom.Vector2{}, 1)
	a, err := NewAnimatedBody(NewFrame(geom.Vec2(10, 10), 0), 2)
	require.NoError(t, err)

	s.AddStaticBody(line)
	s.AddStaticLine(line)
	s.AddStaticPoint(point)
	s.AddStaticPoint(point)
	s.AddStaticBody(disk)
	require.NoError(t, s.AddDynamicBody(c))
	require.NoError(t, s.AddDynamicBody(c))
	require.NoError(t, s.AddAnimatedBody(a))
	s.Rebuild()

	assert.Equal(t, 3, s.NumStatic())
	assert.Equal(t, 1, s.NumSimulated())
	assert.Equal(t, 1, s.NumAnimated())
	assert.Equal(t, 5, s.Size())
	assert.Same(t, s, c.System())

	other := newTestSystem(t, geom.Vec2(0, -10))
	assert.ErrorIs(t, other.AddSimulatedBody(c), ErrRegistered)
	assert.ErrorIs(t, other.AddDynamicBody(a), ErrRegistered)

	var found []StaticBody
	s.QueryStatic(geom.B2FromCircle(geom.Vec2(3, 3), 0.5).Lift(0, 0), func(b StaticBody) {
		found = append(found, b)
	})
	assert.ElementsMatch(t, []StaticBody{line, point}, found)

	var sims []SimulatedBody
	s.QuerySimulated(geom.B2FromCircle(geom.Vec2(0, 5), 0.1).Lift(0, 0), func(b SimulatedBody) {
		sims = append(sims, b)
	})
	assert.Equal(t, []SimulatedBody{c}, sims)

	var anims []*AnimatedBody
	s.QueryAnimated(geom.B2FromCircle(geom.Vec2(0, 0), 1).Lift(0, 0), func(b *AnimatedBody) {
		anims = append(anims, b)
	})
	assert.Empty(t, anims)

	count := 0
	s.ForEachStatic(func(StaticBody) { count++ })
	s.ForEachSimulated(func(SimulatedBody) { count++ })
	s.ForEachAnimated(func(*AnimatedBody) { count++ })
	assert.Equal(t, 5, count)

	assert.True(t, s.RemoveDynamicBody(c))
	assert.Nil(t, c.System())
	assert.True(t, s.RemoveDynamicBody(a))
	assert.True(t, s.RemoveStaticBody(line))
	assert.True(t, s.RemoveStaticPoint(point))
	assert.True(t, s.RemoveStaticBody(disk))
	assert.Equal(t, 0, s.Size())

	require.NoError(t, other.AddSimulatedBody(c))
}

type customBody struct {
	Dynamic
}

func TestAddUnsupportedDynamicBody(t *testing.T) {
	s := newTestSystem(t, geom.Vec2(0, -10))
	err := s.AddDynamicBody(&customBody{Dynamic: newDynamic(nil, 1)})
	assert.ErrorContains(t, err, "unsupported dynamic body")
	assert.Equal(t, 0, s.Size())
}

func TestHostMovedFrameIsReindexed(t *testing.T) {
	s := newTestSystem(t, geom.Vector2{})
	c := newCircle(t, geom.Vec2(0, 0), geom.Vector2{}, 1)
	require.NoError(t, s.AddSimulatedBody(c))
	s.Rebuild()

	c.Frame().SetPosition(geom.Vec2(100, 0))
	require.NoError(t, s.Simulate(0.01))

	hits := 0
	s.QuerySimulated(geom.B2FromCircle(geom.Vec2(100, 0), 0.1).Lift(0, 0), func(SimulatedBody) { hits++ })
	assert.Equal(t, 1, hits)
	assert.True(t, s.RemoveSimulatedBody(c))
	assert.Equal(t, 0, s.NumSimulated())
}
