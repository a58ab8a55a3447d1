package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/koteyur/ccd2d/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBounceOnGround(t *testing.T) {
	s := newTestSystem(t, geom.Vec2(0, -490))
	ground, err := NewStaticLine(geom.Vec2(0, 0), geom.Vec2(0, 1))
	require.NoError(t, err)
	ground.Material = Material{Bounciness: 0.5}
	ball, err := NewSimulatedCircle(NewFrame(geom.Vec2(0, 100), 0), 10, 1, SolidDisk)
	require.NoError(t, err)
	ball.Material = Material{Bounciness: 0.5}

	s.AddStaticLine(ground)
	require.NoError(t, s.AddSimulatedBody(ball))
	s.Rebuild()

	var impact float64
	ball.OnCollision.Subscribe(func(c Collision) error {
		impact = c.Speed
		return nil
	})

	require.NoError(t, s.Simulate(math.Sqrt(2*90.0/490)))
	require.Greater(t, impact, 0.0)
	assert.Greater(t, ball.Velocity.Y, 0.0)
	assert.InDelta(t, 0.5*impact, ball.Velocity.Y, 1e-3)
	assert.Equal(t, 1, s.Stats().Collisions)

	for i := range 300 {
		dt := 0.1
		if i%3 == 0 {
			dt = 0.05
		}
		require.NoError(t, s.Simulate(dt))
		require.GreaterOrEqual(t, ball.Position().Y, 10-1e-6, "frame %d", i)
		require.Less(t, ball.Position().Y, 100.0, "frame %d", i)
	}
}

func TestRestingContact(t *testing.T) {
	s := newTestSystem(t, geom.Vec2(0, -10))
	ground, err := NewStaticLine(geom.Vec2(0, 0), geom.Vec2(0, 1))
	require.NoError(t, err)
	ball := newCircle(t, geom.Vec2(0, 1), geom.Vector2{}, 1)
	s.AddStaticLine(ground)
	require.NoError(t, s.AddSimulatedBody(ball))

	for range 50 {
		require.NoError(t, s.Simulate(0.1))
		require.InDelta(t, 1, ball.Position().Y, 1e-9)
		require.InDelta(t, 0, ball.Velocity.Y, 1e-9)
	}
}

func TestComesToRest(t *testing.T) {
	line, err := NewStaticLine(geom.Vec2(0, 0), geom.Vec2(0, 1))
	require.NoError(t, err)
	disk, err := NewStaticCircle(geom.Vec2(0, 0), 10)
	require.NoError(t, err)

	for _, tc := range []struct {
		name    string
		statics []StaticBody
		start   geom.Vector2
		radius  float64
	}{
		{"line", []StaticBody{line}, geom.Vec2(0, 30), 5},
		{"circle", []StaticBody{disk}, geom.Vec2(0, 25), 5},
		{"groove", []StaticBody{
			mustSegment(t, geom.Vec2(-10, 10), geom.Vec2(0, 0)),
			mustSegment(t, geom.Vec2(0, 0), geom.Vec2(10, 10)),
		}, geom.Vec2(0, 20), 2},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestSystem(t, geom.Vec2(0, -490))
			for _, st := range tc.statics {
				s.AddStaticBody(st)
			}
			ball := newCircle(t, tc.start, geom.Vector2{}, tc.radius)
			require.NoError(t, s.AddSimulatedBody(ball))
			s.Rebuild()

			collisions := 0
			for range 1200 {
				require.NoError(t, s.Simulate(1.0/60))
				collisions += s.Stats().Collisions
			}
			require.Positive(t, collisions)

			rest := ball.Position()
			for i := range 60 {
				require.NoError(t, s.Simulate(1.0/60))
				assert.Equal(t, 0, s.Stats().Collisions, "frame %d", i)
				assert.Less(t, ball.Velocity.Length(), 1e-6, "frame %d", i)
				assert.InDelta(t, rest.X, ball.Position().X, 1e-9, "frame %d", i)
				assert.InDelta(t, rest.Y, ball.Position().Y, 1e-9, "frame %d", i)
			}
		})
	}
}

func TestRestingBallRolls(t *testing.T) {
	s := newTestSystem(t, geom.Vec2(0, -10))
	ground, err := NewStaticLine(geom.Vec2(0, 0), geom.Vec2(0, 1))
	require.NoError(t, err)
	ball := newCircle(t, geom.Vec2(0, 1), geom.Vec2(4, 0), 1)
	s.AddStaticLine(ground)
	require.NoError(t, s.AddSimulatedBody(ball))

	for range 100 {
		require.NoError(t, s.Simulate(0.01))
		require.InDelta(t, 1, ball.Position().Y, 1e-9)
	}
	assert.Equal(t, 0, s.Stats().Collisions)
	// Friction with the ground turns sliding into rolling.
	assert.InDelta(t, 8.0/3, ball.Velocity.X, 1e-9)
	assert.InDelta(t, -8.0/3, ball.AngularVelocity, 1e-9)
}

func TestNoTunnelling(t *testing.T) {
	for _, speed := range []float64{5, 50, 500, 1000, 2500, 5000, 7500, 10000} {
		for _, dir := range []geom.Vector2{geom.Vec2(0, -1), geom.Vec2(0.3, -1).Normal(), geom.Vec2(-0.6, -1).Normal()} {
			s := newTestSystem(t, geom.Vector2{})
			wall := mustSegment(t, geom.Vec2(-50, 0), geom.Vec2(50, 0))
			ball := newCircle(t, geom.Vec2(0, 3), dir.MulScalar(speed), 1)
			s.AddStaticBody(wall)
			require.NoError(t, s.AddSimulatedBody(ball))
			s.Rebuild()

			hits := 0
			s.OnCollision.Subscribe(func(c Collision) error {
				hits++
				assert.Equal(t, StaticBody(wall), c.Other)
				return nil
			})
			require.NoError(t, s.Simulate(1))

			assert.Equal(t, 1, hits, "speed %v dir %v", speed, dir)
			assert.Greater(t, ball.Velocity.Y, 0.0, "speed %v dir %v", speed, dir)
			assert.GreaterOrEqual(t, ball.Position().Y, 1-1e-9, "speed %v dir %v", speed, dir)
		}
	}
}

func TestCollisionIterationCap(t *testing.T) {
	s := newTestSystem(t, geom.Vector2{}, WithMaxCollisionIterations(8))
	left, err := NewStaticLine(geom.Vec2(-1.001, 0), geom.Vec2(1, 0))
	require.NoError(t, err)
	right, err := NewStaticLine(geom.Vec2(1.001, 0), geom.Vec2(-1, 0))
	require.NoError(t, err)
	left.Material = MaterialElastic
	right.Material = MaterialElastic
	ball := newCircle(t, geom.Vec2(0, 0), geom.Vec2(1000, 0), 1)
	ball.Material = MaterialElastic

	s.AddStaticLine(left)
	s.AddStaticLine(right)
	require.NoError(t, s.AddSimulatedBody(ball))

	require.NoError(t, s.Simulate(1))
	st := s.Stats()
	assert.Equal(t, 1, st.Substeps)
	assert.Equal(t, 1, st.CapHits)
	assert.Equal(t, 8, st.Iterations)
	assert.Equal(t, 8, st.Collisions)
}

func TestDepenetration(t *testing.T) {
	s := newTestSystem(t, geom.Vector2{})
	ground, err := NewStaticLine(geom.Vec2(0, 0), geom.Vec2(0, 1))
	require.NoError(t, err)
	ball := newCircle(t, geom.Vec2(0, 0.5), geom.Vector2{}, 1)
	s.AddStaticLine(ground)
	require.NoError(t, s.AddSimulatedBody(ball))

	require.NoError(t, s.Simulate(0.1))
	assert.Equal(t, 1, s.Stats().Planes)
	assert.InDelta(t, 0.5+(0.5-0.05)*0.4, ball.Position().Y, 1e-12)
	assert.Equal(t, geom.Vector2{}, ball.Velocity)
}

func TestZRangeSeparatesBodies(t *testing.T) {
	s := newTestSystem(t, geom.Vec2(0, -10))
	ground, err := NewStaticLine(geom.Vec2(0, 0), geom.Vec2(0, 1))
	require.NoError(t, err)
	ground.SetZRange(5, 1)
	ball := newCircle(t, geom.Vec2(0, 2), geom.Vector2{}, 1)
	s.AddStaticLine(ground)
	require.NoError(t, s.AddSimulatedBody(ball))

	require.NoError(t, s.Simulate(1))
	assert.Equal(t, 0, s.Stats().Collisions)
	assert.InDelta(t, -8, ball.Position().Y, 1e-12)

	ground.Enabled = false
	ground.SetZRange(0, 0)
	require.NoError(t, s.Simulate(1))
	assert.Equal(t, 0, s.Stats().Collisions)
}

func TestForcesAndHooks(t *testing.T) {
	s := newTestSystem(t, geom.Vector2{})
	ball, err := NewSimulatedCircle(nil, 1, 2, SolidDisk)
	require.NoError(t, err)
	require.NoError(t, s.AddSimulatedBody(ball))

	calls := 0
	ball.OnPreSimulate.Subscribe(func(e PreSimulate) error {
		calls++
		assert.Equal(t, 1.0, e.Timeout)
		e.Body.SimulatedBase().AddForce(geom.Vec2(2, 0))
		e.Body.SimulatedBase().AddTorque(1)
		return nil
	})
	moves := 0
	ball.Frame().OnChange(func(*Frame) { moves++ })

	require.NoError(t, s.Simulate(1))
	assert.Equal(t, 1, calls)
	assert.Positive(t, moves)
	assert.Equal(t, geom.Vec2(1, 0), ball.Velocity)
	assert.Equal(t, geom.Vec2(1, 0), ball.Position())
	assert.Equal(t, 1.0, ball.AngularVelocity)
	assert.Equal(t, 1.0, ball.Rotation())
}

func TestHookErrorsAreCollected(t *testing.T) {
	errHook := errors.New("hook failed")
	s := newTestSystem(t, geom.Vec2(0, -10), WithSimulationSteps(2))
	ball := newCircle(t, geom.Vec2(0, 100), geom.Vector2{}, 1)
	require.NoError(t, s.AddSimulatedBody(ball))
	ball.OnPreSimulate.Subscribe(func(PreSimulate) error { return errHook })

	err := s.Simulate(1)
	assert.ErrorIs(t, err, errHook)
	assert.Equal(t, 2, s.Stats().Substeps)
	assert.Less(t, ball.Position().Y, 100.0)

	assert.ErrorIs(t, s.Simulate(math.NaN()), ErrOutOfRange)
	assert.NoError(t, s.Simulate(0))
}

func TestFrameListenerPanicDuringSimulate(t *testing.T) {
	s := newTestSystem(t, geom.Vec2(0, -10), WithSimulationSteps(2))
	ball := newCircle(t, geom.Vec2(0, 100), geom.Vector2{}, 1)
	require.NoError(t, s.AddSimulatedBody(ball))
	moves := 0
	ball.Frame().OnChange(func(*Frame) { panic("renderer gone") })
	ball.Frame().OnChange(func(*Frame) { moves++ })

	var err error
	require.NotPanics(t, func() { err = s.Simulate(1) })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "renderer gone")
	assert.Equal(t, 2, s.Stats().Substeps)
	assert.Equal(t, 2, moves)
	assert.InDelta(t, 92.5, ball.Position().Y, 1e-9)

	require.NoError(t, ball.Frame().Err())
}

func TestAnimatedBody(t *testing.T) {
	s := newTestSystem(t, geom.Vec2(0, -10), WithSimulationSteps(4))
	a, err := NewAnimatedBody(nil, 1)
	require.NoError(t, err)
	a.Velocity = geom.Vec2(1, 0)
	a.Acceleration = geom.Vec2(0, 1)
	a.AngularVelocity = 0.5
	require.NoError(t, s.AddAnimatedBody(a))

	var timeouts []float64
	a.OnPreAnimate.Subscribe(func(e PreAnimate) error {
		assert.Same(t, a, e.Body)
		timeouts = append(timeouts, e.Timeout)
		return nil
	})

	require.NoError(t, s.Simulate(2))
	assert.Equal(t, []float64{0.5, 0.5, 0.5, 0.5}, timeouts)
	assert.InDelta(t, 2, a.Position().X, 1e-12)
	assert.InDelta(t, 2.5, a.Position().Y, 1e-12)
	assert.InDelta(t, 1, a.Rotation(), 1e-12)

	hits := 0
	s.QueryAnimated(geom.B2FromCircle(a.Position(), 0.1).Lift(0, 0), func(*AnimatedBody) { hits++ })
	assert.Equal(t, 1, hits)
}

func TestDisabledBodyStays(t *testing.T) {
	s := newTestSystem(t, geom.Vec2(0, -10))
	ball := newCircle(t, geom.Vec2(0, 5), geom.Vec2(3, 0), 1)
	ball.Enabled = false
	require.NoError(t, s.AddSimulatedBody(ball))

	require.NoError(t, s.Simulate(1))
	assert.Equal(t, geom.Vec2(0, 5), ball.Position())
	assert.Equal(t, geom.Vec2(3, 0), ball.Velocity)
}
