package animator

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func route(points ...Position) []Waypoint {
	waypoints := make([]Waypoint, len(points))
	for i, p := range points {
		waypoints[i] = Waypoint{Position: p}
	}
	return waypoints
}

func TestStartRejectsEmptyRoute(t *testing.T) {
	a := New(DefaultConfig())

	err := a.Start(nil, 1)

	var invalid *InvalidInputError
	require.True(t, errors.As(err, &invalid))
	assert.False(t, a.IsTerminal())
	assert.Equal(t, Position{}, a.CurrentPosition())
}

func TestStartRejectsNonPositiveSpeed(t *testing.T) {
	a := New(DefaultConfig())

	var invalid *InvalidInputError
	assert.ErrorAs(t, a.Start(route(Position{0, 0}, Position{1, 1}), 0), &invalid)
	assert.ErrorAs(t, a.Start(route(Position{0, 0}, Position{1, 1}), -1), &invalid)
}

func TestSinglePointRouteIsTerminal(t *testing.T) {
	a := New(DefaultConfig())
	point := Position{Lat: 48.8566, Lng: 2.3522}

	require.NoError(t, a.Start(route(point), 1))

	assert.True(t, a.IsTerminal())
	assert.Equal(t, point, a.CurrentPosition())

	for i := 0; i < 10; i++ {
		a.Tick()
	}

	assert.True(t, a.IsTerminal())
	assert.Equal(t, point, a.CurrentPosition())
	assert.Equal(t, 0, a.SegmentIndex())
	assert.Equal(t, 0.0, a.Progress())
}

func TestZeroProgressIsWaypoint(t *testing.T) {
	clock := newFakeClock()
	a := New(Config{Step: 0.5, Dwell: time.Second}, WithClock(clock.Now))
	waypoints := route(Position{1.5, -3}, Position{7, 2}, Position{-4, 11.25}, Position{0, 0})

	require.NoError(t, a.Start(waypoints, 1))

	for i := 0; i < len(waypoints)-1; i++ {
		require.Equal(t, i, a.SegmentIndex())
		require.Equal(t, 0.0, a.Progress())
		assert.Equal(t, waypoints[i].Position, a.CurrentPosition())

		a.Tick()
		a.Tick()
		clock.Advance(time.Second)
	}

	assert.True(t, a.IsTerminal())
}

func TestInterpolationIsLinear(t *testing.T) {
	a := New(Config{Step: 0.25, Dwell: 0})
	from := Position{Lat: 10, Lng: -20}
	to := Position{Lat: 30, Lng: 40}

	require.NoError(t, a.Start(route(from, to), 1))

	for tick := 1; tick <= 3; tick++ {
		a.Tick()
		p := a.Progress()

		assert.InDelta(t, float64(tick)*0.25, p, 1e-12)
		assert.InDelta(t, from.Lat+(to.Lat-from.Lat)*p, a.CurrentPosition().Lat, 1e-12)
		assert.InDelta(t, from.Lng+(to.Lng-from.Lng)*p, a.CurrentPosition().Lng, 1e-12)
	}
}

func TestTickIsMonotonic(t *testing.T) {
	a := New(Config{Step: 0.07, Dwell: 0})
	require.NoError(t, a.Start(route(Position{0, 0}, Position{1, 0}, Position{1, 1}, Position{2, 2}), 1))

	for !a.IsTerminal() {
		segment, progress := a.SegmentIndex(), a.Progress()
		a.Tick()

		if a.IsTerminal() {
			break
		}
		if a.SegmentIndex() == segment {
			assert.Greater(t, a.Progress(), progress)
		} else {
			assert.Equal(t, segment+1, a.SegmentIndex())
			assert.Equal(t, 0.0, a.Progress())
		}
	}
}

func TestTerminalIsAbsorbing(t *testing.T) {
	a := New(Config{Step: 0.5, Dwell: 0})
	require.NoError(t, a.Start(route(Position{0, 0}, Position{2, 4}), 2))

	a.Tick()
	require.True(t, a.IsTerminal())

	frame := a.Frame()
	for i := 0; i < 5; i++ {
		a.Tick()
	}

	assert.Equal(t, frame, a.Frame())
	assert.Equal(t, Position{2, 4}, a.CurrentPosition())
}

func TestTwoPointScenario(t *testing.T) {
	a := New(Config{Step: 0.1, Dwell: time.Second})
	require.NoError(t, a.Start(route(Position{0, 0}, Position{10, 10}), 1))

	for i := 0; i < 5; i++ {
		a.Tick()
	}

	assert.InDelta(t, 0.5, a.Progress(), 1e-9)
	assert.InDelta(t, 5, a.CurrentPosition().Lat, 1e-9)
	assert.InDelta(t, 5, a.CurrentPosition().Lng, 1e-9)
	assert.False(t, a.IsTerminal())

	for i := 0; i < 5; i++ {
		a.Tick()
	}

	assert.True(t, a.IsTerminal())
	assert.Equal(t, Position{10, 10}, a.CurrentPosition())
}

func TestDwellAtIntermediateWaypoint(t *testing.T) {
	clock := newFakeClock()
	a := New(Config{Step: 0.5, Dwell: 2 * time.Second}, WithClock(clock.Now))
	require.NoError(t, a.Start(route(Position{0, 0}, Position{1, 1}, Position{2, 2}), 1))

	a.Tick()
	a.Tick()

	require.Equal(t, 1, a.SegmentIndex())
	require.Equal(t, 0.0, a.Progress())
	assert.Equal(t, 2*time.Second, a.DwellRemaining())
	assert.True(t, a.Frame().Dwelling)

	for i := 0; i < 4; i++ {
		a.Tick()
		clock.Advance(400 * time.Millisecond)

		assert.Equal(t, Position{1, 1}, a.CurrentPosition())
		assert.Equal(t, 0.0, a.Progress())
		assert.Equal(t, 1, a.SegmentIndex())
	}

	clock.Advance(400 * time.Millisecond)
	assert.Equal(t, time.Duration(0), a.DwellRemaining())

	a.Tick()
	assert.InDelta(t, 0.5, a.Progress(), 1e-12)
	assert.Equal(t, Position{1.5, 1.5}, a.CurrentPosition())

	a.Tick()
	assert.True(t, a.IsTerminal())
	assert.Equal(t, time.Duration(0), a.DwellRemaining())
}

func TestNoDwellOnFinalWaypoint(t *testing.T) {
	clock := newFakeClock()
	a := New(Config{Step: 1, Dwell: time.Minute}, WithClock(clock.Now))
	require.NoError(t, a.Start(route(Position{0, 0}, Position{3, 3}), 1))

	a.Tick()

	assert.True(t, a.IsTerminal())
	assert.False(t, a.Frame().Dwelling)
}

func TestStopThenStartResets(t *testing.T) {
	clock := newFakeClock()
	a := New(Config{Step: 0.3, Dwell: time.Second}, WithClock(clock.Now))
	waypoints := route(Position{0, 0}, Position{1, 1}, Position{2, 2})
	require.NoError(t, a.Start(waypoints, 2))

	a.Tick()
	a.Tick()
	a.Tick()
	require.Equal(t, 1, a.SegmentIndex())

	a.Stop()
	a.Stop()
	assert.True(t, a.IsStopped())

	before := a.Frame()
	clock.Advance(time.Hour)
	a.Tick()
	assert.Equal(t, before.Position, a.CurrentPosition())

	require.NoError(t, a.Start(waypoints, 1))
	assert.Equal(t, 0, a.SegmentIndex())
	assert.Equal(t, 0.0, a.Progress())
	assert.Equal(t, Position{0, 0}, a.CurrentPosition())
	assert.Equal(t, time.Duration(0), a.DwellRemaining())
}

func TestSetSpeedKeepsState(t *testing.T) {
	a := New(Config{Step: 0.1, Dwell: 0})
	require.NoError(t, a.Start(route(Position{0, 0}, Position{10, 0}), float64(SpeedNormal)))

	a.Tick()
	a.Tick()
	require.NoError(t, a.SetSpeed(float64(SpeedDouble)))

	assert.InDelta(t, 0.2, a.Progress(), 1e-12)
	assert.Equal(t, 0, a.SegmentIndex())

	a.Tick()
	assert.InDelta(t, 0.4, a.Progress(), 1e-12)

	var invalid *InvalidInputError
	assert.ErrorAs(t, a.SetSpeed(0), &invalid)
	assert.Equal(t, 2.0, a.SpeedMultiplier())
}

func TestStartCopiesWaypoints(t *testing.T) {
	a := New(Config{Step: 0.5})
	waypoints := route(Position{0, 0}, Position{4, 4})
	require.NoError(t, a.Start(waypoints, 1))

	waypoints[1].Position = Position{100, 100}
	a.Tick()

	assert.Equal(t, Position{2, 2}, a.CurrentPosition())
}

func TestNewAppliesDefaults(t *testing.T) {
	a := New(Config{})

	assert.Equal(t, DefaultStep, a.Config().Step)
	assert.Equal(t, DefaultFrameInterval, a.Config().FrameInterval)
	assert.Equal(t, time.Duration(0), a.Config().Dwell)
}
