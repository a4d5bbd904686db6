package animator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frameRecorder struct {
	mu     sync.Mutex
	frames []Frame
	times  []time.Time
}

func (r *frameRecorder) Sink(frame Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.frames = append(r.frames, frame)
	r.times = append(r.times, time.Now())
}

func (r *frameRecorder) Frames() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Frame(nil), r.frames...)
}

func waitDone(t *testing.T, p *Player) {
	t.Helper()

	select {
	case <-p.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("animation did not finish")
	}
}

func TestPlayerRunsToTerminal(t *testing.T) {
	p := NewPlayer(New(Config{Step: 0.25, Dwell: 0, FrameInterval: time.Millisecond}))
	recorder := &frameRecorder{}

	require.NoError(t, p.Start(context.Background(), route(Position{0, 0}, Position{4, 8}), 1, recorder.Sink))
	waitDone(t, p)

	frames := recorder.Frames()
	require.Len(t, frames, 5)
	assert.Equal(t, Position{0, 0}, frames[0].Position)
	assert.Equal(t, Position{2, 4}, frames[2].Position)
	assert.True(t, frames[4].Terminal)
	assert.Equal(t, Position{4, 8}, frames[4].Position)
}

func TestPlayerSinglePoint(t *testing.T) {
	p := NewPlayer(New(Config{FrameInterval: time.Millisecond}))
	recorder := &frameRecorder{}

	require.NoError(t, p.Start(context.Background(), route(Position{5, 5}), 1, recorder.Sink))
	waitDone(t, p)

	frames := recorder.Frames()
	require.Len(t, frames, 1)
	assert.True(t, frames[0].Terminal)
}

func TestPlayerRejectsEmptyRoute(t *testing.T) {
	p := NewPlayer(New(DefaultConfig()))

	var invalid *InvalidInputError
	assert.ErrorAs(t, p.Start(context.Background(), nil, 1, func(Frame) {}), &invalid)

	select {
	case <-p.Done():
	default:
		t.Fatal("Done should be closed when nothing runs")
	}
}

func TestPlayerDwellsAtWaypoint(t *testing.T) {
	dwell := 60 * time.Millisecond
	p := NewPlayer(New(Config{Step: 0.5, Dwell: dwell, FrameInterval: time.Millisecond}))
	recorder := &frameRecorder{}

	require.NoError(t, p.Start(context.Background(), route(Position{0, 0}, Position{1, 1}, Position{2, 2}), 1, recorder.Sink))
	waitDone(t, p)

	recorder.mu.Lock()
	defer recorder.mu.Unlock()

	dwellIndex := -1
	for i, frame := range recorder.frames {
		if frame.Dwelling {
			dwellIndex = i
			break
		}
	}
	require.NotEqual(t, -1, dwellIndex)
	require.Less(t, dwellIndex+1, len(recorder.frames))

	assert.Equal(t, Position{1, 1}, recorder.frames[dwellIndex].Position)
	assert.GreaterOrEqual(t, recorder.times[dwellIndex+1].Sub(recorder.times[dwellIndex]), dwell-5*time.Millisecond)
	assert.True(t, recorder.frames[len(recorder.frames)-1].Terminal)
}

func TestPlayerStopIsIdempotent(t *testing.T) {
	p := NewPlayer(New(Config{Step: 0.0001, FrameInterval: time.Millisecond}))
	recorder := &frameRecorder{}

	require.NoError(t, p.Start(context.Background(), route(Position{0, 0}, Position{1, 1}), 1, recorder.Sink))
	require.Eventually(t, func() bool { return len(recorder.Frames()) > 3 }, time.Second, time.Millisecond)

	p.Stop()
	p.Stop()

	count := len(recorder.Frames())
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, count, len(recorder.Frames()))
	assert.False(t, p.Frame().Terminal)
}

func TestPlayerRestartResets(t *testing.T) {
	p := NewPlayer(New(Config{Step: 0.001, FrameInterval: time.Millisecond}))
	first := &frameRecorder{}

	require.NoError(t, p.Start(context.Background(), route(Position{0, 0}, Position{1, 1}), 2, first.Sink))
	require.Eventually(t, func() bool { return len(first.Frames()) > 5 }, time.Second, time.Millisecond)

	second := &frameRecorder{}
	require.NoError(t, p.Start(context.Background(), route(Position{10, 10}, Position{20, 20}), 1, second.Sink))

	firstCount := len(first.Frames())
	require.Eventually(t, func() bool { return len(second.Frames()) > 0 }, time.Second, time.Millisecond)

	frames := second.Frames()
	assert.Equal(t, Position{10, 10}, frames[0].Position)
	assert.Equal(t, 0, frames[0].SegmentIndex)
	assert.Equal(t, 0.0, frames[0].Progress)

	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, firstCount, len(first.Frames()))

	p.Stop()
}

func TestPlayerContextCancel(t *testing.T) {
	p := NewPlayer(New(Config{Step: 0.0001, FrameInterval: time.Millisecond}))
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, p.Start(ctx, route(Position{0, 0}, Position{1, 1}), 1, func(Frame) {}))
	cancel()

	waitDone(t, p)
}

func TestPlayerSetSpeed(t *testing.T) {
	p := NewPlayer(New(Config{Step: 0.0001, FrameInterval: time.Millisecond}))

	require.NoError(t, p.Start(context.Background(), route(Position{0, 0}, Position{1, 1}), 1, func(Frame) {}))
	require.NoError(t, p.SetSpeed(float64(SpeedDouble)))
	assert.Error(t, p.SetSpeed(-1))

	assert.Equal(t, 2.0, p.Frame().Speed)
	p.Stop()
}
