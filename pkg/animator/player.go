package animator

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// FrameSink receives every frame of a run. It is called from the Player goroutine
// and must not call Stop or Start on the same Player.
type FrameSink func(Frame)

// Player drives an Animator with one tick per frame interval. Dwell pauses are
// a single timer re-arm rather than a sleep, so Stop is honoured immediately.
type Player struct {
	mu       sync.Mutex
	animator *Animator

	cancel context.CancelFunc
	done   chan struct{}
}

func NewPlayer(animator *Animator) *Player {
	return &Player{animator: animator}
}

// Start cancels whatever is running and animates the new route from its first waypoint
func (p *Player) Start(ctx context.Context, waypoints []Waypoint, speedMultiplier float64, sink FrameSink) error {
	p.Stop()

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.animator.Start(waypoints, speedMultiplier); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	p.cancel = cancel
	p.done = done

	log.Debug().
		Int("waypoints", len(waypoints)).
		Float64("speed", speedMultiplier).
		Msg("Starting route animation")

	go p.run(runCtx, done, sink, p.animator.Frame())

	return nil
}

func (p *Player) run(ctx context.Context, done chan struct{}, sink FrameSink, first Frame) {
	defer close(done)

	sink(first)
	if first.Terminal {
		return
	}

	frameInterval := p.animator.Config().FrameInterval
	timer := time.NewTimer(frameInterval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		p.mu.Lock()
		if ctx.Err() != nil {
			p.mu.Unlock()
			return
		}
		p.animator.Tick()
		frame := p.animator.Frame()
		wait := p.animator.DwellRemaining()
		p.mu.Unlock()

		sink(frame)

		if frame.Terminal {
			log.Debug().Msg("Route animation reached final waypoint")
			return
		}

		if wait <= 0 {
			wait = frameInterval
		}
		timer.Reset(wait)
	}
}

// SetSpeed applies from the next tick on
func (p *Player) SetSpeed(speedMultiplier float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.animator.SetSpeed(speedMultiplier)
}

// Stop cancels the pending timer chain and waits for the run goroutine. Idempotent.
func (p *Player) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel = nil
	p.animator.Stop()
	if cancel != nil {
		cancel()
	}
	p.mu.Unlock()

	if done != nil {
		<-done
	}
}

// Done is closed once the current run has finished, for whatever reason
func (p *Player) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return p.done
}

func (p *Player) Frame() Frame {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.animator.Frame()
}
