package app

import (
	"context"
	"log"
	"sync"
	"time"

	"dev-millionaire-service/internal/domain"
	"dev-millionaire-service/internal/game"
)

// Game is the runtime around one engine: it serializes events through a
// mutex, runs the single countdown goroutine, fires the engine's delayed
// transitions, persists a snapshot after every state change and broadcasts
// view snapshots to subscribers. The engine decides what happens; Game only
// executes its directives.
type Game struct {
	id        string
	store     SnapshotStore
	tickEvery time.Duration

	mu          sync.Mutex
	engine      *game.Engine
	tickQuit    chan struct{}
	delay       *time.Timer
	closed      bool
	subscribers map[chan domain.View]struct{}
}

// View returns the current render snapshot.
func (g *Game) View() domain.View {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.engine.View()
}

// Answer submits the option at a display position.
func (g *Game) Answer(display int) domain.View {
	return g.transition(func(e *game.Engine) game.Directive { return e.Answer(display) })
}

// UseLifeline consumes a lifeline; repeat use is a no-op.
func (g *Game) UseLifeline(kind domain.LifelineKind) domain.View {
	return g.transition(func(e *game.Engine) game.Directive { return e.UseLifeline(kind) })
}

// Dismiss closes the visible modal.
func (g *Game) Dismiss() domain.View {
	return g.transition((*game.Engine).Dismiss)
}

// Restart abandons the session: background activity stops and the persisted
// snapshot is cleared so the next open starts fresh.
func (g *Game) Restart(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	g.stopTickerLocked()
	g.cancelDelayLocked()
	if err := g.store.Delete(ctx, g.id); err != nil {
		log.Printf("session %s: clear on restart: %v", g.id, err)
	}
}

// Close detaches the runtime when the client disconnects. The snapshot stays
// put so a reconnect resumes mid-game; only the in-process countdown and any
// scheduled resolution are dropped (they are rebuilt from the snapshot).
func (g *Game) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	g.stopTickerLocked()
	g.cancelDelayLocked()
}

// Subscribe returns a channel of view snapshots, starting with the current
// one. The caller must invoke the cancel function to avoid leaks.
func (g *Game) Subscribe() (<-chan domain.View, func()) {
	ch := make(chan domain.View, 8)

	g.mu.Lock()
	g.subscribers[ch] = struct{}{}
	// The buffer is empty, so this cannot block; sending under the lock
	// keeps the initial view ordered before any broadcast.
	ch <- g.engine.View()
	g.mu.Unlock()

	cancel := func() {
		g.mu.Lock()
		if _, ok := g.subscribers[ch]; ok {
			delete(g.subscribers, ch)
			close(ch)
		}
		g.mu.Unlock()
	}
	return ch, cancel
}

// begin applies the directive produced by Start or Resume.
func (g *Game) begin(d game.Directive) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.applyDirectiveLocked(d)
}

// persist writes the initial snapshot before the runtime starts.
func (g *Game) persist() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.persistLocked()
}

func (g *Game) transition(fn func(*game.Engine) game.Directive) domain.View {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return g.engine.View()
	}
	d := fn(g.engine)
	g.applyDirectiveLocked(d)
	g.persistLocked()
	g.broadcastLocked()
	return g.engine.View()
}

// applyDirectiveLocked runs the engine's instructions. Starting the countdown
// always stops the previous one first, keeping the at-most-one-countdown
// invariant.
func (g *Game) applyDirectiveLocked(d game.Directive) {
	switch d.Timer {
	case game.TimerStop:
		g.stopTickerLocked()
	case game.TimerStart:
		g.stopTickerLocked()
		g.startTickerLocked()
	}

	if d.ResolveAfter > 0 {
		g.cancelDelayLocked()
		g.delay = time.AfterFunc(d.ResolveAfter, g.resolvePending)
	}

	if g.engine.Ended() {
		g.stopTickerLocked()
		g.cancelDelayLocked()
	}
}

func (g *Game) resolvePending() {
	g.transition((*game.Engine).ResolvePending)
}

func (g *Game) startTickerLocked() {
	quit := make(chan struct{})
	g.tickQuit = quit
	interval := g.tickEvery
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				g.transition((*game.Engine).Tick)
			case <-quit:
				return
			}
		}
	}()
}

func (g *Game) stopTickerLocked() {
	if g.tickQuit != nil {
		close(g.tickQuit)
		g.tickQuit = nil
	}
}

func (g *Game) cancelDelayLocked() {
	if g.delay != nil {
		g.delay.Stop()
		g.delay = nil
	}
}

// persistLocked saves the snapshot after every state-changing transition, and
// clears it once the session reaches a terminal outcome.
func (g *Game) persistLocked() {
	ctx := context.Background()
	if g.engine.Ended() {
		if err := g.store.Delete(ctx, g.id); err != nil {
			log.Printf("session %s: clear on game end: %v", g.id, err)
		}
		return
	}
	if err := g.store.Save(ctx, g.id, g.engine.Snapshot()); err != nil {
		log.Printf("session %s: save: %v", g.id, err)
	}
}

func (g *Game) broadcastLocked() {
	view := g.engine.View()
	for ch := range g.subscribers {
		select {
		case ch <- view:
		default:
			// Slow subscriber: replace its stale snapshot with the latest.
			select {
			case <-ch:
			default:
			}
			ch <- view
		}
	}
}
