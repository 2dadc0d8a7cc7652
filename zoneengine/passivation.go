package zoneengine

import (
	"sync/atomic"

	"github.com/lightningnetwork/lnd/ticker"

	"github.com/TrellixVulnTeam/liquidity-service-DTMZ/zonewire"
)

// PassivationTimer is the cooperative idle-timeout companion of spec.md
// section 4.5: {Start, Stop, CommandReceived, Timeout}. Built on
// lnd/ticker.Ticker rather than a bare time.Timer so it can be resumed and
// paused repeatedly without leaking goroutines, the same tool lnd uses for
// its own link/switch idle timers.
type PassivationTimer struct {
	ticker ticker.Ticker

	// Timeout fires when the timer elapses with no intervening
	// CommandReceived/Start/Stop activity. The validator loop selects on
	// this and, on receipt, finishes its effects and terminates.
	Timeout <-chan struct{}

	timeoutCh chan struct{}
	done      chan struct{}

	// running is written by CommandReceived/Start/Stop on the validator
	// goroutine and read by pump on its own goroutine.
	running atomic.Bool
}

// NewPassivationTimer builds a timer using the real wall clock, armed at
// construction (spec.md section 4.5: "Started at validator construction"),
// and starts the goroutine that forwards its ticks onto Timeout.
func NewPassivationTimer() *PassivationTimer {
	t := ticker.New(zonewire.PassivationTimeout)
	timeoutCh := make(chan struct{}, 1)

	pt := &PassivationTimer{
		ticker:    t,
		timeoutCh: timeoutCh,
		Timeout:   timeoutCh,
		done:      make(chan struct{}),
	}
	pt.ticker.Resume()
	pt.running.Store(true)
	go pt.pump(pt.done)
	return pt
}

// Close stops the pump goroutine and the underlying ticker. Called once the
// validator that owns this timer has exited its run loop.
func (p *PassivationTimer) Close() {
	close(p.done)
}

// pump must run in its own goroutine; it forwards ticks from the underlying
// ticker onto Timeout whenever the timer is currently running.
func (p *PassivationTimer) pump(done <-chan struct{}) {
	for {
		select {
		case <-p.ticker.Ticks():
			if p.running.Load() {
				select {
				case p.timeoutCh <- struct{}{}:
				default:
				}
			}
		case <-done:
			p.ticker.Stop()
			return
		}
	}
}

// CommandReceived restarts the countdown; called after every accepted
// command (spec.md section 4.5).
func (p *PassivationTimer) CommandReceived() {
	if p.running.Load() {
		p.ticker.Resume()
	}
}

// Start (re)arms the timer. Called when ConnectedClients becomes empty.
func (p *PassivationTimer) Start() {
	p.running.Store(true)
	p.ticker.Resume()
}

// Stop disarms the timer. Called when a client connects — spec.md section
// 4.5: "no passivation while clients are connected".
func (p *PassivationTimer) Stop() {
	p.running.Store(false)
	p.ticker.Pause()
}
