package quizroom

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// RevealSeconds is the fixed question-reveal window. It is cosmetic pacing
// only; the server's own timeLeft governs deadline enforcement.
const RevealSeconds = 5

// RevealState is the local per-question display state.
type RevealState int

const (
	// RevealIdle means no question is being revealed.
	RevealIdle RevealState = iota

	// Revealing means the question is on screen and answering is locked.
	Revealing

	// Answerable means the reveal window elapsed and answers are accepted.
	Answerable
)

// String returns the string representation of a RevealState.
func (s RevealState) String() string {
	switch s {
	case RevealIdle:
		return "idle"
	case Revealing:
		return "revealing"
	case Answerable:
		return "answerable"
	default:
		return "unknown"
	}
}

// RevealCountdown is the Idle -> Revealing -> Answerable state machine behind
// the per-question reveal window. Start supersedes any run already in flight,
// so a new question can never inherit a stale timer.
type RevealCountdown struct {
	clock clockwork.Clock

	mu        sync.Mutex
	state     RevealState
	remaining int
	cancel    chan struct{}

	onTick       func(remaining int)
	onAnswerable func()
}

// NewRevealCountdown builds a countdown on the given clock. Pass nil for the
// real clock; tests inject a clockwork.FakeClock.
func NewRevealCountdown(clock clockwork.Clock) *RevealCountdown {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &RevealCountdown{clock: clock}
}

// OnTick registers the per-second callback with the seconds remaining.
func (r *RevealCountdown) OnTick(fn func(remaining int)) {
	r.mu.Lock()
	r.onTick = fn
	r.mu.Unlock()
}

// OnAnswerable registers the callback fired once the window elapses.
func (r *RevealCountdown) OnAnswerable(fn func()) {
	r.mu.Lock()
	r.onAnswerable = fn
	r.mu.Unlock()
}

// Start begins a fresh reveal window, cancelling any run still in flight.
func (r *RevealCountdown) Start() {
	r.mu.Lock()
	if r.cancel != nil {
		close(r.cancel)
	}
	cancel := make(chan struct{})
	r.cancel = cancel
	r.state = Revealing
	r.remaining = RevealSeconds
	r.mu.Unlock()

	go r.run(cancel)
}

// Stop cancels any run in flight and returns to RevealIdle. Safe to call
// repeatedly and on a countdown that never started.
func (r *RevealCountdown) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		close(r.cancel)
		r.cancel = nil
	}
	r.state = RevealIdle
	r.remaining = 0
	r.mu.Unlock()
}

// Unlock jumps straight to Answerable without a countdown. Used when the
// client lands mid-question and the server already reports the answering
// phase.
func (r *RevealCountdown) Unlock() {
	r.mu.Lock()
	if r.cancel != nil {
		close(r.cancel)
		r.cancel = nil
	}
	r.state = Answerable
	r.remaining = 0
	fn := r.onAnswerable
	r.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// State reports the current reveal state.
func (r *RevealCountdown) State() RevealState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Remaining reports the seconds left in the reveal window.
func (r *RevealCountdown) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining
}

// Answerable reports whether answering is unlocked.
func (r *RevealCountdown) Answerable() bool {
	return r.State() == Answerable
}

func (r *RevealCountdown) run(cancel chan struct{}) {
	timer := r.clock.NewTimer(time.Second)
	for {
		select {
		case <-cancel:
			stopAndDrainTimer(timer)
			return
		case <-timer.Chan():
			r.mu.Lock()
			if r.cancel == nil {
				// stopped between fire and lock
				r.mu.Unlock()
				return
			}
			select {
			case <-cancel:
				// superseded between fire and lock
				r.mu.Unlock()
				return
			default:
			}
			r.remaining--
			rem := r.remaining
			tick := r.onTick
			var answerable func()
			if rem <= 0 {
				r.state = Answerable
				r.cancel = nil
				answerable = r.onAnswerable
			}
			r.mu.Unlock()

			if tick != nil {
				tick(rem)
			}
			if rem <= 0 {
				if answerable != nil {
					answerable()
				}
				return
			}
			timer.Reset(time.Second)
		}
	}
}

func stopAndDrainTimer(t clockwork.Timer) {
	if !t.Stop() {
		select {
		case <-t.Chan():
		default:
		}
	}
}
