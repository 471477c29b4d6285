package quizroom

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jonboulle/clockwork"
)

// DefaultAnswerSeconds is the assumed answer window before the first
// authoritative timeUpdate arrives.
const DefaultAnswerSeconds = 15

// GameScreen is the live quiz view. Phase data is server-authoritative; the
// only local state is the cosmetic reveal countdown, the answer selection for
// the current question, and the last observed time left.
type GameScreen struct {
	session   Session
	nav       Navigator
	notify    Notifier
	password  string
	countdown *RevealCountdown

	mu       sync.Mutex
	snapshot *GameSnapshot
	timeLeft int
	selected *int
	ended    bool
	onChange func(GameSnapshot)
}

// NewGameScreen wires the game view for a decoded passphrase. Pass nil for
// the real clock; tests inject a clockwork.FakeClock.
func NewGameScreen(session Session, nav Navigator, notify Notifier, password string, clock clockwork.Clock) *GameScreen {
	return &GameScreen{
		session:   session,
		nav:       nav,
		notify:    notify,
		password:  password,
		countdown: NewRevealCountdown(clock),
		timeLeft:  DefaultAnswerSeconds,
	}
}

// Enter takes ownership of the game subscriptions and tells the server this
// client is ready. A missing identity short-circuits to the lobby with no
// network call.
func (g *GameScreen) Enter(ctx context.Context) error {
	if g.session.Identity().ID == "" {
		g.nav.GoToLobby()
		return NewError(ErrorMissingIdentity, "no identity for game view")
	}

	g.session.OnGameState(g.applySnapshot)
	g.session.OnTimeUpdate(func(ev TimeUpdate) {
		g.mu.Lock()
		g.timeLeft = ev.TimeLeft
		g.mu.Unlock()
	})
	g.session.OnGameEnded(func(ev GameEndedEvent) {
		g.mu.Lock()
		g.ended = true
		g.mu.Unlock()
		g.countdown.Stop()
		g.notify.Notify(formatResults(ev))
		g.nav.GoToRoom(g.password)
	})
	g.session.OnError(func(err error) {
		g.notify.Notify(err.Error())
		g.nav.GoToLobby()
	})

	return g.session.ReadyForGame(ctx, g.password)
}

// Exit releases the subscriptions and cancels any reveal countdown still in
// flight.
func (g *GameScreen) Exit() {
	g.session.OnGameState(nil)
	g.session.OnTimeUpdate(nil)
	g.session.OnGameEnded(nil)
	g.session.OnError(nil)
	g.countdown.Stop()
}

// applySnapshot replaces the projected game state wholesale. Every
// showQuestion transition resets the selection and restarts the reveal
// countdown, superseding any run still in flight.
func (g *GameScreen) applySnapshot(snap GameSnapshot) {
	g.mu.Lock()
	g.snapshot = &snap
	if snap.TimeLeft > 0 {
		g.timeLeft = snap.TimeLeft
	}
	if snap.GamePhase == PhaseShowQuestion {
		g.selected = nil
	}
	fn := g.onChange
	g.mu.Unlock()

	switch snap.GamePhase {
	case PhaseShowQuestion:
		g.countdown.Start()
	case PhaseAnswering:
		// Unlock instantly only on a late join where no reveal ever ran for
		// this question. A reveal still mid-flight keeps answering locked
		// until the full window elapses.
		if g.countdown.State() == RevealIdle {
			g.countdown.Unlock()
		}
	}

	if fn != nil {
		fn(snap)
	}
}

// OnChange registers a render callback invoked after each applied snapshot.
// Register before Enter.
func (g *GameScreen) OnChange(fn func(GameSnapshot)) {
	g.mu.Lock()
	g.onChange = fn
	g.mu.Unlock()
}

// Reveal exposes the reveal countdown so embedders can render its ticks and
// the moment answering unlocks.
func (g *GameScreen) Reveal() *RevealCountdown {
	return g.countdown
}

// SubmitAnswer sends the chosen option index. It refuses, without emitting,
// while the reveal window is still running, outside a question phase, or once
// an answer for the current question was already sent.
func (g *GameScreen) SubmitAnswer(ctx context.Context, answerIndex int) error {
	if !g.countdown.Answerable() {
		return NewError(ErrorNotAnswerable, "question is still being revealed")
	}

	g.mu.Lock()
	if g.snapshot == nil || (g.snapshot.GamePhase != PhaseShowQuestion && g.snapshot.GamePhase != PhaseAnswering) {
		g.mu.Unlock()
		return NewError(ErrorNotAnswerable, "no question is accepting answers")
	}
	if g.selected != nil {
		g.mu.Unlock()
		return NewError(ErrorAnswerLocked, "answer already submitted for this question")
	}
	if answerIndex < 0 || answerIndex >= len(g.snapshot.Options) {
		g.mu.Unlock()
		return NewError(ErrorBadRequest, "answer index out of range")
	}
	idx := answerIndex
	g.selected = &idx
	timeLeft := g.timeLeft
	g.mu.Unlock()

	return g.session.SubmitAnswer(ctx, g.password, answerIndex, timeLeft)
}

// Password returns the decoded passphrase this screen projects.
func (g *GameScreen) Password() string {
	return g.password
}

// Snapshot returns the latest game snapshot, if one arrived yet.
func (g *GameScreen) Snapshot() (GameSnapshot, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.snapshot == nil {
		return GameSnapshot{}, false
	}
	return *g.snapshot, true
}

// CanAnswer reports whether a selection would be accepted right now.
func (g *GameScreen) CanAnswer() bool {
	g.mu.Lock()
	selected := g.selected != nil
	g.mu.Unlock()
	return !selected && g.countdown.Answerable()
}

// Selected returns the submitted answer index for the current question.
func (g *GameScreen) Selected() (int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.selected == nil {
		return 0, false
	}
	return *g.selected, true
}

// TimeLeft returns the locally observed remaining answer time in seconds.
func (g *GameScreen) TimeLeft() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.timeLeft
}

// RevealRemaining returns the seconds left in the reveal window.
func (g *GameScreen) RevealRemaining() int {
	return g.countdown.Remaining()
}

// Ended reports whether the gameEnded push arrived.
func (g *GameScreen) Ended() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ended
}

// ResultOutcome reports, during the results phase, whether the local answer
// matched the correct one. ok is false outside results or when either side is
// unknown.
func (g *GameScreen) ResultOutcome() (correct bool, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.snapshot == nil || g.snapshot.GamePhase != PhaseResults || g.snapshot.CorrectAnswer == nil || g.selected == nil {
		return false, false
	}
	return *g.selected == *g.snapshot.CorrectAnswer, true
}

func formatResults(ev GameEndedEvent) string {
	if len(ev.Results) == 0 {
		return "game over"
	}
	rows := make([]string, 0, len(ev.Results))
	for _, r := range ev.Results {
		rows = append(rows, fmt.Sprintf("%s: %d", r.UserName, r.Score))
	}
	return "game over: " + strings.Join(rows, ", ")
}
