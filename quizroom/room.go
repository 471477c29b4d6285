package quizroom

import (
	"context"
	"sync"
)

// RoomScreen is the waiting-area screen for one room. Entering fetches the
// current snapshot without re-joining (membership was established in the
// lobby); everything rendered afterwards is a projection of updateRoom
// pushes.
type RoomScreen struct {
	session  Session
	nav      Navigator
	notify   Notifier
	password string

	mu        sync.Mutex
	snapshot  *RoomSnapshot
	left      bool
	advancing bool
	onChange  func(RoomSnapshot)
}

// NewRoomScreen wires the room view for a decoded passphrase.
func NewRoomScreen(session Session, nav Navigator, notify Notifier, password string) *RoomScreen {
	return &RoomScreen{session: session, nav: nav, notify: notify, password: password}
}

// Enter takes ownership of the room subscriptions and requests the current
// snapshot. A missing identity short-circuits to the lobby with no network
// call.
func (s *RoomScreen) Enter(ctx context.Context) error {
	if s.session.Identity().ID == "" {
		s.nav.GoToLobby()
		return NewError(ErrorMissingIdentity, "no identity for room view")
	}

	s.session.OnRoomUpdate(func(snap RoomSnapshot) {
		s.mu.Lock()
		s.snapshot = &snap
		fn := s.onChange
		s.mu.Unlock()
		if fn != nil {
			fn(snap)
		}
	})
	s.session.OnGameStarted(func() {
		s.mu.Lock()
		s.advancing = true
		s.mu.Unlock()
		s.nav.GoToGame(s.password)
	})
	s.session.OnRoomDeleted(func() {
		s.notify.Notify("the room was closed by the host")
		s.nav.GoToLobby()
	})
	s.session.OnRoomLeft(func() {
		s.mu.Lock()
		s.left = true
		s.mu.Unlock()
		s.nav.GoToLobby()
	})
	s.session.OnError(func(err error) {
		s.notify.Notify(err.Error())
	})

	return s.session.RoomInfo(ctx, s.password)
}

// Exit releases the subscriptions and, unless the user already left or the
// game is starting, announces departure so the seat is freed.
func (s *RoomScreen) Exit(ctx context.Context) error {
	s.session.OnRoomUpdate(nil)
	s.session.OnGameStarted(nil)
	s.session.OnRoomDeleted(nil)
	s.session.OnRoomLeft(nil)
	s.session.OnError(nil)

	s.mu.Lock()
	leave := !s.left && !s.advancing
	s.left = true
	s.mu.Unlock()
	if leave {
		return s.session.LeaveRoom(ctx, s.password)
	}
	return nil
}

// OnChange registers a render callback invoked after each applied snapshot.
// Register before Enter.
func (s *RoomScreen) OnChange(fn func(RoomSnapshot)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Password returns the decoded passphrase this screen projects.
func (s *RoomScreen) Password() string {
	return s.password
}

// Snapshot returns the latest room snapshot, if one arrived yet.
func (s *RoomScreen) Snapshot() (RoomSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		return RoomSnapshot{}, false
	}
	return *s.snapshot, true
}

// IsHost reports whether the local identity is the room's host.
func (s *RoomScreen) IsHost() bool {
	snap, ok := s.Snapshot()
	return ok && snap.Host == s.session.Identity().ID
}

// CanStart reports whether the start-game control should be enabled: host
// role, at least two members, game not already running. This is a UI
// affordance only; the server re-checks on StartGame.
func (s *RoomScreen) CanStart() bool {
	snap, ok := s.Snapshot()
	if !ok {
		return false
	}
	return snap.Host == s.session.Identity().ID &&
		len(snap.Members) >= MinPlayersToStart &&
		snap.Status != RoomPlaying
}

// StartGame requests a game start. Guarded the same way CanStart gates the
// control, so a disabled control never emits.
func (s *RoomScreen) StartGame(ctx context.Context) error {
	snap, ok := s.Snapshot()
	if !ok || snap.Host != s.session.Identity().ID {
		return NewError(ErrorNotHost, "only the host can start the game")
	}
	if len(snap.Members) < MinPlayersToStart {
		return NewError(ErrorNotEnoughPlayers, "need at least two players to start")
	}
	if snap.Status == RoomPlaying {
		return NewError(ErrorGameInProgress, "game already in progress")
	}
	return s.session.StartGame(ctx, s.password)
}

// Leave explicitly departs the room. Navigation back to the lobby happens on
// the server's roomLeft push.
func (s *RoomScreen) Leave(ctx context.Context) error {
	s.mu.Lock()
	s.left = true
	s.mu.Unlock()
	return s.session.LeaveRoom(ctx, s.password)
}
