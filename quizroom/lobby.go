package quizroom

import (
	"context"
	"strings"
)

// LobbyScreen is the create/join screen. It owns the session's roomCreated,
// roomJoined, and error subscriptions while attached; navigation to the room
// view is server-driven through those pushes.
type LobbyScreen struct {
	session Session
	nav     Navigator
	notify  Notifier
}

// NewLobbyScreen wires the lobby to an already-connected session.
func NewLobbyScreen(session Session, nav Navigator, notify Notifier) *LobbyScreen {
	return &LobbyScreen{session: session, nav: nav, notify: notify}
}

// Attach takes ownership of the lobby's event subscriptions.
func (s *LobbyScreen) Attach() {
	s.session.OnRoomCreated(func(ev RoomEvent) {
		s.nav.GoToRoom(ev.Password)
	})
	s.session.OnRoomJoined(func(ev RoomEvent) {
		s.nav.GoToRoom(ev.Password)
	})
	s.session.OnError(func(err error) {
		s.notify.Notify(err.Error())
	})
}

// Detach releases every subscription Attach acquired.
func (s *LobbyScreen) Detach() {
	s.session.OnRoomCreated(nil)
	s.session.OnRoomJoined(nil)
	s.session.OnError(nil)
}

// CreateRoom requests a new room keyed by the passphrase. Both the trimmed
// passphrase and the identity's display name must be non-empty; nothing is
// sent otherwise.
func (s *LobbyScreen) CreateRoom(ctx context.Context, password string) error {
	password, err := s.validate(password)
	if err != nil {
		return err
	}
	return s.session.CreateRoom(ctx, password)
}

// JoinRoom requests membership in an existing room, under the same
// preconditions as CreateRoom.
func (s *LobbyScreen) JoinRoom(ctx context.Context, password string) error {
	password, err := s.validate(password)
	if err != nil {
		return err
	}
	return s.session.JoinRoom(ctx, password)
}

func (s *LobbyScreen) validate(password string) (string, error) {
	password = strings.TrimSpace(password)
	if password == "" {
		return "", NewError(ErrorEmptyInput, "passphrase must not be empty")
	}
	if strings.TrimSpace(s.session.Identity().Name) == "" {
		return "", NewError(ErrorEmptyInput, "display name must not be empty")
	}
	return password, nil
}
