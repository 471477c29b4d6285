package quizroom

import "context"

// Session is the surface of the connection session the screens depend on.
// *Client implements it; tests substitute fakes. Passing the session into
// each screen keeps the connection an explicitly owned object instead of a
// hidden module-level singleton.
type Session interface {
	Identity() Identity
	State() ConnectionState

	CreateRoom(ctx context.Context, password string) error
	JoinRoom(ctx context.Context, password string) error
	RoomInfo(ctx context.Context, password string) error
	StartGame(ctx context.Context, password string) error
	LeaveRoom(ctx context.Context, password string) error
	ReadyForGame(ctx context.Context, password string) error
	SubmitAnswer(ctx context.Context, password string, answerIndex, timeLeft int) error

	OnRoomCreated(fn func(RoomEvent))
	OnRoomJoined(fn func(RoomEvent))
	OnRoomUpdate(fn func(RoomSnapshot))
	OnGameStarted(fn func())
	OnGameState(fn func(GameSnapshot))
	OnTimeUpdate(fn func(TimeUpdate))
	OnGameEnded(fn func(GameEndedEvent))
	OnRoomLeft(fn func())
	OnRoomDeleted(fn func())
	OnError(fn func(error))
}

var _ Session = (*Client)(nil)
