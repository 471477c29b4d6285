package quizroom

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"
)

// fakeSession records every frame a screen emits and reuses the real
// Dispatcher so tests can push server events through the same path the read
// loop uses.
type fakeSession struct {
	Dispatcher

	identity Identity

	mu   sync.Mutex
	sent []Inbound
}

func newFakeSession(id Identity) *fakeSession {
	return &fakeSession{identity: id}
}

func (f *fakeSession) Identity() Identity     { return f.identity }
func (f *fakeSession) State() ConnectionState { return StateConnected }

func (f *fakeSession) CreateRoom(_ context.Context, password string) error {
	f.record(Inbound{Type: opCreateRoom, Data: RoomActionPayload{Password: password, User: UserRef(f.identity)}})
	return nil
}

func (f *fakeSession) JoinRoom(_ context.Context, password string) error {
	f.record(Inbound{Type: opJoinRoom, Data: RoomActionPayload{Password: password, User: UserRef(f.identity)}})
	return nil
}

func (f *fakeSession) RoomInfo(_ context.Context, password string) error {
	f.record(Inbound{Type: opGetRoomInfo, Data: RoomInfoPayload{Password: password, UserID: f.identity.ID}})
	return nil
}

func (f *fakeSession) StartGame(_ context.Context, password string) error {
	f.record(Inbound{Type: opStartGame, Data: StartGamePayload{Password: password}})
	return nil
}

func (f *fakeSession) LeaveRoom(_ context.Context, password string) error {
	f.record(Inbound{Type: opLeaveRoom, Data: LeaveRoomPayload{Password: password, UserID: f.identity.ID}})
	return nil
}

func (f *fakeSession) ReadyForGame(_ context.Context, password string) error {
	f.record(Inbound{Type: opUserReadyForGame, Data: ReadyPayload{Password: password, UserID: f.identity.ID}})
	return nil
}

func (f *fakeSession) SubmitAnswer(_ context.Context, password string, answerIndex, timeLeft int) error {
	f.record(Inbound{Type: opSubmitAnswer, Data: SubmitAnswerPayload{
		Password:    password,
		UserID:      f.identity.ID,
		AnswerIndex: answerIndex,
		TimeLeft:    timeLeft,
	}})
	return nil
}

func (f *fakeSession) OnRoomCreated(fn func(RoomEvent))   { f.SetOnRoomCreated(fn) }
func (f *fakeSession) OnRoomJoined(fn func(RoomEvent))    { f.SetOnRoomJoined(fn) }
func (f *fakeSession) OnRoomUpdate(fn func(RoomSnapshot)) { f.SetOnRoomUpdate(fn) }
func (f *fakeSession) OnGameStarted(fn func())            { f.SetOnGameStarted(fn) }
func (f *fakeSession) OnGameState(fn func(GameSnapshot))  { f.SetOnGameState(fn) }
func (f *fakeSession) OnTimeUpdate(fn func(TimeUpdate))   { f.SetOnTimeUpdate(fn) }
func (f *fakeSession) OnGameEnded(fn func(GameEndedEvent)) {
	f.SetOnGameEnded(fn)
}
func (f *fakeSession) OnRoomLeft(fn func())    { f.SetOnRoomLeft(fn) }
func (f *fakeSession) OnRoomDeleted(fn func()) { f.SetOnRoomDeleted(fn) }
func (f *fakeSession) OnError(fn func(error))  { f.SetOnError(fn) }

func (f *fakeSession) record(in Inbound) {
	f.mu.Lock()
	f.sent = append(f.sent, in)
	f.mu.Unlock()
}

func (f *fakeSession) sentFrames() []Inbound {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Inbound(nil), f.sent...)
}

func (f *fakeSession) sentTypes() []string {
	frames := f.sentFrames()
	types := make([]string, 0, len(frames))
	for _, in := range frames {
		types = append(types, in.Type)
	}
	return types
}

// push delivers a server event through the dispatcher, like the read loop
// would.
func (f *fakeSession) push(t *testing.T, event string, payload any) {
	t.Helper()
	out := Outbound{Type: outboundEvent, Event: event}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal %s payload: %v", event, err)
		}
		out.Data = raw
	}
	f.Dispatch(out)
}

func (f *fakeSession) pushError(message string) {
	f.Dispatch(Outbound{Type: outboundError, Error: &Error{Message: message}})
}

// fakeNavigator records navigation intents.
type fakeNavigator struct {
	mu     sync.Mutex
	visits []string
}

func (n *fakeNavigator) GoToLobby() { n.visit("/") }

func (n *fakeNavigator) GoToRoom(password string) { n.visit(RoomRoute(password)) }

func (n *fakeNavigator) GoToGame(password string) { n.visit(GameRoute(password)) }

func (n *fakeNavigator) visit(route string) {
	n.mu.Lock()
	n.visits = append(n.visits, route)
	n.mu.Unlock()
}

func (n *fakeNavigator) last() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.visits) == 0 {
		return "", false
	}
	return n.visits[len(n.visits)-1], true
}

// fakeNotifier records user-visible notices.
type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *fakeNotifier) Notify(message string) {
	n.mu.Lock()
	n.messages = append(n.messages, message)
	n.mu.Unlock()
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}

// testCtx returns a background context for unit tests.
func testCtx() context.Context {
	return context.Background()
}

// recvSignal waits for a struct{} signal so tests never hang.
func recvSignal(t *testing.T, ch <-chan struct{}, within time.Duration) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(within):
		t.Fatalf("timed out waiting for signal")
	}
}
