package quizroom

import (
	"reflect"
	"testing"
)

func twoMemberRoom(host string) RoomSnapshot {
	return RoomSnapshot{
		Host:    host,
		Members: []Member{{ID: "user_1", Name: "alice"}, {ID: "user_2", Name: "bob"}},
		Status:  RoomWaiting,
	}
}

func TestRoomEnterFetchesWithoutRejoining(t *testing.T) {
	session := newFakeSession(Identity{ID: "user_1", Name: "alice"})
	screen := NewRoomScreen(session, &fakeNavigator{}, &fakeNotifier{}, "pw")

	if err := screen.Enter(testCtx()); err != nil {
		t.Fatalf("enter: %v", err)
	}

	types := session.sentTypes()
	if !reflect.DeepEqual(types, []string{opGetRoomInfo}) {
		t.Fatalf("expected a single getRoomInfo, got %v", types)
	}
}

func TestRoomEnterWithoutIdentityRedirects(t *testing.T) {
	session := newFakeSession(Identity{})
	nav := &fakeNavigator{}
	screen := NewRoomScreen(session, nav, &fakeNotifier{}, "pw")

	if err := screen.Enter(testCtx()); !IsLocalGateError(err) {
		t.Fatalf("expected local gate error, got %v", err)
	}
	if last, _ := nav.last(); last != "/" {
		t.Fatalf("expected lobby redirect, got %q", last)
	}
	if len(session.sentFrames()) != 0 {
		t.Fatalf("network call made without identity: %v", session.sentTypes())
	}
}

func TestRoomHostStartGating(t *testing.T) {
	session := newFakeSession(Identity{ID: "user_1", Name: "alice"})
	screen := NewRoomScreen(session, &fakeNavigator{}, &fakeNotifier{}, "pw")
	if err := screen.Enter(testCtx()); err != nil {
		t.Fatalf("enter: %v", err)
	}

	// alone in the room: host, but not enough players
	session.push(t, eventUpdateRoom, RoomSnapshot{
		Host:    "user_1",
		Members: []Member{{ID: "user_1", Name: "alice"}},
		Status:  RoomWaiting,
	})
	if !screen.IsHost() {
		t.Fatalf("expected host flag")
	}
	if screen.CanStart() {
		t.Fatalf("start enabled with one member")
	}
	if err := screen.StartGame(testCtx()); !IsLocalGateError(err) {
		t.Fatalf("expected local gate error, got %v", err)
	}

	// a second member joins; no reload needed
	session.push(t, eventUpdateRoom, twoMemberRoom("user_1"))
	if !screen.CanStart() {
		t.Fatalf("start still disabled with two members")
	}
	if err := screen.StartGame(testCtx()); err != nil {
		t.Fatalf("start: %v", err)
	}

	types := session.sentTypes()
	if types[len(types)-1] != opStartGame {
		t.Fatalf("expected startGame frame, got %v", types)
	}
}

func TestRoomNonHostCannotStart(t *testing.T) {
	session := newFakeSession(Identity{ID: "user_2", Name: "bob"})
	screen := NewRoomScreen(session, &fakeNavigator{}, &fakeNotifier{}, "pw")
	if err := screen.Enter(testCtx()); err != nil {
		t.Fatalf("enter: %v", err)
	}

	session.push(t, eventUpdateRoom, twoMemberRoom("user_1"))
	if screen.IsHost() || screen.CanStart() {
		t.Fatalf("non-host sees enabled start control")
	}
	if err := screen.StartGame(testCtx()); !IsLocalGateError(err) {
		t.Fatalf("expected local gate error, got %v", err)
	}
}

func TestRoomStartBlockedWhilePlaying(t *testing.T) {
	session := newFakeSession(Identity{ID: "user_1", Name: "alice"})
	screen := NewRoomScreen(session, &fakeNavigator{}, &fakeNotifier{}, "pw")
	if err := screen.Enter(testCtx()); err != nil {
		t.Fatalf("enter: %v", err)
	}

	snap := twoMemberRoom("user_1")
	snap.Status = RoomPlaying
	session.push(t, eventUpdateRoom, snap)

	if screen.CanStart() {
		t.Fatalf("start enabled while playing")
	}
	if err := screen.StartGame(testCtx()); !IsLocalGateError(err) {
		t.Fatalf("expected local gate error, got %v", err)
	}
}

func TestRoomIdenticalSnapshotsAreIdempotent(t *testing.T) {
	session := newFakeSession(Identity{ID: "user_1", Name: "alice"})
	screen := NewRoomScreen(session, &fakeNavigator{}, &fakeNotifier{}, "pw")
	if err := screen.Enter(testCtx()); err != nil {
		t.Fatalf("enter: %v", err)
	}

	session.push(t, eventUpdateRoom, twoMemberRoom("user_1"))
	first, _ := screen.Snapshot()
	hostBefore := screen.IsHost()

	session.push(t, eventUpdateRoom, twoMemberRoom("user_1"))
	second, _ := screen.Snapshot()

	if !reflect.DeepEqual(first, second) || screen.IsHost() != hostBefore {
		t.Fatalf("identical snapshots changed projected state")
	}
}

func TestRoomGameStartedNavigatesWithoutLeaving(t *testing.T) {
	session := newFakeSession(Identity{ID: "user_1", Name: "alice"})
	nav := &fakeNavigator{}
	screen := NewRoomScreen(session, nav, &fakeNotifier{}, "合言葉")
	if err := screen.Enter(testCtx()); err != nil {
		t.Fatalf("enter: %v", err)
	}

	session.push(t, eventGameStarted, nil)
	if last, _ := nav.last(); last != GameRoute("合言葉") {
		t.Fatalf("expected game route, got %q", last)
	}

	// exiting towards the game must not free the seat
	if err := screen.Exit(testCtx()); err != nil {
		t.Fatalf("exit: %v", err)
	}
	for _, typ := range session.sentTypes() {
		if typ == opLeaveRoom {
			t.Fatalf("leaveRoom emitted while advancing to the game")
		}
	}
}

func TestRoomDeletedNotifiesAndReturnsToLobby(t *testing.T) {
	session := newFakeSession(Identity{ID: "user_2", Name: "bob"})
	nav := &fakeNavigator{}
	notify := &fakeNotifier{}
	screen := NewRoomScreen(session, nav, notify, "pw")
	if err := screen.Enter(testCtx()); err != nil {
		t.Fatalf("enter: %v", err)
	}

	session.push(t, eventRoomDeleted, nil)
	if notify.count() != 1 {
		t.Fatalf("expected a notification, got %d", notify.count())
	}
	if last, _ := nav.last(); last != "/" {
		t.Fatalf("expected lobby route, got %q", last)
	}
	// session identity survives the teardown
	if session.Identity().ID != "user_2" {
		t.Fatalf("identity lost after room deletion")
	}
}

func TestRoomLeaveFlow(t *testing.T) {
	session := newFakeSession(Identity{ID: "user_2", Name: "bob"})
	nav := &fakeNavigator{}
	screen := NewRoomScreen(session, nav, &fakeNotifier{}, "pw")
	if err := screen.Enter(testCtx()); err != nil {
		t.Fatalf("enter: %v", err)
	}

	if err := screen.Leave(testCtx()); err != nil {
		t.Fatalf("leave: %v", err)
	}
	session.push(t, eventRoomLeft, nil)
	if last, _ := nav.last(); last != "/" {
		t.Fatalf("expected lobby route, got %q", last)
	}

	// exit after an explicit leave must not emit a second leaveRoom
	if err := screen.Exit(testCtx()); err != nil {
		t.Fatalf("exit: %v", err)
	}
	var leaves int
	for _, typ := range session.sentTypes() {
		if typ == opLeaveRoom {
			leaves++
		}
	}
	if leaves != 1 {
		t.Fatalf("expected exactly one leaveRoom, got %d", leaves)
	}
}

func TestRoomExitLeavesWhenUserNeverDid(t *testing.T) {
	session := newFakeSession(Identity{ID: "user_2", Name: "bob"})
	nav := &fakeNavigator{}
	screen := NewRoomScreen(session, nav, &fakeNotifier{}, "pw")
	if err := screen.Enter(testCtx()); err != nil {
		t.Fatalf("enter: %v", err)
	}

	if err := screen.Exit(testCtx()); err != nil {
		t.Fatalf("exit: %v", err)
	}
	types := session.sentTypes()
	if types[len(types)-1] != opLeaveRoom {
		t.Fatalf("expected leaveRoom on exit, got %v", types)
	}

	// subscriptions are gone
	session.push(t, eventRoomDeleted, nil)
	if _, navigated := nav.last(); navigated {
		t.Fatalf("exited screen still navigates")
	}
}
