package quizroom

import "encoding/json"

const (
	// client -> server operations
	opSetUserInfo      = "setUserInfo"
	opCreateRoom       = "createRoom"
	opJoinRoom         = "joinRoom"
	opGetRoomInfo      = "getRoomInfo"
	opStartGame        = "startGame"
	opLeaveRoom        = "leaveRoom"
	opUserReadyForGame = "userReadyForGame"
	opSubmitAnswer     = "submitAnswer"

	outboundEvent = "event"
	outboundError = "error"

	// server -> client events
	eventRoomCreated     = "roomCreated"
	eventRoomJoined      = "roomJoined"
	eventUpdateRoom      = "updateRoom"
	eventGameStarted     = "gameStarted"
	eventGameStateUpdate = "gameStateUpdate"
	eventTimeUpdate      = "timeUpdate"
	eventGameEnded       = "gameEnded"
	eventRoomLeft        = "roomLeft"
	eventRoomDeleted     = "roomDeleted"
)

// Inbound represents the envelope from client to server.
type Inbound struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Outbound is the envelope server -> client.
type Outbound struct {
	Type  string          `json:"type"`
	Event string          `json:"event,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error *Error          `json:"error,omitempty"`
}

// UserRef identifies a participant in room requests.
type UserRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SetUserInfoPayload announces the tab identity right after the transport opens.
type SetUserInfoPayload struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

// RoomActionPayload creates or joins a room keyed by a passphrase.
type RoomActionPayload struct {
	Password string  `json:"password"`
	User     UserRef `json:"user"`
}

// RoomInfoPayload requests the current room snapshot without joining.
type RoomInfoPayload struct {
	Password string `json:"password"`
	UserID   string `json:"userId"`
}

// StartGamePayload asks the server to start the game in a room.
type StartGamePayload struct {
	Password string `json:"password"`
}

// LeaveRoomPayload removes the user from a room.
type LeaveRoomPayload struct {
	Password string `json:"password"`
	UserID   string `json:"userId"`
}

// ReadyPayload signals that this client has reached the game screen.
type ReadyPayload struct {
	Password string `json:"password"`
	UserID   string `json:"userId"`
}

// SubmitAnswerPayload carries one answer choice. TimeLeft is the client's
// locally observed remaining time; it is advisory, the server keeps its own.
type SubmitAnswerPayload struct {
	Password    string `json:"password"`
	UserID      string `json:"userId"`
	AnswerIndex int    `json:"answerIndex"`
	TimeLeft    int    `json:"timeLeft"`
}

// Error describes a server-pushed error.
type Error struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}

// UnmarshalData decodes RawMessage into target.
func UnmarshalData(data json.RawMessage, v any) error {
	return json.Unmarshal(data, v)
}
