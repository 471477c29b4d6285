package quizroom

// Room status values pushed in RoomSnapshot.
const (
	RoomWaiting = "waiting"
	RoomPlaying = "playing"
)

// MaxRoomMembers is the server-side cap on room size. The client only
// reflects it for display; the server enforces it.
const MaxRoomMembers = 6

// MinPlayersToStart is the smallest room the host may start a game in.
const MinPlayersToStart = 2

// Member is one participant as listed in a room snapshot.
type Member struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RoomSnapshot is the complete server-pushed room state. Each push replaces
// the previous snapshot wholesale.
type RoomSnapshot struct {
	Host    string   `json:"host"`
	Members []Member `json:"members"`
	Status  string   `json:"status"`
}

// HasMember reports whether id is currently in the room.
func (s RoomSnapshot) HasMember(id string) bool {
	for _, m := range s.Members {
		if m.ID == id {
			return true
		}
	}
	return false
}

// GamePhase is the server-authoritative stage of the active game.
type GamePhase string

const (
	PhaseWaiting      GamePhase = "waiting"
	PhaseShowQuestion GamePhase = "showQuestion"
	PhaseAnswering    GamePhase = "answering"
	PhaseResults      GamePhase = "results"
)

// GameSnapshot is the complete server-pushed game state. Each push replaces
// the previous snapshot wholesale; CorrectAnswer is only present during the
// results phase.
type GameSnapshot struct {
	Question          string    `json:"question"`
	Options           []string  `json:"options"`
	TimeLeft          int       `json:"timeLeft"`
	WaitingForUsers   []string  `json:"waitingForUsers"`
	AllUsersReady     bool      `json:"allUsersReady"`
	GamePhase         GamePhase `json:"gamePhase"`
	QuestionNumber    int       `json:"questionNumber"`
	TotalQuestions    int       `json:"totalQuestions"`
	CorrectAnswer     *int      `json:"correctAnswer,omitempty"`
	CorrectAnswerText string    `json:"correctAnswerText,omitempty"`
}

// RoomEvent is pushed on roomCreated and roomJoined. The password is the
// canonical passphrase the server registered the room under.
type RoomEvent struct {
	Password string `json:"password"`
}

// TimeUpdate is the periodic authoritative countdown push.
type TimeUpdate struct {
	TimeLeft      int `json:"timeLeft"`
	TotalTimeLeft int `json:"totalTimeLeft"`
}

// PlayerResult is one row of the final standings.
type PlayerResult struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Score    int    `json:"score"`
}

// GameEndedEvent is pushed once when the game concludes. It is terminal for
// the game screen; the room itself persists.
type GameEndedEvent struct {
	Results []PlayerResult `json:"results"`
}
