package quizroom

// Navigator is how screens hand control to each other. Passwords are passed
// decoded; embedders that map screens to URLs should route through RoomRoute
// and GameRoute.
type Navigator interface {
	GoToLobby()
	GoToRoom(password string)
	GoToGame(password string)
}

// Notifier surfaces user-visible notices (server errors, room teardown, final
// results). Every notice leaves the user on a known-good screen.
type Notifier interface {
	Notify(message string)
}
