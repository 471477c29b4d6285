package quizroom

import "net/url"

// Room passphrases travel through URL paths, so they are percent-encoded on
// navigation and decoded when read back from the route. The round trip must
// be exact for passphrases containing '/', '?', '#', or multi-byte text.

// EncodePasscode escapes a passphrase for use as a route segment.
func EncodePasscode(password string) string {
	return url.PathEscape(password)
}

// DecodePasscode reverses EncodePasscode on a route segment.
func DecodePasscode(segment string) (string, error) {
	p, err := url.PathUnescape(segment)
	if err != nil {
		return "", WrapError(ErrorBadRequest, "malformed passcode segment", err)
	}
	return p, nil
}

// RoomRoute returns the room view route for a passphrase.
func RoomRoute(password string) string {
	return "/room/" + EncodePasscode(password)
}

// GameRoute returns the game view route for a passphrase.
func GameRoute(password string) string {
	return "/game/" + EncodePasscode(password)
}
