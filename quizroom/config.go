package quizroom

import "time"

// Config controls how the SDK connects.
type Config struct {
	URL              string
	HandshakeTimeout time.Duration
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		HandshakeTimeout: 10 * time.Second,
		ReadTimeout:      0, // the server drives idle detection with ping/pong
		WriteTimeout:     10 * time.Second,
	}
}
