// Package internal carries the websocket transport the quizroom client
// speaks its JSON envelopes over.
package internal

import (
	"context"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// Socket frames envelopes as JSON text messages over a websocket and
// bounds each read and write with the session's deadlines. A zero
// timeout leaves the caller's context in charge.
type Socket struct {
	conn         *websocket.Conn
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func NewSocket(conn *websocket.Conn, readTimeout, writeTimeout time.Duration) *Socket {
	return &Socket{conn: conn, readTimeout: readTimeout, writeTimeout: writeTimeout}
}

// ReadEnvelope decodes the next server push into out.
func (s *Socket) ReadEnvelope(ctx context.Context, out any) error {
	ctx, cancel := s.bound(ctx, s.readTimeout)
	defer cancel()
	return wsjson.Read(ctx, s.conn, out)
}

// WriteEnvelope encodes one client frame onto the wire.
func (s *Socket) WriteEnvelope(ctx context.Context, frame any) error {
	ctx, cancel := s.bound(ctx, s.writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, s.conn, frame)
}

// Close performs the websocket close handshake.
func (s *Socket) Close(code websocket.StatusCode, reason string) error {
	return s.conn.Close(code, reason)
}

func (s *Socket) bound(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
