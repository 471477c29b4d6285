package quizroom

import (
	"context"
	"errors"
	"io"
	"net/url"
	"sync"

	"github.com/quizroom/quizroom-go/quizroom/internal"

	"github.com/coder/websocket"
)

// Client is the connection session to the quiz coordination server. One tab
// holds at most one client; screens share it and take turns owning its event
// subscriptions.
type Client struct {
	cfg        Config
	logger     Logger
	conn       *internal.Socket
	rawConn    *websocket.Conn
	writeCh    chan Inbound
	dispatcher Dispatcher

	mu           sync.Mutex
	state        ConnectionState
	identity     Identity
	cancel       context.CancelFunc
	onDisconnect func(error)
}

// NewClient constructs a client with provided config.
// Use DefaultConfig() as a starting point and modify as needed.
// Set a timeout to 0 to disable it.
func NewClient(cfg Config) *Client {
	return &Client{
		cfg:     cfg,
		logger:  noopLogger{},
		writeCh: make(chan Inbound, 16),
	}
}

// SetLogger overrides logger (optional).
func (c *Client) SetLogger(l Logger) {
	if l == nil {
		return
	}
	c.logger = l
}

// OnRoomCreated registers the callback for roomCreated pushes.
func (c *Client) OnRoomCreated(fn func(RoomEvent)) { c.dispatcher.SetOnRoomCreated(fn) }

// OnRoomJoined registers the callback for roomJoined pushes.
func (c *Client) OnRoomJoined(fn func(RoomEvent)) { c.dispatcher.SetOnRoomJoined(fn) }

// OnRoomUpdate registers the callback for updateRoom snapshot pushes.
func (c *Client) OnRoomUpdate(fn func(RoomSnapshot)) { c.dispatcher.SetOnRoomUpdate(fn) }

// OnGameStarted registers the callback for gameStarted pushes.
func (c *Client) OnGameStarted(fn func()) { c.dispatcher.SetOnGameStarted(fn) }

// OnGameState registers the callback for gameStateUpdate snapshot pushes.
func (c *Client) OnGameState(fn func(GameSnapshot)) { c.dispatcher.SetOnGameState(fn) }

// OnTimeUpdate registers the callback for timeUpdate pushes.
func (c *Client) OnTimeUpdate(fn func(TimeUpdate)) { c.dispatcher.SetOnTimeUpdate(fn) }

// OnGameEnded registers the callback for gameEnded pushes.
func (c *Client) OnGameEnded(fn func(GameEndedEvent)) { c.dispatcher.SetOnGameEnded(fn) }

// OnRoomLeft registers the callback for roomLeft pushes.
func (c *Client) OnRoomLeft(fn func()) { c.dispatcher.SetOnRoomLeft(fn) }

// OnRoomDeleted registers the callback for roomDeleted pushes.
func (c *Client) OnRoomDeleted(fn func()) { c.dispatcher.SetOnRoomDeleted(fn) }

// OnError registers the callback for server error pushes and decode failures.
func (c *Client) OnError(fn func(error)) { c.dispatcher.SetOnError(fn) }

// OnDisconnect registers the callback for unexpected transport loss. The SDK
// does not retry on its own; the caller owns the reconnect policy.
func (c *Client) OnDisconnect(fn func(error)) {
	c.mu.Lock()
	c.onDisconnect = fn
	c.mu.Unlock()
}

// Identity returns the identity announced on the current connection, or the
// zero Identity if the client never connected.
func (c *Client) Identity() Identity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identity
}

// State reports the current connection state.
func (c *Client) State() ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect dials the server, announces the identity, and starts internal
// loops. The setUserInfo frame is written synchronously before Connect
// returns, so every later request is ordered after it on the wire.
func (c *Client) Connect(ctx context.Context, id Identity) error {
	c.mu.Lock()
	if c.state == StateConnected || c.state == StateConnecting {
		c.mu.Unlock()
		return NewError(ErrorConnection, "already connected")
	}
	c.state = StateConnecting
	c.mu.Unlock()

	if err := c.dial(ctx, id); err != nil {
		c.mu.Lock()
		c.state = StateDisconnected
		c.mu.Unlock()
		return err
	}
	return nil
}

func (c *Client) dial(ctx context.Context, id Identity) error {
	if c.cfg.URL == "" {
		return NewError(ErrorInvalidConfig, "empty URL")
	}
	if id.ID == "" {
		return NewError(ErrorMissingIdentity, "identity has no id")
	}
	u, err := url.Parse(c.cfg.URL)
	if err != nil {
		return WrapError(ErrorInvalidConfig, "invalid URL", err)
	}

	dialCtx := ctx
	if c.cfg.HandshakeTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, c.cfg.HandshakeTimeout)
		defer cancel()
	}

	ws, _, err := websocket.Dial(dialCtx, u.String(), nil)
	if err != nil {
		return WrapError(ErrorConnection, "dial failed", err)
	}

	c.rawConn = ws
	c.conn = internal.NewSocket(ws, c.cfg.ReadTimeout, c.cfg.WriteTimeout)

	announce := Inbound{
		Type: opSetUserInfo,
		Data: SetUserInfoPayload{UserID: id.ID, UserName: id.Name},
	}
	if err := c.conn.WriteEnvelope(ctx, announce); err != nil {
		_ = c.conn.Close(websocket.StatusInternalError, "announce error")
		return WrapError(ErrorConnection, "identity announce failed", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	c.mu.Lock()
	c.cancel = cancel
	c.state = StateConnected
	c.identity = id
	c.mu.Unlock()

	c.logger.Info("connected", map[string]any{"url": c.cfg.URL, "user_id": id.ID})

	go c.readLoop(runCtx)
	go c.writeLoop(runCtx)
	return nil
}

// CreateRoom asks the server to create a room keyed by password.
func (c *Client) CreateRoom(ctx context.Context, password string) error {
	id := c.Identity()
	return c.send(ctx, Inbound{Type: opCreateRoom, Data: RoomActionPayload{
		Password: password,
		User:     UserRef{ID: id.ID, Name: id.Name},
	}})
}

// JoinRoom asks the server to add this identity to an existing room.
func (c *Client) JoinRoom(ctx context.Context, password string) error {
	id := c.Identity()
	return c.send(ctx, Inbound{Type: opJoinRoom, Data: RoomActionPayload{
		Password: password,
		User:     UserRef{ID: id.ID, Name: id.Name},
	}})
}

// RoomInfo requests the current room snapshot without joining. Room entry
// after create/join must use this, not JoinRoom, so membership stays single.
func (c *Client) RoomInfo(ctx context.Context, password string) error {
	return c.send(ctx, Inbound{Type: opGetRoomInfo, Data: RoomInfoPayload{
		Password: password,
		UserID:   c.Identity().ID,
	}})
}

// StartGame asks the server to start the game. The server is the authority
// on host role and player count and may reject with an error push.
func (c *Client) StartGame(ctx context.Context, password string) error {
	return c.send(ctx, Inbound{Type: opStartGame, Data: StartGamePayload{Password: password}})
}

// LeaveRoom removes this identity from the room.
func (c *Client) LeaveRoom(ctx context.Context, password string) error {
	return c.send(ctx, Inbound{Type: opLeaveRoom, Data: LeaveRoomPayload{
		Password: password,
		UserID:   c.Identity().ID,
	}})
}

// ReadyForGame reports that this client reached the game screen.
func (c *Client) ReadyForGame(ctx context.Context, password string) error {
	return c.send(ctx, Inbound{Type: opUserReadyForGame, Data: ReadyPayload{
		Password: password,
		UserID:   c.Identity().ID,
	}})
}

// SubmitAnswer sends one answer choice with the locally observed remaining
// time.
func (c *Client) SubmitAnswer(ctx context.Context, password string, answerIndex, timeLeft int) error {
	return c.send(ctx, Inbound{Type: opSubmitAnswer, Data: SubmitAnswerPayload{
		Password:    password,
		UserID:      c.Identity().ID,
		AnswerIndex: answerIndex,
		TimeLeft:    timeLeft,
	}})
}

// Close shuts down the client and closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.state = StateClosed
	c.mu.Unlock()
	if c.conn != nil {
		return c.conn.Close(websocket.StatusNormalClosure, "client close")
	}
	return nil
}

func (c *Client) send(ctx context.Context, in Inbound) error {
	c.mu.Lock()
	connected := c.state == StateConnected
	c.mu.Unlock()
	if !connected {
		return NewError(ErrorNotConnected, "not connected")
	}

	select {
	case c.writeCh <- in:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) readLoop(ctx context.Context) {
	for {
		var out Outbound
		if err := c.conn.ReadEnvelope(ctx, &out); err != nil {
			if isExpectedDisconnect(ctx, err) {
				c.markDisconnected(nil)
				return
			}
			c.dispatcher.Dispatch(Outbound{Type: outboundError, Error: &Error{Code: "disconnected", Message: err.Error()}})
			c.logger.Warn("read loop exit", map[string]any{"error": err.Error()})
			c.markDisconnected(err)
			return
		}
		c.dispatcher.Dispatch(out)
	}
}

func (c *Client) writeLoop(ctx context.Context) {
	for {
		select {
		case in := <-c.writeCh:
			if err := c.conn.WriteEnvelope(ctx, in); err != nil {
				c.dispatcher.Dispatch(Outbound{Type: outboundError, Error: &Error{Code: "disconnected", Message: err.Error()}})
				c.logger.Warn("write loop exit", map[string]any{"error": err.Error()})
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) markDisconnected(cause error) {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return
	}
	c.state = StateDisconnected
	fn := c.onDisconnect
	c.mu.Unlock()
	if fn != nil && cause != nil {
		fn(cause)
	}
}

func isExpectedDisconnect(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	if ctx != nil && ctx.Err() != nil {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		return true
	}
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return true
	default:
		return false
	}
}
