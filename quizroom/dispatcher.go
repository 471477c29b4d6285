package quizroom

import "sync"

// Dispatcher routes server pushes to registered callbacks. At most one
// callback per event is registered at a time: whichever screen is active owns
// the slots and must release them (register nil) when it goes away, so stale
// handlers never fire against a newer screen's state.
type Dispatcher struct {
	mu sync.RWMutex

	onRoomCreated func(RoomEvent)
	onRoomJoined  func(RoomEvent)
	onRoomUpdate  func(RoomSnapshot)
	onGameStarted func()
	onGameState   func(GameSnapshot)
	onTimeUpdate  func(TimeUpdate)
	onGameEnded   func(GameEndedEvent)
	onRoomLeft    func()
	onRoomDeleted func()
	onError       func(error)
}

func (d *Dispatcher) SetOnRoomCreated(fn func(RoomEvent)) {
	d.mu.Lock()
	d.onRoomCreated = fn
	d.mu.Unlock()
}

func (d *Dispatcher) SetOnRoomJoined(fn func(RoomEvent)) {
	d.mu.Lock()
	d.onRoomJoined = fn
	d.mu.Unlock()
}

func (d *Dispatcher) SetOnRoomUpdate(fn func(RoomSnapshot)) {
	d.mu.Lock()
	d.onRoomUpdate = fn
	d.mu.Unlock()
}

func (d *Dispatcher) SetOnGameStarted(fn func()) {
	d.mu.Lock()
	d.onGameStarted = fn
	d.mu.Unlock()
}

func (d *Dispatcher) SetOnGameState(fn func(GameSnapshot)) {
	d.mu.Lock()
	d.onGameState = fn
	d.mu.Unlock()
}

func (d *Dispatcher) SetOnTimeUpdate(fn func(TimeUpdate)) {
	d.mu.Lock()
	d.onTimeUpdate = fn
	d.mu.Unlock()
}

func (d *Dispatcher) SetOnGameEnded(fn func(GameEndedEvent)) {
	d.mu.Lock()
	d.onGameEnded = fn
	d.mu.Unlock()
}

func (d *Dispatcher) SetOnRoomLeft(fn func()) {
	d.mu.Lock()
	d.onRoomLeft = fn
	d.mu.Unlock()
}

func (d *Dispatcher) SetOnRoomDeleted(fn func()) {
	d.mu.Lock()
	d.onRoomDeleted = fn
	d.mu.Unlock()
}

func (d *Dispatcher) SetOnError(fn func(error)) {
	d.mu.Lock()
	d.onError = fn
	d.mu.Unlock()
}

func (d *Dispatcher) Dispatch(out Outbound) {
	if out.Type == outboundError && out.Error != nil {
		d.fireError(FromProtocolError(out.Error))
		return
	}
	switch out.Event {
	case eventRoomCreated:
		d.mu.RLock()
		fn := d.onRoomCreated
		d.mu.RUnlock()
		if fn == nil {
			return
		}
		var ev RoomEvent
		if err := UnmarshalData(out.Data, &ev); err != nil {
			d.fireError(WrapError(ErrorSerialization, "failed to unmarshal roomCreated event", err))
			return
		}
		fn(ev)
	case eventRoomJoined:
		d.mu.RLock()
		fn := d.onRoomJoined
		d.mu.RUnlock()
		if fn == nil {
			return
		}
		var ev RoomEvent
		if err := UnmarshalData(out.Data, &ev); err != nil {
			d.fireError(WrapError(ErrorSerialization, "failed to unmarshal roomJoined event", err))
			return
		}
		fn(ev)
	case eventUpdateRoom:
		d.mu.RLock()
		fn := d.onRoomUpdate
		d.mu.RUnlock()
		if fn == nil {
			return
		}
		var snap RoomSnapshot
		if err := UnmarshalData(out.Data, &snap); err != nil {
			d.fireError(WrapError(ErrorSerialization, "failed to unmarshal updateRoom event", err))
			return
		}
		fn(snap)
	case eventGameStarted:
		d.mu.RLock()
		fn := d.onGameStarted
		d.mu.RUnlock()
		if fn != nil {
			fn()
		}
	case eventGameStateUpdate:
		d.mu.RLock()
		fn := d.onGameState
		d.mu.RUnlock()
		if fn == nil {
			return
		}
		var snap GameSnapshot
		if err := UnmarshalData(out.Data, &snap); err != nil {
			d.fireError(WrapError(ErrorSerialization, "failed to unmarshal gameStateUpdate event", err))
			return
		}
		fn(snap)
	case eventTimeUpdate:
		d.mu.RLock()
		fn := d.onTimeUpdate
		d.mu.RUnlock()
		if fn == nil {
			return
		}
		var ev TimeUpdate
		if err := UnmarshalData(out.Data, &ev); err != nil {
			d.fireError(WrapError(ErrorSerialization, "failed to unmarshal timeUpdate event", err))
			return
		}
		fn(ev)
	case eventGameEnded:
		d.mu.RLock()
		fn := d.onGameEnded
		d.mu.RUnlock()
		if fn == nil {
			return
		}
		var ev GameEndedEvent
		if err := UnmarshalData(out.Data, &ev); err != nil {
			d.fireError(WrapError(ErrorSerialization, "failed to unmarshal gameEnded event", err))
			return
		}
		fn(ev)
	case eventRoomLeft:
		d.mu.RLock()
		fn := d.onRoomLeft
		d.mu.RUnlock()
		if fn != nil {
			fn()
		}
	case eventRoomDeleted:
		d.mu.RLock()
		fn := d.onRoomDeleted
		d.mu.RUnlock()
		if fn != nil {
			fn()
		}
	}
}

func (d *Dispatcher) fireError(err error) {
	d.mu.RLock()
	fn := d.onError
	d.mu.RUnlock()
	if fn != nil && err != nil {
		fn(err)
	}
}
