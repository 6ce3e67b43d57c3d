package backend

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"sensoria.xyz/data-hub/pkg/common"
	"sensoria.xyz/data-hub/pkg/models"
)

// Broker is the in-process Realtime used by local mode and tests. Publish
// invokes matching handlers synchronously, so invalidations triggered by
// one event always complete before the next event is delivered.
type Broker struct {
	mu        sync.Mutex
	publishMu sync.Mutex
	logger    *zap.Logger
	channels  []*brokerChannelHandle
	rooms     map[string]*presenceRoom
}

func NewBroker() *Broker {
	return &Broker{
		logger: common.GetLoggerWith(common.LoggerNameBackendLocal),
		rooms:  map[string]*presenceRoom{},
	}
}

type brokerChannelHandle struct {
	broker  *Broker
	name    string
	filter  ChangeFilter
	handler ChangeHandler
	ready   chan struct{}
	errs    chan error
	once    sync.Once
}

func (h *brokerChannelHandle) Name() string           { return h.name }
func (h *brokerChannelHandle) Ready() <-chan struct{} { return h.ready }
func (h *brokerChannelHandle) Errs() <-chan error     { return h.errs }

func (h *brokerChannelHandle) Close() error {
	h.once.Do(func() {
		h.broker.mu.Lock()
		defer h.broker.mu.Unlock()
		for i, c := range h.broker.channels {
			if c == h {
				h.broker.channels = append(h.broker.channels[:i], h.broker.channels[i+1:]...)
				break
			}
		}
	})
	return nil
}

func (b *Broker) OpenChangeChannel(ctx context.Context, name string, filter ChangeFilter, handler ChangeHandler) (ChannelHandle, error) {
	handle := &brokerChannelHandle{
		broker:  b,
		name:    name,
		filter:  filter,
		handler: handler,
		ready:   make(chan struct{}),
		errs:    make(chan error, 1),
	}
	close(handle.ready)

	b.mu.Lock()
	b.channels = append(b.channels, handle)
	b.mu.Unlock()

	return handle, nil
}

func (b *Broker) CloseChannel(handle ChannelHandle) error {
	if handle == nil {
		return nil
	}
	return handle.Close()
}

// Publish delivers one change event to every subscribed channel.
func (b *Broker) Publish(ev models.ChangeEvent) {
	b.publishMu.Lock()
	defer b.publishMu.Unlock()

	b.mu.Lock()
	targets := make([]*brokerChannelHandle, 0, len(b.channels))
	for _, c := range b.channels {
		if c.filter.Matches(ev) {
			targets = append(targets, c)
		}
	}
	b.mu.Unlock()

	for _, c := range targets {
		c.handler(ev)
	}
}

type presenceRoom struct {
	mu      sync.Mutex
	members models.PresenceState
	handles []*brokerPresenceHandle
}

func (r *presenceRoom) snapshot() models.PresenceState {
	state := models.PresenceState{}
	for id, meta := range r.members {
		state[id] = meta
	}
	return state
}

type brokerPresenceHandle struct {
	room     *presenceRoom
	ready    chan struct{}
	mu       sync.Mutex
	syncFns  []func(models.PresenceState)
	joinFns  []func(string, models.PresenceMeta)
	leaveFns []func(string)
	viewerID string
	once     sync.Once
}

func (h *brokerPresenceHandle) Ready() <-chan struct{} { return h.ready }

func (h *brokerPresenceHandle) OnSync(fn func(models.PresenceState)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.syncFns = append(h.syncFns, fn)
}

func (h *brokerPresenceHandle) OnJoin(fn func(string, models.PresenceMeta)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.joinFns = append(h.joinFns, fn)
}

func (h *brokerPresenceHandle) OnLeave(fn func(string)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveFns = append(h.leaveFns, fn)
}

func (h *brokerPresenceHandle) Track(viewerID string, meta models.PresenceMeta) error {
	r := h.room

	r.mu.Lock()
	r.members[viewerID] = meta
	handles := append([]*brokerPresenceHandle{}, r.handles...)
	state := r.snapshot()
	r.mu.Unlock()

	h.mu.Lock()
	h.viewerID = viewerID
	h.mu.Unlock()

	for _, other := range handles {
		other.fireJoin(viewerID, meta)
		other.fireSync(state)
	}
	return nil
}

func (h *brokerPresenceHandle) fireSync(state models.PresenceState) {
	h.mu.Lock()
	fns := append([]func(models.PresenceState){}, h.syncFns...)
	h.mu.Unlock()
	for _, fn := range fns {
		fn(state)
	}
}

func (h *brokerPresenceHandle) fireJoin(viewerID string, meta models.PresenceMeta) {
	h.mu.Lock()
	fns := append([]func(string, models.PresenceMeta){}, h.joinFns...)
	h.mu.Unlock()
	for _, fn := range fns {
		fn(viewerID, meta)
	}
}

func (h *brokerPresenceHandle) fireLeave(viewerID string) {
	h.mu.Lock()
	fns := append([]func(string){}, h.leaveFns...)
	h.mu.Unlock()
	for _, fn := range fns {
		fn(viewerID)
	}
}

func (h *brokerPresenceHandle) Close() error {
	h.once.Do(func() {
		r := h.room

		h.mu.Lock()
		viewerID := h.viewerID
		h.mu.Unlock()

		r.mu.Lock()
		if viewerID != "" {
			delete(r.members, viewerID)
		}
		for i, other := range r.handles {
			if other == h {
				r.handles = append(r.handles[:i], r.handles[i+1:]...)
				break
			}
		}
		handles := append([]*brokerPresenceHandle{}, r.handles...)
		state := r.snapshot()
		r.mu.Unlock()

		if viewerID != "" {
			for _, other := range handles {
				other.fireLeave(viewerID)
				other.fireSync(state)
			}
		}
	})
	return nil
}

func (b *Broker) OpenPresenceChannel(ctx context.Context, name string) (PresenceHandle, error) {
	b.mu.Lock()
	room, ok := b.rooms[name]
	if !ok {
		room = &presenceRoom{members: models.PresenceState{}}
		b.rooms[name] = room
	}
	b.mu.Unlock()

	handle := &brokerPresenceHandle{
		room:  room,
		ready: make(chan struct{}),
	}
	close(handle.ready)

	room.mu.Lock()
	room.handles = append(room.handles, handle)
	room.mu.Unlock()

	return handle, nil
}
