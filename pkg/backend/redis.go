package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"sensoria.xyz/data-hub/pkg/common"
	"sensoria.xyz/data-hub/pkg/models"
)

const (
	changeTopicPrefix = "sensoria:changes:"
	presenceKeyPrefix = "sensoria:presence:"

	presenceTTL       = 30 * time.Second
	presenceHeartbeat = 10 * time.Second
)

// RedisRealtime carries the backend change feed and presence channels over
// redis. Row events arrive as JSON on one pub/sub topic per table;
// presence liveness is a sorted set scored by heartbeat time plus a
// join/leave topic.
type RedisRealtime struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisRealtime(client *redis.Client) *RedisRealtime {
	return &RedisRealtime{
		client: client,
		logger: common.GetLoggerWith(common.LoggerNameBackendRedis),
	}
}

func changeTopic(filter ChangeFilter) string {
	schema := filter.Schema
	if schema == "" {
		schema = models.DefaultSchema
	}
	return fmt.Sprintf("%s%s.%s", changeTopicPrefix, schema, filter.Table)
}

type redisChannelHandle struct {
	name   string
	pubsub *redis.PubSub
	ready  chan struct{}
	errs   chan error
	closed atomic.Bool
	once   sync.Once
}

func (h *redisChannelHandle) Name() string           { return h.name }
func (h *redisChannelHandle) Ready() <-chan struct{} { return h.ready }
func (h *redisChannelHandle) Errs() <-chan error     { return h.errs }

func (h *redisChannelHandle) Close() error {
	h.once.Do(func() {
		h.closed.Store(true)
		_ = h.pubsub.Close()
	})
	return nil
}

func (rt *RedisRealtime) OpenChangeChannel(ctx context.Context, name string, filter ChangeFilter, handler ChangeHandler) (ChannelHandle, error) {
	topic := changeTopic(filter)
	pubsub := rt.client.Subscribe(ctx, topic)

	// Receive blocks until the server acknowledges the subscription.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, &SubscriptionError{Channel: name, Err: err}
	}

	handle := &redisChannelHandle{
		name:   name,
		pubsub: pubsub,
		ready:  make(chan struct{}),
		errs:   make(chan error, 1),
	}
	close(handle.ready)

	rt.logger.Info("Opened change channel",
		zap.String("channel", name),
		zap.String("topic", topic),
	)

	go func() {
		for msg := range pubsub.Channel() {
			var ev models.ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				rt.logger.Warn("Dropping malformed change event",
					zap.String("channel", name),
					zap.Error(err),
				)
				continue
			}
			if filter.Matches(ev) {
				handler(ev)
			}
		}
		if !handle.closed.Load() {
			handle.errs <- &SubscriptionError{Channel: name, Err: fmt.Errorf("change stream ended")}
		}
	}()

	return handle, nil
}

func (rt *RedisRealtime) CloseChannel(handle ChannelHandle) error {
	if handle == nil {
		return nil
	}
	return handle.Close()
}

type presenceEventMsg struct {
	Event    string    `json:"event"`
	ViewerID string    `json:"viewer_id"`
	OnlineAt time.Time `json:"online_at"`
}

type redisPresenceHandle struct {
	rt      *RedisRealtime
	name    string
	zsetKey string
	metaKey string
	topic   string
	pubsub  *redis.PubSub
	ready   chan struct{}

	mu       sync.Mutex
	syncFns  []func(models.PresenceState)
	joinFns  []func(string, models.PresenceMeta)
	leaveFns []func(string)
	viewerID string

	closed        atomic.Bool
	once          sync.Once
	stopHeartbeat chan struct{}
}

func (h *redisPresenceHandle) Ready() <-chan struct{} { return h.ready }

func (h *redisPresenceHandle) OnSync(fn func(models.PresenceState)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.syncFns = append(h.syncFns, fn)
}

func (h *redisPresenceHandle) OnJoin(fn func(string, models.PresenceMeta)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.joinFns = append(h.joinFns, fn)
}

func (h *redisPresenceHandle) OnLeave(fn func(string)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveFns = append(h.leaveFns, fn)
}

func (h *redisPresenceHandle) fetchState(ctx context.Context) (models.PresenceState, error) {
	cutoff := float64(time.Now().Add(-presenceTTL).UnixMilli())
	if err := h.rt.client.ZRemRangeByScore(ctx, h.zsetKey, "-inf", fmt.Sprint(cutoff)).Err(); err != nil {
		return nil, err
	}

	members, err := h.rt.client.ZRange(ctx, h.zsetKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	state := models.PresenceState{}
	if len(members) == 0 {
		return state, nil
	}

	metas, err := h.rt.client.HMGet(ctx, h.metaKey, members...).Result()
	if err != nil {
		return nil, err
	}
	for i, member := range members {
		var meta models.PresenceMeta
		if raw, ok := metas[i].(string); ok {
			_ = json.Unmarshal([]byte(raw), &meta)
		}
		state[member] = meta
	}
	return state, nil
}

func (h *redisPresenceHandle) fireSync(state models.PresenceState) {
	h.mu.Lock()
	fns := append([]func(models.PresenceState){}, h.syncFns...)
	h.mu.Unlock()
	for _, fn := range fns {
		fn(state)
	}
}

func (h *redisPresenceHandle) Track(viewerID string, meta models.PresenceMeta) error {
	ctx := context.Background()

	rawMeta, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	msg, err := json.Marshal(presenceEventMsg{Event: "join", ViewerID: viewerID, OnlineAt: meta.OnlineAt})
	if err != nil {
		return err
	}

	pipe := h.rt.client.TxPipeline()
	pipe.ZAdd(ctx, h.zsetKey, &redis.Z{Score: float64(time.Now().UnixMilli()), Member: viewerID})
	pipe.HSet(ctx, h.metaKey, viewerID, string(rawMeta))
	pipe.Publish(ctx, h.topic, string(msg))
	if _, err := pipe.Exec(ctx); err != nil {
		return &SubscriptionError{Channel: h.name, Err: err}
	}

	h.mu.Lock()
	h.viewerID = viewerID
	h.mu.Unlock()

	// First sync fires here rather than on subscribe, after the caller has
	// had a chance to register its callbacks.
	if state, err := h.fetchState(ctx); err == nil {
		h.fireSync(state)
	}

	go func() {
		ticker := time.NewTicker(presenceHeartbeat)
		defer ticker.Stop()
		for {
			select {
			case <-h.stopHeartbeat:
				return
			case <-ticker.C:
				err := h.rt.client.ZAdd(context.Background(), h.zsetKey,
					&redis.Z{Score: float64(time.Now().UnixMilli()), Member: viewerID}).Err()
				if err != nil {
					h.rt.logger.Warn("Presence heartbeat failed",
						zap.String("channel", h.name),
						zap.Error(err),
					)
				}
			}
		}
	}()

	return nil
}

func (h *redisPresenceHandle) Close() error {
	h.once.Do(func() {
		h.closed.Store(true)
		close(h.stopHeartbeat)

		h.mu.Lock()
		viewerID := h.viewerID
		h.mu.Unlock()

		if viewerID != "" {
			ctx := context.Background()
			msg, _ := json.Marshal(presenceEventMsg{Event: "leave", ViewerID: viewerID})
			pipe := h.rt.client.TxPipeline()
			pipe.ZRem(ctx, h.zsetKey, viewerID)
			pipe.HDel(ctx, h.metaKey, viewerID)
			pipe.Publish(ctx, h.topic, string(msg))
			_, _ = pipe.Exec(ctx)
		}

		_ = h.pubsub.Close()
	})
	return nil
}

func (rt *RedisRealtime) OpenPresenceChannel(ctx context.Context, name string) (PresenceHandle, error) {
	handle := &redisPresenceHandle{
		rt:            rt,
		name:          name,
		zsetKey:       presenceKeyPrefix + name,
		metaKey:       presenceKeyPrefix + name + ":meta",
		topic:         presenceKeyPrefix + name + ":events",
		ready:         make(chan struct{}),
		stopHeartbeat: make(chan struct{}),
	}

	handle.pubsub = rt.client.Subscribe(ctx, handle.topic)
	if _, err := handle.pubsub.Receive(ctx); err != nil {
		_ = handle.pubsub.Close()
		return nil, &SubscriptionError{Channel: name, Err: err}
	}
	close(handle.ready)

	rt.logger.Info("Opened presence channel", zap.String("channel", name))

	go func() {
		for msg := range handle.pubsub.Channel() {
			var ev presenceEventMsg
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				continue
			}

			handle.mu.Lock()
			joinFns := append([]func(string, models.PresenceMeta){}, handle.joinFns...)
			leaveFns := append([]func(string){}, handle.leaveFns...)
			handle.mu.Unlock()

			switch ev.Event {
			case "join":
				for _, fn := range joinFns {
					fn(ev.ViewerID, models.PresenceMeta{OnlineAt: ev.OnlineAt})
				}
			case "leave":
				for _, fn := range leaveFns {
					fn(ev.ViewerID)
				}
			}

			if state, err := handle.fetchState(context.Background()); err == nil {
				handle.fireSync(state)
			}
		}
	}()

	return handle, nil
}
