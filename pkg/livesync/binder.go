// Package livesync couples the query cache to the backend's push
// channels: the Binder turns row events into cache invalidations, the
// PresenceTracker mirrors who is watching the dashboard.
package livesync

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
	"sensoria.xyz/data-hub/pkg/backend"
	"sensoria.xyz/data-hub/pkg/common"
	"sensoria.xyz/data-hub/pkg/models"
	"sensoria.xyz/data-hub/pkg/querycache"
)

const (
	reconnectBase = 1 * time.Second
	reconnectCap  = 30 * time.Second
)

// StreamDescriptor names one logical change stream. Name identifies the
// shared channel; Table/Event select the rows it carries.
type StreamDescriptor struct {
	Name   string
	Schema string
	Table  string
	Event  models.ChangeType
}

func (d StreamDescriptor) filter() backend.ChangeFilter {
	schema := d.Schema
	if schema == "" {
		schema = models.DefaultSchema
	}
	return backend.ChangeFilter{Schema: schema, Table: d.Table, Event: d.Event}
}

// Binding is one registered association between a stream and a set of
// cache keys to invalidate on its events.
type Binding struct {
	binder  *Binder
	channel *sharedChannel
	keys    []querycache.Key
	closed  bool
}

type sharedChannel struct {
	desc     StreamDescriptor
	handle   backend.ChannelHandle
	refs     int
	bindings map[*Binding]struct{}
	done     chan struct{}
}

// Binder maintains exactly one open change channel per stream descriptor,
// shared by every binding that references it. The channel is a pure
// invalidation signal: event payloads are never patched into the cache.
type Binder struct {
	mu       sync.Mutex
	realtime backend.Realtime
	cache    *querycache.Cache
	logger   *zap.Logger
	channels map[string]*sharedChannel
}

func NewBinder(realtime backend.Realtime, cache *querycache.Cache) *Binder {
	return &Binder{
		realtime: realtime,
		cache:    cache,
		logger:   common.GetLoggerWith(common.LoggerNameLiveSync),
		channels: map[string]*sharedChannel{},
	}
}

// Bind registers keys for invalidation on desc's events, opening the
// channel if this is the first binding for it.
func (b *Binder) Bind(ctx context.Context, desc StreamDescriptor, keys ...querycache.Key) (*Binding, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch, ok := b.channels[desc.Name]
	if !ok {
		ch = &sharedChannel{
			desc:     desc,
			bindings: map[*Binding]struct{}{},
			done:     make(chan struct{}),
		}

		handle, err := b.realtime.OpenChangeChannel(ctx, desc.Name, desc.filter(), func(ev models.ChangeEvent) {
			b.invalidateAll(ch)
		})
		if err != nil {
			return nil, err
		}
		ch.handle = handle
		b.channels[desc.Name] = ch

		go b.watch(ch)

		b.logger.Info("Opened shared channel", zap.String("channel", desc.Name))
	}

	binding := &Binding{binder: b, channel: ch, keys: keys}
	ch.refs++
	ch.bindings[binding] = struct{}{}

	return binding, nil
}

// Unbind releases the binding; the last release closes the channel.
func (b *Binder) Unbind(binding *Binding) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if binding == nil || binding.closed {
		return
	}
	binding.closed = true

	ch := binding.channel
	delete(ch.bindings, binding)
	ch.refs--

	if ch.refs == 0 {
		close(ch.done)
		_ = b.realtime.CloseChannel(ch.handle)
		delete(b.channels, ch.desc.Name)
		b.logger.Info("Closed shared channel", zap.String("channel", ch.desc.Name))
	}
}

// ChannelCount reports the number of open shared channels.
func (b *Binder) ChannelCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.channels)
}

// Refcount reports the live binding count for a stream, 0 when closed.
func (b *Binder) Refcount(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.channels[name]; ok {
		return ch.refs
	}
	return 0
}

func (b *Binder) invalidateAll(ch *sharedChannel) {
	b.mu.Lock()
	keys := map[string]querycache.Key{}
	for binding := range ch.bindings {
		for _, k := range binding.keys {
			keys[k.String()] = k
		}
	}
	b.mu.Unlock()

	for _, k := range keys {
		b.cache.Invalidate(k)
	}
}

// watch handles channel failure: reconnect with exponential backoff and
// full jitter, then invalidate every bound key once since events may have
// been missed while disconnected.
func (b *Binder) watch(ch *sharedChannel) {
	for {
		b.mu.Lock()
		handle := ch.handle
		b.mu.Unlock()

		select {
		case <-ch.done:
			return
		case err := <-handle.Errs():
			b.logger.Warn("Change channel failed, reconnecting",
				zap.String("channel", ch.desc.Name),
				zap.Error(err),
			)
			_ = handle.Close()
		}

		backoff := reconnectBase
		for {
			sleep := time.Duration(rand.Int63n(int64(backoff) + 1))
			select {
			case <-ch.done:
				return
			case <-time.After(sleep):
			}

			newHandle, err := b.realtime.OpenChangeChannel(context.Background(), ch.desc.Name, ch.desc.filter(), func(ev models.ChangeEvent) {
				b.invalidateAll(ch)
			})
			if err == nil {
				b.mu.Lock()
				ch.handle = newHandle
				b.mu.Unlock()

				b.logger.Info("Change channel re-established", zap.String("channel", ch.desc.Name))
				b.invalidateAll(ch)
				break
			}

			b.logger.Warn("Reconnect attempt failed",
				zap.String("channel", ch.desc.Name),
				zap.Duration("backoff", backoff),
				zap.Error(err),
			)
			backoff *= 2
			if backoff > reconnectCap {
				backoff = reconnectCap
			}
		}
	}
}
