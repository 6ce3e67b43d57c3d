package livesync

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sensoria.xyz/data-hub/pkg/backend"
	"sensoria.xyz/data-hub/pkg/common"
	"sensoria.xyz/data-hub/pkg/models"
	"sensoria.xyz/data-hub/pkg/querycache"
	_ "sensoria.xyz/data-hub/pkg/testing"
)

type fakeHandle struct {
	name   string
	ready  chan struct{}
	errs   chan error
	closed atomic.Bool
}

func (h *fakeHandle) Name() string           { return h.name }
func (h *fakeHandle) Ready() <-chan struct{} { return h.ready }
func (h *fakeHandle) Errs() <-chan error     { return h.errs }
func (h *fakeHandle) Close() error {
	h.closed.Store(true)
	return nil
}

type fakeChannel struct {
	handle  *fakeHandle
	filter  backend.ChangeFilter
	handler backend.ChangeHandler
}

type fakeRealtime struct {
	mu       sync.Mutex
	opens    int
	failures int
	channels map[string]*fakeChannel
}

func newFakeRealtime() *fakeRealtime {
	return &fakeRealtime{channels: map[string]*fakeChannel{}}
}

func (f *fakeRealtime) OpenChangeChannel(ctx context.Context, name string, filter backend.ChangeFilter, handler backend.ChangeHandler) (backend.ChannelHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.opens++
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("connect refused")
	}

	handle := &fakeHandle{
		name:  name,
		ready: make(chan struct{}),
		errs:  make(chan error, 1),
	}
	close(handle.ready)
	f.channels[name] = &fakeChannel{handle: handle, filter: filter, handler: handler}
	return handle, nil
}

func (f *fakeRealtime) OpenPresenceChannel(ctx context.Context, name string) (backend.PresenceHandle, error) {
	return nil, errors.New("not supported")
}

func (f *fakeRealtime) CloseChannel(handle backend.ChannelHandle) error {
	if handle == nil {
		return nil
	}
	return handle.Close()
}

func (f *fakeRealtime) emit(name string, ev models.ChangeEvent) {
	f.mu.Lock()
	ch := f.channels[name]
	f.mu.Unlock()

	if ch != nil && ch.filter.Matches(ev) {
		ch.handler(ev)
	}
}

func (f *fakeRealtime) fail(name string, err error) {
	f.mu.Lock()
	ch := f.channels[name]
	f.mu.Unlock()

	ch.handle.errs <- err
}

func (f *fakeRealtime) openCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opens
}

var devicesStream = StreamDescriptor{
	Name:  "devices-changes",
	Table: models.TableDevices,
	Event: models.ChangeAll,
}

func TestBinder_EventInvalidates(t *testing.T) {
	common.SetTestLoggerNop()

	var calls int32
	fetcher := func(ctx context.Context) (any, error) {
		return int(atomic.AddInt32(&calls, 1)), nil
	}

	cache := querycache.New(querycache.DefaultRetention)
	realtime := newFakeRealtime()
	binder := NewBinder(realtime, cache)

	key := querycache.Key{"devices"}
	sub := cache.Subscribe(key, fetcher, querycache.Options{})
	defer sub.Close()

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) == 1
	}, 2*time.Second, 10*time.Millisecond)

	binding, err := binder.Bind(context.Background(), devicesStream, key)
	require.NoError(t, err)
	defer binder.Unbind(binding)

	realtime.emit("devices-changes", models.ChangeEvent{
		Schema: models.DefaultSchema,
		Table:  models.TableDevices,
		Event:  models.ChangeInsert,
	})

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestBinder_FilterScopesEvents(t *testing.T) {
	common.SetTestLoggerNop()

	var calls int32
	fetcher := func(ctx context.Context) (any, error) {
		return int(atomic.AddInt32(&calls, 1)), nil
	}

	cache := querycache.New(querycache.DefaultRetention)
	realtime := newFakeRealtime()
	binder := NewBinder(realtime, cache)

	key := querycache.Key{"latestSensorData"}
	sub := cache.Subscribe(key, fetcher, querycache.Options{})
	defer sub.Close()

	insertOnly := StreamDescriptor{
		Name:  "latest-sensor-data-changes",
		Table: models.TableSensorData,
		Event: models.ChangeInsert,
	}
	binding, err := binder.Bind(context.Background(), insertOnly, key)
	require.NoError(t, err)
	defer binder.Unbind(binding)

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// Updates and other tables never reach the insert-only stream
	realtime.emit("latest-sensor-data-changes", models.ChangeEvent{
		Schema: models.DefaultSchema,
		Table:  models.TableSensorData,
		Event:  models.ChangeUpdate,
	})
	realtime.emit("latest-sensor-data-changes", models.ChangeEvent{
		Schema: models.DefaultSchema,
		Table:  models.TableDevices,
		Event:  models.ChangeInsert,
	})

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestBinder_SharedChannelRefcount(t *testing.T) {
	common.SetTestLoggerNop()

	cache := querycache.New(querycache.DefaultRetention)
	realtime := newFakeRealtime()
	binder := NewBinder(realtime, cache)

	b1, err := binder.Bind(context.Background(), devicesStream, querycache.Key{"devices"})
	require.NoError(t, err)
	b2, err := binder.Bind(context.Background(), devicesStream, querycache.Key{"devices"})
	require.NoError(t, err)
	b3, err := binder.Bind(context.Background(), devicesStream, querycache.Key{"devices"})
	require.NoError(t, err)

	// One physical channel for three bindings
	assert.Equal(t, 1, realtime.openCount())
	assert.Equal(t, 1, binder.ChannelCount())
	assert.Equal(t, 3, binder.Refcount("devices-changes"))

	handle := realtime.channels["devices-changes"].handle

	binder.Unbind(b1)
	binder.Unbind(b2)
	assert.Equal(t, 1, binder.ChannelCount())
	assert.False(t, handle.closed.Load())

	// Last unbind closes the channel synchronously
	binder.Unbind(b3)
	assert.Equal(t, 0, binder.ChannelCount())
	assert.Equal(t, 0, binder.Refcount("devices-changes"))
	assert.True(t, handle.closed.Load())
}

func TestBinder_UnbindIdempotent(t *testing.T) {
	common.SetTestLoggerNop()

	cache := querycache.New(querycache.DefaultRetention)
	realtime := newFakeRealtime()
	binder := NewBinder(realtime, cache)

	b1, err := binder.Bind(context.Background(), devicesStream, querycache.Key{"devices"})
	require.NoError(t, err)
	b2, err := binder.Bind(context.Background(), devicesStream, querycache.Key{"devices"})
	require.NoError(t, err)

	binder.Unbind(b1)
	binder.Unbind(b1)
	binder.Unbind(nil)

	assert.Equal(t, 1, binder.Refcount("devices-changes"))
	binder.Unbind(b2)
	assert.Equal(t, 0, binder.ChannelCount())
}

func TestBinder_ReconnectInvalidatesOnce(t *testing.T) {
	common.SetTestLoggerNop()

	var calls int32
	fetcher := func(ctx context.Context) (any, error) {
		return int(atomic.AddInt32(&calls, 1)), nil
	}

	cache := querycache.New(querycache.DefaultRetention)
	realtime := newFakeRealtime()
	binder := NewBinder(realtime, cache)

	key := querycache.Key{"devices"}
	sub := cache.Subscribe(key, fetcher, querycache.Options{})
	defer sub.Close()

	binding, err := binder.Bind(context.Background(), devicesStream, key)
	require.NoError(t, err)
	defer binder.Unbind(binding)

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) == 1
	}, 2*time.Second, 10*time.Millisecond)

	failed := realtime.channels["devices-changes"].handle
	realtime.fail("devices-changes", errors.New("stream reset"))

	// The binder reopens the channel and refetches bound keys exactly once
	assert.Eventually(t, func() bool {
		return realtime.openCount() == 2 && atomic.LoadInt32(&calls) == 2
	}, 5*time.Second, 20*time.Millisecond)

	assert.True(t, failed.closed.Load())

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	// The replacement channel keeps delivering events
	realtime.emit("devices-changes", models.ChangeEvent{
		Schema: models.DefaultSchema,
		Table:  models.TableDevices,
		Event:  models.ChangeDelete,
	})
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) == 3
	}, 2*time.Second, 10*time.Millisecond)
}

func TestBinder_ReconnectBacksOffOnFailure(t *testing.T) {
	common.SetTestLoggerNop()

	cache := querycache.New(querycache.DefaultRetention)
	realtime := newFakeRealtime()
	binder := NewBinder(realtime, cache)

	binding, err := binder.Bind(context.Background(), devicesStream, querycache.Key{"devices"})
	require.NoError(t, err)
	defer binder.Unbind(binding)

	realtime.mu.Lock()
	realtime.failures = 2
	realtime.mu.Unlock()

	realtime.fail("devices-changes", errors.New("stream reset"))

	// Two refused attempts, then a successful reopen
	assert.Eventually(t, func() bool {
		return realtime.openCount() == 4
	}, 15*time.Second, 50*time.Millisecond)
}
