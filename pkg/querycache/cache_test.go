package querycache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sensoria.xyz/data-hub/pkg/common"
	_ "sensoria.xyz/data-hub/pkg/testing"
)

func nextSnapshot(t *testing.T, sub *Subscription) Snapshot {
	t.Helper()
	select {
	case snap := <-sub.Updates():
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return Snapshot{}
	}
}

func waitStatus(t *testing.T, sub *Subscription, status Status) Snapshot {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap := <-sub.Updates():
			if snap.Status == status {
				return snap
			}
		case <-deadline:
			t.Fatalf("timed out waiting for status %v", status)
		}
	}
}

func TestKeyPrefix(t *testing.T) {
	assert.True(t, Key{"sensorData", "24"}.HasPrefix(Key{"sensorData"}))
	assert.True(t, Key{"sensorData", "24"}.HasPrefix(Key{"sensorData", "24"}))
	assert.False(t, Key{"sensorData", "24"}.HasPrefix(Key{"sensorData", "48"}))
	assert.False(t, Key{"sensorData"}.HasPrefix(Key{"sensorData", "24"}))
	assert.False(t, Key{"latestSensorData"}.HasPrefix(Key{"sensorData"}))
}

func TestSubscribe_FreshEntryFetchApplies(t *testing.T) {
	common.SetTestLoggerNop()

	c := New(DefaultRetention)

	// The very first fetch of a brand-new entry must land: idle, loading,
	// then success carrying the fetched data.
	sub := c.Subscribe(Key{"devices"}, func(ctx context.Context) (any, error) {
		return "v1", nil
	}, Options{})
	defer sub.Close()

	snap := waitStatus(t, sub, StatusSuccess)
	assert.Equal(t, "v1", snap.Data)
	assert.False(t, snap.IsStale)
	assert.NoError(t, snap.Err)
}

func TestSubscribe_SingleFlight(t *testing.T) {
	common.SetTestLoggerNop()

	var calls int32
	release := make(chan struct{})
	fetcher := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "payload", nil
	}

	c := New(DefaultRetention)
	key := Key{"devices"}

	sub1 := c.Subscribe(key, fetcher, Options{})
	defer sub1.Close()
	sub2 := c.Subscribe(key, fetcher, Options{})
	defer sub2.Close()
	sub3 := c.Subscribe(key, fetcher, Options{})
	defer sub3.Close()

	close(release)

	for _, sub := range []*Subscription{sub1, sub2, sub3} {
		snap := waitStatus(t, sub, StatusSuccess)
		assert.Equal(t, "payload", snap.Data)
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSetData_DropsStaleResponse(t *testing.T) {
	common.SetTestLoggerNop()

	release := make(chan struct{})
	fetcher := func(ctx context.Context) (any, error) {
		<-release
		return "old", nil
	}

	c := New(DefaultRetention)
	key := Key{"devices"}

	sub := c.Subscribe(key, fetcher, Options{})
	defer sub.Close()
	waitStatus(t, sub, StatusLoading)

	// Local write wins while the fetch is still in flight
	c.SetData(key, "fresh")
	snap := waitStatus(t, sub, StatusSuccess)
	assert.Equal(t, "fresh", snap.Data)

	close(release)
	time.Sleep(100 * time.Millisecond)

	// The late response must not roll visible state backwards
	snap, ok := c.Peek(key)
	require.True(t, ok)
	assert.Equal(t, "fresh", snap.Data)
	assert.Equal(t, StatusSuccess, snap.Status)
}

func TestInvalidate_BurstCoalesces(t *testing.T) {
	common.SetTestLoggerNop()

	var calls int32
	releases := make(chan struct{}, 16)
	fetcher := func(ctx context.Context) (any, error) {
		n := atomic.AddInt32(&calls, 1)
		<-releases
		return int(n), nil
	}

	c := New(DefaultRetention)
	key := Key{"devices"}

	sub := c.Subscribe(key, fetcher, Options{})
	defer sub.Close()

	releases <- struct{}{}
	waitStatus(t, sub, StatusSuccess)

	// A burst of invalidations while idle: one fetch starts right away,
	// the rest collapse into a single trailing refetch.
	for i := 0; i < 10; i++ {
		c.Invalidate(key)
	}

	releases <- struct{}{}
	releases <- struct{}{}

	assert.Eventually(t, func() bool {
		snap, ok := c.Peek(key)
		return ok && snap.Status == StatusSuccess && !snap.IsStale
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestInvalidate_NoSubscribersNoFetch(t *testing.T) {
	common.SetTestLoggerNop()

	var calls int32
	fetcher := func(ctx context.Context) (any, error) {
		return int(atomic.AddInt32(&calls, 1)), nil
	}

	c := New(DefaultRetention)
	key := Key{"devices"}

	sub := c.Subscribe(key, fetcher, Options{})
	waitStatus(t, sub, StatusSuccess)
	sub.Close()

	c.Invalidate(key)
	time.Sleep(100 * time.Millisecond)

	// Marked stale but not refetched without subscribers
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	snap, ok := c.Peek(key)
	require.True(t, ok)
	assert.True(t, snap.IsStale)
}

func TestRetentionGraceWindow(t *testing.T) {
	common.SetTestLoggerNop()

	var calls int32
	fetcher := func(ctx context.Context) (any, error) {
		return int(atomic.AddInt32(&calls, 1)), nil
	}

	c := New(200 * time.Millisecond)
	key := Key{"devices"}

	sub := c.Subscribe(key, fetcher, Options{})
	waitStatus(t, sub, StatusSuccess)
	sub.Close()

	assert.Equal(t, 1, c.Len())

	// Within the grace window the retained data is served immediately
	sub2 := c.Subscribe(key, fetcher, Options{})
	snap := nextSnapshot(t, sub2)
	assert.Equal(t, StatusSuccess, snap.Status)
	assert.Equal(t, 1, snap.Data)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	sub2.Close()

	// After the grace window the entry is discarded
	assert.Eventually(t, func() bool {
		return c.Len() == 0
	}, 2*time.Second, 20*time.Millisecond)
}

func TestErrorKeepsPreviousData(t *testing.T) {
	common.SetTestLoggerNop()

	var fail atomic.Bool
	fetcher := func(ctx context.Context) (any, error) {
		if fail.Load() {
			return nil, errors.New("backend down")
		}
		return "v1", nil
	}

	c := New(DefaultRetention)
	key := Key{"devices"}

	sub := c.Subscribe(key, fetcher, Options{})
	defer sub.Close()
	waitStatus(t, sub, StatusSuccess)

	fail.Store(true)
	c.Invalidate(key)

	snap := waitStatus(t, sub, StatusError)
	assert.Equal(t, "v1", snap.Data)
	assert.True(t, snap.IsStale)
	assert.EqualError(t, snap.Err, "backend down")
}

func TestRefetchInterval(t *testing.T) {
	common.SetTestLoggerNop()

	var calls int32
	fetcher := func(ctx context.Context) (any, error) {
		return int(atomic.AddInt32(&calls, 1)), nil
	}

	c := New(DefaultRetention)
	key := Key{"sensorData", "24"}

	sub := c.Subscribe(key, fetcher, Options{RefetchInterval: 50 * time.Millisecond})

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) >= 3
	}, 2*time.Second, 10*time.Millisecond)

	sub.Close()
	settled := atomic.LoadInt32(&calls)
	time.Sleep(300 * time.Millisecond)

	// No background refetch without subscribers; allow one fetch that was
	// already in flight at close
	assert.LessOrEqual(t, atomic.LoadInt32(&calls), settled+1)
}

func TestInvalidate_PrefixScoping(t *testing.T) {
	common.SetTestLoggerNop()

	var windowCalls, latestCalls int32
	windowFetcher := func(ctx context.Context) (any, error) {
		return int(atomic.AddInt32(&windowCalls, 1)), nil
	}
	latestFetcher := func(ctx context.Context) (any, error) {
		return int(atomic.AddInt32(&latestCalls, 1)), nil
	}

	c := New(DefaultRetention)

	windowSub := c.Subscribe(Key{"sensorData", "24"}, windowFetcher, Options{})
	defer windowSub.Close()
	latestSub := c.Subscribe(Key{"latestSensorData"}, latestFetcher, Options{})
	defer latestSub.Close()

	waitStatus(t, windowSub, StatusSuccess)
	waitStatus(t, latestSub, StatusSuccess)

	c.Invalidate(Key{"sensorData"})

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&windowCalls) == 2
	}, 2*time.Second, 10*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&latestCalls))
}

func TestSlowSubscriberSeesLatest(t *testing.T) {
	common.SetTestLoggerNop()

	c := New(DefaultRetention)
	key := Key{"devices"}

	sub := c.Subscribe(key, nil, Options{})
	defer sub.Close()

	// Push far more snapshots than the channel buffers without reading
	for i := 0; i < 40; i++ {
		c.SetData(key, i)
	}

	var last Snapshot
drain:
	for {
		select {
		case snap := <-sub.Updates():
			last = snap
		default:
			break drain
		}
	}

	assert.Equal(t, 39, last.Data)
}

func TestStaleAfterThreshold(t *testing.T) {
	common.SetTestLoggerNop()

	fetcher := func(ctx context.Context) (any, error) {
		return "v1", nil
	}

	c := New(DefaultRetention)
	key := Key{"devices"}

	sub := c.Subscribe(key, fetcher, Options{StaleAfter: 50 * time.Millisecond})
	snap := waitStatus(t, sub, StatusSuccess)
	assert.False(t, snap.IsStale)
	sub.Close()

	time.Sleep(100 * time.Millisecond)

	// Staleness is judged at delivery time, not at fetch time
	snap, ok := c.Peek(key)
	require.True(t, ok)
	assert.True(t, snap.IsStale)
}
