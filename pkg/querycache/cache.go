// Package querycache is the keyed, reference-counted cache of async query
// results behind every reader: single-flight fetches, sequence-numbered
// monotonic snapshots, prefix invalidation, optional background refetch,
// and a retention grace window after the last subscriber leaves.
package querycache

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"sensoria.xyz/data-hub/pkg/common"
)

// DefaultRetention is how long an entry without subscribers is kept before
// being discarded.
const DefaultRetention = 5 * time.Minute

// subscriptionBuffer bounds the per-subscription snapshot channel; when a
// subscriber falls behind, the oldest snapshot is dropped so the latest
// state always gets through.
const subscriptionBuffer = 16

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Key is an ordered tuple identifying one cached query, e.g.
// {"sensorData", "24"}.
type Key []string

const keySeparator = "\x1f"

func (k Key) String() string { return strings.Join(k, keySeparator) }

func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i, part := range prefix {
		if k[i] != part {
			return false
		}
	}
	return true
}

type Fetcher func(ctx context.Context) (any, error)

type Options struct {
	// RefetchInterval > 0 enables background refetch while at least one
	// subscriber is live.
	RefetchInterval time.Duration
	// StaleAfter > 0 marks delivered snapshots stale once the data is
	// older than the threshold.
	StaleAfter time.Duration
}

// Snapshot is one observed state of a cache entry. Err never evicts Data;
// a subscriber may see StatusError together with the previous data and
// IsStale true.
type Snapshot struct {
	Status    Status
	Data      any
	Err       error
	FetchedAt time.Time
	IsStale   bool
}

type Subscription struct {
	cache  *Cache
	entry  *entry
	ch     chan Snapshot
	closed bool
}

// Updates delivers state transitions in fetch-sequence order. Slow
// consumers lose intermediate snapshots, never the latest one.
func (s *Subscription) Updates() <-chan Snapshot { return s.ch }

func (s *Subscription) Close() {
	s.cache.unsubscribe(s)
}

type entry struct {
	key     Key
	fetcher Fetcher
	opts    Options

	status    Status
	data      any
	err       error
	fetchedAt time.Time
	stale     bool

	subs map[*Subscription]struct{}

	// nextSeq starts at 1; a fetch applies only when its seq is above
	// appliedSeq, so the zero appliedSeq never outranks the first fetch.
	nextSeq       uint64
	appliedSeq    uint64
	inFlight      bool
	pendingReload bool

	refetchTimer *time.Timer
	retireTimer  *time.Timer
}

type Cache struct {
	mu        sync.Mutex
	entries   map[string]*entry
	retention time.Duration
	logger    *zap.Logger
}

func New(retention time.Duration) *Cache {
	return &Cache{
		entries:   map[string]*entry{},
		retention: retention,
		logger:    common.GetLoggerWith(common.LoggerNameQueryCache),
	}
}

// Subscribe registers a subscriber for key and returns its handle. The
// current snapshot is delivered immediately; a fetch starts unless fresh
// data is already present or one is in flight.
func (c *Cache) Subscribe(key Key, fetcher Fetcher, opts Options) *Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key.String()]
	if !ok {
		e = &entry{
			key:     key,
			fetcher: fetcher,
			opts:    opts,
			status:  StatusIdle,
			subs:    map[*Subscription]struct{}{},
			nextSeq: 1,
		}
		c.entries[key.String()] = e
	} else {
		e.fetcher = fetcher
		if e.retireTimer != nil {
			e.retireTimer.Stop()
			e.retireTimer = nil
		}
	}

	sub := &Subscription{
		cache: c,
		entry: e,
		ch:    make(chan Snapshot, subscriptionBuffer),
	}
	e.subs[sub] = struct{}{}

	snap := c.snapshotLocked(e)
	deliver(sub, snap)

	if e.status == StatusIdle || e.status == StatusError || snap.IsStale {
		c.startFetchLocked(e)
	}
	c.scheduleRefetchLocked(e)

	return sub
}

func (c *Cache) unsubscribe(sub *Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if sub.closed {
		return
	}
	sub.closed = true

	e := sub.entry
	delete(e.subs, sub)

	if len(e.subs) == 0 {
		if e.refetchTimer != nil {
			e.refetchTimer.Stop()
			e.refetchTimer = nil
		}
		key := e.key.String()
		e.retireTimer = time.AfterFunc(c.retention, func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if cur, ok := c.entries[key]; ok && len(cur.subs) == 0 {
				delete(c.entries, key)
			}
		})
	}
}

// Invalidate marks every entry whose key starts with prefix as stale.
// Entries with live subscribers refetch; an entry already fetching gets at
// most one trailing refetch no matter how many invalidations arrive.
func (c *Cache) Invalidate(prefix Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.entries {
		if !e.key.HasPrefix(prefix) {
			continue
		}
		e.stale = true
		if len(e.subs) == 0 {
			continue
		}
		if e.inFlight {
			e.pendingReload = true
			continue
		}
		c.startFetchLocked(e)
	}
}

// SetData overwrites an entry without a network round-trip. Any in-flight
// fetch for the entry is dropped on arrival.
func (c *Cache) SetData(key Key, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key.String()]
	if !ok {
		e = &entry{
			key:     key,
			status:  StatusIdle,
			subs:    map[*Subscription]struct{}{},
			nextSeq: 1,
		}
		c.entries[key.String()] = e
	}

	e.appliedSeq = e.nextSeq
	e.nextSeq++
	e.status = StatusSuccess
	e.data = value
	e.err = nil
	e.fetchedAt = time.Now()
	e.stale = false

	c.broadcastLocked(e)
}

// Peek returns the current snapshot for key without subscribing.
func (c *Cache) Peek(key Key) (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key.String()]
	if !ok {
		return Snapshot{}, false
	}
	return c.snapshotLocked(e), true
}

// Len reports the number of retained entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) snapshotLocked(e *entry) Snapshot {
	stale := e.stale
	if !stale && e.opts.StaleAfter > 0 && !e.fetchedAt.IsZero() {
		stale = time.Since(e.fetchedAt) > e.opts.StaleAfter
	}
	return Snapshot{
		Status:    e.status,
		Data:      e.data,
		Err:       e.err,
		FetchedAt: e.fetchedAt,
		IsStale:   stale,
	}
}

func deliver(sub *Subscription, snap Snapshot) {
	for {
		select {
		case sub.ch <- snap:
			return
		default:
		}
		select {
		case <-sub.ch:
		default:
		}
	}
}

func (c *Cache) broadcastLocked(e *entry) {
	snap := c.snapshotLocked(e)
	for sub := range e.subs {
		deliver(sub, snap)
	}
}

func (c *Cache) startFetchLocked(e *entry) {
	if e.inFlight || e.fetcher == nil {
		return
	}
	e.inFlight = true
	e.status = StatusLoading
	if e.refetchTimer != nil {
		e.refetchTimer.Stop()
		e.refetchTimer = nil
	}
	seq := e.nextSeq
	e.nextSeq++

	c.broadcastLocked(e)

	fetcher := e.fetcher
	go func() {
		value, err := fetcher(context.Background())

		c.mu.Lock()
		defer c.mu.Unlock()

		e.inFlight = false

		if seq > e.appliedSeq {
			e.appliedSeq = seq
			if err != nil {
				// Errors never evict data; the previous value stays
				// readable behind the stale flag.
				e.status = StatusError
				e.err = err
				e.stale = e.data != nil
				c.logger.Warn("Fetch failed",
					zap.String("key", strings.Join(e.key, "/")),
					zap.Error(err),
				)
			} else {
				e.status = StatusSuccess
				e.data = value
				e.err = nil
				e.fetchedAt = time.Now()
				e.stale = false
			}
			c.broadcastLocked(e)
		}

		if e.pendingReload {
			e.pendingReload = false
			if len(e.subs) > 0 {
				c.startFetchLocked(e)
				return
			}
		}
		c.scheduleRefetchLocked(e)
	}()
}

func (c *Cache) scheduleRefetchLocked(e *entry) {
	if e.opts.RefetchInterval <= 0 || e.inFlight || len(e.subs) == 0 || e.refetchTimer != nil {
		return
	}
	key := e.key.String()
	e.refetchTimer = time.AfterFunc(e.opts.RefetchInterval, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		cur, ok := c.entries[key]
		if !ok {
			return
		}
		cur.refetchTimer = nil
		if len(cur.subs) == 0 || cur.inFlight {
			return
		}
		c.startFetchLocked(cur)
	})
}
