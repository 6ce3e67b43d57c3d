// Package backend is the typed facade over the hosted data service: table
// reads and writes through Store, change-data and presence channels through
// Realtime. Three Store/Realtime pairs exist: REST+redis against the hosted
// backend, gorm+in-process broker for local development, and generated
// mocks for tests.
package backend

import (
	"context"

	"sensoria.xyz/data-hub/pkg/models"
)

// Row is a raw backend row. The view adapters own coercion of the dynamic
// values; nothing above the adapters should touch a Row directly.
type Row = map[string]any

type FilterOp string

const (
	OpEq  FilterOp = "eq"
	OpGte FilterOp = "gte"
)

type Filter struct {
	Column string
	Op     FilterOp
	Value  any
}

func Eq(column string, value any) Filter  { return Filter{Column: column, Op: OpEq, Value: value} }
func Gte(column string, value any) Filter { return Filter{Column: column, Op: OpGte, Value: value} }

type Order struct {
	Column     string
	Descending bool
}

type Query struct {
	Filters []Filter
	Order   *Order
	Limit   int
}

type Store interface {
	// Select returns matching rows in the requested order.
	Select(ctx context.Context, table string, q Query) ([]Row, error)
	// SelectSingle returns exactly one row, or NotFoundError when zero
	// rows match and AmbiguousError when more than one does.
	SelectSingle(ctx context.Context, table string, q Query) (Row, error)
	// Insert returns the inserted row including server-assigned fields.
	Insert(ctx context.Context, table string, row Row) (Row, error)
	// Update patches all rows matching where and returns the updated row.
	Update(ctx context.Context, table string, patch Row, where Filter) (Row, error)
	Delete(ctx context.Context, table string, where Filter) error
}

// ChangeFilter selects which row events a change channel receives.
// Event models.ChangeAll subscribes to every event type.
type ChangeFilter struct {
	Schema string
	Table  string
	Event  models.ChangeType
}

func (f ChangeFilter) Matches(ev models.ChangeEvent) bool {
	if f.Schema != "" && f.Schema != ev.Schema {
		return false
	}
	if f.Table != ev.Table {
		return false
	}
	return f.Event == models.ChangeAll || f.Event == ev.Event
}

// ChangeHandler is invoked once per received event, in the order the
// backend sent them.
type ChangeHandler func(ev models.ChangeEvent)

// ChannelHandle is an open change channel. Ready is closed when the server
// confirms the subscription; Errs delivers at most one error per failure
// of the underlying stream. Close is idempotent.
type ChannelHandle interface {
	Name() string
	Ready() <-chan struct{}
	Errs() <-chan error
	Close() error
}

// PresenceHandle is an open presence channel. Callbacks must be registered
// before the first sync can be observed reliably; Track publishes this
// session's state once the subscription is confirmed.
type PresenceHandle interface {
	Ready() <-chan struct{}
	OnSync(fn func(state models.PresenceState))
	OnJoin(fn func(viewerID string, meta models.PresenceMeta))
	OnLeave(fn func(viewerID string))
	Track(viewerID string, meta models.PresenceMeta) error
	Close() error
}

type Realtime interface {
	OpenChangeChannel(ctx context.Context, name string, filter ChangeFilter, handler ChangeHandler) (ChannelHandle, error)
	OpenPresenceChannel(ctx context.Context, name string) (PresenceHandle, error)
	// CloseChannel releases a change channel. Idempotent.
	CloseChannel(handle ChannelHandle) error
}
