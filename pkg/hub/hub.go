// Package hub defines the named readers and writers of the data hub,
// built on the backend gateway, the query cache and the live sync binder.
package hub

import (
	"context"
	"strconv"
	"sync"
	"time"

	"sensoria.xyz/data-hub/pkg/backend"
	"sensoria.xyz/data-hub/pkg/livesync"
	"sensoria.xyz/data-hub/pkg/models"
	"sensoria.xyz/data-hub/pkg/querycache"
	"sensoria.xyz/data-hub/pkg/view"
)

// sensorRefetchInterval is the fallback poll while the change feed is the
// primary update source.
const sensorRefetchInterval = 30 * time.Second

func DevicesKey() querycache.Key       { return querycache.Key{"devices"} }
func LatestSensorKey() querycache.Key  { return querycache.Key{"latestSensorData"} }
func AlertSettingsKey() querycache.Key { return querycache.Key{"alertSettings"} }

func SensorWindowKey(hours int) querycache.Key {
	return querycache.Key{"sensorData", strconv.Itoa(hours)}
}

var (
	DevicesStream = livesync.StreamDescriptor{
		Name:  "devices-changes",
		Table: models.TableDevices,
		Event: models.ChangeAll,
	}
	SensorDataStream = livesync.StreamDescriptor{
		Name:  "sensor-data-changes",
		Table: models.TableSensorData,
		Event: models.ChangeAll,
	}
	LatestSensorStream = livesync.StreamDescriptor{
		Name:  "latest-sensor-data-changes",
		Table: models.TableSensorData,
		Event: models.ChangeInsert,
	}
)

type IDevices interface {
	Subscribe(ctx context.Context) (*LiveSubscription, error)
	List(ctx context.Context) ([]view.DeviceView, error)
	Add(ctx context.Context, input AddDeviceInput) (view.DeviceView, error)
	Delete(ctx context.Context, id string) error
}

type ISensors interface {
	SubscribeWindow(ctx context.Context, hours int) (*LiveSubscription, error)
	Window(ctx context.Context, hours int) ([]view.SensorPoint, error)
	SubscribeLatest(ctx context.Context) (*LiveSubscription, error)
	Latest(ctx context.Context) (view.SensorPoint, error)
}

type IAlerts interface {
	Subscribe(ctx context.Context) (*LiveSubscription, error)
	Get(ctx context.Context) (view.AlertSettingsView, error)
	Update(ctx context.Context, input UpdateAlertSettingsInput) (view.AlertSettingsView, error)
}

type Hub struct {
	Store  backend.Store
	Cache  *querycache.Cache
	Binder *livesync.Binder

	Devices IDevices
	Sensors ISensors
	Alerts  IAlerts
}

type ServiceOpts struct {
	Devices IDevices
	Sensors ISensors
	Alerts  IAlerts
}

func (h *Hub) WithServices(opts ServiceOpts) *Hub {
	if opts.Devices != nil {
		h.Devices = opts.Devices
	}
	if opts.Sensors != nil {
		h.Sensors = opts.Sensors
	}
	if opts.Alerts != nil {
		h.Alerts = opts.Alerts
	}
	return h
}

// LiveSubscription couples a cache subscription with its channel binding;
// closing the last one for a stream closes the channel synchronously.
type LiveSubscription struct {
	sub     *querycache.Subscription
	binding *livesync.Binding
	binder  *livesync.Binder
	once    sync.Once
}

func (ls *LiveSubscription) Updates() <-chan querycache.Snapshot { return ls.sub.Updates() }

func (ls *LiveSubscription) Close() {
	ls.once.Do(func() {
		if ls.binding != nil {
			ls.binder.Unbind(ls.binding)
		}
		ls.sub.Close()
	})
}

// waitTerminal blocks until the subscription reports a fresh success or an
// error. Stale successes are skipped: subscribing to a stale entry starts a
// refetch, and one-shot reads must reflect writes that already happened.
func waitTerminal(ctx context.Context, sub *querycache.Subscription) (querycache.Snapshot, error) {
	for {
		select {
		case <-ctx.Done():
			return querycache.Snapshot{}, ctx.Err()
		case snap := <-sub.Updates():
			switch snap.Status {
			case querycache.StatusSuccess:
				if snap.IsStale {
					continue
				}
				return snap, nil
			case querycache.StatusError:
				return snap, snap.Err
			}
		}
	}
}
