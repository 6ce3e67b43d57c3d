package hub

import (
	"context"
	"time"

	"go.uber.org/zap"
	"sensoria.xyz/data-hub/pkg/backend"
	"sensoria.xyz/data-hub/pkg/common"
	"sensoria.xyz/data-hub/pkg/models"
	"sensoria.xyz/data-hub/pkg/querycache"
	"sensoria.xyz/data-hub/pkg/view"
)

type ISensorsImpl struct {
	hub    *Hub
	logger *zap.Logger
}

func (h *Hub) GetISensors() ISensors {
	return &ISensorsImpl{
		hub: h,
		logger: common.GetLoggerWith(
			common.LoggerNameHubCore,
			zap.String(common.LoggerFieldHubCategory, common.LoggerCategoryHubSensors),
		),
	}
}

func (i *ISensorsImpl) windowFetcher(hours int) querycache.Fetcher {
	return func(ctx context.Context) (any, error) {
		since := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)
		rows, err := i.hub.Store.Select(ctx, models.TableSensorData, backend.Query{
			Filters: []backend.Filter{backend.Gte("timestamp", since)},
			Order:   &backend.Order{Column: "timestamp"},
		})
		if err != nil {
			return nil, err
		}
		return common.Mapper(rows, view.SensorPointFromRow), nil
	}
}

func (i *ISensorsImpl) latestFetcher() querycache.Fetcher {
	return func(ctx context.Context) (any, error) {
		row, err := i.hub.Store.SelectSingle(ctx, models.TableSensorData, backend.Query{
			Order: &backend.Order{Column: "timestamp", Descending: true},
			Limit: 1,
		})
		if err != nil {
			return nil, err
		}
		return view.SensorPointFromRow(row), nil
	}
}

// SubscribeWindow streams the last `hours` of samples in ascending
// timestamp order. A zero-hour window is valid and yields no samples.
// The binding also covers the latest-sample key: its own stream carries
// inserts only, so updates and deletes would otherwise leave it stale
// until the fallback poll.
func (i *ISensorsImpl) SubscribeWindow(ctx context.Context, hours int) (*LiveSubscription, error) {
	if hours < 0 {
		return nil, &backend.ValidationError{Field: "hours", Message: "must not be negative"}
	}

	binding, err := i.hub.Binder.Bind(ctx, SensorDataStream, SensorWindowKey(hours), LatestSensorKey())
	if err != nil {
		return nil, err
	}
	sub := i.hub.Cache.Subscribe(SensorWindowKey(hours), i.windowFetcher(hours), querycache.Options{
		RefetchInterval: sensorRefetchInterval,
	})
	return &LiveSubscription{sub: sub, binding: binding, binder: i.hub.Binder}, nil
}

func (i *ISensorsImpl) Window(ctx context.Context, hours int) ([]view.SensorPoint, error) {
	if hours < 0 {
		return nil, &backend.ValidationError{Field: "hours", Message: "must not be negative"}
	}

	sub := i.hub.Cache.Subscribe(SensorWindowKey(hours), i.windowFetcher(hours), querycache.Options{
		RefetchInterval: sensorRefetchInterval,
	})
	defer sub.Close()

	snap, err := waitTerminal(ctx, sub)
	if err != nil {
		return nil, err
	}
	points, _ := snap.Data.([]view.SensorPoint)
	return points, nil
}

// SubscribeLatest streams the single most recent sample; only inserts can
// change it, so the channel subscribes to inserts alone.
func (i *ISensorsImpl) SubscribeLatest(ctx context.Context) (*LiveSubscription, error) {
	binding, err := i.hub.Binder.Bind(ctx, LatestSensorStream, LatestSensorKey())
	if err != nil {
		return nil, err
	}
	sub := i.hub.Cache.Subscribe(LatestSensorKey(), i.latestFetcher(), querycache.Options{
		RefetchInterval: sensorRefetchInterval,
	})
	return &LiveSubscription{sub: sub, binding: binding, binder: i.hub.Binder}, nil
}

func (i *ISensorsImpl) Latest(ctx context.Context) (view.SensorPoint, error) {
	sub := i.hub.Cache.Subscribe(LatestSensorKey(), i.latestFetcher(), querycache.Options{
		RefetchInterval: sensorRefetchInterval,
	})
	defer sub.Close()

	snap, err := waitTerminal(ctx, sub)
	if err != nil {
		return view.SensorPoint{}, err
	}
	point, _ := snap.Data.(view.SensorPoint)
	return point, nil
}
