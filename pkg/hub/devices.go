package hub

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	z "github.com/Oudwins/zog"
	"go.uber.org/zap"
	"sensoria.xyz/data-hub/pkg/backend"
	"sensoria.xyz/data-hub/pkg/common"
	"sensoria.xyz/data-hub/pkg/models"
	"sensoria.xyz/data-hub/pkg/querycache"
	"sensoria.xyz/data-hub/pkg/view"
)

type AddDeviceInput struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Type     string `json:"type"`
}

var addDeviceSchema = z.Struct(z.Shape{
	"Name": z.String().Min(1).Required(),
	"Type": z.String().OneOf([]string{
		string(models.DeviceTypeEnvironmental),
		string(models.DeviceTypeSecurity),
		string(models.DeviceTypePower),
		string(models.DeviceTypeOther),
	}).Required(),
	"Location": z.String().Optional(),
})

type IDevicesImpl struct {
	hub    *Hub
	logger *zap.Logger
}

func (h *Hub) GetIDevices() IDevices {
	return &IDevicesImpl{
		hub: h,
		logger: common.GetLoggerWith(
			common.LoggerNameHubCore,
			zap.String(common.LoggerFieldHubCategory, common.LoggerCategoryHubDevices),
		),
	}
}

func (i *IDevicesImpl) fetcher() querycache.Fetcher {
	return func(ctx context.Context) (any, error) {
		rows, err := i.hub.Store.Select(ctx, models.TableDevices, backend.Query{
			Order: &backend.Order{Column: "name"},
		})
		if err != nil {
			return nil, err
		}
		return common.Mapper(rows, view.DeviceFromRow), nil
	}
}

// Subscribe returns the live device list: cached, refetched on every
// devices-changes event.
func (i *IDevicesImpl) Subscribe(ctx context.Context) (*LiveSubscription, error) {
	binding, err := i.hub.Binder.Bind(ctx, DevicesStream, DevicesKey())
	if err != nil {
		return nil, err
	}
	sub := i.hub.Cache.Subscribe(DevicesKey(), i.fetcher(), querycache.Options{})
	return &LiveSubscription{sub: sub, binding: binding, binder: i.hub.Binder}, nil
}

// List is the one-shot read; it goes through the cache so a concurrent
// live subscriber shares the same fetch.
func (i *IDevicesImpl) List(ctx context.Context) ([]view.DeviceView, error) {
	sub := i.hub.Cache.Subscribe(DevicesKey(), i.fetcher(), querycache.Options{})
	defer sub.Close()

	snap, err := waitTerminal(ctx, sub)
	if err != nil {
		return nil, err
	}
	devices, _ := snap.Data.([]view.DeviceView)
	return devices, nil
}

func (i *IDevicesImpl) Add(ctx context.Context, input AddDeviceInput) (view.DeviceView, error) {
	if errs := addDeviceSchema.Validate(&input); errs != nil {
		return view.DeviceView{}, validationError(errs)
	}

	row := backend.Row{
		"id":        fmt.Sprintf("sensor_%d", 1000+rand.Intn(9000)),
		"name":      input.Name,
		"location":  input.Location,
		"type":      input.Type,
		"status":    string(models.DeviceStatusOffline),
		"last_seen": time.Now().UTC(),
	}

	inserted, err := i.hub.Store.Insert(ctx, models.TableDevices, row)
	if err != nil {
		i.logger.Error("Add device failed", zap.String("name", input.Name), zap.Error(err))
		return view.DeviceView{}, err
	}

	i.logger.Info("Device added",
		zap.String("device_id", view.DeviceFromRow(inserted).ID),
		zap.String("name", input.Name),
	)
	i.hub.Cache.Invalidate(DevicesKey())

	return view.DeviceFromRow(inserted), nil
}

func (i *IDevicesImpl) Delete(ctx context.Context, id string) error {
	if id == "" {
		return &backend.ValidationError{Field: "id", Message: "must not be empty"}
	}

	if err := i.hub.Store.Delete(ctx, models.TableDevices, backend.Eq("id", id)); err != nil {
		i.logger.Error("Delete device failed", zap.String("device_id", id), zap.Error(err))
		return err
	}

	i.logger.Info("Device deleted", zap.String("device_id", id))
	i.hub.Cache.Invalidate(DevicesKey())
	return nil
}

// validationError lifts the first zog issue into a backend error.
func validationError(errs z.ZogIssueMap) error {
	for field, issues := range errs {
		if field == "$root" || len(issues) == 0 {
			continue
		}
		return &backend.ValidationError{Field: field, Message: issues[0].Message}
	}
	return &backend.ValidationError{Field: "$root", Message: "invalid input"}
}
