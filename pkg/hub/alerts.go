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

// UpdateAlertSettingsInput is a partial patch; nil fields are left as-is.
type UpdateAlertSettingsInput struct {
	ID                   string   `json:"id"`
	EmailAlerts          *bool    `json:"email_alerts"`
	TemperatureThreshold *float64 `json:"temperature_threshold"`
	HumidityThreshold    *float64 `json:"humidity_threshold"`
}

type IAlertsImpl struct {
	hub    *Hub
	logger *zap.Logger
}

func (h *Hub) GetIAlerts() IAlerts {
	return &IAlertsImpl{
		hub: h,
		logger: common.GetLoggerWith(
			common.LoggerNameHubCore,
			zap.String(common.LoggerFieldHubCategory, common.LoggerCategoryHubAlerts),
		),
	}
}

func (i *IAlertsImpl) fetcher() querycache.Fetcher {
	return func(ctx context.Context) (any, error) {
		row, err := i.hub.Store.SelectSingle(ctx, models.TableAlertSettings, backend.Query{Limit: 1})
		if err != nil {
			return nil, err
		}
		return view.AlertSettingsFromRow(row), nil
	}
}

// Subscribe streams the singleton settings row. There is no dedicated
// change channel for it; updates go through Update which invalidates.
func (i *IAlertsImpl) Subscribe(ctx context.Context) (*LiveSubscription, error) {
	sub := i.hub.Cache.Subscribe(AlertSettingsKey(), i.fetcher(), querycache.Options{})
	return &LiveSubscription{sub: sub, binder: i.hub.Binder}, nil
}

func (i *IAlertsImpl) Get(ctx context.Context) (view.AlertSettingsView, error) {
	sub := i.hub.Cache.Subscribe(AlertSettingsKey(), i.fetcher(), querycache.Options{})
	defer sub.Close()

	snap, err := waitTerminal(ctx, sub)
	if err != nil {
		return view.AlertSettingsView{}, err
	}
	settings, _ := snap.Data.(view.AlertSettingsView)
	return settings, nil
}

func (i *IAlertsImpl) Update(ctx context.Context, input UpdateAlertSettingsInput) (view.AlertSettingsView, error) {
	if input.ID == "" {
		return view.AlertSettingsView{}, &backend.ValidationError{Field: "id", Message: "must not be empty"}
	}

	patch := backend.Row{"updated_at": time.Now().UTC()}
	if input.EmailAlerts != nil {
		patch["email_alerts"] = *input.EmailAlerts
	}
	if input.TemperatureThreshold != nil {
		patch["temperature_threshold"] = *input.TemperatureThreshold
	}
	if input.HumidityThreshold != nil {
		patch["humidity_threshold"] = *input.HumidityThreshold
	}

	updated, err := i.hub.Store.Update(ctx, models.TableAlertSettings, patch, backend.Eq("id", input.ID))
	if err != nil {
		i.logger.Error("Update alert settings failed", zap.String("id", input.ID), zap.Error(err))
		return view.AlertSettingsView{}, err
	}

	i.logger.Info("Alert settings updated", zap.String("id", input.ID))
	i.hub.Cache.Invalidate(AlertSettingsKey())

	return view.AlertSettingsFromRow(updated), nil
}
