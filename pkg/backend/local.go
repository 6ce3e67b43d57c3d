package backend

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"sensoria.xyz/data-hub/pkg/common"
	"sensoria.xyz/data-hub/pkg/db"
	"sensoria.xyz/data-hub/pkg/models"
)

// LocalStore is the backend-less development mode: the same Store contract
// served from a local sqlite database, with every mutation published to an
// in-process Broker so the live sync path behaves exactly as it does
// against the hosted backend.
type LocalStore struct {
	db     *db.DB
	broker *Broker
	logger *zap.Logger
}

func NewLocalStore(database *db.DB, broker *Broker) *LocalStore {
	return &LocalStore{
		db:     database,
		broker: broker,
		logger: common.GetLoggerWith(common.LoggerNameBackendLocal),
	}
}

func modelFor(table string) any {
	switch table {
	case models.TableDevices:
		return &models.Device{}
	case models.TableSensorData:
		return &models.SensorSample{}
	case models.TableAlertSettings:
		return &models.AlertSettings{}
	default:
		return &map[string]any{}
	}
}

func applyQuery(tx *gorm.DB, q Query) *gorm.DB {
	for _, f := range q.Filters {
		switch f.Op {
		case OpEq:
			tx = tx.Where(fmt.Sprintf("%s = ?", f.Column), f.Value)
		case OpGte:
			tx = tx.Where(fmt.Sprintf("%s >= ?", f.Column), f.Value)
		}
	}
	if q.Order != nil {
		direction := "asc"
		if q.Order.Descending {
			direction = "desc"
		}
		tx = tx.Order(fmt.Sprintf("%s %s", q.Order.Column, direction))
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	return tx
}

func (s *LocalStore) Select(ctx context.Context, table string, q Query) ([]Row, error) {
	var rows []map[string]any
	tx := applyQuery(s.db.Conn.WithContext(ctx).Table(table), q)
	if err := tx.Find(&rows).Error; err != nil {
		return nil, &BackendError{Message: err.Error()}
	}

	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = Row(r)
	}
	return out, nil
}

func (s *LocalStore) SelectSingle(ctx context.Context, table string, q Query) (Row, error) {
	rows, err := s.Select(ctx, table, q)
	if err != nil {
		return nil, err
	}
	switch len(rows) {
	case 0:
		return nil, &NotFoundError{Table: table}
	case 1:
		return rows[0], nil
	default:
		return nil, &AmbiguousError{Table: table, Count: len(rows)}
	}
}

func (s *LocalStore) Insert(ctx context.Context, table string, row Row) (Row, error) {
	inserted := Row{}
	for k, v := range row {
		inserted[k] = v
	}
	if _, ok := inserted["id"]; !ok {
		inserted["id"] = uuid.NewString()
	}

	if err := s.db.Conn.WithContext(ctx).Table(table).Create(map[string]any(inserted)).Error; err != nil {
		return nil, &BackendError{Message: err.Error()}
	}

	s.logger.Info("Inserted row", zap.String("table", table))
	s.broker.Publish(models.ChangeEvent{
		Schema: models.DefaultSchema,
		Table:  table,
		Event:  models.ChangeInsert,
		Row:    inserted,
	})
	return inserted, nil
}

func (s *LocalStore) Update(ctx context.Context, table string, patch Row, where Filter) (Row, error) {
	tx := applyQuery(s.db.Conn.WithContext(ctx).Table(table), Query{Filters: []Filter{where}})
	res := tx.Updates(map[string]any(patch))
	if res.Error != nil {
		return nil, &BackendError{Message: res.Error.Error()}
	}
	if res.RowsAffected == 0 {
		return nil, &NotFoundError{Table: table}
	}

	updated, err := s.SelectSingle(ctx, table, Query{Filters: []Filter{where}})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Updated row", zap.String("table", table))
	s.broker.Publish(models.ChangeEvent{
		Schema: models.DefaultSchema,
		Table:  table,
		Event:  models.ChangeUpdate,
		Row:    updated,
	})
	return updated, nil
}

func (s *LocalStore) Delete(ctx context.Context, table string, where Filter) error {
	// The hosted backend cascades device deletion to the sample stream;
	// local mode is the backend here, so it does the same.
	if table == models.TableDevices && where.Column == "id" && where.Op == OpEq {
		if err := s.db.Conn.WithContext(ctx).
			Where("device_id = ?", where.Value).
			Delete(&models.SensorSample{}).Error; err != nil {
			return &BackendError{Message: err.Error()}
		}
	}

	tx := applyQuery(s.db.Conn.WithContext(ctx).Table(table), Query{Filters: []Filter{where}})
	if err := tx.Delete(modelFor(table)).Error; err != nil {
		return &BackendError{Message: err.Error()}
	}

	s.logger.Info("Deleted rows", zap.String("table", table))
	s.broker.Publish(models.ChangeEvent{
		Schema: models.DefaultSchema,
		Table:  table,
		Event:  models.ChangeDelete,
		Row:    Row{where.Column: where.Value},
	})
	return nil
}
