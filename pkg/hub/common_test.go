package hub

import (
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"sensoria.xyz/data-hub/pkg/backend"
	bmocks "sensoria.xyz/data-hub/pkg/backend/mocks"
	"sensoria.xyz/data-hub/pkg/common"
	"sensoria.xyz/data-hub/pkg/db"
	"sensoria.xyz/data-hub/pkg/livesync"
	"sensoria.xyz/data-hub/pkg/querycache"
	_ "sensoria.xyz/data-hub/pkg/testing"
)

// newLocalHub wires a hub against the in-memory sqlite store and broker,
// the same shape cmd/server builds in local mode.
func newLocalHub(t *testing.T) (*Hub, *db.DB) {
	t.Helper()
	common.SetTestLoggerNop()

	dbInstance := db.GetInstance(db.UseMemorySqliteDialector())
	broker := backend.NewBroker()
	store := backend.NewLocalStore(dbInstance, broker)
	cache := querycache.New(querycache.DefaultRetention)
	binder := livesync.NewBinder(broker, cache)

	h := &Hub{Store: store, Cache: cache, Binder: binder}
	h.WithServices(ServiceOpts{
		Devices: h.GetIDevices(),
		Sensors: h.GetISensors(),
		Alerts:  h.GetIAlerts(),
	})
	return h, dbInstance
}

// newMockStoreHub wires a hub whose store is a gomock; ctrl.Finish will
// flag any backend call the test did not expect.
func newMockStoreHub(t *testing.T) (*gomock.Controller, *Hub, *bmocks.MockStore) {
	t.Helper()
	common.SetTestLoggerNop()

	ctrl := gomock.NewController(t)
	mockStore := bmocks.NewMockStore(ctrl)

	cache := querycache.New(querycache.DefaultRetention)
	binder := livesync.NewBinder(backend.NewBroker(), cache)

	h := &Hub{Store: mockStore, Cache: cache, Binder: binder}
	h.WithServices(ServiceOpts{
		Devices: h.GetIDevices(),
		Sensors: h.GetISensors(),
		Alerts:  h.GetIAlerts(),
	})
	return ctrl, h, mockStore
}

func waitForSnapshot(t *testing.T, sub *LiveSubscription, pred func(querycache.Snapshot) bool) querycache.Snapshot {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap := <-sub.Updates():
			if pred(snap) {
				return snap
			}
		case <-deadline:
			t.Fatal("timed out waiting for snapshot")
		}
	}
}
