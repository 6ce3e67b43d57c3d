package hub

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sensoria.xyz/data-hub/pkg/backend"
	"sensoria.xyz/data-hub/pkg/models"
	"sensoria.xyz/data-hub/pkg/querycache"
	"sensoria.xyz/data-hub/pkg/view"
)

func TestAddDevice_RoundTrip(t *testing.T) {
	h, _ := newLocalHub(t)
	ctx := context.Background()

	name := "Attic Sensor " + uuid.NewString()
	created, err := h.Devices.Add(ctx, AddDeviceInput{
		Name:     name,
		Location: "Attic",
		Type:     "Environmental",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(created.ID, "sensor_"), "generated id should look like sensor_NNNN, got %q", created.ID)
	assert.Equal(t, models.DeviceStatusOffline, created.Status)
	assert.Equal(t, models.DeviceTypeEnvironmental, created.Type)
	assert.WithinDuration(t, time.Now(), created.LastSeen, 5*time.Second)

	devices, err := h.Devices.List(ctx)
	require.NoError(t, err)

	var found *view.DeviceView
	for i := range devices {
		if devices[i].ID == created.ID {
			found = &devices[i]
			break
		}
	}
	require.NotNil(t, found, "created device should appear in the list")
	assert.Equal(t, name, found.Name)
	assert.Equal(t, "Attic", found.Location)
}

func TestAddDevice_ValidationNeverHitsBackend(t *testing.T) {
	ctrl, h, _ := newMockStoreHub(t)
	defer ctrl.Finish()

	ctx := context.Background()

	_, err := h.Devices.Add(ctx, AddDeviceInput{Name: "", Type: "Environmental"})
	require.Error(t, err)
	assert.True(t, backend.IsValidation(err))

	_, err = h.Devices.Add(ctx, AddDeviceInput{Name: "Window Sensor", Type: "Quantum"})
	require.Error(t, err)
	assert.True(t, backend.IsValidation(err))

	err = h.Devices.Delete(ctx, "")
	require.Error(t, err)
	assert.True(t, backend.IsValidation(err))
}

func TestDeleteDevice(t *testing.T) {
	h, _ := newLocalHub(t)
	ctx := context.Background()

	created, err := h.Devices.Add(ctx, AddDeviceInput{
		Name: "Shed Sensor " + uuid.NewString(),
		Type: "Security",
	})
	require.NoError(t, err)

	require.NoError(t, h.Devices.Delete(ctx, created.ID))

	devices, err := h.Devices.List(ctx)
	require.NoError(t, err)
	for _, d := range devices {
		assert.NotEqual(t, created.ID, d.ID)
	}
}

func TestSubscribeDevices_LiveUpdates(t *testing.T) {
	h, _ := newLocalHub(t)
	ctx := context.Background()

	sub, err := h.Devices.Subscribe(ctx)
	require.NoError(t, err)

	waitForSnapshot(t, sub, func(s querycache.Snapshot) bool {
		return s.Status == querycache.StatusSuccess
	})

	assert.Equal(t, 1, h.Binder.Refcount("devices-changes"))

	created, err := h.Devices.Add(ctx, AddDeviceInput{
		Name: "Hall Sensor " + uuid.NewString(),
		Type: "Other",
	})
	require.NoError(t, err)

	// The change feed refetches the list; no payload patching involved
	waitForSnapshot(t, sub, func(s querycache.Snapshot) bool {
		devices, ok := s.Data.([]view.DeviceView)
		if !ok {
			return false
		}
		for _, d := range devices {
			if d.ID == created.ID {
				return true
			}
		}
		return false
	})

	sub.Close()
	assert.Equal(t, 0, h.Binder.ChannelCount())

	// Close is idempotent
	sub.Close()
}
