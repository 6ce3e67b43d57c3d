package livesync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sensoria.xyz/data-hub/pkg/backend"
	"sensoria.xyz/data-hub/pkg/common"
	_ "sensoria.xyz/data-hub/pkg/testing"
)

func TestPresenceTracker_JoinAndLeave(t *testing.T) {
	common.SetTestLoggerNop()

	broker := backend.NewBroker()

	p1 := NewPresenceTracker(broker)
	require.NoError(t, p1.Start(context.Background()))

	assert.True(t, p1.IsConnected())
	assert.Equal(t, 1, p1.ConnectionCount())

	p2 := NewPresenceTracker(broker)
	require.NoError(t, p2.Start(context.Background()))

	// Both viewers observe the same room
	assert.Equal(t, 2, p1.ConnectionCount())
	assert.Equal(t, 2, p2.ConnectionCount())

	p2.Stop()
	assert.False(t, p2.IsConnected())
	assert.Equal(t, 0, p2.ConnectionCount())
	assert.Equal(t, 1, p1.ConnectionCount())

	p1.Stop()
	assert.False(t, p1.IsConnected())
}

func TestPresenceTracker_DistinctViewerIDs(t *testing.T) {
	common.SetTestLoggerNop()

	broker := backend.NewBroker()

	p1 := NewPresenceTracker(broker)
	require.NoError(t, p1.Start(context.Background()))
	defer p1.Stop()

	p2 := NewPresenceTracker(broker)
	require.NoError(t, p2.Start(context.Background()))
	defer p2.Stop()

	p1.mu.Lock()
	id1 := p1.viewerID
	p1.mu.Unlock()
	p2.mu.Lock()
	id2 := p2.viewerID
	p2.mu.Unlock()

	assert.NotEmpty(t, id1)
	assert.NotEmpty(t, id2)
	assert.NotEqual(t, id1, id2)
}

func TestPresenceTracker_RestartGetsFreshViewerID(t *testing.T) {
	common.SetTestLoggerNop()

	broker := backend.NewBroker()

	p := NewPresenceTracker(broker)
	require.NoError(t, p.Start(context.Background()))

	p.mu.Lock()
	first := p.viewerID
	p.mu.Unlock()

	p.Stop()
	require.NoError(t, p.Start(context.Background()))
	defer p.Stop()

	p.mu.Lock()
	second := p.viewerID
	p.mu.Unlock()

	assert.NotEqual(t, first, second)
	assert.Equal(t, 1, p.ConnectionCount())
}
