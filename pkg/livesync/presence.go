package livesync

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"sensoria.xyz/data-hub/pkg/backend"
	"sensoria.xyz/data-hub/pkg/common"
	"sensoria.xyz/data-hub/pkg/models"
)

// PresenceChannelName is the shared dashboard presence channel.
const PresenceChannelName = "realtime-status"

// PresenceTracker joins a presence channel under a random per-session
// viewer id and exposes whether the channel is live and how many distinct
// viewers are on it.
type PresenceTracker struct {
	realtime backend.Realtime
	channel  string
	logger   *zap.Logger

	mu        sync.Mutex
	handle    backend.PresenceHandle
	viewerID  string
	connected bool
	count     int
}

func NewPresenceTracker(realtime backend.Realtime) *PresenceTracker {
	return &PresenceTracker{
		realtime: realtime,
		channel:  PresenceChannelName,
		logger: common.GetLoggerWith(
			common.LoggerNameLiveSync,
			zap.String(common.LoggerFieldHubCategory, common.LoggerCategoryHubPresence),
		),
	}
}

// Start opens the channel and announces this viewer once the subscription
// is confirmed.
func (p *PresenceTracker) Start(ctx context.Context) error {
	handle, err := p.realtime.OpenPresenceChannel(ctx, p.channel)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.handle = handle
	p.viewerID = uuid.NewString()
	viewerID := p.viewerID
	p.mu.Unlock()

	handle.OnSync(func(state models.PresenceState) {
		p.mu.Lock()
		p.connected = true
		p.count = len(state)
		p.mu.Unlock()
	})
	handle.OnJoin(func(id string, meta models.PresenceMeta) {
		p.logger.Info("Viewer joined", zap.String("viewer_id", id))
	})
	handle.OnLeave(func(id string) {
		p.logger.Info("Viewer left", zap.String("viewer_id", id))
	})

	select {
	case <-handle.Ready():
	case <-ctx.Done():
		_ = handle.Close()
		return ctx.Err()
	}

	return handle.Track(viewerID, models.PresenceMeta{OnlineAt: time.Now()})
}

// Stop leaves the channel; IsConnected reports false afterwards.
func (p *PresenceTracker) Stop() {
	p.mu.Lock()
	handle := p.handle
	p.handle = nil
	p.connected = false
	p.count = 0
	p.mu.Unlock()

	if handle != nil {
		_ = handle.Close()
	}
}

func (p *PresenceTracker) IsConnected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connected
}

func (p *PresenceTracker) ConnectionCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}
