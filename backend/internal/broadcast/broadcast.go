// Package broadcast delivers committed board mutations to every subscriber of the board.
package broadcast

import (
	"context"
	"encoding/json"
	"time"

	"github.com/itchan-dev/boardsync/backend/internal/service"
	"github.com/itchan-dev/boardsync/shared/domain"
	"github.com/itchan-dev/boardsync/shared/logger"
)

const DefaultPublishTimeout = 2 * time.Second

// Bus is a per-channel pub/sub primitive with at-least-once delivery to current subscribers.
type Bus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (*Subscription, error)
}

// ChannelName is the channel all events of a board go to.
func ChannelName(boardId domain.BoardId) string {
	return "board-" + boardId.String()
}

type Broadcaster struct {
	bus     Bus
	timeout time.Duration
}

var _ service.EventPublisher = (*Broadcaster)(nil)

func New(bus Bus, timeout time.Duration) *Broadcaster {
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	return &Broadcaster{bus: bus, timeout: timeout}
}

// Publish sends each event to its board channel. The mutation is already committed, so
// failures are logged and counted, never returned. A cancelled request does not cancel
// publication.
func (b *Broadcaster) Publish(ctx context.Context, events ...domain.BoardEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.timeout)
	defer cancel()

	for _, e := range events {
		payload, err := json.Marshal(e)
		if err != nil {
			b.failed(e, err)
			continue
		}
		if err := b.bus.Publish(ctx, ChannelName(e.BoardId), payload); err != nil {
			b.failed(e, err)
			continue
		}
		publishedTotal.WithLabelValues(string(e.EntityType)).Inc()
	}
}

func (b *Broadcaster) failed(e domain.BoardEvent, err error) {
	publishFailures.WithLabelValues(string(e.EntityType)).Inc()
	logger.Log.Error("failed to publish board event",
		"board_id", e.BoardId,
		"entity_type", e.EntityType,
		"entity_id", e.EntityId,
		"operation", e.Operation,
		"error", err,
	)
}

// Subscribe starts receiving events of one board. Access control is the caller's job.
func (b *Broadcaster) Subscribe(ctx context.Context, boardId domain.BoardId) (*Subscription, error) {
	return b.bus.Subscribe(ctx, ChannelName(boardId))
}
