package amqp

import (
	"context"

	"github.com/chungddong/ChurchFinance/internal/log"
	"github.com/chungddong/ChurchFinance/internal/store"
)

// Notifier bridges store change notifications onto the broker. The
// store fires listeners synchronously, so the bridge buffers changes
// on a channel and publishes from its own goroutine; when the buffer
// is full the change is dropped, because the worker's periodic
// snapshot reconciles missed events anyway.
type Notifier struct {
	client *Client
	logger *log.Logger
	ch     chan store.Change
	cancel func()
}

// NewNotifier subscribes to the store and returns the bridge. Run must
// be started for events to flow.
func NewNotifier(client *Client, st *store.Store, logger *log.Logger) *Notifier {
	n := &Notifier{
		client: client,
		logger: logger.WithComponent(log.ComponentNotifier),
		ch:     make(chan store.Change, 256),
	}
	n.cancel = st.Subscribe(func(c store.Change) {
		select {
		case n.ch <- c:
		default:
			n.logger.Warn("Change buffer full, dropping event",
				"collection", c.Collection, "op", string(c.Op), "record_id", c.ID)
		}
	})
	return n
}

// Run publishes buffered changes until the context ends.
func (n *Notifier) Run(ctx context.Context) error {
	defer n.cancel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c := <-n.ch:
			if err := n.client.PublishRecordChange(ctx, NewRecordChangeMessage(c)); err != nil {
				// Publication is best effort; the snapshot pass
				// catches up later.
				n.logger.Error("Failed to publish record change",
					"error", err, "collection", c.Collection, "record_id", c.ID)
			}
		}
	}
}
