package broadcast

import (
	"context"
	"log/slog"
	"time"

	"github.com/bytedance/sonic"
	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/match-tracker/internal/usecase"
)

// Message is the wire shape of one broadcast frame.
type Message struct {
	MatchID string    `json:"match_id"`
	Kind    string    `json:"kind"`
	Payload any       `json:"payload,omitempty"`
	SentAt  time.Time `json:"sent_at"`
}

// Dispatcher encodes notifications off the request path and hands them to
// the hub. It satisfies the engine's notifier port.
type Dispatcher struct {
	hub    *Hub
	pool   *ants.Pool
	logger *slog.Logger
	now    func() time.Time
}

func NewDispatcher(hub *Hub, workers int, logger *slog.Logger) (*Dispatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if workers < 1 {
		workers = 8
	}

	pool, err := ants.NewPool(workers, ants.WithNonblocking(true))
	if err != nil {
		return nil, err
	}

	return &Dispatcher{
		hub:    hub,
		pool:   pool,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Notify encodes and publishes the notification asynchronously. When the
// worker pool is saturated the frame is dropped; mutations never wait on
// broadcast.
func (d *Dispatcher) Notify(_ context.Context, n usecase.Notification) {
	if n.MatchID == "" {
		return
	}

	msg := Message{
		MatchID: n.MatchID,
		Kind:    n.Kind,
		Payload: n.Payload,
		SentAt:  d.now().UTC(),
	}

	err := d.pool.Submit(func() {
		data, err := sonic.Marshal(msg)
		if err != nil {
			d.logger.Warn("encode broadcast frame failed", "kind", n.Kind, "error", err)
			return
		}
		d.hub.Publish(msg.MatchID, data)
	})
	if err != nil {
		d.logger.Warn("broadcast pool saturated, dropping frame", "kind", n.Kind, "error", err)
	}
}

// Close releases the worker pool.
func (d *Dispatcher) Close() {
	d.pool.Release()
}
