package domain

import "context"

// Event channel names published on the signal bus.
const (
	ChannelTransactions = "transactions"
)

// SignalBus is the pub/sub fabric between the trading loop and its
// observers. Delivery is best-effort: a slow or absent subscriber never
// blocks the publisher, and there is no replay for late subscribers.
type SignalBus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	// Subscribe returns a channel of raw payloads. The subscription is torn
	// down and the channel closed when ctx is cancelled.
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
}
