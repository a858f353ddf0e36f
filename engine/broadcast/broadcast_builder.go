package broadcast

import (
	"time"

	"github.com/Carmen-Shannon/orrery-go/common"
	"github.com/gorilla/websocket"
)

// BroadcasterOption is a functional option for configuring a Broadcaster.
type BroadcasterOption func(*broadcasterImpl)

// WithURL sets the websocket endpoint messages are pushed to.
//
// Parameters:
//   - url: the ws:// or wss:// endpoint URL
//
// Returns:
//   - BroadcasterOption: functional option to set the endpoint
func WithURL(url string) BroadcasterOption {
	return func(b *broadcasterImpl) {
		b.url = url
	}
}

// WithDialer sets the websocket dialer used for connecting.
//
// Parameters:
//   - dialer: the dialer to use
//
// Returns:
//   - BroadcasterOption: functional option to set the dialer
func WithDialer(dialer *websocket.Dialer) BroadcasterOption {
	return func(b *broadcasterImpl) {
		b.dialer = dialer
	}
}

// WithQueueSize sets the bounded send queue capacity.
//
// Parameters:
//   - size: queue capacity in messages, minimum 1
//
// Returns:
//   - BroadcasterOption: functional option to set the queue size
func WithQueueSize(size int) BroadcasterOption {
	return func(b *broadcasterImpl) {
		if size < 1 {
			size = 1
		}
		b.queue = make(chan PoseMessage, size)
	}
}

// WithEpsilon sets the per-component change threshold below which consecutive
// poses are considered identical and suppressed.
//
// Parameters:
//   - epsilon: minimum meaningful component delta
//
// Returns:
//   - BroadcasterOption: functional option to set the change epsilon
func WithEpsilon(epsilon float32) BroadcasterOption {
	return func(b *broadcasterImpl) {
		b.epsilon = epsilon
	}
}

// WithRetryInterval sets the wait between reconnect attempts after a failed
// dial.
//
// Parameters:
//   - interval: the reconnect wait
//
// Returns:
//   - BroadcasterOption: functional option to set the retry interval
func WithRetryInterval(interval time.Duration) BroadcasterOption {
	return func(b *broadcasterImpl) {
		b.retryInterval = interval
	}
}

// WithNodes seeds the node set used for closest-node annotation.
//
// Parameters:
//   - nodes: the character nodes to annotate against
//
// Returns:
//   - BroadcasterOption: functional option to seed the node set
func WithNodes(nodes []common.CharacterNode) BroadcasterOption {
	return func(b *broadcasterImpl) {
		b.nodes = nodes
	}
}
