package broadcast

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/orrery-go/common"
	"github.com/gorilla/websocket"
)

type broadcasterImpl struct {
	mu *sync.Mutex

	url    string
	dialer *websocket.Dialer

	nodes []common.CharacterNode

	epsilon  float32
	lastSent *PoseMessage

	queue   chan PoseMessage
	dropped atomic.Uint64

	retryInterval time.Duration

	quitChannel chan struct{}
	closeOnce   *sync.Once
}

var _ Broadcaster = &broadcasterImpl{}

// NewBroadcaster creates a broadcaster and starts its writer goroutine. The
// writer dials the configured URL on the first message and redials after write
// failures, waiting the retry interval between attempts.
//
// Parameters:
//   - options: functional options to configure the broadcaster
//
// Returns:
//   - Broadcaster: the newly created broadcaster
func NewBroadcaster(options ...BroadcasterOption) Broadcaster {
	b := &broadcasterImpl{
		mu:            &sync.Mutex{},
		url:           "ws://localhost:8090/pose",
		dialer:        websocket.DefaultDialer,
		epsilon:       0.01,
		retryInterval: 2 * time.Second,
		quitChannel:   make(chan struct{}),
		closeOnce:     &sync.Once{},
	}
	for _, option := range options {
		option(b)
	}
	if b.queue == nil {
		b.queue = make(chan PoseMessage, 64)
	}

	go b.writerLoop()

	return b
}

func (b *broadcasterImpl) Publish(pose common.CameraPose, rotation [4]float32) {
	b.mu.Lock()
	msg := PoseMessage{
		CameraPosition: pose.Position,
		CameraRotation: rotation,
	}
	if node, ok := closestNode(b.nodes, pose.Position); ok {
		msg.ClosestNodeID = node.Slug
		msg.ClosestNodeName = node.Name
		nodePos := node.Position
		msg.ClosestNodePosition = &nodePos
	}

	if b.lastSent != nil && !meaningfulChange(*b.lastSent, msg, b.epsilon) {
		b.mu.Unlock()
		return
	}
	b.lastSent = &msg
	b.mu.Unlock()

	select {
	case b.queue <- msg:
	default:
		n := b.dropped.Add(1)
		if n%100 == 1 {
			log.Printf("broadcast: send queue full, dropped %d messages so far", n)
		}
	}
}

func (b *broadcasterImpl) SetNodes(nodes []common.CharacterNode) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nodes = nodes
}

func (b *broadcasterImpl) DroppedCount() uint64 {
	return b.dropped.Load()
}

func (b *broadcasterImpl) Close() {
	b.closeOnce.Do(func() {
		close(b.quitChannel)
	})
}

// writerLoop is the single connection owner. It drains the queue, dialing
// lazily and redialing after failures. A message that cannot be sent because
// the dial failed is dropped and counted; the loop then waits the retry
// interval before touching the connection again.
func (b *broadcasterImpl) writerLoop() {
	var conn *websocket.Conn
	defer func() {
		if conn != nil {
			_ = conn.Close()
		}
	}()

	for {
		select {
		case <-b.quitChannel:
			return
		case msg := <-b.queue:
			if conn == nil {
				var err error
				conn, _, err = b.dialer.Dial(b.url, nil)
				if err != nil {
					log.Printf("broadcast: dial %s failed: %v", b.url, err)
					b.dropped.Add(1)
					select {
					case <-b.quitChannel:
						return
					case <-time.After(b.retryInterval):
					}
					continue
				}
			}
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("broadcast: write failed, reconnecting: %v", err)
				_ = conn.Close()
				conn = nil
			}
		}
	}
}

// closestNode scans for the node nearest to the given position.
func closestNode(nodes []common.CharacterNode, position [3]float32) (common.CharacterNode, bool) {
	if len(nodes) == 0 {
		return common.CharacterNode{}, false
	}
	best := 0
	bestDist := distSq(nodes[0].Position, position)
	for i := 1; i < len(nodes); i++ {
		if d := distSq(nodes[i].Position, position); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return nodes[best], true
}

func distSq(a, b [3]float32) float32 {
	d := common.Sub3(a, b)
	return d[0]*d[0] + d[1]*d[1] + d[2]*d[2]
}

// meaningfulChange reports whether any pose component moved by at least
// epsilon, or the closest node changed.
func meaningfulChange(prev, next PoseMessage, epsilon float32) bool {
	if prev.ClosestNodeID != next.ClosestNodeID {
		return true
	}
	for i := range 3 {
		if abs(next.CameraPosition[i]-prev.CameraPosition[i]) >= epsilon {
			return true
		}
	}
	for i := range 4 {
		if abs(next.CameraRotation[i]-prev.CameraRotation[i]) >= epsilon {
			return true
		}
	}
	return false
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
