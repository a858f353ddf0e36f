package broadcast

import (
	"github.com/Carmen-Shannon/orrery-go/common"
)

// PoseMessage is the JSON payload pushed to the companion display endpoint on
// every meaningful camera movement. The closest node fields annotate the
// character nearest to the camera at send time and are omitted entirely when
// no nodes are ingested.
type PoseMessage struct {
	CameraPosition      [3]float32  `json:"cameraPosition"`
	CameraRotation      [4]float32  `json:"cameraRotation"`
	ClosestNodeID       string      `json:"closestNodeId,omitempty"`
	ClosestNodeName     string      `json:"closestNodeName,omitempty"`
	ClosestNodePosition *[3]float32 `json:"closestNodePosition,omitempty"`
}

// Broadcaster pushes camera pose updates over a websocket connection. Publish
// is safe to call from the tick loop at frame rate: messages below the change
// epsilon are suppressed, the send queue is bounded, and a single background
// writer owns the connection. Messages that arrive while the queue is full are
// dropped and counted rather than blocking the caller.
type Broadcaster interface {
	// Publish annotates the pose with the closest node and enqueues it for
	// sending. Poses that do not differ meaningfully from the last enqueued
	// pose are suppressed. Never blocks.
	//
	// Parameters:
	//   - pose: the camera pose to broadcast
	//   - rotation: the camera orientation quaternion (x, y, z, w)
	Publish(pose common.CameraPose, rotation [4]float32)

	// SetNodes replaces the node set used for closest-node annotation.
	//
	// Parameters:
	//   - nodes: the character nodes to annotate against
	SetNodes(nodes []common.CharacterNode)

	// DroppedCount returns the number of messages dropped because the send
	// queue was full.
	//
	// Returns:
	//   - uint64: the dropped message count
	DroppedCount() uint64

	// Close stops the background writer and closes the connection.
	// Safe to call multiple times.
	Close()
}
