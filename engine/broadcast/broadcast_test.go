package broadcast

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/orrery-go/common"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newCaptureServer runs a websocket endpoint that decodes every received
// message into the returned channel.
func newCaptureServer(t *testing.T) (*httptest.Server, chan PoseMessage) {
	t.Helper()
	received := make(chan PoseMessage, 16)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			var msg PoseMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			received <- msg
		}
	}))
	t.Cleanup(srv.Close)
	return srv, received
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func recv(t *testing.T, ch chan PoseMessage) PoseMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for broadcast message")
		return PoseMessage{}
	}
}

func TestPublishDeliversAnnotatedMessage(t *testing.T) {
	srv, received := newCaptureServer(t)
	b := NewBroadcaster(
		WithURL(wsURL(srv)),
		WithNodes([]common.CharacterNode{
			{Slug: "far-node", Name: "Far", Position: [3]float32{500, 0, 0}},
			{Slug: "near-node", Name: "Near", Position: [3]float32{10, 0, 0}},
		}),
	)
	defer b.Close()

	b.Publish(common.CameraPose{Position: [3]float32{12, 0, 0}}, [4]float32{0, 0, 0, 1})

	msg := recv(t, received)
	assert.Equal(t, [3]float32{12, 0, 0}, msg.CameraPosition)
	assert.Equal(t, [4]float32{0, 0, 0, 1}, msg.CameraRotation)
	assert.Equal(t, "near-node", msg.ClosestNodeID)
	assert.Equal(t, "Near", msg.ClosestNodeName)
	require.NotNil(t, msg.ClosestNodePosition)
	assert.Equal(t, [3]float32{10, 0, 0}, *msg.ClosestNodePosition)
}

func TestClosestNodeFieldsOmittedWithoutNodes(t *testing.T) {
	msg := PoseMessage{
		CameraPosition: [3]float32{1, 2, 3},
		CameraRotation: [4]float32{0, 0, 0, 1},
	}

	buf, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.NotContains(t, string(buf), "closestNodeId")
	assert.NotContains(t, string(buf), "closestNodeName")
	assert.NotContains(t, string(buf), "closestNodePosition")
	assert.Contains(t, string(buf), "cameraPosition")
}

func TestSubEpsilonMovementSuppressed(t *testing.T) {
	srv, received := newCaptureServer(t)
	b := NewBroadcaster(WithURL(wsURL(srv)), WithEpsilon(0.01))
	defer b.Close()

	rot := [4]float32{0, 0, 0, 1}
	b.Publish(common.CameraPose{Position: [3]float32{1, 0, 0}}, rot)
	b.Publish(common.CameraPose{Position: [3]float32{1.001, 0, 0}}, rot)
	b.Publish(common.CameraPose{Position: [3]float32{50, 0, 0}}, rot)

	first := recv(t, received)
	second := recv(t, received)
	assert.Equal(t, [3]float32{1, 0, 0}, first.CameraPosition)
	assert.Equal(t, [3]float32{50, 0, 0}, second.CameraPosition, "sub-epsilon move is not forwarded")
}

func TestQueueOverflowDropsAndCounts(t *testing.T) {
	b := NewBroadcaster(
		WithURL("ws://127.0.0.1:1/pose"),
		WithQueueSize(1),
		WithRetryInterval(time.Hour),
	)
	defer b.Close()

	rot := [4]float32{0, 0, 0, 1}
	b.Publish(common.CameraPose{Position: [3]float32{1, 0, 0}}, rot)
	b.Publish(common.CameraPose{Position: [3]float32{2, 0, 0}}, rot)
	b.Publish(common.CameraPose{Position: [3]float32{3, 0, 0}}, rot)

	require.Eventually(t, func() bool {
		return b.DroppedCount() >= 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestClosestNodeSelection(t *testing.T) {
	nodes := []common.CharacterNode{
		{Slug: "a", Position: [3]float32{0, 0, 0}},
		{Slug: "b", Position: [3]float32{0, 100, 0}},
		{Slug: "c", Position: [3]float32{0, 95, 0}},
	}

	node, ok := closestNode(nodes, [3]float32{0, 98, 0})
	require.True(t, ok)
	assert.Equal(t, "c", node.Slug)

	_, ok = closestNode(nil, [3]float32{0, 0, 0})
	assert.False(t, ok)
}

func TestMeaningfulChange(t *testing.T) {
	base := PoseMessage{
		CameraPosition: [3]float32{1, 2, 3},
		CameraRotation: [4]float32{0, 0, 0, 1},
		ClosestNodeID:  "a",
	}

	same := base
	same.CameraPosition[0] += 0.001
	assert.False(t, meaningfulChange(base, same, 0.01))

	moved := base
	moved.CameraPosition[2] += 0.5
	assert.True(t, meaningfulChange(base, moved, 0.01))

	rotated := base
	rotated.CameraRotation[1] += 0.05
	assert.True(t, meaningfulChange(base, rotated, 0.01))

	switched := base
	switched.ClosestNodeID = "b"
	assert.True(t, meaningfulChange(base, switched, 0.01), "node handoff always forwards")
}
