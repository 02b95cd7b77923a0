package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitclash/fitclash/internal/logger"
)

func newTestClient(competitionID string, buffer int) *Client {
	return &Client{
		id:            competitionID + "-client",
		competitionID: competitionID,
		send:          make(chan []byte, buffer),
	}
}

func TestHub_BroadcastReachesOnlyCompetitionRoom(t *testing.T) {
	hub := NewHub(logger.Default("test"))

	viewer1 := newTestClient("comp-1", 4)
	viewer2 := newTestClient("comp-2", 4)
	hub.Register(viewer1)
	hub.Register(viewer2)

	hub.Broadcast("comp-1", []byte("update"))

	select {
	case msg := <-viewer1.send:
		assert.Equal(t, "update", string(msg))
	default:
		t.Fatal("comp-1 viewer got nothing")
	}

	select {
	case msg := <-viewer2.send:
		t.Fatalf("comp-2 viewer got %q", msg)
	default:
	}
}

func TestHub_BroadcastToUnknownCompetitionIsNoop(t *testing.T) {
	hub := NewHub(logger.Default("test"))

	// No rooms exist yet; a publish must not panic or create one.
	hub.Broadcast("nobody-here", []byte("update"))
	assert.Equal(t, 0, hub.SubscriberCount("nobody-here"))
}

func TestHub_StalledClientDroppedWithoutStallingOthers(t *testing.T) {
	hub := NewHub(logger.Default("test"))

	healthy := newTestClient("comp-1", 4)
	stalled := newTestClient("comp-1", 1)
	hub.Register(healthy)
	hub.Register(stalled)

	// Fill the stalled client's buffer so the next send would block.
	stalled.send <- []byte("backlog")

	hub.Broadcast("comp-1", []byte("update"))

	select {
	case msg := <-healthy.send:
		assert.Equal(t, "update", string(msg))
	default:
		t.Fatal("healthy viewer got nothing")
	}

	assert.Equal(t, 1, hub.SubscriberCount("comp-1"))

	// The dropped client's channel is closed after its backlog.
	<-stalled.send
	_, open := <-stalled.send
	assert.False(t, open)
}

func TestHub_UnregisterRemovesClientAndRoom(t *testing.T) {
	hub := NewHub(logger.Default("test"))

	viewer1 := newTestClient("comp-1", 4)
	viewer2 := newTestClient("comp-1", 4)
	hub.Register(viewer1)
	hub.Register(viewer2)
	require.Equal(t, 2, hub.SubscriberCount("comp-1"))

	hub.Unregister(viewer1)
	assert.Equal(t, 1, hub.SubscriberCount("comp-1"))

	_, open := <-viewer1.send
	assert.False(t, open)

	// The remaining viewer still receives.
	hub.Broadcast("comp-1", []byte("update"))
	select {
	case msg := <-viewer2.send:
		assert.Equal(t, "update", string(msg))
	default:
		t.Fatal("remaining viewer got nothing")
	}

	hub.Unregister(viewer2)
	assert.Equal(t, 0, hub.SubscriberCount("comp-1"))
}

func TestHub_UnregisterTwiceIsSafe(t *testing.T) {
	hub := NewHub(logger.Default("test"))

	viewer := newTestClient("comp-1", 4)
	hub.Register(viewer)

	hub.Unregister(viewer)
	hub.Unregister(viewer)

	assert.Equal(t, 0, hub.SubscriberCount("comp-1"))
}
