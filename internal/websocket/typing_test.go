package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typingSetup(t *testing.T, window time.Duration) (*Hub, *Client, *Client) {
	t.Helper()
	hub := NewHub(allowMembers("room-1", "alice", "bob"), window)
	t.Cleanup(hub.Close)

	alice := NewClient(hub, nil, "alice")
	bob := NewClient(hub, nil, "bob")
	require.Nil(t, hub.Join(context.Background(), "room-1", alice))
	require.Nil(t, hub.Join(context.Background(), "room-1", bob))
	drain(alice)
	drain(bob)
	return hub, alice, bob
}

func TestTyping_ExcludesOrigin(t *testing.T) {
	hub, alice, bob := typingSetup(t, time.Second)

	hub.Typing("room-1", alice)

	event := recvEvent(t, bob, time.Second)
	assert.Equal(t, EventUserTyping, event.Type)
	assert.Equal(t, "alice", event.SenderID)

	assertNoEvent(t, alice, 50*time.Millisecond)
}

func TestTyping_EmitsOnTransitionOnly(t *testing.T) {
	hub, alice, bob := typingSetup(t, time.Second)

	hub.Typing("room-1", alice)
	recvEvent(t, bob, time.Second)

	// repeated signals inside the window extend it silently
	hub.Typing("room-1", alice)
	hub.Typing("room-1", alice)
	assertNoEvent(t, bob, 50*time.Millisecond)
}

func TestTyping_ExplicitStop(t *testing.T) {
	hub, alice, bob := typingSetup(t, time.Second)

	hub.Typing("room-1", alice)
	recvEvent(t, bob, time.Second)

	hub.StopTyping("room-1", alice)
	event := recvEvent(t, bob, time.Second)
	assert.Equal(t, EventUserStopTyping, event.Type)
	assert.Equal(t, "alice", event.SenderID)

	// stop without typing never emits
	hub.StopTyping("room-1", alice)
	assertNoEvent(t, bob, 50*time.Millisecond)
}

func TestTyping_ExpiresAfterWindow(t *testing.T) {
	hub, alice, bob := typingSetup(t, 100*time.Millisecond)

	hub.Typing("room-1", alice)
	event := recvEvent(t, bob, time.Second)
	assert.Equal(t, EventUserTyping, event.Type)

	// sweeper fires the stop once the window lapses
	expired := recvEvent(t, bob, time.Second)
	assert.Equal(t, EventUserStopTyping, expired.Type)
	assert.Equal(t, "alice", expired.SenderID)
}

func TestTyping_DisconnectClearsState(t *testing.T) {
	hub, alice, bob := typingSetup(t, time.Second)

	hub.Typing("room-1", alice)
	recvEvent(t, bob, time.Second)

	alice.Close()

	// disconnect emits stop-typing before the offline status
	first := recvEvent(t, bob, time.Second)
	assert.Equal(t, EventUserStopTyping, first.Type)

	second := recvEvent(t, bob, time.Second)
	assert.Equal(t, EventUserStatus, second.Type)
}
