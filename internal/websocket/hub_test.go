package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app_error "github.com/kshathishka/collabstudy/internal/errors"
)

type fakeMembership struct {
	members map[string]map[string]bool
}

func allowMembers(roomID string, userIDs ...string) *fakeMembership {
	members := map[string]map[string]bool{roomID: {}}
	for _, id := range userIDs {
		members[roomID][id] = true
	}
	return &fakeMembership{members: members}
}

func (f *fakeMembership) IsMember(_ context.Context, roomID, userID string) (bool, *app_error.AppError) {
	return f.members[roomID][userID], nil
}

func recvEvent(t *testing.T, c *Client, timeout time.Duration) Event {
	t.Helper()
	select {
	case data := <-c.Send:
		var event Event
		require.NoError(t, json.Unmarshal(data, &event))
		return event
	case <-time.After(timeout):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func assertNoEvent(t *testing.T, c *Client, wait time.Duration) {
	t.Helper()
	select {
	case data := <-c.Send:
		t.Fatalf("unexpected event: %s", data)
	case <-time.After(wait):
	}
}

func drain(c *Client) {
	for {
		select {
		case <-c.Send:
		default:
			return
		}
	}
}

func TestJoin_ForbiddenForNonMember(t *testing.T) {
	hub := NewHub(allowMembers("room-1", "alice"), time.Second)
	defer hub.Close()

	client := NewClient(hub, nil, "eve")
	err := hub.Join(context.Background(), "room-1", client)

	require.NotNil(t, err)
	assert.Equal(t, http.StatusForbidden, err.Code)
	assert.Empty(t, hub.GetRoomClients("room-1"))
}

func TestJoin_Idempotent(t *testing.T) {
	hub := NewHub(allowMembers("room-1", "alice"), time.Second)
	defer hub.Close()

	client := NewClient(hub, nil, "alice")
	require.Nil(t, hub.Join(context.Background(), "room-1", client))
	require.Nil(t, hub.Join(context.Background(), "room-1", client))

	assert.Len(t, hub.GetRoomClients("room-1"), 1)
}

func TestPublish_DeliversInOrder(t *testing.T) {
	hub := NewHub(allowMembers("room-1", "alice", "bob"), time.Second)
	defer hub.Close()

	alice := NewClient(hub, nil, "alice")
	bob := NewClient(hub, nil, "bob")
	require.Nil(t, hub.Join(context.Background(), "room-1", alice))
	require.Nil(t, hub.Join(context.Background(), "room-1", bob))
	drain(alice)
	drain(bob)

	const n = 20
	for i := 0; i < n; i++ {
		hub.Publish("room-1", Event{
			Type: EventMessageReceived,
			Data: map[string]any{"i": fmt.Sprintf("%d", i)},
		})
	}

	for _, client := range []*Client{alice, bob} {
		for i := 0; i < n; i++ {
			event := recvEvent(t, client, time.Second)
			data, ok := event.Data.(map[string]any)
			require.True(t, ok)
			assert.Equal(t, fmt.Sprintf("%d", i), data["i"], "events must arrive in publish order")
		}
	}
}

func TestPublish_SkipsEmptyRoom(t *testing.T) {
	hub := NewHub(allowMembers("room-1"), time.Second)
	defer hub.Close()

	// no subscribers, must not panic or block
	hub.Publish("room-1", Event{Type: EventMessageReceived})
}

func TestJoin_BroadcastsOnlineStatus(t *testing.T) {
	hub := NewHub(allowMembers("room-1", "alice", "bob"), time.Second)
	defer hub.Close()

	alice := NewClient(hub, nil, "alice")
	require.Nil(t, hub.Join(context.Background(), "room-1", alice))

	bob := NewClient(hub, nil, "bob")
	require.Nil(t, hub.Join(context.Background(), "room-1", bob))

	event := recvEvent(t, alice, time.Second)
	assert.Equal(t, EventUserStatus, event.Type)
	data := event.Data.(map[string]any)
	assert.Equal(t, "bob", data["user_id"])
	assert.Equal(t, "online", data["status"])

	// the joining user never sees their own status event
	assertNoEvent(t, bob, 50*time.Millisecond)
}

func TestUnregister_DropsSubscriptions(t *testing.T) {
	hub := NewHub(allowMembers("room-1", "alice", "bob"), time.Second)
	defer hub.Close()

	alice := NewClient(hub, nil, "alice")
	bob := NewClient(hub, nil, "bob")
	require.Nil(t, hub.Join(context.Background(), "room-1", alice))
	require.Nil(t, hub.Join(context.Background(), "room-1", bob))
	drain(alice)
	drain(bob)

	alice.Close()

	assert.False(t, hub.IsUserOnlineInRoom("room-1", "alice"))
	assert.Len(t, hub.GetRoomClients("room-1"), 1)

	event := recvEvent(t, bob, time.Second)
	assert.Equal(t, EventUserStatus, event.Type)
	data := event.Data.(map[string]any)
	assert.Equal(t, "alice", data["user_id"])
	assert.Equal(t, "offline", data["status"])
}

func TestLeave_Idempotent(t *testing.T) {
	hub := NewHub(allowMembers("room-1", "alice"), time.Second)
	defer hub.Close()

	alice := NewClient(hub, nil, "alice")
	require.Nil(t, hub.Join(context.Background(), "room-1", alice))

	hub.Leave("room-1", alice)
	hub.Leave("room-1", alice)
	hub.Leave("never-joined", alice)

	assert.Empty(t, hub.GetRoomClients("room-1"))
}

func TestPublishToUser_ReachesAllConnections(t *testing.T) {
	hub := NewHub(allowMembers("room-1", "alice"), time.Second)
	defer hub.Close()

	first := NewClient(hub, nil, "alice")
	second := NewClient(hub, nil, "alice")
	hub.userMu.Lock()
	hub.userClients["alice"] = []*Client{first, second}
	hub.userMu.Unlock()

	hub.PublishToUser("alice", Event{Type: EventNotification})

	assert.Equal(t, EventNotification, recvEvent(t, first, time.Second).Type)
	assert.Equal(t, EventNotification, recvEvent(t, second, time.Second).Type)
}
