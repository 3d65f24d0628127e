package websocket

import (
	"context"
	"sync"
	"time"
)

type typingKey struct {
	roomID string
	userID string
}

type typingEntry struct {
	deadline time.Time
	origin   *Client
}

// typingTracker holds the set of users currently typing per room. Entries
// expire on a single sweeper goroutine instead of one timer per signal, so
// the timer count stays bounded no matter how many users hammer the typing
// frame.
type typingTracker struct {
	hub    *Hub
	window time.Duration

	mu      sync.Mutex
	entries map[typingKey]*typingEntry
}

func newTypingTracker(hub *Hub, window time.Duration) *typingTracker {
	if window <= 0 {
		window = 5 * time.Second
	}
	return &typingTracker{
		hub:     hub,
		window:  window,
		entries: make(map[typingKey]*typingEntry),
	}
}

// typing marks the user as typing in the room and refreshes the expiry
// deadline. Only the idle-to-typing transition emits an event; repeated
// signals inside the window just extend it.
func (t *typingTracker) typing(roomID string, client *Client) {
	key := typingKey{roomID: roomID, userID: client.UserID}

	t.mu.Lock()
	entry, active := t.entries[key]
	if active {
		entry.deadline = time.Now().Add(t.window)
		entry.origin = client
		t.mu.Unlock()
		return
	}
	t.entries[key] = &typingEntry{
		deadline: time.Now().Add(t.window),
		origin:   client,
	}
	t.mu.Unlock()

	t.hub.PublishExcept(roomID, Event{
		Type:     EventUserTyping,
		RoomID:   roomID,
		SenderID: client.UserID,
		Data:     map[string]any{"user_id": client.UserID},
	}, client)
}

// stopTyping clears the typing state explicitly. A no-op when the user was
// not typing, so expiry and explicit stop never double-emit.
func (t *typingTracker) stopTyping(roomID string, client *Client) {
	key := typingKey{roomID: roomID, userID: client.UserID}

	t.mu.Lock()
	entry, active := t.entries[key]
	if active {
		delete(t.entries, key)
	}
	t.mu.Unlock()

	if active {
		t.emitStop(key, entry.origin)
	}
}

// dropClient clears every typing entry this connection originated, used on
// disconnect.
func (t *typingTracker) dropClient(client *Client) {
	t.mu.Lock()
	var expired []typingKey
	for key, entry := range t.entries {
		if entry.origin == client {
			delete(t.entries, key)
			expired = append(expired, key)
		}
	}
	t.mu.Unlock()

	for _, key := range expired {
		t.emitStop(key, client)
	}
}

func (t *typingTracker) emitStop(key typingKey, origin *Client) {
	t.hub.PublishExcept(key.roomID, Event{
		Type:     EventUserStopTyping,
		RoomID:   key.roomID,
		SenderID: key.userID,
		Data:     map[string]any{"user_id": key.userID},
	}, origin)
}

// run sweeps expired entries. The sweep interval is a fraction of the window
// so expiry lands within the window plus a small epsilon.
func (t *typingTracker) run(ctx context.Context) {
	interval := t.window / 4
	if interval < 25*time.Millisecond {
		interval = 25 * time.Millisecond
	}
	if interval > time.Second {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			t.sweep(now)
		}
	}
}

func (t *typingTracker) sweep(now time.Time) {
	t.mu.Lock()
	var expired []struct {
		key    typingKey
		origin *Client
	}
	for key, entry := range t.entries {
		if now.After(entry.deadline) {
			delete(t.entries, key)
			expired = append(expired, struct {
				key    typingKey
				origin *Client
			}{key, entry.origin})
		}
	}
	t.mu.Unlock()

	for _, e := range expired {
		t.emitStop(e.key, e.origin)
	}
}
