package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20 // 1 MB
	sendBufferSize = 256
)

type Client struct {
	ID          string
	UserID      string
	Send        chan []byte
	ConnectedAt time.Time

	conn *websocket.Conn
	hub  *Hub

	ctx    context.Context
	cancel context.CancelFunc

	lastSeen   time.Time
	lastSeenMu sync.RWMutex

	closeOnce sync.Once
	closed    bool
	closedMu  sync.RWMutex
}

func NewClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	ctx, cancel := context.WithCancel(hub.ctx)
	now := time.Now()
	return &Client{
		ID:          uuid.New().String(),
		UserID:      userID,
		Send:        make(chan []byte, sendBufferSize),
		ConnectedAt: now,
		conn:        conn,
		hub:         hub,
		ctx:         ctx,
		cancel:      cancel,
		lastSeen:    now,
	}
}

// Start launches the read and write pumps.
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

func (c *Client) Done() <-chan struct{} {
	return c.ctx.Done()
}

func (c *Client) IsClientActive() bool {
	c.closedMu.RLock()
	defer c.closedMu.RUnlock()
	return !c.closed
}

func (c *Client) GetLastSeen() time.Time {
	c.lastSeenMu.RLock()
	defer c.lastSeenMu.RUnlock()
	return c.lastSeen
}

func (c *Client) touch() {
	c.lastSeenMu.Lock()
	c.lastSeen = time.Now()
	c.lastSeenMu.Unlock()
}

// SendEvent pushes one event to this connection only. Best-effort: a full
// buffer drops the event rather than blocking the caller.
func (c *Client) SendEvent(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("clientID", c.ID).Msg("ws: failed to marshal event")
		return
	}

	select {
	case c.Send <- data:
	case <-c.ctx.Done():
	default:
		log.Warn().Str("clientID", c.ID).Str("eventType", event.Type).Msg("ws: client buffer full, dropping event")
	}
}

// Close tears down the connection and all of its room subscriptions. Safe to
// call from any goroutine, any number of times.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.closedMu.Lock()
		c.closed = true
		c.closedMu.Unlock()

		c.cancel()
		c.hub.unregisterClient(c)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

// writePump drains c.Send onto the socket and keeps the connection alive
// with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// readPump consumes inbound frames: room subscriptions and typing signals.
func (c *Client) readPump() {
	defer c.Close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.touch()
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		c.touch()

		var frame IncomingFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			log.Warn().Err(err).Str("clientID", c.ID).Msg("ws: invalid inbound frame")
			continue
		}
		c.handleFrame(frame)
	}
}

func (c *Client) handleFrame(frame IncomingFrame) {
	if frame.RoomID == "" {
		return
	}

	switch frame.Type {
	case FrameJoin:
		if err := c.hub.Join(c.ctx, frame.RoomID, c); err != nil {
			c.SendEvent(Event{
				Type:      EventError,
				RoomID:    frame.RoomID,
				Data:      map[string]any{"message": err.Message},
				Timestamp: time.Now().Unix(),
			})
		}
	case FrameLeave:
		c.hub.Leave(frame.RoomID, c)
	case FrameTyping:
		c.hub.Typing(frame.RoomID, c)
	case FrameStopTyping:
		c.hub.StopTyping(frame.RoomID, c)
	default:
		log.Debug().Str("clientID", c.ID).Str("frameType", frame.Type).Msg("ws: unknown frame type")
	}
}
