// Package realtime pushes committed notifications to connected websocket
// clients.
package realtime

import (
	"context"
	"encoding/json"

	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/models"
	"github.com/abinashmishraobt2026/client-demo-ba-sub000/internal/utils"
)

const publishBuffer = 256

// Event is the envelope written to clients.
type Event struct {
	Type         string               `json:"type"`
	Notification *models.Notification `json:"notification"`
}

const EventNotification = "notification"

// Hub fans notifications out to the clients whose inbox they belong to.
// All client bookkeeping happens on the Run goroutine.
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	publish    chan *models.Notification
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		publish:    make(chan *models.Notification, publishBuffer),
		done:       make(chan struct{}),
	}
}

// Run serves the hub until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for c := range h.clients {
				h.drop(c)
			}
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			utils.Logger.WithField("userID", c.session.UserID).Debugf("Websocket client connected. Total: %d", len(h.clients))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
				utils.Logger.WithField("userID", c.session.UserID).Debugf("Websocket client disconnected. Total: %d", len(h.clients))
			}
		case n := <-h.publish:
			h.deliver(n)
		}
	}
}

func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	close(c.send)
}

func (h *Hub) deliver(n *models.Notification) {
	var data []byte
	for c := range h.clients {
		if !n.VisibleTo(c.session) {
			continue
		}
		if data == nil {
			var err error
			data, err = json.Marshal(Event{Type: EventNotification, Notification: n})
			if err != nil {
				utils.Logger.WithError(err).Error("Failed to marshal notification event")
				return
			}
		}
		select {
		case c.send <- data:
		default:
			// Slow consumer; it can resync from the REST inbox.
			h.drop(c)
		}
	}
}

// Publish queues a notification for delivery. It never blocks the caller;
// when the queue is full the push is skipped and the notification stays
// readable from the inbox.
func (h *Hub) Publish(n *models.Notification) {
	select {
	case h.publish <- n:
	default:
		utils.Logger.WithField("notificationID", n.ID).Warn("Realtime queue full; dropping push")
	}
}

// Register hands a new client to the hub. It returns false if the hub has
// stopped.
func (h *Hub) Register(ctx context.Context, c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	case <-ctx.Done():
		return false
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}
