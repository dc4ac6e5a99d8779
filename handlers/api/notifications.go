package api

import (
	"bufio"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"lilmail/mailbox"
	"lilmail/middleware"
	"lilmail/utils"
)

// Notification is a mailbox event as pushed to a live client
type Notification struct {
	ID      string                 `json:"id"`
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
	Time    time.Time              `json:"time"`
}

// NewNotification converts a mailbox event into a push notification
func NewNotification(ev mailbox.Event) Notification {
	n := Notification{
		ID:   uuid.New().String(),
		Type: string(ev.Kind),
		Data: make(map[string]interface{}),
		Time: time.Now(),
	}
	if ev.MessageID != 0 {
		n.Data["message_id"] = ev.MessageID
	}

	switch ev.Kind {
	case mailbox.EventMessageSent:
		n.Message = "Email sent successfully"
		n.Data["subject"] = ev.Message.Subject
	case mailbox.EventMessageDeleted:
		n.Message = "Email deleted"
	case mailbox.EventMessageRead:
		n.Message = "Email status changed"
		n.Data["status"] = "read"
	case mailbox.EventStarToggled:
		n.Message = "Email status changed"
		if ev.Message.Starred {
			n.Data["status"] = "starred"
		} else {
			n.Data["status"] = "unstarred"
		}
	case mailbox.EventFolderChanged:
		n.Message = "Folder changed"
		n.Data["folder"] = ev.Folder
	case mailbox.EventDraftUpdated:
		n.Message = "Draft updated"
		n.Data["field"] = ev.Field
	case mailbox.EventReplyRequested:
		n.Message = "Reply"
	default:
		n.Message = string(ev.Kind)
	}
	return n
}

// NotificationHandler streams a mailbox's own events over SSE or WebSocket
type NotificationHandler struct {
	active int64
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler() *NotificationHandler {
	return &NotificationHandler{}
}

// Active returns the number of open streams
func (h *NotificationHandler) Active() int {
	return int(atomic.LoadInt64(&h.active))
}

// Subscribe attaches a buffered channel to a mailbox session.
// The channel is never closed; call cancel to stop deliveries.
func (h *NotificationHandler) Subscribe(m *mailbox.Session) (string, <-chan Notification, func()) {
	subscriberID := uuid.New().String()
	ch := make(chan Notification, 10)

	unsubscribe := m.Subscribe(func(ev mailbox.Event) {
		select {
		case ch <- NewNotification(ev):
		default:
			utils.Log.Warn("Notification channel full for subscriber %s", subscriberID)
		}
	})
	atomic.AddInt64(&h.active, 1)

	var done int32
	cancel := func() {
		if atomic.CompareAndSwapInt32(&done, 0, 1) {
			unsubscribe()
			atomic.AddInt64(&h.active, -1)
		}
	}
	return subscriberID, ch, cancel
}

// HandleSSE streams notifications as Server-Sent Events
func (h *NotificationHandler) HandleSSE(c *fiber.Ctx) error {
	m := middleware.Mailbox(c)

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("Transfer-Encoding", "chunked")

	subscriberID, ch, cancel := h.Subscribe(m)
	log := utils.Log.WithFields(map[string]interface{}{"mailbox": m.ID(), "subscriber": subscriberID})
	log.Info("SSE subscriber connected")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer func() {
			cancel()
			log.Info("SSE subscriber disconnected")
		}()

		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		fmt.Fprintf(w, ": connected\n\n")
		if err := w.Flush(); err != nil {
			return
		}

		for {
			select {
			case notification := <-ch:
				data, err := json.Marshal(notification)
				if err != nil {
					log.Error("Failed to encode notification: %v", err)
					continue
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", notification.Type, data)
			case <-ticker.C:
				fmt.Fprintf(w, ": keepalive\n\n")
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	}))

	return nil
}

// UpgradeWebSocket only lets WebSocket upgrade requests through
func (h *NotificationHandler) UpgradeWebSocket(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// HandleWebSocket pushes notifications as JSON frames until the client goes away
func (h *NotificationHandler) HandleWebSocket(c *websocket.Conn) {
	m, ok := c.Locals(middleware.LocalsMailbox).(*mailbox.Session)
	if !ok {
		c.Close()
		return
	}

	subscriberID, ch, cancel := h.Subscribe(m)
	log := utils.Log.WithFields(map[string]interface{}{"mailbox": m.ID(), "subscriber": subscriberID})

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	defer func() {
		cancel()
		c.Close()
		log.Info("WebSocket subscriber disconnected")
	}()

	log.Info("WebSocket subscriber connected")

	for {
		select {
		case notification := <-ch:
			if err := c.WriteJSON(notification); err != nil {
				log.Error("Failed to send WebSocket notification: %v", err)
				return
			}
		case <-closed:
			return
		}
	}
}
