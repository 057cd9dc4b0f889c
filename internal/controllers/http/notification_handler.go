package http

import (
	"fmt"
	"net/http"
	"time"

	"dealer-console/internal/domain"
	"dealer-console/internal/sse"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var heartbeatInterval = 30 * time.Second

func (h *Handler) ListNotifications(c *gin.Context) {
	var q NotificationListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	list, err := h.notifications.List(c.Request.Context(), capabilities(c), q.UnreadOnly, q.Limit)
	if list == nil && err == nil {
		list = []domain.Notification{}
	}
	respond(c, http.StatusOK, list, err)
}

func (h *Handler) UnreadCount(c *gin.Context) {
	n, err := h.notifications.UnreadCount(c.Request.Context(), capabilities(c))
	respond(c, http.StatusOK, UnreadCountResponse{Unread: n}, err)
}

func (h *Handler) MarkRead(c *gin.Context) {
	id, ok := idParam(c, "notificationId")
	if !ok {
		return
	}
	err := h.notifications.MarkRead(c.Request.Context(), capabilities(c), id)
	respond(c, http.StatusOK, nil, err)
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	n, err := h.notifications.MarkAllRead(c.Request.Context(), capabilities(c))
	respond(c, http.StatusOK, MarkAllReadResponse{Updated: n}, err)
}

// Stream pushes toast events to the browser until it disconnects.
// GET /api/notifications/stream?token=xxx
func (h *Handler) Stream(c *gin.Context) {
	caps := capabilities(c)
	client := &sse.Client{
		ID:     uuid.NewString(),
		UserID: caps.UserID,
		Events: make(chan sse.Event, 64),
	}
	h.hub.Register(client)
	defer h.hub.Unregister(client.ID)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	fmt.Fprintf(c.Writer, "event: connected\ndata: {\"clientId\":%q}\n\n", client.ID)
	c.Writer.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case event, ok := <-client.Events:
			if !ok {
				return
			}
			fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event.EventType, event.Data)
			c.Writer.Flush()
		case <-heartbeat.C:
			fmt.Fprint(c.Writer, ": keepalive\n\n")
			c.Writer.Flush()
		}
	}
}
