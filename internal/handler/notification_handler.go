package handler

import (
	"fmt"
	"net/http"
	"time"

	"socialise/backend/internal/auth"
	"socialise/backend/internal/hub"
	"socialise/backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const keepAliveInterval = 30 * time.Second

// NotificationHandler serves the notification ledger and the live stream.
type NotificationHandler struct {
	ledger *service.NotificationLedger
	broker hub.Broker
	log    *zap.Logger

	keepAlive time.Duration
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(ledger *service.NotificationLedger, broker hub.Broker, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{ledger: ledger, broker: broker, log: log, keepAlive: keepAliveInterval}
}

// UnreadCountResponse is the number of unread notifications.
type UnreadCountResponse struct {
	Unread int64 `json:"unread" example:"3"`
}

// CountResponse reports how many notifications an operation affected.
type CountResponse struct {
	Count int64 `json:"count" example:"3"`
}

// List godoc
// @Summary      List notifications
// @Description  Returns the user's notifications, most recent first, with the sender resolved.
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      int  true  "User ID (must be you)"
// @Success      200     {array}   NotificationResponse
// @Failure      403     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /users/{userId}/notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	list, err := h.ledger.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]NotificationResponse, 0, len(list))
	for _, n := range list {
		resp = append(resp, buildNotificationResponse(n))
	}
	c.JSON(http.StatusOK, resp)
}

// UnreadCount godoc
// @Summary      Count unread notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      int  true  "User ID (must be you)"
// @Success      200     {object}  UnreadCountResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /users/{userId}/notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	n, err := h.ledger.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, UnreadCountResponse{Unread: n})
}

// MarkAllRead godoc
// @Summary      Mark all notifications read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      int  true  "User ID (must be you)"
// @Success      200     {object}  CountResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /users/{userId}/notifications/read [put]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	n, err := h.ledger.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, CountResponse{Count: n})
}

// DeleteAll godoc
// @Summary      Delete all notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      int  true  "User ID (must be you)"
// @Success      200     {object}  CountResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /users/{userId}/notifications [delete]
func (h *NotificationHandler) DeleteAll(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	n, err := h.ledger.DeleteAll(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, CountResponse{Count: n})
}

// ownNotification loads the notification named by the path and checks that it
// is addressed to the caller.
func (h *NotificationHandler) ownNotification(c *gin.Context) (uint, bool) {
	id, ok := paramID(c, "notificationId")
	if !ok {
		return 0, false
	}
	viewerID, _ := auth.UserID(c)

	n, err := h.ledger.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return 0, false
	}
	if n.RecipientID != viewerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This notification is not addressed to you"})
		return 0, false
	}
	return id, true
}

// MarkRead godoc
// @Summary      Mark a notification read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        notificationId  path      int  true  "Notification ID"
// @Success      200             {object}  NotificationResponse
// @Failure      403             {object}  ErrorResponse
// @Failure      404             {object}  ErrorResponse
// @Router       /notifications/{notificationId}/read [put]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := h.ownNotification(c)
	if !ok {
		return
	}
	n, err := h.ledger.MarkRead(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildNotificationResponse(*n))
}

// Delete godoc
// @Summary      Delete a notification
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        notificationId  path      int  true  "Notification ID"
// @Success      200             {object}  MessageResponse
// @Failure      403             {object}  ErrorResponse
// @Failure      404             {object}  ErrorResponse
// @Router       /notifications/{notificationId} [delete]
func (h *NotificationHandler) Delete(c *gin.Context) {
	id, ok := h.ownNotification(c)
	if !ok {
		return
	}
	if err := h.ledger.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Notification deleted"})
}

// Stream godoc
// @Summary      Stream new notifications
// @Description  Server-sent events; each "notification" event carries a new notification. The token may be passed as the access_token query parameter.
// @Tags         notifications
// @Produce      text/event-stream
// @Security     BearerAuth
// @Param        userId  path  int  true  "User ID (must be you)"
// @Success      200
// @Router       /users/{userId}/notifications/stream [get]
func (h *NotificationHandler) Stream(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	events, unsubscribe, err := h.broker.Subscribe(ctx, userID)
	if err != nil {
		h.log.Error("notification subscribe failed", zap.Uint("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error."})
		return
	}
	defer unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	fmt.Fprint(c.Writer, "event: connected\ndata: {}\n\n")
	c.Writer.Flush()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", service.EventNotification, msg)
			c.Writer.Flush()
		case <-ticker.C:
			fmt.Fprint(c.Writer, ": keepalive\n\n")
			c.Writer.Flush()
		case <-ctx.Done():
			return
		}
	}
}
