package handler

import (
	"io"
	"net/http"

	"github.com/brightpath/quizhall-backend/internal/middleware"
	"github.com/brightpath/quizhall-backend/internal/model"
	"github.com/brightpath/quizhall-backend/internal/response"
	"github.com/brightpath/quizhall-backend/internal/service"
	"github.com/brightpath/quizhall-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// NotificationHandler handles teacher announcements.
type NotificationHandler struct {
	notificationService *service.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// Create godoc
// POST /api/v1/teacher/notifications
// Publishes an announcement to all students.
func (h *NotificationHandler) Create(c *gin.Context) {
	var req model.CreateNotificationRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	claims := middleware.GetClaims(c)
	n, err := h.notificationService.Create(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"notification": n})
}

// Stream godoc
// GET /api/v1/student/notifications/stream
// Live announcement feed over Server-Sent Events. Authenticated via the
// ?token= query fallback since EventSource cannot send headers.
func (h *NotificationHandler) Stream(c *gin.Context) {
	pubsub := h.notificationService.Subscribe(c.Request.Context())
	defer pubsub.Close()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	ch := pubsub.Channel()
	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("notification", msg.Payload)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// List godoc
// GET /api/v1/student/notifications
// Returns the latest announcements.
func (h *NotificationHandler) List(c *gin.Context) {
	items, err := h.notificationService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"notifications": items})
}
