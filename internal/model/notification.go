package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a teacher announcement shown to students.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	AuthorID  int       `json:"author_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateNotificationRequest is the payload for publishing an announcement.
type CreateNotificationRequest struct {
	Title string `json:"title" binding:"required,min=1,max=255"`
	Body  string `json:"body" binding:"required,min=1,max=5000"`
}
