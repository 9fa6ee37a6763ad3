package model

import (
	"time"
)

// Role distinguishes the two account kinds on the platform.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleTeacher Role = "TEACHER"
)

// User represents a student or teacher account.
type User struct {
	ID               int       `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	Role             Role      `json:"role"`
	Grade            string    `json:"grade,omitempty"`
	XP               int       `json:"xp"`
	QuizzesCompleted int       `json:"quizzes_completed"`
	CreatedAt        time.Time `json:"created_at"`
}

// LoginRequest is the payload for student and teacher login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// RegisterStudentRequest is the payload for student self-registration.
type RegisterStudentRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Grade    string `json:"grade" binding:"required,max=20"`
}
