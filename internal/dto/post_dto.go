package dto

import (
	"github.com/google/uuid"

	"github.com/smartsoil/teamhub/internal/model"
)

// CreatePostRequest is the closed post variant accepted at the boundary.
// Only "idea" and "task" may be created directly; completion posts are
// synthesized by the task state machine.
type CreatePostRequest struct {
	Type       string     `json:"type" binding:"required,oneof=idea task"`
	Title      string     `json:"title" binding:"required,min=2,max=255"`
	Content    string     `json:"content" binding:"max=10000"`
	AssignedTo *uuid.UUID `json:"assigned_to,omitempty"`
	PointValue *int       `json:"point_value,omitempty" binding:"omitempty,min=1,max=1000"`
}

type CreateReplyRequest struct {
	Content string `json:"content" binding:"required,min=1,max=5000"`
}

type AssignTaskRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

type ReactionRequest struct {
	Emoji string `json:"emoji" binding:"required"`
}

// CompletionResponse reports the outcome of completing a task: the points
// granted and a congratulatory message for the popup.
type CompletionResponse struct {
	Post    *model.Post `json:"post"`
	Awarded int         `json:"awarded"`
	Message string      `json:"message"`
}

type ReactionsResponse struct {
	Counts map[string]int64 `json:"counts"`
	Active bool             `json:"active"`
}
