package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post variants. The set is closed; anything else is rejected at the
// boundary before it reaches the ledger.
const (
	PostTypeIdea       = "idea"
	PostTypeTask       = "task"
	PostTypeCompletion = "completion"
)

// Emoji reactions allowed on posts.
var AllowedReactions = []string{"🚀", "🔥", "🤑"}

// Post is one entry in a thread. Task posts carry assignment and completion
// state; PointsAwarded latches once the completion award has been granted so
// repeated toggling can never award twice.
type Post struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ThreadID uuid.UUID `gorm:"type:uuid;not null;index" json:"thread_id"`
	Thread   Thread    `gorm:"foreignKey:ThreadID;constraint:OnDelete:CASCADE" json:"-"`
	Type     string    `gorm:"size:20;not null" json:"type"`
	Title    string    `gorm:"size:255;not null" json:"title"`
	Content  string    `gorm:"type:text" json:"content"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null" json:"author_id"`
	Author   User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`

	// Task fields.
	AssignedTo    *uuid.UUID `gorm:"type:uuid" json:"assigned_to,omitempty"`
	PointValue    *int       `json:"point_value,omitempty"`
	IsCompleted   bool       `gorm:"default:false" json:"is_completed"`
	PointsAwarded bool       `gorm:"default:false" json:"-"`

	// Completion-post fields.
	OriginalTaskID      *uuid.UUID `gorm:"type:uuid" json:"original_task_id,omitempty"`
	CompletedThreadName *string    `gorm:"size:100" json:"completed_thread_name,omitempty"`

	Replies   []Reply    `gorm:"foreignKey:PostID" json:"replies,omitempty"`
	Reactions []Reaction `gorm:"foreignKey:PostID" json:"reactions,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID, err = uuid.NewV7()
	}
	return
}

// Reply is a flat comment under a post.
type Reply struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;index" json:"post_id"`
	Post      Post      `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (r *Reply) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID, err = uuid.NewV7()
	}
	return
}

// Reaction is one user's emoji reaction on a post. Toggling removes it.
type Reaction struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reaction_once,priority:1" json:"post_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reaction_once,priority:2" json:"user_id"`
	Emoji     string    `gorm:"size:16;not null;uniqueIndex:idx_reaction_once,priority:3" json:"emoji"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (r *Reaction) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID, err = uuid.NewV7()
	}
	return
}
