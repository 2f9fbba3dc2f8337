package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification types.
const (
	NotificationPointsAwarded = "points_awarded"
	NotificationLevelUp       = "level_up"
	NotificationTaskAssigned  = "task_assigned"
)

// Notification is a transient message surfaced to one user. points_awarded
// notifications carry the amount so clients can render the popup.
type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      string    `gorm:"size:50;not null" json:"type"`
	Message   string    `gorm:"type:text" json:"message"`
	Points    int       `gorm:"default:0" json:"points"`
	IsRead    bool      `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID, err = uuid.NewV7()
	}
	return
}
