package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User carries the point counters alongside identity. The counters are
// mutated exclusively through the points repository's Award transaction;
// Points never decreases.
type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string     `gorm:"size:100;not null" json:"name"`
	Email        string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	AvatarURL    *string    `gorm:"type:text" json:"avatar,omitempty"`
	Points       int        `gorm:"not null;default:0" json:"points"`
	WeeklyPoints int        `gorm:"not null;default:0" json:"weekly_points"`
	Streak       int        `gorm:"not null;default:0" json:"streak"`
	LastActive   *time.Time `json:"last_active,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
