package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Challenge is a time-boxed milestone worth a fixed reward.
type Challenge struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	PointsReward int       `gorm:"not null" json:"points_reward"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	EndDate      time.Time `json:"end_date"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (c *Challenge) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	return
}

// ChallengeCompletion records that a user finished a challenge. The unique
// index makes the reward one-shot per user.
type ChallengeCompletion struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ChallengeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_challenge_once,priority:1" json:"challenge_id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_challenge_once,priority:2" json:"user_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (c *ChallengeCompletion) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	return
}
