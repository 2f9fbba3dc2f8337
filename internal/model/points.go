package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tracked activity types.
const (
	ActivityTaskComplete      = "task_complete"
	ActivityIdeaShared        = "idea_shared"
	ActivityReplyAdded        = "reply_added"
	ActivityTaskAssigned      = "task_assigned"
	ActivityStreakBonus       = "streak_bonus"
	ActivityChallengeComplete = "challenge_complete"
)

// ValidActivityType reports whether t is one of the tracked activity types.
func ValidActivityType(t string) bool {
	switch t {
	case ActivityTaskComplete, ActivityIdeaShared, ActivityReplyAdded,
		ActivityTaskAssigned, ActivityStreakBonus, ActivityChallengeComplete:
		return true
	}
	return false
}

// PointActivity is an append-only audit record. Rows are inserted when an
// award is granted and never updated or deleted afterwards.
type PointActivity struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;index:idx_activity_user_date,priority:1;not null" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Type        string    `gorm:"size:50;not null" json:"type"`
	Points      int       `gorm:"not null" json:"points"`
	Description string    `gorm:"type:text" json:"description"`
	RelatedID   *string   `gorm:"size:36" json:"related_id,omitempty"`
	CreatedAt   time.Time `gorm:"index:idx_activity_user_date,priority:2" json:"created_at"`
}

func (a *PointActivity) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID, err = uuid.NewV7()
	}
	return
}
