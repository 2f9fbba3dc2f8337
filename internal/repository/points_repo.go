package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/smartsoil/teamhub/internal/leveling"
	"github.com/smartsoil/teamhub/internal/model"
)

// BuildAward receives the user's current counters under a row lock and
// returns the next counters plus the audit records to append. A nil prev
// means the user has never earned points.
type BuildAward func(prev *leveling.LedgerState) (leveling.LedgerState, []*model.PointActivity)

type PointsRepository interface {
	// Award applies one award atomically: it locks the user row, lets the
	// caller compute the next counters, persists them and appends the
	// activity records in the same transaction. Concurrent awards to the
	// same user serialize on the row lock.
	Award(ctx context.Context, userID uuid.UUID, build BuildAward) (*leveling.LedgerState, error)
	HistoryByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.PointActivity, error)
}

type pointsRepository struct {
	db *gorm.DB
}

func NewPointsRepository(db *gorm.DB) PointsRepository {
	return &pointsRepository{db: db}
}

func (r *pointsRepository) Award(ctx context.Context, userID uuid.UUID, build BuildAward) (*leveling.LedgerState, error) {
	var next leveling.LedgerState

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", userID).
			First(&user).Error; err != nil {
			return err
		}

		prev := ledgerState(&user)

		var activities []*model.PointActivity
		next, activities = build(prev)

		if err := tx.Model(&model.User{}).
			Where("id = ?", userID).
			Updates(map[string]interface{}{
				"points":        next.Points,
				"weekly_points": next.WeeklyPoints,
				"streak":        next.Streak,
				"last_active":   next.LastActive,
			}).Error; err != nil {
			return err
		}

		for _, activity := range activities {
			activity.UserID = userID
			if err := tx.Create(activity).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &next, nil
}

func (r *pointsRepository) HistoryByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.PointActivity, error) {
	var activities []*model.PointActivity
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

// ledgerState maps a user row to its counters. A user that has never been
// active has no ledger yet.
func ledgerState(user *model.User) *leveling.LedgerState {
	if user.LastActive == nil {
		return nil
	}
	return &leveling.LedgerState{
		Points:       user.Points,
		WeeklyPoints: user.WeeklyPoints,
		Streak:       user.Streak,
		LastActive:   *user.LastActive,
	}
}
