package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/smartsoil/teamhub/internal/leveling"
	"github.com/smartsoil/teamhub/internal/model"
	"github.com/smartsoil/teamhub/internal/repository"
	"github.com/smartsoil/teamhub/pkg/apperror"
)

// LedgerService applies the point economy: it computes and persists the
// counter deltas for one tracked activity and appends the audit trail.
type LedgerService interface {
	AwardPoints(ctx context.Context, userID uuid.UUID, activityType string, points int, description string, relatedID *string) (*leveling.LedgerState, error)
}

type ledgerService struct {
	points        repository.PointsRepository
	notifications NotificationService
	now           func() time.Time
}

func NewLedgerService(points repository.PointsRepository, notifications NotificationService) LedgerService {
	return &ledgerService{
		points:        points,
		notifications: notifications,
		now:           time.Now,
	}
}

// AwardPoints runs the whole award in one transaction: streak and weekly
// rules, the all-time total, the main activity record, and the streak bonus
// when the streak extends. Notifications go out only after the write has
// committed, so a failed award leaves nothing behind to reconcile.
func (s *ledgerService) AwardPoints(ctx context.Context, userID uuid.UUID, activityType string, points int, description string, relatedID *string) (*leveling.LedgerState, error) {
	if !model.ValidActivityType(activityType) {
		return nil, fmt.Errorf("%w: unknown activity type %q", apperror.ErrInvalidInput, activityType)
	}
	if points < 0 {
		return nil, fmt.Errorf("%w: negative point award", apperror.ErrInvalidInput)
	}

	now := s.now()
	var previousPoints int

	next, err := s.points.Award(ctx, userID, func(prev *leveling.LedgerState) (leveling.LedgerState, []*model.PointActivity) {
		if prev != nil {
			previousPoints = prev.Points
		}

		next := leveling.NextLedger(prev, points, now)
		activities := []*model.PointActivity{{
			Type:        activityType,
			Points:      points,
			Description: description,
			RelatedID:   relatedID,
		}}

		// The streak bonus rides in the same transaction as the award that
		// extended the streak, so a second NextLedger pass never resets it.
		if prev != nil && next.Streak > prev.Streak {
			bonus := leveling.StreakBonus(next.Streak)
			next.Points += bonus
			next.WeeklyPoints += bonus
			activities = append(activities, &model.PointActivity{
				Type:        model.ActivityStreakBonus,
				Points:      bonus,
				Description: fmt.Sprintf("%d day streak bonus", next.Streak),
			})
		}

		return next, activities
	})
	if err != nil {
		return nil, err
	}

	s.notifyAward(ctx, userID, points, description)

	if leveling.GetUserLevel(next.Points).Level > leveling.GetUserLevel(previousPoints).Level {
		s.notifyLevelUp(ctx, userID, next.Points)
	}

	return next, nil
}

func (s *ledgerService) notifyAward(ctx context.Context, userID uuid.UUID, points int, description string) {
	if s.notifications == nil {
		return
	}
	err := s.notifications.Notify(ctx, &model.Notification{
		UserID:  userID,
		Type:    model.NotificationPointsAwarded,
		Message: description,
		Points:  points,
	})
	if err != nil {
		log.Printf("failed to send points notification to user %s: %v", userID, err)
	}
}

func (s *ledgerService) notifyLevelUp(ctx context.Context, userID uuid.UUID, totalPoints int) {
	if s.notifications == nil {
		return
	}
	lvl := leveling.GetUserLevel(totalPoints)
	err := s.notifications.Notify(ctx, &model.Notification{
		UserID:  userID,
		Type:    model.NotificationLevelUp,
		Message: fmt.Sprintf("You reached level %d: %s!", lvl.Level, lvl.Title),
	})
	if err != nil {
		log.Printf("failed to send level up notification to user %s: %v", userID, err)
	}
}
