package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartsoil/teamhub/internal/model"
	"github.com/smartsoil/teamhub/internal/repository"
	"github.com/smartsoil/teamhub/pkg/apperror"
)

type ChallengeService interface {
	ListActive(ctx context.Context) ([]*model.Challenge, error)
	Complete(ctx context.Context, userID, challengeID uuid.UUID) (*model.Challenge, error)
	SeedDefaults(ctx context.Context) error
}

type challengeService struct {
	repo   repository.ChallengeRepository
	ledger LedgerService
	now    func() time.Time
}

func NewChallengeService(repo repository.ChallengeRepository, ledger LedgerService) ChallengeService {
	return &challengeService{
		repo:   repo,
		ledger: ledger,
		now:    time.Now,
	}
}

func (s *challengeService) ListActive(ctx context.Context) ([]*model.Challenge, error) {
	return s.repo.FindActive(ctx)
}

// Complete grants the challenge reward at most once per user.
func (s *challengeService) Complete(ctx context.Context, userID, challengeID uuid.UUID) (*model.Challenge, error) {
	challenge, err := s.repo.FindByID(ctx, challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if !challenge.IsActive || s.now().After(challenge.EndDate) {
		return nil, fmt.Errorf("%w: challenge is no longer active", apperror.ErrInvalidInput)
	}

	done, err := s.repo.HasCompleted(ctx, challengeID, userID)
	if err != nil {
		return nil, err
	}
	if done {
		return nil, fmt.Errorf("%w: challenge already completed", apperror.ErrInvalidInput)
	}

	if err := s.repo.CreateCompletion(ctx, &model.ChallengeCompletion{
		ChallengeID: challengeID,
		UserID:      userID,
	}); err != nil {
		return nil, err
	}

	relatedID := challengeID.String()
	_, err = s.ledger.AwardPoints(ctx, userID, model.ActivityChallengeComplete,
		challenge.PointsReward, fmt.Sprintf("Completed challenge: %s", challenge.Title), &relatedID)
	if err != nil {
		// Release the completion so a retry can claim the reward; a row without
		// its points would lock the user out permanently.
		if delErr := s.repo.DeleteCompletion(ctx, challengeID, userID); delErr != nil {
			log.Printf("failed to release completion for challenge %s: %v", challengeID, delErr)
		}
		return nil, fmt.Errorf("failed to award challenge points: %w", err)
	}

	return challenge, nil
}

// SeedDefaults installs the starter challenges on an empty database.
func (s *challengeService) SeedDefaults(ctx context.Context) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := s.now()
	defaults := []*model.Challenge{
		{
			Title:        "Collaboration Champion",
			Description:  "Reply to at least 5 posts this week",
			PointsReward: 50,
			IsActive:     true,
			EndDate:      now.AddDate(0, 0, 7),
		},
		{
			Title:        "Idea Innovator",
			Description:  "Share 3 new ideas this week",
			PointsReward: 75,
			IsActive:     true,
			EndDate:      now.AddDate(0, 0, 7),
		},
		{
			Title:        "Task Terminator",
			Description:  "Complete 10 tasks before the end of the month",
			PointsReward: 100,
			IsActive:     true,
			EndDate:      now.AddDate(0, 0, 30),
		},
	}

	for _, challenge := range defaults {
		if err := s.repo.Create(ctx, challenge); err != nil {
			return err
		}
	}

	return nil
}
