package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartsoil/teamhub/internal/model"
)

type ChallengeRepository interface {
	Create(ctx context.Context, challenge *model.Challenge) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Challenge, error)
	FindActive(ctx context.Context) ([]*model.Challenge, error)
	HasCompleted(ctx context.Context, challengeID, userID uuid.UUID) (bool, error)
	CreateCompletion(ctx context.Context, completion *model.ChallengeCompletion) error
	DeleteCompletion(ctx context.Context, challengeID, userID uuid.UUID) error
	CompletionsByUser(ctx context.Context, userID uuid.UUID) ([]*model.ChallengeCompletion, error)
	Count(ctx context.Context) (int64, error)
}

type challengeRepository struct {
	db *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) ChallengeRepository {
	return &challengeRepository{db: db}
}

func (r *challengeRepository) Create(ctx context.Context, challenge *model.Challenge) error {
	return r.db.WithContext(ctx).Create(challenge).Error
}

func (r *challengeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Challenge, error) {
	var challenge model.Challenge
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&challenge).Error; err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (r *challengeRepository) FindActive(ctx context.Context) ([]*model.Challenge, error) {
	var challenges []*model.Challenge
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("end_date ASC").
		Find(&challenges).Error; err != nil {
		return nil, err
	}
	return challenges, nil
}

func (r *challengeRepository) HasCompleted(ctx context.Context, challengeID, userID uuid.UUID) (bool, error) {
	var completion model.ChallengeCompletion
	err := r.db.WithContext(ctx).
		Where("challenge_id = ? AND user_id = ?", challengeID, userID).
		First(&completion).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *challengeRepository) CreateCompletion(ctx context.Context, completion *model.ChallengeCompletion) error {
	return r.db.WithContext(ctx).Create(completion).Error
}

func (r *challengeRepository) DeleteCompletion(ctx context.Context, challengeID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("challenge_id = ? AND user_id = ?", challengeID, userID).
		Delete(&model.ChallengeCompletion{}).Error
}

func (r *challengeRepository) CompletionsByUser(ctx context.Context, userID uuid.UUID) ([]*model.ChallengeCompletion, error) {
	var completions []*model.ChallengeCompletion
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&completions).Error; err != nil {
		return nil, err
	}
	return completions, nil
}

func (r *challengeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Challenge{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
