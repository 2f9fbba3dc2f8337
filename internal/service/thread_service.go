package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/smartsoil/teamhub/internal/dto"
	"github.com/smartsoil/teamhub/internal/model"
	"github.com/smartsoil/teamhub/internal/repository"
	"github.com/smartsoil/teamhub/pkg/apperror"
)

type ThreadService interface {
	CreateThread(ctx context.Context, userID uuid.UUID, req dto.CreateThreadRequest) (*model.Thread, error)
	UpdateThread(ctx context.Context, threadID uuid.UUID, req dto.UpdateThreadRequest) (*model.Thread, error)
	DeleteThread(ctx context.Context, threadID uuid.UUID) error
	GetThread(ctx context.Context, threadID uuid.UUID) (*model.Thread, error)
	ListThreads(ctx context.Context) ([]*model.Thread, error)
	SeedDefaults(ctx context.Context) error
}

type threadService struct {
	repo        repository.ThreadRepository
	redisClient *redis.Client
	search      SearchService
	rateLimit   time.Duration
}

func NewThreadService(repo repository.ThreadRepository, redisClient *redis.Client, search SearchService, rateLimit time.Duration) ThreadService {
	return &threadService{
		repo:        repo,
		redisClient: redisClient,
		search:      search,
		rateLimit:   rateLimit,
	}
}

func (s *threadService) CreateThread(ctx context.Context, userID uuid.UUID, req dto.CreateThreadRequest) (*model.Thread, error) {
	// Validation failures never reach the store.
	if err := s.ensureNameAvailable(ctx, req.Name, uuid.Nil); err != nil {
		return nil, err
	}

	allowed, err := CheckAndSetRateLimit(ctx, s.redisClient, userID, "create_thread", s.rateLimit)
	if err != nil {
		log.Printf("rate limit check failed for user %s: %v", userID, err)
	} else if !allowed {
		return nil, apperror.ErrRateLimitExceeded
	}

	thread := &model.Thread{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   userID,
	}

	if err := s.repo.Create(ctx, thread); err != nil {
		return nil, err
	}

	if s.search != nil {
		if err := s.search.IndexThread(thread); err != nil {
			log.Printf("failed to index thread %s: %v", thread.ID, err)
		}
	}

	return thread, nil
}

func (s *threadService) UpdateThread(ctx context.Context, threadID uuid.UUID, req dto.UpdateThreadRequest) (*model.Thread, error) {
	thread, err := s.repo.FindByID(ctx, threadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if thread.IsHome {
		return nil, fmt.Errorf("%w: the home thread cannot be edited", apperror.ErrForbidden)
	}

	if err := s.ensureNameAvailable(ctx, req.Name, threadID); err != nil {
		return nil, err
	}

	thread.Name = req.Name
	thread.Description = req.Description

	if err := s.repo.Update(ctx, thread); err != nil {
		return nil, err
	}

	if s.search != nil {
		if err := s.search.IndexThread(thread); err != nil {
			log.Printf("failed to reindex thread %s: %v", thread.ID, err)
		}
	}

	return thread, nil
}

func (s *threadService) DeleteThread(ctx context.Context, threadID uuid.UUID) error {
	thread, err := s.repo.FindByID(ctx, threadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if thread.IsHome {
		return fmt.Errorf("%w: the home thread cannot be deleted", apperror.ErrForbidden)
	}

	if err := s.repo.Delete(ctx, threadID); err != nil {
		return err
	}

	if s.search != nil {
		if err := s.search.DeleteThread(threadID.String()); err != nil {
			log.Printf("failed to remove thread %s from index: %v", threadID, err)
		}
	}

	return nil
}

func (s *threadService) GetThread(ctx context.Context, threadID uuid.UUID) (*model.Thread, error) {
	thread, err := s.repo.FindByID(ctx, threadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return thread, nil
}

func (s *threadService) ListThreads(ctx context.Context) ([]*model.Thread, error) {
	return s.repo.FindAll(ctx)
}

// SeedDefaults creates the built-in threads on an empty database: the home
// feed plus the task, milestone and leaderboard boards.
func (s *threadService) SeedDefaults(ctx context.Context) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []*model.Thread{
		{Name: "Home", Description: "All posts from all threads", IsHome: true},
		{Name: "Tasks", Description: "Task management and tracking", IsTaskThread: true},
		{Name: "Milestones", Description: "Project milestones and achievements"},
		{Name: "Leaderboard", Description: "User rankings and achievements"},
	}

	for _, thread := range defaults {
		if err := s.repo.Create(ctx, thread); err != nil {
			return err
		}
	}

	return nil
}

func (s *threadService) ensureNameAvailable(ctx context.Context, name string, selfID uuid.UUID) error {
	existing, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID == selfID {
		return nil
	}
	return fmt.Errorf("%w: a thread named %q already exists", apperror.ErrInvalidInput, name)
}
