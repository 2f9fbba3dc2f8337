package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartsoil/teamhub/internal/dto"
	"github.com/smartsoil/teamhub/internal/leveling"
	"github.com/smartsoil/teamhub/internal/model"
	"github.com/smartsoil/teamhub/internal/repository"
	"github.com/smartsoil/teamhub/pkg/apperror"
	"github.com/smartsoil/teamhub/pkg/storage"
)

type ProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error)
	GetHistory(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.PointActivity, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req dto.UpdateProfileRequest, avatar *AvatarFile) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
}

type profileService struct {
	users        repository.UserRepository
	points       repository.PointsRepository
	imageStorage storage.ImageStorage
}

func NewProfileService(users repository.UserRepository, points repository.PointsRepository, imageStorage storage.ImageStorage) ProfileService {
	return &profileService{
		users:        users,
		points:       points,
		imageStorage: imageStorage,
	}
}

func (s *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	user.PasswordHash = ""

	return &dto.ProfileResponse{
		User:     user,
		Level:    leveling.GetUserLevel(user.Points),
		Progress: leveling.GetLevelProgress(user.Points),
	}, nil
}

func (s *profileService) GetHistory(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.PointActivity, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.points.HistoryByUser(ctx, userID, limit, offset)
}

func (s *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req dto.UpdateProfileRequest, avatar *AvatarFile) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if avatar != nil && avatar.Reader != nil && s.imageStorage != nil {
		url, err := s.imageStorage.UploadImage(ctx, avatar.Reader, "avatars", avatar.FileName)
		if err != nil {
			return nil, err
		}
		if err := s.users.UpdateAvatar(ctx, userID, url); err != nil {
			return nil, err
		}
		user.AvatarURL = &url
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		user.Name = strings.TrimSpace(*req.Name)
		if err := s.users.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *profileService) ListUsers(ctx context.Context) ([]*model.User, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		u.PasswordHash = ""
	}
	return users, nil
}
