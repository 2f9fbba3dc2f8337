package service

import (
	"context"

	"github.com/smartsoil/teamhub/internal/dto"
	"github.com/smartsoil/teamhub/internal/leveling"
	"github.com/smartsoil/teamhub/internal/repository"
)

type LeaderboardService interface {
	GetLeaderboard(ctx context.Context, limit int, timeframe string) ([]dto.LeaderboardEntry, error)
}

type leaderboardService struct {
	users repository.UserRepository
}

func NewLeaderboardService(users repository.UserRepository) LeaderboardService {
	return &leaderboardService{users: users}
}

// GetLeaderboard ranks users by all-time points, or by the current week's
// points when timeframe is "weekly", and decorates each row with the
// leveling engine's outputs.
func (s *leaderboardService) GetLeaderboard(ctx context.Context, limit int, timeframe string) ([]dto.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	users, err := s.users.TopByPoints(ctx, limit, timeframe)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.LeaderboardEntry, 0, len(users))
	for i, user := range users {
		entries = append(entries, dto.LeaderboardEntry{
			Position:     i + 1,
			UserID:       user.ID.String(),
			Name:         user.Name,
			AvatarURL:    user.AvatarURL,
			Points:       user.Points,
			WeeklyPoints: user.WeeklyPoints,
			Streak:       user.Streak,
			Level:        leveling.GetUserLevel(user.Points),
			Progress:     leveling.GetLevelProgress(user.Points),
		})
	}

	return entries, nil
}
