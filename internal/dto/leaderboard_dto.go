package dto

import "github.com/smartsoil/teamhub/internal/leveling"

// LeaderboardEntry is one ranked row with the leveling engine's outputs.
type LeaderboardEntry struct {
	Position     int            `json:"position"`
	UserID       string         `json:"user_id"`
	Name         string         `json:"name"`
	AvatarURL    *string        `json:"avatar,omitempty"`
	Points       int            `json:"points"`
	WeeklyPoints int            `json:"weekly_points"`
	Streak       int            `json:"streak"`
	Level        leveling.Level `json:"level"`
	Progress     int            `json:"progress"`
}
