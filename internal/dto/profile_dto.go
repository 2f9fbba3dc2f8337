package dto

import (
	"github.com/smartsoil/teamhub/internal/leveling"
	"github.com/smartsoil/teamhub/internal/model"
)

// ProfileResponse is the authenticated user's standing: counters plus the
// leveling engine's pure outputs.
type ProfileResponse struct {
	User     *model.User    `json:"user"`
	Level    leveling.Level `json:"level"`
	Progress int            `json:"progress"`
}

type UpdateProfileRequest struct {
	Name *string `json:"name" form:"name" binding:"omitempty,min=2,max=100"`
}

type HistoryResponse struct {
	Activities []*model.PointActivity `json:"activities"`
}
