package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/smartsoil/teamhub/internal/service"
	"github.com/smartsoil/teamhub/pkg/response"
)

type LeaderboardHandler struct {
	service service.LeaderboardService
}

func NewLeaderboardHandler(service service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{service: service}
}

// GetLeaderboard supports ?timeframe=weekly for the weekly ranking and an
// optional ?limit= row cap.
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	limit := 10
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}

	timeframe := c.DefaultQuery("timeframe", "all")

	entries, err := h.service.GetLeaderboard(c.Request.Context(), limit, timeframe)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}
