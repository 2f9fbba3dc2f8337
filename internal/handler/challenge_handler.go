package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/smartsoil/teamhub/internal/service"
	"github.com/smartsoil/teamhub/pkg/response"
)

type ChallengeHandler struct {
	service service.ChallengeService
}

func NewChallengeHandler(service service.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{service: service}
}

func (h *ChallengeHandler) ListActive(c *gin.Context) {
	challenges, err := h.service.ListActive(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": challenges})
}

func (h *ChallengeHandler) Complete(c *gin.Context) {
	challengeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid challenge id"})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	challenge, err := h.service.Complete(c.Request.Context(), userID, challengeID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": challenge})
}
