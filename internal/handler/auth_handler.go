package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartsoil/teamhub/internal/dto"
	"github.com/smartsoil/teamhub/internal/service"
	"github.com/smartsoil/teamhub/pkg/response"
	"github.com/smartsoil/teamhub/pkg/validator"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register accepts JSON or multipart form data; the multipart variant may
// carry an avatar image.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	var avatar *service.AvatarFile
	if file, err := c.FormFile("avatar"); err == nil {
		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read avatar file"})
			return
		}
		defer src.Close()
		avatar = &service.AvatarFile{Reader: src, FileName: file.Filename}
	}

	res, err := h.authService.Register(c.Request.Context(), req, avatar)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	res, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
