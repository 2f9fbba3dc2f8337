package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/smartsoil/teamhub/internal/dto"
	"github.com/smartsoil/teamhub/internal/model"
	"github.com/smartsoil/teamhub/internal/repository"
	"github.com/smartsoil/teamhub/pkg/storage"
)

// AvatarFile is an uploaded avatar image.
type AvatarFile struct {
	Reader   io.Reader
	FileName string
}

type AuthService interface {
	Register(ctx context.Context, input dto.RegisterRequest, avatar *AvatarFile) (*dto.AuthResponse, error)
	Login(ctx context.Context, input dto.LoginRequest) (*dto.AuthResponse, error)
}

type authService struct {
	repo         repository.UserRepository
	imageStorage storage.ImageStorage
	secret       string
	tokenTTL     time.Duration
}

func NewAuthService(repo repository.UserRepository, imageStorage storage.ImageStorage) AuthService {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "change-me"
	}

	ttl := 24 * time.Hour
	if ttlStr := os.Getenv("JWT_TTL_MINUTES"); ttlStr != "" {
		if minutes, err := strconv.Atoi(ttlStr); err == nil {
			ttl = time.Duration(minutes) * time.Minute
		}
	}

	return &authService{
		repo:         repo,
		imageStorage: imageStorage,
		secret:       secret,
		tokenTTL:     ttl,
	}
}

func (s *authService) Register(ctx context.Context, input dto.RegisterRequest, avatar *AvatarFile) (*dto.AuthResponse, error) {
	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, errors.New("email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	name := defaultName(input.Email)
	if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
		name = strings.TrimSpace(*input.Name)
	}

	var avatarURL *string
	if avatar != nil && avatar.Reader != nil && s.imageStorage != nil {
		url, err := s.imageStorage.UploadImage(ctx, avatar.Reader, "avatars", avatar.FileName)
		if err != nil {
			return nil, err
		}
		avatarURL = &url
	}

	// Counters start at zero; the ledger creates the first real state on
	// the first point-earning action.
	user := &model.User{
		Name:         name,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		AvatarURL:    avatarURL,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.buildAuthResponse(user)
}

func (s *authService) Login(ctx context.Context, input dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, errors.New("invalid credentials")
	}

	return s.buildAuthResponse(user)
}

func (s *authService) buildAuthResponse(user *model.User) (*dto.AuthResponse, error) {
	token, expiresAt, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""

	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresAt,
		User:        user,
	}, nil
}

func (s *authService) generateToken(user *model.User) (string, int64, error) {
	expiresAt := time.Now().Add(s.tokenTTL)

	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", 0, err
	}

	return signed, expiresAt.Unix(), nil
}

// defaultName derives a display name from the email local part.
func defaultName(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
