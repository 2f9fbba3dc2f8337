package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartsoil/teamhub/internal/dto"
)

func newTestAuthService(users *fakeUserRepo) *authService {
	return &authService{
		repo:     users,
		secret:   "test-secret",
		tokenTTL: time.Hour,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(users)
	ctx := context.Background()

	res, err := svc.Register(ctx, dto.RegisterRequest{
		Email:    "dana@example.com",
		Password: "hunter2hunter2",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Bearer", res.TokenType)
	assert.NotEmpty(t, res.AccessToken)
	// The display name defaults to the email local part.
	assert.Equal(t, "dana", res.User.Name)
	assert.Empty(t, res.User.PasswordHash)
	assert.Zero(t, res.User.Points)
	assert.Zero(t, res.User.Streak)
	assert.Nil(t, res.User.LastActive)

	login, err := svc.Login(ctx, dto.LoginRequest{
		Email:    "dana@example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)
}

func TestRegisterWithExplicitName(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo())

	name := "Dana Soil"
	res, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email:    "dana@example.com",
		Password: "hunter2hunter2",
		Name:     &name,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Dana Soil", res.User.Name)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, dto.RegisterRequest{Email: "dana@example.com", Password: "hunter2hunter2"}, nil)
	require.NoError(t, err)

	_, err = svc.Register(ctx, dto.RegisterRequest{Email: "dana@example.com", Password: "otherpassword"}, nil)
	assert.EqualError(t, err, "email already registered")
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, dto.RegisterRequest{Email: "dana@example.com", Password: "hunter2hunter2"}, nil)
	require.NoError(t, err)

	// Wrong password and unknown email produce the same message.
	_, err = svc.Login(ctx, dto.LoginRequest{Email: "dana@example.com", Password: "wrong-password"})
	assert.EqualError(t, err, "invalid credentials")

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "nobody@example.com", Password: "hunter2hunter2"})
	assert.EqualError(t, err, "invalid credentials")
}

func TestTokenCarriesUserID(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo())

	res, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email:    "dana@example.com",
		Password: "hunter2hunter2",
	}, nil)
	require.NoError(t, err)

	token, err := jwt.ParseWithClaims(res.AccessToken, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims := token.Claims.(*jwt.RegisteredClaims)
	assert.Equal(t, res.User.ID.String(), claims.Subject)
}
