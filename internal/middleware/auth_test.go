package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, subject string, ttl time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newTestRouter(m *AuthMiddleware) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", m.RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id")})
	})
	return router
}

func TestRequireAuthBearerHeader(t *testing.T) {
	m := &AuthMiddleware{secret: "test-secret"}
	router := newTestRouter(m)

	userID := uuid.New().String()
	token := signToken(t, "test-secret", userID, time.Hour)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID)
}

func TestRequireAuthQueryToken(t *testing.T) {
	m := &AuthMiddleware{secret: "test-secret"}
	router := newTestRouter(m)

	token := signToken(t, "test-secret", uuid.New().String(), time.Hour)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected?token="+token, nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuthRejects(t *testing.T) {
	m := &AuthMiddleware{secret: "test-secret"}
	router := newTestRouter(m)

	cases := map[string]func(req *http.Request){
		"missing token": func(req *http.Request) {},
		"malformed header": func(req *http.Request) {
			req.Header.Set("Authorization", "Token abc")
		},
		"wrong secret": func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", "x", time.Hour))
		},
		"expired token": func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+signToken(t, "test-secret", "x", -time.Hour))
		},
	}

	for name, setup := range cases {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			setup(req)
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
