package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/TimotejZavski/room-booking-system/internal/handler/middleware"
	"github.com/TimotejZavski/room-booking-system/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testJWT = config.NewTestConfig().JWT

func signedToken(t *testing.T, secret, subject string, expiresIn time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(expiresIn).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newProtectedServer() *gin.Engine {
	gin.SetMode(gin.TestMode)
	auth := middleware.NewAuthMiddleware(testJWT)

	engine := gin.New()
	engine.GET("/protected", auth.RequireAdmin(), func(c *gin.Context) {
		subject, _ := middleware.GetAdminSubject(c)
		c.JSON(http.StatusOK, gin.H{"subject": subject})
	})
	return engine
}

func TestRequireAdmin(t *testing.T) {
	engine := newProtectedServer()

	do := func(authHeader string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		return rec
	}

	t.Run("valid token passes and exposes the subject", func(t *testing.T) {
		token := signedToken(t, testJWT.Secret, "admin", time.Hour)

		rec := do("Bearer " + token)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"subject":"admin"}`, rec.Body.String())
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		rec := do("")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("non-bearer scheme is rejected", func(t *testing.T) {
		rec := do("Basic abc123")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong signing key is rejected", func(t *testing.T) {
		token := signedToken(t, "other-secret", "admin", time.Hour)

		rec := do("Bearer " + token)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		token := signedToken(t, testJWT.Secret, "admin", -time.Hour)

		rec := do("Bearer " + token)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unsigned token is rejected", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "admin"})
		unsigned, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		rec := do("Bearer " + unsigned)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
