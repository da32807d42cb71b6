package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mercic21/travelmate/logger"
	"github.com/mercic21/travelmate/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.InitLoggers()
	gin.SetMode(gin.TestMode)
	m.Run()
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(utils.GetJWTSecret())
	require.NoError(t, err)
	return signed
}

func newRouter() *gin.Engine {
	r := gin.New()
	r.GET("/protected", AuthMiddleware(), func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		c.JSON(http.StatusOK, gin.H{
			"user_id":  userID,
			"is_admin": utils.IsAdminFromContext(c),
		})
	})
	return r
}

func request(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter()
	userID := uuid.New().String()

	t.Run("ValidTokenSetsIdentity", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"user_id":  userID,
			"is_admin": true,
			"exp":      time.Now().Add(time.Hour).Unix(),
		})

		w := request(r, "Bearer "+token)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID)
		assert.Contains(t, w.Body.String(), `"is_admin":true`)
	})

	t.Run("MissingHeaderIsRejected", func(t *testing.T) {
		w := request(r, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("MalformedHeaderIsRejected", func(t *testing.T) {
		w := request(r, "Token abc")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("ExpiredTokenIsRejected", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"user_id": userID,
			"exp":     time.Now().Add(-time.Hour).Unix(),
		})

		w := request(r, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("TokenWithoutUserIDIsRejected", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		w := request(r, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("GarbageTokenIsRejected", func(t *testing.T) {
		w := request(r, "Bearer not.a.token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
