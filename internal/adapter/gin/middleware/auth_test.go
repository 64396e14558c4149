package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"user-registration-service/pkg/token"
)

func setupAuthRouter(t *testing.T, verifier TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth(verifier, zaptest.NewLogger(t)))
	r.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": c.GetString(UserIDKey)})
	})
	return r
}

func TestAuth_ValidToken(t *testing.T) {
	issuer := token.NewIssuer("test-secret", time.Hour)
	r := setupAuthRouter(t, issuer)

	tok, err := issuer.Issue("u1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"userId":"u1"`)
}

func TestAuth_MissingHeader(t *testing.T) {
	issuer := token.NewIssuer("test-secret", time.Hour)
	r := setupAuthRouter(t, issuer)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_MalformedHeader(t *testing.T) {
	issuer := token.NewIssuer("test-secret", time.Hour)
	r := setupAuthRouter(t, issuer)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_WrongSecret(t *testing.T) {
	issuer := token.NewIssuer("test-secret", time.Hour)
	other := token.NewIssuer("other-secret", time.Hour)
	r := setupAuthRouter(t, issuer)

	tok, err := other.Issue("u1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
