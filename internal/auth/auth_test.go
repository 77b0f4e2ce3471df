package auth

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"socialise/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func token(t *testing.T, userID uint) string {
	t.Helper()
	tok, err := jwt.GenerateToken(userID, secret, time.Hour)
	require.NoError(t, err)
	return tok
}

func whoami(c *gin.Context) {
	id, ok := UserID(c)
	if !ok {
		c.String(http.StatusOK, "anonymous")
		return
	}
	c.String(http.StatusOK, fmt.Sprint(id))
}

func TestMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/me", Middleware(secret), whoami)

	tests := []struct {
		name   string
		setup  func(*http.Request)
		status int
		body   string
	}{
		{"header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token(t, 7)) }, http.StatusOK, "7"},
		{"query", func(r *http.Request) { r.URL.RawQuery = "access_token=" + token(t, 8) }, http.StatusOK, "8"},
		{"missing", func(*http.Request) {}, http.StatusUnauthorized, ""},
		{"malformed header", func(r *http.Request) { r.Header.Set("Authorization", "Token abc") }, http.StatusUnauthorized, ""},
		{"bad token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer abc") }, http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestOptionalMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/me", OptionalMiddleware(secret), whoami)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, "anonymous", w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, 3))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "3", w.Body.String())
}

func TestRequireSelf(t *testing.T) {
	r := gin.New()
	r.POST("/friends/add/:userId/:otherUserId", Middleware(secret), RequireSelf("userId"), whoami)

	do := func(path string) int {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.Header.Set("Authorization", "Bearer "+token(t, 5))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("/friends/add/5/6"))
	assert.Equal(t, http.StatusForbidden, do("/friends/add/6/5"))
	assert.Equal(t, http.StatusBadRequest, do("/friends/add/me/5"))
}
