package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"socialise/backend/internal/hub"
	"socialise/backend/internal/models"
	"socialise/backend/internal/service"
	"socialise/backend/internal/testutil"
	"socialise/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	svc    *service.Services
	hub    *hub.Hub
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	h := hub.NewHub()
	svc := service.NewServices(db, h, zap.NewNop(), 5*time.Second)
	router := NewRouter(RouterConfig{JWTSecret: testSecret, JWTTTL: time.Hour}, svc, h, zap.NewNop())
	return &testEnv{router: router, db: db, svc: svc, hub: h}
}

func tokenFor(t *testing.T, u *models.User) string {
	t.Helper()
	tok, err := jwt.GenerateToken(u.ID, testSecret, time.Hour)
	require.NoError(t, err)
	return tok
}

// do performs a request as user (nil for anonymous) and returns the recorder.
func (e *testEnv) do(t *testing.T, method, path string, user *models.User, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != nil {
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, user))
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestPing(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodGet, "/ping", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}
