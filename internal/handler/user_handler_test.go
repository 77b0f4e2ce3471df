package handler

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"socialise/backend/internal/models"
	"socialise/backend/internal/service"
	"socialise/backend/internal/testutil"
	"socialise/backend/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodPost, "/api/v1/auth/register", nil, RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var reg TokenResponse
	decode(t, w, &reg)
	id, err := jwt.ParseToken(reg.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, reg.UserID, id)

	w = e.do(t, http.MethodPost, "/api/v1/auth/register", nil, RegisterInput{
		FirstName: "Ada",
		LastName:  "Again",
		Email:     "ada@example.com",
		Password:  "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = e.do(t, http.MethodPost, "/api/v1/auth/register", nil, map[string]string{"email": "bad"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodPost, "/api/v1/auth/login", nil, LoginInput{Email: "ada@example.com", Password: "password123"})
	require.Equal(t, http.StatusOK, w.Code)
	var login TokenResponse
	decode(t, w, &login)
	assert.Equal(t, reg.UserID, login.UserID)

	w = e.do(t, http.MethodPost, "/api/v1/auth/login", nil, LoginInput{Email: "ada@example.com", Password: "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfileVisibility(t *testing.T) {
	e := newTestEnv(t)
	alice := testutil.CreateUser(t, e.db, "Alice", "Smith")
	bob := testutil.CreateUser(t, e.db, "Bob", "Jones")

	hometown, hide := "Leeds", false
	_, err := e.svc.Users.UpdateProfile(context.Background(), alice.ID, service.ProfileUpdate{
		Hometown:     &hometown,
		ShowHometown: &hide,
	})
	require.NoError(t, err)
	path := fmt.Sprintf("/api/v1/users/%d", alice.ID)

	var own ProfileResponse
	w := e.do(t, http.MethodGet, path, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &own)
	require.NotNil(t, own.Hometown)
	assert.Equal(t, "Leeds", *own.Hometown)
	assert.Equal(t, alice.Email, own.Email)

	for name, viewer := range map[string]*models.User{"other user": bob, "anonymous": nil} {
		t.Run(name, func(t *testing.T) {
			var resp ProfileResponse
			w := e.do(t, http.MethodGet, path, viewer, nil)
			require.Equal(t, http.StatusOK, w.Code)
			decode(t, w, &resp)
			assert.Nil(t, resp.Hometown)
			assert.Empty(t, resp.Email)
			assert.NotNil(t, resp.Occupation)
			assert.Equal(t, "Alice", resp.FirstName)
		})
	}

	w = e.do(t, http.MethodGet, "/api/v1/users/999", alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateProfile(t *testing.T) {
	e := newTestEnv(t)
	alice := testutil.CreateUser(t, e.db, "Alice", "Smith")
	bob := testutil.CreateUser(t, e.db, "Bob", "Jones")
	path := fmt.Sprintf("/api/v1/users/%d", alice.ID)

	w := e.do(t, http.MethodPut, path, alice, map[string]interface{}{"occupation": "Engineer", "show_occupation": false})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp ProfileResponse
	decode(t, w, &resp)
	require.NotNil(t, resp.Occupation)
	assert.Equal(t, "Engineer", *resp.Occupation)
	require.NotNil(t, resp.ShowOccupation)
	assert.False(t, *resp.ShowOccupation)

	w = e.do(t, http.MethodPut, path, bob, map[string]interface{}{"occupation": "Hacker"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(t, http.MethodPut, path, alice, map[string]interface{}{"birth_month": 13})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
