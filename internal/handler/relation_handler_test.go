package handler

import (
	"fmt"
	"net/http"
	"testing"

	"socialise/backend/internal/models"
	"socialise/backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statusPath(a, b *models.User) string {
	return fmt.Sprintf("/api/v1/friends/status/%d/%d", a.ID, b.ID)
}

func TestFriendRequestFlow(t *testing.T) {
	e := newTestEnv(t)
	alice := testutil.CreateUser(t, e.db, "Alice", "Smith")
	bob := testutil.CreateUser(t, e.db, "Bob", "Jones")

	w := e.do(t, http.MethodPost, fmt.Sprintf("/api/v1/friends/add/%d/%d", alice.ID, bob.ID), alice, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created CreatedResponse
	decode(t, w, &created)
	assert.NotZero(t, created.ID)

	w = e.do(t, http.MethodGet, statusPath(alice, bob), alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"areFriends":false,"hasPendingFromA":true,"hasPendingFromB":false}`, w.Body.String())

	// A second request is rejected.
	w = e.do(t, http.MethodPost, fmt.Sprintf("/api/v1/friends/add/%d/%d", alice.ID, bob.ID), alice, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodPost, fmt.Sprintf("/api/v1/friends/accept/%d/%d", bob.ID, alice.ID), bob, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = e.do(t, http.MethodGet, statusPath(alice, bob), alice, nil)
	assert.JSONEq(t, `{"areFriends":true,"hasPendingFromA":false,"hasPendingFromB":false}`, w.Body.String())

	w = e.do(t, http.MethodGet, fmt.Sprintf("/api/v1/friends/%d", bob.ID), alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var friends []UserSummary
	decode(t, w, &friends)
	require.Len(t, friends, 1)
	assert.Equal(t, alice.ID, friends[0].ID)

	var notifications []NotificationResponse
	w = e.do(t, http.MethodGet, fmt.Sprintf("/api/v1/users/%d/notifications", alice.ID), alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &notifications)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationFriendRequestAccepted, notifications[0].Type)
	assert.Equal(t, "Bob", notifications[0].Sender.FirstName)

	for i := 0; i < 2; i++ {
		w = e.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/friends/remove/%d/%d", alice.ID, bob.ID), alice, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	}
	for _, path := range []string{statusPath(alice, bob), statusPath(bob, alice)} {
		w = e.do(t, http.MethodGet, path, alice, nil)
		assert.JSONEq(t, `{"areFriends":false,"hasPendingFromA":false,"hasPendingFromB":false}`, w.Body.String())
	}
}

func TestDenyAndCancel(t *testing.T) {
	e := newTestEnv(t)
	alice := testutil.CreateUser(t, e.db, "Alice", "Smith")
	bob := testutil.CreateUser(t, e.db, "Bob", "Jones")

	w := e.do(t, http.MethodPost, fmt.Sprintf("/api/v1/friends/deny/%d/%d", bob.ID, alice.ID), bob, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodPost, fmt.Sprintf("/api/v1/friends/add/%d/%d", alice.ID, bob.ID), alice, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	w = e.do(t, http.MethodPost, fmt.Sprintf("/api/v1/friends/deny/%d/%d", bob.ID, alice.ID), bob, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, http.MethodPost, fmt.Sprintf("/api/v1/friends/add/%d/%d", alice.ID, bob.ID), alice, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	w = e.do(t, http.MethodPost, fmt.Sprintf("/api/v1/friends/cancel/%d/%d", alice.ID, bob.ID), alice, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, http.MethodGet, statusPath(alice, bob), alice, nil)
	assert.JSONEq(t, `{"areFriends":false,"hasPendingFromA":false,"hasPendingFromB":false}`, w.Body.String())
}

func TestFriendRoutes_Errors(t *testing.T) {
	e := newTestEnv(t)
	alice := testutil.CreateUser(t, e.db, "Alice", "Smith")
	bob := testutil.CreateUser(t, e.db, "Bob", "Jones")

	tests := []struct {
		name   string
		method string
		path   string
		user   *models.User
		status int
	}{
		{"anonymous", http.MethodGet, statusPath(alice, bob), nil, http.StatusUnauthorized},
		{"unknown user status", http.MethodGet, fmt.Sprintf("/api/v1/friends/status/%d/999", alice.ID), alice, http.StatusNotFound},
		{"acting for someone else", http.MethodPost, fmt.Sprintf("/api/v1/friends/add/%d/%d", bob.ID, alice.ID), alice, http.StatusForbidden},
		{"request to self", http.MethodPost, fmt.Sprintf("/api/v1/friends/add/%d/%d", alice.ID, alice.ID), alice, http.StatusBadRequest},
		{"request to unknown user", http.MethodPost, fmt.Sprintf("/api/v1/friends/add/%d/999", alice.ID), alice, http.StatusNotFound},
		{"bad id", http.MethodGet, fmt.Sprintf("/api/v1/friends/status/%d/abc", alice.ID), alice, http.StatusBadRequest},
		{"list unknown user", http.MethodGet, "/api/v1/friends/999", alice, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := e.do(t, tt.method, tt.path, tt.user, nil)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}
