package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"socialise/backend/internal/errs"
	"socialise/backend/internal/hub"
	"socialise/backend/internal/models"
	"socialise/backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSendRequest_SetsPendingStatus(t *testing.T) {
	svc, db, _ := setupServices(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "Alice", "Smith")
	bob := testutil.CreateUser(t, db, "Bob", "Jones")

	n, err := svc.Relationships.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, models.NotificationFriendRequest, n.Type)
	assert.Equal(t, alice.ID, n.SenderID)
	assert.Equal(t, bob.ID, n.RecipientID)
	assert.False(t, n.IsRead)

	st, err := svc.Relationships.GetStatus(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, Status{HasPendingFromA: true}, st)

	st, err = svc.Relationships.GetStatus(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, Status{HasPendingFromB: true}, st)
}

func TestSendRequest_Rejections(t *testing.T) {
	svc, db, _ := setupServices(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "Alice", "Smith")
	bob := testutil.CreateUser(t, db, "Bob", "Jones")
	carol := testutil.CreateUser(t, db, "Carol", "White")
	testutil.MakeFriends(t, db, alice, carol)

	_, err := svc.Relationships.SendRequest(ctx, alice.ID, alice.ID)
	assertCode(t, errs.EINVALID, err)

	_, err = svc.Relationships.SendRequest(ctx, alice.ID, 9999)
	assertCode(t, errs.ENOTFOUND, err)

	_, err = svc.Relationships.SendRequest(ctx, alice.ID, carol.ID)
	assertCode(t, errs.EINVALID, err)

	_, err = svc.Relationships.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	t.Run("duplicate request", func(t *testing.T) {
		_, err := svc.Relationships.SendRequest(ctx, alice.ID, bob.ID)
		assertCode(t, errs.EINVALID, err)
	})
	t.Run("reverse request while pending", func(t *testing.T) {
		_, err := svc.Relationships.SendRequest(ctx, bob.ID, alice.ID)
		assertCode(t, errs.EINVALID, err)
	})

	var count int64
	db.Model(&models.Notification{}).Where("type = ?", models.NotificationFriendRequest).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestAcceptRequest_ConsumesRequest(t *testing.T) {
	svc, db, _ := setupServices(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "Alice", "Smith")
	bob := testutil.CreateUser(t, db, "Bob", "Jones")

	_, err := svc.Relationships.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	n, err := svc.Relationships.AcceptRequest(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, models.NotificationFriendRequestAccepted, n.Type)
	assert.Equal(t, bob.ID, n.SenderID)
	assert.Equal(t, alice.ID, n.RecipientID)

	for _, pair := range [][2]uint{{alice.ID, bob.ID}, {bob.ID, alice.ID}} {
		st, err := svc.Relationships.GetStatus(ctx, pair[0], pair[1])
		require.NoError(t, err)
		assert.Equal(t, Status{AreFriends: true}, st)
	}

	bobs, err := svc.Notifications.List(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, bobs, "the friend request notification is consumed")

	alices, err := svc.Notifications.List(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, alices, 1)
	assert.Equal(t, models.NotificationFriendRequestAccepted, alices[0].Type)
	assert.Equal(t, "Bob", alices[0].Sender.FirstName)
}

func TestAcceptRequest_WithoutRequest(t *testing.T) {
	svc, db, _ := setupServices(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "Alice", "Smith")
	bob := testutil.CreateUser(t, db, "Bob", "Jones")

	_, err := svc.Relationships.AcceptRequest(ctx, bob.ID, alice.ID)
	assertCode(t, errs.EINVALID, err)

	// The requester cannot accept their own request.
	_, err = svc.Relationships.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.Relationships.AcceptRequest(ctx, alice.ID, bob.ID)
	assertCode(t, errs.EINVALID, err)
}

func TestDenyRequest(t *testing.T) {
	svc, db, _ := setupServices(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "Alice", "Smith")
	bob := testutil.CreateUser(t, db, "Bob", "Jones")

	_, err := svc.Relationships.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Relationships.DenyRequest(ctx, bob.ID, alice.ID))

	st, err := svc.Relationships.GetStatus(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, Status{}, st)

	count, err := svc.Notifications.UnreadCount(ctx, bob.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	err = svc.Relationships.DenyRequest(ctx, bob.ID, alice.ID)
	assertCode(t, errs.EINVALID, err)

	// A denied request can be sent again.
	_, err = svc.Relationships.SendRequest(ctx, alice.ID, bob.ID)
	assert.NoError(t, err)
}

func TestCancelRequest(t *testing.T) {
	svc, db, _ := setupServices(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "Alice", "Smith")
	bob := testutil.CreateUser(t, db, "Bob", "Jones")

	err := svc.Relationships.CancelRequest(ctx, alice.ID, bob.ID)
	assertCode(t, errs.EINVALID, err)

	_, err = svc.Relationships.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Relationships.CancelRequest(ctx, alice.ID, bob.ID))

	st, err := svc.Relationships.GetStatus(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, Status{}, st)

	list, err := svc.Notifications.List(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRemoveFriendship_Idempotent(t *testing.T) {
	svc, db, _ := setupServices(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "Alice", "Smith")
	bob := testutil.CreateUser(t, db, "Bob", "Jones")
	testutil.MakeFriends(t, db, alice, bob)

	require.NoError(t, svc.Relationships.RemoveFriendship(ctx, alice.ID, bob.ID))
	require.NoError(t, svc.Relationships.RemoveFriendship(ctx, alice.ID, bob.ID))

	for _, pair := range [][2]uint{{alice.ID, bob.ID}, {bob.ID, alice.ID}} {
		st, err := svc.Relationships.GetStatus(ctx, pair[0], pair[1])
		require.NoError(t, err)
		assert.False(t, st.AreFriends)
	}

	var rows int64
	db.Model(&models.UserRelation{}).Count(&rows)
	assert.Zero(t, rows)
}

func TestRemoveFriendship_KeepsPendingRequests(t *testing.T) {
	svc, db, _ := setupServices(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "Alice", "Smith")
	bob := testutil.CreateUser(t, db, "Bob", "Jones")

	_, err := svc.Relationships.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Relationships.RemoveFriendship(ctx, alice.ID, bob.ID))

	st, err := svc.Relationships.GetStatus(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, st.HasPendingFromA)
}

func TestFriendshipSymmetry(t *testing.T) {
	svc, db, _ := setupServices(t)
	ctx := context.Background()
	users := []*models.User{
		testutil.CreateUser(t, db, "Alice", "Smith"),
		testutil.CreateUser(t, db, "Bob", "Jones"),
		testutil.CreateUser(t, db, "Carol", "White"),
	}

	befriend := func(a, b *models.User) {
		_, err := svc.Relationships.SendRequest(ctx, a.ID, b.ID)
		require.NoError(t, err)
		_, err = svc.Relationships.AcceptRequest(ctx, b.ID, a.ID)
		require.NoError(t, err)
	}
	checkSymmetric := func() {
		for _, a := range users {
			for _, b := range users {
				if a.ID == b.ID {
					continue
				}
				ab, err := svc.Relationships.GetStatus(ctx, a.ID, b.ID)
				require.NoError(t, err)
				ba, err := svc.Relationships.GetStatus(ctx, b.ID, a.ID)
				require.NoError(t, err)
				assert.Equal(t, ab.AreFriends, ba.AreFriends, "users %d and %d", a.ID, b.ID)
			}
		}
	}

	befriend(users[0], users[1])
	checkSymmetric()
	befriend(users[2], users[0])
	checkSymmetric()
	require.NoError(t, svc.Relationships.RemoveFriendship(ctx, users[1].ID, users[0].ID))
	checkSymmetric()

	friends, err := svc.Relationships.ListFriends(ctx, users[0].ID)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, "Carol", friends[0].FirstName)
}

func TestFriendshipCanBeRequestedAgainAfterRemoval(t *testing.T) {
	svc, db, _ := setupServices(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "Alice", "Smith")
	bob := testutil.CreateUser(t, db, "Bob", "Jones")
	testutil.MakeFriends(t, db, alice, bob)

	_, err := svc.Relationships.SendRequest(ctx, bob.ID, alice.ID)
	assertCode(t, errs.EINVALID, err)

	require.NoError(t, svc.Relationships.RemoveFriendship(ctx, bob.ID, alice.ID))
	_, err = svc.Relationships.SendRequest(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	_, err = svc.Relationships.AcceptRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	st, err := svc.Relationships.GetStatus(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, st.AreFriends)
}

func TestGetStatus_UnknownUser(t *testing.T) {
	svc, db, _ := setupServices(t)
	alice := testutil.CreateUser(t, db, "Alice", "Smith")

	_, err := svc.Relationships.GetStatus(context.Background(), alice.ID, 4242)
	assertCode(t, errs.ENOTFOUND, err)

	_, err = svc.Relationships.ListFriends(context.Background(), 4242)
	assertCode(t, errs.ENOTFOUND, err)
}

func TestRelationshipManager_Timeout(t *testing.T) {
	db := testutil.SetupTestDB(t)
	alice := testutil.CreateUser(t, db, "Alice", "Smith")
	bob := testutil.CreateUser(t, db, "Bob", "Jones")
	svc := NewServices(db, hub.NewHub(), zap.NewNop(), time.Nanosecond)

	_, err := svc.Relationships.GetStatus(context.Background(), alice.ID, bob.ID)
	assertCode(t, errs.ETIMEDOUT, err)
}

func TestSendRequest_PublishesLiveEvent(t *testing.T) {
	svc, db, h := setupServices(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "Alice", "Smith")
	bob := testutil.CreateUser(t, db, "Bob", "Jones")

	events, unsubscribe, err := h.Subscribe(ctx, bob.ID)
	require.NoError(t, err)
	defer unsubscribe()

	n, err := svc.Relationships.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	select {
	case msg := <-events:
		assert.Contains(t, string(msg), `"type":"notification"`)
		assert.Contains(t, string(msg), `"type":"friendRequest"`)
		assert.Contains(t, string(msg), `"id":`+strconv.FormatUint(uint64(n.ID), 10))
	case <-time.After(time.Second):
		t.Fatal("no live event received")
	}
}
