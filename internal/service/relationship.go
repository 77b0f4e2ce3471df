package service

import (
	"context"
	"errors"

	"socialise/backend/internal/errs"
	"socialise/backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Status describes the relationship between two users, seen from the first.
type Status struct {
	AreFriends      bool `json:"are_friends"`
	HasPendingFromA bool `json:"has_pending_request_from_user_a"`
	HasPendingFromB bool `json:"has_pending_request_from_user_b"`
}

// RelationshipManager owns the friendship graph. A pending request is a single
// (requester, recipient) row; an accepted friendship is one row per direction.
type RelationshipManager struct {
	store
	ledger *NotificationLedger
	log    *zap.Logger
}

var (
	errSelfRequest    = errs.Errorf(errs.EINVALID, "You cannot send a friend request to yourself.")
	errAlreadyFriends = errs.Errorf(errs.EINVALID, "You are already friends with this user.")
	errRequestPending = errs.Errorf(errs.EINVALID, "A friend request between you and this user is already pending.")
	errNoIncomingReq  = errs.Errorf(errs.EINVALID, "This user has not sent you a friend request.")
	errNoOutgoingReq  = errs.Errorf(errs.EINVALID, "You have not sent this user a friend request.")
)

// GetStatus reports whether a and b are friends and which of them has a
// pending request to the other.
func (m *RelationshipManager) GetStatus(ctx context.Context, a, b uint) (Status, error) {
	db, cancel := m.begin(ctx)
	defer cancel()

	if err := usersExist(db, a, b); err != nil {
		return Status{}, errs.FromStore(err, errUserNotFound.Message)
	}
	rels, err := relationsBetween(db, a, b)
	if err != nil {
		return Status{}, errs.FromStore(err, "")
	}
	return statusOf(a, b, rels), nil
}

func relationsBetween(db *gorm.DB, a, b uint) ([]models.UserRelation, error) {
	var rels []models.UserRelation
	err := db.Where("(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)", a, b, b, a).
		Find(&rels).Error
	return rels, err
}

func statusOf(a, b uint, rels []models.UserRelation) Status {
	var st Status
	for _, r := range rels {
		switch {
		case r.Status == models.StatusAccepted && r.FromUserID == a:
			st.AreFriends = true
		case r.Status == models.StatusPending && r.FromUserID == a && r.ToUserID == b:
			st.HasPendingFromA = true
		case r.Status == models.StatusPending && r.FromUserID == b && r.ToUserID == a:
			st.HasPendingFromB = true
		}
	}
	return st
}

// SendRequest records a pending request from requester to recipient and
// notifies the recipient. It is rejected when the users are already friends or
// when a request is pending in either direction.
func (m *RelationshipManager) SendRequest(ctx context.Context, requester, recipient uint) (*models.Notification, error) {
	if requester == recipient {
		return nil, errSelfRequest
	}
	db, cancel := m.begin(ctx)
	defer cancel()

	var n *models.Notification
	err := db.Transaction(func(tx *gorm.DB) error {
		// Requests in opposite directions lock the same rows, so the pending
		// check below sees whichever committed first.
		if err := lockUsers(tx, requester, recipient); err != nil {
			return err
		}
		rels, err := relationsBetween(tx, requester, recipient)
		if err != nil {
			return err
		}
		st := statusOf(requester, recipient, rels)
		switch {
		case st.AreFriends:
			return errAlreadyFriends
		case st.HasPendingFromA || st.HasPendingFromB:
			return errRequestPending
		}

		rel := models.UserRelation{FromUserID: requester, ToUserID: recipient, Status: models.StatusPending}
		if err := tx.Create(&rel).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errRequestPending
			}
			return err
		}

		n, err = m.ledger.emit(tx, Event{
			SenderID:    requester,
			RecipientID: recipient,
			Type:        models.NotificationFriendRequest,
		})
		return err
	})
	if err != nil {
		return nil, errs.FromStore(err, errUserNotFound.Message)
	}

	m.ledger.publish(ctx, n)
	return n, nil
}

// AcceptRequest turns requester's pending request to accepter into a
// friendship. The friendRequest notification is replaced by a
// friendRequestAccepted notification for the requester.
func (m *RelationshipManager) AcceptRequest(ctx context.Context, accepter, requester uint) (*models.Notification, error) {
	db, cancel := m.begin(ctx)
	defer cancel()

	var n *models.Notification
	err := db.Transaction(func(tx *gorm.DB) error {
		var req models.UserRelation
		err := tx.Where("from_user_id = ? AND to_user_id = ? AND status = ?", requester, accepter, models.StatusPending).
			First(&req).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errNoIncomingReq
		} else if err != nil {
			return err
		}

		if err := tx.Model(&req).Update("status", models.StatusAccepted).Error; err != nil {
			return err
		}
		mirror := models.UserRelation{FromUserID: accepter, ToUserID: requester, Status: models.StatusAccepted}
		err = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "from_user_id"}, {Name: "to_user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
		}).Create(&mirror).Error
		if err != nil {
			return err
		}

		if err := deleteFriendRequestNotifications(tx, requester, accepter); err != nil {
			return err
		}
		n, err = m.ledger.emit(tx, Event{
			SenderID:    accepter,
			RecipientID: requester,
			Type:        models.NotificationFriendRequestAccepted,
		})
		return err
	})
	if err != nil {
		return nil, errs.FromStore(err, "")
	}

	m.log.Debug("friend request accepted", zap.Uint("requester", requester), zap.Uint("accepter", accepter))
	m.ledger.publish(ctx, n)
	return n, nil
}

// DenyRequest drops requester's pending request to decliner.
func (m *RelationshipManager) DenyRequest(ctx context.Context, decliner, requester uint) error {
	return m.dropPending(ctx, requester, decliner, errNoIncomingReq)
}

// CancelRequest withdraws requester's pending request to recipient.
func (m *RelationshipManager) CancelRequest(ctx context.Context, requester, recipient uint) error {
	return m.dropPending(ctx, requester, recipient, errNoOutgoingReq)
}

// dropPending deletes the pending (from, to) request together with its
// friendRequest notification.
func (m *RelationshipManager) dropPending(ctx context.Context, from, to uint, missing error) error {
	db, cancel := m.begin(ctx)
	defer cancel()

	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("from_user_id = ? AND to_user_id = ? AND status = ?", from, to, models.StatusPending).
			Delete(&models.UserRelation{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return missing
		}
		return tx.Where("sender_id = ? AND recipient_id = ? AND type = ?", from, to, models.NotificationFriendRequest).
			Delete(&models.Notification{}).Error
	})
	return errs.FromStore(err, "")
}

// deleteFriendRequestNotifications removes friendRequest notifications
// exchanged between a and b in either direction.
func deleteFriendRequestNotifications(tx *gorm.DB, a, b uint) error {
	return tx.Where("type = ? AND ((sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?))",
		models.NotificationFriendRequest, a, b, b, a).
		Delete(&models.Notification{}).Error
}

// RemoveFriendship deletes both directions of the friendship between a and b.
// Removing a friendship that does not exist succeeds.
func (m *RelationshipManager) RemoveFriendship(ctx context.Context, a, b uint) error {
	db, cancel := m.begin(ctx)
	defer cancel()

	err := db.Where("((from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)) AND status = ?",
		a, b, b, a, models.StatusAccepted).
		Delete(&models.UserRelation{}).Error
	return errs.FromStore(err, "")
}

// ListFriends returns the users userID is friends with, ordered by name.
func (m *RelationshipManager) ListFriends(ctx context.Context, userID uint) ([]models.User, error) {
	db, cancel := m.begin(ctx)
	defer cancel()

	if err := usersExist(db, userID); err != nil {
		return nil, errs.FromStore(err, errUserNotFound.Message)
	}

	friends := []models.User{}
	err := db.Joins("JOIN user_relations ON user_relations.to_user_id = users.id").
		Where("user_relations.from_user_id = ? AND user_relations.status = ?", userID, models.StatusAccepted).
		Preload("DisplayPicture").
		Order("users.first_name").Order("users.last_name").Order("users.id").
		Find(&friends).Error
	if err != nil {
		return nil, errs.FromStore(err, "")
	}
	return friends, nil
}
