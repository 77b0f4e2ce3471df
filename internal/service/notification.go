package service

import (
	"context"
	"time"

	"socialise/backend/internal/errs"
	"socialise/backend/internal/hub"
	"socialise/backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EventNotification is the live event type pushed for every new notification.
const EventNotification = "notification"

// Event describes a notification to be emitted.
type Event struct {
	SenderID    uint
	RecipientID uint
	Type        models.NotificationType

	PostID           *uint
	CommentID        *uint
	DisplayPictureID *uint
}

// LiveNotification is the payload pushed to a recipient's live connections.
type LiveNotification struct {
	ID               uint                    `json:"id"`
	SenderID         uint                    `json:"sender_id"`
	Type             models.NotificationType `json:"type"`
	PostID           *uint                   `json:"post_id,omitempty"`
	CommentID        *uint                   `json:"comment_id,omitempty"`
	DisplayPictureID *uint                   `json:"display_picture_id,omitempty"`
	CreatedAt        time.Time               `json:"created_at"`
}

// NotificationLedger stores notifications and their read state.
type NotificationLedger struct {
	store
	broker hub.Broker
	log    *zap.Logger
}

var errNotificationNotFound = errs.Errorf(errs.ENOTFOUND, "Notification not found.")

// Emit records a notification for ev.RecipientID. A notification whose sender
// is its recipient is never stored: Emit returns nil, nil.
func (l *NotificationLedger) Emit(ctx context.Context, ev Event) (*models.Notification, error) {
	db, cancel := l.begin(ctx)
	defer cancel()

	n, err := l.emit(db, ev)
	if err != nil {
		return nil, errs.FromStore(err, "User not found.")
	}
	l.publish(ctx, n)
	return n, nil
}

// emit writes the notification through tx without publishing it, so callers
// can emit inside their own transaction and publish after commit.
func (l *NotificationLedger) emit(tx *gorm.DB, ev Event) (*models.Notification, error) {
	if ev.SenderID == ev.RecipientID {
		return nil, nil
	}
	if !ev.Type.Valid() {
		return nil, errs.Errorf(errs.EINVALID, "Unknown notification type %q.", ev.Type)
	}
	if err := usersExist(tx, ev.SenderID, ev.RecipientID); err != nil {
		return nil, err
	}

	n := &models.Notification{
		SenderID:         ev.SenderID,
		RecipientID:      ev.RecipientID,
		Type:             ev.Type,
		PostID:           ev.PostID,
		CommentID:        ev.CommentID,
		DisplayPictureID: ev.DisplayPictureID,
	}
	if err := tx.Create(n).Error; err != nil {
		return nil, err
	}
	return n, nil
}

// publish pushes n to the recipient's live connections. Delivery is best-effort.
func (l *NotificationLedger) publish(ctx context.Context, n *models.Notification) {
	if n == nil || l.broker == nil {
		return
	}
	event := hub.Event{
		Type: EventNotification,
		Payload: LiveNotification{
			ID:               n.ID,
			SenderID:         n.SenderID,
			Type:             n.Type,
			PostID:           n.PostID,
			CommentID:        n.CommentID,
			DisplayPictureID: n.DisplayPictureID,
			CreatedAt:        n.CreatedAt,
		},
	}
	if err := l.broker.Publish(ctx, n.RecipientID, event); err != nil {
		l.log.Warn("notification publish failed",
			zap.Uint("notification_id", n.ID),
			zap.Uint("recipient_id", n.RecipientID),
			zap.Error(err),
		)
	}
}

// List returns the user's notifications, most recent first, with the sender
// and the sender's display picture loaded.
func (l *NotificationLedger) List(ctx context.Context, userID uint) ([]models.Notification, error) {
	db, cancel := l.begin(ctx)
	defer cancel()

	if err := usersExist(db, userID); err != nil {
		return nil, errs.FromStore(err, "User not found.")
	}

	notifications := []models.Notification{}
	err := db.Where("recipient_id = ?", userID).
		Preload("Sender.DisplayPicture").
		Order("created_at DESC").
		Order("id DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, errs.FromStore(err, "")
	}
	return notifications, nil
}

// Get returns a single notification.
func (l *NotificationLedger) Get(ctx context.Context, id uint) (*models.Notification, error) {
	db, cancel := l.begin(ctx)
	defer cancel()

	var n models.Notification
	if err := db.First(&n, id).Error; err != nil {
		return nil, errs.FromStore(err, errNotificationNotFound.Message)
	}
	return &n, nil
}

// MarkRead sets the read flag of a notification. Marking a read notification
// again is a no-op.
func (l *NotificationLedger) MarkRead(ctx context.Context, id uint) (*models.Notification, error) {
	db, cancel := l.begin(ctx)
	defer cancel()

	var n models.Notification
	if err := db.First(&n, id).Error; err != nil {
		return nil, errs.FromStore(err, errNotificationNotFound.Message)
	}
	if !n.IsRead {
		if err := db.Model(&n).Update("is_read", true).Error; err != nil {
			return nil, errs.FromStore(err, errNotificationNotFound.Message)
		}
	}
	n.IsRead = true
	return &n, nil
}

// MarkAllRead marks every unread notification of the user as read in a single
// statement and returns how many changed.
func (l *NotificationLedger) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	db, cancel := l.begin(ctx)
	defer cancel()

	if err := usersExist(db, userID); err != nil {
		return 0, errs.FromStore(err, "User not found.")
	}
	res := db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, errs.FromStore(res.Error, "")
	}
	return res.RowsAffected, nil
}

// UnreadCount returns the number of unread notifications of the user.
func (l *NotificationLedger) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	db, cancel := l.begin(ctx)
	defer cancel()

	if err := usersExist(db, userID); err != nil {
		return 0, errs.FromStore(err, "User not found.")
	}
	var n int64
	err := db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	if err != nil {
		return 0, errs.FromStore(err, "")
	}
	return n, nil
}

// Delete removes a notification permanently.
func (l *NotificationLedger) Delete(ctx context.Context, id uint) error {
	db, cancel := l.begin(ctx)
	defer cancel()

	res := db.Delete(&models.Notification{}, id)
	if res.Error != nil {
		return errs.FromStore(res.Error, "")
	}
	if res.RowsAffected == 0 {
		return errNotificationNotFound
	}
	return nil
}

// DeleteAll removes every notification addressed to the user.
func (l *NotificationLedger) DeleteAll(ctx context.Context, userID uint) (int64, error) {
	db, cancel := l.begin(ctx)
	defer cancel()

	if err := usersExist(db, userID); err != nil {
		return 0, errs.FromStore(err, "User not found.")
	}
	res := db.Where("recipient_id = ?", userID).Delete(&models.Notification{})
	if res.Error != nil {
		return 0, errs.FromStore(res.Error, "")
	}
	return res.RowsAffected, nil
}
