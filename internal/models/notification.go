package models

import "time"

// NotificationType identifies the event a notification reports.
type NotificationType string

const (
	NotificationFriendRequest             NotificationType = "friendRequest"
	NotificationFriendRequestAccepted     NotificationType = "friendRequestAccepted"
	NotificationPostComment               NotificationType = "postComment"
	NotificationPostLike                  NotificationType = "postLike"
	NotificationCommentLike               NotificationType = "commentLike"
	NotificationDisplayPictureComment     NotificationType = "displayPictureComment"
	NotificationDisplayPictureLike        NotificationType = "displayPictureLike"
	NotificationDisplayPictureCommentLike NotificationType = "displayPictureCommentLike"
)

// Valid reports whether t is one of the known notification types.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationFriendRequest,
		NotificationFriendRequestAccepted,
		NotificationPostComment,
		NotificationPostLike,
		NotificationCommentLike,
		NotificationDisplayPictureComment,
		NotificationDisplayPictureLike,
		NotificationDisplayPictureCommentLike:
		return true
	}
	return false
}

// Notification is a cross-user event addressed to a single recipient.
type Notification struct {
	ID          uint             `gorm:"primaryKey"`
	SenderID    uint             `gorm:"not null;index:idx_notifications_pair"`
	RecipientID uint             `gorm:"not null;index:idx_notifications_pair;index:idx_notifications_recipient"`
	Type        NotificationType `gorm:"size:40;not null;index:idx_notifications_pair"`
	IsRead      bool             `gorm:"not null;default:false"`
	CreatedAt   time.Time        `gorm:"index:idx_notifications_recipient"`

	// Optional references to the subject of the event.
	PostID           *uint `gorm:"index"`
	CommentID        *uint
	DisplayPictureID *uint `gorm:"index"`

	Sender    User `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE;"`
	Recipient User `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE;"`
}
