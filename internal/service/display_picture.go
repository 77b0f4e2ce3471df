package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"socialise/backend/internal/errs"
	"socialise/backend/internal/models"

	"gorm.io/gorm"
)

// DisplayPictureService manages each user's single display picture, its
// comments and likes.
type DisplayPictureService struct {
	store
	ledger *NotificationLedger
}

var errPictureNotFound = errs.Errorf(errs.ENOTFOUND, "Display picture not found.")

func preloadPicture(db *gorm.DB) *gorm.DB {
	return db.Preload("Likes").Scopes(preloadComments(""))
}

// Set replaces the user's display picture. Comments and likes on the previous
// picture are discarded.
func (s *DisplayPictureService) Set(ctx context.Context, userID uint, filename string) (*models.DisplayPicture, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return nil, errs.Errorf(errs.EINVALID, "A filename is required.")
	}
	db, cancel := s.begin(ctx)
	defer cancel()

	var pic models.DisplayPicture
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := usersExist(tx, userID); err != nil {
			return err
		}
		err := tx.Where("user_id = ?", userID).First(&pic).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			pic = models.DisplayPicture{UserID: userID, Filename: filename, UploadedAt: time.Now()}
			return tx.Create(&pic).Error
		} else if err != nil {
			return err
		}

		if err := clearPicture(tx, pic.ID); err != nil {
			return err
		}
		pic.Filename = filename
		pic.UploadedAt = time.Now()
		return tx.Model(&pic).Updates(map[string]interface{}{"filename": pic.Filename, "uploaded_at": pic.UploadedAt}).Error
	})
	if err != nil {
		return nil, errs.FromStore(err, "")
	}
	return &pic, nil
}

// clearPicture drops the comments, likes and notifications attached to a picture.
func clearPicture(tx *gorm.DB, pictureID uint) error {
	if err := deleteComments(tx, "display_picture_id = ?", pictureID); err != nil {
		return err
	}
	if err := tx.Exec("DELETE FROM "+displayPictureLikes+" WHERE display_picture_id = ?", pictureID).Error; err != nil {
		return err
	}
	return tx.Where("display_picture_id = ?", pictureID).Delete(&models.Notification{}).Error
}

// GetByUser returns the user's display picture with its likes and comments.
func (s *DisplayPictureService) GetByUser(ctx context.Context, userID uint) (*models.DisplayPicture, error) {
	db, cancel := s.begin(ctx)
	defer cancel()

	if err := usersExist(db, userID); err != nil {
		return nil, errs.FromStore(err, errUserNotFound.Message)
	}
	var pic models.DisplayPicture
	if err := db.Scopes(preloadPicture).Where("user_id = ?", userID).First(&pic).Error; err != nil {
		return nil, errs.FromStore(err, "This user does not have a display picture.")
	}
	return &pic, nil
}

func pictureOf(tx *gorm.DB, ownerID uint) (*models.DisplayPicture, error) {
	var pic models.DisplayPicture
	if err := tx.Where("user_id = ?", ownerID).First(&pic).Error; err != nil {
		return nil, errs.FromStore(err, "This user does not have a display picture.")
	}
	return &pic, nil
}

// AddComment comments on ownerID's display picture and notifies the owner.
func (s *DisplayPictureService) AddComment(ctx context.Context, actorID, ownerID uint, content string) (*models.Comment, error) {
	content, err := requireContent(content)
	if err != nil {
		return nil, err
	}
	db, cancel := s.begin(ctx)
	defer cancel()

	var (
		comment models.Comment
		n       *models.Notification
	)
	err = db.Transaction(func(tx *gorm.DB) error {
		pic, err := pictureOf(tx, ownerID)
		if err != nil {
			return err
		}
		if err := usersExist(tx, actorID); err != nil {
			return err
		}
		comment = models.Comment{AuthorID: actorID, Content: content, DisplayPictureID: &pic.ID}
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		n, err = s.ledger.emit(tx, Event{
			SenderID:         actorID,
			RecipientID:      pic.UserID,
			Type:             models.NotificationDisplayPictureComment,
			CommentID:        &comment.ID,
			DisplayPictureID: &pic.ID,
		})
		return err
	})
	if err != nil {
		return nil, errs.FromStore(err, "")
	}
	s.ledger.publish(ctx, n)

	if err := db.Preload("Author.DisplayPicture").First(&comment, comment.ID).Error; err != nil {
		return nil, errs.FromStore(err, errCommentNotFound.Message)
	}
	return &comment, nil
}

// DeleteComment removes a comment from a display picture. Only the comment's
// author or the picture's owner may do so.
func (s *DisplayPictureService) DeleteComment(ctx context.Context, actorID, pictureID, commentID uint) error {
	db, cancel := s.begin(ctx)
	defer cancel()

	err := db.Transaction(func(tx *gorm.DB) error {
		var pic models.DisplayPicture
		if err := tx.First(&pic, pictureID).Error; err != nil {
			return errs.FromStore(err, errPictureNotFound.Message)
		}
		comment, err := findComment(tx, commentID, parentDisplayPicture, pictureID)
		if err != nil {
			return err
		}
		if comment.AuthorID != actorID && pic.UserID != actorID {
			return errs.Errorf(errs.EFORBIDDEN, "You cannot delete this comment.")
		}
		return deleteComments(tx, "id = ?", comment.ID)
	})
	return errs.FromStore(err, "")
}

// Like records actorID's like of ownerID's display picture and notifies the owner.
func (s *DisplayPictureService) Like(ctx context.Context, actorID, ownerID uint) error {
	db, cancel := s.begin(ctx)
	defer cancel()

	var n *models.Notification
	err := db.Transaction(func(tx *gorm.DB) error {
		pic, err := pictureOf(tx, ownerID)
		if err != nil {
			return err
		}
		if err := usersExist(tx, actorID); err != nil {
			return err
		}
		if err := addLike(tx, displayPictureLikes, pic.ID, actorID); err != nil {
			return err
		}
		n, err = s.ledger.emit(tx, Event{
			SenderID:         actorID,
			RecipientID:      pic.UserID,
			Type:             models.NotificationDisplayPictureLike,
			DisplayPictureID: &pic.ID,
		})
		return err
	})
	if err != nil {
		return errs.FromStore(err, "")
	}
	s.ledger.publish(ctx, n)
	return nil
}

// Unlike removes actorID's like of ownerID's display picture.
func (s *DisplayPictureService) Unlike(ctx context.Context, actorID, ownerID uint) error {
	db, cancel := s.begin(ctx)
	defer cancel()

	err := db.Transaction(func(tx *gorm.DB) error {
		pic, err := pictureOf(tx, ownerID)
		if err != nil {
			return err
		}
		return removeLike(tx, displayPictureLikes, pic.ID, actorID)
	})
	return errs.FromStore(err, "")
}

// LikeComment records actorID's like of a comment on a display picture and
// notifies the comment's author.
func (s *DisplayPictureService) LikeComment(ctx context.Context, actorID, pictureID, commentID uint) error {
	db, cancel := s.begin(ctx)
	defer cancel()

	var n *models.Notification
	err := db.Transaction(func(tx *gorm.DB) error {
		comment, err := findComment(tx, commentID, parentDisplayPicture, pictureID)
		if err != nil {
			return err
		}
		if err := usersExist(tx, actorID); err != nil {
			return err
		}
		if err := addLike(tx, commentLikes, comment.ID, actorID); err != nil {
			return err
		}
		n, err = s.ledger.emit(tx, Event{
			SenderID:         actorID,
			RecipientID:      comment.AuthorID,
			Type:             models.NotificationDisplayPictureCommentLike,
			CommentID:        &comment.ID,
			DisplayPictureID: comment.DisplayPictureID,
		})
		return err
	})
	if err != nil {
		return errs.FromStore(err, "")
	}
	s.ledger.publish(ctx, n)
	return nil
}

// UnlikeComment removes actorID's like of a comment on a display picture.
func (s *DisplayPictureService) UnlikeComment(ctx context.Context, actorID, pictureID, commentID uint) error {
	db, cancel := s.begin(ctx)
	defer cancel()

	err := db.Transaction(func(tx *gorm.DB) error {
		comment, err := findComment(tx, commentID, parentDisplayPicture, pictureID)
		if err != nil {
			return err
		}
		return removeLike(tx, commentLikes, comment.ID, actorID)
	})
	return errs.FromStore(err, "")
}
