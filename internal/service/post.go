package service

import (
	"context"

	"socialise/backend/internal/errs"
	"socialise/backend/internal/models"

	"gorm.io/gorm"
)

// PostService manages posts, their comments and likes.
type PostService struct {
	store
	ledger *NotificationLedger
}

var errPostNotFound = errs.Errorf(errs.ENOTFOUND, "Post not found.")

func preloadPost(db *gorm.DB) *gorm.DB {
	return db.Preload("Author.DisplayPicture").Preload("Likes").Scopes(preloadComments(""))
}

// Create publishes a new post by authorID.
func (s *PostService) Create(ctx context.Context, authorID uint, content string) (*models.Post, error) {
	content, err := requireContent(content)
	if err != nil {
		return nil, err
	}
	db, cancel := s.begin(ctx)
	defer cancel()

	if err := usersExist(db, authorID); err != nil {
		return nil, errs.FromStore(err, errUserNotFound.Message)
	}
	post := models.Post{AuthorID: authorID, Content: content}
	if err := db.Create(&post).Error; err != nil {
		return nil, errs.FromStore(err, "")
	}
	return s.load(db, post.ID)
}

// Get returns a post with its author, likes and comments.
func (s *PostService) Get(ctx context.Context, id uint) (*models.Post, error) {
	db, cancel := s.begin(ctx)
	defer cancel()
	return s.load(db, id)
}

func (s *PostService) load(db *gorm.DB, id uint) (*models.Post, error) {
	var post models.Post
	if err := db.Scopes(preloadPost).First(&post, id).Error; err != nil {
		return nil, errs.FromStore(err, errPostNotFound.Message)
	}
	return &post, nil
}

// Feed returns the posts of userID and of every friend of userID, newest first.
func (s *PostService) Feed(ctx context.Context, userID uint) ([]models.Post, error) {
	db, cancel := s.begin(ctx)
	defer cancel()

	if err := usersExist(db, userID); err != nil {
		return nil, errs.FromStore(err, errUserNotFound.Message)
	}
	friends := db.Model(&models.UserRelation{}).
		Select("to_user_id").
		Where("from_user_id = ? AND status = ?", userID, models.StatusAccepted)

	posts := []models.Post{}
	err := db.Scopes(preloadPost).
		Where("author_id = ? OR author_id IN (?)", userID, friends).
		Order("created_at DESC").Order("id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, errs.FromStore(err, "")
	}
	return posts, nil
}

// Delete removes a post written by actorID, along with its comments, likes
// and the notifications about it.
func (s *PostService) Delete(ctx context.Context, actorID, postID uint) error {
	db, cancel := s.begin(ctx)
	defer cancel()

	err := db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, postID).Error; err != nil {
			return errs.FromStore(err, errPostNotFound.Message)
		}
		if post.AuthorID != actorID {
			return errs.Errorf(errs.EFORBIDDEN, "You can only delete your own posts.")
		}
		if err := deleteComments(tx, "post_id = ?", postID); err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM "+postLikes+" WHERE post_id = ?", postID).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	return errs.FromStore(err, "")
}

// AddComment adds a comment by actorID to a post and notifies the post's author.
func (s *PostService) AddComment(ctx context.Context, actorID, postID uint, content string) (*models.Comment, error) {
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
		var post models.Post
		if err := tx.First(&post, postID).Error; err != nil {
			return errs.FromStore(err, errPostNotFound.Message)
		}
		if err := usersExist(tx, actorID); err != nil {
			return err
		}
		comment = models.Comment{AuthorID: actorID, Content: content, PostID: &post.ID}
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		var err error
		n, err = s.ledger.emit(tx, Event{
			SenderID:    actorID,
			RecipientID: post.AuthorID,
			Type:        models.NotificationPostComment,
			PostID:      &post.ID,
			CommentID:   &comment.ID,
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

// DeleteComment removes a comment from a post. Only the comment's author or
// the post's author may do so.
func (s *PostService) DeleteComment(ctx context.Context, actorID, postID, commentID uint) error {
	db, cancel := s.begin(ctx)
	defer cancel()

	err := db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, postID).Error; err != nil {
			return errs.FromStore(err, errPostNotFound.Message)
		}
		comment, err := findComment(tx, commentID, parentPost, postID)
		if err != nil {
			return err
		}
		if comment.AuthorID != actorID && post.AuthorID != actorID {
			return errs.Errorf(errs.EFORBIDDEN, "You cannot delete this comment.")
		}
		return deleteComments(tx, "id = ?", comment.ID)
	})
	return errs.FromStore(err, "")
}

// Like records actorID's like of a post and notifies its author.
func (s *PostService) Like(ctx context.Context, actorID, postID uint) error {
	db, cancel := s.begin(ctx)
	defer cancel()

	var n *models.Notification
	err := db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, postID).Error; err != nil {
			return errs.FromStore(err, errPostNotFound.Message)
		}
		if err := usersExist(tx, actorID); err != nil {
			return err
		}
		if err := addLike(tx, postLikes, postID, actorID); err != nil {
			return err
		}
		var err error
		n, err = s.ledger.emit(tx, Event{
			SenderID:    actorID,
			RecipientID: post.AuthorID,
			Type:        models.NotificationPostLike,
			PostID:      &post.ID,
		})
		return err
	})
	if err != nil {
		return errs.FromStore(err, "")
	}
	s.ledger.publish(ctx, n)
	return nil
}

// Unlike removes actorID's like of a post.
func (s *PostService) Unlike(ctx context.Context, actorID, postID uint) error {
	db, cancel := s.begin(ctx)
	defer cancel()

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.Post{}, postID).Error; err != nil {
			return errs.FromStore(err, errPostNotFound.Message)
		}
		return removeLike(tx, postLikes, postID, actorID)
	})
	return errs.FromStore(err, "")
}

// LikeComment records actorID's like of a comment on a post and notifies the
// comment's author.
func (s *PostService) LikeComment(ctx context.Context, actorID, postID, commentID uint) error {
	db, cancel := s.begin(ctx)
	defer cancel()

	var n *models.Notification
	err := db.Transaction(func(tx *gorm.DB) error {
		comment, err := findComment(tx, commentID, parentPost, postID)
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
			SenderID:    actorID,
			RecipientID: comment.AuthorID,
			Type:        models.NotificationCommentLike,
			PostID:      comment.PostID,
			CommentID:   &comment.ID,
		})
		return err
	})
	if err != nil {
		return errs.FromStore(err, "")
	}
	s.ledger.publish(ctx, n)
	return nil
}

// UnlikeComment removes actorID's like of a comment on a post.
func (s *PostService) UnlikeComment(ctx context.Context, actorID, postID, commentID uint) error {
	db, cancel := s.begin(ctx)
	defer cancel()

	err := db.Transaction(func(tx *gorm.DB) error {
		comment, err := findComment(tx, commentID, parentPost, postID)
		if err != nil {
			return err
		}
		return removeLike(tx, commentLikes, comment.ID, actorID)
	})
	return errs.FromStore(err, "")
}
