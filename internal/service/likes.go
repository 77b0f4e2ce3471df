package service

import (
	"socialise/backend/internal/errs"
	"socialise/backend/internal/models"

	"gorm.io/gorm"
)

// Join tables holding likes, keyed by the liked entity and the user.
const (
	postLikes           = "post_likes"
	commentLikes        = "comment_likes"
	displayPictureLikes = "display_picture_likes"
)

var likeColumn = map[string]string{
	postLikes:           "post_id",
	commentLikes:        "comment_id",
	displayPictureLikes: "display_picture_id",
}

var (
	errAlreadyLiked = errs.Errorf(errs.EINVALID, "You already like this.")
	errNotLiked     = errs.Errorf(errs.EINVALID, "You have not liked this.")
)

// addLike records userID's like of id in table. A second like is rejected.
func addLike(tx *gorm.DB, table string, id, userID uint) error {
	col := likeColumn[table]
	var n int64
	if err := tx.Table(table).Where(col+" = ? AND user_id = ?", id, userID).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return errAlreadyLiked
	}
	return tx.Table(table).Create(map[string]interface{}{col: id, "user_id": userID}).Error
}

// removeLike deletes userID's like of id from table.
func removeLike(tx *gorm.DB, table string, id, userID uint) error {
	res := tx.Exec("DELETE FROM "+table+" WHERE "+likeColumn[table]+" = ? AND user_id = ?", id, userID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errNotLiked
	}
	return nil
}

// comment parents
const (
	parentPost           = "post_id"
	parentDisplayPicture = "display_picture_id"
)

var errCommentNotFound = errs.Errorf(errs.ENOTFOUND, "Comment not found.")

// findComment loads commentID only if it belongs to the given parent.
func findComment(tx *gorm.DB, commentID uint, parent string, parentID uint) (*models.Comment, error) {
	var c models.Comment
	if err := tx.Where("id = ? AND "+parent+" = ?", commentID, parentID).First(&c).Error; err != nil {
		return nil, errs.FromStore(err, errCommentNotFound.Message)
	}
	return &c, nil
}

// deleteComments removes the comments matching where, with their likes and
// the notifications that point at them.
func deleteComments(tx *gorm.DB, where string, args ...interface{}) error {
	ids := tx.Model(&models.Comment{}).Select("id").Where(where, args...)
	if err := tx.Exec("DELETE FROM "+commentLikes+" WHERE comment_id IN (?)", ids).Error; err != nil {
		return err
	}
	if err := tx.Where("comment_id IN (?)", ids).Delete(&models.Notification{}).Error; err != nil {
		return err
	}
	return tx.Where(where, args...).Delete(&models.Comment{}).Error
}

// preloadComments loads comments oldest first, with authors and likes.
func preloadComments(prefix string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Preload(prefix+"Comments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC").Order("id ASC") }).
			Preload(prefix + "Comments.Author.DisplayPicture").
			Preload(prefix + "Comments.Likes")
	}
}
