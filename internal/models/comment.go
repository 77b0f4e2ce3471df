package models

import "time"

// Comment belongs to exactly one parent: a post or a display picture.
type Comment struct {
	ID               uint   `gorm:"primaryKey"`
	AuthorID         uint   `gorm:"not null;index"`
	Content          string `gorm:"type:text;not null"`
	PostID           *uint  `gorm:"index"`
	DisplayPictureID *uint  `gorm:"index"`
	CreatedAt        time.Time

	Author User   `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
	Likes  []User `gorm:"many2many:comment_likes;"`
}
