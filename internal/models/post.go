package models

import "time"

// Post is a status update written by a user.
type Post struct {
	ID        uint      `gorm:"primaryKey"`
	AuthorID  uint      `gorm:"not null;index"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	Author   User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
	Likes    []User    `gorm:"many2many:post_likes;"`
	Comments []Comment `gorm:"foreignKey:PostID"`
}
