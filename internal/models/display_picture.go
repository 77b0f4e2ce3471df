package models

import "time"

// DisplayPicture is a user's current avatar. The image itself lives outside the
// database; Filename is the reference the client resolves.
type DisplayPicture struct {
	ID         uint   `gorm:"primaryKey"`
	UserID     uint   `gorm:"not null;uniqueIndex"`
	Filename   string `gorm:"size:512;not null"`
	UploadedAt time.Time

	Likes    []User    `gorm:"many2many:display_picture_likes;"`
	Comments []Comment `gorm:"foreignKey:DisplayPictureID"`
}
