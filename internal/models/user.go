package models

import "gorm.io/gorm"

// User represents a user in the system.
type User struct {
	gorm.Model
	FirstName    string `gorm:"size:100;not null"`
	LastName     string `gorm:"size:100;not null"`
	Email        string `gorm:"size:255;unique;not null"`
	PasswordHash string `gorm:"size:255;not null"`

	BirthDay   int    `gorm:"default:0"`
	BirthMonth int    `gorm:"default:0"`
	Hometown   string `gorm:"size:255"`
	Occupation string `gorm:"size:255"`

	// Visibility of optional profile fields to other users.
	ShowDateOfBirth bool `gorm:"not null;default:true"`
	ShowHometown    bool `gorm:"not null;default:true"`
	ShowOccupation  bool `gorm:"not null;default:true"`

	DisplayPicture *DisplayPicture `gorm:"foreignKey:UserID"`
}

// FullName returns the user's first and last name.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
