package service

import (
	"context"
	"errors"
	"strings"

	"socialise/backend/internal/errs"
	"socialise/backend/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService manages accounts and profiles.
type UserService struct {
	store
}

// RegisterInput is the data needed to open an account.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// ProfileUpdate holds the editable profile fields. Nil fields are left unchanged.
type ProfileUpdate struct {
	BirthDay        *int
	BirthMonth      *int
	Hometown        *string
	Occupation      *string
	ShowDateOfBirth *bool
	ShowHometown    *bool
	ShowOccupation  *bool
}

var (
	errEmailTaken     = errs.Errorf(errs.ECONFLICT, "An account with this email already exists.")
	errBadCredentials = errs.Errorf(errs.EUNAUTHORIZED, "Incorrect email or password.")
	minPasswordLength = 8
)

// Register creates an account with a bcrypt-hashed password.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	switch {
	case in.FirstName == "" || in.LastName == "":
		return nil, errs.Errorf(errs.EINVALID, "First and last name are required.")
	case !strings.Contains(in.Email, "@"):
		return nil, errs.Errorf(errs.EINVALID, "A valid email is required.")
	case len(in.Password) < minPasswordLength:
		return nil, errs.Errorf(errs.EINVALID, "Password must be at least %d characters.", minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errs.FromStore(err, "")
	}

	db, cancel := s.begin(ctx)
	defer cancel()

	var n int64
	if err := db.Model(&models.User{}).Where("email = ?", in.Email).Count(&n).Error; err != nil {
		return nil, errs.FromStore(err, "")
	}
	if n > 0 {
		return nil, errEmailTaken
	}

	user := models.User{
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		Email:           in.Email,
		PasswordHash:    string(hash),
		ShowDateOfBirth: true,
		ShowHometown:    true,
		ShowOccupation:  true,
	}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errEmailTaken
		}
		return nil, errs.FromStore(err, "")
	}
	return &user, nil
}

// Authenticate returns the user owning email if password matches.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	db, cancel := s.begin(ctx)
	defer cancel()

	var user models.User
	err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errBadCredentials
	} else if err != nil {
		return nil, errs.FromStore(err, "")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errBadCredentials
	}
	return &user, nil
}

// Get returns a user with their display picture.
func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	db, cancel := s.begin(ctx)
	defer cancel()

	var user models.User
	if err := db.Preload("DisplayPicture").First(&user, id).Error; err != nil {
		return nil, errs.FromStore(err, errUserNotFound.Message)
	}
	return &user, nil
}

// UpdateProfile applies the non-nil fields of in to the user's profile.
func (s *UserService) UpdateProfile(ctx context.Context, id uint, in ProfileUpdate) (*models.User, error) {
	if in.BirthDay != nil && (*in.BirthDay < 0 || *in.BirthDay > 31) {
		return nil, errs.Errorf(errs.EINVALID, "Birth day must be between 1 and 31.")
	}
	if in.BirthMonth != nil && (*in.BirthMonth < 0 || *in.BirthMonth > 12) {
		return nil, errs.Errorf(errs.EINVALID, "Birth month must be between 1 and 12.")
	}

	// A map keeps false and zero values, which struct updates would skip.
	updates := map[string]interface{}{}
	if in.BirthDay != nil {
		updates["birth_day"] = *in.BirthDay
	}
	if in.BirthMonth != nil {
		updates["birth_month"] = *in.BirthMonth
	}
	if in.Hometown != nil {
		updates["hometown"] = strings.TrimSpace(*in.Hometown)
	}
	if in.Occupation != nil {
		updates["occupation"] = strings.TrimSpace(*in.Occupation)
	}
	if in.ShowDateOfBirth != nil {
		updates["show_date_of_birth"] = *in.ShowDateOfBirth
	}
	if in.ShowHometown != nil {
		updates["show_hometown"] = *in.ShowHometown
	}
	if in.ShowOccupation != nil {
		updates["show_occupation"] = *in.ShowOccupation
	}

	db, cancel := s.begin(ctx)
	defer cancel()

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		return nil, errs.FromStore(err, errUserNotFound.Message)
	}
	if len(updates) > 0 {
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			return nil, errs.FromStore(err, "")
		}
	}
	if err := db.Preload("DisplayPicture").First(&user, id).Error; err != nil {
		return nil, errs.FromStore(err, errUserNotFound.Message)
	}
	return &user, nil
}
