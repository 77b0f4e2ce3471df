// Package testutil holds helpers shared by package tests.
package testutil

import (
	"fmt"
	"testing"

	"socialise/backend/internal/config"
	"socialise/backend/internal/database"
	"socialise/backend/internal/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SetupTestDB opens a fresh in-memory SQLite database with all tables migrated.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(&config.Config{
		DatabaseDriver: database.DriverSQLite,
		DatabaseURL:    "file::memory:",
	}, zap.NewNop())
	require.NoError(t, err, "SetupTestDB: Open")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// CreateUser inserts a user whose password is "password123".
func CreateUser(t *testing.T, db *gorm.DB, firstName, lastName string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		FirstName:       firstName,
		LastName:        lastName,
		Email:           fmt.Sprintf("%s.%s@example.com", firstName, lastName),
		PasswordHash:    string(hash),
		ShowDateOfBirth: true,
		ShowHometown:    true,
		ShowOccupation:  true,
	}
	require.NoError(t, db.Create(user).Error, "CreateUser")
	return user
}

// MakeFriends stores an accepted friendship between a and b.
func MakeFriends(t *testing.T, db *gorm.DB, a, b *models.User) {
	t.Helper()
	require.NoError(t, db.Create(&[]models.UserRelation{
		{FromUserID: a.ID, ToUserID: b.ID, Status: models.StatusAccepted},
		{FromUserID: b.ID, ToUserID: a.ID, Status: models.StatusAccepted},
	}).Error, "MakeFriends")
}
