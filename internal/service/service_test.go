package service

import (
	"testing"
	"time"

	"socialise/backend/internal/errs"
	"socialise/backend/internal/hub"
	"socialise/backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupServices(t *testing.T) (*Services, *gorm.DB, *hub.Hub) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	h := hub.NewHub()
	return NewServices(db, h, zap.NewNop(), 5*time.Second), db, h
}

func assertCode(t *testing.T, code string, err error) {
	t.Helper()
	assert.Error(t, err)
	assert.Equal(t, code, errs.ErrorCode(err), "error: %v", err)
}

func TestLockUsers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	alice := testutil.CreateUser(t, db, "Alice", "Smith")
	bob := testutil.CreateUser(t, db, "Bob", "Jones")

	err := db.Transaction(func(tx *gorm.DB) error {
		return lockUsers(tx, bob.ID, alice.ID, bob.ID)
	})
	assert.NoError(t, err)

	err = db.Transaction(func(tx *gorm.DB) error {
		return lockUsers(tx, alice.ID, 9999)
	})
	assertCode(t, errs.ENOTFOUND, err)
}

func TestLockedUsers_LocksRowsInIDOrder(t *testing.T) {
	pg, err := gorm.Open(postgres.Open("host=localhost user=socialise dbname=socialise sslmode=disable"), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	sql := pg.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var ids []uint
		return lockedUsers(tx, []uint{2, 1}).Pluck("id", &ids)
	})
	assert.Contains(t, sql, "ORDER BY id")
	assert.Contains(t, sql, "FOR UPDATE")
}
