// Package service implements the social graph, the notification ledger and the
// content that feeds it. Every service receives its storage handle at
// construction; operations are bounded by a per-operation timeout.
package service

import (
	"context"
	"strings"
	"time"

	"socialise/backend/internal/errs"
	"socialise/backend/internal/hub"
	"socialise/backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Services holds every domain service. They all share one database handle.
type Services struct {
	Users           *UserService
	Relationships   *RelationshipManager
	Notifications   *NotificationLedger
	Posts           *PostService
	DisplayPictures *DisplayPictureService
}

// NewServices wires the services together. broker may be nil, in which case
// notifications are stored but not pushed to live connections.
func NewServices(db *gorm.DB, broker hub.Broker, log *zap.Logger, timeout time.Duration) *Services {
	st := store{db: db, timeout: timeout}
	ledger := &NotificationLedger{store: st, broker: broker, log: log.Named("notifications")}
	return &Services{
		Users:           &UserService{store: st},
		Relationships:   &RelationshipManager{store: st, ledger: ledger, log: log.Named("relationships")},
		Notifications:   ledger,
		Posts:           &PostService{store: st, ledger: ledger},
		DisplayPictures: &DisplayPictureService{store: st, ledger: ledger},
	}
}

// store is the storage handle and operation timeout shared by the services.
type store struct {
	db      *gorm.DB
	timeout time.Duration
}

// begin returns a handle bound to a context that expires after the operation timeout.
func (s store) begin(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	var cancel context.CancelFunc
	if s.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	return s.db.WithContext(ctx), cancel
}

var errUserNotFound = errs.Errorf(errs.ENOTFOUND, "User not found.")

// usersExist returns a not-found error unless every id resolves to a user.
func usersExist(db *gorm.DB, ids ...uint) error {
	ids = uniqueIDs(ids)
	var n int64
	if err := db.Model(&models.User{}).Where("id IN ?", ids).Count(&n).Error; err != nil {
		return err
	}
	if n != int64(len(ids)) {
		return errUserNotFound
	}
	return nil
}

// lockUsers locks the users' rows for the rest of tx. It fails with NotFound
// when any id does not resolve.
func lockUsers(tx *gorm.DB, ids ...uint) error {
	ids = uniqueIDs(ids)
	var found []uint
	if err := lockedUsers(tx, ids).Pluck("id", &found).Error; err != nil {
		return err
	}
	if len(found) != len(ids) {
		return errUserNotFound
	}
	return nil
}

// lockedUsers selects ids FOR UPDATE in id order, so transactions locking the
// same pair queue instead of deadlocking. SQLite has no row locks and ignores
// the clause.
func lockedUsers(tx *gorm.DB, ids []uint) *gorm.DB {
	return tx.Model(&models.User{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id")
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// requireContent trims s and rejects empty text.
func requireContent(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errs.Errorf(errs.EINVALID, "Content must not be empty.")
	}
	return s, nil
}
