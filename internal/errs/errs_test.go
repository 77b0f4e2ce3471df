package errs

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "", ErrorCode(nil))
	assert.Equal(t, ENOTFOUND, ErrorCode(Errorf(ENOTFOUND, "User not found.")))
	assert.Equal(t, EINVALID, ErrorCode(fmt.Errorf("wrapped: %w", Errorf(EINVALID, "bad"))))
	assert.Equal(t, EINTERNAL, ErrorCode(errors.New("boom")))
}

func TestErrorMessage_HidesUnknownErrors(t *testing.T) {
	assert.Equal(t, "User not found.", ErrorMessage(Errorf(ENOTFOUND, "User not found.")))
	assert.Equal(t, "Internal error.", ErrorMessage(errors.New("pq: connection refused")))
}

func TestFromStore(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"record not found", gorm.ErrRecordNotFound, ENOTFOUND},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), ETIMEDOUT},
		{"duplicate", gorm.ErrDuplicatedKey, EINVALID},
		{"other", errors.New("disk full"), EINTERNAL},
		{"already typed", Errorf(EFORBIDDEN, "no"), EFORBIDDEN},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, ErrorCode(FromStore(tt.err, "Post not found.")))
		})
	}
	assert.NoError(t, FromStore(nil, "x"))
	assert.Equal(t, "Post not found.", ErrorMessage(FromStore(gorm.ErrRecordNotFound, "Post not found.")))
}
