package repositories

import (
	"errors"
	"fmt"
	"testing"

	"github.com/AbhinavKRN/microsocial-native-assignment/internal/apperrors"
	"gorm.io/gorm"
)

func TestTranslateCreateUserError(t *testing.T) {
	// A unique-index violation on insert becomes the duplicate-user error,
	// so a concurrent duplicate registration is a 400 rather than a 500
	err := translateCreateUserError(gorm.ErrDuplicatedKey)
	if !errors.Is(err, apperrors.ErrDuplicateUser) {
		t.Fatalf("duplicated key translated to %v, want ErrDuplicateUser", err)
	}

	wrapped := fmt.Errorf("insert failed: %w", gorm.ErrDuplicatedKey)
	if err := translateCreateUserError(wrapped); !errors.Is(err, apperrors.ErrDuplicateUser) {
		t.Fatalf("wrapped duplicated key translated to %v, want ErrDuplicateUser", err)
	}

	// Anything else passes through untouched
	other := errors.New("connection reset")
	if err := translateCreateUserError(other); !errors.Is(err, other) {
		t.Fatalf("unrelated error translated to %v, want it unchanged", err)
	}
	if err := translateCreateUserError(nil); err != nil {
		t.Fatalf("nil error translated to %v, want nil", err)
	}
}
