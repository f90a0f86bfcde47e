package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	domainservices "face-attendance/domain/services"
)

func TestTranslateCreateErrorUniqueViolation(t *testing.T) {
	err := translateCreateError(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey))
	assert.ErrorIs(t, err, domainservices.ErrDuplicateStudent)
}

func TestTranslateCreateErrorPassthrough(t *testing.T) {
	assert.NoError(t, translateCreateError(nil))

	cause := errors.New("connection reset")
	assert.Equal(t, cause, translateCreateError(cause))
}
