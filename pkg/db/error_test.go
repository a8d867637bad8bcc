package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsDuplicateKeyErr(t *testing.T) {
	assert.False(t, IsDuplicateKeyErr(nil))
	assert.False(t, IsDuplicateKeyErr(errors.New("connection refused")))

	assert.True(t, IsDuplicateKeyErr(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicateKeyErr(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)))

	// Raw dialect messages for drivers that bypass gorm's translation.
	assert.True(t, IsDuplicateKeyErr(errors.New(`ERROR: duplicate key value violates unique constraint "companies_pkey"`)))
	assert.True(t, IsDuplicateKeyErr(errors.New("Error 1062: Duplicate entry 'co_1' for key 'PRIMARY'")))
	assert.True(t, IsDuplicateKeyErr(errors.New("UNIQUE constraint failed: companies.id")))
}
