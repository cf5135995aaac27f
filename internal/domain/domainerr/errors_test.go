package domainerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_MatchesKind(t *testing.T) {
	err := New(ErrInsufficientStock, "requested %d, available %d", 6, 5)

	assert.True(t, errors.Is(err, ErrInsufficientStock))
	assert.False(t, errors.Is(err, ErrSameLocation))
	assert.Equal(t, "insufficient stock: requested 6, available 5", err.Error())
	assert.Equal(t, "requested 6, available 5", Detail(err))
	assert.Equal(t, "insufficient_stock", KindName(fmt.Errorf("wrapped: %w", err)))
}

func TestKindName_Foreign(t *testing.T) {
	assert.Equal(t, "", KindName(errors.New("db down")))
	assert.Equal(t, "db down", Detail(errors.New("db down")))
}
