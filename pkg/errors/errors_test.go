package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindForbidden, KindOf(ErrNotMember))
	assert.Equal(t, KindInvariantViolation, KindOf(fmt.Errorf("leave group: %w", ErrLastAdmin)))
	assert.Equal(t, KindStoreFailure, KindOf(fmt.Errorf("boom")))
}

func TestSentinelSurvivesWrapping(t *testing.T) {
	wrapped := fmt.Errorf("remove member 4: %w", ErrLastAdmin)

	appErr, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.ErrorIs(t, wrapped, ErrLastAdmin)
	assert.NotErrorIs(t, wrapped, ErrNotMember)
}

func TestInvariantIsNotValidation(t *testing.T) {
	assert.Equal(t, ErrLastAdmin.Code, BadRequest("x").Code)
	assert.NotEqual(t, ErrLastAdmin.Kind, BadRequest("x").Kind)
}
