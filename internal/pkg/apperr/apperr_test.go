package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "validation", err: Validation("bad input", map[string]string{"email": "invalid"}), want: KindValidation},
		{name: "not found", err: NotFound("project"), want: KindNotFound},
		{name: "permission", err: Permission("not the owner"), want: KindPermission},
		{name: "policy", err: Policy("too late"), want: KindPolicy},
		{name: "conflict", err: Conflict("duplicate email"), want: KindConflict},
		{name: "plain error", err: errors.New("boom"), want: KindUnknown},
		{name: "nil", err: nil, want: KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	inner := NotFound("project")
	wrapped := fmt.Errorf("get project: %w", inner)

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.True(t, Is(wrapped, KindNotFound))
	assert.False(t, Is(wrapped, KindPermission))
}

func TestValidation_Fields(t *testing.T) {
	err := Validation("invalid registration", map[string]string{
		"email":    "invalid email address",
		"password": "must be at least 8 characters",
	})

	var appErr *Error
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, "invalid email address", appErr.Fields["email"])
	assert.Equal(t, "invalid registration", appErr.Error())
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := errors.New("row locked")
	err := Wrap(KindConflict, "could not save", cause)

	assert.Equal(t, KindConflict, KindOf(err))
	assert.ErrorIs(t, err, cause)
}
