package planner

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("query: %w", NewIndexMissing("needs index", ""))

	assert.Equal(t, KindIndexMissing, KindOf(wrapped))
	assert.Equal(t, KindNotAuthenticated, KindOf(ErrNotAuthenticated))
	assert.Equal(t, KindAuthFailure, KindOf(NewAuthFailure(ReasonWeakPassword, "")))
	assert.Equal(t, KindRemoteUnknown, KindOf(errors.New("plain")))
}

func TestAuthMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{NewAuthFailure(ReasonInvalidCredentials, "server said no"), "Invalid email or password"},
		{NewAuthFailure(ReasonWeakPassword, ""), "Password should be at least 6 characters"},
		{NewAuthFailure(ReasonEmailInUse, ""), "Email is already registered"},
		{NewAuthFailure(ReasonInvalidEmail, ""), "Invalid email format"},
		{NewAuthFailure(ReasonUnknown, ""), "Authentication failed"},
		{errors.New("network down"), "Authentication failed"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, AuthMessage(tt.err))
		})
	}
}

func TestErrorText(t *testing.T) {
	assert.Equal(t, "Email is already registered", NewAuthFailure(ReasonEmailInUse, "").Error())
	assert.Equal(t, "request failed: eof", NewRemoteUnknown("request failed", errors.New("eof")).Error())
	assert.Equal(t, DefaultIndexHint, NewIndexMissing("x", "").Hint)

	cause := errors.New("eof")
	assert.ErrorIs(t, NewRemoteUnknown("request failed", cause), cause)
}
