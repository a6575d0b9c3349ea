package utils

import (
	"github.com/google/uuid"
)

// GenerateUserID returns a time-ordered id for new accounts.
func GenerateUserID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// GenerateID returns a random id for todos, sessions and requests.
func GenerateID() string {
	return uuid.NewString()
}
