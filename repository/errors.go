package repository

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrTodoNotFound    = errors.New("todo not found")
	ErrIndexMissing    = errors.New("required index is missing")
	ErrUserIDRequired  = errors.New("user ID is required")
	ErrEmailExists     = errors.New("email already registered")
	ErrSessionNotFound = errors.New("session not found")
)

// IndexRemediation tells an operator how to provision the range-query index.
const IndexRemediation = `run db.todos.createIndex({user_id: 1, date: 1}, {name: "` + DateRangeIndexName +
	`"}) or restart the server with MONGO_SETUP_INDEXES=true`

// isIndexError matches the driver's wording for queries that need an index
// which does not exist. The driver exposes no dedicated code for a bad hint,
// so the message is the only signal.
func isIndexError(err error) bool {
	if err == nil || mongo.IsDuplicateKeyError(err) {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "index")
}
