package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yakir1992/todoapp/model"
	"github.com/yakir1992/todoapp/test/testutils"
	"github.com/yakir1992/todoapp/utils"
)

func TestUsersAndSessions(t *testing.T) {
	db := testutils.MongoDB(t)
	ctx := context.Background()
	require.NoError(t, SetupIndexes(ctx, db, testDatabaseConfig()))

	users := GetUsersRepo(db, "users")
	sessions := GetSessionRepo(db, "sessions")

	user := &model.User{
		UserID:    utils.GenerateID(),
		Email:     " Test@Example.com ",
		Password:  "salt$hash",
		CreatedAt: time.Now().UTC(),
	}

	t.Run("AddUser", func(t *testing.T) {
		require.NoError(t, users.AddUser(ctx, user))
		assert.Equal(t, "test@example.com", user.Email)
	})

	t.Run("AddUser rejects a taken email", func(t *testing.T) {
		dup := &model.User{UserID: utils.GenerateID(), Email: "TEST@example.com", Password: "x$y"}
		assert.ErrorIs(t, users.AddUser(ctx, dup), ErrEmailExists)
	})

	t.Run("FindUserByEmail", func(t *testing.T) {
		found, err := users.FindUserByEmail(ctx, "test@EXAMPLE.com")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, user.UserID, found.UserID)

		missing, err := users.FindUserByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("session lifecycle", func(t *testing.T) {
		now := time.Now().UTC()
		session := &model.Session{
			SessionID:      utils.GenerateID(),
			UserID:         user.UserID,
			DisplayName:    "Chrome on macOS",
			CreatedAt:      now,
			ExpiresAt:      now.Add(time.Hour),
			LastActivityAt: now,
			IsActive:       true,
		}
		require.NoError(t, sessions.CreateSession(ctx, session))
		require.NoError(t, sessions.TouchSession(ctx, session.SessionID))

		active, err := sessions.GetUserActiveSessions(ctx, user.UserID)
		require.NoError(t, err)
		require.Len(t, active, 1)

		require.NoError(t, sessions.EndSession(ctx, session.SessionID, user.UserID))
		active, err = sessions.GetUserActiveSessions(ctx, user.UserID)
		require.NoError(t, err)
		assert.Empty(t, active)

		assert.ErrorIs(t, sessions.TouchSession(ctx, session.SessionID), ErrSessionNotFound)
	})
}
