package planner

import (
	"context"

	"github.com/yakir1992/todoapp/model"
)

// BindAuth fetches the window whenever an account signs in and clears it on
// sign-out. Fetch failures land in the store's state.
func BindAuth(ctx context.Context, store *Store, idp IdentityProvider) (unsubscribe func()) {
	return idp.OnAuthChange(func(account *model.Account) {
		if account == nil {
			store.Reset()
			return
		}
		store.logger.Debug("account signed in", "user_id", account.ID)
		_ = store.FetchTodos(ctx)
	})
}
